package infra

import (
	"fmt"
	"io"

	"pactumsuite/internal/dto"

	"github.com/xuri/excelize/v2"
)

const hojaFacturas = "Facturas"

var columnasFacturas = []string{
	"No.", "Fecha", "Estado", "Tipo", "Entidad",
	"Servicios", "Productos", "Costo", "Cargo adicional", "Total",
}

// ExportarFacturasXLSX writes one row per invoice followed by the filter sums.
func ExportarFacturasXLSX(w io.Writer, facturas []dto.FacturaResponse, sumas dto.SumasFacturas) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", hojaFacturas); err != nil {
		return err
	}

	for i, col := range columnasFacturas {
		celda, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(hojaFacturas, celda, col); err != nil {
			return err
		}
	}
	negrita, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	ultima, _ := excelize.CoordinatesToCellName(len(columnasFacturas), 1)
	if err := f.SetCellStyle(hojaFacturas, "A1", ultima, negrita); err != nil {
		return err
	}

	fila := 2
	for _, fa := range facturas {
		cargo := 0.0
		total := fa.Totales.SumaGeneral
		if fa.CargoAdicional != nil {
			cargo = fa.CargoAdicional.InexactFloat64()
			total = total.Add(*fa.CargoAdicional)
		}
		valores := []interface{}{
			fa.NumConsecutivo, fa.Fecha, fa.Estado, fa.ClienteOProveedor, fa.Entidad,
			fa.Totales.SumaServicios.InexactFloat64(),
			fa.Totales.SumaProductos.InexactFloat64(),
			fa.Totales.SumaCosto.InexactFloat64(),
			cargo,
			total.InexactFloat64(),
		}
		celda, _ := excelize.CoordinatesToCellName(1, fila)
		if err := f.SetSheetRow(hojaFacturas, celda, &valores); err != nil {
			return fmt.Errorf("xlsx: fila %d: %w", fila, err)
		}
		fila++
	}

	fila++
	resumen := [][]interface{}{
		{"Suma clientes", sumas.SumaCliente.InexactFloat64()},
		{"Suma proveedores", sumas.SumaProveedor.InexactFloat64()},
		{"Suma facturado", sumas.SumaFacturado.InexactFloat64()},
		{"Suma general", sumas.SumaGeneral.InexactFloat64()},
	}
	for _, r := range resumen {
		celda, _ := excelize.CoordinatesToCellName(len(columnasFacturas)-1, fila)
		if err := f.SetSheetRow(hojaFacturas, celda, &r); err != nil {
			return err
		}
		fila++
	}

	_, err = f.WriteTo(w)
	return err
}
