package infra

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"pactumsuite/internal/dto"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func facturaConProductos() *dto.FacturaResponse {
	cargo := decimal.NewFromInt(5)
	nota := "Entrega en almacén central"
	return &dto.FacturaResponse{
		ID:                "0f6d1c3a-8d0e-4d5b-9a57-3c1de4b1f001",
		NumConsecutivo:    12,
		Fecha:             "2025-06-30",
		Estado:            "Facturado",
		ClienteOProveedor: "Cliente",
		Entidad:           "Cárnicos del Este",
		CargoAdicional:    &cargo,
		Nota:              &nota,
		Productos: []dto.FacturaProductoResponse{
			{ProductoID: "p1", Nombre: strings.Repeat("Lomo ahumado ", 6), Cantidad: decimal.NewFromInt(4), PrecioVenta: decimal.NewFromInt(20), CostoVenta: decimal.NewFromInt(12)},
		},
		Totales: dto.TotalesFactura{
			SumaProductos: decimal.NewFromInt(80),
			SumaCosto:     decimal.NewFromInt(48),
			SumaGeneral:   decimal.NewFromInt(80),
		},
	}
}

func TestEscribirFacturaPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EscribirFacturaPDF(&buf, "Pactum", facturaConProductos()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
	assert.Greater(t, buf.Len(), 500)
}

func TestGuardarFacturaPDF_CreaDirectorio(t *testing.T) {
	dir := t.TempDir() + "/anidado/pdfs"
	f := facturaConProductos()

	ruta, err := GuardarFacturaPDF(dir, "Pactum", f)
	require.NoError(t, err)
	assert.Equal(t, RutaFacturaPDF(dir, f.ID), ruta)

	info, err := os.Stat(ruta)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestRecortar(t *testing.T) {
	assert.Equal(t, "corto", recortar("corto", 10))
	assert.Len(t, []rune(recortar(strings.Repeat("ñ", 60), 48)), 48)
}

func TestExportarFacturasXLSX(t *testing.T) {
	sumas := dto.SumasFacturas{
		SumaCliente:   decimal.NewFromInt(85),
		SumaFacturado: decimal.NewFromInt(85),
		SumaGeneral:   decimal.NewFromInt(85),
	}
	var buf bytes.Buffer
	require.NoError(t, ExportarFacturasXLSX(&buf, []dto.FacturaResponse{*facturaConProductos()}, sumas))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	filas, err := f.GetRows(hojaFacturas)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(filas), 2)
	assert.Equal(t, columnasFacturas, filas[0])
	assert.Equal(t, "12", filas[1][0])
	assert.Equal(t, "Cárnicos del Este", filas[1][4])

	total, err := f.GetCellValue(hojaFacturas, "J2")
	require.NoError(t, err)
	assert.Equal(t, "85", total, "total includes the additional charge")

	etiqueta, err := f.GetCellValue(hojaFacturas, "I4")
	require.NoError(t, err)
	assert.Equal(t, "Suma clientes", etiqueta)
	valor, err := f.GetCellValue(hojaFacturas, "J4")
	require.NoError(t, err)
	assert.Equal(t, "85", valor)
}
