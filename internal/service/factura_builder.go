package service

import (
	"context"
	"fmt"

	"pactumsuite/internal/dto"
	"pactumsuite/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	importeMaximo = decimal.RequireFromString("999999.99")
	msgExclusivas = "una factura no puede tener servicios y productos a la vez"
)

// validarServicios checks every service line and reports all violations.
func validarServicios(reqs []dto.ServicioRequest) []string {
	var errs []string
	for i, s := range reqs {
		pos := fmt.Sprintf("servicios[%d]", i)
		if s.Descripcion == "" {
			errs = append(errs, pos+": descripcion es obligatoria")
		}
		if s.Importe.IsNegative() || s.Importe.GreaterThan(importeMaximo) {
			errs = append(errs, pos+": importe debe estar entre 0 y 999999.99")
		}
		if s.Cantidad < 1 {
			errs = append(errs, pos+": cantidad debe ser un entero mayor o igual a 1")
		}
		if s.UnidadMedida == "" {
			errs = append(errs, pos+": unidad_medida es obligatoria")
		}
	}
	return errs
}

// validarProductos checks the shape of every product line and returns the
// parsed product ids in request order (uuid.Nil where invalid).
func validarProductos(reqs []dto.FacturaProductoRequest) ([]uuid.UUID, []string) {
	var errs []string
	ids := make([]uuid.UUID, len(reqs))
	for i, p := range reqs {
		pos := fmt.Sprintf("productos[%d]", i)
		id, err := uuid.Parse(p.ProductoID)
		if err != nil {
			errs = append(errs, pos+": producto_id invalido")
		}
		ids[i] = id
		if p.Cantidad.IsNegative() {
			errs = append(errs, pos+": cantidad no puede ser negativa")
		}
		if p.Precio != nil && p.Precio.IsNegative() {
			errs = append(errs, pos+": precio no puede ser negativo")
		}
		if p.Costo != nil && p.Costo.IsNegative() {
			errs = append(errs, pos+": costo no puede ser negativo")
		}
	}
	return ids, errs
}

func construirServicios(facturaID uuid.UUID, reqs []dto.ServicioRequest) []model.Servicio {
	servicios := make([]model.Servicio, 0, len(reqs))
	for _, s := range reqs {
		servicios = append(servicios, model.Servicio{
			FacturaID:    facturaID,
			Descripcion:  s.Descripcion,
			Importe:      s.Importe.Round(2),
			Cantidad:     s.Cantidad,
			UnidadMedida: s.UnidadMedida,
		})
	}
	return servicios
}

// prepararProductos loads the referenced products and captures sale price and
// cost for each line. Overrides are honored only on Proveedor contracts.
// disponibleExtra credits stock that the same transaction will give back
// before taking (an update reversing its own previous lines).
func (s *facturaService) prepararProductos(
	ctx context.Context,
	contrato *model.Contrato,
	ids []uuid.UUID,
	reqs []dto.FacturaProductoRequest,
	disponibleExtra map[uuid.UUID]decimal.Decimal,
) ([]model.FacturaProducto, error) {
	productos, err := s.productoRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	porID := make(map[uuid.UUID]*model.Producto, len(productos))
	for i := range productos {
		porID[productos[i].ID] = &productos[i]
	}

	requerido := make(map[uuid.UUID]decimal.Decimal)
	lineas := make([]model.FacturaProducto, 0, len(reqs))
	for i, req := range reqs {
		p, ok := porID[ids[i]]
		if !ok {
			return nil, fmt.Errorf("%w: producto %s", ErrReferenciaNoEncontrada, ids[i])
		}
		precio, costo := p.Precio, p.Costo
		if !contrato.EsCliente() {
			if req.Precio != nil {
				precio = *req.Precio
			}
			if req.Costo != nil {
				costo = *req.Costo
			}
		}
		cantidad := req.Cantidad.Round(2)
		lineas = append(lineas, model.FacturaProducto{
			ProductoID:  p.ID,
			Cantidad:    cantidad,
			PrecioVenta: precio.Round(2),
			CostoVenta:  costo.Round(2),
			Producto:    p,
		})
		requerido[p.ID] = requerido[p.ID].Add(cantidad)
	}

	// Advisory only: the authoritative check happens under the row lock.
	if contrato.EsCliente() {
		for id, cant := range requerido {
			p := porID[id]
			disponible := p.CantidadExistencia.Add(disponibleExtra[id])
			if disponible.LessThan(cant) {
				return nil, fmt.Errorf("%w: producto %q tiene %s, se requieren %s",
					ErrStockInsuficiente, p.Nombre, disponible.StringFixed(2), cant.StringFixed(2))
			}
		}
	}
	return lineas, nil
}

// movimientosFactura returns the ledger effect of product lines on a contract:
// Cliente invoices take stock out, Proveedor invoices bring it in. revertir
// flips the sign to undo a previous application.
func movimientosFactura(contrato *model.Contrato, lineas []model.FacturaProducto, revertir bool) []Movimiento {
	salida := contrato.EsCliente() != revertir
	movs := make([]Movimiento, 0, len(lineas))
	for _, l := range lineas {
		cant := l.Cantidad
		if salida {
			cant = cant.Neg()
		}
		movs = append(movs, Movimiento{ProductoID: l.ProductoID, Cantidad: cant})
	}
	return movs
}

// entradasFactura builds one inventory entry per line of a Proveedor invoice.
func entradasFactura(f *model.Factura, lineas []model.FacturaProducto) []model.Entrada {
	entradas := make([]model.Entrada, 0, len(lineas))
	facturaID, contratoID := f.ID, f.ContratoID
	for _, l := range lineas {
		entradas = append(entradas, model.Entrada{
			ID:              uuid.New(),
			ProductoID:      l.ProductoID,
			FacturaID:       &facturaID,
			ContratoID:      &contratoID,
			CantidadEntrada: l.Cantidad,
			Costo:           l.CostoVenta,
			Fecha:           ahora(),
		})
	}
	return entradas
}

// CalcularTotales sums an invoice's lines. Totals are rounded once at the end,
// not per line. CargoAdicional is not included.
func CalcularTotales(f *model.Factura) dto.TotalesFactura {
	servicios := decimal.Zero
	for _, s := range f.Servicios {
		servicios = servicios.Add(s.Importe.Mul(decimal.NewFromInt(int64(s.Cantidad))))
	}
	productos, costo := decimal.Zero, decimal.Zero
	for _, p := range f.Productos {
		productos = productos.Add(p.Cantidad.Mul(p.PrecioVenta))
		costo = costo.Add(p.Cantidad.Mul(p.CostoVenta))
	}
	return dto.TotalesFactura{
		SumaServicios: servicios.Round(2),
		SumaProductos: productos.Round(2),
		SumaCosto:     costo.Round(2),
		SumaGeneral:   servicios.Add(productos).Round(2),
	}
}
