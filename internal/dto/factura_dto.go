package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────
// Business rules (ranges, references, numbering) are checked by the service so
// every violation is reported together. Tags here only guard JSON shape.

type ServicioRequest struct {
	Descripcion  string          `json:"descripcion"`
	Importe      decimal.Decimal `json:"importe"`
	Cantidad     int             `json:"cantidad"`
	UnidadMedida string          `json:"unidad_medida"`
}

type FacturaProductoRequest struct {
	ProductoID string           `json:"producto_id"`
	Cantidad   decimal.Decimal  `json:"cantidad"`
	Precio     *decimal.Decimal `json:"precio"` // only honored on Proveedor contracts
	Costo      *decimal.Decimal `json:"costo"`  // only honored on Proveedor contracts
}

type CrearFacturaRequest struct {
	NumConsecutivo         *int                      `json:"num_consecutivo"`
	Fecha                  string                    `json:"fecha"`
	Estado                 string                    `json:"estado"`
	ContratoID             string                    `json:"contrato_id"`
	TrabajadorAutorizadoID *string                   `json:"trabajador_autorizado_id"`
	CargoAdicional         *decimal.Decimal          `json:"cargo_adicional"`
	Nota                   *string                   `json:"nota"`
	Servicios              *[]ServicioRequest        `json:"servicios"`
	Productos              *[]FacturaProductoRequest `json:"productos"`
}

// ActualizarFacturaRequest: nil means "leave unchanged". A non-nil Servicios or
// Productos fully replaces the current lines.
type ActualizarFacturaRequest struct {
	NumConsecutivo         *int                      `json:"num_consecutivo"`
	Fecha                  *string                   `json:"fecha"`
	Estado                 *string                   `json:"estado"`
	ContratoID             *string                   `json:"contrato_id"`
	TrabajadorAutorizadoID *string                   `json:"trabajador_autorizado_id"`
	UsuarioID              *string                   `json:"usuario_id"`
	CargoAdicional         *decimal.Decimal          `json:"cargo_adicional"`
	Nota                   *string                   `json:"nota"`
	Servicios              *[]ServicioRequest        `json:"servicios"`
	Productos              *[]FacturaProductoRequest `json:"productos"`
}

// ─── Filter ──────────────────────────────────────────────────────────────────

type FacturaFilter struct {
	ContratoID     string `form:"contrato_id"     validate:"omitempty,uuid"`
	TrabajadorID   string `form:"trabajador_id"   validate:"omitempty,uuid"`
	UsuarioID      string `form:"usuario_id"      validate:"omitempty,uuid"`
	NumConsecutivo int    `form:"num_consecutivo" validate:"min=0"`
	Estado         string `form:"estado"          validate:"omitempty,oneof=Facturado 'No Facturado' Cancelado"`
	FechaDesde     string `form:"fecha_desde"`
	FechaHasta     string `form:"fecha_hasta"`
	Page           int    `form:"page,default=1"   validate:"min=1"`
	Limit          int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ServicioResponse struct {
	ID           string          `json:"id"`
	Descripcion  string          `json:"descripcion"`
	Importe      decimal.Decimal `json:"importe"`
	Cantidad     int             `json:"cantidad"`
	UnidadMedida string          `json:"unidad_medida"`
}

type FacturaProductoResponse struct {
	ID          string          `json:"id"`
	ProductoID  string          `json:"producto_id"`
	Nombre      string          `json:"nombre,omitempty"`
	Cantidad    decimal.Decimal `json:"cantidad"`
	PrecioVenta decimal.Decimal `json:"precio_venta"`
	CostoVenta  decimal.Decimal `json:"costo_venta"`
}

// TotalesFactura: SumaGeneral = SumaServicios + SumaProductos. CargoAdicional is
// reported by callers on its own.
type TotalesFactura struct {
	SumaServicios decimal.Decimal `json:"suma_servicios"`
	SumaProductos decimal.Decimal `json:"suma_productos"`
	SumaCosto     decimal.Decimal `json:"suma_costo"`
	SumaGeneral   decimal.Decimal `json:"suma_general"`
}

type FacturaResponse struct {
	ID                     string                    `json:"id"`
	NumConsecutivo         int                       `json:"num_consecutivo"`
	Fecha                  string                    `json:"fecha"`
	Estado                 string                    `json:"estado"`
	ContratoID             string                    `json:"contrato_id"`
	ClienteOProveedor      string                    `json:"cliente_o_proveedor,omitempty"`
	Entidad                string                    `json:"entidad,omitempty"`
	TrabajadorAutorizadoID *string                   `json:"trabajador_autorizado_id"`
	UsuarioID              string                    `json:"usuario_id"`
	CargoAdicional         *decimal.Decimal          `json:"cargo_adicional"`
	Nota                   *string                   `json:"nota"`
	Servicios              []ServicioResponse        `json:"servicios"`
	Productos              []FacturaProductoResponse `json:"productos"`
	Totales                TotalesFactura            `json:"totales"`
}

// SumasFacturas aggregates SumaGeneral (+ CargoAdicional) over every invoice
// matching a filter, not only the current page.
type SumasFacturas struct {
	SumaCliente   decimal.Decimal `json:"suma_cliente"`
	SumaProveedor decimal.Decimal `json:"suma_proveedor"`
	SumaFacturado decimal.Decimal `json:"suma_facturado"`
	SumaGeneral   decimal.Decimal `json:"suma_general"`
}

type FacturaListResponse struct {
	Data       []FacturaResponse `json:"data"`
	Paginacion Paginacion        `json:"paginacion"`
	Sumas      SumasFacturas     `json:"sumas"`
}

type SiguienteConsecutivoResponse struct {
	Anio                 int    `json:"anio"`
	SiguienteConsecutivo int    `json:"siguiente_consecutivo"`
	Mensaje              string `json:"mensaje"`
}
