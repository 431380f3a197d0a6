package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	Codigo       string          `json:"codigo"        validate:"required,min=1,max=50"`
	Nombre       string          `json:"nombre"        validate:"required,min=2,max=120"`
	UnidadMedida string          `json:"unidad_medida" validate:"required"`
	Precio       decimal.Decimal `json:"precio"        validate:"min=0"`
	Costo        decimal.Decimal `json:"costo"         validate:"min=0"`
	TipoProducto string          `json:"tipo_producto"`
	Nota         *string         `json:"nota"`
}

// ActualizarProductoRequest edits catalog fields only. Stock is moved through
// entradas, salidas and facturas.
type ActualizarProductoRequest struct {
	Nombre       *string          `json:"nombre"        validate:"omitempty,min=2,max=120"`
	UnidadMedida *string          `json:"unidad_medida" validate:"omitempty,min=1"`
	Precio       *decimal.Decimal `json:"precio"        validate:"omitempty,min=0"`
	Costo        *decimal.Decimal `json:"costo"         validate:"omitempty,min=0"`
	TipoProducto *string          `json:"tipo_producto" validate:"omitempty,min=1"`
	Nota         *string          `json:"nota"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductoFilter struct {
	Nombre       string `form:"nombre"`
	Codigo       string `form:"codigo"`
	TipoProducto string `form:"tipo_producto"`
	Page         int    `form:"page,default=1"   validate:"min=1"`
	Limit        int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID                 string          `json:"id"`
	Codigo             string          `json:"codigo"`
	Nombre             string          `json:"nombre"`
	UnidadMedida       string          `json:"unidad_medida"`
	Precio             decimal.Decimal `json:"precio"`
	Costo              decimal.Decimal `json:"costo"`
	TipoProducto       string          `json:"tipo_producto"`
	Nota               *string         `json:"nota"`
	CantidadExistencia decimal.Decimal `json:"cantidad_existencia"`
}

type ProductoListResponse struct {
	Data       []ProductoResponse `json:"data"`
	Paginacion Paginacion         `json:"paginacion"`
}

type MovimientoInventarioResponse struct {
	ID               string          `json:"id"`
	ProductoID       string          `json:"producto_id"`
	Origen           string          `json:"origen"`
	Cantidad         decimal.Decimal `json:"cantidad"`
	CantidadAnterior decimal.Decimal `json:"cantidad_anterior"`
	CantidadNueva    decimal.Decimal `json:"cantidad_nueva"`
	ReferenciaID     *string         `json:"referencia_id"`
	CreatedAt        string          `json:"created_at"`
}
