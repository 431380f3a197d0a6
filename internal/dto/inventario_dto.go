package dto

import "github.com/shopspring/decimal"

// ─── Entradas ────────────────────────────────────────────────────────────────

type CrearEntradaRequest struct {
	ProductoID      string          `json:"producto_id"      validate:"required,uuid"`
	FacturaID       *string         `json:"factura_id"       validate:"omitempty,uuid"`
	ContratoID      *string         `json:"contrato_id"      validate:"omitempty,uuid"`
	CantidadEntrada decimal.Decimal `json:"cantidad_entrada"`
	Costo           decimal.Decimal `json:"costo"`
	Nota            string          `json:"nota"`
	Fecha           string          `json:"fecha"`
}

type ActualizarEntradaRequest struct {
	ProductoID      *string          `json:"producto_id"      validate:"omitempty,uuid"`
	CantidadEntrada *decimal.Decimal `json:"cantidad_entrada"`
	Costo           *decimal.Decimal `json:"costo"`
	Nota            *string          `json:"nota"`
	Fecha           *string          `json:"fecha"`
}

type EntradaFilter struct {
	ProductoID string `form:"producto_id" validate:"omitempty,uuid"`
	FacturaID  string `form:"factura_id"  validate:"omitempty,uuid"`
	ContratoID string `form:"contrato_id" validate:"omitempty,uuid"`
	FechaDesde string `form:"fecha_desde"`
	FechaHasta string `form:"fecha_hasta"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=20" validate:"min=1,max=100"`
}

type EntradaResponse struct {
	ID              string          `json:"id"`
	ProductoID      string          `json:"producto_id"`
	FacturaID       *string         `json:"factura_id"`
	ContratoID      *string         `json:"contrato_id"`
	CantidadEntrada decimal.Decimal `json:"cantidad_entrada"`
	Costo           decimal.Decimal `json:"costo"`
	Nota            string          `json:"nota"`
	Fecha           string          `json:"fecha"`
}

type EntradaListResponse struct {
	Data       []EntradaResponse `json:"data"`
	Paginacion Paginacion        `json:"paginacion"`
}

// ─── Salidas ─────────────────────────────────────────────────────────────────

type CrearSalidaRequest struct {
	ProductoID  string          `json:"producto_id" validate:"required,uuid"`
	UsuarioID   string          `json:"usuario_id"  validate:"omitempty,uuid"` // defaults to the caller
	Fecha       string          `json:"fecha"`
	Descripcion string          `json:"descripcion"`
	Cantidad    decimal.Decimal `json:"cantidad"`
}

type ActualizarSalidaRequest struct {
	ProductoID  *string          `json:"producto_id" validate:"omitempty,uuid"`
	Fecha       *string          `json:"fecha"`
	Descripcion *string          `json:"descripcion"`
	Cantidad    *decimal.Decimal `json:"cantidad"`
}

type SalidaFilter struct {
	ProductoID string `form:"producto_id" validate:"omitempty,uuid"`
	UsuarioID  string `form:"usuario_id"  validate:"omitempty,uuid"`
	FechaDesde string `form:"fecha_desde"`
	FechaHasta string `form:"fecha_hasta"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=20" validate:"min=1,max=100"`
}

type SalidaResponse struct {
	ID          string          `json:"id"`
	ProductoID  string          `json:"producto_id"`
	UsuarioID   string          `json:"usuario_id"`
	Fecha       string          `json:"fecha"`
	Descripcion string          `json:"descripcion"`
	Cantidad    decimal.Decimal `json:"cantidad"`
}

type SalidaListResponse struct {
	Data       []SalidaResponse `json:"data"`
	Paginacion Paginacion       `json:"paginacion"`
}
