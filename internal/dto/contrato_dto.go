package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CrearContratoRequest names the counterpart either by EntidadID or by a
// free-text Entidad.
type CrearContratoRequest struct {
	NumConsecutivo    string  `json:"num_consecutivo"     validate:"required"`
	FechaInicio       string  `json:"fecha_inicio"        validate:"required"`
	FechaFin          *string `json:"fecha_fin"`
	ClienteOProveedor string  `json:"cliente_o_proveedor" validate:"required,oneof=Cliente Proveedor"`
	Entidad           string  `json:"entidad"             validate:"omitempty,min=2"`
	EntidadID         *string `json:"entidad_id"          validate:"omitempty,uuid"`
	Nota              *string `json:"nota"`
}

// ActualizarContratoRequest changes only the fields sent. An empty FechaFin
// clears it.
type ActualizarContratoRequest struct {
	NumConsecutivo    *string `json:"num_consecutivo"     validate:"omitempty,min=1"`
	FechaInicio       *string `json:"fecha_inicio"        validate:"omitempty,min=1"`
	FechaFin          *string `json:"fecha_fin"`
	ClienteOProveedor *string `json:"cliente_o_proveedor" validate:"omitempty,oneof=Cliente Proveedor"`
	Entidad           *string `json:"entidad"             validate:"omitempty,min=2"`
	EntidadID         *string `json:"entidad_id"          validate:"omitempty,uuid"`
	Nota              *string `json:"nota"`
}

type CrearTrabajadorRequest struct {
	Nombre          string  `json:"nombre"           validate:"required,min=2"`
	Apellidos       string  `json:"apellidos"        validate:"required,min=2"`
	CarnetIdentidad string  `json:"carnet_identidad" validate:"required,len=11,numeric"`
	Cargo           *string `json:"cargo"`
}

type ContratoFilter struct {
	ClienteOProveedor string `form:"cliente_o_proveedor" validate:"omitempty,oneof=Cliente Proveedor"`
	Entidad           string `form:"entidad"`
	Page              int    `form:"page,default=1"   validate:"min=1"`
	Limit             int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type TrabajadorResponse struct {
	ID              string  `json:"id"`
	ContratoID      string  `json:"contrato_id"`
	Nombre          string  `json:"nombre"`
	Apellidos       string  `json:"apellidos"`
	CarnetIdentidad string  `json:"carnet_identidad"`
	Cargo           *string `json:"cargo"`
}

type ContratoResponse struct {
	ID                string               `json:"id"`
	NumConsecutivo    string               `json:"num_consecutivo"`
	FechaInicio       string               `json:"fecha_inicio"`
	FechaFin          *string              `json:"fecha_fin"`
	ClienteOProveedor string               `json:"cliente_o_proveedor"`
	Entidad           string               `json:"entidad"`
	EntidadID         *string              `json:"entidad_id"`
	Nota              *string              `json:"nota"`
	Trabajadores      []TrabajadorResponse `json:"trabajadores"`
}

type ContratoListResponse struct {
	Data       []ContratoResponse `json:"data"`
	Paginacion Paginacion         `json:"paginacion"`
}
