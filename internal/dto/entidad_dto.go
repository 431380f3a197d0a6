package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearEntidadRequest struct {
	Nombre         string  `json:"nombre"          validate:"required,min=2,max=150"`
	Consecutivo    *string `json:"consecutivo"     validate:"omitempty,max=50"`
	Direccion      *string `json:"direccion"`
	Telefono       *string `json:"telefono"        validate:"omitempty,max=30"`
	Email          *string `json:"email"           validate:"omitempty,email"`
	CuentaBancaria *string `json:"cuenta_bancaria"`
	Organismo      *string `json:"organismo"`
	TipoEntidad    *string `json:"tipo_entidad"`
}

// ActualizarEntidadRequest changes only the fields sent.
type ActualizarEntidadRequest struct {
	Nombre         *string `json:"nombre"          validate:"omitempty,min=2,max=150"`
	Consecutivo    *string `json:"consecutivo"     validate:"omitempty,max=50"`
	Direccion      *string `json:"direccion"`
	Telefono       *string `json:"telefono"        validate:"omitempty,max=30"`
	Email          *string `json:"email"           validate:"omitempty,email"`
	CuentaBancaria *string `json:"cuenta_bancaria"`
	Organismo      *string `json:"organismo"`
	TipoEntidad    *string `json:"tipo_entidad"`
}

type EntidadFilter struct {
	Nombre      string `form:"nombre"`
	Organismo   string `form:"organismo"`
	TipoEntidad string `form:"tipo_entidad"`
	Page        int    `form:"page,default=1"   validate:"min=1"`
	Limit       int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type EntidadResponse struct {
	ID             string  `json:"id"`
	Nombre         string  `json:"nombre"`
	Consecutivo    *string `json:"consecutivo"`
	Direccion      *string `json:"direccion"`
	Telefono       *string `json:"telefono"`
	Email          *string `json:"email"`
	CuentaBancaria *string `json:"cuenta_bancaria"`
	Organismo      *string `json:"organismo"`
	TipoEntidad    *string `json:"tipo_entidad"`
}

type EntidadListResponse struct {
	Data       []EntidadResponse `json:"data"`
	Paginacion Paginacion        `json:"paginacion"`
}
