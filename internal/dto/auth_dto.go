package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	NombreUsuario string `json:"nombre_usuario" validate:"required,min=1"`
	Contrasenna   string `json:"contrasenna"    validate:"required,min=4"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type CrearUsuarioRequest struct {
	Nombre          string `json:"nombre"           validate:"required,min=2,max=100"`
	NombreUsuario   string `json:"nombre_usuario"   validate:"required,min=1,max=150"`
	CarnetIdentidad string `json:"carnet_identidad" validate:"required,len=11,numeric"`
	Cargo           string `json:"cargo"            validate:"required"`
	Contrasenna     string `json:"contrasenna"      validate:"required,min=8"`
	Rol             string `json:"rol"              validate:"required,oneof=Administrador Comercial Invitado"`
}

// ActualizarUsuarioRequest changes only the fields sent. A new Contrasenna is
// hashed like on creation.
type ActualizarUsuarioRequest struct {
	Nombre          *string `json:"nombre"           validate:"omitempty,min=2,max=100"`
	NombreUsuario   *string `json:"nombre_usuario"   validate:"omitempty,min=1,max=150"`
	CarnetIdentidad *string `json:"carnet_identidad" validate:"omitempty,len=11,numeric"`
	Cargo           *string `json:"cargo"            validate:"omitempty,min=1"`
	Contrasenna     *string `json:"contrasenna"      validate:"omitempty,min=8"`
	Rol             *string `json:"rol"              validate:"omitempty,oneof=Administrador Comercial Invitado"`
	Activo          *bool   `json:"activo"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UsuarioResponse struct {
	ID              string `json:"id"`
	Nombre          string `json:"nombre"`
	NombreUsuario   string `json:"nombre_usuario"`
	CarnetIdentidad string `json:"carnet_identidad"`
	Cargo           string `json:"cargo"`
	Rol             string `json:"rol"`
	Activo          bool   `json:"activo"`
}

type LoginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int             `json:"expires_in"` // seconds
	Usuario      UsuarioResponse `json:"usuario"`
}
