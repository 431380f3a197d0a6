package repository

import (
	"time"

	"github.com/google/uuid"
)

// FacturaFiltro is the parsed form of dto.FacturaFilter.
// Hasta is exclusive.
type FacturaFiltro struct {
	ContratoID     *uuid.UUID
	TrabajadorID   *uuid.UUID
	UsuarioID      *uuid.UUID
	NumConsecutivo int
	Estado         string
	Desde          *time.Time
	Hasta          *time.Time
	Page           int
	Limit          int
}

type EntradaFiltro struct {
	ProductoID *uuid.UUID
	FacturaID  *uuid.UUID
	ContratoID *uuid.UUID
	Desde      *time.Time
	Hasta      *time.Time
	Page       int
	Limit      int
}

type SalidaFiltro struct {
	ProductoID *uuid.UUID
	UsuarioID  *uuid.UUID
	Desde      *time.Time
	Hasta      *time.Time
	Page       int
	Limit      int
}
