package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles accepted by the identity gate.
const (
	RolAdministrador = "Administrador"
	RolComercial     = "Comercial"
	RolInvitado      = "Invitado"
)

// Usuario stores system users with role-based access.
type Usuario struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Nombre          string    `gorm:"not null"`
	NombreUsuario   string    `gorm:"uniqueIndex;not null"`
	CarnetIdentidad string    `gorm:"type:varchar(11);uniqueIndex;not null"`
	Cargo           string    `gorm:"not null"`
	PasswordHash    string    `gorm:"not null"`
	Rol             string    `gorm:"type:varchar(20);not null"`
	Activo          bool      `gorm:"not null;default:true"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (u *Usuario) BeforeCreate(*gorm.DB) error {
	asignarID(&u.ID)
	return nil
}
