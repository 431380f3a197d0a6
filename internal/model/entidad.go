package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Entidad is a counterpart organization. Nombre and Consecutivo are unique;
// contracts linked to it keep a copy of Nombre.
type Entidad struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Nombre         string    `gorm:"uniqueIndex;not null"`
	Consecutivo    *string   `gorm:"uniqueIndex"`
	Direccion      *string
	Telefono       *string
	Email          *string
	CuentaBancaria *string `gorm:"type:varchar(20)"`
	Organismo      *string
	TipoEntidad    *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (e *Entidad) BeforeCreate(*gorm.DB) error {
	asignarID(&e.ID)
	return nil
}

// TableName overrides GORM's default pluralization (entidads → entidades).
func (Entidad) TableName() string { return "entidades" }
