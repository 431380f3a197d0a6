package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Salida is a standalone stock-out not tied to an invoice.
type Salida struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductoID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	UsuarioID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Fecha       time.Time       `gorm:"not null"`
	Descripcion string          `gorm:"not null"`
	Cantidad    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (s *Salida) BeforeCreate(*gorm.DB) error {
	asignarID(&s.ID)
	return nil
}
