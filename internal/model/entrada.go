package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Entrada records stock arriving. Entries created by supplier invoices carry
// both FacturaID and ContratoID; standalone entries carry neither and a Nota.
type Entrada struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductoID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	FacturaID       *uuid.UUID      `gorm:"type:uuid;index"`
	ContratoID      *uuid.UUID      `gorm:"type:uuid;index"`
	CantidadEntrada decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Costo           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Nota            string
	Fecha           time.Time `gorm:"not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (e *Entrada) BeforeCreate(*gorm.DB) error {
	asignarID(&e.ID)
	return nil
}
