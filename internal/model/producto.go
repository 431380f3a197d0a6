package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Producto is a stock-keeping item.
// CantidadExistencia is only ever written by the inventory ledger.
type Producto struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Codigo             string          `gorm:"uniqueIndex;not null"`
	Nombre             string          `gorm:"index;not null"`
	UnidadMedida       string          `gorm:"not null;default:'unidad'"`
	Precio             decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Costo              decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TipoProducto       string          `gorm:"not null;default:'Carne'"`
	Nota               *string
	CantidadExistencia decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (p *Producto) BeforeCreate(*gorm.DB) error {
	asignarID(&p.ID)
	return nil
}
