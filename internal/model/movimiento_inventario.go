package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Origenes of an inventory movement.
const (
	OrigenFactura        = "factura"
	OrigenReversoFactura = "reverso_factura"
	// net effect of replacing an invoice's lines: old lines undone, new applied
	OrigenActualizacionFactura = "actualizacion_factura"
	OrigenEntrada              = "entrada"
	OrigenReversoEntrada       = "reverso_entrada"
	OrigenSalida               = "salida"
	OrigenReversoSalida        = "reverso_salida"
)

// MovimientoInventario records every change the ledger applies to a product.
type MovimientoInventario struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductoID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Origen           string          `gorm:"type:varchar(30);not null"`
	Cantidad         decimal.Decimal `gorm:"type:decimal(12,2);not null"` // positive = in, negative = out
	CantidadAnterior decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CantidadNueva    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ReferenciaID     *uuid.UUID      `gorm:"type:uuid;index"` // factura, entrada or salida
	CreatedAt        time.Time
}

func (m *MovimientoInventario) BeforeCreate(*gorm.DB) error {
	asignarID(&m.ID)
	return nil
}

// TableName overrides GORM's default pluralization.
func (MovimientoInventario) TableName() string { return "movimientos_inventario" }
