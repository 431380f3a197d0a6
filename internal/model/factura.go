package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Invoice states.
const (
	EstadoFacturado   = "Facturado"
	EstadoNoFacturado = "No Facturado"
	EstadoCancelado   = "Cancelado"
)

// Factura is an invoice on a contract. It owns either Servicios or Productos, never both.
// UsuarioID is the signing user and cannot change after creation.
type Factura struct {
	ID                     uuid.UUID        `gorm:"type:uuid;primaryKey"`
	NumConsecutivo         int              `gorm:"not null;index"`
	Fecha                  time.Time        `gorm:"not null;index"`
	Estado                 string           `gorm:"type:varchar(20);not null;default:'No Facturado'"`
	ContratoID             uuid.UUID        `gorm:"type:uuid;not null;index"`
	TrabajadorAutorizadoID *uuid.UUID       `gorm:"type:uuid;index"`
	UsuarioID              uuid.UUID        `gorm:"type:uuid;not null;index"`
	CargoAdicional         *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Nota                   *string
	CreatedAt              time.Time
	UpdatedAt              time.Time

	Contrato             *Contrato             `gorm:"foreignKey:ContratoID"`
	TrabajadorAutorizado *TrabajadorAutorizado `gorm:"foreignKey:TrabajadorAutorizadoID"`
	Usuario              *Usuario              `gorm:"foreignKey:UsuarioID"`
	Servicios            []Servicio            `gorm:"foreignKey:FacturaID"`
	Productos            []FacturaProducto     `gorm:"foreignKey:FacturaID"`
}

func (f *Factura) BeforeCreate(*gorm.DB) error {
	asignarID(&f.ID)
	return nil
}

// Servicio is a service line of an invoice.
type Servicio struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	FacturaID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Descripcion  string          `gorm:"not null"`
	Importe      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Cantidad     int             `gorm:"not null"`
	UnidadMedida string          `gorm:"not null"`
	CreatedAt    time.Time
}

func (s *Servicio) BeforeCreate(*gorm.DB) error {
	asignarID(&s.ID)
	return nil
}

// FacturaProducto links an invoice with a product. PrecioVenta and CostoVenta
// are captured when the line is written so later catalog edits do not change
// historical invoices.
type FacturaProducto struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	FacturaID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Cantidad    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PrecioVenta decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CostoVenta  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt   time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (fp *FacturaProducto) BeforeCreate(*gorm.DB) error {
	asignarID(&fp.ID)
	return nil
}
