package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Contract roles. Inventory moves in opposite directions depending on the role.
const (
	RolCliente   = "Cliente"
	RolProveedor = "Proveedor"
)

// Contrato identifies a counterpart relationship.
// NumConsecutivo keeps the "<int>[/suffix]" format used on paper contracts.
// Entidad is the counterpart name; when EntidadID is set it mirrors that
// entity's Nombre.
type Contrato struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	NumConsecutivo    string    `gorm:"not null;index"`
	FechaInicio       time.Time `gorm:"not null"`
	FechaFin          *time.Time
	ClienteOProveedor string     `gorm:"type:varchar(10);not null;index"`
	Entidad           string     `gorm:"not null"`
	EntidadID         *uuid.UUID `gorm:"type:uuid;index"`
	Nota              *string
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Trabajadores []TrabajadorAutorizado `gorm:"foreignKey:ContratoID"`
}

func (c *Contrato) BeforeCreate(*gorm.DB) error {
	asignarID(&c.ID)
	return nil
}

// EsCliente reports whether invoices on this contract take goods out of stock.
func (c *Contrato) EsCliente() bool { return c.ClienteOProveedor == RolCliente }

// TrabajadorAutorizado is a person allowed to receive goods on behalf of a contract.
type TrabajadorAutorizado struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	ContratoID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Nombre          string    `gorm:"not null"`
	Apellidos       string    `gorm:"not null"`
	CarnetIdentidad string    `gorm:"type:varchar(11);not null"`
	Cargo           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (t *TrabajadorAutorizado) BeforeCreate(*gorm.DB) error {
	asignarID(&t.ID)
	return nil
}

// TableName overrides GORM's default pluralization (trabajador_autorizados → trabajadores_autorizados).
func (TrabajadorAutorizado) TableName() string { return "trabajadores_autorizados" }
