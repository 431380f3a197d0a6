// Package testutil provides SQLite-backed databases and fixtures for tests
// that exercise repositories and transactions without Postgres.
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"pactumsuite/internal/infra"
	"pactumsuite/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory SQLite database with every table migrated.
// The database lives as long as the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%s?mode=memory&cache=shared", name, uuid.NewString()[:8])

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// shared-cache memory databases vanish with their last connection
	sqlDB.SetMaxIdleConns(4)
	sqlDB.SetConnMaxLifetime(0)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, infra.Migrate(db))
	return db
}

// D parses a decimal literal and panics on malformed input.
func D(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// Fecha parses YYYY-MM-DD as a UTC date.
func Fecha(t *testing.T, s string) time.Time {
	t.Helper()
	f, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return f
}

var carnets atomic.Int64

func Usuario(t *testing.T, db *gorm.DB, nombreUsuario, rol string) *model.Usuario {
	t.Helper()
	u := &model.Usuario{
		Nombre:          "Usuario " + nombreUsuario,
		NombreUsuario:   nombreUsuario,
		CarnetIdentidad: fmt.Sprintf("%011d", carnets.Add(1)),
		Cargo:           "Especialista",
		PasswordHash:    "x",
		Rol:             rol,
		Activo:          true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// Contrato creates a contract of the given role ("Cliente" or "Proveedor").
func Contrato(t *testing.T, db *gorm.DB, rol, num, inicio string) *model.Contrato {
	t.Helper()
	c := &model.Contrato{
		NumConsecutivo:    num,
		FechaInicio:       Fecha(t, inicio),
		ClienteOProveedor: rol,
		Entidad:           "Entidad " + num,
	}
	require.NoError(t, db.Omit("Trabajadores").Create(c).Error)
	return c
}

func Trabajador(t *testing.T, db *gorm.DB, contratoID uuid.UUID) *model.TrabajadorAutorizado {
	t.Helper()
	tr := &model.TrabajadorAutorizado{
		ContratoID:      contratoID,
		Nombre:          "Ana",
		Apellidos:       "Perez Diaz",
		CarnetIdentidad: "85010112345",
	}
	require.NoError(t, db.Create(tr).Error)
	return tr
}

// Producto creates a product and sets its stock directly, bypassing the ledger.
func Producto(t *testing.T, db *gorm.DB, codigo, precio, costo, stock string) *model.Producto {
	t.Helper()
	p := &model.Producto{
		Codigo:       codigo,
		Nombre:       "Producto " + codigo,
		UnidadMedida: "kg",
		Precio:       D(precio),
		Costo:        D(costo),
		TipoProducto: "Carne",
	}
	require.NoError(t, db.Create(p).Error)
	require.NoError(t, db.Model(&model.Producto{}).Where("id = ?", p.ID).
		Update("cantidad_existencia", D(stock)).Error)
	p.CantidadExistencia = D(stock)
	return p
}

// Stock reads the current quantity of a product.
func Stock(t *testing.T, db *gorm.DB, id uuid.UUID) decimal.Decimal {
	t.Helper()
	var p model.Producto
	require.NoError(t, db.Where("id = ?", id).First(&p).Error)
	return p.CantidadExistencia
}

// Contar returns the number of rows of model matching the condition.
func Contar(t *testing.T, db *gorm.DB, m interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(m).Where(query, args...).Count(&n).Error)
	return n
}
