package infra

import (
	"fmt"

	"pactumsuite/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx. When autoMigrate is
// set it creates / updates all tables and applies the idempotent SQL patches
// GORM cannot express.
func NewDatabase(dsn string, autoMigrate bool, env string) (*gorm.DB, error) {
	level := logger.Silent
	if env == "development" {
		level = logger.Warn
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if autoMigrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// Migrate runs AutoMigrate for every model. Postgres additionally gets the
// schema patches; SQLite (tests) only needs the tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Entidad{},
		&model.Contrato{},
		&model.TrabajadorAutorizado{},
		&model.Producto{},
		&model.MovimientoInventario{},
		&model.Factura{},
		&model.Servicio{},
		&model.FacturaProducto{},
		&model.Entrada{},
		&model.Salida{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL statements that GORM AutoMigrate cannot
// handle on its own. Each statement is guarded so re-running is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// The ledger already refuses negative stock; the CHECK catches any writer
		// that bypasses it.
		{"check productos.cantidad_existencia >= 0", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_productos_cantidad_no_negativa') THEN
    ALTER TABLE productos
      ADD CONSTRAINT chk_productos_cantidad_no_negativa CHECK (cantidad_existencia >= 0);
  END IF;
END $$`},
		{"check facturas.cargo_adicional >= 0", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_facturas_cargo_adicional') THEN
    ALTER TABLE facturas
      ADD CONSTRAINT chk_facturas_cargo_adicional CHECK (cargo_adicional IS NULL OR cargo_adicional >= 0);
  END IF;
END $$`},
		{"check facturas.estado", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_facturas_estado') THEN
    ALTER TABLE facturas
      ADD CONSTRAINT chk_facturas_estado CHECK (estado IN ('Facturado', 'No Facturado', 'Cancelado'));
  END IF;
END $$`},
		// numbering lookups filter by number and a date range
		{"index facturas (num_consecutivo, fecha)",
			`CREATE INDEX IF NOT EXISTS idx_facturas_consecutivo_fecha ON facturas (num_consecutivo, fecha)`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
