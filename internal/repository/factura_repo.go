package repository

import (
	"context"
	"fmt"
	"time"

	"pactumsuite/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FacturaRepository owns invoices and their line tables (servicios,
// factura_productos). Mutations only run inside a transaction opened by the
// service; reads accept an optional tx so checks can be repeated under it.
type FacturaRepository interface {
	CreateTx(tx *gorm.DB, f *model.Factura) error
	UpdateTx(tx *gorm.DB, f *model.Factura) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Factura, error)
	FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Factura, error)
	List(ctx context.Context, filtro FacturaFiltro) ([]model.Factura, int64, error)
	ListAll(ctx context.Context, filtro FacturaFiltro) ([]model.Factura, error)

	// ConsecutivoCliente returns the first invoice on a Cliente contract with
	// the given number dated in [desde, hasta), or nil when there is none.
	ConsecutivoCliente(ctx context.Context, tx *gorm.DB, num int, desde, hasta time.Time, excluir *uuid.UUID) (*model.Factura, error)
	// BloquearConsecutivoTx holds a transaction-scoped lock on an invoice
	// number of a year until tx ends.
	BloquearConsecutivoTx(tx *gorm.DB, anio, num int) error
	// MaxConsecutivo returns 0 when no invoice is dated in [desde, hasta).
	MaxConsecutivo(ctx context.Context, desde, hasta time.Time) (int, error)

	CreateServiciosTx(tx *gorm.DB, servicios []model.Servicio) error
	DeleteServiciosTx(tx *gorm.DB, facturaID uuid.UUID) error
	CreateProductosTx(tx *gorm.DB, lineas []model.FacturaProducto) error
	FindProductosTx(tx *gorm.DB, facturaID uuid.UUID) ([]model.FacturaProducto, error)
	DeleteProductosTx(tx *gorm.DB, facturaID uuid.UUID) error

	DB() *gorm.DB
}

type facturaRepo struct{ db *gorm.DB }

func NewFacturaRepository(db *gorm.DB) FacturaRepository { return &facturaRepo{db: db} }

func (r *facturaRepo) DB() *gorm.DB { return r.db }

func (r *facturaRepo) CreateTx(tx *gorm.DB, f *model.Factura) error {
	return traducirError(conn(r.db, tx).Omit(clause.Associations).Create(f).Error)
}

func (r *facturaRepo) UpdateTx(tx *gorm.DB, f *model.Factura) error {
	return traducirError(conn(r.db, tx).Omit(clause.Associations).Save(f).Error)
}

func (r *facturaRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return conn(r.db, tx).Where("id = ?", id).Delete(&model.Factura{}).Error
}

func (r *facturaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Factura, error) {
	var f model.Factura
	err := r.conDetalle(r.db.WithContext(ctx)).Where("id = ?", id).First(&f).Error
	return &f, err
}

func (r *facturaRepo) FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Factura, error) {
	var f model.Factura
	err := conn(r.db, tx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&f).Error
	return &f, err
}

func (r *facturaRepo) List(ctx context.Context, filtro FacturaFiltro) ([]model.Factura, int64, error) {
	q := r.filtrar(r.db.WithContext(ctx).Model(&model.Factura{}), filtro)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var facturas []model.Factura
	err := paginar(r.conDetalle(q).Order("fecha DESC, num_consecutivo DESC"), filtro.Page, filtro.Limit).
		Find(&facturas).Error
	return facturas, total, err
}

func (r *facturaRepo) ListAll(ctx context.Context, filtro FacturaFiltro) ([]model.Factura, error) {
	var facturas []model.Factura
	q := r.filtrar(r.db.WithContext(ctx).Model(&model.Factura{}), filtro)
	err := r.conDetalle(q).Order("fecha ASC, num_consecutivo ASC").Find(&facturas).Error
	return facturas, err
}

func (r *facturaRepo) ConsecutivoCliente(ctx context.Context, tx *gorm.DB, num int, desde, hasta time.Time, excluir *uuid.UUID) (*model.Factura, error) {
	q := conn(r.db.WithContext(ctx), tx).Model(&model.Factura{}).
		Select("facturas.*").
		Joins("JOIN contratos ON contratos.id = facturas.contrato_id").
		Where("contratos.cliente_o_proveedor = ?", model.RolCliente).
		Where("facturas.num_consecutivo = ? AND facturas.fecha >= ? AND facturas.fecha < ?", num, desde, hasta)
	if excluir != nil {
		q = q.Where("facturas.id <> ?", *excluir)
	}

	var encontradas []model.Factura
	if err := q.Order("facturas.fecha ASC").Limit(1).Find(&encontradas).Error; err != nil {
		return nil, err
	}
	if len(encontradas) == 0 {
		return nil, nil
	}
	return &encontradas[0], nil
}

// BloquearConsecutivoTx uses a Postgres advisory lock: no row exists yet for
// the number being written, and invariant checks span contratos and facturas
// so no unique index can express them. SQLite serializes writers by itself.
func (r *facturaRepo) BloquearConsecutivoTx(tx *gorm.DB, anio, num int) error {
	db := conn(r.db, tx)
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	return db.Exec("SELECT pg_advisory_xact_lock(hashtext(?), CAST(? AS integer))",
		fmt.Sprintf("factura_consecutivo:%d", anio), num).Error
}

func (r *facturaRepo) MaxConsecutivo(ctx context.Context, desde, hasta time.Time) (int, error) {
	var maximo int
	err := r.db.WithContext(ctx).Model(&model.Factura{}).
		Where("fecha >= ? AND fecha < ?", desde, hasta).
		Select("COALESCE(MAX(num_consecutivo), 0)").
		Scan(&maximo).Error
	return maximo, err
}

func (r *facturaRepo) CreateServiciosTx(tx *gorm.DB, servicios []model.Servicio) error {
	if len(servicios) == 0 {
		return nil
	}
	return conn(r.db, tx).Create(&servicios).Error
}

func (r *facturaRepo) DeleteServiciosTx(tx *gorm.DB, facturaID uuid.UUID) error {
	return conn(r.db, tx).Where("factura_id = ?", facturaID).Delete(&model.Servicio{}).Error
}

func (r *facturaRepo) CreateProductosTx(tx *gorm.DB, lineas []model.FacturaProducto) error {
	if len(lineas) == 0 {
		return nil
	}
	return traducirError(conn(r.db, tx).Omit("Producto").Create(&lineas).Error)
}

func (r *facturaRepo) FindProductosTx(tx *gorm.DB, facturaID uuid.UUID) ([]model.FacturaProducto, error) {
	var lineas []model.FacturaProducto
	err := conn(r.db, tx).Where("factura_id = ?", facturaID).Find(&lineas).Error
	return lineas, err
}

func (r *facturaRepo) DeleteProductosTx(tx *gorm.DB, facturaID uuid.UUID) error {
	return conn(r.db, tx).Where("factura_id = ?", facturaID).Delete(&model.FacturaProducto{}).Error
}

func (r *facturaRepo) conDetalle(q *gorm.DB) *gorm.DB {
	return q.Preload("Contrato").
		Preload("TrabajadorAutorizado").
		Preload("Servicios").
		Preload("Productos.Producto")
}

func (r *facturaRepo) filtrar(q *gorm.DB, f FacturaFiltro) *gorm.DB {
	if f.ContratoID != nil {
		q = q.Where("contrato_id = ?", *f.ContratoID)
	}
	if f.TrabajadorID != nil {
		q = q.Where("trabajador_autorizado_id = ?", *f.TrabajadorID)
	}
	if f.UsuarioID != nil {
		q = q.Where("usuario_id = ?", *f.UsuarioID)
	}
	if f.NumConsecutivo > 0 {
		q = q.Where("num_consecutivo = ?", f.NumConsecutivo)
	}
	if f.Estado != "" {
		q = q.Where("estado = ?", f.Estado)
	}
	if f.Desde != nil {
		q = q.Where("fecha >= ?", *f.Desde)
	}
	if f.Hasta != nil {
		q = q.Where("fecha < ?", *f.Hasta)
	}
	return q
}
