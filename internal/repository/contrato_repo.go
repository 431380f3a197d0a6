package repository

import (
	"context"
	"time"

	"pactumsuite/internal/dto"
	"pactumsuite/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ContratoRepository interface {
	Create(ctx context.Context, c *model.Contrato) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Contrato, error)
	List(ctx context.Context, filter dto.ContratoFilter) ([]model.Contrato, int64, error)
	// FindForUpdateTx locks the contract row. On Postgres that also waits for
	// transactions inserting invoices on it, through their foreign key lock.
	FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Contrato, error)
	UpdateTx(tx *gorm.DB, c *model.Contrato) error
	// DeleteTx removes the contract and its authorized workers.
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
	// NumerosCliente returns the numbers of Cliente contracts starting in
	// [desde, hasta), leaving out excluir when given.
	NumerosCliente(ctx context.Context, desde, hasta time.Time, excluir *uuid.UUID) ([]string, error)
	// VencenEntre returns contracts whose FechaFin falls in [desde, hasta],
	// soonest first.
	VencenEntre(ctx context.Context, desde, hasta time.Time) ([]model.Contrato, error)
	ContarFacturasTx(tx *gorm.DB, id uuid.UUID) (int64, error)
	ContarPorEntidad(ctx context.Context, entidadID uuid.UUID) (int64, error)
	// RenombrarEntidadTx refreshes the counterpart name copied on linked contracts.
	RenombrarEntidadTx(tx *gorm.DB, entidadID uuid.UUID, nombre string) error

	CreateTrabajador(ctx context.Context, t *model.TrabajadorAutorizado) error
	FindTrabajadorByID(ctx context.Context, id uuid.UUID) (*model.TrabajadorAutorizado, error)

	DB() *gorm.DB
}

type contratoRepo struct{ db *gorm.DB }

func NewContratoRepository(db *gorm.DB) ContratoRepository { return &contratoRepo{db: db} }

func (r *contratoRepo) DB() *gorm.DB { return r.db }

func (r *contratoRepo) Create(ctx context.Context, c *model.Contrato) error {
	return traducirError(r.db.WithContext(ctx).Omit("Trabajadores").Create(c).Error)
}

func (r *contratoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Contrato, error) {
	var c model.Contrato
	err := r.db.WithContext(ctx).Preload("Trabajadores").Where("id = ?", id).First(&c).Error
	return &c, err
}

func (r *contratoRepo) List(ctx context.Context, filter dto.ContratoFilter) ([]model.Contrato, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Contrato{})
	if filter.ClienteOProveedor != "" {
		q = q.Where("cliente_o_proveedor = ?", filter.ClienteOProveedor)
	}
	if filter.Entidad != "" {
		q = q.Where("LOWER(entidad) LIKE LOWER(?)", "%"+filter.Entidad+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var contratos []model.Contrato
	err := paginar(q.Preload("Trabajadores").Order("fecha_inicio DESC"), filter.Page, filter.Limit).
		Find(&contratos).Error
	return contratos, total, err
}

func (r *contratoRepo) FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Contrato, error) {
	var c model.Contrato
	err := conn(r.db, tx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&c).Error
	return &c, err
}

func (r *contratoRepo) UpdateTx(tx *gorm.DB, c *model.Contrato) error {
	return traducirError(conn(r.db, tx).Omit(clause.Associations).Save(c).Error)
}

func (r *contratoRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	db := conn(r.db, tx)
	if err := db.Where("contrato_id = ?", id).Delete(&model.TrabajadorAutorizado{}).Error; err != nil {
		return err
	}
	return traducirError(db.Where("id = ?", id).Delete(&model.Contrato{}).Error)
}

func (r *contratoRepo) NumerosCliente(ctx context.Context, desde, hasta time.Time, excluir *uuid.UUID) ([]string, error) {
	q := r.db.WithContext(ctx).Model(&model.Contrato{}).
		Where("cliente_o_proveedor = ? AND fecha_inicio >= ? AND fecha_inicio < ?", model.RolCliente, desde, hasta)
	if excluir != nil {
		q = q.Where("id <> ?", *excluir)
	}
	var numeros []string
	err := q.Pluck("num_consecutivo", &numeros).Error
	return numeros, err
}

func (r *contratoRepo) VencenEntre(ctx context.Context, desde, hasta time.Time) ([]model.Contrato, error) {
	var contratos []model.Contrato
	err := r.db.WithContext(ctx).Preload("Trabajadores").
		Where("fecha_fin IS NOT NULL AND fecha_fin >= ? AND fecha_fin <= ?", desde, hasta).
		Order("fecha_fin ASC").
		Find(&contratos).Error
	return contratos, err
}

func (r *contratoRepo) ContarFacturasTx(tx *gorm.DB, id uuid.UUID) (int64, error) {
	var n int64
	err := conn(r.db, tx).Model(&model.Factura{}).Where("contrato_id = ?", id).Count(&n).Error
	return n, err
}

func (r *contratoRepo) ContarPorEntidad(ctx context.Context, entidadID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Contrato{}).Where("entidad_id = ?", entidadID).Count(&n).Error
	return n, err
}

func (r *contratoRepo) RenombrarEntidadTx(tx *gorm.DB, entidadID uuid.UUID, nombre string) error {
	return conn(r.db, tx).Model(&model.Contrato{}).Where("entidad_id = ?", entidadID).
		Update("entidad", nombre).Error
}

func (r *contratoRepo) CreateTrabajador(ctx context.Context, t *model.TrabajadorAutorizado) error {
	return traducirError(r.db.WithContext(ctx).Create(t).Error)
}

func (r *contratoRepo) FindTrabajadorByID(ctx context.Context, id uuid.UUID) (*model.TrabajadorAutorizado, error) {
	var t model.TrabajadorAutorizado
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	return &t, err
}
