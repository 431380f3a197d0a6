package repository

import (
	"context"

	"pactumsuite/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EntradaRepository interface {
	CreateTx(tx *gorm.DB, e *model.Entrada) error
	CreateBatchTx(tx *gorm.DB, entradas []model.Entrada) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Entrada, error)
	FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Entrada, error)
	UpdateTx(tx *gorm.DB, e *model.Entrada) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
	DeleteByFacturaTx(tx *gorm.DB, facturaID uuid.UUID) error
	List(ctx context.Context, filtro EntradaFiltro) ([]model.Entrada, int64, error)
	DB() *gorm.DB
}

type entradaRepo struct{ db *gorm.DB }

func NewEntradaRepository(db *gorm.DB) EntradaRepository { return &entradaRepo{db: db} }

func (r *entradaRepo) DB() *gorm.DB { return r.db }

func (r *entradaRepo) CreateTx(tx *gorm.DB, e *model.Entrada) error {
	return traducirError(conn(r.db, tx).Omit(clause.Associations).Create(e).Error)
}

func (r *entradaRepo) CreateBatchTx(tx *gorm.DB, entradas []model.Entrada) error {
	if len(entradas) == 0 {
		return nil
	}
	return traducirError(conn(r.db, tx).Omit(clause.Associations).Create(&entradas).Error)
}

func (r *entradaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Entrada, error) {
	var e model.Entrada
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error
	return &e, err
}

func (r *entradaRepo) FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Entrada, error) {
	var e model.Entrada
	err := conn(r.db, tx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&e).Error
	return &e, err
}

func (r *entradaRepo) UpdateTx(tx *gorm.DB, e *model.Entrada) error {
	return traducirError(conn(r.db, tx).Omit(clause.Associations).Save(e).Error)
}

func (r *entradaRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return conn(r.db, tx).Where("id = ?", id).Delete(&model.Entrada{}).Error
}

func (r *entradaRepo) DeleteByFacturaTx(tx *gorm.DB, facturaID uuid.UUID) error {
	return conn(r.db, tx).Where("factura_id = ?", facturaID).Delete(&model.Entrada{}).Error
}

func (r *entradaRepo) List(ctx context.Context, f EntradaFiltro) ([]model.Entrada, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Entrada{})
	if f.ProductoID != nil {
		q = q.Where("producto_id = ?", *f.ProductoID)
	}
	if f.FacturaID != nil {
		q = q.Where("factura_id = ?", *f.FacturaID)
	}
	if f.ContratoID != nil {
		q = q.Where("contrato_id = ?", *f.ContratoID)
	}
	if f.Desde != nil {
		q = q.Where("fecha >= ?", *f.Desde)
	}
	if f.Hasta != nil {
		q = q.Where("fecha < ?", *f.Hasta)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entradas []model.Entrada
	err := paginar(q.Order("fecha DESC"), f.Page, f.Limit).Find(&entradas).Error
	return entradas, total, err
}
