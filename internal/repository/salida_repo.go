package repository

import (
	"context"

	"pactumsuite/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SalidaRepository interface {
	CreateTx(tx *gorm.DB, s *model.Salida) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Salida, error)
	FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Salida, error)
	UpdateTx(tx *gorm.DB, s *model.Salida) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
	List(ctx context.Context, filtro SalidaFiltro) ([]model.Salida, int64, error)
	DB() *gorm.DB
}

type salidaRepo struct{ db *gorm.DB }

func NewSalidaRepository(db *gorm.DB) SalidaRepository { return &salidaRepo{db: db} }

func (r *salidaRepo) DB() *gorm.DB { return r.db }

func (r *salidaRepo) CreateTx(tx *gorm.DB, s *model.Salida) error {
	return traducirError(conn(r.db, tx).Omit(clause.Associations).Create(s).Error)
}

func (r *salidaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Salida, error) {
	var s model.Salida
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error
	return &s, err
}

func (r *salidaRepo) FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Salida, error) {
	var s model.Salida
	err := conn(r.db, tx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&s).Error
	return &s, err
}

func (r *salidaRepo) UpdateTx(tx *gorm.DB, s *model.Salida) error {
	return traducirError(conn(r.db, tx).Omit(clause.Associations).Save(s).Error)
}

func (r *salidaRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return conn(r.db, tx).Where("id = ?", id).Delete(&model.Salida{}).Error
}

func (r *salidaRepo) List(ctx context.Context, f SalidaFiltro) ([]model.Salida, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Salida{})
	if f.ProductoID != nil {
		q = q.Where("producto_id = ?", *f.ProductoID)
	}
	if f.UsuarioID != nil {
		q = q.Where("usuario_id = ?", *f.UsuarioID)
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

	var salidas []model.Salida
	err := paginar(q.Order("fecha DESC"), f.Page, f.Limit).Find(&salidas).Error
	return salidas, total, err
}
