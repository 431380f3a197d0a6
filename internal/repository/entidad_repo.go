package repository

import (
	"context"

	"pactumsuite/internal/dto"
	"pactumsuite/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EntidadRepository interface {
	Create(ctx context.Context, e *model.Entidad) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Entidad, error)
	// FindByNombre and FindByConsecutivo return gorm.ErrRecordNotFound when
	// the value is free.
	FindByNombre(ctx context.Context, nombre string) (*model.Entidad, error)
	FindByConsecutivo(ctx context.Context, consecutivo string) (*model.Entidad, error)
	List(ctx context.Context, filter dto.EntidadFilter) ([]model.Entidad, int64, error)
	UpdateTx(tx *gorm.DB, e *model.Entidad) error
	Delete(ctx context.Context, id uuid.UUID) error

	DB() *gorm.DB
}

type entidadRepo struct{ db *gorm.DB }

func NewEntidadRepository(db *gorm.DB) EntidadRepository { return &entidadRepo{db: db} }

func (r *entidadRepo) DB() *gorm.DB { return r.db }

func (r *entidadRepo) Create(ctx context.Context, e *model.Entidad) error {
	return traducirError(r.db.WithContext(ctx).Create(e).Error)
}

func (r *entidadRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Entidad, error) {
	var e model.Entidad
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error
	return &e, err
}

func (r *entidadRepo) FindByNombre(ctx context.Context, nombre string) (*model.Entidad, error) {
	var e model.Entidad
	err := r.db.WithContext(ctx).Where("nombre = ?", nombre).First(&e).Error
	return &e, err
}

func (r *entidadRepo) FindByConsecutivo(ctx context.Context, consecutivo string) (*model.Entidad, error) {
	var e model.Entidad
	err := r.db.WithContext(ctx).Where("consecutivo = ?", consecutivo).First(&e).Error
	return &e, err
}

func (r *entidadRepo) List(ctx context.Context, filter dto.EntidadFilter) ([]model.Entidad, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Entidad{})
	if filter.Nombre != "" {
		q = q.Where("LOWER(nombre) LIKE LOWER(?)", "%"+filter.Nombre+"%")
	}
	if filter.Organismo != "" {
		q = q.Where("LOWER(organismo) LIKE LOWER(?)", "%"+filter.Organismo+"%")
	}
	if filter.TipoEntidad != "" {
		q = q.Where("LOWER(tipo_entidad) LIKE LOWER(?)", "%"+filter.TipoEntidad+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var entidades []model.Entidad
	err := paginar(q.Order("nombre ASC"), filter.Page, filter.Limit).Find(&entidades).Error
	return entidades, total, err
}

func (r *entidadRepo) UpdateTx(tx *gorm.DB, e *model.Entidad) error {
	return traducirError(conn(r.db, tx).Save(e).Error)
}

func (r *entidadRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return traducirError(r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Entidad{}).Error)
}
