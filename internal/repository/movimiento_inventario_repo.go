package repository

import (
	"context"

	"pactumsuite/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MovimientoInventarioRepository interface {
	CreateTx(tx *gorm.DB, m *model.MovimientoInventario) error
	ListByProducto(ctx context.Context, productoID uuid.UUID, page, limit int) ([]model.MovimientoInventario, int64, error)
}

type movimientoInventarioRepo struct{ db *gorm.DB }

func NewMovimientoInventarioRepository(db *gorm.DB) MovimientoInventarioRepository {
	return &movimientoInventarioRepo{db: db}
}

func (r *movimientoInventarioRepo) CreateTx(tx *gorm.DB, m *model.MovimientoInventario) error {
	return conn(r.db, tx).Create(m).Error
}

func (r *movimientoInventarioRepo) ListByProducto(ctx context.Context, productoID uuid.UUID, page, limit int) ([]model.MovimientoInventario, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.MovimientoInventario{}).
		Where("producto_id = ?", productoID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var movimientos []model.MovimientoInventario
	err := paginar(q.Order("created_at DESC"), page, limit).Find(&movimientos).Error
	return movimientos, total, err
}
