package repository

import (
	"context"

	"pactumsuite/internal/dto"
	"pactumsuite/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductoRepository defines the data access contract for products.
// CantidadExistencia is only written through SetCantidadTx, which the
// inventory ledger calls after locking the row with FindForUpdateTx.
type ProductoRepository interface {
	Create(ctx context.Context, p *model.Producto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	FindByCodigo(ctx context.Context, codigo string) (*model.Producto, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Producto, error)
	List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error)
	// UpdateCatalogo persists every field except CantidadExistencia.
	UpdateCatalogo(ctx context.Context, p *model.Producto) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ContarReferencias counts invoice lines, entries, stock-outs and ledger
	// rows that mention the product.
	ContarReferencias(ctx context.Context, id uuid.UUID) (int64, error)

	// Used inside transactions — callers must pass the tx instance
	FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Producto, error)
	SetCantidadTx(tx *gorm.DB, id uuid.UUID, cantidad decimal.Decimal) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) DB() *gorm.DB { return r.db }

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	return traducirError(r.db.WithContext(ctx).Create(p).Error)
}

func (r *productoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	return &p, err
}

func (r *productoRepo) FindByCodigo(ctx context.Context, codigo string) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).Where("codigo = ?", codigo).First(&p).Error
	return &p, err
}

func (r *productoRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Producto, error) {
	var productos []model.Producto
	if len(ids) == 0 {
		return productos, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&productos).Error
	return productos, err
}

func (r *productoRepo) List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	var productos []model.Producto
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Producto{})
	if filter.Codigo != "" {
		q = q.Where("codigo = ?", filter.Codigo)
	}
	if filter.Nombre != "" {
		q = q.Where("LOWER(nombre) LIKE LOWER(?)", "%"+filter.Nombre+"%")
	}
	if filter.TipoProducto != "" {
		q = q.Where("tipo_producto = ?", filter.TipoProducto)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginar(q.Order("nombre ASC"), filter.Page, filter.Limit).Find(&productos).Error
	return productos, total, err
}

func (r *productoRepo) UpdateCatalogo(ctx context.Context, p *model.Producto) error {
	return traducirError(r.db.WithContext(ctx).Model(p).
		Select("codigo", "nombre", "unidad_medida", "precio", "costo", "tipo_producto", "nota").
		Updates(p).Error)
}

func (r *productoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return traducirError(r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Producto{}).Error)
}

func (r *productoRepo) ContarReferencias(ctx context.Context, id uuid.UUID) (int64, error) {
	db := r.db.WithContext(ctx)
	var total int64
	for _, m := range []interface{}{
		&model.FacturaProducto{}, &model.Entrada{}, &model.Salida{}, &model.MovimientoInventario{},
	} {
		var n int64
		if err := db.Model(m).Where("producto_id = ?", id).Count(&n).Error; err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// FindForUpdateTx reads the product holding a row-level exclusive lock until
// the enclosing transaction ends.
func (r *productoRepo) FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := conn(r.db, tx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&p).Error
	return &p, err
}

func (r *productoRepo) SetCantidadTx(tx *gorm.DB, id uuid.UUID, cantidad decimal.Decimal) error {
	return conn(r.db, tx).Model(&model.Producto{}).Where("id = ?", id).
		Update("cantidad_existencia", cantidad).Error
}
