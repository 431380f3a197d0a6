package repository

import (
	"context"

	"pactumsuite/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UsuarioRepository interface {
	Create(ctx context.Context, u *model.Usuario) error
	FindByNombreUsuario(ctx context.Context, nombreUsuario string) (*model.Usuario, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error)
	List(ctx context.Context) ([]model.Usuario, error)
	Update(ctx context.Context, u *model.Usuario) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ContarReferencias counts the invoices signed and stock-outs recorded by
	// the user.
	ContarReferencias(ctx context.Context, id uuid.UUID) (int64, error)
}

type usuarioRepo struct{ db *gorm.DB }

func NewUsuarioRepository(db *gorm.DB) UsuarioRepository { return &usuarioRepo{db: db} }

func (r *usuarioRepo) Create(ctx context.Context, u *model.Usuario) error {
	return traducirError(r.db.WithContext(ctx).Create(u).Error)
}

func (r *usuarioRepo) FindByNombreUsuario(ctx context.Context, nombreUsuario string) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).
		Where("nombre_usuario = ? AND activo = ?", nombreUsuario, true).
		First(&u).Error
	return &u, err
}

func (r *usuarioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	return &u, err
}

func (r *usuarioRepo) List(ctx context.Context) ([]model.Usuario, error) {
	var users []model.Usuario
	err := r.db.WithContext(ctx).Order("nombre ASC").Find(&users).Error
	return users, err
}

func (r *usuarioRepo) Update(ctx context.Context, u *model.Usuario) error {
	return traducirError(r.db.WithContext(ctx).Save(u).Error)
}

func (r *usuarioRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return traducirError(r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Usuario{}).Error)
}

func (r *usuarioRepo) ContarReferencias(ctx context.Context, id uuid.UUID) (int64, error) {
	db := r.db.WithContext(ctx)
	var facturas, salidas int64
	if err := db.Model(&model.Factura{}).Where("usuario_id = ?", id).Count(&facturas).Error; err != nil {
		return 0, err
	}
	if err := db.Model(&model.Salida{}).Where("usuario_id = ?", id).Count(&salidas).Error; err != nil {
		return 0, err
	}
	return facturas + salidas, nil
}
