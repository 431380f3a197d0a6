package repository

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestTraducirError(t *testing.T) {
	err := traducirError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_usuarios_nombre_usuario"})
	assert.ErrorIs(t, err, ErrDuplicado)
	assert.Contains(t, err.Error(), "idx_usuarios_nombre_usuario")

	assert.ErrorIs(t, traducirError(&pgconn.PgError{Code: "23503"}), ErrReferenciaInvalida)

	otro := &pgconn.PgError{Code: "40001"}
	assert.Same(t, otro, traducirError(otro))

	plano := errors.New("boom")
	assert.Equal(t, plano, traducirError(plano))
	assert.Nil(t, traducirError(nil))
}
