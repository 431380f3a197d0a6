package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrDuplicado          = errors.New("registro duplicado")
	ErrReferenciaInvalida = errors.New("referencia a un registro inexistente")
)

// traducirError maps PostgreSQL constraint violations to repository errors so
// callers never inspect driver types.
func traducirError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%w: %s", ErrDuplicado, pgErr.ConstraintName)
		case "23503":
			return fmt.Errorf("%w: %s", ErrReferenciaInvalida, pgErr.ConstraintName)
		}
	}
	return err
}

// conn returns the transaction when one is open, the base handle otherwise.
func conn(db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}

func paginar(q *gorm.DB, page, limit int) *gorm.DB {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return q.Offset((page - 1) * limit).Limit(limit)
}
