package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const formatoFecha = "2006-01-02"

func ahora() time.Time { return time.Now().UTC() }

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// parseFecha accepts "YYYY-MM-DD" or RFC 3339. An RFC 3339 value keeps the
// wall clock of its own offset and is relabelled UTC, so the calendar day and
// year the caller wrote are the ones stored and numbered.
func parseFecha(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(formatoFecha, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC), nil
}

// rangoAnio returns [Jan 1 of year, Jan 1 of year+1) in UTC.
func rangoAnio(anio int) (time.Time, time.Time) {
	desde := time.Date(anio, time.January, 1, 0, 0, 0, 0, time.UTC)
	return desde, desde.AddDate(1, 0, 0)
}

// rangoFechas parses optional inclusive date bounds into [desde, hasta).
func rangoFechas(desdeStr, hastaStr string) (*time.Time, *time.Time, []string) {
	var errs []string
	var desde, hasta *time.Time
	if desdeStr != "" {
		if t, err := parseFecha(desdeStr); err != nil {
			errs = append(errs, "fecha_desde invalida (formato YYYY-MM-DD)")
		} else {
			desde = &t
		}
	}
	if hastaStr != "" {
		if t, err := parseFecha(hastaStr); err != nil {
			errs = append(errs, "fecha_hasta invalida (formato YYYY-MM-DD)")
		} else {
			fin := t.AddDate(0, 0, 1)
			hasta = &fin
		}
	}
	return desde, hasta, errs
}

// paginaValida applies the list defaults: page 1, 20 rows, at most 100.
func paginaValida(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

func parseUUIDOpcional(s, campo string, errs *[]string) *uuid.UUID {
	if s == "" {
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		*errs = append(*errs, campo+" invalido")
		return nil
	}
	return &id
}

// noEncontrado converts gorm's not-found into the given sentinel, leaving
// other errors untouched.
func noEncontrado(err error, sentinel error, entidad string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", sentinel, entidad)
	}
	return err
}

func uuidPtrString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
