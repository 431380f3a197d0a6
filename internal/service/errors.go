package service

import (
	"errors"
	"strings"
)

var (
	ErrNoEncontrado           = errors.New("recurso no encontrado")
	ErrReferenciaNoEncontrada = errors.New("referencia no encontrada")
	ErrConsecutivoDuplicado   = errors.New("numero consecutivo duplicado")
	ErrFechaFueraDeOrden      = errors.New("fecha fuera de orden")
	ErrStockInsuficiente      = errors.New("stock insuficiente")
	ErrCampoInmutable         = errors.New("campo inmutable")
	ErrEnUso                  = errors.New("recurso en uso")
	ErrCredencialesInvalidas  = errors.New("credenciales invalidas")
	ErrTokenInvalido          = errors.New("token invalido o expirado")
)

// ValidacionError carries every rule a request broke, in the order found.
type ValidacionError struct {
	Errores []string
}

func (e *ValidacionError) Error() string {
	return "validacion: " + strings.Join(e.Errores, "; ")
}

func nuevaValidacion(errs ...string) *ValidacionError {
	return &ValidacionError{Errores: errs}
}
