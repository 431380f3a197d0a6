package service

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"pactumsuite/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NumeracionService enforces per-year consecutive numbering of invoices on
// Cliente contracts. Proveedor invoices carry the supplier's own numbers and
// are exempt.
//
// ValidarUnico and ValidarOrden accept an optional tx: the orchestrator runs
// them once before opening the transaction and again inside it, right before
// writing, after Bloquear has serialized writers of the same numbers.
type NumeracionService interface {
	// Bloquear locks num and its predecessor for the year of fecha until tx
	// ends, in ascending order. Call it only for Cliente contracts.
	Bloquear(tx *gorm.DB, num int, fecha time.Time) error
	ValidarUnico(ctx context.Context, tx *gorm.DB, num int, fecha time.Time, contratoID uuid.UUID, excluir *uuid.UUID) error
	ValidarOrden(ctx context.Context, tx *gorm.DB, num int, fecha time.Time, contratoID uuid.UUID, excluir *uuid.UUID) error
	// SiguienteDisponible is a read-only hint for clients. It scans every
	// invoice of the year regardless of contract role.
	SiguienteDisponible(ctx context.Context, anio int) (int, error)
}

type numeracionService struct {
	facturaRepo  repository.FacturaRepository
	contratoRepo repository.ContratoRepository
}

func NewNumeracionService(facturaRepo repository.FacturaRepository, contratoRepo repository.ContratoRepository) NumeracionService {
	return &numeracionService{facturaRepo: facturaRepo, contratoRepo: contratoRepo}
}

func (s *numeracionService) Bloquear(tx *gorm.DB, num int, fecha time.Time) error {
	anio := fecha.UTC().Year()
	if num > 1 {
		if err := s.facturaRepo.BloquearConsecutivoTx(tx, anio, num-1); err != nil {
			return fmt.Errorf("bloquear consecutivo %d: %w", num-1, err)
		}
	}
	if err := s.facturaRepo.BloquearConsecutivoTx(tx, anio, num); err != nil {
		return fmt.Errorf("bloquear consecutivo %d: %w", num, err)
	}
	return nil
}

func (s *numeracionService) ValidarUnico(ctx context.Context, tx *gorm.DB, num int, fecha time.Time, contratoID uuid.UUID, excluir *uuid.UUID) error {
	aplica, err := s.aplica(ctx, contratoID)
	if err != nil || !aplica {
		return err
	}

	anio := fecha.UTC().Year()
	desde, hasta := rangoAnio(anio)
	existente, err := s.facturaRepo.ConsecutivoCliente(ctx, tx, num, desde, hasta, excluir)
	if err != nil {
		return err
	}
	if existente != nil {
		return fmt.Errorf("%w: ya existe una factura con numero consecutivo %d en el año %d para un contrato de tipo Cliente",
			ErrConsecutivoDuplicado, num, anio)
	}
	return nil
}

func (s *numeracionService) ValidarOrden(ctx context.Context, tx *gorm.DB, num int, fecha time.Time, contratoID uuid.UUID, excluir *uuid.UUID) error {
	if num <= 1 {
		return nil
	}
	aplica, err := s.aplica(ctx, contratoID)
	if err != nil || !aplica {
		return err
	}

	desde, hasta := rangoAnio(fecha.UTC().Year())
	anterior, err := s.facturaRepo.ConsecutivoCliente(ctx, tx, num-1, desde, hasta, excluir)
	if err != nil {
		return err
	}
	// gaps are tolerated: without a predecessor there is nothing to compare
	if anterior == nil {
		return nil
	}
	if !fecha.After(anterior.Fecha) {
		return fmt.Errorf("%w: la fecha de la factura %d debe ser mayor que la fecha de la factura %d (%s)",
			ErrFechaFueraDeOrden, num, num-1, anterior.Fecha.Format(formatoFecha))
	}
	return nil
}

func (s *numeracionService) SiguienteDisponible(ctx context.Context, anio int) (int, error) {
	if anio < 1900 || anio > 2100 {
		return 0, nuevaValidacion("el año debe ser un numero valido entre 1900 y 2100")
	}
	desde, hasta := rangoAnio(anio)
	maximo, err := s.facturaRepo.MaxConsecutivo(ctx, desde, hasta)
	if err != nil {
		return 0, err
	}
	return maximo + 1, nil
}

func (s *numeracionService) aplica(ctx context.Context, contratoID uuid.UUID) (bool, error) {
	contrato, err := s.contratoRepo.FindByID(ctx, contratoID)
	if err != nil {
		return false, noEncontrado(err, ErrReferenciaNoEncontrada, "contrato "+contratoID.String())
	}
	return contrato.EsCliente(), nil
}

var soloDigitos = regexp.MustCompile(`^\d+$`)

// ParseNumConsecutivo reads the integer prefix of a "<int>[/suffix]" number.
// The prefix must be a positive integer.
func ParseNumConsecutivo(s string) (int, error) {
	prefijo, _, _ := strings.Cut(strings.TrimSpace(s), "/")
	if !soloDigitos.MatchString(prefijo) {
		return 0, fmt.Errorf("numero consecutivo %q: el prefijo debe contener solo digitos", s)
	}
	n, err := strconv.Atoi(prefijo)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("numero consecutivo %q: el prefijo debe ser un entero positivo", s)
	}
	return n, nil
}
