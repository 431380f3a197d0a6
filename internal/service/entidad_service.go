package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"pactumsuite/internal/dto"
	"pactumsuite/internal/model"
	"pactumsuite/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var cuentaBancariaRe = regexp.MustCompile(`^[0-9-]{10,20}$`)

// EntidadService manages the counterpart catalog contracts can link to.
type EntidadService interface {
	Crear(ctx context.Context, req dto.CrearEntidadRequest) (*dto.EntidadResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.EntidadResponse, error)
	Listar(ctx context.Context, filter dto.EntidadFilter) (*dto.EntidadListResponse, error)
	// Actualizar renames linked contracts in the same transaction.
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarEntidadRequest) (*dto.EntidadResponse, error)
	// Eliminar refuses while any contract links to the entity.
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type entidadService struct {
	repo         repository.EntidadRepository
	contratoRepo repository.ContratoRepository
}

func NewEntidadService(repo repository.EntidadRepository, contratoRepo repository.ContratoRepository) EntidadService {
	return &entidadService{repo: repo, contratoRepo: contratoRepo}
}

func (s *entidadService) Crear(ctx context.Context, req dto.CrearEntidadRequest) (*dto.EntidadResponse, error) {
	e := &model.Entidad{
		Nombre:         strings.TrimSpace(req.Nombre),
		Consecutivo:    textoOpcional(req.Consecutivo),
		Direccion:      req.Direccion,
		Telefono:       req.Telefono,
		Email:          req.Email,
		CuentaBancaria: textoOpcional(req.CuentaBancaria),
		Organismo:      req.Organismo,
		TipoEntidad:    req.TipoEntidad,
	}
	if err := s.validar(ctx, e, nil); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	log.Info().Str("entidad_id", e.ID.String()).Str("nombre", e.Nombre).Msg("entidad creada")
	resp := entidadToResponse(e)
	return &resp, nil
}

func (s *entidadService) Obtener(ctx context.Context, id uuid.UUID) (*dto.EntidadResponse, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, ErrNoEncontrado, "entidad "+id.String())
	}
	resp := entidadToResponse(e)
	return &resp, nil
}

func (s *entidadService) Listar(ctx context.Context, filter dto.EntidadFilter) (*dto.EntidadListResponse, error) {
	filter.Page, filter.Limit = paginaValida(filter.Page, filter.Limit)
	entidades, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.EntidadResponse, 0, len(entidades))
	for i := range entidades {
		data = append(data, entidadToResponse(&entidades[i]))
	}
	return &dto.EntidadListResponse{
		Data:       data,
		Paginacion: dto.NuevaPaginacion(total, filter.Page, filter.Limit),
	}, nil
}

func (s *entidadService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarEntidadRequest) (*dto.EntidadResponse, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, ErrNoEncontrado, "entidad "+id.String())
	}
	nombreAnterior := e.Nombre

	if req.Nombre != nil {
		e.Nombre = strings.TrimSpace(*req.Nombre)
	}
	if req.Consecutivo != nil {
		e.Consecutivo = textoOpcional(req.Consecutivo)
	}
	if req.Direccion != nil {
		e.Direccion = req.Direccion
	}
	if req.Telefono != nil {
		e.Telefono = req.Telefono
	}
	if req.Email != nil {
		e.Email = req.Email
	}
	if req.CuentaBancaria != nil {
		e.CuentaBancaria = textoOpcional(req.CuentaBancaria)
	}
	if req.Organismo != nil {
		e.Organismo = req.Organismo
	}
	if req.TipoEntidad != nil {
		e.TipoEntidad = req.TipoEntidad
	}
	if err := s.validar(ctx, e, &id); err != nil {
		return nil, err
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateTx(tx, e); err != nil {
			return err
		}
		if e.Nombre != nombreAnterior {
			return s.contratoRepo.RenombrarEntidadTx(tx, id, e.Nombre)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := entidadToResponse(e)
	return &resp, nil
}

func (s *entidadService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return noEncontrado(err, ErrNoEncontrado, "entidad "+id.String())
	}
	n, err := s.contratoRepo.ContarPorEntidad(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: %d contratos estan vinculados a la entidad", ErrEnUso, n)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	log.Info().Str("entidad_id", id.String()).Msg("entidad eliminada")
	return nil
}

// validar checks the field rules and that nombre and consecutivo are not
// taken by another entity than self.
func (s *entidadService) validar(ctx context.Context, e *model.Entidad, self *uuid.UUID) error {
	var errs []string
	if len(e.Nombre) < 2 {
		errs = append(errs, "nombre es obligatorio (minimo 2 caracteres)")
	}
	if e.CuentaBancaria != nil && !cuentaBancariaRe.MatchString(*e.CuentaBancaria) {
		errs = append(errs, "cuenta_bancaria debe tener entre 10 y 20 digitos o guiones")
	}
	if len(errs) > 0 {
		return &ValidacionError{Errores: errs}
	}

	if otra, err := s.repo.FindByNombre(ctx, e.Nombre); err == nil {
		if self == nil || otra.ID != *self {
			errs = append(errs, "ya existe una entidad con el nombre "+e.Nombre)
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if e.Consecutivo != nil {
		if otra, err := s.repo.FindByConsecutivo(ctx, *e.Consecutivo); err == nil {
			if self == nil || otra.ID != *self {
				errs = append(errs, "ya existe una entidad con el consecutivo "+*e.Consecutivo)
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}
	if len(errs) > 0 {
		return &ValidacionError{Errores: errs}
	}
	return nil
}

// textoOpcional trims v and maps blank to nil.
func textoOpcional(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}

func entidadToResponse(e *model.Entidad) dto.EntidadResponse {
	return dto.EntidadResponse{
		ID:             e.ID.String(),
		Nombre:         e.Nombre,
		Consecutivo:    e.Consecutivo,
		Direccion:      e.Direccion,
		Telefono:       e.Telefono,
		Email:          e.Email,
		CuentaBancaria: e.CuentaBancaria,
		Organismo:      e.Organismo,
		TipoEntidad:    e.TipoEntidad,
	}
}
