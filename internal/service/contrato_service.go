package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pactumsuite/internal/dto"
	"pactumsuite/internal/model"
	"pactumsuite/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// mesesAvisoVencimiento is how far ahead ProximosAVencer looks.
const mesesAvisoVencimiento = 1

type ContratoService interface {
	Crear(ctx context.Context, req dto.CrearContratoRequest) (*dto.ContratoResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.ContratoResponse, error)
	Listar(ctx context.Context, filter dto.ContratoFilter) (*dto.ContratoListResponse, error)
	// Actualizar refuses to change the role of a contract that has invoices:
	// stock already moved in the direction the old role implies.
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarContratoRequest) (*dto.ContratoResponse, error)
	// Eliminar removes a contract without invoices together with its workers.
	Eliminar(ctx context.Context, id uuid.UUID) error
	// ProximosAVencer lists contracts ending between today and one month
	// ahead, soonest first.
	ProximosAVencer(ctx context.Context) ([]dto.ContratoResponse, error)
	CrearTrabajador(ctx context.Context, contratoID uuid.UUID, req dto.CrearTrabajadorRequest) (*dto.TrabajadorResponse, error)
	// SiguienteConsecutivo suggests the next Cliente contract number for a year.
	SiguienteConsecutivo(ctx context.Context, anio int) (*dto.SiguienteConsecutivoResponse, error)
}

type contratoService struct {
	repo        repository.ContratoRepository
	entidadRepo repository.EntidadRepository
}

func NewContratoService(repo repository.ContratoRepository, entidadRepo repository.EntidadRepository) ContratoService {
	return &contratoService{repo: repo, entidadRepo: entidadRepo}
}

// Crear validates the "<int>[/suffix]" number and, for Cliente contracts,
// that no other Cliente contract starting the same year uses the same
// integer prefix.
func (s *contratoService) Crear(ctx context.Context, req dto.CrearContratoRequest) (*dto.ContratoResponse, error) {
	var errs []string
	num, err := ParseNumConsecutivo(req.NumConsecutivo)
	if err != nil {
		errs = append(errs, err.Error())
	}
	inicio, err := parseFecha(req.FechaInicio)
	if err != nil {
		errs = append(errs, "fecha_inicio invalida (formato YYYY-MM-DD)")
	}
	var fin *time.Time
	if req.FechaFin != nil && *req.FechaFin != "" {
		t, err := parseFecha(*req.FechaFin)
		switch {
		case err != nil:
			errs = append(errs, "fecha_fin invalida (formato YYYY-MM-DD)")
		case t.Before(inicio):
			errs = append(errs, "fecha_fin no puede ser anterior a fecha_inicio")
		default:
			fin = &t
		}
	}
	if req.ClienteOProveedor != model.RolCliente && req.ClienteOProveedor != model.RolProveedor {
		errs = append(errs, "cliente_o_proveedor debe ser Cliente o Proveedor")
	}
	var entidadID *uuid.UUID
	if req.EntidadID != nil {
		entidadID = parseUUIDOpcional(*req.EntidadID, "entidad_id", &errs)
	}
	if entidadID == nil && strings.TrimSpace(req.Entidad) == "" {
		errs = append(errs, "entidad o entidad_id es obligatorio")
	}
	if len(errs) > 0 {
		return nil, &ValidacionError{Errores: errs}
	}

	c := &model.Contrato{
		NumConsecutivo:    strings.TrimSpace(req.NumConsecutivo),
		FechaInicio:       inicio,
		FechaFin:          fin,
		ClienteOProveedor: req.ClienteOProveedor,
		Entidad:           strings.TrimSpace(req.Entidad),
		Nota:              req.Nota,
	}
	if entidadID != nil {
		if err := s.vincularEntidad(ctx, c, *entidadID); err != nil {
			return nil, err
		}
	}
	if c.EsCliente() {
		if err := s.numeroClienteLibre(ctx, num, inicio.Year(), nil); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	resp := contratoToResponse(c)
	return &resp, nil
}

func (s *contratoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarContratoRequest) (*dto.ContratoResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, ErrNoEncontrado, "contrato "+id.String())
	}
	rolAnterior := c.ClienteOProveedor

	var errs []string
	if req.NumConsecutivo != nil {
		c.NumConsecutivo = strings.TrimSpace(*req.NumConsecutivo)
	}
	num, err := ParseNumConsecutivo(c.NumConsecutivo)
	if err != nil {
		errs = append(errs, err.Error())
	}
	if req.FechaInicio != nil {
		if t, err := parseFecha(*req.FechaInicio); err != nil {
			errs = append(errs, "fecha_inicio invalida (formato YYYY-MM-DD)")
		} else {
			c.FechaInicio = t
		}
	}
	if req.FechaFin != nil {
		if *req.FechaFin == "" {
			c.FechaFin = nil
		} else if t, err := parseFecha(*req.FechaFin); err != nil {
			errs = append(errs, "fecha_fin invalida (formato YYYY-MM-DD)")
		} else {
			c.FechaFin = &t
		}
	}
	if c.FechaFin != nil && c.FechaFin.Before(c.FechaInicio) {
		errs = append(errs, "fecha_fin no puede ser anterior a fecha_inicio")
	}
	if req.ClienteOProveedor != nil {
		if *req.ClienteOProveedor != model.RolCliente && *req.ClienteOProveedor != model.RolProveedor {
			errs = append(errs, "cliente_o_proveedor debe ser Cliente o Proveedor")
		}
		c.ClienteOProveedor = *req.ClienteOProveedor
	}
	var entidadID *uuid.UUID
	if req.EntidadID != nil && *req.EntidadID != "" {
		entidadID = parseUUIDOpcional(*req.EntidadID, "entidad_id", &errs)
	}
	if req.Entidad != nil && entidadID == nil {
		// free text replaces any link
		c.Entidad = strings.TrimSpace(*req.Entidad)
		c.EntidadID = nil
	}
	if req.EntidadID != nil && *req.EntidadID == "" {
		c.EntidadID = nil
	}
	if req.Nota != nil {
		c.Nota = req.Nota
	}
	if len(errs) > 0 {
		return nil, &ValidacionError{Errores: errs}
	}

	if entidadID != nil {
		if err := s.vincularEntidad(ctx, c, *entidadID); err != nil {
			return nil, err
		}
	}
	if c.EsCliente() {
		if err := s.numeroClienteLibre(ctx, num, c.FechaInicio.Year(), &id); err != nil {
			return nil, err
		}
	}

	cambiaRol := c.ClienteOProveedor != rolAnterior
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if _, err := s.repo.FindForUpdateTx(tx, id); err != nil {
			return noEncontrado(err, ErrNoEncontrado, "contrato "+id.String())
		}
		if cambiaRol {
			n, err := s.repo.ContarFacturasTx(tx, id)
			if err != nil {
				return err
			}
			if n > 0 {
				return fmt.Errorf("%w: cliente_o_proveedor no puede cambiar, el contrato tiene %d facturas", ErrCampoInmutable, n)
			}
		}
		return s.repo.UpdateTx(tx, c)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("contrato_id", id.String()).
		Str("cliente_o_proveedor", c.ClienteOProveedor).
		Msg("contrato actualizado")
	resp := contratoToResponse(c)
	return &resp, nil
}

func (s *contratoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if _, err := s.repo.FindForUpdateTx(tx, id); err != nil {
			return noEncontrado(err, ErrNoEncontrado, "contrato "+id.String())
		}
		n, err := s.repo.ContarFacturasTx(tx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: el contrato tiene %d facturas; eliminelas primero", ErrEnUso, n)
		}
		return s.repo.DeleteTx(tx, id)
	})
	if err != nil {
		return err
	}
	log.Info().Str("contrato_id", id.String()).Msg("contrato eliminado")
	return nil
}

func (s *contratoService) ProximosAVencer(ctx context.Context) ([]dto.ContratoResponse, error) {
	n := ahora()
	hoy := time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
	contratos, err := s.repo.VencenEntre(ctx, hoy, hoy.AddDate(0, mesesAvisoVencimiento, 0))
	if err != nil {
		return nil, err
	}
	data := make([]dto.ContratoResponse, 0, len(contratos))
	for i := range contratos {
		data = append(data, contratoToResponse(&contratos[i]))
	}
	return data, nil
}

func (s *contratoService) Obtener(ctx context.Context, id uuid.UUID) (*dto.ContratoResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, ErrNoEncontrado, "contrato "+id.String())
	}
	resp := contratoToResponse(c)
	return &resp, nil
}

func (s *contratoService) Listar(ctx context.Context, filter dto.ContratoFilter) (*dto.ContratoListResponse, error) {
	filter.Page, filter.Limit = paginaValida(filter.Page, filter.Limit)
	contratos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ContratoResponse, 0, len(contratos))
	for i := range contratos {
		data = append(data, contratoToResponse(&contratos[i]))
	}
	return &dto.ContratoListResponse{
		Data:       data,
		Paginacion: dto.NuevaPaginacion(total, filter.Page, filter.Limit),
	}, nil
}

func (s *contratoService) CrearTrabajador(ctx context.Context, contratoID uuid.UUID, req dto.CrearTrabajadorRequest) (*dto.TrabajadorResponse, error) {
	if _, err := s.repo.FindByID(ctx, contratoID); err != nil {
		return nil, noEncontrado(err, ErrNoEncontrado, "contrato "+contratoID.String())
	}
	t := &model.TrabajadorAutorizado{
		ContratoID:      contratoID,
		Nombre:          req.Nombre,
		Apellidos:       req.Apellidos,
		CarnetIdentidad: req.CarnetIdentidad,
		Cargo:           req.Cargo,
	}
	if err := s.repo.CreateTrabajador(ctx, t); err != nil {
		return nil, err
	}
	resp := trabajadorToResponse(t)
	return &resp, nil
}

func (s *contratoService) SiguienteConsecutivo(ctx context.Context, anio int) (*dto.SiguienteConsecutivoResponse, error) {
	if anio < 1900 || anio > 2100 {
		return nil, nuevaValidacion("el año debe ser un numero valido entre 1900 y 2100")
	}
	desde, hasta := rangoAnio(anio)
	numeros, err := s.repo.NumerosCliente(ctx, desde, hasta, nil)
	if err != nil {
		return nil, err
	}
	maximo := 0
	for _, n := range numeros {
		if v, err := ParseNumConsecutivo(n); err == nil && v > maximo {
			maximo = v
		}
	}
	return &dto.SiguienteConsecutivoResponse{
		Anio:                 anio,
		SiguienteConsecutivo: maximo + 1,
		Mensaje:              fmt.Sprintf("el siguiente numero de contrato de Cliente para %d es %d", anio, maximo+1),
	}, nil
}

// vincularEntidad links c to an existing entity and copies its name.
func (s *contratoService) vincularEntidad(ctx context.Context, c *model.Contrato, entidadID uuid.UUID) error {
	e, err := s.entidadRepo.FindByID(ctx, entidadID)
	if err != nil {
		return noEncontrado(err, ErrReferenciaNoEncontrada, "entidad "+entidadID.String())
	}
	c.EntidadID = &e.ID
	c.Entidad = e.Nombre
	return nil
}

// numeroClienteLibre checks no other Cliente contract starting in anio uses
// the integer prefix num.
func (s *contratoService) numeroClienteLibre(ctx context.Context, num, anio int, excluir *uuid.UUID) error {
	desde, hasta := rangoAnio(anio)
	existentes, err := s.repo.NumerosCliente(ctx, desde, hasta, excluir)
	if err != nil {
		return err
	}
	for _, n := range existentes {
		if otro, err := ParseNumConsecutivo(n); err == nil && otro == num {
			return fmt.Errorf("%w: ya existe un contrato de Cliente con el numero consecutivo %d en el año %d",
				ErrConsecutivoDuplicado, num, anio)
		}
	}
	return nil
}

func contratoToResponse(c *model.Contrato) dto.ContratoResponse {
	resp := dto.ContratoResponse{
		ID:                c.ID.String(),
		NumConsecutivo:    c.NumConsecutivo,
		FechaInicio:       c.FechaInicio.Format(formatoFecha),
		ClienteOProveedor: c.ClienteOProveedor,
		Entidad:           c.Entidad,
		EntidadID:         uuidPtrString(c.EntidadID),
		Nota:              c.Nota,
		Trabajadores:      make([]dto.TrabajadorResponse, 0, len(c.Trabajadores)),
	}
	if c.FechaFin != nil {
		fin := c.FechaFin.Format(formatoFecha)
		resp.FechaFin = &fin
	}
	for i := range c.Trabajadores {
		resp.Trabajadores = append(resp.Trabajadores, trabajadorToResponse(&c.Trabajadores[i]))
	}
	return resp
}

func trabajadorToResponse(t *model.TrabajadorAutorizado) dto.TrabajadorResponse {
	return dto.TrabajadorResponse{
		ID:              t.ID.String(),
		ContratoID:      t.ContratoID.String(),
		Nombre:          t.Nombre,
		Apellidos:       t.Apellidos,
		CarnetIdentidad: t.CarnetIdentidad,
		Cargo:           t.Cargo,
	}
}
