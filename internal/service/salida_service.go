package service

import (
	"context"
	"strings"

	"pactumsuite/internal/dto"
	"pactumsuite/internal/model"
	"pactumsuite/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SalidaService manages stock leaving outside of invoices (waste, internal use).
type SalidaService interface {
	Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearSalidaRequest) (*dto.SalidaResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarSalidaRequest) (*dto.SalidaResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
	Obtener(ctx context.Context, id uuid.UUID) (*dto.SalidaResponse, error)
	Listar(ctx context.Context, filter dto.SalidaFilter) (*dto.SalidaListResponse, error)
}

type salidaService struct {
	repo        repository.SalidaRepository
	usuarioRepo repository.UsuarioRepository
	inventario  InventarioService
}

func NewSalidaService(repo repository.SalidaRepository, usuarioRepo repository.UsuarioRepository, inventario InventarioService) SalidaService {
	return &salidaService{repo: repo, usuarioRepo: usuarioRepo, inventario: inventario}
}

// Crear records the exit on behalf of req.UsuarioID, or of the caller when
// the request leaves it empty.
func (s *salidaService) Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearSalidaRequest) (*dto.SalidaResponse, error) {
	var errs []string
	if req.ProductoID == "" {
		errs = append(errs, "producto_id es obligatorio")
	}
	productoID := parseUUIDOpcional(req.ProductoID, "producto_id", &errs)
	if uid := parseUUIDOpcional(req.UsuarioID, "usuario_id", &errs); uid != nil {
		usuarioID = *uid
	}
	if strings.TrimSpace(req.Descripcion) == "" {
		errs = append(errs, "descripcion es obligatoria")
	}
	errs = append(errs, validarCantidadPositiva(req.Cantidad, "cantidad")...)
	fecha, err := parseFecha(req.Fecha)
	if req.Fecha == "" {
		errs = append(errs, "fecha es obligatoria")
	} else if err != nil {
		errs = append(errs, "fecha invalida (formato YYYY-MM-DD)")
	}
	if len(errs) > 0 {
		return nil, &ValidacionError{Errores: errs}
	}

	if _, err := s.usuarioRepo.FindByID(ctx, usuarioID); err != nil {
		return nil, noEncontrado(err, ErrReferenciaNoEncontrada, "usuario "+usuarioID.String())
	}

	sal := &model.Salida{
		ID:          uuid.New(),
		ProductoID:  *productoID,
		UsuarioID:   usuarioID,
		Fecha:       fecha,
		Descripcion: strings.TrimSpace(req.Descripcion),
		Cantidad:    req.Cantidad.Round(2),
	}
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.inventario.Decrementar(tx, sal.ProductoID, sal.Cantidad, model.OrigenSalida, &sal.ID); err != nil {
			return err
		}
		return s.repo.CreateTx(tx, sal)
	})
	if err != nil {
		return nil, err
	}
	resp := salidaToResponse(sal)
	return &resp, nil
}

func (s *salidaService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarSalidaRequest) (*dto.SalidaResponse, error) {
	var actualizada *model.Salida
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		actual, err := s.repo.FindForUpdateTx(tx, id)
		if err != nil {
			return noEncontrado(err, ErrNoEncontrado, "salida "+id.String())
		}

		sal := *actual
		var errs []string
		if req.ProductoID != nil {
			if pid := parseUUIDOpcional(*req.ProductoID, "producto_id", &errs); pid != nil {
				sal.ProductoID = *pid
			}
		}
		if req.Cantidad != nil {
			errs = append(errs, validarCantidadPositiva(*req.Cantidad, "cantidad")...)
			sal.Cantidad = req.Cantidad.Round(2)
		}
		if req.Descripcion != nil {
			sal.Descripcion = strings.TrimSpace(*req.Descripcion)
			if sal.Descripcion == "" {
				errs = append(errs, "descripcion es obligatoria")
			}
		}
		if req.Fecha != nil {
			t, err := parseFecha(*req.Fecha)
			if err != nil {
				errs = append(errs, "fecha invalida (formato YYYY-MM-DD)")
			}
			sal.Fecha = t
		}
		if len(errs) > 0 {
			return &ValidacionError{Errores: errs}
		}

		// give the old quantity back, take the new one
		movs := []Movimiento{
			{ProductoID: actual.ProductoID, Cantidad: actual.Cantidad},
			{ProductoID: sal.ProductoID, Cantidad: sal.Cantidad.Neg()},
		}
		if err := s.inventario.Aplicar(tx, movs, model.OrigenSalida, &id); err != nil {
			return err
		}
		sal.Producto = nil
		if err := s.repo.UpdateTx(tx, &sal); err != nil {
			return err
		}
		actualizada = &sal
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := salidaToResponse(actualizada)
	return &resp, nil
}

func (s *salidaService) Eliminar(ctx context.Context, id uuid.UUID) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		sal, err := s.repo.FindForUpdateTx(tx, id)
		if err != nil {
			return noEncontrado(err, ErrNoEncontrado, "salida "+id.String())
		}
		if err := s.inventario.Incrementar(tx, sal.ProductoID, sal.Cantidad, model.OrigenReversoSalida, &id); err != nil {
			return err
		}
		return s.repo.DeleteTx(tx, id)
	})
}

func (s *salidaService) Obtener(ctx context.Context, id uuid.UUID) (*dto.SalidaResponse, error) {
	sal, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, ErrNoEncontrado, "salida "+id.String())
	}
	resp := salidaToResponse(sal)
	return &resp, nil
}

func (s *salidaService) Listar(ctx context.Context, filter dto.SalidaFilter) (*dto.SalidaListResponse, error) {
	var errs []string
	filtro := repository.SalidaFiltro{
		ProductoID: parseUUIDOpcional(filter.ProductoID, "producto_id", &errs),
		UsuarioID:  parseUUIDOpcional(filter.UsuarioID, "usuario_id", &errs),
	}
	filtro.Page, filtro.Limit = paginaValida(filter.Page, filter.Limit)
	var fechaErrs []string
	filtro.Desde, filtro.Hasta, fechaErrs = rangoFechas(filter.FechaDesde, filter.FechaHasta)
	if errs = append(errs, fechaErrs...); len(errs) > 0 {
		return nil, &ValidacionError{Errores: errs}
	}

	salidas, total, err := s.repo.List(ctx, filtro)
	if err != nil {
		return nil, err
	}
	data := make([]dto.SalidaResponse, 0, len(salidas))
	for i := range salidas {
		data = append(data, salidaToResponse(&salidas[i]))
	}
	return &dto.SalidaListResponse{
		Data:       data,
		Paginacion: dto.NuevaPaginacion(total, filtro.Page, filtro.Limit),
	}, nil
}

func salidaToResponse(s *model.Salida) dto.SalidaResponse {
	return dto.SalidaResponse{
		ID:          s.ID.String(),
		ProductoID:  s.ProductoID.String(),
		UsuarioID:   s.UsuarioID.String(),
		Fecha:       s.Fecha.Format(formatoFecha),
		Descripcion: s.Descripcion,
		Cantidad:    s.Cantidad,
	}
}
