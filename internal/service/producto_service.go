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
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const codigoCacheTTL = 4 * time.Hour

// ProductoService defines the business logic contract for products.
// Stock is read-only here: CantidadExistencia only moves through the ledger.
type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	ObtenerPorCodigo(ctx context.Context, codigo string) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	// Eliminar only removes products with no stock and no history.
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type productoService struct {
	repo repository.ProductoRepository
	rdb  *redis.Client
}

// NewProductoService builds the service. rdb may be nil, which disables the
// codigo lookup cache.
func NewProductoService(repo repository.ProductoRepository, rdb *redis.Client) ProductoService {
	return &productoService{repo: repo, rdb: rdb}
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	var errs []string
	if req.Precio.IsNegative() {
		errs = append(errs, "precio no puede ser negativo")
	}
	if req.Costo.IsNegative() {
		errs = append(errs, "costo no puede ser negativo")
	}
	if len(errs) > 0 {
		return nil, &ValidacionError{Errores: errs}
	}

	p := &model.Producto{
		Codigo:             strings.TrimSpace(req.Codigo),
		Nombre:             strings.TrimSpace(req.Nombre),
		UnidadMedida:       req.UnidadMedida,
		Precio:             req.Precio.Round(2),
		Costo:              req.Costo.Round(2),
		TipoProducto:       req.TipoProducto,
		Nota:               req.Nota,
		CantidadExistencia: decimal.Zero,
	}
	if p.TipoProducto == "" {
		p.TipoProducto = "Carne"
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	resp := productoToResponse(p)
	return &resp, nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, ErrNoEncontrado, "producto "+id.String())
	}
	resp := productoToResponse(p)
	return &resp, nil
}

// ObtenerPorCodigo resolves codigo → id through Redis, then reads the row by
// primary key so the stock figure is always current.
func (s *productoService) ObtenerPorCodigo(ctx context.Context, codigo string) (*dto.ProductoResponse, error) {
	cacheKey := "producto:codigo:" + codigo

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			if id, err := uuid.Parse(cached); err == nil {
				if p, err := s.repo.FindByID(ctx, id); err == nil && p.Codigo == codigo {
					resp := productoToResponse(p)
					return &resp, nil
				}
			}
			// stale entry, fall through to the database
			_ = s.rdb.Del(ctx, cacheKey).Err()
		}
	}

	p, err := s.repo.FindByCodigo(ctx, codigo)
	if err != nil {
		return nil, noEncontrado(err, ErrNoEncontrado, "producto con codigo "+codigo)
	}

	if s.rdb != nil {
		if err := s.rdb.Set(ctx, cacheKey, p.ID.String(), codigoCacheTTL).Err(); err != nil {
			log.Warn().Err(err).Str("codigo", codigo).Msg("no se pudo cachear el codigo de producto")
		}
	}
	resp := productoToResponse(p)
	return &resp, nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	filter.Page, filter.Limit = paginaValida(filter.Page, filter.Limit)
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		data = append(data, productoToResponse(&productos[i]))
	}
	return &dto.ProductoListResponse{
		Data:       data,
		Paginacion: dto.NuevaPaginacion(total, filter.Page, filter.Limit),
	}, nil
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, ErrNoEncontrado, "producto "+id.String())
	}
	if req.Nombre != nil {
		p.Nombre = strings.TrimSpace(*req.Nombre)
	}
	if req.UnidadMedida != nil {
		p.UnidadMedida = *req.UnidadMedida
	}
	if req.Precio != nil {
		p.Precio = req.Precio.Round(2)
	}
	if req.Costo != nil {
		p.Costo = req.Costo.Round(2)
	}
	if req.TipoProducto != nil {
		p.TipoProducto = *req.TipoProducto
	}
	if req.Nota != nil {
		p.Nota = req.Nota
	}
	if p.Precio.IsNegative() || p.Costo.IsNegative() {
		return nil, nuevaValidacion("precio y costo no pueden ser negativos")
	}
	if err := s.repo.UpdateCatalogo(ctx, p); err != nil {
		return nil, err
	}
	if s.rdb != nil {
		_ = s.rdb.Del(ctx, "producto:codigo:"+p.Codigo).Err()
	}
	resp := productoToResponse(p)
	return &resp, nil
}

func (s *productoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return noEncontrado(err, ErrNoEncontrado, "producto "+id.String())
	}
	if !p.CantidadExistencia.IsZero() {
		return fmt.Errorf("%w: el producto %s tiene existencia %s", ErrEnUso, p.Codigo, p.CantidadExistencia.String())
	}
	n, err := s.repo.ContarReferencias(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: el producto %s aparece en %d registros", ErrEnUso, p.Codigo, n)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.rdb != nil {
		_ = s.rdb.Del(ctx, "producto:codigo:"+p.Codigo).Err()
	}
	log.Info().Str("producto_id", id.String()).Str("codigo", p.Codigo).Msg("producto eliminado")
	return nil
}

func productoToResponse(p *model.Producto) dto.ProductoResponse {
	return dto.ProductoResponse{
		ID:                 p.ID.String(),
		Codigo:             p.Codigo,
		Nombre:             p.Nombre,
		UnidadMedida:       p.UnidadMedida,
		Precio:             p.Precio,
		Costo:              p.Costo,
		TipoProducto:       p.TipoProducto,
		Nota:               p.Nota,
		CantidadExistencia: p.CantidadExistencia,
	}
}
