package service

import (
	"context"
	"fmt"
	"strings"

	"pactumsuite/internal/dto"
	"pactumsuite/internal/model"
	"pactumsuite/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EntradaService manages stock arrivals. Entries generated by supplier
// invoices belong to the invoice: they are created, changed and removed only
// through it, so this service never links an entry to an invoice.
type EntradaService interface {
	Crear(ctx context.Context, req dto.CrearEntradaRequest) (*dto.EntradaResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarEntradaRequest) (*dto.EntradaResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
	Obtener(ctx context.Context, id uuid.UUID) (*dto.EntradaResponse, error)
	Listar(ctx context.Context, filter dto.EntradaFilter) (*dto.EntradaListResponse, error)
}

type entradaService struct {
	repo       repository.EntradaRepository
	inventario InventarioService
}

func NewEntradaService(repo repository.EntradaRepository, inventario InventarioService) EntradaService {
	return &entradaService{repo: repo, inventario: inventario}
}

func (s *entradaService) Crear(ctx context.Context, req dto.CrearEntradaRequest) (*dto.EntradaResponse, error) {
	var errs []string
	productoID := parseUUIDOpcional(req.ProductoID, "producto_id", &errs)
	if req.ProductoID == "" {
		errs = append(errs, "producto_id es obligatorio")
	}
	if req.FacturaID != nil || req.ContratoID != nil {
		errs = append(errs, "factura_id y contrato_id no se admiten: las entradas de una factura se generan al registrar la factura de proveedor")
	}
	errs = append(errs, validarNotaEntrada(req.Nota)...)
	errs = append(errs, validarCantidadPositiva(req.CantidadEntrada, "cantidad_entrada")...)
	if req.Costo.IsNegative() {
		errs = append(errs, "costo no puede ser negativo")
	}
	fecha := ahora()
	if req.Fecha != "" {
		t, err := parseFecha(req.Fecha)
		if err != nil {
			errs = append(errs, "fecha invalida (formato YYYY-MM-DD)")
		}
		fecha = t
	}
	if len(errs) > 0 {
		return nil, &ValidacionError{Errores: errs}
	}

	e := &model.Entrada{
		ID:              uuid.New(),
		ProductoID:      *productoID,
		CantidadEntrada: req.CantidadEntrada.Round(2),
		Costo:           req.Costo.Round(2),
		Nota:            strings.TrimSpace(req.Nota),
		Fecha:           fecha,
	}
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.inventario.Incrementar(tx, e.ProductoID, e.CantidadEntrada, model.OrigenEntrada, &e.ID); err != nil {
			return err
		}
		return s.repo.CreateTx(tx, e)
	})
	if err != nil {
		return nil, err
	}
	resp := entradaToResponse(e)
	return &resp, nil
}

// Actualizar moves stock by the difference. When the product changes, the
// old quantity leaves the old product and the new quantity lands on the new
// one; both rows are locked by the ledger in id order.
func (s *entradaService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarEntradaRequest) (*dto.EntradaResponse, error) {
	var actualizada *model.Entrada
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		actual, err := s.repo.FindForUpdateTx(tx, id)
		if err != nil {
			return noEncontrado(err, ErrNoEncontrado, "entrada "+id.String())
		}
		if actual.FacturaID != nil {
			return nuevaValidacion("la entrada pertenece a una factura de proveedor; modifique la factura")
		}

		e := *actual
		var errs []string
		if req.ProductoID != nil {
			if pid := parseUUIDOpcional(*req.ProductoID, "producto_id", &errs); pid != nil {
				e.ProductoID = *pid
			}
		}
		if req.CantidadEntrada != nil {
			errs = append(errs, validarCantidadPositiva(*req.CantidadEntrada, "cantidad_entrada")...)
			e.CantidadEntrada = req.CantidadEntrada.Round(2)
		}
		if req.Costo != nil {
			if req.Costo.IsNegative() {
				errs = append(errs, "costo no puede ser negativo")
			}
			e.Costo = req.Costo.Round(2)
		}
		if req.Nota != nil {
			e.Nota = strings.TrimSpace(*req.Nota)
		}
		errs = append(errs, validarNotaEntrada(e.Nota)...)
		if req.Fecha != nil {
			t, err := parseFecha(*req.Fecha)
			if err != nil {
				errs = append(errs, "fecha invalida (formato YYYY-MM-DD)")
			}
			e.Fecha = t
		}
		if len(errs) > 0 {
			return &ValidacionError{Errores: errs}
		}

		movs := []Movimiento{
			{ProductoID: actual.ProductoID, Cantidad: actual.CantidadEntrada.Neg()},
			{ProductoID: e.ProductoID, Cantidad: e.CantidadEntrada},
		}
		if err := s.inventario.Aplicar(tx, movs, model.OrigenEntrada, &id); err != nil {
			return err
		}
		e.Producto = nil
		if err := s.repo.UpdateTx(tx, &e); err != nil {
			return err
		}
		actualizada = &e
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := entradaToResponse(actualizada)
	return &resp, nil
}

func (s *entradaService) Eliminar(ctx context.Context, id uuid.UUID) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		e, err := s.repo.FindForUpdateTx(tx, id)
		if err != nil {
			return noEncontrado(err, ErrNoEncontrado, "entrada "+id.String())
		}
		if e.FacturaID != nil {
			return nuevaValidacion("la entrada pertenece a una factura de proveedor; elimine la factura")
		}
		if err := s.inventario.Decrementar(tx, e.ProductoID, e.CantidadEntrada, model.OrigenReversoEntrada, &id); err != nil {
			return fmt.Errorf("eliminar entrada: %w", err)
		}
		return s.repo.DeleteTx(tx, id)
	})
}

func (s *entradaService) Obtener(ctx context.Context, id uuid.UUID) (*dto.EntradaResponse, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, ErrNoEncontrado, "entrada "+id.String())
	}
	resp := entradaToResponse(e)
	return &resp, nil
}

func (s *entradaService) Listar(ctx context.Context, filter dto.EntradaFilter) (*dto.EntradaListResponse, error) {
	var errs []string
	filtro := repository.EntradaFiltro{
		ProductoID: parseUUIDOpcional(filter.ProductoID, "producto_id", &errs),
		FacturaID:  parseUUIDOpcional(filter.FacturaID, "factura_id", &errs),
		ContratoID: parseUUIDOpcional(filter.ContratoID, "contrato_id", &errs),
	}
	filtro.Page, filtro.Limit = paginaValida(filter.Page, filter.Limit)
	var fechaErrs []string
	filtro.Desde, filtro.Hasta, fechaErrs = rangoFechas(filter.FechaDesde, filter.FechaHasta)
	if errs = append(errs, fechaErrs...); len(errs) > 0 {
		return nil, &ValidacionError{Errores: errs}
	}

	entradas, total, err := s.repo.List(ctx, filtro)
	if err != nil {
		return nil, err
	}
	data := make([]dto.EntradaResponse, 0, len(entradas))
	for i := range entradas {
		data = append(data, entradaToResponse(&entradas[i]))
	}
	return &dto.EntradaListResponse{
		Data:       data,
		Paginacion: dto.NuevaPaginacion(total, filtro.Page, filtro.Limit),
	}, nil
}

// validarNotaEntrada: manual entries do not come from an invoice, so they
// need a note explaining them.
func validarNotaEntrada(nota string) []string {
	if strings.TrimSpace(nota) == "" {
		return []string{"nota es obligatoria cuando la entrada no proviene de una factura"}
	}
	return nil
}

func validarCantidadPositiva(cantidad decimal.Decimal, campo string) []string {
	if !cantidad.Round(2).IsPositive() {
		return []string{campo + " debe ser mayor que 0"}
	}
	return nil
}

func entradaToResponse(e *model.Entrada) dto.EntradaResponse {
	return dto.EntradaResponse{
		ID:              e.ID.String(),
		ProductoID:      e.ProductoID.String(),
		FacturaID:       uuidPtrString(e.FacturaID),
		ContratoID:      uuidPtrString(e.ContratoID),
		CantidadEntrada: e.CantidadEntrada,
		Costo:           e.Costo,
		Nota:            e.Nota,
		Fecha:           e.Fecha.Format(formatoFecha),
	}
}
