package service

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"time"

	"pactumsuite/internal/dto"
	"pactumsuite/internal/model"
	"pactumsuite/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Movimiento is a signed stock change on one product: positive adds stock,
// negative removes it.
type Movimiento struct {
	ProductoID uuid.UUID
	Cantidad   decimal.Decimal
}

// InventarioService is the inventory ledger: the only writer of
// Producto.CantidadExistencia. Every method must run inside the caller's
// transaction; product rows stay locked until it ends.
type InventarioService interface {
	Incrementar(tx *gorm.DB, productoID uuid.UUID, cantidad decimal.Decimal, origen string, ref *uuid.UUID) error
	Decrementar(tx *gorm.DB, productoID uuid.UUID, cantidad decimal.Decimal, origen string, ref *uuid.UUID) error
	// Aplicar nets movements per product and locks products in ascending id
	// order, so concurrent callers touching the same products cannot deadlock.
	Aplicar(tx *gorm.DB, movimientos []Movimiento, origen string, ref *uuid.UUID) error
	ListarMovimientos(ctx context.Context, productoID uuid.UUID, page, limit int) ([]dto.MovimientoInventarioResponse, dto.Paginacion, error)
}

type inventarioService struct {
	productoRepo   repository.ProductoRepository
	movimientoRepo repository.MovimientoInventarioRepository
}

func NewInventarioService(productoRepo repository.ProductoRepository, movimientoRepo repository.MovimientoInventarioRepository) InventarioService {
	return &inventarioService{productoRepo: productoRepo, movimientoRepo: movimientoRepo}
}

func (s *inventarioService) Incrementar(tx *gorm.DB, productoID uuid.UUID, cantidad decimal.Decimal, origen string, ref *uuid.UUID) error {
	if cantidad.IsNegative() {
		return nuevaValidacion("la cantidad a incrementar no puede ser negativa")
	}
	return s.Aplicar(tx, []Movimiento{{ProductoID: productoID, Cantidad: cantidad}}, origen, ref)
}

func (s *inventarioService) Decrementar(tx *gorm.DB, productoID uuid.UUID, cantidad decimal.Decimal, origen string, ref *uuid.UUID) error {
	if cantidad.IsNegative() {
		return nuevaValidacion("la cantidad a decrementar no puede ser negativa")
	}
	return s.Aplicar(tx, []Movimiento{{ProductoID: productoID, Cantidad: cantidad.Neg()}}, origen, ref)
}

func (s *inventarioService) Aplicar(tx *gorm.DB, movimientos []Movimiento, origen string, ref *uuid.UUID) error {
	for _, m := range consolidar(movimientos) {
		if err := s.aplicarUno(tx, m, origen, ref); err != nil {
			return err
		}
	}
	return nil
}

func (s *inventarioService) aplicarUno(tx *gorm.DB, m Movimiento, origen string, ref *uuid.UUID) error {
	p, err := s.productoRepo.FindForUpdateTx(tx, m.ProductoID)
	if err != nil {
		return noEncontrado(err, ErrReferenciaNoEncontrada, "producto "+m.ProductoID.String())
	}

	anterior := p.CantidadExistencia.Round(2)
	nueva := anterior.Add(m.Cantidad).Round(2)
	if nueva.IsNegative() {
		return fmt.Errorf("%w: producto %q tiene %s, se requieren %s",
			ErrStockInsuficiente, p.Nombre, anterior.StringFixed(2), m.Cantidad.Neg().StringFixed(2))
	}

	if err := s.productoRepo.SetCantidadTx(tx, p.ID, nueva); err != nil {
		return err
	}
	return s.movimientoRepo.CreateTx(tx, &model.MovimientoInventario{
		ProductoID:       p.ID,
		Origen:           origen,
		Cantidad:         m.Cantidad,
		CantidadAnterior: anterior,
		CantidadNueva:    nueva,
		ReferenciaID:     ref,
	})
}

func (s *inventarioService) ListarMovimientos(ctx context.Context, productoID uuid.UUID, page, limit int) ([]dto.MovimientoInventarioResponse, dto.Paginacion, error) {
	page, limit = paginaValida(page, limit)
	movs, total, err := s.movimientoRepo.ListByProducto(ctx, productoID, page, limit)
	if err != nil {
		return nil, dto.Paginacion{}, err
	}
	resp := make([]dto.MovimientoInventarioResponse, 0, len(movs))
	for _, m := range movs {
		resp = append(resp, dto.MovimientoInventarioResponse{
			ID:               m.ID.String(),
			ProductoID:       m.ProductoID.String(),
			Origen:           m.Origen,
			Cantidad:         m.Cantidad,
			CantidadAnterior: m.CantidadAnterior,
			CantidadNueva:    m.CantidadNueva,
			ReferenciaID:     uuidPtrString(m.ReferenciaID),
			CreatedAt:        m.CreatedAt.Format(time.RFC3339),
		})
	}
	return resp, dto.NuevaPaginacion(total, page, limit), nil
}

// consolidar sums movements per product, drops those that net to zero and
// sorts the rest by product id.
func consolidar(movimientos []Movimiento) []Movimiento {
	netos := make(map[uuid.UUID]decimal.Decimal, len(movimientos))
	for _, m := range movimientos {
		netos[m.ProductoID] = netos[m.ProductoID].Add(m.Cantidad.Round(2))
	}
	out := make([]Movimiento, 0, len(netos))
	for id, cant := range netos {
		if cant.IsZero() {
			continue
		}
		out = append(out, Movimiento{ProductoID: id, Cantidad: cant})
	}
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i].ProductoID[:], out[j].ProductoID[:]) < 0
	})
	return out
}
