package service_test

import (
	"context"
	"sync"
	"testing"

	"pactumsuite/internal/model"
	"pactumsuite/internal/repository"
	"pactumsuite/internal/service"
	"pactumsuite/internal/testutil"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// eventosGrabados records post-commit notifications.
type eventosGrabados struct {
	mu         sync.Mutex
	guardadas  []uuid.UUID
	eliminadas []uuid.UUID
}

func (e *eventosGrabados) FacturaGuardada(_ context.Context, id uuid.UUID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.guardadas = append(e.guardadas, id)
}

func (e *eventosGrabados) FacturaEliminada(_ context.Context, id uuid.UUID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.eliminadas = append(e.eliminadas, id)
}

var _ service.FacturaEventos = (*eventosGrabados)(nil)

type entorno struct {
	db         *gorm.DB
	inventario service.InventarioService
	facturas   service.FacturaService
	entradas   service.EntradaService
	salidas    service.SalidaService
	contratos  service.ContratoService
	entidades  service.EntidadService
	productos  service.ProductoService
	eventos    *eventosGrabados
	usuario    *model.Usuario
}

func nuevoEntorno(t *testing.T) *entorno {
	t.Helper()
	db := testutil.NewDB(t)

	usuarioRepo := repository.NewUsuarioRepository(db)
	contratoRepo := repository.NewContratoRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	facturaRepo := repository.NewFacturaRepository(db)
	entradaRepo := repository.NewEntradaRepository(db)
	entidadRepo := repository.NewEntidadRepository(db)

	inventario := service.NewInventarioService(productoRepo, repository.NewMovimientoInventarioRepository(db))
	numeracion := service.NewNumeracionService(facturaRepo, contratoRepo)
	eventos := &eventosGrabados{}

	return &entorno{
		db:         db,
		inventario: inventario,
		facturas: service.NewFacturaService(facturaRepo, contratoRepo, productoRepo, usuarioRepo, entradaRepo,
			inventario, numeracion, eventos),
		entradas:  service.NewEntradaService(entradaRepo, inventario),
		salidas:   service.NewSalidaService(repository.NewSalidaRepository(db), usuarioRepo, inventario),
		contratos: service.NewContratoService(contratoRepo, entidadRepo),
		entidades: service.NewEntidadService(entidadRepo, contratoRepo),
		productos: service.NewProductoService(productoRepo, nil),
		eventos:   eventos,
		usuario:   testutil.Usuario(t, db, "comercial", model.RolComercial),
	}
}

func ptr[T any](v T) *T { return &v }
