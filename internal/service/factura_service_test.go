package service_test

import (
	"context"
	"sync"
	"testing"

	"pactumsuite/internal/dto"
	"pactumsuite/internal/model"
	"pactumsuite/internal/repository"
	"pactumsuite/internal/service"
	"pactumsuite/internal/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func lineas(items ...dto.FacturaProductoRequest) *[]dto.FacturaProductoRequest { return &items }

func linea(p *model.Producto, cantidad string) dto.FacturaProductoRequest {
	return dto.FacturaProductoRequest{ProductoID: p.ID.String(), Cantidad: testutil.D(cantidad)}
}

func facturaReq(c *model.Contrato, num int, fecha string) dto.CrearFacturaRequest {
	return dto.CrearFacturaRequest{NumConsecutivo: &num, Fecha: fecha, ContratoID: c.ID.String()}
}

func assertStock(t *testing.T, e *entorno, p *model.Producto, esperado string) {
	t.Helper()
	got := testutil.Stock(t, e.db, p.ID)
	assert.True(t, got.Equal(testutil.D(esperado)), "stock de %s: esperado %s, obtenido %s", p.Codigo, esperado, got)
}

// ── Crear ────────────────────────────────────────────────────────────────────

func TestCrearFactura_ClienteDescuentaStockYCapturaPrecio(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	c := testutil.Contrato(t, e.db, model.RolCliente, "1", "2025-01-01")
	p := testutil.Producto(t, e.db, "P1", "12.50", "8.00", "10")

	req := facturaReq(c, 1, "2025-02-01")
	l := linea(p, "3")
	l.Precio = ptr(testutil.D("99")) // ignored on Cliente contracts
	req.Productos = lineas(l)

	f, err := e.facturas.Crear(ctx, e.usuario.ID, req)
	require.NoError(t, err)

	assertStock(t, e, p, "7")
	require.Len(t, f.Productos, 1)
	assert.True(t, f.Productos[0].PrecioVenta.Equal(testutil.D("12.50")))
	assert.True(t, f.Productos[0].CostoVenta.Equal(testutil.D("8")))
	assert.True(t, f.Totales.SumaGeneral.Equal(testutil.D("37.50")))
	assert.Equal(t, model.EstadoNoFacturado, f.Estado)

	assert.Equal(t, int64(1), testutil.Contar(t, e.db, &model.MovimientoInventario{},
		"producto_id = ? AND origen = ?", p.ID, model.OrigenFactura))
	assert.Equal(t, int64(0), testutil.Contar(t, e.db, &model.Entrada{}, "1 = 1"))
	assert.Equal(t, []uuid.UUID{uuid.MustParse(f.ID)}, e.eventos.guardadas)
}

func TestCrearFactura_StockInsuficienteNoEscribeNada(t *testing.T) {
	e := nuevoEntorno(t)
	c := testutil.Contrato(t, e.db, model.RolCliente, "1", "2025-01-01")
	p := testutil.Producto(t, e.db, "P1", "10", "5", "2")

	req := facturaReq(c, 1, "2025-02-01")
	req.Productos = lineas(linea(p, "1.5"), linea(p, "1"))

	_, err := e.facturas.Crear(context.Background(), e.usuario.ID, req)
	assert.ErrorIs(t, err, service.ErrStockInsuficiente)
	assertStock(t, e, p, "2")
	assert.Equal(t, int64(0), testutil.Contar(t, e.db, &model.Factura{}, "1 = 1"))
	assert.Empty(t, e.eventos.guardadas)
}

func TestCrearFactura_ProveedorIncrementaYRegistraEntradas(t *testing.T) {
	e := nuevoEntorno(t)
	c := testutil.Contrato(t, e.db, model.RolProveedor, "7", "2025-01-01")
	p := testutil.Producto(t, e.db, "P1", "10", "5", "0")

	req := facturaReq(c, 1, "2025-02-01")
	l := linea(p, "4")
	l.Precio = ptr(testutil.D("6"))
	l.Costo = ptr(testutil.D("4.25"))
	req.Productos = lineas(l)

	f, err := e.facturas.Crear(context.Background(), e.usuario.ID, req)
	require.NoError(t, err)

	assertStock(t, e, p, "4")
	assert.True(t, f.Productos[0].PrecioVenta.Equal(testutil.D("6")))

	var entradas []model.Entrada
	require.NoError(t, e.db.Where("factura_id = ?", f.ID).Find(&entradas).Error)
	require.Len(t, entradas, 1)
	assert.True(t, entradas[0].CantidadEntrada.Equal(testutil.D("4")))
	assert.True(t, entradas[0].Costo.Equal(testutil.D("4.25")))
	assert.Equal(t, c.ID, *entradas[0].ContratoID)
}

func TestCrearFactura_ServiciosYProductosSonExclusivos(t *testing.T) {
	e := nuevoEntorno(t)
	c := testutil.Contrato(t, e.db, model.RolCliente, "1", "2025-01-01")
	p := testutil.Producto(t, e.db, "P1", "10", "5", "10")

	req := facturaReq(c, 1, "2025-02-01")
	req.Productos = lineas(linea(p, "1"))
	req.Servicios = &[]dto.ServicioRequest{{Descripcion: "Transporte", Importe: testutil.D("100"), Cantidad: 1, UnidadMedida: "viaje"}}

	_, err := e.facturas.Crear(context.Background(), e.usuario.ID, req)
	var verr *service.ValidacionError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Errores, "una factura no puede tener servicios y productos a la vez")
	assertStock(t, e, p, "10")
}

func TestCrearFactura_ReportaTodosLosErroresDeValidacion(t *testing.T) {
	e := nuevoEntorno(t)
	num := 0
	req := dto.CrearFacturaRequest{
		NumConsecutivo: &num,
		Fecha:          "01/02/2025",
		ContratoID:     "no-es-uuid",
		Estado:         "Pagado",
		CargoAdicional: ptr(testutil.D("-1")),
		Servicios:      &[]dto.ServicioRequest{{Importe: testutil.D("1000000"), Cantidad: 0}},
	}
	_, err := e.facturas.Crear(context.Background(), e.usuario.ID, req)
	var verr *service.ValidacionError
	require.ErrorAs(t, err, &verr)
	// num, fecha, contrato, estado, cargo and four servicio rules
	assert.Len(t, verr.Errores, 9)
}

func TestCrearFactura_ReferenciasInexistentes(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()

	req := dto.CrearFacturaRequest{NumConsecutivo: ptr(1), Fecha: "2025-02-01", ContratoID: uuid.NewString()}
	_, err := e.facturas.Crear(ctx, e.usuario.ID, req)
	assert.ErrorIs(t, err, service.ErrReferenciaNoEncontrada)

	c := testutil.Contrato(t, e.db, model.RolCliente, "1", "2025-01-01")
	otro := testutil.Contrato(t, e.db, model.RolCliente, "2", "2025-01-01")
	ajeno := testutil.Trabajador(t, e.db, otro.ID)
	req = facturaReq(c, 1, "2025-02-01")
	req.TrabajadorAutorizadoID = ptr(ajeno.ID.String())
	_, err = e.facturas.Crear(ctx, e.usuario.ID, req)
	var verr *service.ValidacionError
	assert.ErrorAs(t, err, &verr)

	req = facturaReq(c, 1, "2025-02-01")
	req.Productos = lineas(dto.FacturaProductoRequest{ProductoID: uuid.NewString(), Cantidad: testutil.D("1")})
	_, err = e.facturas.Crear(ctx, e.usuario.ID, req)
	assert.ErrorIs(t, err, service.ErrReferenciaNoEncontrada)

	_, err = e.facturas.Crear(ctx, uuid.New(), facturaReq(c, 1, "2025-02-01"))
	assert.ErrorIs(t, err, service.ErrReferenciaNoEncontrada)
}

// ── Numeracion ───────────────────────────────────────────────────────────────

func TestNumeracion_UnicoPorAnioEnContratosCliente(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	c1 := testutil.Contrato(t, e.db, model.RolCliente, "1", "2024-01-01")
	c2 := testutil.Contrato(t, e.db, model.RolCliente, "2", "2024-01-01")
	prov := testutil.Contrato(t, e.db, model.RolProveedor, "3", "2024-01-01")

	_, err := e.facturas.Crear(ctx, e.usuario.ID, facturaReq(c1, 1, "2025-01-10"))
	require.NoError(t, err)

	// the scope is every Cliente contract, not only the same one
	_, err = e.facturas.Crear(ctx, e.usuario.ID, facturaReq(c2, 1, "2025-06-01"))
	assert.ErrorIs(t, err, service.ErrConsecutivoDuplicado)

	_, err = e.facturas.Crear(ctx, e.usuario.ID, facturaReq(c2, 1, "2026-01-05"))
	assert.NoError(t, err)

	_, err = e.facturas.Crear(ctx, e.usuario.ID, facturaReq(prov, 1, "2025-03-01"))
	assert.NoError(t, err, "Proveedor invoices are not numbered")
	_, err = e.facturas.Crear(ctx, e.usuario.ID, facturaReq(prov, 1, "2025-03-02"))
	assert.NoError(t, err)
}

func TestNumeracion_FechaPosteriorAlAnteriorYHuecos(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	c := testutil.Contrato(t, e.db, model.RolCliente, "1", "2025-01-01")

	_, err := e.facturas.Crear(ctx, e.usuario.ID, facturaReq(c, 1, "2025-03-10"))
	require.NoError(t, err)

	_, err = e.facturas.Crear(ctx, e.usuario.ID, facturaReq(c, 2, "2025-03-10"))
	assert.ErrorIs(t, err, service.ErrFechaFueraDeOrden)
	_, err = e.facturas.Crear(ctx, e.usuario.ID, facturaReq(c, 2, "2025-03-09"))
	assert.ErrorIs(t, err, service.ErrFechaFueraDeOrden)

	_, err = e.facturas.Crear(ctx, e.usuario.ID, facturaReq(c, 2, "2025-03-11"))
	assert.NoError(t, err)

	// no predecessor: gaps are accepted with any date
	_, err = e.facturas.Crear(ctx, e.usuario.ID, facturaReq(c, 9, "2025-01-02"))
	assert.NoError(t, err)
}

func TestNumeracion_AnioSegunElDesfaseDelCliente(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	c := testutil.Contrato(t, e.db, model.RolCliente, "1", "2024-01-01")

	_, err := e.facturas.Crear(ctx, e.usuario.ID, facturaReq(c, 1, "2024-12-20"))
	require.NoError(t, err)

	// 2024-12-31T22:30Z in UTC, but the caller wrote New Year's Day
	f, err := e.facturas.Crear(ctx, e.usuario.ID, facturaReq(c, 1, "2025-01-01T00:30:00+02:00"))
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01", f.Fecha)

	_, err = e.facturas.Crear(ctx, e.usuario.ID, facturaReq(c, 1, "2025-03-01"))
	assert.ErrorIs(t, err, service.ErrConsecutivoDuplicado)
}

// facturaRepoBloqueos records numbering locks and delegates everything else.
type facturaRepoBloqueos struct {
	repository.FacturaRepository
	mu      sync.Mutex
	bloqueo [][2]int
}

func (r *facturaRepoBloqueos) BloquearConsecutivoTx(tx *gorm.DB, anio, num int) error {
	r.mu.Lock()
	r.bloqueo = append(r.bloqueo, [2]int{anio, num})
	r.mu.Unlock()
	return r.FacturaRepository.BloquearConsecutivoTx(tx, anio, num)
}

func TestNumeracion_BloqueaNumeroYPredecesorDentroDeLaTransaccion(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	facturaRepo := &facturaRepoBloqueos{FacturaRepository: repository.NewFacturaRepository(db)}
	contratoRepo := repository.NewContratoRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	inventario := service.NewInventarioService(productoRepo, repository.NewMovimientoInventarioRepository(db))
	facturas := service.NewFacturaService(facturaRepo, contratoRepo, productoRepo,
		repository.NewUsuarioRepository(db), repository.NewEntradaRepository(db),
		inventario, service.NewNumeracionService(facturaRepo, contratoRepo), nil)
	u := testutil.Usuario(t, db, "comercial", model.RolComercial)
	cli := testutil.Contrato(t, db, model.RolCliente, "1", "2025-01-01")
	prov := testutil.Contrato(t, db, model.RolProveedor, "2", "2025-01-01")

	_, err := facturas.Crear(ctx, u.ID, facturaReq(cli, 5, "2025-02-01"))
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{2025, 4}, {2025, 5}}, facturaRepo.bloqueo)

	facturaRepo.bloqueo = nil
	_, err = facturas.Crear(ctx, u.ID, facturaReq(cli, 1, "2025-03-01"))
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{2025, 1}}, facturaRepo.bloqueo)

	facturaRepo.bloqueo = nil
	_, err = facturas.Crear(ctx, u.ID, facturaReq(prov, 5, "2025-02-01"))
	require.NoError(t, err)
	assert.Empty(t, facturaRepo.bloqueo, "Proveedor invoices are not numbered")
}

func TestSiguienteConsecutivo(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	c := testutil.Contrato(t, e.db, model.RolCliente, "1", "2025-01-01")
	prov := testutil.Contrato(t, e.db, model.RolProveedor, "2", "2025-01-01")

	resp, err := e.facturas.SiguienteConsecutivo(ctx, 2025)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.SiguienteConsecutivo)

	_, err = e.facturas.Crear(ctx, e.usuario.ID, facturaReq(c, 4, "2025-02-01"))
	require.NoError(t, err)
	_, err = e.facturas.Crear(ctx, e.usuario.ID, facturaReq(prov, 8, "2025-02-01"))
	require.NoError(t, err)

	// every invoice of the year counts, including Proveedor ones
	resp, err = e.facturas.SiguienteConsecutivo(ctx, 2025)
	require.NoError(t, err)
	assert.Equal(t, 9, resp.SiguienteConsecutivo)

	resp, err = e.facturas.SiguienteConsecutivo(ctx, 2026)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.SiguienteConsecutivo)

	_, err = e.facturas.SiguienteConsecutivo(ctx, 1800)
	var verr *service.ValidacionError
	assert.ErrorAs(t, err, &verr)
}

// ── Actualizar ───────────────────────────────────────────────────────────────

func TestActualizarFactura_UsuarioEsInmutable(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	c := testutil.Contrato(t, e.db, model.RolCliente, "1", "2025-01-01")
	f, err := e.facturas.Crear(ctx, e.usuario.ID, facturaReq(c, 1, "2025-02-01"))
	require.NoError(t, err)

	_, err = e.facturas.Actualizar(ctx, uuid.MustParse(f.ID), dto.ActualizarFacturaRequest{UsuarioID: ptr(uuid.NewString())})
	assert.ErrorIs(t, err, service.ErrCampoInmutable)

	// sending the same user is a no-op
	_, err = e.facturas.Actualizar(ctx, uuid.MustParse(f.ID), dto.ActualizarFacturaRequest{UsuarioID: ptr(e.usuario.ID.String())})
	assert.NoError(t, err)
}

func TestActualizarFactura_ReemplazaLineasContandoLoDevuelto(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	c := testutil.Contrato(t, e.db, model.RolCliente, "1", "2025-01-01")
	p := testutil.Producto(t, e.db, "P1", "10", "5", "10")

	req := facturaReq(c, 1, "2025-02-01")
	req.Productos = lineas(linea(p, "3"))
	f, err := e.facturas.Crear(ctx, e.usuario.ID, req)
	require.NoError(t, err)
	id := uuid.MustParse(f.ID)
	assertStock(t, e, p, "7")

	_, err = e.facturas.Actualizar(ctx, id, dto.ActualizarFacturaRequest{Productos: lineas(linea(p, "5"))})
	require.NoError(t, err)
	assertStock(t, e, p, "5")

	// the replacement is audited as one net movement, distinct from the create
	movs, _, err := e.inventario.ListarMovimientos(ctx, p.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, movs, 2)
	porOrigen := map[string]decimal.Decimal{}
	for _, m := range movs {
		porOrigen[m.Origen] = m.Cantidad
	}
	require.Contains(t, porOrigen, model.OrigenActualizacionFactura)
	assert.True(t, porOrigen[model.OrigenFactura].Equal(testutil.D("-3")))
	assert.True(t, porOrigen[model.OrigenActualizacionFactura].Equal(testutil.D("-2")))

	// 5 on hand plus the 5 the invoice gives back
	got, err := e.facturas.Actualizar(ctx, id, dto.ActualizarFacturaRequest{Productos: lineas(linea(p, "10"))})
	require.NoError(t, err)
	assertStock(t, e, p, "0")
	require.Len(t, got.Productos, 1)
	assert.True(t, got.Productos[0].Cantidad.Equal(testutil.D("10")))

	_, err = e.facturas.Actualizar(ctx, id, dto.ActualizarFacturaRequest{Productos: lineas(linea(p, "10.01"))})
	assert.ErrorIs(t, err, service.ErrStockInsuficiente)
	assertStock(t, e, p, "0")

	// empty list removes every line and returns the stock
	_, err = e.facturas.Actualizar(ctx, id, dto.ActualizarFacturaRequest{Productos: lineas()})
	require.NoError(t, err)
	assertStock(t, e, p, "10")
	assert.Equal(t, int64(0), testutil.Contar(t, e.db, &model.FacturaProducto{}, "factura_id = ?", id))
}

func TestActualizarFactura_SinLineasNoMueveStock(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	c := testutil.Contrato(t, e.db, model.RolCliente, "1", "2025-01-01")
	p := testutil.Producto(t, e.db, "P1", "10", "5", "10")

	req := facturaReq(c, 1, "2025-02-01")
	req.Productos = lineas(linea(p, "3"))
	f, err := e.facturas.Crear(ctx, e.usuario.ID, req)
	require.NoError(t, err)

	got, err := e.facturas.Actualizar(ctx, uuid.MustParse(f.ID), dto.ActualizarFacturaRequest{
		Estado: ptr(model.EstadoFacturado),
		Nota:   ptr("entregado"),
	})
	require.NoError(t, err)
	assert.Equal(t, model.EstadoFacturado, got.Estado)
	assertStock(t, e, p, "7")
	assert.Equal(t, int64(1), testutil.Contar(t, e.db, &model.MovimientoInventario{}, "producto_id = ?", p.ID))
}

func TestActualizarFactura_CambioAContratoProveedor(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	cliente := testutil.Contrato(t, e.db, model.RolCliente, "1", "2025-01-01")
	prov := testutil.Contrato(t, e.db, model.RolProveedor, "2", "2025-01-01")
	p := testutil.Producto(t, e.db, "P1", "10", "5", "10")

	req := facturaReq(cliente, 1, "2025-02-01")
	req.Productos = lineas(linea(p, "4"))
	f, err := e.facturas.Crear(ctx, e.usuario.ID, req)
	require.NoError(t, err)
	assertStock(t, e, p, "6")

	got, err := e.facturas.Actualizar(ctx, uuid.MustParse(f.ID), dto.ActualizarFacturaRequest{ContratoID: ptr(prov.ID.String())})
	require.NoError(t, err)

	// the 4 taken out come back and 4 more arrive from the supplier
	assertStock(t, e, p, "14")
	assert.Equal(t, prov.ID.String(), got.ContratoID)
	assert.Equal(t, int64(1), testutil.Contar(t, e.db, &model.Entrada{}, "factura_id = ?", f.ID))
	// captured price survives the move
	assert.True(t, got.Productos[0].PrecioVenta.Equal(testutil.D("10")))
}

func TestActualizarFactura_XorContraElEstadoResultante(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	c := testutil.Contrato(t, e.db, model.RolCliente, "1", "2025-01-01")
	p := testutil.Producto(t, e.db, "P1", "10", "5", "10")

	req := facturaReq(c, 1, "2025-02-01")
	req.Servicios = &[]dto.ServicioRequest{{Descripcion: "Corte", Importe: testutil.D("20"), Cantidad: 2, UnidadMedida: "u"}}
	f, err := e.facturas.Crear(ctx, e.usuario.ID, req)
	require.NoError(t, err)
	id := uuid.MustParse(f.ID)

	_, err = e.facturas.Actualizar(ctx, id, dto.ActualizarFacturaRequest{Productos: lineas(linea(p, "1"))})
	var verr *service.ValidacionError
	assert.ErrorAs(t, err, &verr)

	// swapping kinds in one request is allowed
	got, err := e.facturas.Actualizar(ctx, id, dto.ActualizarFacturaRequest{
		Servicios: &[]dto.ServicioRequest{},
		Productos: lineas(linea(p, "1")),
	})
	require.NoError(t, err)
	assert.Empty(t, got.Servicios)
	assert.Len(t, got.Productos, 1)
	assertStock(t, e, p, "9")
}

func TestActualizarFactura_RenumerarValidaExcluyendoseASiMisma(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	c := testutil.Contrato(t, e.db, model.RolCliente, "1", "2025-01-01")

	f1, err := e.facturas.Crear(ctx, e.usuario.ID, facturaReq(c, 1, "2025-02-01"))
	require.NoError(t, err)
	f2, err := e.facturas.Crear(ctx, e.usuario.ID, facturaReq(c, 2, "2025-02-05"))
	require.NoError(t, err)

	_, err = e.facturas.Actualizar(ctx, uuid.MustParse(f2.ID), dto.ActualizarFacturaRequest{NumConsecutivo: ptr(1)})
	assert.ErrorIs(t, err, service.ErrConsecutivoDuplicado)

	_, err = e.facturas.Actualizar(ctx, uuid.MustParse(f1.ID), dto.ActualizarFacturaRequest{Fecha: ptr("2025-01-15")})
	assert.NoError(t, err)

	_, err = e.facturas.Actualizar(ctx, uuid.MustParse(f2.ID), dto.ActualizarFacturaRequest{Fecha: ptr("2025-01-10")})
	assert.ErrorIs(t, err, service.ErrFechaFueraDeOrden)
}

func TestActualizarFactura_NoEncontrada(t *testing.T) {
	e := nuevoEntorno(t)
	_, err := e.facturas.Actualizar(context.Background(), uuid.New(), dto.ActualizarFacturaRequest{})
	assert.ErrorIs(t, err, service.ErrNoEncontrado)
}

// ── Eliminar ─────────────────────────────────────────────────────────────────

func TestEliminarFactura_RestauraStockYBorraEnCascada(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	c := testutil.Contrato(t, e.db, model.RolCliente, "1", "2025-01-01")
	p := testutil.Producto(t, e.db, "P1", "10", "5", "10")

	req := facturaReq(c, 1, "2025-02-01")
	req.Productos = lineas(linea(p, "4"))
	f, err := e.facturas.Crear(ctx, e.usuario.ID, req)
	require.NoError(t, err)
	id := uuid.MustParse(f.ID)

	require.NoError(t, e.facturas.Eliminar(ctx, id))
	assertStock(t, e, p, "10")
	assert.Equal(t, int64(0), testutil.Contar(t, e.db, &model.Factura{}, "id = ?", id))
	assert.Equal(t, int64(0), testutil.Contar(t, e.db, &model.FacturaProducto{}, "factura_id = ?", id))
	assert.Equal(t, int64(1), testutil.Contar(t, e.db, &model.MovimientoInventario{},
		"referencia_id = ? AND origen = ?", id, model.OrigenReversoFactura))
	assert.Equal(t, []uuid.UUID{id}, e.eventos.eliminadas)

	_, err = e.facturas.Obtener(ctx, id)
	assert.ErrorIs(t, err, service.ErrNoEncontrado)
	assert.ErrorIs(t, e.facturas.Eliminar(ctx, id), service.ErrNoEncontrado)
}

func TestEliminarFacturaProveedor_NoDejaStockNegativo(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	prov := testutil.Contrato(t, e.db, model.RolProveedor, "1", "2025-01-01")
	p := testutil.Producto(t, e.db, "P1", "10", "5", "0")

	req := facturaReq(prov, 1, "2025-02-01")
	req.Productos = lineas(linea(p, "5"))
	f, err := e.facturas.Crear(ctx, e.usuario.ID, req)
	require.NoError(t, err)

	_, err = e.salidas.Crear(ctx, e.usuario.ID, dto.CrearSalidaRequest{
		ProductoID: p.ID.String(), Fecha: "2025-02-02", Descripcion: "merma", Cantidad: testutil.D("3"),
	})
	require.NoError(t, err)
	assertStock(t, e, p, "2")

	err = e.facturas.Eliminar(ctx, uuid.MustParse(f.ID))
	assert.ErrorIs(t, err, service.ErrStockInsuficiente)
	assertStock(t, e, p, "2")
	assert.Equal(t, int64(1), testutil.Contar(t, e.db, &model.Factura{}, "id = ?", f.ID))
	assert.Equal(t, int64(1), testutil.Contar(t, e.db, &model.Entrada{}, "factura_id = ?", f.ID))
}

// ── Consultas ────────────────────────────────────────────────────────────────

func TestFiltrarFacturas_PaginaYSuma(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	cliente := testutil.Contrato(t, e.db, model.RolCliente, "1", "2025-01-01")
	prov := testutil.Contrato(t, e.db, model.RolProveedor, "2", "2025-01-01")
	servicio := func(importe string) *[]dto.ServicioRequest {
		return &[]dto.ServicioRequest{{Descripcion: "s", Importe: testutil.D(importe), Cantidad: 1, UnidadMedida: "u"}}
	}

	r1 := facturaReq(cliente, 1, "2025-01-10")
	r1.Servicios = servicio("100")
	r1.Estado = model.EstadoFacturado
	r1.CargoAdicional = ptr(testutil.D("5"))
	r2 := facturaReq(cliente, 2, "2025-01-20")
	r2.Servicios = servicio("50")
	r3 := facturaReq(prov, 1, "2025-02-01")
	r3.Servicios = servicio("30")
	for _, r := range []dto.CrearFacturaRequest{r1, r2, r3} {
		_, err := e.facturas.Crear(ctx, e.usuario.ID, r)
		require.NoError(t, err)
	}

	resp, err := e.facturas.Filtrar(ctx, dto.FacturaFilter{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, resp.Data, 2)
	assert.Equal(t, int64(3), resp.Paginacion.Total)
	assert.True(t, resp.Paginacion.HasNextPage)
	// sums cover every match, not only the page
	assert.True(t, resp.Sumas.SumaGeneral.Equal(testutil.D("185")), resp.Sumas.SumaGeneral.String())
	assert.True(t, resp.Sumas.SumaCliente.Equal(testutil.D("155")))
	assert.True(t, resp.Sumas.SumaProveedor.Equal(testutil.D("30")))
	assert.True(t, resp.Sumas.SumaFacturado.Equal(testutil.D("105")))

	resp, err = e.facturas.Filtrar(ctx, dto.FacturaFilter{ContratoID: cliente.ID.String(), FechaHasta: "2025-01-10"})
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, 1, resp.Data[0].NumConsecutivo)

	_, err = e.facturas.Filtrar(ctx, dto.FacturaFilter{FechaDesde: "ayer"})
	var verr *service.ValidacionError
	assert.ErrorAs(t, err, &verr)

	todas, sumas, err := e.facturas.Exportar(ctx, dto.FacturaFilter{Estado: model.EstadoNoFacturado})
	require.NoError(t, err)
	assert.Len(t, todas, 2)
	assert.True(t, sumas.SumaFacturado.Equal(decimal.Zero))
}
