package service_test

import (
	"context"
	"testing"

	"pactumsuite/internal/dto"
	"pactumsuite/internal/model"
	"pactumsuite/internal/service"
	"pactumsuite/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntrada_CrearIncrementaStock(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	p := testutil.Producto(t, e.db, "P1", "10", "5", "1")

	resp, err := e.entradas.Crear(ctx, dto.CrearEntradaRequest{
		ProductoID: p.ID.String(), CantidadEntrada: testutil.D("4"), Costo: testutil.D("5"), Nota: "ajuste inicial",
	})
	require.NoError(t, err)
	assertStock(t, e, p, "5")
	assert.NotEmpty(t, resp.Fecha)

	got, err := e.entradas.Obtener(ctx, uuid.MustParse(resp.ID))
	require.NoError(t, err)
	assert.Equal(t, "ajuste inicial", got.Nota)
}

func TestEntrada_ReglasDeVinculo(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	p := testutil.Producto(t, e.db, "P1", "10", "5", "0")
	var verr *service.ValidacionError

	// standalone entries need a note
	_, err := e.entradas.Crear(ctx, dto.CrearEntradaRequest{ProductoID: p.ID.String(), CantidadEntrada: testutil.D("1")})
	assert.ErrorAs(t, err, &verr)

	_, err = e.entradas.Crear(ctx, dto.CrearEntradaRequest{
		ProductoID: p.ID.String(), CantidadEntrada: testutil.D("0"), Nota: "x",
	})
	assert.ErrorAs(t, err, &verr)

	_, err = e.entradas.Crear(ctx, dto.CrearEntradaRequest{
		ProductoID: p.ID.String(), ContratoID: ptr(uuid.NewString()), CantidadEntrada: testutil.D("1"), Nota: "x",
	})
	assert.ErrorAs(t, err, &verr)
	assertStock(t, e, p, "0")
}

func TestEntrada_NoSeVinculaAFacturas(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	p := testutil.Producto(t, e.db, "P1", "10", "5", "0")
	prov := testutil.Contrato(t, e.db, model.RolProveedor, "1", "2025-01-01")
	cli := testutil.Contrato(t, e.db, model.RolCliente, "2", "2025-01-01")

	req := facturaReq(prov, 1, "2025-02-01")
	req.Productos = lineas(linea(p, "4"))
	fp, err := e.facturas.Crear(ctx, e.usuario.ID, req)
	require.NoError(t, err)
	fc, err := e.facturas.Crear(ctx, e.usuario.ID, facturaReq(cli, 1, "2025-02-01"))
	require.NoError(t, err)

	var verr *service.ValidacionError
	for _, vinculo := range []struct{ factura, contrato string }{
		{fp.ID, prov.ID.String()},
		{fc.ID, cli.ID.String()},
	} {
		_, err = e.entradas.Crear(ctx, dto.CrearEntradaRequest{
			ProductoID: p.ID.String(), FacturaID: ptr(vinculo.factura), ContratoID: ptr(vinculo.contrato),
			CantidadEntrada: testutil.D("5"), Nota: "manual",
		})
		require.ErrorAs(t, err, &verr)
	}
	assertStock(t, e, p, "4")

	// deleting the supplier invoice leaves nothing behind
	require.NoError(t, e.facturas.Eliminar(ctx, uuid.MustParse(fp.ID)))
	assertStock(t, e, p, "0")
	assert.Zero(t, testutil.Contar(t, e.db, &model.Entrada{}, "producto_id = ?", p.ID))
}

func TestEntrada_ActualizarCambiaProductoYCantidad(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	a := testutil.Producto(t, e.db, "A", "10", "5", "0")
	b := testutil.Producto(t, e.db, "B", "10", "5", "0")

	resp, err := e.entradas.Crear(ctx, dto.CrearEntradaRequest{ProductoID: a.ID.String(), CantidadEntrada: testutil.D("5"), Nota: "compra"})
	require.NoError(t, err)
	id := uuid.MustParse(resp.ID)

	_, err = e.entradas.Actualizar(ctx, id, dto.ActualizarEntradaRequest{CantidadEntrada: ptr(testutil.D("2"))})
	require.NoError(t, err)
	assertStock(t, e, a, "2")

	_, err = e.entradas.Actualizar(ctx, id, dto.ActualizarEntradaRequest{ProductoID: ptr(b.ID.String())})
	require.NoError(t, err)
	assertStock(t, e, a, "0")
	assertStock(t, e, b, "2")

	// b has been sold meanwhile: shrinking the entry would go negative
	_, err = e.salidas.Crear(ctx, e.usuario.ID, dto.CrearSalidaRequest{
		ProductoID: b.ID.String(), Fecha: "2025-03-01", Descripcion: "venta", Cantidad: testutil.D("2"),
	})
	require.NoError(t, err)
	_, err = e.entradas.Actualizar(ctx, id, dto.ActualizarEntradaRequest{CantidadEntrada: ptr(testutil.D("1"))})
	assert.ErrorIs(t, err, service.ErrStockInsuficiente)
	assert.ErrorIs(t, e.entradas.Eliminar(ctx, id), service.ErrStockInsuficiente)
}

func TestEntrada_DeFacturaNoSeEditaNiSeBorra(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	prov := testutil.Contrato(t, e.db, model.RolProveedor, "1", "2025-01-01")
	p := testutil.Producto(t, e.db, "P1", "10", "5", "0")

	req := facturaReq(prov, 1, "2025-02-01")
	req.Productos = lineas(linea(p, "3"))
	f, err := e.facturas.Crear(ctx, e.usuario.ID, req)
	require.NoError(t, err)

	lista, err := e.entradas.Listar(ctx, dto.EntradaFilter{FacturaID: f.ID})
	require.NoError(t, err)
	require.Len(t, lista.Data, 1)
	id := uuid.MustParse(lista.Data[0].ID)

	var verr *service.ValidacionError
	_, err = e.entradas.Actualizar(ctx, id, dto.ActualizarEntradaRequest{CantidadEntrada: ptr(testutil.D("1"))})
	assert.ErrorAs(t, err, &verr)
	assert.ErrorAs(t, e.entradas.Eliminar(ctx, id), &verr)
	assertStock(t, e, p, "3")
}

func TestSalida_CicloCompleto(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	p := testutil.Producto(t, e.db, "P1", "10", "5", "10")

	resp, err := e.salidas.Crear(ctx, e.usuario.ID, dto.CrearSalidaRequest{
		ProductoID: p.ID.String(), Fecha: "2025-03-01", Descripcion: "merma", Cantidad: testutil.D("4"),
	})
	require.NoError(t, err)
	assert.Equal(t, e.usuario.ID.String(), resp.UsuarioID)
	assertStock(t, e, p, "6")
	id := uuid.MustParse(resp.ID)

	_, err = e.salidas.Actualizar(ctx, id, dto.ActualizarSalidaRequest{Cantidad: ptr(testutil.D("10"))})
	require.NoError(t, err)
	assertStock(t, e, p, "0")

	_, err = e.salidas.Actualizar(ctx, id, dto.ActualizarSalidaRequest{Cantidad: ptr(testutil.D("11"))})
	assert.ErrorIs(t, err, service.ErrStockInsuficiente)

	require.NoError(t, e.salidas.Eliminar(ctx, id))
	assertStock(t, e, p, "10")
	_, err = e.salidas.Obtener(ctx, id)
	assert.ErrorIs(t, err, service.ErrNoEncontrado)
}

func TestSalida_Validaciones(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	p := testutil.Producto(t, e.db, "P1", "10", "5", "1")

	_, err := e.salidas.Crear(ctx, e.usuario.ID, dto.CrearSalidaRequest{ProductoID: p.ID.String()})
	var verr *service.ValidacionError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Errores, 3) // descripcion, cantidad, fecha

	_, err = e.salidas.Crear(ctx, e.usuario.ID, dto.CrearSalidaRequest{
		ProductoID: p.ID.String(), UsuarioID: uuid.NewString(), Fecha: "2025-03-01", Descripcion: "x", Cantidad: testutil.D("1"),
	})
	assert.ErrorIs(t, err, service.ErrReferenciaNoEncontrada)

	_, err = e.salidas.Crear(ctx, e.usuario.ID, dto.CrearSalidaRequest{
		ProductoID: p.ID.String(), Fecha: "2025-03-01", Descripcion: "x", Cantidad: testutil.D("2"),
	})
	assert.ErrorIs(t, err, service.ErrStockInsuficiente)
}
