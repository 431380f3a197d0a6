package router_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pactumsuite/internal/config"
	"pactumsuite/internal/dto"
	"pactumsuite/internal/model"
	"pactumsuite/internal/router"
	"pactumsuite/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testSecret = "router_test_secret_with_32_chars!"

type app struct {
	t  *testing.T
	db *gorm.DB
	r  *gin.Engine
}

func nuevaApp(t *testing.T) *app {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Env:                "test",
		CORSAllowedOrigins: "*",
		JWTSecret:          testSecret,
		JWTExpirationHours: 1,
		JWTRefreshHours:    2,
		Empresa:            "Pactum Test",
	}
	db := testutil.NewDB(t)
	svc := router.NuevosServicios(cfg, db, nil, nil)
	return &app{t: t, db: db, r: router.New(cfg, db, nil, svc)}
}

func (a *app) token(u *model.Usuario) string {
	a.t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": u.ID.String(), "nombre_usuario": u.NombreUsuario, "rol": u.Rol, "tipo": "access",
		"exp": time.Now().Add(time.Hour).Unix(), "iat": time.Now().Unix(),
	})
	s, err := tok.SignedString([]byte(testSecret))
	require.NoError(a.t, err)
	return s
}

func (a *app) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealth_RedisDisabled(t *testing.T) {
	a := nuevaApp(t)
	w := a.do(http.MethodGet, "/health", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]interface{}](t, w)
	assert.Equal(t, "connected", body["db"])
	assert.Equal(t, "disabled", body["redis"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestAuth_RequiredAndRoles(t *testing.T) {
	a := nuevaApp(t)
	invitado := testutil.Usuario(t, a.db, "invitado", model.RolInvitado)

	w := a.do(http.MethodGet, "/v1/productos", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(http.MethodGet, "/v1/productos", a.token(invitado), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = a.do(http.MethodPost, "/v1/productos", a.token(invitado), dto.CrearProductoRequest{
		Codigo: "P1", Nombre: "Res", UnidadMedida: "kg",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.do(http.MethodGet, "/v1/usuarios", a.token(invitado), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuth_LoginFlow(t *testing.T) {
	a := nuevaApp(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("secreto123"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, a.db.Create(&model.Usuario{
		Nombre: "Admin", NombreUsuario: "admin", CarnetIdentidad: "80010112345",
		Cargo: "Director", PasswordHash: string(hash), Rol: model.RolAdministrador, Activo: true,
	}).Error)

	w := a.do(http.MethodPost, "/v1/auth/login", "", dto.LoginRequest{NombreUsuario: "admin", Contrasenna: "nope1234"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(http.MethodPost, "/v1/auth/login", "", dto.LoginRequest{NombreUsuario: "admin", Contrasenna: "secreto123"})
	require.Equal(t, http.StatusOK, w.Code)
	login := decode[dto.LoginResponse](t, w)

	// a refresh token is not accepted as a bearer token
	w = a.do(http.MethodGet, "/v1/usuarios", login.RefreshToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(http.MethodGet, "/v1/usuarios", login.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]dto.UsuarioResponse](t, w), 1)
}

func TestFacturas_CicloHTTP(t *testing.T) {
	a := nuevaApp(t)
	comercial := testutil.Usuario(t, a.db, "comercial", model.RolComercial)
	tok := a.token(comercial)
	contrato := testutil.Contrato(t, a.db, model.RolCliente, "1/2025", "2025-01-01")
	producto := testutil.Producto(t, a.db, "RES-1", "10", "6", "20")

	num := 1
	productos := []dto.FacturaProductoRequest{{ProductoID: producto.ID.String(), Cantidad: decimal.NewFromInt(5)}}
	req := dto.CrearFacturaRequest{
		NumConsecutivo: &num,
		Fecha:          "2025-03-10",
		Estado:         model.EstadoFacturado,
		ContratoID:     contrato.ID.String(),
		Productos:      &productos,
	}

	w := a.do(http.MethodPost, "/v1/facturas", tok, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	creada := decode[dto.FacturaResponse](t, w)
	assert.Equal(t, comercial.ID.String(), creada.UsuarioID)
	assert.True(t, creada.Totales.SumaGeneral.Equal(decimal.NewFromInt(50)))
	assert.True(t, testutil.Stock(t, a.db, producto.ID).Equal(decimal.NewFromInt(15)))

	// same number, same year, Cliente contract
	w = a.do(http.MethodPost, "/v1/facturas", tok, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodGet, "/v1/facturas/siguiente-consecutivo?anio=2025", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decode[dto.SiguienteConsecutivoResponse](t, w).SiguienteConsecutivo)

	w = a.do(http.MethodGet, "/v1/facturas/siguiente-consecutivo?anio=abc", tok, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodGet, "/v1/facturas?contrato_id="+contrato.ID.String(), tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	lista := decode[dto.FacturaListResponse](t, w)
	require.Len(t, lista.Data, 1)
	assert.True(t, lista.Sumas.SumaCliente.Equal(decimal.NewFromInt(50)))

	w = a.do(http.MethodGet, "/v1/facturas/"+creada.ID+"/pdf", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

	w = a.do(http.MethodGet, "/v1/facturas/export", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")), "xlsx is a zip container")

	w = a.do(http.MethodDelete, "/v1/facturas/"+creada.ID, tok, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, testutil.Stock(t, a.db, producto.ID).Equal(decimal.NewFromInt(20)))

	w = a.do(http.MethodGet, "/v1/facturas/"+creada.ID, tok, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFacturas_ErroresDeValidacion(t *testing.T) {
	a := nuevaApp(t)
	tok := a.token(testutil.Usuario(t, a.db, "comercial", model.RolComercial))

	w := a.do(http.MethodPost, "/v1/facturas", tok, dto.CrearFacturaRequest{Fecha: "10/03/2025", Estado: "Pagado"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[map[string]interface{}](t, w)
	errs, ok := body["errors"].([]interface{})
	require.True(t, ok, w.Body.String())
	assert.GreaterOrEqual(t, len(errs), 3)

	w = a.do(http.MethodGet, "/v1/facturas/no-es-uuid", tok, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodGet, "/v1/facturas?estado=Pagado", tok, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestProductos_MovimientosYCodigo(t *testing.T) {
	a := nuevaApp(t)
	comercial := testutil.Usuario(t, a.db, "comercial", model.RolComercial)
	tok := a.token(comercial)
	producto := testutil.Producto(t, a.db, "CER-9", "3", "2", "10")

	w := a.do(http.MethodPost, "/v1/salidas", tok, dto.CrearSalidaRequest{
		ProductoID: producto.ID.String(), Cantidad: decimal.NewFromInt(4), Fecha: "2025-05-05", Descripcion: "merma",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = a.do(http.MethodGet, "/v1/productos/codigo/CER-9", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	p := decode[dto.ProductoResponse](t, w)
	assert.True(t, p.CantidadExistencia.Equal(decimal.NewFromInt(6)))

	w = a.do(http.MethodGet, "/v1/productos/"+producto.ID.String()+"/movimientos", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var movs struct {
		Data []dto.MovimientoInventarioResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &movs))
	require.Len(t, movs.Data, 1)
	assert.True(t, movs.Data[0].CantidadNueva.Equal(decimal.NewFromInt(6)))

	w = a.do(http.MethodGet, "/v1/productos/codigo/NADA", tok, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEntidadesYContratos_CicloHTTP(t *testing.T) {
	a := nuevaApp(t)
	tok := a.token(testutil.Usuario(t, a.db, "comercial", model.RolComercial))
	invitado := a.token(testutil.Usuario(t, a.db, "invitado", model.RolInvitado))

	w := a.do(http.MethodPost, "/v1/entidades", invitado, dto.CrearEntidadRequest{Nombre: "Granja"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.do(http.MethodPost, "/v1/entidades", tok, dto.CrearEntidadRequest{Nombre: "Granja", Email: ptr("no-es-email")})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = a.do(http.MethodPost, "/v1/entidades", tok, dto.CrearEntidadRequest{Nombre: "Granja", CuentaBancaria: ptr("12")})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodPost, "/v1/entidades", tok, dto.CrearEntidadRequest{Nombre: "Granja", CuentaBancaria: ptr("1234-5678-90")})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	ent := decode[dto.EntidadResponse](t, w)

	w = a.do(http.MethodGet, "/v1/entidades?nombre=gran", invitado, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[dto.EntidadListResponse](t, w).Data, 1)

	fin := time.Now().UTC().AddDate(0, 0, 10).Format("2006-01-02")
	w = a.do(http.MethodPost, "/v1/contratos", tok, dto.CrearContratoRequest{
		NumConsecutivo: "1", FechaInicio: "2024-01-01", FechaFin: &fin,
		ClienteOProveedor: model.RolProveedor, EntidadID: &ent.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	contrato := decode[dto.ContratoResponse](t, w)
	assert.Equal(t, "Granja", contrato.Entidad)

	w = a.do(http.MethodGet, "/v1/contratos/proximos-a-vencer", invitado, nil)
	require.Equal(t, http.StatusOK, w.Code)
	proximos := decode[[]dto.ContratoResponse](t, w)
	require.Len(t, proximos, 1)
	assert.Equal(t, contrato.ID, proximos[0].ID)

	w = a.do(http.MethodDelete, "/v1/entidades/"+ent.ID, tok, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = a.do(http.MethodPut, "/v1/contratos/"+contrato.ID, tok, dto.ActualizarContratoRequest{ClienteOProveedor: ptr("Socio")})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = a.do(http.MethodPut, "/v1/contratos/"+contrato.ID, tok, dto.ActualizarContratoRequest{Entidad: ptr("Particular")})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Nil(t, decode[dto.ContratoResponse](t, w).EntidadID)

	w = a.do(http.MethodDelete, "/v1/entidades/"+ent.ID, tok, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = a.do(http.MethodDelete, "/v1/contratos/"+contrato.ID, invitado, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = a.do(http.MethodDelete, "/v1/contratos/"+contrato.ID, tok, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = a.do(http.MethodGet, "/v1/contratos/"+contrato.ID, tok, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductos_Eliminar(t *testing.T) {
	a := nuevaApp(t)
	tok := a.token(testutil.Usuario(t, a.db, "comercial", model.RolComercial))
	vacio := testutil.Producto(t, a.db, "V-1", "3", "2", "0")
	conStock := testutil.Producto(t, a.db, "V-2", "3", "2", "5")

	w := a.do(http.MethodDelete, "/v1/productos/"+conStock.ID.String(), tok, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = a.do(http.MethodDelete, "/v1/productos/"+vacio.ID.String(), tok, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = a.do(http.MethodGet, "/v1/productos/codigo/V-1", tok, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func ptr[T any](v T) *T { return &v }
