package router

import (
	"time"

	"pactumsuite/internal/config"
	"pactumsuite/internal/handler"
	"pactumsuite/internal/middleware"
	"pactumsuite/internal/model"
	"pactumsuite/internal/repository"
	"pactumsuite/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Servicios groups the business services. The worker pool shares Facturas
// with the HTTP layer.
type Servicios struct {
	Auth       service.AuthService
	Contratos  service.ContratoService
	Entidades  service.EntidadService
	Productos  service.ProductoService
	Inventario service.InventarioService
	Facturas   service.FacturaService
	Entradas   service.EntradaService
	Salidas    service.SalidaService
}

// NuevosServicios wires services to their repositories.
// Dependency graph: Service ← Repository ← DB/Redis. rdb and eventos may be nil.
func NuevosServicios(cfg *config.Config, db *gorm.DB, rdb *redis.Client, eventos service.FacturaEventos) *Servicios {
	usuarioRepo := repository.NewUsuarioRepository(db)
	contratoRepo := repository.NewContratoRepository(db)
	entidadRepo := repository.NewEntidadRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	movimientoRepo := repository.NewMovimientoInventarioRepository(db)
	facturaRepo := repository.NewFacturaRepository(db)
	entradaRepo := repository.NewEntradaRepository(db)
	salidaRepo := repository.NewSalidaRepository(db)

	inventarioSvc := service.NewInventarioService(productoRepo, movimientoRepo)
	numeracionSvc := service.NewNumeracionService(facturaRepo, contratoRepo)

	return &Servicios{
		Auth:       service.NewAuthService(usuarioRepo, cfg),
		Contratos:  service.NewContratoService(contratoRepo, entidadRepo),
		Entidades:  service.NewEntidadService(entidadRepo, contratoRepo),
		Productos:  service.NewProductoService(productoRepo, rdb),
		Inventario: inventarioSvc,
		Facturas: service.NewFacturaService(
			facturaRepo, contratoRepo, productoRepo, usuarioRepo, entradaRepo,
			inventarioSvc, numeracionSvc, eventos,
		),
		Entradas: service.NewEntradaService(entradaRepo, inventarioSvc),
		Salidas:  service.NewSalidaService(salidaRepo, usuarioRepo, inventarioSvc),
	}
}

// New returns a configured Gin engine serving svc.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, svc *Servicios) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// order matters: the request id must exist before anything logs
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.ErrorHandler())
	if cfg.RateLimitPerMinute > 0 {
		r.Use(middleware.RateLimiter(cfg.RateLimitPerMinute, time.Minute))
	}

	authH := handler.NewAuthHandler(svc.Auth)
	usuariosH := handler.NewUsuariosHandler(svc.Auth)
	contratosH := handler.NewContratosHandler(svc.Contratos)
	entidadesH := handler.NewEntidadesHandler(svc.Entidades)
	productosH := handler.NewProductosHandler(svc.Productos, svc.Inventario)
	facturasH := handler.NewFacturasHandler(svc.Facturas, cfg.Empresa)
	entradasH := handler.NewEntradasHandler(svc.Entradas)
	salidasH := handler.NewSalidasHandler(svc.Salidas)

	r.GET("/health", handler.Health(db, rdb))

	auth := r.Group("/v1/auth", middleware.LoginRateLimiter())
	{
		auth.POST("/login", authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	todos := middleware.RequireRole(model.RolAdministrador, model.RolComercial, model.RolInvitado)
	escritura := middleware.RequireRole(model.RolAdministrador, model.RolComercial)

	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	{
		usuarios := v1.Group("/usuarios", middleware.RequireRole(model.RolAdministrador))
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Eliminar)
		}

		entidades := v1.Group("/entidades")
		{
			entidades.GET("", todos, entidadesH.Listar)
			entidades.GET("/:id", todos, entidadesH.Obtener)
			entidades.POST("", escritura, entidadesH.Crear)
			entidades.PUT("/:id", escritura, entidadesH.Actualizar)
			entidades.DELETE("/:id", escritura, entidadesH.Eliminar)
		}

		contratos := v1.Group("/contratos")
		{
			contratos.GET("", todos, contratosH.Listar)
			contratos.GET("/siguiente-consecutivo", todos, contratosH.SiguienteConsecutivo)
			contratos.GET("/proximos-a-vencer", todos, contratosH.ProximosAVencer)
			contratos.GET("/:id", todos, contratosH.Obtener)
			contratos.POST("", escritura, contratosH.Crear)
			contratos.PUT("/:id", escritura, contratosH.Actualizar)
			contratos.DELETE("/:id", escritura, contratosH.Eliminar)
			contratos.POST("/:id/trabajadores", escritura, contratosH.CrearTrabajador)
		}

		productos := v1.Group("/productos")
		{
			productos.GET("", todos, productosH.Listar)
			productos.GET("/codigo/:codigo", todos, productosH.ObtenerPorCodigo)
			productos.GET("/:id", todos, productosH.ObtenerPorID)
			productos.GET("/:id/movimientos", todos, productosH.Movimientos)
			productos.POST("", escritura, productosH.Crear)
			productos.PUT("/:id", escritura, productosH.Actualizar)
			productos.DELETE("/:id", escritura, productosH.Eliminar)
		}

		facturas := v1.Group("/facturas")
		{
			facturas.GET("", todos, facturasH.Listar)
			facturas.GET("/siguiente-consecutivo", todos, facturasH.SiguienteConsecutivo)
			facturas.GET("/export", escritura, facturasH.Exportar)
			facturas.GET("/:id", todos, facturasH.Obtener)
			facturas.GET("/:id/pdf", todos, facturasH.PDF)
			facturas.POST("", escritura, facturasH.Crear)
			facturas.PUT("/:id", escritura, facturasH.Actualizar)
			facturas.DELETE("/:id", escritura, facturasH.Eliminar)
		}

		entradas := v1.Group("/entradas")
		{
			entradas.GET("", todos, entradasH.Listar)
			entradas.GET("/:id", todos, entradasH.Obtener)
			entradas.POST("", escritura, entradasH.Crear)
			entradas.PUT("/:id", escritura, entradasH.Actualizar)
			entradas.DELETE("/:id", escritura, entradasH.Eliminar)
		}

		salidas := v1.Group("/salidas")
		{
			salidas.GET("", todos, salidasH.Listar)
			salidas.GET("/:id", todos, salidasH.Obtener)
			salidas.POST("", escritura, salidasH.Crear)
			salidas.PUT("/:id", escritura, salidasH.Actualizar)
			salidas.DELETE("/:id", escritura, salidasH.Eliminar)
		}
	}

	return r
}
