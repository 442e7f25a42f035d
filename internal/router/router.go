package router

import (
	"time"

	"github.com/EmmaVZ89/PointOfSale-sub001/internal/config"
	"github.com/EmmaVZ89/PointOfSale-sub001/internal/handler"
	"github.com/EmmaVZ89/PointOfSale-sub001/internal/middleware"
	"github.com/EmmaVZ89/PointOfSale-sub001/internal/model"
	"github.com/EmmaVZ89/PointOfSale-sub001/internal/repository"
	"github.com/EmmaVZ89/PointOfSale-sub001/internal/service"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis.
// El dispatcher se crea en main (composition root) porque también lo usa el
// worker pool.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher service.TicketDispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	uow := repository.NewUnitOfWork(db)
	usuarioRepo := repository.NewUsuarioRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	presentacionRepo := repository.NewPresentacionRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	movimientoRepo := repository.NewMovimientoStockRepository(db)
	costoRepo := repository.NewHistorialCostoRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	categoriaRepo := repository.NewCategoriaRepository(db)
	reciboRepo := repository.NewReciboRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	productoSvc := service.NewProductoService(uow, productoRepo, presentacionRepo, costoRepo)
	inventarioSvc := service.NewInventarioService(uow, productoRepo, movimientoRepo, costoRepo)
	ventaSvc := service.NewVentaService(uow, ventaRepo, productoRepo, movimientoRepo, clienteRepo, reciboRepo, dispatcher)
	clienteSvc := service.NewClienteService(clienteRepo)
	categoriaSvc := service.NewCategoriaService(categoriaRepo)
	reporteSvc := service.NewReporteService(ventaRepo, productoRepo, costoRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	presentacionesH := handler.NewPresentacionesHandler(productoSvc)
	inventarioH := handler.NewInventarioHandler(inventarioSvc)
	ventasH := handler.NewVentasHandler(ventaSvc, reciboRepo)
	clientesH := handler.NewClientesHandler(clienteSvc)
	categoriasH := handler.NewCategoriasHandler(categoriaSvc)
	reportesH := handler.NewReportesHandler(reporteSvc)
	consultaH := handler.NewConsultaPreciosHandler(productoRepo, rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Price check — no auth required
	r.GET("/v1/precio/:codigo", consultaH.GetPrecioPorCodigo)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		todos := middleware.RequireRole(model.RolCajero, model.RolSupervisor, model.RolAdministrador)
		supervisores := middleware.RequireRole(model.RolSupervisor, model.RolAdministrador)
		admin := middleware.RequireRole(model.RolAdministrador)

		// Ventas
		v1.POST("/ventas", todos, ventasH.RegistrarVenta)
		v1.POST("/ventas/preview", todos, ventasH.PreviewVenta)
		v1.GET("/ventas", todos, ventasH.ListarVentas)
		v1.GET("/ventas/:id", todos, ventasH.GetVenta)
		v1.GET("/ventas/:id/ticket", todos, ventasH.GetTicket)
		v1.DELETE("/ventas/:id", supervisores, ventasH.AnularVenta)

		// Productos — lectura para todos, escritura solo administrador
		v1.GET("/productos", todos, productosH.Listar)
		v1.GET("/productos/:id", todos, productosH.Get)
		v1.GET("/productos/:id/presentaciones", todos, presentacionesH.Listar)
		v1.GET("/productos/:id/costos", supervisores, productosH.HistorialCostos)
		prods := v1.Group("/productos", admin)
		{
			prods.POST("", productosH.Crear)
			prods.PUT("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Desactivar)
			prods.PATCH("/:id/reactivar", productosH.Reactivar)
			prods.POST("/:id/costos", productosH.RegistrarCosto)
			prods.POST("/:id/presentaciones", presentacionesH.Crear)
			prods.PUT("/:id/presentaciones/:presentacionId", presentacionesH.Actualizar)
			prods.DELETE("/:id/presentaciones/:presentacionId", presentacionesH.Desactivar)
		}

		// Inventario
		inv := v1.Group("/inventario", supervisores)
		{
			inv.POST("/entradas", inventarioH.RegistrarEntrada)
			inv.POST("/ajustes", inventarioH.RegistrarAjuste)
			inv.GET("/movimientos", inventarioH.ListarMovimientos)
			inv.GET("/alertas", inventarioH.Alertas)
			inv.POST("/reconciliar/:id", inventarioH.Reconciliar)
		}

		// Clientes
		v1.GET("/clientes", todos, clientesH.Listar)
		v1.GET("/clientes/:id", todos, clientesH.Get)
		clientes := v1.Group("/clientes", supervisores)
		{
			clientes.POST("", clientesH.Crear)
			clientes.PUT("/:id", clientesH.Actualizar)
			clientes.DELETE("/:id", clientesH.Desactivar)
		}

		// Categorías — administrador escribe, todos leen
		v1.GET("/categorias", todos, categoriasH.Listar)
		categorias := v1.Group("/categorias", admin)
		{
			categorias.POST("", categoriasH.Crear)
			categorias.PUT("/:id", categoriasH.Actualizar)
			categorias.DELETE("/:id", categoriasH.Desactivar)
		}

		// Reportes
		rep := v1.Group("/reportes", supervisores)
		{
			rep.GET("/ventas-dia", reportesH.VentasDia)
			rep.GET("/margenes", reportesH.Margenes)
			rep.GET("/margenes/:id", reportesH.MargenProducto)
		}

		// Usuarios
		usuarios := v1.Group("/usuarios", admin)
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
			usuarios.PATCH("/:id/reactivar", usuariosH.Reactivar)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
