package router

import (
	"time"

	"catalogo/internal/config"
	"catalogo/internal/handler"
	"catalogo/internal/middleware"
	"catalogo/internal/repository"
	"catalogo/internal/service"

	_ "catalogo/docs"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Dependencias are the collaborators the HTTP layer needs. DB and Redis are
// only used by the health check and the rate limiter; either may be nil.
type Dependencias struct {
	Categorias repository.CategoriaRepository
	Productos  repository.ProductoRepository
	DB         *gorm.DB
	Redis      *redis.Client
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	return Build(cfg, Dependencias{
		Categorias: repository.NewCategoriaRepository(db),
		Productos:  repository.NewProductoRepository(db),
		DB:         db,
		Redis:      rdb,
	})
}

// Build assembles the engine from already constructed repositories.
func Build(cfg *config.Config, deps Dependencias) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true

	// Global middleware chain (order matters): CORS answers preflights before
	// rate limiting or any handler runs.
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery(cfg.ExposeErrorDetail))
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler(cfg.ExposeErrorDetail))
	r.Use(middleware.RateLimiter(deps.Redis, cfg.RateLimitPerMinute, time.Minute))

	r.NoMethod(middleware.MetodoNoPermitido())
	r.NoRoute(middleware.RutaNoEncontrada())

	// ── Services ─────────────────────────────────────────────────────────────
	categoriaSvc := service.NewCategoriaService(deps.Categorias)
	productoSvc := service.NewProductoService(deps.Productos)

	// ── Handlers ─────────────────────────────────────────────────────────────
	categoriasH := handler.NewCategoriasHandler(categoriaSvc)
	productosH := handler.NewProductosHandler(productoSvc)

	// ── Routes ───────────────────────────────────────────────────────────────
	r.GET("/health", handler.Health(deps.DB, deps.Redis))

	categorias := r.Group("/categorias")
	{
		categorias.POST("/create", categoriasH.Crear)
		categorias.GET("/read", categoriasH.Listar)
		categorias.GET("/read_one", categoriasH.ObtenerPorID)
		categorias.POST("/update", categoriasH.Actualizar)
		categorias.PUT("/update", categoriasH.Actualizar)
		categorias.POST("/delete", categoriasH.Eliminar)
		categorias.DELETE("/delete", categoriasH.Eliminar)
	}

	productos := r.Group("/productos")
	{
		productos.POST("/create", productosH.Crear)
		productos.GET("/read", productosH.Listar)
		productos.GET("/read_one", productosH.ObtenerPorID)
		productos.POST("/update", productosH.Actualizar)
		productos.PUT("/update", productosH.Actualizar)
		productos.POST("/delete", productosH.Eliminar)
		productos.DELETE("/delete", productosH.Eliminar)
	}

	// Swagger UI, only outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
