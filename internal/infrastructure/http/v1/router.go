// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"crudcenter/internal/domain/resource"
	"crudcenter/internal/infrastructure/http/v1/handlers"
	"crudcenter/internal/infrastructure/http/v1/middleware"
	"crudcenter/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// AppName is reported by /health/info
	AppName string

	// Resources lists every table the API can page through
	Resources *resource.Registry

	// Assemblers resolves a connection name to a query assembler
	Assemblers handlers.AssemblerSource

	// Connections backs the readiness and info probes
	Connections handlers.ConnectionStatus

	// List defaults (page size, limit cap, strict or lenient order handling)
	List handlers.ListOptions

	// Logger for request logging
	Logger *logger.Logger
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}

	router := gin.New()

	// Global middleware (order matters: Recovery sits inside ErrorHandler so
	// recovered panics still get a JSON body)
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Recovery())

	if cfg.Connections != nil {
		healthHandler := handlers.NewHealthHandler(cfg.AppName, cfg.Connections, cfg.Resources)
		health := router.Group("/health")
		{
			health.GET("/live", healthHandler.Live)
			health.GET("/ready", healthHandler.Ready)
			health.GET("/info", healthHandler.Info)
		}
	}

	baseHandler := handlers.NewBaseHandler()
	listHandler := handlers.NewListHandler(baseHandler, cfg.Assemblers, cfg.List)

	v1 := router.Group("/api/v1")
	RegisterResourceRoutes(v1.Group("/:"+middleware.ParamResource, middleware.Resource(cfg.Resources)), listHandler)

	return router
}
