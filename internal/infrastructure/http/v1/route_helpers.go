package v1

import (
	"github.com/gin-gonic/gin"
)

// ResourceRouteHandler defines the interface for resource handlers.
type ResourceRouteHandler interface {
	List(c *gin.Context)
	Schema(c *gin.Context)
}

// RegisterResourceRoutes registers the read-only routes of a resource group.
// The group path must carry the :resource parameter and resolve it first.
//
// Usage:
//
//	group := v1.Group("/:resource", middleware.Resource(registry))
//	RegisterResourceRoutes(group, handlers.NewListHandler(base, router, opts))
func RegisterResourceRoutes(group *gin.RouterGroup, handler ResourceRouteHandler) {
	group.GET("", handler.List)
	group.GET("/schema", handler.Schema)
}
