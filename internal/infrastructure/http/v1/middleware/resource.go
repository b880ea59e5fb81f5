package middleware

import (
	"github.com/gin-gonic/gin"

	appctx "crudcenter/internal/core/context"
	"crudcenter/internal/domain/resource"
	"crudcenter/pkg/logger"
)

// ParamResource is the route parameter naming the listed resource.
const ParamResource = "resource"

const keyResourceDef = "resource_def"

// Resource middleware resolves the :resource route parameter against the
// registry and records it on the request context.
// Unknown resources abort with NOT_FOUND before any handler runs.
func Resource(reg *resource.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param(ParamResource)

		res, err := reg.Get(name)
		if err != nil {
			logger.Debug(c.Request.Context(), "unknown resource", "resource", name)
			_ = c.Error(err)
			c.Abort()
			return
		}

		ctx := appctx.WithResource(c.Request.Context(), res.Name, res.Connection)
		c.Request = c.Request.WithContext(ctx)

		c.Set(KeyResource, res.Name)
		c.Set(keyResourceDef, res)

		c.Next()
	}
}

// GetResource returns the resource resolved by the Resource middleware, or nil.
func GetResource(c *gin.Context) *resource.Resource {
	if v, ok := c.Get(keyResourceDef); ok {
		if res, ok := v.(*resource.Resource); ok {
			return res
		}
	}
	return nil
}
