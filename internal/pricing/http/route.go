package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the price override routes nested under a cabin.
// All of them require an admin token.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/units/:id/price-overrides", adminMiddleware)
	{
		group.GET("", h.List)
		group.POST("", h.Create)
		group.GET("/:override_id", h.Get)
		group.PATCH("/:override_id", h.Update)
		group.DELETE("/:override_id", h.Delete)
	}
}
