package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers cabin routes. Reads are public, writes need an admin token.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/units")

	// === Public Routes ===
	group.GET("", h.List)    // List cabins
	group.GET("/:id", h.Get) // Get cabin details

	// === Admin Routes ===
	admin := group.Group("", adminMiddleware)
	{
		admin.POST("", h.Create)       // Create cabin
		admin.PATCH("/:id", h.Update)  // Update cabin
		admin.DELETE("/:id", h.Delete) // Delete cabin
	}
}
