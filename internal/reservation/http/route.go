package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers reservation routes. Guests create and look up their
// reservation by id; listing and status changes are for admins.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/reservations")

	// === Public Routes ===
	group.POST("", h.Create)
	group.GET("/:id", h.Get)

	// === Admin Routes ===
	admin := group.Group("", adminMiddleware)
	{
		admin.GET("", h.List)
		admin.PATCH("/:id/status", h.UpdateStatus)
	}
}
