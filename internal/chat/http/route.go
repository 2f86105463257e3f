package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the chat routes. Messages arrive from the messaging
// gateway; resetting a session is an admin action.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/chat")
	{
		group.POST("/messages", h.Message)
		group.POST("/deeplinks/verify", h.VerifyLink)
		group.DELETE("/sessions/:user_id", adminMiddleware, h.ResetSession)
	}
}
