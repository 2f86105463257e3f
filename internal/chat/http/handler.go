package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/cabin-booking-backend/internal/chat"
	"github.com/nekogravitycat/cabin-booking-backend/internal/pkg/response"
)

type Handler struct {
	shell  *chat.Shell
	links  chat.DeepLinker
	policy func() chat.BotPolicy
}

// NewHandler builds the chat handler. policy is consulted on every message.
func NewHandler(shell *chat.Shell, links chat.DeepLinker, policy func() chat.BotPolicy) *Handler {
	return &Handler{shell: shell, links: links, policy: policy}
}

func (h *Handler) Message(c *gin.Context) {
	var body MessageRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	sess, reply, err := h.shell.Handle(c.Request.Context(), h.policy(), body.UserID, body.Text)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewMessageResponse(sess, reply))
}

func (h *Handler) ResetSession(c *gin.Context) {
	var uri SessionURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	if err := h.shell.Reset(c.Request.Context(), uri.UserID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) VerifyLink(c *gin.Context) {
	var body VerifyLinkRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	intent, err := h.links.Verify(body.Token)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingIntentResponse(intent))
}
