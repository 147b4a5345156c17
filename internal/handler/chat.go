package handler

import (
	"errors"
	"net/http"

	"github.com/Rhzslya/sinari-server-sub000/internal/apierror"
	"github.com/Rhzslya/sinari-server-sub000/internal/infra"

	"github.com/gin-gonic/gin"
)

// ChatHandler proxies status and session control to the messaging bridge.
type ChatHandler struct{ client *infra.ChatClient }

func NewChatHandler(client *infra.ChatClient) *ChatHandler {
	return &ChatHandler{client: client}
}

func (h *ChatHandler) Status(c *gin.Context) {
	status, err := h.client.Status(c.Request.Context())
	if err != nil {
		if errors.Is(err, infra.ErrCircuitOpen) {
			c.JSON(http.StatusServiceUnavailable, apierror.New("messaging bridge temporarily unavailable"))
			return
		}
		c.JSON(http.StatusBadGateway, apierror.New("messaging bridge unreachable"))
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *ChatHandler) Disconnect(c *gin.Context) {
	if err := h.client.Disconnect(c.Request.Context()); err != nil {
		if errors.Is(err, infra.ErrCircuitOpen) {
			c.JSON(http.StatusServiceUnavailable, apierror.New("messaging bridge temporarily unavailable"))
			return
		}
		c.JSON(http.StatusBadGateway, apierror.New("messaging bridge unreachable"))
		return
	}
	c.Status(http.StatusNoContent)
}
