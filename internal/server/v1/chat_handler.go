package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/shem-api/internal/relay"
	"github.com/nulzo/shem-api/internal/server/validator"
	"github.com/nulzo/shem-api/pkg/api"
)

type ChatHandler struct {
	service   relay.Service
	validator *validator.Validator
}

func NewChatHandler(service relay.Service, v *validator.Validator) *ChatHandler {
	return &ChatHandler{
		service:   service,
		validator: v,
	}
}

// Chat answers one energy question.
//
// POST /api/chat
func (h *ChatHandler) Chat(c *gin.Context) {
	var req api.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// returns RFC compliant error
		_ = c.Error(api.ValidationError(h.validator.ParseError(err)))
		return
	}

	res, err := h.service.Chat(c.Request.Context(), relay.Request{
		Prompt:      req.Message,
		ContextData: req.ContextData,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.Header("X-Provider", string(res.Provider))
	c.JSON(http.StatusOK, api.ChatResponse{Response: res.Text})
}

// Providers lists the relay's providers in the order they are tried.
//
// GET /api/chat/providers
func (h *ChatHandler) Providers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"object": "list",
		"data":   h.service.Status(),
	})
}
