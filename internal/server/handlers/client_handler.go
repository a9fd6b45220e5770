package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmflow/internal/service/clients"
)

// ClientRequest is the JSON body for a new client.
type ClientRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// ClientHandler serves the client registry.
type ClientHandler struct {
	svc    *clients.Service
	logger *zap.Logger
}

// NewClientHandler constructs the client HTTP adapter.
func NewClientHandler(svc *clients.Service, logger *zap.Logger) *ClientHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClientHandler{svc: svc, logger: logger}
}

// List returns all clients.
func (h *ClientHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Create registers a client and returns it with its id.
func (h *ClientHandler) Create(c *gin.Context) {
	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	client, err := h.svc.Create(c.Request.Context(), req.Name, req.Phone)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, client)
}
