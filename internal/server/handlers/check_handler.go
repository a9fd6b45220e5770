package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmflow/internal/domain/models"
	"github.com/mamadbah2/farmflow/internal/service/checks"
)

// CheckHandler accepts check image uploads.
type CheckHandler struct {
	svc    *checks.Service
	logger *zap.Logger
}

// NewCheckHandler constructs the check upload HTTP adapter.
func NewCheckHandler(svc *checks.Service, logger *zap.Logger) *CheckHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckHandler{svc: svc, logger: logger}
}

// Upload reads the multipart "image" field. With preview=true the extracted
// data is returned without recording a payment.
func (h *CheckHandler) Upload(c *gin.Context) {
	if !h.svc.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "check extraction is not configured"})
		return
	}

	header, err := c.FormFile("image")
	if err != nil {
		respondError(c, h.logger, models.NewValidationError("image", "is required"))
		return
	}
	file, err := header.Open()
	if err != nil {
		badRequest(c, h.logger, err)
		return
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, checks.MaxImageBytes+1))
	if err != nil {
		badRequest(c, h.logger, err)
		return
	}

	if c.Query("preview") == "true" {
		data, err := h.svc.Extract(c.Request.Context(), image)
		if err != nil {
			h.respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"check": data})
		return
	}

	ev, data, err := h.svc.Ingest(c.Request.Context(), c.Param("cropID"), image, c.PostForm("client_id"))
	if err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"event": ev, "check": data})
}

func (h *CheckHandler) respond(c *gin.Context, err error) {
	var extErr *checks.ExtractionError
	if errors.As(err, &extErr) {
		h.logger.Warn("check extraction failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to read check image"})
		return
	}
	respondError(c, h.logger, err)
}
