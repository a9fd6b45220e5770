package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmflow/internal/domain/models"
	"github.com/mamadbah2/farmflow/internal/service/notification"
	"github.com/mamadbah2/farmflow/internal/service/reminders"
)

// BulkMessageRequest sends one message to many recipients.
type BulkMessageRequest struct {
	To      []string `json:"to" binding:"required,min=1"`
	Message string   `json:"message" binding:"required"`
}

// SMSHandler exposes the notification dispatcher.
type SMSHandler struct {
	dispatcher *notification.Dispatcher
	reminders  *reminders.Service
	logger     *zap.Logger
}

// NewSMSHandler constructs the notification HTTP adapter.
func NewSMSHandler(dispatcher *notification.Dispatcher, reminders *reminders.Service, logger *zap.Logger) *SMSHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SMSHandler{dispatcher: dispatcher, reminders: reminders, logger: logger}
}

// Status reports the configured provider.
func (h *SMSHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.dispatcher.Status())
}

// Send delivers a single free-form message.
func (h *SMSHandler) Send(c *gin.Context) {
	var req models.OutboundMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	kind := notification.TypeGeneral
	if req.Type != "" {
		kind = notification.MessageType(req.Type)
	}
	outcome, err := h.dispatcher.SendTyped(c.Request.Context(), kind, req.To, req.Message)
	h.respondOutcome(c, outcome, err)
}

// Bulk delivers one message to several recipients.
func (h *SMSHandler) Bulk(c *gin.Context) {
	var req BulkMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	outcomes, err := h.dispatcher.SendBulk(c.Request.Context(), req.To, req.Message)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": outcomes})
}

// PaymentReminder sends the payment reminder template.
func (h *SMSHandler) PaymentReminder(c *gin.Context) {
	var req models.PaymentReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	amount, err := models.ParseAmount("amount", req.Amount)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	due, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		respondError(c, h.logger, models.NewValidationError("due_date", "must be YYYY-MM-DD"))
		return
	}

	outcome, err := h.dispatcher.SendPaymentReminder(c.Request.Context(), req.To, req.CustomerName, amount, due, req.InvoiceNumber)
	h.respondOutcome(c, outcome, err)
}

// RunReminders sends reminders for every outstanding client balance.
func (h *SMSHandler) RunReminders(c *gin.Context) {
	res, err := h.reminders.SendOutstanding(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *SMSHandler) respondOutcome(c *gin.Context, outcome models.Outcome, err error) {
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if !outcome.Success {
		c.JSON(http.StatusBadGateway, outcome)
		return
	}
	c.JSON(http.StatusOK, outcome)
}
