package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmflow/internal/server/handlers"
)

// Handlers groups the HTTP adapters mounted by New.
type Handlers struct {
	Ledger  *handlers.LedgerHandler
	Costs   *handlers.CostHandler
	Checks  *handlers.CheckHandler
	Clients *handlers.ClientHandler
	SMS     *handlers.SMSHandler

	// Webhook is optional; the WhatsApp command routes are mounted only when set.
	Webhook *handlers.WebhookHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/clients", h.Clients.List)
	r.POST("/clients", h.Clients.Create)

	crops := r.Group("/crops/:cropID")
	{
		crops.GET("/events", h.Ledger.ListEvents)
		crops.POST("/events", h.Ledger.CreateEvent)
		crops.PUT("/events/:eventID", h.Ledger.ReplaceEvent)
		crops.DELETE("/events/:eventID", h.Ledger.DeleteEvent)
		crops.GET("/summary", h.Ledger.Summary)
		crops.GET("/reconciliation", h.Ledger.Reconciliation)
		crops.GET("/report", h.Ledger.Report)
		crops.GET("/export.xlsx", h.Ledger.Export)

		crops.GET("/cost-items", h.Costs.List)
		crops.POST("/cost-items", h.Costs.Add)
		crops.PATCH("/cost-items/:itemID", h.Costs.UpdateCost)
		crops.DELETE("/cost-items/:itemID", h.Costs.Remove)

		crops.POST("/checks", h.Checks.Upload)
	}

	sms := r.Group("/sms")
	{
		sms.GET("/status", h.SMS.Status)
		sms.POST("/send", h.SMS.Send)
		sms.POST("/bulk", h.SMS.Bulk)
		sms.POST("/payment-reminder", h.SMS.PaymentReminder)
		sms.POST("/reminders/run", h.SMS.RunReminders)
	}

	if h.Webhook != nil {
		r.GET("/webhook", h.Webhook.Verify)
		r.POST("/webhook", h.Webhook.Receive)
	}

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
