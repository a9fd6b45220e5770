package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmflow/internal/domain/models"
	"github.com/mamadbah2/farmflow/internal/export"
	ledgersvc "github.com/mamadbah2/farmflow/internal/service/ledger"
	"github.com/mamadbah2/farmflow/internal/service/reporting"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// EventRequest is the JSON body for creating or replacing an event.
type EventRequest struct {
	Kind         string   `json:"kind"`
	Date         string   `json:"date"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Cost         *float64 `json:"cost"`
	Revenue      *float64 `json:"revenue"`
	Quantity     *float64 `json:"quantity"`
	Unit         string   `json:"unit"`
	PricePerUnit *float64 `json:"price_per_unit"`
	Worker       string   `json:"worker"`
	Client       string   `json:"client"`
	ClientID     string   `json:"client_id"`
	CheckNumber  string   `json:"check_number"`
	Bank         string   `json:"bank"`
	Notes        string   `json:"notes"`
}

func (r EventRequest) input() (ledgersvc.EventInput, error) {
	var date time.Time
	if r.Date != "" {
		parsed, err := parseDate(r.Date)
		if err != nil {
			return ledgersvc.EventInput{}, models.NewValidationError("date", "must be YYYY-MM-DD or RFC3339")
		}
		date = parsed
	}
	return ledgersvc.EventInput{
		Kind:  models.EventKind(r.Kind),
		Date:  date,
		Title: r.Title,
		Fields: models.EventFields{
			Description:  r.Description,
			Cost:         r.Cost,
			Revenue:      r.Revenue,
			Quantity:     r.Quantity,
			Unit:         r.Unit,
			PricePerUnit: r.PricePerUnit,
			Worker:       r.Worker,
			Client:       r.Client,
			ClientID:     r.ClientID,
			CheckNumber:  r.CheckNumber,
			Bank:         r.Bank,
			Notes:        r.Notes,
		},
	}, nil
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

// LedgerHandler serves crop events and the figures derived from them.
type LedgerHandler struct {
	svc     *ledgersvc.Service
	reports *reporting.Service
	logger  *zap.Logger
}

// NewLedgerHandler constructs the ledger HTTP adapter.
func NewLedgerHandler(svc *ledgersvc.Service, reports *reporting.Service, logger *zap.Logger) *LedgerHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerHandler{svc: svc, reports: reports, logger: logger}
}

// ListEvents returns the crop timeline.
func (h *LedgerHandler) ListEvents(c *gin.Context) {
	events, err := h.svc.ListEvents(c.Request.Context(), c.Param("cropID"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// CreateEvent records a new event.
func (h *LedgerHandler) CreateEvent(c *gin.Context) {
	in, ok := h.bindEvent(c)
	if !ok {
		return
	}
	ev, err := h.svc.RecordEvent(c.Request.Context(), c.Param("cropID"), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, ev)
}

// ReplaceEvent overwrites an event.
func (h *LedgerHandler) ReplaceEvent(c *gin.Context) {
	in, ok := h.bindEvent(c)
	if !ok {
		return
	}
	ev, err := h.svc.ReplaceEvent(c.Request.Context(), c.Param("cropID"), c.Param("eventID"), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

// DeleteEvent removes an event.
func (h *LedgerHandler) DeleteEvent(c *gin.Context) {
	if err := h.svc.DeleteEvent(c.Request.Context(), c.Param("cropID"), c.Param("eventID")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Summary returns the crop totals.
func (h *LedgerHandler) Summary(c *gin.Context) {
	summary, err := h.svc.Summary(c.Request.Context(), c.Param("cropID"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Reconciliation returns pool and per-client receivables.
func (h *LedgerHandler) Reconciliation(c *gin.Context) {
	view, err := h.svc.Reconcile(c.Request.Context(), c.Param("cropID"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Report returns the plain text crop report.
func (h *LedgerHandler) Report(c *gin.Context) {
	report, err := h.reports.CropReport(c.Request.Context(), c.Param("cropID"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.String(http.StatusOK, report)
}

// Export streams the crop ledger as an xlsx workbook.
func (h *LedgerHandler) Export(c *gin.Context) {
	cropID := c.Param("cropID")
	events, err := h.svc.ListEvents(c.Request.Context(), cropID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteLedgerXLSX(&buf, cropID, events); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", cropID+"-ledger.xlsx"))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *LedgerHandler) bindEvent(c *gin.Context) (ledgersvc.EventInput, bool) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return ledgersvc.EventInput{}, false
	}
	in, err := req.input()
	if err != nil {
		respondError(c, h.logger, err)
		return ledgersvc.EventInput{}, false
	}
	return in, true
}
