package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/poultrypms/internal/domain/models"
	"github.com/mamadbah2/poultrypms/internal/service/ledger"
	"github.com/mamadbah2/poultrypms/internal/service/reporting"
)

// ReportHandler exposes range reports, the dashboard insights and the daily
// snapshot over HTTP.
type ReportHandler struct {
	svc    *reporting.Service
	logger *zap.Logger
}

// NewReportHandler constructs the reporting HTTP adapter.
func NewReportHandler(svc *reporting.Service, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{svc: svc, logger: logger}
}

// Insights returns the dashboard headline numbers.
func (h *ReportHandler) Insights(c *gin.Context) {
	insights, err := h.svc.Insights(c.Request.Context(), time.Now())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"insights": insights})
}

// Report runs the range report named by the :kind parameter over the from/to
// query window.
func (h *ReportHandler) Report(c *gin.Context) {
	kind := models.ReportKind(c.Param("kind"))
	if !kind.Valid() {
		respondError(c, h.logger, fmt.Errorf("%w: unknown report kind %q", ledger.ErrInvalidInput, kind))
		return
	}

	from, err := parseDate(c.Query("from"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	to, err := parseDate(c.Query("to"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	ctx := c.Request.Context()
	var rows any
	switch kind {
	case models.ReportFeedPurchase:
		rows, err = h.svc.FeedPurchasesInRange(ctx, from, to)
	case models.ReportFeedConsumption:
		rows, err = h.svc.FeedConsumptionsInRange(ctx, from, to)
	case models.ReportProduction:
		rows, err = h.svc.ProductionsInRange(ctx, from, to)
	case models.ReportPayroll:
		rows, err = h.svc.PayrollsInRange(ctx, from, to)
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"kind": kind, "rows": rows})
}

// Snapshot computes the end-of-day ledger position for a given day,
// defaulting to today.
func (h *ReportHandler) Snapshot(c *gin.Context) {
	day := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		day = parsed
	}

	snapshot, err := h.svc.Snapshot(c.Request.Context(), day)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"snapshot": snapshot})
}
