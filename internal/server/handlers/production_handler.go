package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/poultrypms/internal/service/ledger"
	"github.com/mamadbah2/poultrypms/internal/service/reporting"
)

// ProductionHandler exposes egg production batches over HTTP.
type ProductionHandler struct {
	svc     *ledger.Service
	reports *reporting.Service
	logger  *zap.Logger
}

// NewProductionHandler constructs the production HTTP adapter.
func NewProductionHandler(svc *ledger.Service, reports *reporting.Service, logger *zap.Logger) *ProductionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductionHandler{svc: svc, reports: reports, logger: logger}
}

type productionRequest struct {
	Date        string `json:"date"`
	TotalEggs   int    `json:"totalEggs"`
	DamagedEggs int    `json:"damagedEggs"`
}

func (req productionRequest) toInput() (ledger.ProductionInput, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return ledger.ProductionInput{}, err
	}
	return ledger.ProductionInput{
		Date:        date,
		TotalEggs:   req.TotalEggs,
		DamagedEggs: req.DamagedEggs,
	}, nil
}

// Create records one day's egg production.
func (h *ProductionHandler) Create(c *gin.Context) {
	var req productionRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	production, err := h.svc.CreateProduction(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "egg production recorded", "production": production})
}

// List returns every production batch, newest first.
func (h *ProductionHandler) List(c *gin.Context) {
	productions, err := h.svc.ListProductions(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"productions": productions})
}

// Get returns one production batch by id.
func (h *ProductionHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	production, err := h.svc.GetProduction(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"production": production})
}

// Update rewrites a production batch, subject to the egg-stock invariant.
func (h *ProductionHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	var req productionRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	production, err := h.svc.UpdateProduction(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "egg production updated", "production": production})
}

// Delete removes a production batch, subject to the egg-stock invariant.
func (h *ProductionHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if err := h.svc.DeleteProduction(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "egg production deleted"})
}

// Summary totals production over a from/to query range.
func (h *ProductionHandler) Summary(c *gin.Context) {
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

	summary, err := h.reports.ProductionSummary(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
