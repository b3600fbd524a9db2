package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/poultrypms/internal/service/payroll"
)

// PayrollHandler exposes the daily sale-and-profit rows over HTTP.
type PayrollHandler struct {
	svc    *payroll.Service
	logger *zap.Logger
}

// NewPayrollHandler constructs the payroll HTTP adapter.
func NewPayrollHandler(svc *payroll.Service, logger *zap.Logger) *PayrollHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PayrollHandler{svc: svc, logger: logger}
}

type payrollRequest struct {
	Date         string  `json:"date"`
	EggsSold     int     `json:"eggsSold"`
	PricePerEgg  float64 `json:"pricePerEgg"`
	TotalExpense float64 `json:"totalExpense"`
}

func (req payrollRequest) toInput() (payroll.Input, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return payroll.Input{}, err
	}
	return payroll.Input{
		Date:         date,
		EggsSold:     req.EggsSold,
		PricePerEgg:  req.PricePerEgg,
		TotalExpense: req.TotalExpense,
	}, nil
}

// Create records a sale row for one calendar date.
func (h *PayrollHandler) Create(c *gin.Context) {
	var req payrollRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	row, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "payroll recorded", "payroll": row})
}

// List returns every payroll row, newest first.
func (h *PayrollHandler) List(c *gin.Context) {
	rows, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payrolls": rows})
}

// Get returns one payroll row by id.
func (h *PayrollHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	row, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payroll": row})
}

// Update rewrites a payroll row, recomputing every derived field.
func (h *PayrollHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	var req payrollRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	row, err := h.svc.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "payroll updated", "payroll": row})
}

// Delete removes a payroll row.
func (h *PayrollHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "payroll deleted"})
}
