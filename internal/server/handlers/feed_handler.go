package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/poultrypms/internal/domain/models"
	"github.com/mamadbah2/poultrypms/internal/service/ledger"
)

// FeedHandler exposes feed purchases and consumption over HTTP.
type FeedHandler struct {
	svc    *ledger.Service
	logger *zap.Logger
}

// NewFeedHandler constructs the feed HTTP adapter.
func NewFeedHandler(svc *ledger.Service, logger *zap.Logger) *FeedHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedHandler{svc: svc, logger: logger}
}

type purchaseRequest struct {
	Date     string  `json:"date"`
	FeedType string  `json:"feedType"`
	Quantity float64 `json:"quantity"`
	Cost     float64 `json:"cost"`
	Supplier string  `json:"supplier"`
	Notes    string  `json:"notes"`
}

func (req purchaseRequest) toInput() (ledger.PurchaseInput, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return ledger.PurchaseInput{}, err
	}
	return ledger.PurchaseInput{
		Date:     date,
		FeedType: models.FeedType(req.FeedType),
		Quantity: req.Quantity,
		Cost:     req.Cost,
		Supplier: req.Supplier,
		Notes:    req.Notes,
	}, nil
}

// CreatePurchase records feed entering inventory.
func (h *FeedHandler) CreatePurchase(c *gin.Context) {
	var req purchaseRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	purchase, err := h.svc.CreatePurchase(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "feed purchase recorded", "feed": purchase})
}

// ListPurchases returns every purchase, newest first.
func (h *FeedHandler) ListPurchases(c *gin.Context) {
	purchases, err := h.svc.ListPurchases(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"feeds": purchases})
}

// GetPurchase returns one purchase by id.
func (h *FeedHandler) GetPurchase(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	purchase, err := h.svc.GetPurchase(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"feed": purchase})
}

// UpdatePurchase rewrites a purchase, subject to the stock invariant.
func (h *FeedHandler) UpdatePurchase(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	var req purchaseRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	purchase, err := h.svc.UpdatePurchase(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "feed purchase updated", "feed": purchase})
}

// DeletePurchase removes a purchase, subject to the stock invariant.
func (h *FeedHandler) DeletePurchase(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if err := h.svc.DeletePurchase(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "feed purchase deleted"})
}

// StockLevels returns the derived on-hand quantity per feed type.
func (h *FeedHandler) StockLevels(c *gin.Context) {
	asOf := ledger.Day(time.Now())
	if raw := c.Query("asOf"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		asOf = parsed
	}

	levels := make([]models.FeedStockLevel, 0, len(models.FeedTypes))
	for _, ft := range models.FeedTypes {
		qty, err := h.svc.FeedStockAt(c.Request.Context(), ft, asOf)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		levels = append(levels, models.FeedStockLevel{FeedType: ft, Quantity: qty})
	}
	c.JSON(http.StatusOK, gin.H{"stocks": levels})
}

type consumptionRequest struct {
	Date         string  `json:"date"`
	FeedType     string  `json:"feedType"`
	QuantityUsed float64 `json:"quantityUsed"`
	ConsumedBy   string  `json:"consumedBy"`
	Notes        string  `json:"notes"`
}

func (req consumptionRequest) toInput() (ledger.ConsumptionInput, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return ledger.ConsumptionInput{}, err
	}
	return ledger.ConsumptionInput{
		Date:         date,
		FeedType:     models.FeedType(req.FeedType),
		QuantityUsed: req.QuantityUsed,
		ConsumedBy:   req.ConsumedBy,
		Notes:        req.Notes,
	}, nil
}

// CreateConsumption records feed leaving inventory.
func (h *FeedHandler) CreateConsumption(c *gin.Context) {
	var req consumptionRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	consumption, err := h.svc.CreateConsumption(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "feed consumption recorded", "consumption": consumption})
}

// ListConsumptions returns every consumption entry, newest first.
func (h *FeedHandler) ListConsumptions(c *gin.Context) {
	consumptions, err := h.svc.ListConsumptions(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"consumptions": consumptions})
}

// GetConsumption returns one consumption entry by id.
func (h *FeedHandler) GetConsumption(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	consumption, err := h.svc.GetConsumption(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"consumption": consumption})
}

// UpdateConsumption rewrites a consumption entry, subject to the stock
// invariant.
func (h *FeedHandler) UpdateConsumption(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	var req consumptionRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	consumption, err := h.svc.UpdateConsumption(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "feed consumption updated", "consumption": consumption})
}

// DeleteConsumption removes a consumption entry.
func (h *FeedHandler) DeleteConsumption(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if err := h.svc.DeleteConsumption(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "feed consumption deleted"})
}
