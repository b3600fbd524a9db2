package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/poultrypms/internal/domain/models"
	"github.com/mamadbah2/poultrypms/internal/service/worker"
)

// WorkerHandler exposes the worker roster over HTTP.
type WorkerHandler struct {
	svc    *worker.Service
	logger *zap.Logger
}

// NewWorkerHandler constructs the worker HTTP adapter.
func NewWorkerHandler(svc *worker.Service, logger *zap.Logger) *WorkerHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkerHandler{svc: svc, logger: logger}
}

type workerRequest struct {
	Name    string  `json:"name"`
	Role    string  `json:"role"`
	Salary  float64 `json:"salary"`
	Contact string  `json:"contact"`
	Shift   string  `json:"shift"`
}

func (req workerRequest) toInput() worker.Input {
	return worker.Input{
		Name:    req.Name,
		Role:    req.Role,
		Salary:  req.Salary,
		Contact: req.Contact,
		Shift:   models.Shift(req.Shift),
	}
}

// Create adds a worker to the roster.
func (h *WorkerHandler) Create(c *gin.Context) {
	var req workerRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	w, err := h.svc.Create(c.Request.Context(), req.toInput())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "worker added", "worker": w})
}

// List returns the full roster.
func (h *WorkerHandler) List(c *gin.Context) {
	workers, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"workers": workers})
}

// Get returns one worker by id.
func (h *WorkerHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	w, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"worker": w})
}

// Update rewrites a worker.
func (h *WorkerHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	var req workerRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	w, err := h.svc.Update(c.Request.Context(), id, req.toInput())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "worker updated", "worker": w})
}

// Delete removes a worker from the roster.
func (h *WorkerHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "worker deleted"})
}
