package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/poultrypms/internal/domain/models"
	"github.com/mamadbah2/poultrypms/internal/service/poultry"
)

// PoultryHandler exposes batches, mortality records and vaccination
// schedules over HTTP.
type PoultryHandler struct {
	svc    *poultry.Service
	logger *zap.Logger
}

// NewPoultryHandler constructs the poultry HTTP adapter.
func NewPoultryHandler(svc *poultry.Service, logger *zap.Logger) *PoultryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PoultryHandler{svc: svc, logger: logger}
}

type batchRequest struct {
	BatchName string `json:"batchName"`
	Type      string `json:"type"`
	Quantity  int    `json:"quantity"`
	StartDate string `json:"startDate"`
	Notes     string `json:"notes"`
}

func (req batchRequest) toInput() (poultry.BatchInput, error) {
	start, err := parseDate(req.StartDate)
	if err != nil {
		return poultry.BatchInput{}, err
	}
	return poultry.BatchInput{
		BatchName: req.BatchName,
		Type:      models.BatchType(req.Type),
		Quantity:  req.Quantity,
		StartDate: start,
		Notes:     req.Notes,
	}, nil
}

// CreateBatch starts a new flock.
func (h *PoultryHandler) CreateBatch(c *gin.Context) {
	var req batchRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	batch, err := h.svc.CreateBatch(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "batch created", "batch": batch})
}

// ListBatches returns every batch with its derived live headcount.
func (h *PoultryHandler) ListBatches(c *gin.Context) {
	batches, err := h.svc.ListBatches(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"batches": batches})
}

// GetBatch returns one batch with its derived headcount.
func (h *PoultryHandler) GetBatch(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	batch, err := h.svc.GetBatch(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"batch": batch})
}

// UpdateBatch rewrites a batch.
func (h *PoultryHandler) UpdateBatch(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	var req batchRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	batch, err := h.svc.UpdateBatch(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "batch updated", "batch": batch})
}

// DeleteBatch removes a batch.
func (h *PoultryHandler) DeleteBatch(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if err := h.svc.DeleteBatch(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "batch deleted"})
}

type poultryRecordRequest struct {
	Batch        string `json:"batch"`
	Date         string `json:"date"`
	ExpiredCount int    `json:"expiredCount"`
	Notes        string `json:"notes"`
}

func (req poultryRecordRequest) toInput() (poultry.RecordInput, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return poultry.RecordInput{}, err
	}
	in := poultry.RecordInput{
		Date:         date,
		ExpiredCount: req.ExpiredCount,
		Notes:        req.Notes,
	}
	if req.Batch != "" {
		batchID, err := primitive.ObjectIDFromHex(req.Batch)
		if err != nil {
			return poultry.RecordInput{}, invalidID(req.Batch)
		}
		in.BatchID = batchID
	}
	return in, nil
}

// CreateRecord logs bird losses against a batch.
func (h *PoultryHandler) CreateRecord(c *gin.Context) {
	var req poultryRecordRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	record, err := h.svc.CreateRecord(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "poultry record created", "record": record})
}

// ListRecords returns every mortality record joined with its batch name.
func (h *PoultryHandler) ListRecords(c *gin.Context) {
	records, err := h.svc.ListRecords(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

// GetRecord returns one mortality record by id.
func (h *PoultryHandler) GetRecord(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	record, err := h.svc.GetRecord(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"record": record})
}

// UpdateRecord rewrites a mortality record.
func (h *PoultryHandler) UpdateRecord(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	var req poultryRecordRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	record, err := h.svc.UpdateRecord(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "poultry record updated", "record": record})
}

// DeleteRecord removes a mortality record.
func (h *PoultryHandler) DeleteRecord(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if err := h.svc.DeleteRecord(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "poultry record deleted"})
}

// Schedule returns the batch's vaccination programme, generating it from the
// per-type template on first access.
func (h *PoultryHandler) Schedule(c *gin.Context) {
	batchID, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	vaccinations, err := h.svc.VaccinationsForBatch(c.Request.Context(), batchID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vaccinations": vaccinations})
}

type vaccinationRequest struct {
	Batch       string `json:"batch"`
	VaccineName string `json:"vaccineName"`
	Day         int    `json:"day"`
	Status      string `json:"status"`
	DateGiven   string `json:"dateGiven"`
}

func (req vaccinationRequest) toInput() (poultry.VaccinationInput, error) {
	in := poultry.VaccinationInput{
		VaccineName: req.VaccineName,
		Day:         req.Day,
		Status:      models.VaccinationStatus(req.Status),
	}
	if req.Batch != "" {
		batchID, err := primitive.ObjectIDFromHex(req.Batch)
		if err != nil {
			return poultry.VaccinationInput{}, invalidID(req.Batch)
		}
		in.BatchID = batchID
	}
	if req.DateGiven != "" {
		given, err := parseDate(req.DateGiven)
		if err != nil {
			return poultry.VaccinationInput{}, err
		}
		in.DateGiven = &given
	}
	return in, nil
}

// CreateVaccination adds a dose outside the standard template.
func (h *PoultryHandler) CreateVaccination(c *gin.Context) {
	var req vaccinationRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	vaccination, err := h.svc.CreateVaccination(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "vaccination scheduled", "vaccination": vaccination})
}

// UpdateVaccination rewrites a scheduled dose.
func (h *PoultryHandler) UpdateVaccination(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	var req vaccinationRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	vaccination, err := h.svc.UpdateVaccination(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "vaccination updated", "vaccination": vaccination})
}

// DeleteVaccination removes a scheduled dose.
func (h *PoultryHandler) DeleteVaccination(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if err := h.svc.DeleteVaccination(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "vaccination deleted"})
}

// Due lists pending doses due on or before today.
func (h *PoultryHandler) Due(c *gin.Context) {
	due, err := h.svc.DuePending(c.Request.Context(), time.Now())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"due": due})
}
