package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/poultrypms/internal/domain/models"
	"github.com/mamadbah2/poultrypms/internal/service/attendance"
	"github.com/mamadbah2/poultrypms/internal/service/ledger"
)

// AttendanceHandler exposes attendance sheets and their records over HTTP.
type AttendanceHandler struct {
	svc    *attendance.Service
	logger *zap.Logger
}

// NewAttendanceHandler constructs the attendance HTTP adapter.
func NewAttendanceHandler(svc *attendance.Service, logger *zap.Logger) *AttendanceHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceHandler{svc: svc, logger: logger}
}

type attendanceRecordRequest struct {
	Worker string `json:"worker"`
	Status string `json:"status"`
}

type attendanceRequest struct {
	Date    string                    `json:"date"`
	Shift   string                    `json:"shift"`
	Records []attendanceRecordRequest `json:"records"`
}

// Create opens the sheet for a (date, shift) pair.
func (h *AttendanceHandler) Create(c *gin.Context) {
	var req attendanceRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	records := make([]attendance.RecordInput, 0, len(req.Records))
	for _, r := range req.Records {
		records = append(records, attendance.RecordInput{
			WorkerID: r.Worker,
			Status:   models.AttendanceStatus(r.Status),
		})
	}

	sheet, err := h.svc.Create(c.Request.Context(), date, models.Shift(req.Shift), records)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "attendance recorded", "attendance": sheet})
}

// List returns every sheet, newest first.
func (h *AttendanceHandler) List(c *gin.Context) {
	sheets, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attendances": sheets})
}

// Search resolves the records for a date and shift, joined with worker
// details. A missing sheet yields an empty list, not a 404.
func (h *AttendanceHandler) Search(c *gin.Context) {
	date, err := parseDate(c.Query("date"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	shift := models.Shift(c.Query("shift"))

	records, err := h.svc.Search(c.Request.Context(), date, shift)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

type recordStatusRequest struct {
	Status string `json:"status"`
}

// UpdateRecord changes one worker's mark on a sheet.
func (h *AttendanceHandler) UpdateRecord(c *gin.Context) {
	sheetID, recordID, err := h.recordIDs(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	var req recordStatusRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	if err := h.svc.UpdateRecord(c.Request.Context(), sheetID, recordID, models.AttendanceStatus(req.Status)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "attendance record updated"})
}

// DeleteRecord removes one worker's mark from a sheet.
func (h *AttendanceHandler) DeleteRecord(c *gin.Context) {
	sheetID, recordID, err := h.recordIDs(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if err := h.svc.DeleteRecord(c.Request.Context(), sheetID, recordID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "attendance record deleted"})
}

func (h *AttendanceHandler) recordIDs(c *gin.Context) (primitive.ObjectID, primitive.ObjectID, error) {
	sheetID, err := pathID(c)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, err
	}
	recordID, err := primitive.ObjectIDFromHex(c.Param("recordId"))
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, fmt.Errorf("%w: invalid record id %q", ledger.ErrInvalidInput, c.Param("recordId"))
	}
	return sheetID, recordID, nil
}
