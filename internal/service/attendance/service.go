package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/poultrypms/internal/domain/models"
	"github.com/mamadbah2/poultrypms/internal/repository/mongodb"
	"github.com/mamadbah2/poultrypms/internal/service/ledger"
)

// ErrSheetExists is returned when a sheet for the requested (date, shift)
// pair already exists. Sheets are created once and then mutated per record.
var ErrSheetExists = errors.New("attendance sheet already exists for this date and shift")

// ErrRecordNotFound is returned when a record id does not exist on the sheet.
var ErrRecordNotFound = errors.New("attendance record not found")

// Service manages attendance sheets and their embedded worker records.
type Service struct {
	sheets  mongodb.AttendanceRepository
	workers mongodb.WorkerRepository
	logger  *zap.Logger
}

// NewService wires the attendance ledger.
func NewService(sheets mongodb.AttendanceRepository, workers mongodb.WorkerRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{sheets: sheets, workers: workers, logger: logger}
}

// RecordInput is one worker's mark in a create request.
type RecordInput struct {
	WorkerID string
	Status   models.AttendanceStatus
}

// Create opens the sheet for a (date, shift) pair. Duplicate workers in the
// request collapse to their first mark; a second sheet for the same pair is
// rejected.
func (s *Service) Create(ctx context.Context, date time.Time, shift models.Shift, records []RecordInput) (*models.AttendanceSheet, error) {
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ledger.ErrInvalidInput)
	}
	if !shift.Valid() {
		return nil, fmt.Errorf("%w: unknown shift %q", ledger.ErrInvalidInput, shift)
	}

	seen := make(map[primitive.ObjectID]bool, len(records))
	sheet := &models.AttendanceSheet{
		Date:    ledger.Day(date),
		Shift:   shift,
		Records: make([]models.AttendanceRecord, 0, len(records)),
	}
	for _, rec := range records {
		workerID, err := primitive.ObjectIDFromHex(rec.WorkerID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid worker id %q", ledger.ErrInvalidInput, rec.WorkerID)
		}
		if !rec.Status.Valid() {
			return nil, fmt.Errorf("%w: invalid status %q", ledger.ErrInvalidInput, rec.Status)
		}
		if seen[workerID] {
			continue
		}
		seen[workerID] = true
		sheet.Records = append(sheet.Records, models.AttendanceRecord{
			ID:       primitive.NewObjectID(),
			WorkerID: workerID,
			Status:   rec.Status,
		})
	}

	if _, err := s.sheets.FindByDateShift(ctx, sheet.Date, shift); err == nil {
		return nil, ErrSheetExists
	} else if !errors.Is(err, mongodb.ErrNotFound) {
		return nil, err
	}

	if err := s.sheets.Insert(ctx, sheet); err != nil {
		// The unique (date, shift) index backstops the race between the
		// lookup above and this insert.
		if errors.Is(err, mongodb.ErrDuplicateKey) {
			return nil, ErrSheetExists
		}
		return nil, err
	}

	s.logger.Info("attendance sheet created",
		zap.String("shift", string(shift)),
		zap.Int("records", len(sheet.Records)))
	return sheet, nil
}

// List returns every sheet, newest first.
func (s *Service) List(ctx context.Context) ([]models.AttendanceSheet, error) {
	return s.sheets.FindAll(ctx)
}

// Search returns the records of the sheet for a (date, shift) pair, joined
// with worker details. A missing sheet yields an empty list, not an error.
func (s *Service) Search(ctx context.Context, date time.Time, shift models.Shift) ([]models.AttendanceRecordView, error) {
	if !shift.Valid() {
		return nil, fmt.Errorf("%w: unknown shift %q", ledger.ErrInvalidInput, shift)
	}

	sheet, err := s.sheets.FindByDateShift(ctx, date, shift)
	if errors.Is(err, mongodb.ErrNotFound) {
		return []models.AttendanceRecordView{}, nil
	}
	if err != nil {
		return nil, err
	}

	views := make([]models.AttendanceRecordView, 0, len(sheet.Records))
	for _, rec := range sheet.Records {
		view := models.AttendanceRecordView{
			AttendanceID: sheet.ID,
			RecordID:     rec.ID,
			WorkerID:     rec.WorkerID,
			WorkerName:   "Unknown",
			Status:       rec.Status,
		}
		// Deleted workers leave a dangling reference; keep the record with a
		// placeholder name.
		if worker, err := s.workers.FindByID(ctx, rec.WorkerID); err == nil {
			view.WorkerName = worker.Name
			view.WorkerRole = worker.Role
		} else if !errors.Is(err, mongodb.ErrNotFound) {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// UpdateRecord changes one worker's mark on the sheet.
func (s *Service) UpdateRecord(ctx context.Context, sheetID, recordID primitive.ObjectID, status models.AttendanceStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: invalid status %q", ledger.ErrInvalidInput, status)
	}

	if err := s.requireRecord(ctx, sheetID, recordID); err != nil {
		return err
	}
	return s.sheets.SetRecordStatus(ctx, sheetID, recordID, status)
}

// DeleteRecord removes one worker's mark from the sheet. The sheet itself is
// never deleted.
func (s *Service) DeleteRecord(ctx context.Context, sheetID, recordID primitive.ObjectID) error {
	if err := s.requireRecord(ctx, sheetID, recordID); err != nil {
		return err
	}
	return s.sheets.PullRecord(ctx, sheetID, recordID)
}

func (s *Service) requireRecord(ctx context.Context, sheetID, recordID primitive.ObjectID) error {
	sheet, err := s.sheets.FindByID(ctx, sheetID)
	if err != nil {
		return err
	}
	for _, rec := range sheet.Records {
		if rec.ID == recordID {
			return nil
		}
	}
	return ErrRecordNotFound
}
