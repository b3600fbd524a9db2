package poultry

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/poultrypms/internal/domain/models"
	"github.com/mamadbah2/poultrypms/internal/repository/mongodb"
	"github.com/mamadbah2/poultrypms/internal/service/ledger"
)

// ExceedsFlockError is returned when a mortality record would drive a
// batch's live headcount below zero.
type ExceedsFlockError struct {
	BatchID   primitive.ObjectID
	Requested int
	Available int
}

func (e *ExceedsFlockError) Error() string {
	return fmt.Sprintf("expired count exceeds remaining birds: requested %d, available %d", e.Requested, e.Available)
}

type scheduleEntry struct {
	day     int
	vaccine string
}

// scheduleTemplates holds the fixed per-type vaccination programmes applied
// to every new batch.
var scheduleTemplates = map[models.BatchType][]scheduleEntry{
	models.BatchBroiler: {
		{day: 7, vaccine: "Ranikhet"},
		{day: 14, vaccine: "Gumboro"},
		{day: 21, vaccine: "Ranikhet"},
	},
	models.BatchLayer: {
		{day: 1, vaccine: "Marek's Disease"},
		{day: 7, vaccine: "NDV"},
		{day: 10, vaccine: "Fowl Pox"},
		{day: 21, vaccine: "IBD"},
	},
}

// Service manages poultry batches, their mortality records and vaccination
// schedules.
type Service struct {
	batches      mongodb.BatchRepository
	records      mongodb.PoultryRecordRepository
	vaccinations mongodb.VaccinationRepository
	logger       *zap.Logger
	now          func() time.Time
}

// NewService wires the poultry service.
func NewService(batches mongodb.BatchRepository, records mongodb.PoultryRecordRepository, vaccinations mongodb.VaccinationRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		batches:      batches,
		records:      records,
		vaccinations: vaccinations,
		logger:       logger,
		now:          time.Now,
	}
}

// BatchInput carries a batch create or update request.
type BatchInput struct {
	BatchName string
	Type      models.BatchType
	Quantity  int
	StartDate time.Time
	Notes     string
}

func (in BatchInput) validate() error {
	if in.BatchName == "" {
		return fmt.Errorf("%w: batchName is required", ledger.ErrInvalidInput)
	}
	if !in.Type.Valid() {
		return fmt.Errorf("%w: unknown batch type %q", ledger.ErrInvalidInput, in.Type)
	}
	if in.Quantity < 0 {
		return fmt.Errorf("%w: quantity must not be negative", ledger.ErrInvalidInput)
	}
	if in.StartDate.IsZero() {
		return fmt.Errorf("%w: startDate is required", ledger.ErrInvalidInput)
	}
	return nil
}

// RecordInput carries a mortality record request.
type RecordInput struct {
	BatchID      primitive.ObjectID
	Date         time.Time
	ExpiredCount int
	Notes        string
}

func (in RecordInput) validate() error {
	if in.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ledger.ErrInvalidInput)
	}
	if in.ExpiredCount < 0 {
		return fmt.Errorf("%w: expiredCount must not be negative", ledger.ErrInvalidInput)
	}
	return nil
}

// CreateBatch starts a new flock.
func (s *Service) CreateBatch(ctx context.Context, in BatchInput) (*models.PoultryBatch, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	now := s.now()
	batch := &models.PoultryBatch{
		BatchName: in.BatchName,
		Type:      in.Type,
		Quantity:  in.Quantity,
		StartDate: ledger.Day(in.StartDate),
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.batches.Insert(ctx, batch); err != nil {
		return nil, err
	}
	return batch, nil
}

// ListBatches returns every batch with its derived live headcount.
func (s *Service) ListBatches(ctx context.Context) ([]models.PoultryBatchView, error) {
	batches, err := s.batches.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]models.PoultryBatchView, 0, len(batches))
	for _, batch := range batches {
		expired, err := s.records.SumExpiredByBatch(ctx, batch.ID)
		if err != nil {
			return nil, err
		}
		views = append(views, models.PoultryBatchView{
			PoultryBatch:    batch,
			CurrentQuantity: batch.Quantity - expired,
		})
	}
	return views, nil
}

// GetBatch resolves one batch with its derived headcount.
func (s *Service) GetBatch(ctx context.Context, id primitive.ObjectID) (*models.PoultryBatchView, error) {
	batch, err := s.batches.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	expired, err := s.records.SumExpiredByBatch(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.PoultryBatchView{
		PoultryBatch:    *batch,
		CurrentQuantity: batch.Quantity - expired,
	}, nil
}

// UpdateBatch rewrites a batch. Shrinking the starting quantity below the
// recorded losses is rejected.
func (s *Service) UpdateBatch(ctx context.Context, id primitive.ObjectID, in BatchInput) (*models.PoultryBatch, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	existing, err := s.batches.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	expired, err := s.records.SumExpiredByBatch(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Quantity < expired {
		return nil, &ExceedsFlockError{BatchID: id, Requested: expired, Available: in.Quantity}
	}

	updated := &models.PoultryBatch{
		ID:        existing.ID,
		BatchName: in.BatchName,
		Type:      in.Type,
		Quantity:  in.Quantity,
		StartDate: ledger.Day(in.StartDate),
		Notes:     in.Notes,
		CreatedAt: existing.CreatedAt,
		UpdatedAt: s.now(),
	}
	if err := s.batches.Replace(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteBatch removes a batch. Its records and vaccinations are left in
// place as history.
func (s *Service) DeleteBatch(ctx context.Context, id primitive.ObjectID) error {
	return s.batches.Delete(ctx, id)
}

// CreateRecord logs bird losses against a batch, keeping the live headcount
// at or above zero.
func (s *Service) CreateRecord(ctx context.Context, in RecordInput) (*models.PoultryRecord, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	batch, err := s.batches.FindByID(ctx, in.BatchID)
	if err != nil {
		return nil, err
	}
	expired, err := s.records.SumExpiredByBatch(ctx, in.BatchID)
	if err != nil {
		return nil, err
	}
	remaining := batch.Quantity - expired
	if in.ExpiredCount > remaining {
		return nil, &ExceedsFlockError{BatchID: in.BatchID, Requested: in.ExpiredCount, Available: remaining}
	}

	record := &models.PoultryRecord{
		BatchID:      in.BatchID,
		Date:         ledger.Day(in.Date),
		ExpiredCount: in.ExpiredCount,
		Notes:        in.Notes,
	}
	if err := s.records.Insert(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// ListRecords returns every mortality record joined with its batch name.
func (s *Service) ListRecords(ctx context.Context) ([]models.PoultryRecordView, error) {
	records, err := s.records.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	names := map[primitive.ObjectID]string{}
	views := make([]models.PoultryRecordView, 0, len(records))
	for _, record := range records {
		name, ok := names[record.BatchID]
		if !ok {
			name = "Unknown"
			if batch, err := s.batches.FindByID(ctx, record.BatchID); err == nil {
				name = batch.BatchName
			}
			names[record.BatchID] = name
		}
		views = append(views, models.PoultryRecordView{PoultryRecord: record, BatchName: name})
	}
	return views, nil
}

// GetRecord resolves one mortality record by id.
func (s *Service) GetRecord(ctx context.Context, id primitive.ObjectID) (*models.PoultryRecord, error) {
	return s.records.FindByID(ctx, id)
}

// UpdateRecord rewrites a mortality record, re-validating the headcount with
// the record's previous count excluded.
func (s *Service) UpdateRecord(ctx context.Context, id primitive.ObjectID, in RecordInput) (*models.PoultryRecord, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	existing, err := s.records.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.BatchID.IsZero() {
		in.BatchID = existing.BatchID
	}

	batch, err := s.batches.FindByID(ctx, in.BatchID)
	if err != nil {
		return nil, err
	}
	expired, err := s.records.SumExpiredByBatch(ctx, in.BatchID)
	if err != nil {
		return nil, err
	}
	if in.BatchID == existing.BatchID {
		expired -= existing.ExpiredCount
	}
	remaining := batch.Quantity - expired
	if in.ExpiredCount > remaining {
		return nil, &ExceedsFlockError{BatchID: in.BatchID, Requested: in.ExpiredCount, Available: remaining}
	}

	updated := &models.PoultryRecord{
		ID:           existing.ID,
		BatchID:      in.BatchID,
		Date:         ledger.Day(in.Date),
		ExpiredCount: in.ExpiredCount,
		Notes:        in.Notes,
	}
	if err := s.records.Replace(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteRecord removes a mortality record.
func (s *Service) DeleteRecord(ctx context.Context, id primitive.ObjectID) error {
	return s.records.Delete(ctx, id)
}
