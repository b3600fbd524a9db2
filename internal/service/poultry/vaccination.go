package poultry

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/poultrypms/internal/domain/models"
	"github.com/mamadbah2/poultrypms/internal/service/ledger"
)

// VaccinationInput carries a manual vaccination create or update request.
type VaccinationInput struct {
	BatchID     primitive.ObjectID
	VaccineName string
	Day         int
	Status      models.VaccinationStatus
	DateGiven   *time.Time
}

func (in VaccinationInput) validate() error {
	if in.VaccineName == "" {
		return fmt.Errorf("%w: vaccineName is required", ledger.ErrInvalidInput)
	}
	if in.Day < 0 {
		return fmt.Errorf("%w: day must not be negative", ledger.ErrInvalidInput)
	}
	if in.Status != "" && !in.Status.Valid() {
		return fmt.Errorf("%w: unknown vaccination status %q", ledger.ErrInvalidInput, in.Status)
	}
	return nil
}

// VaccinationsForBatch returns the batch's schedule, generating it from the
// per-type template on first access.
func (s *Service) VaccinationsForBatch(ctx context.Context, batchID primitive.ObjectID) ([]models.Vaccination, error) {
	batch, err := s.batches.FindByID(ctx, batchID)
	if err != nil {
		return nil, err
	}

	existing, err := s.vaccinations.FindByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing, nil
	}

	template, ok := scheduleTemplates[batch.Type]
	if !ok {
		return existing, nil
	}

	now := s.now()
	scheduled := make([]models.Vaccination, 0, len(template))
	for _, entry := range template {
		scheduled = append(scheduled, models.Vaccination{
			BatchID:     batchID,
			VaccineName: entry.vaccine,
			Day:         entry.day,
			Status:      models.VaccinationPending,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	scheduled, err = s.vaccinations.InsertMany(ctx, scheduled)
	if err != nil {
		return nil, err
	}
	s.logger.Info("generated vaccination schedule",
		zap.String("batch", batchID.Hex()),
		zap.String("type", string(batch.Type)),
		zap.Int("doses", len(scheduled)))
	return scheduled, nil
}

// CreateVaccination adds a dose outside the standard template.
func (s *Service) CreateVaccination(ctx context.Context, in VaccinationInput) (*models.Vaccination, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if _, err := s.batches.FindByID(ctx, in.BatchID); err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = models.VaccinationPending
	}

	now := s.now()
	vaccination := &models.Vaccination{
		BatchID:     in.BatchID,
		VaccineName: in.VaccineName,
		Day:         in.Day,
		DateGiven:   in.DateGiven,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if status == models.VaccinationCompleted && vaccination.DateGiven == nil {
		given := ledger.Day(now)
		vaccination.DateGiven = &given
	}

	if err := s.vaccinations.Insert(ctx, vaccination); err != nil {
		return nil, err
	}
	return vaccination, nil
}

// UpdateVaccination rewrites a scheduled dose. Marking a dose completed
// stamps dateGiven when the caller did not supply one.
func (s *Service) UpdateVaccination(ctx context.Context, id primitive.ObjectID, in VaccinationInput) (*models.Vaccination, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	existing, err := s.vaccinations.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.BatchID.IsZero() {
		in.BatchID = existing.BatchID
	}

	status := in.Status
	if status == "" {
		status = existing.Status
	}

	updated := &models.Vaccination{
		ID:          existing.ID,
		BatchID:     in.BatchID,
		VaccineName: in.VaccineName,
		Day:         in.Day,
		DateGiven:   in.DateGiven,
		Status:      status,
		CreatedAt:   existing.CreatedAt,
		UpdatedAt:   s.now(),
	}
	if status == models.VaccinationCompleted && updated.DateGiven == nil {
		if existing.DateGiven != nil {
			updated.DateGiven = existing.DateGiven
		} else {
			given := ledger.Day(s.now())
			updated.DateGiven = &given
		}
	}
	if status == models.VaccinationPending {
		updated.DateGiven = nil
	}

	if err := s.vaccinations.Replace(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteVaccination removes a scheduled dose.
func (s *Service) DeleteVaccination(ctx context.Context, id primitive.ObjectID) error {
	return s.vaccinations.Delete(ctx, id)
}

// DueVaccination pairs a pending dose with its batch and resolved due date.
type DueVaccination struct {
	Vaccination models.Vaccination
	BatchName   string
	DueDate     time.Time
}

// DuePending returns every pending dose whose due date is on or before asOf.
// Doses whose batch no longer exists are skipped.
func (s *Service) DuePending(ctx context.Context, asOf time.Time) ([]DueVaccination, error) {
	pending, err := s.vaccinations.FindPending(ctx)
	if err != nil {
		return nil, err
	}

	cutoff := ledger.Day(asOf)
	starts := map[primitive.ObjectID]*models.PoultryBatch{}
	due := []DueVaccination{}
	for _, v := range pending {
		batch, ok := starts[v.BatchID]
		if !ok {
			batch, err = s.batches.FindByID(ctx, v.BatchID)
			if err != nil {
				starts[v.BatchID] = nil
				continue
			}
			starts[v.BatchID] = batch
		}
		if batch == nil {
			continue
		}
		dueDate := v.DueDate(batch.StartDate)
		if dueDate.After(cutoff) {
			continue
		}
		due = append(due, DueVaccination{Vaccination: v, BatchName: batch.BatchName, DueDate: dueDate})
	}
	return due, nil
}
