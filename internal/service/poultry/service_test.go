package poultry_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/poultrypms/internal/domain/models"
	"github.com/mamadbah2/poultrypms/internal/repository/mongodb"
	"github.com/mamadbah2/poultrypms/internal/service/ledger"
	"github.com/mamadbah2/poultrypms/internal/service/poultry"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type fakeBatchRepo struct {
	batches []models.PoultryBatch
}

func (r *fakeBatchRepo) Insert(_ context.Context, b *models.PoultryBatch) error {
	b.ID = primitive.NewObjectID()
	r.batches = append(r.batches, *b)
	return nil
}

func (r *fakeBatchRepo) FindAll(context.Context) ([]models.PoultryBatch, error) {
	return r.batches, nil
}

func (r *fakeBatchRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.PoultryBatch, error) {
	for _, b := range r.batches {
		if b.ID == id {
			out := b
			return &out, nil
		}
	}
	return nil, mongodb.ErrNotFound
}

func (r *fakeBatchRepo) Replace(_ context.Context, b *models.PoultryBatch) error {
	for i := range r.batches {
		if r.batches[i].ID == b.ID {
			r.batches[i] = *b
			return nil
		}
	}
	return mongodb.ErrNotFound
}

func (r *fakeBatchRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	for i := range r.batches {
		if r.batches[i].ID == id {
			r.batches = append(r.batches[:i], r.batches[i+1:]...)
			return nil
		}
	}
	return mongodb.ErrNotFound
}

type fakeRecordRepo struct {
	records []models.PoultryRecord
}

func (r *fakeRecordRepo) Insert(_ context.Context, rec *models.PoultryRecord) error {
	rec.ID = primitive.NewObjectID()
	r.records = append(r.records, *rec)
	return nil
}

func (r *fakeRecordRepo) FindAll(context.Context) ([]models.PoultryRecord, error) {
	return r.records, nil
}

func (r *fakeRecordRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.PoultryRecord, error) {
	for _, rec := range r.records {
		if rec.ID == id {
			out := rec
			return &out, nil
		}
	}
	return nil, mongodb.ErrNotFound
}

func (r *fakeRecordRepo) Replace(_ context.Context, rec *models.PoultryRecord) error {
	for i := range r.records {
		if r.records[i].ID == rec.ID {
			r.records[i] = *rec
			return nil
		}
	}
	return mongodb.ErrNotFound
}

func (r *fakeRecordRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	for i := range r.records {
		if r.records[i].ID == id {
			r.records = append(r.records[:i], r.records[i+1:]...)
			return nil
		}
	}
	return mongodb.ErrNotFound
}

func (r *fakeRecordRepo) SumExpiredByBatch(_ context.Context, batchID primitive.ObjectID) (int, error) {
	var total int
	for _, rec := range r.records {
		if rec.BatchID == batchID {
			total += rec.ExpiredCount
		}
	}
	return total, nil
}

type fakeVaccinationRepo struct {
	vaccinations []models.Vaccination
}

func (r *fakeVaccinationRepo) Insert(_ context.Context, v *models.Vaccination) error {
	v.ID = primitive.NewObjectID()
	r.vaccinations = append(r.vaccinations, *v)
	return nil
}

func (r *fakeVaccinationRepo) InsertMany(_ context.Context, vaccinations []models.Vaccination) ([]models.Vaccination, error) {
	for i := range vaccinations {
		vaccinations[i].ID = primitive.NewObjectID()
		r.vaccinations = append(r.vaccinations, vaccinations[i])
	}
	return vaccinations, nil
}

func (r *fakeVaccinationRepo) FindByBatch(_ context.Context, batchID primitive.ObjectID) ([]models.Vaccination, error) {
	out := []models.Vaccination{}
	for _, v := range r.vaccinations {
		if v.BatchID == batchID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *fakeVaccinationRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Vaccination, error) {
	for _, v := range r.vaccinations {
		if v.ID == id {
			out := v
			return &out, nil
		}
	}
	return nil, mongodb.ErrNotFound
}

func (r *fakeVaccinationRepo) Replace(_ context.Context, v *models.Vaccination) error {
	for i := range r.vaccinations {
		if r.vaccinations[i].ID == v.ID {
			r.vaccinations[i] = *v
			return nil
		}
	}
	return mongodb.ErrNotFound
}

func (r *fakeVaccinationRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	for i := range r.vaccinations {
		if r.vaccinations[i].ID == id {
			r.vaccinations = append(r.vaccinations[:i], r.vaccinations[i+1:]...)
			return nil
		}
	}
	return mongodb.ErrNotFound
}

func (r *fakeVaccinationRepo) FindPending(context.Context) ([]models.Vaccination, error) {
	out := []models.Vaccination{}
	for _, v := range r.vaccinations {
		if v.Status == models.VaccinationPending {
			out = append(out, v)
		}
	}
	return out, nil
}

func newTestService() (*poultry.Service, *fakeBatchRepo, *fakeRecordRepo, *fakeVaccinationRepo) {
	batches := &fakeBatchRepo{}
	records := &fakeRecordRepo{}
	vaccinations := &fakeVaccinationRepo{}
	return poultry.NewService(batches, records, vaccinations, nil), batches, records, vaccinations
}

func TestCreateRecord_GuardsLiveHeadcount(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	batch, err := svc.CreateBatch(ctx, poultry.BatchInput{
		BatchName: "B-1", Type: models.BatchBroiler, Quantity: 100, StartDate: day(2026, time.March, 1),
	})
	require.NoError(t, err)

	_, err = svc.CreateRecord(ctx, poultry.RecordInput{
		BatchID: batch.ID, Date: day(2026, time.March, 5), ExpiredCount: 60,
	})
	require.NoError(t, err)

	_, err = svc.CreateRecord(ctx, poultry.RecordInput{
		BatchID: batch.ID, Date: day(2026, time.March, 6), ExpiredCount: 50,
	})
	var exceeds *poultry.ExceedsFlockError
	require.ErrorAs(t, err, &exceeds)
	assert.Equal(t, 50, exceeds.Requested)
	assert.Equal(t, 40, exceeds.Available)
}

func TestGetBatch_DerivesCurrentQuantity(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	batch, err := svc.CreateBatch(ctx, poultry.BatchInput{
		BatchName: "B-1", Type: models.BatchLayer, Quantity: 200, StartDate: day(2026, time.March, 1),
	})
	require.NoError(t, err)

	_, err = svc.CreateRecord(ctx, poultry.RecordInput{
		BatchID: batch.ID, Date: day(2026, time.March, 3), ExpiredCount: 15,
	})
	require.NoError(t, err)

	view, err := svc.GetBatch(ctx, batch.ID)
	require.NoError(t, err)
	assert.Equal(t, 185, view.CurrentQuantity)
}

func TestUpdateRecord_SelfExclusion(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	batch, err := svc.CreateBatch(ctx, poultry.BatchInput{
		BatchName: "B-1", Type: models.BatchBroiler, Quantity: 100, StartDate: day(2026, time.March, 1),
	})
	require.NoError(t, err)

	record, err := svc.CreateRecord(ctx, poultry.RecordInput{
		BatchID: batch.ID, Date: day(2026, time.March, 5), ExpiredCount: 100,
	})
	require.NoError(t, err)

	// The flock is fully depleted; resubmitting the same count must pass.
	_, err = svc.UpdateRecord(ctx, record.ID, poultry.RecordInput{
		BatchID: batch.ID, Date: day(2026, time.March, 5), ExpiredCount: 100,
	})
	assert.NoError(t, err)

	_, err = svc.UpdateRecord(ctx, record.ID, poultry.RecordInput{
		BatchID: batch.ID, Date: day(2026, time.March, 5), ExpiredCount: 101,
	})
	var exceeds *poultry.ExceedsFlockError
	assert.ErrorAs(t, err, &exceeds)
}

func TestUpdateBatch_CannotShrinkBelowLosses(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	batch, err := svc.CreateBatch(ctx, poultry.BatchInput{
		BatchName: "B-1", Type: models.BatchBroiler, Quantity: 100, StartDate: day(2026, time.March, 1),
	})
	require.NoError(t, err)

	_, err = svc.CreateRecord(ctx, poultry.RecordInput{
		BatchID: batch.ID, Date: day(2026, time.March, 5), ExpiredCount: 30,
	})
	require.NoError(t, err)

	_, err = svc.UpdateBatch(ctx, batch.ID, poultry.BatchInput{
		BatchName: "B-1", Type: models.BatchBroiler, Quantity: 20, StartDate: day(2026, time.March, 1),
	})
	var exceeds *poultry.ExceedsFlockError
	assert.ErrorAs(t, err, &exceeds)
}

func TestVaccinationsForBatch_GeneratesBroilerTemplate(t *testing.T) {
	svc, _, _, vaccinations := newTestService()
	ctx := context.Background()

	batch, err := svc.CreateBatch(ctx, poultry.BatchInput{
		BatchName: "B-1", Type: models.BatchBroiler, Quantity: 50, StartDate: day(2026, time.March, 1),
	})
	require.NoError(t, err)

	schedule, err := svc.VaccinationsForBatch(ctx, batch.ID)
	require.NoError(t, err)
	require.Len(t, schedule, 3)

	names := make([]string, 0, len(schedule))
	days := make([]int, 0, len(schedule))
	for _, v := range schedule {
		names = append(names, v.VaccineName)
		days = append(days, v.Day)
		assert.Equal(t, models.VaccinationPending, v.Status)
	}
	assert.Equal(t, []string{"Ranikhet", "Gumboro", "Ranikhet"}, names)
	assert.Equal(t, []int{7, 14, 21}, days)

	// Second call returns the stored schedule without regenerating.
	again, err := svc.VaccinationsForBatch(ctx, batch.ID)
	require.NoError(t, err)
	assert.Len(t, again, 3)
	assert.Len(t, vaccinations.vaccinations, 3)
}

func TestVaccinationsForBatch_LayerTemplate(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	batch, err := svc.CreateBatch(ctx, poultry.BatchInput{
		BatchName: "L-1", Type: models.BatchLayer, Quantity: 50, StartDate: day(2026, time.March, 1),
	})
	require.NoError(t, err)

	schedule, err := svc.VaccinationsForBatch(ctx, batch.ID)
	require.NoError(t, err)
	require.Len(t, schedule, 4)
	assert.Equal(t, "Marek's Disease", schedule[0].VaccineName)
	assert.Equal(t, 1, schedule[0].Day)
	assert.Equal(t, "IBD", schedule[3].VaccineName)
	assert.Equal(t, 21, schedule[3].Day)
}

func TestUpdateVaccination_CompletingStampsDateGiven(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	batch, err := svc.CreateBatch(ctx, poultry.BatchInput{
		BatchName: "B-1", Type: models.BatchBroiler, Quantity: 50, StartDate: day(2026, time.March, 1),
	})
	require.NoError(t, err)

	schedule, err := svc.VaccinationsForBatch(ctx, batch.ID)
	require.NoError(t, err)

	dose := schedule[0]
	updated, err := svc.UpdateVaccination(ctx, dose.ID, poultry.VaccinationInput{
		BatchID:     batch.ID,
		VaccineName: dose.VaccineName,
		Day:         dose.Day,
		Status:      models.VaccinationCompleted,
	})
	require.NoError(t, err)
	assert.Equal(t, models.VaccinationCompleted, updated.Status)
	require.NotNil(t, updated.DateGiven)
}

func TestDuePending_FiltersByDueDate(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	batch, err := svc.CreateBatch(ctx, poultry.BatchInput{
		BatchName: "B-1", Type: models.BatchBroiler, Quantity: 50, StartDate: day(2026, time.March, 1),
	})
	require.NoError(t, err)

	_, err = svc.VaccinationsForBatch(ctx, batch.ID)
	require.NoError(t, err)

	// Day 7 dose is due March 8; days 14 and 21 are not yet.
	due, err := svc.DuePending(ctx, day(2026, time.March, 10))
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, 7, due[0].Vaccination.Day)
	assert.Equal(t, day(2026, time.March, 8), due[0].DueDate)
	assert.Equal(t, "B-1", due[0].BatchName)
}

func TestCreateBatch_Validation(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.CreateBatch(context.Background(), poultry.BatchInput{
		Type: models.BatchBroiler, Quantity: 10, StartDate: day(2026, time.March, 1),
	})
	assert.ErrorIs(t, err, ledger.ErrInvalidInput)

	_, err = svc.CreateBatch(context.Background(), poultry.BatchInput{
		BatchName: "B-1", Type: "Duck", Quantity: 10, StartDate: day(2026, time.March, 1),
	})
	assert.ErrorIs(t, err, ledger.ErrInvalidInput)
}
