package payroll_test

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
	"github.com/mamadbah2/poultrypms/internal/service/payroll"
)

type passTx struct{}

func (passTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type fakePayrollRepo struct {
	rows []models.Payroll
}

func (r *fakePayrollRepo) Insert(_ context.Context, p *models.Payroll) error {
	for _, row := range r.rows {
		if row.Date.Equal(p.Date) {
			return mongodb.ErrDuplicateKey
		}
	}
	p.ID = primitive.NewObjectID()
	r.rows = append(r.rows, *p)
	return nil
}

func (r *fakePayrollRepo) FindAll(context.Context) ([]models.Payroll, error) {
	return r.rows, nil
}

func (r *fakePayrollRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Payroll, error) {
	for _, p := range r.rows {
		if p.ID == id {
			out := p
			return &out, nil
		}
	}
	return nil, mongodb.ErrNotFound
}

func (r *fakePayrollRepo) Replace(_ context.Context, p *models.Payroll) error {
	for i := range r.rows {
		if r.rows[i].ID == p.ID {
			r.rows[i] = *p
			return nil
		}
	}
	return mongodb.ErrNotFound
}

func (r *fakePayrollRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	for i := range r.rows {
		if r.rows[i].ID == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return mongodb.ErrNotFound
}

func (r *fakePayrollRepo) FindOnOrBefore(_ context.Context, asOf time.Time) ([]models.Payroll, error) {
	var out []models.Payroll
	for _, p := range r.rows {
		if !p.Date.After(asOf) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePayrollRepo) FindInRange(_ context.Context, from, to time.Time) ([]models.Payroll, error) {
	var out []models.Payroll
	for _, p := range r.rows {
		if !p.Date.Before(from) && p.Date.Before(to) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePayrollRepo) TotalExpenseInWindow(context.Context, time.Time, time.Time) (float64, error) {
	return 0, nil
}

type fakeProductionRepo struct {
	productions []models.EggProduction
}

func (r *fakeProductionRepo) Insert(_ context.Context, p *models.EggProduction) error {
	p.ID = primitive.NewObjectID()
	r.productions = append(r.productions, *p)
	return nil
}

func (r *fakeProductionRepo) FindAll(context.Context) ([]models.EggProduction, error) {
	return r.productions, nil
}

func (r *fakeProductionRepo) FindByID(context.Context, primitive.ObjectID) (*models.EggProduction, error) {
	return nil, mongodb.ErrNotFound
}

func (r *fakeProductionRepo) Replace(context.Context, *models.EggProduction) error { return nil }

func (r *fakeProductionRepo) Delete(context.Context, primitive.ObjectID) error { return nil }

func (r *fakeProductionRepo) FindOnOrBefore(_ context.Context, asOf time.Time) ([]models.EggProduction, error) {
	var out []models.EggProduction
	for _, p := range r.productions {
		if !p.Date.After(asOf) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductionRepo) FindInRange(context.Context, time.Time, time.Time) ([]models.EggProduction, error) {
	return nil, nil
}

func (r *fakeProductionRepo) TotalEggsInWindow(context.Context, time.Time, time.Time) (int, error) {
	return 0, nil
}

func (r *fakeProductionRepo) EggsByWeekday(context.Context, time.Time, time.Time) ([]models.WeekdayEggCount, error) {
	return nil, nil
}

type fakeWorkerRepo struct {
	workers []models.Worker
}

func (r *fakeWorkerRepo) Insert(_ context.Context, w *models.Worker) error {
	w.ID = primitive.NewObjectID()
	r.workers = append(r.workers, *w)
	return nil
}

func (r *fakeWorkerRepo) FindAll(context.Context) ([]models.Worker, error) {
	return r.workers, nil
}

func (r *fakeWorkerRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Worker, error) {
	for _, w := range r.workers {
		if w.ID == id {
			out := w
			return &out, nil
		}
	}
	return nil, mongodb.ErrNotFound
}

func (r *fakeWorkerRepo) Replace(context.Context, *models.Worker) error { return nil }

func (r *fakeWorkerRepo) Delete(context.Context, primitive.ObjectID) error { return nil }

func (r *fakeWorkerRepo) Count(context.Context) (int, error) { return len(r.workers), nil }

func newTestService(workers ...models.Worker) (*payroll.Service, *fakePayrollRepo, *fakeProductionRepo) {
	payrolls := &fakePayrollRepo{}
	productions := &fakeProductionRepo{}
	roster := &fakeWorkerRepo{}
	for i := range workers {
		workers[i].ID = primitive.NewObjectID()
		roster.workers = append(roster.workers, workers[i])
	}
	svc := payroll.NewService(payrolls, productions, roster, passTx{}, nil)
	return svc, payrolls, productions
}

func TestCreate_ComputesDerivedFields(t *testing.T) {
	svc, _, productions := newTestService(
		models.Worker{Name: "Awa", Salary: 3000},
		models.Worker{Name: "Sekou", Salary: 4500},
	)
	productions.productions = []models.EggProduction{
		{ID: primitive.NewObjectID(), Date: day(2026, time.March, 1), GoodEggs: 500},
	}

	row, err := svc.Create(context.Background(), payroll.Input{
		Date: day(2026, time.March, 2), EggsSold: 200, PricePerEgg: 0.5, TotalExpense: 30,
	})
	require.NoError(t, err)

	// salaries: 3000/30 + 4500/30 = 250.00
	assert.Equal(t, 100.0, row.TotalRevenue)
	assert.Equal(t, 250.0, row.TotalSalaries)
	assert.Equal(t, -180.0, row.NetProfit)
}

func TestCreate_SalaryRoundingToTwoDecimals(t *testing.T) {
	svc, _, productions := newTestService(
		models.Worker{Name: "Awa", Salary: 1000},
	)
	productions.productions = []models.EggProduction{
		{ID: primitive.NewObjectID(), Date: day(2026, time.March, 1), GoodEggs: 100},
	}

	row, err := svc.Create(context.Background(), payroll.Input{
		Date: day(2026, time.March, 1), EggsSold: 0, PricePerEgg: 0, TotalExpense: 0,
	})
	require.NoError(t, err)

	// 1000/30 = 33.333... rounds to 33.33, not a floating point tail.
	assert.Equal(t, 33.33, row.TotalSalaries)
	assert.Equal(t, -33.33, row.NetProfit)
}

func TestCreate_RejectsOversale(t *testing.T) {
	svc, payrolls, productions := newTestService()
	productions.productions = []models.EggProduction{
		{ID: primitive.NewObjectID(), Date: day(2026, time.March, 1), GoodEggs: 100},
	}

	_, err := svc.Create(context.Background(), payroll.Input{
		Date: day(2026, time.March, 2), EggsSold: 150, PricePerEgg: 0.5,
	})
	var insufficient *ledger.InsufficientEggStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 150, insufficient.Requested)
	assert.Equal(t, 100, insufficient.Available)
	assert.Empty(t, payrolls.rows)
}

func TestCreate_DuplicateDateRejected(t *testing.T) {
	svc, _, productions := newTestService()
	productions.productions = []models.EggProduction{
		{ID: primitive.NewObjectID(), Date: day(2026, time.March, 1), GoodEggs: 500},
	}

	_, err := svc.Create(context.Background(), payroll.Input{
		Date: day(2026, time.March, 2), EggsSold: 100, PricePerEgg: 0.5,
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), payroll.Input{
		Date: day(2026, time.March, 2), EggsSold: 50, PricePerEgg: 0.5,
	})
	assert.ErrorIs(t, err, mongodb.ErrDuplicateKey)
}

func TestUpdate_SelfExclusionAllowsNoOpEdit(t *testing.T) {
	svc, _, productions := newTestService()
	productions.productions = []models.EggProduction{
		{ID: primitive.NewObjectID(), Date: day(2026, time.March, 1), GoodEggs: 100},
	}

	row, err := svc.Create(context.Background(), payroll.Input{
		Date: day(2026, time.March, 2), EggsSold: 100, PricePerEgg: 0.5,
	})
	require.NoError(t, err)

	// All stock is sold; editing the price on the same row must still pass.
	updated, err := svc.Update(context.Background(), row.ID, payroll.Input{
		Date: day(2026, time.March, 2), EggsSold: 100, PricePerEgg: 0.6,
	})
	require.NoError(t, err)
	assert.Equal(t, 60.0, updated.TotalRevenue)
}

func TestUpdate_RaisingEggsSoldBeyondStockRejected(t *testing.T) {
	svc, _, productions := newTestService()
	productions.productions = []models.EggProduction{
		{ID: primitive.NewObjectID(), Date: day(2026, time.March, 1), GoodEggs: 100},
	}

	row, err := svc.Create(context.Background(), payroll.Input{
		Date: day(2026, time.March, 2), EggsSold: 80, PricePerEgg: 0.5,
	})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), row.ID, payroll.Input{
		Date: day(2026, time.March, 2), EggsSold: 120, PricePerEgg: 0.5,
	})
	var insufficient *ledger.InsufficientEggStockError
	require.ErrorAs(t, err, &insufficient)
}

func TestCreate_ValidationErrors(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Create(context.Background(), payroll.Input{EggsSold: 10, PricePerEgg: 1})
	assert.ErrorIs(t, err, ledger.ErrInvalidInput)

	_, err = svc.Create(context.Background(), payroll.Input{
		Date: day(2026, time.March, 1), EggsSold: -1,
	})
	assert.ErrorIs(t, err, ledger.ErrInvalidInput)
}
