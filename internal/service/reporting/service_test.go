package reporting_test

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
	"github.com/mamadbah2/poultrypms/internal/service/reporting"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type fakeFeedRepo struct {
	purchases []models.FeedPurchase
}

func (r *fakeFeedRepo) Insert(context.Context, *models.FeedPurchase) error { return nil }
func (r *fakeFeedRepo) FindAll(context.Context) ([]models.FeedPurchase, error) {
	return r.purchases, nil
}
func (r *fakeFeedRepo) FindByID(context.Context, primitive.ObjectID) (*models.FeedPurchase, error) {
	return nil, mongodb.ErrNotFound
}
func (r *fakeFeedRepo) Replace(context.Context, *models.FeedPurchase) error  { return nil }
func (r *fakeFeedRepo) Delete(context.Context, primitive.ObjectID) error     { return nil }
func (r *fakeFeedRepo) FindByType(context.Context, models.FeedType) ([]models.FeedPurchase, error) {
	return nil, nil
}
func (r *fakeFeedRepo) FindByTypeOnOrBefore(context.Context, models.FeedType, time.Time) ([]models.FeedPurchase, error) {
	return nil, nil
}
func (r *fakeFeedRepo) FindInRange(_ context.Context, from, to time.Time) ([]models.FeedPurchase, error) {
	var out []models.FeedPurchase
	for _, p := range r.purchases {
		if !p.Date.Before(from) && p.Date.Before(to) {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeConsumptionRepo struct{}

func (fakeConsumptionRepo) Insert(context.Context, *models.FeedConsumption) error { return nil }
func (fakeConsumptionRepo) FindAll(context.Context) ([]models.FeedConsumption, error) {
	return nil, nil
}
func (fakeConsumptionRepo) FindByID(context.Context, primitive.ObjectID) (*models.FeedConsumption, error) {
	return nil, mongodb.ErrNotFound
}
func (fakeConsumptionRepo) Replace(context.Context, *models.FeedConsumption) error { return nil }
func (fakeConsumptionRepo) Delete(context.Context, primitive.ObjectID) error       { return nil }
func (fakeConsumptionRepo) FindByType(context.Context, models.FeedType) ([]models.FeedConsumption, error) {
	return nil, nil
}
func (fakeConsumptionRepo) FindByTypeOnOrBefore(context.Context, models.FeedType, time.Time) ([]models.FeedConsumption, error) {
	return nil, nil
}
func (fakeConsumptionRepo) FindInRange(context.Context, time.Time, time.Time) ([]models.FeedConsumption, error) {
	return nil, nil
}

type fakeProductionRepo struct {
	productions []models.EggProduction
}

func (r *fakeProductionRepo) Insert(context.Context, *models.EggProduction) error { return nil }
func (r *fakeProductionRepo) FindAll(context.Context) ([]models.EggProduction, error) {
	return r.productions, nil
}
func (r *fakeProductionRepo) FindByID(context.Context, primitive.ObjectID) (*models.EggProduction, error) {
	return nil, mongodb.ErrNotFound
}
func (r *fakeProductionRepo) Replace(context.Context, *models.EggProduction) error { return nil }
func (r *fakeProductionRepo) Delete(context.Context, primitive.ObjectID) error     { return nil }
func (r *fakeProductionRepo) FindOnOrBefore(context.Context, time.Time) ([]models.EggProduction, error) {
	return nil, nil
}
func (r *fakeProductionRepo) FindInRange(_ context.Context, from, to time.Time) ([]models.EggProduction, error) {
	var out []models.EggProduction
	for _, p := range r.productions {
		if !p.Date.Before(from) && p.Date.Before(to) {
			out = append(out, p)
		}
	}
	return out, nil
}
func (r *fakeProductionRepo) TotalEggsInWindow(ctx context.Context, from, to time.Time) (int, error) {
	rows, _ := r.FindInRange(ctx, from, to)
	var total int
	for _, p := range rows {
		total += p.TotalEggs
	}
	return total, nil
}
func (r *fakeProductionRepo) EggsByWeekday(ctx context.Context, from, to time.Time) ([]models.WeekdayEggCount, error) {
	rows, _ := r.FindInRange(ctx, from, to)
	byDay := map[string]int{}
	for _, p := range rows {
		byDay[p.Date.Weekday().String()[:3]] += p.TotalEggs
	}
	out := []models.WeekdayEggCount{}
	for d, n := range byDay {
		out = append(out, models.WeekdayEggCount{Day: d, TotalEggs: n})
	}
	return out, nil
}

type fakePayrollRepo struct {
	rows []models.Payroll
}

func (r *fakePayrollRepo) Insert(context.Context, *models.Payroll) error  { return nil }
func (r *fakePayrollRepo) FindAll(context.Context) ([]models.Payroll, error) { return r.rows, nil }
func (r *fakePayrollRepo) FindByID(context.Context, primitive.ObjectID) (*models.Payroll, error) {
	return nil, mongodb.ErrNotFound
}
func (r *fakePayrollRepo) Replace(context.Context, *models.Payroll) error { return nil }
func (r *fakePayrollRepo) Delete(context.Context, primitive.ObjectID) error { return nil }
func (r *fakePayrollRepo) FindOnOrBefore(context.Context, time.Time) ([]models.Payroll, error) {
	return nil, nil
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
func (r *fakePayrollRepo) TotalExpenseInWindow(ctx context.Context, from, to time.Time) (float64, error) {
	rows, _ := r.FindInRange(ctx, from, to)
	var total float64
	for _, p := range rows {
		total += p.TotalExpense
	}
	return total, nil
}

type fakeWorkerRepo struct {
	count int
}

func (r *fakeWorkerRepo) Insert(context.Context, *models.Worker) error { return nil }
func (r *fakeWorkerRepo) FindAll(context.Context) ([]models.Worker, error) { return nil, nil }
func (r *fakeWorkerRepo) FindByID(context.Context, primitive.ObjectID) (*models.Worker, error) {
	return nil, mongodb.ErrNotFound
}
func (r *fakeWorkerRepo) Replace(context.Context, *models.Worker) error  { return nil }
func (r *fakeWorkerRepo) Delete(context.Context, primitive.ObjectID) error { return nil }
func (r *fakeWorkerRepo) Count(context.Context) (int, error)             { return r.count, nil }

type fixedStocker struct {
	feed float64
	eggs int
}

func (s fixedStocker) FeedStockAt(context.Context, models.FeedType, time.Time) (float64, error) {
	return s.feed, nil
}

func (s fixedStocker) EggStockAt(context.Context, time.Time) (int, error) {
	return s.eggs, nil
}

func TestRangeReports_RejectInvertedRange(t *testing.T) {
	svc := reporting.NewService(&fakeFeedRepo{}, fakeConsumptionRepo{}, &fakeProductionRepo{}, &fakePayrollRepo{}, &fakeWorkerRepo{}, fixedStocker{}, nil)

	_, err := svc.FeedPurchasesInRange(context.Background(), day(2026, time.March, 10), day(2026, time.March, 1))
	assert.ErrorIs(t, err, ledger.ErrInvalidInput)
}

func TestFeedPurchasesInRange_InclusiveBounds(t *testing.T) {
	feeds := &fakeFeedRepo{purchases: []models.FeedPurchase{
		{Date: day(2026, time.February, 28)},
		{Date: day(2026, time.March, 1)},
		{Date: day(2026, time.March, 5)},
		{Date: day(2026, time.March, 6)},
	}}
	svc := reporting.NewService(feeds, fakeConsumptionRepo{}, &fakeProductionRepo{}, &fakePayrollRepo{}, &fakeWorkerRepo{}, fixedStocker{}, nil)

	rows, err := svc.FeedPurchasesInRange(context.Background(), day(2026, time.March, 1), day(2026, time.March, 5))
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestProductionSummary_Totals(t *testing.T) {
	productions := &fakeProductionRepo{productions: []models.EggProduction{
		{Date: day(2026, time.March, 1), TotalEggs: 100, DamagedEggs: 10, GoodEggs: 90},
		{Date: day(2026, time.March, 2), TotalEggs: 80, DamagedEggs: 5, GoodEggs: 75},
	}}
	svc := reporting.NewService(&fakeFeedRepo{}, fakeConsumptionRepo{}, productions, &fakePayrollRepo{}, &fakeWorkerRepo{}, fixedStocker{}, nil)

	summary, err := svc.ProductionSummary(context.Background(), day(2026, time.March, 1), day(2026, time.March, 2))
	require.NoError(t, err)
	assert.Equal(t, 180, summary.TotalEggs)
	assert.Equal(t, 15, summary.DamagedEggs)
	assert.Equal(t, 165, summary.GoodEggs)
}

func TestInsights_TodayWindowAndWeek(t *testing.T) {
	// March 4 2026 is a Wednesday; the week starts Sunday March 1.
	now := time.Date(2026, time.March, 4, 14, 30, 0, 0, time.UTC)

	productions := &fakeProductionRepo{productions: []models.EggProduction{
		{Date: day(2026, time.February, 28), TotalEggs: 999}, // before the week
		{Date: day(2026, time.March, 2), TotalEggs: 50},
		{Date: day(2026, time.March, 4), TotalEggs: 70},
	}}
	payrolls := &fakePayrollRepo{rows: []models.Payroll{
		{Date: day(2026, time.March, 3), TotalExpense: 10},
		{Date: day(2026, time.March, 4), TotalExpense: 25},
	}}
	svc := reporting.NewService(&fakeFeedRepo{}, fakeConsumptionRepo{}, productions, payrolls, &fakeWorkerRepo{count: 7}, fixedStocker{}, nil)

	insights, err := svc.Insights(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 7, insights.TotalWorkers)
	assert.Equal(t, 70, insights.TotalEggs)
	assert.Equal(t, 25.0, insights.TotalExpenses)

	var weekTotal int
	for _, d := range insights.WeeklyEggProduction {
		weekTotal += d.TotalEggs
	}
	assert.Equal(t, 120, weekTotal)
}

func TestSnapshot_DerivesStocksAndMoney(t *testing.T) {
	payrolls := &fakePayrollRepo{rows: []models.Payroll{
		{Date: day(2026, time.March, 4), TotalRevenue: 100, TotalExpense: 30, NetProfit: 45},
		{Date: day(2026, time.March, 3), TotalRevenue: 999}, // other day, excluded
	}}
	svc := reporting.NewService(&fakeFeedRepo{}, fakeConsumptionRepo{}, &fakeProductionRepo{}, payrolls, &fakeWorkerRepo{}, fixedStocker{feed: 12.5, eggs: 400}, nil)

	snapshot, err := svc.Snapshot(context.Background(), day(2026, time.March, 4))
	require.NoError(t, err)
	assert.Equal(t, day(2026, time.March, 4), snapshot.Date)
	assert.Len(t, snapshot.FeedStocks, len(models.FeedTypes))
	assert.Equal(t, 12.5, snapshot.FeedStocks[0].Quantity)
	assert.Equal(t, 400, snapshot.EggStock)
	assert.Equal(t, 100.0, snapshot.Revenue)
	assert.Equal(t, 30.0, snapshot.Expenses)
	assert.Equal(t, 45.0, snapshot.NetProfit)
}
