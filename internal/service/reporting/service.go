package reporting

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/poultrypms/internal/domain/models"
	"github.com/mamadbah2/poultrypms/internal/repository/mongodb"
	"github.com/mamadbah2/poultrypms/internal/service/ledger"
)

// Stocker resolves derived stock levels from the ledger.
type Stocker interface {
	FeedStockAt(ctx context.Context, feedType models.FeedType, asOf time.Time) (float64, error)
	EggStockAt(ctx context.Context, asOf time.Time) (int, error)
}

// Service builds range reports, dashboard insights and end-of-day snapshots.
type Service struct {
	feeds        mongodb.FeedRepository
	consumptions mongodb.ConsumptionRepository
	productions  mongodb.ProductionRepository
	payrolls     mongodb.PayrollRepository
	workers      mongodb.WorkerRepository
	stocks       Stocker
	logger       *zap.Logger
}

// NewService wires the reporting service.
func NewService(
	feeds mongodb.FeedRepository,
	consumptions mongodb.ConsumptionRepository,
	productions mongodb.ProductionRepository,
	payrolls mongodb.PayrollRepository,
	workers mongodb.WorkerRepository,
	stocks Stocker,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		feeds:        feeds,
		consumptions: consumptions,
		productions:  productions,
		payrolls:     payrolls,
		workers:      workers,
		stocks:       stocks,
		logger:       logger,
	}
}

func checkRange(from, to time.Time) error {
	if from.IsZero() || to.IsZero() {
		return fmt.Errorf("%w: from and to are required", ledger.ErrInvalidInput)
	}
	if to.Before(from) {
		return fmt.Errorf("%w: to must not precede from", ledger.ErrInvalidInput)
	}
	return nil
}

// FeedPurchasesInRange lists purchases with dates in [from, to], oldest first.
func (s *Service) FeedPurchasesInRange(ctx context.Context, from, to time.Time) ([]models.FeedPurchase, error) {
	if err := checkRange(from, to); err != nil {
		return nil, err
	}
	return s.feeds.FindInRange(ctx, ledger.Day(from), ledger.Day(to).AddDate(0, 0, 1))
}

// FeedConsumptionsInRange lists consumption entries with dates in [from, to].
func (s *Service) FeedConsumptionsInRange(ctx context.Context, from, to time.Time) ([]models.FeedConsumption, error) {
	if err := checkRange(from, to); err != nil {
		return nil, err
	}
	return s.consumptions.FindInRange(ctx, ledger.Day(from), ledger.Day(to).AddDate(0, 0, 1))
}

// ProductionsInRange lists egg production entries with dates in [from, to].
func (s *Service) ProductionsInRange(ctx context.Context, from, to time.Time) ([]models.EggProduction, error) {
	if err := checkRange(from, to); err != nil {
		return nil, err
	}
	return s.productions.FindInRange(ctx, ledger.Day(from), ledger.Day(to).AddDate(0, 0, 1))
}

// PayrollsInRange lists payroll rows with dates in [from, to].
func (s *Service) PayrollsInRange(ctx context.Context, from, to time.Time) ([]models.Payroll, error) {
	if err := checkRange(from, to); err != nil {
		return nil, err
	}
	return s.payrolls.FindInRange(ctx, ledger.Day(from), ledger.Day(to).AddDate(0, 0, 1))
}

// ProductionSummary totals production over [from, to].
func (s *Service) ProductionSummary(ctx context.Context, from, to time.Time) (*models.ProductionSummary, error) {
	productions, err := s.ProductionsInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	var summary models.ProductionSummary
	for _, p := range productions {
		summary.TotalEggs += p.TotalEggs
		summary.DamagedEggs += p.DamagedEggs
		summary.GoodEggs += p.GoodEggs
	}
	return &summary, nil
}

// Insights builds the dashboard headline: worker count, today's eggs and
// expenses, and egg totals per weekday since the start of the week (Sunday).
func (s *Service) Insights(ctx context.Context, now time.Time) (*models.Insights, error) {
	today := ledger.Day(now)
	tomorrow := today.AddDate(0, 0, 1)
	weekStart := today.AddDate(0, 0, -int(today.Weekday()))

	workers, err := s.workers.Count(ctx)
	if err != nil {
		return nil, err
	}
	eggs, err := s.productions.TotalEggsInWindow(ctx, today, tomorrow)
	if err != nil {
		return nil, err
	}
	expenses, err := s.payrolls.TotalExpenseInWindow(ctx, today, tomorrow)
	if err != nil {
		return nil, err
	}
	weekly, err := s.productions.EggsByWeekday(ctx, weekStart, tomorrow)
	if err != nil {
		return nil, err
	}

	return &models.Insights{
		TotalWorkers:        workers,
		TotalEggs:           eggs,
		TotalExpenses:       expenses,
		WeeklyEggProduction: weekly,
	}, nil
}

// Snapshot computes the end-of-day ledger position for the given day: the
// derived stock per feed type, the egg stock, and the day's money totals.
func (s *Service) Snapshot(ctx context.Context, day time.Time) (*models.DailySnapshot, error) {
	day = ledger.Day(day)
	next := day.AddDate(0, 0, 1)

	stocks := make([]models.FeedStockLevel, 0, len(models.FeedTypes))
	for _, ft := range models.FeedTypes {
		qty, err := s.stocks.FeedStockAt(ctx, ft, day)
		if err != nil {
			return nil, err
		}
		stocks = append(stocks, models.FeedStockLevel{FeedType: ft, Quantity: qty})
	}

	eggStock, err := s.stocks.EggStockAt(ctx, day)
	if err != nil {
		return nil, err
	}

	rows, err := s.payrolls.FindInRange(ctx, day, next)
	if err != nil {
		return nil, err
	}
	var revenue, expenses, netProfit float64
	for _, row := range rows {
		revenue += row.TotalRevenue
		expenses += row.TotalExpense
		netProfit += row.NetProfit
	}

	snapshot := &models.DailySnapshot{
		Date:       day,
		FeedStocks: stocks,
		EggStock:   eggStock,
		Revenue:    revenue,
		Expenses:   expenses,
		NetProfit:  netProfit,
		CreatedAt:  time.Now(),
	}
	s.logger.Debug("computed daily snapshot",
		zap.Time("date", day),
		zap.Int("eggStock", eggStock),
		zap.Float64("netProfit", netProfit))
	return snapshot, nil
}
