package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/poultrypms/internal/domain/models"
	"github.com/mamadbah2/poultrypms/internal/repository/mongodb"
	"github.com/mamadbah2/poultrypms/internal/service/ledger"
)

// daysPerMonth is the pro-rating divisor for monthly salaries.
var daysPerMonth = decimal.NewFromInt(30)

// Service derives revenue, salary cost and net profit for each sale row, and
// guards the sellable-egg invariant on every write.
type Service struct {
	payrolls    mongodb.PayrollRepository
	productions mongodb.ProductionRepository
	workers     mongodb.WorkerRepository
	tx          ledger.TxRunner
	logger      *zap.Logger
}

// NewService wires the payroll calculator.
func NewService(payrolls mongodb.PayrollRepository, productions mongodb.ProductionRepository, workers mongodb.WorkerRepository, tx ledger.TxRunner, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		payrolls:    payrolls,
		productions: productions,
		workers:     workers,
		tx:          tx,
		logger:      logger,
	}
}

// Input is a candidate sale row; every derived field is recomputed here.
type Input struct {
	Date         time.Time
	EggsSold     int
	PricePerEgg  float64
	TotalExpense float64
}

func (in Input) validate() error {
	if in.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ledger.ErrInvalidInput)
	}
	if in.EggsSold < 0 {
		return fmt.Errorf("%w: eggsSold must not be negative", ledger.ErrInvalidInput)
	}
	if in.PricePerEgg < 0 {
		return fmt.Errorf("%w: pricePerEgg must not be negative", ledger.ErrInvalidInput)
	}
	if in.TotalExpense < 0 {
		return fmt.Errorf("%w: totalExpense must not be negative", ledger.ErrInvalidInput)
	}
	return nil
}

// Create computes the derived fields and records the sale. The egg-stock
// check and the insert run in one transaction; a second row for the same
// calendar date is rejected by the unique index.
func (s *Service) Create(ctx context.Context, in Input) (*models.Payroll, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	row, err := s.buildRow(ctx, in)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.checkEggStock(ctx, in, primitive.NilObjectID); err != nil {
			return err
		}
		return s.payrolls.Insert(ctx, row)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payroll recorded",
		zap.Int("eggsSold", row.EggsSold),
		zap.Float64("netProfit", row.NetProfit))
	return row, nil
}

// Update recomputes and rewrites a sale row. The stock check excludes the
// row's previous eggsSold, so editing a row without changing eggsSold can
// never be rejected for stock.
func (s *Service) Update(ctx context.Context, id primitive.ObjectID, in Input) (*models.Payroll, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	if _, err := s.payrolls.FindByID(ctx, id); err != nil {
		return nil, err
	}

	row, err := s.buildRow(ctx, in)
	if err != nil {
		return nil, err
	}
	row.ID = id

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.checkEggStock(ctx, in, id); err != nil {
			return err
		}
		return s.payrolls.Replace(ctx, row)
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

// Delete removes a sale row. Removal only raises the egg balance.
func (s *Service) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.payrolls.Delete(ctx, id)
}

// List returns every row, newest first.
func (s *Service) List(ctx context.Context) ([]models.Payroll, error) {
	return s.payrolls.FindAll(ctx)
}

// Get resolves one row by id.
func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (*models.Payroll, error) {
	return s.payrolls.FindByID(ctx, id)
}

// buildRow computes revenue, pro-rated salaries and net profit with decimal
// arithmetic, then stores the rounded float values.
func (s *Service) buildRow(ctx context.Context, in Input) (*models.Payroll, error) {
	workers, err := s.workers.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	revenue := decimal.NewFromInt(int64(in.EggsSold)).Mul(decimal.NewFromFloat(in.PricePerEgg))

	salaries := decimal.Zero
	for _, w := range workers {
		salaries = salaries.Add(decimal.NewFromFloat(w.Salary).Div(daysPerMonth))
	}
	salaries = salaries.Round(2)

	expense := decimal.NewFromFloat(in.TotalExpense)
	profit := revenue.Sub(expense.Add(salaries)).Round(2)

	return &models.Payroll{
		Date:          ledger.Day(in.Date),
		EggsSold:      in.EggsSold,
		PricePerEgg:   in.PricePerEgg,
		TotalRevenue:  revenue.Round(2).InexactFloat64(),
		TotalExpense:  in.TotalExpense,
		TotalSalaries: salaries.InexactFloat64(),
		NetProfit:     profit.InexactFloat64(),
	}, nil
}

// checkEggStock verifies eggsSold fits the sellable balance as of the sale
// date. excludeID removes the row being edited from the fold before the
// candidate amount is applied.
func (s *Service) checkEggStock(ctx context.Context, in Input, excludeID primitive.ObjectID) error {
	productions, err := s.productions.FindAll(ctx)
	if err != nil {
		return err
	}
	sales, err := s.payrolls.FindAll(ctx)
	if err != nil {
		return err
	}

	retained := make([]models.Payroll, 0, len(sales)+1)
	for _, sale := range sales {
		if sale.ID != excludeID {
			retained = append(retained, sale)
		}
	}
	retained = append(retained, models.Payroll{Date: ledger.Day(in.Date), EggsSold: in.EggsSold})

	if minBalance := ledger.MinEggBalance(productions, retained); minBalance < 0 {
		return &ledger.InsufficientEggStockError{
			Requested: in.EggsSold,
			Available: in.EggsSold + minBalance,
		}
	}
	return nil
}
