package ledger

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/poultrypms/internal/domain/models"
	"github.com/mamadbah2/poultrypms/internal/repository/mongodb"
)

// TxRunner runs a function inside a store transaction. The Mongo client
// implements it; tests substitute a pass-through.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service is the authoritative home of the stock invariants: every feed and
// egg movement goes through it, and any movement that would drive a running
// balance below zero is rejected before anything is written.
type Service struct {
	feeds        mongodb.FeedRepository
	consumptions mongodb.ConsumptionRepository
	productions  mongodb.ProductionRepository
	payrolls     mongodb.PayrollRepository
	tx           TxRunner
	logger       *zap.Logger
}

// NewService wires the ledger engine.
func NewService(feeds mongodb.FeedRepository, consumptions mongodb.ConsumptionRepository, productions mongodb.ProductionRepository, payrolls mongodb.PayrollRepository, tx TxRunner, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		feeds:        feeds,
		consumptions: consumptions,
		productions:  productions,
		payrolls:     payrolls,
		tx:           tx,
		logger:       logger,
	}
}

// PurchaseInput carries a validated-at-the-edge feed purchase request.
type PurchaseInput struct {
	Date     time.Time
	FeedType models.FeedType
	Quantity float64
	Cost     float64
	Supplier string
	Notes    string
}

func (in PurchaseInput) validate() error {
	if in.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if !in.FeedType.Valid() {
		return fmt.Errorf("%w: unknown feed type %q", ErrInvalidInput, in.FeedType)
	}
	if in.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}
	if in.Cost <= 0 {
		return fmt.Errorf("%w: cost must be positive", ErrInvalidInput)
	}
	return nil
}

// ConsumptionInput carries a feed consumption request.
type ConsumptionInput struct {
	Date         time.Time
	FeedType     models.FeedType
	QuantityUsed float64
	ConsumedBy   string
	Notes        string
}

func (in ConsumptionInput) validate() error {
	if in.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if !in.FeedType.Valid() {
		return fmt.Errorf("%w: unknown feed type %q", ErrInvalidInput, in.FeedType)
	}
	if in.QuantityUsed <= 0 {
		return fmt.Errorf("%w: quantityUsed must be positive", ErrInvalidInput)
	}
	return nil
}

// ProductionInput carries an egg production request.
type ProductionInput struct {
	Date        time.Time
	TotalEggs   int
	DamagedEggs int
}

func (in ProductionInput) validate() error {
	if in.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if in.TotalEggs < 0 {
		return fmt.Errorf("%w: totalEggs must not be negative", ErrInvalidInput)
	}
	if in.DamagedEggs < 0 || in.DamagedEggs > in.TotalEggs {
		return fmt.Errorf("%w: damagedEggs must be between 0 and totalEggs", ErrInvalidInput)
	}
	return nil
}

// FeedStockAt derives the on-hand quantity for one feed type as of a day.
func (s *Service) FeedStockAt(ctx context.Context, feedType models.FeedType, asOf time.Time) (float64, error) {
	if !feedType.Valid() {
		return 0, fmt.Errorf("%w: unknown feed type %q", ErrInvalidInput, feedType)
	}

	purchases, err := s.feeds.FindByTypeOnOrBefore(ctx, feedType, asOf)
	if err != nil {
		return 0, err
	}
	consumptions, err := s.consumptions.FindByTypeOnOrBefore(ctx, feedType, asOf)
	if err != nil {
		return 0, err
	}
	return FeedStock(purchases, consumptions, feedType, asOf), nil
}

// EggStockAt derives the sellable egg count as of a day.
func (s *Service) EggStockAt(ctx context.Context, asOf time.Time) (int, error) {
	productions, err := s.productions.FindOnOrBefore(ctx, asOf)
	if err != nil {
		return 0, err
	}
	sales, err := s.payrolls.FindOnOrBefore(ctx, asOf)
	if err != nil {
		return 0, err
	}
	return EggStock(productions, sales, asOf), nil
}

// CreatePurchase records feed entering inventory.
func (s *Service) CreatePurchase(ctx context.Context, in PurchaseInput) (*models.FeedPurchase, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	purchase := &models.FeedPurchase{
		Date:     Day(in.Date),
		FeedType: in.FeedType,
		Quantity: in.Quantity,
		Cost:     in.Cost,
		Supplier: in.Supplier,
		Notes:    in.Notes,
	}
	if err := s.feeds.Insert(ctx, purchase); err != nil {
		return nil, err
	}

	s.logger.Info("feed purchase recorded",
		zap.String("feedType", string(purchase.FeedType)),
		zap.Float64("quantity", purchase.Quantity))
	return purchase, nil
}

// ListPurchases returns every purchase, newest first.
func (s *Service) ListPurchases(ctx context.Context) ([]models.FeedPurchase, error) {
	return s.feeds.FindAll(ctx)
}

// GetPurchase resolves one purchase by id.
func (s *Service) GetPurchase(ctx context.Context, id primitive.ObjectID) (*models.FeedPurchase, error) {
	return s.feeds.FindByID(ctx, id)
}

// UpdatePurchase rewrites a purchase. Shrinking or redating a purchase is
// rejected when consumption already recorded against the type would leave the
// running balance negative on some day.
func (s *Service) UpdatePurchase(ctx context.Context, id primitive.ObjectID, in PurchaseInput) (*models.FeedPurchase, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	existing, err := s.feeds.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := &models.FeedPurchase{
		ID:       existing.ID,
		Date:     Day(in.Date),
		FeedType: in.FeedType,
		Quantity: in.Quantity,
		Cost:     in.Cost,
		Supplier: in.Supplier,
		Notes:    in.Notes,
	}

	var out *models.FeedPurchase
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		affected := []models.FeedType{existing.FeedType}
		if updated.FeedType != existing.FeedType {
			affected = append(affected, updated.FeedType)
		}
		for _, ft := range affected {
			// Supply this update withdraws from the type: old contribution
			// minus new contribution.
			var withdrawn float64
			if existing.FeedType == ft {
				withdrawn += existing.Quantity
			}
			if updated.FeedType == ft {
				withdrawn -= updated.Quantity
			}
			if err := s.checkFeedBalance(ctx, ft, withdrawn, func(p models.FeedPurchase) (models.FeedPurchase, bool) {
				if p.ID == existing.ID {
					return *updated, updated.FeedType == ft
				}
				return p, p.FeedType == ft
			}, nil); err != nil {
				return err
			}
		}
		if err := s.feeds.Replace(ctx, updated); err != nil {
			return err
		}
		out = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeletePurchase removes a purchase unless consumption depends on it.
func (s *Service) DeletePurchase(ctx context.Context, id primitive.ObjectID) error {
	existing, err := s.feeds.FindByID(ctx, id)
	if err != nil {
		return err
	}

	return s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		err := s.checkFeedBalance(ctx, existing.FeedType, existing.Quantity, func(p models.FeedPurchase) (models.FeedPurchase, bool) {
			return p, p.ID != existing.ID
		}, nil)
		if err != nil {
			return err
		}
		return s.feeds.Delete(ctx, id)
	})
}

// CreateConsumption records feed leaving inventory. The stock check and the
// insert run in one transaction so two concurrent consumptions cannot both
// pass validation against the same stale balance.
func (s *Service) CreateConsumption(ctx context.Context, in ConsumptionInput) (*models.FeedConsumption, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	consumption := &models.FeedConsumption{
		Date:         Day(in.Date),
		FeedType:     in.FeedType,
		QuantityUsed: in.QuantityUsed,
		ConsumedBy:   in.ConsumedBy,
		Notes:        in.Notes,
	}
	if consumption.ConsumedBy == "" {
		consumption.ConsumedBy = "Auto-logged"
	}

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.checkFeedBalance(ctx, in.FeedType, in.QuantityUsed, nil, func(existing []models.FeedConsumption) []models.FeedConsumption {
			return append(existing, *consumption)
		}); err != nil {
			return err
		}
		return s.consumptions.Insert(ctx, consumption)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("feed consumption recorded",
		zap.String("feedType", string(consumption.FeedType)),
		zap.Float64("quantityUsed", consumption.QuantityUsed))
	return consumption, nil
}

// ListConsumptions returns every consumption, newest first.
func (s *Service) ListConsumptions(ctx context.Context) ([]models.FeedConsumption, error) {
	return s.consumptions.FindAll(ctx)
}

// GetConsumption resolves one consumption by id.
func (s *Service) GetConsumption(ctx context.Context, id primitive.ObjectID) (*models.FeedConsumption, error) {
	return s.consumptions.FindByID(ctx, id)
}

// UpdateConsumption rewrites a consumption, re-validating the balance with
// the previous quantity excluded so a no-op edit can never be rejected.
func (s *Service) UpdateConsumption(ctx context.Context, id primitive.ObjectID, in ConsumptionInput) (*models.FeedConsumption, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	existing, err := s.consumptions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := &models.FeedConsumption{
		ID:           existing.ID,
		Date:         Day(in.Date),
		FeedType:     in.FeedType,
		QuantityUsed: in.QuantityUsed,
		ConsumedBy:   in.ConsumedBy,
		Notes:        in.Notes,
	}
	if updated.ConsumedBy == "" {
		updated.ConsumedBy = existing.ConsumedBy
	}

	var out *models.FeedConsumption
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		affected := []models.FeedType{existing.FeedType}
		if updated.FeedType != existing.FeedType {
			affected = append(affected, updated.FeedType)
		}
		for _, ft := range affected {
			var requested float64
			if updated.FeedType == ft {
				requested = updated.QuantityUsed
			}
			if err := s.checkFeedBalance(ctx, ft, requested, nil, func(current []models.FeedConsumption) []models.FeedConsumption {
				replaced := make([]models.FeedConsumption, 0, len(current)+1)
				for _, c := range current {
					if c.ID != existing.ID {
						replaced = append(replaced, c)
					}
				}
				if updated.FeedType == ft {
					replaced = append(replaced, *updated)
				}
				return replaced
			}); err != nil {
				return err
			}
		}
		if err := s.consumptions.Replace(ctx, updated); err != nil {
			return err
		}
		out = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteConsumption removes a consumption. Removal only ever raises the
// balance, so no stock check is needed.
func (s *Service) DeleteConsumption(ctx context.Context, id primitive.ObjectID) error {
	return s.consumptions.Delete(ctx, id)
}

// CreateProduction records one day's egg production batch. GoodEggs is
// derived, never taken from the caller.
func (s *Service) CreateProduction(ctx context.Context, in ProductionInput) (*models.EggProduction, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	production := &models.EggProduction{
		Date:        Day(in.Date),
		TotalEggs:   in.TotalEggs,
		DamagedEggs: in.DamagedEggs,
		GoodEggs:    in.TotalEggs - in.DamagedEggs,
	}
	if err := s.productions.Insert(ctx, production); err != nil {
		return nil, err
	}

	s.logger.Info("egg production recorded",
		zap.Int("totalEggs", production.TotalEggs),
		zap.Int("goodEggs", production.GoodEggs))
	return production, nil
}

// ListProductions returns every production batch, newest first.
func (s *Service) ListProductions(ctx context.Context) ([]models.EggProduction, error) {
	return s.productions.FindAll(ctx)
}

// GetProduction resolves one production batch by id.
func (s *Service) GetProduction(ctx context.Context, id primitive.ObjectID) (*models.EggProduction, error) {
	return s.productions.FindByID(ctx, id)
}

// UpdateProduction rewrites a batch. Lowering goodEggs below what has already
// been sold is rejected.
func (s *Service) UpdateProduction(ctx context.Context, id primitive.ObjectID, in ProductionInput) (*models.EggProduction, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	existing, err := s.productions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := &models.EggProduction{
		ID:          existing.ID,
		Date:        Day(in.Date),
		TotalEggs:   in.TotalEggs,
		DamagedEggs: in.DamagedEggs,
		GoodEggs:    in.TotalEggs - in.DamagedEggs,
	}

	var out *models.EggProduction
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		removed := existing.GoodEggs - updated.GoodEggs
		if err := s.checkEggBalance(ctx, removed, func(p models.EggProduction) (models.EggProduction, bool) {
			if p.ID == existing.ID {
				return *updated, true
			}
			return p, true
		}); err != nil {
			return err
		}
		if err := s.productions.Replace(ctx, updated); err != nil {
			return err
		}
		out = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteProduction removes a batch unless recorded sales depend on it.
func (s *Service) DeleteProduction(ctx context.Context, id primitive.ObjectID) error {
	existing, err := s.productions.FindByID(ctx, id)
	if err != nil {
		return err
	}

	return s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		err := s.checkEggBalance(ctx, existing.GoodEggs, func(p models.EggProduction) (models.EggProduction, bool) {
			return p, p.ID != id
		})
		if err != nil {
			return err
		}
		return s.productions.Delete(ctx, id)
	})
}

// checkFeedBalance replays the full ledger for one feed type with the caller's
// mutations applied and rejects the mutation if any day's balance goes
// negative. mapPurchase rewrites or drops purchases; mutateConsumptions
// rewrites the consumption set. requested is the quantity the failed mutation
// asked for: the outflow on consumption paths, the supply withdrawn on
// purchase paths.
func (s *Service) checkFeedBalance(ctx context.Context, feedType models.FeedType, requested float64, mapPurchase func(models.FeedPurchase) (models.FeedPurchase, bool), mutateConsumptions func([]models.FeedConsumption) []models.FeedConsumption) error {
	purchases, err := s.feeds.FindByType(ctx, feedType)
	if err != nil {
		return err
	}
	consumptions, err := s.consumptions.FindByType(ctx, feedType)
	if err != nil {
		return err
	}

	if mapPurchase != nil {
		mapped := make([]models.FeedPurchase, 0, len(purchases))
		for _, p := range purchases {
			if next, keep := mapPurchase(p); keep {
				mapped = append(mapped, next)
			}
		}
		purchases = mapped
	}
	if mutateConsumptions != nil {
		consumptions = mutateConsumptions(consumptions)
	}

	if minBalance := MinFeedBalance(purchases, consumptions, feedType); minBalance < 0 {
		return &InsufficientStockError{
			FeedType:  feedType,
			Requested: requested,
			Available: requested + minBalance,
		}
	}
	return nil
}

// checkEggBalance replays the egg ledger with mapProduction applied to every
// production batch. requested is the number of good eggs the mutation removes
// from the pool.
func (s *Service) checkEggBalance(ctx context.Context, requested int, mapProduction func(models.EggProduction) (models.EggProduction, bool)) error {
	productions, err := s.productions.FindAll(ctx)
	if err != nil {
		return err
	}
	sales, err := s.payrolls.FindAll(ctx)
	if err != nil {
		return err
	}

	if mapProduction != nil {
		mapped := make([]models.EggProduction, 0, len(productions))
		for _, p := range productions {
			if next, keep := mapProduction(p); keep {
				mapped = append(mapped, next)
			}
		}
		productions = mapped
	}

	if minBalance := MinEggBalance(productions, sales); minBalance < 0 {
		return &InsufficientEggStockError{
			Requested: requested,
			Available: requested + minBalance,
		}
	}
	return nil
}
