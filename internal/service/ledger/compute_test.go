package ledger_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mamadbah2/poultrypms/internal/domain/models"
	"github.com/mamadbah2/poultrypms/internal/service/ledger"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDay_TruncatesToMidnight(t *testing.T) {
	ts := time.Date(2026, time.March, 5, 17, 42, 9, 12345, time.UTC)
	assert.Equal(t, day(2026, time.March, 5), ledger.Day(ts))
}

func TestFeedStock_FoldsPurchasesAndConsumption(t *testing.T) {
	purchases := []models.FeedPurchase{
		{Date: day(2026, time.March, 1), FeedType: models.FeedStarter, Quantity: 100},
		{Date: day(2026, time.March, 4), FeedType: models.FeedStarter, Quantity: 50},
		{Date: day(2026, time.March, 2), FeedType: models.FeedLayer, Quantity: 500},
	}
	consumptions := []models.FeedConsumption{
		{Date: day(2026, time.March, 2), FeedType: models.FeedStarter, QuantityUsed: 40},
	}

	assert.Equal(t, 60.0, ledger.FeedStock(purchases, consumptions, models.FeedStarter, day(2026, time.March, 3)))
	assert.Equal(t, 110.0, ledger.FeedStock(purchases, consumptions, models.FeedStarter, day(2026, time.March, 4)))
	assert.Equal(t, 500.0, ledger.FeedStock(purchases, consumptions, models.FeedLayer, day(2026, time.March, 4)))
}

func TestFeedStock_EmptyLedgerIsZero(t *testing.T) {
	assert.Zero(t, ledger.FeedStock(nil, nil, models.FeedGrower, day(2026, time.March, 1)))
}

func TestMinFeedBalance_DetectsMidLedgerDip(t *testing.T) {
	purchases := []models.FeedPurchase{
		{Date: day(2026, time.March, 1), FeedType: models.FeedStarter, Quantity: 100},
		{Date: day(2026, time.March, 10), FeedType: models.FeedStarter, Quantity: 500},
	}
	consumptions := []models.FeedConsumption{
		{Date: day(2026, time.March, 2), FeedType: models.FeedStarter, QuantityUsed: 40},
		{Date: day(2026, time.March, 3), FeedType: models.FeedStarter, QuantityUsed: 70},
	}

	// Stock dips to -10 on March 3 even though the ledger ends positive.
	assert.Equal(t, -10.0, ledger.MinFeedBalance(purchases, consumptions, models.FeedStarter))
}

func TestMinFeedBalance_SameDayPurchaseCountsFirst(t *testing.T) {
	purchases := []models.FeedPurchase{
		{Date: day(2026, time.March, 1), FeedType: models.FeedStarter, Quantity: 30},
	}
	consumptions := []models.FeedConsumption{
		{Date: day(2026, time.March, 1), FeedType: models.FeedStarter, QuantityUsed: 30},
	}

	assert.Equal(t, 0.0, ledger.MinFeedBalance(purchases, consumptions, models.FeedStarter))
}

func TestEggStock_UsesGoodEggsOnly(t *testing.T) {
	productions := []models.EggProduction{
		{Date: day(2026, time.March, 1), TotalEggs: 120, DamagedEggs: 20, GoodEggs: 100},
		{Date: day(2026, time.March, 5), TotalEggs: 80, DamagedEggs: 0, GoodEggs: 80},
	}
	sales := []models.Payroll{
		{Date: day(2026, time.March, 2), EggsSold: 60},
	}

	assert.Equal(t, 40, ledger.EggStock(productions, sales, day(2026, time.March, 3)))
	assert.Equal(t, 120, ledger.EggStock(productions, sales, day(2026, time.March, 5)))
}

func TestMinEggBalance_BackdatedSaleRejected(t *testing.T) {
	productions := []models.EggProduction{
		{Date: day(2026, time.March, 3), GoodEggs: 200},
	}
	sales := []models.Payroll{
		{Date: day(2026, time.March, 1), EggsSold: 50},
	}

	// The sale predates all production, so the balance dips to -50.
	assert.Equal(t, -50, ledger.MinEggBalance(productions, sales))
}
