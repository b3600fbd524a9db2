package ledger

import (
	"sort"
	"time"

	"github.com/mamadbah2/poultrypms/internal/domain/models"
)

// Day truncates t to midnight in its own location. All ledger comparisons are
// by calendar day, never by instant.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// FeedStock folds purchase and consumption events into the on-hand quantity
// for one feed type as of the given day. Zero events yields zero, not an
// error.
func FeedStock(purchases []models.FeedPurchase, consumptions []models.FeedConsumption, feedType models.FeedType, asOf time.Time) float64 {
	day := Day(asOf)

	var stock float64
	for _, p := range purchases {
		if p.FeedType == feedType && !Day(p.Date).After(day) {
			stock += p.Quantity
		}
	}
	for _, c := range consumptions {
		if c.FeedType == feedType && !Day(c.Date).After(day) {
			stock -= c.QuantityUsed
		}
	}
	return stock
}

// EggStock folds production and sale events into the sellable egg count as of
// the given day.
func EggStock(productions []models.EggProduction, sales []models.Payroll, asOf time.Time) int {
	day := Day(asOf)

	var stock int
	for _, p := range productions {
		if !Day(p.Date).After(day) {
			stock += p.GoodEggs
		}
	}
	for _, s := range sales {
		if !Day(s.Date).After(day) {
			stock -= s.EggsSold
		}
	}
	return stock
}

// event is one signed ledger movement. Inflows sort before outflows on the
// same day, because purchases dated on the consumption day are counted as
// available.
type event struct {
	day     time.Time
	outflow bool
	delta   float64
}

func minRunningBalance(events []event) float64 {
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].day.Equal(events[j].day) {
			return events[i].day.Before(events[j].day)
		}
		return !events[i].outflow && events[j].outflow
	})

	var balance, minBalance float64
	for _, ev := range events {
		balance += ev.delta
		if balance < minBalance {
			minBalance = balance
		}
	}
	return minBalance
}

// MinFeedBalance replays the full feed ledger for one type in chronological
// order and returns the lowest running balance. A negative result means some
// day's stock would dip below zero.
func MinFeedBalance(purchases []models.FeedPurchase, consumptions []models.FeedConsumption, feedType models.FeedType) float64 {
	events := make([]event, 0, len(purchases)+len(consumptions))
	for _, p := range purchases {
		if p.FeedType == feedType {
			events = append(events, event{day: Day(p.Date), delta: p.Quantity})
		}
	}
	for _, c := range consumptions {
		if c.FeedType == feedType {
			events = append(events, event{day: Day(c.Date), outflow: true, delta: -c.QuantityUsed})
		}
	}
	return minRunningBalance(events)
}

// MinEggBalance is the egg-side counterpart of MinFeedBalance.
func MinEggBalance(productions []models.EggProduction, sales []models.Payroll) int {
	events := make([]event, 0, len(productions)+len(sales))
	for _, p := range productions {
		events = append(events, event{day: Day(p.Date), delta: float64(p.GoodEggs)})
	}
	for _, s := range sales {
		events = append(events, event{day: Day(s.Date), outflow: true, delta: -float64(s.EggsSold)})
	}
	return int(minRunningBalance(events))
}
