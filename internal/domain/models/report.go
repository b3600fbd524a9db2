package models

import "time"

// ReportKind selects which ledger collection a range report reads.
type ReportKind string

const (
	ReportFeedPurchase    ReportKind = "feed-purchase"
	ReportFeedConsumption ReportKind = "feed-consumption"
	ReportProduction      ReportKind = "production"
	ReportPayroll         ReportKind = "payroll"
)

// Valid reports whether the kind names a known report.
func (k ReportKind) Valid() bool {
	switch k {
	case ReportFeedPurchase, ReportFeedConsumption, ReportProduction, ReportPayroll:
		return true
	}
	return false
}

// WeekdayEggCount is one bar of the weekly production chart.
type WeekdayEggCount struct {
	Day       string `json:"day"`
	TotalEggs int    `json:"totalEggs"`
}

// Insights is the dashboard aggregation: headline counts for today plus the
// running week of egg production.
type Insights struct {
	TotalWorkers        int               `json:"totalWorkers"`
	TotalEggs           int               `json:"totalEggs"`
	TotalExpenses       float64           `json:"totalExpenses"`
	WeeklyEggProduction []WeekdayEggCount `json:"weeklyEggProduction"`
}

// FeedStockLevel is the derived on-hand quantity for one feed type.
type FeedStockLevel struct {
	FeedType FeedType `json:"feedType"`
	Quantity float64  `json:"quantity"`
}

// DailySnapshot is the end-of-day ledger position exported by the scheduler.
type DailySnapshot struct {
	Date       time.Time        `bson:"date" json:"date"`
	FeedStocks []FeedStockLevel `bson:"feedStocks" json:"feedStocks"`
	EggStock   int              `bson:"eggStock" json:"eggStock"`
	Revenue    float64          `bson:"revenue" json:"revenue"`
	Expenses   float64          `bson:"expenses" json:"expenses"`
	NetProfit  float64          `bson:"netProfit" json:"netProfit"`
	CreatedAt  time.Time        `bson:"created_at" json:"created_at"`
}
