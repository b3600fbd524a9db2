package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payroll is the daily sale-and-profit ledger row. One document per calendar
// date, enforced by a unique index on date.
type Payroll struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Date          time.Time          `bson:"date" json:"date"`
	EggsSold      int                `bson:"eggsSold" json:"eggsSold"`
	PricePerEgg   float64            `bson:"pricePerEgg" json:"pricePerEgg"`
	TotalRevenue  float64            `bson:"totalRevenue" json:"totalRevenue"`
	TotalExpense  float64            `bson:"totalExpense" json:"totalExpense"`
	TotalSalaries float64            `bson:"totalSalaries" json:"totalSalaries"`
	NetProfit     float64            `bson:"netProfit" json:"netProfit"`
}
