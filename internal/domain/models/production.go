package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EggProduction is the per-day production batch. At most one document exists
// per calendar date. GoodEggs is always derived as TotalEggs - DamagedEggs.
type EggProduction struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Date        time.Time          `bson:"date" json:"date"`
	TotalEggs   int                `bson:"totalEggs" json:"totalEggs"`
	DamagedEggs int                `bson:"damagedEggs" json:"damagedEggs"`
	GoodEggs    int                `bson:"goodEggs" json:"goodEggs"`
}

// ProductionSummary aggregates production totals across all recorded days.
type ProductionSummary struct {
	TotalEggs   int `json:"totalEggs"`
	DamagedEggs int `json:"damagedEggs"`
	GoodEggs    int `json:"goodEggs"`
}
