package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FeedType enumerates the feed categories tracked in inventory.
type FeedType string

const (
	FeedStarter   FeedType = "Starter"
	FeedGrower    FeedType = "Grower"
	FeedFinisher  FeedType = "Finisher"
	FeedLayer     FeedType = "Layer"
	FeedBroiler   FeedType = "Broiler"
	FeedMedicated FeedType = "Medicated"
)

// FeedTypes lists every valid feed type, in display order.
var FeedTypes = []FeedType{FeedStarter, FeedGrower, FeedFinisher, FeedLayer, FeedBroiler, FeedMedicated}

// Valid reports whether the feed type is one of the known categories.
func (ft FeedType) Valid() bool {
	for _, known := range FeedTypes {
		if ft == known {
			return true
		}
	}
	return false
}

// FeedPurchase records feed entering inventory.
type FeedPurchase struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Date     time.Time          `bson:"date" json:"date"`
	FeedType FeedType           `bson:"feedType" json:"feedType"`
	Quantity float64            `bson:"quantity" json:"quantity"` // kilograms
	Cost     float64            `bson:"cost" json:"cost"`
	Supplier string             `bson:"supplier,omitempty" json:"supplier,omitempty"`
	Notes    string             `bson:"notes,omitempty" json:"notes,omitempty"`
}

// FeedConsumption records feed leaving inventory.
type FeedConsumption struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Date         time.Time          `bson:"date" json:"date"`
	FeedType     FeedType           `bson:"feedType" json:"feedType"`
	QuantityUsed float64            `bson:"quantityUsed" json:"quantityUsed"`
	ConsumedBy   string             `bson:"consumedBy" json:"consumedBy"`
	Notes        string             `bson:"notes,omitempty" json:"notes,omitempty"`
}
