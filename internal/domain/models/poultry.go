package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BatchType distinguishes meat birds from egg layers.
type BatchType string

const (
	BatchBroiler BatchType = "Broiler"
	BatchLayer   BatchType = "Layer"
)

// Valid reports whether the batch type is Broiler or Layer.
func (bt BatchType) Valid() bool {
	return bt == BatchBroiler || bt == BatchLayer
}

// PoultryBatch is a flock of birds started on a given date.
type PoultryBatch struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BatchName string             `bson:"batchName" json:"batchName"`
	Type      BatchType          `bson:"type" json:"type"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	StartDate time.Time          `bson:"startDate" json:"startDate"`
	Notes     string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PoultryBatchView is a batch with its derived live headcount.
type PoultryBatchView struct {
	PoultryBatch    `bson:",inline"`
	CurrentQuantity int `json:"currentQuantity"`
}

// PoultryRecord logs bird losses against a batch.
type PoultryRecord struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BatchID      primitive.ObjectID `bson:"batchId" json:"batchId"`
	Date         time.Time          `bson:"date" json:"date"`
	ExpiredCount int                `bson:"expiredCount" json:"expiredCount"`
	Notes        string             `bson:"notes,omitempty" json:"notes,omitempty"`
}

// PoultryRecordView is a record joined with its batch name for list views.
type PoultryRecordView struct {
	PoultryRecord `bson:",inline"`
	BatchName     string `json:"batchName"`
}
