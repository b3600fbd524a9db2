package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VaccinationStatus tracks whether a scheduled vaccine has been administered.
type VaccinationStatus string

const (
	VaccinationPending   VaccinationStatus = "Pending"
	VaccinationCompleted VaccinationStatus = "Completed"
)

// Valid reports whether the status is Pending or Completed.
func (s VaccinationStatus) Valid() bool {
	return s == VaccinationPending || s == VaccinationCompleted
}

// Vaccination is one scheduled vaccine dose for a batch. Day is the age in
// days at which the dose is due, counted from the batch start date.
type Vaccination struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BatchID     primitive.ObjectID `bson:"batch" json:"batchId"`
	VaccineName string             `bson:"vaccineName" json:"vaccineName"`
	Day         int                `bson:"day" json:"day"`
	DateGiven   *time.Time         `bson:"dateGiven,omitempty" json:"dateGiven,omitempty"`
	Status      VaccinationStatus  `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// DueDate returns the calendar date the dose is due for the given batch start.
func (v Vaccination) DueDate(batchStart time.Time) time.Time {
	return batchStart.AddDate(0, 0, v.Day)
}
