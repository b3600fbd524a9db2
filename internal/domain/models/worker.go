package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Shift enumerates the working shifts on the farm.
type Shift string

const (
	ShiftMorning Shift = "Morning"
	ShiftEvening Shift = "Evening"
	ShiftNight   Shift = "Night"
)

// Valid reports whether the shift is one of the three known shifts.
func (s Shift) Valid() bool {
	return s == ShiftMorning || s == ShiftEvening || s == ShiftNight
}

// Worker is a farm employee. Salary is the monthly salary; the payroll
// calculator pro-rates it to a daily cost assuming a 30-day month.
type Worker struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name    string             `bson:"name" json:"name"`
	Role    string             `bson:"role" json:"role"`
	Salary  float64            `bson:"salary" json:"salary"`
	Contact string             `bson:"contact" json:"contact"`
	Shift   Shift              `bson:"shift" json:"shift"`
}
