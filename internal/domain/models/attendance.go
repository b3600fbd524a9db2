package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AttendanceStatus is the per-worker mark on a sheet: present, absent or late.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "P"
	StatusAbsent  AttendanceStatus = "A"
	StatusLate    AttendanceStatus = "L"
)

// Valid reports whether the status is one of P, A or L.
func (s AttendanceStatus) Valid() bool {
	return s == StatusPresent || s == StatusAbsent || s == StatusLate
}

// AttendanceRecord is one worker's mark inside a sheet. Records carry their
// own ids so they can be updated or deleted individually.
type AttendanceRecord struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	WorkerID primitive.ObjectID `bson:"worker" json:"worker"`
	Status   AttendanceStatus   `bson:"status" json:"status"`
}

// AttendanceSheet groups all worker marks for one (date, shift) pair. At most
// one sheet exists per pair; the sheet itself is never deleted, only its
// records are mutated.
type AttendanceSheet struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Date    time.Time          `bson:"date" json:"date"`
	Shift   Shift              `bson:"shift" json:"shift"`
	Records []AttendanceRecord `bson:"records" json:"records"`
}

// AttendanceRecordView is a record joined with its parent sheet id and the
// worker's details, as returned by the date+shift search.
type AttendanceRecordView struct {
	AttendanceID primitive.ObjectID `json:"attendanceId"`
	RecordID     primitive.ObjectID `json:"recordId"`
	WorkerID     primitive.ObjectID `json:"workerId"`
	WorkerName   string             `json:"workerName"`
	WorkerRole   string             `json:"workerRole"`
	Status       AttendanceStatus   `json:"status"`
}
