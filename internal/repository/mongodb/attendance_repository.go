package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mamadbah2/poultrypms/internal/domain/models"
)

// AttendanceRepository persists attendance sheets. Whole-sheet deletion is
// deliberately not part of the interface; only record-level mutation is.
type AttendanceRepository interface {
	Insert(ctx context.Context, sheet *models.AttendanceSheet) error
	FindAll(ctx context.Context) ([]models.AttendanceSheet, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.AttendanceSheet, error)
	FindByDateShift(ctx context.Context, date time.Time, shift models.Shift) (*models.AttendanceSheet, error)
	SetRecordStatus(ctx context.Context, sheetID, recordID primitive.ObjectID, status models.AttendanceStatus) error
	PullRecord(ctx context.Context, sheetID, recordID primitive.ObjectID) error
}

type attendanceRepository struct {
	coll *mongo.Collection
}

// NewAttendanceRepository builds the attendances collection adapter.
func NewAttendanceRepository(m *Mongo) AttendanceRepository {
	return &attendanceRepository{coll: m.collection(collAttendances)}
}

func (r *attendanceRepository) Insert(ctx context.Context, sheet *models.AttendanceSheet) error {
	res, err := r.coll.InsertOne(ctx, sheet)
	if err != nil {
		return fmt.Errorf("insert attendance sheet: %w", mapWriteErr(err))
	}
	sheet.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *attendanceRepository) FindAll(ctx context.Context) ([]models.AttendanceSheet, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, sortDateDesc)
	if err != nil {
		return nil, fmt.Errorf("query attendance sheets: %w", err)
	}
	out := []models.AttendanceSheet{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode attendance sheets: %w", err)
	}
	return out, nil
}

func (r *attendanceRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.AttendanceSheet, error) {
	var sheet models.AttendanceSheet
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&sheet)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find attendance sheet: %w", err)
	}
	return &sheet, nil
}

func (r *attendanceRepository) FindByDateShift(ctx context.Context, date time.Time, shift models.Shift) (*models.AttendanceSheet, error) {
	start, end := dayWindow(date)
	filter := bson.M{
		"date":  bson.M{"$gte": start, "$lt": end},
		"shift": shift,
	}

	var sheet models.AttendanceSheet
	err := r.coll.FindOne(ctx, filter).Decode(&sheet)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find attendance sheet by date+shift: %w", err)
	}
	return &sheet, nil
}

// SetRecordStatus updates one embedded record via the positional operator.
func (r *attendanceRepository) SetRecordStatus(ctx context.Context, sheetID, recordID primitive.ObjectID, status models.AttendanceStatus) error {
	filter := bson.M{"_id": sheetID, "records._id": recordID}
	update := bson.M{"$set": bson.M{"records.$.status": status}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("update attendance record: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// PullRecord removes one embedded record from the sheet's records array.
func (r *attendanceRepository) PullRecord(ctx context.Context, sheetID, recordID primitive.ObjectID) error {
	filter := bson.M{"_id": sheetID, "records._id": recordID}
	update := bson.M{"$pull": bson.M{"records": bson.M{"_id": recordID}}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("delete attendance record: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
