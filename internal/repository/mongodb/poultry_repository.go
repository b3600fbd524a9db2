package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mamadbah2/poultrypms/internal/domain/models"
)

// BatchRepository persists poultry batches.
type BatchRepository interface {
	Insert(ctx context.Context, batch *models.PoultryBatch) error
	FindAll(ctx context.Context) ([]models.PoultryBatch, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.PoultryBatch, error)
	Replace(ctx context.Context, batch *models.PoultryBatch) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// PoultryRecordRepository persists mortality records against batches.
type PoultryRecordRepository interface {
	Insert(ctx context.Context, record *models.PoultryRecord) error
	FindAll(ctx context.Context) ([]models.PoultryRecord, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.PoultryRecord, error)
	Replace(ctx context.Context, record *models.PoultryRecord) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	SumExpiredByBatch(ctx context.Context, batchID primitive.ObjectID) (int, error)
}

type batchRepository struct {
	coll *mongo.Collection
}

// NewBatchRepository builds the poultry_batches collection adapter.
func NewBatchRepository(m *Mongo) BatchRepository {
	return &batchRepository{coll: m.collection(collPoultryBatches)}
}

func (r *batchRepository) Insert(ctx context.Context, batch *models.PoultryBatch) error {
	res, err := r.coll.InsertOne(ctx, batch)
	if err != nil {
		return fmt.Errorf("insert poultry batch: %w", mapWriteErr(err))
	}
	batch.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *batchRepository) FindAll(ctx context.Context) ([]models.PoultryBatch, error) {
	cur, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("query poultry batches: %w", err)
	}
	out := []models.PoultryBatch{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode poultry batches: %w", err)
	}
	return out, nil
}

func (r *batchRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.PoultryBatch, error) {
	var batch models.PoultryBatch
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&batch)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find poultry batch: %w", err)
	}
	return &batch, nil
}

func (r *batchRepository) Replace(ctx context.Context, batch *models.PoultryBatch) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": batch.ID}, batch)
	if err != nil {
		return fmt.Errorf("replace poultry batch: %w", mapWriteErr(err))
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *batchRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete poultry batch: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

type poultryRecordRepository struct {
	coll *mongo.Collection
}

// NewPoultryRecordRepository builds the poultry_records collection adapter.
func NewPoultryRecordRepository(m *Mongo) PoultryRecordRepository {
	return &poultryRecordRepository{coll: m.collection(collPoultryRecords)}
}

func (r *poultryRecordRepository) Insert(ctx context.Context, record *models.PoultryRecord) error {
	res, err := r.coll.InsertOne(ctx, record)
	if err != nil {
		return fmt.Errorf("insert poultry record: %w", mapWriteErr(err))
	}
	record.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *poultryRecordRepository) FindAll(ctx context.Context) ([]models.PoultryRecord, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, sortDateDesc)
	if err != nil {
		return nil, fmt.Errorf("query poultry records: %w", err)
	}
	out := []models.PoultryRecord{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode poultry records: %w", err)
	}
	return out, nil
}

func (r *poultryRecordRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.PoultryRecord, error) {
	var record models.PoultryRecord
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find poultry record: %w", err)
	}
	return &record, nil
}

func (r *poultryRecordRepository) Replace(ctx context.Context, record *models.PoultryRecord) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": record.ID}, record)
	if err != nil {
		return fmt.Errorf("replace poultry record: %w", mapWriteErr(err))
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *poultryRecordRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete poultry record: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SumExpiredByBatch totals expiredCount over all records for one batch.
func (r *poultryRecordRepository) SumExpiredByBatch(ctx context.Context, batchID primitive.ObjectID) (int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"batchId": batchID}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "totalExpired": bson.M{"$sum": "$expiredCount"}}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("aggregate expired count: %w", err)
	}

	var rows []struct {
		TotalExpired int `bson:"totalExpired"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, fmt.Errorf("decode expired count: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].TotalExpired, nil
}
