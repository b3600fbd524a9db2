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

// WorkerRepository persists the worker roster.
type WorkerRepository interface {
	Insert(ctx context.Context, worker *models.Worker) error
	FindAll(ctx context.Context) ([]models.Worker, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Worker, error)
	Replace(ctx context.Context, worker *models.Worker) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int, error)
}

type workerRepository struct {
	coll *mongo.Collection
}

// NewWorkerRepository builds the workers collection adapter.
func NewWorkerRepository(m *Mongo) WorkerRepository {
	return &workerRepository{coll: m.collection(collWorkers)}
}

func (r *workerRepository) Insert(ctx context.Context, worker *models.Worker) error {
	res, err := r.coll.InsertOne(ctx, worker)
	if err != nil {
		return fmt.Errorf("insert worker: %w", mapWriteErr(err))
	}
	worker.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *workerRepository) FindAll(ctx context.Context) ([]models.Worker, error) {
	cur, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("query workers: %w", err)
	}
	out := []models.Worker{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode workers: %w", err)
	}
	return out, nil
}

func (r *workerRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Worker, error) {
	var worker models.Worker
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&worker)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find worker: %w", err)
	}
	return &worker, nil
}

func (r *workerRepository) Replace(ctx context.Context, worker *models.Worker) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": worker.ID}, worker)
	if err != nil {
		return fmt.Errorf("replace worker: %w", mapWriteErr(err))
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a worker. Historical attendance records keep referencing the
// deleted id; the dangling reference is accepted.
func (r *workerRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete worker: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *workerRepository) Count(ctx context.Context) (int, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count workers: %w", err)
	}
	return int(n), nil
}
