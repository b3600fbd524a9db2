package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/poultrypms/internal/domain/models"
)

// FeedRepository persists feed purchase events.
type FeedRepository interface {
	Insert(ctx context.Context, purchase *models.FeedPurchase) error
	FindAll(ctx context.Context) ([]models.FeedPurchase, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.FeedPurchase, error)
	Replace(ctx context.Context, purchase *models.FeedPurchase) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindByType(ctx context.Context, feedType models.FeedType) ([]models.FeedPurchase, error)
	FindByTypeOnOrBefore(ctx context.Context, feedType models.FeedType, asOf time.Time) ([]models.FeedPurchase, error)
	FindInRange(ctx context.Context, from, to time.Time) ([]models.FeedPurchase, error)
}

// ConsumptionRepository persists feed consumption events.
type ConsumptionRepository interface {
	Insert(ctx context.Context, consumption *models.FeedConsumption) error
	FindAll(ctx context.Context) ([]models.FeedConsumption, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.FeedConsumption, error)
	Replace(ctx context.Context, consumption *models.FeedConsumption) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindByType(ctx context.Context, feedType models.FeedType) ([]models.FeedConsumption, error)
	FindByTypeOnOrBefore(ctx context.Context, feedType models.FeedType, asOf time.Time) ([]models.FeedConsumption, error)
	FindInRange(ctx context.Context, from, to time.Time) ([]models.FeedConsumption, error)
}

type feedRepository struct {
	coll *mongo.Collection
}

// NewFeedRepository builds the feeds collection adapter.
func NewFeedRepository(m *Mongo) FeedRepository {
	return &feedRepository{coll: m.collection(collFeeds)}
}

func (r *feedRepository) Insert(ctx context.Context, purchase *models.FeedPurchase) error {
	res, err := r.coll.InsertOne(ctx, purchase)
	if err != nil {
		return fmt.Errorf("insert feed purchase: %w", mapWriteErr(err))
	}
	purchase.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *feedRepository) FindAll(ctx context.Context) ([]models.FeedPurchase, error) {
	return r.find(ctx, bson.M{}, sortDateDesc)
}

func (r *feedRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.FeedPurchase, error) {
	var purchase models.FeedPurchase
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&purchase)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find feed purchase: %w", err)
	}
	return &purchase, nil
}

func (r *feedRepository) Replace(ctx context.Context, purchase *models.FeedPurchase) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": purchase.ID}, purchase)
	if err != nil {
		return fmt.Errorf("replace feed purchase: %w", mapWriteErr(err))
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *feedRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete feed purchase: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *feedRepository) FindByType(ctx context.Context, feedType models.FeedType) ([]models.FeedPurchase, error) {
	return r.find(ctx, bson.M{"feedType": feedType}, sortDateAsc)
}

func (r *feedRepository) FindByTypeOnOrBefore(ctx context.Context, feedType models.FeedType, asOf time.Time) ([]models.FeedPurchase, error) {
	filter := onOrBeforeFilter(asOf)
	filter["feedType"] = feedType
	return r.find(ctx, filter, sortDateAsc)
}

func (r *feedRepository) FindInRange(ctx context.Context, from, to time.Time) ([]models.FeedPurchase, error) {
	return r.find(ctx, rangeFilter(from, to), sortDateAsc)
}

func (r *feedRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.FeedPurchase, error) {
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("query feed purchases: %w", err)
	}
	out := []models.FeedPurchase{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode feed purchases: %w", err)
	}
	return out, nil
}

type consumptionRepository struct {
	coll *mongo.Collection
}

// NewConsumptionRepository builds the feed_consumptions collection adapter.
func NewConsumptionRepository(m *Mongo) ConsumptionRepository {
	return &consumptionRepository{coll: m.collection(collFeedConsumptions)}
}

func (r *consumptionRepository) Insert(ctx context.Context, consumption *models.FeedConsumption) error {
	res, err := r.coll.InsertOne(ctx, consumption)
	if err != nil {
		return fmt.Errorf("insert feed consumption: %w", mapWriteErr(err))
	}
	consumption.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *consumptionRepository) FindAll(ctx context.Context) ([]models.FeedConsumption, error) {
	return r.find(ctx, bson.M{}, sortDateDesc)
}

func (r *consumptionRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.FeedConsumption, error) {
	var consumption models.FeedConsumption
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&consumption)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find feed consumption: %w", err)
	}
	return &consumption, nil
}

func (r *consumptionRepository) Replace(ctx context.Context, consumption *models.FeedConsumption) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": consumption.ID}, consumption)
	if err != nil {
		return fmt.Errorf("replace feed consumption: %w", mapWriteErr(err))
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *consumptionRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete feed consumption: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *consumptionRepository) FindByType(ctx context.Context, feedType models.FeedType) ([]models.FeedConsumption, error) {
	return r.find(ctx, bson.M{"feedType": feedType}, sortDateAsc)
}

func (r *consumptionRepository) FindByTypeOnOrBefore(ctx context.Context, feedType models.FeedType, asOf time.Time) ([]models.FeedConsumption, error) {
	filter := onOrBeforeFilter(asOf)
	filter["feedType"] = feedType
	return r.find(ctx, filter, sortDateAsc)
}

func (r *consumptionRepository) FindInRange(ctx context.Context, from, to time.Time) ([]models.FeedConsumption, error) {
	return r.find(ctx, rangeFilter(from, to), sortDateAsc)
}

func (r *consumptionRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.FeedConsumption, error) {
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("query feed consumptions: %w", err)
	}
	out := []models.FeedConsumption{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode feed consumptions: %w", err)
	}
	return out, nil
}
