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

// ProductionRepository persists egg production batches.
type ProductionRepository interface {
	Insert(ctx context.Context, production *models.EggProduction) error
	FindAll(ctx context.Context) ([]models.EggProduction, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.EggProduction, error)
	Replace(ctx context.Context, production *models.EggProduction) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindOnOrBefore(ctx context.Context, asOf time.Time) ([]models.EggProduction, error)
	FindInRange(ctx context.Context, from, to time.Time) ([]models.EggProduction, error)
	TotalEggsInWindow(ctx context.Context, from, to time.Time) (int, error)
	EggsByWeekday(ctx context.Context, from, to time.Time) ([]models.WeekdayEggCount, error)
}

type productionRepository struct {
	coll *mongo.Collection
}

// NewProductionRepository builds the egg_productions collection adapter.
func NewProductionRepository(m *Mongo) ProductionRepository {
	return &productionRepository{coll: m.collection(collEggProductions)}
}

func (r *productionRepository) Insert(ctx context.Context, production *models.EggProduction) error {
	res, err := r.coll.InsertOne(ctx, production)
	if err != nil {
		return fmt.Errorf("insert egg production: %w", mapWriteErr(err))
	}
	production.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *productionRepository) FindAll(ctx context.Context) ([]models.EggProduction, error) {
	return r.find(ctx, bson.M{}, sortDateDesc)
}

func (r *productionRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.EggProduction, error) {
	var production models.EggProduction
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&production)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find egg production: %w", err)
	}
	return &production, nil
}

func (r *productionRepository) Replace(ctx context.Context, production *models.EggProduction) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": production.ID}, production)
	if err != nil {
		return fmt.Errorf("replace egg production: %w", mapWriteErr(err))
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productionRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete egg production: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productionRepository) FindOnOrBefore(ctx context.Context, asOf time.Time) ([]models.EggProduction, error) {
	return r.find(ctx, onOrBeforeFilter(asOf), sortDateAsc)
}

func (r *productionRepository) FindInRange(ctx context.Context, from, to time.Time) ([]models.EggProduction, error) {
	return r.find(ctx, rangeFilter(from, to), sortDateAsc)
}

// TotalEggsInWindow sums totalEggs over [from, to) with a group pipeline.
func (r *productionRepository) TotalEggsInWindow(ctx context.Context, from, to time.Time) (int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"date": bson.M{"$gte": from, "$lt": to}}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "totalEggs": bson.M{"$sum": "$totalEggs"}}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("aggregate egg totals: %w", err)
	}

	var rows []struct {
		TotalEggs int `bson:"totalEggs"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, fmt.Errorf("decode egg totals: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].TotalEggs, nil
}

// EggsByWeekday groups totalEggs by day of week over [from, to). $dayOfWeek
// is 1-based starting at Sunday.
func (r *productionRepository) EggsByWeekday(ctx context.Context, from, to time.Time) ([]models.WeekdayEggCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"date": bson.M{"$gte": from, "$lt": to}}}},
		{{Key: "$group", Value: bson.M{
			"_id":       bson.M{"$dayOfWeek": "$date"},
			"totalEggs": bson.M{"$sum": "$totalEggs"},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate weekly eggs: %w", err)
	}

	var rows []struct {
		Weekday   int `bson:"_id"`
		TotalEggs int `bson:"totalEggs"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode weekly eggs: %w", err)
	}

	dayNames := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	out := make([]models.WeekdayEggCount, 0, len(rows))
	for _, row := range rows {
		if row.Weekday < 1 || row.Weekday > 7 {
			continue
		}
		out = append(out, models.WeekdayEggCount{Day: dayNames[row.Weekday-1], TotalEggs: row.TotalEggs})
	}
	return out, nil
}

func (r *productionRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.EggProduction, error) {
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("query egg productions: %w", err)
	}
	out := []models.EggProduction{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode egg productions: %w", err)
	}
	return out, nil
}
