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

// PayrollRepository persists the daily sale ledger rows.
type PayrollRepository interface {
	Insert(ctx context.Context, payroll *models.Payroll) error
	FindAll(ctx context.Context) ([]models.Payroll, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Payroll, error)
	Replace(ctx context.Context, payroll *models.Payroll) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindOnOrBefore(ctx context.Context, asOf time.Time) ([]models.Payroll, error)
	FindInRange(ctx context.Context, from, to time.Time) ([]models.Payroll, error)
	TotalExpenseInWindow(ctx context.Context, from, to time.Time) (float64, error)
}

type payrollRepository struct {
	coll *mongo.Collection
}

// NewPayrollRepository builds the payrolls collection adapter.
func NewPayrollRepository(m *Mongo) PayrollRepository {
	return &payrollRepository{coll: m.collection(collPayrolls)}
}

func (r *payrollRepository) Insert(ctx context.Context, payroll *models.Payroll) error {
	res, err := r.coll.InsertOne(ctx, payroll)
	if err != nil {
		return fmt.Errorf("insert payroll: %w", mapWriteErr(err))
	}
	payroll.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *payrollRepository) FindAll(ctx context.Context) ([]models.Payroll, error) {
	return r.find(ctx, bson.M{}, sortDateDesc)
}

func (r *payrollRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Payroll, error) {
	var payroll models.Payroll
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&payroll)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find payroll: %w", err)
	}
	return &payroll, nil
}

func (r *payrollRepository) Replace(ctx context.Context, payroll *models.Payroll) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": payroll.ID}, payroll)
	if err != nil {
		return fmt.Errorf("replace payroll: %w", mapWriteErr(err))
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *payrollRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete payroll: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *payrollRepository) FindOnOrBefore(ctx context.Context, asOf time.Time) ([]models.Payroll, error) {
	return r.find(ctx, onOrBeforeFilter(asOf), sortDateAsc)
}

func (r *payrollRepository) FindInRange(ctx context.Context, from, to time.Time) ([]models.Payroll, error) {
	return r.find(ctx, rangeFilter(from, to), sortDateAsc)
}

// TotalExpenseInWindow sums totalExpense over [from, to).
func (r *payrollRepository) TotalExpenseInWindow(ctx context.Context, from, to time.Time) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"date": bson.M{"$gte": from, "$lt": to}}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "totalExpense": bson.M{"$sum": "$totalExpense"}}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("aggregate expenses: %w", err)
	}

	var rows []struct {
		TotalExpense float64 `bson:"totalExpense"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, fmt.Errorf("decode expenses: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].TotalExpense, nil
}

func (r *payrollRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Payroll, error) {
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("query payrolls: %w", err)
	}
	out := []models.Payroll{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode payrolls: %w", err)
	}
	return out, nil
}
