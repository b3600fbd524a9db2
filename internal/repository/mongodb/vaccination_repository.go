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

// VaccinationRepository persists scheduled vaccine doses.
type VaccinationRepository interface {
	Insert(ctx context.Context, vaccination *models.Vaccination) error
	InsertMany(ctx context.Context, vaccinations []models.Vaccination) ([]models.Vaccination, error)
	FindByBatch(ctx context.Context, batchID primitive.ObjectID) ([]models.Vaccination, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Vaccination, error)
	Replace(ctx context.Context, vaccination *models.Vaccination) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindPending(ctx context.Context) ([]models.Vaccination, error)
}

type vaccinationRepository struct {
	coll *mongo.Collection
}

// NewVaccinationRepository builds the vaccinations collection adapter.
func NewVaccinationRepository(m *Mongo) VaccinationRepository {
	return &vaccinationRepository{coll: m.collection(collVaccinations)}
}

func (r *vaccinationRepository) Insert(ctx context.Context, vaccination *models.Vaccination) error {
	res, err := r.coll.InsertOne(ctx, vaccination)
	if err != nil {
		return fmt.Errorf("insert vaccination: %w", mapWriteErr(err))
	}
	vaccination.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *vaccinationRepository) InsertMany(ctx context.Context, vaccinations []models.Vaccination) ([]models.Vaccination, error) {
	if len(vaccinations) == 0 {
		return vaccinations, nil
	}

	docs := make([]interface{}, len(vaccinations))
	for i := range vaccinations {
		docs[i] = vaccinations[i]
	}

	res, err := r.coll.InsertMany(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("insert vaccinations: %w", mapWriteErr(err))
	}
	for i, id := range res.InsertedIDs {
		vaccinations[i].ID = id.(primitive.ObjectID)
	}
	return vaccinations, nil
}

func (r *vaccinationRepository) FindByBatch(ctx context.Context, batchID primitive.ObjectID) ([]models.Vaccination, error) {
	cur, err := r.coll.Find(ctx, bson.M{"batch": batchID})
	if err != nil {
		return nil, fmt.Errorf("query vaccinations: %w", err)
	}
	out := []models.Vaccination{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode vaccinations: %w", err)
	}
	return out, nil
}

func (r *vaccinationRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Vaccination, error) {
	var vaccination models.Vaccination
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&vaccination)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find vaccination: %w", err)
	}
	return &vaccination, nil
}

func (r *vaccinationRepository) Replace(ctx context.Context, vaccination *models.Vaccination) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": vaccination.ID}, vaccination)
	if err != nil {
		return fmt.Errorf("replace vaccination: %w", mapWriteErr(err))
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *vaccinationRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete vaccination: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *vaccinationRepository) FindPending(ctx context.Context) ([]models.Vaccination, error) {
	cur, err := r.coll.Find(ctx, bson.M{"status": models.VaccinationPending})
	if err != nil {
		return nil, fmt.Errorf("query pending vaccinations: %w", err)
	}
	out := []models.Vaccination{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode pending vaccinations: %w", err)
	}
	return out, nil
}
