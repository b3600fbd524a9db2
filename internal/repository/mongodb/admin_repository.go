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

// AdminRepository persists panel operator accounts.
type AdminRepository interface {
	Insert(ctx context.Context, admin *models.Admin) error
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Admin, error)
	UpdatePasswordHash(ctx context.Context, id primitive.ObjectID, hash string) error
}

type adminRepository struct {
	coll *mongo.Collection
}

// NewAdminRepository builds the admins collection adapter.
func NewAdminRepository(m *Mongo) AdminRepository {
	return &adminRepository{coll: m.collection(collAdmins)}
}

func (r *adminRepository) Insert(ctx context.Context, admin *models.Admin) error {
	res, err := r.coll.InsertOne(ctx, admin)
	if err != nil {
		return fmt.Errorf("insert admin: %w", mapWriteErr(err))
	}
	admin.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *adminRepository) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&admin)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find admin by email: %w", err)
	}
	return &admin, nil
}

func (r *adminRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Admin, error) {
	var admin models.Admin
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&admin)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find admin: %w", err)
	}
	return &admin, nil
}

func (r *adminRepository) UpdatePasswordHash(ctx context.Context, id primitive.ObjectID, hash string) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"passwordHash": hash}})
	if err != nil {
		return fmt.Errorf("update admin password: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
