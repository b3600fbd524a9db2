package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Admin is a panel operator account. PasswordHash is a bcrypt hash and is
// never serialized to JSON.
type Admin struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
}
