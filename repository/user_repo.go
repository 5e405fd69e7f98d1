package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"tweeteroo/config/db"
	"tweeteroo/model"
)

// MongoUserRepo implements UserRepository on the users collection.
type MongoUserRepo struct {
	coll *mongo.Collection
}

func NewMongoUserRepo(database *mongo.Database) *MongoUserRepo {
	return &MongoUserRepo{coll: database.Collection(db.UsersCollection)}
}

func (r *MongoUserRepo) Create(ctx context.Context, u model.User) (model.User, error) {
	res, err := r.coll.InsertOne(ctx, u)
	if err != nil {
		return model.User{}, fmt.Errorf("insert user: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = id
	}
	return u, nil
}

func (r *MongoUserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	var u model.User
	err := r.coll.FindOne(ctx, bson.D{{Key: "username", Value: username}}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user %q: %w", username, err)
	}
	return u, nil
}
