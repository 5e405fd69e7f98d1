package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tweeteroo/config/db"
	"tweeteroo/model"
)

// MongoTweetRepo implements TweetRepository on the tweets collection.
type MongoTweetRepo struct {
	coll *mongo.Collection
}

func NewMongoTweetRepo(database *mongo.Database) *MongoTweetRepo {
	return &MongoTweetRepo{coll: database.Collection(db.TweetsCollection)}
}

func (r *MongoTweetRepo) Create(ctx context.Context, t model.Tweet) (model.Tweet, error) {
	res, err := r.coll.InsertOne(ctx, t)
	if err != nil {
		return model.Tweet{}, fmt.Errorf("insert tweet: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		t.ID = id
	}
	return t, nil
}

// List sorts on _id: ObjectIDs lead with their creation second and end in a
// per-process counter, so descending _id is newest first.
func (r *MongoTweetRepo) List(ctx context.Context) ([]model.Tweet, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find tweets: %w", err)
	}
	list := []model.Tweet{}
	if err := cur.All(ctx, &list); err != nil {
		return nil, fmt.Errorf("decode tweets: %w", err)
	}
	return list, nil
}

func (r *MongoTweetRepo) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{{Key: "_id", Value: id}}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count tweet %s: %w", id.Hex(), err)
	}
	return n > 0, nil
}

func (r *MongoTweetRepo) UpdateText(ctx context.Context, id primitive.ObjectID, text string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "tweet", Value: text}}}},
	)
	if err != nil {
		return fmt.Errorf("update tweet %s: %w", id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoTweetRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("delete tweet %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
