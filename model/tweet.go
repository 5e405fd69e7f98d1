package model

import "go.mongodb.org/mongo-driver/bson/primitive"

type Tweet struct {
	ID       primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Username string             `json:"username" bson:"username"`
	Tweet    string             `json:"tweet" bson:"tweet"`
}

// FeedItem is a tweet enriched with its author's avatar.
type FeedItem struct {
	ID       primitive.ObjectID `json:"id"`
	Username string             `json:"username"`
	Avatar   string             `json:"avatar"`
	Tweet    string             `json:"tweet"`
}
