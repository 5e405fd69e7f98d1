package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// User is a registered author. Usernames are not unique.
type User struct {
	ID       primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Username string             `json:"username" bson:"username"`
	Avatar   string             `json:"avatar" bson:"avatar"`
}
