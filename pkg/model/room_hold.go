package model

import "time"

// RoomHold is an advisory lock document guarding the check-then-insert
// window for one physical room. Insert with a deterministic _id; a duplicate
// key error means another request currently holds the room. A TTL index on
// expires_at reaps holds leaked by crashed requests.
type RoomHold struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
