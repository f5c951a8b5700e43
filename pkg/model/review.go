package model

import "time"

// Review is a guest feedback text scanned by the sentiment step.
type Review struct {
	ID            string    `json:"review_id" bson:"_id"`
	BookingID     string    `json:"booking_id,omitempty" bson:"booking_id,omitempty"`
	CustomerEmail string    `json:"customer_email,omitempty" bson:"customer_email,omitempty"`
	Text          string    `json:"text" bson:"text"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
}
