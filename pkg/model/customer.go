package model

import "time"

// Customer is upserted on every booking creation; its lifecycle is
// independent from any booking.
type Customer struct {
	Email     string    `json:"email" bson:"_id" validate:"required,email"`
	Name      string    `json:"name,omitempty" bson:"name,omitempty"`
	Phone     string    `json:"phone,omitempty" bson:"phone,omitempty"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
