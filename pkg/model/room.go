package model

import "time"

// Room type tags carried by both rooms and bookings. Each tag maps to one
// nightly rate; a tag may be backed by several physical room units.
const (
	RoomTypeDormitory     = "dormitory"
	RoomTypePrivateDouble = "private_double"
	RoomTypePrivateFamily = "private_family"
)

type Room struct {
	ID          string    `json:"room_id" bson:"_id" validate:"required"`
	Type        string    `json:"type" bson:"type" validate:"required,min=2,max=50"`
	Capacity    int       `json:"capacity" bson:"capacity" validate:"required,min=1,max=20"`
	NightlyRate float64   `json:"nightly_rate" bson:"nightly_rate" validate:"gte=0"`
	Amenities   []string  `json:"amenities,omitempty" bson:"amenities,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty" bson:"created_at"`
}

// AvailableRoom is the availability-query projection of a Room.
type AvailableRoom struct {
	RoomID      string   `json:"room_id"`
	Type        string   `json:"type"`
	Capacity    int      `json:"capacity"`
	NightlyRate float64  `json:"nightly_rate"`
	Amenities   []string `json:"amenities,omitempty"`
}
