package domain

import "time"

// Review is a user's rating of a tour. One review per user per tour, enforced
// by a unique index on (tour_id, user_id).
type Review struct {
	ID      string `json:"id" bson:"_id,omitempty"`
	TourID  string `json:"tour_id" bson:"tour_id"`
	UserID  string `json:"user_id" bson:"user_id"`
	Rating  int    `json:"rating" bson:"rating"`
	Comment string `json:"comment,omitempty" bson:"comment,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
