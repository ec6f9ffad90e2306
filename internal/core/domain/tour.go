package domain

import "time"

// Tour is a bookable tour product. Geospatial data and derived statistics are
// handled outside this service.
type Tour struct {
	ID           string  `json:"id" bson:"_id,omitempty"`
	Name         string  `json:"name" bson:"name"`
	Duration     int     `json:"duration" bson:"duration"`
	MaxGroupSize int     `json:"max_group_size" bson:"max_group_size"`
	Difficulty   string  `json:"difficulty" bson:"difficulty"`
	Price        float64 `json:"price" bson:"price"`
	Summary      string  `json:"summary" bson:"summary"`
	Description  string  `json:"description,omitempty" bson:"description,omitempty"`

	RatingsAverage float64 `json:"ratings_average" bson:"ratings_average"`
	RatingsCount   int64   `json:"ratings_count" bson:"ratings_count"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
