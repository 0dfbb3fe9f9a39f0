package dto

import "time"

type TourInput struct {
	Name             string      `json:"name"`
	Duration         int         `json:"duration"`
	MaxGroupSize     int         `json:"max_group_size"`
	Difficulty       string      `json:"difficulty"`
	Price            float64     `json:"price"`
	PriceDiscount    float64     `json:"price_discount"`
	Summary          string      `json:"summary"`
	Description      string      `json:"description"`
	StartLat         float64     `json:"start_lat"`
	StartLng         float64     `json:"start_lng"`
	StartDescription string      `json:"start_description"`
	StartDates       []time.Time `json:"start_dates"`
	GuideIDs         []uint      `json:"guide_ids"`

	Locations []TourLocationInput `json:"locations"`
}

type TourLocationInput struct {
	Day         int     `json:"day"`
	Description string  `json:"description"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
}

// TourListQuery mirrors the query-string surface of the list endpoint.
type TourListQuery struct {
	Sort       string
	Limit      int
	Page       int
	Difficulty string
	MaxPrice   float64
	MinRating  float64
}

type TourStats struct {
	Difficulty string  `json:"difficulty"`
	NumTours   int     `json:"num_tours"`
	NumRatings int     `json:"num_ratings"`
	AvgRating  float64 `json:"avg_rating"`
	AvgPrice   float64 `json:"avg_price"`
	MinPrice   float64 `json:"min_price"`
	MaxPrice   float64 `json:"max_price"`
}

type MonthlyPlanEntry struct {
	Month         int      `json:"month"`
	NumTourStarts int      `json:"num_tour_starts"`
	Tours         []string `json:"tours"`
}

type TourDistance struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Distance float64 `json:"distance"`
}
