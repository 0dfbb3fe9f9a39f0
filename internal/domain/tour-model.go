package domain

import (
	"time"

	"gorm.io/gorm"
)

type Tour struct {
	ID              uint    `gorm:"primaryKey" json:"id"`
	Name            string  `gorm:"uniqueIndex;not null" json:"name"`
	Slug            string  `gorm:"uniqueIndex;not null" json:"slug"`
	Duration        int     `gorm:"not null" json:"duration"`
	MaxGroupSize    int     `gorm:"not null" json:"max_group_size"`
	Difficulty      string  `gorm:"type:varchar(20);not null" json:"difficulty"`
	Price           float64 `gorm:"not null" json:"price"`
	PriceDiscount   float64 `json:"price_discount,omitempty"`
	Summary         string  `gorm:"not null" json:"summary"`
	Description     string  `json:"description,omitempty"`
	ImageCover      string  `json:"image_cover"`
	RatingsAverage  float64 `gorm:"not null;default:4.5" json:"ratings_average"`
	RatingsQuantity int     `gorm:"not null;default:0" json:"ratings_quantity"`

	// Start location, duplicated flat for the geo queries.
	StartLat         float64 `json:"start_lat"`
	StartLng         float64 `json:"start_lng"`
	StartDescription string  `json:"start_description,omitempty"`

	Images     []TourImage     `gorm:"constraint:OnDelete:CASCADE" json:"images,omitempty"`
	StartDates []TourStartDate `gorm:"constraint:OnDelete:CASCADE" json:"start_dates,omitempty"`
	Locations  []TourLocation  `gorm:"constraint:OnDelete:CASCADE" json:"locations,omitempty"`
	Guides     []User          `gorm:"many2many:tour_guides" json:"guides,omitempty"`
	Reviews    []Review        `gorm:"constraint:OnDelete:CASCADE" json:"reviews,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

type TourImage struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	TourID uint   `gorm:"index;not null" json:"-"`
	URL    string `gorm:"not null" json:"url"`
}

type TourStartDate struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	TourID   uint      `gorm:"index;not null" json:"-"`
	StartsAt time.Time `gorm:"not null" json:"starts_at"`
}

type TourLocation struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	TourID      uint    `gorm:"index;not null" json:"-"`
	Day         int     `json:"day"`
	Description string  `json:"description"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
}

func ValidDifficulty(d string) bool {
	switch d {
	case "easy", "medium", "difficult":
		return true
	}
	return false
}
