package domain

import (
	"time"

	"gorm.io/gorm"
)

type Review struct {
	ID     uint    `gorm:"primaryKey" json:"id"`
	Review string  `gorm:"not null" json:"review"`
	Rating float64 `gorm:"not null" json:"rating"`
	TourID uint    `gorm:"not null;uniqueIndex:uidx_reviews_tour_user" json:"tour_id"`
	UserID uint    `gorm:"not null;uniqueIndex:uidx_reviews_tour_user" json:"user_id"`
	User   *User   `json:"user,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
