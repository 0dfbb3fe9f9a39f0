package domain

import (
	"time"

	"gorm.io/gorm"
)

type Booking struct {
	ID     uint    `gorm:"primaryKey" json:"id"`
	TourID uint    `gorm:"index;not null" json:"tour_id"`
	UserID uint    `gorm:"index;not null" json:"user_id"`
	Price  float64 `gorm:"not null" json:"price"`
	Paid   bool    `gorm:"not null;default:true" json:"paid"`
	Tour   *Tour   `json:"tour,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
