package dto

type ReviewInput struct {
	Review string  `json:"review"`
	Rating float64 `json:"rating"`
	TourID uint    `json:"tour_id"`
}

type BookingInput struct {
	TourID uint    `json:"tour_id"`
	UserID uint    `json:"user_id"`
	Price  float64 `json:"price"`
	Paid   *bool   `json:"paid,omitempty"`
}
