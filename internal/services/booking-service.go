package services

import (
	"context"
	"fmt"
	"math"

	"github.com/namnguyen191/Natours-API/internal/domain"
	"github.com/namnguyen191/Natours-API/internal/dto"
	"github.com/namnguyen191/Natours-API/internal/repository"
)

// CheckoutCreator is the payment-processor boundary. The checkout protocol
// itself belongs to the processor; this core only asks for a session.
type CheckoutCreator interface {
	CreateCheckoutSession(ctx context.Context, p CheckoutParams) (*CheckoutSession, error)
}

type CheckoutParams struct {
	TourID        uint
	TourName      string
	TourSummary   string
	ImageURL      string
	AmountCents   int64
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
}

type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type BookingService interface {
	GetCheckoutSession(ctx context.Context, tourID uint, user *domain.User, baseURL string) (*CheckoutSession, error)
	CreateBooking(input dto.BookingInput) (*domain.Booking, error)
	GetBooking(bookingID uint) (*domain.Booking, error)
	ListBookings() ([]domain.Booking, error)
	MyBookedTours(userID uint) ([]domain.Tour, error)
	UpdateBooking(bookingID uint, input dto.BookingInput) (*domain.Booking, error)
	DeleteBooking(bookingID uint) error
}

type bookingService struct {
	repo     repository.BookingRepository
	tours    repository.TourRepository
	checkout CheckoutCreator
}

func NewBookingService(
	repo repository.BookingRepository,
	tours repository.TourRepository,
	checkout CheckoutCreator,
) BookingService {
	return &bookingService{
		repo:     repo,
		tours:    tours,
		checkout: checkout,
	}
}

func (s *bookingService) GetCheckoutSession(ctx context.Context, tourID uint, user *domain.User, baseURL string) (*CheckoutSession, error) {
	tour, err := s.tours.FindTourByID(tourID)
	if err != nil {
		return nil, err
	}

	return s.checkout.CreateCheckoutSession(ctx, CheckoutParams{
		TourID:        tour.ID,
		TourName:      tour.Name + " Tour",
		TourSummary:   tour.Summary,
		ImageURL:      tour.ImageCover,
		// Round, don't truncate: 1.13 * 100 is 112.99999... in float64.
		AmountCents:   int64(math.Round(tour.Price * 100)),
		CustomerEmail: user.Email,
		// Temporary contract carried over from before webhook support:
		// the success URL carries everything needed to create the booking.
		SuccessURL: fmt.Sprintf("%s/?tour=%d&user=%d&price=%g", baseURL, tour.ID, user.ID, tour.Price),
		CancelURL:  fmt.Sprintf("%s/tour/%s", baseURL, tour.Slug),
	})
}

func (s *bookingService) CreateBooking(input dto.BookingInput) (*domain.Booking, error) {
	if input.TourID == 0 || input.UserID == 0 || input.Price <= 0 {
		return nil, fmt.Errorf("%w: tour, user and price are required", domain.ErrInvalidInput)
	}

	booking := &domain.Booking{
		TourID: input.TourID,
		UserID: input.UserID,
		Price:  input.Price,
		Paid:   true,
	}
	if input.Paid != nil {
		booking.Paid = *input.Paid
	}
	return s.repo.CreateBooking(booking)
}

func (s *bookingService) GetBooking(bookingID uint) (*domain.Booking, error) {
	return s.repo.FindBookingByID(bookingID)
}

func (s *bookingService) ListBookings() ([]domain.Booking, error) {
	return s.repo.ListBookings()
}

func (s *bookingService) MyBookedTours(userID uint) ([]domain.Tour, error) {
	bookings, err := s.repo.ListBookingsByUser(userID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(bookings))
	for _, b := range bookings {
		ids = append(ids, b.TourID)
	}
	return s.tours.ListToursByIDs(ids)
}

func (s *bookingService) UpdateBooking(bookingID uint, input dto.BookingInput) (*domain.Booking, error) {
	booking, err := s.repo.FindBookingByID(bookingID)
	if err != nil {
		return nil, err
	}

	if input.Price > 0 {
		booking.Price = input.Price
	}
	if input.Paid != nil {
		booking.Paid = *input.Paid
	}

	if err := s.repo.SaveBooking(booking); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *bookingService) DeleteBooking(bookingID uint) error {
	return s.repo.DeleteBooking(bookingID)
}
