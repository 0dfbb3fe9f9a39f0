package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/namnguyen191/Natours-API/internal/domain"
	"github.com/namnguyen191/Natours-API/internal/dto"
)

type fakeCheckout struct {
	lastParams CheckoutParams
}

func (f *fakeCheckout) CreateCheckoutSession(_ context.Context, p CheckoutParams) (*CheckoutSession, error) {
	f.lastParams = p
	return &CheckoutSession{ID: "cs_test_123", URL: "https://checkout.example/cs_test_123"}, nil
}

type fakeBookingRepo struct {
	bookings map[uint]*domain.Booking
	nextID   uint
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: map[uint]*domain.Booking{}, nextID: 1}
}

func (r *fakeBookingRepo) CreateBooking(b *domain.Booking) (*domain.Booking, error) {
	b.ID = r.nextID
	r.nextID++
	cp := *b
	r.bookings[b.ID] = &cp
	return b, nil
}

func (r *fakeBookingRepo) FindBookingByID(id uint) (*domain.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) ListBookings() ([]domain.Booking, error) { return nil, nil }

func (r *fakeBookingRepo) ListBookingsByUser(userID uint) ([]domain.Booking, error) {
	var out []domain.Booking
	for _, b := range r.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) SaveBooking(b *domain.Booking) error {
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *fakeBookingRepo) DeleteBooking(id uint) error {
	delete(r.bookings, id)
	return nil
}

func TestGetCheckoutSessionBuildsURLs(t *testing.T) {
	tours := newFakeTourRepo()
	tour, err := tours.CreateTour(&domain.Tour{
		Name:    "The Forest Hiker",
		Slug:    "the-forest-hiker",
		Price:   397,
		Summary: "A hike",
	})
	require.NoError(t, err)

	checkout := &fakeCheckout{}
	svc := NewBookingService(newFakeBookingRepo(), tours, checkout)

	buyer := &domain.User{Email: "a@b.com"}
	buyer.ID = 7

	session, err := svc.GetCheckoutSession(context.Background(), tour.ID, buyer, "http://localhost:8000")
	require.NoError(t, err)
	assert.Equal(t, "cs_test_123", session.ID)

	p := checkout.lastParams
	assert.Equal(t, int64(39700), p.AmountCents)
	assert.Equal(t, "a@b.com", p.CustomerEmail)
	assert.Equal(t, "http://localhost:8000/?tour=1&user=7&price=397", p.SuccessURL)
	assert.Equal(t, "http://localhost:8000/tour/the-forest-hiker", p.CancelURL)
}

func TestGetCheckoutSessionRoundsAmountToCents(t *testing.T) {
	cases := []struct {
		price float64
		cents int64
	}{
		{0.29, 29},
		{1.13, 113},
		{1.14, 114},
		{19.99, 1999},
		{397, 39700},
	}
	for _, tc := range cases {
		tours := newFakeTourRepo()
		tour, err := tours.CreateTour(&domain.Tour{Name: "T", Slug: "t", Price: tc.price})
		require.NoError(t, err)

		checkout := &fakeCheckout{}
		svc := NewBookingService(newFakeBookingRepo(), tours, checkout)

		_, err = svc.GetCheckoutSession(context.Background(), tour.ID, &domain.User{Email: "a@b.com"}, "http://localhost:8000")
		require.NoError(t, err)
		assert.Equal(t, tc.cents, checkout.lastParams.AmountCents, "price %v", tc.price)
	}
}

func TestGetCheckoutSessionUnknownTour(t *testing.T) {
	svc := NewBookingService(newFakeBookingRepo(), newFakeTourRepo(), &fakeCheckout{})

	_, err := svc.GetCheckoutSession(context.Background(), 99, &domain.User{}, "http://localhost:8000")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateBookingDefaultsPaid(t *testing.T) {
	svc := NewBookingService(newFakeBookingRepo(), newFakeTourRepo(), &fakeCheckout{})

	booking, err := svc.CreateBooking(dto.BookingInput{TourID: 1, UserID: 7, Price: 397})
	require.NoError(t, err)
	assert.True(t, booking.Paid)

	_, err = svc.CreateBooking(dto.BookingInput{TourID: 0, UserID: 7, Price: 397})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMyBookedTours(t *testing.T) {
	tours := newFakeTourRepo()
	_, err := tours.CreateTour(&domain.Tour{Name: "A", Slug: "a"})
	require.NoError(t, err)

	repo := newFakeBookingRepo()
	svc := NewBookingService(repo, tours, &fakeCheckout{})

	_, err = svc.CreateBooking(dto.BookingInput{TourID: 1, UserID: 7, Price: 100})
	require.NoError(t, err)

	_, err = svc.MyBookedTours(7)
	require.NoError(t, err)
}
