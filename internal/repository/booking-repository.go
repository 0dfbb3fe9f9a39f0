package repository

import (
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/namnguyen191/Natours-API/internal/domain"
)

type BookingRepository interface {
	CreateBooking(booking *domain.Booking) (*domain.Booking, error)
	FindBookingByID(bookingID uint) (*domain.Booking, error)
	ListBookings() ([]domain.Booking, error)
	ListBookingsByUser(userID uint) ([]domain.Booking, error)
	SaveBooking(booking *domain.Booking) error
	DeleteBooking(bookingID uint) error
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) CreateBooking(booking *domain.Booking) (*domain.Booking, error) {
	if booking == nil {
		return nil, errors.New("nil booking")
	}
	if err := r.db.Create(booking).Error; err != nil {
		log.Printf("create booking error: %v", err)
		return nil, err
	}
	return booking, nil
}

func (r *bookingRepository) FindBookingByID(bookingID uint) (*domain.Booking, error) {
	booking := &domain.Booking{}
	if err := r.db.Preload("Tour").First(booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		log.Printf("find booking by id error: %v", err)
		return nil, err
	}
	return booking, nil
}

func (r *bookingRepository) ListBookings() ([]domain.Booking, error) {
	var bookings []domain.Booking
	if err := r.db.Preload("Tour").Order("created_at DESC").Find(&bookings).Error; err != nil {
		log.Printf("list bookings error: %v", err)
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) ListBookingsByUser(userID uint) ([]domain.Booking, error) {
	var bookings []domain.Booking
	err := r.db.Preload("Tour").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		log.Printf("list bookings by user error: %v", err)
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) SaveBooking(booking *domain.Booking) error {
	if booking == nil {
		return errors.New("nil booking")
	}
	if err := r.db.Save(booking).Error; err != nil {
		log.Printf("save booking error: %v", err)
		return err
	}
	return nil
}

func (r *bookingRepository) DeleteBooking(bookingID uint) error {
	res := r.db.Delete(&domain.Booking{}, bookingID)
	if res.Error != nil {
		log.Printf("delete booking error: %v", res.Error)
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
