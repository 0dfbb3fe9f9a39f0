package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/namnguyen191/Natours-API/internal/domain"
	"github.com/namnguyen191/Natours-API/internal/dto"
	"github.com/namnguyen191/Natours-API/internal/repository"
)

// Geo queries run in kilometers internally; mi inputs are converted at the
// service boundary.
const kmToMi = 0.621371

type TourService interface {
	CreateTour(input dto.TourInput) (*domain.Tour, error)
	GetTour(tourID uint) (*domain.Tour, error)
	GetTourBySlug(slug string) (*domain.Tour, error)
	ListTours(q dto.TourListQuery) ([]domain.Tour, error)
	UpdateTour(tourID uint, input dto.TourInput) (*domain.Tour, error)
	DeleteTour(tourID uint) error
	SetTourImages(tourID uint, coverURL string, imageURLs []string) (*domain.Tour, error)

	TourStats() ([]dto.TourStats, error)
	MonthlyPlan(year int) ([]dto.MonthlyPlanEntry, error)
	ToursWithin(distance float64, lat, lng float64, unit string) ([]domain.Tour, error)
	Distances(lat, lng float64, unit string) ([]dto.TourDistance, error)
}

type tourService struct {
	repo repository.TourRepository
}

func NewTourService(repo repository.TourRepository) TourService {
	return &tourService{repo: repo}
}

func (s *tourService) CreateTour(input dto.TourInput) (*domain.Tour, error) {
	tour, err := tourFromInput(input)
	if err != nil {
		return nil, err
	}
	return s.repo.CreateTour(tour)
}

func (s *tourService) GetTour(tourID uint) (*domain.Tour, error) {
	return s.repo.FindTourByID(tourID)
}

func (s *tourService) GetTourBySlug(slug string) (*domain.Tour, error) {
	return s.repo.FindTourBySlug(slug)
}

func (s *tourService) ListTours(q dto.TourListQuery) ([]domain.Tour, error) {
	return s.repo.ListTours(q)
}

func (s *tourService) UpdateTour(tourID uint, input dto.TourInput) (*domain.Tour, error) {
	tour, err := s.repo.FindTourByID(tourID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" && input.Name != tour.Name {
		tour.Name = strings.TrimSpace(input.Name)
		tour.Slug = Slugify(tour.Name)
	}
	if input.Duration > 0 {
		tour.Duration = input.Duration
	}
	if input.MaxGroupSize > 0 {
		tour.MaxGroupSize = input.MaxGroupSize
	}
	if input.Difficulty != "" {
		if !domain.ValidDifficulty(input.Difficulty) {
			return nil, fmt.Errorf("%w: difficulty must be easy, medium or difficult", domain.ErrInvalidInput)
		}
		tour.Difficulty = input.Difficulty
	}
	if input.Price > 0 {
		tour.Price = input.Price
	}
	if input.PriceDiscount > 0 {
		if input.PriceDiscount >= tour.Price {
			return nil, fmt.Errorf("%w: discount price must be below the regular price", domain.ErrInvalidInput)
		}
		tour.PriceDiscount = input.PriceDiscount
	}
	if input.Summary != "" {
		tour.Summary = input.Summary
	}
	if input.Description != "" {
		tour.Description = input.Description
	}

	if err := s.repo.SaveTour(tour); err != nil {
		return nil, err
	}
	return tour, nil
}

func (s *tourService) DeleteTour(tourID uint) error {
	return s.repo.DeleteTour(tourID)
}

func (s *tourService) SetTourImages(tourID uint, coverURL string, imageURLs []string) (*domain.Tour, error) {
	tour, err := s.repo.FindTourByID(tourID)
	if err != nil {
		return nil, err
	}

	if coverURL != "" {
		tour.ImageCover = coverURL
	}
	for _, u := range imageURLs {
		tour.Images = append(tour.Images, domain.TourImage{TourID: tour.ID, URL: u})
	}

	if err := s.repo.SaveTour(tour); err != nil {
		return nil, err
	}
	return tour, nil
}

func (s *tourService) TourStats() ([]dto.TourStats, error) {
	return s.repo.TourStats()
}

func (s *tourService) MonthlyPlan(year int) ([]dto.MonthlyPlanEntry, error) {
	if year < 2000 || year > 2100 {
		return nil, fmt.Errorf("%w: invalid year", domain.ErrInvalidInput)
	}
	return s.repo.MonthlyPlan(year)
}

func (s *tourService) ToursWithin(distance float64, lat, lng float64, unit string) ([]domain.Tour, error) {
	if distance <= 0 {
		return nil, fmt.Errorf("%w: distance must be positive", domain.ErrInvalidInput)
	}
	radiusKm := distance
	if unit == "mi" {
		radiusKm = distance / kmToMi
	}
	return s.repo.ToursWithin(lat, lng, radiusKm)
}

func (s *tourService) Distances(lat, lng float64, unit string) ([]dto.TourDistance, error) {
	multiplier := 1.0
	if unit == "mi" {
		multiplier = kmToMi
	}
	return s.repo.Distances(lat, lng, multiplier)
}

func tourFromInput(input dto.TourInput) (*domain.Tour, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || input.Duration <= 0 || input.MaxGroupSize <= 0 || input.Price <= 0 || strings.TrimSpace(input.Summary) == "" {
		return nil, fmt.Errorf("%w: name, duration, max group size, price and summary are required", domain.ErrInvalidInput)
	}
	if !domain.ValidDifficulty(input.Difficulty) {
		return nil, fmt.Errorf("%w: difficulty must be easy, medium or difficult", domain.ErrInvalidInput)
	}
	if input.PriceDiscount > 0 && input.PriceDiscount >= input.Price {
		return nil, fmt.Errorf("%w: discount price must be below the regular price", domain.ErrInvalidInput)
	}

	tour := &domain.Tour{
		Name:             name,
		Slug:             Slugify(name),
		Duration:         input.Duration,
		MaxGroupSize:     input.MaxGroupSize,
		Difficulty:       input.Difficulty,
		Price:            input.Price,
		PriceDiscount:    input.PriceDiscount,
		Summary:          strings.TrimSpace(input.Summary),
		Description:      input.Description,
		StartLat:         input.StartLat,
		StartLng:         input.StartLng,
		StartDescription: input.StartDescription,
	}
	for _, d := range input.StartDates {
		tour.StartDates = append(tour.StartDates, domain.TourStartDate{StartsAt: d})
	}
	for _, loc := range input.Locations {
		tour.Locations = append(tour.Locations, domain.TourLocation{
			Day:         loc.Day,
			Description: loc.Description,
			Lat:         loc.Lat,
			Lng:         loc.Lng,
		})
	}
	for _, id := range input.GuideIDs {
		tour.Guides = append(tour.Guides, domain.User{ID: id})
	}
	return tour, nil
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugStrip.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
