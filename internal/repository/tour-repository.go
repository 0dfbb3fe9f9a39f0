package repository

import (
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/namnguyen191/Natours-API/internal/domain"
	"github.com/namnguyen191/Natours-API/internal/dto"
)

type TourRepository interface {
	CreateTour(tour *domain.Tour) (*domain.Tour, error)
	FindTourByID(tourID uint) (*domain.Tour, error)
	FindTourBySlug(slug string) (*domain.Tour, error)
	ListTours(q dto.TourListQuery) ([]domain.Tour, error)
	ListToursByIDs(ids []uint) ([]domain.Tour, error)
	SaveTour(tour *domain.Tour) error
	DeleteTour(tourID uint) error

	TourStats() ([]dto.TourStats, error)
	MonthlyPlan(year int) ([]dto.MonthlyPlanEntry, error)
	ToursWithin(lat, lng, radiusKm float64) ([]domain.Tour, error)
	Distances(lat, lng, multiplier float64) ([]dto.TourDistance, error)
}

type tourRepository struct {
	db *gorm.DB
}

func NewTourRepository(db *gorm.DB) TourRepository {
	return &tourRepository{db: db}
}

// haversine distance in km between a tour's start point and (lat, lng).
const haversineKm = `6378.1 * acos(
	cos(radians(?)) * cos(radians(start_lat)) * cos(radians(start_lng) - radians(?))
	+ sin(radians(?)) * sin(radians(start_lat)))`

var tourSortColumns = map[string]string{
	"price":            "price ASC",
	"-price":           "price DESC",
	"ratings_average":  "ratings_average ASC",
	"-ratings_average": "ratings_average DESC",
	"duration":         "duration ASC",
	"-duration":        "duration DESC",
	"created_at":       "created_at ASC",
	"-created_at":      "created_at DESC",

	// top-5-cheap alias: best rated first, cheapest breaking ties.
	"-ratings_average,price": "ratings_average DESC, price ASC",
}

func (r *tourRepository) CreateTour(tour *domain.Tour) (*domain.Tour, error) {
	if tour == nil {
		return nil, errors.New("nil tour")
	}
	if err := r.db.Create(tour).Error; err != nil {
		log.Printf("create tour error: %v", err)
		return nil, err
	}
	return tour, nil
}

func (r *tourRepository) FindTourByID(tourID uint) (*domain.Tour, error) {
	tour := &domain.Tour{}
	err := r.db.
		Preload("Images").
		Preload("StartDates").
		Preload("Locations").
		Preload("Guides").
		First(tour, tourID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		log.Printf("find tour by id error: %v", err)
		return nil, err
	}
	return tour, nil
}

func (r *tourRepository) FindTourBySlug(slug string) (*domain.Tour, error) {
	tour := &domain.Tour{}
	err := r.db.
		Preload("Images").
		Preload("StartDates").
		Preload("Locations").
		Preload("Guides").
		Preload("Reviews").
		Preload("Reviews.User").
		First(tour, "slug = ?", slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		log.Printf("find tour by slug error: %v", err)
		return nil, err
	}
	return tour, nil
}

func (r *tourRepository) ListTours(q dto.TourListQuery) ([]domain.Tour, error) {
	query := r.db.Preload("StartDates").Preload("Images")

	if q.Difficulty != "" {
		query = query.Where("difficulty = ?", q.Difficulty)
	}
	if q.MaxPrice > 0 {
		query = query.Where("price <= ?", q.MaxPrice)
	}
	if q.MinRating > 0 {
		query = query.Where("ratings_average >= ?", q.MinRating)
	}

	order, ok := tourSortColumns[q.Sort]
	if !ok {
		order = "created_at DESC"
	}
	query = query.Order(order)

	limit := q.Limit
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	page := q.Page
	if page <= 0 {
		page = 1
	}
	query = query.Limit(limit).Offset((page - 1) * limit)

	var tours []domain.Tour
	if err := query.Find(&tours).Error; err != nil {
		log.Printf("list tours error: %v", err)
		return nil, err
	}
	return tours, nil
}

func (r *tourRepository) ListToursByIDs(ids []uint) ([]domain.Tour, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tours []domain.Tour
	if err := r.db.Preload("Images").Where("id IN ?", ids).Find(&tours).Error; err != nil {
		log.Printf("list tours by ids error: %v", err)
		return nil, err
	}
	return tours, nil
}

func (r *tourRepository) SaveTour(tour *domain.Tour) error {
	if tour == nil {
		return errors.New("nil tour")
	}
	if err := r.db.Session(&gorm.Session{FullSaveAssociations: true}).Save(tour).Error; err != nil {
		log.Printf("save tour error: %v", err)
		return err
	}
	return nil
}

func (r *tourRepository) DeleteTour(tourID uint) error {
	res := r.db.Delete(&domain.Tour{}, tourID)
	if res.Error != nil {
		log.Printf("delete tour error: %v", res.Error)
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *tourRepository) TourStats() ([]dto.TourStats, error) {
	var stats []dto.TourStats
	err := r.db.Model(&domain.Tour{}).
		Select(`UPPER(difficulty) AS difficulty,
			COUNT(*) AS num_tours,
			SUM(ratings_quantity) AS num_ratings,
			AVG(ratings_average) AS avg_rating,
			AVG(price) AS avg_price,
			MIN(price) AS min_price,
			MAX(price) AS max_price`).
		Where("ratings_average >= ?", 4.5).
		Group("UPPER(difficulty)").
		Order("avg_price").
		Scan(&stats).Error
	if err != nil {
		log.Printf("tour stats error: %v", err)
		return nil, err
	}
	return stats, nil
}

func (r *tourRepository) MonthlyPlan(year int) ([]dto.MonthlyPlanEntry, error) {
	type row struct {
		Month int
		Name  string
	}
	var rows []row
	err := r.db.Table("tour_start_dates").
		Select("EXTRACT(MONTH FROM tour_start_dates.starts_at)::int AS month, tours.name AS name").
		Joins("JOIN tours ON tours.id = tour_start_dates.tour_id").
		Where("EXTRACT(YEAR FROM tour_start_dates.starts_at) = ?", year).
		Order("month").
		Scan(&rows).Error
	if err != nil {
		log.Printf("monthly plan error: %v", err)
		return nil, err
	}

	byMonth := map[int]int{}
	var plan []dto.MonthlyPlanEntry
	for _, rw := range rows {
		i, ok := byMonth[rw.Month]
		if !ok {
			i = len(plan)
			plan = append(plan, dto.MonthlyPlanEntry{Month: rw.Month})
			byMonth[rw.Month] = i
		}
		plan[i].NumTourStarts++
		plan[i].Tours = append(plan[i].Tours, rw.Name)
	}
	return plan, nil
}

func (r *tourRepository) ToursWithin(lat, lng, radiusKm float64) ([]domain.Tour, error) {
	var tours []domain.Tour
	err := r.db.
		Where(haversineKm+" <= ?", lat, lng, lat, radiusKm).
		Find(&tours).Error
	if err != nil {
		log.Printf("tours within error: %v", err)
		return nil, err
	}
	return tours, nil
}

func (r *tourRepository) Distances(lat, lng, multiplier float64) ([]dto.TourDistance, error) {
	var distances []dto.TourDistance
	err := r.db.Model(&domain.Tour{}).
		Select("id, name, "+haversineKm+" * ? AS distance", lat, lng, lat, multiplier).
		Order("distance").
		Scan(&distances).Error
	if err != nil {
		log.Printf("tour distances error: %v", err)
		return nil, err
	}
	return distances, nil
}
