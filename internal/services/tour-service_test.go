package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/namnguyen191/Natours-API/internal/domain"
	"github.com/namnguyen191/Natours-API/internal/dto"
)

type fakeTourRepo struct {
	tours  map[uint]*domain.Tour
	nextID uint

	lastRadiusKm   float64
	lastMultiplier float64
}

func newFakeTourRepo() *fakeTourRepo {
	return &fakeTourRepo{tours: map[uint]*domain.Tour{}, nextID: 1}
}

func (r *fakeTourRepo) CreateTour(tour *domain.Tour) (*domain.Tour, error) {
	tour.ID = r.nextID
	r.nextID++
	cp := *tour
	r.tours[tour.ID] = &cp
	return tour, nil
}

func (r *fakeTourRepo) FindTourByID(tourID uint) (*domain.Tour, error) {
	t, ok := r.tours[tourID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTourRepo) FindTourBySlug(slug string) (*domain.Tour, error) {
	for _, t := range r.tours {
		if t.Slug == slug {
			cp := *t
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeTourRepo) ListTours(dto.TourListQuery) ([]domain.Tour, error) { return nil, nil }
func (r *fakeTourRepo) ListToursByIDs([]uint) ([]domain.Tour, error)       { return nil, nil }

func (r *fakeTourRepo) SaveTour(tour *domain.Tour) error {
	if _, ok := r.tours[tour.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *tour
	r.tours[tour.ID] = &cp
	return nil
}

func (r *fakeTourRepo) DeleteTour(tourID uint) error {
	if _, ok := r.tours[tourID]; !ok {
		return domain.ErrNotFound
	}
	delete(r.tours, tourID)
	return nil
}

func (r *fakeTourRepo) TourStats() ([]dto.TourStats, error)             { return nil, nil }
func (r *fakeTourRepo) MonthlyPlan(int) ([]dto.MonthlyPlanEntry, error) { return nil, nil }

func (r *fakeTourRepo) ToursWithin(lat, lng, radiusKm float64) ([]domain.Tour, error) {
	r.lastRadiusKm = radiusKm
	return nil, nil
}

func (r *fakeTourRepo) Distances(lat, lng, multiplier float64) ([]dto.TourDistance, error) {
	r.lastMultiplier = multiplier
	return nil, nil
}

func validTourInput() dto.TourInput {
	return dto.TourInput{
		Name:         "The Forest Hiker",
		Duration:     5,
		MaxGroupSize: 25,
		Difficulty:   "easy",
		Price:        397,
		Summary:      "Breathtaking hike through the Canadian Banff National Park",
	}
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "the-forest-hiker", Slugify("The Forest Hiker"))
	assert.Equal(t, "the-sea-explorer", Slugify("  The Sea   Explorer! "))
	assert.Equal(t, "tour-42", Slugify("Tour #42"))
}

func TestCreateTourSetsSlug(t *testing.T) {
	svc := NewTourService(newFakeTourRepo())

	tour, err := svc.CreateTour(validTourInput())
	require.NoError(t, err)
	assert.Equal(t, "the-forest-hiker", tour.Slug)
}

func TestCreateTourValidation(t *testing.T) {
	svc := NewTourService(newFakeTourRepo())

	missing := validTourInput()
	missing.Name = ""
	_, err := svc.CreateTour(missing)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	badDifficulty := validTourInput()
	badDifficulty.Difficulty = "impossible"
	_, err = svc.CreateTour(badDifficulty)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	badDiscount := validTourInput()
	badDiscount.PriceDiscount = badDiscount.Price + 1
	_, err = svc.CreateTour(badDiscount)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateTourRenameRefreshesSlug(t *testing.T) {
	repo := newFakeTourRepo()
	svc := NewTourService(repo)

	tour, err := svc.CreateTour(validTourInput())
	require.NoError(t, err)

	updated, err := svc.UpdateTour(tour.ID, dto.TourInput{Name: "The Sea Explorer"})
	require.NoError(t, err)
	assert.Equal(t, "the-sea-explorer", updated.Slug)
}

func TestToursWithinConvertsMiles(t *testing.T) {
	repo := newFakeTourRepo()
	svc := NewTourService(repo)

	_, err := svc.ToursWithin(100, 34.1, -118.1, "mi")
	require.NoError(t, err)
	assert.InDelta(t, 100/kmToMi, repo.lastRadiusKm, 0.001)

	_, err = svc.ToursWithin(100, 34.1, -118.1, "km")
	require.NoError(t, err)
	assert.InDelta(t, 100.0, repo.lastRadiusKm, 0.001)

	_, err = svc.ToursWithin(-1, 34.1, -118.1, "km")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDistancesUnitMultiplier(t *testing.T) {
	repo := newFakeTourRepo()
	svc := NewTourService(repo)

	_, err := svc.Distances(34.1, -118.1, "mi")
	require.NoError(t, err)
	assert.InDelta(t, kmToMi, repo.lastMultiplier, 0.000001)

	_, err = svc.Distances(34.1, -118.1, "km")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, repo.lastMultiplier, 0.000001)
}

func TestMonthlyPlanRejectsAbsurdYear(t *testing.T) {
	svc := NewTourService(newFakeTourRepo())

	_, err := svc.MonthlyPlan(1887)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
