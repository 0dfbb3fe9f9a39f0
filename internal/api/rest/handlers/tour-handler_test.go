package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/namnguyen191/Natours-API/internal/domain"
	"github.com/namnguyen191/Natours-API/internal/dto"
	"github.com/namnguyen191/Natours-API/internal/services"
)

type fakeTourService struct {
	services.TourService
	gotQuery dto.TourListQuery
}

func (f *fakeTourService) ListTours(q dto.TourListQuery) ([]domain.Tour, error) {
	f.gotQuery = q
	return []domain.Tour{{Name: "The Forest Hiker"}}, nil
}

func TestAliasTopToursSortsByRatingThenPrice(t *testing.T) {
	svc := &fakeTourService{}
	handler := NewTourHandler(svc, nil)

	app := fiber.New()
	app.Get("/api/v1/tours/top-5-cheap", handler.AliasTopTours)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/tours/top-5-cheap", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "-ratings_average,price", svc.gotQuery.Sort)
	assert.Equal(t, 5, svc.gotQuery.Limit)
}
