package services

import (
	"fmt"
	"strings"

	"github.com/namnguyen191/Natours-API/internal/domain"
	"github.com/namnguyen191/Natours-API/internal/dto"
	"github.com/namnguyen191/Natours-API/internal/repository"
)

type ReviewService interface {
	CreateReview(userID uint, input dto.ReviewInput) (*domain.Review, error)
	GetReview(reviewID uint) (*domain.Review, error)
	ListReviews(tourID uint) ([]domain.Review, error)
	UpdateReview(reviewID uint, actor *domain.User, input dto.ReviewInput) (*domain.Review, error)
	DeleteReview(reviewID uint, actor *domain.User) error
}

type reviewService struct {
	repo  repository.ReviewRepository
	tours repository.TourRepository
}

func NewReviewService(repo repository.ReviewRepository, tours repository.TourRepository) ReviewService {
	return &reviewService{repo: repo, tours: tours}
}

func (s *reviewService) CreateReview(userID uint, input dto.ReviewInput) (*domain.Review, error) {
	if strings.TrimSpace(input.Review) == "" {
		return nil, fmt.Errorf("%w: review cannot be empty", domain.ErrInvalidInput)
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", domain.ErrInvalidInput)
	}
	if _, err := s.tours.FindTourByID(input.TourID); err != nil {
		return nil, err
	}

	review, err := s.repo.CreateReview(&domain.Review{
		Review: strings.TrimSpace(input.Review),
		Rating: input.Rating,
		TourID: input.TourID,
		UserID: userID,
	})
	if err != nil {
		return nil, err
	}

	if err := s.repo.RecalcTourRatings(input.TourID); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) GetReview(reviewID uint) (*domain.Review, error) {
	return s.repo.FindReviewByID(reviewID)
}

func (s *reviewService) ListReviews(tourID uint) ([]domain.Review, error) {
	return s.repo.ListReviews(tourID)
}

func (s *reviewService) UpdateReview(reviewID uint, actor *domain.User, input dto.ReviewInput) (*domain.Review, error) {
	review, err := s.repo.FindReviewByID(reviewID)
	if err != nil {
		return nil, err
	}
	if !canTouchReview(review, actor) {
		return nil, domain.ErrForbidden
	}

	if strings.TrimSpace(input.Review) != "" {
		review.Review = strings.TrimSpace(input.Review)
	}
	if input.Rating != 0 {
		if input.Rating < 1 || input.Rating > 5 {
			return nil, fmt.Errorf("%w: rating must be between 1 and 5", domain.ErrInvalidInput)
		}
		review.Rating = input.Rating
	}

	if err := s.repo.SaveReview(review); err != nil {
		return nil, err
	}
	if err := s.repo.RecalcTourRatings(review.TourID); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) DeleteReview(reviewID uint, actor *domain.User) error {
	review, err := s.repo.FindReviewByID(reviewID)
	if err != nil {
		return err
	}
	if !canTouchReview(review, actor) {
		return domain.ErrForbidden
	}

	if err := s.repo.DeleteReview(reviewID); err != nil {
		return err
	}
	return s.repo.RecalcTourRatings(review.TourID)
}

func canTouchReview(review *domain.Review, actor *domain.User) bool {
	if actor == nil {
		return false
	}
	return actor.Role == domain.RoleAdmin || review.UserID == actor.ID
}
