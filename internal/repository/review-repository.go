package repository

import (
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/namnguyen191/Natours-API/internal/domain"
	"github.com/namnguyen191/Natours-API/internal/helper"
)

type ReviewRepository interface {
	CreateReview(review *domain.Review) (*domain.Review, error)
	FindReviewByID(reviewID uint) (*domain.Review, error)
	ListReviews(tourID uint) ([]domain.Review, error)
	SaveReview(review *domain.Review) error
	DeleteReview(reviewID uint) error

	// RecalcTourRatings refreshes the tour's ratings_average/ratings_quantity
	// from its reviews in a single statement.
	RecalcTourRatings(tourID uint) error
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) CreateReview(review *domain.Review) (*domain.Review, error) {
	if review == nil {
		return nil, errors.New("nil review")
	}
	if err := r.db.Create(review).Error; err != nil {
		if helper.IsUniqueViolation(err, "uidx_reviews_tour_user") {
			return nil, domain.ErrDuplicateReview
		}
		log.Printf("create review error: %v", err)
		return nil, err
	}
	return review, nil
}

func (r *reviewRepository) FindReviewByID(reviewID uint) (*domain.Review, error) {
	review := &domain.Review{}
	if err := r.db.Preload("User").First(review, reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		log.Printf("find review by id error: %v", err)
		return nil, err
	}
	return review, nil
}

func (r *reviewRepository) ListReviews(tourID uint) ([]domain.Review, error) {
	query := r.db.Preload("User").Order("created_at DESC")
	if tourID != 0 {
		query = query.Where("tour_id = ?", tourID)
	}
	var reviews []domain.Review
	if err := query.Find(&reviews).Error; err != nil {
		log.Printf("list reviews error: %v", err)
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) SaveReview(review *domain.Review) error {
	if review == nil {
		return errors.New("nil review")
	}
	if err := r.db.Save(review).Error; err != nil {
		log.Printf("save review error: %v", err)
		return err
	}
	return nil
}

func (r *reviewRepository) DeleteReview(reviewID uint) error {
	res := r.db.Delete(&domain.Review{}, reviewID)
	if res.Error != nil {
		log.Printf("delete review error: %v", res.Error)
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *reviewRepository) RecalcTourRatings(tourID uint) error {
	err := r.db.Exec(`UPDATE tours SET
			ratings_quantity = agg.qty,
			ratings_average = agg.avg
		FROM (
			SELECT COUNT(*) AS qty, COALESCE(AVG(rating), 4.5) AS avg
			FROM reviews
			WHERE tour_id = ? AND deleted_at IS NULL
		) AS agg
		WHERE tours.id = ?`, tourID, tourID).Error
	if err != nil {
		log.Printf("recalc tour ratings error: %v", err)
		return err
	}
	return nil
}
