package repository

import (
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/namnguyen191/Natours-API/internal/domain"
	"github.com/namnguyen191/Natours-API/internal/helper"
)

type UserRepository interface {
	CreateUser(user *domain.User) (*domain.User, error)
	FindUserByEmail(email string) (*domain.User, error)
	FindUserByID(userID uint) (*domain.User, error)
	FindUserByIDAnyStatus(userID uint) (*domain.User, error)
	FindUserByResetTokenHash(hash string, notExpiredBefore time.Time) (*domain.User, error)
	SaveUser(user *domain.User) error
	ListUsers() ([]domain.User, error)
	DeactivateUser(userID uint) error
	DeleteUser(userID uint) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// activeOnly is applied explicitly on every normal read path. Deactivated
// accounts stay in the table but are invisible to lookups unless a caller
// reaches for the AnyStatus variant.
func (r *userRepository) activeOnly() *gorm.DB {
	return r.db.Where("active = ?", true)
}

func (r *userRepository) CreateUser(user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("nil user")
	}

	if err := r.db.Create(user).Error; err != nil {
		if helper.IsAnyUniqueViolation(err) {
			return nil, domain.ErrDuplicateEmail
		}
		log.Printf("create user error: %v", err)
		return nil, err
	}
	return user, nil
}

func (r *userRepository) FindUserByEmail(email string) (*domain.User, error) {
	user := &domain.User{}
	if err := r.activeOnly().First(user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		log.Printf("find user by email error: %v", err)
		return nil, err
	}
	return user, nil
}

func (r *userRepository) FindUserByID(userID uint) (*domain.User, error) {
	user := &domain.User{}
	if err := r.activeOnly().First(user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		log.Printf("find user by id error: %v", err)
		return nil, err
	}
	return user, nil
}

func (r *userRepository) FindUserByIDAnyStatus(userID uint) (*domain.User, error) {
	user := &domain.User{}
	if err := r.db.First(user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		log.Printf("find user by id error: %v", err)
		return nil, err
	}
	return user, nil
}

func (r *userRepository) FindUserByResetTokenHash(hash string, notExpiredBefore time.Time) (*domain.User, error) {
	user := &domain.User{}
	err := r.activeOnly().
		Where("password_reset_token_hash = ? AND password_reset_expires_at > ?", hash, notExpiredBefore).
		First(user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		log.Printf("find user by reset token error: %v", err)
		return nil, err
	}
	return user, nil
}

func (r *userRepository) SaveUser(user *domain.User) error {
	if user == nil {
		return errors.New("nil user")
	}
	if err := r.db.Save(user).Error; err != nil {
		if helper.IsAnyUniqueViolation(err) {
			return domain.ErrDuplicateEmail
		}
		log.Printf("save user error: %v", err)
		return err
	}
	return nil
}

func (r *userRepository) ListUsers() ([]domain.User, error) {
	var users []domain.User
	if err := r.activeOnly().Order("id").Find(&users).Error; err != nil {
		log.Printf("list users error: %v", err)
		return nil, err
	}
	return users, nil
}

func (r *userRepository) DeactivateUser(userID uint) error {
	res := r.db.Model(&domain.User{}).Where("id = ?", userID).Update("active", false)
	if res.Error != nil {
		log.Printf("deactivate user error: %v", res.Error)
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepository) DeleteUser(userID uint) error {
	res := r.db.Delete(&domain.User{}, userID)
	if res.Error != nil {
		log.Printf("delete user error: %v", res.Error)
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
