package services

import (
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/namnguyen191/Natours-API/internal/domain"
	"github.com/namnguyen191/Natours-API/internal/dto"
	"github.com/namnguyen191/Natours-API/internal/helper"
	"github.com/namnguyen191/Natours-API/internal/helper/utils"
	"github.com/namnguyen191/Natours-API/internal/interfaces"
	"github.com/namnguyen191/Natours-API/internal/repository"
)

const (
	minPasswordLength = 8
	resetTokenTTL     = 10 * time.Minute
)

type UserService interface {
	// Auth
	Signup(input dto.SignupRequest) (*domain.User, string, error)
	Login(input dto.LoginRequest) (*domain.User, string, error)
	ForgotPassword(email string) error
	ResetPassword(rawToken string, input dto.ResetPasswordRequest) (*domain.User, string, error)
	UpdatePassword(userID uint, input dto.UpdatePasswordRequest) (*domain.User, string, error)

	// Profile
	GetUser(userID uint) (*domain.User, error)
	UpdateMe(userID uint, input dto.UpdateMeRequest) (*domain.User, error)
	DeleteMe(userID uint) error

	// Admin
	ListUsers() ([]domain.User, error)
	UpdateUser(userID uint, input dto.AdminUpdateUserRequest) (*domain.User, error)
	DeleteUser(userID uint) error
}

type userService struct {
	repo     repository.UserRepository
	auth     helper.Auth
	producer interfaces.ProducerHandler
	baseURL  string
}

func NewUserService(
	repo repository.UserRepository,
	auth helper.Auth,
	producer interfaces.ProducerHandler,
	baseURL string,
) UserService {
	return &userService{
		repo:     repo,
		auth:     auth,
		producer: producer,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

func (u *userService) Signup(input dto.SignupRequest) (*domain.User, string, error) {
	name := strings.TrimSpace(input.Name)
	email := utils.NormalizeEmail(input.Email)

	if name == "" || email == "" || input.Password == "" {
		return nil, "", fmt.Errorf("%w: name, email and password are required", domain.ErrInvalidInput)
	}
	if !utils.ValidEmail(email) {
		return nil, "", fmt.Errorf("%w: please provide a valid email", domain.ErrInvalidInput)
	}
	if err := validatePasswordPair(input.Password, input.PasswordConfirm); err != nil {
		return nil, "", err
	}

	hashed, err := u.auth.HashPassword(input.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	newUser := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashed,
		Role:         domain.RoleUser,
		Active:       true,
	}

	usr, err := u.repo.CreateUser(newUser)
	if err != nil {
		return nil, "", err
	}

	// Welcome email is best effort; signup must not fail on a broker hiccup.
	u.publish(dto.EventWelcome, dto.WelcomeEmailEvent{
		UserID: usr.ID,
		Email:  usr.Email,
		Name:   usr.Name,
		URL:    u.baseURL + "/me",
	})

	token, err := u.auth.GenerateToken(usr.ID)
	if err != nil {
		return nil, "", err
	}
	return usr, token, nil
}

func (u *userService) Login(input dto.LoginRequest) (*domain.User, string, error) {
	email := utils.NormalizeEmail(input.Email)
	password := input.Password

	if email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: please provide email and password", domain.ErrInvalidInput)
	}

	user, err := u.repo.FindUserByEmail(email)
	if err != nil {
		// Same message whether the email is unknown or the password is
		// wrong, so the route leaks nothing.
		return nil, "", domain.ErrUnauthenticated
	}
	if err := u.auth.VerifyPassword(password, user.PasswordHash); err != nil {
		return nil, "", domain.ErrUnauthenticated
	}

	token, err := u.auth.GenerateToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (u *userService) ForgotPassword(email string) error {
	email = utils.NormalizeEmail(email)

	user, err := u.repo.FindUserByEmail(email)
	if err != nil {
		return domain.ErrNotFound
	}

	plain, err := utils.RandomToken(32)
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}

	exp := time.Now().Add(resetTokenTTL)
	user.PasswordResetTokenHash = utils.Sha256Hex(plain)
	user.PasswordResetExpiresAt = &exp
	if err := u.repo.SaveUser(user); err != nil {
		return err
	}

	event := dto.PasswordResetEvent{
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		ResetURL:  fmt.Sprintf("%s/api/v1/users/resetPassword/%s", u.baseURL, url.PathEscape(plain)),
		ExpiresAt: exp.Format(time.RFC3339),
	}
	if err := u.publishChecked(dto.EventPasswordReset, event); err != nil {
		// A failed delivery must not leave a dangling valid reset state.
		user.ClearResetToken()
		if saveErr := u.repo.SaveUser(user); saveErr != nil {
			log.Printf("rollback reset token error: %v", saveErr)
		}
		return domain.ErrDeliveryFailed
	}
	return nil
}

func (u *userService) ResetPassword(rawToken string, input dto.ResetPasswordRequest) (*domain.User, string, error) {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return nil, "", domain.ErrInvalidToken
	}
	if err := validatePasswordPair(input.Password, input.PasswordConfirm); err != nil {
		return nil, "", err
	}

	hash := utils.Sha256Hex(rawToken)
	user, err := u.repo.FindUserByResetTokenHash(hash, time.Now())
	if err != nil {
		return nil, "", domain.ErrInvalidToken
	}

	hashed, err := u.auth.HashPassword(input.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = hashed
	user.ClearResetToken()
	stampPasswordChanged(user)

	if err := u.repo.SaveUser(user); err != nil {
		return nil, "", err
	}

	// Log the user straight in after a successful reset.
	token, err := u.auth.GenerateToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (u *userService) UpdatePassword(userID uint, input dto.UpdatePasswordRequest) (*domain.User, string, error) {
	user, err := u.repo.FindUserByID(userID)
	if err != nil {
		return nil, "", err
	}

	if err := u.auth.VerifyPassword(input.PasswordCurrent, user.PasswordHash); err != nil {
		return nil, "", fmt.Errorf("%w: your current password is wrong", domain.ErrUnauthorized)
	}
	if err := validatePasswordPair(input.Password, input.PasswordConfirm); err != nil {
		return nil, "", err
	}

	hashed, err := u.auth.HashPassword(input.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = hashed
	stampPasswordChanged(user)

	if err := u.repo.SaveUser(user); err != nil {
		return nil, "", err
	}

	token, err := u.auth.GenerateToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (u *userService) GetUser(userID uint) (*domain.User, error) {
	return u.repo.FindUserByID(userID)
}

func (u *userService) UpdateMe(userID uint, input dto.UpdateMeRequest) (*domain.User, error) {
	user, err := u.repo.FindUserByID(userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", domain.ErrInvalidInput)
		}
		user.Name = name
	}
	if input.Email != nil {
		email := utils.NormalizeEmail(*input.Email)
		if !utils.ValidEmail(email) {
			return nil, fmt.Errorf("%w: please provide a valid email", domain.ErrInvalidInput)
		}
		user.Email = email
	}
	if input.Photo != nil && *input.Photo != "" {
		user.Photo = *input.Photo
	}

	if err := u.repo.SaveUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (u *userService) DeleteMe(userID uint) error {
	return u.repo.DeactivateUser(userID)
}

func (u *userService) ListUsers() ([]domain.User, error) {
	return u.repo.ListUsers()
}

func (u *userService) UpdateUser(userID uint, input dto.AdminUpdateUserRequest) (*domain.User, error) {
	user, err := u.repo.FindUserByIDAnyStatus(userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		email := utils.NormalizeEmail(*input.Email)
		if !utils.ValidEmail(email) {
			return nil, fmt.Errorf("%w: please provide a valid email", domain.ErrInvalidInput)
		}
		user.Email = email
	}
	if input.Role != nil {
		role := domain.Role(strings.ToLower(strings.TrimSpace(*input.Role)))
		if !role.Valid() {
			return nil, fmt.Errorf("%w: invalid role", domain.ErrInvalidInput)
		}
		user.Role = role
	}

	if err := u.repo.SaveUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (u *userService) DeleteUser(userID uint) error {
	return u.repo.DeleteUser(userID)
}

// publish swallows broker errors, publishChecked surfaces them.
func (u *userService) publish(key string, event any) {
	if err := u.publishChecked(key, event); err != nil {
		log.Printf("publish %s error: %v", key, err)
	}
}

func (u *userService) publishChecked(key string, event any) error {
	if u.producer == nil {
		return fmt.Errorf("no producer configured")
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return u.producer.PublishMessage([]byte(key), payload)
}

func validatePasswordPair(password, confirm string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLength)
	}
	if password != confirm {
		return fmt.Errorf("%w: passwords do not match", domain.ErrInvalidInput)
	}
	return nil
}

// stampPasswordChanged backdates the change by one second so a token issued
// right after still carries an issue time later than the change.
func stampPasswordChanged(user *domain.User) {
	changed := time.Now().Add(-time.Second)
	user.PasswordChangedAt = &changed
}
