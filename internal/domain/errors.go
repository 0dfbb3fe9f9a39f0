package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicateEmail  = errors.New("email already exists")
	ErrDuplicateReview = errors.New("you have already reviewed this tour")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidToken    = errors.New("token is invalid or has expired")
	ErrInvalidInput    = errors.New("invalid input")
	ErrDeliveryFailed  = errors.New("there was an error sending the email, try again later")
)
