package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/namnguyen191/Natours-API/internal/domain"
	"github.com/namnguyen191/Natours-API/internal/helper/utils"
)

// respondErr maps the service error taxonomy onto HTTP statuses. Unknown
// errors are logged and surfaced as an opaque 500.
func respondErr(ctx *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidToken):
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthenticated):
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "incorrect login credentials")
	case errors.Is(err, domain.ErrUnauthorized):
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		return utils.ResponseError(ctx, fiber.StatusForbidden, "you do not have permission to perform this action")
	case errors.Is(err, domain.ErrNotFound):
		return utils.ResponseError(ctx, fiber.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrDuplicateEmail), errors.Is(err, domain.ErrDuplicateReview):
		return utils.ResponseError(ctx, fiber.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrDeliveryFailed):
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, err.Error())
	default:
		log.Printf("internal error: %v", err)
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, "something went wrong")
	}
}
