package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/namnguyen191/Natours-API/internal/api/rest/middleware"
	"github.com/namnguyen191/Natours-API/internal/dto"
	"github.com/namnguyen191/Natours-API/internal/helper/utils"
	"github.com/namnguyen191/Natours-API/internal/services"
)

type BookingHandler struct {
	svc     services.BookingService
	baseURL string
}

func NewBookingHandler(svc services.BookingService, baseURL string) *BookingHandler {
	return &BookingHandler{svc: svc, baseURL: baseURL}
}

// GetCheckoutSession creates a payment session for the tour and returns its
// redirect URL to the client.
func (h *BookingHandler) GetCheckoutSession(ctx *fiber.Ctx) error {
	current, ok := middleware.CurrentUser(ctx)
	if !ok {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "you are not logged in")
	}
	tourID, err := paramUint(ctx, "tourID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid tour id")
	}

	session, err := h.svc.GetCheckoutSession(ctx.Context(), tourID, current, h.baseURL)
	if err != nil {
		return respondErr(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, session)
}

func (h *BookingHandler) GetAllBookings(ctx *fiber.Ctx) error {
	bookings, err := h.svc.ListBookings()
	if err != nil {
		return respondErr(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"results": len(bookings),
		"data":    bookings,
	})
}

func (h *BookingHandler) GetBooking(ctx *fiber.Ctx) error {
	bookingID, err := paramUint(ctx, "bookingID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid booking id")
	}
	booking, err := h.svc.GetBooking(bookingID)
	if err != nil {
		return respondErr(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, booking)
}

func (h *BookingHandler) CreateBooking(ctx *fiber.Ctx) error {
	var requestBody dto.BookingInput
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide valid inputs")
	}

	booking, err := h.svc.CreateBooking(requestBody)
	if err != nil {
		return respondErr(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, booking)
}

func (h *BookingHandler) UpdateBooking(ctx *fiber.Ctx) error {
	bookingID, err := paramUint(ctx, "bookingID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid booking id")
	}

	var requestBody dto.BookingInput
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide valid inputs")
	}

	booking, err := h.svc.UpdateBooking(bookingID, requestBody)
	if err != nil {
		return respondErr(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, booking)
}

func (h *BookingHandler) DeleteBooking(ctx *fiber.Ctx) error {
	bookingID, err := paramUint(ctx, "bookingID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid booking id")
	}
	if err := h.svc.DeleteBooking(bookingID); err != nil {
		return respondErr(ctx, err)
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}
