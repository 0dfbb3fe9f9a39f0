package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/namnguyen191/Natours-API/internal/api/rest/middleware"
	"github.com/namnguyen191/Natours-API/internal/domain"
	"github.com/namnguyen191/Natours-API/internal/dto"
	"github.com/namnguyen191/Natours-API/internal/services"
)

// ViewHandler serves the server-rendered pages. Every template receives the
// current user (when logged in) so the header can switch between the login
// links and the account menu.
type ViewHandler struct {
	tours    services.TourService
	bookings services.BookingService
}

func NewViewHandler(tours services.TourService, bookings services.BookingService) *ViewHandler {
	return &ViewHandler{tours: tours, bookings: bookings}
}

// Overview renders the landing page. When the payment processor redirects
// back here with tour/user/price query params, the booking is recorded first
// and the user is bounced to the clean URL.
func (h *ViewHandler) Overview(ctx *fiber.Ctx) error {
	if ctx.Query("tour") != "" {
		if err := h.createBookingFromCheckout(ctx); err != nil {
			return h.renderError(ctx, fiber.StatusBadRequest, "could not record your booking, please contact us")
		}
		return ctx.Redirect(ctx.Path(), fiber.StatusFound)
	}

	tours, err := h.tours.ListTours(dto.TourListQuery{})
	if err != nil {
		return h.renderError(ctx, fiber.StatusInternalServerError, "could not load tours")
	}
	return ctx.Render("overview", h.withUser(ctx, fiber.Map{
		"Title": "All Tours",
		"Tours": tours,
	}))
}

func (h *ViewHandler) Tour(ctx *fiber.Ctx) error {
	tour, err := h.tours.GetTourBySlug(ctx.Params("slug"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return h.renderError(ctx, fiber.StatusNotFound, "there is no tour with that name")
		}
		return h.renderError(ctx, fiber.StatusInternalServerError, "could not load tour")
	}
	return ctx.Render("tour", h.withUser(ctx, fiber.Map{
		"Title": tour.Name + " Tour",
		"Tour":  tour,
	}))
}

func (h *ViewHandler) Login(ctx *fiber.Ctx) error {
	return ctx.Render("login", h.withUser(ctx, fiber.Map{
		"Title": "Log into your account",
	}))
}

func (h *ViewHandler) Signup(ctx *fiber.Ctx) error {
	return ctx.Render("signup", h.withUser(ctx, fiber.Map{
		"Title": "Create your account",
	}))
}

func (h *ViewHandler) Account(ctx *fiber.Ctx) error {
	return ctx.Render("account", h.withUser(ctx, fiber.Map{
		"Title": "Your account",
	}))
}

func (h *ViewHandler) MyTours(ctx *fiber.Ctx) error {
	current, ok := middleware.CurrentUser(ctx)
	if !ok {
		return ctx.Redirect("/login", fiber.StatusFound)
	}

	tours, err := h.bookings.MyBookedTours(current.ID)
	if err != nil {
		return h.renderError(ctx, fiber.StatusInternalServerError, "could not load your bookings")
	}
	return ctx.Render("overview", h.withUser(ctx, fiber.Map{
		"Title": "My Tours",
		"Tours": tours,
	}))
}

func (h *ViewHandler) createBookingFromCheckout(ctx *fiber.Ctx) error {
	tourID, err := strconv.ParseUint(ctx.Query("tour"), 10, 32)
	if err != nil {
		return err
	}
	userID, err := strconv.ParseUint(ctx.Query("user"), 10, 32)
	if err != nil {
		return err
	}
	price, err := strconv.ParseFloat(ctx.Query("price"), 64)
	if err != nil {
		return err
	}

	_, err = h.bookings.CreateBooking(dto.BookingInput{
		TourID: uint(tourID),
		UserID: uint(userID),
		Price:  price,
	})
	return err
}

func (h *ViewHandler) withUser(ctx *fiber.Ctx, data fiber.Map) fiber.Map {
	if user, ok := middleware.CurrentUser(ctx); ok {
		data["User"] = user
	}
	return data
}

func (h *ViewHandler) renderError(ctx *fiber.Ctx, status int, msg string) error {
	return ctx.Status(status).Render("error", h.withUser(ctx, fiber.Map{
		"Title":   "Something went wrong",
		"Message": msg,
	}))
}
