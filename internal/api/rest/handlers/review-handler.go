package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/namnguyen191/Natours-API/internal/api/rest/middleware"
	"github.com/namnguyen191/Natours-API/internal/dto"
	"github.com/namnguyen191/Natours-API/internal/helper/utils"
	"github.com/namnguyen191/Natours-API/internal/services"
)

type ReviewHandler struct {
	svc services.ReviewService
}

func NewReviewHandler(svc services.ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

// GetAllReviews lists reviews, scoped to a tour when mounted on the nested
// /tours/:tourID/reviews route.
func (h *ReviewHandler) GetAllReviews(ctx *fiber.Ctx) error {
	var tourID uint
	if ctx.Params("tourID") != "" {
		id, err := paramUint(ctx, "tourID")
		if err != nil {
			return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid tour id")
		}
		tourID = id
	}

	reviews, err := h.svc.ListReviews(tourID)
	if err != nil {
		return respondErr(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"results": len(reviews),
		"data":    reviews,
	})
}

func (h *ReviewHandler) GetReview(ctx *fiber.Ctx) error {
	reviewID, err := paramUint(ctx, "reviewID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid review id")
	}
	review, err := h.svc.GetReview(reviewID)
	if err != nil {
		return respondErr(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, review)
}

// CreateReview takes the tour from the nested route when present, falling
// back to the body.
func (h *ReviewHandler) CreateReview(ctx *fiber.Ctx) error {
	current, ok := middleware.CurrentUser(ctx)
	if !ok {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "you are not logged in")
	}

	var requestBody dto.ReviewInput
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide valid inputs")
	}
	if ctx.Params("tourID") != "" {
		tourID, err := paramUint(ctx, "tourID")
		if err != nil {
			return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid tour id")
		}
		requestBody.TourID = tourID
	}

	review, err := h.svc.CreateReview(current.ID, requestBody)
	if err != nil {
		return respondErr(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, review)
}

func (h *ReviewHandler) UpdateReview(ctx *fiber.Ctx) error {
	current, ok := middleware.CurrentUser(ctx)
	if !ok {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "you are not logged in")
	}
	reviewID, err := paramUint(ctx, "reviewID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid review id")
	}

	var requestBody dto.ReviewInput
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide valid inputs")
	}

	review, err := h.svc.UpdateReview(reviewID, current, requestBody)
	if err != nil {
		return respondErr(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, review)
}

func (h *ReviewHandler) DeleteReview(ctx *fiber.Ctx) error {
	current, ok := middleware.CurrentUser(ctx)
	if !ok {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "you are not logged in")
	}
	reviewID, err := paramUint(ctx, "reviewID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid review id")
	}
	if err := h.svc.DeleteReview(reviewID, current); err != nil {
		return respondErr(ctx, err)
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}
