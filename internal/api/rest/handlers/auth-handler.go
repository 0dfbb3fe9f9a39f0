package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/namnguyen191/Natours-API/internal/api/rest/middleware"
	"github.com/namnguyen191/Natours-API/internal/domain"
	"github.com/namnguyen191/Natours-API/internal/dto"
	"github.com/namnguyen191/Natours-API/internal/helper/utils"
	"github.com/namnguyen191/Natours-API/internal/services"
)

type AuthHandler struct {
	svc               services.UserService
	cookieExpiresDays int
}

func NewAuthHandler(svc services.UserService, cookieExpiresDays int) *AuthHandler {
	return &AuthHandler{svc: svc, cookieExpiresDays: cookieExpiresDays}
}

func (h *AuthHandler) Signup(ctx *fiber.Ctx) error {
	var requestBody dto.SignupRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide valid inputs")
	}

	user, token, err := h.svc.Signup(requestBody)
	if err != nil {
		return respondErr(ctx, err)
	}
	return h.sendToken(ctx, fiber.StatusCreated, user, token)
}

func (h *AuthHandler) Login(ctx *fiber.Ctx) error {
	var requestBody dto.LoginRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "email and password are required")
	}

	user, token, err := h.svc.Login(requestBody)
	if err != nil {
		return respondErr(ctx, err)
	}
	return h.sendToken(ctx, fiber.StatusOK, user, token)
}

// Logout overwrites the session cookie with a short-lived dummy value.
func (h *AuthHandler) Logout(ctx *fiber.Ctx) error {
	ctx.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "loggedOut",
		Expires:  time.Now().Add(10 * time.Second),
		HTTPOnly: true,
	})
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "logged out")
}

func (h *AuthHandler) ForgotPassword(ctx *fiber.Ctx) error {
	var requestBody dto.ForgotPasswordRequest
	if err := ctx.BodyParser(&requestBody); err != nil || requestBody.Email == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide a valid email")
	}

	if err := h.svc.ForgotPassword(requestBody.Email); err != nil {
		return respondErr(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "token sent to email")
}

func (h *AuthHandler) ResetPassword(ctx *fiber.Ctx) error {
	var requestBody dto.ResetPasswordRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide valid inputs")
	}

	user, token, err := h.svc.ResetPassword(ctx.Params("token"), requestBody)
	if err != nil {
		return respondErr(ctx, err)
	}
	return h.sendToken(ctx, fiber.StatusOK, user, token)
}

func (h *AuthHandler) UpdatePassword(ctx *fiber.Ctx) error {
	current, ok := middleware.CurrentUser(ctx)
	if !ok {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "you are not logged in")
	}

	var requestBody dto.UpdatePasswordRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide valid inputs")
	}

	user, token, err := h.svc.UpdatePassword(current.ID, requestBody)
	if err != nil {
		return respondErr(ctx, err)
	}
	return h.sendToken(ctx, fiber.StatusOK, user, token)
}

// sendToken sets the session cookie and returns the token alongside the
// sanitized user. Password and reset fields are excluded from serialization
// at the model level.
func (h *AuthHandler) sendToken(ctx *fiber.Ctx, status int, user *domain.User, token string) error {
	ctx.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Expires:  time.Now().Add(time.Duration(h.cookieExpiresDays) * 24 * time.Hour),
		HTTPOnly: true,
		Secure:   true,
	})

	return utils.ResponseSuccess(ctx, status, fiber.Map{
		"token": token,
		"user":  user,
	})
}
