package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/namnguyen191/Natours-API/internal/domain"
	"github.com/namnguyen191/Natours-API/internal/helper"
	"github.com/namnguyen191/Natours-API/internal/helper/utils"
	"github.com/namnguyen191/Natours-API/internal/repository"
)

const (
	// SessionCookie is the cookie carrying the session token.
	SessionCookie = "jwt"

	localsUserKey = "user"
	localsIDKey   = "userID"
)

// CurrentUser returns the user attached by Protect or IsLoggedIn.
func CurrentUser(ctx *fiber.Ctx) (*domain.User, bool) {
	user, ok := ctx.Locals(localsUserKey).(*domain.User)
	return user, ok
}

// Protect rejects any request that does not carry a valid session token for
// an existing active user whose password has not changed since the token was
// issued. The resolved user is attached to the request for downstream
// handlers.
func Protect(auth helper.Auth, users repository.UserRepository) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		user, err := resolveUser(ctx, auth, users, true)
		if err != nil {
			return utils.ResponseError(ctx, fiber.StatusUnauthorized, err.Error())
		}

		ctx.Locals(localsUserKey, user)
		ctx.Locals(localsIDKey, user.ID)
		return ctx.Next()
	}
}

// IsLoggedIn is the rendering-only variant of Protect: it attaches the user
// when the cookie checks out and silently proceeds anonymous on any failure,
// malformed tokens included. Never mount it on an authenticated-write path.
func IsLoggedIn(auth helper.Auth, users repository.UserRepository) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		user, err := resolveUser(ctx, auth, users, false)
		if err == nil && user != nil {
			ctx.Locals(localsUserKey, user)
			ctx.Locals(localsIDKey, user.ID)
		}
		return ctx.Next()
	}
}

// RestrictTo authorizes an already-authenticated request against an
// allow-list of roles. Mount strictly after Protect.
func RestrictTo(roles ...domain.Role) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		user, ok := CurrentUser(ctx)
		if !ok {
			return utils.ResponseError(ctx, fiber.StatusUnauthorized, "you are not logged in, please log in to get access")
		}
		if !user.Role.In(roles...) {
			return utils.ResponseError(ctx, fiber.StatusForbidden, "you do not have permission to perform this action")
		}
		return ctx.Next()
	}
}

func resolveUser(ctx *fiber.Ctx, auth helper.Auth, users repository.UserRepository, allowHeader bool) (*domain.User, error) {
	var tokenStr string
	if allowHeader {
		tokenStr = strings.TrimSpace(ctx.Get(fiber.HeaderAuthorization))
	}
	if tokenStr == "" {
		tokenStr = strings.TrimSpace(ctx.Cookies(SessionCookie))
	}
	if tokenStr == "" {
		return nil, errNotLoggedIn
	}

	claims, err := auth.VerifyToken(tokenStr)
	if err != nil {
		return nil, err
	}

	user, err := users.FindUserByID(claims.UserID)
	if err != nil {
		return nil, errUserGone
	}

	if user.ChangedPasswordAfter(claims.IssuedAt) {
		return nil, errStaleToken
	}
	return user, nil
}

var (
	errNotLoggedIn = fiber.NewError(fiber.StatusUnauthorized, "you are not logged in, please log in to get access")
	errUserGone    = fiber.NewError(fiber.StatusUnauthorized, "the user belonging to this token no longer exists")
	errStaleToken  = fiber.NewError(fiber.StatusUnauthorized, "password was recently changed, please log in again")
)
