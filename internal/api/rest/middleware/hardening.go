package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// SecurityHeaders sets the standard browser hardening headers
// (X-Frame-Options, X-Content-Type-Options, ...) on every response.
func SecurityHeaders() fiber.Handler {
	return helmet.New()
}

// APIRateLimiter caps each client IP at max requests per window. Mount on
// the API prefix only; view routes stay unthrottled.
func APIRateLimiter(max int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		LimitReached: func(ctx *fiber.Ctx) error {
			return ctx.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "too many requests from this IP, please try again in an hour",
			})
		},
	})
}
