package handlers

import (
	"errors"

	"github.com/faceofmind/server/internal/services"
	"github.com/gofiber/fiber/v2"
)

// statusFromError maps service sentinels onto HTTP status codes. Anything
// unmapped is a 500.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrEmailExists):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrAccountNotActive),
		errors.Is(err, services.ErrAccountSuspended),
		errors.Is(err, services.ErrAdminOnly),
		errors.Is(err, services.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrInvalidOTP),
		errors.Is(err, services.ErrSessionEnded),
		errors.Is(err, services.ErrSessionNotEnded),
		errors.Is(err, services.ErrFeedbackExists),
		errors.Is(err, services.ErrInvalidPeriod):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}
