package middleware

import (
	"strings"

	"github.com/faceofmind/server/internal/domain"
	"github.com/faceofmind/server/internal/dto"
	"github.com/faceofmind/server/internal/helper"
	"github.com/faceofmind/server/internal/services"
	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware verifies the access token, then checks the liveness store
// so a logged-out token is rejected before its natural expiry.
func AuthMiddleware(auth helper.Auth, liveness services.LivenessService, userSvc services.UserService) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		// 1) try cookie first
		tokenStr := strings.TrimSpace(ctx.Cookies("access_token"))

		// 2) fallback to Authorization header
		if tokenStr == "" {
			tokenStr = strings.TrimSpace(ctx.Get("Authorization"))
		}

		user, err := auth.VerifyToken(tokenStr)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		if !liveness.IsSessionTokenLive(ctx.UserContext(), user.Role, user.UserID, user.Token) {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "session expired or revoked",
			})
		}

		account, err := userSvc.GetProfile(user.UserID)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "account not found",
			})
		}
		if account.Status != domain.StatusActive {
			return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "account is not active",
			})
		}

		ctx.Locals("userID", user.UserID)
		ctx.Locals("user", user)
		return ctx.Next()
	}
}

// AdminOnly trusts the role claim already validated by AuthMiddleware.
func AdminOnly() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		userID, ok := ctx.Locals("userID").(uint)
		if !ok || userID == 0 {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}

		user, ok := ctx.Locals("user").(dto.AuthClaims)
		if !ok || user.Role != domain.RoleAdmin {
			return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "admin only",
			})
		}

		return ctx.Next()
	}
}
