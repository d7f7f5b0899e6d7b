package handlers

import (
	"github.com/faceofmind/server/internal/dto"
	"github.com/faceofmind/server/internal/helper"
	"github.com/faceofmind/server/internal/helper/utils"
	"github.com/faceofmind/server/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	svc  services.UserService
	auth helper.Auth
}

func NewAuthHandler(svc services.UserService, auth helper.Auth) *AuthHandler {
	return &AuthHandler{svc: svc, auth: auth}
}

func (h *AuthHandler) SetupRoutes(app *fiber.App, authRequired fiber.Handler) {
	api := app.Group("/api")
	auth := api.Group("/auth")

	auth.Post("/register", h.Register)
	auth.Post("/verify-otp", h.VerifyOTP)
	auth.Post("/login", h.Login)
	auth.Post("/refresh", h.Refresh)
	auth.Post("/forgot-password", h.ForgotPassword)
	auth.Post("/reset-password", h.ResetPassword)

	auth.Post("/logout", authRequired, h.Logout)
	auth.Get("/me", authRequired, h.Me)
}

func (h *AuthHandler) Register(ctx *fiber.Ctx) error {
	var requestBody dto.RegisterRequest

	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}
	if requestBody.Email == "" || requestBody.Password == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	if err := h.svc.Register(ctx.UserContext(), requestBody); err != nil {
		status := statusFromError(err)
		if status == fiber.StatusInternalServerError {
			status = fiber.StatusBadRequest
		}
		return utils.ResponseError(ctx, status, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, "Registered. Check your email for the verification code")
}

func (h *AuthHandler) VerifyOTP(ctx *fiber.Ctx) error {
	var requestBody dto.VerifyOTPRequest

	if err := ctx.BodyParser(&requestBody); err != nil || requestBody.Email == "" || requestBody.OTP == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "email and otp are required")
	}

	tokens, err := h.svc.VerifyOTP(ctx.UserContext(), requestBody)
	if err != nil {
		return utils.ResponseError(ctx, statusFromError(err), err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, tokens)
}

func (h *AuthHandler) Login(ctx *fiber.Ctx) error {
	var requestBody dto.LoginRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "email and password are required")
	}

	tokens, user, err := h.svc.Login(ctx.UserContext(), requestBody)
	if err != nil {
		return utils.ResponseError(ctx, statusFromError(err), err.Error())
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"tokens": tokens,
		"user":   user,
	})
}

func (h *AuthHandler) Refresh(ctx *fiber.Ctx) error {
	var requestBody dto.RefreshRequest
	if err := ctx.BodyParser(&requestBody); err != nil || requestBody.RefreshToken == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "refresh_token is required")
	}

	tokens, err := h.svc.Refresh(ctx.UserContext(), requestBody.RefreshToken)
	if err != nil {
		return utils.ResponseError(ctx, statusFromError(err), err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, tokens)
}

func (h *AuthHandler) ForgotPassword(ctx *fiber.Ctx) error {
	var requestBody dto.ForgotPasswordRequest

	if err := ctx.BodyParser(&requestBody); err != nil || requestBody.Email == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid email id")
	}

	if err := h.svc.ForgotPassword(ctx.UserContext(), requestBody.Email); err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "If the account exists, a reset code has been sent")
}

func (h *AuthHandler) ResetPassword(ctx *fiber.Ctx) error {
	var requestBody dto.ResetPasswordRequest

	if err := ctx.BodyParser(&requestBody); err != nil || requestBody.Email == "" || requestBody.OTP == "" || requestBody.NewPassword == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid input")
	}

	if err := h.svc.ResetPassword(ctx.UserContext(), requestBody); err != nil {
		status := statusFromError(err)
		if status == fiber.StatusInternalServerError {
			status = fiber.StatusBadRequest
		}
		return utils.ResponseError(ctx, status, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "Password reset successfully")
}

func (h *AuthHandler) Logout(ctx *fiber.Ctx) error {
	claims, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, err.Error())
	}

	if err := h.svc.Logout(ctx.UserContext(), claims); err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "Logged out")
}

func (h *AuthHandler) Me(ctx *fiber.Ctx) error {
	claims, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, err.Error())
	}

	user, err := h.svc.GetProfile(claims.UserID)
	if err != nil {
		return utils.ResponseError(ctx, statusFromError(err), err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, user)
}
