package handlers

import (
	"github.com/faceofmind/server/internal/dto"
	"github.com/faceofmind/server/internal/helper/utils"
	"github.com/faceofmind/server/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	users     services.UserService
	analytics services.AnalyticsService
	sessions  services.SessionService
}

func NewAdminHandler(users services.UserService, analytics services.AnalyticsService, sessions services.SessionService) *AdminHandler {
	return &AdminHandler{users: users, analytics: analytics, sessions: sessions}
}

func (h *AdminHandler) SetupRoutes(app *fiber.App, authRequired, adminOnly fiber.Handler) {
	api := app.Group("/api")
	admin := api.Group("/admin")

	admin.Post("/login", h.Login)

	protected := admin.Group("", authRequired, adminOnly)
	protected.Get("/users", h.ListUsers)
	protected.Patch("/users/status", h.SetStatus)
	protected.Get("/analytics", h.GetAnalytics)
	protected.Get("/analytics/all", h.GetAllAnalytics)
	protected.Get("/feedback", h.ListFeedback)
}

func (h *AdminHandler) Login(ctx *fiber.Ctx) error {
	var requestBody dto.LoginRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "email and password are required")
	}

	tokens, user, err := h.users.AdminLogin(ctx.UserContext(), requestBody)
	if err != nil {
		return utils.ResponseError(ctx, statusFromError(err), err.Error())
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"tokens": tokens,
		"user":   user,
	})
}

func (h *AdminHandler) ListUsers(ctx *fiber.Ctx) error {
	filter := dto.UserListFilter{
		Status:   ctx.Query("status"),
		Role:     ctx.Query("role"),
		Query:    ctx.Query("q"),
		Page:     ctx.QueryInt("page", 1),
		PageSize: ctx.QueryInt("page_size", 15),
	}

	result, err := h.users.ListUsers(ctx.UserContext(), filter)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, result)
}

func (h *AdminHandler) SetStatus(ctx *fiber.Ctx) error {
	var requestBody dto.UpdateStatusRequest
	if err := ctx.BodyParser(&requestBody); err != nil || requestBody.ID == 0 || requestBody.Status == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "id and status are required")
	}

	if err := h.users.SetStatus(ctx.UserContext(), requestBody.ID, requestBody.Status); err != nil {
		status := statusFromError(err)
		if status == fiber.StatusInternalServerError {
			status = fiber.StatusBadRequest
		}
		return utils.ResponseError(ctx, status, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "User status updated successfully")
}

func (h *AdminHandler) GetAnalytics(ctx *fiber.Ctx) error {
	period := ctx.Query("period", "week")

	result, err := h.analytics.GetUserAnalytics(ctx.UserContext(), period)
	if err != nil {
		return utils.ResponseError(ctx, statusFromError(err), err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, result)
}

func (h *AdminHandler) GetAllAnalytics(ctx *fiber.Ctx) error {
	result, err := h.analytics.GetAllPeriods(ctx.UserContext())
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, result)
}

func (h *AdminHandler) ListFeedback(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 100)
	offset := ctx.QueryInt("skip", 0)

	feedback, err := h.sessions.ListFeedback(limit, offset)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, feedback)
}
