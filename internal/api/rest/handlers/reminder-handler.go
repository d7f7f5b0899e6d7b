package handlers

import (
	"github.com/faceofmind/server/internal/dto"
	"github.com/faceofmind/server/internal/helper"
	"github.com/faceofmind/server/internal/helper/utils"
	"github.com/faceofmind/server/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ReminderHandler struct {
	svc  services.ReminderService
	auth helper.Auth
}

func NewReminderHandler(svc services.ReminderService, auth helper.Auth) *ReminderHandler {
	return &ReminderHandler{svc: svc, auth: auth}
}

func (h *ReminderHandler) SetupRoutes(app *fiber.App, authRequired fiber.Handler) {
	api := app.Group("/api")
	reminders := api.Group("/reminders", authRequired)

	reminders.Post("/", h.CreateReminder)
	reminders.Get("/", h.ListReminders)
	reminders.Get("/:reminderID", h.GetReminder)
	reminders.Put("/:reminderID", h.UpdateReminder)
	reminders.Delete("/:reminderID", h.DeleteReminder)
}

func (h *ReminderHandler) CreateReminder(ctx *fiber.Ctx) error {
	claims, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, err.Error())
	}

	var requestBody dto.ReminderRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	reminder, err := h.svc.CreateReminder(claims.UserID, requestBody)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, reminder)
}

func (h *ReminderHandler) ListReminders(ctx *fiber.Ctx) error {
	claims, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, err.Error())
	}

	reminders, err := h.svc.ListReminders(claims.UserID)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, reminders)
}

func (h *ReminderHandler) GetReminder(ctx *fiber.Ctx) error {
	claims, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, err.Error())
	}
	reminderID, err := idParam(ctx, "reminderID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	reminder, err := h.svc.GetReminder(claims.UserID, reminderID)
	if err != nil {
		return utils.ResponseError(ctx, statusFromError(err), err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, reminder)
}

func (h *ReminderHandler) UpdateReminder(ctx *fiber.Ctx) error {
	claims, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, err.Error())
	}
	reminderID, err := idParam(ctx, "reminderID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	var requestBody dto.ReminderRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	reminder, err := h.svc.UpdateReminder(claims.UserID, reminderID, requestBody)
	if err != nil {
		status := statusFromError(err)
		if status == fiber.StatusInternalServerError {
			status = fiber.StatusBadRequest
		}
		return utils.ResponseError(ctx, status, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, reminder)
}

func (h *ReminderHandler) DeleteReminder(ctx *fiber.Ctx) error {
	claims, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, err.Error())
	}
	reminderID, err := idParam(ctx, "reminderID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	if err := h.svc.DeleteReminder(claims.UserID, reminderID); err != nil {
		return utils.ResponseError(ctx, statusFromError(err), err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "Reminder deleted successfully")
}
