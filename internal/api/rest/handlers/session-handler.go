package handlers

import (
	"strconv"

	"github.com/faceofmind/server/internal/dto"
	"github.com/faceofmind/server/internal/helper"
	"github.com/faceofmind/server/internal/helper/utils"
	"github.com/faceofmind/server/internal/services"
	"github.com/gofiber/fiber/v2"
)

type SessionHandler struct {
	sessions services.SessionService
	wellness services.WellnessService
	auth     helper.Auth
}

func NewSessionHandler(sessions services.SessionService, wellness services.WellnessService, auth helper.Auth) *SessionHandler {
	return &SessionHandler{sessions: sessions, wellness: wellness, auth: auth}
}

func (h *SessionHandler) SetupRoutes(app *fiber.App, authRequired fiber.Handler) {
	api := app.Group("/api")
	sessions := api.Group("/sessions", authRequired)

	sessions.Post("/", h.StartSession)
	sessions.Get("/", h.ListSessions)
	sessions.Get("/diagnosis", h.GetDiagnosis)
	sessions.Get("/:sessionID", h.GetSession)
	sessions.Patch("/:sessionID/end", h.EndSession)
	sessions.Delete("/:sessionID", h.DeleteSession)
	sessions.Get("/:sessionID/history", h.GetHistory)
	sessions.Post("/:sessionID/detections", h.RecordDetection)
	sessions.Post("/:sessionID/feedback", h.SubmitFeedback)
}

func (h *SessionHandler) currentUserID(ctx *fiber.Ctx) (uint, error) {
	claims, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}

func sessionIDParam(ctx *fiber.Ctx) (uint, error) {
	raw := ctx.Params("sessionID")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}
	return uint(id), nil
}

func (h *SessionHandler) StartSession(ctx *fiber.Ctx) error {
	userID, err := h.currentUserID(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, err.Error())
	}

	session, err := h.sessions.StartSession(userID)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, session)
}

func (h *SessionHandler) ListSessions(ctx *fiber.Ctx) error {
	userID, err := h.currentUserID(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, err.Error())
	}

	limit := ctx.QueryInt("limit", 100)
	offset := ctx.QueryInt("skip", 0)

	sessions, err := h.sessions.ListSessions(userID, limit, offset)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, sessions)
}

func (h *SessionHandler) GetSession(ctx *fiber.Ctx) error {
	userID, err := h.currentUserID(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, err.Error())
	}
	sessionID, err := sessionIDParam(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	session, err := h.sessions.GetSession(userID, sessionID)
	if err != nil {
		return utils.ResponseError(ctx, statusFromError(err), err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, session)
}

func (h *SessionHandler) EndSession(ctx *fiber.Ctx) error {
	userID, err := h.currentUserID(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, err.Error())
	}
	sessionID, err := sessionIDParam(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	if err := h.sessions.EndSession(userID, sessionID); err != nil {
		return utils.ResponseError(ctx, statusFromError(err), err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "Session ended successfully")
}

func (h *SessionHandler) DeleteSession(ctx *fiber.Ctx) error {
	userID, err := h.currentUserID(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, err.Error())
	}
	sessionID, err := sessionIDParam(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	if err := h.sessions.DeleteSession(userID, sessionID); err != nil {
		return utils.ResponseError(ctx, statusFromError(err), err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "Session deleted successfully")
}

func (h *SessionHandler) GetHistory(ctx *fiber.Ctx) error {
	userID, err := h.currentUserID(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, err.Error())
	}
	sessionID, err := sessionIDParam(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	history, err := h.sessions.GetHistory(userID, sessionID)
	if err != nil {
		return utils.ResponseError(ctx, statusFromError(err), err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, history)
}

func (h *SessionHandler) RecordDetection(ctx *fiber.Ctx) error {
	userID, err := h.currentUserID(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, err.Error())
	}
	sessionID, err := sessionIDParam(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	var requestBody dto.RecordDetectionRequest
	if err := ctx.BodyParser(&requestBody); err != nil || requestBody.Emotion == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "emotion is required")
	}

	result, err := h.wellness.RecordDetection(ctx.UserContext(), userID, sessionID, requestBody)
	if err != nil {
		return utils.ResponseError(ctx, statusFromError(err), err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, result)
}

func (h *SessionHandler) SubmitFeedback(ctx *fiber.Ctx) error {
	userID, err := h.currentUserID(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, err.Error())
	}
	sessionID, err := sessionIDParam(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	var requestBody dto.FeedbackRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "comment and rating are required")
	}

	feedback, err := h.sessions.SubmitFeedback(userID, sessionID, requestBody)
	if err != nil {
		status := statusFromError(err)
		if status == fiber.StatusInternalServerError {
			status = fiber.StatusBadRequest
		}
		return utils.ResponseError(ctx, status, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, feedback)
}

func (h *SessionHandler) GetDiagnosis(ctx *fiber.Ctx) error {
	userID, err := h.currentUserID(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, err.Error())
	}

	windowDays := ctx.QueryInt("window_days", 7)

	diagnosis, err := h.wellness.GetDiagnosis(ctx.UserContext(), userID, windowDays)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, diagnosis)
}
