package handlers

import (
	"strconv"

	"github.com/faceofmind/server/internal/domain"
	"github.com/faceofmind/server/internal/dto"
	"github.com/faceofmind/server/internal/helper"
	"github.com/faceofmind/server/internal/helper/utils"
	"github.com/faceofmind/server/internal/services"
	"github.com/gofiber/fiber/v2"
)

type CommunityHandler struct {
	svc  services.CommunityService
	auth helper.Auth
}

func NewCommunityHandler(svc services.CommunityService, auth helper.Auth) *CommunityHandler {
	return &CommunityHandler{svc: svc, auth: auth}
}

func (h *CommunityHandler) SetupRoutes(app *fiber.App, authRequired fiber.Handler) {
	api := app.Group("/api")
	community := api.Group("/community", authRequired)

	community.Post("/posts", h.CreatePost)
	community.Get("/posts", h.ListPosts)
	community.Get("/posts/:postID", h.GetPost)
	community.Put("/posts/:postID", h.UpdatePost)
	community.Delete("/posts/:postID", h.DeletePost)

	community.Post("/posts/:postID/comments", h.CreateComment)
	community.Get("/posts/:postID/comments", h.ListComments)
	community.Put("/comments/:commentID", h.UpdateComment)
	community.Delete("/comments/:commentID", h.DeleteComment)
}

func idParam(ctx *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(ctx.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	return uint(id), nil
}

func (h *CommunityHandler) CreatePost(ctx *fiber.Ctx) error {
	claims, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, err.Error())
	}

	var requestBody dto.PostRequest
	if err := ctx.BodyParser(&requestBody); err != nil || requestBody.Content == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "content is required")
	}

	post, err := h.svc.CreatePost(claims.UserID, requestBody.Content)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, post)
}

func (h *CommunityHandler) ListPosts(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 100)
	offset := ctx.QueryInt("skip", 0)

	posts, err := h.svc.ListPosts(limit, offset)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, posts)
}

func (h *CommunityHandler) GetPost(ctx *fiber.Ctx) error {
	postID, err := idParam(ctx, "postID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	post, err := h.svc.GetPost(postID)
	if err != nil {
		return utils.ResponseError(ctx, statusFromError(err), err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, post)
}

func (h *CommunityHandler) UpdatePost(ctx *fiber.Ctx) error {
	claims, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, err.Error())
	}
	postID, err := idParam(ctx, "postID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	var requestBody dto.PostRequest
	if err := ctx.BodyParser(&requestBody); err != nil || requestBody.Content == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "content is required")
	}

	post, err := h.svc.UpdatePost(claims.UserID, postID, requestBody.Content)
	if err != nil {
		return utils.ResponseError(ctx, statusFromError(err), err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, post)
}

func (h *CommunityHandler) DeletePost(ctx *fiber.Ctx) error {
	claims, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, err.Error())
	}
	postID, err := idParam(ctx, "postID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	if err := h.svc.DeletePost(claims.UserID, postID, claims.Role == domain.RoleAdmin); err != nil {
		return utils.ResponseError(ctx, statusFromError(err), err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "Post deleted successfully")
}

func (h *CommunityHandler) CreateComment(ctx *fiber.Ctx) error {
	claims, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, err.Error())
	}
	postID, err := idParam(ctx, "postID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	var requestBody dto.CommentRequest
	if err := ctx.BodyParser(&requestBody); err != nil || requestBody.Content == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "content is required")
	}

	comment, err := h.svc.CreateComment(claims.UserID, postID, requestBody.Content)
	if err != nil {
		return utils.ResponseError(ctx, statusFromError(err), err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, comment)
}

func (h *CommunityHandler) ListComments(ctx *fiber.Ctx) error {
	postID, err := idParam(ctx, "postID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	comments, err := h.svc.ListComments(postID)
	if err != nil {
		return utils.ResponseError(ctx, statusFromError(err), err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, comments)
}

func (h *CommunityHandler) UpdateComment(ctx *fiber.Ctx) error {
	claims, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, err.Error())
	}
	commentID, err := idParam(ctx, "commentID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	var requestBody dto.CommentRequest
	if err := ctx.BodyParser(&requestBody); err != nil || requestBody.Content == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "content is required")
	}

	comment, err := h.svc.UpdateComment(claims.UserID, commentID, requestBody.Content)
	if err != nil {
		return utils.ResponseError(ctx, statusFromError(err), err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, comment)
}

func (h *CommunityHandler) DeleteComment(ctx *fiber.Ctx) error {
	claims, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, err.Error())
	}
	commentID, err := idParam(ctx, "commentID")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	if err := h.svc.DeleteComment(claims.UserID, commentID, claims.Role == domain.RoleAdmin); err != nil {
		return utils.ResponseError(ctx, statusFromError(err), err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "Comment deleted successfully")
}
