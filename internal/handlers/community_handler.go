package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/straytracker/stray-tracker-backend/internal/dto"
	"github.com/straytracker/stray-tracker-backend/internal/middleware"
	"github.com/straytracker/stray-tracker-backend/internal/services"
)

type CommunityHandler struct {
	communityService *services.CommunityService
}

func NewCommunityHandler(communityService *services.CommunityService) *CommunityHandler {
	return &CommunityHandler{communityService: communityService}
}

func (h *CommunityHandler) CreatePost(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	post, err := h.communityService.CreatePost(c.Context(), userID, &req)
	if err != nil {
		return communityError(c, err, "Failed to create post")
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

func (h *CommunityHandler) ListPosts(c *fiber.Ctx) error {
	var sightingID, strayID *uint
	if v := c.QueryInt("sighting_id", 0); v > 0 {
		u := uint(v)
		sightingID = &u
	}
	if v := c.QueryInt("stray_id", 0); v > 0 {
		u := uint(v)
		strayID = &u
	}
	page := dto.PageParams{
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	}

	posts, err := h.communityService.ListPosts(c.Context(), sightingID, strayID, page)
	if err != nil {
		return communityError(c, err, "Failed to list posts")
	}
	return c.JSON(fiber.Map{"posts": posts})
}

func (h *CommunityHandler) GetPost(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid post id",
		})
	}

	post, err := h.communityService.GetPost(c.Context(), uint(id))
	if err != nil {
		return communityError(c, err, "Failed to load post")
	}
	return c.JSON(post)
}

func (h *CommunityHandler) DeletePost(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid post id",
		})
	}

	if err := h.communityService.DeletePost(c.Context(), uint(id), userID, middleware.CurrentRole(c)); err != nil {
		return communityError(c, err, "Failed to delete post")
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *CommunityHandler) AddComment(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid post id",
		})
	}

	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	comment, err := h.communityService.AddComment(c.Context(), uint(id), userID, req.Content)
	if err != nil {
		return communityError(c, err, "Failed to add comment")
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

func (h *CommunityHandler) DeleteComment(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid comment id",
		})
	}

	if err := h.communityService.DeleteComment(c.Context(), uint(id), userID, middleware.CurrentRole(c)); err != nil {
		return communityError(c, err, "Failed to delete comment")
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *CommunityHandler) ToggleReaction(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid post id",
		})
	}

	var req dto.ReactionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	added, err := h.communityService.ToggleReaction(c.Context(), uint(id), userID, req.Emoji)
	if err != nil {
		return communityError(c, err, "Failed to toggle reaction")
	}
	return c.JSON(fiber.Map{"added": added})
}

func (h *CommunityHandler) SuggestName(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid stray id",
		})
	}

	var req dto.SuggestNameRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	suggestion, err := h.communityService.SuggestName(c.Context(), uint(id), userID, req.Name)
	if err != nil {
		return communityError(c, err, "Failed to suggest name")
	}
	return c.Status(fiber.StatusCreated).JSON(suggestion)
}

func (h *CommunityHandler) ListNameSuggestions(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid stray id",
		})
	}

	suggestions, err := h.communityService.ListNameSuggestions(c.Context(), uint(id))
	if err != nil {
		return communityError(c, err, "Failed to list name suggestions")
	}
	return c.JSON(fiber.Map{"suggestions": suggestions})
}

func (h *CommunityHandler) VoteName(c *fiber.Ctx) error {
	id, err := c.ParamsInt("suggestion_id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid suggestion id",
		})
	}

	suggestion, err := h.communityService.VoteName(c.Context(), uint(id))
	if err != nil {
		return communityError(c, err, "Failed to vote")
	}
	return c.JSON(suggestion)
}

func (h *CommunityHandler) CreateBounty(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid stray id",
		})
	}

	var req dto.CreateBountyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	bounty, err := h.communityService.CreateBounty(c.Context(), uint(id), userID, &req)
	if err != nil {
		return communityError(c, err, "Failed to create bounty")
	}
	return c.Status(fiber.StatusCreated).JSON(bounty)
}

func (h *CommunityHandler) ListBounties(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid stray id",
		})
	}

	bounties, err := h.communityService.ListBounties(c.Context(), uint(id))
	if err != nil {
		return communityError(c, err, "Failed to list bounties")
	}
	return c.JSON(fiber.Map{"bounties": bounties})
}

func (h *CommunityHandler) CloseBounty(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := c.ParamsInt("bounty_id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid bounty id",
		})
	}

	status := c.Query("status", "closed")
	bounty, err := h.communityService.CloseBounty(c.Context(), uint(id), userID, middleware.CurrentRole(c), status)
	if err != nil {
		return communityError(c, err, "Failed to close bounty")
	}
	return c.JSON(bounty)
}

// communityError maps community service sentinels to HTTP statuses.
func communityError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrPostNotFound),
		errors.Is(err, services.ErrCommentNotFound),
		errors.Is(err, services.ErrBountyNotFound),
		errors.Is(err, services.ErrSuggestionNotFound),
		errors.Is(err, services.ErrStrayNotFound),
		errors.Is(err, services.ErrSightingNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrNotPostOwner):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: fallback,
	})
}
