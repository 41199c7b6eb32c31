package handler

import (
	"github.com/gofiber/fiber/v2"

	"unihub/internal/http/middleware"
)

type commentRequest struct {
	Text string `json:"text" form:"text"`
}

func (h *handler) listComments(c *fiber.Ctx) error {
	id, ok := documentID(c)
	if !ok {
		return invalidID(c)
	}
	comments, err := h.engagement.ListComments(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(comments)
}

func (h *handler) addComment(c *fiber.Ctx) error {
	id, ok := documentID(c)
	if !ok {
		return invalidID(c)
	}
	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	comment, err := h.engagement.AddComment(c.UserContext(), id, middleware.CurrentUser(c), req.Text)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

func (h *handler) voteStatus(c *fiber.Ctx) error {
	id, ok := documentID(c)
	if !ok {
		return invalidID(c)
	}
	status, err := h.engagement.VoteStatus(c.UserContext(), id, userID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(status)
}

func (h *handler) toggleVote(c *fiber.Ctx) error {
	id, ok := documentID(c)
	if !ok {
		return invalidID(c)
	}
	res, err := h.engagement.ToggleVote(c.UserContext(), id, userID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(res)
}

func (h *handler) favoriteStatus(c *fiber.Ctx) error {
	id, ok := documentID(c)
	if !ok {
		return invalidID(c)
	}
	status, err := h.engagement.FavoriteStatus(c.UserContext(), id, userID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(status)
}

func (h *handler) toggleFavorite(c *fiber.Ctx) error {
	id, ok := documentID(c)
	if !ok {
		return invalidID(c)
	}
	status, err := h.engagement.ToggleFavorite(c.UserContext(), id, userID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(status)
}
