package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"unihub/internal/http/middleware"
	"unihub/internal/service"
)

type registerRequest struct {
	Fullname   string  `json:"fullname" form:"fullname"`
	Email      string  `json:"email" form:"email"`
	University string  `json:"university" form:"university"`
	Password   string  `json:"password" form:"password"`
	Major      *string `json:"major" form:"major"`
}

// loginRequest accepts either "email" or the OAuth2 form field "username".
type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" form:"current_password"`
	NewPassword     string `json:"new_password" form:"new_password"`
}

func badBody(c *fiber.Ctx) error {
	return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
}

// register godoc
// @Summary Create an account
// @Tags auth
// @Accept json
// @Produce json
// @Success 201 {object} model.TokenResponse
// @Router /api/register [post]
func (h *handler) register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	res, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Fullname:   req.Fullname,
		Email:      req.Email,
		University: req.University,
		Password:   req.Password,
		Major:      req.Major,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// login godoc
// @Summary Exchange credentials for a bearer token
// @Tags auth
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Success 200 {object} model.TokenResponse
// @Router /api/login [post]
func (h *handler) login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	email := req.Email
	if email == "" {
		email = req.Username
	}
	if email == "" || req.Password == "" {
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "email and password are required")
	}
	res, err := h.auth.Login(c.UserContext(), email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
		}
		return h.fail(c, err)
	}
	return c.JSON(res)
}

func (h *handler) me(c *fiber.Ctx) error {
	return c.JSON(middleware.CurrentUser(c))
}

// updateProfile takes a multipart form; the "avatar" part is optional.
func (h *handler) updateProfile(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	in := service.ProfileInput{
		Fullname:   c.FormValue("fullname"),
		University: c.FormValue("university"),
	}
	if major := c.FormValue("major"); major != "" {
		in.Major = &major
	}

	if fh, err := c.FormFile("avatar"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()
		in.Avatar = &service.AvatarUpload{
			Reader:      f,
			Filename:    fh.Filename,
			ContentType: fh.Header.Get(fiber.HeaderContentType),
			Size:        fh.Size,
		}
	}

	updated, err := h.auth.UpdateProfile(c.UserContext(), user.ID, in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Profile updated", "user": updated})
}

func (h *handler) changePassword(c *fiber.Ctx) error {
	var req changePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	user := middleware.CurrentUser(c)
	if err := h.auth.ChangePassword(c.UserContext(), user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Password changed"})
}

func (h *handler) avatar(c *fiber.Ctx) error {
	rc, info, err := h.auth.Avatar(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	if info.ContentType != "" {
		c.Set(fiber.HeaderContentType, info.ContentType)
	}
	c.Set(fiber.HeaderCacheControl, "no-cache")
	return c.SendStream(rc)
}
