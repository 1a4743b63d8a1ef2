package handlers

import (
	"time"

	"github.com/anjiri1684/agriconnect/middleware"
	"github.com/anjiri1684/agriconnect/models"
	"github.com/gofiber/fiber/v2"
)

type SignUpRequest struct {
	FullName string  `json:"full_name" validate:"required,min=2"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6"`
	UserType string  `json:"user_type" validate:"omitempty,oneof=farmer expert"`
	Location *string `json:"location,omitempty"`
	FarmType *string `json:"farm_type,omitempty"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	ID        string              `json:"id"`
	Email     string              `json:"email"`
	Metadata  models.UserMetadata `json:"user_metadata"`
	CreatedAt time.Time           `json:"created_at"`
}

func userResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		Metadata:  u.Metadata(),
		CreatedAt: u.CreatedAt,
	}
}

func (h *Handler) SignUp(c *fiber.Ctx) error {
	var req SignUpRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}

	user, err := h.Auth.SignUp(c.UserContext(), req.Email, req.Password, models.UserMetadata{
		FullName: req.FullName,
		Role:     models.Role(req.UserType),
		Location: req.Location,
		FarmType: req.FarmType,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(userResponse(user))
}

func (h *Handler) SignIn(c *fiber.Ctx) error {
	var req SignInRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}

	token, session, err := h.Auth.SignIn(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"token": token, "session": session})
}

func (h *Handler) SignOut(c *fiber.Ctx) error {
	if err := h.Auth.SignOut(c.UserContext(), middleware.CurrentSession(c)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Signed out"})
}

func (h *Handler) Me(c *fiber.Ctx) error {
	user, err := h.Auth.CurrentUser(c.UserContext(), middleware.CurrentSession(c))
	if err != nil {
		return err
	}
	if user == nil {
		return c.JSON(fiber.Map{"user": nil})
	}
	return c.JSON(fiber.Map{"user": userResponse(user)})
}
