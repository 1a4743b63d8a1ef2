package handlers

import (
	"github.com/anjiri1684/agriconnect/middleware"
	"github.com/anjiri1684/agriconnect/services"
	"github.com/gofiber/fiber/v2"
)

type UpdateProfileRequest struct {
	FullName  *string `json:"full_name" validate:"omitempty,min=2"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,url"`
	Location  *string `json:"location"`
	FarmType  *string `json:"farm_type"`
}

func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	var req UpdateProfileRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}

	user, err := h.Auth.UpdateProfile(c.UserContext(), middleware.CurrentSession(c), services.ProfileUpdate{
		FullName:  req.FullName,
		AvatarURL: req.AvatarURL,
		Location:  req.Location,
		FarmType:  req.FarmType,
	})
	if err != nil {
		return err
	}
	return c.JSON(userResponse(user))
}
