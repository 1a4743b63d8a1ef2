package routes

import (
	"github.com/anjiri1684/agriconnect/handlers"
	"github.com/gofiber/fiber/v2"
)

func ProfileRoutes(api fiber.Router, h *handlers.Handler, protected fiber.Handler) {
	profile := api.Group("/profile/me", protected)
	profile.Get("", h.Me)
	profile.Put("", h.UpdateProfile)
}
