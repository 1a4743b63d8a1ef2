package routes

import (
	"github.com/anjiri1684/agriconnect/handlers"
	"github.com/gofiber/fiber/v2"
)

func UploadRoutes(api fiber.Router, h *handlers.Handler, protected fiber.Handler) {
	api.Get("/uploads/signature", protected, h.UploadSignature)
}
