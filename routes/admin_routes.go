package routes

import (
	"github.com/anjiri1684/agriconnect/handlers"
	"github.com/anjiri1684/agriconnect/middleware"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(api fiber.Router, h *handlers.Handler, protected fiber.Handler) {
	admin := api.Group("/admin", protected, middleware.AdminRequired())
	admin.Get("/applications/pending", h.PendingApplications)
	admin.Put("/applications/:expertId", h.DecideApplication)
}
