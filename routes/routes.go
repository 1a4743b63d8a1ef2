package routes

import (
	"github.com/anjiri1684/agriconnect/handlers"
	"github.com/anjiri1684/agriconnect/middleware"
	"github.com/gofiber/fiber/v2"
)

// Register mounts every route under /api/v1.
func Register(app *fiber.App, h *handlers.Handler) {
	api := app.Group("/api/v1")
	protected := middleware.Protected(h.Auth)

	PublicRoutes(app, api, h)
	AuthRoutes(api, h, protected)
	ProfileRoutes(api, h, protected)
	ExpertRoutes(api, h, protected)
	BookingRoutes(api, h, protected)
	AdminRoutes(api, h, protected)
	UploadRoutes(api, h, protected)
	RealtimeRoutes(api, h)
}
