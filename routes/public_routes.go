package routes

import (
	"github.com/anjiri1684/agriconnect/handlers"
	"github.com/gofiber/fiber/v2"
)

func PublicRoutes(app *fiber.App, api fiber.Router, h *handlers.Handler) {
	app.Get("/health", h.Health)

	ref := api.Group("/reference")
	ref.Get("/regions", h.Regions)
	ref.Get("/crops", h.Crops)
	ref.Get("/soil", h.Regions)
	ref.Get("/soil/:region", h.Soil)
	ref.Get("/weather", h.WeatherLocations)
	ref.Get("/weather/:location", h.Weather)

	api.Get("/community/groups", h.CommunityGroups)
	api.Get("/articles", h.Articles)
}
