package routes

import (
	"github.com/anjiri1684/agriconnect/handlers"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func RealtimeRoutes(api fiber.Router, h *handlers.Handler) {
	api.Use("/ws", handlers.UpgradeRequired)
	api.Get("/ws", websocket.New(h.ServeWs))
}
