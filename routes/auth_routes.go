package routes

import (
	"github.com/anjiri1684/agriconnect/handlers"
	"github.com/gofiber/fiber/v2"
)

func AuthRoutes(api fiber.Router, h *handlers.Handler, protected fiber.Handler) {
	auth := api.Group("/auth")
	auth.Post("/signup", h.SignUp)
	auth.Post("/signin", h.SignIn)
	auth.Post("/signout", protected, h.SignOut)
	auth.Get("/me", protected, h.Me)
}
