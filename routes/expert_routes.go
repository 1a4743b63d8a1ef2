package routes

import (
	"github.com/anjiri1684/agriconnect/handlers"
	"github.com/gofiber/fiber/v2"
)

func ExpertRoutes(api fiber.Router, h *handlers.Handler, protected fiber.Handler) {
	experts := api.Group("/experts")
	experts.Get("", h.ListExperts)
	experts.Get("/options", h.ExpertOptions)
	experts.Post("/applications", protected, h.SubmitApplication)
	experts.Get("/applications/me", protected, h.MyApplication)
	experts.Get("/:expertId", h.GetExpert)
	experts.Get("/:expertId/slots", h.ExpertSlots)
	experts.Get("/:expertId/availability", h.CheckAvailability)

	// The expert's own inbox of consultation requests.
	api.Get("/expert/bookings", protected, h.ExpertBookings)
	api.Patch("/expert/bookings/:bookingId/status", protected, h.UpdateBookingStatus)
}
