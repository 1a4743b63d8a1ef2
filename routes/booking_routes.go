package routes

import (
	"github.com/anjiri1684/agriconnect/handlers"
	"github.com/gofiber/fiber/v2"
)

func BookingRoutes(api fiber.Router, h *handlers.Handler, protected fiber.Handler) {
	booking := api.Group("/bookings", protected)
	booking.Post("", h.CreateBooking)
	booking.Get("/me", h.MyBookings)
	booking.Get("/dashboard", h.FarmerDashboard)
	booking.Post("/:bookingId/cancel", h.CancelBooking)
	booking.Post("/:bookingId/review", h.ReviewBooking)
}
