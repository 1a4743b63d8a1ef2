package handlers

import (
	"github.com/anjiri1684/agriconnect/middleware"
	"github.com/anjiri1684/agriconnect/models"
	"github.com/anjiri1684/agriconnect/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	ExpertID           string `json:"expert_id" validate:"required,uuid"`
	BookingDate        string `json:"booking_date" validate:"required,civil_date"`
	BookingTime        string `json:"booking_time" validate:"required,slot_time"`
	DurationMinutes    int    `json:"duration_minutes" validate:"required,oneof=30 60 90 120"`
	FarmerName         string `json:"farmer_name"`
	FarmerEmail        string `json:"farmer_email" validate:"omitempty,email"`
	FarmerPhone        string `json:"farmer_phone" validate:"required"`
	ConsultationReason string `json:"consultation_reason" validate:"required"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed completed cancelled"`
}

type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

func (h *Handler) CreateBooking(c *fiber.Ctx) error {
	var req CreateBookingRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	date, _ := models.ParseDate(req.BookingDate)
	at, _ := models.ParseSlotTime(req.BookingTime)

	booking, err := h.Bookings.Create(c.UserContext(), middleware.CurrentSession(c), services.BookingRequest{
		ExpertID:    uuid.MustParse(req.ExpertID),
		Date:        date,
		Time:        at,
		Duration:    models.Duration(req.DurationMinutes),
		FarmerName:  req.FarmerName,
		FarmerEmail: req.FarmerEmail,
		FarmerPhone: req.FarmerPhone,
		Reason:      req.ConsultationReason,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(booking)
}

func (h *Handler) MyBookings(c *fiber.Ctx) error {
	bookings, err := h.Bookings.FarmerBookings(c.UserContext(), middleware.CurrentSession(c))
	if err != nil {
		return err
	}
	return c.JSON(bookings)
}

func (h *Handler) FarmerDashboard(c *fiber.Ctx) error {
	dash, err := h.Bookings.FarmerDashboard(c.UserContext(), middleware.CurrentSession(c))
	if err != nil {
		return err
	}
	return c.JSON(dash)
}

func (h *Handler) CancelBooking(c *fiber.Ctx) error {
	id, err := paramUUID(c, "bookingId")
	if err != nil {
		return err
	}
	booking, err := h.Bookings.Cancel(c.UserContext(), middleware.CurrentSession(c), id)
	if err != nil {
		return err
	}
	return c.JSON(booking)
}

func (h *Handler) ReviewBooking(c *fiber.Ctx) error {
	id, err := paramUUID(c, "bookingId")
	if err != nil {
		return err
	}
	var req ReviewRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	review, err := h.Reviews.Create(c.UserContext(), middleware.CurrentSession(c), id, req.Rating, req.Comment)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

func (h *Handler) ExpertBookings(c *fiber.Ctx) error {
	bookings, err := h.Bookings.ExpertBookings(c.UserContext(), middleware.CurrentSession(c))
	if err != nil {
		return err
	}
	return c.JSON(bookings)
}

func (h *Handler) UpdateBookingStatus(c *fiber.Ctx) error {
	id, err := paramUUID(c, "bookingId")
	if err != nil {
		return err
	}
	var req UpdateBookingStatusRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	booking, err := h.Bookings.UpdateStatus(c.UserContext(), middleware.CurrentSession(c), id, models.BookingStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(booking)
}
