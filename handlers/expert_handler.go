package handlers

import (
	"github.com/anjiri1684/agriconnect/middleware"
	"github.com/anjiri1684/agriconnect/models"
	"github.com/anjiri1684/agriconnect/services"
	"github.com/gofiber/fiber/v2"
)

type ExpertApplicationRequest struct {
	FullName       string  `json:"full_name" validate:"required"`
	Email          string  `json:"email" validate:"omitempty,email"`
	Phone          string  `json:"phone" validate:"required"`
	Location       string  `json:"location" validate:"required"`
	Specialization string  `json:"specialization" validate:"required,specialization"`
	Experience     string  `json:"experience" validate:"required,experience"`
	Education      string  `json:"education" validate:"required"`
	Certifications string  `json:"certifications"`
	Bio            string  `json:"bio" validate:"required"`
	HourlyRate     float64 `json:"hourly_rate" validate:"required,gt=0"`
	Availability   string  `json:"availability" validate:"required,availability"`
}

type option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ExpertOptions serves the choice lists used by the directory filter and the application form.
func (h *Handler) ExpertOptions(c *fiber.Ctx) error {
	specs := make([]option, 0, len(models.Specializations))
	for _, s := range models.Specializations {
		specs = append(specs, option{Value: string(s), Label: s.Label()})
	}
	exp := make([]option, 0, 4)
	for _, e := range []models.ExperienceBand{models.Experience5To10, models.Experience10To15, models.Experience15To20, models.Experience20Plus} {
		exp = append(exp, option{Value: string(e), Label: e.Label()})
	}
	avail := make([]option, 0, 4)
	for _, a := range []models.AvailabilityBand{models.AvailabilityFullTime, models.AvailabilityPartTime, models.AvailabilityFlexible, models.AvailabilityWeekends} {
		avail = append(avail, option{Value: string(a), Label: a.Label()})
	}
	return c.JSON(fiber.Map{
		"specializations": specs,
		"experience":      exp,
		"availability":    avail,
	})
}

func (h *Handler) ListExperts(c *fiber.Ctx) error {
	experts, err := h.Experts.ListApproved(c.UserContext(), services.ExpertQuery{
		Specialization: models.Specialization(c.Query("specialization")),
		Query:          c.Query("q"),
	})
	if err != nil {
		return err
	}
	return c.JSON(experts)
}

func (h *Handler) GetExpert(c *fiber.Ctx) error {
	id, err := paramUUID(c, "expertId")
	if err != nil {
		return err
	}
	expert, err := h.Experts.GetApproved(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(expert)
}

func (h *Handler) ExpertSlots(c *fiber.Ctx) error {
	id, err := paramUUID(c, "expertId")
	if err != nil {
		return err
	}
	date, err := queryDate(c)
	if err != nil {
		return err
	}
	slots, err := h.Bookings.AvailableSlots(c.UserContext(), id, date)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"date": date, "slots": slots})
}

func (h *Handler) CheckAvailability(c *fiber.Ctx) error {
	id, err := paramUUID(c, "expertId")
	if err != nil {
		return err
	}
	date, err := queryDate(c)
	if err != nil {
		return err
	}
	at, err := models.ParseSlotTime(c.Query("time"))
	if err != nil {
		return validationError(err)
	}
	available, err := h.Bookings.CheckAvailability(c.UserContext(), id, date, at)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"available": available})
}

func (h *Handler) SubmitApplication(c *fiber.Ctx) error {
	var req ExpertApplicationRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}

	expert, err := h.Experts.SubmitApplication(c.UserContext(), middleware.CurrentSession(c), services.ExpertApplication{
		FullName:       req.FullName,
		Email:          req.Email,
		Phone:          req.Phone,
		Location:       req.Location,
		Specialization: models.Specialization(req.Specialization),
		Experience:     models.ExperienceBand(req.Experience),
		Education:      req.Education,
		Certifications: req.Certifications,
		Bio:            req.Bio,
		HourlyRate:     req.HourlyRate,
		Availability:   models.AvailabilityBand(req.Availability),
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(expert)
}

func (h *Handler) MyApplication(c *fiber.Ctx) error {
	expert, err := h.Experts.GetUserApplication(c.UserContext(), middleware.CurrentSession(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"application": expert})
}
