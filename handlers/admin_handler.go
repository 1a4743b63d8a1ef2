package handlers

import (
	"github.com/anjiri1684/agriconnect/middleware"
	"github.com/gofiber/fiber/v2"
)

type ApplicationDecisionRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

func (h *Handler) PendingApplications(c *fiber.Ctx) error {
	experts, err := h.Experts.ListPending(c.UserContext(), middleware.CurrentSession(c))
	if err != nil {
		return err
	}
	return c.JSON(experts)
}

func (h *Handler) DecideApplication(c *fiber.Ctx) error {
	id, err := paramUUID(c, "expertId")
	if err != nil {
		return err
	}
	var req ApplicationDecisionRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}

	expert, err := h.Experts.Decide(c.UserContext(), middleware.CurrentSession(c), id, req.Status == "approved")
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Application status updated successfully", "expert": expert})
}
