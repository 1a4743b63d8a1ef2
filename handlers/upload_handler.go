package handlers

import (
	"github.com/anjiri1684/agriconnect/middleware"
	"github.com/anjiri1684/agriconnect/services"
	"github.com/gofiber/fiber/v2"
)

// UploadSignature creates a secure signature for a frontend upload.
func (h *Handler) UploadSignature(c *fiber.Ctx) error {
	kind := services.UploadKind(c.Query("kind", string(services.UploadAvatar)))
	sig, err := h.Uploads.Sign(middleware.CurrentSession(c), kind)
	if err != nil {
		return err
	}
	return c.JSON(sig)
}
