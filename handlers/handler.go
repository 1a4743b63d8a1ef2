package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/anjiri1684/agriconnect/apperror"
	"github.com/anjiri1684/agriconnect/models"
	"github.com/anjiri1684/agriconnect/reference"
	"github.com/anjiri1684/agriconnect/services"
	"github.com/anjiri1684/agriconnect/websocket"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handler struct {
	Auth     *services.AuthService
	Experts  *services.ExpertService
	Bookings *services.BookingService
	Reviews  *services.ReviewService
	Uploads  *services.UploadService
	Catalog  *reference.Catalog
	Hub      *websocket.Hub
	Logger   *slog.Logger

	validate *validator.Validate
}

func New(h Handler) *Handler {
	h.validate = newValidator()
	return &h
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("specialization", func(fl validator.FieldLevel) bool {
		return models.Specialization(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("experience", func(fl validator.FieldLevel) bool {
		return models.ExperienceBand(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("availability", func(fl validator.FieldLevel) bool {
		return models.AvailabilityBand(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("slot_time", func(fl validator.FieldLevel) bool {
		_, err := models.ParseSlotTime(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("civil_date", func(fl validator.FieldLevel) bool {
		_, err := models.ParseDate(fl.Field().String())
		return err == nil
	})
	return v
}

// bind parses the JSON body into out and validates it.
func (h *Handler) bind(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return apperror.Validation("Cannot parse JSON")
	}
	if err := h.validate.Struct(out); err != nil {
		return validationError(err)
	}
	return nil
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperror.Validation(err.Error())
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "email":
			msgs = append(msgs, fmt.Sprintf("%s must be a valid email", fe.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param()))
		case "slot_time":
			msgs = append(msgs, fmt.Sprintf("%s must be HH:MM", fe.Field()))
		case "civil_date":
			msgs = append(msgs, fmt.Sprintf("%s must be YYYY-MM-DD", fe.Field()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
		}
	}
	return apperror.Validation(strings.Join(msgs, "; "))
}

func paramUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperror.Validation(fmt.Sprintf("%s must be a valid id", name))
	}
	return id, nil
}

func queryDate(c *fiber.Ctx) (models.Date, error) {
	d, err := models.ParseDate(c.Query("date"))
	if err != nil {
		return models.Date{}, apperror.Validation("date must be YYYY-MM-DD")
	}
	return d, nil
}

// ErrorHandler renders every error as {"status":"error","code":...,"message":...}.
// Collaborator failures are logged with their cause and reported generically.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal Server Error"

		var appErr *apperror.Error
		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &appErr):
			code = apperror.HTTPStatus(appErr.Kind)
			message = appErr.Message
			if appErr.Kind == apperror.KindCollaborator && message == "" {
				message = "Internal Server Error"
			}
		case errors.As(err, &fiberErr):
			code = fiberErr.Code
			message = fiberErr.Message
		}

		if code >= fiber.StatusInternalServerError {
			logger.Error("request failed", "error", err, "path", c.Path(), "method", c.Method())
		} else {
			logger.Debug("request rejected", "error", err, "path", c.Path(), "method", c.Method(), "code", code)
		}
		return c.Status(code).JSON(fiber.Map{
			"status":  "error",
			"code":    code,
			"message": message,
		})
	}
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
