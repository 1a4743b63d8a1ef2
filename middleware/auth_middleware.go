package middleware

import (
	"github.com/anjiri1684/agriconnect/apperror"
	"github.com/anjiri1684/agriconnect/models"
	"github.com/anjiri1684/agriconnect/services"
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
)

const sessionKey = "session"

// Protected verifies the bearer token and stores the caller's session in Locals.
func Protected(auth *services.AuthService) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   auth.Secret(),
		ErrorHandler: jwtError,
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := c.Locals("user").(*jwt.Token)
			if !ok {
				return apperror.Unauthenticated("Missing or malformed JWT")
			}
			session, err := auth.Authorize(c.UserContext(), token)
			if err != nil {
				return err
			}
			c.Locals(sessionKey, session)
			return c.Next()
		},
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return apperror.Unauthenticated("Missing or malformed JWT")
	}
	return apperror.Unauthenticated("Invalid or expired JWT")
}

// CurrentSession returns the session stored by Protected, or nil.
func CurrentSession(c *fiber.Ctx) *models.Session {
	session, _ := c.Locals(sessionKey).(*models.Session)
	return session
}

func AdminRequired() fiber.Handler {
	return roleRequired(models.RoleAdmin, "Forbidden: Admin access required")
}

func roleRequired(role models.Role, msg string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session := CurrentSession(c)
		if session == nil {
			return apperror.Unauthenticated("Missing or malformed JWT")
		}
		if !session.HasRole(role) {
			return apperror.Forbidden(msg)
		}
		return c.Next()
	}
}
