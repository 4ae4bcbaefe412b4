package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"cv-smart/internal/domain"
	"cv-smart/internal/usecase"
)

const identityLocal = "identity"

// guestCookie is the durable per-browser guest id. It survives restarts so a
// guest keeps the same owner key across visits.
const guestCookie = "cv_guest_id"

// IdentityMiddleware resolves the caller to an owner identity on every
// request. A valid bearer token wins over the guest cookie; anything invalid
// degrades silently to guest.
func IdentityMiddleware(resolver *usecase.IdentityResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := ""
		if auth := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(auth, "Bearer ") {
			token = strings.TrimPrefix(auth, "Bearer ")
		}

		identity := resolver.Resolve(c.Cookies(guestCookie), token)
		if identity.Guest {
			c.Cookie(&fiber.Cookie{
				Name:     guestCookie,
				Value:    identity.Key(),
				Expires:  time.Now().AddDate(1, 0, 0),
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}

		c.Locals(identityLocal, identity)
		return c.Next()
	}
}

func identityFrom(c *fiber.Ctx) domain.Identity {
	if id, ok := c.Locals(identityLocal).(domain.Identity); ok {
		return id
	}
	return domain.NewGuest()
}

// RequireAdmin rejects non-admin callers before the handler runs.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !identityFrom(c).IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "admin access required"})
		}
		return c.Next()
	}
}
