package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"cv-smart/internal/domain"
)

// respondError maps stage-boundary errors onto HTTP statuses. Unknown errors
// become opaque 500s; internals never leak to the client.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "operation not available at the current step"})
	case errors.Is(err, domain.ErrValidationFailed):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "mandatory fields missing"})
	case errors.Is(err, domain.ErrExtractionFailed):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "document extraction failed, please try again"})
	case errors.Is(err, domain.ErrCompositionIncomplete):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "resume generation failed, please try again"})
	case errors.Is(err, domain.ErrPaymentIndeterminate):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "payment status unavailable, please try again"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	case errors.Is(err, domain.ErrEmailTaken):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "email already registered"})
	case errors.Is(err, domain.ErrBadCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid email or password"})
	case errors.Is(err, domain.ErrCascadeDeleteFailed):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "member deletion incomplete, remaining records require manual cleanup"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
}
