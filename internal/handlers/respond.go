package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/platform_be_valentine/internal/services/checkout"
	"github.com/Windi-Fikriyansyah/platform_be_valentine/internal/store"
)

// respondDomainErr is the single place a checkout/store error becomes a
// transport response. Anything unrecognized is a persistence failure:
// logged, reported as 500, never swallowed.
func respondDomainErr(c *fiber.Ctx, err error) error {
	var ve *checkout.ValidationError
	switch {
	case errors.As(err, &ve):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": ve.Msg,
		})
	case errors.Is(err, checkout.ErrNotFound), errors.Is(err, store.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Not found",
		})
	case errors.Is(err, checkout.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"message": "Order is not in a state that allows this action",
		})
	default:
		log.Printf("[ERROR] %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Internal server error",
		})
	}
}

// currentUserID reads the principal the JWT middleware attached, if any.
func currentUserID(c *fiber.Ctx) *uuid.UUID {
	raw := c.Locals("userId")
	if raw == nil {
		return nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil
	}
	return &id
}
