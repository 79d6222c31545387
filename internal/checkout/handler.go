package checkout

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/tooniwear/storefront-backend/internal/metrics"
	"github.com/tooniwear/storefront-backend/internal/ratelimit"
)

type Handler struct {
	service    *Service
	storeEmail string
	log        zerolog.Logger
}

func NewHandler(s *Service, storeEmail string, log zerolog.Logger) *Handler {
	return &Handler{service: s, storeEmail: storeEmail, log: log}
}

func (h *Handler) RegisterPublicRoutes(app fiber.Router) {
	app.Post("/api/checkout", h.checkout)
}

func (h *Handler) checkout(c *fiber.Ctx) error {
	ip := ratelimit.ClientAddress(c)

	if err := h.service.Admit(c.UserContext(), ip); err != nil {
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many requests. Please try again later."})
	}

	// the body is JSON whatever Content-Type the client sent
	var req Request
	if err := c.App().Config().JSONDecoder(c.Body(), &req); err != nil {
		metrics.ObserveCheckout(metrics.ResultInvalid)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	ord, err := h.service.Place(c.UserContext(), ip, req)
	switch {
	case err == nil:
	case errors.Is(err, ErrMissingShipping):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing shipping details"})
	case errors.Is(err, ErrEmptyCart):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cart is empty"})
	default:
		h.log.Error().Err(err).Str("ip", ip).Msg("checkout")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process checkout"})
	}

	c.Set("X-Frame-Options", "DENY")
	c.Set("X-Content-Type-Options", "nosniff")
	return c.JSON(fiber.Map{
		"success": true,
		"orderId": ord.OrderID,
		"message": "Order received. Notification sent to " + h.storeEmail + ".",
	})
}
