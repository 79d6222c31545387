package order

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/tooniwear/storefront-backend/internal/session"
)

// Handler serves the signed-in customer's order history.
type Handler struct {
	service *Service
	log     zerolog.Logger
}

func NewHandler(s *Service, log zerolog.Logger) *Handler {
	return &Handler{service: s, log: log}
}

// RegisterProtectedRoutes mounts the order routes behind protect, which must
// populate the session principal.
func (h *Handler) RegisterProtectedRoutes(app fiber.Router, protect fiber.Handler) {
	app.Get("/api/account/orders", protect, h.getOrders)
	app.Get("/api/account/orders/:id", protect, h.getOrder)
}

func (h *Handler) getOrders(c *fiber.Ctx) error {
	p, err := session.PrincipalFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	orders, err := h.service.ListForEmail(c.UserContext(), p.Email)
	if err != nil {
		h.log.Error().Err(err).Msg("list orders")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch orders"})
	}
	return c.JSON(fiber.Map{"orders": orders})
}

func (h *Handler) getOrder(c *fiber.Ctx) error {
	p, err := session.PrincipalFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	ord, err := h.service.GetForOwner(c.UserContext(), c.Params("id"), p.Email)
	switch {
	case err == nil:
		return c.JSON(fiber.Map{"order": ord})
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Order not found"})
	case errors.Is(err, ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Unauthorized"})
	default:
		h.log.Error().Err(err).Str("order_id", c.Params("id")).Msg("get order")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch order details"})
	}
}
