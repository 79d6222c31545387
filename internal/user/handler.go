package user

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/tooniwear/storefront-backend/internal/session"
)

type Handler struct {
	service  *Service
	sessions *session.Manager
	log      zerolog.Logger
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r registerRequest) isMissingRequiredFields() bool {
	return r.FullName == "" || r.Email == "" || r.Password == ""
}

func NewHandler(service *Service, sessions *session.Manager, log zerolog.Logger) *Handler {
	return &Handler{service: service, sessions: sessions, log: log}
}

// RegisterPublicRoutes mounts the auth endpoints. limit guards register and
// login against credential stuffing.
func (h *Handler) RegisterPublicRoutes(app fiber.Router, limit fiber.Handler) {
	app.Post("/api/auth/register", limit, h.register)
	app.Post("/api/auth/login", limit, h.login)
	app.Post("/api/auth/logout", h.logout)
	app.Get("/api/auth/me", h.me)
}

func (h *Handler) register(c *fiber.Ctx) error {
	payload := new(registerRequest)
	if err := decodeJSON(c, payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing fields"})
	}
	if payload.isMissingRequiredFields() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing fields"})
	}

	_, err := h.service.Register(c.UserContext(), payload.FullName, payload.Email, payload.Password)
	switch {
	case err == nil:
		return c.JSON(fiber.Map{"success": true, "message": "User registered successfully"})
	case errors.Is(err, ErrEmailExists):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "User already exists"})
	default:
		h.log.Error().Err(err).Msg("register")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to register"})
	}
}

func (h *Handler) login(c *fiber.Ctx) error {
	payload := new(loginRequest)
	if err := decodeJSON(c, payload); err != nil || payload.Email == "" || payload.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing fields"})
	}

	u, err := h.service.Authenticate(c.UserContext(), payload.Email, payload.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
	}
	if err != nil {
		h.log.Error().Err(err).Msg("login")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to login"})
	}

	if err := h.sessions.Create(c, u.Principal()); err != nil {
		h.log.Error().Err(err).Msg("issue session")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to login"})
	}
	return c.JSON(fiber.Map{"success": true, "user": u})
}

func (h *Handler) logout(c *fiber.Ctx) error {
	h.sessions.Clear(c)
	return c.JSON(fiber.Map{"success": true})
}

func (h *Handler) me(c *fiber.Ctx) error {
	p, ok := h.sessions.Read(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	return c.JSON(fiber.Map{"user": p})
}

// decodeJSON reads the body as JSON whatever Content-Type the client sent.
func decodeJSON(c *fiber.Ctx, v any) error {
	return c.App().Config().JSONDecoder(c.Body(), v)
}
