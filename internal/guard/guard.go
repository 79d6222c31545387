// Package guard redirects page requests based on whether the visitor is
// signed in. It only routes; per-order ownership is checked by the order API.
package guard

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/tooniwear/storefront-backend/internal/session"
)

const (
	OrdersPath   = "/account/orders"
	LoginPath    = "/account/login"
	RegisterPath = "/account/register"
	HomePath     = "/"
)

// Decide returns the redirect target for path, or ok=true when the request
// should pass through.
func Decide(path string, hasSession bool) (redirect string, ok bool) {
	switch {
	case strings.HasPrefix(path, OrdersPath) && !hasSession:
		return LoginPath, false
	case (strings.HasPrefix(path, LoginPath) || strings.HasPrefix(path, RegisterPath)) && hasSession:
		return HomePath, false
	default:
		return "", true
	}
}

// SessionReader reports whether the request carries a valid session.
type SessionReader interface {
	Read(c *fiber.Ctx) (session.Principal, bool)
}

// New returns middleware applying Decide with a temporary redirect.
func New(sessions SessionReader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, signedIn := sessions.Read(c)
		if target, ok := Decide(c.Path(), signedIn); !ok {
			return c.Redirect(target, fiber.StatusTemporaryRedirect)
		}
		return c.Next()
	}
}
