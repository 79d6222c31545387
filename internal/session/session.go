package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/golang-jwt/jwt/v4"
)

const (
	CookieName = "session"
	localsKey  = "user"
)

var ErrInvalidSession = errors.New("invalid session")

// Principal is the public profile carried by a session. It never holds the
// password hash.
type Principal struct {
	ID        string `json:"id"`
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
}

// Manager issues and validates the signed session cookie. There is no
// server-side session table: the cookie is the session.
type Manager struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

func NewManager(secret string, ttl time.Duration, secure bool) *Manager {
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		secure: secure,
		now:    time.Now,
	}
}

// Issue signs a token for p valid for the configured TTL.
func (m *Manager) Issue(p Principal) (string, time.Time, error) {
	now := m.now()
	exp := now.Add(m.ttl)
	claims := jwt.MapClaims{
		"sub":        p.ID,
		"name":       p.FullName,
		"email":      p.Email,
		"created_at": p.CreatedAt,
		"iat":        now.Unix(),
		"exp":        exp.Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	return signed, exp, nil
}

// Verify checks signature, algorithm and expiry and returns the principal.
func (m *Manager) Verify(token string) (Principal, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return Principal{}, ErrInvalidSession
	}
	return principalFromToken(parsed)
}

// Create issues a token for p and sets it as the session cookie.
func (m *Manager) Create(c *fiber.Ctx, p Principal) error {
	token, exp, err := m.Issue(p)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  exp,
		HTTPOnly: true,
		Secure:   m.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}

// Read returns the principal of a valid session cookie. Anything unreadable is
// reported as no session.
func (m *Manager) Read(c *fiber.Ctx) (Principal, bool) {
	raw := c.Cookies(CookieName)
	if raw == "" {
		return Principal{}, false
	}
	p, err := m.Verify(raw)
	if err != nil {
		return Principal{}, false
	}
	return p, true
}

// Clear expires the session cookie.
func (m *Manager) Clear(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   m.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Refresh re-issues a valid session cookie so it slides forward with activity.
func (m *Manager) Refresh() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if p, ok := m.Read(c); ok {
			if err := m.Create(c, p); err != nil {
				return err
			}
		}
		return c.Next()
	}
}

// Protect rejects requests without a valid session cookie with 401 and exposes
// the token to PrincipalFromCtx.
func (m *Manager) Protect() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:    m.secret,
		SigningMethod: "HS256",
		TokenLookup:   "cookie:" + CookieName,
		ContextKey:    localsKey,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		},
	})
}

// PrincipalFromCtx reads the principal stored by Protect.
func PrincipalFromCtx(c *fiber.Ctx) (Principal, error) {
	tok, ok := c.Locals(localsKey).(*jwt.Token)
	if !ok || tok == nil {
		return Principal{}, fiber.ErrUnauthorized
	}
	p, err := principalFromToken(tok)
	if err != nil {
		return Principal{}, fiber.ErrUnauthorized
	}
	return p, nil
}

func principalFromToken(tok *jwt.Token) (Principal, error) {
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Principal{}, ErrInvalidSession
	}
	str := func(key string) string {
		v, _ := claims[key].(string)
		return v
	}

	p := Principal{
		ID:        str("sub"),
		FullName:  str("name"),
		Email:     str("email"),
		CreatedAt: str("created_at"),
	}
	if p.ID == "" || p.Email == "" {
		return Principal{}, ErrInvalidSession
	}
	return p, nil
}
