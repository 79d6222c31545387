package session

import (
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

var alice = Principal{ID: "u-1", FullName: "Alice Doe", Email: "alice@example.com", CreatedAt: "2024-05-01T10:00:00.000Z"}

func TestIssueAndVerify(t *testing.T) {
	m := NewManager("secret", time.Hour, false)

	token, exp, err := m.Issue(alice)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Fatalf("expected future expiry, got %v", exp)
	}

	p, err := m.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if p != alice {
		t.Fatalf("expected %+v, got %+v", alice, p)
	}
}

func TestVerify_Rejects(t *testing.T) {
	m := NewManager("secret", time.Hour, false)
	good, _, _ := m.Issue(alice)

	expired := NewManager("secret", -time.Minute, false)
	old, _, _ := expired.Issue(alice)

	other := NewManager("other-secret", time.Hour, false)
	forged, _, _ := other.Issue(alice)

	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "u-1", "email": "alice@example.com", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	noEmail, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u-1", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))

	parts := strings.Split(good, ".")
	tampered := parts[0] + "." +
		base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"u-2","email":"eve@example.com","exp":9999999999}`)) +
		"." + parts[2]

	cases := map[string]string{
		"expired":       old,
		"wrong secret":  forged,
		"alg none":      none,
		"missing email": noEmail,
		"garbage":       "not-a-token",
		"tampered":      tampered,
	}
	for name, token := range cases {
		if _, err := m.Verify(token); err == nil {
			t.Errorf("%s: expected verification failure", name)
		}
	}
}

func newApp(m *Manager) *fiber.App {
	app := fiber.New()
	app.Post("/login", func(c *fiber.Ctx) error {
		if err := m.Create(c, alice); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/whoami", func(c *fiber.Ctx) error {
		p, ok := m.Read(c)
		if !ok {
			return c.SendString("anonymous")
		}
		return c.SendString(p.Email)
	})
	app.Post("/logout", func(c *fiber.Ctx) error {
		m.Clear(c)
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/refresh", m.Refresh(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/private", m.Protect(), func(c *fiber.Ctx) error {
		p, err := PrincipalFromCtx(c)
		if err != nil {
			return err
		}
		return c.SendString(p.ID)
	})
	return app
}

func sessionCookie(t *testing.T, res *http.Response) *http.Cookie {
	t.Helper()
	for _, ck := range res.Cookies() {
		if ck.Name == CookieName {
			return ck
		}
	}
	return nil
}

func TestCreateSetsHardenedCookie(t *testing.T) {
	app := newApp(NewManager("secret", time.Hour, true))

	res, err := app.Test(httptest.NewRequest("POST", "/login", nil))
	if err != nil {
		t.Fatal(err)
	}
	ck := sessionCookie(t, res)
	if ck == nil {
		t.Fatal("expected session cookie")
	}
	if !ck.HttpOnly || !ck.Secure {
		t.Errorf("expected HttpOnly and Secure, got %+v", ck)
	}
	if ck.Path != "/" {
		t.Errorf("expected path /, got %q", ck.Path)
	}
}

func TestReadFailsClosed(t *testing.T) {
	app := newApp(NewManager("secret", time.Hour, false))

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "garbage"})
	res, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(res.Body)
	if string(body) != "anonymous" {
		t.Fatalf("expected anonymous, got %q", string(body))
	}
}

func TestReadValidCookie(t *testing.T) {
	m := NewManager("secret", time.Hour, false)
	app := newApp(m)
	token, _, _ := m.Issue(alice)

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	res, _ := app.Test(req)
	body, _ := io.ReadAll(res.Body)
	if string(body) != alice.Email {
		t.Fatalf("expected %s, got %q", alice.Email, string(body))
	}
}

func TestRefreshExtendsExpiry(t *testing.T) {
	m := NewManager("secret", time.Hour, false)
	m.now = func() time.Time { return time.Now().Add(-30 * time.Minute) }
	token, oldExp, _ := m.Issue(alice)
	m.now = time.Now
	app := newApp(m)

	req := httptest.NewRequest("GET", "/refresh", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	res, _ := app.Test(req)

	ck := sessionCookie(t, res)
	if ck == nil {
		t.Fatal("expected refreshed cookie")
	}
	if ck.Value == token {
		t.Fatal("expected a re-issued token")
	}
	p, err := m.Verify(ck.Value)
	if err != nil || p != alice {
		t.Fatalf("refreshed token invalid: %v", err)
	}
	if !ck.Expires.After(oldExp) {
		t.Errorf("expected expiry after %v, got %v", oldExp, ck.Expires)
	}
}

func TestRefreshWithoutSessionSetsNothing(t *testing.T) {
	app := newApp(NewManager("secret", time.Hour, false))

	res, _ := app.Test(httptest.NewRequest("GET", "/refresh", nil))
	if ck := sessionCookie(t, res); ck != nil {
		t.Fatalf("unexpected cookie %+v", ck)
	}
}

func TestClearExpiresCookie(t *testing.T) {
	app := newApp(NewManager("secret", time.Hour, false))

	res, _ := app.Test(httptest.NewRequest("POST", "/logout", nil))
	ck := sessionCookie(t, res)
	if ck == nil {
		t.Fatal("expected clearing cookie")
	}
	if ck.Value != "" || ck.Expires.After(time.Now()) {
		t.Fatalf("expected expired empty cookie, got %+v", ck)
	}
}

func TestProtect(t *testing.T) {
	m := NewManager("secret", time.Hour, false)
	app := newApp(m)

	res, _ := app.Test(httptest.NewRequest("GET", "/private", nil))
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 without cookie, got %d", res.StatusCode)
	}
	body, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(body), "Unauthorized") {
		t.Fatalf("unexpected body %s", string(body))
	}

	token, _, _ := m.Issue(alice)
	req := httptest.NewRequest("GET", "/private", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	res2, _ := app.Test(req)
	if res2.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 with cookie, got %d", res2.StatusCode)
	}
	body2, _ := io.ReadAll(res2.Body)
	if string(body2) != alice.ID {
		t.Fatalf("expected principal id, got %q", string(body2))
	}
}
