package guard

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tooniwear/storefront-backend/internal/session"
)

func TestDecide(t *testing.T) {
	cases := []struct {
		path       string
		hasSession bool
		redirect   string
		ok         bool
	}{
		{"/account/orders", false, "/account/login", false},
		{"/account/orders/CN-1", false, "/account/login", false},
		{"/account/orders", true, "", true},
		{"/account/login", true, "/", false},
		{"/account/register", true, "/", false},
		{"/account/login", false, "", true},
		{"/account/register", false, "", true},
		{"/products", false, "", true},
		{"/account", false, "", true},
	}
	for _, tc := range cases {
		redirect, ok := Decide(tc.path, tc.hasSession)
		if redirect != tc.redirect || ok != tc.ok {
			t.Errorf("Decide(%q, %v) = %q, %v; want %q, %v", tc.path, tc.hasSession, redirect, ok, tc.redirect, tc.ok)
		}
	}
}

func TestMiddleware(t *testing.T) {
	sessions := session.NewManager("secret", time.Hour, false)
	app := fiber.New()
	app.Use("/account", New(sessions))
	app.Get("/account/*", func(c *fiber.Ctx) error { return c.SendString("page") })

	valid, _, _ := sessions.Issue(session.Principal{ID: "u1", Email: "a@b.com"})
	forged, _, _ := session.NewManager("other", time.Hour, false).Issue(session.Principal{ID: "u1", Email: "a@b.com"})

	cases := []struct {
		name     string
		path     string
		cookie   string
		status   int
		location string
	}{
		{"orders without session", "/account/orders", "", fiber.StatusTemporaryRedirect, "/account/login"},
		{"orders with forged session", "/account/orders", forged, fiber.StatusTemporaryRedirect, "/account/login"},
		{"orders with session", "/account/orders", valid, fiber.StatusOK, ""},
		{"login with session", "/account/login", valid, fiber.StatusTemporaryRedirect, "/"},
		{"login without session", "/account/login", "", fiber.StatusOK, ""},
	}
	for _, tc := range cases {
		req := httptest.NewRequest("GET", tc.path, nil)
		if tc.cookie != "" {
			req.AddCookie(&http.Cookie{Name: session.CookieName, Value: tc.cookie})
		}
		res, err := app.Test(req, -1)
		if err != nil {
			t.Fatal(err)
		}
		if res.StatusCode != tc.status || res.Header.Get("Location") != tc.location {
			t.Errorf("%s: got %d %q", tc.name, res.StatusCode, res.Header.Get("Location"))
		}
	}
}
