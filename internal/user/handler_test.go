package user

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/tooniwear/storefront-backend/internal/password"
	"github.com/tooniwear/storefront-backend/internal/session"
	"github.com/tooniwear/storefront-backend/internal/store"
)

func noLimit(c *fiber.Ctx) error { return c.Next() }

func makeApp(records store.Store[User]) (*fiber.App, *session.Manager) {
	sessions := session.NewManager("test-secret", time.Hour, false)
	service := NewService(NewRecordRepository(records), password.NewHasher(bcrypt.MinCost))
	app := fiber.New()
	NewHandler(service, sessions, zerolog.Nop()).RegisterPublicRoutes(app, noLimit)
	return app, sessions
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) *http.Response {
	t.Helper()
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s failed: %v", path, err)
	}
	return res
}

func sessionCookie(res *http.Response) *http.Cookie {
	for _, c := range res.Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	return nil
}

func TestRegister_DuplicateLeavesStoreUnchanged(t *testing.T) {
	records := store.NewMemoryStore[User]()
	app, _ := makeApp(records)

	res := postJSON(t, app, "/api/auth/register", registerRequest{FullName: "Sara", Email: "sara@example.com", Password: "pw1"})
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 got %d", res.StatusCode)
	}

	res = postJSON(t, app, "/api/auth/register", registerRequest{FullName: "Other", Email: "sara@example.com", Password: "pw2"})
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate, got %d", res.StatusCode)
	}
	var body map[string]string
	json.NewDecoder(res.Body).Decode(&body)
	if body["error"] != "User already exists" {
		t.Fatalf("unexpected error %v", body)
	}

	users, _ := records.ReadAll(context.Background())
	if len(users) != 1 || users[0].FullName != "Sara" {
		t.Fatalf("store changed by duplicate registration: %+v", users)
	}
	if users[0].Password == "pw1" || !strings.HasPrefix(users[0].Password, "$2") {
		t.Fatalf("password must be stored hashed, got %q", users[0].Password)
	}
}

func TestRegister_MissingFields(t *testing.T) {
	app, _ := makeApp(store.NewMemoryStore[User]())

	res := postJSON(t, app, "/api/auth/register", registerRequest{Email: "x@example.com", Password: "pw"})
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 got %d", res.StatusCode)
	}
}

func TestRegisterAndLogin_AcceptJSONWithoutContentType(t *testing.T) {
	app, _ := makeApp(store.NewMemoryStore[User]())

	for _, tc := range []struct {
		path string
		body string
	}{
		{"/api/auth/register", `{"fullName":"Sara","email":"sara@example.com","password":"pw1"}`},
		{"/api/auth/login", `{"email":"sara@example.com","password":"pw1"}`},
	} {
		req := httptest.NewRequest("POST", tc.path, strings.NewReader(tc.body))
		res, err := app.Test(req, -1)
		if err != nil {
			t.Fatal(err)
		}
		if res.StatusCode != fiber.StatusOK {
			t.Fatalf("%s: expected 200 got %d", tc.path, res.StatusCode)
		}
	}
}

func TestLogin_ReturnsUserWithoutPasswordAndSetsCookie(t *testing.T) {
	app, sessions := makeApp(store.NewMemoryStore[User]())
	postJSON(t, app, "/api/auth/register", registerRequest{FullName: "Sara", Email: "sara@example.com", Password: "pw1"})

	res := postJSON(t, app, "/api/auth/login", loginRequest{Email: "sara@example.com", Password: "pw1"})
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 got %d", res.StatusCode)
	}

	raw, _ := io.ReadAll(res.Body)
	if strings.Contains(string(raw), "password") {
		t.Fatalf("login response leaks password: %s", raw)
	}
	var body struct {
		Success bool `json:"success"`
		User    User `json:"user"`
	}
	json.Unmarshal(raw, &body)
	if !body.Success || body.User.Email != "sara@example.com" || body.User.ID == "" {
		t.Fatalf("unexpected body %s", raw)
	}

	cookie := sessionCookie(res)
	if cookie == nil || !cookie.HttpOnly {
		t.Fatalf("expected an HttpOnly session cookie, got %+v", cookie)
	}
	p, err := sessions.Verify(cookie.Value)
	if err != nil || p.Email != "sara@example.com" || p.ID != body.User.ID {
		t.Fatalf("cookie does not carry the principal: %+v, %v", p, err)
	}
}

func TestLogin_WrongPasswordNoCookie(t *testing.T) {
	app, _ := makeApp(store.NewMemoryStore[User]())
	postJSON(t, app, "/api/auth/register", registerRequest{FullName: "Sara", Email: "sara@example.com", Password: "pw1"})

	for _, creds := range []loginRequest{
		{Email: "sara@example.com", Password: "nope"},
		{Email: "nobody@example.com", Password: "pw1"},
		{Email: "SARA@example.com", Password: "pw1"},
	} {
		res := postJSON(t, app, "/api/auth/login", creds)
		if res.StatusCode != fiber.StatusUnauthorized {
			t.Errorf("%s: expected 401 got %d", creds.Email, res.StatusCode)
		}
		if sessionCookie(res) != nil {
			t.Errorf("%s: failed login must not set a cookie", creds.Email)
		}
	}
}

func TestMeAndLogout(t *testing.T) {
	app, sessions := makeApp(store.NewMemoryStore[User]())

	res, _ := app.Test(httptest.NewRequest("GET", "/api/auth/me", nil), -1)
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", res.StatusCode)
	}

	token, _, _ := sessions.Issue(session.Principal{ID: "u1", FullName: "Sara", Email: "sara@example.com"})
	req := httptest.NewRequest("GET", "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	res, _ = app.Test(req, -1)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 with session, got %d", res.StatusCode)
	}
	var body struct {
		User session.Principal `json:"user"`
	}
	json.NewDecoder(res.Body).Decode(&body)
	if body.User.Email != "sara@example.com" {
		t.Fatalf("unexpected principal %+v", body.User)
	}

	res = postJSON(t, app, "/api/auth/logout", nil)
	cookie := sessionCookie(res)
	if cookie == nil || cookie.Value != "" || cookie.Expires.After(time.Now()) {
		t.Fatalf("logout should expire the cookie, got %+v", cookie)
	}
}

func TestService_RegisterStoreFailureAndList(t *testing.T) {
	records := store.NewMemoryStore[User]()
	s := NewService(NewRecordRepository(records), password.NewHasher(bcrypt.MinCost))
	if _, err := s.Register(context.Background(), "Sara", "sara@example.com", "pw1"); err != nil {
		t.Fatal(err)
	}
	records.AppendErr = io.ErrUnexpectedEOF
	if _, err := s.Register(context.Background(), "Ali", "ali@example.com", "pw"); err == nil {
		t.Fatal("expected the store error to surface")
	}

	list, _ := s.List(context.Background())
	if len(list) != 1 || list[0].Password != "" {
		t.Fatalf("List must return sanitized users: %+v", list)
	}
}
