package logger

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestNewWithWriter_LevelAndService(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "storefront", "WARN")

	log.Info().Msg("hidden")
	log.Warn().Msg("shown")

	out := strings.TrimSpace(buf.String())
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line logged at warn level: %s", out)
	}
	var line map[string]any
	if err := json.Unmarshal([]byte(out), &line); err != nil {
		t.Fatalf("expected one JSON line, got %q", out)
	}
	if line["service"] != "storefront" || line["message"] != "shown" {
		t.Fatalf("unexpected line %v", line)
	}
}

func TestNewWithWriter_BadLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "storefront", "loud")

	log.Debug().Msg("debug")
	log.Info().Msg("info")
	if strings.Contains(buf.String(), `"debug"`) || !strings.Contains(buf.String(), `"info"`) {
		t.Fatalf("expected info level, got %s", buf.String())
	}
}

func TestMiddleware(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()
	app.Use(Middleware(NewWithWriter(&buf, "storefront", "info")))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/boom", func(c *fiber.Ctx) error { return fiber.ErrInternalServerError })

	req := httptest.NewRequest("GET", "/ok", nil)
	req.Header.Set("X-Request-ID", "req-1")
	res, _ := app.Test(req, -1)
	if res.Header.Get("X-Request-ID") != "req-1" {
		t.Fatalf("request id not echoed: %q", res.Header.Get("X-Request-ID"))
	}

	res, _ = app.Test(httptest.NewRequest("GET", "/boom", nil), -1)
	if res.Header.Get("X-Request-ID") == "" {
		t.Fatal("expected a generated request id")
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 request lines, got %d: %s", len(lines), buf.String())
	}
	var first, second map[string]any
	json.Unmarshal([]byte(lines[0]), &first)
	json.Unmarshal([]byte(lines[1]), &second)
	if first["request_id"] != "req-1" || first["status"] != float64(200) || first["level"] != "info" {
		t.Fatalf("unexpected first line %v", first)
	}
	if second["status"] != float64(500) || second["level"] != "error" {
		t.Fatalf("unexpected second line %v", second)
	}
}
