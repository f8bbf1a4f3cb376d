package respond

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func bodyOf(t *testing.T, app *fiber.App, path string) map[string]any {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	raw, _ := io.ReadAll(resp.Body)
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal %s: %v", raw, err)
	}
	return out
}

func TestEnvelopeShapes(t *testing.T) {
	app := fiber.New()
	app.Get("/ok", func(c *fiber.Ctx) error {
		return OK(c, fiber.StatusOK, fiber.Map{"id": "w1"})
	})
	app.Get("/err", func(c *fiber.Ctx) error {
		return Error(c, fiber.StatusNotFound, "wallet not found")
	})

	ok := bodyOf(t, app, "/ok")
	if ok["success"] != true || ok["data"] == nil {
		t.Fatalf("success envelope = %v", ok)
	}
	fail := bodyOf(t, app, "/err")
	if fail["success"] != false || fail["error"] != "wallet not found" {
		t.Fatalf("failure envelope = %v", fail)
	}
}

func TestPageComputesTotalPages(t *testing.T) {
	app := fiber.New()
	app.Get("/list", func(c *fiber.Ctx) error {
		return Page(c, fiber.StatusOK, []string{"a", "b"}, 1, 20, 41)
	})

	body := bodyOf(t, app, "/list")
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("data missing: %v", body)
	}
	if data["totalPages"] != float64(3) {
		t.Fatalf("totalPages = %v, want 3", data["totalPages"])
	}
	for _, field := range []string{"items", "page", "limit", "total"} {
		if _, ok := data[field]; !ok {
			t.Fatalf("pagination field %q missing: %v", field, data)
		}
	}
}
