package respond

import (
	"github.com/gofiber/fiber/v2"
)

// Envelope is the uniform response body: {"success": true, "data": ...} on
// success, {"success": false, "error": "..."} on failure.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// PageMeta describes a paginated payload.
type PageMeta struct {
	Items      any   `json:"items"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

// OK writes a success envelope with the given status code.
func OK(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(Envelope{Success: true, Data: data})
}

// Page writes a success envelope wrapping a paginated collection.
func Page(c *fiber.Ctx, status int, items any, page, limit int, total int64) error {
	totalPages := int64(0)
	if limit > 0 {
		totalPages = (total + int64(limit) - 1) / int64(limit)
	}
	return OK(c, status, PageMeta{Items: items, Page: page, Limit: limit, Total: total, TotalPages: totalPages})
}

// Error writes a failure envelope. Used by the app-level error handler.
func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(Envelope{Success: false, Error: message})
}
