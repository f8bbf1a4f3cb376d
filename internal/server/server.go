package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ADH36/SENC-ESPORTS-sub001/internal/config"
	"github.com/ADH36/SENC-ESPORTS-sub001/internal/respond"
)

// New builds a Fiber app configured with the shared error handler so every
// failure renders the standard response envelope.
func New(cfg config.Config) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: errorHandler,
	})
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := http.StatusInternalServerError
	message := "internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}
	return respond.Error(c, code, message)
}

// Run starts the listener and blocks until the context is cancelled, then
// drains in-flight requests within the configured shutdown period.
func Run(ctx context.Context, app *fiber.App, cfg config.Config) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(cfg.Address())
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return app.ShutdownWithTimeout(cfg.ShutdownPeriod)
	}
}
