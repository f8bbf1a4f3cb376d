package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/ADH36/SENC-ESPORTS-sub001/internal/auth"
	"github.com/ADH36/SENC-ESPORTS-sub001/internal/config"
	"github.com/ADH36/SENC-ESPORTS-sub001/internal/identity"
	"github.com/ADH36/SENC-ESPORTS-sub001/internal/ledger"
	"github.com/ADH36/SENC-ESPORTS-sub001/internal/middleware"
	"github.com/ADH36/SENC-ESPORTS-sub001/internal/notification"
	"github.com/ADH36/SENC-ESPORTS-sub001/internal/requests"
	"github.com/ADH36/SENC-ESPORTS-sub001/internal/tournaments"
	"github.com/ADH36/SENC-ESPORTS-sub001/internal/wallet"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though main also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))

	RegisterHealthRoutes(app, d)

	// Storage backends; in-memory fallbacks keep dev mode self-contained.
	var ledgerBackend ledger.Ledger
	var identityRepo identity.Repository
	var requestRepo requests.Repository
	if d.DB != nil {
		ledgerBackend = ledger.NewPostgresLedger(d.DB)
		identityRepo = identity.NewPostgresRepository(d.DB)
		requestRepo = requests.NewPostgresRepository(d.DB)
	} else {
		ledgerBackend = ledger.NewInMemory()
		identityRepo = identity.NewMemoryRepository()
		requestRepo = requests.NewMemoryRepository()
	}

	notifier := notification.NewLoggerNotifier(d.Logger)

	walletSvc := wallet.NewService(ledgerBackend, d.Cfg.AdminAdjustCap)
	requestSvc := requests.NewService(requestRepo, ledgerBackend, walletSvc, notifier, d.Cfg.MinRequestAmount, d.Cfg.MaxRequestAmount)
	tournamentSvc := tournaments.NewService(ledgerBackend, walletSvc, notifier)
	identitySvc := identity.NewService(identityRepo)
	authSvc := auth.NewService(d.Cfg, identityRepo)

	authHandler := auth.NewHandler(identitySvc, authSvc, walletSvc)
	walletHandler := wallet.NewHandler(walletSvc)
	walletAdminHandler := wallet.NewAdminHandler(walletSvc)
	requestHandler := requests.NewHandler(requestSvc)
	tournamentHandler := tournaments.NewHandler(tournamentSvc)

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	rateLimiter := middleware.LoginRateLimit(d.Cache, 5)
	RegisterAuthRoutes(api, authHandler, rateLimiter)

	jwtmw := middleware.JWTAuth(d.Cfg, identityRepo)
	protected := api.Group("", jwtmw)
	// Behind JWTAuth so idempotency keys are scoped to the caller.
	if d.Cache != nil {
		protected.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}
	RegisterWalletRoutes(protected, walletHandler, requestHandler)
	RegisterTournamentRoutes(protected, tournamentHandler)

	admin := protected.Group("/admin", middleware.AdminOnly())
	RegisterAdminRoutes(admin, walletAdminHandler, requestHandler, tournamentHandler)

	return nil
}
