package routes

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/blockauth/devocracy/internal/capture"
	"github.com/blockauth/devocracy/internal/config"
	"github.com/blockauth/devocracy/internal/enrollment"
	"github.com/blockauth/devocracy/internal/middleware"
	"github.com/blockauth/devocracy/internal/session"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes, and returns the
// enrollment manager so the caller can tear down active flows on shutdown.
func Setup(app *fiber.App, d Deps) (*enrollment.Manager, error) {
	if !d.Cfg.IsDev() && d.DB == nil && d.Cache == nil {
		return nil, fmt.Errorf("postgres or redis is required when APP_ENV=%s", d.Cfg.AppEnv)
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(middleware.Audit(d.Logger))

	RegisterHealthRoutes(app, d)

	// Snapshot backend preference: postgres, then redis, then the local file.
	var snapshot session.Snapshot
	switch {
	case d.DB != nil:
		snapshot = session.NewPostgresSnapshot(d.DB, d.Cfg.ProfileKey)
	case d.Cache != nil:
		snapshot = session.NewRedisSnapshot(d.Cache, d.Cfg.ProfileKey)
	default:
		snapshot = session.NewFileSnapshot(d.Cfg.SnapshotPath)
	}

	store := session.NewStore(snapshot, d.Logger)
	if err := store.Init(context.Background()); err != nil {
		return nil, fmt.Errorf("init session store: %w", err)
	}

	dispatcher := enrollment.NewLoggerDispatcher(d.Logger)
	manager := enrollment.NewManager(enrollment.Options{
		ExpectedCode: d.Cfg.VerificationCode,
		Cooldown:     d.Cfg.ResendCooldown,
		TTL:          d.Cfg.FlowTTL,
	}, dispatcher, store, d.Logger)

	deviceFactory := func() capture.Device { return capture.NewSimulatedDevice() }
	enrollHandler := enrollment.NewHandler(manager, deviceFactory)
	sessionHandler := session.NewHandler(store)

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals(middleware.RequestIDHeader).(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	resendLimiter := middleware.ResendRateLimit(d.Cache, 10)
	RegisterEnrollmentRoutes(api, enrollHandler, resendLimiter)
	RegisterSessionRoutes(api, sessionHandler)

	return manager, nil
}
