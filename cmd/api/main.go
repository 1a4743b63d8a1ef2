package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/anjiri1684/agriconnect/configs"
	"github.com/anjiri1684/agriconnect/cache"
	"github.com/anjiri1684/agriconnect/database"
	"github.com/anjiri1684/agriconnect/handlers"
	"github.com/anjiri1684/agriconnect/jobs"
	"github.com/anjiri1684/agriconnect/logging"
	"github.com/anjiri1684/agriconnect/notifications"
	"github.com/anjiri1684/agriconnect/reference"
	"github.com/anjiri1684/agriconnect/repository"
	"github.com/anjiri1684/agriconnect/revocation"
	"github.com/anjiri1684/agriconnect/routes"
	"github.com/anjiri1684/agriconnect/services"
	"github.com/anjiri1684/agriconnect/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	lg := logging.New(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, lg); err != nil {
		lg.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, lg *slog.Logger) error {
	db, err := database.Connect(cfg.Database, lg)
	if err != nil {
		return err
	}
	if err := database.Migrate(db, lg); err != nil {
		return err
	}

	users := repository.NewGormUsers(db)
	experts := repository.NewGormExperts(db)
	bookings := repository.NewGormBookings(db)
	reviews := repository.NewGormReviews(db)

	if err := database.SeedAdmin(ctx, users, cfg.Admin, lg); err != nil {
		return err
	}

	var denylist revocation.Denylist = revocation.NewMemoryDenylist()
	if cfg.Redis.Addr != "" {
		client, err := revocation.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		defer client.Close()
		denylist = revocation.NewRedisDenylist(client)
		lg.Info("token revocation backed by redis", "addr", cfg.Redis.Addr)
	} else {
		lg.Warn("REDIS_ADDR not set, revoked tokens are kept in memory")
	}

	expertCache, err := cache.NewExpertCache(cfg.Cache.Enabled, cfg.Cache.ExpertsSize, lg)
	if err != nil {
		return err
	}
	catalog, err := reference.Load()
	if err != nil {
		return err
	}

	notifier := notifications.NewAsync(notifications.New(cfg.Email, lg), lg)
	hub := websocket.NewHub(lg)
	go hub.Run(ctx)

	auth := services.NewAuthService(users, denylist, lg, services.AuthOptions{
		Secret:   []byte(cfg.Auth.JWTSecret),
		TokenTTL: cfg.Auth.TokenTTL,
	})
	auth.Subscribe(func(ev services.AuthEvent) {
		switch ev.Type {
		case services.AuthSignedUp:
			_ = notifier.Send(ctx, notifications.Welcome(ev.User))
		case services.AuthSignedOut:
			hub.Disconnect(ev.Session.UserID)
		}
	})

	uploads, err := services.NewUploadService(cfg.Cloudinary.URL, cfg.Cloudinary.Folder, nil)
	if err != nil {
		return err
	}

	h := handlers.New(handlers.Handler{
		Auth:    auth,
		Experts: services.NewExpertService(experts, expertCache, notifier, lg),
		Bookings: services.NewBookingService(bookings, experts, notifier, hub, lg, services.BookingOptions{
			CancellationWindow: cfg.Booking.CancellationWindow,
			Location:           cfg.Location,
		}),
		Reviews: services.NewReviewService(bookings, reviews, expertCache, lg),
		Uploads: uploads,
		Catalog: catalog,
		Hub:     hub,
		Logger:  lg,
	})

	scheduler := cron.New(cron.WithLocation(cfg.Location))
	reminder := &jobs.Reminder{
		Bookings: bookings,
		Notifier: notifier,
		Lead:     cfg.Booking.ReminderLead,
		Window:   cfg.Booking.ReminderWindow,
		Logger:   lg,
	}
	if err := jobs.Schedule(scheduler, cfg.Booking.ReminderSchedule, "reminders", reminder, time.Minute, lg); err != nil {
		return err
	}
	expiry := &jobs.Expiry{
		Bookings: bookings,
		Notifier: notifier,
		Grace:    cfg.Booking.ExpiryGrace,
		Lookback: cfg.Booking.ExpiryLookback,
		Logger:   lg,
	}
	if err := jobs.Schedule(scheduler, cfg.Booking.ExpirySchedule, "expiry", expiry, time.Minute, lg); err != nil {
		return err
	}
	scheduler.Start()
	defer scheduler.Stop()
	lg.Info("cron jobs scheduled")

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: handlers.ErrorHandler(lg),
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.App.Origins,
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   cfg.App.Timezone,
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Welcome to AgriConnect API",
		})
	})
	routes.Register(app, h)

	go func() {
		<-ctx.Done()
		lg.Info("shutting down")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	lg.Info("server is running", "port", cfg.App.Port, "env", cfg.App.Env)
	return app.Listen(":" + cfg.App.Port)
}
