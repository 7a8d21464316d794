package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	httpapi "github.com/i474232898/morning-briefing/internal/api/http"
	"github.com/i474232898/morning-briefing/internal/logger"
	"github.com/i474232898/morning-briefing/internal/scheduler"
)

func serveCmd(mode *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the briefing on a cron schedule and expose the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), *mode)
		},
	}
}

func serve(parent context.Context, mode string) error {
	cfg, err := loadConfig(mode)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	p := newPipeline(cfg, reg)

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Scheduler that delivers the briefing every day.
	sched, err := scheduler.New(cfg.BriefingSchedule, cfg.Timezone, cfg.RunTimeout, p.service)
	if err != nil {
		return err
	}
	if err := sched.Start(ctx); err != nil {
		return err
	}
	defer sched.Stop()

	if cfg.ReminderSchedule != "" {
		reminders, err := scheduler.New(cfg.ReminderSchedule, cfg.Timezone, cfg.DeliveryTimeout, p.reminders)
		if err != nil {
			return err
		}
		if err := reminders.Start(ctx); err != nil {
			return err
		}
		defer reminders.Stop()
	}

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "morning-briefing",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		// Manual runs may take up to RUN_TIMEOUT.
		WriteTimeout: cfg.RunTimeout + 10*time.Second,
		ErrorHandler: httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(fiberlogger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "morning-briefing",
			"nextRun": sched.NextRun(),
		})
	})

	httpapi.RegisterRoutes(app, p.service, p.runs, reg, cfg.RunTimeout)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Log.Errorf("fiber server stopped: %v", err)
		}
	}()
	logger.Log.WithField("port", cfg.Port).Info("HTTP server listening")

	// Wait for termination signal
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Log.Errorf("error during shutdown: %v", err)
	}
	return nil
}
