package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/m.wallace/momentum-engine/internal/api"
	"github.com/m.wallace/momentum-engine/internal/backlog"
	"github.com/m.wallace/momentum-engine/internal/clock"
	"github.com/m.wallace/momentum-engine/internal/config"
	"github.com/m.wallace/momentum-engine/internal/database"
	"github.com/m.wallace/momentum-engine/internal/engine"
	"github.com/m.wallace/momentum-engine/internal/momentum"
	"github.com/m.wallace/momentum-engine/internal/notify"
	"github.com/m.wallace/momentum-engine/internal/tracker"
	"github.com/m.wallace/momentum-engine/internal/worker"
)

// slogWriter adapts slog to io.Writer interface for standard log package
type slogWriter struct {
	logger *slog.Logger
}

func (w *slogWriter) Write(p []byte) (n int, err error) {
	w.logger.Info(string(p))
	return len(p), nil
}

func main() {
	// Command line flags
	configFlag := flag.String("config", "", "Path to configuration file (YAML)")
	portFlag := flag.String("port", "", "HTTP server port (overrides config)")
	dbPathFlag := flag.String("db", "", "Database file path (overrides config)")
	timezoneFlag := flag.String("timezone", "", "Canonical timezone (overrides config)")
	flag.Parse()

	var cfg *config.Config
	var err error

	// Load config file if provided
	if *configFlag != "" {
		log.Printf("Loading configuration from %s", *configFlag)
		cfg, err = config.LoadConfig(*configFlag)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	} else {
		cfg = config.Default()
	}

	// Override with command line flags
	if *portFlag != "" {
		port, err := strconv.Atoi(*portFlag)
		if err != nil {
			log.Fatalf("Invalid port: %v", err)
		}
		cfg.HTTP.Port = port
	}
	if *dbPathFlag != "" {
		cfg.Database.Path = *dbPathFlag
	}
	if *timezoneFlag != "" {
		cfg.Timezone = *timezoneFlag
	}

	// Setup logger with configured level
	logLevel := config.ParseLogLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
	log.SetFlags(0)
	log.SetOutput(&slogWriter{logger: logger})

	slog.Info("Starting momentum-engine", "log_level", cfg.LogLevel, "timezone", cfg.Timezone)

	// Initialize database
	log.Printf("Initializing database at %s", cfg.Database.Path)
	db, err := database.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Calendar fixes all day/week bucketing to one timezone
	cal, err := clock.New(cfg.Timezone)
	if err != nil {
		log.Fatalf("Failed to initialize calendar: %v", err)
	}

	// Collaborators: notification dispatch and external tracker
	dispatcher := notify.New(cfg.Notify.WebhookURL)

	var trackerClient tracker.Client = tracker.Nop{}
	if cfg.Tracker.BaseURL != "" {
		trackerClient = tracker.NewHTTPClient(
			cfg.Tracker.BaseURL, cfg.Tracker.Token,
			time.Duration(cfg.Tracker.FieldCacheTTL)*time.Second,
		)
	}

	// Core engine and services
	eng := engine.New(db, cal, dispatcher, cfg.Notify.Milestones, cfg.Targets.DailyMinutes)
	backlogSvc := backlog.NewService(db, cal, eng, cfg.Backlog.AgingDays, cfg.Backlog.AutoPromoteDays)
	momentumSvc := momentum.NewService(db, cal, cfg.Targets)

	// Background maintenance
	maintWorker := worker.New(
		db, eng, backlogSvc, trackerClient,
		time.Duration(cfg.Worker.MaintenanceIntervalSec)*time.Second,
		time.Duration(cfg.Tracker.SyncIntervalSec)*time.Second,
	)
	maintWorker.Start()
	defer maintWorker.Stop()

	// Create Chi router
	router := chi.NewMux()

	// Create Huma API
	humaAPI := humachi.New(router, huma.DefaultConfig("Momentum API", "1.0.0"))

	// Register routes
	apiServer := api.NewServer(db, eng, backlogSvc, momentumSvc)
	apiServer.RegisterRoutes(humaAPI)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting HTTP server on port %d", cfg.HTTP.Port)
		log.Printf("API documentation available at http://localhost:%d/docs", cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Stop background maintenance first
	maintWorker.Stop()

	// Then shutdown HTTP server
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
