// Momentum agent: an MCP stdio server exposing every pipeline operation as
// a named tool, so a conversational agent can read and write the same
// store the HTTP server uses.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/m.wallace/momentum-engine/internal/backlog"
	"github.com/m.wallace/momentum-engine/internal/clock"
	"github.com/m.wallace/momentum-engine/internal/config"
	"github.com/m.wallace/momentum-engine/internal/database"
	"github.com/m.wallace/momentum-engine/internal/engine"
	"github.com/m.wallace/momentum-engine/internal/momentum"
	"github.com/m.wallace/momentum-engine/internal/notify"
	"github.com/m.wallace/momentum-engine/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	configFlag := flag.String("config", "", "Path to configuration file (YAML)")
	dbPathFlag := flag.String("db", "", "Database file path (overrides config)")
	flag.Parse()

	if err := run(*configFlag, *dbPathFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, dbPath string) error {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg = config.Default()
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}

	// Logs go to stderr so they don't interfere with the stdio transport.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: config.ParseLogLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)
	log.SetOutput(os.Stderr)

	db, err := database.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer db.Close()

	cal, err := clock.New(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("initializing calendar: %w", err)
	}

	dispatcher := notify.New(cfg.Notify.WebhookURL)
	eng := engine.New(db, cal, dispatcher, cfg.Notify.Milestones, cfg.Targets.DailyMinutes)
	backlogSvc := backlog.NewService(db, cal, eng, cfg.Backlog.AgingDays, cfg.Backlog.AutoPromoteDays)
	momentumSvc := momentum.NewService(db, cal, cfg.Targets)

	s := server.NewMCPServer(
		"momentum",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	tools.Register(s, tools.Deps{
		DB:       db,
		Engine:   eng,
		Backlog:  backlogSvc,
		Momentum: momentumSvc,
	})

	slog.Info("agent server starting", "db", cfg.Database.Path, "timezone", cfg.Timezone)
	start := time.Now()
	err = server.ServeStdio(s)
	slog.Info("agent server exited", "uptime", time.Since(start))
	return err
}
