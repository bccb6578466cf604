package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/gurkanbulca/taskdeck/internal/config"
	"github.com/gurkanbulca/taskdeck/internal/database"
)

func main() {
	flags := pflag.NewFlagSet("taskdeck-migrate", pflag.ExitOnError)
	configPath := flags.String("config", "", "path to a YAML config file")
	envFile := flags.String("env-file", ".env", "path to a .env file")
	_ = flags.Parse(os.Args[1:])

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	// Load .env file
	if err := godotenv.Load(*envFile); err != nil {
		log.Info("no .env file found", "path", *envFile)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fail(log, "failed to load config", err)
	}
	if cfg.Database.Driver == config.DriverMemory {
		fail(log, "nothing to migrate", fmt.Errorf("DB_DRIVER is %q", config.DriverMemory))
	}

	ctx := context.Background()
	db, err := database.NewClient(ctx, log, cfg.ToDatabaseConfig())
	if err != nil {
		fail(log, "failed to connect to database", err)
	}
	defer db.Close()

	log.Info("running database migrations", "driver", cfg.Database.Driver)
	if err := database.Migrate(ctx, log, db); err != nil {
		db.Close()
		fail(log, "failed to run migrations", err)
	}
	log.Info("migrations completed successfully")
}

func fail(log *slog.Logger, msg string, err error) {
	log.Error(msg, "error", err)
	os.Exit(1)
}
