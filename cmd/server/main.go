// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/gurkanbulca/taskdeck/internal/config"
	"github.com/gurkanbulca/taskdeck/internal/database"
	"github.com/gurkanbulca/taskdeck/internal/handler"
	healthmon "github.com/gurkanbulca/taskdeck/internal/health"
	"github.com/gurkanbulca/taskdeck/internal/middleware"
	"github.com/gurkanbulca/taskdeck/internal/repository"
	"github.com/gurkanbulca/taskdeck/internal/service"
	"github.com/gurkanbulca/taskdeck/pkg/clock"
)

func main() {
	flags := pflag.NewFlagSet("taskdeck-server", pflag.ExitOnError)
	configPath := flags.String("config", "", "path to a YAML config file")
	envFile := flags.String("env-file", ".env", "path to a .env file")
	_ = flags.Parse(os.Args[1:])

	if err := godotenv.Load(*envFile); err != nil {
		fmt.Fprintf(os.Stderr, "no env file loaded from %s\n", *envFile)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.ValidateConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log := mustMakeLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	repo, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Error("failed to close task store", "error", err)
		}
	}()

	taskService := service.NewTaskService(repo, service.Options{
		Clock:      clock.Real(),
		Location:   cfg.Location(),
		Validation: cfg.ToValidationConfig(),
		Logger:     log.With("component", "service"),
	})

	// HTTP REST API
	mux := http.NewServeMux()
	handler.NewTaskHandler(taskService, cfg.Server.BasePath, log.With("component", "handler")).Register(mux)

	metadataExtractor := middleware.NewMetadataExtractor()
	httpServer := &http.Server{
		Addr: ":" + cfg.Server.HTTPPort,
		Handler: middleware.Chain(mux,
			middleware.CORS(cfg.Server.AllowedOrigins),
			metadataExtractor.HTTP,
			middleware.Logging(log.With("component", "http")),
			middleware.Timeout(cfg.Server.RequestTimeout),
		),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.RequestTimeout,
		WriteTimeout:      cfg.Server.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// gRPC health endpoint
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			metadataExtractor.Unary(),
			middleware.LoggingInterceptor(log.With("component", "grpc")),
		),
	)
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	if cfg.Server.EnableReflection {
		reflection.Register(grpcServer)
		log.Warn("gRPC reflection enabled (disable in production)")
	}

	monitor := healthmon.NewMonitor(taskService, healthServer, healthmon.Options{
		Interval: cfg.Server.HealthCheckInterval,
		Logger:   log.With("component", "health"),
	})
	monitorCtx, stopMonitor := context.WithCancel(ctx)
	defer stopMonitor()
	monitorDone := monitor.Start(monitorCtx)

	listener, err := net.Listen("tcp", ":"+cfg.Server.GRPCPort)
	if err != nil {
		return fmt.Errorf("listen on gRPC port: %w", err)
	}

	errCh := make(chan error, 2)
	go func() {
		log.Info("gRPC health server listening", "port", cfg.Server.GRPCPort)
		if err := grpcServer.Serve(listener); err != nil {
			errCh <- fmt.Errorf("serve gRPC: %w", err)
		}
	}()
	go func() {
		log.Info("HTTP server listening", "port", cfg.Server.HTTPPort, "base_path", cfg.Server.BasePath)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("serve HTTP: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutting down server")
	case runErr = <-errCh:
	}

	healthServer.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP shutdown failed", "error", err)
	}
	grpcServer.GracefulStop()
	stopMonitor()
	<-monitorDone

	log.Info("server shutdown complete")
	return runErr
}

// openStore returns the configured task store and its close function.
func openStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (repository.TaskRepository, func() error, error) {
	if cfg.Database.Driver == config.DriverMemory {
		log.Warn("using in-memory task store; tasks are lost on restart")
		return repository.NewMemoryTaskRepository(), func() error { return nil }, nil
	}

	db, err := database.NewClient(ctx, log, cfg.ToDatabaseConfig())
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	if cfg.Server.AutoMigrate {
		if err := database.Migrate(ctx, log, db); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("run auto migration: %w", err)
		}
	}

	return repository.NewSQLTaskRepository(db), db.Close, nil
}

func mustMakeLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(cfg.Level))); err != nil {
		panic("unknown log level: " + cfg.Level)
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		h = slog.NewJSONHandler(os.Stderr, opts)
	case "", "text":
		h = slog.NewTextHandler(os.Stderr, opts)
	default:
		panic("unknown log format: " + cfg.Format)
	}
	log := slog.New(h)
	slog.SetDefault(log)
	return log
}
