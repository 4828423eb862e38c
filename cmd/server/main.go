package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/camka14/mvp-site/internal/config"
)

type Config struct {
	Port            string
	Environment     string
	ConfigPath      string
	ShutdownTimeout time.Duration
}

func loadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found")
	}

	return &Config{
		Port:            getEnv("PORT", ""),
		Environment:     getEnv("ENVIRONMENT", "development"),
		ConfigPath:      getEnv("CONFIG_PATH", "config/app.yaml"),
		ShutdownTimeout: time.Duration(getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 30)) * time.Second,
	}, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func setupLogger(environment string, debug bool) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	if environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func main() {
	serverCfg, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	appCfg, err := config.Load(serverCfg.ConfigPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", serverCfg.ConfigPath).Msg("Failed to load app configuration")
	}
	if serverCfg.Port == "" {
		serverCfg.Port = strconv.Itoa(appCfg.App.Port)
	}
	if appCfg.App.Environment != "" && os.Getenv("ENVIRONMENT") == "" {
		serverCfg.Environment = appCfg.App.Environment
	}

	setupLogger(serverCfg.Environment, appCfg.Features.EnableDebug)

	application, err := newApp(appCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}
	defer application.Close()

	server := newServer(serverCfg, application)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("port", serverCfg.Port).Str("environment", serverCfg.Environment).Msg("Starting server")
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	if application.scheduler != nil {
		application.scheduler.Start()
	}

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), serverCfg.ShutdownTimeout)
		defer cancel()

		log.Info().Msg("Shutting down server")
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server terminated with error")
		application.Close()
		os.Exit(1)
	}
}
