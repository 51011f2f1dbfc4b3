package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/appboot/internal/application"
	"github.com/eugenenazirov/appboot/internal/config"
	"github.com/eugenenazirov/appboot/internal/logging"
	"github.com/eugenenazirov/appboot/internal/storage"
)

func main() {
	overrides, err := parseFlags(os.Args[1:])
	kingpin.FatalIfError(err, "parse flags")

	cfg, err := config.Load(config.FromOS(), overrides)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	logger, err := logging.New(cfg.Settings.LogLevel, cfg.Settings.Debug)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	store, err := storage.Open(cfg.Settings.DatabaseURI)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("failed to close database", zap.Error(err))
		}
	}()

	if err := store.EnsureSchema(context.Background()); err != nil {
		logger.Fatal("failed to ensure database schema", zap.Error(err))
	}
	logger.Info("database ready", zap.String("path", store.Path()))

	app, err := application.New(cfg, store, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}

	if err := app.Run(context.Background()); err != nil {
		logger.Fatal("server stopped with error", zap.Error(err))
	}
}

// parseFlags turns command-line flags into config overrides. Unset flags leave
// the lower-precedence sources in charge.
func parseFlags(args []string) (*config.Overrides, error) {
	kingpinApp := kingpin.New("appboot", "Web application server configured from the environment")
	configFile := kingpinApp.Flag("config", "Path to YAML configuration file").String()
	host := kingpinApp.Flag("host", "Interface the HTTP server binds to").String()
	port := kingpinApp.Flag("port", "HTTP port exposed by the service").String()
	rateLimitRPSFlag := kingpinApp.Flag("rate-limit-rps", "Requests per second allowed (set 0 to disable)").Default("-1").Float64()
	rateLimitBurstFlag := kingpinApp.Flag("rate-limit-burst", "Burst capacity for rate limiter (set 0 to disable)").Default("-1").Int()

	if _, err := kingpinApp.Parse(args); err != nil {
		return nil, err
	}

	overrides := &config.Overrides{
		ConfigFile: *configFile,
	}

	if *host != "" {
		overrides.Host = host
	}

	if *port != "" {
		overrides.Port = port
	}

	if *rateLimitRPSFlag >= 0 {
		overrides.RateLimitRPS = rateLimitRPSFlag
	}

	if *rateLimitBurstFlag >= 0 {
		overrides.RateLimitBurst = rateLimitBurstFlag
	}

	return overrides, nil
}
