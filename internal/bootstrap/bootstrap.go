package bootstrap

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/eugenenazirov/appboot/internal/application"
	"github.com/eugenenazirov/appboot/internal/config"
	"github.com/eugenenazirov/appboot/internal/logging"
	"github.com/eugenenazirov/appboot/internal/storage"
)

const (
	// LocalHost and LocalPort are where the development server listens.
	LocalHost = "0.0.0.0"
	LocalPort = "5000"

	localDatabaseURL = "bolt:///local.db"
)

// LocalOverrides returns the settings forced for a local run. They win over
// anything already present in the environment so every developer gets the
// same setup.
func LocalOverrides() config.Env {
	return config.Env{
		config.EnvSecretKey:   config.DefaultSecretKey,
		config.EnvDatabaseURL: localDatabaseURL,
		config.EnvDebug:       "True",
		config.EnvEnvironment: "development",
		config.EnvAppName:     "Flask App - Local",
		config.EnvHost:        LocalHost,
		config.EnvPort:        LocalPort,
	}
}

// Load resolves the local configuration from env with LocalOverrides applied.
func Load(env config.Env) (config.Config, error) {
	return config.Load(env, &config.Overrides{Env: LocalOverrides()})
}

// PrepareSchema opens the database named in settings, ensures its schema and
// closes it again. Running it repeatedly is safe.
func PrepareSchema(ctx context.Context, settings config.Settings) error {
	store, err := storage.Open(settings.DatabaseURI)
	if err != nil {
		return err
	}
	if err := store.EnsureSchema(ctx); err != nil {
		_ = store.Close()
		return fmt.Errorf("ensure schema: %w", err)
	}
	return store.Close()
}

// PrintBanner writes the operator-facing startup lines.
func PrintBanner(w io.Writer, port string) {
	base := "http://localhost:" + port
	fmt.Fprintln(w, "Starting development server...")
	fmt.Fprintf(w, "Access your app at: %s\n", base)
	fmt.Fprintf(w, "Health check: %s/health\n", base)
	fmt.Fprintf(w, "Config: %s/config\n", base)
}

// Run performs the local bootstrap: load forced settings, prepare the schema,
// print the access URLs and serve until ctx is cancelled or a signal arrives.
func Run(ctx context.Context, env config.Env, out io.Writer) error {
	cfg, err := Load(env)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if err := PrepareSchema(ctx, cfg.Settings); err != nil {
		return err
	}
	fmt.Fprintln(out, "Database schema ready!")

	logger, err := logging.New(cfg.Settings.LogLevel, cfg.Settings.Debug)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	store, err := storage.Open(cfg.Settings.DatabaseURI)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("close database", zap.Error(err))
		}
	}()

	app, err := application.New(cfg, store, logger)
	if err != nil {
		return fmt.Errorf("initialize application: %w", err)
	}

	PrintBanner(out, cfg.Server.Port)
	return app.Run(ctx)
}
