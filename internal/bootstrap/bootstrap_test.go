package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/eugenenazirov/appboot/internal/config"
)

func TestLoadForcesLocalSettings(t *testing.T) {
	env := config.Env{
		config.EnvSecretKey:   "developer-secret",
		config.EnvDatabaseURL: "bolt:////somewhere/else.db",
		config.EnvDebug:       "false",
		config.EnvEnvironment: "production",
		config.EnvAppName:     "mine",
		config.EnvPort:        "9999",
		config.EnvLogLevel:    "WARNING",
	}

	cfg, err := Load(env)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	s := cfg.Settings
	if s.SecretKey != config.DefaultSecretKey || s.DatabaseURI != "bolt:///local.db" {
		t.Fatalf("expected forced secret and database, got %+v", s)
	}
	if !s.Debug || s.Environment != "development" || s.AppName != "Flask App - Local" {
		t.Fatalf("expected forced development settings, got %+v", s)
	}
	if s.LogLevel != "WARNING" {
		t.Fatalf("expected unforced LOG_LEVEL to pass through, got %s", s.LogLevel)
	}
	if cfg.Server.Addr() != "0.0.0.0:5000" {
		t.Fatalf("expected 0.0.0.0:5000, got %s", cfg.Server.Addr())
	}
	if env[config.EnvAppName] != "mine" {
		t.Fatalf("Load must not modify the caller's env")
	}
}

func TestLoadDoesNotTouchProcessEnvironment(t *testing.T) {
	t.Setenv(config.EnvAppName, "from-process")

	if _, err := Load(config.FromOS()); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got := os.Getenv(config.EnvAppName); got != "from-process" {
		t.Fatalf("process environment was modified: %s", got)
	}
}

func TestPrepareSchemaIsIdempotent(t *testing.T) {
	uri := "bolt:///" + filepath.ToSlash(filepath.Join(t.TempDir(), "local.db"))
	settings := config.Settings{DatabaseURI: uri}
	ctx := context.Background()

	if err := PrepareSchema(ctx, settings); err != nil {
		t.Fatalf("first PrepareSchema returned error: %v", err)
	}
	if err := PrepareSchema(ctx, settings); err != nil {
		t.Fatalf("second PrepareSchema returned error: %v", err)
	}
}

func TestPrepareSchemaRelativeToWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	if err := PrepareSchema(context.Background(), config.Settings{DatabaseURI: localDatabaseURL}); err != nil {
		t.Fatalf("PrepareSchema returned error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "local.db")); err != nil {
		t.Fatalf("expected local.db in working directory: %v", err)
	}
}

func TestPrepareSchemaBadURI(t *testing.T) {
	if err := PrepareSchema(context.Background(), config.Settings{DatabaseURI: "sqlite:///local.db"}); err == nil {
		t.Fatalf("expected error for unsupported URI")
	}
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, LocalPort)

	want := strings.Join([]string{
		"Starting development server...",
		"Access your app at: http://localhost:5000",
		"Health check: http://localhost:5000/health",
		"Config: http://localhost:5000/config",
		"",
	}, "\n")
	if buf.String() != want {
		t.Fatalf("unexpected banner:\n%s", buf.String())
	}
}

func TestRunFailsFastOnMalformedConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	var out bytes.Buffer
	err := Run(context.Background(), config.Env{config.EnvMaxContentLength: "notanumber"}, &out)

	var parseErr *config.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *config.ParseError, got %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output before failure, got %q", out.String())
	}
	if _, err := os.Stat("local.db"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("database should not be created on config failure")
	}
}
