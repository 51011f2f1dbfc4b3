package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Environment variable names read by LoadSettings.
const (
	EnvSecretKey        = "SECRET_KEY"
	EnvDatabaseURL      = "DATABASE_URL"
	EnvDebug            = "DEBUG"
	EnvEnvironment      = "ENVIRONMENT"
	EnvLogLevel         = "LOG_LEVEL"
	EnvAppName          = "APP_NAME"
	EnvMaxContentLength = "MAX_CONTENT_LENGTH"
)

const (
	DefaultSecretKey        = "do-or-do-not-there-is-no-try"
	DefaultEnvironment      = "production"
	DefaultLogLevel         = "INFO"
	DefaultAppName          = "Flask Application"
	DefaultMaxContentLength = 16 << 20
)

// Settings is the resolved application configuration. It is a plain value:
// once returned by LoadSettings it is never modified.
type Settings struct {
	SecretKey          string
	DatabaseURI        string
	TrackModifications bool
	Debug              bool
	Environment        string
	LogLevel           string
	AppName            string
	MaxContentLength   int64
}

// LoadSettings resolves Settings from env. Absent or empty keys fall back to
// their defaults. A malformed MAX_CONTENT_LENGTH is reported as a *ParseError.
func LoadSettings(env Env) (Settings, error) {
	s := Settings{
		SecretKey:          env.GetOr(EnvSecretKey, DefaultSecretKey),
		DatabaseURI:        env.Get(EnvDatabaseURL),
		TrackModifications: false,
		Debug:              parseDebug(env.Get(EnvDebug)),
		Environment:        env.GetOr(EnvEnvironment, DefaultEnvironment),
		LogLevel:           env.GetOr(EnvLogLevel, DefaultLogLevel),
		AppName:            env.GetOr(EnvAppName, DefaultAppName),
		MaxContentLength:   DefaultMaxContentLength,
	}

	if raw := env.Get(EnvMaxContentLength); raw != "" {
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return Settings{}, &ParseError{Key: EnvMaxContentLength, Value: raw, Err: err}
		}
		s.MaxContentLength = n
	}

	if s.DatabaseURI == "" {
		uri, err := defaultDatabaseURI()
		if err != nil {
			return Settings{}, fmt.Errorf("default %s: %w", EnvDatabaseURL, err)
		}
		s.DatabaseURI = uri
	}

	return s, nil
}

// Anything other than a case-insensitive "true" is false, including "1" and "yes".
func parseDebug(raw string) bool {
	return strings.ToLower(raw) == "true"
}
