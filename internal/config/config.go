package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variable names for the HTTP server options.
const (
	EnvHost                 = "HOST"
	EnvPort                 = "PORT"
	EnvShutdownGracePeriod  = "SHUTDOWN_GRACE_PERIOD"
	EnvReadHeaderTimeout    = "READ_HEADER_TIMEOUT"
	EnvWriteTimeout         = "WRITE_TIMEOUT"
	EnvIdleTimeout          = "IDLE_TIMEOUT"
	EnvEnableRequestLogging = "ENABLE_REQUEST_LOGGING"
	EnvRateLimitRPS         = "RATE_LIMIT_RPS"
	EnvRateLimitBurst       = "RATE_LIMIT_BURST"
)

const (
	defaultPort           = "8080"
	defaultRateLimitRPS   = 25.0
	defaultRateLimitBurst = 50
)

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI overrides > Environment variables > YAML config > Defaults
type Config struct {
	Settings Settings
	Server   Server
}

// Server holds the HTTP server options.
type Server struct {
	Host                 string
	Port                 string
	ShutdownGracePeriod  time.Duration
	ReadHeaderTimeout    time.Duration
	WriteTimeout         time.Duration
	IdleTimeout          time.Duration
	EnableRequestLogging bool
	RateLimitRPS         float64
	RateLimitBurst       int
}

// Addr joins host and port into a listen address.
func (s Server) Addr() string {
	if strings.Contains(s.Port, ":") {
		return s.Port
	}
	return s.Host + ":" + s.Port
}

// yamlConfig represents the YAML configuration file structure. Scalars are
// kept as strings so every layer goes through the same parsers.
type yamlConfig struct {
	SecretKey        string     `yaml:"secret_key"`
	DatabaseURL      string     `yaml:"database_url"`
	Debug            string     `yaml:"debug"`
	Environment      string     `yaml:"environment"`
	LogLevel         string     `yaml:"log_level"`
	AppName          string     `yaml:"app_name"`
	MaxContentLength string     `yaml:"max_content_length"`
	Server           yamlServer `yaml:"server"`
}

type yamlServer struct {
	Host                 string        `yaml:"host"`
	Port                 string        `yaml:"port"`
	ShutdownGracePeriod  string        `yaml:"shutdown_grace_period"`
	ReadHeaderTimeout    string        `yaml:"read_header_timeout"`
	WriteTimeout         string        `yaml:"write_timeout"`
	IdleTimeout          string        `yaml:"idle_timeout"`
	EnableRequestLogging string        `yaml:"enable_request_logging"`
	RateLimit            yamlRateLimit `yaml:"rate_limit"`
}

// yamlRateLimit represents the rate limit section in YAML.
type yamlRateLimit struct {
	RPS   string `yaml:"rps"`
	Burst string `yaml:"burst"`
}

// Overrides holds values that take precedence over every other source.
// The local bootstrap passes its forced settings through Env; the CLI sets
// the pointer fields.
type Overrides struct {
	ConfigFile     string
	Env            Env
	Host           *string
	Port           *string
	RateLimitRPS   *float64
	RateLimitBurst *int
}

// Load resolves a Config from env with precedence:
// CLI overrides > Environment variables > YAML config > Defaults
func Load(env Env, overrides *Overrides) (Config, error) {
	merged := Env{}

	// Load from YAML file if specified
	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		merged = yamlCfg.env()
	}

	merged = merged.Merge(env)

	if overrides != nil {
		merged = merged.Merge(overrides.cliEnv())
	}

	settings, err := LoadSettings(merged)
	if err != nil {
		return Config{}, err
	}

	server, err := loadServer(merged)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{Settings: settings, Server: server}
	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// DefaultServer returns the server options used when nothing is configured.
func DefaultServer() Server {
	return Server{
		Port:                 defaultPort,
		ShutdownGracePeriod:  10 * time.Second,
		ReadHeaderTimeout:    5 * time.Second,
		WriteTimeout:         15 * time.Second,
		IdleTimeout:          60 * time.Second,
		EnableRequestLogging: true,
		RateLimitRPS:         defaultRateLimitRPS,
		RateLimitBurst:       defaultRateLimitBurst,
	}
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &yamlCfg, nil
}

// env flattens the file into the environment keys it stands in for.
func (y *yamlConfig) env() Env {
	env := Env{
		EnvSecretKey:            y.SecretKey,
		EnvDatabaseURL:          y.DatabaseURL,
		EnvDebug:                y.Debug,
		EnvEnvironment:          y.Environment,
		EnvLogLevel:             y.LogLevel,
		EnvAppName:              y.AppName,
		EnvMaxContentLength:     y.MaxContentLength,
		EnvHost:                 y.Server.Host,
		EnvPort:                 y.Server.Port,
		EnvShutdownGracePeriod:  y.Server.ShutdownGracePeriod,
		EnvReadHeaderTimeout:    y.Server.ReadHeaderTimeout,
		EnvWriteTimeout:         y.Server.WriteTimeout,
		EnvIdleTimeout:          y.Server.IdleTimeout,
		EnvEnableRequestLogging: y.Server.EnableRequestLogging,
		EnvRateLimitRPS:         y.Server.RateLimit.RPS,
		EnvRateLimitBurst:       y.Server.RateLimit.Burst,
	}
	for k, v := range env {
		if v == "" {
			delete(env, k)
		}
	}
	return env
}

func (o *Overrides) cliEnv() Env {
	env := Env{}
	for k, v := range o.Env {
		env[k] = v
	}
	if o.Host != nil && *o.Host != "" {
		env[EnvHost] = *o.Host
	}
	if o.Port != nil && *o.Port != "" {
		env[EnvPort] = *o.Port
	}
	if o.RateLimitRPS != nil && *o.RateLimitRPS >= 0 {
		env[EnvRateLimitRPS] = strconv.FormatFloat(*o.RateLimitRPS, 'f', -1, 64)
	}
	if o.RateLimitBurst != nil && *o.RateLimitBurst >= 0 {
		env[EnvRateLimitBurst] = strconv.Itoa(*o.RateLimitBurst)
	}
	return env
}

// loadServer applies env on top of DefaultServer.
func loadServer(env Env) (Server, error) {
	cfg := DefaultServer()
	cfg.Host = env.GetOr(EnvHost, cfg.Host)
	cfg.Port = strings.TrimSpace(env.GetOr(EnvPort, cfg.Port))

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{EnvShutdownGracePeriod, &cfg.ShutdownGracePeriod},
		{EnvReadHeaderTimeout, &cfg.ReadHeaderTimeout},
		{EnvWriteTimeout, &cfg.WriteTimeout},
		{EnvIdleTimeout, &cfg.IdleTimeout},
	}
	for _, d := range durations {
		raw := env.Get(d.key)
		if raw == "" {
			continue
		}
		value, err := time.ParseDuration(strings.TrimSpace(raw))
		if err != nil {
			return Server{}, &ParseError{Key: d.key, Value: raw, Err: err}
		}
		*d.dst = value
	}

	if raw := env.Get(EnvEnableRequestLogging); raw != "" {
		value, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return Server{}, &ParseError{Key: EnvEnableRequestLogging, Value: raw, Err: err}
		}
		cfg.EnableRequestLogging = value
	}

	if raw := env.Get(EnvRateLimitRPS); raw != "" {
		value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return Server{}, &ParseError{Key: EnvRateLimitRPS, Value: raw, Err: err}
		}
		cfg.RateLimitRPS = value
	}

	if raw := env.Get(EnvRateLimitBurst); raw != "" {
		value, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return Server{}, &ParseError{Key: EnvRateLimitBurst, Value: raw, Err: err}
		}
		cfg.RateLimitBurst = value
	}

	return cfg, nil
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if cfg.Server.Port == "" {
		return fmt.Errorf("%s cannot be empty", EnvPort)
	}
	if cfg.Server.RateLimitRPS < 0 {
		return fmt.Errorf("%s must be >= 0", EnvRateLimitRPS)
	}
	if cfg.Server.RateLimitBurst < 0 {
		return fmt.Errorf("%s must be >= 0", EnvRateLimitBurst)
	}
	if cfg.Settings.MaxContentLength < 0 {
		return fmt.Errorf("%s must be >= 0", EnvMaxContentLength)
	}
	return nil
}
