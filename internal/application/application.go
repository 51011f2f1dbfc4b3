package application

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/eugenenazirov/appboot/internal/api"
	"github.com/eugenenazirov/appboot/internal/config"
)

var signalNotify = signal.Notify

// App encapsulates the application dependencies and HTTP server.
type App struct {
	cfg     config.Config
	db      api.Pinger
	handler *api.Handler
	router  http.Handler
	logger  *zap.Logger
	server  *http.Server
}

// New wires handlers, middleware and the HTTP server from cfg. db may be nil,
// in which case /health does not probe a database.
func New(cfg config.Config, db api.Pinger, logger *zap.Logger) (*App, error) {
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	handler := api.NewHandler(cfg.Settings, db)
	router := api.NewRouter(handler, logger,
		api.WithLogging(cfg.Server.EnableRequestLogging || cfg.Settings.Debug),
		api.WithRateLimit(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst),
		api.WithMaxContentLength(cfg.Settings.MaxContentLength),
		api.WithDebug(cfg.Settings.Debug),
	)

	return &App{
		cfg:     cfg,
		db:      db,
		handler: handler,
		router:  router,
		logger:  logger,
		server:  NewServer(cfg.Server, router),
	}, nil
}

// NewServer creates and configures an HTTP server from the provided options.
func NewServer(cfg config.Server, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening",
			zap.String("addr", a.server.Addr),
			zap.String("app", a.cfg.Settings.AppName),
			zap.String("environment", a.cfg.Settings.Environment),
			zap.Bool("debug", a.cfg.Settings.Debug),
		)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler {
	return a.router
}

// Run starts the server and blocks until SIGINT/SIGTERM or ctx is done, then
// shuts down within the configured grace period.
func (a *App) Run(ctx context.Context) error {
	if err := a.Start(); err != nil {
		return err
	}
	WaitForSignal(ctx, a.logger)
	Shutdown(a.server, a.cfg.Server.ShutdownGracePeriod, a.logger)
	return nil
}

// WaitForSignal blocks until an interrupt or termination signal arrives or
// ctx is cancelled.
func WaitForSignal(ctx context.Context, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		logger.Info("received signal", zap.String("signal", sig.String()))
	case <-ctx.Done():
	}
}

// Shutdown drains server within timeout and forces it closed if that fails.
func Shutdown(server *http.Server, timeout time.Duration, logger *zap.Logger) {
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}
