// Package cli provides the initialization shared by the cuentas entry points:
// logging, .env loading, configuration and opening the application on the
// configured backend.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"

	"cuentas/internal/app"
	"cuentas/internal/backend"
	"cuentas/internal/config"
	"cuentas/internal/log"
)

// SetupLogger initializes structured logging at the given level and sets it as
// the default logger. Records go to w (stderr when nil).
func SetupLogger(level string, w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	logger := log.New(log.Config{
		Level:     log.ParseLevel(level),
		Component: log.ComponentCLI,
		Output:    w,
	})
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local use.
// A missing file is not an error.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration from the environment and validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// OpenApp opens the configured backend and returns a started App. The caller
// owns the App and must Close it.
func OpenApp(ctx context.Context, cfg *config.Config, logger *log.Logger) (*app.App, error) {
	return OpenAppWith(ctx, backend.NewFactory(logger), cfg, logger)
}

// OpenAppWith is OpenApp with an explicit backend factory.
func OpenAppWith(ctx context.Context, factory backend.Factory, cfg *config.Config, logger *log.Logger) (*app.App, error) {
	if logger == nil {
		logger = log.Discard()
	}
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}

	res, err := factory.CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to open backend", log.FieldError, err, log.FieldBackend, backendCfg.Type)
		return nil, err
	}

	a := app.New(res.Store, app.Options{
		CascadeDelete:   cfg.CascadeDelete,
		WithholdingRate: cfg.WithholdingRate,
		Logger:          logger,
	})
	if err := a.Start(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

// ErrInterrupted is the cancellation cause of a ShutdownContext stopped by
// SIGINT or SIGTERM.
var ErrInterrupted = errors.New("interrupted by signal")

// ShutdownContext returns a context cancelled on SIGINT or SIGTERM so an
// in-flight store operation can stop cleanly. The returned stop releases the
// signal handler; after a signal, context.Cause(ctx) is ErrInterrupted.
func ShutdownContext(parent context.Context, logger *log.Logger) (context.Context, context.CancelFunc) {
	if logger == nil {
		logger = log.Discard()
	}
	ctx, cancel := context.WithCancelCause(parent)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String(), log.FieldOperation, log.OpShutdown)
			cancel(ErrInterrupted)
		case <-done:
		}
	}()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			signal.Stop(sigChan)
			close(done)
			cancel(context.Canceled)
		})
	}
	return ctx, stop
}
