// Package bootstrap provides application lifecycle helpers.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

const DefaultShutdownTimeout = 10 * time.Second

type shutdownHook struct {
	name string
	fn   func(ctx context.Context) error
}

// App runs a long-lived function and shuts it down gracefully on SIGINT or SIGTERM.
type App struct {
	shutdownTimeout time.Duration

	mu    sync.Mutex
	hooks []shutdownHook
}

type Option func(*App)

// WithShutdownTimeout bounds how long the shutdown hooks may take in total.
func WithShutdownTimeout(timeout time.Duration) Option {
	return func(a *App) {
		a.shutdownTimeout = timeout
	}
}

func New(opts ...Option) *App {
	a := &App{
		shutdownTimeout: DefaultShutdownTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AddShutdownHook registers fn to be called on shutdown.
// Hooks run in reverse order of registration. Safe for concurrent use.
func (a *App) AddShutdownHook(name string, fn func(ctx context.Context) error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hooks = append(a.hooks, shutdownHook{name: name, fn: fn})
}

// Run calls run and waits for it to return or for ctx to be done.
// When ctx is done, or a signal arrives, the shutdown hooks are called and
// run gets until the shutdown timeout to return.
// If run returns before that, its error is returned as is.
func (a *App) Run(ctx context.Context, run func(ctx context.Context) error) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- run(ctx)
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if ctx.Err() == nil {
			return err
		}
		return errors.Join(err, a.shutdown())
	case <-ctx.Done():
	}

	slog.Default().Info("shutting down", "reason", context.Cause(ctx))
	shutdownErr := a.shutdown()

	timer := time.NewTimer(a.shutdownTimeout)
	defer timer.Stop()
	select {
	case err := <-errCh:
		return errors.Join(err, shutdownErr)
	case <-timer.C:
		return errors.Join(fmt.Errorf("run did not return within %s", a.shutdownTimeout), shutdownErr)
	}
}

func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()

	a.mu.Lock()
	defer a.mu.Unlock()
	var errs []error
	for i := len(a.hooks) - 1; i >= 0; i-- {
		hook := a.hooks[i]
		if err := hook.fn(ctx); err != nil {
			slog.Default().Error("shutdown hook failed", "hook", hook.name, "error", err)
			errs = append(errs, fmt.Errorf("%s > %w", hook.name, err))
		}
	}
	return errors.Join(errs...)
}
