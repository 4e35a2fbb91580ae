// Package monolith wires bounded-context modules around one DI container
// and shared infrastructure.
package monolith

import (
	"context"
	"errors"
	"fmt"

	"github.com/fd1az/dynfee-amm/internal/config"
	"github.com/fd1az/dynfee-amm/internal/di"
	"github.com/fd1az/dynfee-amm/internal/health"
	"github.com/fd1az/dynfee-amm/internal/logger"
)

// Monolith is what a module sees during Startup.
type Monolith interface {
	Config() *config.Config
	Logger() logger.LoggerInterface
	// Health is nil when no health server runs.
	Health() *health.Server
	Services() di.ServiceRegistry
	// OnClose registers fn to run at shutdown, after modules registered later.
	OnClose(fn func() error)
}

// Module is a bounded context. RegisterServices only declares factories;
// Startup may resolve them.
type Module interface {
	Name() string
	RegisterServices(di.Container) error
	Startup(context.Context, Monolith) error
}

// App owns the container, the module list and the shutdown hooks.
type App struct {
	cfg       *config.Config
	log       logger.LoggerInterface
	health    *health.Server
	container di.Container
	modules   []Module
	closers   []func() error
}

// New creates an App with "config" and "logger" registered in its container.
func New(cfg *config.Config, log logger.LoggerInterface, hs *health.Server) *App {
	c := di.NewContainer()
	c.Register("config", cfg)
	c.Register("logger", log)

	return &App{cfg: cfg, log: log, health: hs, container: c}
}

func (a *App) Config() *config.Config         { return a.cfg }
func (a *App) Logger() logger.LoggerInterface { return a.log }
func (a *App) Health() *health.Server         { return a.health }
func (a *App) Services() di.ServiceRegistry   { return a.container }

func (a *App) OnClose(fn func() error) {
	a.closers = append(a.closers, fn)
}

// Register declares the services of each module, in order. Modules are
// started in the same order by Start.
func (a *App) Register(modules ...Module) error {
	for _, m := range modules {
		if err := m.RegisterServices(a.container); err != nil {
			return fmt.Errorf("register %s: %w", m.Name(), err)
		}
		a.modules = append(a.modules, m)
	}
	return nil
}

// Start runs Startup on every registered module, stopping at the first error.
func (a *App) Start(ctx context.Context) error {
	for _, m := range a.modules {
		if err := m.Startup(ctx, a); err != nil {
			return fmt.Errorf("start %s: %w", m.Name(), err)
		}
		a.log.Debug(ctx, "module started", "module", m.Name())
	}
	return nil
}

// Close runs the shutdown hooks in reverse registration order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
