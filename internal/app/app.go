package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/modelgraph/internal/config"
	"github.com/vk/modelgraph/internal/ctxlog"
	"github.com/vk/modelgraph/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	registry *registry.Registry
	catalog  *registry.Catalog
	model    *config.Model
}

// NewApp is the constructor for the main application. Reports are written to
// outW and logs to logW. It loads the model, registers the modules (the core
// modules when none are given) and builds the registry.
func NewApp(outW, logW io.Writer, appConfig *Config, loader config.Loader, modules ...registry.Module) (*App, error) {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	cfgModel, err := loader.Load(ctx, appConfig.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Debug("Configuration loaded and translated into unified model.")

	if len(modules) == 0 {
		modules = coreModules
	}
	reg := registry.New(modules...)
	logger.Debug("All Go modules registered.", "count", len(modules))

	if err := reg.PopulateFromModel(cfgModel); err != nil {
		return nil, fmt.Errorf("failed to populate registry: %w", err)
	}
	logger.Debug("Registry populated from config model.")

	catalog, err := reg.Build(ctx)
	if err != nil {
		return nil, err
	}

	return &App{
		outW:     outW,
		logger:   logger,
		config:   appConfig,
		registry: reg,
		catalog:  catalog,
		model:    cfgModel,
	}, nil
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Catalog returns the built type universe and discovery service.
func (a *App) Catalog() *registry.Catalog {
	return a.catalog
}
