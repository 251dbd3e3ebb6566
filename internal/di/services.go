package di

import (
	"fmt"
	"os"

	"github.com/conneroisu/chassis/internal/binding"
	"github.com/conneroisu/chassis/internal/datalist"
	"github.com/conneroisu/chassis/internal/dom"
	"github.com/conneroisu/chassis/internal/events"
	"github.com/conneroisu/chassis/internal/listinput"
	"github.com/conneroisu/chassis/internal/logging"
	"github.com/conneroisu/chassis/internal/registry"
	"github.com/conneroisu/chassis/internal/watcher"
)

// Initialize registers the core services and builds the registry, which
// pulls in everything it depends on.
func (c *ServiceContainer) Initialize() error {
	c.mu.RLock()
	done := c.initialized
	c.mu.RUnlock()
	if done {
		return nil
	}

	c.registerCoreServices()
	for _, name := range []string{ServiceLogger, ServiceRegistry} {
		if _, err := c.Get(name); err != nil {
			return fmt.Errorf("failed to initialize core services: %w", err)
		}
	}

	c.mu.Lock()
	c.initialized = true
	c.mu.Unlock()
	return nil
}

func (c *ServiceContainer) registerCoreServices() {
	c.RegisterSingleton(ServiceLogger, func(DependencyResolver) (interface{}, error) {
		return c.buildLogger()
	}).WithTag("core")

	c.RegisterSingleton(ServiceDocument, func(DependencyResolver) (interface{}, error) {
		return dom.NewDocument(), nil
	}).WithTag("core")

	c.RegisterSingleton(ServiceEmitter, func(r DependencyResolver) (interface{}, error) {
		logger, err := r.Get(ServiceLogger)
		if err != nil {
			return nil, err
		}
		return events.NewEmitter(logger.(logging.Logger)), nil
	}).DependsOn(ServiceLogger).WithTag("core")

	c.RegisterSingleton(ServiceBindings, func(DependencyResolver) (interface{}, error) {
		return binding.NewStore(), nil
	}).WithTag("core")

	c.RegisterSingleton(ServiceDataList, func(r DependencyResolver) (interface{}, error) {
		return datalist.NewInstaller(
			r.MustGet(ServiceBindings).(*binding.Store),
			r.MustGet(ServiceEmitter).(*events.Emitter),
			c.config.ListDefaults(),
			r.MustGet(ServiceLogger).(logging.Logger),
		), nil
	}).DependsOn(ServiceBindings, ServiceEmitter, ServiceLogger).WithTag("mixin")

	c.RegisterSingleton(ServiceListInput, func(r DependencyResolver) (interface{}, error) {
		return listinput.NewInstaller(
			r.MustGet(ServiceBindings).(*binding.Store),
			r.MustGet(ServiceDataList).(*datalist.Installer),
			r.MustGet(ServiceEmitter).(*events.Emitter),
			c.config.Watcher.Debounce,
			r.MustGet(ServiceLogger).(logging.Logger),
		), nil
	}).DependsOn(ServiceBindings, ServiceDataList, ServiceEmitter, ServiceLogger).WithTag("mixin")

	c.RegisterSingleton(ServiceRegistry, func(r DependencyResolver) (interface{}, error) {
		reg := registry.NewRegistry(
			r.MustGet(ServiceDocument).(*dom.Document),
			r.MustGet(ServiceLogger).(logging.Logger),
		)
		reg.Register(&registry.MixinInfo{
			Name:        datalist.Name,
			Description: "ordered list data with create/delete/remove/modify/update events",
			Install:     r.MustGet(ServiceDataList).(*datalist.Installer).Install,
		})
		reg.Register(&registry.MixinInfo{
			Name:        listinput.Name,
			Description: "text input that splits typed values into its list on Enter",
			Install:     r.MustGet(ServiceListInput).(*listinput.Installer).Install,
		})
		return reg, nil
	}).DependsOn(ServiceDocument, ServiceLogger, ServiceDataList, ServiceListInput).WithTag("core")

	c.RegisterSingleton(ServiceFileWatcher, func(r DependencyResolver) (interface{}, error) {
		logger, err := r.Get(ServiceLogger)
		if err != nil {
			return nil, err
		}
		return watcher.NewFileWatcher(c.config.Watcher.FileDebounce, logger.(logging.Logger))
	}).DependsOn(ServiceLogger)
}

func (c *ServiceContainer) buildLogger() (logging.Logger, error) {
	c.mu.RLock()
	out := c.logOutput
	c.mu.RUnlock()

	lc, err := c.config.LoggerConfig(out)
	if err != nil {
		return nil, err
	}
	console := logging.NewLogger(lc)
	if c.config.Log.File == "" {
		return console, nil
	}

	f, err := os.OpenFile(c.config.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	c.mu.Lock()
	c.closers = append(c.closers, f)
	c.mu.Unlock()

	file := logging.NewLogger(&logging.LoggerConfig{Level: logging.LevelDebug, Format: "json", Output: f})
	return logging.NewMultiLogger(console, file), nil
}

// Logger retrieves the application logger.
func (c *ServiceContainer) Logger() (logging.Logger, error) {
	service, err := c.Get(ServiceLogger)
	if err != nil {
		return nil, err
	}
	return service.(logging.Logger), nil
}

// Document retrieves the document selectors resolve against.
func (c *ServiceContainer) Document() (*dom.Document, error) {
	service, err := c.Get(ServiceDocument)
	if err != nil {
		return nil, err
	}
	return service.(*dom.Document), nil
}

// Bindings retrieves the host binding store.
func (c *ServiceContainer) Bindings() (*binding.Store, error) {
	service, err := c.Get(ServiceBindings)
	if err != nil {
		return nil, err
	}
	return service.(*binding.Store), nil
}

// Registry retrieves the mixin registry.
func (c *ServiceContainer) Registry() (*registry.Registry, error) {
	service, err := c.Get(ServiceRegistry)
	if err != nil {
		return nil, err
	}
	return service.(*registry.Registry), nil
}

// FileWatcher retrieves the scenario file watcher, creating it on first
// use.
func (c *ServiceContainer) FileWatcher() (*watcher.FileWatcher, error) {
	service, err := c.Get(ServiceFileWatcher)
	if err != nil {
		return nil, err
	}
	return service.(*watcher.FileWatcher), nil
}
