// Package di is the application root. It builds the configuration-driven
// services of chassis in a fixed order: logger, document, bindings, the
// built-in mixin installers and the registry they are registered in.
package di

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"go.uber.org/multierr"

	"github.com/conneroisu/chassis/internal/config"
	"github.com/conneroisu/chassis/internal/watcher"
)

// Service names.
const (
	ServiceLogger      = "logger"
	ServiceDocument    = "document"
	ServiceEmitter     = "emitter"
	ServiceBindings    = "bindings"
	ServiceDataList    = "datalist"
	ServiceListInput   = "listinput"
	ServiceRegistry    = "registry"
	ServiceFileWatcher = "fileWatcher"
)

// dependencyResolver resolves dependencies for a factory while tracking
// the services being built, so cycles fail instead of deadlocking.
type dependencyResolver struct {
	container *ServiceContainer
	resolving map[string]bool
}

func (dr *dependencyResolver) Get(name string) (interface{}, error) {
	return dr.container.getWithResolver(name, dr.resolving)
}

func (dr *dependencyResolver) MustGet(name string) interface{} {
	instance, err := dr.Get(name)
	if err != nil {
		panic(fmt.Sprintf("failed to get service '%s': %v", name, err))
	}
	return instance
}

// DependencyResolver provides safe dependency resolution that prevents circular dependencies
type DependencyResolver interface {
	Get(name string) (interface{}, error)
	MustGet(name string) interface{}
}

// FactoryFunc creates a service instance using the dependency resolver
type FactoryFunc func(resolver DependencyResolver) (interface{}, error)

// ServiceDefinition defines how a service should be created and managed
type ServiceDefinition struct {
	Name         string
	Factory      FactoryFunc
	Singleton    bool
	Dependencies []string
	Tags         []string
}

// ServiceContainer manages dependency injection for the application
type ServiceContainer struct {
	services    map[string]ServiceDefinition
	singletons  map[string]interface{}
	creating    map[string]*sync.WaitGroup
	mu          sync.RWMutex
	config      *config.Config
	logOutput   io.Writer
	closers     []io.Closer
	initialized bool
}

// ServiceBuilder helps build service definitions
type ServiceBuilder struct {
	definition ServiceDefinition
	container  *ServiceContainer
}

// NewServiceContainer creates a container for cfg. A nil cfg uses
// config.Default.
func NewServiceContainer(cfg *config.Config) *ServiceContainer {
	if cfg == nil {
		cfg = config.Default()
	}
	return &ServiceContainer{
		services:   make(map[string]ServiceDefinition),
		singletons: make(map[string]interface{}),
		creating:   make(map[string]*sync.WaitGroup),
		config:     cfg,
		logOutput:  os.Stderr,
	}
}

// SetLogOutput redirects console logs. Call before Initialize.
func (c *ServiceContainer) SetLogOutput(w io.Writer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logOutput = w
}

// Config returns the configuration the container was built with.
func (c *ServiceContainer) Config() *config.Config { return c.config }

// Register registers a transient service with the container
func (c *ServiceContainer) Register(name string, factory FactoryFunc) *ServiceBuilder {
	c.mu.Lock()
	defer c.mu.Unlock()

	builder := &ServiceBuilder{
		definition: ServiceDefinition{Name: name, Factory: factory},
		container:  c,
	}
	c.services[name] = builder.definition
	return builder
}

// RegisterSingleton registers a singleton service
func (c *ServiceContainer) RegisterSingleton(name string, factory FactoryFunc) *ServiceBuilder {
	return c.Register(name, factory).AsSingleton()
}

// RegisterInstance registers an existing instance as a singleton
func (c *ServiceContainer) RegisterInstance(name string, instance interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.singletons[name] = instance
	c.services[name] = ServiceDefinition{Name: name, Singleton: true}
}

// Get retrieves a service from the container
func (c *ServiceContainer) Get(name string) (interface{}, error) {
	return c.getWithResolver(name, make(map[string]bool))
}

func (c *ServiceContainer) getWithResolver(name string, resolving map[string]bool) (interface{}, error) {
	if resolving[name] {
		return nil, fmt.Errorf("circular dependency detected for service '%s'", name)
	}

	c.mu.RLock()
	definition, exists := c.services[name]
	c.mu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("service '%s' not registered", name)
	}

	if !definition.Singleton {
		resolving[name] = true
		instance, err := c.create(definition.Factory, resolving)
		delete(resolving, name)
		if err != nil {
			return nil, fmt.Errorf("failed to create service '%s': %w", name, err)
		}
		return instance, nil
	}

	for {
		c.mu.Lock()
		if instance, ok := c.singletons[name]; ok {
			c.mu.Unlock()
			return instance, nil
		}
		wg, busy := c.creating[name]
		if !busy {
			wg = &sync.WaitGroup{}
			wg.Add(1)
			c.creating[name] = wg
			c.mu.Unlock()
			break
		}
		c.mu.Unlock()
		// Another goroutine is building it; wait and look again.
		wg.Wait()
	}

	resolving[name] = true
	instance, err := c.create(definition.Factory, resolving)
	delete(resolving, name)

	c.mu.Lock()
	wg := c.creating[name]
	delete(c.creating, name)
	if err == nil {
		c.singletons[name] = instance
	}
	c.mu.Unlock()
	wg.Done()

	if err != nil {
		return nil, fmt.Errorf("failed to create singleton service '%s': %w", name, err)
	}
	return instance, nil
}

func (c *ServiceContainer) create(factory FactoryFunc, resolving map[string]bool) (interface{}, error) {
	if factory == nil {
		return nil, fmt.Errorf("factory is nil")
	}
	return factory(&dependencyResolver{container: c, resolving: resolving})
}

// MustGet retrieves a service and panics if not found
func (c *ServiceContainer) MustGet(name string) interface{} {
	instance, err := c.Get(name)
	if err != nil {
		panic(fmt.Sprintf("failed to get service '%s': %v", name, err))
	}
	return instance
}

// Has checks if a service is registered
func (c *ServiceContainer) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, exists := c.services[name]
	return exists
}

// GetByTag retrieves all services with a specific tag, ordered by name.
func (c *ServiceContainer) GetByTag(tag string) ([]interface{}, error) {
	c.mu.RLock()
	var names []string
	for _, definition := range c.services {
		for _, defTag := range definition.Tags {
			if defTag == tag {
				names = append(names, definition.Name)
				break
			}
		}
	}
	c.mu.RUnlock()
	sort.Strings(names)

	services := make([]interface{}, 0, len(names))
	for _, name := range names {
		service, err := c.Get(name)
		if err != nil {
			return nil, err
		}
		services = append(services, service)
	}
	return services, nil
}

// ListServices returns the registered service names, sorted.
func (c *ServiceContainer) ListServices() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	services := make([]string, 0, len(c.services))
	for name := range c.services {
		services = append(services, name)
	}
	sort.Strings(services)
	return services
}

// GetServiceDefinition returns the definition for a service
func (c *ServiceContainer) GetServiceDefinition(name string) (ServiceDefinition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	definition, exists := c.services[name]
	return definition, exists
}

// AsSingleton marks the service as a singleton
func (sb *ServiceBuilder) AsSingleton() *ServiceBuilder {
	sb.definition.Singleton = true
	sb.updateContainer()
	return sb
}

// DependsOn records dependencies of the service
func (sb *ServiceBuilder) DependsOn(dependencies ...string) *ServiceBuilder {
	sb.definition.Dependencies = append(sb.definition.Dependencies, dependencies...)
	sb.updateContainer()
	return sb
}

// WithTag adds tags to the service
func (sb *ServiceBuilder) WithTag(tags ...string) *ServiceBuilder {
	sb.definition.Tags = append(sb.definition.Tags, tags...)
	sb.updateContainer()
	return sb
}

func (sb *ServiceBuilder) updateContainer() {
	sb.container.mu.Lock()
	sb.container.services[sb.definition.Name] = sb.definition
	sb.container.mu.Unlock()
}

// Shutdown stops the file watcher and closes log files. Singletons are
// dropped, so a later Get builds fresh ones.
func (c *ServiceContainer) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	fw, _ := c.singletons[ServiceFileWatcher].(*watcher.FileWatcher)
	closers := c.closers
	c.closers = nil
	c.singletons = make(map[string]interface{})
	c.initialized = false
	c.mu.Unlock()

	var err error
	if fw != nil {
		err = multierr.Append(err, fw.Stop())
	}
	for _, closer := range closers {
		err = multierr.Append(err, closer.Close())
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		err = multierr.Append(err, ctxErr)
	}
	return err
}
