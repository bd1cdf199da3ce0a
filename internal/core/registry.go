package core

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// Factory creates a fresh instance of a registered class.
// Overrider calls it once per Override, so instances are never shared.
type Factory func() any

// Registry maps class identifiers to factories.
// It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Classes returns the registered class identifiers, sorted.
func (r *Registry) Classes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	classes := make([]string, 0, len(r.factories))
	for class := range r.factories {
		classes = append(classes, class)
	}

	sort.Strings(classes)

	return classes
}

// Lookup returns the factory registered for class.
func (r *Registry) Lookup(class string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[class]

	return factory, ok
}

// Register binds class to factory. Registering the same class again replaces the factory.
func (r *Registry) Register(class string, factory Factory) error {
	if class == "" {
		return fmt.Errorf("%w: empty class name", ErrInvalidRegistration)
	}

	if factory == nil {
		return fmt.Errorf("%w: nil factory for %s", ErrInvalidRegistration, class)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories[class] = factory

	return nil
}

// DefaultRegistry returns the process-wide registry used by the package-level helpers.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// RegisterType registers T under TypeName[T]() with a factory returning new(T),
// and returns the identifier it used.
func RegisterType[T any](registry *Registry) string {
	class := TypeName[T]()

	// class is never empty and the factory is never nil, so this cannot fail.
	_ = registry.Register(class, func() any { return new(T) })

	return class
}

// TypeName returns the identifier RegisterType uses for T, e.g. "service.IntegerService".
func TypeName[T any]() string {
	return reflect.TypeFor[T]().String()
}

// unexported variables.
var (
	//nolint:gochecknoglobals // Package-level registry mirrors a runtime class registry
	defaultRegistry = NewRegistry()
)
