// Package registry lazily constructs backend instances and memoises them,
// one slot per backend name.
package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-parsers/internal/logging"
	"github.com/goliatone/go-parsers/pkg/interfaces"
)

// Factory builds the underlying library handle for one backend.
type Factory func() (any, error)

type slot struct {
	mu       sync.Mutex
	factory  Factory
	instance any
	ready    bool
}

// Registry owns every backend slot. Each slot has its own lock, so building
// one backend never blocks lookups of another.
type Registry struct {
	mu     sync.RWMutex
	slots  map[string]*slot
	logger interfaces.Logger
}

// New constructs an empty registry. A nil logger disables logging.
func New(logger interfaces.Logger) *Registry {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Registry{
		slots:  make(map[string]*slot),
		logger: logger,
	}
}

// Register reserves a slot for name. Nothing is constructed until Get.
func (r *Registry) Register(name string, factory Factory) error {
	name = strings.TrimSpace(name)
	if name == "" || factory == nil {
		return fmt.Errorf("registry: name and factory are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.slots[name]; exists {
		return duplicateError(name)
	}
	r.slots[name] = &slot{factory: factory}
	return nil
}

// Get returns the instance for name, constructing it on first use. A failed
// construction is not memoised, so a later call retries the factory.
func (r *Registry) Get(name string) (any, error) {
	s, ok := r.lookup(name)
	if !ok {
		return nil, NotRegisteredError(name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ready {
		return s.instance, nil
	}

	instance, err := build(s.factory)
	if err != nil {
		r.logger.Error("registry.construct.failed", "backend", name, "error", err)
		return nil, constructError(name, err)
	}

	s.instance = instance
	s.ready = true
	r.logger.Debug("registry.construct.success", "backend", name, "instance_type", fmt.Sprintf("%T", instance))
	return instance, nil
}

// Constructed reports whether the slot for name holds an instance.
func (r *Registry) Constructed(name string) bool {
	s, ok := r.lookup(name)
	if !ok {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

// Names lists every registered backend in lexical order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.slots))
	for name := range r.slots {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) lookup(name string) (*slot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.slots[strings.TrimSpace(name)]
	return s, ok
}

func build(factory Factory) (instance any, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("factory panic: %v", recovered)
		}
	}()
	return factory()
}

// Load fetches the instance for name and asserts its concrete type.
func Load[T any](r *Registry, name string) (T, error) {
	var zero T
	instance, err := r.Get(name)
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, instanceTypeError(name, instance, fmt.Sprintf("%T", zero))
	}
	return typed, nil
}
