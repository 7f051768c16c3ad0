package options

import (
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"golang.org/x/sync/singleflight"
)

// BuildFunc constructs the options table of one concrete type.
type BuildFunc func() (*Table, error)

// Fallback builds tables for types without a registered BuildFunc.
type Fallback func(t reflect.Type) (*Table, error)

// Registry maps concrete types to lazily built, cached options tables.
// Each table is built at most once per successful construction, including
// under concurrent first access; failed builds are not cached.
type Registry struct {
	mu       sync.RWMutex
	builders map[reflect.Type]BuildFunc
	fallback Fallback

	tables sync.Map // reflect.Type -> *Table
	flight singleflight.Group
	logger *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithFallback sets the builder used for unregistered types.
func WithFallback(f Fallback) Option {
	return func(r *Registry) {
		r.fallback = f
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		builders: make(map[reflect.Type]BuildFunc),
		logger:   slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry used by generated code.
func Default() *Registry {
	return defaultRegistry
}

// SetFallback replaces the fallback builder.
func (r *Registry) SetFallback(f Fallback) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.fallback = f
}

// SetLogger replaces the logger. A nil logger discards.
func (r *Registry) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger = l
}

// Register associates build with the concrete type t. Each type can be
// registered once.
func (r *Registry) Register(t reflect.Type, build BuildFunc) error {
	if build == nil {
		return fmt.Errorf("%s: %w", typeName(t), ErrNilBuild)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.builders[t]; dup {
		return fmt.Errorf("%s: %w", typeName(t), ErrAlreadyRegistered)
	}

	if _, built := r.tables.Load(t); built {
		return fmt.Errorf("%s: %w", typeName(t), ErrAlreadyRegistered)
	}

	r.builders[t] = build

	return nil
}

// Registered reports whether t has a registered BuildFunc.
func (r *Registry) Registered(t reflect.Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.builders[t]

	return ok
}

// GetOrBuild returns the cached table of t, building it on first access.
// Concurrent first accesses share one construction.
func (r *Registry) GetOrBuild(t reflect.Type) (*Table, error) {
	if cached, ok := r.tables.Load(t); ok {
		return cached.(*Table), nil
	}

	v, err, shared := r.flight.Do(typeKey(t), func() (any, error) {
		if cached, ok := r.tables.Load(t); ok {
			return cached, nil
		}

		build, err := r.builderFor(t)
		if err != nil {
			return nil, err
		}

		r.log().Debug("building options table", "type", typeName(t))

		table, err := build()
		if err != nil {
			r.log().Warn("options table build failed", "type", typeName(t), "err", err)

			return nil, fmt.Errorf("options for %s: %w", typeName(t), err)
		}

		actual, _ := r.tables.LoadOrStore(t, table)

		return actual, nil
	})
	if err != nil {
		return nil, err
	}

	if shared {
		r.log().Debug("options table construction shared", "type", typeName(t))
	}

	return v.(*Table), nil
}

// Lookup returns the options value at target in the table of t.
func (r *Registry) Lookup(t reflect.Type, target Target) (Value, bool) {
	table, err := r.GetOrBuild(t)
	if err != nil {
		return Value{}, false
	}

	return Lookup(table, target)
}

// Len returns the number of tables built so far.
func (r *Registry) Len() int {
	n := 0

	r.tables.Range(func(_, _ any) bool {
		n++

		return true
	})

	return n
}

func (r *Registry) builderFor(t reflect.Type) (BuildFunc, error) {
	r.mu.RLock()
	build, ok := r.builders[t]
	fallback := r.fallback
	r.mu.RUnlock()

	if ok {
		return build, nil
	}

	if fallback != nil {
		return func() (*Table, error) { return fallback(t) }, nil
	}

	return nil, fmt.Errorf("%s: %w", typeName(t), ErrNotRegistered)
}

func (r *Registry) log() *slog.Logger {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.logger
}

func typeKey(t reflect.Type) string {
	return fmt.Sprintf("%p/%s", t, typeName(t))
}

// Register associates build with T in r.
func Register[T any](r *Registry, build BuildFunc) error {
	return r.Register(reflect.TypeFor[T](), build)
}

// MustRegister registers build for T in the default registry and panics on
// failure. Generated code calls it from init.
func MustRegister[T any](build BuildFunc) {
	if err := Register[T](defaultRegistry, build); err != nil {
		panic(err)
	}
}

// GetOrBuild returns the table of T from r.
func GetOrBuild[T any](r *Registry) (*Table, error) {
	return r.GetOrBuild(reflect.TypeFor[T]())
}

// TableOf returns the table of T from the default registry.
func TableOf[T any]() (*Table, error) {
	return defaultRegistry.GetOrBuild(reflect.TypeFor[T]())
}

// StructDefaults builds the table of struct type T from per-field values
// keyed by Go field name. Visible fields without a value get Empty.
func StructDefaults[T any](values map[string]Value) (*Table, error) {
	t := reflect.TypeFor[T]()
	fields := VisibleFields(t)

	seen := make(map[string]bool, len(values))
	b := NewLayoutBuilder(StructLayout(t))

	for i, f := range fields {
		v, ok := values[f.Name]
		if ok {
			seen[f.Name] = true
		}

		b.Put(Field(i), v, Decoration{})
	}

	for name := range values {
		if !seen[name] {
			return nil, fmt.Errorf("options: %s has no visible field %q", t, name)
		}
	}

	return b.Build()
}
