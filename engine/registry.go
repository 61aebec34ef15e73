// Package engine matches stylesheet rules against a live entity tree and
// applies the winning declarations to entity components. It owns the
// property registry, the per-sheet value cache and the dirty tracking that
// keeps re-styling incremental.
package engine

import (
	"fmt"

	"go.uber.org/zap"

	"ecss/css"
	"ecss/ecs"
)

// TargetShape describes the components an entity must (and must not) carry
// for a property to be applicable to it. An entity with a non-matching
// shape is skipped silently.
type TargetShape struct {
	Requires []string
	Without  []string
}

// Target is everything a handler gets to work with when applying a value.
// Resources beyond the world itself (asset lookups, logging) travel here
// explicitly rather than through package state.
type Target struct {
	World  *ecs.World
	Entity ecs.Entity
	Assets AssetResolver
	Log    *zap.Logger
}

// AssetResolver resolves a path mentioned in a stylesheet (font file, image)
// to a loaded resource. Resolution is read-only from the handler's point of
// view.
type AssetResolver interface {
	Resolve(path string) (any, error)
}

// Handler implements a single CSS property. Parse runs once per declaration
// site and its result is cached; Apply runs once per affected entity.
type Handler interface {
	// Parse converts declaration value tokens into the handler's cached
	// representation. A non-nil error marks the declaration site invalid
	// for this pass without caching anything.
	Parse(values css.Values) (any, error)

	// Shape reports which components the target entity must carry.
	Shape() TargetShape

	// Apply writes the parsed value onto the entity. The value is exactly
	// what Parse returned.
	Apply(value any, t Target)
}

// Registry maps property names to handlers and selector type tokens to
// component tags. Registration is expected to happen during startup, before
// the first Tick; the registry is not synchronized.
type Registry struct {
	log      *zap.Logger
	handlers map[string]Handler
	types    map[string]string
}

func NewRegistry(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		log:      log.Named("registry"),
		handlers: make(map[string]Handler),
		types:    make(map[string]string),
	}
}

// Register binds a property name to a handler. Re-registering a name
// replaces the previous handler, which lets callers override built-ins.
func (r *Registry) Register(name string, h Handler) {
	if _, ok := r.handlers[name]; ok {
		r.log.Debug("replacing property handler", zap.String("property", name))
	}
	r.handlers[name] = h
}

// RegisterTypeSelector binds a selector type token to a component tag, so
// that a selector like "button { ... }" matches entities carrying that
// component. Several tokens may alias the same tag.
func (r *Registry) RegisterTypeSelector(token, tag string) {
	r.types[token] = tag
}

// Handler looks up the handler for a property name.
func (r *Registry) Handler(name string) (Handler, bool) {
	h, ok := r.handlers[name]
	return h, ok
}

// TypeTag resolves a selector type token to its component tag.
func (r *Registry) TypeTag(token string) (string, bool) {
	tag, ok := r.types[token]
	return tag, ok
}

// Properties returns the number of registered property handlers.
func (r *Registry) Properties() int {
	return len(r.handlers)
}

func (r *Registry) String() string {
	return fmt.Sprintf("registry(%d properties, %d type selectors)", len(r.handlers), len(r.types))
}
