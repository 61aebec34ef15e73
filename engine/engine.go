package engine

import (
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ecss/ecs"
)

// Engine drives the style pass. A single goroutine owns it together with
// the world it ticks; concurrent producers talk to the world, never to the
// engine directly.
type Engine struct {
	log      *zap.Logger
	reg      *Registry
	cache    *valueCache
	tracker  *tracker
	resolver AssetResolver
	primed   bool
}

// TickStats summarizes one style pass.
type TickStats struct {
	Entities int // dirty entities restyled
	Applied  int // property applications performed
	Skipped  int // winning declarations skipped for target shape
}

func New(reg *Registry, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		log:     log.Named("engine"),
		reg:     reg,
		cache:   newValueCache(),
		tracker: newTracker(),
	}
}

// SetAssetResolver installs the resolver handlers use for paths mentioned
// in stylesheets. Optional; without one, path-valued properties keep the
// raw path.
func (e *Engine) SetAssetResolver(r AssetResolver) {
	e.resolver = r
}

// InvalidateAll schedules a full restyle on the next tick.
func (e *Engine) InvalidateAll() {
	e.primed = false
}

// Tick drains the world's pending changes, restyles every dirty entity and
// garbage-collects cache entries of sheets that are no longer attached.
// The first tick styles the whole tree.
func (e *Engine) Tick(w *ecs.World) TickStats {
	changes := w.DrainChanges()
	if !e.primed {
		e.tracker.markAll(w)
		e.primed = true
	} else {
		e.tracker.consume(w, changes)
	}

	var stats TickStats
	for _, ent := range e.tracker.drain() {
		if !w.Alive(ent) {
			continue
		}
		set := matchEntity(w, e.reg, ent)
		if len(set) == 0 {
			continue
		}
		stats.Entities++
		e.applyResolved(w, ent, resolve(set), &stats)
	}

	e.cache.retain(attachedSheets(w))
	return stats
}

func (e *Engine) applyResolved(w *ecs.World, ent ecs.Entity, resolved map[string]ResolvedValue, stats *TickStats) {
	props := make([]string, 0, len(resolved))
	for p := range resolved {
		props = append(props, p)
	}
	sort.Strings(props)

	for _, prop := range props {
		rv := resolved[prop]
		h, ok := e.reg.Handler(prop)
		if !ok {
			e.log.Warn("unknown property",
				zap.String("property", prop),
				zap.String("sheet", rv.Sheet.Source),
				zap.Int("line", rv.Rule.Line))
			continue
		}

		val, ok := e.cache.get(rv.Sheet.ID, rv.Rule.Index, prop)
		if !ok {
			parsed, err := h.Parse(rv.Values)
			if err != nil {
				e.log.Warn("invalid property value",
					zap.String("property", prop),
					zap.String("value", rv.Values.String()),
					zap.String("sheet", rv.Sheet.Source),
					zap.Int("line", rv.Rule.Line),
					zap.Error(err))
				continue
			}
			e.cache.put(rv.Sheet.ID, rv.Rule.Index, prop, parsed)
			val = parsed
		}

		if !shapeFits(w, ent, h.Shape()) {
			stats.Skipped++
			continue
		}
		h.Apply(val, Target{World: w, Entity: ent, Assets: e.resolver, Log: e.log})
		stats.Applied++
	}
}

func shapeFits(w *ecs.World, e ecs.Entity, shape TargetShape) bool {
	for _, tag := range shape.Requires {
		if !w.Has(e, tag) {
			return false
		}
	}
	for _, tag := range shape.Without {
		if w.Has(e, tag) {
			return false
		}
	}
	return true
}

func attachedSheets(w *ecs.World) map[uuid.UUID]struct{} {
	live := make(map[uuid.UUID]struct{})
	for _, e := range w.Entities() {
		for _, s := range w.Sheets(e) {
			live[s.ID] = struct{}{}
		}
	}
	return live
}
