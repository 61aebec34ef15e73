package engine

import (
	"sort"

	"ecss/ecs"
)

// tracker accumulates entities whose styling may have changed. Marking is
// conservative: any recorded change dirties the entity together with its
// whole subtree, because descendant selectors can reach arbitrarily deep.
type tracker struct {
	dirty map[ecs.Entity]struct{}
}

func newTracker() *tracker {
	return &tracker{dirty: make(map[ecs.Entity]struct{})}
}

func (t *tracker) markSubtree(w *ecs.World, e ecs.Entity) {
	if !w.Alive(e) {
		return
	}
	t.dirty[e] = struct{}{}
	for _, child := range w.Children(e) {
		t.markSubtree(w, child)
	}
}

// markAll dirties every live entity, the full-pass fallback used on the
// first tick and after wholesale sheet replacement at the root.
func (t *tracker) markAll(w *ecs.World) {
	for _, e := range w.Entities() {
		t.dirty[e] = struct{}{}
	}
}

// consume translates world changes into dirty marks. A sheet change on an
// entity invalidates the subtree it governs; class and topology changes
// invalidate the entity and everything below it.
func (t *tracker) consume(w *ecs.World, changes []ecs.Change) {
	for _, ch := range changes {
		t.markSubtree(w, ch.Entity)
	}
}

// drain returns the dirty set in ascending entity order and resets it.
func (t *tracker) drain() []ecs.Entity {
	if len(t.dirty) == 0 {
		return nil
	}
	out := make([]ecs.Entity, 0, len(t.dirty))
	for e := range t.dirty {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	t.dirty = make(map[ecs.Entity]struct{})
	return out
}
