package engine

import (
	"ecss/css"
	"ecss/ecs"
)

// Matches reports whether a selector applies to an entity. The last segment
// must match the entity itself; earlier segments must match ancestors in
// order, with the descendant combinator free to skip generations. Ancestors
// are consumed greedily from the entity upward, which is sufficient for
// descendant-only selector chains.
func Matches(w *ecs.World, reg *Registry, sel css.Selector, e ecs.Entity) bool {
	segs := sel.Segments
	if len(segs) == 0 {
		return false
	}
	if !segmentMatches(w, reg, segs[len(segs)-1], e) {
		return false
	}
	anchor := w.Parent(e)
	for i := len(segs) - 2; i >= 0; i-- {
		for anchor != ecs.None && !segmentMatches(w, reg, segs[i], anchor) {
			anchor = w.Parent(anchor)
		}
		if anchor == ecs.None {
			return false
		}
		anchor = w.Parent(anchor)
	}
	return true
}

func segmentMatches(w *ecs.World, reg *Registry, seg css.Segment, e ecs.Entity) bool {
	if seg.Type != "" {
		tag, ok := reg.TypeTag(seg.Type)
		if !ok || !w.Has(e, tag) {
			return false
		}
	}
	if seg.Name != "" && w.Name(e) != seg.Name {
		return false
	}
	for _, class := range seg.Classes {
		if !w.HasClass(e, class) {
			return false
		}
	}
	switch seg.State {
	case css.StateNone:
	case css.StateHover:
		c, ok := w.Component(e, ecs.TagInteraction)
		if !ok {
			return false
		}
		if !c.(*ecs.Interaction).Hovered {
			return false
		}
	default:
		// Unrecognized pseudo-classes parse but never match.
		return false
	}
	return true
}
