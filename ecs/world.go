// Package ecs is a minimal entity tree: nodes addressed by stable integer
// identifiers, each carrying a parent link, ordered children, a unique name,
// a class-list attribute, typed attribute bags ("components") and zero or
// more style-sheet attachments. The styling engine only ever mutates
// component state; tree topology belongs to the host.
package ecs

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"ecss/css"
)

// Entity is a stable node identifier. The zero value is never a live entity.
type Entity uint32

// None is the null entity.
const None Entity = 0

// ChangeKind says which watched attribute of an entity mutated.
type ChangeKind int

const (
	// ChangeTopology is an attach, detach or reparent of the entity.
	ChangeTopology ChangeKind = iota
	// ChangeClassList is a class-list mutation on the entity.
	ChangeClassList
	// ChangeSheets is a style-sheet attachment added, removed or replaced.
	ChangeSheets
)

// Change is one recorded mutation, consumed by the styling engine's
// change-scope tracker.
type Change struct {
	Kind   ChangeKind
	Entity Entity
}

type node struct {
	id        Entity
	parent    Entity
	children  []Entity
	name      string
	classList string
	classes   []string
	bags      map[string]Component
	sheets    []*css.Stylesheet
}

// World owns the entity tree. It is not safe for concurrent mutation; the
// engine contract is a single synchronous invocation per host tick.
type World struct {
	nodes   map[Entity]*node
	next    Entity
	changes []Change
}

// NewWorld creates an empty entity tree.
func NewWorld() *World {
	return &World{nodes: make(map[Entity]*node)}
}

func (w *World) get(e Entity) *node {
	return w.nodes[e]
}

// Spawn creates a new entity under parent (None for a root) and returns its
// identifier.
func (w *World) Spawn(parent Entity, name string) Entity {
	w.next++
	n := &node{id: w.next, parent: None, name: name, bags: make(map[string]Component)}
	w.nodes[n.id] = n
	if p := w.get(parent); p != nil {
		n.parent = parent
		p.children = append(p.children, n.id)
	}
	w.record(ChangeTopology, n.id)
	return n.id
}

// Despawn removes an entity and its whole subtree.
func (w *World) Despawn(e Entity) {
	n := w.get(e)
	if n == nil {
		return
	}
	if p := w.get(n.parent); p != nil {
		p.children = removeChild(p.children, e)
		w.record(ChangeTopology, n.parent)
	}
	var drop func(Entity)
	drop = func(id Entity) {
		if c := w.get(id); c != nil {
			for _, ch := range c.children {
				drop(ch)
			}
			delete(w.nodes, id)
		}
	}
	drop(e)
}

// SetParent moves an entity under a new parent (None detaches it to a root).
// A node can never become its own ancestor; such a move is rejected.
func (w *World) SetParent(child, parent Entity) error {
	n := w.get(child)
	if n == nil {
		return fmt.Errorf("ecs: unknown entity %d", child)
	}
	if parent != None {
		if w.get(parent) == nil {
			return fmt.Errorf("ecs: unknown parent entity %d", parent)
		}
		for a := parent; a != None; a = w.Parent(a) {
			if a == child {
				return fmt.Errorf("ecs: entity %d cannot become its own ancestor", child)
			}
		}
	}
	if p := w.get(n.parent); p != nil {
		p.children = removeChild(p.children, child)
	}
	n.parent = parent
	if p := w.get(parent); p != nil {
		p.children = append(p.children, child)
	}
	w.record(ChangeTopology, child)
	return nil
}

func removeChild(children []Entity, e Entity) []Entity {
	for i, c := range children {
		if c == e {
			return append(children[:i], children[i+1:]...)
		}
	}
	return children
}

// Alive reports whether the entity exists.
func (w *World) Alive(e Entity) bool {
	return w.get(e) != nil
}

// Parent returns the parent of an entity, or None for roots.
func (w *World) Parent(e Entity) Entity {
	if n := w.get(e); n != nil {
		return n.parent
	}
	return None
}

// Children returns the ordered children of an entity.
func (w *World) Children(e Entity) []Entity {
	if n := w.get(e); n != nil {
		return n.children
	}
	return nil
}

// Name returns the unique human-readable identifier of an entity.
func (w *World) Name(e Entity) string {
	if n := w.get(e); n != nil {
		return n.name
	}
	return ""
}

// SetClassList replaces the entity's class-list attribute. The list is a
// whitespace-separated set of class names.
func (w *World) SetClassList(e Entity, classes string) {
	n := w.get(e)
	if n == nil {
		return
	}
	n.classList = classes
	n.classes = strings.Fields(classes)
	w.record(ChangeClassList, e)
}

// ClassList returns the raw class-list attribute.
func (w *World) ClassList(e Entity) string {
	if n := w.get(e); n != nil {
		return n.classList
	}
	return ""
}

// HasClass reports whether the entity's class-list contains the given class.
func (w *World) HasClass(e Entity, class string) bool {
	n := w.get(e)
	if n == nil {
		return false
	}
	for _, c := range n.classes {
		if c == class {
			return true
		}
	}
	return false
}

// Insert attaches a component to an entity, replacing any component with the
// same tag.
func (w *World) Insert(e Entity, c Component) {
	if n := w.get(e); n != nil {
		n.bags[c.ComponentTag()] = c
	}
}

// Component returns the entity's component for a tag.
func (w *World) Component(e Entity, tag string) (Component, bool) {
	if n := w.get(e); n != nil {
		c, ok := n.bags[tag]
		return c, ok
	}
	return nil, false
}

// Has reports whether the entity carries a component with the given tag.
func (w *World) Has(e Entity, tag string) bool {
	_, ok := w.Component(e, tag)
	return ok
}

// AttachSheet adds a style-sheet attachment to an entity. Attachment order is
// significant: it drives the source-index ordering of the cascade.
func (w *World) AttachSheet(e Entity, sheet *css.Stylesheet) {
	n := w.get(e)
	if n == nil || sheet == nil {
		return
	}
	n.sheets = append(n.sheets, sheet)
	w.record(ChangeSheets, e)
}

// DetachSheet removes a style-sheet attachment by identity.
func (w *World) DetachSheet(e Entity, id uuid.UUID) {
	n := w.get(e)
	if n == nil {
		return
	}
	for i, s := range n.sheets {
		if s.ID == id {
			n.sheets = append(n.sheets[:i], n.sheets[i+1:]...)
			w.record(ChangeSheets, e)
			return
		}
	}
}

// ReplaceSheet swaps every attachment of the old sheet for the new one,
// keeping attachment positions. It returns the number of entities affected.
// This is the wholesale-replacement path used by hot reload.
func (w *World) ReplaceSheet(old uuid.UUID, sheet *css.Stylesheet) int {
	affected := 0
	for _, e := range w.Entities() {
		n := w.get(e)
		changed := false
		for i, s := range n.sheets {
			if s.ID == old {
				n.sheets[i] = sheet
				changed = true
			}
		}
		if changed {
			affected++
			w.record(ChangeSheets, e)
		}
	}
	return affected
}

// Sheets returns the entity's style-sheet attachments in attachment order.
func (w *World) Sheets(e Entity) []*css.Stylesheet {
	if n := w.get(e); n != nil {
		return n.sheets
	}
	return nil
}

// Entities returns all live entities in ascending id order.
func (w *World) Entities() []Entity {
	out := make([]Entity, 0, len(w.nodes))
	for e := range w.nodes {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (w *World) record(k ChangeKind, e Entity) {
	w.changes = append(w.changes, Change{Kind: k, Entity: e})
}

// DrainChanges returns all mutations recorded since the previous drain and
// clears the log. The styling engine calls this once per tick.
func (w *World) DrainChanges() []Change {
	out := w.changes
	w.changes = nil
	return out
}
