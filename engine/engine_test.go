package engine_test

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"

	"ecss/css"
	"ecss/ecs"
	"ecss/engine"
)

// recordHandler is a property handler that remembers what it parsed and
// where it applied, so tests can assert on cascade outcomes.
type recordHandler struct {
	shape   engine.TargetShape
	parsed  int
	applied []string
}

func (h *recordHandler) Parse(v css.Values) (any, error) {
	h.parsed++
	if s, ok := v.Ident(); ok {
		return s, nil
	}
	return nil, errors.New("expected a single keyword")
}

func (h *recordHandler) Shape() engine.TargetShape { return h.shape }

func (h *recordHandler) Apply(v any, t engine.Target) {
	h.applied = append(h.applied, fmt.Sprintf("%d=%s", t.Entity, v))
}

func parseSheet(t *testing.T, text string) *css.Stylesheet {
	t.Helper()
	sheet := css.NewParser(zap.NewNop()).Parse([]byte(text), "test.css")
	if sheet == nil {
		t.Fatal("parser returned no stylesheet")
	}
	return sheet
}

func newRegistry(h *recordHandler) *engine.Registry {
	reg := engine.NewRegistry(nil)
	reg.Register("color", h)
	reg.RegisterTypeSelector("text", ecs.TagText)
	reg.RegisterTypeSelector("button", ecs.TagInteraction)
	return reg
}

func TestMatches_DescendantSkipsGenerations(t *testing.T) {
	w := ecs.NewWorld()
	root := w.Spawn(ecs.None, "a")
	mid := w.Spawn(root, "")
	leaf := w.Spawn(mid, "c")

	sheet := parseSheet(t, "#a #c {color: red;}")
	reg := newRegistry(&recordHandler{})

	if !engine.Matches(w, reg, sheet.Rules[0].Selector, leaf) {
		t.Error("selector must match across a skipped generation")
	}
	if engine.Matches(w, reg, sheet.Rules[0].Selector, mid) {
		t.Error("selector must not match the intermediate entity")
	}
	if engine.Matches(w, reg, sheet.Rules[0].Selector, root) {
		t.Error("selector must not match its own ancestor segment")
	}
}

func TestMatches_OrderOfAncestorsHonored(t *testing.T) {
	w := ecs.NewWorld()
	a := w.Spawn(ecs.None, "a")
	b := w.Spawn(a, "b")
	leaf := w.Spawn(b, "c")

	reg := newRegistry(&recordHandler{})

	good := parseSheet(t, "#a #b #c {color: red;}")
	if !engine.Matches(w, reg, good.Rules[0].Selector, leaf) {
		t.Error("in-order ancestor chain must match")
	}
	bad := parseSheet(t, "#b #a #c {color: red;}")
	if engine.Matches(w, reg, bad.Rules[0].Selector, leaf) {
		t.Error("ancestor segments must match in document order")
	}
}

func TestMatches_TypeSelectorUsesComponentTag(t *testing.T) {
	w := ecs.NewWorld()
	plain := w.Spawn(ecs.None, "")
	texty := w.Spawn(ecs.None, "")
	w.Insert(texty, &ecs.Text{})

	sheet := parseSheet(t, "text {color: red;}")
	reg := newRegistry(&recordHandler{})

	if !engine.Matches(w, reg, sheet.Rules[0].Selector, texty) {
		t.Error("type selector must match an entity carrying the component")
	}
	if engine.Matches(w, reg, sheet.Rules[0].Selector, plain) {
		t.Error("type selector must not match an entity without the component")
	}
}

func TestMatches_UnknownPseudoClassNeverMatches(t *testing.T) {
	w := ecs.NewWorld()
	e := w.Spawn(ecs.None, "a")
	w.Insert(e, &ecs.Interaction{Hovered: true})

	sheet := parseSheet(t, "#a:focus {color: red;}")
	reg := newRegistry(&recordHandler{})
	if engine.Matches(w, reg, sheet.Rules[0].Selector, e) {
		t.Error("unsupported pseudo-class must never match")
	}
}

func TestMatches_Hover(t *testing.T) {
	w := ecs.NewWorld()
	e := w.Spawn(ecs.None, "a")
	w.Insert(e, &ecs.Interaction{})

	sheet := parseSheet(t, "#a:hover {color: red;}")
	reg := newRegistry(&recordHandler{})

	if engine.Matches(w, reg, sheet.Rules[0].Selector, e) {
		t.Error(":hover must not match while the pointer is elsewhere")
	}
	c, _ := w.Component(e, ecs.TagInteraction)
	c.(*ecs.Interaction).Hovered = true
	if !engine.Matches(w, reg, sheet.Rules[0].Selector, e) {
		t.Error(":hover must match a hovered entity")
	}
}

func styledWorld(t *testing.T, sheetText string) (*ecs.World, ecs.Entity, ecs.Entity) {
	t.Helper()
	w := ecs.NewWorld()
	root := w.Spawn(ecs.None, "root")
	e := w.Spawn(root, "target")
	w.Insert(e, &ecs.Text{})
	w.SetClassList(e, "big bold")
	w.AttachSheet(root, parseSheet(t, sheetText))
	return w, root, e
}

func TestTick_ClassBeatsType(t *testing.T) {
	h := &recordHandler{}
	w, _, e := styledWorld(t, "text {color: weak;}\n.big {color: strong;}")
	eng := engine.New(newRegistry(h), zap.NewNop())
	eng.Tick(w)

	want := fmt.Sprintf("%d=strong", e)
	if len(h.applied) == 0 || h.applied[len(h.applied)-1] != want {
		t.Fatalf("class selector must win over type selector, got %v", h.applied)
	}
}

func TestTick_SourceOrderBreaksTies(t *testing.T) {
	h := &recordHandler{}
	w, _, e := styledWorld(t, ".big {color: first;}\n.bold {color: second;}")
	eng := engine.New(newRegistry(h), zap.NewNop())
	eng.Tick(w)

	want := []string{fmt.Sprintf("%d=second", e)}
	if !reflect.DeepEqual(h.applied, want) {
		t.Fatalf("later rule must win an exact specificity tie, got %v want %v", h.applied, want)
	}
}

func TestTick_Deterministic(t *testing.T) {
	run := func() []string {
		h := &recordHandler{}
		w, _, _ := styledWorld(t, "text {color: a;}\n.big {color: b;}\n#target {color: c;}\n.big.bold {color: d;}")
		eng := engine.New(newRegistry(h), zap.NewNop())
		eng.Tick(w)
		return h.applied
	}
	first := run()
	for i := 0; i < 10; i++ {
		if got := run(); !reflect.DeepEqual(got, first) {
			t.Fatalf("identical input must resolve identically, got %v then %v", first, got)
		}
	}
	if len(first) != 1 || first[0][len(first[0])-1] != 'c' {
		t.Fatalf("name selector must outrank classes and types, got %v", first)
	}
}

func TestTick_ParseCachedAcrossEntities(t *testing.T) {
	h := &recordHandler{}
	w := ecs.NewWorld()
	root := w.Spawn(ecs.None, "root")
	for i := 0; i < 5; i++ {
		e := w.Spawn(root, "")
		w.Insert(e, &ecs.Text{})
		w.SetClassList(e, "big")
	}
	w.AttachSheet(root, parseSheet(t, ".big {color: red;}"))

	eng := engine.New(newRegistry(h), zap.NewNop())
	eng.Tick(w)
	if h.parsed != 1 {
		t.Errorf("declaration must be parsed once for the whole pass, got %d", h.parsed)
	}
	if len(h.applied) != 5 {
		t.Errorf("value must be applied to every matching entity, got %d", len(h.applied))
	}

	// A restyle of the same sheet hits the cache.
	w.SetClassList(w.Children(root)[0], "big")
	eng.Tick(w)
	if h.parsed != 1 {
		t.Errorf("cached value must be reused on later ticks, got %d parses", h.parsed)
	}
}

func TestTick_ReloadInvalidatesCache(t *testing.T) {
	h := &recordHandler{}
	w, root, _ := styledWorld(t, ".big {color: red;}")
	eng := engine.New(newRegistry(h), zap.NewNop())
	eng.Tick(w)
	if h.parsed != 1 {
		t.Fatalf("expected one parse, got %d", h.parsed)
	}

	if n := w.ReplaceSheet(w.Sheets(root)[0].ID, parseSheet(t, ".big {color: blue;}")); n != 1 {
		t.Fatalf("expected one attachment replaced, got %d", n)
	}
	eng.Tick(w)
	if h.parsed != 2 {
		t.Errorf("a reloaded sheet must be re-parsed, got %d parses", h.parsed)
	}
	if got := h.applied[len(h.applied)-1]; !strings.HasSuffix(got, "=blue") {
		t.Errorf("reloaded declaration must apply, got %q", got)
	}
}

func TestTick_ShapeMismatchSkipsSilently(t *testing.T) {
	h := &recordHandler{shape: engine.TargetShape{Requires: []string{ecs.TagBackground}}}
	w, _, _ := styledWorld(t, ".big {color: red;}")
	eng := engine.New(newRegistry(h), zap.NewNop())

	stats := eng.Tick(w)
	if len(h.applied) != 0 {
		t.Errorf("handler must not run against a mismatched target, got %v", h.applied)
	}
	if stats.Skipped == 0 {
		t.Error("skip must be accounted for")
	}
}

func TestTick_UnknownPropertyLeavesRestIntact(t *testing.T) {
	h := &recordHandler{}
	w, _, e := styledWorld(t, ".big {frobnicate: 12; color: red;}")
	eng := engine.New(newRegistry(h), zap.NewNop())
	eng.Tick(w)

	want := []string{fmt.Sprintf("%d=red", e)}
	if !reflect.DeepEqual(h.applied, want) {
		t.Fatalf("known properties must still apply, got %v", h.applied)
	}
}

func TestTick_InvalidValueRetriedAfterReload(t *testing.T) {
	h := &recordHandler{}
	w, root, _ := styledWorld(t, ".big {color: 12px;}")
	eng := engine.New(newRegistry(h), zap.NewNop())

	eng.Tick(w)
	if len(h.applied) != 0 {
		t.Fatalf("invalid value must not apply, got %v", h.applied)
	}
	parses := h.parsed

	w.ReplaceSheet(w.Sheets(root)[0].ID, parseSheet(t, ".big {color: red;}"))
	eng.Tick(w)
	if h.parsed != parses+1 {
		t.Errorf("corrected declaration must be parsed fresh, got %d parses", h.parsed)
	}
	if len(h.applied) != 1 {
		t.Errorf("corrected declaration must apply, got %v", h.applied)
	}
}

func TestTick_IncrementalScope(t *testing.T) {
	h := &recordHandler{}
	w := ecs.NewWorld()
	root := w.Spawn(ecs.None, "root")
	left := w.Spawn(root, "left")
	right := w.Spawn(root, "right")
	for _, parent := range []ecs.Entity{left, right} {
		e := w.Spawn(parent, "")
		w.Insert(e, &ecs.Text{})
		w.SetClassList(e, "big")
	}
	w.AttachSheet(root, parseSheet(t, ".big {color: red;}"))

	eng := engine.New(newRegistry(h), zap.NewNop())
	first := eng.Tick(w)
	if first.Applied != 2 {
		t.Fatalf("first tick must style the whole tree, applied %d", first.Applied)
	}

	// Quiet world, nothing to do.
	if again := eng.Tick(w); again.Entities != 0 {
		t.Errorf("tick over an unchanged world must restyle nothing, got %d", again.Entities)
	}

	// Touch one subtree only.
	w.SetClassList(w.Children(left)[0], "big wide")
	after := eng.Tick(w)
	if after.Applied != 1 {
		t.Errorf("only the changed subtree may be restyled, applied %d", after.Applied)
	}
}

func TestTick_SheetsConcatenateRootDown(t *testing.T) {
	h := &recordHandler{}
	w := ecs.NewWorld()
	root := w.Spawn(ecs.None, "root")
	mid := w.Spawn(root, "mid")
	e := w.Spawn(mid, "target")
	w.Insert(e, &ecs.Text{})
	w.SetClassList(e, "big")

	// Same specificity in both sheets; the sheet attached closer to the
	// entity is numbered later and must win.
	w.AttachSheet(root, parseSheet(t, ".big {color: outer;}"))
	w.AttachSheet(mid, parseSheet(t, ".big {color: inner;}"))

	eng := engine.New(newRegistry(h), zap.NewNop())
	eng.Tick(w)

	want := []string{fmt.Sprintf("%d=inner", e)}
	if !reflect.DeepEqual(h.applied, want) {
		t.Fatalf("nearer attachment must win the tie, got %v want %v", h.applied, want)
	}
}
