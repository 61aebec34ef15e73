package property_test

import (
	"errors"
	"testing"

	"go.uber.org/zap"

	"ecss/css"
	"ecss/ecs"
	"ecss/engine"
	"ecss/property"
)

type fakeAssets struct {
	resolved []string
}

func (f *fakeAssets) Resolve(path string) (any, error) {
	f.resolved = append(f.resolved, path)
	if path == "missing.png" {
		return nil, errors.New("no such asset")
	}
	return path, nil
}

func applySheet(t *testing.T, w *ecs.World, root ecs.Entity, text string) *engine.Engine {
	t.Helper()
	sheet := css.NewParser(zap.NewNop()).Parse([]byte(text), "test.css")
	w.AttachSheet(root, sheet)
	eng := engine.New(property.Default(zap.NewNop()), zap.NewNop())
	eng.Tick(w)
	return eng
}

func TestBuiltins_Layout(t *testing.T) {
	w := ecs.NewWorld()
	root := w.Spawn(ecs.None, "root")
	e := w.Spawn(root, "panel")
	w.Insert(e, &ecs.Layout{})

	applySheet(t, w, root, `#panel {
		display: flex;
		position-type: absolute;
		flex-direction: column;
		flex-wrap: wrap;
		align-items: center;
		justify-content: space-between;
		overflow: hidden;
		width: 50%;
		height: 240px;
		min-width: 10px;
		max-height: 90%;
		left: 5px;
		margin: 5% 10px;
		padding: 1px 2px 3px 4px;
		flex-grow: 2;
		flex-shrink: 0.5;
		flex-basis: auto;
		aspect-ratio: 1.5;
	}`)

	c, _ := w.Component(e, ecs.TagLayout)
	l := c.(*ecs.Layout)
	if l.Display != ecs.DisplayFlex || l.Position != ecs.PositionAbsolute {
		t.Errorf("display/position wrong: %+v", l)
	}
	if l.FlexDirection != ecs.FlexColumn || l.FlexWrap != ecs.Wrap {
		t.Errorf("flex direction/wrap wrong: %+v", l)
	}
	if l.AlignItems != ecs.ItemsCenter || l.JustifyContent != ecs.JustifySpaceBetween || l.Overflow != ecs.OverflowHidden {
		t.Errorf("alignment wrong: %+v", l)
	}
	if l.Width != ecs.Percent(50) || l.Height != ecs.Px(240) || l.MinWidth != ecs.Px(10) || l.MaxHeight != ecs.Percent(90) {
		t.Errorf("sizes wrong: %+v", l)
	}
	if l.Left != ecs.Px(5) {
		t.Errorf("left wrong: %v", l.Left)
	}
	if l.Margin != (ecs.Rect{Top: ecs.Percent(5), Right: ecs.Px(10), Bottom: ecs.Percent(5), Left: ecs.Px(10)}) {
		t.Errorf("margin shorthand wrong: %+v", l.Margin)
	}
	if l.Padding != (ecs.Rect{Top: ecs.Px(1), Right: ecs.Px(2), Bottom: ecs.Px(3), Left: ecs.Px(4)}) {
		t.Errorf("padding shorthand wrong: %+v", l.Padding)
	}
	if l.FlexGrow != 2 || l.FlexShrink != 0.5 {
		t.Errorf("grow/shrink wrong: %+v", l)
	}
	if l.FlexBasis != ecs.Auto() {
		t.Errorf("flex-basis wrong: %v", l.FlexBasis)
	}
	if l.AspectRatio == nil || *l.AspectRatio != 1.5 {
		t.Errorf("aspect-ratio wrong: %v", l.AspectRatio)
	}
}

func TestBuiltins_TextAndVisual(t *testing.T) {
	w := ecs.NewWorld()
	root := w.Spawn(ecs.None, "root")
	e := w.Spawn(root, "label")
	w.Insert(e, &ecs.Text{})
	w.Insert(e, &ecs.Background{})

	applySheet(t, w, root, `#label {
		font: "fonts/mono.ttf";
		font-size: 18;
		color: #663399;
		text-align: center;
		text-content: "hello";
		background-color: MidnightBlue;
	}`)

	c, _ := w.Component(e, ecs.TagText)
	txt := c.(*ecs.Text)
	if txt.Font != "fonts/mono.ttf" || txt.FontSize != 18 {
		t.Errorf("font wrong: %+v", txt)
	}
	if txt.Color != (ecs.Color{R: 102, G: 51, B: 153, A: 255}) {
		t.Errorf("color wrong: %v", txt.Color)
	}
	if txt.Align != ecs.AlignCenter || txt.Content != "hello" {
		t.Errorf("align/content wrong: %+v", txt)
	}

	b, _ := w.Component(e, ecs.TagBackground)
	if b.(*ecs.Background).Color != (ecs.Color{R: 25, G: 25, B: 112, A: 255}) {
		t.Errorf("background wrong: %v", b.(*ecs.Background).Color)
	}
}

func TestBuiltins_ShapeSeparation(t *testing.T) {
	// A text-only entity must not be touched by layout properties, and the
	// layout entity must keep its zero text state.
	w := ecs.NewWorld()
	root := w.Spawn(ecs.None, "root")
	label := w.Spawn(root, "")
	w.Insert(label, &ecs.Text{})
	panel := w.Spawn(root, "")
	w.Insert(panel, &ecs.Layout{})
	w.SetClassList(label, "styled")
	w.SetClassList(panel, "styled")

	applySheet(t, w, root, `.styled { width: 100px; font-size: 14; }`)

	c, _ := w.Component(panel, ecs.TagLayout)
	if c.(*ecs.Layout).Width != ecs.Px(100) {
		t.Error("layout entity must receive width")
	}
	ct, _ := w.Component(label, ecs.TagText)
	if ct.(*ecs.Text).FontSize != 14 {
		t.Error("text entity must receive font-size")
	}
	if w.Has(label, ecs.TagLayout) || w.Has(panel, ecs.TagText) {
		t.Error("shape mismatch must never create components")
	}
}

func TestBuiltins_ImageResolvesAsset(t *testing.T) {
	w := ecs.NewWorld()
	root := w.Spawn(ecs.None, "root")
	e := w.Spawn(root, "pic")
	w.Insert(e, &ecs.Image{})

	sheet := css.NewParser(zap.NewNop()).Parse([]byte(`#pic { image: "icons/ok.png"; }`), "test.css")
	w.AttachSheet(root, sheet)

	assets := &fakeAssets{}
	eng := engine.New(property.Default(zap.NewNop()), zap.NewNop())
	eng.SetAssetResolver(assets)
	eng.Tick(w)

	c, _ := w.Component(e, ecs.TagImage)
	if c.(*ecs.Image).Path != "icons/ok.png" {
		t.Errorf("image path wrong: %q", c.(*ecs.Image).Path)
	}
	if len(assets.resolved) != 1 || assets.resolved[0] != "icons/ok.png" {
		t.Errorf("asset must be resolved once, got %v", assets.resolved)
	}
}

func TestBuiltins_TypeSelectors(t *testing.T) {
	w := ecs.NewWorld()
	root := w.Spawn(ecs.None, "root")
	e := w.Spawn(root, "")
	w.Insert(e, &ecs.Text{})

	applySheet(t, w, root, `text { font-size: 21; }`)

	c, _ := w.Component(e, ecs.TagText)
	if c.(*ecs.Text).FontSize != 21 {
		t.Error("text type selector must target entities with a text component")
	}
}
