package property

import (
	"ecss/css"
	"ecss/ecs"
	"ecss/engine"
)

// handler assembles a property from its three moving parts. Every built-in
// is an instance of this; custom properties are free to implement
// engine.Handler directly.
type handler struct {
	parse func(css.Values) (any, error)
	shape engine.TargetShape
	apply func(any, engine.Target)
}

func (h handler) Parse(v css.Values) (any, error) { return h.parse(v) }
func (h handler) Shape() engine.TargetShape       { return h.shape }
func (h handler) Apply(v any, t engine.Target)    { h.apply(v, t) }

func layoutProp(parse func(css.Values) (any, error), set func(*ecs.Layout, any)) engine.Handler {
	return handler{
		parse: parse,
		shape: engine.TargetShape{Requires: []string{ecs.TagLayout}},
		apply: func(v any, t engine.Target) {
			if c, ok := t.World.Component(t.Entity, ecs.TagLayout); ok {
				set(c.(*ecs.Layout), v)
			}
		},
	}
}

func layoutEnum(keywords map[string]int, set func(*ecs.Layout, int)) engine.Handler {
	return layoutProp(
		func(v css.Values) (any, error) { return parseKeyword(v, keywords) },
		func(l *ecs.Layout, v any) { set(l, v.(int)) },
	)
}

func layoutVal(set func(*ecs.Layout, ecs.Val)) engine.Handler {
	return layoutProp(
		func(v css.Values) (any, error) { return parseVal(v) },
		func(l *ecs.Layout, v any) { set(l, v.(ecs.Val)) },
	)
}

func layoutRect(set func(*ecs.Layout, ecs.Rect)) engine.Handler {
	return layoutProp(
		func(v css.Values) (any, error) { return parseRect(v) },
		func(l *ecs.Layout, v any) { set(l, v.(ecs.Rect)) },
	)
}

func layoutNumber(set func(*ecs.Layout, float64)) engine.Handler {
	return layoutProp(
		func(v css.Values) (any, error) { return parseNumber(v) },
		func(l *ecs.Layout, v any) { set(l, v.(float64)) },
	)
}

func textProp(parse func(css.Values) (any, error), set func(*ecs.Text, any)) engine.Handler {
	return handler{
		parse: parse,
		shape: engine.TargetShape{Requires: []string{ecs.TagText}},
		apply: func(v any, t engine.Target) {
			if c, ok := t.World.Component(t.Entity, ecs.TagText); ok {
				set(c.(*ecs.Text), v)
			}
		},
	}
}
