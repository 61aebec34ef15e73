package property

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"ecss/css"
	"ecss/ecs"
	"ecss/engine"
)

// Default builds a registry with every built-in property and the standard
// type-selector bindings installed.
func Default(log *zap.Logger) *engine.Registry {
	reg := engine.NewRegistry(log)
	Register(reg)
	return reg
}

// Register installs the built-in properties and type selectors into an
// existing registry. Callers may re-register any name afterwards to
// override a built-in.
func Register(reg *engine.Registry) {
	reg.RegisterTypeSelector("node", ecs.TagLayout)
	reg.RegisterTypeSelector("text", ecs.TagText)
	reg.RegisterTypeSelector("image", ecs.TagImage)
	reg.RegisterTypeSelector("button", ecs.TagInteraction)

	registerLayout(reg)
	registerText(reg)
	registerVisual(reg)
}

func registerLayout(reg *engine.Registry) {
	reg.Register("display", layoutEnum(
		map[string]int{"flex": int(ecs.DisplayFlex), "none": int(ecs.DisplayNone)},
		func(l *ecs.Layout, n int) { l.Display = ecs.Display(n) }))
	reg.Register("position-type", layoutEnum(
		map[string]int{"relative": int(ecs.PositionRelative), "absolute": int(ecs.PositionAbsolute)},
		func(l *ecs.Layout, n int) { l.Position = ecs.PositionType(n) }))
	reg.Register("direction", layoutEnum(
		map[string]int{"inherit": int(ecs.DirectionInherit), "ltr": int(ecs.DirectionLTR), "rtl": int(ecs.DirectionRTL)},
		func(l *ecs.Layout, n int) { l.Direction = ecs.Direction(n) }))
	reg.Register("flex-direction", layoutEnum(
		map[string]int{
			"row": int(ecs.FlexRow), "column": int(ecs.FlexColumn),
			"row-reverse": int(ecs.FlexRowReverse), "column-reverse": int(ecs.FlexColumnReverse),
		},
		func(l *ecs.Layout, n int) { l.FlexDirection = ecs.FlexDirection(n) }))
	reg.Register("flex-wrap", layoutEnum(
		map[string]int{"nowrap": int(ecs.NoWrap), "wrap": int(ecs.Wrap), "wrap-reverse": int(ecs.WrapReverse)},
		func(l *ecs.Layout, n int) { l.FlexWrap = ecs.FlexWrap(n) }))
	reg.Register("align-items", layoutEnum(
		map[string]int{
			"stretch": int(ecs.ItemsStretch), "flex-start": int(ecs.ItemsFlexStart),
			"flex-end": int(ecs.ItemsFlexEnd), "center": int(ecs.ItemsCenter), "baseline": int(ecs.ItemsBaseline),
		},
		func(l *ecs.Layout, n int) { l.AlignItems = ecs.AlignItems(n) }))
	reg.Register("align-self", layoutEnum(
		map[string]int{
			"auto": int(ecs.SelfAuto), "flex-start": int(ecs.SelfFlexStart), "flex-end": int(ecs.SelfFlexEnd),
			"center": int(ecs.SelfCenter), "baseline": int(ecs.SelfBaseline), "stretch": int(ecs.SelfStretch),
		},
		func(l *ecs.Layout, n int) { l.AlignSelf = ecs.AlignSelf(n) }))
	reg.Register("align-content", layoutEnum(
		map[string]int{
			"stretch": int(ecs.ContentStretch), "flex-start": int(ecs.ContentFlexStart),
			"flex-end": int(ecs.ContentFlexEnd), "center": int(ecs.ContentCenter),
			"space-between": int(ecs.ContentSpaceBetween), "space-around": int(ecs.ContentSpaceAround),
		},
		func(l *ecs.Layout, n int) { l.AlignContent = ecs.AlignContent(n) }))
	reg.Register("justify-content", layoutEnum(
		map[string]int{
			"flex-start": int(ecs.JustifyFlexStart), "flex-end": int(ecs.JustifyFlexEnd),
			"center": int(ecs.JustifyCenter), "space-between": int(ecs.JustifySpaceBetween),
			"space-around": int(ecs.JustifySpaceAround), "space-evenly": int(ecs.JustifySpaceEvenly),
		},
		func(l *ecs.Layout, n int) { l.JustifyContent = ecs.JustifyContent(n) }))
	reg.Register("overflow", layoutEnum(
		map[string]int{"visible": int(ecs.OverflowVisible), "hidden": int(ecs.OverflowHidden)},
		func(l *ecs.Layout, n int) { l.Overflow = ecs.Overflow(n) }))

	reg.Register("left", layoutVal(func(l *ecs.Layout, v ecs.Val) { l.Left = v }))
	reg.Register("right", layoutVal(func(l *ecs.Layout, v ecs.Val) { l.Right = v }))
	reg.Register("top", layoutVal(func(l *ecs.Layout, v ecs.Val) { l.Top = v }))
	reg.Register("bottom", layoutVal(func(l *ecs.Layout, v ecs.Val) { l.Bottom = v }))
	reg.Register("width", layoutVal(func(l *ecs.Layout, v ecs.Val) { l.Width = v }))
	reg.Register("height", layoutVal(func(l *ecs.Layout, v ecs.Val) { l.Height = v }))
	reg.Register("min-width", layoutVal(func(l *ecs.Layout, v ecs.Val) { l.MinWidth = v }))
	reg.Register("min-height", layoutVal(func(l *ecs.Layout, v ecs.Val) { l.MinHeight = v }))
	reg.Register("max-width", layoutVal(func(l *ecs.Layout, v ecs.Val) { l.MaxWidth = v }))
	reg.Register("max-height", layoutVal(func(l *ecs.Layout, v ecs.Val) { l.MaxHeight = v }))
	reg.Register("flex-basis", layoutVal(func(l *ecs.Layout, v ecs.Val) { l.FlexBasis = v }))

	reg.Register("margin", layoutRect(func(l *ecs.Layout, r ecs.Rect) { l.Margin = r }))
	reg.Register("padding", layoutRect(func(l *ecs.Layout, r ecs.Rect) { l.Padding = r }))
	reg.Register("border", layoutRect(func(l *ecs.Layout, r ecs.Rect) { l.Border = r }))

	reg.Register("flex-grow", layoutNumber(func(l *ecs.Layout, n float64) { l.FlexGrow = n }))
	reg.Register("flex-shrink", layoutNumber(func(l *ecs.Layout, n float64) { l.FlexShrink = n }))

	reg.Register("aspect-ratio", layoutProp(
		func(v css.Values) (any, error) {
			if kw, ok := v.Ident(); ok && strings.EqualFold(kw, "auto") {
				return (*float64)(nil), nil
			}
			n, err := parseNumber(v)
			if err != nil {
				return nil, fmt.Errorf("expected a ratio or auto: %w", err)
			}
			return &n, nil
		},
		func(l *ecs.Layout, v any) { l.AspectRatio = v.(*float64) }))
}

func registerText(reg *engine.Registry) {
	reg.Register("font", handler{
		parse: func(v css.Values) (any, error) { return parseString(v) },
		shape: engine.TargetShape{Requires: []string{ecs.TagText}},
		apply: func(v any, t engine.Target) {
			path := v.(string)
			if c, ok := t.World.Component(t.Entity, ecs.TagText); ok {
				c.(*ecs.Text).Font = path
			}
			resolveAsset(t, path)
		},
	})
	reg.Register("font-size", textProp(
		func(v css.Values) (any, error) { return parseNumber(v) },
		func(txt *ecs.Text, v any) { txt.FontSize = v.(float64) }))
	reg.Register("color", textProp(
		func(v css.Values) (any, error) { return parseColor(v) },
		func(txt *ecs.Text, v any) { txt.Color = v.(ecs.Color) }))
	reg.Register("text-align", textProp(
		func(v css.Values) (any, error) {
			return parseKeyword(v, map[string]int{
				"left": int(ecs.AlignLeft), "center": int(ecs.AlignCenter), "right": int(ecs.AlignRight),
			})
		},
		func(txt *ecs.Text, v any) { txt.Align = ecs.TextAlign(v.(int)) }))
	reg.Register("text-content", textProp(
		func(v css.Values) (any, error) { return parseString(v) },
		func(txt *ecs.Text, v any) { txt.Content = v.(string) }))
}

func registerVisual(reg *engine.Registry) {
	reg.Register("background-color", handler{
		parse: func(v css.Values) (any, error) { return parseColor(v) },
		shape: engine.TargetShape{Requires: []string{ecs.TagBackground}},
		apply: func(v any, t engine.Target) {
			if c, ok := t.World.Component(t.Entity, ecs.TagBackground); ok {
				c.(*ecs.Background).Color = v.(ecs.Color)
			}
		},
	})
	reg.Register("image", handler{
		parse: func(v css.Values) (any, error) { return parseString(v) },
		shape: engine.TargetShape{Requires: []string{ecs.TagImage}},
		apply: func(v any, t engine.Target) {
			path := v.(string)
			if c, ok := t.World.Component(t.Entity, ecs.TagImage); ok {
				c.(*ecs.Image).Path = path
			}
			resolveAsset(t, path)
		},
	})
}

// resolveAsset warms the asset referenced by a stylesheet path. Failure is
// logged and otherwise ignored; the component keeps the raw path either way.
func resolveAsset(t engine.Target, path string) {
	if t.Assets == nil {
		return
	}
	if _, err := t.Assets.Resolve(path); err != nil && t.Log != nil {
		t.Log.Warn("asset not found", zap.String("path", path), zap.Error(err))
	}
}
