// Package property implements the built-in CSS properties: parsing of their
// declaration values and their application to entity components. Everything
// here goes through the engine's registry; nothing is special-cased inside
// the engine itself.
package property

import (
	"fmt"
	"strings"

	"ecss/css"
	"ecss/ecs"
)

// tokenVal converts one value token to a layout dimension. Unitless numbers
// count as pixels, which keeps "margin: 0" working.
func tokenVal(t css.Token) (ecs.Val, error) {
	switch t.Kind {
	case css.TokenIdent:
		if strings.EqualFold(t.Text, "auto") {
			return ecs.Auto(), nil
		}
		if strings.EqualFold(t.Text, "undefined") || strings.EqualFold(t.Text, "none") {
			return ecs.Val{}, nil
		}
	case css.TokenNumber:
		return ecs.Px(t.Number), nil
	case css.TokenPercentage:
		return ecs.Percent(t.Number), nil
	case css.TokenDimension:
		if strings.EqualFold(t.Unit, "px") {
			return ecs.Px(t.Number), nil
		}
		return ecs.Val{}, fmt.Errorf("unsupported unit %q", t.Unit)
	}
	return ecs.Val{}, fmt.Errorf("cannot use %s as a dimension", t)
}

// parseVal expects exactly one dimension-like token.
func parseVal(v css.Values) (ecs.Val, error) {
	if len(v) != 1 {
		return ecs.Val{}, fmt.Errorf("expected a single dimension, got %q", v.String())
	}
	return tokenVal(v[0])
}

// parseRect expands the usual CSS shorthand. One value covers all four
// sides; two cover top/bottom then right/left; three cover top, the sides,
// then bottom; four go clockwise from the top.
func parseRect(v css.Values) (ecs.Rect, error) {
	vals := make([]ecs.Val, 0, 4)
	for _, t := range v {
		val, err := tokenVal(t)
		if err != nil {
			return ecs.Rect{}, err
		}
		vals = append(vals, val)
	}
	switch len(vals) {
	case 1:
		return ecs.UniformRect(vals[0]), nil
	case 2:
		return ecs.Rect{Top: vals[0], Right: vals[1], Bottom: vals[0], Left: vals[1]}, nil
	case 3:
		return ecs.Rect{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[1]}, nil
	case 4:
		return ecs.Rect{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[3]}, nil
	}
	return ecs.Rect{}, fmt.Errorf("expected 1 to 4 dimensions, got %d", len(vals))
}

// parseNumber expects a bare number or a pixel dimension.
func parseNumber(v css.Values) (float64, error) {
	if len(v) != 1 {
		return 0, fmt.Errorf("expected a single number, got %q", v.String())
	}
	t := v[0]
	switch t.Kind {
	case css.TokenNumber:
		return t.Number, nil
	case css.TokenDimension:
		if strings.EqualFold(t.Unit, "px") {
			return t.Number, nil
		}
	}
	return 0, fmt.Errorf("cannot use %s as a number", t)
}

// parseString accepts a quoted string or a bare identifier-like token, the
// two ways paths and text show up in stylesheets.
func parseString(v css.Values) (string, error) {
	if len(v) == 1 {
		switch v[0].Kind {
		case css.TokenString:
			return v[0].Text, nil
		case css.TokenIdent:
			return v[0].Text, nil
		}
	}
	return "", fmt.Errorf("expected a string, got %q", v.String())
}

// parseKeyword looks a single identifier up in the property's keyword table.
func parseKeyword(v css.Values, keywords map[string]int) (int, error) {
	kw, ok := v.Ident()
	if !ok {
		return 0, fmt.Errorf("expected a keyword, got %q", v.String())
	}
	n, ok := keywords[strings.ToLower(kw)]
	if !ok {
		return 0, fmt.Errorf("unknown keyword %q", kw)
	}
	return n, nil
}
