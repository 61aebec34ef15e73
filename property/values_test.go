package property

import (
	"testing"

	"ecss/css"
	"ecss/ecs"
)

func ident(s string) css.Token { return css.Token{Kind: css.TokenIdent, Text: s} }
func num(n float64) css.Token  { return css.Token{Kind: css.TokenNumber, Number: n} }
func pct(n float64) css.Token  { return css.Token{Kind: css.TokenPercentage, Number: n} }
func px(n float64) css.Token   { return css.Token{Kind: css.TokenDimension, Number: n, Unit: "px"} }
func hash(s string) css.Token  { return css.Token{Kind: css.TokenHash, Text: s} }

func TestParseVal(t *testing.T) {
	tests := []struct {
		name string
		in   css.Values
		want ecs.Val
		bad  bool
	}{
		{"auto", css.Values{ident("auto")}, ecs.Auto(), false},
		{"auto uppercase", css.Values{ident("AUTO")}, ecs.Auto(), false},
		{"pixels", css.Values{px(12)}, ecs.Px(12), false},
		{"unitless", css.Values{num(7)}, ecs.Px(7), false},
		{"percent", css.Values{pct(33)}, ecs.Percent(33), false},
		{"undefined", css.Values{ident("undefined")}, ecs.Val{}, false},
		{"bad unit", css.Values{{Kind: css.TokenDimension, Number: 1, Unit: "em"}}, ecs.Val{}, true},
		{"too many", css.Values{px(1), px(2)}, ecs.Val{}, true},
		{"keyword", css.Values{ident("wide")}, ecs.Val{}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseVal(tc.in)
			if tc.bad {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Errorf("got %v want %v", got, tc.want)
			}
		})
	}
}

func TestParseRect_Shorthand(t *testing.T) {
	tests := []struct {
		name string
		in   css.Values
		want ecs.Rect
	}{
		{"one for all sides", css.Values{px(10)},
			ecs.UniformRect(ecs.Px(10))},
		{"vertical horizontal", css.Values{pct(5), px(10)},
			ecs.Rect{Top: ecs.Percent(5), Right: ecs.Px(10), Bottom: ecs.Percent(5), Left: ecs.Px(10)}},
		{"top sides bottom", css.Values{px(1), px(2), px(3)},
			ecs.Rect{Top: ecs.Px(1), Right: ecs.Px(2), Bottom: ecs.Px(3), Left: ecs.Px(2)}},
		{"clockwise", css.Values{px(1), px(2), px(3), px(4)},
			ecs.Rect{Top: ecs.Px(1), Right: ecs.Px(2), Bottom: ecs.Px(3), Left: ecs.Px(4)}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseRect(tc.in)
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Errorf("got %+v want %+v", got, tc.want)
			}
		})
	}

	if _, err := parseRect(css.Values{px(1), px(2), px(3), px(4), px(5)}); err == nil {
		t.Error("five values must be rejected")
	}
	if _, err := parseRect(css.Values{ident("wide")}); err == nil {
		t.Error("keyword sides must be rejected")
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		name string
		in   css.Token
		want ecs.Color
	}{
		{"named", ident("red"), ecs.Color{R: 255, A: 255}},
		{"named is case-insensitive", ident("RebeccaPurple"), ecs.Color{R: 102, G: 51, B: 153, A: 255}},
		{"short hex", hash("fff"), ecs.Color{R: 255, G: 255, B: 255, A: 255}},
		{"short hex with alpha", hash("f008"), ecs.Color{R: 255, A: 0x88}},
		{"full hex", hash("663399"), ecs.Color{R: 102, G: 51, B: 153, A: 255}},
		{"full hex with alpha", hash("66339980"), ecs.Color{R: 102, G: 51, B: 153, A: 128}},
		{"transparent", ident("transparent"), ecs.Color{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseColor(css.Values{tc.in})
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Errorf("got %v want %v", got, tc.want)
			}
		})
	}

	for _, bad := range []css.Token{ident("notacolor"), hash("12345"), hash("gggggg"), px(3)} {
		if _, err := parseColor(css.Values{bad}); err == nil {
			t.Errorf("%v must be rejected", bad)
		}
	}
}
