package css

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// TokenKind discriminates the typed value tokens kept from the lexer.
type TokenKind int

const (
	TokenIdent TokenKind = iota // plain identifier, like "none" or "center"
	TokenHash                   // identifier prefixed by a hash, like "#001122"
	TokenString                 // quoted string, like "some value"
	TokenNumber                 // plain number, like 31.1 or 43
	TokenPercentage             // percentage, like "100%" or "73.23%"
	TokenDimension              // dimension, like "10px" or "35em"
)

func (k TokenKind) String() string {
	switch k {
	case TokenIdent:
		return "ident"
	case TokenHash:
		return "hash"
	case TokenString:
		return "string"
	case TokenNumber:
		return "number"
	case TokenPercentage:
		return "percentage"
	case TokenDimension:
		return "dimension"
	default:
		return "unknown"
	}
}

// Token is a single typed value token from a declaration. Numeric kinds carry
// Number (and Unit for dimensions), textual kinds carry Text. Hash tokens
// store Text without the leading '#'.
type Token struct {
	Kind   TokenKind
	Text   string
	Number float64
	Unit   string
}

func (t Token) String() string {
	switch t.Kind {
	case TokenHash:
		return "#" + t.Text
	case TokenString:
		return strconv.Quote(t.Text)
	case TokenNumber:
		return strconv.FormatFloat(t.Number, 'f', -1, 64)
	case TokenPercentage:
		return strconv.FormatFloat(t.Number, 'f', -1, 64) + "%"
	case TokenDimension:
		return strconv.FormatFloat(t.Number, 'f', -1, 64) + t.Unit
	default:
		return t.Text
	}
}

// Values is the ordered token sequence of a single declaration.
type Values []Token

// Ident returns the first non-empty identifier token, if any.
func (v Values) Ident() (string, bool) {
	for _, t := range v {
		if t.Kind == TokenIdent && t.Text != "" {
			return t.Text, true
		}
	}
	return "", false
}

// Text returns the first non-empty quoted string token, if any.
func (v Values) Text() (string, bool) {
	for _, t := range v {
		if t.Kind == TokenString && t.Text != "" {
			return t.Text, true
		}
	}
	return "", false
}

// Float returns the first numeric token (number, percentage or dimension).
func (v Values) Float() (float64, bool) {
	for _, t := range v {
		switch t.Kind {
		case TokenNumber, TokenPercentage, TokenDimension:
			return t.Number, true
		}
	}
	return 0, false
}

func (v Values) String() string {
	parts := make([]string, len(v))
	for i, t := range v {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}

// Declaration is a single "property: value1 value2 ...;" pair. Declarations
// keep source order within their rule; a later declaration for the same
// property name overrides an earlier one when the cascade folds.
type Declaration struct {
	Property string
	Values   Values
}

// State is the interaction pseudo-class of a selector segment.
type State int

const (
	// StateNone means the segment has no pseudo-class constraint.
	StateNone State = iota
	// StateHover matches entities currently hovered by the pointer.
	StateHover
	// StateUnsupported is any pseudo-class this build does not know.
	// It parses fine but never matches anything.
	StateUnsupported
)

func (s State) String() string {
	switch s {
	case StateHover:
		return ":hover"
	case StateUnsupported:
		return ":unsupported"
	default:
		return ""
	}
}

// Segment is one whitespace-delimited step of a selector: a conjunction of an
// optional type token, an optional #name, zero or more .classes and an
// optional pseudo-class. An absent constituent means "don't care".
type Segment struct {
	Type    string
	Name    string
	Classes []string
	State   State
}

// Empty reports whether the segment carries no constraint at all (a bare
// universal selector).
func (s Segment) Empty() bool {
	return s.Type == "" && s.Name == "" && len(s.Classes) == 0 && s.State == StateNone
}

func (s Segment) String() string {
	var sb strings.Builder
	sb.WriteString(s.Type)
	if s.Name != "" {
		sb.WriteByte('#')
		sb.WriteString(s.Name)
	}
	for _, c := range s.Classes {
		sb.WriteByte('.')
		sb.WriteString(c)
	}
	sb.WriteString(s.State.String())
	if sb.Len() == 0 {
		return "*"
	}
	return sb.String()
}

// Selector is an ordered sequence of segments connected by the descendant
// relation. The last segment matches the target entity; every earlier segment
// must match some strict ancestor, in order, at any depth.
type Selector struct {
	Segments []Segment
}

// Target returns the rightmost segment.
func (s Selector) Target() Segment {
	return s.Segments[len(s.Segments)-1]
}

func (s Selector) String() string {
	parts := make([]string, len(s.Segments))
	for i, seg := range s.Segments {
		parts[i] = seg.String()
	}
	return strings.Join(parts, " ")
}

// Specificity ranks conflicting rules. Comparison is lexicographic on
// (Names, Classes, Types, Source); Source is the rule's position in the
// concatenation of all applied sheets and is unique, so no two applied rules
// ever compare equal.
type Specificity struct {
	Names   int
	Classes int
	Types   int
	Source  int
}

// Compare returns -1, 0 or +1. The cascade folds rules in ascending order, so
// the greater specificity wins and, within equal counts, the later source
// position wins.
func (s Specificity) Compare(o Specificity) int {
	switch {
	case s.Names != o.Names:
		return cmp(s.Names, o.Names)
	case s.Classes != o.Classes:
		return cmp(s.Classes, o.Classes)
	case s.Types != o.Types:
		return cmp(s.Types, o.Types)
	default:
		return cmp(s.Source, o.Source)
	}
}

func cmp(a, b int) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// Rule is a selector plus its ordered declarations. Index is the rule's
// position within its owning sheet and doubles as the cache key component for
// parsed declaration values.
type Rule struct {
	Index        int
	Line         int
	Selector     Selector
	Declarations []Declaration

	// Weight holds the name/class/type counts computed at parse time.
	// Weight.Source stays zero until sheets are concatenated for an entity.
	Weight Specificity
}

// Diagnostic is a non-fatal problem found while parsing or applying a sheet.
type Diagnostic struct {
	Line     int
	Column   int
	Selector string
	Property string
	Message  string
}

func (d Diagnostic) String() string {
	where := fmt.Sprintf("%d:%d", d.Line, d.Column)
	switch {
	case d.Property != "":
		return fmt.Sprintf("%s: property %q: %s", where, d.Property, d.Message)
	case d.Selector != "":
		return fmt.Sprintf("%s: selector %q: %s", where, d.Selector, d.Message)
	default:
		return where + ": " + d.Message
	}
}

// Stylesheet is an ordered sequence of rules from a single source. ID is a
// fresh identity per parse: a reloaded file yields a new Stylesheet with a new
// ID, which is what invalidates per-sheet caches downstream.
type Stylesheet struct {
	ID          uuid.UUID
	Source      string
	Rules       []Rule
	Diagnostics []Diagnostic
}

func newStylesheet(source string) *Stylesheet {
	return &Stylesheet{ID: uuid.New(), Source: source}
}

// Empty reports whether the sheet contains no usable rules.
func (s *Stylesheet) Empty() bool {
	return s == nil || len(s.Rules) == 0
}
