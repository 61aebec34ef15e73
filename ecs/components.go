package ecs

import "fmt"

// Component is a typed attribute bag attached to an entity. The tag is the
// stable string identity the styling engine uses to query target shapes and
// to bind type selectors.
type Component interface {
	ComponentTag() string
}

// Built-in component tags.
const (
	TagLayout      = "layout"
	TagText        = "text"
	TagBackground  = "background"
	TagImage       = "image"
	TagInteraction = "interaction"
)

// ValKind discriminates layout values. Percentages and absolute dimensions
// stay distinct all the way through; converting percentages to pixels is the
// layout system's concern, not the styling engine's.
type ValKind int

const (
	ValUndefined ValKind = iota
	ValAuto
	ValPx
	ValPercent
)

// Val is a single layout value: auto, an absolute dimension or a percentage.
type Val struct {
	Kind  ValKind
	Value float64
}

func Px(v float64) Val      { return Val{Kind: ValPx, Value: v} }
func Percent(v float64) Val { return Val{Kind: ValPercent, Value: v} }
func Auto() Val             { return Val{Kind: ValAuto} }

func (v Val) String() string {
	switch v.Kind {
	case ValAuto:
		return "auto"
	case ValPx:
		return fmt.Sprintf("%gpx", v.Value)
	case ValPercent:
		return fmt.Sprintf("%g%%", v.Value)
	default:
		return "undefined"
	}
}

// Rect is four values in CSS order: top, right, bottom, left.
type Rect struct {
	Top    Val
	Right  Val
	Bottom Val
	Left   Val
}

// UniformRect replicates one value on all four sides.
func UniformRect(v Val) Rect {
	return Rect{Top: v, Right: v, Bottom: v, Left: v}
}

// Color is an 8-bit RGBA color.
type Color struct {
	R, G, B, A uint8
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// Layout enums. Values mirror the flexbox vocabulary of the style-sheet
// format; parsing the keywords is the property handlers' job.
type (
	Display        int
	PositionType   int
	Direction      int
	FlexDirection  int
	FlexWrap       int
	AlignItems     int
	AlignSelf      int
	AlignContent   int
	JustifyContent int
	Overflow       int
	TextAlign      int
)

const (
	DisplayFlex Display = iota
	DisplayNone
)

const (
	PositionRelative PositionType = iota
	PositionAbsolute
)

const (
	DirectionInherit Direction = iota
	DirectionLTR
	DirectionRTL
)

const (
	FlexRow FlexDirection = iota
	FlexColumn
	FlexRowReverse
	FlexColumnReverse
)

const (
	NoWrap FlexWrap = iota
	Wrap
	WrapReverse
)

const (
	ItemsStretch AlignItems = iota
	ItemsFlexStart
	ItemsFlexEnd
	ItemsCenter
	ItemsBaseline
)

const (
	SelfAuto AlignSelf = iota
	SelfFlexStart
	SelfFlexEnd
	SelfCenter
	SelfBaseline
	SelfStretch
)

const (
	ContentStretch AlignContent = iota
	ContentFlexStart
	ContentFlexEnd
	ContentCenter
	ContentSpaceBetween
	ContentSpaceAround
)

const (
	JustifyFlexStart JustifyContent = iota
	JustifyFlexEnd
	JustifyCenter
	JustifySpaceBetween
	JustifySpaceAround
	JustifySpaceEvenly
)

const (
	OverflowVisible Overflow = iota
	OverflowHidden
)

const (
	AlignLeft TextAlign = iota
	AlignCenter
	AlignRight
)

// Layout is the flexbox layout box of an entity.
type Layout struct {
	Display        Display
	Position       PositionType
	Direction      Direction
	FlexDirection  FlexDirection
	FlexWrap       FlexWrap
	AlignItems     AlignItems
	AlignSelf      AlignSelf
	AlignContent   AlignContent
	JustifyContent JustifyContent
	Overflow       Overflow

	Left   Val
	Right  Val
	Top    Val
	Bottom Val

	Width     Val
	Height    Val
	MinWidth  Val
	MinHeight Val
	MaxWidth  Val
	MaxHeight Val

	Margin  Rect
	Padding Rect
	Border  Rect

	FlexBasis   Val
	FlexGrow    float64
	FlexShrink  float64
	AspectRatio *float64
}

func (*Layout) ComponentTag() string { return TagLayout }

// Text is a styled text block.
type Text struct {
	Content  string
	Font     string
	FontSize float64
	Color    Color
	Align    TextAlign
}

func (*Text) ComponentTag() string { return TagText }

// Background carries an entity's fill color.
type Background struct {
	Color Color
}

func (*Background) ComponentTag() string { return TagBackground }

// Image references a displayable image by path. The path is resolved to a
// loaded resource at apply time through the engine's asset resolver.
type Image struct {
	Path string
}

func (*Image) ComponentTag() string { return TagImage }

// Interaction is the live pointer-interaction state of an entity, the data
// behind the :hover pseudo-class.
type Interaction struct {
	Hovered bool
}

func (*Interaction) ComponentTag() string { return TagInteraction }
