package css

import (
	"bytes"
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Parser parses style-sheet text into structured rules. Parsing never fails
// as a whole: malformed rules are dropped one at a time and reported through
// the returned sheet's Diagnostics (and debug logging).
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new style-sheet parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// Parse parses style-sheet text into a Stylesheet. The source parameter
// identifies what is being parsed (file path or similar) for diagnostics.
func (p *Parser) Parse(data []byte, source string) *Stylesheet {
	sheet := newStylesheet(source)

	p.log.Debug("parsing style sheet", zap.String("source", source), zap.Int("bytes", len(data)))

	input := parse.NewInput(bytes.NewReader(data))
	parser := css.NewParser(input, false)

	// Set when a comma-separated selector group is seen: the whole upcoming
	// ruleset is dropped, since grouped selectors are not supported.
	groupedSelector := false

	for {
		gt, _, gtData := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if err := parser.Err(); err != nil && !errors.Is(err, io.EOF) {
				p.diag(sheet, input, Diagnostic{Message: err.Error()})
			}
			return sheet

		case css.CommentGrammar:
			// comments carry no rules

		case css.BeginAtRuleGrammar:
			p.diag(sheet, input, Diagnostic{
				Selector: string(gtData),
				Message:  "at-rules are not supported",
			})
			p.skipAtRuleBlock(parser)

		case css.AtRuleGrammar:
			p.diag(sheet, input, Diagnostic{
				Selector: string(gtData),
				Message:  "at-rules are not supported",
			})

		case css.QualifiedRuleGrammar:
			// One selector of a comma-separated group; the final selector of
			// the group arrives with BeginRulesetGrammar.
			groupedSelector = true

		case css.BeginRulesetGrammar:
			raw := rawSelector(gtData, parser.Values())
			line, col := position(input)

			selector, err := parseSelector(parser.Values())
			decls := p.parseDeclarations(parser)

			switch {
			case groupedSelector:
				groupedSelector = false
				p.diagAt(sheet, line, col, Diagnostic{
					Selector: raw,
					Message:  "selector groups are not supported",
				})
			case err != nil:
				p.diagAt(sheet, line, col, Diagnostic{
					Selector: raw,
					Message:  err.Error(),
				})
			default:
				for _, d := range selector.Diagnostics {
					d.Line, d.Column = line, col
					p.append(sheet, d)
				}
				rule := Rule{
					Index:        len(sheet.Rules),
					Line:         line,
					Selector:     selector.Selector,
					Declarations: decls,
					Weight:       weigh(selector.Selector),
				}
				sheet.Rules = append(sheet.Rules, rule)
			}
		}
	}
}

// parseDeclarations consumes property declarations until the end of the
// current ruleset, preserving the typed value tokens of each declaration.
func (p *Parser) parseDeclarations(parser *css.Parser) []Declaration {
	var decls []Declaration
	for {
		gt, _, gtData := parser.Next()
		switch gt {
		case css.ErrorGrammar, css.EndRulesetGrammar:
			return decls
		case css.DeclarationGrammar:
			decls = append(decls, Declaration{
				Property: strings.ToLower(string(gtData)),
				Values:   convertValues(parser.Values()),
			})
		case css.CustomPropertyGrammar:
			// custom properties (--var) are not supported; skip quietly
		}
	}
}

// skipAtRuleBlock skips tokens until the matching end of an at-rule block.
func (p *Parser) skipAtRuleBlock(parser *css.Parser) {
	depth := 1
	for depth > 0 {
		gt, _, _ := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			return
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			depth++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth--
		}
	}
}

func (p *Parser) diag(sheet *Stylesheet, input *parse.Input, d Diagnostic) {
	line, col := position(input)
	p.diagAt(sheet, line, col, d)
}

func (p *Parser) diagAt(sheet *Stylesheet, line, col int, d Diagnostic) {
	d.Line, d.Column = line, col
	p.append(sheet, d)
}

func (p *Parser) append(sheet *Stylesheet, d Diagnostic) {
	sheet.Diagnostics = append(sheet.Diagnostics, d)
	p.log.Warn("style sheet diagnostic",
		zap.String("source", sheet.Source),
		zap.Int("line", d.Line),
		zap.String("selector", d.Selector),
		zap.String("property", d.Property),
		zap.String("message", d.Message))
}

// position reports the 1-based line and column of the parser's current spot.
func position(input *parse.Input) (int, int) {
	line, col, _ := parse.Position(bytes.NewReader(input.Bytes()), input.Offset())
	return line, col
}

// rawSelector reconstructs the selector text for diagnostics.
func rawSelector(data []byte, values []css.Token) string {
	var sb strings.Builder
	sb.Write(data)
	for _, v := range values {
		sb.Write(v.Data)
	}
	return strings.TrimSpace(sb.String())
}

// parsedSelector is the result of parseSelector: the selector itself plus
// non-fatal notes (unknown pseudo-classes) found while building it.
type parsedSelector struct {
	Selector    Selector
	Diagnostics []Diagnostic
}

// pending tracks which constituent the next identifier belongs to.
type pending int

const (
	pendingNone pending = iota
	pendingClass
	pendingState
)

// parseSelector builds selector segments left-to-right from prelude tokens.
// Whitespace is the descendant combinator; any other combinator is an error
// for the whole rule.
func parseSelector(tokens []css.Token) (parsedSelector, error) {
	var (
		out  parsedSelector
		cur  Segment
		open bool // current segment has content (or an explicit '*')
		next = pendingNone
	)
	closeSegment := func() {
		if open {
			out.Selector.Segments = append(out.Selector.Segments, cur)
			cur = Segment{}
			open = false
		}
	}

	for _, t := range tokens {
		switch t.TokenType {
		case css.WhitespaceToken:
			if next != pendingNone {
				return out, errors.New("dangling selector prefix")
			}
			closeSegment()

		case css.IdentToken:
			ident := string(t.Data)
			switch next {
			case pendingClass:
				cur.Classes = append(cur.Classes, ident)
			case pendingState:
				if cur.State != StateNone {
					return out, errors.New("multiple pseudo-classes in one segment")
				}
				if strings.EqualFold(ident, "hover") {
					cur.State = StateHover
				} else {
					cur.State = StateUnsupported
					out.Diagnostics = append(out.Diagnostics, Diagnostic{
						Selector: ":" + ident,
						Message:  "unsupported pseudo-class, selector will never match",
					})
				}
			default:
				if cur.Type != "" {
					return out, errors.New("multiple type selectors in one segment")
				}
				cur.Type = ident
			}
			next = pendingNone
			open = true

		case css.HashToken:
			name := strings.TrimPrefix(string(t.Data), "#")
			if name == "" {
				return out, errors.New("empty name selector")
			}
			if cur.Name != "" {
				return out, errors.New("multiple name selectors in one segment")
			}
			cur.Name = name
			open = true

		case css.DelimToken:
			switch {
			case bytes.Equal(t.Data, []byte{'.'}):
				next = pendingClass
			case bytes.Equal(t.Data, []byte{'*'}):
				open = true
			case bytes.Equal(t.Data, []byte{'>'}), bytes.Equal(t.Data, []byte{'+'}), bytes.Equal(t.Data, []byte{'~'}):
				return out, errors.New("only the descendant combinator is supported")
			default:
				return out, errors.New("unexpected token " + strconv.Quote(string(t.Data)))
			}

		case css.ColonToken:
			next = pendingState

		case css.CommaToken:
			return out, errors.New("selector groups are not supported")

		case css.LeftBracketToken:
			return out, errors.New("attribute selectors are not supported")

		default:
			return out, errors.New("unexpected token " + strconv.Quote(string(t.Data)))
		}
	}
	if next != pendingNone {
		return out, errors.New("dangling selector prefix")
	}
	closeSegment()
	if len(out.Selector.Segments) == 0 {
		return out, errors.New("empty selector")
	}
	return out, nil
}

// weigh computes name/class/type counts across all segments of a selector.
// The source index is assigned later, when sheets are concatenated.
func weigh(sel Selector) Specificity {
	var w Specificity
	for _, seg := range sel.Segments {
		if seg.Name != "" {
			w.Names++
		}
		w.Classes += len(seg.Classes)
		if seg.Type != "" {
			w.Types++
		}
	}
	return w
}

// convertValues keeps the typed value tokens of a declaration so downstream
// property parsing never re-tokenizes text. Tokens with no value meaning
// (whitespace, commas) are dropped; anything else unsupported is skipped.
func convertValues(tokens []css.Token) Values {
	var values Values
	for _, t := range tokens {
		switch t.TokenType {
		case css.IdentToken:
			values = append(values, Token{Kind: TokenIdent, Text: string(t.Data)})
		case css.HashToken:
			values = append(values, Token{Kind: TokenHash, Text: strings.TrimPrefix(string(t.Data), "#")})
		case css.StringToken:
			values = append(values, Token{Kind: TokenString, Text: unquote(string(t.Data))})
		case css.NumberToken:
			n, _ := strconv.ParseFloat(string(t.Data), 64)
			values = append(values, Token{Kind: TokenNumber, Number: n})
		case css.PercentageToken:
			n, _ := strconv.ParseFloat(strings.TrimSuffix(string(t.Data), "%"), 64)
			values = append(values, Token{Kind: TokenPercentage, Number: n})
		case css.DimensionToken:
			n, unit := splitDimension(string(t.Data))
			values = append(values, Token{Kind: TokenDimension, Number: n, Unit: unit})
		}
	}
	return values
}

// splitDimension extracts the numeric value and unit from a dimension token.
func splitDimension(s string) (float64, string) {
	numEnd := 0
	for i, r := range s {
		if unicode.IsDigit(r) || r == '.' || r == '-' || r == '+' {
			numEnd = i + 1
		} else {
			break
		}
	}
	if numEnd == 0 {
		return 0, ""
	}
	n, _ := strconv.ParseFloat(s[:numEnd], 64)
	return n, strings.ToLower(s[numEnd:])
}

// unquote removes surrounding quotes from a string token.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return s
	}
	if (s[0] == '"' && s[len(s)-1] == '"') ||
		(s[0] == '\'' && s[len(s)-1] == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}
