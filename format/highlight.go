package format

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dhamidi/phpcst/php/parser"
	"github.com/muesli/termenv"
)

// Theme assigns a style to each class of token.
type Theme struct {
	Keyword  lipgloss.Style
	Variable lipgloss.Style
	Name     lipgloss.Style
	Number   lipgloss.Style
	String   lipgloss.Style
	Comment  lipgloss.Style
	Operator lipgloss.Style
	Tag      lipgloss.Style
	Cast     lipgloss.Style
	Error    lipgloss.Style
}

func DefaultTheme(r *lipgloss.Renderer) Theme {
	style := func() lipgloss.Style {
		return r.NewStyle().TabWidth(lipgloss.NoTabConversion)
	}
	return Theme{
		Keyword:  style().Foreground(lipgloss.Color("5")).Bold(true),
		Variable: style().Foreground(lipgloss.Color("6")),
		Name:     style(),
		Number:   style().Foreground(lipgloss.Color("3")),
		String:   style().Foreground(lipgloss.Color("2")),
		Comment:  style().Foreground(lipgloss.Color("8")).Italic(true),
		Operator: style().Foreground(lipgloss.Color("7")),
		Tag:      style().Foreground(lipgloss.Color("4")).Bold(true),
		Cast:     style().Foreground(lipgloss.Color("5")),
		Error:    style().Foreground(lipgloss.Color("1")).Underline(true),
	}
}

// Highlighter writes the source of a document with ANSI styling. The
// output without styling is byte-for-byte the input. Tokens skipped by
// error recovery use the Error style.
type Highlighter struct {
	w     io.Writer
	doc   *parser.Document
	theme Theme
	color bool
}

// NewHighlighter styles for the colour profile detected on w unless color
// is false.
func NewHighlighter(w io.Writer, color bool) *Highlighter {
	r := lipgloss.NewRenderer(w)
	if !color {
		r.SetColorProfile(termenv.Ascii)
	}
	return &Highlighter{w: w, theme: DefaultTheme(r), color: color}
}

// NewHighlighterWithProfile forces a colour profile, for output that is
// not a terminal.
func NewHighlighterWithProfile(w io.Writer, profile termenv.Profile) *Highlighter {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(profile)
	return &Highlighter{w: w, theme: DefaultTheme(r), color: profile != termenv.Ascii}
}

func (h *Highlighter) Encode(doc *parser.Document) error {
	h.doc = doc
	text, err := h.MarshalText()
	if err != nil {
		return err
	}
	_, err = h.w.Write(text)
	return err
}

func (h *Highlighter) MarshalText() ([]byte, error) {
	src := h.doc.Source
	if !h.color {
		return append([]byte(nil), src...), nil
	}

	skipped := make(map[int]bool)
	for _, e := range h.doc.Errors() {
		for _, tok := range parser.Tokens(e) {
			skipped[tok.Offset] = true
		}
	}

	var sb strings.Builder
	for _, tok := range parser.Tokenize(src) {
		if tok.Kind == parser.TokenEndOfFile {
			break
		}
		text := tok.Text(src)
		style, ok := h.styleFor(tok.Kind)
		if skipped[tok.Offset] && tok.Kind != parser.TokenWhitespace {
			style, ok = h.theme.Error, true
		}
		if !ok {
			sb.WriteString(text)
			continue
		}
		renderLines(&sb, style, text)
	}
	return []byte(sb.String()), nil
}

// renderLines styles each line of text on its own so that line breaks
// stay unstyled and no padding is introduced.
func renderLines(sb *strings.Builder, style lipgloss.Style, text string) {
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			sb.WriteByte('\n')
		}
		if line != "" {
			sb.WriteString(style.Render(line))
		}
	}
}

func (h *Highlighter) styleFor(kind parser.TokenKind) (lipgloss.Style, bool) {
	t := h.theme
	switch {
	case kind == parser.TokenWhitespace, kind == parser.TokenText:
		return lipgloss.Style{}, false
	case kind == parser.TokenComment, kind == parser.TokenDocumentComment:
		return t.Comment, true
	case kind == parser.TokenOpenTag, kind == parser.TokenOpenTagEcho, kind == parser.TokenCloseTag:
		return t.Tag, true
	case kind.IsKeyword():
		return t.Keyword, true
	case kind >= parser.TokenArrayCast && kind <= parser.TokenUnsetCast:
		return t.Cast, true
	}
	switch kind {
	case parser.TokenVariableName:
		return t.Variable, true
	case parser.TokenName:
		return t.Name, true
	case parser.TokenIntegerLiteral, parser.TokenFloatingLiteral:
		return t.Number, true
	case parser.TokenStringLiteral, parser.TokenEncapsulatedAndWhitespace,
		parser.TokenDoubleQuote, parser.TokenBacktick,
		parser.TokenStartHeredoc, parser.TokenEndHeredoc:
		return t.String, true
	case parser.TokenUnknown:
		return t.Error, true
	}
	return t.Operator, true
}
