package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dhamidi/phpcst/php/parser"
)

// TokenTableEncoder writes one tab-separated line per token:
// position, kind, quoted text and the mode stack joined by "/".
type TokenTableEncoder struct {
	w   io.Writer
	doc *parser.Document
}

func NewTokenTableEncoder(w io.Writer) *TokenTableEncoder {
	return &TokenTableEncoder{w: w}
}

func (e *TokenTableEncoder) Encode(doc *parser.Document) error {
	e.doc = doc
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TokenTableEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	src := e.doc.Source

	for _, tok := range parser.Tokenize(src) {
		fmt.Fprintf(&sb, "%s\t%s\t%s\t%s\n",
			e.doc.Position(tok.Offset),
			tok.Kind,
			strconv.Quote(tok.Text(src)),
			strings.Join(modeNames(tok.ModeStack), "/"),
		)
	}

	return []byte(sb.String()), nil
}

// TreeEncoder writes the tree one node per line, indented two spaces per
// level. Tokens show their quoted text; errors their message.
type TreeEncoder struct {
	w         io.Writer
	doc       *parser.Document
	positions bool
	trivia    bool
}

func NewTreeEncoder(w io.Writer) *TreeEncoder {
	return &TreeEncoder{w: w, trivia: true}
}

// WithPositions appends the line/column span of every node.
func (e *TreeEncoder) WithPositions(on bool) *TreeEncoder {
	e.positions = on
	return e
}

// WithTrivia controls whether whitespace, comments and tags are listed.
func (e *TreeEncoder) WithTrivia(on bool) *TreeEncoder {
	e.trivia = on
	return e
}

func (e *TreeEncoder) Encode(doc *parser.Document) error {
	e.doc = doc
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TreeEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	e.writeNode(&sb, e.doc.Root, 0)
	return []byte(sb.String()), nil
}

func (e *TreeEncoder) writeNode(sb *strings.Builder, n parser.Node, depth int) {
	var children []parser.Node

	switch n := n.(type) {
	case *parser.Token:
		if !e.trivia && n.Kind.IsTrivia() {
			return
		}
		sb.WriteString(strings.Repeat("  ", depth))
		fmt.Fprintf(sb, "%s %s", n.Kind, strconv.Quote(n.Text(e.doc.Source)))
	case *parser.ParseError:
		sb.WriteString(strings.Repeat("  ", depth))
		fmt.Fprintf(sb, "Error: %s", n.Message())
		children = n.Children
	case *parser.Phrase:
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString(n.Kind.String())
		children = n.Children
	default:
		return
	}

	if e.positions {
		fmt.Fprintf(sb, " @%s", e.doc.Span(n))
	}
	sb.WriteByte('\n')

	for _, c := range children {
		e.writeNode(sb, c, depth+1)
	}
}
