package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/phpcst/php/parser"
)

// JSONEncoder writes the whole tree, trivia included, as indented JSON.
// Token nodes carry their source text; spans are included on request.
type JSONEncoder struct {
	w         io.Writer
	doc       *parser.Document
	positions bool
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

// WithPositions makes every node carry its line/column span.
func (e *JSONEncoder) WithPositions(on bool) *JSONEncoder {
	e.positions = on
	return e
}

func (e *JSONEncoder) Encode(doc *parser.Document) error {
	e.doc = doc
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(e.nodeToJSON(e.doc.Root), "", "  ")
}

type astJSONNode struct {
	Type     string         `json:"type"`
	Kind     string         `json:"kind"`
	Span     *astJSONSpan   `json:"span,omitempty"`
	Token    *string        `json:"token,omitempty"`
	Error    *astJSONError  `json:"error,omitempty"`
	Children []*astJSONNode `json:"children,omitempty"`
}

type astJSONSpan struct {
	Start astJSONPosition `json:"start"`
	End   astJSONPosition `json:"end"`
}

type astJSONPosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
	Offset int `json:"offset"`
}

type astJSONError struct {
	Message  string `json:"message"`
	Expected string `json:"expected,omitempty"`
	Got      string `json:"got"`
}

func (e *JSONEncoder) nodeToJSON(n parser.Node) *astJSONNode {
	var jn *astJSONNode
	var children []parser.Node

	switch n := n.(type) {
	case *parser.Token:
		text := n.Text(e.doc.Source)
		jn = &astJSONNode{Type: "token", Kind: n.Kind.String(), Token: &text}
	case *parser.ParseError:
		jn = &astJSONNode{
			Type: "error",
			Kind: n.Kind.String(),
			Error: &astJSONError{
				Message: n.Message(),
				Got:     n.Unexpected.Kind.String(),
			},
		}
		if n.Expected != parser.TokenNone {
			jn.Error.Expected = n.Expected.String()
		}
		children = n.Children
	case *parser.Phrase:
		jn = &astJSONNode{Type: "phrase", Kind: n.Kind.String()}
		children = n.Children
	default:
		return nil
	}

	if e.positions {
		span := e.doc.Span(n)
		jn.Span = &astJSONSpan{
			Start: toJSONPosition(span.Start),
			End:   toJSONPosition(span.End),
		}
	}

	if len(children) > 0 {
		jn.Children = make([]*astJSONNode, 0, len(children))
		for _, child := range children {
			if c := e.nodeToJSON(child); c != nil {
				jn.Children = append(jn.Children, c)
			}
		}
	}

	return jn
}

func toJSONPosition(p parser.Position) astJSONPosition {
	return astJSONPosition{Line: p.Line, Column: p.Column, Offset: p.Offset}
}
