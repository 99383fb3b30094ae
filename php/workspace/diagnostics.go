package workspace

import (
	"fmt"

	"github.com/dhamidi/phpcst/php/parser"
)

// Diagnostic is a syntax error located in a file.
type Diagnostic struct {
	Path     string
	Span     parser.Span
	Message  string
	Expected parser.TokenKind
	Found    parser.TokenKind
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%s: %s", d.Path, d.Span.Start, d.Message)
}

// Diagnose turns the ParseError nodes of doc into diagnostics. An error
// that skipped tokens spans them, minus the trivia in front of the first
// one; otherwise it spans the unexpected token.
func Diagnose(path string, doc *parser.Document) []Diagnostic {
	var out []Diagnostic
	for _, e := range doc.Errors() {
		start, end := e.Unexpected.Offset, e.Unexpected.End()
		if len(e.Children) > 0 {
			_, end = parser.NodeSpan(e)
		}
		if end < start {
			end = start
		}
		span := doc.Lines.Span(start, end-start)
		out = append(out, Diagnostic{
			Path:     path,
			Span:     span,
			Message:  e.Message(),
			Expected: e.Expected,
			Found:    e.Unexpected.Kind,
		})
	}
	return out
}
