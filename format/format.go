// Package format renders parsed PHP documents for people and tools: JSON
// trees, indented dumps, token tables and highlighted source.
package format

import (
	"encoding"

	"github.com/dhamidi/phpcst/php/parser"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(doc *parser.Document) error
}

var (
	_ Encoder = (*JSONEncoder)(nil)
	_ Encoder = (*TreeEncoder)(nil)
	_ Encoder = (*TokensJSONEncoder)(nil)
	_ Encoder = (*TokenTableEncoder)(nil)
	_ Encoder = (*Highlighter)(nil)
)
