package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/phpcst/php/parser"
)

// TokensJSONEncoder writes the raw token stream of a document, one object
// per token, ending with EndOfFile.
type TokensJSONEncoder struct {
	w   io.Writer
	doc *parser.Document
}

func NewTokensJSONEncoder(w io.Writer) *TokensJSONEncoder {
	return &TokensJSONEncoder{w: w}
}

func (e *TokensJSONEncoder) Encode(doc *parser.Document) error {
	e.doc = doc
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *TokensJSONEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(e.buildTokens(), "", "  ")
}

type jsonToken struct {
	Kind      string   `json:"kind"`
	Text      string   `json:"text"`
	Offset    int      `json:"offset"`
	Length    int      `json:"length"`
	Line      int      `json:"line"`
	Column    int      `json:"column"`
	ModeStack []string `json:"modeStack"`
}

func (e *TokensJSONEncoder) buildTokens() []jsonToken {
	tokens := parser.Tokenize(e.doc.Source)
	result := make([]jsonToken, len(tokens))
	for i, tok := range tokens {
		pos := e.doc.Position(tok.Offset)
		result[i] = jsonToken{
			Kind:      tok.Kind.String(),
			Text:      tok.Text(e.doc.Source),
			Offset:    tok.Offset,
			Length:    tok.Length,
			Line:      pos.Line,
			Column:    pos.Column,
			ModeStack: modeNames(tok.ModeStack),
		}
	}
	return result
}

func modeNames(stack []parser.LexerMode) []string {
	names := make([]string, len(stack))
	for i, m := range stack {
		names[i] = m.String()
	}
	return names
}
