package lexgrammar

import (
	"fmt"

	"github.com/dhamidi/phpcst/php/parser"
	"golang.org/x/exp/ebnf"
)

// Productions maps the token kinds described by the grammar to their
// production.
var Productions = map[parser.TokenKind]string{
	parser.TokenVariableName:    "VariableName",
	parser.TokenName:            "Name",
	parser.TokenIntegerLiteral:  "IntegerLiteral",
	parser.TokenFloatingLiteral: "FloatingLiteral",
	parser.TokenWhitespace:      "Whitespace",
}

// Mismatch is a token whose length differs from what its production
// matches at the same offset.
type Mismatch struct {
	Token      parser.Token
	Production string
	// Want is the grammar's match length, -1 if it does not match at all.
	Want int
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%d: %s of length %d, grammar matches %d", m.Token.Offset, m.Production, m.Token.Length, m.Want)
}

// Check lexes src and compares every scripting-mode token of a kind listed
// in Productions against the grammar.
func Check(g ebnf.Grammar, src []byte) []Mismatch {
	m := NewMatcher(g)
	var out []Mismatch
	for _, tok := range parser.Tokenize(src) {
		name, ok := Productions[tok.Kind]
		if !ok || !scripting(tok) {
			continue
		}
		want, err := m.Match(name, src[tok.Offset:])
		if err != nil {
			want = -1
		}
		if want != tok.Length {
			out = append(out, Mismatch{Token: tok, Production: name, Want: want})
		}
	}
	return out
}

func scripting(tok parser.Token) bool {
	n := len(tok.ModeStack)
	return n > 0 && tok.ModeStack[n-1] == parser.ModeScripting
}
