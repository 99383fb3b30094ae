// Package lexgrammar holds an EBNF description of the PHP lexemes whose
// shape does not depend on the lexer mode, and a matcher that applies it to
// input. It is used to cross-check the hand-written lexer in php/parser.
package lexgrammar

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"
)

//go:embed php.ebnf
var source []byte

// Start is the production every other production is reachable from.
const Start = "Lexeme"

// Load parses the embedded grammar.
func Load() (ebnf.Grammar, error) {
	return parse("php.ebnf", bytes.NewReader(source))
}

// LoadFile parses a grammar from disk, for experimenting with changes to
// the embedded one.
func LoadFile(filename string) (ebnf.Grammar, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()
	return parse(filename, f)
}

func parse(filename string, r io.Reader) (ebnf.Grammar, error) {
	g, err := ebnf.Parse(filename, r)
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	return g, nil
}

// Verify checks that every production is defined, reachable from Start and
// that lexical productions only refer to lexical productions.
func Verify(g ebnf.Grammar) error {
	if err := ebnf.Verify(g, Start); err != nil {
		return fmt.Errorf("verify grammar: %w", err)
	}
	return nil
}

// Source returns the text of the embedded grammar.
func Source() []byte {
	return source
}

type memoKey struct {
	name   string
	offset int
}

// Matcher matches productions of a grammar against input. Alternatives
// choose the longest match and repetitions are greedy. A Matcher is not safe
// for concurrent use.
type Matcher struct {
	grammar  ebnf.Grammar
	input    []byte
	memo     map[memoKey]int
	visiting map[memoKey]bool
}

func NewMatcher(g ebnf.Grammar) *Matcher {
	return &Matcher{grammar: g}
}

// Match returns the length of the longest prefix of input derived from the
// named production, or -1 if there is none.
func (m *Matcher) Match(production string, input []byte) (int, error) {
	if _, ok := m.grammar[production]; !ok {
		return -1, fmt.Errorf("no production %q", production)
	}
	m.input = input
	m.memo = make(map[memoKey]int)
	m.visiting = make(map[memoKey]bool)
	return m.matchName(production, 0), nil
}

// Classify reports which alternative of Start matches the longest prefix of
// input. Ties go to the alternative listed first.
func (m *Matcher) Classify(input []byte) (production string, length int) {
	start, ok := m.grammar[Start]
	if !ok {
		return "", -1
	}
	alts, ok := start.Expr.(ebnf.Alternative)
	if !ok {
		alts = ebnf.Alternative{start.Expr}
	}
	length = -1
	for _, alt := range alts {
		name, ok := alt.(*ebnf.Name)
		if !ok {
			continue
		}
		n, err := m.Match(name.String, input)
		if err != nil {
			continue
		}
		if n > length {
			production, length = name.String, n
		}
	}
	return production, length
}

// match returns the length matched by expr at offset, or -1. Options and
// repetitions can match the empty string.
func (m *Matcher) match(expr ebnf.Expression, offset int) int {
	switch e := expr.(type) {
	case nil:
		return 0
	case *ebnf.Token:
		if bytes.HasPrefix(m.input[offset:], []byte(e.String)) {
			return len(e.String)
		}
		return -1
	case *ebnf.Range:
		return m.matchRange(e, offset)
	case ebnf.Sequence:
		pos := offset
		for _, item := range e {
			n := m.match(item, pos)
			if n < 0 {
				return -1
			}
			pos += n
		}
		return pos - offset
	case ebnf.Alternative:
		best := -1
		for _, alt := range e {
			if n := m.match(alt, offset); n > best {
				best = n
			}
		}
		return best
	case *ebnf.Repetition:
		pos := offset
		for {
			n := m.match(e.Body, pos)
			if n <= 0 {
				break
			}
			pos += n
		}
		return pos - offset
	case *ebnf.Option:
		if n := m.match(e.Body, offset); n > 0 {
			return n
		}
		return 0
	case *ebnf.Group:
		return m.match(e.Body, offset)
	case *ebnf.Name:
		return m.matchName(e.String, offset)
	}
	return -1
}

func (m *Matcher) matchName(name string, offset int) int {
	key := memoKey{name: name, offset: offset}
	if n, ok := m.memo[key]; ok {
		return n
	}
	// Left recursion fails instead of looping.
	if m.visiting[key] {
		return -1
	}
	prod, ok := m.grammar[name]
	if !ok {
		return -1
	}
	m.visiting[key] = true
	n := m.match(prod.Expr, offset)
	delete(m.visiting, key)
	m.memo[key] = n
	return n
}

// matchRange matches one UTF-8 encoded character. Invalid encodings decode
// as utf8.RuneError and consume a single byte.
func (m *Matcher) matchRange(r *ebnf.Range, offset int) int {
	if offset >= len(m.input) {
		return -1
	}
	lo, _ := utf8.DecodeRuneInString(r.Begin.String)
	hi, _ := utf8.DecodeRuneInString(r.End.String)
	ch, size := utf8.DecodeRune(m.input[offset:])
	if ch < lo || ch > hi {
		return -1
	}
	return size
}
