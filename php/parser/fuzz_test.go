package parser

import (
	"strings"
	"testing"
)

func FuzzParse(f *testing.F) {
	for _, s := range parserCorpus {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, input string) {
		src := []byte(input)
		toks := Tokenize(src)
		if len(toks) > len(src)+1 {
			t.Fatalf("%d tokens for %d bytes", len(toks), len(src))
		}
		root := Parse(src)
		var b strings.Builder
		for _, tok := range Tokens(root) {
			b.WriteString(tok.Text(src))
		}
		if b.String() != input {
			t.Fatalf("tree text %q differs from input %q", b.String(), input)
		}
	})
}
