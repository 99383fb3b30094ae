package parser

import "strings"

// A Visitor's Visit method is invoked for each node encountered by Walk. If
// the result visitor w is not nil, Walk visits each of the children of node
// with w, followed by a call of w.Visit(nil).
type Visitor interface {
	Visit(n Node) (w Visitor)
}

func children(n Node) []Node {
	switch n := n.(type) {
	case *Phrase:
		return n.Children
	case *ParseError:
		return n.Children
	}
	return nil
}

// Walk traverses the tree rooted at n in depth-first order.
func Walk(v Visitor, n Node) {
	if v = v.Visit(n); v == nil {
		return
	}
	for _, c := range children(n) {
		Walk(v, c)
	}
	v.Visit(nil)
}

type inspector func(Node) bool

func (f inspector) Visit(n Node) Visitor {
	if f(n) {
		return f
	}
	return nil
}

// Inspect calls f for every node in depth-first order, descending into a
// node's children only if f returns true. After the children it calls
// f(nil).
func Inspect(n Node, f func(Node) bool) {
	Walk(inspector(f), n)
}

// Errors returns every ParseError in the tree in source order.
func Errors(root Node) []*ParseError {
	var errs []*ParseError
	Inspect(root, func(n Node) bool {
		if e, ok := n.(*ParseError); ok {
			errs = append(errs, e)
		}
		return n != nil
	})
	return errs
}

// Tokens returns every token in the tree, trivia and skipped tokens
// included, in source order.
func Tokens(root Node) []*Token {
	var toks []*Token
	Inspect(root, func(n Node) bool {
		if t, ok := n.(*Token); ok {
			toks = append(toks, t)
		}
		return n != nil
	})
	return toks
}

func FirstToken(n Node) *Token {
	switch n := n.(type) {
	case *Token:
		return n
	case *Phrase, *ParseError:
		for _, c := range children(n) {
			if t := FirstToken(c); t != nil {
				return t
			}
		}
	}
	return nil
}

func LastToken(n Node) *Token {
	switch n := n.(type) {
	case *Token:
		return n
	case *Phrase, *ParseError:
		cs := children(n)
		for i := len(cs) - 1; i >= 0; i-- {
			if t := LastToken(cs[i]); t != nil {
				return t
			}
		}
	}
	return nil
}

// NodeSpan returns the byte range [start, end) covered by n. A ParseError
// without skipped tokens covers the empty range at its unexpected token.
func NodeSpan(n Node) (start, end int) {
	first, last := FirstToken(n), LastToken(n)
	if first == nil {
		if e, ok := n.(*ParseError); ok {
			return e.Unexpected.Offset, e.Unexpected.Offset
		}
		return 0, 0
	}
	return first.Offset, last.End()
}

// Text returns the source text covered by n.
func Text(src []byte, n Node) string {
	start, end := NodeSpan(n)
	if end > len(src) {
		end = len(src)
	}
	if start > end {
		return ""
	}
	return string(src[start:end])
}

// Dump renders the tree as indented text, one node per line. Tokens are
// shown with their quoted source text.
func Dump(src []byte, n Node) string {
	var b strings.Builder
	dump(&b, src, n, 0)
	return b.String()
}

func dump(b *strings.Builder, src []byte, n Node, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	switch n := n.(type) {
	case *Token:
		b.WriteString(n.Kind.String())
		b.WriteString(" ")
		b.WriteString(quote(n.Text(src)))
		b.WriteString("\n")
	case *ParseError:
		b.WriteString("Error: ")
		b.WriteString(n.Message())
		b.WriteString("\n")
		for _, c := range n.Children {
			dump(b, src, c, depth+1)
		}
	case *Phrase:
		b.WriteString(n.Kind.String())
		b.WriteString("\n")
		for _, c := range n.Children {
			dump(b, src, c, depth+1)
		}
	}
}

func quote(s string) string {
	r := strings.NewReplacer("\\", `\\`, "\n", `\n`, "\r", `\r`, "\t", `\t`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}
