package parser

// Node is either a *Token, a *Phrase or a *ParseError. The set is closed;
// consumers switch on the concrete type.
type Node interface {
	isNode()
}

type Phrase struct {
	Kind     PhraseKind
	Children []Node
}

func (p *Phrase) isNode() {}

func (p *Phrase) append(n Node) {
	if n != nil {
		p.Children = append(p.Children, n)
	}
}

// ChildPhrase returns the first direct child phrase of the given kind.
func (p *Phrase) ChildPhrase(kind PhraseKind) *Phrase {
	for _, c := range p.Children {
		if ph, ok := c.(*Phrase); ok && ph.Kind == kind {
			return ph
		}
	}
	return nil
}

func (p *Phrase) ChildPhrases(kind PhraseKind) []*Phrase {
	var result []*Phrase
	for _, c := range p.Children {
		if ph, ok := c.(*Phrase); ok && ph.Kind == kind {
			result = append(result, ph)
		}
	}
	return result
}

// ChildToken returns the first direct child token of the given kind.
func (p *Phrase) ChildToken(kind TokenKind) *Token {
	for _, c := range p.Children {
		if t, ok := c.(*Token); ok && t.Kind == kind {
			return t
		}
	}
	return nil
}

// ParseError is a phrase of kind PhraseError recording a syntax error. Its
// children are the tokens that were skipped while recovering.
type ParseError struct {
	Phrase
	Unexpected Token
	// Expected is TokenNone when no single kind was expected.
	Expected TokenKind
}

func (e *ParseError) isNode() {}

func (e *ParseError) Message() string {
	if e.Expected == TokenNone {
		return "unexpected " + e.Unexpected.Kind.String()
	}
	return "unexpected " + e.Unexpected.Kind.String() + ", expected " + e.Expected.String()
}
