package parser

// Document bundles a parse tree with its source and line index.
type Document struct {
	Source []byte
	Root   *Phrase
	Lines  *LineIndex
	docs   map[*Phrase]*Token
}

func ParseDocument(src []byte, opts ...Option) *Document {
	p := newParser(src, NewLexer(src), opts)
	root := p.script()
	return &Document{
		Source: src,
		Root:   root,
		Lines:  NewLineIndex(src),
		docs:   p.docs,
	}
}

func (d *Document) Errors() []*ParseError {
	return Errors(d.Root)
}

func (d *Document) Position(offset int) Position {
	return d.Lines.Position(offset)
}

// Span returns the line/column range covered by n.
func (d *Document) Span(n Node) Span {
	start, end := NodeSpan(n)
	return Span{Start: d.Lines.Position(start), End: d.Lines.Position(end)}
}

func (d *Document) Text(n Node) string {
	return Text(d.Source, n)
}

// DocComment returns the doc comment bound to a declaration phrase. It is
// nil unless the document was parsed WithDocComments.
func (d *Document) DocComment(ph *Phrase) *Token {
	return d.docs[ph]
}
