package parser

// TokenSource produces tokens one at a time. After the end of input it must
// keep returning EndOfFile.
type TokenSource interface {
	Lex() Token
}

// SliceSource replays a pre-lexed token sequence.
type SliceSource struct {
	tokens []Token
	pos    int
	end    int
}

func NewSliceSource(tokens []Token) *SliceSource {
	end := 0
	if n := len(tokens); n > 0 {
		end = tokens[n-1].End()
	}
	return &SliceSource{tokens: tokens, end: end}
}

func (s *SliceSource) Lex() Token {
	if s.pos >= len(s.tokens) {
		return Token{Kind: TokenEndOfFile, Offset: s.end}
	}
	t := s.tokens[s.pos]
	s.pos++
	return t
}

// TokenIterator hides trivia from grammar decisions. Trivia is still handed
// to the caller through Trivia and Hidden so the tree stays lossless.
//
// Tokens are buffered lazily for lookahead and released once consumed; the
// iterator cannot rewind.
type TokenIterator struct {
	src        TokenSource
	buf        []Token
	eof        bool
	current    Token
	hidden     []Token
	docComment *Token
	consumed   int
}

func NewTokenIterator(src TokenSource) *TokenIterator {
	return &TokenIterator{src: src}
}

func (it *TokenIterator) pull() {
	t := it.src.Lex()
	it.buf = append(it.buf, t)
	if t.Kind == TokenEndOfFile {
		it.eof = true
	}
}

// Peek returns the significant token n positions ahead without consuming
// anything. Peek(0) is the token the next call to Next returns. Looking past
// the end yields EndOfFile.
func (it *TokenIterator) Peek(n int) Token {
	count := -1
	for i := 0; ; i++ {
		if i == len(it.buf) {
			it.pull()
		}
		t := it.buf[i]
		if t.Kind.IsTrivia() {
			continue
		}
		count++
		if count == n || t.Kind == TokenEndOfFile {
			return t
		}
	}
}

// Trivia consumes and returns the trivia tokens in front of the next
// significant token.
func (it *TokenIterator) Trivia() []Token {
	var out []Token
	for {
		if len(it.buf) == 0 {
			it.pull()
		}
		t := it.buf[0]
		if !t.Kind.IsTrivia() {
			return out
		}
		it.buf = it.buf[1:]
		it.consumed++
		if t.Kind == TokenDocumentComment {
			doc := t
			it.docComment = &doc
		}
		out = append(out, t)
	}
}

// Next consumes the next significant token along with the trivia in front
// of it, which is available from Hidden until the following call. At the
// end of input Next keeps returning EndOfFile.
func (it *TokenIterator) Next() Token {
	it.hidden = it.Trivia()
	t := it.buf[0]
	if t.Kind != TokenEndOfFile {
		it.buf = it.buf[1:]
		it.consumed++
	}
	if t.Kind == TokenCloseBrace {
		it.docComment = nil
	}
	it.current = t
	return t
}

// Hidden returns the trivia consumed by the last call to Next.
func (it *TokenIterator) Hidden() []Token {
	return it.hidden
}

// Current returns the last token returned by Next.
func (it *TokenIterator) Current() Token {
	return it.current
}

// LastDocComment returns the most recent doc comment and forgets it.
func (it *TokenIterator) LastDocComment() *Token {
	doc := it.docComment
	it.docComment = nil
	return doc
}

// ClosedByTag reports whether a close tag sits between the last consumed
// token and the next significant one. A close tag terminates a statement
// just like a semicolon.
func (it *TokenIterator) ClosedByTag() bool {
	it.Peek(0)
	for _, t := range it.buf {
		if !t.Kind.IsTrivia() {
			return false
		}
		if t.Kind == TokenCloseTag {
			return true
		}
	}
	return false
}

// Drain consumes everything left, trivia included, up to but excluding
// EndOfFile.
func (it *TokenIterator) Drain() []Token {
	var out []Token
	for {
		if len(it.buf) == 0 {
			it.pull()
		}
		t := it.buf[0]
		if t.Kind == TokenEndOfFile {
			return out
		}
		it.buf = it.buf[1:]
		it.consumed++
		out = append(out, t)
	}
}

// Consumed counts the tokens handed out so far, trivia included.
func (it *TokenIterator) Consumed() int {
	return it.consumed
}
