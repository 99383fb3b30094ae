package parser

// DefaultMaxDepth bounds statement and expression nesting.
const DefaultMaxDepth = 512

type Option func(*Parser)

// WithMaxDepth sets the nesting limit. Input nested deeper than n becomes a
// ParseError instead of growing the call stack.
func WithMaxDepth(n int) Option {
	return func(p *Parser) {
		p.maxDepth = n
	}
}

// WithDocComments records which doc comment precedes each declaration.
// Bindings are exposed through Document.DocComment.
func WithDocComments() Option {
	return func(p *Parser) {
		p.docComments = true
	}
}

// Parser holds the state of a single parse. It is not safe for concurrent
// use; create one per document.
type Parser struct {
	src      []byte
	tokens   *TokenIterator
	stack    []*Phrase
	follow   []tokenSet
	depth    int
	maxDepth int
	// recovering is set when an error is recorded and cleared once a token
	// is consumed normally. Errors are not reported while it is set.
	recovering bool
	// pending is the error recorded by the last report. Skipped tokens join
	// it as long as nothing has been consumed since.
	pending     *ParseError
	pendingAt   int
	// routed counts the trivia parked at the end of pending while its
	// unexpected token has not been dealt with.
	routed      int
	docComments bool
	docs        map[*Phrase]*Token
}

func newParser(src []byte, ts TokenSource, opts []Option) *Parser {
	p := &Parser{
		src:      src,
		tokens:   NewTokenIterator(ts),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.docComments {
		p.docs = make(map[*Phrase]*Token)
	}
	return p
}

// Parse parses a PHP document. It never fails: syntax errors are recorded as
// ParseError nodes inside the returned StatementList.
func Parse(src []byte, opts ...Option) *Phrase {
	return newParser(src, NewLexer(src), opts).script()
}

// ParseTokens parses an already lexed token stream of src.
func ParseTokens(src []byte, tokens []Token, opts ...Option) *Phrase {
	return newParser(src, NewSliceSource(tokens), opts).script()
}

func (p *Parser) script() *Phrase {
	root := p.statementList(setOf(TokenEndOfFile))
	for _, t := range p.tokens.Trivia() {
		tok := t
		root.append(&tok)
	}
	return root
}

// Tree building

func (p *Parser) top() *Phrase {
	return p.stack[len(p.stack)-1]
}

func (p *Parser) append(n Node) {
	switch n := n.(type) {
	case nil:
		return
	case *Token:
		if n == nil {
			return
		}
	case *Phrase:
		if n == nil {
			return
		}
	}
	p.top().append(n)
}

// start opens a phrase. Trivia in front of its first token is handed to the
// enclosing phrase.
func (p *Parser) start(kind PhraseKind) *Phrase {
	if len(p.stack) > 0 {
		// Trivia in front of a token still pending as unexpected is parked
		// in its error, so the token can still be skipped into it.
		dst := p.top()
		e := p.openPending()
		if e != nil {
			dst = &e.Phrase
		}
		trivia := p.tokens.Trivia()
		for _, t := range trivia {
			tok := t
			dst.append(&tok)
		}
		if e != nil {
			p.routed += len(trivia)
			p.pendingAt = p.tokens.Consumed()
		}
	}
	ph := &Phrase{Kind: kind}
	p.stack = append(p.stack, ph)
	return ph
}

// startWith opens a phrase whose first child was already parsed, as for the
// left operand of a binary expression.
func (p *Parser) startWith(kind PhraseKind, first Node) *Phrase {
	ph := &Phrase{Kind: kind}
	ph.append(first)
	p.stack = append(p.stack, ph)
	return ph
}

func (p *Parser) end() *Phrase {
	ph := p.top()
	p.stack = p.stack[:len(p.stack)-1]
	return ph
}

// Token access

func (p *Parser) peek() Token {
	return p.tokens.Peek(0)
}

func (p *Parser) peekAt(n int) Token {
	return p.tokens.Peek(n)
}

func (p *Parser) at(kind TokenKind) bool {
	return p.tokens.Peek(0).Kind == kind
}

// next consumes the next significant token. Trivia in front of it goes to
// the open phrase; the token itself is returned for the caller to place.
func (p *Parser) next() *Token {
	t := p.tokens.Next()
	if t.Kind != TokenEndOfFile {
		p.unpark()
	}
	for _, h := range p.tokens.Hidden() {
		tok := h
		p.top().append(&tok)
	}
	if t.Kind != TokenEndOfFile {
		p.recovering = false
		p.pending = nil
	}
	return &t
}

// unpark moves trivia parked in the pending error to the open phrase once
// the token behind it is consumed normally.
func (p *Parser) unpark() {
	if p.pending == nil || p.routed == 0 {
		return
	}
	e := p.pending
	n := len(e.Children) - p.routed
	parked := e.Children[n:]
	e.Children = e.Children[:n:n]
	p.routed = 0
	for _, c := range parked {
		p.top().append(c)
	}
}

// take consumes the next token into the open phrase.
func (p *Parser) take() *Token {
	t := p.next()
	if t.Kind != TokenEndOfFile {
		p.top().append(t)
	}
	return t
}

func (p *Parser) optional(kind TokenKind) *Token {
	if p.at(kind) {
		return p.take()
	}
	return nil
}

// expect consumes a token of the given kind into the open phrase. When the
// next token is something else it records an error and tries two local
// repairs before giving up without consuming: dropping a single spurious
// token, or accepting a single token in place of the expected one.
func (p *Parser) expect(kind TokenKind) *Token {
	t := p.peek()
	if t.Kind == kind {
		return p.take()
	}
	if t.Kind == TokenEndOfFile {
		p.error(kind)
		return nil
	}
	p.error(kind)
	if p.inFollow(t.Kind) {
		return nil
	}
	next := p.peekAt(1).Kind
	if next == kind {
		p.skipOne()
		return p.take()
	}
	if len(p.follow) > 0 && p.follow[len(p.follow)-1].has(next) {
		p.skipOne()
	}
	return nil
}

// expectBefore is expect for a closing token followed by one of after.
// Besides dropping a spurious token it accepts a single wrong token in place
// of kind when the token behind it belongs to after.
func (p *Parser) expectBefore(kind TokenKind, after tokenSet) *Token {
	t := p.peek()
	if t.Kind == kind {
		return p.take()
	}
	p.error(kind)
	if t.Kind == TokenEndOfFile || p.inFollow(t.Kind) {
		return nil
	}
	next := p.peekAt(1).Kind
	if next == kind {
		p.skipOne()
		return p.take()
	}
	if !after.has(t.Kind) && after.has(next) {
		p.skipOne()
	}
	return nil
}

// expectOneOf is expect for a choice of kinds. It only records an error.
func (p *Parser) expectOneOf(kinds ...TokenKind) *Token {
	t := p.peek()
	for _, k := range kinds {
		if t.Kind == k {
			return p.take()
		}
	}
	p.error(kinds[0])
	return nil
}

// Error recovery

// error records a ParseError on the open phrase unless one is already
// pending for the same position.
func (p *Parser) error(expected TokenKind) {
	if p.recovering {
		return
	}
	p.recovering = true
	e := &ParseError{
		Phrase:     Phrase{Kind: PhraseError},
		Unexpected: p.peek(),
		Expected:   expected,
	}
	p.top().append(e)
	p.setPending(e)
}

func (p *Parser) setPending(e *ParseError) {
	p.pending = e
	p.pendingAt = p.tokens.Consumed()
	p.routed = 0
}

// openPending returns the pending error if nothing was consumed after it.
func (p *Parser) openPending() *ParseError {
	if p.recovering && p.pending != nil && p.pendingAt == p.tokens.Consumed() {
		return p.pending
	}
	return nil
}

// sink returns the ParseError skipped tokens are attached to: the error
// still pending for the unexpected token, the open phrase's last child if it
// is an error, otherwise a new one.
func (p *Parser) sink() *ParseError {
	if e := p.openPending(); e != nil {
		return e
	}
	ph := p.top()
	if n := len(ph.Children); n > 0 {
		if e, ok := ph.Children[n-1].(*ParseError); ok {
			return e
		}
	}
	e := &ParseError{Phrase: Phrase{Kind: PhraseError}, Unexpected: p.peek()}
	ph.append(e)
	p.recovering = true
	p.setPending(e)
	return e
}

func (p *Parser) skipInto(e *ParseError) {
	t := p.tokens.Next()
	for _, h := range p.tokens.Hidden() {
		tok := h
		e.append(&tok)
	}
	if t.Kind != TokenEndOfFile {
		e.append(&t)
	}
	if e == p.pending {
		p.pendingAt = p.tokens.Consumed()
		p.routed = 0
	}
}

func (p *Parser) skipOne() {
	if p.at(TokenEndOfFile) {
		return
	}
	p.skipInto(p.sink())
}

// skipUntil discards tokens into a ParseError until stop accepts one, a
// token belongs to an active follow set, or the input ends. It reports
// whether anything was skipped.
func (p *Parser) skipUntil(stop func(Token) bool) bool {
	skipped := false
	var e *ParseError
	for {
		t := p.peek()
		if t.Kind == TokenEndOfFile || stop(t) || p.inFollow(t.Kind) {
			return skipped
		}
		if e == nil {
			e = p.sink()
		}
		p.skipInto(e)
		skipped = true
	}
}

func (p *Parser) pushFollow(s tokenSet) {
	p.follow = append(p.follow, s)
}

func (p *Parser) popFollow() {
	p.follow = p.follow[:len(p.follow)-1]
}

// inFollow reports whether kind belongs to any active follow set.
func (p *Parser) inFollow(kind TokenKind) bool {
	for i := len(p.follow) - 1; i >= 0; i-- {
		if p.follow[i].has(kind) {
			return true
		}
	}
	return false
}

// mustProgress returns a function that checks if the parser has advanced.
// Call it at the start of a loop iteration, then call the returned function
// at the end; if nothing was consumed it skips one token and returns false.
func (p *Parser) mustProgress() func() bool {
	saved := p.peek()
	return func() bool {
		t := p.peek()
		if t.Offset == saved.Offset && t.Kind == saved.Kind {
			if t.Kind != TokenEndOfFile {
				p.error(TokenNone)
				p.skipOne()
			}
			return false
		}
		return true
	}
}

// enter guards recursion depth. When it returns false the caller must
// return the node from deepError instead of descending; otherwise it must
// call leave when done.
func (p *Parser) enter() bool {
	if p.depth >= p.maxDepth {
		return false
	}
	p.depth++
	return true
}

func (p *Parser) leave() {
	p.depth--
}

// deepError replaces a production nested too deeply. It swallows tokens up
// to the next synchronisation point.
func (p *Parser) deepError() Node {
	e := &ParseError{Phrase: Phrase{Kind: PhraseError}, Unexpected: p.peek()}
	p.recovering = true
	p.setPending(e)
	for {
		t := p.peek()
		if t.Kind == TokenEndOfFile || p.inFollow(t.Kind) {
			return e
		}
		p.skipInto(e)
	}
}

// list parses a sequence of elements into a phrase of the given kind.
// Elements are recognised by isStart and parsed by parse. If delim is not
// TokenNone elements are separated by it and the list ends at the first
// element not followed by one. The list also ends on a breakOn token. Tokens
// that cannot start an element are skipped until the list can resume.
func (p *Parser) list(kind PhraseKind, isStart func(Token) bool, parse func() Node, delim TokenKind, breakOn tokenSet) *Phrase {
	p.start(kind)
	follow := breakOn
	if delim != TokenNone {
		follow = follow.with(delim)
	}
	p.pushFollow(follow)
	defer p.popFollow()

	for {
		t := p.peek()
		if t.Kind == TokenEndOfFile || breakOn.has(t.Kind) {
			break
		}
		progress := p.mustProgress()
		if isStart(t) {
			p.append(parse())
			if !progress() {
				continue
			}
			if delim == TokenNone {
				continue
			}
			if !p.at(delim) {
				break
			}
			p.take()
			continue
		}
		if delim != TokenNone && t.Kind == delim {
			// Empty element.
			p.error(TokenNone)
			p.take()
			continue
		}
		p.error(TokenNone)
		if !p.skipUntil(func(t Token) bool {
			return isStart(t) || t.Kind == delim
		}) {
			break
		}
	}
	return p.end()
}

// tokenSet is a bit set of token kinds.
type tokenSet [4]uint64

func setOf(kinds ...TokenKind) tokenSet {
	var s tokenSet
	for _, k := range kinds {
		s[k/64] |= 1 << (k % 64)
	}
	return s
}

func (s tokenSet) has(k TokenKind) bool {
	return s[k/64]&(1<<(k%64)) != 0
}

func (s tokenSet) with(kinds ...TokenKind) tokenSet {
	for _, k := range kinds {
		s[k/64] |= 1 << (k % 64)
	}
	return s
}

func (s tokenSet) union(o tokenSet) tokenSet {
	for i := range s {
		s[i] |= o[i]
	}
	return s
}

func (p *Parser) bindDoc(ph *Phrase) {
	if !p.docComments {
		return
	}
	if doc := p.tokens.LastDocComment(); doc != nil {
		p.docs[ph] = doc
	}
}
