package parser

// Lexer produces one token per call to Lex from raw PHP source. Which rule
// table is consulted depends on the mode on top of an explicit mode stack.
type Lexer struct {
	input []byte
	pos   int
	// modes is treated as immutable once handed out in a token snapshot:
	// push always copies, pop only reslices.
	modes        []LexerMode
	heredocLabel string
}

// LexerState is everything needed to resume lexing mid-document.
type LexerState struct {
	Offset    int
	ModeStack []LexerMode
	// HeredocLabel is the closing label of the heredoc or nowdoc being
	// scanned. It is only meaningful while a heredoc mode is on the stack.
	HeredocLabel string
}

func NewLexer(input []byte) *Lexer {
	return &Lexer{
		input: input,
		modes: []LexerMode{ModeInitial},
	}
}

// ResumeLexer returns a lexer positioned at st.Offset with the given mode
// stack. An empty mode stack resumes in ModeInitial. Inside a heredoc
// without a HeredocLabel, as when resuming from a token's own offset and
// mode stack, the label is read back from the enclosing heredoc header.
func ResumeLexer(input []byte, st LexerState) *Lexer {
	l := &Lexer{
		input:        input,
		pos:          st.Offset,
		heredocLabel: st.HeredocLabel,
	}
	if len(st.ModeStack) == 0 {
		l.modes = []LexerMode{ModeInitial}
	} else {
		l.modes = append([]LexerMode(nil), st.ModeStack...)
	}
	if l.pos > len(input) {
		l.pos = len(input)
	}
	if l.heredocLabel == "" && inHeredoc(l.modes) {
		l.heredocLabel = l.openHeredocLabel()
	}
	return l
}

func inHeredoc(modes []LexerMode) bool {
	for _, m := range modes {
		switch m {
		case ModeHereDoc, ModeNowDoc, ModeEndHereDoc:
			return true
		}
	}
	return false
}

// openHeredocLabel finds the nearest heredoc header before the current
// position whose closing label has not appeared since.
func (l *Lexer) openHeredocLabel() string {
	for i := l.pos - 3; i >= 0; i-- {
		if l.input[i] != '<' || l.input[i+1] != '<' || l.input[i+2] != '<' {
			continue
		}
		start := i
		if i > 0 && (l.input[i-1] == 'b' || l.input[i-1] == 'B') {
			start = i - 1
		}
		n, label, _ := l.heredocHeader(start)
		if n == 0 || start+n > l.pos {
			continue
		}
		if !l.closedWithin(label, start+n, l.pos) {
			return label
		}
	}
	return ""
}

// closedWithin reports whether label closes a heredoc anywhere in
// [from, to).
func (l *Lexer) closedWithin(label string, from, to int) bool {
	saved := l.heredocLabel
	l.heredocLabel = label
	defer func() { l.heredocLabel = saved }()
	for i := from; i < to; i++ {
		if l.closingLabelAt(i) {
			return true
		}
	}
	return false
}

func (l *Lexer) State() LexerState {
	return LexerState{
		Offset:       l.pos,
		ModeStack:    l.modes,
		HeredocLabel: l.heredocLabel,
	}
}

// Lex returns the next token. At the end of input it returns a zero-length
// EndOfFile token, and keeps returning it on subsequent calls.
func (l *Lexer) Lex() Token {
	for {
		if l.pos >= len(l.input) {
			return Token{Kind: TokenEndOfFile, Offset: len(l.input), ModeStack: l.modes}
		}

		start := l.pos
		modes := l.modes
		kind := TokenNone
		for _, r := range ruleTables[l.top()] {
			n := r.match(l)
			if n < 0 {
				continue
			}
			kind = r.apply(l, n)
			break
		}

		if kind == TokenNone {
			// Suppressed: the rule only changed the mode stack.
			if l.pos != start {
				panic("parser: suppressed lexer rule consumed input")
			}
			continue
		}
		if l.pos <= start {
			panic("parser: lexer rule made no progress in mode " + l.top().String())
		}
		return Token{Kind: kind, Offset: start, Length: l.pos - start, ModeStack: modes}
	}
}

// Tokenize lexes the whole input, trivia included. The last token is always
// EndOfFile.
func Tokenize(input []byte) []Token {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok := l.Lex()
		tokens = append(tokens, tok)
		if tok.Kind == TokenEndOfFile {
			return tokens
		}
	}
}

func (l *Lexer) top() LexerMode {
	return l.modes[len(l.modes)-1]
}

func (l *Lexer) push(m LexerMode) {
	modes := make([]LexerMode, len(l.modes), len(l.modes)+1)
	copy(modes, l.modes)
	l.modes = append(modes, m)
}

// pop never empties the stack; popping the last mode falls back to
// scripting.
func (l *Lexer) pop() {
	if len(l.modes) == 1 {
		l.modes = []LexerMode{ModeScripting}
		return
	}
	l.modes = l.modes[:len(l.modes)-1]
}

func (l *Lexer) replaceTop(m LexerMode) {
	modes := make([]LexerMode, len(l.modes))
	copy(modes, l.modes)
	modes[len(modes)-1] = m
	l.modes = modes
}

func (l *Lexer) peekAt(i int) byte {
	if i < 0 || i >= len(l.input) {
		return 0
	}
	return l.input[i]
}

func (l *Lexer) peek() byte {
	return l.peekAt(l.pos)
}

func (l *Lexer) peekN(n int) byte {
	return l.peekAt(l.pos + n)
}

func (l *Lexer) hasPrefix(s string) bool {
	if l.pos+len(s) > len(l.input) {
		return false
	}
	return string(l.input[l.pos:l.pos+len(s)]) == s
}

// hasPrefixFold is hasPrefix with ASCII case folding; s must be lower case.
func (l *Lexer) hasPrefixFold(s string) bool {
	if l.pos+len(s) > len(l.input) {
		return false
	}
	for i := 0; i < len(s); i++ {
		if toLower(l.input[l.pos+i]) != s[i] {
			return false
		}
	}
	return true
}

func (l *Lexer) labelLength(at int) int {
	if !isLabelStart(l.peekAt(at)) {
		return 0
	}
	i := at + 1
	for i < len(l.input) && isLabelChar(l.input[i]) {
		i++
	}
	return i - at
}

func (l *Lexer) isLineStart(i int) bool {
	if i == 0 {
		return true
	}
	ch := l.peekAt(i - 1)
	return ch == '\n' || ch == '\r'
}

// closingLabelAt reports whether the heredoc closing label starts at i. The
// label must open a line and be followed by an optional semicolon and then a
// line terminator or the end of input.
func (l *Lexer) closingLabelAt(i int) bool {
	label := l.heredocLabel
	if label == "" || !l.isLineStart(i) || i+len(label) > len(l.input) {
		return false
	}
	if string(l.input[i:i+len(label)]) != label {
		return false
	}
	j := i + len(label)
	if l.peekAt(j) == ';' {
		j++
	}
	if j >= len(l.input) {
		return true
	}
	ch := l.input[j]
	return ch == '\n' || ch == '\r'
}

// interpolationAt reports whether an interpolation trigger ($label, ${ or
// {$) starts at i.
func (l *Lexer) interpolationAt(i int) bool {
	switch l.peekAt(i) {
	case '$':
		next := l.peekAt(i + 1)
		return isLabelStart(next) || next == '{'
	case '{':
		return l.peekAt(i+1) == '$'
	}
	return false
}

func isLabelStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' || ch >= 0x80
}

func isLabelChar(ch byte) bool {
	return isLabelStart(ch) || isDigit(ch)
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func toLower(ch byte) byte {
	if ch >= 'A' && ch <= 'Z' {
		return ch + ('a' - 'A')
	}
	return ch
}
