package parser

// A rule pairs a pattern with an action. Rules of a mode are tried in order
// and the first one whose pattern matches wins; there is no longest-match
// arbitration, so keywords must be listed before the generic name rule.
type rule struct {
	// match returns the length of the lexeme matched at the current
	// position, or -1. A zero length is allowed for rules whose action scans
	// the rest of the lexeme itself.
	match func(l *Lexer) int
	// apply consumes the lexeme and returns its kind. Returning TokenNone
	// suppresses emission; such actions must only change the mode stack.
	apply func(l *Lexer, n int) TokenKind
}

var ruleTables = [...][]rule{
	ModeInitial:            initialRules,
	ModeScripting:          scriptingRules,
	ModeLookingForProperty: lookingForPropertyRules,
	ModeDoubleQuotes:       doubleQuotesRules,
	ModeNowDoc:             nowDocRules,
	ModeHereDoc:            hereDocRules,
	ModeEndHereDoc:         endHereDocRules,
	ModeBacktick:           backtickRules,
	ModeVarOffset:          varOffsetRules,
	ModeLookingForVarName:  lookingForVarNameRules,
}

var initialRules = []rule{
	{matchOpenTag, switchTo(ModeScripting, TokenOpenTag)},
	{matchLiteral("<?="), switchTo(ModeScripting, TokenOpenTagEcho)},
	{matchLiteral("<?"), switchTo(ModeScripting, TokenOpenTag)},
	{matchAlways, lexInlineText},
}

var scriptingRules = concatRules(
	[]rule{
		{matchWhitespace, emit(TokenWhitespace)},
		{matchPrefixed("'"), lexSingleQuoted},
		{matchPrefixed(`"`), lexDoubleQuoted},
		{matchLiteral("`"), pushMode(ModeBacktick, TokenBacktick)},
		{matchHeredocStart, lexHeredocStart},
		{matchYieldFrom, emit(TokenYieldFrom)},
	},
	keywordRules,
	[]rule{
		{matchCast, lexCast},
		{matchLiteral("#"), lexLineComment},
		{matchLiteral("//"), lexLineComment},
		{matchDocComment, lexBlockComment(TokenDocumentComment)},
		{matchLiteral("/*"), lexBlockComment(TokenComment)},
		{matchCloseTag, switchTo(ModeInitial, TokenCloseTag)},
		{matchHex, emit(TokenIntegerLiteral)},
		{matchBinary, emit(TokenIntegerLiteral)},
		{matchFloat, emit(TokenFloatingLiteral)},
		{matchDigits, emit(TokenIntegerLiteral)},
		{matchVariable, emit(TokenVariableName)},
		{matchLabel, emit(TokenName)},

		{matchLiteral("<=>"), emit(TokenSpaceship)},
		{matchLiteral("**="), emit(TokenAsteriskAsteriskEquals)},
		{matchLiteral("..."), emit(TokenEllipsis)},
		{matchLiteral("<<="), emit(TokenLessThanLessThanEquals)},
		{matchLiteral(">>="), emit(TokenGreaterThanGreaterThanEquals)},
		{matchLiteral("==="), emit(TokenEqualsEqualsEquals)},
		{matchLiteral("!=="), emit(TokenExclamationEqualsEquals)},
		{matchLiteral("??="), emit(TokenQuestionQuestionEquals)},

		{matchLiteral("->"), pushMode(ModeLookingForProperty, TokenArrow)},
		{matchLiteral("=>"), emit(TokenFatArrow)},
		{matchLiteral("::"), emit(TokenColonColon)},
		{matchLiteral("++"), emit(TokenPlusPlus)},
		{matchLiteral("--"), emit(TokenMinusMinus)},
		{matchLiteral("=="), emit(TokenEqualsEquals)},
		{matchLiteral("!="), emit(TokenExclamationEquals)},
		{matchLiteral("<>"), emit(TokenExclamationEquals)},
		{matchLiteral("<="), emit(TokenLessThanEquals)},
		{matchLiteral(">="), emit(TokenGreaterThanEquals)},
		{matchLiteral("+="), emit(TokenPlusEquals)},
		{matchLiteral("-="), emit(TokenMinusEquals)},
		{matchLiteral("*="), emit(TokenAsteriskEquals)},
		{matchLiteral("**"), emit(TokenAsteriskAsterisk)},
		{matchLiteral("/="), emit(TokenForwardSlashEquals)},
		{matchLiteral(".="), emit(TokenDotEquals)},
		{matchLiteral("%="), emit(TokenPercentEquals)},
		{matchLiteral("&="), emit(TokenAmpersandEquals)},
		{matchLiteral("|="), emit(TokenBarEquals)},
		{matchLiteral("^="), emit(TokenCaretEquals)},
		{matchLiteral("??"), emit(TokenQuestionQuestion)},
		{matchLiteral("||"), emit(TokenBarBar)},
		{matchLiteral("&&"), emit(TokenAmpersandAmpersand)},
		{matchLiteral("<<"), emit(TokenLessThanLessThan)},
		{matchLiteral(">>"), emit(TokenGreaterThanGreaterThan)},

		{matchLiteral("{"), pushMode(ModeScripting, TokenOpenBrace)},
		{matchLiteral("}"), popMode(TokenCloseBrace)},
		{matchLiteral("["), emit(TokenOpenBracket)},
		{matchLiteral("]"), emit(TokenCloseBracket)},
		{matchLiteral("("), emit(TokenOpenParenthesis)},
		{matchLiteral(")"), emit(TokenCloseParenthesis)},
		{matchLiteral(";"), emit(TokenSemicolon)},
		{matchLiteral(","), emit(TokenComma)},
		{matchLiteral("="), emit(TokenEquals)},
		{matchLiteral("~"), emit(TokenTilde)},
		{matchLiteral(":"), emit(TokenColon)},
		{matchLiteral("!"), emit(TokenExclamation)},
		{matchLiteral("$"), emit(TokenDollar)},
		{matchLiteral("/"), emit(TokenForwardSlash)},
		{matchLiteral("%"), emit(TokenPercent)},
		{matchLiteral("@"), emit(TokenAtSymbol)},
		{matchLiteral("?"), emit(TokenQuestion)},
		{matchLiteral("<"), emit(TokenLessThan)},
		{matchLiteral(">"), emit(TokenGreaterThan)},
		{matchLiteral("*"), emit(TokenAsterisk)},
		{matchLiteral("&"), emit(TokenAmpersand)},
		{matchLiteral("|"), emit(TokenBar)},
		{matchLiteral("^"), emit(TokenCaret)},
		{matchLiteral("+"), emit(TokenPlus)},
		{matchLiteral("-"), emit(TokenMinus)},
		{matchLiteral("."), emit(TokenDot)},
		{matchLiteral(`\`), emit(TokenBackslash)},
		{matchAnyByte, emit(TokenUnknown)},
	},
)

// keywordRules are matched case-insensitively and must end on a word
// boundary, so "classes" is a name and not "class" followed by "es".
var keywordRules = []rule{
	keyword("abstract", TokenAbstract),
	keyword("and", TokenAnd),
	keyword("array", TokenArray),
	keyword("as", TokenAs),
	keyword("break", TokenBreak),
	keyword("callable", TokenCallable),
	keyword("case", TokenCase),
	keyword("catch", TokenCatch),
	keyword("class", TokenClass),
	keyword("clone", TokenClone),
	keyword("const", TokenConst),
	keyword("continue", TokenContinue),
	keyword("declare", TokenDeclare),
	keyword("default", TokenDefault),
	keyword("die", TokenExit),
	keyword("do", TokenDo),
	keyword("echo", TokenEcho),
	keyword("else", TokenElse),
	keyword("elseif", TokenElseIf),
	keyword("empty", TokenEmpty),
	keyword("enddeclare", TokenEndDeclare),
	keyword("endfor", TokenEndFor),
	keyword("endforeach", TokenEndForeach),
	keyword("endif", TokenEndIf),
	keyword("endswitch", TokenEndSwitch),
	keyword("endwhile", TokenEndWhile),
	keyword("eval", TokenEval),
	keyword("exit", TokenExit),
	keyword("extends", TokenExtends),
	keyword("final", TokenFinal),
	keyword("finally", TokenFinally),
	keyword("for", TokenFor),
	keyword("foreach", TokenForeach),
	keyword("function", TokenFunction),
	keyword("global", TokenGlobal),
	keyword("goto", TokenGoto),
	keyword("if", TokenIf),
	keyword("implements", TokenImplements),
	keyword("include", TokenInclude),
	keyword("include_once", TokenIncludeOnce),
	keyword("instanceof", TokenInstanceOf),
	keyword("insteadof", TokenInsteadOf),
	keyword("interface", TokenInterface),
	keyword("isset", TokenIsset),
	keyword("list", TokenList),
	keyword("namespace", TokenNamespace),
	keyword("new", TokenNew),
	keyword("or", TokenOr),
	keyword("print", TokenPrint),
	keyword("private", TokenPrivate),
	keyword("protected", TokenProtected),
	keyword("public", TokenPublic),
	keyword("require", TokenRequire),
	keyword("require_once", TokenRequireOnce),
	keyword("return", TokenReturn),
	keyword("static", TokenStatic),
	keyword("switch", TokenSwitch),
	keyword("throw", TokenThrow),
	keyword("trait", TokenTrait),
	keyword("try", TokenTry),
	keyword("unset", TokenUnset),
	keyword("use", TokenUse),
	keyword("var", TokenVar),
	keyword("while", TokenWhile),
	keyword("xor", TokenXor),
	keyword("yield", TokenYield),
	keyword("__halt_compiler", TokenHaltCompiler),
	keyword("__class__", TokenClassConstant),
	keyword("__dir__", TokenDirectoryConstant),
	keyword("__file__", TokenFileConstant),
	keyword("__function__", TokenFunctionConstant),
	keyword("__line__", TokenLineConstant),
	keyword("__method__", TokenMethodConstant),
	keyword("__namespace__", TokenNamespaceConstant),
	keyword("__trait__", TokenTraitConstant),
}

var lookingForPropertyRules = []rule{
	{matchWhitespace, emit(TokenWhitespace)},
	{matchLiteral("->"), emit(TokenArrow)},
	{matchLabel, popMode(TokenName)},
	{matchAlways, suppress(func(l *Lexer) { l.pop() })},
}

// Interpolation triggers shared by the double quote, heredoc and backtick
// modes.
var interpolationRules = []rule{
	{matchVariable, lexEncapsedVariable},
	{matchLiteral("${"), pushMode(ModeLookingForVarName, TokenDollarCurlyOpen)},
	{matchCurlyOpen, pushMode(ModeScripting, TokenCurlyOpen)},
}

var doubleQuotesRules = concatRules(
	[]rule{{matchLiteral(`"`), popMode(TokenDoubleQuote)}},
	interpolationRules,
	[]rule{{matchAlways, lexEncapsed('"')}},
)

var backtickRules = concatRules(
	[]rule{{matchLiteral("`"), popMode(TokenBacktick)}},
	interpolationRules,
	[]rule{{matchAlways, lexEncapsed('`')}},
)

var hereDocRules = concatRules(
	interpolationRules,
	[]rule{{matchAlways, lexHeredocText(true)}},
)

var nowDocRules = []rule{
	{matchAlways, lexHeredocText(false)},
}

var endHereDocRules = []rule{
	{matchClosingLabel, lexHeredocEnd},
	{matchAlways, suppress(func(l *Lexer) { l.pop() })},
}

var varOffsetRules = []rule{
	{matchLiteral("]"), popMode(TokenCloseBracket)},
	{matchLiteral("["), emit(TokenOpenBracket)},
	{matchLiteral("-"), emit(TokenMinus)},
	{matchDigits, emit(TokenIntegerLiteral)},
	{matchVariable, emit(TokenVariableName)},
	{matchLabel, emit(TokenName)},
	{matchAlways, suppress(func(l *Lexer) { l.pop() })},
}

var lookingForVarNameRules = []rule{
	{matchVarNameInCurly, func(l *Lexer, n int) TokenKind {
		l.pos += n
		l.replaceTop(ModeScripting)
		return TokenVariableName
	}},
	{matchAlways, suppress(func(l *Lexer) { l.replaceTop(ModeScripting) })},
}

func concatRules(groups ...[]rule) []rule {
	var out []rule
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// Actions

func emit(kind TokenKind) func(*Lexer, int) TokenKind {
	return func(l *Lexer, n int) TokenKind {
		l.pos += n
		return kind
	}
}

func pushMode(m LexerMode, kind TokenKind) func(*Lexer, int) TokenKind {
	return func(l *Lexer, n int) TokenKind {
		l.pos += n
		l.push(m)
		return kind
	}
}

func popMode(kind TokenKind) func(*Lexer, int) TokenKind {
	return func(l *Lexer, n int) TokenKind {
		l.pos += n
		l.pop()
		return kind
	}
}

func switchTo(m LexerMode, kind TokenKind) func(*Lexer, int) TokenKind {
	return func(l *Lexer, n int) TokenKind {
		l.pos += n
		l.replaceTop(m)
		return kind
	}
}

func suppress(change func(*Lexer)) func(*Lexer, int) TokenKind {
	return func(l *Lexer, n int) TokenKind {
		change(l)
		return TokenNone
	}
}

func lexInlineText(l *Lexer, n int) TokenKind {
	i := l.pos + 1
	for i < len(l.input) {
		if l.input[i] == '<' && l.peekAt(i+1) == '?' {
			break
		}
		i++
	}
	l.pos = i
	return TokenText
}

func lexSingleQuoted(l *Lexer, n int) TokenKind {
	i := l.pos + n
	for i < len(l.input) {
		switch l.input[i] {
		case '\\':
			i += 2
			continue
		case '\'':
			l.pos = i + 1
			return TokenStringLiteral
		}
		i++
	}
	l.pos = len(l.input)
	return TokenStringLiteral
}

// lexDoubleQuoted emits a whole string literal when it contains no
// interpolation, otherwise only the opening quote.
func lexDoubleQuoted(l *Lexer, n int) TokenKind {
	i := l.pos + n
	for i < len(l.input) {
		switch ch := l.input[i]; {
		case ch == '\\':
			i += 2
			continue
		case ch == '"':
			l.pos = i + 1
			return TokenStringLiteral
		case l.interpolationAt(i):
			l.pos += n
			l.push(ModeDoubleQuotes)
			return TokenDoubleQuote
		}
		i++
	}
	l.pos = len(l.input)
	return TokenStringLiteral
}

func lexCast(l *Lexer, n int) TokenKind {
	i := l.pos + 1
	for l.peekAt(i) == ' ' || l.peekAt(i) == '\t' {
		i++
	}
	word := l.labelLength(i)
	kind := castKinds[lowerString(l.input[i:i+word])]
	l.pos += n
	return kind
}

var castKinds = map[string]TokenKind{
	"int":     TokenIntegerCast,
	"integer": TokenIntegerCast,
	"bool":    TokenBooleanCast,
	"boolean": TokenBooleanCast,
	"float":   TokenFloatCast,
	"double":  TokenFloatCast,
	"real":    TokenFloatCast,
	"string":  TokenStringCast,
	"binary":  TokenStringCast,
	"array":   TokenArrayCast,
	"object":  TokenObjectCast,
	"unset":   TokenUnsetCast,
}

func lexLineComment(l *Lexer, n int) TokenKind {
	i := l.pos + n
	for i < len(l.input) {
		ch := l.input[i]
		if ch == '\n' || ch == '\r' || (ch == '?' && l.peekAt(i+1) == '>') {
			break
		}
		i++
	}
	l.pos = i
	return TokenComment
}

func lexBlockComment(kind TokenKind) func(*Lexer, int) TokenKind {
	return func(l *Lexer, n int) TokenKind {
		i := l.pos + n
		for i < len(l.input) {
			if l.input[i] == '*' && l.peekAt(i+1) == '/' {
				l.pos = i + 2
				return kind
			}
			i++
		}
		l.pos = len(l.input)
		return kind
	}
}

func lexHeredocStart(l *Lexer, n int) TokenKind {
	_, label, nowdoc := l.heredocHeader(l.pos)
	l.pos += n
	l.heredocLabel = label
	switch {
	case l.closingLabelAt(l.pos):
		l.push(ModeEndHereDoc)
	case nowdoc:
		l.push(ModeNowDoc)
	default:
		l.push(ModeHereDoc)
	}
	return TokenStartHeredoc
}

func lexHeredocEnd(l *Lexer, n int) TokenKind {
	l.pos += n
	l.pop()
	return TokenEndHeredoc
}

// lexHeredocText scans heredoc or nowdoc body text up to the next
// interpolation trigger (heredoc only) or the line holding the closing
// label. The newline before the closing label belongs to the text.
func lexHeredocText(interpolate bool) func(*Lexer, int) TokenKind {
	return func(l *Lexer, n int) TokenKind {
		if l.closingLabelAt(l.pos) {
			l.replaceTop(ModeEndHereDoc)
			return TokenNone
		}
		i := l.pos
		for i < len(l.input) {
			if i > l.pos {
				if l.closingLabelAt(i) {
					break
				}
				if interpolate && l.interpolationAt(i) {
					break
				}
			}
			if interpolate && l.input[i] == '\\' {
				i += 2
				continue
			}
			i++
		}
		if i > len(l.input) {
			i = len(l.input)
		}
		l.pos = i
		if l.closingLabelAt(l.pos) {
			l.replaceTop(ModeEndHereDoc)
		}
		return TokenEncapsulatedAndWhitespace
	}
}

// lexEncapsed scans double quote or backtick string text up to the
// terminator or the next interpolation trigger.
func lexEncapsed(terminator byte) func(*Lexer, int) TokenKind {
	return func(l *Lexer, n int) TokenKind {
		i := l.pos
		for i < len(l.input) {
			ch := l.input[i]
			if i > l.pos && (ch == terminator || l.interpolationAt(i)) {
				break
			}
			if ch == '\\' {
				i += 2
				continue
			}
			i++
		}
		if i > len(l.input) {
			i = len(l.input)
		}
		l.pos = i
		return TokenEncapsulatedAndWhitespace
	}
}

// lexEncapsedVariable handles $name inside an interpolated string. A
// following [ starts an offset, a following ->name a property fetch.
func lexEncapsedVariable(l *Lexer, n int) TokenKind {
	l.pos += n
	switch {
	case l.peek() == '[':
		l.push(ModeVarOffset)
	case l.peek() == '-' && l.peekN(1) == '>' && isLabelStart(l.peekN(2)):
		l.push(ModeLookingForProperty)
	}
	return TokenVariableName
}

// Patterns

func matchAlways(l *Lexer) int {
	return 0
}

func matchAnyByte(l *Lexer) int {
	return 1
}

func matchLiteral(s string) func(*Lexer) int {
	return func(l *Lexer) int {
		if l.hasPrefix(s) {
			return len(s)
		}
		return -1
	}
}

// matchPrefixed matches s with an optional binary-string b prefix.
func matchPrefixed(s string) func(*Lexer) int {
	return func(l *Lexer) int {
		i := 0
		if ch := l.peek(); ch == 'b' || ch == 'B' {
			i = 1
		}
		if l.peekN(i) == s[0] {
			return i + 1
		}
		return -1
	}
}

func keyword(word string, kind TokenKind) rule {
	return rule{
		match: func(l *Lexer) int {
			if !l.hasPrefixFold(word) || isLabelChar(l.peekN(len(word))) {
				return -1
			}
			return len(word)
		},
		apply: emit(kind),
	}
}

func matchWhitespace(l *Lexer) int {
	i := l.pos
	for i < len(l.input) && isWhitespace(l.input[i]) {
		i++
	}
	if i == l.pos {
		return -1
	}
	return i - l.pos
}

func matchLabel(l *Lexer) int {
	if n := l.labelLength(l.pos); n > 0 {
		return n
	}
	return -1
}

func matchVariable(l *Lexer) int {
	if l.peek() != '$' {
		return -1
	}
	if n := l.labelLength(l.pos + 1); n > 0 {
		return n + 1
	}
	return -1
}

func matchCurlyOpen(l *Lexer) int {
	if l.peek() == '{' && l.peekN(1) == '$' {
		return 1
	}
	return -1
}

func matchVarNameInCurly(l *Lexer) int {
	n := l.labelLength(l.pos)
	if n == 0 {
		return -1
	}
	if next := l.peekN(n); next == '[' || next == '}' {
		return n
	}
	return -1
}

func matchYieldFrom(l *Lexer) int {
	if !l.hasPrefixFold("yield") {
		return -1
	}
	i := l.pos + 5
	start := i
	for i < len(l.input) && isWhitespace(l.input[i]) {
		i++
	}
	if i == start {
		return -1
	}
	saved := l.pos
	l.pos = i
	ok := l.hasPrefixFold("from") && !isLabelChar(l.peekN(4))
	l.pos = saved
	if !ok {
		return -1
	}
	return i + 4 - l.pos
}

func matchCast(l *Lexer) int {
	if l.peek() != '(' {
		return -1
	}
	i := l.pos + 1
	for l.peekAt(i) == ' ' || l.peekAt(i) == '\t' {
		i++
	}
	n := l.labelLength(i)
	if n == 0 {
		return -1
	}
	if _, ok := castKinds[lowerString(l.input[i:i+n])]; !ok {
		return -1
	}
	i += n
	for l.peekAt(i) == ' ' || l.peekAt(i) == '\t' {
		i++
	}
	if l.peekAt(i) != ')' {
		return -1
	}
	return i + 1 - l.pos
}

func matchDocComment(l *Lexer) int {
	if l.hasPrefix("/**") && isWhitespace(l.peekN(3)) {
		return 3
	}
	return -1
}

func matchCloseTag(l *Lexer) int {
	if !l.hasPrefix("?>") {
		return -1
	}
	switch {
	case l.peekN(2) == '\n':
		return 3
	case l.peekN(2) == '\r' && l.peekN(3) == '\n':
		return 4
	case l.peekN(2) == '\r':
		return 3
	}
	return 2
}

func matchOpenTag(l *Lexer) int {
	if !l.hasPrefixFold("<?php") {
		return -1
	}
	switch ch := l.peekN(5); {
	case l.pos+5 == len(l.input):
		return 5
	case ch == '\r' && l.peekN(6) == '\n':
		return 7
	case isWhitespace(ch):
		return 6
	}
	return -1
}

func matchHex(l *Lexer) int {
	if l.peek() != '0' || (l.peekN(1) != 'x' && l.peekN(1) != 'X') || !isHexDigit(l.peekN(2)) {
		return -1
	}
	i := l.pos + 2
	for i < len(l.input) && isHexDigit(l.input[i]) {
		i++
	}
	return i - l.pos
}

func matchBinary(l *Lexer) int {
	if l.peek() != '0' || (l.peekN(1) != 'b' && l.peekN(1) != 'B') {
		return -1
	}
	i := l.pos + 2
	for i < len(l.input) && (l.input[i] == '0' || l.input[i] == '1') {
		i++
	}
	if i == l.pos+2 {
		return -1
	}
	return i - l.pos
}

// matchFloat matches DNUM and EXPONENT_DNUM forms: 1.5, .5, 1., 1e3, 1.5e-3.
func matchFloat(l *Lexer) int {
	i := l.pos
	for i < len(l.input) && isDigit(l.input[i]) {
		i++
	}
	intDigits := i - l.pos
	isFloat := false
	if l.peekAt(i) == '.' {
		j := i + 1
		for j < len(l.input) && isDigit(l.input[j]) {
			j++
		}
		if intDigits > 0 || j > i+1 {
			isFloat = true
			i = j
		}
	}
	if intDigits == 0 && !isFloat {
		return -1
	}
	if ch := l.peekAt(i); ch == 'e' || ch == 'E' {
		j := i + 1
		if l.peekAt(j) == '+' || l.peekAt(j) == '-' {
			j++
		}
		if isDigit(l.peekAt(j)) {
			for j < len(l.input) && isDigit(l.input[j]) {
				j++
			}
			isFloat = true
			i = j
		}
	}
	if !isFloat {
		return -1
	}
	return i - l.pos
}

func matchDigits(l *Lexer) int {
	i := l.pos
	for i < len(l.input) && isDigit(l.input[i]) {
		i++
	}
	if i == l.pos {
		return -1
	}
	return i - l.pos
}

func matchHeredocStart(l *Lexer) int {
	n, _, _ := l.heredocHeader(l.pos)
	if n == 0 {
		return -1
	}
	return n
}

func matchClosingLabel(l *Lexer) int {
	if l.closingLabelAt(l.pos) {
		return len(l.heredocLabel)
	}
	return -1
}

// heredocHeader parses b?<<<[ \t]*(label|"label"|'label') followed by a
// newline at offset at. It returns zero length when there is none.
func (l *Lexer) heredocHeader(at int) (length int, label string, nowdoc bool) {
	i := at
	if ch := l.peekAt(i); ch == 'b' || ch == 'B' {
		i++
	}
	if l.peekAt(i) != '<' || l.peekAt(i+1) != '<' || l.peekAt(i+2) != '<' {
		return 0, "", false
	}
	i += 3
	for l.peekAt(i) == ' ' || l.peekAt(i) == '\t' {
		i++
	}
	quote := l.peekAt(i)
	if quote == '\'' || quote == '"' {
		i++
	} else {
		quote = 0
	}
	n := l.labelLength(i)
	if n == 0 {
		return 0, "", false
	}
	label = string(l.input[i : i+n])
	i += n
	if quote != 0 {
		if l.peekAt(i) != quote {
			return 0, "", false
		}
		i++
	}
	switch l.peekAt(i) {
	case '\n':
		i++
	case '\r':
		i++
		if l.peekAt(i) == '\n' {
			i++
		}
	default:
		return 0, "", false
	}
	return i - at, label, quote == '\''
}

func lowerString(b []byte) string {
	out := make([]byte, len(b))
	for i, ch := range b {
		out[i] = toLower(ch)
	}
	return string(out)
}
