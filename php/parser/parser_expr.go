package parser

var expressionStart = setOf(
	TokenVariableName, TokenDollar, TokenName, TokenBackslash, TokenNamespace,
	TokenIntegerLiteral, TokenFloatingLiteral, TokenStringLiteral,
	TokenClassConstant, TokenDirectoryConstant, TokenFileConstant, TokenFunctionConstant,
	TokenLineConstant, TokenMethodConstant, TokenNamespaceConstant, TokenTraitConstant,
	TokenDoubleQuote, TokenBacktick, TokenStartHeredoc,
	TokenArrayCast, TokenBooleanCast, TokenFloatCast, TokenIntegerCast,
	TokenObjectCast, TokenStringCast, TokenUnsetCast,
	TokenPlusPlus, TokenMinusMinus, TokenPlus, TokenMinus, TokenExclamation, TokenTilde,
	TokenAtSymbol, TokenOpenParenthesis, TokenOpenBracket,
	TokenArray, TokenList, TokenIsset, TokenEmpty, TokenEval, TokenExit, TokenPrint,
	TokenClone, TokenNew, TokenYield, TokenYieldFrom,
	TokenInclude, TokenIncludeOnce, TokenRequire, TokenRequireOnce,
	TokenFunction, TokenStatic,
)

func isExpressionStart(t Token) bool {
	return expressionStart.has(t.Kind)
}

type associativity uint8

const (
	assocNone associativity = iota
	assocLeft
	assocRight
)

type operator struct {
	precedence int
	assoc      associativity
	kind       PhraseKind
}

const (
	precAssignment = 4
	precLogicalNot = 18
	precUnary      = 20
	// precPrimary is above every binary operator.
	precPrimary = 22
)

var binaryOperators = map[TokenKind]operator{
	TokenOr:  {1, assocLeft, PhraseLogicalExpression},
	TokenXor: {2, assocLeft, PhraseLogicalExpression},
	TokenAnd: {3, assocLeft, PhraseLogicalExpression},

	TokenEquals:                       {precAssignment, assocRight, PhraseSimpleAssignmentExpression},
	TokenPlusEquals:                   {precAssignment, assocRight, PhraseCompoundAssignmentExpression},
	TokenMinusEquals:                  {precAssignment, assocRight, PhraseCompoundAssignmentExpression},
	TokenAsteriskEquals:               {precAssignment, assocRight, PhraseCompoundAssignmentExpression},
	TokenAsteriskAsteriskEquals:       {precAssignment, assocRight, PhraseCompoundAssignmentExpression},
	TokenForwardSlashEquals:           {precAssignment, assocRight, PhraseCompoundAssignmentExpression},
	TokenDotEquals:                    {precAssignment, assocRight, PhraseCompoundAssignmentExpression},
	TokenPercentEquals:                {precAssignment, assocRight, PhraseCompoundAssignmentExpression},
	TokenAmpersandEquals:              {precAssignment, assocRight, PhraseCompoundAssignmentExpression},
	TokenBarEquals:                    {precAssignment, assocRight, PhraseCompoundAssignmentExpression},
	TokenCaretEquals:                  {precAssignment, assocRight, PhraseCompoundAssignmentExpression},
	TokenLessThanLessThanEquals:       {precAssignment, assocRight, PhraseCompoundAssignmentExpression},
	TokenGreaterThanGreaterThanEquals: {precAssignment, assocRight, PhraseCompoundAssignmentExpression},
	TokenQuestionQuestionEquals:       {precAssignment, assocRight, PhraseCompoundAssignmentExpression},

	TokenQuestion:           {5, assocLeft, PhraseTernaryExpression},
	TokenQuestionQuestion:   {7, assocRight, PhraseCoalesceExpression},
	TokenBarBar:             {8, assocLeft, PhraseLogicalExpression},
	TokenAmpersandAmpersand: {9, assocLeft, PhraseLogicalExpression},
	TokenBar:                {10, assocLeft, PhraseBitwiseExpression},
	TokenCaret:              {11, assocLeft, PhraseBitwiseExpression},
	TokenAmpersand:          {12, assocLeft, PhraseBitwiseExpression},

	TokenEqualsEquals:            {13, assocNone, PhraseEqualityExpression},
	TokenExclamationEquals:       {13, assocNone, PhraseEqualityExpression},
	TokenEqualsEqualsEquals:      {13, assocNone, PhraseEqualityExpression},
	TokenExclamationEqualsEquals: {13, assocNone, PhraseEqualityExpression},
	TokenSpaceship:               {13, assocNone, PhraseEqualityExpression},

	TokenLessThan:          {14, assocNone, PhraseRelationalExpression},
	TokenLessThanEquals:    {14, assocNone, PhraseRelationalExpression},
	TokenGreaterThan:       {14, assocNone, PhraseRelationalExpression},
	TokenGreaterThanEquals: {14, assocNone, PhraseRelationalExpression},

	TokenLessThanLessThan:       {15, assocLeft, PhraseShiftExpression},
	TokenGreaterThanGreaterThan: {15, assocLeft, PhraseShiftExpression},

	TokenPlus:  {16, assocLeft, PhraseAdditiveExpression},
	TokenMinus: {16, assocLeft, PhraseAdditiveExpression},
	TokenDot:   {16, assocLeft, PhraseAdditiveExpression},

	TokenAsterisk:     {17, assocLeft, PhraseMultiplicativeExpression},
	TokenForwardSlash: {17, assocLeft, PhraseMultiplicativeExpression},
	TokenPercent:      {17, assocLeft, PhraseMultiplicativeExpression},

	TokenInstanceOf:       {19, assocNone, PhraseInstanceOfExpression},
	TokenAsteriskAsterisk: {21, assocRight, PhraseExponentiationExpression},
}

func isAssignment(op operator) bool {
	return op.kind == PhraseSimpleAssignmentExpression || op.kind == PhraseCompoundAssignmentExpression
}

// isVariableLike reports whether n can be assigned to. An assignment to such
// a node is accepted whatever the surrounding precedence, so !$a = f()
// parses as !($a = f()).
func isVariableLike(n Node) bool {
	ph, ok := n.(*Phrase)
	if !ok {
		return false
	}
	switch ph.Kind {
	case PhraseSimpleVariable, PhraseSubscriptExpression, PhrasePropertyAccessExpression,
		PhraseScopedPropertyAccessExpression, PhraseListIntrinsic, PhraseArrayCreationExpression:
		return true
	}
	return false
}

func (p *Parser) expressionList(kind PhraseKind, breakOn tokenSet) *Phrase {
	return p.list(kind, isExpressionStart, func() Node {
		return p.expression(0)
	}, TokenComma, breakOn)
}

// expression parses by precedence climbing: operators binding less tightly
// than minPrecedence are left to the caller.
func (p *Parser) expression(minPrecedence int) Node {
	if !p.enter() {
		return p.deepError()
	}
	defer p.leave()

	lhs := p.unary()
	// Precedence of the non-associative operator just applied, or -1.
	nonAssoc := -1
	for {
		t := p.peek()
		op, ok := binaryOperators[t.Kind]
		if !ok {
			break
		}
		if op.precedence < minPrecedence && !(isAssignment(op) && isVariableLike(lhs)) {
			break
		}
		chained := op.assoc == assocNone && op.precedence == nonAssoc
		switch t.Kind {
		case TokenQuestion:
			lhs = p.ternary(lhs, op)
		case TokenInstanceOf:
			lhs = p.instanceOf(lhs, op, chained)
		default:
			lhs = p.binary(lhs, op, chained)
		}
		nonAssoc = -1
		if op.assoc == assocNone {
			nonAssoc = op.precedence
		}
	}
	return lhs
}

// binary parses the operator and right operand of a binary expression.
// A chained non-associative operator, as the second < in 1 < 2 < 3, is
// reported but still parsed left to right.
func (p *Parser) binary(lhs Node, op operator, chained bool) Node {
	kind := op.kind
	if p.at(TokenEquals) && p.peekAt(1).Kind == TokenAmpersand {
		kind = PhraseByRefAssignmentExpression
	}
	p.startWith(kind, lhs)
	if chained {
		p.error(TokenNone)
	}
	p.take()
	if kind == PhraseByRefAssignmentExpression {
		p.take()
	}
	next := op.precedence + 1
	if op.assoc == assocRight {
		next = op.precedence
	}
	p.append(p.expression(next))
	return p.end()
}

func (p *Parser) ternary(lhs Node, op operator) Node {
	p.startWith(PhraseTernaryExpression, lhs)
	p.take()
	if p.at(TokenColon) {
		p.take()
		p.append(p.expression(op.precedence + 1))
		return p.end()
	}
	p.pushFollow(setOf(TokenColon))
	p.append(p.expression(0))
	p.popFollow()
	p.expect(TokenColon)
	p.append(p.expression(op.precedence + 1))
	return p.end()
}

func (p *Parser) instanceOf(lhs Node, op operator, chained bool) Node {
	p.startWith(PhraseInstanceOfExpression, lhs)
	if chained {
		p.error(TokenNone)
	}
	p.take()
	p.start(PhraseInstanceofTypeDesignator)
	switch t := p.peek(); {
	case isNameStart(t):
		p.append(p.qualifiedName())
	case t.Kind == TokenStatic:
		p.append(p.relativeScope())
	default:
		p.append(p.expression(op.precedence + 1))
	}
	p.append(p.end())
	return p.end()
}

// prefix parses a prefix operator followed by an operand of the given
// precedence.
func (p *Parser) prefix(kind PhraseKind, precedence int) Node {
	p.start(kind)
	p.take()
	p.append(p.expression(precedence))
	return p.end()
}

func (p *Parser) unary() Node {
	switch p.peek().Kind {
	case TokenExclamation:
		return p.prefix(PhraseUnaryOpExpression, precLogicalNot)
	case TokenTilde, TokenMinus, TokenPlus:
		return p.prefix(PhraseUnaryOpExpression, precUnary)
	case TokenArrayCast, TokenBooleanCast, TokenFloatCast, TokenIntegerCast,
		TokenObjectCast, TokenStringCast, TokenUnsetCast:
		return p.prefix(PhraseCastExpression, precUnary)
	case TokenAtSymbol:
		return p.prefix(PhraseErrorControlExpression, precUnary)
	case TokenPlusPlus:
		return p.prefix(PhrasePrefixIncrementExpression, precUnary)
	case TokenMinusMinus:
		return p.prefix(PhrasePrefixDecrementExpression, precUnary)
	case TokenClone:
		return p.prefix(PhraseCloneExpression, precPrimary)
	case TokenPrint:
		return p.prefix(PhrasePrintIntrinsic, precAssignment)
	case TokenYieldFrom:
		return p.prefix(PhraseYieldFromExpression, precAssignment)
	case TokenInclude:
		return p.prefix(PhraseIncludeExpression, 0)
	case TokenIncludeOnce:
		return p.prefix(PhraseIncludeOnceExpression, 0)
	case TokenRequire:
		return p.prefix(PhraseRequireExpression, 0)
	case TokenRequireOnce:
		return p.prefix(PhraseRequireOnceExpression, 0)
	case TokenYield:
		return p.yield()
	case TokenNew:
		return p.objectCreation()
	}
	return p.postfix(p.primary())
}

func (p *Parser) yield() Node {
	p.start(PhraseYieldExpression)
	p.take()
	if !isExpressionStart(p.peek()) {
		return p.end()
	}
	p.pushFollow(setOf(TokenFatArrow))
	p.append(p.expression(precAssignment))
	p.popFollow()
	if p.at(TokenFatArrow) {
		p.take()
		p.append(p.expression(precAssignment))
	}
	return p.end()
}

func (p *Parser) primary() Node {
	t := p.peek()
	switch t.Kind {
	case TokenVariableName, TokenDollar:
		return p.simpleVariable()
	case TokenIntegerLiteral, TokenFloatingLiteral, TokenStringLiteral,
		TokenClassConstant, TokenDirectoryConstant, TokenFileConstant, TokenFunctionConstant,
		TokenLineConstant, TokenMethodConstant, TokenNamespaceConstant, TokenTraitConstant:
		return p.next()
	case TokenName, TokenBackslash, TokenNamespace:
		name := p.qualifiedName()
		if p.at(TokenOpenParenthesis) || p.at(TokenColonColon) {
			return name
		}
		p.startWith(PhraseConstantAccessExpression, name)
		return p.end()
	case TokenStatic:
		if p.peekAt(1).Kind == TokenFunction {
			return p.anonymousFunction()
		}
		return p.relativeScope()
	case TokenFunction:
		return p.anonymousFunction()
	case TokenArray, TokenOpenBracket:
		return p.arrayCreation()
	case TokenList:
		p.start(PhraseListIntrinsic)
		p.take()
		p.expect(TokenOpenParenthesis)
		if !p.at(TokenCloseParenthesis) {
			p.append(p.arrayInitialiserList(TokenCloseParenthesis))
		}
		p.expect(TokenCloseParenthesis)
		return p.end()
	case TokenIsset:
		p.start(PhraseIssetIntrinsic)
		p.take()
		p.expect(TokenOpenParenthesis)
		p.append(p.expressionList(PhraseVariableList, setOf(TokenCloseParenthesis)))
		p.expect(TokenCloseParenthesis)
		return p.end()
	case TokenEmpty:
		return p.keywordParenthesised(PhraseEmptyIntrinsic)
	case TokenEval:
		return p.keywordParenthesised(PhraseEvalIntrinsic)
	case TokenExit:
		p.start(PhraseExitIntrinsic)
		p.take()
		if p.at(TokenOpenParenthesis) {
			p.take()
			if !p.at(TokenCloseParenthesis) {
				p.pushFollow(setOf(TokenCloseParenthesis))
				p.append(p.expression(0))
				p.popFollow()
			}
			p.expect(TokenCloseParenthesis)
		}
		return p.end()
	case TokenOpenParenthesis:
		p.start(PhraseEncapsulatedExpression)
		p.take()
		p.pushFollow(setOf(TokenCloseParenthesis))
		p.append(p.expression(0))
		p.popFollow()
		p.expect(TokenCloseParenthesis)
		return p.end()
	case TokenDoubleQuote:
		return p.interpolated(PhraseDoubleQuotedStringLiteral, TokenDoubleQuote)
	case TokenBacktick:
		return p.interpolated(PhraseShellCommandExpression, TokenBacktick)
	case TokenStartHeredoc:
		return p.interpolated(PhraseHeredocStringLiteral, TokenEndHeredoc)
	}
	p.error(TokenNone)
	return nil
}

func (p *Parser) keywordParenthesised(kind PhraseKind) Node {
	p.start(kind)
	p.take()
	p.expect(TokenOpenParenthesis)
	p.pushFollow(setOf(TokenCloseParenthesis))
	p.append(p.expression(0))
	p.popFollow()
	p.expect(TokenCloseParenthesis)
	return p.end()
}

func (p *Parser) relativeScope() Node {
	p.start(PhraseRelativeScope)
	p.take()
	return p.end()
}

// postfix applies member access, subscripts, calls and postfix
// increments to lhs.
func (p *Parser) postfix(lhs Node) Node {
	if lhs == nil {
		return nil
	}
	for {
		switch p.peek().Kind {
		case TokenOpenBracket:
			lhs = p.subscript(lhs)
		case TokenArrow:
			lhs = p.memberAccess(lhs, true)
		case TokenColonColon:
			lhs = p.scopedAccess(lhs)
		case TokenOpenParenthesis:
			p.startWith(PhraseFunctionCallExpression, lhs)
			p.arguments()
			lhs = p.end()
		case TokenPlusPlus:
			p.startWith(PhrasePostfixIncrementExpression, lhs)
			p.take()
			return p.end()
		case TokenMinusMinus:
			p.startWith(PhrasePostfixDecrementExpression, lhs)
			p.take()
			return p.end()
		default:
			return lhs
		}
	}
}

func (p *Parser) subscript(lhs Node) Node {
	p.startWith(PhraseSubscriptExpression, lhs)
	p.take()
	if !p.at(TokenCloseBracket) {
		p.pushFollow(setOf(TokenCloseBracket))
		p.append(p.expression(0))
		p.popFollow()
	}
	p.expect(TokenCloseBracket)
	return p.end()
}

// memberAccess parses "->name" and, when calls are allowed, a following
// argument list.
func (p *Parser) memberAccess(lhs Node, calls bool) Node {
	ph := p.startWith(PhrasePropertyAccessExpression, lhs)
	p.take()
	p.append(p.memberName())
	if calls && p.at(TokenOpenParenthesis) {
		ph.Kind = PhraseMethodCallExpression
		p.arguments()
	}
	return p.end()
}

func (p *Parser) memberName() Node {
	p.start(PhraseMemberName)
	switch t := p.peek(); {
	case isIdentifier(t):
		p.take()
	case t.Kind == TokenVariableName || t.Kind == TokenDollar:
		p.append(p.simpleVariable())
	case t.Kind == TokenOpenBrace:
		p.take()
		p.pushFollow(setOf(TokenCloseBrace))
		p.append(p.expression(0))
		p.popFollow()
		p.expect(TokenCloseBrace)
	default:
		p.error(TokenName)
	}
	return p.end()
}

func (p *Parser) scopedAccess(lhs Node) Node {
	switch t := p.peekAt(1); {
	case t.Kind == TokenVariableName || t.Kind == TokenDollar:
		ph := p.startWith(PhraseScopedPropertyAccessExpression, lhs)
		p.take()
		p.start(PhraseScopedMemberName)
		p.append(p.simpleVariable())
		p.append(p.end())
		if p.at(TokenOpenParenthesis) {
			ph.Kind = PhraseScopedCallExpression
			p.arguments()
		}
		return p.end()
	case t.Kind == TokenOpenBrace:
		p.startWith(PhraseScopedCallExpression, lhs)
		p.take()
		p.start(PhraseScopedMemberName)
		p.take()
		p.pushFollow(setOf(TokenCloseBrace))
		p.append(p.expression(0))
		p.popFollow()
		p.expect(TokenCloseBrace)
		p.append(p.end())
		p.arguments()
		return p.end()
	case isIdentifier(t) && p.peekAt(2).Kind == TokenOpenParenthesis:
		p.startWith(PhraseScopedCallExpression, lhs)
		p.take()
		p.start(PhraseScopedMemberName)
		p.append(p.identifier())
		p.append(p.end())
		p.arguments()
		return p.end()
	default:
		p.startWith(PhraseClassConstantAccessExpression, lhs)
		p.take()
		p.append(p.identifier())
		return p.end()
	}
}

// arguments parses a parenthesised argument list into the open phrase.
func (p *Parser) arguments() {
	p.expect(TokenOpenParenthesis)
	if !p.at(TokenCloseParenthesis) {
		p.append(p.list(PhraseArgumentExpressionList, func(t Token) bool {
			return t.Kind == TokenEllipsis || isExpressionStart(t)
		}, p.argument, TokenComma, setOf(TokenCloseParenthesis)))
	}
	p.expect(TokenCloseParenthesis)
}

func (p *Parser) argument() Node {
	if !p.at(TokenEllipsis) {
		return p.expression(0)
	}
	p.start(PhraseVariadicUnpacking)
	p.take()
	p.append(p.expression(0))
	return p.end()
}

func (p *Parser) simpleVariable() Node {
	if !p.enter() {
		return p.deepError()
	}
	defer p.leave()

	p.start(PhraseSimpleVariable)
	switch p.peek().Kind {
	case TokenVariableName:
		p.take()
	case TokenDollar:
		p.take()
		switch p.peek().Kind {
		case TokenVariableName, TokenDollar:
			p.append(p.simpleVariable())
		case TokenOpenBrace:
			p.take()
			p.pushFollow(setOf(TokenCloseBrace))
			p.append(p.expression(0))
			p.popFollow()
			p.expect(TokenCloseBrace)
		default:
			p.error(TokenVariableName)
		}
	default:
		p.error(TokenVariableName)
	}
	return p.end()
}

func (p *Parser) anonymousFunction() Node {
	ph := p.start(PhraseAnonymousFunctionCreationExpression)
	p.bindDoc(ph)
	p.pushFollow(setOf(TokenOpenBrace))
	p.start(PhraseAnonymousFunctionHeader)
	p.optional(TokenStatic)
	p.expect(TokenFunction)
	p.optional(TokenAmpersand)
	p.parameters()
	if p.at(TokenUse) {
		p.start(PhraseAnonymousFunctionUseClause)
		p.take()
		p.expect(TokenOpenParenthesis)
		p.append(p.list(PhraseClosureUseList, func(t Token) bool {
			return t.Kind == TokenVariableName || t.Kind == TokenAmpersand
		}, p.anonymousFunctionUseVariable, TokenComma, setOf(TokenCloseParenthesis)))
		p.expect(TokenCloseParenthesis)
		p.append(p.end())
	}
	p.optionalReturnType()
	p.append(p.end())
	p.popFollow()
	p.append(p.functionBody(PhraseFunctionDeclarationBody))
	return p.end()
}

func (p *Parser) anonymousFunctionUseVariable() Node {
	p.start(PhraseAnonymousFunctionUseVariable)
	p.optional(TokenAmpersand)
	p.expect(TokenVariableName)
	return p.end()
}

func (p *Parser) arrayCreation() Node {
	p.start(PhraseArrayCreationExpression)
	closing := TokenCloseBracket
	if p.at(TokenArray) {
		p.take()
		p.expect(TokenOpenParenthesis)
		closing = TokenCloseParenthesis
	} else {
		p.take()
	}
	if !p.at(closing) {
		p.append(p.arrayInitialiserList(closing))
	}
	p.expect(closing)
	return p.end()
}

func isArrayElementStart(t Token) bool {
	return t.Kind == TokenAmpersand || isExpressionStart(t)
}

// arrayInitialiserList allows empty elements, as in list(, $b) or a
// trailing comma.
func (p *Parser) arrayInitialiserList(closing TokenKind) Node {
	p.start(PhraseArrayInitialiserList)
	p.pushFollow(setOf(closing, TokenComma))
	defer p.popFollow()

	for {
		t := p.peek()
		if t.Kind == closing || t.Kind == TokenEndOfFile {
			break
		}
		if t.Kind == TokenComma {
			p.take()
			continue
		}
		if !isArrayElementStart(t) {
			p.error(TokenNone)
			if !p.skipUntil(isArrayElementStart) {
				break
			}
			continue
		}
		progress := p.mustProgress()
		p.append(p.arrayElement())
		if !progress() {
			continue
		}
		if !p.at(TokenComma) {
			break
		}
		p.take()
	}
	return p.end()
}

func (p *Parser) arrayElement() Node {
	p.start(PhraseArrayElement)
	if p.at(TokenAmpersand) {
		p.append(p.arrayValue(nil))
		return p.end()
	}
	p.pushFollow(setOf(TokenFatArrow))
	expr := p.expression(0)
	p.popFollow()
	if !p.at(TokenFatArrow) {
		p.append(p.arrayValue(expr))
		return p.end()
	}
	p.startWith(PhraseArrayKey, expr)
	p.append(p.end())
	p.take()
	p.append(p.arrayValue(nil))
	return p.end()
}

func (p *Parser) arrayValue(expr Node) Node {
	if expr != nil {
		p.startWith(PhraseArrayValue, expr)
		return p.end()
	}
	p.start(PhraseArrayValue)
	p.optional(TokenAmpersand)
	p.append(p.expression(0))
	return p.end()
}

func (p *Parser) objectCreation() Node {
	p.start(PhraseObjectCreationExpression)
	p.take()
	if p.at(TokenClass) {
		p.append(p.anonymousClassDeclaration())
		return p.end()
	}
	p.append(p.classTypeDesignator())
	if p.at(TokenOpenParenthesis) {
		p.arguments()
	}
	return p.end()
}

func (p *Parser) classTypeDesignator() Node {
	p.start(PhraseClassTypeDesignator)
	switch t := p.peek(); {
	case isNameStart(t):
		p.append(p.qualifiedName())
	case t.Kind == TokenStatic:
		p.append(p.relativeScope())
	case t.Kind == TokenVariableName || t.Kind == TokenDollar:
		p.append(p.newVariable())
	default:
		p.error(TokenName)
	}
	return p.end()
}

// newVariable parses the variable form of a class name after new, which
// may be subscripted or accessed but not called.
func (p *Parser) newVariable() Node {
	lhs := p.simpleVariable()
	for {
		switch p.peek().Kind {
		case TokenOpenBracket:
			lhs = p.subscript(lhs)
		case TokenArrow:
			lhs = p.memberAccess(lhs, false)
		case TokenColonColon:
			if k := p.peekAt(1).Kind; k != TokenVariableName && k != TokenDollar {
				return lhs
			}
			p.startWith(PhraseScopedPropertyAccessExpression, lhs)
			p.take()
			p.start(PhraseScopedMemberName)
			p.append(p.simpleVariable())
			p.append(p.end())
			lhs = p.end()
		default:
			return lhs
		}
	}
}

// interpolated parses a double quoted string, shell command or heredoc
// with its embedded variables.
func (p *Parser) interpolated(kind PhraseKind, closing TokenKind) Node {
	p.start(kind)
	p.take()
	for {
		switch p.peek().Kind {
		case TokenEncapsulatedAndWhitespace:
			p.take()
		case TokenVariableName:
			p.append(p.encapsulatedSimpleVariable())
		case TokenDollarCurlyOpen:
			p.append(p.dollarCurlyVariable())
		case TokenCurlyOpen:
			p.start(PhraseEncapsulatedVariable)
			p.take()
			p.pushFollow(setOf(TokenCloseBrace))
			p.append(p.expression(0))
			p.popFollow()
			p.expect(TokenCloseBrace)
			p.append(p.end())
		default:
			p.expect(closing)
			return p.end()
		}
	}
}

// encapsulatedSimpleVariable parses $name, $name[offset] or $name->prop
// inside an interpolated string.
func (p *Parser) encapsulatedSimpleVariable() Node {
	v := p.simpleVariable()
	switch p.peek().Kind {
	case TokenOpenBracket:
		p.startWith(PhraseSubscriptExpression, v)
		p.take()
		switch p.peek().Kind {
		case TokenMinus:
			p.start(PhraseUnaryOpExpression)
			p.take()
			p.expect(TokenIntegerLiteral)
			p.append(p.end())
		case TokenIntegerLiteral, TokenName:
			p.take()
		case TokenVariableName:
			p.append(p.simpleVariable())
		default:
			p.error(TokenName)
		}
		p.expect(TokenCloseBracket)
		return p.end()
	case TokenArrow:
		p.startWith(PhrasePropertyAccessExpression, v)
		p.take()
		p.start(PhraseMemberName)
		p.expect(TokenName)
		p.append(p.end())
		return p.end()
	}
	return v
}

// dollarCurlyVariable parses ${name}, ${name[expr]} or ${expr}.
func (p *Parser) dollarCurlyVariable() Node {
	p.start(PhraseEncapsulatedVariable)
	p.take()
	p.pushFollow(setOf(TokenCloseBrace))
	if p.at(TokenVariableName) && p.peekAt(1).Kind == TokenOpenBracket {
		v := p.simpleVariable()
		p.startWith(PhraseSubscriptExpression, v)
		p.take()
		p.pushFollow(setOf(TokenCloseBracket))
		p.append(p.expression(0))
		p.popFollow()
		p.expect(TokenCloseBracket)
		p.append(p.end())
	} else {
		p.append(p.expression(0))
	}
	p.popFollow()
	p.expect(TokenCloseBrace)
	return p.end()
}
