package parser

var statementStart = expressionStart.with(
	TokenNamespace, TokenUse, TokenHaltCompiler, TokenConst, TokenFunction,
	TokenAbstract, TokenFinal, TokenClass, TokenTrait, TokenInterface,
	TokenOpenBrace, TokenIf, TokenWhile, TokenDo, TokenFor, TokenSwitch,
	TokenBreak, TokenContinue, TokenReturn, TokenGlobal, TokenStatic,
	TokenEcho, TokenOpenTagEcho, TokenUnset, TokenForeach, TokenDeclare,
	TokenTry, TokenThrow, TokenGoto, TokenSemicolon, TokenText,
)

// bodyStart holds the tokens that may follow the closing parenthesis of a
// control structure header.
var bodyStart = statementStart.with(TokenColon)

func isStatementStart(t Token) bool {
	return statementStart.has(t.Kind)
}

func (p *Parser) statementList(breakOn tokenSet) *Phrase {
	return p.list(PhraseStatementList, isStatementStart, p.statement, TokenNone, breakOn)
}

// optionalStatementList returns nil when the list would be empty.
func (p *Parser) optionalStatementList(breakOn tokenSet) *Phrase {
	if t := p.peek(); t.Kind == TokenEndOfFile || breakOn.has(t.Kind) {
		return nil
	}
	return p.statementList(breakOn)
}

func (p *Parser) statement() Node {
	if !p.enter() {
		return p.deepError()
	}
	defer p.leave()

	switch p.peek().Kind {
	case TokenNamespace:
		if p.peekAt(1).Kind == TokenBackslash {
			return p.expressionStatement()
		}
		return p.namespaceDefinition()
	case TokenUse:
		return p.namespaceUseDeclaration()
	case TokenHaltCompiler:
		return p.haltCompilerStatement()
	case TokenConst:
		return p.constDeclaration()
	case TokenFunction:
		next := p.peekAt(1).Kind
		if next == TokenName || (next == TokenAmpersand && p.peekAt(2).Kind == TokenName) {
			return p.functionDeclaration()
		}
		return p.expressionStatement()
	case TokenAbstract, TokenFinal, TokenClass:
		return p.classDeclaration()
	case TokenTrait:
		return p.traitDeclaration()
	case TokenInterface:
		return p.interfaceDeclaration()
	case TokenOpenBrace:
		return p.compoundStatement()
	case TokenIf:
		return p.ifStatement()
	case TokenWhile:
		return p.whileStatement()
	case TokenDo:
		return p.doStatement()
	case TokenFor:
		return p.forStatement()
	case TokenSwitch:
		return p.switchStatement()
	case TokenBreak:
		return p.keywordOptionalExpressionStatement(PhraseBreakStatement)
	case TokenContinue:
		return p.keywordOptionalExpressionStatement(PhraseContinueStatement)
	case TokenReturn:
		return p.keywordOptionalExpressionStatement(PhraseReturnStatement)
	case TokenGlobal:
		return p.globalDeclaration()
	case TokenStatic:
		if p.peekAt(1).Kind == TokenVariableName {
			switch p.peekAt(2).Kind {
			case TokenSemicolon, TokenComma, TokenEquals, TokenText, TokenEndOfFile:
				return p.functionStaticDeclaration()
			}
		}
		return p.expressionStatement()
	case TokenEcho, TokenOpenTagEcho:
		return p.echoIntrinsic()
	case TokenUnset:
		return p.unsetIntrinsic()
	case TokenForeach:
		return p.foreachStatement()
	case TokenDeclare:
		return p.declareStatement()
	case TokenTry:
		return p.tryStatement()
	case TokenThrow:
		return p.keywordExpressionStatement(PhraseThrowStatement)
	case TokenGoto:
		p.start(PhraseGotoStatement)
		p.take()
		p.expect(TokenName)
		p.endStatement()
		return p.end()
	case TokenName:
		if p.peekAt(1).Kind == TokenColon {
			p.start(PhraseNamedLabelStatement)
			p.take()
			p.take()
			return p.end()
		}
		return p.expressionStatement()
	case TokenText:
		p.start(PhraseInlineText)
		p.take()
		return p.end()
	case TokenSemicolon:
		p.start(PhraseNullStatement)
		p.take()
		return p.end()
	default:
		return p.expressionStatement()
	}
}

// endStatement consumes a statement terminator: a semicolon, or a close tag
// which the token iterator has already classified as trivia.
func (p *Parser) endStatement() {
	if p.at(TokenSemicolon) {
		p.take()
		return
	}
	if p.tokens.ClosedByTag() {
		return
	}
	p.expect(TokenSemicolon)
}

func (p *Parser) expressionStatement() Node {
	p.start(PhraseExpressionStatement)
	p.pushFollow(setOf(TokenSemicolon))
	p.append(p.expression(0))
	p.popFollow()
	p.endStatement()
	return p.end()
}

func (p *Parser) keywordExpressionStatement(kind PhraseKind) Node {
	p.start(kind)
	p.take()
	p.pushFollow(setOf(TokenSemicolon))
	p.append(p.expression(0))
	p.popFollow()
	p.endStatement()
	return p.end()
}

func (p *Parser) keywordOptionalExpressionStatement(kind PhraseKind) Node {
	p.start(kind)
	p.take()
	if expressionStart.has(p.peek().Kind) {
		p.pushFollow(setOf(TokenSemicolon))
		p.append(p.expression(0))
		p.popFollow()
	}
	p.endStatement()
	return p.end()
}

func (p *Parser) compoundStatement() Node {
	p.start(PhraseCompoundStatement)
	p.expect(TokenOpenBrace)
	p.pushFollow(setOf(TokenCloseBrace))
	p.append(p.optionalStatementList(setOf(TokenCloseBrace)))
	p.popFollow()
	p.expect(TokenCloseBrace)
	return p.end()
}

// condition parses a parenthesised expression into the open phrase.
func (p *Parser) condition() {
	p.expect(TokenOpenParenthesis)
	p.pushFollow(setOf(TokenCloseParenthesis))
	p.append(p.expression(0))
	p.popFollow()
	p.expectBefore(TokenCloseParenthesis, bodyStart)
}

// altBody parses the colon form of a control structure body up to and
// including its end keyword and terminator.
func (p *Parser) altBody(endKind TokenKind, breakOn tokenSet) {
	p.take()
	p.pushFollow(breakOn.with(endKind))
	p.append(p.optionalStatementList(breakOn.with(endKind)))
	p.popFollow()
}

func (p *Parser) ifStatement() Node {
	p.start(PhraseIfStatement)
	p.take()
	p.condition()

	if p.at(TokenColon) {
		alt := setOf(TokenElseIf, TokenElse, TokenEndIf)
		p.altBody(TokenEndIf, alt)
		if p.at(TokenElseIf) {
			p.append(p.elseIfClauseList(true))
		}
		if p.at(TokenElse) {
			p.append(p.elseClause(true))
		}
		p.expect(TokenEndIf)
		p.endStatement()
		return p.end()
	}

	p.pushFollow(setOf(TokenElseIf, TokenElse))
	p.append(p.statement())
	p.popFollow()
	if p.at(TokenElseIf) {
		p.append(p.elseIfClauseList(false))
	}
	if p.at(TokenElse) {
		p.append(p.elseClause(false))
	}
	return p.end()
}

func (p *Parser) elseIfClauseList(alt bool) Node {
	p.start(PhraseElseIfClauseList)
	for p.at(TokenElseIf) {
		p.start(PhraseElseIfClause)
		p.take()
		p.condition()
		if alt {
			p.expect(TokenColon)
			breakOn := setOf(TokenElseIf, TokenElse, TokenEndIf)
			p.pushFollow(breakOn)
			p.append(p.optionalStatementList(breakOn))
			p.popFollow()
		} else {
			p.pushFollow(setOf(TokenElseIf, TokenElse))
			p.append(p.statement())
			p.popFollow()
		}
		p.append(p.end())
	}
	return p.end()
}

func (p *Parser) elseClause(alt bool) Node {
	p.start(PhraseElseClause)
	p.take()
	if alt {
		p.expect(TokenColon)
		breakOn := setOf(TokenEndIf)
		p.pushFollow(breakOn)
		p.append(p.optionalStatementList(breakOn))
		p.popFollow()
	} else {
		p.append(p.statement())
	}
	return p.end()
}

func (p *Parser) whileStatement() Node {
	p.start(PhraseWhileStatement)
	p.take()
	p.condition()
	if p.at(TokenColon) {
		p.altBody(TokenEndWhile, tokenSet{})
		p.expect(TokenEndWhile)
		p.endStatement()
	} else {
		p.append(p.statement())
	}
	return p.end()
}

func (p *Parser) doStatement() Node {
	p.start(PhraseDoStatement)
	p.take()
	p.pushFollow(setOf(TokenWhile))
	p.append(p.statement())
	p.popFollow()
	p.expect(TokenWhile)
	p.condition()
	p.endStatement()
	return p.end()
}

func (p *Parser) forStatement() Node {
	p.start(PhraseForStatement)
	p.take()
	p.expect(TokenOpenParenthesis)
	p.pushFollow(setOf(TokenSemicolon, TokenCloseParenthesis))
	if !p.at(TokenSemicolon) {
		p.append(p.expressionList(PhraseForInitialiser, setOf(TokenSemicolon)))
	}
	p.expect(TokenSemicolon)
	if !p.at(TokenSemicolon) {
		p.append(p.expressionList(PhraseForControl, setOf(TokenSemicolon)))
	}
	p.expect(TokenSemicolon)
	if !p.at(TokenCloseParenthesis) {
		p.append(p.expressionList(PhraseForEndOfLoop, setOf(TokenCloseParenthesis)))
	}
	p.popFollow()
	p.expectBefore(TokenCloseParenthesis, bodyStart)

	if p.at(TokenColon) {
		p.altBody(TokenEndFor, tokenSet{})
		p.expect(TokenEndFor)
		p.endStatement()
	} else {
		p.append(p.statement())
	}
	return p.end()
}

func (p *Parser) switchStatement() Node {
	p.start(PhraseSwitchStatement)
	p.take()
	p.condition()

	closing := TokenCloseBrace
	if p.at(TokenColon) {
		closing = TokenEndSwitch
		p.take()
	} else {
		p.expect(TokenOpenBrace)
	}
	p.optional(TokenSemicolon)

	breakOn := setOf(closing)
	p.pushFollow(breakOn)
	if t := p.peek(); t.Kind != TokenEndOfFile && !breakOn.has(t.Kind) {
		p.append(p.list(PhraseCaseStatementList, func(t Token) bool {
			return t.Kind == TokenCase || t.Kind == TokenDefault
		}, func() Node {
			return p.caseStatement(closing)
		}, TokenNone, breakOn))
	}
	p.popFollow()
	p.expect(closing)
	if closing == TokenEndSwitch {
		p.endStatement()
	}
	return p.end()
}

func (p *Parser) caseStatement(closing TokenKind) Node {
	kind := PhraseCaseStatement
	if p.at(TokenDefault) {
		kind = PhraseDefaultStatement
	}
	p.start(kind)
	p.take()
	if kind == PhraseCaseStatement {
		p.pushFollow(setOf(TokenColon, TokenSemicolon))
		p.append(p.expression(0))
		p.popFollow()
	}
	p.expectOneOf(TokenColon, TokenSemicolon)
	p.append(p.optionalStatementList(setOf(TokenCase, TokenDefault, closing)))
	return p.end()
}

func (p *Parser) globalDeclaration() Node {
	p.start(PhraseGlobalDeclaration)
	p.take()
	p.append(p.list(PhraseVariableNameList, func(t Token) bool {
		return t.Kind == TokenVariableName || t.Kind == TokenDollar
	}, p.simpleVariable, TokenComma, setOf(TokenSemicolon)))
	p.endStatement()
	return p.end()
}

func (p *Parser) functionStaticDeclaration() Node {
	p.start(PhraseFunctionStaticDeclaration)
	p.take()
	p.append(p.list(PhraseStaticVariableDeclarationList, func(t Token) bool {
		return t.Kind == TokenVariableName
	}, p.staticVariableDeclaration, TokenComma, setOf(TokenSemicolon)))
	p.endStatement()
	return p.end()
}

func (p *Parser) staticVariableDeclaration() Node {
	p.start(PhraseStaticVariableDeclaration)
	p.expect(TokenVariableName)
	if p.at(TokenEquals) {
		p.start(PhraseFunctionStaticInitialiser)
		p.take()
		p.append(p.expression(0))
		p.append(p.end())
	}
	return p.end()
}

func (p *Parser) echoIntrinsic() Node {
	p.start(PhraseEchoIntrinsic)
	p.take()
	p.append(p.expressionList(PhraseExpressionList, setOf(TokenSemicolon)))
	p.endStatement()
	return p.end()
}

func (p *Parser) unsetIntrinsic() Node {
	p.start(PhraseUnsetIntrinsic)
	p.take()
	p.expect(TokenOpenParenthesis)
	p.append(p.expressionList(PhraseVariableList, setOf(TokenCloseParenthesis)))
	p.expect(TokenCloseParenthesis)
	p.endStatement()
	return p.end()
}

func (p *Parser) foreachStatement() Node {
	p.start(PhraseForeachStatement)
	p.take()
	p.expect(TokenOpenParenthesis)
	p.pushFollow(setOf(TokenCloseParenthesis, TokenAs))

	p.start(PhraseForeachCollection)
	p.append(p.expression(0))
	p.append(p.end())
	p.expect(TokenAs)

	if p.at(TokenAmpersand) {
		p.append(p.foreachValue(nil))
	} else {
		p.pushFollow(setOf(TokenFatArrow))
		expr := p.expression(0)
		p.popFollow()
		if p.at(TokenFatArrow) {
			p.startWith(PhraseForeachKey, expr)
			p.take()
			p.append(p.end())
			p.append(p.foreachValue(nil))
		} else {
			p.append(p.foreachValue(expr))
		}
	}

	p.popFollow()
	p.expectBefore(TokenCloseParenthesis, bodyStart)

	if p.at(TokenColon) {
		p.altBody(TokenEndForeach, tokenSet{})
		p.expect(TokenEndForeach)
		p.endStatement()
	} else {
		p.append(p.statement())
	}
	return p.end()
}

// foreachValue wraps an already parsed value expression, or parses one.
func (p *Parser) foreachValue(expr Node) Node {
	if expr != nil {
		p.startWith(PhraseForeachValue, expr)
		return p.end()
	}
	p.start(PhraseForeachValue)
	p.optional(TokenAmpersand)
	p.append(p.expression(0))
	return p.end()
}

func (p *Parser) declareStatement() Node {
	p.start(PhraseDeclareStatement)
	p.take()
	p.expect(TokenOpenParenthesis)

	p.start(PhraseDeclareDirective)
	p.pushFollow(setOf(TokenCloseParenthesis))
	for {
		p.expect(TokenName)
		p.expect(TokenEquals)
		p.append(p.expression(0))
		if p.optional(TokenComma) == nil {
			break
		}
	}
	p.popFollow()
	p.append(p.end())
	p.expectBefore(TokenCloseParenthesis, bodyStart)

	switch {
	case p.at(TokenSemicolon):
		p.take()
	case p.at(TokenColon):
		p.altBody(TokenEndDeclare, tokenSet{})
		p.expect(TokenEndDeclare)
		p.endStatement()
	default:
		p.append(p.statement())
	}
	return p.end()
}

func (p *Parser) tryStatement() Node {
	p.start(PhraseTryStatement)
	p.take()
	p.pushFollow(setOf(TokenCatch, TokenFinally))
	p.append(p.compoundStatement())
	p.popFollow()

	if p.at(TokenCatch) {
		p.start(PhraseCatchClauseList)
		for p.at(TokenCatch) {
			p.append(p.catchClause())
		}
		p.append(p.end())
	}
	if p.at(TokenFinally) {
		p.start(PhraseFinallyClause)
		p.take()
		p.append(p.compoundStatement())
		p.append(p.end())
	}
	return p.end()
}

func (p *Parser) catchClause() Node {
	p.start(PhraseCatchClause)
	p.take()
	p.expect(TokenOpenParenthesis)
	p.pushFollow(setOf(TokenCloseParenthesis, TokenVariableName))

	p.start(PhraseCatchNameList)
	p.append(p.qualifiedName())
	for p.at(TokenBar) {
		p.take()
		p.append(p.qualifiedName())
	}
	p.append(p.end())

	p.popFollow()
	p.expect(TokenVariableName)
	p.expectBefore(TokenCloseParenthesis, setOf(TokenOpenBrace))
	p.append(p.compoundStatement())
	return p.end()
}

// haltCompilerStatement consumes the rest of the input as one Text token.
func (p *Parser) haltCompilerStatement() Node {
	p.start(PhraseHaltCompilerStatement)
	p.take()
	p.expect(TokenOpenParenthesis)
	p.expect(TokenCloseParenthesis)
	p.endStatement()

	rest := p.tokens.Drain()
	if len(rest) > 0 {
		first, last := rest[0], rest[len(rest)-1]
		p.top().append(&Token{
			Kind:      TokenText,
			Offset:    first.Offset,
			Length:    last.End() - first.Offset,
			ModeStack: first.ModeStack,
		})
	}
	return p.end()
}

func (p *Parser) constDeclaration() Node {
	ph := p.start(PhraseConstDeclaration)
	p.bindDoc(ph)
	p.take()
	p.append(p.list(PhraseConstElementList, func(t Token) bool {
		return t.Kind == TokenName
	}, p.constElement, TokenComma, setOf(TokenSemicolon)))
	p.endStatement()
	return p.end()
}

func (p *Parser) constElement() Node {
	p.start(PhraseConstElement)
	p.expect(TokenName)
	p.expect(TokenEquals)
	p.append(p.expression(0))
	return p.end()
}

func (p *Parser) namespaceDefinition() Node {
	p.start(PhraseNamespaceDefinition)
	p.take()
	if p.at(TokenName) {
		p.append(p.namespaceName())
	}
	if p.at(TokenOpenBrace) {
		p.append(p.compoundStatement())
		return p.end()
	}
	p.endStatement()
	return p.end()
}

func (p *Parser) namespaceUseDeclaration() Node {
	p.start(PhraseNamespaceUseDeclaration)
	p.take()
	if p.at(TokenFunction) || p.at(TokenConst) {
		p.take()
	}
	p.pushFollow(setOf(TokenSemicolon))
	defer p.popFollow()

	p.optional(TokenBackslash)
	name := p.namespaceName()

	if p.at(TokenBackslash) && p.peekAt(1).Kind == TokenOpenBrace {
		p.append(name)
		p.take()
		p.take()
		p.append(p.list(PhraseNamespaceUseGroupClauseList, func(t Token) bool {
			return t.Kind == TokenName || t.Kind == TokenFunction || t.Kind == TokenConst
		}, p.namespaceUseGroupClause, TokenComma, setOf(TokenCloseBrace)))
		p.expect(TokenCloseBrace)
		p.endStatement()
		return p.end()
	}

	p.startWith(PhraseNamespaceUseClause, name)
	p.optionalAliasingClause()
	first := p.end()

	p.startWith(PhraseNamespaceUseClauseList, first)
	for p.at(TokenComma) {
		p.take()
		p.append(p.namespaceUseClause())
	}
	p.append(p.end())
	p.endStatement()
	return p.end()
}

func (p *Parser) namespaceUseClause() Node {
	p.start(PhraseNamespaceUseClause)
	p.optional(TokenBackslash)
	p.append(p.namespaceName())
	p.optionalAliasingClause()
	return p.end()
}

func (p *Parser) namespaceUseGroupClause() Node {
	p.start(PhraseNamespaceUseGroupClause)
	if p.at(TokenFunction) || p.at(TokenConst) {
		p.take()
	}
	p.append(p.namespaceName())
	p.optionalAliasingClause()
	return p.end()
}

func (p *Parser) optionalAliasingClause() {
	if !p.at(TokenAs) {
		return
	}
	p.start(PhraseNamespaceAliasingClause)
	p.take()
	p.expect(TokenName)
	p.append(p.end())
}
