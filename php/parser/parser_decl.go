package parser

var memberModifiers = setOf(
	TokenPublic, TokenProtected, TokenPrivate, TokenStatic,
	TokenAbstract, TokenFinal, TokenVar,
)

var memberStart = memberModifiers.with(TokenConst, TokenFunction, TokenUse, TokenVariableName)

var typeStart = setOf(
	TokenQuestion, TokenArray, TokenCallable, TokenName, TokenBackslash, TokenNamespace,
)

var parameterStart = typeStart.with(TokenAmpersand, TokenEllipsis, TokenVariableName)

func isNameStart(t Token) bool {
	return t.Kind == TokenName || t.Kind == TokenBackslash || t.Kind == TokenNamespace
}

func isIdentifier(t Token) bool {
	return t.Kind == TokenName || t.Kind.IsKeyword()
}

// Names

func (p *Parser) namespaceName() *Phrase {
	p.start(PhraseNamespaceName)
	p.expect(TokenName)
	for p.at(TokenBackslash) && p.peekAt(1).Kind == TokenName {
		p.take()
		p.take()
	}
	return p.end()
}

func (p *Parser) qualifiedName() Node {
	switch p.peek().Kind {
	case TokenBackslash:
		p.start(PhraseFullyQualifiedName)
		p.take()
	case TokenNamespace:
		p.start(PhraseRelativeQualifiedName)
		p.take()
		p.expect(TokenBackslash)
	default:
		p.start(PhraseQualifiedName)
	}
	p.append(p.namespaceName())
	return p.end()
}

func (p *Parser) qualifiedNameList(breakOn tokenSet) Node {
	return p.list(PhraseQualifiedNameList, isNameStart, p.qualifiedName, TokenComma, breakOn)
}

// identifier accepts a name or any keyword, as allowed for member names.
func (p *Parser) identifier() Node {
	p.start(PhraseIdentifier)
	if isIdentifier(p.peek()) {
		p.take()
	} else {
		p.error(TokenName)
	}
	return p.end()
}

// Functions

func (p *Parser) functionDeclaration() Node {
	ph := p.start(PhraseFunctionDeclaration)
	p.bindDoc(ph)
	p.pushFollow(setOf(TokenOpenBrace))
	p.start(PhraseFunctionDeclarationHeader)
	p.take()
	p.optional(TokenAmpersand)
	p.expect(TokenName)
	p.parameters()
	p.optionalReturnType()
	p.append(p.end())
	p.popFollow()
	p.append(p.functionBody(PhraseFunctionDeclarationBody))
	return p.end()
}

func (p *Parser) functionBody(kind PhraseKind) Node {
	p.start(kind)
	p.expect(TokenOpenBrace)
	p.pushFollow(setOf(TokenCloseBrace))
	p.append(p.optionalStatementList(setOf(TokenCloseBrace)))
	p.popFollow()
	p.expect(TokenCloseBrace)
	return p.end()
}

// parameters parses a parenthesised parameter list into the open phrase.
func (p *Parser) parameters() {
	p.expect(TokenOpenParenthesis)
	if !p.at(TokenCloseParenthesis) {
		p.append(p.list(PhraseParameterDeclarationList, func(t Token) bool {
			return parameterStart.has(t.Kind)
		}, p.parameterDeclaration, TokenComma, setOf(TokenCloseParenthesis)))
	}
	p.expect(TokenCloseParenthesis)
}

func (p *Parser) parameterDeclaration() Node {
	p.start(PhraseParameterDeclaration)
	if typeStart.has(p.peek().Kind) {
		p.append(p.typeDeclaration())
	}
	p.optional(TokenAmpersand)
	p.optional(TokenEllipsis)
	p.expect(TokenVariableName)
	if p.at(TokenEquals) {
		p.take()
		p.append(p.expression(0))
	}
	return p.end()
}

func (p *Parser) typeDeclaration() Node {
	p.start(PhraseTypeDeclaration)
	p.optional(TokenQuestion)
	switch t := p.peek(); {
	case t.Kind == TokenArray || t.Kind == TokenCallable:
		p.take()
	case isNameStart(t):
		p.append(p.qualifiedName())
	default:
		p.error(TokenName)
	}
	return p.end()
}

func (p *Parser) optionalReturnType() {
	if !p.at(TokenColon) {
		return
	}
	p.start(PhraseReturnType)
	p.take()
	p.append(p.typeDeclaration())
	p.append(p.end())
}

// Classes, interfaces and traits

func (p *Parser) classDeclaration() Node {
	ph := p.start(PhraseClassDeclaration)
	p.bindDoc(ph)
	p.pushFollow(setOf(TokenOpenBrace))
	p.start(PhraseClassDeclarationHeader)
	if p.at(TokenAbstract) || p.at(TokenFinal) {
		p.start(PhraseClassModifiers)
		for p.at(TokenAbstract) || p.at(TokenFinal) {
			p.take()
		}
		p.append(p.end())
	}
	p.expect(TokenClass)
	p.expect(TokenName)
	p.classBaseAndInterfaces()
	p.append(p.end())
	p.popFollow()
	p.append(p.typeBody(PhraseClassDeclarationBody, PhraseClassMemberDeclarationList))
	return p.end()
}

func (p *Parser) classBaseAndInterfaces() {
	if p.at(TokenExtends) {
		p.start(PhraseClassBaseClause)
		p.take()
		p.append(p.qualifiedName())
		p.append(p.end())
	}
	if p.at(TokenImplements) {
		p.start(PhraseClassInterfaceClause)
		p.take()
		p.append(p.qualifiedNameList(setOf(TokenOpenBrace)))
		p.append(p.end())
	}
}

func (p *Parser) interfaceDeclaration() Node {
	ph := p.start(PhraseInterfaceDeclaration)
	p.bindDoc(ph)
	p.pushFollow(setOf(TokenOpenBrace))
	p.start(PhraseInterfaceDeclarationHeader)
	p.take()
	p.expect(TokenName)
	if p.at(TokenExtends) {
		p.start(PhraseInterfaceBaseClause)
		p.take()
		p.append(p.qualifiedNameList(setOf(TokenOpenBrace)))
		p.append(p.end())
	}
	p.append(p.end())
	p.popFollow()
	p.append(p.typeBody(PhraseInterfaceDeclarationBody, PhraseInterfaceMemberDeclarationList))
	return p.end()
}

func (p *Parser) traitDeclaration() Node {
	ph := p.start(PhraseTraitDeclaration)
	p.bindDoc(ph)
	p.pushFollow(setOf(TokenOpenBrace))
	p.start(PhraseTraitDeclarationHeader)
	p.take()
	p.expect(TokenName)
	p.append(p.end())
	p.popFollow()
	p.append(p.typeBody(PhraseTraitDeclarationBody, PhraseTraitMemberDeclarationList))
	return p.end()
}

// anonymousClassDeclaration parses "class (args) extends B implements C {}"
// after new.
func (p *Parser) anonymousClassDeclaration() Node {
	p.start(PhraseAnonymousClassDeclaration)
	p.pushFollow(setOf(TokenOpenBrace))
	p.start(PhraseAnonymousClassDeclarationHeader)
	p.take()
	if p.at(TokenOpenParenthesis) {
		p.arguments()
	}
	p.classBaseAndInterfaces()
	p.append(p.end())
	p.popFollow()
	p.append(p.typeBody(PhraseClassDeclarationBody, PhraseClassMemberDeclarationList))
	return p.end()
}

func (p *Parser) typeBody(kind, listKind PhraseKind) Node {
	p.start(kind)
	p.expect(TokenOpenBrace)
	breakOn := setOf(TokenCloseBrace)
	if t := p.peek(); t.Kind != TokenEndOfFile && !breakOn.has(t.Kind) {
		p.append(p.list(listKind, func(t Token) bool {
			return memberStart.has(t.Kind)
		}, p.memberDeclaration, TokenNone, breakOn))
	}
	p.expect(TokenCloseBrace)
	return p.end()
}

// memberDeclaration dispatches on the token after any modifiers.
func (p *Parser) memberDeclaration() Node {
	if p.at(TokenUse) {
		return p.traitUseClause()
	}
	i := 0
	for memberModifiers.has(p.peekAt(i).Kind) {
		i++
	}
	switch p.peekAt(i).Kind {
	case TokenConst:
		return p.classConstDeclaration(i > 0)
	case TokenFunction:
		return p.methodDeclaration(i > 0)
	default:
		return p.propertyDeclaration(i > 0)
	}
}

func (p *Parser) memberModifierList() Node {
	p.start(PhraseMemberModifierList)
	for memberModifiers.has(p.peek().Kind) {
		p.take()
	}
	return p.end()
}

func (p *Parser) classConstDeclaration(modifiers bool) Node {
	ph := p.start(PhraseClassConstDeclaration)
	p.bindDoc(ph)
	if modifiers {
		p.append(p.memberModifierList())
	}
	p.take()
	p.append(p.list(PhraseClassConstElementList, isIdentifier, p.classConstElement, TokenComma, setOf(TokenSemicolon)))
	p.expect(TokenSemicolon)
	return p.end()
}

func (p *Parser) classConstElement() Node {
	p.start(PhraseClassConstElement)
	p.append(p.identifier())
	p.expect(TokenEquals)
	p.append(p.expression(0))
	return p.end()
}

func (p *Parser) propertyDeclaration(modifiers bool) Node {
	ph := p.start(PhrasePropertyDeclaration)
	p.bindDoc(ph)
	if modifiers {
		p.append(p.memberModifierList())
	}
	p.append(p.list(PhrasePropertyElementList, func(t Token) bool {
		return t.Kind == TokenVariableName
	}, p.propertyElement, TokenComma, setOf(TokenSemicolon)))
	p.expect(TokenSemicolon)
	return p.end()
}

func (p *Parser) propertyElement() Node {
	p.start(PhrasePropertyElement)
	p.expect(TokenVariableName)
	if p.at(TokenEquals) {
		p.start(PhrasePropertyInitialiser)
		p.take()
		p.append(p.expression(0))
		p.append(p.end())
	}
	return p.end()
}

func (p *Parser) methodDeclaration(modifiers bool) Node {
	ph := p.start(PhraseMethodDeclaration)
	p.bindDoc(ph)
	p.pushFollow(setOf(TokenOpenBrace, TokenSemicolon))
	p.start(PhraseMethodDeclarationHeader)
	if modifiers {
		p.append(p.memberModifierList())
	}
	p.take()
	p.optional(TokenAmpersand)
	p.append(p.identifier())
	p.parameters()
	p.optionalReturnType()
	p.append(p.end())
	p.popFollow()

	if p.at(TokenSemicolon) {
		p.start(PhraseMethodDeclarationBody)
		p.take()
		p.append(p.end())
	} else {
		p.append(p.functionBody(PhraseMethodDeclarationBody))
	}
	return p.end()
}

// Trait use

func (p *Parser) traitUseClause() Node {
	p.start(PhraseTraitUseClause)
	p.take()
	p.append(p.qualifiedNameList(setOf(TokenSemicolon, TokenOpenBrace)))

	p.start(PhraseTraitUseSpecification)
	if p.at(TokenOpenBrace) {
		p.take()
		breakOn := setOf(TokenCloseBrace)
		if t := p.peek(); t.Kind != TokenEndOfFile && !breakOn.has(t.Kind) {
			p.append(p.list(PhraseTraitAdaptationList, func(t Token) bool {
				return isIdentifier(t) || t.Kind == TokenBackslash
			}, p.traitAdaptation, TokenNone, breakOn))
		}
		p.expect(TokenCloseBrace)
	} else {
		p.expect(TokenSemicolon)
	}
	p.append(p.end())
	return p.end()
}

func (p *Parser) traitAdaptation() Node {
	if isIdentifier(p.peek()) && p.peekAt(1).Kind == TokenAs {
		p.start(PhraseTraitAlias)
		p.append(p.identifier())
		p.traitAliasTail()
		return p.end()
	}

	p.start(PhraseMethodReference)
	p.append(p.qualifiedName())
	p.expect(TokenColonColon)
	p.append(p.identifier())
	ref := p.end()

	if p.at(TokenInsteadOf) {
		p.startWith(PhraseTraitPrecedence, ref)
		p.take()
		p.append(p.qualifiedNameList(setOf(TokenSemicolon)))
		p.expect(TokenSemicolon)
		return p.end()
	}
	p.startWith(PhraseTraitAlias, ref)
	p.traitAliasTail()
	return p.end()
}

// traitAliasTail parses "as [modifier] [name];".
func (p *Parser) traitAliasTail() {
	p.expect(TokenAs)
	switch p.peek().Kind {
	case TokenPublic, TokenProtected, TokenPrivate:
		p.take()
	}
	if isIdentifier(p.peek()) {
		p.append(p.identifier())
	}
	p.expect(TokenSemicolon)
}
