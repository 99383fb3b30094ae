package parser

type TokenKind uint8

const (
	TokenNone TokenKind = iota
	TokenUnknown
	TokenEndOfFile

	// Keywords
	TokenAbstract
	TokenArray
	TokenAs
	TokenBreak
	TokenCallable
	TokenCase
	TokenCatch
	TokenClass
	TokenClone
	TokenConst
	TokenContinue
	TokenDeclare
	TokenDefault
	TokenDo
	TokenEcho
	TokenElse
	TokenElseIf
	TokenEmpty
	TokenEndDeclare
	TokenEndFor
	TokenEndForeach
	TokenEndIf
	TokenEndSwitch
	TokenEndWhile
	TokenEval
	TokenExit
	TokenExtends
	TokenFinal
	TokenFinally
	TokenFor
	TokenForeach
	TokenFunction
	TokenGlobal
	TokenGoto
	TokenHaltCompiler
	TokenIf
	TokenImplements
	TokenInclude
	TokenIncludeOnce
	TokenInstanceOf
	TokenInsteadOf
	TokenInterface
	TokenIsset
	TokenList
	TokenAnd
	TokenOr
	TokenXor
	TokenNamespace
	TokenNew
	TokenPrint
	TokenPrivate
	TokenPublic
	TokenProtected
	TokenRequire
	TokenRequireOnce
	TokenReturn
	TokenStatic
	TokenSwitch
	TokenThrow
	TokenTrait
	TokenTry
	TokenUnset
	TokenUse
	TokenVar
	TokenWhile
	TokenYield
	TokenYieldFrom

	// Magic constants
	TokenClassConstant
	TokenDirectoryConstant
	TokenFileConstant
	TokenFunctionConstant
	TokenLineConstant
	TokenMethodConstant
	TokenNamespaceConstant
	TokenTraitConstant

	// Literals and names
	TokenStringLiteral
	TokenFloatingLiteral
	TokenIntegerLiteral
	TokenEncapsulatedAndWhitespace
	TokenText
	TokenName
	TokenVariableName

	// Casts
	TokenArrayCast
	TokenBooleanCast
	TokenFloatCast
	TokenIntegerCast
	TokenObjectCast
	TokenStringCast
	TokenUnsetCast

	// Punctuation and operators
	TokenEquals
	TokenTilde
	TokenColon
	TokenSemicolon
	TokenExclamation
	TokenDollar
	TokenForwardSlash
	TokenPercent
	TokenComma
	TokenAtSymbol
	TokenBacktick
	TokenQuestion
	TokenDoubleQuote
	TokenLessThan
	TokenGreaterThan
	TokenAsterisk
	TokenAmpersandAmpersand
	TokenAmpersand
	TokenAmpersandEquals
	TokenCaretEquals
	TokenLessThanLessThan
	TokenLessThanLessThanEquals
	TokenGreaterThanGreaterThan
	TokenGreaterThanGreaterThanEquals
	TokenBarEquals
	TokenPlus
	TokenPlusEquals
	TokenAsteriskAsterisk
	TokenAsteriskAsteriskEquals
	TokenArrow
	TokenOpenBrace
	TokenOpenBracket
	TokenOpenParenthesis
	TokenCloseBrace
	TokenCloseBracket
	TokenCloseParenthesis
	TokenQuestionQuestion
	TokenBar
	TokenBarBar
	TokenCaret
	TokenDot
	TokenDotEquals
	TokenCurlyOpen
	TokenMinusMinus
	TokenForwardSlashEquals
	TokenDollarCurlyOpen
	TokenFatArrow
	TokenColonColon
	TokenEllipsis
	TokenPlusPlus
	TokenEqualsEquals
	TokenGreaterThanEquals
	TokenEqualsEqualsEquals
	TokenExclamationEquals
	TokenExclamationEqualsEquals
	TokenLessThanEquals
	TokenSpaceship
	TokenMinus
	TokenMinusEquals
	TokenPercentEquals
	TokenAsteriskEquals
	TokenBackslash
	TokenQuestionQuestionEquals

	// Heredoc delimiters and tags
	TokenStartHeredoc
	TokenEndHeredoc
	TokenOpenTagEcho

	// Trivia
	TokenOpenTag
	TokenCloseTag
	TokenComment
	TokenDocumentComment
	TokenWhitespace
)

var tokenKindNames = map[TokenKind]string{
	TokenNone:                         "None",
	TokenUnknown:                      "Unknown",
	TokenEndOfFile:                    "EndOfFile",
	TokenAbstract:                     "Abstract",
	TokenArray:                        "Array",
	TokenAs:                           "As",
	TokenBreak:                        "Break",
	TokenCallable:                     "Callable",
	TokenCase:                         "Case",
	TokenCatch:                        "Catch",
	TokenClass:                        "Class",
	TokenClone:                        "Clone",
	TokenConst:                        "Const",
	TokenContinue:                     "Continue",
	TokenDeclare:                      "Declare",
	TokenDefault:                      "Default",
	TokenDo:                           "Do",
	TokenEcho:                         "Echo",
	TokenElse:                         "Else",
	TokenElseIf:                       "ElseIf",
	TokenEmpty:                        "Empty",
	TokenEndDeclare:                   "EndDeclare",
	TokenEndFor:                       "EndFor",
	TokenEndForeach:                   "EndForeach",
	TokenEndIf:                        "EndIf",
	TokenEndSwitch:                    "EndSwitch",
	TokenEndWhile:                     "EndWhile",
	TokenEval:                         "Eval",
	TokenExit:                         "Exit",
	TokenExtends:                      "Extends",
	TokenFinal:                        "Final",
	TokenFinally:                      "Finally",
	TokenFor:                          "For",
	TokenForeach:                      "Foreach",
	TokenFunction:                     "Function",
	TokenGlobal:                       "Global",
	TokenGoto:                         "Goto",
	TokenHaltCompiler:                 "HaltCompiler",
	TokenIf:                           "If",
	TokenImplements:                   "Implements",
	TokenInclude:                      "Include",
	TokenIncludeOnce:                  "IncludeOnce",
	TokenInstanceOf:                   "InstanceOf",
	TokenInsteadOf:                    "InsteadOf",
	TokenInterface:                    "Interface",
	TokenIsset:                        "Isset",
	TokenList:                         "List",
	TokenAnd:                          "And",
	TokenOr:                           "Or",
	TokenXor:                          "Xor",
	TokenNamespace:                    "Namespace",
	TokenNew:                          "New",
	TokenPrint:                        "Print",
	TokenPrivate:                      "Private",
	TokenPublic:                       "Public",
	TokenProtected:                    "Protected",
	TokenRequire:                      "Require",
	TokenRequireOnce:                  "RequireOnce",
	TokenReturn:                       "Return",
	TokenStatic:                       "Static",
	TokenSwitch:                       "Switch",
	TokenThrow:                        "Throw",
	TokenTrait:                        "Trait",
	TokenTry:                          "Try",
	TokenUnset:                        "Unset",
	TokenUse:                          "Use",
	TokenVar:                          "Var",
	TokenWhile:                        "While",
	TokenYield:                        "Yield",
	TokenYieldFrom:                    "YieldFrom",
	TokenClassConstant:                "ClassConstant",
	TokenDirectoryConstant:            "DirectoryConstant",
	TokenFileConstant:                 "FileConstant",
	TokenFunctionConstant:             "FunctionConstant",
	TokenLineConstant:                 "LineConstant",
	TokenMethodConstant:               "MethodConstant",
	TokenNamespaceConstant:            "NamespaceConstant",
	TokenTraitConstant:                "TraitConstant",
	TokenStringLiteral:                "StringLiteral",
	TokenFloatingLiteral:              "FloatingLiteral",
	TokenIntegerLiteral:               "IntegerLiteral",
	TokenEncapsulatedAndWhitespace:    "EncapsulatedAndWhitespace",
	TokenText:                         "Text",
	TokenName:                         "Name",
	TokenVariableName:                 "VariableName",
	TokenArrayCast:                    "ArrayCast",
	TokenBooleanCast:                  "BooleanCast",
	TokenFloatCast:                    "FloatCast",
	TokenIntegerCast:                  "IntegerCast",
	TokenObjectCast:                   "ObjectCast",
	TokenStringCast:                   "StringCast",
	TokenUnsetCast:                    "UnsetCast",
	TokenEquals:                       "Equals",
	TokenTilde:                        "Tilde",
	TokenColon:                        "Colon",
	TokenSemicolon:                    "Semicolon",
	TokenExclamation:                  "Exclamation",
	TokenDollar:                       "Dollar",
	TokenForwardSlash:                 "ForwardSlash",
	TokenPercent:                      "Percent",
	TokenComma:                        "Comma",
	TokenAtSymbol:                     "AtSymbol",
	TokenBacktick:                     "Backtick",
	TokenQuestion:                     "Question",
	TokenDoubleQuote:                  "DoubleQuote",
	TokenLessThan:                     "LessThan",
	TokenGreaterThan:                  "GreaterThan",
	TokenAsterisk:                     "Asterisk",
	TokenAmpersandAmpersand:           "AmpersandAmpersand",
	TokenAmpersand:                    "Ampersand",
	TokenAmpersandEquals:              "AmpersandEquals",
	TokenCaretEquals:                  "CaretEquals",
	TokenLessThanLessThan:             "LessThanLessThan",
	TokenLessThanLessThanEquals:       "LessThanLessThanEquals",
	TokenGreaterThanGreaterThan:       "GreaterThanGreaterThan",
	TokenGreaterThanGreaterThanEquals: "GreaterThanGreaterThanEquals",
	TokenBarEquals:                    "BarEquals",
	TokenPlus:                         "Plus",
	TokenPlusEquals:                   "PlusEquals",
	TokenAsteriskAsterisk:             "AsteriskAsterisk",
	TokenAsteriskAsteriskEquals:       "AsteriskAsteriskEquals",
	TokenArrow:                        "Arrow",
	TokenOpenBrace:                    "OpenBrace",
	TokenOpenBracket:                  "OpenBracket",
	TokenOpenParenthesis:              "OpenParenthesis",
	TokenCloseBrace:                   "CloseBrace",
	TokenCloseBracket:                 "CloseBracket",
	TokenCloseParenthesis:             "CloseParenthesis",
	TokenQuestionQuestion:             "QuestionQuestion",
	TokenBar:                          "Bar",
	TokenBarBar:                       "BarBar",
	TokenCaret:                        "Caret",
	TokenDot:                          "Dot",
	TokenDotEquals:                    "DotEquals",
	TokenCurlyOpen:                    "CurlyOpen",
	TokenMinusMinus:                   "MinusMinus",
	TokenForwardSlashEquals:           "ForwardSlashEquals",
	TokenDollarCurlyOpen:              "DollarCurlyOpen",
	TokenFatArrow:                     "FatArrow",
	TokenColonColon:                   "ColonColon",
	TokenEllipsis:                     "Ellipsis",
	TokenPlusPlus:                     "PlusPlus",
	TokenEqualsEquals:                 "EqualsEquals",
	TokenGreaterThanEquals:            "GreaterThanEquals",
	TokenEqualsEqualsEquals:           "EqualsEqualsEquals",
	TokenExclamationEquals:            "ExclamationEquals",
	TokenExclamationEqualsEquals:      "ExclamationEqualsEquals",
	TokenLessThanEquals:               "LessThanEquals",
	TokenSpaceship:                    "Spaceship",
	TokenMinus:                        "Minus",
	TokenMinusEquals:                  "MinusEquals",
	TokenPercentEquals:                "PercentEquals",
	TokenAsteriskEquals:               "AsteriskEquals",
	TokenBackslash:                    "Backslash",
	TokenQuestionQuestionEquals:       "QuestionQuestionEquals",
	TokenStartHeredoc:                 "StartHeredoc",
	TokenEndHeredoc:                   "EndHeredoc",
	TokenOpenTagEcho:                  "OpenTagEcho",
	TokenOpenTag:                      "OpenTag",
	TokenCloseTag:                     "CloseTag",
	TokenComment:                      "Comment",
	TokenDocumentComment:              "DocumentComment",
	TokenWhitespace:                   "Whitespace",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsTrivia reports whether tokens of this kind are skipped by the
// TokenIterator when making grammar decisions.
func (k TokenKind) IsTrivia() bool {
	return k >= TokenOpenTag
}

// IsKeyword reports whether k is a reserved word. Keywords may still be used
// as member names after -> and ::.
func (k TokenKind) IsKeyword() bool {
	return k >= TokenAbstract && k <= TokenTraitConstant
}

type LexerMode uint8

const (
	ModeInitial LexerMode = iota
	ModeScripting
	ModeLookingForProperty
	ModeDoubleQuotes
	ModeNowDoc
	ModeHereDoc
	ModeEndHereDoc
	ModeBacktick
	ModeVarOffset
	ModeLookingForVarName
)

var lexerModeNames = [...]string{
	ModeInitial:            "Initial",
	ModeScripting:          "Scripting",
	ModeLookingForProperty: "LookingForProperty",
	ModeDoubleQuotes:       "DoubleQuotes",
	ModeNowDoc:             "NowDoc",
	ModeHereDoc:            "HereDoc",
	ModeEndHereDoc:         "EndHereDoc",
	ModeBacktick:           "Backtick",
	ModeVarOffset:          "VarOffset",
	ModeLookingForVarName:  "LookingForVarName",
}

func (m LexerMode) String() string {
	if int(m) < len(lexerModeNames) {
		return lexerModeNames[m]
	}
	return "Unknown"
}

// Token is a lexeme of the source. Its text is never stored; it is the
// source slice [Offset, Offset+Length).
type Token struct {
	Kind   TokenKind
	Offset int
	Length int
	// ModeStack is the lexer mode stack at the moment the token began,
	// bottom first. It is shared between tokens and must not be modified.
	ModeStack []LexerMode
}

func (t *Token) End() int {
	return t.Offset + t.Length
}

func (t *Token) Text(src []byte) string {
	if t.Offset >= len(src) {
		return ""
	}
	end := t.End()
	if end > len(src) {
		end = len(src)
	}
	return string(src[t.Offset:end])
}

func (t *Token) isNode() {}
