package parser

// PhraseKind names a non-terminal of the concrete syntax tree.
type PhraseKind uint8

const (
	PhraseUnknown PhraseKind = iota
	PhraseAdditiveExpression
	PhraseAnonymousClassDeclaration
	PhraseAnonymousClassDeclarationHeader
	PhraseAnonymousFunctionCreationExpression
	PhraseAnonymousFunctionHeader
	PhraseAnonymousFunctionUseClause
	PhraseAnonymousFunctionUseVariable
	PhraseArgumentExpressionList
	PhraseArrayCreationExpression
	PhraseArrayElement
	PhraseArrayInitialiserList
	PhraseArrayKey
	PhraseArrayValue
	PhraseBitwiseExpression
	PhraseBreakStatement
	PhraseByRefAssignmentExpression
	PhraseCaseStatement
	PhraseCaseStatementList
	PhraseCastExpression
	PhraseCatchClause
	PhraseCatchClauseList
	PhraseCatchNameList
	PhraseClassBaseClause
	PhraseClassConstantAccessExpression
	PhraseClassConstDeclaration
	PhraseClassConstElement
	PhraseClassConstElementList
	PhraseClassDeclaration
	PhraseClassDeclarationBody
	PhraseClassDeclarationHeader
	PhraseClassInterfaceClause
	PhraseClassMemberDeclarationList
	PhraseClassModifiers
	PhraseClassTypeDesignator
	PhraseCloneExpression
	PhraseClosureUseList
	PhraseCoalesceExpression
	PhraseCompoundAssignmentExpression
	PhraseCompoundStatement
	PhraseConstantAccessExpression
	PhraseConstDeclaration
	PhraseConstElement
	PhraseConstElementList
	PhraseContinueStatement
	PhraseDeclareDirective
	PhraseDeclareStatement
	PhraseDefaultStatement
	PhraseDoStatement
	PhraseDoubleQuotedStringLiteral
	PhraseEchoIntrinsic
	PhraseElseClause
	PhraseElseIfClause
	PhraseElseIfClauseList
	PhraseEmptyIntrinsic
	PhraseEncapsulatedExpression
	PhraseEncapsulatedVariable
	PhraseEqualityExpression
	PhraseError
	PhraseErrorControlExpression
	PhraseEvalIntrinsic
	PhraseExitIntrinsic
	PhraseExponentiationExpression
	PhraseExpressionList
	PhraseExpressionStatement
	PhraseFinallyClause
	PhraseForControl
	PhraseForeachCollection
	PhraseForeachKey
	PhraseForeachStatement
	PhraseForeachValue
	PhraseForEndOfLoop
	PhraseForExpressionGroup
	PhraseForInitialiser
	PhraseForStatement
	PhraseFullyQualifiedName
	PhraseFunctionCallExpression
	PhraseFunctionDeclaration
	PhraseFunctionDeclarationBody
	PhraseFunctionDeclarationHeader
	PhraseFunctionStaticDeclaration
	PhraseFunctionStaticInitialiser
	PhraseGlobalDeclaration
	PhraseGotoStatement
	PhraseHaltCompilerStatement
	PhraseHeredocStringLiteral
	PhraseIdentifier
	PhraseIfStatement
	PhraseIncludeExpression
	PhraseIncludeOnceExpression
	PhraseInlineText
	PhraseInstanceOfExpression
	PhraseInstanceofTypeDesignator
	PhraseInterfaceBaseClause
	PhraseInterfaceDeclaration
	PhraseInterfaceDeclarationBody
	PhraseInterfaceDeclarationHeader
	PhraseInterfaceMemberDeclarationList
	PhraseIssetIntrinsic
	PhraseListIntrinsic
	PhraseLogicalExpression
	PhraseMemberModifierList
	PhraseMethodCallExpression
	PhraseMethodDeclaration
	PhraseMethodDeclarationBody
	PhraseMethodDeclarationHeader
	PhraseMemberName
	PhraseMethodReference
	PhraseMultiplicativeExpression
	PhraseNamedLabelStatement
	PhraseNamespaceAliasingClause
	PhraseNamespaceDefinition
	PhraseNamespaceName
	PhraseNamespaceUseClause
	PhraseNamespaceUseClauseList
	PhraseNamespaceUseDeclaration
	PhraseNamespaceUseGroupClause
	PhraseNamespaceUseGroupClauseList
	PhraseNullStatement
	PhraseObjectCreationExpression
	PhraseParameterDeclaration
	PhraseParameterDeclarationList
	PhrasePostfixDecrementExpression
	PhrasePostfixIncrementExpression
	PhrasePrefixDecrementExpression
	PhrasePrefixIncrementExpression
	PhrasePrintIntrinsic
	PhrasePropertyAccessExpression
	PhrasePropertyDeclaration
	PhrasePropertyElement
	PhrasePropertyElementList
	PhrasePropertyInitialiser
	PhraseQualifiedName
	PhraseQualifiedNameList
	PhraseRelationalExpression
	PhraseRelativeQualifiedName
	PhraseRelativeScope
	PhraseRequireExpression
	PhraseRequireOnceExpression
	PhraseReturnStatement
	PhraseReturnType
	PhraseScopedCallExpression
	PhraseScopedMemberName
	PhraseScopedPropertyAccessExpression
	PhraseShellCommandExpression
	PhraseShiftExpression
	PhraseSimpleAssignmentExpression
	PhraseSimpleVariable
	PhraseStatementList
	PhraseStaticVariableDeclaration
	PhraseStaticVariableDeclarationList
	PhraseSubscriptExpression
	PhraseSwitchStatement
	PhraseTernaryExpression
	PhraseThrowStatement
	PhraseTraitAdaptationList
	PhraseTraitAlias
	PhraseTraitDeclaration
	PhraseTraitDeclarationBody
	PhraseTraitDeclarationHeader
	PhraseTraitMemberDeclarationList
	PhraseTraitPrecedence
	PhraseTraitUseClause
	PhraseTraitUseSpecification
	PhraseTryStatement
	PhraseTypeDeclaration
	PhraseUnaryOpExpression
	PhraseUnsetIntrinsic
	PhraseVariableList
	PhraseVariableNameList
	PhraseVariadicUnpacking
	PhraseWhileStatement
	PhraseYieldExpression
	PhraseYieldFromExpression
)

var phraseKindNames = map[PhraseKind]string{
	PhraseUnknown:                             "Unknown",
	PhraseAdditiveExpression:                  "AdditiveExpression",
	PhraseAnonymousClassDeclaration:           "AnonymousClassDeclaration",
	PhraseAnonymousClassDeclarationHeader:     "AnonymousClassDeclarationHeader",
	PhraseAnonymousFunctionCreationExpression: "AnonymousFunctionCreationExpression",
	PhraseAnonymousFunctionHeader:             "AnonymousFunctionHeader",
	PhraseAnonymousFunctionUseClause:          "AnonymousFunctionUseClause",
	PhraseAnonymousFunctionUseVariable:        "AnonymousFunctionUseVariable",
	PhraseArgumentExpressionList:              "ArgumentExpressionList",
	PhraseArrayCreationExpression:             "ArrayCreationExpression",
	PhraseArrayElement:                        "ArrayElement",
	PhraseArrayInitialiserList:                "ArrayInitialiserList",
	PhraseArrayKey:                            "ArrayKey",
	PhraseArrayValue:                          "ArrayValue",
	PhraseBitwiseExpression:                   "BitwiseExpression",
	PhraseBreakStatement:                      "BreakStatement",
	PhraseByRefAssignmentExpression:           "ByRefAssignmentExpression",
	PhraseCaseStatement:                       "CaseStatement",
	PhraseCaseStatementList:                   "CaseStatementList",
	PhraseCastExpression:                      "CastExpression",
	PhraseCatchClause:                         "CatchClause",
	PhraseCatchClauseList:                     "CatchClauseList",
	PhraseCatchNameList:                       "CatchNameList",
	PhraseClassBaseClause:                     "ClassBaseClause",
	PhraseClassConstantAccessExpression:       "ClassConstantAccessExpression",
	PhraseClassConstDeclaration:               "ClassConstDeclaration",
	PhraseClassConstElement:                   "ClassConstElement",
	PhraseClassConstElementList:               "ClassConstElementList",
	PhraseClassDeclaration:                    "ClassDeclaration",
	PhraseClassDeclarationBody:                "ClassDeclarationBody",
	PhraseClassDeclarationHeader:              "ClassDeclarationHeader",
	PhraseClassInterfaceClause:                "ClassInterfaceClause",
	PhraseClassMemberDeclarationList:          "ClassMemberDeclarationList",
	PhraseClassModifiers:                      "ClassModifiers",
	PhraseClassTypeDesignator:                 "ClassTypeDesignator",
	PhraseCloneExpression:                     "CloneExpression",
	PhraseClosureUseList:                      "ClosureUseList",
	PhraseCoalesceExpression:                  "CoalesceExpression",
	PhraseCompoundAssignmentExpression:        "CompoundAssignmentExpression",
	PhraseCompoundStatement:                   "CompoundStatement",
	PhraseConstantAccessExpression:            "ConstantAccessExpression",
	PhraseConstDeclaration:                    "ConstDeclaration",
	PhraseConstElement:                        "ConstElement",
	PhraseConstElementList:                    "ConstElementList",
	PhraseContinueStatement:                   "ContinueStatement",
	PhraseDeclareDirective:                    "DeclareDirective",
	PhraseDeclareStatement:                    "DeclareStatement",
	PhraseDefaultStatement:                    "DefaultStatement",
	PhraseDoStatement:                         "DoStatement",
	PhraseDoubleQuotedStringLiteral:           "DoubleQuotedStringLiteral",
	PhraseEchoIntrinsic:                       "EchoIntrinsic",
	PhraseElseClause:                          "ElseClause",
	PhraseElseIfClause:                        "ElseIfClause",
	PhraseElseIfClauseList:                    "ElseIfClauseList",
	PhraseEmptyIntrinsic:                      "EmptyIntrinsic",
	PhraseEncapsulatedExpression:              "EncapsulatedExpression",
	PhraseEncapsulatedVariable:                "EncapsulatedVariable",
	PhraseEqualityExpression:                  "EqualityExpression",
	PhraseError:                               "Error",
	PhraseErrorControlExpression:              "ErrorControlExpression",
	PhraseEvalIntrinsic:                       "EvalIntrinsic",
	PhraseExitIntrinsic:                       "ExitIntrinsic",
	PhraseExponentiationExpression:            "ExponentiationExpression",
	PhraseExpressionList:                      "ExpressionList",
	PhraseExpressionStatement:                 "ExpressionStatement",
	PhraseFinallyClause:                       "FinallyClause",
	PhraseForControl:                          "ForControl",
	PhraseForeachCollection:                   "ForeachCollection",
	PhraseForeachKey:                          "ForeachKey",
	PhraseForeachStatement:                    "ForeachStatement",
	PhraseForeachValue:                        "ForeachValue",
	PhraseForEndOfLoop:                        "ForEndOfLoop",
	PhraseForExpressionGroup:                  "ForExpressionGroup",
	PhraseForInitialiser:                      "ForInitialiser",
	PhraseForStatement:                        "ForStatement",
	PhraseFullyQualifiedName:                  "FullyQualifiedName",
	PhraseFunctionCallExpression:              "FunctionCallExpression",
	PhraseFunctionDeclaration:                 "FunctionDeclaration",
	PhraseFunctionDeclarationBody:             "FunctionDeclarationBody",
	PhraseFunctionDeclarationHeader:           "FunctionDeclarationHeader",
	PhraseFunctionStaticDeclaration:           "FunctionStaticDeclaration",
	PhraseFunctionStaticInitialiser:           "FunctionStaticInitialiser",
	PhraseGlobalDeclaration:                   "GlobalDeclaration",
	PhraseGotoStatement:                       "GotoStatement",
	PhraseHaltCompilerStatement:               "HaltCompilerStatement",
	PhraseHeredocStringLiteral:                "HeredocStringLiteral",
	PhraseIdentifier:                          "Identifier",
	PhraseIfStatement:                         "IfStatement",
	PhraseIncludeExpression:                   "IncludeExpression",
	PhraseIncludeOnceExpression:               "IncludeOnceExpression",
	PhraseInlineText:                          "InlineText",
	PhraseInstanceOfExpression:                "InstanceOfExpression",
	PhraseInstanceofTypeDesignator:            "InstanceofTypeDesignator",
	PhraseInterfaceBaseClause:                 "InterfaceBaseClause",
	PhraseInterfaceDeclaration:                "InterfaceDeclaration",
	PhraseInterfaceDeclarationBody:            "InterfaceDeclarationBody",
	PhraseInterfaceDeclarationHeader:          "InterfaceDeclarationHeader",
	PhraseInterfaceMemberDeclarationList:      "InterfaceMemberDeclarationList",
	PhraseIssetIntrinsic:                      "IssetIntrinsic",
	PhraseListIntrinsic:                       "ListIntrinsic",
	PhraseLogicalExpression:                   "LogicalExpression",
	PhraseMemberModifierList:                  "MemberModifierList",
	PhraseMethodCallExpression:                "MethodCallExpression",
	PhraseMethodDeclaration:                   "MethodDeclaration",
	PhraseMethodDeclarationBody:               "MethodDeclarationBody",
	PhraseMethodDeclarationHeader:             "MethodDeclarationHeader",
	PhraseMemberName:                          "MemberName",
	PhraseMethodReference:                     "MethodReference",
	PhraseMultiplicativeExpression:            "MultiplicativeExpression",
	PhraseNamedLabelStatement:                 "NamedLabelStatement",
	PhraseNamespaceAliasingClause:             "NamespaceAliasingClause",
	PhraseNamespaceDefinition:                 "NamespaceDefinition",
	PhraseNamespaceName:                       "NamespaceName",
	PhraseNamespaceUseClause:                  "NamespaceUseClause",
	PhraseNamespaceUseClauseList:              "NamespaceUseClauseList",
	PhraseNamespaceUseDeclaration:             "NamespaceUseDeclaration",
	PhraseNamespaceUseGroupClause:             "NamespaceUseGroupClause",
	PhraseNamespaceUseGroupClauseList:         "NamespaceUseGroupClauseList",
	PhraseNullStatement:                       "NullStatement",
	PhraseObjectCreationExpression:            "ObjectCreationExpression",
	PhraseParameterDeclaration:                "ParameterDeclaration",
	PhraseParameterDeclarationList:            "ParameterDeclarationList",
	PhrasePostfixDecrementExpression:          "PostfixDecrementExpression",
	PhrasePostfixIncrementExpression:          "PostfixIncrementExpression",
	PhrasePrefixDecrementExpression:           "PrefixDecrementExpression",
	PhrasePrefixIncrementExpression:           "PrefixIncrementExpression",
	PhrasePrintIntrinsic:                      "PrintIntrinsic",
	PhrasePropertyAccessExpression:            "PropertyAccessExpression",
	PhrasePropertyDeclaration:                 "PropertyDeclaration",
	PhrasePropertyElement:                     "PropertyElement",
	PhrasePropertyElementList:                 "PropertyElementList",
	PhrasePropertyInitialiser:                 "PropertyInitialiser",
	PhraseQualifiedName:                       "QualifiedName",
	PhraseQualifiedNameList:                   "QualifiedNameList",
	PhraseRelationalExpression:                "RelationalExpression",
	PhraseRelativeQualifiedName:               "RelativeQualifiedName",
	PhraseRelativeScope:                       "RelativeScope",
	PhraseRequireExpression:                   "RequireExpression",
	PhraseRequireOnceExpression:               "RequireOnceExpression",
	PhraseReturnStatement:                     "ReturnStatement",
	PhraseReturnType:                          "ReturnType",
	PhraseScopedCallExpression:                "ScopedCallExpression",
	PhraseScopedMemberName:                    "ScopedMemberName",
	PhraseScopedPropertyAccessExpression:      "ScopedPropertyAccessExpression",
	PhraseShellCommandExpression:              "ShellCommandExpression",
	PhraseShiftExpression:                     "ShiftExpression",
	PhraseSimpleAssignmentExpression:          "SimpleAssignmentExpression",
	PhraseSimpleVariable:                      "SimpleVariable",
	PhraseStatementList:                       "StatementList",
	PhraseStaticVariableDeclaration:           "StaticVariableDeclaration",
	PhraseStaticVariableDeclarationList:       "StaticVariableDeclarationList",
	PhraseSubscriptExpression:                 "SubscriptExpression",
	PhraseSwitchStatement:                     "SwitchStatement",
	PhraseTernaryExpression:                   "TernaryExpression",
	PhraseThrowStatement:                      "ThrowStatement",
	PhraseTraitAdaptationList:                 "TraitAdaptationList",
	PhraseTraitAlias:                          "TraitAlias",
	PhraseTraitDeclaration:                    "TraitDeclaration",
	PhraseTraitDeclarationBody:                "TraitDeclarationBody",
	PhraseTraitDeclarationHeader:              "TraitDeclarationHeader",
	PhraseTraitMemberDeclarationList:          "TraitMemberDeclarationList",
	PhraseTraitPrecedence:                     "TraitPrecedence",
	PhraseTraitUseClause:                      "TraitUseClause",
	PhraseTraitUseSpecification:               "TraitUseSpecification",
	PhraseTryStatement:                        "TryStatement",
	PhraseTypeDeclaration:                     "TypeDeclaration",
	PhraseUnaryOpExpression:                   "UnaryOpExpression",
	PhraseUnsetIntrinsic:                      "UnsetIntrinsic",
	PhraseVariableList:                        "VariableList",
	PhraseVariableNameList:                    "VariableNameList",
	PhraseVariadicUnpacking:                   "VariadicUnpacking",
	PhraseWhileStatement:                      "WhileStatement",
	PhraseYieldExpression:                     "YieldExpression",
	PhraseYieldFromExpression:                 "YieldFromExpression",
}

func (k PhraseKind) String() string {
	if name, ok := phraseKindNames[k]; ok {
		return name
	}
	return "Unknown"
}
