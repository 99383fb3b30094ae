package parser

import (
	"reflect"
	"strings"
	"testing"
)

// firstStatement returns the first phrase directly below the root.
func firstStatement(t *testing.T, root *Phrase) *Phrase {
	t.Helper()
	for _, c := range root.Children {
		if ph, ok := c.(*Phrase); ok {
			return ph
		}
	}
	t.Fatalf("no statement in\n%s", Dump(nil, root))
	return nil
}

// firstExpression parses src, which must hold a single expression
// statement, and returns its expression.
func firstExpression(t *testing.T, src string) Node {
	t.Helper()
	root := Parse([]byte(src))
	if errs := Errors(root); len(errs) > 0 {
		t.Fatalf("unexpected error: %s", errs[0].Message())
	}
	stmt := firstStatement(t, root)
	if stmt.Kind != PhraseExpressionStatement {
		t.Fatalf("got %v, want ExpressionStatement", stmt.Kind)
	}
	return stmt.Children[0]
}

func phraseKinds(ph *Phrase) []PhraseKind {
	var kinds []PhraseKind
	for _, c := range ph.Children {
		if cp, ok := c.(*Phrase); ok {
			kinds = append(kinds, cp.Kind)
		}
	}
	return kinds
}

func mustPhrase(t *testing.T, n Node, kind PhraseKind) *Phrase {
	t.Helper()
	ph, ok := n.(*Phrase)
	if !ok {
		t.Fatalf("got %T, want *Phrase of kind %v", n, kind)
	}
	if ph.Kind != kind {
		t.Fatalf("got %v, want %v", ph.Kind, kind)
	}
	return ph
}

func TestParseStatementKinds(t *testing.T) {
	tests := []struct {
		input    string
		expected PhraseKind
	}{
		{"<?php echo 1;", PhraseEchoIntrinsic},
		{"<?= 1 ?>", PhraseEchoIntrinsic},
		{"<?php $a = 1;", PhraseExpressionStatement},
		{"<?php ;", PhraseNullStatement},
		{"<?php {}", PhraseCompoundStatement},
		{"<?php if ($a) {}", PhraseIfStatement},
		{"<?php while ($a) {}", PhraseWhileStatement},
		{"<?php do {} while ($a);", PhraseDoStatement},
		{"<?php for ($i = 0; $i < 3; $i++) {}", PhraseForStatement},
		{"<?php for (;;) {}", PhraseForStatement},
		{"<?php switch ($a) {}", PhraseSwitchStatement},
		{"<?php break;", PhraseBreakStatement},
		{"<?php continue 2;", PhraseContinueStatement},
		{"<?php return;", PhraseReturnStatement},
		{"<?php global $a, $b;", PhraseGlobalDeclaration},
		{"<?php static $a = 1, $b;", PhraseFunctionStaticDeclaration},
		{"<?php static::f();", PhraseExpressionStatement},
		{"<?php unset($a, $b[1]);", PhraseUnsetIntrinsic},
		{"<?php foreach ($a as $v) {}", PhraseForeachStatement},
		{"<?php declare(strict_types=1);", PhraseDeclareStatement},
		{"<?php try {} finally {}", PhraseTryStatement},
		{"<?php throw $e;", PhraseThrowStatement},
		{"<?php goto end;", PhraseGotoStatement},
		{"<?php end:", PhraseNamedLabelStatement},
		{"<?php const A = 1, B = 2;", PhraseConstDeclaration},
		{"<?php namespace A\\B;", PhraseNamespaceDefinition},
		{"<?php namespace A { }", PhraseNamespaceDefinition},
		{"<?php namespace\\f();", PhraseExpressionStatement},
		{"<?php use A\\B;", PhraseNamespaceUseDeclaration},
		{"<?php function f() {}", PhraseFunctionDeclaration},
		{"<?php function &f() {}", PhraseFunctionDeclaration},
		{"<?php function () {};", PhraseExpressionStatement},
		{"<?php class A {}", PhraseClassDeclaration},
		{"<?php final class A {}", PhraseClassDeclaration},
		{"<?php interface I {}", PhraseInterfaceDeclaration},
		{"<?php trait T {}", PhraseTraitDeclaration},
		{"<?php __halt_compiler();", PhraseHaltCompilerStatement},
		{"html", PhraseInlineText},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			root := Parse([]byte(tt.input))
			if errs := Errors(root); len(errs) > 0 {
				t.Fatalf("unexpected error: %s", errs[0].Message())
			}
			if got := firstStatement(t, root).Kind; got != tt.expected {
				t.Errorf("got %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseExpressionKinds(t *testing.T) {
	tests := []struct {
		input    string
		expected PhraseKind
	}{
		{"<?php $a;", PhraseSimpleVariable},
		{"<?php $$a;", PhraseSimpleVariable},
		{"<?php ${'a'};", PhraseSimpleVariable},
		{"<?php A;", PhraseConstantAccessExpression},
		{"<?php \\A\\B;", PhraseConstantAccessExpression},
		{"<?php f();", PhraseFunctionCallExpression},
		{"<?php $a->b;", PhrasePropertyAccessExpression},
		{"<?php $a->b();", PhraseMethodCallExpression},
		{"<?php $a->{'b'}();", PhraseMethodCallExpression},
		{"<?php A::$b;", PhraseScopedPropertyAccessExpression},
		{"<?php A::b();", PhraseScopedCallExpression},
		{"<?php A::B;", PhraseClassConstantAccessExpression},
		{"<?php A::class;", PhraseClassConstantAccessExpression},
		{"<?php $a[0];", PhraseSubscriptExpression},
		{"<?php $a[];", PhraseSubscriptExpression},
		{"<?php $a++;", PhrasePostfixIncrementExpression},
		{"<?php --$a;", PhrasePrefixDecrementExpression},
		{"<?php -$a;", PhraseUnaryOpExpression},
		{"<?php (int)$a;", PhraseCastExpression},
		{"<?php @f();", PhraseErrorControlExpression},
		{"<?php clone $a;", PhraseCloneExpression},
		{"<?php print $a;", PhrasePrintIntrinsic},
		{"<?php new A;", PhraseObjectCreationExpression},
		{"<?php new A(1);", PhraseObjectCreationExpression},
		{"<?php new class(1) extends B {};", PhraseObjectCreationExpression},
		{"<?php [1, 2];", PhraseArrayCreationExpression},
		{"<?php array('a' => 1);", PhraseArrayCreationExpression},
		{"<?php list($a, , $b) = $c;", PhraseSimpleAssignmentExpression},
		{"<?php [$a, $b] = $c;", PhraseSimpleAssignmentExpression},
		{"<?php isset($a, $b);", PhraseIssetIntrinsic},
		{"<?php empty($a);", PhraseEmptyIntrinsic},
		{"<?php eval('1');", PhraseEvalIntrinsic},
		{"<?php exit;", PhraseExitIntrinsic},
		{"<?php die(1);", PhraseExitIntrinsic},
		{"<?php ($a);", PhraseEncapsulatedExpression},
		{"<?php `ls`;", PhraseShellCommandExpression},
		{"<?php \"a$b\";", PhraseDoubleQuotedStringLiteral},
		{"<?php include 'a.php';", PhraseIncludeExpression},
		{"<?php require_once 'a.php';", PhraseRequireOnceExpression},
		{"<?php $a =& $b;", PhraseByRefAssignmentExpression},
		{"<?php $a = &$b;", PhraseByRefAssignmentExpression},
		{"<?php $a .= 'x';", PhraseCompoundAssignmentExpression},
		{"<?php $a ??= 1;", PhraseCompoundAssignmentExpression},
		{"<?php $a ? 1 : 2;", PhraseTernaryExpression},
		{"<?php $a ?: 2;", PhraseTernaryExpression},
		{"<?php $a ?? 1;", PhraseCoalesceExpression},
		{"<?php $a instanceof B;", PhraseInstanceOfExpression},
		{"<?php $a <=> $b;", PhraseEqualityExpression},
		{"<?php $a < $b;", PhraseRelationalExpression},
		{"<?php $a << 1;", PhraseShiftExpression},
		{"<?php $a | 1;", PhraseBitwiseExpression},
		{"<?php $a && $b;", PhraseLogicalExpression},
		{"<?php $a and $b;", PhraseLogicalExpression},
		{"<?php $a . 'x';", PhraseAdditiveExpression},
		{"<?php $a % 2;", PhraseMultiplicativeExpression},
		{"<?php static function () {};", PhraseAnonymousFunctionCreationExpression},
		{"<?php function ($a) use (&$b): int { return $a; };", PhraseAnonymousFunctionCreationExpression},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expr := firstExpression(t, tt.input)
			mustPhrase(t, expr, tt.expected)
		})
	}
}

func TestParseYield(t *testing.T) {
	tests := []struct {
		input    string
		expected PhraseKind
	}{
		{"<?php function f() { yield; }", PhraseYieldExpression},
		{"<?php function f() { yield $a => $b; }", PhraseYieldExpression},
		{"<?php function f() { yield from g(); }", PhraseYieldFromExpression},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			root := Parse([]byte(tt.input))
			if errs := Errors(root); len(errs) > 0 {
				t.Fatalf("unexpected error: %s", errs[0].Message())
			}
			found := false
			Inspect(root, func(n Node) bool {
				if ph, ok := n.(*Phrase); ok && ph.Kind == tt.expected {
					found = true
				}
				return n != nil
			})
			if !found {
				t.Errorf("no %v in\n%s", tt.expected, Dump([]byte(tt.input), root))
			}
		})
	}
}

func TestParsePrecedence(t *testing.T) {
	t.Run("multiplication binds tighter", func(t *testing.T) {
		expr := mustPhrase(t, firstExpression(t, "<?php 1 + 2 * 3;"), PhraseAdditiveExpression)
		if got := phraseKinds(expr); !reflect.DeepEqual(got, []PhraseKind{PhraseMultiplicativeExpression}) {
			t.Errorf("got %v, want [MultiplicativeExpression]", got)
		}
	})

	t.Run("subtraction is left associative", func(t *testing.T) {
		expr := mustPhrase(t, firstExpression(t, "<?php 1 - 2 - 3;"), PhraseAdditiveExpression)
		lhs := mustPhrase(t, expr.Children[0], PhraseAdditiveExpression)
		if tok, ok := expr.Children[len(expr.Children)-1].(*Token); !ok || tok.Kind != TokenIntegerLiteral {
			t.Errorf("right operand: got %T, want IntegerLiteral", expr.Children[len(expr.Children)-1])
		}
		if got := Text([]byte("<?php 1 - 2 - 3;"), lhs); got != "1 - 2" {
			t.Errorf("got %q, want %q", got, "1 - 2")
		}
	})

	t.Run("exponentiation is right associative", func(t *testing.T) {
		src := "<?php $a ** $b ** $c;"
		expr := mustPhrase(t, firstExpression(t, src), PhraseExponentiationExpression)
		mustPhrase(t, expr.Children[0], PhraseSimpleVariable)
		rhs := mustPhrase(t, expr.Children[len(expr.Children)-1], PhraseExponentiationExpression)
		if got := Text([]byte(src), rhs); got != "$b ** $c" {
			t.Errorf("got %q, want %q", got, "$b ** $c")
		}
	})

	t.Run("assignment is right associative", func(t *testing.T) {
		expr := mustPhrase(t, firstExpression(t, "<?php $a = $b = 1;"), PhraseSimpleAssignmentExpression)
		mustPhrase(t, expr.Children[len(expr.Children)-1], PhraseSimpleAssignmentExpression)
	})

	t.Run("coalesce is right associative", func(t *testing.T) {
		expr := mustPhrase(t, firstExpression(t, "<?php $a ?? $b ?? $c;"), PhraseCoalesceExpression)
		mustPhrase(t, expr.Children[0], PhraseSimpleVariable)
		mustPhrase(t, expr.Children[len(expr.Children)-1], PhraseCoalesceExpression)
	})

	t.Run("assignment below negation", func(t *testing.T) {
		expr := mustPhrase(t, firstExpression(t, "<?php !$a = f();"), PhraseUnaryOpExpression)
		mustPhrase(t, expr.Children[len(expr.Children)-1], PhraseSimpleAssignmentExpression)
	})

	t.Run("and binds tighter than or", func(t *testing.T) {
		src := "<?php $a || $b && $c;"
		expr := mustPhrase(t, firstExpression(t, src), PhraseLogicalExpression)
		rhs := mustPhrase(t, expr.Children[len(expr.Children)-1], PhraseLogicalExpression)
		if got := Text([]byte(src), rhs); got != "$b && $c" {
			t.Errorf("got %q, want %q", got, "$b && $c")
		}
	})

	t.Run("assignment binds tighter than and keyword", func(t *testing.T) {
		src := "<?php $a = $b and $c;"
		expr := mustPhrase(t, firstExpression(t, src), PhraseLogicalExpression)
		mustPhrase(t, expr.Children[0], PhraseSimpleAssignmentExpression)
	})

	t.Run("unary minus below exponentiation", func(t *testing.T) {
		expr := mustPhrase(t, firstExpression(t, "<?php -2 ** 2;"), PhraseUnaryOpExpression)
		mustPhrase(t, expr.Children[len(expr.Children)-1], PhraseExponentiationExpression)
	})

	t.Run("ternary is left associative", func(t *testing.T) {
		expr := mustPhrase(t, firstExpression(t, "<?php $a ? 1 : $b ? 2 : 3;"), PhraseTernaryExpression)
		mustPhrase(t, expr.Children[0], PhraseTernaryExpression)
	})

	t.Run("chained comparison still parsed left to right", func(t *testing.T) {
		src := []byte("<?php 1 < 2 < 3;")
		root := Parse(src)
		expr := mustPhrase(t, firstStatement(t, root).Children[0], PhraseRelationalExpression)
		lhs := mustPhrase(t, expr.Children[0], PhraseRelationalExpression)
		if got := Text(src, lhs); got != "1 < 2" {
			t.Errorf("got %q, want %q", got, "1 < 2")
		}
		if errs := Errors(expr); len(errs) != 1 || errs[0].Unexpected.Offset != 12 {
			t.Errorf("got %d errors, want one at the second <", len(errs))
		}
		assertLossless(t, src, root)
	})

	t.Run("member access chain", func(t *testing.T) {
		src := "<?php $a->b()->c[0];"
		expr := mustPhrase(t, firstExpression(t, src), PhraseSubscriptExpression)
		call := mustPhrase(t, expr.Children[0], PhrasePropertyAccessExpression)
		mustPhrase(t, call.Children[0], PhraseMethodCallExpression)
	})
}

func TestParseInterpolatedString(t *testing.T) {
	src := []byte(`<?php "Hello $name!";`)
	root := Parse(src)
	if errs := Errors(root); len(errs) > 0 {
		t.Fatalf("unexpected error: %s", errs[0].Message())
	}
	str := mustPhrase(t, firstStatement(t, root).Children[0], PhraseDoubleQuotedStringLiteral)

	var got []string
	for _, c := range str.Children {
		switch c := c.(type) {
		case *Token:
			got = append(got, c.Kind.String())
		case *Phrase:
			got = append(got, c.Kind.String())
		}
	}
	want := []string{"DoubleQuote", "EncapsulatedAndWhitespace", "SimpleVariable", "EncapsulatedAndWhitespace", "DoubleQuote"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	v := str.ChildPhrase(PhraseSimpleVariable)
	if tok := v.ChildToken(TokenVariableName); tok == nil || tok.Text(src) != "$name" {
		t.Errorf("got %v, want VariableName $name", tok)
	}
}

func TestParseInterpolationForms(t *testing.T) {
	tests := []struct {
		input    string
		expected PhraseKind
	}{
		{`<?php "$a[0]";`, PhraseSubscriptExpression},
		{`<?php "$a[-1]";`, PhraseSubscriptExpression},
		{`<?php "$a[key]";`, PhraseSubscriptExpression},
		{`<?php "$a[$i]";`, PhraseSubscriptExpression},
		{`<?php "$a->b";`, PhrasePropertyAccessExpression},
		{`<?php "{$a->b()}";`, PhraseEncapsulatedVariable},
		{`<?php "${a}";`, PhraseEncapsulatedVariable},
		{`<?php "${a[1]}";`, PhraseEncapsulatedVariable},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			root := Parse([]byte(tt.input))
			if errs := Errors(root); len(errs) > 0 {
				t.Fatalf("unexpected error: %s", errs[0].Message())
			}
			str := mustPhrase(t, firstStatement(t, root).Children[0], PhraseDoubleQuotedStringLiteral)
			if got := phraseKinds(str); !reflect.DeepEqual(got, []PhraseKind{tt.expected}) {
				t.Errorf("got %v, want [%v]", got, tt.expected)
			}
		})
	}
}

func TestParseHeredoc(t *testing.T) {
	src := []byte("<?php $x = <<<EOT\nHi $name\nEOT;\n")
	root := Parse(src)
	if errs := Errors(root); len(errs) > 0 {
		t.Fatalf("unexpected error: %s", errs[0].Message())
	}
	assign := mustPhrase(t, firstStatement(t, root).Children[0], PhraseSimpleAssignmentExpression)
	doc := mustPhrase(t, assign.Children[len(assign.Children)-1], PhraseHeredocStringLiteral)
	if doc.ChildToken(TokenStartHeredoc) == nil || doc.ChildToken(TokenEndHeredoc) == nil {
		t.Errorf("heredoc delimiters missing:\n%s", Dump(src, doc))
	}
	if doc.ChildPhrase(PhraseSimpleVariable) == nil {
		t.Errorf("interpolated variable missing:\n%s", Dump(src, doc))
	}
}

func TestParseFunctionDeclaration(t *testing.T) {
	src := []byte("<?php function f($a, $b = 1) {}")
	root := Parse(src)
	if errs := Errors(root); len(errs) > 0 {
		t.Fatalf("unexpected error: %s", errs[0].Message())
	}
	fn := mustPhrase(t, firstStatement(t, root), PhraseFunctionDeclaration)
	header := fn.ChildPhrase(PhraseFunctionDeclarationHeader)
	if header == nil {
		t.Fatal("missing header")
	}
	if name := header.ChildToken(TokenName); name == nil || name.Text(src) != "f" {
		t.Errorf("got name %v, want f", name)
	}
	params := header.ChildPhrase(PhraseParameterDeclarationList).ChildPhrases(PhraseParameterDeclaration)
	if len(params) != 2 {
		t.Fatalf("got %d parameters, want 2", len(params))
	}
	if params[0].ChildToken(TokenEquals) != nil {
		t.Error("first parameter has a default")
	}
	if params[1].ChildToken(TokenEquals) == nil || params[1].ChildToken(TokenIntegerLiteral) == nil {
		t.Errorf("second parameter default missing:\n%s", Dump(src, params[1]))
	}
	if fn.ChildPhrase(PhraseFunctionDeclarationBody) == nil {
		t.Error("missing body")
	}
}

func TestParseClassDeclaration(t *testing.T) {
	src := []byte(`<?php
abstract class A extends B implements C, D {
    use T { foo as protected bar; T::baz insteadof U; }
    const X = 1, Y = 2;
    public static $p = [], $q;
    abstract protected function m(?int $x, string ...$rest): ?array;
    public function __construct(array &$a = null) { return; }
    function list() {}
}
`)
	root := Parse(src)
	if errs := Errors(root); len(errs) > 0 {
		t.Fatalf("unexpected error: %s\n%s", errs[0].Message(), Dump(src, root))
	}
	class := mustPhrase(t, firstStatement(t, root), PhraseClassDeclaration)
	header := class.ChildPhrase(PhraseClassDeclarationHeader)
	if header.ChildPhrase(PhraseClassModifiers) == nil {
		t.Error("missing modifiers")
	}
	if header.ChildPhrase(PhraseClassBaseClause) == nil || header.ChildPhrase(PhraseClassInterfaceClause) == nil {
		t.Error("missing base or interface clause")
	}
	members := class.ChildPhrase(PhraseClassDeclarationBody).ChildPhrase(PhraseClassMemberDeclarationList)
	want := []PhraseKind{
		PhraseTraitUseClause, PhraseClassConstDeclaration, PhrasePropertyDeclaration,
		PhraseMethodDeclaration, PhraseMethodDeclaration, PhraseMethodDeclaration,
	}
	if got := phraseKinds(members); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseNamespaceUse(t *testing.T) {
	src := "<?php namespace A\\B; use C\\D as E, F; use function G\\{h, i as j};"
	root := Parse([]byte(src))
	if errs := Errors(root); len(errs) > 0 {
		t.Fatalf("unexpected error: %s", errs[0].Message())
	}
	want := []PhraseKind{PhraseNamespaceDefinition, PhraseNamespaceUseDeclaration, PhraseNamespaceUseDeclaration}
	if got := phraseKinds(root); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	group := root.ChildPhrases(PhraseNamespaceUseDeclaration)[1]
	if group.ChildPhrase(PhraseNamespaceUseGroupClauseList) == nil {
		t.Errorf("missing group clause list:\n%s", Dump([]byte(src), group))
	}
}

func TestParseWellFormed(t *testing.T) {
	tests := []string{
		"<?php if ($a): echo 1; elseif ($b): echo 2; else: echo 3; endif;",
		"<?php if ($a) echo 1; elseif ($b) echo 2; else echo 3;",
		"<?php while ($a): $a--; endwhile;",
		"<?php for ($i = 0, $j = 1; $i < 3; $i++, $j++): endfor;",
		"<?php foreach ($a as $k => &$v) {}",
		"<?php foreach ($a as list($x, $y)): endforeach;",
		"<?php switch ($a) { case 1: echo 1; break; default: echo 2; }",
		"<?php switch ($a): case 1; endswitch;",
		"<?php declare(ticks=1) { }",
		"<?php try { } catch (A | B $e) { } finally { }",
		"<?php function f() { static $a = 1, $b; }",
		"<?php interface I extends J, K { public function f(); const C = 1; }",
		"<?php trait T { abstract public function f(); }",
		"<?php $f = static function ($x) use (&$y): int { return $x; };",
		"<?php $a = new $b->c['d'];",
		"<?php $a = new static;",
		"<?php echo $a, $b;",
		"<?php $a = [1, 'k' => 2, &$c];",
		"<?php f(...$args);",
		"<?php $a::{'b'}();",
		"<?php $obj->list = 1; A::new();",
		"<?php ?>text<?php echo 1; ?>",
		"<?php echo 1 ?>",
		"<?php $x = <<<'N'\nraw\nN;\n",
	}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			root := Parse([]byte(input))
			if errs := Errors(root); len(errs) > 0 {
				t.Errorf("unexpected error: %s\n%s", errs[0].Message(), Dump([]byte(input), root))
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input      string
		count      int
		expected   TokenKind
		unexpected TokenKind
	}{
		{"<?php $a = ;", 1, TokenNone, TokenSemicolon},
		{"<?php echo 1", 1, TokenSemicolon, TokenEndOfFile},
		{"<?php $a = 1 2;", 1, TokenSemicolon, TokenIntegerLiteral},
		{"<?php \x01 echo 1;", 1, TokenNone, TokenUnknown},
		{"<?php }", 1, TokenNone, TokenCloseBrace},
		{"<?php if (true) { echo 1 }", 1, TokenSemicolon, TokenCloseBrace},
		{"<?php class {}", 1, TokenName, TokenOpenBrace},
		{"<?php function f( {}", 1, TokenNone, TokenOpenBrace},
		{"<?php $a = ); echo 2;", 1, TokenNone, TokenCloseParenthesis},
		{"<?php if ($a] { echo 1; }", 1, TokenCloseParenthesis, TokenCloseBracket},
		{"<?php while ($a] { echo 1; }", 1, TokenCloseParenthesis, TokenCloseBracket},
		{"<?php foreach ($a as $v] { echo 1; }", 1, TokenCloseParenthesis, TokenCloseBracket},
		{"<?php 1 < 2 < 3;", 1, TokenNone, TokenLessThan},
		{"<?php $a == $b != $c;", 1, TokenNone, TokenExclamationEquals},
		{"<?php $a instanceof B instanceof C;", 1, TokenNone, TokenInstanceOf},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			src := []byte(tt.input)
			errs := Errors(Parse(src))
			if len(errs) != tt.count {
				t.Fatalf("got %d errors, want %d\n%s", len(errs), tt.count, Dump(src, Parse(src)))
			}
			if errs[0].Expected != tt.expected {
				t.Errorf("expected: got %v, want %v", errs[0].Expected, tt.expected)
			}
			if errs[0].Unexpected.Kind != tt.unexpected {
				t.Errorf("unexpected: got %v, want %v", errs[0].Unexpected.Kind, tt.unexpected)
			}
		})
	}
}

func TestParseErrorPlacement(t *testing.T) {
	t.Run("missing semicolon stays in echo", func(t *testing.T) {
		root := Parse([]byte("<?php if (true) { echo 1 }"))
		ifStmt := mustPhrase(t, firstStatement(t, root), PhraseIfStatement)
		block := ifStmt.ChildPhrase(PhraseCompoundStatement)
		echo := block.ChildPhrase(PhraseStatementList).ChildPhrase(PhraseEchoIntrinsic)
		if echo == nil {
			t.Fatal("missing echo")
		}
		var found bool
		for _, c := range echo.Children {
			if _, ok := c.(*ParseError); ok {
				found = true
			}
		}
		if !found {
			t.Error("error not attached to EchoIntrinsic")
		}
		if block.ChildToken(TokenCloseBrace) == nil {
			t.Error("block lost its closing brace")
		}
	})

	t.Run("class body still parsed", func(t *testing.T) {
		root := Parse([]byte("<?php class { public $a; }"))
		class := mustPhrase(t, firstStatement(t, root), PhraseClassDeclaration)
		body := class.ChildPhrase(PhraseClassDeclarationBody)
		if body == nil || body.ChildPhrase(PhraseClassMemberDeclarationList) == nil {
			t.Error("class body not parsed")
		}
	})

	t.Run("wrong closing parenthesis keeps the body", func(t *testing.T) {
		src := []byte("<?php if ($a] { echo 1; }")
		root := Parse(src)
		if got := phraseKinds(root); !reflect.DeepEqual(got, []PhraseKind{PhraseIfStatement}) {
			t.Fatalf("got %v, want [IfStatement]\n%s", got, Dump(src, root))
		}
		ifStmt := mustPhrase(t, firstStatement(t, root), PhraseIfStatement)
		if ifStmt.ChildPhrase(PhraseCompoundStatement) == nil {
			t.Errorf("block not attached to IfStatement\n%s", Dump(src, root))
		}
		errs := Errors(ifStmt)
		if len(errs) != 1 || Text(src, errs[0]) != "]" {
			t.Errorf("got %d errors, want one covering %q", len(errs), "]")
		}
		assertLossless(t, src, root)
	})

	t.Run("unexpected token skipped once", func(t *testing.T) {
		src := []byte("<?php $a = ); echo 2;")
		root := Parse(src)
		errs := Errors(root)
		if len(errs) != 1 || Text(src, errs[0]) != " )" {
			t.Errorf("got %d errors, want one covering %q\n%s", len(errs), " )", Dump(src, root))
		}
		stmt := firstStatement(t, root)
		if stmt.ChildToken(TokenSemicolon) == nil {
			t.Error("semicolon not consumed")
		}
		assertLossless(t, src, root)
	})

	t.Run("spurious token skipped", func(t *testing.T) {
		src := []byte("<?php $a = 1 2;")
		stmt := firstStatement(t, Parse(src))
		errs := Errors(stmt)
		if len(errs) != 1 || Text(src, errs[0]) != " 2" {
			t.Errorf("got %d errors, want one covering %q", len(errs), " 2")
		}
		if stmt.ChildToken(TokenSemicolon) == nil {
			t.Error("semicolon not consumed")
		}
	})
}

func TestParseHaltCompiler(t *testing.T) {
	src := []byte("<?php __halt_compiler(); raw ?> data <?php echo")
	root := Parse(src)
	if errs := Errors(root); len(errs) > 0 {
		t.Fatalf("unexpected error: %s", errs[0].Message())
	}
	halt := mustPhrase(t, firstStatement(t, root), PhraseHaltCompilerStatement)
	last, ok := halt.Children[len(halt.Children)-1].(*Token)
	if !ok || last.Kind != TokenText {
		t.Fatalf("got %v, want trailing Text token", halt.Children[len(halt.Children)-1])
	}
	if got, want := last.Text(src), " raw ?> data <?php echo"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParseClosedByTag(t *testing.T) {
	src := []byte("<?php echo 1 ?>x<?php echo 2 ?>")
	root := Parse(src)
	if errs := Errors(root); len(errs) > 0 {
		t.Fatalf("unexpected error: %s", errs[0].Message())
	}
	want := []PhraseKind{PhraseEchoIntrinsic, PhraseInlineText, PhraseEchoIntrinsic}
	if got := phraseKinds(root); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseDepthLimit(t *testing.T) {
	t.Run("parentheses", func(t *testing.T) {
		src := []byte("<?php " + strings.Repeat("(", 100) + "1" + strings.Repeat(")", 100) + ";")
		root := Parse(src, WithMaxDepth(16))
		if len(Errors(root)) == 0 {
			t.Error("expected a depth error")
		}
		assertLossless(t, src, root)
	})

	t.Run("blocks", func(t *testing.T) {
		src := []byte("<?php " + strings.Repeat("{", 5000) + strings.Repeat("}", 5000))
		root := Parse(src)
		if len(Errors(root)) == 0 {
			t.Error("expected a depth error")
		}
		assertLossless(t, src, root)
	})

	t.Run("within limit", func(t *testing.T) {
		src := []byte("<?php " + strings.Repeat("(", 100) + "1" + strings.Repeat(")", 100) + ";")
		if errs := Errors(Parse(src)); len(errs) > 0 {
			t.Errorf("unexpected error: %s", errs[0].Message())
		}
	})
}

func TestParseDocComments(t *testing.T) {
	src := []byte(`<?php
/** fn */
function f() {}
function g() {}
/** cls */
class A {
    /** prop */
    public $p;
    /** meth */
    public function m() {}
}
`)
	doc := ParseDocument(src, WithDocComments())
	if errs := doc.Errors(); len(errs) > 0 {
		t.Fatalf("unexpected error: %s", errs[0].Message())
	}
	fns := doc.Root.ChildPhrases(PhraseFunctionDeclaration)
	class := doc.Root.ChildPhrase(PhraseClassDeclaration)
	members := class.ChildPhrase(PhraseClassDeclarationBody).ChildPhrase(PhraseClassMemberDeclarationList)

	tests := []struct {
		name string
		ph   *Phrase
		want string
	}{
		{"function", fns[0], "/** fn */"},
		{"undocumented function", fns[1], ""},
		{"class", class, "/** cls */"},
		{"property", members.ChildPhrase(PhrasePropertyDeclaration), "/** prop */"},
		{"method", members.ChildPhrase(PhraseMethodDeclaration), "/** meth */"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ""
			if tok := doc.DocComment(tt.ph); tok != nil {
				got = tok.Text(src)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseTokensMatchesParse(t *testing.T) {
	src := []byte("<?php class A { function f($x) { return \"$x\"; } }")
	want := Dump(src, Parse(src))
	if got := Dump(src, ParseTokens(src, Tokenize(src))); got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
}

var parserCorpus = append([]string{
	"<?php if (",
	"<?php function f(",
	"<?php class A { public function }",
	"<?php $a = [1, 2",
	"<?php $a->",
	"<?php A::",
	"<?php new",
	"<?php \"$a->",
	"<?php foreach ($a as) {}",
	"<?php switch ($a) { case }",
	"<?php use A\\{",
	"<?php } } ) ] ; ;",
	"<?php try {} catch",
	"<?php $a ? : ;",
	"<?php list(,,) = ;",
	"<?php interface { const }",
	"<?php trait T { use A { B::c insteadof } }",
	"<?php declare(",
	"<?php ${",
	"<?php static $",
	"<?php function (",
	"<?php $a = ); echo 2;",
	"<?php if ($a] { echo 1; } while ($b) ] {}",
	"<?php for ($i = 0; $i < 1; $i++] {} 1 == 2 == 3;",
	"<?php class { public $a; } $x = \n\t) ;",
}, lexerCorpus...)

func assertLossless(t *testing.T, src []byte, root *Phrase) {
	t.Helper()
	var b strings.Builder
	offset := 0
	for _, tok := range Tokens(root) {
		if tok.Offset != offset {
			t.Fatalf("token %v at %d, want %d", tok.Kind, tok.Offset, offset)
		}
		b.WriteString(tok.Text(src))
		offset = tok.End()
	}
	if b.String() != string(src) {
		t.Errorf("got %q, want %q", b.String(), src)
	}
}

func TestParseLossless(t *testing.T) {
	for _, input := range parserCorpus {
		t.Run(input, func(t *testing.T) {
			assertLossless(t, []byte(input), Parse([]byte(input)))
		})
	}
}

func TestParseErrorsInvalidInput(t *testing.T) {
	for _, input := range parserCorpus[:21] {
		t.Run(input, func(t *testing.T) {
			if len(Errors(Parse([]byte(input)))) == 0 {
				t.Errorf("expected errors for %q", input)
			}
		})
	}
}
