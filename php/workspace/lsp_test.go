package workspace

import (
	"testing"

	"github.com/dhamidi/phpcst/php/parser"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestToProtocolDiagnostics(t *testing.T) {
	doc := parser.ParseDocument([]byte("<?php\necho 1"))
	diags := toProtocolDiagnostics(Diagnose("a.php", doc))
	assert.Assert(t, is.Len(diags, 1))

	d := diags[0]
	assert.Equal(t, d.Message, "unexpected EndOfFile, expected Semicolon")
	assert.Equal(t, *d.Severity, protocol.DiagnosticSeverityError)
	assert.Equal(t, *d.Source, "phpcst")
	assert.Equal(t, d.Range.Start, protocol.Position{Line: 1, Character: 6})
}

func TestToProtocolDiagnosticsEmpty(t *testing.T) {
	diags := toProtocolDiagnostics(nil)
	assert.Assert(t, diags != nil)
	assert.Assert(t, is.Len(diags, 0))
}

func TestToDocumentSymbols(t *testing.T) {
	doc := parser.ParseDocument([]byte("<?php\nclass Foo { function run() {} }\n"))
	syms := toDocumentSymbols(Outline(doc))
	assert.Assert(t, is.Len(syms, 1))

	class := syms[0]
	assert.Equal(t, class.Name, "Foo")
	assert.Equal(t, class.Kind, protocol.SymbolKindClass)
	assert.Equal(t, *class.Detail, "class")
	assert.Equal(t, class.SelectionRange.Start, protocol.Position{Line: 1, Character: 6})
	assert.Assert(t, is.Len(class.Children, 1))

	method := class.Children[0]
	assert.Equal(t, method.Name, "run")
	assert.Equal(t, method.Kind, protocol.SymbolKindMethod)
	assert.Equal(t, method.SelectionRange.Start, protocol.Position{Line: 1, Character: 21})
}

func TestToSymbolKind(t *testing.T) {
	tests := []struct {
		kind SymbolKind
		want protocol.SymbolKind
	}{
		{SymbolNamespace, protocol.SymbolKindNamespace},
		{SymbolTrait, protocol.SymbolKindClass},
		{SymbolInterface, protocol.SymbolKindInterface},
		{SymbolFunction, protocol.SymbolKindFunction},
		{SymbolProperty, protocol.SymbolKindProperty},
		{SymbolClassConstant, protocol.SymbolKindConstant},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, toSymbolKind(tt.kind), tt.want)
		})
	}
}

func TestToPositionClamps(t *testing.T) {
	assert.Equal(t, toPosition(parser.Position{}), protocol.Position{})
}

func TestURIToPath(t *testing.T) {
	path, err := uriToPath("file:///srv/app/src/a%20b.php")
	assert.NilError(t, err)
	assert.Equal(t, path, "/srv/app/src/a b.php")

	path, err = uriToPath("untitled:1")
	assert.NilError(t, err)
	assert.Equal(t, path, "untitled:1")
}
