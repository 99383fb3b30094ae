package workspace

import (
	"strings"

	"github.com/dhamidi/phpcst/php/parser"
)

type SymbolKind int

const (
	SymbolNamespace SymbolKind = iota
	SymbolClass
	SymbolInterface
	SymbolTrait
	SymbolFunction
	SymbolMethod
	SymbolProperty
	SymbolConstant
	SymbolClassConstant
)

var symbolKindNames = map[SymbolKind]string{
	SymbolNamespace:     "namespace",
	SymbolClass:         "class",
	SymbolInterface:     "interface",
	SymbolTrait:         "trait",
	SymbolFunction:      "function",
	SymbolMethod:        "method",
	SymbolProperty:      "property",
	SymbolConstant:      "constant",
	SymbolClassConstant: "class constant",
}

func (k SymbolKind) String() string {
	return symbolKindNames[k]
}

// missingName stands in for a declaration whose name failed to parse.
const missingName = "(missing)"

// Symbol is an entry in a document outline. Span covers the whole
// declaration, Selection just its name.
type Symbol struct {
	Name      string
	Kind      SymbolKind
	Span      parser.Span
	Selection parser.Span
	Children  []Symbol
	Doc       string
}

// Outline lists the declarations of a document. Declarations following an
// unbraced namespace statement become children of that namespace.
func Outline(doc *parser.Document) []Symbol {
	o := outliner{doc: doc}
	var out []Symbol
	var ns *Symbol
	for _, stmt := range phrases(doc.Root) {
		if stmt.Kind == parser.PhraseNamespaceDefinition {
			sym := o.namespace(stmt)
			if stmt.ChildPhrase(parser.PhraseCompoundStatement) != nil {
				out = append(out, sym)
				ns = nil
				continue
			}
			out = append(out, sym)
			ns = &out[len(out)-1]
			continue
		}
		syms := o.statement(stmt)
		if ns != nil {
			ns.Children = append(ns.Children, syms...)
			ns.Span.End = o.doc.Span(stmt).End
		} else {
			out = append(out, syms...)
		}
	}
	return out
}

type outliner struct {
	doc *parser.Document
}

func phrases(ph *parser.Phrase) []*parser.Phrase {
	if ph == nil {
		return nil
	}
	var out []*parser.Phrase
	for _, c := range ph.Children {
		if p, ok := c.(*parser.Phrase); ok {
			out = append(out, p)
		}
	}
	return out
}

func (o outliner) symbol(decl *parser.Phrase, kind SymbolKind, name parser.Node) Symbol {
	sym := Symbol{
		Name: missingName,
		Kind: kind,
		Span: o.doc.Span(decl),
	}
	sym.Selection = sym.Span
	if name != nil {
		if text := strings.TrimSpace(o.doc.Text(name)); text != "" {
			sym.Name = text
			sym.Selection = o.doc.Span(name)
		}
	}
	if tok := o.doc.DocComment(decl); tok != nil {
		sym.Doc = tok.Text(o.doc.Source)
	}
	return sym
}

// nameOf returns the Name token below a header phrase, or nil. A typed nil
// must not leak into the Node interface.
func nameOf(header *parser.Phrase) parser.Node {
	if header == nil {
		return nil
	}
	if tok := header.ChildToken(parser.TokenName); tok != nil {
		return tok
	}
	return nil
}

func (o outliner) namespace(ph *parser.Phrase) Symbol {
	var name parser.Node
	if n := ph.ChildPhrase(parser.PhraseNamespaceName); n != nil {
		name = n
	}
	sym := o.symbol(ph, SymbolNamespace, name)
	if name == nil {
		sym.Name = "(global)"
	}
	if body := ph.ChildPhrase(parser.PhraseCompoundStatement); body != nil {
		for _, stmt := range phrases(body.ChildPhrase(parser.PhraseStatementList)) {
			sym.Children = append(sym.Children, o.statement(stmt)...)
		}
	}
	return sym
}

func (o outliner) statement(ph *parser.Phrase) []Symbol {
	switch ph.Kind {
	case parser.PhraseFunctionDeclaration:
		return []Symbol{o.symbol(ph, SymbolFunction, nameOf(ph.ChildPhrase(parser.PhraseFunctionDeclarationHeader)))}
	case parser.PhraseClassDeclaration:
		sym := o.symbol(ph, SymbolClass, nameOf(ph.ChildPhrase(parser.PhraseClassDeclarationHeader)))
		sym.Children = o.members(ph.ChildPhrase(parser.PhraseClassDeclarationBody), parser.PhraseClassMemberDeclarationList)
		return []Symbol{sym}
	case parser.PhraseInterfaceDeclaration:
		sym := o.symbol(ph, SymbolInterface, nameOf(ph.ChildPhrase(parser.PhraseInterfaceDeclarationHeader)))
		sym.Children = o.members(ph.ChildPhrase(parser.PhraseInterfaceDeclarationBody), parser.PhraseInterfaceMemberDeclarationList)
		return []Symbol{sym}
	case parser.PhraseTraitDeclaration:
		sym := o.symbol(ph, SymbolTrait, nameOf(ph.ChildPhrase(parser.PhraseTraitDeclarationHeader)))
		sym.Children = o.members(ph.ChildPhrase(parser.PhraseTraitDeclarationBody), parser.PhraseTraitMemberDeclarationList)
		return []Symbol{sym}
	case parser.PhraseConstDeclaration:
		var out []Symbol
		for _, el := range phrases(ph.ChildPhrase(parser.PhraseConstElementList)) {
			sym := o.symbol(el, SymbolConstant, nameOf(el))
			if tok := o.doc.DocComment(ph); tok != nil {
				sym.Doc = tok.Text(o.doc.Source)
			}
			out = append(out, sym)
		}
		return out
	}
	return nil
}

func (o outliner) members(body *parser.Phrase, listKind parser.PhraseKind) []Symbol {
	if body == nil {
		return nil
	}
	var out []Symbol
	for _, m := range phrases(body.ChildPhrase(listKind)) {
		switch m.Kind {
		case parser.PhraseMethodDeclaration:
			var name parser.Node
			if header := m.ChildPhrase(parser.PhraseMethodDeclarationHeader); header != nil {
				if id := header.ChildPhrase(parser.PhraseIdentifier); id != nil {
					name = id
				}
			}
			out = append(out, o.symbol(m, SymbolMethod, name))
		case parser.PhrasePropertyDeclaration:
			for _, el := range phrases(m.ChildPhrase(parser.PhrasePropertyElementList)) {
				var name parser.Node
				if tok := el.ChildToken(parser.TokenVariableName); tok != nil {
					name = tok
				}
				sym := o.symbol(el, SymbolProperty, name)
				sym.Doc = o.docOf(m)
				out = append(out, sym)
			}
		case parser.PhraseClassConstDeclaration:
			for _, el := range phrases(m.ChildPhrase(parser.PhraseClassConstElementList)) {
				var name parser.Node
				if id := el.ChildPhrase(parser.PhraseIdentifier); id != nil {
					name = id
				}
				sym := o.symbol(el, SymbolClassConstant, name)
				sym.Doc = o.docOf(m)
				out = append(out, sym)
			}
		}
	}
	return out
}

func (o outliner) docOf(ph *parser.Phrase) string {
	if tok := o.doc.DocComment(ph); tok != nil {
		return tok.Text(o.doc.Source)
	}
	return ""
}
