// Package parser provides an error-tolerant, full-fidelity parser for PHP 7
// source code.
//
// # Overview
//
// The parser turns source bytes into a concrete syntax tree (CST). Every byte
// of input, including whitespace, comments and the <?php and ?> tags, is
// covered by exactly one token in the tree, so the source can be rebuilt from
// the tree and every diagnostic can be anchored to a precise span.
//
// # Architecture
//
//	┌─────────────┐     ┌─────────────┐     ┌───────────────┐     ┌─────────────┐
//	│   Source    │────▶│   Lexer     │────▶│ TokenIterator │────▶│   Parser    │
//	│  (bytes)    │     │ (mode stack)│     │ (trivia, peek)│     │   (CST)     │
//	└─────────────┘     └─────────────┘     └───────────────┘     └─────────────┘
//	                                                                     │
//	                                                                     ▼
//	                                                              ┌─────────────┐
//	                                                              │ ParseError  │
//	                                                              │  Recovery   │
//	                                                              └─────────────┘
//
// # Lexer
//
// PHP's lexical grammar depends on context: the same characters mean
// different things inside an interpolated string, a heredoc or after "->".
// The lexer keeps an explicit stack of modes and the mode on top selects an
// ordered rule table:
//
//	ModeInitial            inline text up to an open tag
//	ModeScripting          keywords, operators, literals
//	ModeLookingForProperty a name right after ->
//	ModeDoubleQuotes       "..." with interpolation
//	ModeHereDoc            <<<LABEL with interpolation
//	ModeNowDoc             <<<'LABEL' without interpolation
//	ModeEndHereDoc         the closing label
//	ModeBacktick           `...` with interpolation
//	ModeVarOffset          [offset] after an interpolated variable
//	ModeLookingForVarName  a name right after ${
//
// Within a table the first matching rule wins. Keywords are listed before
// the generic name rule and only match on a word boundary.
//
// A token stores its kind, offset, length and the mode stack at the moment
// it began. Text is never copied:
//
//	type Token struct {
//	    Kind      TokenKind
//	    Offset    int
//	    Length    int
//	    ModeStack []LexerMode
//	}
//
// Lexing can resume from the middle of a document with ResumeLexer and the
// LexerState captured from an earlier token.
//
// # Tree
//
// A Node is a *Token, a *Phrase or a *ParseError:
//
//	type Phrase struct {
//	    Kind     PhraseKind
//	    Children []Node
//	}
//
//	type ParseError struct {
//	    Phrase               // Kind is PhraseError; children are skipped tokens
//	    Unexpected Token
//	    Expected   TokenKind // TokenNone when no single kind was expected
//	}
//
// Literals and names appear as bare tokens. Trivia is attached to the phrase
// that was open when it was read, so that a depth-first walk over the tree
// yields every token in source order.
//
// # Error Recovery
//
// Parse never fails. An unexpected token is recorded as a ParseError on the
// phrase being built, then the parser tries in order:
//
//  1. Dropping the token if the one after it is the expected one.
//  2. Accepting the token in place of the expected one if the token after it
//     can continue the enclosing construct.
//  3. Skipping tokens until one can start a list element or belongs to the
//     follow set of an enclosing production.
//
// While an error is pending further errors are suppressed until a token is
// consumed normally, which keeps one mistake from producing a cascade.
//
// # Usage
//
//	src := []byte("<?php echo 1 + 2 * 3;")
//	root := parser.Parse(src)
//	for _, err := range parser.Errors(root) {
//	    fmt.Println(err.Message())
//	}
//	fmt.Print(parser.Dump(src, root))
//
// ParseDocument additionally builds a line index and, with WithDocComments,
// records the doc comment in front of each declaration.
package parser
