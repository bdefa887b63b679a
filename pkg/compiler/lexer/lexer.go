// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package lexer

import (
	"strconv"

	"github.com/consensys/go-tinyc/pkg/compiler/token"
	"github.com/consensys/go-tinyc/pkg/util"
	"github.com/consensys/go-tinyc/pkg/util/source"
	"github.com/consensys/go-tinyc/pkg/util/source/lex"
)

// Rule for describing whitespace
var whitespace lex.Scanner[rune] = lex.Many(lex.OneOf(' ', '\t', '\r', '\n'))

// Rule for describing numbers.  This is deliberately loose (any run of digits
// and dots) and malformed runs are rejected when the value is parsed.
var number lex.Scanner[rune] = lex.Many(lex.Or(lex.Within('0', '9'), lex.Unit('.')))

// Rule for describing identifiers
var identifier lex.Scanner[rune] = lex.Many(lex.Or(
	lex.Unit('_'),
	lex.Within('a', 'z'),
	lex.Within('A', 'Z')))

// lexing rules, in priority order.  Two-character operators must come before
// their one-character prefixes.
var rules []lex.LexRule[rune] = []lex.LexRule[rune]{
	lex.Rule(whitespace, token.WHITESPACE),
	lex.Rule(number, token.NUMBER),
	lex.Rule(identifier, token.IDENTIFIER),
	lex.Rule(lex.Unit('=', '='), token.EQUALS_EQUALS),
	lex.Rule(lex.Unit('!', '='), token.NOT_EQUALS),
	lex.Rule(lex.Unit('<', '='), token.LESS_THAN_EQUALS),
	lex.Rule(lex.Unit('>', '='), token.GREATER_THAN_EQUALS),
	lex.Rule(lex.Unit('<'), token.LESS_THAN),
	lex.Rule(lex.Unit('>'), token.GREATER_THAN),
	lex.Rule(lex.Unit('+'), token.ADD),
	lex.Rule(lex.Unit('-'), token.SUB),
	lex.Rule(lex.Unit('*'), token.MUL),
	lex.Rule(lex.Unit('/'), token.DIV),
	lex.Rule(lex.Unit('('), token.LBRACE),
	lex.Rule(lex.Unit(')'), token.RBRACE),
	lex.Rule(lex.Unit(';'), token.SEMICOLON),
	lex.Rule(lex.Unit('='), token.EQUALS),
	lex.Rule(lex.Unit(rune(0)), token.END_OF),
	lex.Rule(lex.Eof[rune](), token.END_OF),
}

// Lexer converts the contents of a source file into a pull-based stream of
// tokens.  Identifiers are resolved against the compilation context owned by
// the caller.
type Lexer struct {
	srcfile *source.File
	lexer   *lex.Lexer[rune]
	context *Context
}

// New constructs a lexer for a given source file and compilation context.
func New(srcfile *source.File, context *Context) *Lexer {
	return &Lexer{srcfile, lex.NewLexer(srcfile.Contents(), rules...), context}
}

// SourceFile returns the source file being lexed.
func (l *Lexer) SourceFile() *source.File {
	return l.srcfile
}

// Context returns the compilation context of this lexer.
func (l *Lexer) Context() *Context {
	return l.context
}

// Next returns the next token and advances past it.  Leading whitespace is
// discarded.  When no lexical rule matches, the offending text is consumed and
// an error returned, so a subsequent call continues after it.  Once the end of
// input is reached, every call returns the end-of-input token.
func (l *Lexer) Next() (token.Token, *token.Error) {
	tok, err := l.Peek()
	//
	if err != nil {
		l.lexer.Skip(uint(max(1, err.Span.Length())))
		return tok, err
	}
	//
	l.advance(tok)
	//
	return tok, nil
}

// Peek returns the next token without advancing past it (though leading
// whitespace is discarded).
func (l *Lexer) Peek() (token.Token, *token.Error) {
	l.skipWhitespace()
	//
	next := l.lexer.Peek()
	//
	if next.IsEmpty() {
		start := int(l.lexer.Index())
		span := source.NewSpan(start, start+1)
		//
		return token.Token{}, token.InvalidCharacter(l.lexer.Current().Unwrap(), span)
	}
	//
	return l.token(next.Unwrap())
}

// TryConsume advances past the next token if it renders identically to the
// expected token, returning it.  Otherwise, nothing is consumed and an error
// describing the next token (or character) is returned.
func (l *Lexer) TryConsume(expected token.Token) (token.Token, *token.Error) {
	tok, err := l.Peek()
	//
	if err != nil {
		return tok, err
	} else if !matches(tok, expected) {
		return tok, token.UnexpectedToken(tok)
	}
	//
	l.advance(tok)
	//
	return tok, nil
}

// Check determines whether the next token renders identically to the expected
// token, without consuming it.
func (l *Lexer) Check(expected token.Token) bool {
	tok, err := l.Peek()
	//
	return err == nil && matches(tok, expected)
}

// ResolveOffset returns the slot offset of a given identifier, allocating one
// if the identifier has not been seen before.
func (l *Lexer) ResolveOffset(name string) uint {
	return l.context.ResolveOffset(name)
}

// IdentifierCount returns the number of distinct identifiers seen so far.
func (l *Lexer) IdentifierCount() uint {
	return l.context.IdentifierCount()
}

// Position returns the index of the next unconsumed character.
func (l *Lexer) Position() int {
	return int(l.lexer.Index())
}

// SyntaxError converts a lexical error into a syntax error on this lexer's
// source file.
func (l *Lexer) SyntaxError(err *token.Error, msg string) *source.SyntaxError {
	return l.srcfile.SyntaxError(err.Span, msg)
}

// Construct the token for a successfully scanned span of characters.
func (l *Lexer) token(next lex.Token) (token.Token, *token.Error) {
	var (
		text = l.srcfile.Text(next.Span)
		tok  = token.Token{Kind: next.Kind, Span: next.Span}
	)
	//
	switch next.Kind {
	case token.NUMBER:
		// Runs of digits are kept exact where they fit, rather than rounded
		// to the nearest float.
		if value, err := strconv.ParseInt(text, 10, 64); err == nil {
			tok.Value = float64(value)
			tok.Integer = util.Some(value)
		} else if tok.Value, err = strconv.ParseFloat(text, 64); err != nil {
			return tok, token.MalformedNumber(text, next.Span)
		}
	case token.IDENTIFIER:
		tok.Name = text
	}
	//
	return tok, nil
}

func (l *Lexer) advance(tok token.Token) {
	// End of input is sticky.
	if tok.Kind != token.END_OF {
		l.lexer.Advance(lex.Token{Kind: tok.Kind, Span: tok.Span})
	}
}

func (l *Lexer) skipWhitespace() {
	if next := l.lexer.Peek(); next.HasValue() && next.Unwrap().Kind == token.WHITESPACE {
		l.lexer.Advance(next.Unwrap())
	}
}

func matches(actual token.Token, expected token.Token) bool {
	return actual.Kind == expected.Kind && actual.String() == expected.String()
}

// Tokenize lexes an entire source file into a sequence of tokens ending with
// the end-of-input token, stopping at the first lexical error.
func Tokenize(srcfile *source.File, context *Context) ([]token.Token, *source.SyntaxError) {
	var (
		lexer  = New(srcfile, context)
		tokens []token.Token
	)
	//
	for {
		tok, err := lexer.Next()
		//
		if err != nil {
			return tokens, lexer.SyntaxError(err, err.Error())
		}
		//
		tokens = append(tokens, tok)
		//
		if tok.IsEndOfInput() {
			return tokens, nil
		} else if tok.Kind == token.IDENTIFIER {
			lexer.ResolveOffset(tok.Name)
		}
	}
}
