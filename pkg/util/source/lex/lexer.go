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
package lex

import (
	"github.com/consensys/go-tinyc/pkg/util"
	"github.com/consensys/go-tinyc/pkg/util/source"
)

// Token associates a piece of information with a given range of characters in
// the string being scanned.
type Token struct {
	Kind uint
	Span source.Span
}

// LexRule is simply a rule for associating groups of characters with a given
// tag.
//
// nolint
type LexRule[T any] struct {
	scanner Scanner[T]
	tag     uint
}

// Rule constructs a new lexing rule which maps matching characters to a given
// tag.
func Rule[T any](scanner Scanner[T], tag uint) LexRule[T] {
	return LexRule[T]{scanner, tag}
}

// Lexer provides a pull-based construct for tokenising a given input sequence.
// Tokens are recognised on demand at the current position, which means a
// caller can look ahead without consuming anything.
type Lexer[T any] struct {
	items []T
	index int
	rules []LexRule[T]
}

// NewLexer constructs a new lexer with a given set of lexing rules.
func NewLexer[T any](input []T, rules ...LexRule[T]) *Lexer[T] {
	return &Lexer[T]{input, 0, rules}
}

// Index returns the current index within the items array.
func (p *Lexer[T]) Index() uint {
	return uint(p.index)
}

// Current returns the item at the current position, if there is one.
func (p *Lexer[T]) Current() util.Option[T] {
	if p.index < len(p.items) {
		return util.Some(p.items[p.index])
	}
	//
	return util.None[T]()
}

// Peek identifies the token starting at the current position without
// advancing.  Rules are tried in order, and the first matching rule wins.
// Nothing is returned when no rule matches.
func (p *Lexer[T]) Peek() util.Option[Token] {
	if p.index <= len(p.items) {
		for _, r := range p.rules {
			if n := r.scanner(p.items[p.index:]); n > 0 {
				end := min(len(p.items), p.index+int(n))
				return util.Some(Token{r.tag, source.NewSpan(p.index, end)})
			}
		}
	}
	//
	return util.None[Token]()
}

// Advance moves the current position to the end of a token previously
// returned by Peek.
func (p *Lexer[T]) Advance(token Token) {
	p.index = token.Span.End()
}

// Skip moves the current position forward by n items, stopping at the end of
// the input.
func (p *Lexer[T]) Skip(n uint) {
	p.index = min(len(p.items), p.index+int(n))
}
