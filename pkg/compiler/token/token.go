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
package token

import (
	"fmt"
	"strconv"

	"github.com/consensys/go-tinyc/pkg/util"
	"github.com/consensys/go-tinyc/pkg/util/source"
)

// END_OF signals "end of input"
const END_OF uint = 0

// WHITESPACE signals whitespace.  Whitespace tokens are never handed out by the
// lexer, but they have a kind so that the scanning rules can name them.
const WHITESPACE uint = 1

// NUMBER signals a numeric literal
const NUMBER uint = 2

// IDENTIFIER signals a variable name
const IDENTIFIER uint = 3

// SEMICOLON signals ";"
const SEMICOLON uint = 10

// EQUALS signals "="
const EQUALS uint = 11

// EQUALS_EQUALS signals "=="
const EQUALS_EQUALS uint = 12

// NOT_EQUALS signals "!="
const NOT_EQUALS uint = 13

// LESS_THAN signals "<"
const LESS_THAN uint = 14

// LESS_THAN_EQUALS signals "<="
const LESS_THAN_EQUALS uint = 15

// GREATER_THAN signals ">"
const GREATER_THAN uint = 16

// GREATER_THAN_EQUALS signals ">="
const GREATER_THAN_EQUALS uint = 17

// ADD signals "+"
const ADD uint = 18

// SUB signals "-"
const SUB uint = 19

// MUL signals "*"
const MUL uint = 20

// DIV signals "/"
const DIV uint = 21

// LBRACE signals "("
const LBRACE uint = 22

// RBRACE signals ")"
const RBRACE uint = 23

// punctuation maps each bare operator kind to its textual rendering.
var punctuation = map[uint]string{
	SEMICOLON:           ";",
	EQUALS:              "=",
	EQUALS_EQUALS:       "==",
	NOT_EQUALS:          "!=",
	LESS_THAN:           "<",
	LESS_THAN_EQUALS:    "<=",
	GREATER_THAN:        ">",
	GREATER_THAN_EQUALS: ">=",
	ADD:                 "+",
	SUB:                 "-",
	MUL:                 "*",
	DIV:                 "/",
	LBRACE:              "(",
	RBRACE:              ")",
}

// Punctuation returns the kinds of all bare operator tokens.
func Punctuation() []uint {
	return []uint{SEMICOLON, EQUALS, EQUALS_EQUALS, NOT_EQUALS, LESS_THAN, LESS_THAN_EQUALS,
		GREATER_THAN, GREATER_THAN_EQUALS, ADD, SUB, MUL, DIV, LBRACE, RBRACE}
}

// Token is a single lexical unit.  Literal tokens carry their numeric value,
// identifier tokens carry their name, and every other token is identified by
// its kind alone.
type Token struct {
	Kind uint
	// Value of a numeric literal.
	Value float64
	// Exact value of a numeric literal written as a run of digits which fits
	// in 64 bits.
	Integer util.Option[int64]
	// Name of an identifier.
	Name string
	// Span of the source text this token was read from.
	Span source.Span
}

// Of constructs a bare operator (or end-of-input) token of a given kind, as
// typically used for look-ahead comparisons.
func Of(kind uint) Token {
	return Token{Kind: kind}
}

// EndOfInput constructs the end-of-input token.
func EndOfInput() Token {
	return Token{Kind: END_OF}
}

// Number constructs a numeric literal token.
func Number(value float64) Token {
	return Token{Kind: NUMBER, Value: value}
}

// Identifier constructs an identifier token.
func Identifier(name string) Token {
	return Token{Kind: IDENTIFIER, Name: name}
}

// IsEndOfInput checks whether this is the end-of-input marker.
func (t Token) IsEndOfInput() bool {
	return t.Kind == END_OF
}

// Equals checks whether two tokens are the same, irrespective of where they
// were read from.
func (t Token) Equals(other Token) bool {
	return t.Kind == other.Kind && t.Value == other.Value && t.Name == other.Name
}

// String returns the textual rendering of this token.  Re-lexing the rendering
// of a punctuation token reproduces the same token.
func (t Token) String() string {
	switch t.Kind {
	case END_OF:
		return "\x00"
	case NUMBER:
		if t.Integer.HasValue() {
			return strconv.FormatInt(t.Integer.Unwrap(), 10)
		}
		//
		return strconv.FormatFloat(t.Value, 'f', -1, 64)
	case IDENTIFIER:
		return t.Name
	}
	//
	if text, ok := punctuation[t.Kind]; ok {
		return text
	}
	//
	panic(fmt.Sprintf("unknown token kind %d", t.Kind))
}

// Describe returns a human-readable description of this token, as used in
// diagnostics.
func (t Token) Describe() string {
	switch t.Kind {
	case END_OF:
		return "end of input"
	case NUMBER:
		return fmt.Sprintf("number %s", t.String())
	case IDENTIFIER:
		return fmt.Sprintf("identifier %s", t.Name)
	default:
		return fmt.Sprintf("'%s'", t.String())
	}
}
