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

	"github.com/consensys/go-tinyc/pkg/util/source"
)

const (
	// INVALID_CHARACTER indicates a character which matches no lexical rule.
	INVALID_CHARACTER ErrorKind = 0
	// MALFORMED_NUMBER indicates a run of digits and dots which is not a number
	// (e.g. "1.2.3").
	MALFORMED_NUMBER ErrorKind = 1
	// UNEXPECTED_TOKEN indicates that a well-formed token was found, but not the
	// one expected.
	UNEXPECTED_TOKEN ErrorKind = 2
)

// ErrorKind classifies lexical errors.
type ErrorKind uint8

// Error is the typed result of a failed lexer operation.  It records the
// offending text and where it was found, so that callers using non-fatal
// look-ahead can inspect it.
type Error struct {
	Kind ErrorKind
	// First offending character.
	Char rune
	// Complete offending text.
	Text string
	// Location of the offending text.
	Span source.Span
}

// InvalidCharacter constructs an error for a character matching no rule.
func InvalidCharacter(c rune, span source.Span) *Error {
	return &Error{INVALID_CHARACTER, c, string(c), span}
}

// MalformedNumber constructs an error for an unparseable numeric literal.
func MalformedNumber(text string, span source.Span) *Error {
	return &Error{MALFORMED_NUMBER, firstRune(text), text, span}
}

// UnexpectedToken constructs an error for a token which did not match an
// expected token.
func UnexpectedToken(found Token) *Error {
	text := found.String()
	//
	if found.IsEndOfInput() {
		text = ""
	}
	//
	return &Error{UNEXPECTED_TOKEN, firstRune(text), text, found.Span}
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Kind {
	case INVALID_CHARACTER:
		return fmt.Sprintf("invalid character %q", e.Char)
	case MALFORMED_NUMBER:
		return fmt.Sprintf("malformed numeric literal %q", e.Text)
	case UNEXPECTED_TOKEN:
		if e.Text == "" {
			return "unexpected end of input"
		}
		//
		return fmt.Sprintf("unexpected %q", e.Text)
	default:
		return "unknown lexical error"
	}
}

func firstRune(text string) rune {
	for _, r := range text {
		return r
	}
	//
	return 0
}
