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
package termio

import (
	"os"

	"golang.org/x/term"
)

// IsTerminal checks whether a given file is attached to a terminal.
func IsTerminal(file *os.File) bool {
	return term.IsTerminal(int(file.Fd()))
}

// Painter applies escapes to text, unless disabled (e.g. because output is
// being redirected to a file).
type Painter struct {
	enabled bool
}

// NewPainter constructs a painter which is either enabled or not.
func NewPainter(enabled bool) Painter {
	return Painter{enabled}
}

// TerminalPainter constructs a painter which is enabled only when the given
// file is a terminal.
func TerminalPainter(file *os.File) Painter {
	return Painter{IsTerminal(file)}
}

// Paint wraps text in a given escape, resetting all attributes afterwards.
func (p Painter) Paint(escape AnsiEscape, text string) string {
	if !p.enabled || text == "" {
		return text
	}
	//
	return escape.Build() + text + ResetAnsiEscape().Build()
}
