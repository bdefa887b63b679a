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

import "fmt"

// TERM_RED represents red
const TERM_RED = uint(1)

// TERM_GREEN represents green
const TERM_GREEN = uint(2)

// TERM_YELLOW represents yellow
const TERM_YELLOW = uint(3)

// TERM_CYAN represents cyan
const TERM_CYAN = uint(6)

// AnsiEscape is a Select Graphic Rendition sequence, built up from one or more
// parameters.
type AnsiEscape struct {
	params []uint
}

// ResetAnsiEscape clears all attributes.
func ResetAnsiEscape() AnsiEscape {
	return AnsiEscape{[]uint{0}}
}

// BoldAnsiEscape selects bold text.
func BoldAnsiEscape() AnsiEscape {
	return AnsiEscape{[]uint{1}}
}

// FgColour additionally sets the foreground colour.
func (p AnsiEscape) FgColour(col uint) AnsiEscape {
	params := append([]uint{}, p.params...)
	//
	return AnsiEscape{append(params, 30+col)}
}

// Build constructs the final escape
func (p AnsiEscape) Build() string {
	var escape = "\033["
	//
	for i, param := range p.params {
		if i != 0 {
			escape += ";"
		}
		//
		escape += fmt.Sprintf("%d", param)
	}
	//
	return escape + "m"
}
