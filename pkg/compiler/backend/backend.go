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
package backend

import (
	"fmt"
	"strings"
)

// Backend lowers architecture-neutral stack machine operations into the
// assembly text of a specific target.  Operations are appended, in order, to
// an internal buffer whose contents are returned by String().  A backend is
// used for exactly one compilation.
//
// The value stack addressed by STACK_TOP is only ever read or written through
// Push and Pop.  Operand combinations which no target can encode (e.g. popping
// into an immediate) are programming errors, and cause a panic.
type Backend interface {
	// Name returns the canonical name of the target.
	Name() string
	// WordSize returns the size (in bytes) of a variable slot.
	WordSize() uint
	// Header emits the syntax directives and the public entry label.
	Header(entry string)
	// FramePrologue saves the caller's frame, establishes a new frame base and
	// reserves storage for the given number of variable slots.
	FramePrologue(slots uint)
	// StatementEpilogue discards the value left on the stack by a statement,
	// leaving it in the accumulator.
	StatementEpilogue()
	// ProgramEpilogue restores the caller's frame and returns.
	ProgramEpilogue()
	// Push a value onto the value stack.
	Push(src Operand)
	// Pop a value from the value stack.
	Pop(dst Operand)
	// Move copies src into dst.
	Move(dst Operand, src Operand)
	// Add assigns dst := dst + src.
	Add(dst Operand, src Operand)
	// Sub assigns dst := dst - src.
	Sub(dst Operand, src Operand)
	// Mul assigns dst := dst * src.
	Mul(dst Operand, src Operand)
	// Div assigns dst := dst / src, using signed truncating division.
	Div(dst Operand, src Operand)
	// CompareAndSet assigns dst := 1 if "dst cmp src" holds, otherwise 0.
	CompareAndSet(cmp Comparison, dst Operand, src Operand)
	// String returns the assembly text emitted so far.
	String() string
}

// ============================================================================
// Text
// ============================================================================

// text accumulates assembly lines.  Directives and labels start in the first
// column, whilst instructions are indented.
type text struct {
	builder strings.Builder
}

func (p *text) directive(format string, args ...any) {
	p.builder.WriteString(fmt.Sprintf(format, args...))
	p.builder.WriteString("\n")
}

func (p *text) label(name string) {
	p.builder.WriteString(name)
	p.builder.WriteString(":\n")
}

func (p *text) insn(mnemonic string, operands ...string) {
	p.builder.WriteString("  ")
	p.builder.WriteString(mnemonic)
	//
	if len(operands) > 0 {
		p.builder.WriteString(" ")
		p.builder.WriteString(strings.Join(operands, ", "))
	}
	//
	p.builder.WriteString("\n")
}

func (p *text) String() string {
	return p.builder.String()
}

func unsupported(op string, operands ...Operand) string {
	var rendered = make([]string, len(operands))
	//
	for i, o := range operands {
		rendered[i] = o.String()
	}
	//
	return fmt.Sprintf("unsupported operands for %s: %s", op, strings.Join(rendered, ", "))
}
