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
package codegen

import (
	"fmt"
	"math"

	"github.com/consensys/go-tinyc/pkg/compiler/ast"
	"github.com/consensys/go-tinyc/pkg/compiler/backend"
)

var (
	fb  = backend.Register(backend.FRAME_BASE)
	acc = backend.Register(backend.ACCUMULATOR)
	sec = backend.Register(backend.SECONDARY)
	s0  = backend.Register(backend.SCRATCH_0)
)

// Condition tested by each comparison kind.
var comparisons = map[ast.Kind]backend.Comparison{
	ast.EQUAL:      backend.EQ,
	ast.NOT_EQUAL:  backend.NE,
	ast.LESS:       backend.LT,
	ast.LESS_EQUAL: backend.LE,
}

// Error reports an expression for which no code could be generated.
type Error struct {
	// Offending expression
	Node ast.Expr
	// Description of the problem
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Node.String(), e.Message)
}

// Generator lowers expression trees into instructions for a stack machine,
// issued through a given backend.  Every expression leaves exactly one word on
// the value stack.
type Generator struct {
	backend backend.Backend
}

// NewGenerator constructs a generator issuing instructions to a given backend.
func NewGenerator(backend backend.Backend) *Generator {
	return &Generator{backend}
}

// Program generates a complete program: the header, a frame large enough for
// the given number of variable slots, each statement in turn (discarding its
// value) and finally the return sequence.  Code generation stops at the first
// error.
func (p *Generator) Program(program ast.Program, entry string, slots uint) *Error {
	p.backend.Header(entry)
	p.backend.FramePrologue(slots)
	//
	for _, stmt := range program.Statements {
		if err := p.Emit(stmt); err != nil {
			return err
		}
		//
		p.backend.StatementEpilogue()
	}
	//
	p.backend.ProgramEpilogue()
	//
	return nil
}

// Emit generates code for a single expression, leaving its value on top of the
// stack.
func (p *Generator) Emit(expr ast.Expr) *Error {
	switch e := expr.(type) {
	case *ast.Number:
		return p.emitNumber(e)
	case *ast.Variable:
		p.emitAddress(e)
		p.backend.Push(backend.Memory(backend.ACCUMULATOR))
		//
		return nil
	case *ast.Binary:
		if e.Kind == ast.ASSIGN {
			return p.emitAssignment(e)
		}
		//
		return p.emitBinary(e)
	default:
		return &Error{expr, "unknown expression"}
	}
}

func (p *Generator) emitNumber(e *ast.Number) *Error {
	if e.Integer.HasValue() {
		p.backend.Push(backend.Immediate(e.Integer.Unwrap()))
		return nil
	}
	// Float64 bounds for int64 are [-2^63, 2^63).
	if e.Value != math.Trunc(e.Value) || e.Value < math.MinInt64 || e.Value >= -math.MinInt64 {
		return &Error{e, "numeric literal is not an integer"}
	}
	//
	p.backend.Push(backend.Immediate(int64(e.Value)))
	//
	return nil
}

// Compute the address of a variable's slot into the accumulator.
func (p *Generator) emitAddress(e *ast.Variable) {
	p.backend.Move(s0, fb)
	p.backend.Sub(s0, backend.Immediate(int64(e.Offset)))
	p.backend.Move(acc, s0)
}

func (p *Generator) emitAssignment(e *ast.Binary) *Error {
	variable, ok := e.Left.(*ast.Variable)
	//
	if !ok {
		return &Error{e.Left, "left side of assignment is not a variable"}
	}
	//
	p.emitAddress(variable)
	p.backend.Push(acc)
	//
	if err := p.Emit(e.Right); err != nil {
		return err
	}
	//
	p.backend.Pop(sec)
	p.backend.Pop(acc)
	p.backend.Move(backend.Memory(backend.ACCUMULATOR), sec)
	// Assignment evaluates to the assigned value
	p.backend.Push(sec)
	//
	return nil
}

func (p *Generator) emitBinary(e *ast.Binary) *Error {
	if err := p.Emit(e.Left); err != nil {
		return err
	} else if err := p.Emit(e.Right); err != nil {
		return err
	}
	//
	p.backend.Pop(sec)
	p.backend.Pop(acc)
	//
	switch {
	case e.Kind.IsComparison():
		p.backend.CompareAndSet(comparisons[e.Kind], acc, sec)
	case e.Kind == ast.ADD:
		p.backend.Add(acc, sec)
	case e.Kind == ast.SUB:
		p.backend.Sub(acc, sec)
	case e.Kind == ast.MUL:
		p.backend.Mul(acc, sec)
	case e.Kind == ast.DIV:
		p.backend.Div(acc, sec)
	default:
		return &Error{e, fmt.Sprintf("unknown operator %s", e.Kind.String())}
	}
	//
	p.backend.Push(acc)
	//
	return nil
}
