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
package ast

import (
	"fmt"
	"strconv"

	"github.com/consensys/go-tinyc/pkg/util"
)

const (
	// ASSIGN stores the right-hand side into the variable on the left.
	ASSIGN Kind = 0
	// EQUAL indicates an equality comparison
	EQUAL Kind = 1
	// NOT_EQUAL indicates a non-equality comparison
	NOT_EQUAL Kind = 2
	// LESS indicates a less-than comparison
	LESS Kind = 3
	// LESS_EQUAL indicates a less-than-or-equals comparison
	LESS_EQUAL Kind = 4
	// ADD indicates addition
	ADD Kind = 5
	// SUB indicates subtraction
	SUB Kind = 6
	// MUL indicates multiplication
	MUL Kind = 7
	// DIV indicates (signed, truncating) division
	DIV Kind = 8
)

// Kind identifies the operator of a binary expression.  There are no
// greater-than kinds, since these are expressed by swapping the operands of
// a less-than.
type Kind uint8

// IsComparison checks whether this kind produces a boolean (1 or 0).
func (k Kind) IsComparison() bool {
	return k == EQUAL || k == NOT_EQUAL || k == LESS || k == LESS_EQUAL
}

func (k Kind) String() string {
	switch k {
	case ASSIGN:
		return "="
	case EQUAL:
		return "=="
	case NOT_EQUAL:
		return "!="
	case LESS:
		return "<"
	case LESS_EQUAL:
		return "<="
	case ADD:
		return "+"
	case SUB:
		return "-"
	case MUL:
		return "*"
	case DIV:
		return "/"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Expr represents an arbitrary expression tree.  Trees are immutable once
// constructed.
type Expr interface {
	// String returns a prefix rendering of this expression, such as
	// "(+ 1 (* 2 3))".
	String() string
}

// Number represents a numeric literal.
type Number struct {
	Value float64
	// Exact value, for integer literals which fit in 64 bits.
	Integer util.Option[int64]
}

// NewNumber constructs a numeric literal.
func NewNumber(value float64) Expr {
	return &Number{value, util.None[int64]()}
}

// NewInteger constructs a numeric literal with an exact integer value.
func NewInteger(value int64) Expr {
	return &Number{float64(value), util.Some(value)}
}

func (p *Number) String() string {
	if p.Integer.HasValue() {
		return strconv.FormatInt(p.Integer.Unwrap(), 10)
	}
	//
	return strconv.FormatFloat(p.Value, 'f', -1, 64)
}

// Variable represents a reference to the memory slot of a variable, identified
// by its byte offset below the frame base.
type Variable struct {
	Offset uint
}

// NewVariable constructs a variable reference for a given slot offset.
func NewVariable(offset uint) Expr {
	return &Variable{offset}
}

func (p *Variable) String() string {
	return fmt.Sprintf("@%d", p.Offset)
}

// Binary represents an operator applied to two subexpressions.
type Binary struct {
	Kind  Kind
	Left  Expr
	Right Expr
}

// NewBinary constructs a binary expression.  Observe that the left-hand side of
// an assignment is not required to be a variable here; that is only checked
// when generating code.
func NewBinary(kind Kind, left Expr, right Expr) Expr {
	return &Binary{kind, left, right}
}

func (p *Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", p.Kind.String(), p.Left.String(), p.Right.String())
}

// Depth returns the number of nodes on the longest path from the root of a
// given expression to a leaf.
func Depth(e Expr) uint {
	if b, ok := e.(*Binary); ok {
		return 1 + max(Depth(b.Left), Depth(b.Right))
	}
	//
	return 1
}
