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

import "fmt"

const (
	// FRAME_BASE holds the address from which variable slots are offset.
	FRAME_BASE Role = 0
	// STACK_TOP addresses the top of the value stack.
	STACK_TOP Role = 1
	// ACCUMULATOR holds the left operand and the result of an operation.
	ACCUMULATOR Role = 2
	// SECONDARY holds the right operand of an operation.
	SECONDARY Role = 3
	// SCRATCH_0 is used for address computations.
	SCRATCH_0 Role = 4
	// SCRATCH_1 is a general-purpose scratch register.
	SCRATCH_1 Role = 5
)

// Role is an architecture-independent name for a register.  Each backend maps
// every role onto a fixed physical register for the whole compilation.
type Role uint8

func (r Role) String() string {
	switch r {
	case FRAME_BASE:
		return "fb"
	case STACK_TOP:
		return "sp"
	case ACCUMULATOR:
		return "acc"
	case SECONDARY:
		return "sec"
	case SCRATCH_0:
		return "s0"
	case SCRATCH_1:
		return "s1"
	default:
		return fmt.Sprintf("r%d", uint8(r))
	}
}

const (
	// IMMEDIATE identifies a constant operand.
	IMMEDIATE OperandKind = 0
	// REGISTER identifies the contents of a register.
	REGISTER OperandKind = 1
	// MEMORY identifies the word stored at the address held in a register.
	MEMORY OperandKind = 2
)

// OperandKind distinguishes the addressing modes of an operand.
type OperandKind uint8

// Operand is an architecture-neutral instruction operand.
type Operand struct {
	Kind OperandKind
	// Value of an immediate operand.
	Value int64
	// Register of a register or memory operand.
	Role Role
}

// Immediate constructs a constant operand.
func Immediate(value int64) Operand {
	return Operand{Kind: IMMEDIATE, Value: value}
}

// Register constructs an operand referring to the contents of a register.
func Register(role Role) Operand {
	return Operand{Kind: REGISTER, Role: role}
}

// Memory constructs an operand referring to the word at the address held in a
// register.
func Memory(role Role) Operand {
	return Operand{Kind: MEMORY, Role: role}
}

// IsImmediate checks whether this is a constant operand.
func (o Operand) IsImmediate() bool {
	return o.Kind == IMMEDIATE
}

// IsRegister checks whether this refers to the contents of a register.
func (o Operand) IsRegister() bool {
	return o.Kind == REGISTER
}

// IsMemory checks whether this refers to a word in memory.
func (o Operand) IsMemory() bool {
	return o.Kind == MEMORY
}

func (o Operand) String() string {
	switch o.Kind {
	case IMMEDIATE:
		return fmt.Sprintf("#%d", o.Value)
	case REGISTER:
		return o.Role.String()
	default:
		return fmt.Sprintf("[%s]", o.Role.String())
	}
}

const (
	// EQ compares for equality
	EQ Comparison = 0
	// NE compares for non-equality
	NE Comparison = 1
	// LT is a signed less-than comparison
	LT Comparison = 2
	// LE is a signed less-than-or-equals comparison
	LE Comparison = 3
)

// Comparison identifies the condition tested by a compare-and-set.
type Comparison uint8

func (c Comparison) String() string {
	switch c {
	case EQ:
		return "eq"
	case NE:
		return "ne"
	case LT:
		return "lt"
	case LE:
		return "le"
	default:
		return fmt.Sprintf("cmp%d", uint8(c))
	}
}
