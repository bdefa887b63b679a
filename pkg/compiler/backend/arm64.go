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
)

var arm64Registers = [...]string{
	FRAME_BASE:  "x29",
	STACK_TOP:   "sp",
	ACCUMULATOR: "x0",
	SECONDARY:   "x1",
	SCRATCH_0:   "x9",
	SCRATCH_1:   "x10",
}

// Intra-procedure-call scratch register, never assigned a role.
const arm64Temp = "x16"

// Largest immediate accepted by add, sub and cmp (12 bits, unshifted).
const arm64MaxImm12 = 4095

var arm64Conditions = [...]string{
	EQ: "eq",
	NE: "ne",
	LT: "lt",
	LE: "le",
}

// Arm64 emits AArch64 assembly, as accepted by the GNU and LLVM assemblers.  As
// a load/store architecture, memory operands are first loaded into (or stored
// from) a temporary register.  The stack pointer must remain 16-byte aligned,
// hence every pushed word occupies a 16-byte slot.
type Arm64 struct {
	out text
}

// NewArm64 constructs an empty AArch64 backend.
func NewArm64() Backend {
	return &Arm64{}
}

// Name implementation for Backend interface.
func (p *Arm64) Name() string {
	return "arm64"
}

// WordSize implementation for Backend interface.
func (p *Arm64) WordSize() uint {
	return 8
}

// Header implementation for Backend interface.
func (p *Arm64) Header(entry string) {
	p.out.directive(".text")
	p.out.directive(".globl %s", entry)
	p.out.directive(".p2align 2")
	p.out.label(entry)
}

// FramePrologue implementation for Backend interface.
func (p *Arm64) FramePrologue(slots uint) {
	size := align16(int64(slots * p.WordSize()))
	//
	p.out.insn("stp", "x29", "x30", "[sp, #-16]!")
	p.out.insn("mov", "x29", "sp")
	//
	if size <= arm64MaxImm12 {
		p.out.insn("sub", "sp", "sp", immediate(size))
	} else {
		p.materialise(arm64Temp, size)
		p.out.insn("sub", "sp", "sp", arm64Temp)
	}
}

// StatementEpilogue implementation for Backend interface.
func (p *Arm64) StatementEpilogue() {
	p.out.insn("ldr", "x0", "[sp]", "#16")
}

// ProgramEpilogue implementation for Backend interface.
func (p *Arm64) ProgramEpilogue() {
	p.out.insn("mov", "sp", "x29")
	p.out.insn("ldp", "x29", "x30", "[sp]", "#16")
	p.out.insn("ret")
}

// Push implementation for Backend interface.
func (p *Arm64) Push(src Operand) {
	p.out.insn("str", p.load(src), "[sp, #-16]!")
}

// Pop implementation for Backend interface.
func (p *Arm64) Pop(dst Operand) {
	switch dst.Kind {
	case REGISTER:
		p.out.insn("ldr", arm64Registers[dst.Role], "[sp]", "#16")
	case MEMORY:
		p.out.insn("ldr", arm64Temp, "[sp]", "#16")
		p.out.insn("str", arm64Temp, address(dst))
	default:
		panic(unsupported("pop", dst))
	}
}

// Move implementation for Backend interface.
func (p *Arm64) Move(dst Operand, src Operand) {
	switch {
	case dst.IsRegister() && src.IsImmediate():
		p.materialise(arm64Registers[dst.Role], src.Value)
	case dst.IsRegister() && src.IsRegister():
		p.out.insn("mov", arm64Registers[dst.Role], arm64Registers[src.Role])
	case dst.IsRegister() && src.IsMemory():
		p.out.insn("ldr", arm64Registers[dst.Role], address(src))
	case dst.IsMemory():
		p.out.insn("str", p.load(src), address(dst))
	default:
		panic(unsupported("mov", dst, src))
	}
}

// Add implementation for Backend interface.
func (p *Arm64) Add(dst Operand, src Operand) {
	p.arithmetic("add", dst, src)
}

// Sub implementation for Backend interface.
func (p *Arm64) Sub(dst Operand, src Operand) {
	p.arithmetic("sub", dst, src)
}

// Mul implementation for Backend interface.
func (p *Arm64) Mul(dst Operand, src Operand) {
	p.threeRegister("mul", dst, src)
}

// Div implementation for Backend interface.  Observe that division by zero
// yields zero on this architecture, rather than trapping.
func (p *Arm64) Div(dst Operand, src Operand) {
	p.threeRegister("sdiv", dst, src)
}

// CompareAndSet implementation for Backend interface.
func (p *Arm64) CompareAndSet(cmp Comparison, dst Operand, src Operand) {
	if !dst.IsRegister() {
		panic(unsupported("cmp", dst, src))
	}
	//
	reg := arm64Registers[dst.Role]
	//
	p.out.insn("cmp", reg, p.immediateOrLoad(src))
	p.out.insn("cset", reg, arm64Conditions[cmp])
}

func (p *Arm64) String() string {
	return p.out.String()
}

func (p *Arm64) arithmetic(mnemonic string, dst Operand, src Operand) {
	if !dst.IsRegister() {
		panic(unsupported(mnemonic, dst, src))
	}
	//
	reg := arm64Registers[dst.Role]
	//
	p.out.insn(mnemonic, reg, reg, p.immediateOrLoad(src))
}

func (p *Arm64) threeRegister(mnemonic string, dst Operand, src Operand) {
	if !dst.IsRegister() {
		panic(unsupported(mnemonic, dst, src))
	}
	//
	reg := arm64Registers[dst.Role]
	//
	p.out.insn(mnemonic, reg, reg, p.load(src))
}

// Render an operand as a 12-bit immediate where it fits, otherwise load it
// into a register.
func (p *Arm64) immediateOrLoad(src Operand) string {
	if src.IsImmediate() && src.Value >= 0 && src.Value <= arm64MaxImm12 {
		return immediate(src.Value)
	}
	//
	return p.load(src)
}

// Load an operand into a register (unless it already is one), returning the
// name of that register.
func (p *Arm64) load(src Operand) string {
	switch src.Kind {
	case IMMEDIATE:
		p.materialise(arm64Temp, src.Value)
		return arm64Temp
	case MEMORY:
		p.out.insn("ldr", arm64Temp, address(src))
		return arm64Temp
	default:
		return arm64Registers[src.Role]
	}
}

// Materialise a 64-bit constant in a register, using one movz for the lowest
// non-zero halfword and a movk for each further non-zero halfword.
func (p *Arm64) materialise(reg string, value int64) {
	var (
		bits  = uint64(value)
		first = true
	)
	//
	for shift := uint(0); shift < 64; shift += 16 {
		chunk := (bits >> shift) & 0xffff
		//
		if chunk == 0 {
			continue
		}
		//
		mnemonic := "movk"
		if first {
			mnemonic, first = "movz", false
		}
		//
		if shift == 0 {
			p.out.insn(mnemonic, reg, immediate(int64(chunk)))
		} else {
			p.out.insn(mnemonic, reg, immediate(int64(chunk)), fmt.Sprintf("lsl #%d", shift))
		}
	}
	//
	if first {
		p.out.insn("movz", reg, "#0")
	}
}

func address(o Operand) string {
	return fmt.Sprintf("[%s]", arm64Registers[o.Role])
}

func immediate(value int64) string {
	return fmt.Sprintf("#%d", value)
}

func align16(n int64) int64 {
	return (n + 15) &^ 15
}
