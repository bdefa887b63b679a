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
	"math"
	"strconv"
)

var amd64Registers = [...]string{
	FRAME_BASE:  "rbp",
	STACK_TOP:   "rsp",
	ACCUMULATOR: "rax",
	SECONDARY:   "rdi",
	SCRATCH_0:   "r10",
	SCRATCH_1:   "r11",
}

// Lowest byte of each register, as written by the setcc family.
var amd64ByteRegisters = [...]string{
	FRAME_BASE:  "bpl",
	STACK_TOP:   "spl",
	ACCUMULATOR: "al",
	SECONDARY:   "dil",
	SCRATCH_0:   "r10b",
	SCRATCH_1:   "r11b",
}

var amd64Conditions = [...]string{
	EQ: "sete",
	NE: "setne",
	LT: "setl",
	LE: "setle",
}

// Amd64 emits x86-64 assembly in Intel syntax, as accepted by the GNU
// assembler.  Immediates which do not fit a sign-extended 32-bit field are
// first loaded into SCRATCH_1.
type Amd64 struct {
	out text
}

// NewAmd64 constructs an empty x86-64 backend.
func NewAmd64() Backend {
	return &Amd64{}
}

// Name implementation for Backend interface.
func (p *Amd64) Name() string {
	return "amd64"
}

// WordSize implementation for Backend interface.
func (p *Amd64) WordSize() uint {
	return 8
}

// Header implementation for Backend interface.
func (p *Amd64) Header(entry string) {
	p.out.directive(".intel_syntax noprefix")
	p.out.directive(".globl %s", entry)
	p.out.label(entry)
}

// FramePrologue implementation for Backend interface.
func (p *Amd64) FramePrologue(slots uint) {
	p.out.insn("push", "rbp")
	p.out.insn("mov", "rbp", "rsp")
	p.out.insn("sub", "rsp", strconv.FormatUint(uint64(slots*p.WordSize()), 10))
}

// StatementEpilogue implementation for Backend interface.
func (p *Amd64) StatementEpilogue() {
	p.out.insn("pop", "rax")
}

// ProgramEpilogue implementation for Backend interface.
func (p *Amd64) ProgramEpilogue() {
	p.out.insn("mov", "rsp", "rbp")
	p.out.insn("pop", "rbp")
	p.out.insn("ret")
}

// Push implementation for Backend interface.
func (p *Amd64) Push(src Operand) {
	p.out.insn("push", p.source(src))
}

// Pop implementation for Backend interface.
func (p *Amd64) Pop(dst Operand) {
	if dst.IsImmediate() {
		panic(unsupported("pop", dst))
	}
	//
	p.out.insn("pop", p.operand(dst))
}

// Move implementation for Backend interface.
func (p *Amd64) Move(dst Operand, src Operand) {
	switch {
	case dst.IsImmediate():
		panic(unsupported("mov", dst, src))
	case dst.IsRegister() && src.IsImmediate():
		// A register accepts a full 64-bit immediate.
		p.out.insn("mov", p.operand(dst), p.operand(src))
	case dst.IsMemory() && src.IsMemory():
		p.out.insn("mov", amd64Registers[SCRATCH_1], p.operand(src))
		p.out.insn("mov", p.operand(dst), amd64Registers[SCRATCH_1])
	default:
		p.out.insn("mov", p.operand(dst), p.source(src))
	}
}

// Add implementation for Backend interface.
func (p *Amd64) Add(dst Operand, src Operand) {
	p.arithmetic("add", dst, src)
}

// Sub implementation for Backend interface.
func (p *Amd64) Sub(dst Operand, src Operand) {
	p.arithmetic("sub", dst, src)
}

// Mul implementation for Backend interface.
func (p *Amd64) Mul(dst Operand, src Operand) {
	if !dst.IsRegister() {
		panic(unsupported("imul", dst, src))
	}
	//
	p.out.insn("imul", p.operand(dst), p.register(src))
}

// Div implementation for Backend interface.  The dividend is sign-extended
// into rdx:rax, hence the destination must be the accumulator.
func (p *Amd64) Div(dst Operand, src Operand) {
	if !dst.IsRegister() || dst.Role != ACCUMULATOR {
		panic(unsupported("idiv", dst, src))
	}
	//
	divisor := p.register(src)
	//
	p.out.insn("cqo")
	p.out.insn("idiv", divisor)
}

// CompareAndSet implementation for Backend interface.
func (p *Amd64) CompareAndSet(cmp Comparison, dst Operand, src Operand) {
	if !dst.IsRegister() {
		panic(unsupported("cmp", dst, src))
	}
	//
	p.out.insn("cmp", p.operand(dst), p.source(src))
	p.out.insn(amd64Conditions[cmp], amd64ByteRegisters[dst.Role])
	p.out.insn("movzx", p.operand(dst), amd64ByteRegisters[dst.Role])
}

func (p *Amd64) String() string {
	return p.out.String()
}

func (p *Amd64) arithmetic(mnemonic string, dst Operand, src Operand) {
	if dst.IsImmediate() || (dst.IsMemory() && src.IsMemory()) {
		panic(unsupported(mnemonic, dst, src))
	}
	//
	p.out.insn(mnemonic, p.operand(dst), p.source(src))
}

// Render a source operand, first loading immediates which cannot be encoded
// directly into SCRATCH_1.
func (p *Amd64) source(src Operand) string {
	if src.IsImmediate() && (src.Value < math.MinInt32 || src.Value > math.MaxInt32) {
		p.out.insn("mov", amd64Registers[SCRATCH_1], p.operand(src))
		return amd64Registers[SCRATCH_1]
	}
	//
	return p.operand(src)
}

// Render an operand as a register or memory reference, first loading any
// immediate into SCRATCH_1.
func (p *Amd64) register(src Operand) string {
	if src.IsImmediate() {
		p.out.insn("mov", amd64Registers[SCRATCH_1], p.operand(src))
		return amd64Registers[SCRATCH_1]
	}
	//
	return p.operand(src)
}

func (p *Amd64) operand(o Operand) string {
	switch o.Kind {
	case IMMEDIATE:
		return strconv.FormatInt(o.Value, 10)
	case REGISTER:
		return amd64Registers[o.Role]
	default:
		return "QWORD PTR [" + amd64Registers[o.Role] + "]"
	}
}
