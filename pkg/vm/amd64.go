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
package vm

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

var amd64Registers = []string{
	"rax", "rbx", "rcx", "rdx", "rsi", "rdi", "rbp", "rsp",
	"r8", "r9", "r10", "r11", "r12", "r13", "r14", "r15",
}

// Maps the lowest byte of each register to the register itself.
var amd64ByteRegisters = map[string]string{
	"al": "rax", "bl": "rbx", "cl": "rcx", "dl": "rdx",
	"sil": "rsi", "dil": "rdi", "bpl": "rbp", "spl": "rsp",
	"r8b": "r8", "r9b": "r9", "r10b": "r10", "r11b": "r11",
	"r12b": "r12", "r13b": "r13", "r14b": "r14", "r15b": "r15",
}

const (
	immOperand = iota
	regOperand
	memOperand
)

// operand is a decoded instruction operand.
type operand struct {
	kind int
	// Register, or base register of a memory operand
	reg string
	// Refers to the lowest byte of the register
	byte bool
	// Immediate value, or offset of a memory operand
	value int64
}

type amd64Func func(m *Machine, ops []operand) error

type amd64 struct {
	instFuncs map[string]amd64Func
}

func newAmd64() *amd64 {
	c := &amd64{}
	//
	c.instFuncs = map[string]amd64Func{
		"push":   c.runPush,
		"pop":    c.runPop,
		"mov":    c.runMov,
		"movabs": c.runMov,
		"movzx":  c.runMovzx,
		"add":    c.arithmetic(func(x, y int64) int64 { return x + y }),
		"sub":    c.arithmetic(func(x, y int64) int64 { return x - y }),
		"imul":   c.runImul,
		"cqo":    c.runCqo,
		"idiv":   c.runIdiv,
		"cmp":    c.runCmp,
		"sete":   c.setcc("eq"),
		"setne":  c.setcc("ne"),
		"setl":   c.setcc("lt"),
		"setle":  c.setcc("le"),
		"setg":   c.setcc("gt"),
		"setge":  c.setcc("ge"),
		"ret":    c.runRet,
		"nop":    func(_ *Machine, _ []operand) error { return nil },
	}
	//
	return c
}

func (c *amd64) name() string {
	return "amd64"
}

func (c *amd64) registers() []string {
	return amd64Registers
}

func (c *amd64) reset(m *Machine) error {
	// As though called, with the return address on the stack.
	m.regs["rsp"] = stackBase - 8
	//
	return m.store(stackBase-8, returnSentinel)
}

func (c *amd64) result(m *Machine) int64 {
	return m.regs["rax"]
}

func (c *amd64) execute(m *Machine, insn Instruction) error {
	instFunc, ok := c.instFuncs[insn.Mnemonic]
	//
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownInstruction, insn.Mnemonic)
	}
	//
	ops := make([]operand, len(insn.Operands))
	//
	for i, text := range insn.Operands {
		op, err := c.decode(text)
		if err != nil {
			return err
		}
		//
		ops[i] = op
	}
	//
	return instFunc(m, ops)
}

func (c *amd64) runPush(m *Machine, ops []operand) error {
	if len(ops) != 1 {
		return errArity
	}
	//
	value, err := c.read(m, ops[0])
	if err != nil {
		return err
	}
	//
	return c.push(m, value)
}

func (c *amd64) runPop(m *Machine, ops []operand) error {
	if len(ops) != 1 {
		return errArity
	}
	//
	value, err := c.pop(m)
	if err != nil {
		return err
	}
	//
	return c.write(m, ops[0], value)
}

func (c *amd64) runMov(m *Machine, ops []operand) error {
	if len(ops) != 2 {
		return errArity
	} else if ops[0].kind == memOperand && ops[1].kind == memOperand {
		return fmt.Errorf("%w: memory to memory move", ErrMalformedOperand)
	}
	//
	value, err := c.read(m, ops[1])
	if err != nil {
		return err
	}
	//
	return c.write(m, ops[0], value)
}

func (c *amd64) runMovzx(m *Machine, ops []operand) error {
	if len(ops) != 2 || !ops[1].byte {
		return fmt.Errorf("%w: movzx requires a byte source", ErrMalformedOperand)
	}
	//
	value, err := c.read(m, ops[1])
	if err != nil {
		return err
	}
	//
	return c.write(m, ops[0], value)
}

func (c *amd64) arithmetic(fn func(int64, int64) int64) amd64Func {
	return func(m *Machine, ops []operand) error {
		if len(ops) != 2 {
			return errArity
		} else if ops[0].kind == memOperand && ops[1].kind == memOperand {
			return fmt.Errorf("%w: memory to memory operation", ErrMalformedOperand)
		}
		//
		lhs, err := c.read(m, ops[0])
		if err != nil {
			return err
		}
		//
		rhs, err := c.read(m, ops[1])
		if err != nil {
			return err
		}
		//
		return c.write(m, ops[0], fn(lhs, rhs))
	}
}

func (c *amd64) runImul(m *Machine, ops []operand) error {
	var (
		lhs, rhs int64
		err      error
	)
	//
	switch {
	case len(ops) == 2:
		lhs, err = c.read(m, ops[0])
		if err == nil {
			rhs, err = c.read(m, ops[1])
		}
	case len(ops) == 3 && ops[2].kind == immOperand:
		lhs, err = c.read(m, ops[1])
		rhs = ops[2].value
	default:
		return errArity
	}
	//
	if err != nil {
		return err
	} else if ops[0].kind != regOperand {
		return fmt.Errorf("%w: imul requires a register destination", ErrMalformedOperand)
	}
	//
	return c.write(m, ops[0], lhs*rhs)
}

func (c *amd64) runCqo(m *Machine, ops []operand) error {
	if len(ops) != 0 {
		return errArity
	}
	//
	m.regs["rdx"] = m.regs["rax"] >> 63
	//
	return nil
}

// Signed division of rdx:rax, restricted to dividends where rdx is the sign
// extension of rax (i.e. as established by cqo).
func (c *amd64) runIdiv(m *Machine, ops []operand) error {
	if len(ops) != 1 || ops[0].kind == immOperand {
		return errArity
	}
	//
	divisor, err := c.read(m, ops[0])
	if err != nil {
		return err
	}
	//
	dividend := m.regs["rax"]
	//
	switch {
	case m.regs["rdx"] != dividend>>63:
		return fmt.Errorf("%w: 128-bit dividend", ErrDivideOverflow)
	case divisor == 0:
		return ErrDivideByZero
	case dividend == math.MinInt64 && divisor == -1:
		return ErrDivideOverflow
	}
	//
	m.regs["rax"] = dividend / divisor
	m.regs["rdx"] = dividend % divisor
	//
	return nil
}

func (c *amd64) runCmp(m *Machine, ops []operand) error {
	if len(ops) != 2 {
		return errArity
	}
	//
	lhs, err := c.read(m, ops[0])
	if err != nil {
		return err
	}
	//
	rhs, err := c.read(m, ops[1])
	if err != nil {
		return err
	}
	//
	m.flags = [2]int64{lhs, rhs}
	//
	return nil
}

func (c *amd64) setcc(cond string) amd64Func {
	return func(m *Machine, ops []operand) error {
		if len(ops) != 1 || !ops[0].byte {
			return fmt.Errorf("%w: setcc requires a byte register", ErrMalformedOperand)
		}
		//
		holds, err := m.compare(cond)
		if err != nil {
			return err
		}
		//
		return c.write(m, ops[0], boolToWord(holds))
	}
}

func (c *amd64) runRet(m *Machine, ops []operand) error {
	if len(ops) != 0 {
		return errArity
	}
	//
	target, err := c.pop(m)
	if err != nil {
		return err
	}
	//
	return m.ret(target)
}

func (c *amd64) push(m *Machine, value int64) error {
	sp := m.regs["rsp"] - 8
	//
	if err := m.store(sp, value); err != nil {
		return err
	}
	//
	m.regs["rsp"] = sp
	//
	return nil
}

func (c *amd64) pop(m *Machine) (int64, error) {
	sp := m.regs["rsp"]
	//
	value, err := m.load(sp)
	if err != nil {
		return 0, err
	}
	//
	m.regs["rsp"] = sp + 8
	//
	return value, nil
}

func (c *amd64) read(m *Machine, op operand) (int64, error) {
	switch op.kind {
	case immOperand:
		return op.value, nil
	case regOperand:
		value, err := m.get(op.reg)
		//
		if op.byte {
			value &= 0xff
		}
		//
		return value, err
	default:
		base, err := m.get(op.reg)
		if err != nil {
			return 0, err
		}
		//
		return m.load(base + op.value)
	}
}

func (c *amd64) write(m *Machine, op operand, value int64) error {
	switch op.kind {
	case regOperand:
		if op.byte {
			old, err := m.get(op.reg)
			if err != nil {
				return err
			}
			//
			value = (old &^ 0xff) | (value & 0xff)
		}
		//
		return m.set(op.reg, value)
	case memOperand:
		base, err := m.get(op.reg)
		if err != nil {
			return err
		}
		//
		return m.store(base+op.value, value)
	default:
		return fmt.Errorf("%w: cannot write to an immediate", ErrMalformedOperand)
	}
}

// Decode an operand in Intel syntax.
func (c *amd64) decode(text string) (operand, error) {
	text = strings.TrimSpace(text)
	//
	if upper := strings.ToUpper(text); strings.HasPrefix(upper, "QWORD PTR") {
		text = strings.TrimSpace(text[len("QWORD PTR"):])
	}
	//
	if strings.HasPrefix(text, "[") && strings.HasSuffix(text, "]") {
		return c.decodeAddress(text[1 : len(text)-1])
	} else if value, err := strconv.ParseInt(text, 0, 64); err == nil {
		return operand{kind: immOperand, value: value}, nil
	} else if reg, ok := amd64ByteRegisters[text]; ok {
		return operand{kind: regOperand, reg: reg, byte: true}, nil
	} else if isAmd64Register(text) {
		return operand{kind: regOperand, reg: text}, nil
	}
	//
	return operand{}, fmt.Errorf("%w %q", ErrMalformedOperand, text)
}

// Decode an address of the form "reg", "reg + n" or "reg - n".
func (c *amd64) decodeAddress(text string) (operand, error) {
	var (
		base   = strings.TrimSpace(text)
		offset int64
	)
	//
	if idx := strings.IndexAny(base, "+-"); idx >= 0 {
		value, err := strconv.ParseInt(strings.ReplaceAll(base[idx:], " ", ""), 0, 64)
		if err != nil {
			return operand{}, fmt.Errorf("%w: address [%s]", ErrMalformedOperand, text)
		}
		//
		base, offset = strings.TrimSpace(base[:idx]), value
	}
	//
	if !isAmd64Register(base) {
		return operand{}, fmt.Errorf("%w %q", ErrUnknownRegister, base)
	}
	//
	return operand{kind: memOperand, reg: base, value: offset}, nil
}

func isAmd64Register(name string) bool {
	for _, r := range amd64Registers {
		if r == name {
			return true
		}
	}
	//
	return false
}

var errArity = fmt.Errorf("%w: wrong number of operands", ErrMalformedOperand)
