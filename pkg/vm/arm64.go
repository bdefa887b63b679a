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
	"strconv"
	"strings"
)

// Register which always reads as zero and discards writes.
const arm64Zero = "xzr"

var arm64Registers = func() []string {
	var names = []string{"sp"}
	//
	for i := 0; i <= 30; i++ {
		names = append(names, fmt.Sprintf("x%d", i))
	}
	//
	return names
}()

// address is a decoded load/store address.  Pre-indexed addresses ("[r, #n]!")
// and post-indexed addresses ("[r], #n") write the updated address back into
// the base register.
type address struct {
	base   string
	offset int64
	// Value added to the base register after the access
	writeback int64
	// Whether the offset applies before the access
	preIndex bool
}

type arm64Func func(m *Machine, ops []string) error

type arm64 struct {
	instFuncs map[string]arm64Func
}

func newArm64() *arm64 {
	c := &arm64{}
	//
	c.instFuncs = map[string]arm64Func{
		"mov":  c.runMov,
		"movz": c.runMovz,
		"movk": c.runMovk,
		"add":  c.arithmetic(func(x, y int64) int64 { return x + y }),
		"sub":  c.arithmetic(func(x, y int64) int64 { return x - y }),
		"mul":  c.arithmetic(func(x, y int64) int64 { return x * y }),
		"sdiv": c.arithmetic(sdiv),
		"cmp":  c.runCmp,
		"cset": c.runCset,
		"ldr":  c.runLdr,
		"str":  c.runStr,
		"ldp":  c.runLdp,
		"stp":  c.runStp,
		"ret":  c.runRet,
		"nop":  func(_ *Machine, _ []string) error { return nil },
	}
	//
	return c
}

func (c *arm64) name() string {
	return "arm64"
}

func (c *arm64) registers() []string {
	return arm64Registers
}

func (c *arm64) reset(m *Machine) error {
	m.regs["sp"] = stackBase
	m.regs["x30"] = returnSentinel
	//
	return nil
}

func (c *arm64) result(m *Machine) int64 {
	return m.regs["x0"]
}

func (c *arm64) execute(m *Machine, insn Instruction) error {
	if instFunc, ok := c.instFuncs[insn.Mnemonic]; ok {
		return instFunc(m, insn.Operands)
	}
	//
	return fmt.Errorf("%w %q", ErrUnknownInstruction, insn.Mnemonic)
}

func (c *arm64) runMov(m *Machine, ops []string) error {
	if len(ops) != 2 {
		return errArity
	}
	//
	value, err := c.value(m, ops[1])
	if err != nil {
		return err
	}
	//
	return c.write(m, ops[0], value)
}

func (c *arm64) runMovz(m *Machine, ops []string) error {
	imm, shift, err := c.wideImmediate(ops)
	if err != nil {
		return err
	}
	//
	return c.write(m, ops[0], int64(imm<<shift))
}

func (c *arm64) runMovk(m *Machine, ops []string) error {
	imm, shift, err := c.wideImmediate(ops)
	if err != nil {
		return err
	}
	//
	old, err := c.read(m, ops[0])
	if err != nil {
		return err
	}
	//
	bits := (uint64(old) &^ (0xffff << shift)) | (imm << shift)
	//
	return c.write(m, ops[0], int64(bits))
}

func (c *arm64) arithmetic(fn func(int64, int64) int64) arm64Func {
	return func(m *Machine, ops []string) error {
		if len(ops) != 3 {
			return errArity
		}
		//
		lhs, err := c.read(m, ops[1])
		if err != nil {
			return err
		}
		//
		rhs, err := c.value(m, ops[2])
		if err != nil {
			return err
		}
		//
		return c.write(m, ops[0], fn(lhs, rhs))
	}
}

// Division by zero yields zero, and overflow wraps.
func sdiv(x, y int64) int64 {
	if y == 0 {
		return 0
	}
	//
	return x / y
}

func (c *arm64) runCmp(m *Machine, ops []string) error {
	if len(ops) != 2 {
		return errArity
	}
	//
	lhs, err := c.read(m, ops[0])
	if err != nil {
		return err
	}
	//
	rhs, err := c.value(m, ops[1])
	if err != nil {
		return err
	}
	//
	m.flags = [2]int64{lhs, rhs}
	//
	return nil
}

func (c *arm64) runCset(m *Machine, ops []string) error {
	if len(ops) != 2 {
		return errArity
	}
	//
	holds, err := m.compare(strings.ToLower(ops[1]))
	if err != nil {
		return err
	}
	//
	return c.write(m, ops[0], boolToWord(holds))
}

func (c *arm64) runLdr(m *Machine, ops []string) error {
	if len(ops) < 2 {
		return errArity
	}
	//
	return c.access(m, ops[1:], func(addr int64) error {
		value, err := m.load(addr)
		if err != nil {
			return err
		}
		//
		return c.write(m, ops[0], value)
	})
}

func (c *arm64) runStr(m *Machine, ops []string) error {
	if len(ops) < 2 {
		return errArity
	}
	//
	value, err := c.read(m, ops[0])
	if err != nil {
		return err
	}
	//
	return c.access(m, ops[1:], func(addr int64) error {
		return m.store(addr, value)
	})
}

func (c *arm64) runLdp(m *Machine, ops []string) error {
	if len(ops) < 3 {
		return errArity
	}
	//
	return c.access(m, ops[2:], func(addr int64) error {
		first, err := m.load(addr)
		if err != nil {
			return err
		}
		//
		second, err := m.load(addr + 8)
		if err != nil {
			return err
		} else if err = c.write(m, ops[0], first); err != nil {
			return err
		}
		//
		return c.write(m, ops[1], second)
	})
}

func (c *arm64) runStp(m *Machine, ops []string) error {
	if len(ops) < 3 {
		return errArity
	}
	//
	first, err := c.read(m, ops[0])
	if err != nil {
		return err
	}
	//
	second, err := c.read(m, ops[1])
	if err != nil {
		return err
	}
	//
	return c.access(m, ops[2:], func(addr int64) error {
		if err := m.store(addr, first); err != nil {
			return err
		}
		//
		return m.store(addr+8, second)
	})
}

func (c *arm64) runRet(m *Machine, ops []string) error {
	var link = "x30"
	//
	switch len(ops) {
	case 0:
	case 1:
		link = ops[0]
	default:
		return errArity
	}
	//
	target, err := c.read(m, link)
	if err != nil {
		return err
	}
	//
	return m.ret(target)
}

// Perform a memory access at a decoded address, writing back the base
// register (if required) only once the access has succeeded.
func (c *arm64) access(m *Machine, ops []string, fn func(int64) error) error {
	addr, err := c.decodeAddress(ops)
	if err != nil {
		return err
	}
	//
	base, err := c.read(m, addr.base)
	if err != nil {
		return err
	} else if addr.base == "sp" && base%16 != 0 {
		return fmt.Errorf("%w: misaligned stack pointer %#x", ErrMalformedOperand, base)
	}
	//
	effective := base
	if addr.preIndex || addr.writeback == 0 {
		effective += addr.offset
	}
	//
	if err := fn(effective); err != nil {
		return err
	} else if addr.writeback != 0 {
		return c.write(m, addr.base, base+addr.writeback)
	}
	//
	return nil
}

// Decode one of "[r]", "[r, #n]", "[r, #n]!" or "[r]", "#n".
func (c *arm64) decodeAddress(ops []string) (address, error) {
	var (
		text = ops[0]
		addr address
	)
	//
	if addr.preIndex = strings.HasSuffix(text, "!"); addr.preIndex {
		text = strings.TrimSuffix(text, "!")
	}
	//
	if !strings.HasPrefix(text, "[") || !strings.HasSuffix(text, "]") || len(ops) > 2 {
		return addr, fmt.Errorf("%w: address %s", ErrMalformedOperand, strings.Join(ops, ", "))
	}
	//
	parts := strings.Split(text[1:len(text)-1], ",")
	addr.base = strings.TrimSpace(parts[0])
	//
	switch len(parts) {
	case 1:
	case 2:
		offset, err := immediate(parts[1])
		if err != nil {
			return addr, err
		}
		//
		addr.offset = offset
	default:
		return addr, fmt.Errorf("%w: address %s", ErrMalformedOperand, ops[0])
	}
	//
	if addr.preIndex {
		addr.writeback = addr.offset
	} else if len(ops) == 2 {
		post, err := immediate(ops[1])
		if err != nil {
			return addr, err
		} else if len(parts) != 1 {
			return addr, fmt.Errorf("%w: address %s", ErrMalformedOperand, strings.Join(ops, ", "))
		}
		//
		addr.writeback = post
	}
	//
	return addr, nil
}

// Decode the operands of movz/movk: register, 16-bit immediate and optional
// "lsl #n" shift.
func (c *arm64) wideImmediate(ops []string) (uint64, uint64, error) {
	var shift int64
	//
	if len(ops) != 2 && len(ops) != 3 {
		return 0, 0, errArity
	}
	//
	imm, err := immediate(ops[1])
	if err != nil {
		return 0, 0, err
	} else if imm < 0 || imm > 0xffff {
		return 0, 0, fmt.Errorf("%w: immediate %s exceeds 16 bits", ErrMalformedOperand, ops[1])
	}
	//
	if len(ops) == 3 {
		fields := strings.Fields(ops[2])
		//
		if len(fields) != 2 || strings.ToLower(fields[0]) != "lsl" {
			return 0, 0, fmt.Errorf("%w: shift %s", ErrMalformedOperand, ops[2])
		} else if shift, err = immediate(fields[1]); err != nil {
			return 0, 0, err
		} else if shift%16 != 0 || shift < 0 || shift > 48 {
			return 0, 0, fmt.Errorf("%w: shift %s", ErrMalformedOperand, ops[2])
		}
	}
	//
	return uint64(imm), uint64(shift), nil
}

// Read either a register or an immediate.
func (c *arm64) value(m *Machine, text string) (int64, error) {
	if strings.HasPrefix(strings.TrimSpace(text), "#") {
		return immediate(text)
	}
	//
	return c.read(m, text)
}

func (c *arm64) read(m *Machine, reg string) (int64, error) {
	if reg = strings.TrimSpace(reg); reg == arm64Zero {
		return 0, nil
	}
	//
	return m.get(reg)
}

func (c *arm64) write(m *Machine, reg string, value int64) error {
	if reg = strings.TrimSpace(reg); reg == arm64Zero {
		return nil
	}
	//
	return m.set(reg, value)
}

func immediate(text string) (int64, error) {
	text = strings.TrimSpace(text)
	//
	if !strings.HasPrefix(text, "#") {
		return 0, fmt.Errorf("%w: expected immediate, found %q", ErrMalformedOperand, text)
	}
	//
	value, err := strconv.ParseInt(text[1:], 0, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: immediate %q", ErrMalformedOperand, text)
	}
	//
	return value, nil
}
