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
	"context"
	"errors"
	"fmt"

	"github.com/consensys/go-tinyc/pkg/compiler/backend"
	log "github.com/sirupsen/logrus"
)

// Highest address (exclusive) of the stack, which grows downwards from here.
const stackBase int64 = 0x7fff_0000

// Return address handed to the entry point.  Returning to it halts the machine.
const returnSentinel int64 = -0x0dead

var (
	// ErrStepLimit is returned when a program executes too many instructions.
	ErrStepLimit = errors.New("step limit exceeded")
	// ErrDivideByZero is returned for a trapping division by zero.
	ErrDivideByZero = errors.New("division by zero")
	// ErrDivideOverflow is returned for a trapping division whose quotient
	// does not fit in 64 bits.
	ErrDivideOverflow = errors.New("division overflow")
	// ErrStackOverflow is returned when accessing memory beyond the stack limit.
	ErrStackOverflow = errors.New("stack overflow")
	// ErrStackUnderflow is returned when accessing memory above the stack base.
	ErrStackUnderflow = errors.New("stack underflow")
	// ErrUnknownInstruction is returned for an unsupported mnemonic.
	ErrUnknownInstruction = errors.New("unknown instruction")
	// ErrUnknownRegister is returned for an unsupported register name.
	ErrUnknownRegister = errors.New("unknown register")
	// ErrMalformedOperand is returned for operands which cannot be decoded, or
	// which are invalid for the instruction.
	ErrMalformedOperand = errors.New("malformed operand")
)

// Config determines the resources available to a machine.
type Config struct {
	// Maximum number of instructions executed before giving up.
	MaxSteps uint
	// Size of the stack (in bytes).
	StackSize int64
}

// DefaultConfig returns a configuration sufficient for any reasonable program.
func DefaultConfig() Config {
	return Config{MaxSteps: 1_000_000, StackSize: 1 << 20}
}

// cpu captures the architecture-specific parts of a machine.
type cpu interface {
	name() string
	registers() []string
	// Set up the initial frame, such that returning from the entry point halts.
	reset(m *Machine) error
	execute(m *Machine, insn Instruction) error
	result(m *Machine) int64
}

// Machine executes the assembly text generated for a given target.  It models
// 64-bit registers, a downward-growing stack of 64-bit words and the operands of
// the most recent comparison.  Only the instructions emitted by the backends
// (and a few close relatives) are supported.
type Machine struct {
	cpu    cpu
	config Config
	// Loaded program (if any)
	program *Program
	// Register file
	regs map[string]int64
	// Stack memory, indexed by (word-aligned) address.  Unwritten words read
	// as zero.
	memory map[int64]int64
	// Operands of the most recent comparison
	flags [2]int64
	// Index of next instruction
	pc int
	// Number of instructions executed
	steps  uint
	halted bool
}

// NewMachine constructs a machine for the named target (which may be any alias
// accepted by the backend registry).
func NewMachine(target string, config Config) (*Machine, error) {
	var cpu cpu
	//
	name, ok := backend.Canonical(target)
	//
	switch {
	case ok && name == "amd64":
		cpu = newAmd64()
	case ok && name == "arm64":
		cpu = newArm64()
	default:
		return nil, fmt.Errorf("unsupported architecture %q", target)
	}
	//
	return &Machine{cpu: cpu, config: config}, nil
}

// Arch returns the canonical name of this machine's architecture.
func (m *Machine) Arch() string {
	return m.cpu.name()
}

// Load parses the given assembly text, replacing any previously loaded program.
func (m *Machine) Load(text string) error {
	program, err := ParseProgram(text)
	if err != nil {
		return err
	} else if _, err = program.Entry(); err != nil {
		return err
	}
	//
	m.program = program
	//
	return nil
}

// Steps returns the number of instructions executed by the last run.
func (m *Machine) Steps() uint {
	return m.steps
}

// Register returns the current value of a register.
func (m *Machine) Register(name string) (int64, bool) {
	v, ok := m.regs[name]
	return v, ok
}

// Run executes the loaded program from its entry point until it returns,
// yielding the value of the accumulator.  Cancelling the context aborts the run.
func (m *Machine) Run(ctx context.Context) (int64, error) {
	if m.program == nil {
		return 0, errors.New("no program loaded")
	}
	//
	if err := m.reset(); err != nil {
		return 0, err
	}
	//
	for !m.halted {
		if err := ctx.Err(); err != nil {
			return 0, err
		} else if m.steps >= m.config.MaxSteps {
			return 0, fmt.Errorf("%w (%d)", ErrStepLimit, m.config.MaxSteps)
		} else if m.pc >= len(m.program.Instructions) {
			return 0, errors.New("execution ran past the end of the program")
		}
		//
		insn := m.program.Instructions[m.pc]
		m.pc++
		m.steps++
		//
		if err := m.cpu.execute(m, insn); err != nil {
			return 0, fmt.Errorf("line %d: %s: %w", insn.Line, insn.String(), err)
		}
	}
	//
	result := m.cpu.result(m)
	log.Debugf("%s machine halted after %d steps with %d", m.cpu.name(), m.steps, result)
	//
	return result, nil
}

func (m *Machine) reset() error {
	entry, err := m.program.Entry()
	if err != nil {
		return err
	}
	//
	m.regs = make(map[string]int64)
	m.memory = make(map[int64]int64)
	m.flags = [2]int64{}
	m.pc = entry
	m.steps = 0
	m.halted = false
	//
	for _, r := range m.cpu.registers() {
		m.regs[r] = 0
	}
	//
	return m.cpu.reset(m)
}

func (m *Machine) get(reg string) (int64, error) {
	if v, ok := m.regs[reg]; ok {
		return v, nil
	}
	//
	return 0, fmt.Errorf("%w %q", ErrUnknownRegister, reg)
}

func (m *Machine) set(reg string, value int64) error {
	if _, ok := m.regs[reg]; !ok {
		return fmt.Errorf("%w %q", ErrUnknownRegister, reg)
	}
	//
	m.regs[reg] = value
	//
	return nil
}

func (m *Machine) load(addr int64) (int64, error) {
	if err := m.checkAddress(addr); err != nil {
		return 0, err
	}
	//
	return m.memory[addr], nil
}

func (m *Machine) store(addr int64, value int64) error {
	if err := m.checkAddress(addr); err != nil {
		return err
	}
	//
	m.memory[addr] = value
	//
	return nil
}

func (m *Machine) checkAddress(addr int64) error {
	switch {
	case addr >= stackBase:
		return fmt.Errorf("%w (address %#x)", ErrStackUnderflow, addr)
	case addr < stackBase-m.config.StackSize:
		return fmt.Errorf("%w (address %#x)", ErrStackOverflow, addr)
	case addr%8 != 0:
		return fmt.Errorf("%w: unaligned address %#x", ErrMalformedOperand, addr)
	}
	//
	return nil
}

// Return to a given address, which halts the machine if it is the entry
// point's return address.
func (m *Machine) ret(target int64) error {
	if target != returnSentinel {
		return fmt.Errorf("return to unknown address %#x", target)
	}
	//
	m.halted = true
	//
	return nil
}

// Compare evaluates a condition over the operands of the last comparison.
func (m *Machine) compare(cond string) (bool, error) {
	lhs, rhs := m.flags[0], m.flags[1]
	//
	switch cond {
	case "eq", "e":
		return lhs == rhs, nil
	case "ne":
		return lhs != rhs, nil
	case "lt", "l":
		return lhs < rhs, nil
	case "le":
		return lhs <= rhs, nil
	case "gt", "g":
		return lhs > rhs, nil
	case "ge":
		return lhs >= rhs, nil
	default:
		return false, fmt.Errorf("%w: unknown condition %q", ErrMalformedOperand, cond)
	}
}

func boolToWord(b bool) int64 {
	if b {
		return 1
	}
	//
	return 0
}
