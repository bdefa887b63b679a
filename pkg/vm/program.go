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
	"strings"
)

// Instruction is a single line of assembly, split into its mnemonic and
// operands.  Operands are kept as text, since their interpretation depends upon
// the architecture.
type Instruction struct {
	Mnemonic string
	Operands []string
	// Line number (counting from 1) in the original text.
	Line uint
}

func (i Instruction) String() string {
	if len(i.Operands) == 0 {
		return i.Mnemonic
	}
	//
	return fmt.Sprintf("%s %s", i.Mnemonic, strings.Join(i.Operands, ", "))
}

// Program is a parsed assembly listing.
type Program struct {
	Instructions []Instruction
	// Maps each label to the index of the instruction following it.
	Labels map[string]int
	// Symbols exported with .globl, in order of declaration.
	Globals []string
}

// ParseProgram splits assembly text into labels, directives and instructions.
// Comments start with "//" and run to the end of the line.
func ParseProgram(text string) (*Program, error) {
	var program = &Program{Labels: make(map[string]int)}
	//
	for i, line := range strings.Split(text, "\n") {
		num := uint(i + 1)
		//
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}
		//
		line = strings.TrimSpace(line)
		//
		switch {
		case line == "":
			continue
		case strings.HasSuffix(line, ":") && !strings.ContainsAny(line, " \t,[]"):
			label := strings.TrimSuffix(line, ":")
			//
			if _, ok := program.Labels[label]; ok {
				return nil, fmt.Errorf("line %d: duplicate label %q", num, label)
			}
			//
			program.Labels[label] = len(program.Instructions)
		case strings.HasPrefix(line, "."):
			fields := strings.Fields(line)
			//
			if fields[0] == ".globl" || fields[0] == ".global" {
				if len(fields) != 2 {
					return nil, fmt.Errorf("line %d: malformed directive %q", num, line)
				}
				//
				program.Globals = append(program.Globals, fields[1])
			}
		default:
			insn, err := parseInstruction(line, num)
			if err != nil {
				return nil, err
			}
			//
			program.Instructions = append(program.Instructions, insn)
		}
	}
	//
	return program, nil
}

// Entry returns the index of the first instruction of the first exported
// symbol.
func (p *Program) Entry() (int, error) {
	if len(p.Globals) == 0 {
		return 0, fmt.Errorf("no entry point (missing .globl)")
	} else if index, ok := p.Labels[p.Globals[0]]; ok {
		return index, nil
	}
	//
	return 0, fmt.Errorf("undefined entry label %q", p.Globals[0])
}

func parseInstruction(line string, num uint) (Instruction, error) {
	var (
		mnemonic = line
		rest     string
	)
	//
	if idx := strings.IndexAny(line, " \t"); idx >= 0 {
		mnemonic, rest = line[:idx], strings.TrimSpace(line[idx:])
	}
	//
	operands, err := splitOperands(rest)
	if err != nil {
		return Instruction{}, fmt.Errorf("line %d: %w", num, err)
	}
	//
	return Instruction{strings.ToLower(mnemonic), operands, num}, nil
}

// Split operands on commas, except those within square brackets.
func splitOperands(text string) ([]string, error) {
	var (
		operands []string
		depth    int
		start    int
	)
	//
	if text == "" {
		return nil, nil
	}
	//
	for i, c := range text {
		switch c {
		case '[':
			depth++
		case ']':
			if depth--; depth < 0 {
				return nil, fmt.Errorf("%w: unbalanced brackets in %q", ErrMalformedOperand, text)
			}
		case ',':
			if depth == 0 {
				operands = append(operands, strings.TrimSpace(text[start:i]))
				start = i + 1
			}
		}
	}
	//
	if depth != 0 {
		return nil, fmt.Errorf("%w: unbalanced brackets in %q", ErrMalformedOperand, text)
	}
	//
	operands = append(operands, strings.TrimSpace(text[start:]))
	//
	for _, op := range operands {
		if op == "" {
			return nil, fmt.Errorf("%w: empty operand in %q", ErrMalformedOperand, text)
		}
	}
	//
	return operands, nil
}
