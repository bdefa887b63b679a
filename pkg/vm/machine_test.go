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
	"math"
	"strconv"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// Assemble a listing with a single exported entry point.
func listing(header string, lines ...string) string {
	return header + "\n.globl main\nmain:\n  " + strings.Join(lines, "\n  ") + "\n"
}

func run(arch string, config Config, text string) (int64, error) {
	machine, err := NewMachine(arch, config)
	Expect(err).NotTo(HaveOccurred())
	Expect(machine.Load(text)).To(Succeed())

	return machine.Run(context.Background())
}

var _ = Describe("Machine", func() {
	It("should accept target aliases", func() {
		machine, err := NewMachine("x86_64", DefaultConfig())
		Expect(err).NotTo(HaveOccurred())
		Expect(machine.Arch()).To(Equal("amd64"))

		machine, err = NewMachine("aarch64", DefaultConfig())
		Expect(err).NotTo(HaveOccurred())
		Expect(machine.Arch()).To(Equal("arm64"))

		_, err = NewMachine("mips", DefaultConfig())
		Expect(err).To(MatchError(ContainSubstring("unsupported architecture")))
	})

	It("should require a program", func() {
		machine, _ := NewMachine("amd64", DefaultConfig())

		_, err := machine.Run(context.Background())
		Expect(err).To(HaveOccurred())
	})

	It("should reject a program without entry point", func() {
		machine, _ := NewMachine("amd64", DefaultConfig())

		Expect(machine.Load("ret\n")).NotTo(Succeed())
	})

	It("should enforce the step limit", func() {
		text := listing(".intel_syntax noprefix", "nop", "nop", "nop", "ret")

		_, err := run("amd64", Config{MaxSteps: 3, StackSize: 1024}, text)
		Expect(err).To(MatchError(ErrStepLimit))
	})

	It("should stop when cancelled", func() {
		machine, _ := NewMachine("amd64", DefaultConfig())
		Expect(machine.Load(listing(".intel_syntax noprefix", "ret"))).To(Succeed())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := machine.Run(ctx)
		Expect(err).To(MatchError(context.Canceled))
	})

	It("should report running off the end", func() {
		_, err := run("amd64", DefaultConfig(), listing(".intel_syntax noprefix", "nop"))

		Expect(err).To(MatchError(ContainSubstring("past the end")))
	})

	It("should be rerunnable", func() {
		machine, _ := NewMachine("amd64", DefaultConfig())
		Expect(machine.Load(listing(".intel_syntax noprefix", "push 3", "pop rax", "ret"))).To(Succeed())

		for i := 0; i < 2; i++ {
			result, err := machine.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(int64(3)))
			Expect(machine.Steps()).To(Equal(uint(3)))
		}
	})
})

var _ = Describe("amd64", func() {
	exec := func(lines ...string) (int64, error) {
		return run("amd64", DefaultConfig(), listing(".intel_syntax noprefix", lines...))
	}

	It("should return the accumulator", func() {
		result, err := exec("mov rax, 42", "ret")

		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(Equal(int64(42)))
	})

	It("should push and pop through memory", func() {
		result, err := exec(
			"push rbp",
			"mov rbp, rsp",
			"sub rsp, 16",
			"mov r10, rbp",
			"sub r10, 8",
			"mov rax, r10",
			"mov QWORD PTR [rax], 5",
			"push QWORD PTR [rax]",
			"push 2",
			"pop rdi",
			"pop rax",
			"imul rax, rdi",
			"push rax",
			"pop rax",
			"mov rsp, rbp",
			"pop rbp",
			"ret")

		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(Equal(int64(10)))
	})

	It("should divide with truncation", func() {
		result, err := exec("mov rax, -7", "mov rdi, 2", "cqo", "idiv rdi", "ret")

		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(Equal(int64(-3)))
	})

	It("should trap on division by zero", func() {
		_, err := exec("mov rax, 1", "mov rdi, 0", "cqo", "idiv rdi", "ret")

		Expect(err).To(MatchError(ErrDivideByZero))
		Expect(err).To(MatchError(ContainSubstring("line 7: idiv rdi")))
	})

	It("should trap on division overflow", func() {
		_, err := exec("mov rax, -9223372036854775808", "mov rdi, -1", "cqo", "idiv rdi", "ret")

		Expect(err).To(MatchError(ErrDivideOverflow))
	})

	It("should set bytes from comparisons", func() {
		for _, c := range []struct {
			insn     string
			lhs, rhs int64
			expected int64
		}{
			{"sete", 2, 2, 1}, {"sete", 2, 3, 0},
			{"setne", 2, 3, 1}, {"setl", -1, 0, 1},
			{"setl", 0, 0, 0}, {"setle", 0, 0, 1},
			{"setg", 1, 0, 1}, {"setge", 0, 1, 0},
		} {
			result, err := exec(
				"mov rax, 0x7fff",
				"mov rdi, "+itoa(c.lhs),
				"cmp rdi, "+itoa(c.rhs),
				c.insn+" al",
				"movzx rax, al",
				"ret")

			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(c.expected), "%s %d %d", c.insn, c.lhs, c.rhs)
		}
	})

	It("should materialise large immediates", func() {
		result, err := exec("mov r11, 9223372036854775807", "push r11", "pop rax", "ret")

		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(Equal(int64(math.MaxInt64)))
	})

	It("should detect stack underflow", func() {
		_, err := exec("pop rdi", "pop rdi", "ret")

		Expect(err).To(MatchError(ErrStackUnderflow))
	})

	It("should detect stack overflow", func() {
		_, err := exec("sub rsp, 2000000", "push 1", "ret")

		Expect(err).To(MatchError(ErrStackOverflow))
	})

	It("should reject unknown instructions", func() {
		_, err := exec("jmp main")

		Expect(err).To(MatchError(ErrUnknownInstruction))
	})

	It("should reject unknown operands", func() {
		_, err := exec("mov rax, eax", "ret")

		Expect(err).To(MatchError(ErrMalformedOperand))
	})

	It("should reject memory to memory moves", func() {
		_, err := exec("mov QWORD PTR [rsp], QWORD PTR [rsp]", "ret")

		Expect(err).To(MatchError(ErrMalformedOperand))
	})

	It("should reject returns to unknown addresses", func() {
		_, err := exec("push 64", "ret")

		Expect(err).To(MatchError(ContainSubstring("return to unknown address")))
	})
})

var _ = Describe("arm64", func() {
	exec := func(lines ...string) (int64, error) {
		return run("arm64", DefaultConfig(), listing(".text", lines...))
	}

	It("should return the accumulator", func() {
		result, err := exec("movz x0, #42", "ret")

		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(Equal(int64(42)))
	})

	It("should compose wide immediates", func() {
		result, err := exec(
			"movz x0, #65535",
			"movk x0, #65535, lsl #16",
			"movk x0, #65535, lsl #32",
			"movk x0, #65535, lsl #48",
			"ret")

		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(Equal(int64(-1)))

		result, err = exec("movz x0, #1, lsl #32", "movk x0, #7", "ret")

		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(Equal(int64(1<<32 + 7)))
	})

	It("should save and restore the frame", func() {
		result, err := exec(
			"stp x29, x30, [sp, #-16]!",
			"mov x29, sp",
			"sub sp, sp, #16",
			"mov x9, x29",
			"sub x9, x9, #8",
			"mov x0, x9",
			"movz x16, #6",
			"str x16, [x0]",
			"ldr x16, [x0]",
			"str x16, [sp, #-16]!",
			"movz x16, #7",
			"str x16, [sp, #-16]!",
			"ldr x1, [sp], #16",
			"ldr x0, [sp], #16",
			"mul x0, x0, x1",
			"str x0, [sp, #-16]!",
			"ldr x0, [sp], #16",
			"mov sp, x29",
			"ldp x29, x30, [sp], #16",
			"ret")

		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(Equal(int64(42)))
	})

	It("should divide by zero without trapping", func() {
		result, err := exec("movz x0, #9", "movz x1, #0", "sdiv x0, x0, x1", "ret")

		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(Equal(int64(0)))
	})

	It("should set registers from comparisons", func() {
		result, err := exec("movz x0, #3", "cmp x0, #4", "cset x0, lt", "ret")

		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(Equal(int64(1)))

		result, err = exec("movz x0, #3", "movz x1, #3", "cmp x0, x1", "cset x0, ne", "ret")

		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(Equal(int64(0)))
	})

	It("should treat xzr as zero", func() {
		result, err := exec("movz x0, #5", "add x0, x0, xzr", "mov xzr, x0", "add x0, x0, xzr", "ret")

		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(Equal(int64(5)))
	})

	It("should require an aligned stack pointer", func() {
		_, err := exec("sub sp, sp, #8", "str x0, [sp, #-16]!", "ret")

		Expect(err).To(MatchError(ContainSubstring("misaligned stack pointer")))
	})

	It("should detect stack underflow", func() {
		_, err := exec("ldr x0, [sp], #16", "ret")

		Expect(err).To(MatchError(ErrStackUnderflow))
	})

	It("should reject oversized wide immediates", func() {
		_, err := exec("movz x0, #65536", "ret")

		Expect(err).To(MatchError(ErrMalformedOperand))
	})

	It("should reject unknown registers", func() {
		_, err := exec("mov w0, #1", "ret")

		Expect(err).To(MatchError(ErrUnknownRegister))
	})
})

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
