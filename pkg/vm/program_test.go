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
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Program", func() {
	It("should separate labels, directives and instructions", func() {
		program, err := ParseProgram(`.text
.globl _main
.p2align 2
_main:
  stp x29, x30, [sp, #-16]!   // save frame
  ldr x0, [sp], #16

  ret
`)

		Expect(err).NotTo(HaveOccurred())
		Expect(program.Globals).To(Equal([]string{"_main"}))
		Expect(program.Labels).To(HaveKeyWithValue("_main", 0))
		Expect(program.Instructions).To(HaveLen(3))
		Expect(program.Instructions[0]).To(Equal(Instruction{"stp", []string{"x29", "x30", "[sp, #-16]!"}, 5}))
		Expect(program.Instructions[1].Operands).To(Equal([]string{"x0", "[sp]", "#16"}))
		Expect(program.Instructions[2].Operands).To(BeEmpty())

		entry, err := program.Entry()
		Expect(err).NotTo(HaveOccurred())
		Expect(entry).To(Equal(0))
	})

	It("should keep Intel memory operands whole", func() {
		program, err := ParseProgram("  MOV QWORD PTR [rax], rdi")

		Expect(err).NotTo(HaveOccurred())
		Expect(program.Instructions[0].Mnemonic).To(Equal("mov"))
		Expect(program.Instructions[0].Operands).To(Equal([]string{"QWORD PTR [rax]", "rdi"}))
		Expect(program.Instructions[0].String()).To(Equal("mov QWORD PTR [rax], rdi"))
	})

	It("should reject duplicate labels", func() {
		_, err := ParseProgram("a:\nret\na:\n")

		Expect(err).To(MatchError(ContainSubstring("line 3: duplicate label \"a\"")))
	})

	It("should reject unbalanced brackets", func() {
		_, err := ParseProgram("ldr x0, [sp")

		Expect(err).To(MatchError(ErrMalformedOperand))
	})

	It("should reject empty operands", func() {
		_, err := ParseProgram("add x0, , x1")

		Expect(err).To(MatchError(ErrMalformedOperand))
	})

	It("should require an entry point", func() {
		program, err := ParseProgram("main:\nret\n")
		Expect(err).NotTo(HaveOccurred())

		_, err = program.Entry()
		Expect(err).To(MatchError(ContainSubstring("no entry point")))

		program, err = ParseProgram(".globl main\nret\n")
		Expect(err).NotTo(HaveOccurred())

		_, err = program.Entry()
		Expect(err).To(MatchError(ContainSubstring("undefined entry label \"main\"")))
	})
})
