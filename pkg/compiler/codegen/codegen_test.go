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
package codegen

import (
	"math"

	"github.com/consensys/go-tinyc/pkg/compiler/ast"
	"github.com/consensys/go-tinyc/pkg/compiler/backend"
	gomock "github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Generator", func() {
	var (
		mockCtrl    *gomock.Controller
		mockBackend *MockBackend
		gen         *Generator
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		mockBackend = NewMockBackend(mockCtrl)
		gen = NewGenerator(mockBackend)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	// Expected calls for loading the variable at a given offset.
	expectLoad := func(offset int64) []*gomock.Call {
		return []*gomock.Call{
			mockBackend.EXPECT().Move(s0, fb),
			mockBackend.EXPECT().Sub(s0, backend.Immediate(offset)),
			mockBackend.EXPECT().Move(acc, s0),
			mockBackend.EXPECT().Push(backend.Memory(backend.ACCUMULATOR)),
		}
	}

	Context("Leaves", func() {
		It("should push a number", func() {
			mockBackend.EXPECT().Push(backend.Immediate(5))

			Expect(gen.Emit(ast.NewNumber(5))).To(BeNil())
		})

		It("should push a negative number", func() {
			mockBackend.EXPECT().Push(backend.Immediate(-3))

			Expect(gen.Emit(ast.NewNumber(-3))).To(BeNil())
		})

		It("should push an exact integer", func() {
			mockBackend.EXPECT().Push(backend.Immediate(9007199254740993))

			Expect(gen.Emit(ast.NewInteger(9007199254740993))).To(BeNil())
		})

		It("should push the largest integer", func() {
			mockBackend.EXPECT().Push(backend.Immediate(math.MaxInt64))

			Expect(gen.Emit(ast.NewInteger(math.MaxInt64))).To(BeNil())
		})

		It("should load a variable from its slot", func() {
			gomock.InOrder(expectLoad(16)...)

			Expect(gen.Emit(ast.NewVariable(16))).To(BeNil())
		})

		It("should reject a fractional number", func() {
			node := ast.NewNumber(1.5)
			err := gen.Emit(node)

			Expect(err).NotTo(BeNil())
			Expect(err.Node).To(BeIdenticalTo(node))
			Expect(err.Message).To(Equal("numeric literal is not an integer"))
		})

		It("should reject a number beyond 64 bits", func() {
			err := gen.Emit(ast.NewNumber(1e19))

			Expect(err).NotTo(BeNil())
			Expect(err.Message).To(Equal("numeric literal is not an integer"))
		})
	})

	Context("Binary Operations", func() {
		It("should evaluate both operands before applying the operator", func() {
			gomock.InOrder(
				mockBackend.EXPECT().Push(backend.Immediate(1)),
				mockBackend.EXPECT().Push(backend.Immediate(2)),
				mockBackend.EXPECT().Pop(sec),
				mockBackend.EXPECT().Pop(acc),
				mockBackend.EXPECT().Add(acc, sec),
				mockBackend.EXPECT().Push(acc),
			)

			Expect(gen.Emit(ast.NewBinary(ast.ADD, ast.NewNumber(1), ast.NewNumber(2)))).To(BeNil())
		})

		It("should lower each arithmetic operator", func() {
			gomock.InOrder(
				mockBackend.EXPECT().Push(gomock.Any()).Times(2),
				mockBackend.EXPECT().Pop(sec),
				mockBackend.EXPECT().Pop(acc),
				mockBackend.EXPECT().Sub(acc, sec),
				mockBackend.EXPECT().Push(acc),
				mockBackend.EXPECT().Push(gomock.Any()).Times(2),
				mockBackend.EXPECT().Pop(sec),
				mockBackend.EXPECT().Pop(acc),
				mockBackend.EXPECT().Mul(acc, sec),
				mockBackend.EXPECT().Push(acc),
				mockBackend.EXPECT().Push(gomock.Any()).Times(2),
				mockBackend.EXPECT().Pop(sec),
				mockBackend.EXPECT().Pop(acc),
				mockBackend.EXPECT().Div(acc, sec),
				mockBackend.EXPECT().Push(acc),
			)

			for _, kind := range []ast.Kind{ast.SUB, ast.MUL, ast.DIV} {
				Expect(gen.Emit(ast.NewBinary(kind, ast.NewNumber(6), ast.NewNumber(3)))).To(BeNil())
			}
		})

		It("should lower each comparison to compare-and-set", func() {
			kinds := map[ast.Kind]backend.Comparison{
				ast.EQUAL:      backend.EQ,
				ast.NOT_EQUAL:  backend.NE,
				ast.LESS:       backend.LT,
				ast.LESS_EQUAL: backend.LE,
			}

			for kind, cmp := range kinds {
				gomock.InOrder(
					mockBackend.EXPECT().Push(backend.Immediate(1)),
					mockBackend.EXPECT().Push(backend.Immediate(2)),
					mockBackend.EXPECT().Pop(sec),
					mockBackend.EXPECT().Pop(acc),
					mockBackend.EXPECT().CompareAndSet(cmp, acc, sec),
					mockBackend.EXPECT().Push(acc),
				)

				Expect(gen.Emit(ast.NewBinary(kind, ast.NewNumber(1), ast.NewNumber(2)))).To(BeNil())
			}
		})

		It("should stop at the first failing operand", func() {
			bad := ast.NewBinary(ast.ASSIGN, ast.NewNumber(2), ast.NewNumber(3))

			mockBackend.EXPECT().Push(backend.Immediate(1))

			err := gen.Emit(ast.NewBinary(ast.ADD, ast.NewNumber(1), bad))
			Expect(err).NotTo(BeNil())
			Expect(err.Message).To(Equal("left side of assignment is not a variable"))
		})
	})

	Context("Assignment", func() {
		It("should store the value and leave it on the stack", func() {
			gomock.InOrder(
				mockBackend.EXPECT().Move(s0, fb),
				mockBackend.EXPECT().Sub(s0, backend.Immediate(8)),
				mockBackend.EXPECT().Move(acc, s0),
				mockBackend.EXPECT().Push(acc),
				mockBackend.EXPECT().Push(backend.Immediate(5)),
				mockBackend.EXPECT().Pop(sec),
				mockBackend.EXPECT().Pop(acc),
				mockBackend.EXPECT().Move(backend.Memory(backend.ACCUMULATOR), sec),
				mockBackend.EXPECT().Push(sec),
			)

			Expect(gen.Emit(ast.NewBinary(ast.ASSIGN, ast.NewVariable(8), ast.NewNumber(5)))).To(BeNil())
		})

		It("should reject a left side which is not a variable", func() {
			left := ast.NewNumber(1)
			err := gen.Emit(ast.NewBinary(ast.ASSIGN, left, ast.NewNumber(2)))

			Expect(err).NotTo(BeNil())
			Expect(err.Node).To(BeIdenticalTo(left))
			Expect(err.Error()).To(Equal("1: left side of assignment is not a variable"))
		})
	})

	Context("Programs", func() {
		It("should wrap statements in a frame", func() {
			calls := []*gomock.Call{
				mockBackend.EXPECT().Header("main"),
				mockBackend.EXPECT().FramePrologue(uint(2)),
				mockBackend.EXPECT().Push(backend.Immediate(7)),
				mockBackend.EXPECT().StatementEpilogue(),
			}
			calls = append(calls, expectLoad(8)...)
			calls = append(calls,
				mockBackend.EXPECT().StatementEpilogue(),
				mockBackend.EXPECT().ProgramEpilogue(),
			)
			gomock.InOrder(calls...)

			program := ast.Program{Statements: []ast.Expr{ast.NewNumber(7), ast.NewVariable(8)}}
			Expect(gen.Program(program, "main", 2)).To(BeNil())
		})

		It("should emit an empty frame for an empty program", func() {
			gomock.InOrder(
				mockBackend.EXPECT().Header("_main"),
				mockBackend.EXPECT().FramePrologue(uint(0)),
				mockBackend.EXPECT().ProgramEpilogue(),
			)

			Expect(gen.Program(ast.Program{}, "_main", 0)).To(BeNil())
		})

		It("should stop at the first failing statement", func() {
			gomock.InOrder(
				mockBackend.EXPECT().Header("main"),
				mockBackend.EXPECT().FramePrologue(uint(0)),
				mockBackend.EXPECT().Push(backend.Immediate(1)),
				mockBackend.EXPECT().StatementEpilogue(),
			)

			program := ast.Program{Statements: []ast.Expr{ast.NewNumber(1), ast.NewNumber(0.25), ast.NewNumber(2)}}
			err := gen.Program(program, "main", 0)

			Expect(err).NotTo(BeNil())
			Expect(err.Node).To(BeIdenticalTo(program.Statements[1]))
		})
	})
})

var _ = Describe("Generator on amd64", func() {
	It("should emit a complete program", func() {
		target := backend.NewAmd64()
		program := ast.Program{Statements: []ast.Expr{
			ast.NewBinary(ast.ASSIGN, ast.NewVariable(8), ast.NewNumber(5)),
		}}

		Expect(NewGenerator(target).Program(program, "main", 1)).To(BeNil())
		Expect(target.String()).To(Equal(`.intel_syntax noprefix
.globl main
main:
  push rbp
  mov rbp, rsp
  sub rsp, 8
  mov r10, rbp
  sub r10, 8
  mov rax, r10
  push rax
  push 5
  pop rdi
  pop rax
  mov QWORD PTR [rax], rdi
  push rdi
  pop rax
  mov rsp, rbp
  pop rbp
  ret
`))
	})
})
