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
package parser

import (
	"fmt"

	"github.com/consensys/go-tinyc/pkg/compiler/ast"
	"github.com/consensys/go-tinyc/pkg/compiler/lexer"
	"github.com/consensys/go-tinyc/pkg/compiler/token"
	"github.com/consensys/go-tinyc/pkg/util/source"
)

// Parse accepts a given source file and parses it into a program, resolving
// identifiers against the given compilation context.  Parsing stops at the
// first error, in which case no program is returned.
func Parse(srcfile *source.File, context *lexer.Context) (ast.Program, *source.SyntaxError) {
	return NewParser(lexer.New(srcfile, context)).Parse()
}

// binop describes a binary operator at a given precedence level.
type binop struct {
	token uint
	kind  ast.Kind
	// Operands are swapped, as for "a > b" which becomes "b < a".
	swap bool
}

var equalityOps = []binop{
	{token.EQUALS_EQUALS, ast.EQUAL, false},
	{token.NOT_EQUALS, ast.NOT_EQUAL, false},
}

var relationalOps = []binop{
	{token.LESS_THAN, ast.LESS, false},
	{token.LESS_THAN_EQUALS, ast.LESS_EQUAL, false},
	{token.GREATER_THAN, ast.LESS, true},
	{token.GREATER_THAN_EQUALS, ast.LESS_EQUAL, true},
}

var additiveOps = []binop{
	{token.ADD, ast.ADD, false},
	{token.SUB, ast.SUB, false},
}

var multiplicativeOps = []binop{
	{token.MUL, ast.MUL, false},
	{token.DIV, ast.DIV, false},
}

// ============================================================================
// Parser
// ============================================================================

// Parser is a recursive-descent parser which pulls tokens from a lexer on
// demand.  The grammar, from loosest to tightest binding, is:
//
//	program        := statement* EOF
//	statement      := expr ';'
//	expr           := assignment
//	assignment     := equality ('=' assignment)?
//	equality       := relational (('==' | '!=') relational)*
//	relational     := additive (('<' | '<=' | '>' | '>=') additive)*
//	additive       := multiplicative (('+' | '-') multiplicative)*
//	multiplicative := unary (('*' | '/') unary)*
//	unary          := ('+' | '-')? primary
//	primary        := '(' expr ')' | number | identifier
type Parser struct {
	lexer *lexer.Lexer
	// Source mapping
	srcmap *source.Map[ast.Expr]
}

// NewParser constructs a new parser over a given lexer.
func NewParser(lexer *lexer.Lexer) *Parser {
	srcmap := source.NewSourceMap[ast.Expr](lexer.SourceFile())
	//
	return &Parser{lexer, srcmap}
}

// Parse statements until the end of input is reached.
func (p *Parser) Parse() (ast.Program, *source.SyntaxError) {
	var program = ast.Program{SourceMap: p.srcmap}
	//
	for !p.lexer.Check(token.EndOfInput()) {
		stmt, err := p.parseStatement()
		//
		if err != nil {
			return ast.Program{}, err
		}
		//
		program.Statements = append(program.Statements, stmt)
	}
	//
	return program, nil
}

func (p *Parser) parseStatement() (ast.Expr, *source.SyntaxError) {
	expr, err := p.parseExpr()
	//
	if err != nil {
		return nil, err
	} else if err = p.expect(token.SEMICOLON, "';'"); err != nil {
		return nil, err
	}
	//
	return expr, nil
}

func (p *Parser) parseExpr() (ast.Expr, *source.SyntaxError) {
	return p.parseAssignment()
}

// Assignment is right-associative, hence recurses on its right-hand side.
func (p *Parser) parseAssignment() (ast.Expr, *source.SyntaxError) {
	lhs, err := p.parseEquality()
	//
	if err != nil {
		return nil, err
	} else if _, ok := p.match(token.EQUALS); !ok {
		return lhs, nil
	}
	//
	rhs, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	//
	return p.binary(ast.ASSIGN, lhs, rhs), nil
}

func (p *Parser) parseEquality() (ast.Expr, *source.SyntaxError) {
	return p.parseLeftAssociative(p.parseRelational, equalityOps)
}

func (p *Parser) parseRelational() (ast.Expr, *source.SyntaxError) {
	return p.parseLeftAssociative(p.parseAdditive, relationalOps)
}

func (p *Parser) parseAdditive() (ast.Expr, *source.SyntaxError) {
	return p.parseLeftAssociative(p.parseMultiplicative, additiveOps)
}

func (p *Parser) parseMultiplicative() (ast.Expr, *source.SyntaxError) {
	return p.parseLeftAssociative(p.parseUnary, multiplicativeOps)
}

// Parse a left-associative chain of operands separated by any of a given set
// of operators, accumulating the tree from the left.
func (p *Parser) parseLeftAssociative(operand func() (ast.Expr, *source.SyntaxError),
	operators []binop) (ast.Expr, *source.SyntaxError) {
	//
	lhs, err := operand()
	//
	for err == nil {
		var (
			op, ok = p.matchAny(operators)
			rhs    ast.Expr
		)
		//
		if !ok {
			return lhs, nil
		} else if rhs, err = operand(); err != nil {
			break
		}
		//
		if op.swap {
			lhs = p.binary(op.kind, rhs, lhs)
		} else {
			lhs = p.binary(op.kind, lhs, rhs)
		}
	}
	//
	return nil, err
}

func (p *Parser) parseUnary() (ast.Expr, *source.SyntaxError) {
	if _, ok := p.match(token.ADD); ok {
		return p.parsePrimary()
	} else if minus, ok := p.match(token.SUB); ok {
		// Negation is subtraction from zero
		zero := ast.NewNumber(0)
		p.srcmap.Put(zero, minus.Span)
		//
		operand, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		//
		return p.binary(ast.SUB, zero, operand), nil
	}
	//
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (ast.Expr, *source.SyntaxError) {
	var atom ast.Expr
	//
	tok, lerr := p.lexer.Next()
	//
	if lerr != nil {
		return nil, p.lexer.SyntaxError(lerr, lerr.Error())
	}
	//
	switch tok.Kind {
	case token.LBRACE:
		expr, err := p.parseExpr()
		//
		if err != nil {
			return nil, err
		} else if err = p.expect(token.RBRACE, "')'"); err != nil {
			return nil, err
		}
		// Don't add to source map, since it will already have been added.
		return expr, nil
	case token.NUMBER:
		if tok.Integer.HasValue() {
			atom = ast.NewInteger(tok.Integer.Unwrap())
		} else {
			atom = ast.NewNumber(tok.Value)
		}
	case token.IDENTIFIER:
		atom = ast.NewVariable(p.lexer.ResolveOffset(tok.Name))
	default:
		msg := fmt.Sprintf("expected number, identifier or '(', found %s", tok.Describe())
		return nil, p.lexer.SourceFile().SyntaxError(tok.Span, msg)
	}
	//
	p.srcmap.Put(atom, tok.Span)
	//
	return atom, nil
}

// Construct a binary node whose span covers both its operands.
func (p *Parser) binary(kind ast.Kind, lhs ast.Expr, rhs ast.Expr) ast.Expr {
	var (
		node  = ast.NewBinary(kind, lhs, rhs)
		left  = p.srcmap.Get(lhs)
		right = p.srcmap.Get(rhs)
	)
	//
	p.srcmap.Put(node, left.Join(right))
	//
	return node
}

// Expect returns an error if the next token is not what was expected.
func (p *Parser) expect(kind uint, expected string) *source.SyntaxError {
	tok, err := p.lexer.TryConsume(token.Of(kind))
	//
	if err == nil {
		return nil
	} else if err.Kind != token.UNEXPECTED_TOKEN {
		return p.lexer.SyntaxError(err, err.Error())
	}
	//
	return p.lexer.SyntaxError(err, fmt.Sprintf("expected %s, found %s", expected, tok.Describe()))
}

// Match attempts to match the given token.
func (p *Parser) match(kind uint) (token.Token, bool) {
	tok, err := p.lexer.TryConsume(token.Of(kind))
	//
	return tok, err == nil
}

// MatchAny attempts to match one of the given operators.
func (p *Parser) matchAny(operators []binop) (binop, bool) {
	for _, op := range operators {
		if _, ok := p.match(op.token); ok {
			return op, true
		}
	}
	//
	return binop{}, false
}
