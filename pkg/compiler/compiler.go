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
package compiler

import (
	"github.com/consensys/go-tinyc/pkg/compiler/ast"
	"github.com/consensys/go-tinyc/pkg/compiler/backend"
	"github.com/consensys/go-tinyc/pkg/compiler/codegen"
	"github.com/consensys/go-tinyc/pkg/compiler/lexer"
	"github.com/consensys/go-tinyc/pkg/compiler/parser"
	"github.com/consensys/go-tinyc/pkg/util"
	"github.com/consensys/go-tinyc/pkg/util/source"
	log "github.com/sirupsen/logrus"
)

// Config determines how a source file is compiled.
type Config struct {
	// Name (or alias) of the target architecture
	Target string
	// Name of the exported entry point
	Entry string
	// Prefix the entry point with an underscore, as required by Mach-O
	// symbol naming.
	Darwin bool
}

// DefaultConfig returns the configuration for an x86-64 "main" function.
func DefaultConfig() Config {
	return Config{Target: "amd64", Entry: "main"}
}

// EntryLabel returns the symbol emitted for the entry point.
func (c Config) EntryLabel() string {
	if c.Darwin {
		return "_" + c.Entry
	}
	//
	return c.Entry
}

// Compile a given source file into assembly text for the configured target.
// Lexical, syntactic and code generation failures are returned as a
// *source.SyntaxError identifying where the problem arose.  No assembly is
// returned on failure.
func Compile(srcfile *source.File, config Config) (string, error) {
	target, err := backend.Lookup(config.Target)
	if err != nil {
		return "", err
	}
	//
	stats := util.NewPerfStats()
	context := lexer.NewContext(target.WordSize())
	//
	program, serr := parser.Parse(srcfile, context)
	if serr != nil {
		return "", serr
	}
	//
	log.Debugf("parsed %d statement(s) with %d variable(s) from %s", len(program.Statements),
		context.IdentifierCount(), srcfile.Filename())
	logLayout(program, context)
	stats.Log("Parsing")
	//
	stats = util.NewPerfStats()
	gen := codegen.NewGenerator(target)
	//
	if gerr := gen.Program(program, config.EntryLabel(), context.IdentifierCount()); gerr != nil {
		return "", program.SourceMap.SyntaxError(gerr.Node, gerr.Message)
	}
	//
	asm := target.String()
	//
	log.Debugf("generated %d bytes of %s assembly", len(asm), target.Name())
	stats.Log("Code generation")
	//
	return asm, nil
}

// Log the slot assigned to each variable, along with the depth of the deepest
// statement.
func logLayout(program ast.Program, context *lexer.Context) {
	var depth uint
	//
	if !log.IsLevelEnabled(log.DebugLevel) {
		return
	}
	//
	for _, name := range context.Identifiers() {
		offset, _ := context.Lookup(name)
		log.Debugf("variable %s in slot [fb-%d]", name, offset)
	}
	//
	for _, stmt := range program.Statements {
		depth = max(depth, ast.Depth(stmt))
	}
	//
	log.Debugf("deepest statement has depth %d", depth)
}

// CompileString compiles source text which did not originate from a file.
func CompileString(text string, config Config) (string, error) {
	return Compile(source.NewSourceString(text), config)
}
