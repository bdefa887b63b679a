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
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/consensys/go-tinyc/pkg/compiler"
	"github.com/consensys/go-tinyc/pkg/compiler/backend"
	"github.com/consensys/go-tinyc/pkg/compiler/lexer"
	"github.com/consensys/go-tinyc/pkg/util/source"
	"github.com/consensys/go-tinyc/pkg/util/termio"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// GetFlag gets an expected boolean flag, or exits if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		atexit.Exit(EXIT_USAGE)
	}
	//
	return r
}

// GetString gets an expected string flag, or exits if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		atexit.Exit(EXIT_USAGE)
	}
	//
	return r
}

// GetUint gets an expected unsigned integer flag, or exits if an error arises.
func GetUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		atexit.Exit(EXIT_USAGE)
	}
	//
	return r
}

// Register the flag which selects the target architecture.
func addTargetFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("target", "t", compiler.DefaultConfig().Target, "target architecture (amd64 or arm64)")
}

// Register the flags which determine how source files are compiled.
func addCompilerFlags(cmd *cobra.Command) {
	addTargetFlag(cmd)
	cmd.Flags().String("entry", compiler.DefaultConfig().Entry, "name of the exported entry point")
	cmd.Flags().Bool("darwin", false, "prefix the entry point with an underscore (Mach-O)")
}

// Construct a compiler configuration from the flags registered by
// addCompilerFlags.
func getCompilerConfig(cmd *cobra.Command) compiler.Config {
	return compiler.Config{
		Target: GetString(cmd, "target"),
		Entry:  GetString(cmd, "entry"),
		Darwin: GetFlag(cmd, "darwin"),
	}
}

// Construct a compilation context whose variable offsets match the word size
// of the selected target, or exit if the target is unknown.
func newContext(cmd *cobra.Command) *lexer.Context {
	target, err := backend.Lookup(GetString(cmd, "target"))
	if err != nil {
		fmt.Println(err)
		atexit.Exit(EXIT_USAGE)
	}
	//
	return lexer.NewContext(target.WordSize())
}

// Read a given source file, or exit if it cannot be read.
func readSourceFile(filename string) *source.File {
	log.Debugf("reading source file %s", filename)
	//
	srcfile, err := source.ReadFile(filename)
	if err != nil {
		fmt.Println(err)
		atexit.Exit(EXIT_IO)
	}
	//
	return srcfile
}

// Compile a given source file, or report the failure and exit.
func compileSourceFile(srcfile *source.File, config compiler.Config) string {
	asm, err := compiler.Compile(srcfile, config)
	//
	if serr, ok := err.(*source.SyntaxError); ok {
		printSyntaxError(serr, termio.TerminalPainter(os.Stdout))
		atexit.Exit(EXIT_COMPILE)
	} else if err != nil {
		fmt.Println(err)
		atexit.Exit(EXIT_USAGE)
	}
	//
	return asm
}

// Print a syntax error with appropriate highlighting.
func printSyntaxError(err *source.SyntaxError, painter termio.Painter) {
	fmt.Print(formatSyntaxError(err, painter))
}

func formatSyntaxError(err *source.SyntaxError, painter termio.Painter) string {
	var (
		builder    strings.Builder
		span       = err.Span()
		line       = err.FirstEnclosingLine()
		lineOffset = max(0, span.Start()-line.Start())
		bold       = termio.BoldAnsiEscape()
	)
	// Calculate length (ensures don't overflow line, but always highlight
	// something)
	length := max(1, min(line.Length()-lineOffset, span.Length()))
	// Print error + line number
	builder.WriteString(painter.Paint(bold, fmt.Sprintf("%s:%d:%d-%d", err.SourceFile().Filename(),
		line.Number(), 1+lineOffset, 1+lineOffset+length)))
	builder.WriteString(" ")
	builder.WriteString(painter.Paint(bold.FgColour(termio.TERM_RED), err.Message()))
	// Print separator line
	builder.WriteString("\n\n")
	// Print line
	builder.WriteString(line.String())
	builder.WriteString("\n")
	// Print indent (todo: account for tabs)
	builder.WriteString(strings.Repeat(" ", lineOffset))
	// Print highlight
	builder.WriteString(painter.Paint(bold.FgColour(termio.TERM_GREEN), strings.Repeat("^", length)))
	builder.WriteString("\n")
	//
	return builder.String()
}
