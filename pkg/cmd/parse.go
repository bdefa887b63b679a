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
	"io"
	"os"

	"github.com/consensys/go-tinyc/pkg/compiler/ast"
	"github.com/consensys/go-tinyc/pkg/compiler/parser"
	"github.com/consensys/go-tinyc/pkg/util/termio"
	"github.com/kr/pretty"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] source_file",
	Short: "print the expression trees of a source file.",
	Long: `Parse a given source file and print one expression tree per statement,
	 either in prefix form or (with --ast) as the underlying Go structure.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		srcfile := readSourceFile(args[0])
		context := newContext(cmd)
		//
		program, err := parser.Parse(srcfile, context)
		//
		if err != nil {
			printSyntaxError(err, termio.TerminalPainter(os.Stdout))
			atexit.Exit(EXIT_COMPILE)
		}
		//
		log.Debugf("parsed %d statement(s) with %d variable(s)", len(program.Statements), context.IdentifierCount())
		//
		writeProgram(os.Stdout, program, GetFlag(cmd, "ast"))
	},
}

func writeProgram(out io.Writer, program ast.Program, structure bool) {
	for _, stmt := range program.Statements {
		if structure {
			fmt.Fprintf(out, "%# v\n", pretty.Formatter(stmt))
		} else {
			fmt.Fprintf(out, "%s;\n", stmt.String())
		}
	}
}

func init() {
	rootCmd.AddCommand(parseCmd)
	addTargetFlag(parseCmd)
	parseCmd.Flags().Bool("ast", false, "print the Go structure of each tree")
}
