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

	"github.com/consensys/go-tinyc/pkg/compiler/lexer"
	"github.com/consensys/go-tinyc/pkg/compiler/token"
	"github.com/consensys/go-tinyc/pkg/util/termio"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var lexCmd = &cobra.Command{
	Use:   "lex [flags] source_file",
	Short: "print the tokens of a source file.",
	Long:  `Break a given source file into tokens, and print them one per line.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		srcfile := readSourceFile(args[0])
		//
		tokens, err := lexer.Tokenize(srcfile, newContext(cmd))
		// Print whatever was tokenized before any error
		writeTokens(os.Stdout, tokens)
		//
		if err != nil {
			printSyntaxError(err, termio.TerminalPainter(os.Stdout))
			atexit.Exit(EXIT_COMPILE)
		}
		//
		log.Debugf("read %d token(s) from %s", len(tokens), srcfile.Filename())
	},
}

func writeTokens(out io.Writer, tokens []token.Token) {
	for _, tok := range tokens {
		fmt.Fprintf(out, "%s\t%s\n", tok.Span.String(), tok.Describe())
	}
}

func init() {
	rootCmd.AddCommand(lexCmd)
	addTargetFlag(lexCmd)
}
