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
	"path/filepath"
	"strings"

	"github.com/consensys/go-tinyc/pkg/util"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] source_file",
	Short: "compile a source file into assembly.",
	Long: `Compile a given source file into assembly for the selected target architecture.
	 The assembly is written next to the source file (with a .s extension), unless
	 an output file is specified.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := getCompilerConfig(cmd)
		output := GetString(cmd, "output")
		//
		if output == "" {
			output = defaultOutputFile(args[0])
		}
		// Compile source file, or print errors
		asm := compileSourceFile(readSourceFile(args[0]), config)
		//
		stats := util.NewPerfStats()
		//
		if err := writeOutputFile(output, asm); err != nil {
			fmt.Println(err)
			atexit.Exit(EXIT_IO)
		}
		//
		stats.Log("Writing assembly")
	},
}

// Determine the output file for a given source file, by replacing its
// extension with ".s".
func defaultOutputFile(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename)) + ".s"
}

// Write assembly text to a given file.  The text is first written to a
// temporary file in the same directory, which then replaces the target.  The
// temporary file is removed should the process exit part way through.
func writeOutputFile(filename string, asm string) error {
	tmp, err := os.CreateTemp(filepath.Dir(filename), "."+filepath.Base(filename)+".*")
	if err != nil {
		return fmt.Errorf("writing %s: %w", filename, err)
	}
	//
	atexit.Register(func() { _ = os.Remove(tmp.Name()) })
	//
	if _, err = tmp.WriteString(asm); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing %s: %w", filename, err)
	} else if err = tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", filename, err)
	} else if err = os.Rename(tmp.Name(), filename); err != nil {
		return fmt.Errorf("writing %s: %w", filename, err)
	}
	//
	log.Debugf("wrote %d bytes to %s", len(asm), filename)
	//
	return nil
}

func init() {
	rootCmd.AddCommand(compileCmd)
	addCompilerFlags(compileCmd)
	compileCmd.Flags().StringP("output", "o", "", "specify output file.")
}
