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
	"runtime/debug"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// Version is filled when building with -ldflags, but *not* when installing via "go
// install".
var Version string

// EXIT_USAGE indicates the command line was malformed.
const EXIT_USAGE = 1

// EXIT_IO indicates a file could not be read or written.
const EXIT_IO = 2

// EXIT_COMPILE indicates the source file failed to compile.
const EXIT_COMPILE = 3

// EXIT_RUNTIME indicates the compiled program failed under emulation.
const EXIT_RUNTIME = 4

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tinyc",
	Short: "A compiler for a tiny expression language.",
	Long: `A compiler for a tiny language of arithmetic expressions and assignments,
generating x86-64 or AArch64 assembly.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Configure log level
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		if !GetFlag(cmd, "version") {
			_ = cmd.Help()
			return
		}
		//
		fmt.Print("tinyc ")
		//
		if Version != "" {
			// Built via "make"
			fmt.Printf("%s", Version)
		} else if info, ok := debug.ReadBuildInfo(); ok {
			// Built via "go install"
			fmt.Printf("%s", info.Main.Version)
		} else {
			// Unknown, perhaps "go run"
			fmt.Printf("(unknown version)")
		}
		//
		fmt.Println()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		atexit.Exit(EXIT_USAGE)
	}
	//
	atexit.Exit(0)
}

func init() {
	rootCmd.Flags().Bool("version", false, "Report version of this executable")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
}
