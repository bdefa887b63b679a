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
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/consensys/go-tinyc/pkg/compiler/backend"
	"github.com/consensys/go-tinyc/pkg/util"
	"github.com/consensys/go-tinyc/pkg/vm"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] source_file",
	Short: "compile a source file and execute it.",
	Long: `Compile a given source file and execute the resulting assembly using the
	 built-in emulator, printing the value of the final statement.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := getCompilerConfig(cmd)
		vmConfig := vm.DefaultConfig()
		vmConfig.MaxSteps = GetUint(cmd, "max-steps")
		// Compile source file, or print errors
		asm := compileSourceFile(readSourceFile(args[0]), config)
		// Execute until done, interrupted or failed
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		//
		result, err := execute(ctx, config.Target, vmConfig, asm)
		//
		if err != nil {
			fmt.Println(err)
			stop()
			atexit.Exit(EXIT_RUNTIME)
		}
		//
		fmt.Println(result)
	},
}

// Execute assembly text on the emulator for a given target.
func execute(ctx context.Context, target string, config vm.Config, asm string) (int64, error) {
	arch, ok := backend.Canonical(target)
	if !ok {
		return 0, fmt.Errorf("unknown target %q", target)
	}
	//
	machine, err := vm.NewMachine(arch, config)
	if err != nil {
		return 0, err
	} else if err = machine.Load(asm); err != nil {
		return 0, err
	}
	//
	stats := util.NewPerfStats()
	result, err := machine.Run(ctx)
	//
	if errors.Is(err, context.Canceled) {
		log.Infof("execution interrupted after %d steps", machine.Steps())
	}
	//
	stats.Log("Execution")
	//
	return result, err
}

func init() {
	rootCmd.AddCommand(runCmd)
	addCompilerFlags(runCmd)
	runCmd.Flags().Uint("max-steps", vm.DefaultConfig().MaxSteps, "maximum number of instructions to execute")
}
