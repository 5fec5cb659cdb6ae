// Copyright © 2016 Nicholas Ng <nickng@projectfate.org>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"io"

	"github.com/nickng/dinephil/model"
	"github.com/nickng/migo/v3/migoutil"
	"github.com/spf13/cobra"
)

var (
	simplify bool // Simplify MiGo output
)

// migoCmd represents the migo command
var migoCmd = &cobra.Command{
	Use:   "migo",
	Short: "Write the dinner as MiGo types",
	Long: `Write the dinner as MiGo types

Forks are unbuffered channels, each served by its own goroutine. The output
can be fed to a MiGo liveness checker.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return extractMigo()
	},
}

func init() {
	migoCmd.Flags().BoolVar(&simplify, "simplify", true, "simplify the MiGo program")

	RootCmd.AddCommand(migoCmd)
}

func extractMigo() error {
	d, forks, err := seating()
	if err != nil {
		return err
	}
	prog := model.NewMigo(d.Seating(), forks, d.Order())
	if simplify {
		migoutil.SimplifyProgram(prog)
	}

	w, closeFn, err := openOutput(outfile)
	if err != nil {
		return err
	}
	defer closeFn()
	_, err = io.WriteString(w, prog.String())
	return err
}
