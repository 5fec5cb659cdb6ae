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
	"os"

	"github.com/nickng/dinephil/ordering"
	"github.com/spf13/cobra"
)

var (
	outfile string // Path to output file
)

// dotCmd represents the dot command
var dotCmd = &cobra.Command{
	Use:   "dot",
	Short: "Write the fork order graph in DOT format",
	Long: `Write the fork order graph in DOT format

Forks are nodes; each philosopher is an edge from the fork it takes first to
the fork it takes second. Edges on a cycle are red.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, forks, err := seating()
		if err != nil {
			return err
		}
		w, closeFn, err := openOutput(outfile)
		if err != nil {
			return err
		}
		defer closeFn()
		return ordering.Build(d.Seating(), forks, d.Order()).WriteDot(w)
	},
}

func init() {
	RootCmd.PersistentFlags().StringVar(&outfile, "output", "", "output file (default is stdout) for dot, cfsms and migo")

	RootCmd.AddCommand(dotCmd)
}

// openOutput opens path for writing, or stdout if path is empty.
func openOutput(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}
