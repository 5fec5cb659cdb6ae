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
	"github.com/nickng/dinephil/model"
	"github.com/spf13/cobra"
)

// cfsmsCmd represents the cfsms command
var cfsmsCmd = &cobra.Command{
	Use:   "cfsms",
	Short: "Write the dinner as CFSMs",
	Long: `Write the dinner as communicating finite state machines

There is one machine per fork and one per philosopher. A fork grants itself
to either neighbour and waits for it to be put back.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return extractCFSMs()
	},
}

func init() {
	RootCmd.AddCommand(cfsmsCmd)
}

func extractCFSMs() error {
	l := newLogWriter()
	defer l.Cleanup()

	d, forks, err := seating()
	if err != nil {
		return err
	}
	sys := model.NewCFSMs(d.Seating(), forks, d.Order())
	sys.PrintSummary(l.Writer)

	w, closeFn, err := openOutput(outfile)
	if err != nil {
		return err
	}
	defer closeFn()
	_, err = sys.WriteTo(w)
	return err
}
