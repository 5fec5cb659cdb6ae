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
	"fmt"
	"os"
	"time"

	"github.com/nickng/dinephil/dinner"
	"github.com/spf13/cobra"
)

var (
	iterations int           // Number of dinners
	budget     time.Duration // Time allowed per dinner
)

// stressCmd represents the stress command
var stressCmd = &cobra.Command{
	Use:   "stress",
	Short: "Run the dinner repeatedly and look for hangs",
	Long: `Run the dinner repeatedly and look for hangs

A dinner that does not finish within the budget (default 10x the hold time)
is reported as a probable deadlock. Use a short --hold to run many dinners.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return stress()
	},
}

func init() {
	stressCmd.Flags().IntVar(&iterations, "iterations", 1000, "number of dinners to run")
	stressCmd.Flags().DurationVar(&budget, "budget", 0, "time allowed per dinner (default 10x hold)")

	RootCmd.AddCommand(stressCmd)
}

func stress() error {
	l := newLogWriter()
	defer l.Cleanup()

	cfg, err := dinnerConfig()
	if err != nil {
		return err
	}
	b := budget
	if b == 0 {
		b = 10 * cfg.Hold
		if b < 10*time.Millisecond {
			b = 10 * time.Millisecond
		}
	}
	res, err := dinner.Stress(cfg, iterations, b, l.Logger("stress: "))
	if res != nil {
		fmt.Fprintln(os.Stdout, res)
	}
	return err
}
