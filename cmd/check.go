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
	"errors"
	"fmt"
	"os"

	"github.com/nickng/dinephil/dinner"
	"github.com/nickng/dinephil/ordering"
	"github.com/spf13/cobra"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the seating for circular wait",
	Long: `Check the seating for circular wait

Every philosopher holds its first fork while waiting for the second. The
check fails if, under the chosen order, the philosophers can end up each
waiting for a fork held by the next.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return check()
	},
}

func init() {
	RootCmd.AddCommand(checkCmd)
}

// seating validates the configured dinner without running it.
func seating() (*dinner.Dinner, int, error) {
	cfg, err := dinnerConfig()
	if err != nil {
		return nil, 0, err
	}
	d, err := dinner.New(cfg, nil, nil)
	if err != nil {
		return nil, 0, err
	}
	return d, d.Forks(), nil
}

func check() error {
	l := newLogWriter()
	defer l.Cleanup()

	d, forks, err := seating()
	if err != nil {
		return err
	}
	res := ordering.Check(d.Seating(), forks, d.Order(), l.Logger("check: "))
	fmt.Fprintln(os.Stdout, res)
	if !res.DeadlockFree() {
		return errors.New("deadlock possible")
	}
	return nil
}
