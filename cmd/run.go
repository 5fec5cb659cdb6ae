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
	"log"
	"os"

	"github.com/nickng/dinephil/dinner"
	"github.com/nickng/dinephil/logwriter"
	"github.com/spf13/cobra"
)

var (
	reportFile string // Path to YAML report
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Seat the philosophers and let them eat",
	Long: `Seat the philosophers and let them eat

Each philosopher prints when it starts and when it is done eating.
The command fails if any philosopher could not finish, after waiting for all
the others.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dine(reportFile)
	},
}

func init() {
	runCmd.Flags().StringVar(&reportFile, "report", "", "write a YAML report of the dinner to file")

	RootCmd.AddCommand(runCmd)
}

func dine(report string) error {
	l := newLogWriter()
	defer l.Cleanup()

	cfg, err := dinnerConfig()
	if err != nil {
		return err
	}
	d, err := dinner.New(cfg, logwriter.Synced(os.Stdout), l.Logger("dinner: "))
	if err != nil {
		return err
	}
	r, runErr := d.Run()
	if report != "" && r != nil {
		f, err := os.Create(report)
		if err != nil {
			return err
		}
		defer f.Close()
		if _, err := r.WriteTo(f); err != nil {
			return err
		}
		log.Println("Report written to", report)
	}
	return runErr
}
