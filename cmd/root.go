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
	"log"
	"os"

	"github.com/nickng/dinephil/dinner"
	"github.com/nickng/dinephil/logwriter"
	"github.com/nickng/dinephil/philosopher"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string // Path to config file
	logFile   string // Path to log file
	noLogging bool   // Turn off logging
	noColour  bool   // Turn of colour output
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "dinephil",
	Short: "Dining philosophers without deadlock",
	Long: `dinephil seats philosophers around a table of shared forks

Without a subcommand it runs the default dinner: five philosophers, five
forks, one second of eating each, forks taken lowest index first.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dine("")
	},
}

// Execute adds all child commands to the root command sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(-1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.dinephil.yaml)")
	RootCmd.PersistentFlags().StringVar(&logFile, "log", "", "path to log file (default is stderr)")
	RootCmd.PersistentFlags().BoolVar(&noLogging, "no-logging", false, "disable logging")
	RootCmd.PersistentFlags().BoolVar(&noColour, "no-colour", false, "disable colour output")
	RootCmd.PersistentFlags().Duration("hold", philosopher.DefaultHold, "how long each philosopher eats")
	RootCmd.PersistentFlags().String("order", philosopher.LowestFirst.String(), "fork acquisition order (lowest-first or left-first)")

	bindConfig()
}

// bindConfig binds the dinner flags to their config keys.
func bindConfig() {
	viper.BindPFlag("hold", RootCmd.PersistentFlags().Lookup("hold"))
	viper.BindPFlag("order", RootCmd.PersistentFlags().Lookup("order"))
	viper.SetDefault("philosophers", philosopher.DefaultNames)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" { // enable ability to specify config file via flag
		viper.SetConfigFile(cfgFile)
	}

	viper.SetConfigName(".dinephil") // name of config file (without extension)
	viper.AddConfigPath("$HOME")     // adding home directory as first search path
	viper.SetEnvPrefix("dinephil")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// dinnerConfig builds the dinner from flags, environment and config file.
// An explicit "seating" list takes precedence over "philosophers".
func dinnerConfig() (dinner.Config, error) {
	cfg := dinner.DefaultConfig()
	cfg.Hold = viper.GetDuration("hold")
	order, err := philosopher.ParseOrder(viper.GetString("order"))
	if err != nil {
		return cfg, err
	}
	cfg.Order = order
	if names := viper.GetStringSlice("philosophers"); len(names) > 0 {
		cfg.Names = names
	}
	if viper.IsSet("seating") {
		var seating []philosopher.Descriptor
		if err := viper.UnmarshalKey("seating", &seating); err != nil {
			return cfg, fmt.Errorf("bad seating: %w", err)
		}
		cfg.Seating = seating
	}
	cfg.Forks = viper.GetInt("forks")
	return cfg, nil
}

// newLogWriter creates the log writer from the persistent flags.
func newLogWriter() *logwriter.Writer {
	l := logwriter.NewFile(logFile, !noLogging, !noColour)
	if err := l.Create(); err != nil {
		log.Fatal(err)
	}
	return l
}
