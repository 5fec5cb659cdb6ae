package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nickng/dinephil/dinner"
	"github.com/nickng/dinephil/philosopher"
	"github.com/spf13/viper"
)

func resetConfig(t *testing.T) {
	t.Helper()
	viper.Reset()
	bindConfig()
	t.Cleanup(func() {
		viper.Reset()
		bindConfig()
	})
}

func TestDinnerConfigDefaults(t *testing.T) {
	resetConfig(t)
	cfg, err := dinnerConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Hold != philosopher.DefaultHold {
		t.Errorf("hold (got %s, expects %s)", cfg.Hold, philosopher.DefaultHold)
	}
	if cfg.Order != philosopher.LowestFirst {
		t.Errorf("order (got %s, expects %s)", cfg.Order, philosopher.LowestFirst)
	}
	if len(cfg.Names) != 5 || cfg.Seating != nil {
		t.Errorf("default seating (got names=%v seating=%v)", cfg.Names, cfg.Seating)
	}
}

func TestDinnerConfigFile(t *testing.T) {
	resetConfig(t)
	path := filepath.Join(t.TempDir(), "dinephil.yaml")
	content := `hold: 10ms
order: left-first
seating:
  - name: Baruch Spinoza
    left: 0
    right: 1
  - name: Gilles Deleuze
    left: 1
    right: 2
  - name: Karl Marx
    left: 0
    right: 2
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		t.Fatal(err)
	}
	cfg, err := dinnerConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Hold != 10*time.Millisecond {
		t.Errorf("hold (got %s, expects 10ms)", cfg.Hold)
	}
	if cfg.Order != philosopher.LeftFirst {
		t.Errorf("order (got %s, expects %s)", cfg.Order, philosopher.LeftFirst)
	}
	if len(cfg.Seating) != 3 || cfg.Seating[2] != (philosopher.Descriptor{Name: "Karl Marx", Left: 0, Right: 2}) {
		t.Errorf("seating (got %v)", cfg.Seating)
	}
}

func TestDinnerConfigBadOrder(t *testing.T) {
	resetConfig(t)
	viper.Set("order", "whoever-is-hungriest")
	if _, err := dinnerConfig(); err == nil {
		t.Error("expecting unknown order to be rejected")
	}
}

func TestSeatingRejectsMalformed(t *testing.T) {
	resetConfig(t)
	viper.Set("philosophers", []string{"alone"})
	if _, _, err := seating(); err == nil {
		t.Error("expecting a single philosopher to be rejected")
	}
}

// execute runs the root command with args and restores the flags it set.
func execute(t *testing.T, args ...string) error {
	t.Helper()
	resetConfig(t)
	t.Cleanup(func() {
		for _, name := range []string{"hold", "order", "no-logging"} {
			f := RootCmd.PersistentFlags().Lookup(name)
			f.Value.Set(f.DefValue)
			f.Changed = false
		}
		RootCmd.SetArgs(nil)
	})
	RootCmd.SetArgs(append([]string{"--no-logging"}, args...))
	return RootCmd.Execute()
}

func TestDineRefusesLeftFirst(t *testing.T) {
	resetConfig(t)
	viper.Set("order", "left-first")
	viper.Set("hold", "1ms")
	if err := dine(""); !errors.Is(err, dinner.ErrCircularWait) {
		t.Errorf("expecting %v (got %v)", dinner.ErrCircularWait, err)
	}
}

func TestExecuteFails(t *testing.T) {
	for _, args := range [][]string{
		{"--order", "random"},
		{"run", "--order", "left-first", "--hold", "1ms"},
		{"check", "--order", "left-first"},
	} {
		args := args
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			if err := execute(t, args...); err == nil {
				t.Error("expecting an error for a non-zero exit")
			}
		})
	}
}

func TestExecuteRun(t *testing.T) {
	if err := execute(t, "run", "--hold", "1ms"); err != nil {
		t.Fatal(err)
	}
}
