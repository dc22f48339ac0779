package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/moonlang/moon/internal/config"
	"github.com/moonlang/moon/internal/runner"
)

// Version information, set at build time via -ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

var verbose bool

func main() {
	rootCmd := &cobra.Command{
		Use:   "moon [script]",
		Short: "moon is a tree-walking interpreter for the moon scripting language",
		Long: `moon runs a .moon script file, or starts an interactive REPL when
invoked with no arguments.`,
		Args:                  cobra.ArbitraryArgs,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			runMoon(args)
			return nil
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "trace each pipeline phase to stderr")
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(runner.ExitUsage)
	}
}

// runMoon implements the exact CLI contract: no arguments starts the
// REPL, one argument runs that file, and two or more is a usage
// error exiting 64 — matching the reference driver's main().
func runMoon(args []string) {
	if len(args) > 1 {
		fmt.Fprintln(os.Stderr, "Usage: moon [script]")
		os.Exit(runner.ExitUsage)
	}

	log := zap.NewNop()
	if verbose {
		cfg := zap.NewDevelopmentConfig()
		built, err := cfg.Build()
		if err == nil {
			log = built
		}
	}
	defer log.Sync()

	cfg := config.Load()
	if !cfg.Color {
		color.NoColor = true
	}

	r := runner.New(log, cfg.Prompt)

	if len(args) == 1 {
		os.Exit(r.RunFile(args[0]))
	}

	r.RunPrompt()
	os.Exit(runner.ExitOK)
}
