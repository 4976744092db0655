/*
Copyright © 2026 SHEKHAR TATA
*/
package cmd

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/shekhartata/mongodbExplainLinter/internal/config"

	"github.com/spf13/cobra"
)

// Exit codes for CI integration.
const (
	ExitOK           = 0 // Clean run, or findings without fail-on-issues
	ExitPolicyFail   = 1 // HIGH findings with fail-on-issues requested
	ExitInvalidInput = 2 // Bad flags, unreadable diff, malformed report
	ExitRuntimeError = 3 // Connection or execution failure
)

var Version = "dev"

var (
	cfg        *config.Config
	configFile string
	verbose    bool
)

func init() {
	if Version == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "(devel)" {
			Version = info.Main.Version
		}
	}
	rootCmd.Version = Version

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default: ./mongolint.yaml, ~/mongolint.yaml or $XDG_CONFIG_HOME/mongolint/mongolint.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

var rootCmd = &cobra.Command{
	Use:          "mongolint",
	SilenceUsage: true,
	Short:        "Lint MongoDB queries found in pull request diffs",
	Long: `mongolint extracts MongoDB queries from pull request diffs, re-runs them
against a live cluster with executionStats profiling, and classifies the
results into severity-tagged findings for CI.

Findings cover full collection scans, empty filters, slow queries, large
scans, unindexed regex filters, and missing compound indexes.`,
	Example: `  # Lint the current branch against main
  git diff main | mongolint lint -

  # Fail the build on HIGH severity findings
  mongolint lint changes.diff --profile staging --fail-on-issues

  # Compare the PR run against a base-branch run
  mongolint compare base.json pr.json`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// init must run even when the existing config is broken; it is
		// the way out.
		if cmd.Name() == "init" {
			cfg = config.DefaultConfig()
			return nil
		}

		var err error
		cfg, err = config.LoadFromFile(configFile)
		if err != nil {
			return &ValidationError{Message: err.Error()}
		}
		if verbose {
			cfg.Verbose = true
		}
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCodeFor(err))
	}
}

func exitCodeFor(err error) int {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return ExitInvalidInput
	}
	var tErr *ThresholdExceededError
	if errors.As(err, &tErr) {
		return ExitPolicyFail
	}
	return ExitRuntimeError
}

// ValidationError marks bad input: invalid flag values, unreadable diffs,
// malformed report files.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ThresholdExceededError marks a run that crossed the failure policy: HIGH
// findings under fail-on-issues, or a regressed comparison verdict.
type ThresholdExceededError struct {
	Reason string
}

func (e *ThresholdExceededError) Error() string {
	return e.Reason
}

func logVerbose(format string, args ...any) {
	if cfg != nil && cfg.Verbose {
		fmt.Fprintf(os.Stderr, "[INFO] "+format+"\n", args...)
	}
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "[ERROR] "+format+"\n", args...)
}
