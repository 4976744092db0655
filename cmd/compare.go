/*
Copyright © 2026 SHEKHAR TATA
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/shekhartata/mongodbExplainLinter/internal/comparator"
	"github.com/shekhartata/mongodbExplainLinter/internal/lint"
	"github.com/shekhartata/mongodbExplainLinter/internal/output"

	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare <old-report> <new-report>",
	Short: "Compare two saved lint reports",
	Long: `Compare two lint reports saved with "lint --format json", typically a
base-branch run against a PR run. Queries are matched by collection,
operation and argument text; the comparison shows newly introduced and
resolved findings per query, plus execution-time movement beyond the
significance threshold.

With --fail-on-regression the command exits non-zero when the comparison
verdict is "regressed".`,
	Example: `  # Base branch vs PR
  mongolint lint base.diff --format json > base.json
  mongolint lint pr.diff --format json > pr.json
  mongolint compare base.json pr.json

  # Ignore time swings under 25%
  mongolint compare base.json pr.json --threshold 25

  # Gate CI on the verdict
  mongolint compare base.json pr.json --fail-on-regression`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		threshold, _ := cmd.Flags().GetFloat64("threshold")
		failOnRegression, _ := cmd.Flags().GetBool("fail-on-regression")

		if format != "text" && format != "json" {
			return &ValidationError{Message: fmt.Sprintf("invalid output format %q: must be \"text\" or \"json\"", format)}
		}
		if threshold < 0 {
			return &ValidationError{Message: "threshold must not be negative"}
		}

		oldReport, err := loadReport(args[0])
		if err != nil {
			return err
		}
		newReport, err := loadReport(args[1])
		if err != nil {
			return err
		}

		c := &comparator.Comparator{ThresholdPct: threshold}
		result := c.Compare(oldReport, newReport)

		switch format {
		case "json":
			err = output.RenderJSON(os.Stdout, result)
		default:
			err = output.RenderComparisonText(os.Stdout, result)
		}
		if err != nil {
			return err
		}

		if failOnRegression && result.Summary.Verdict == comparator.Regressed.String() {
			return &ThresholdExceededError{Reason: "comparison verdict is regressed"}
		}

		return nil
	},
}

func loadReport(path string) (*lint.Report, error) {
	r, err := lint.LoadReport(path)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	return r, nil
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().StringP("format", "f", "text", "Output format: text, json")
	compareCmd.Flags().Float64P("threshold", "t", comparator.DefaultThresholdPct,
		"Execution-time change (percent) below which a query counts as unchanged")
	compareCmd.Flags().Bool("fail-on-regression", false, "Exit non-zero when the verdict is regressed")
}
