/*
Copyright © 2026 SHEKHAR TATA
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/shekhartata/mongodbExplainLinter/internal/classifier"
	"github.com/shekhartata/mongodbExplainLinter/internal/explain"
	"github.com/shekhartata/mongodbExplainLinter/internal/lint"
	"github.com/shekhartata/mongodbExplainLinter/internal/output"
	"github.com/shekhartata/mongodbExplainLinter/internal/profile"
	"github.com/shekhartata/mongodbExplainLinter/internal/query"

	"github.com/spf13/cobra"
)

var lintCmd = &cobra.Command{
	Use:   "lint [diff-file]",
	Short: "Lint MongoDB queries found in a diff",
	Long: `Extract MongoDB queries from a unified diff, run each against the
configured database with executionStats profiling, and report findings.

The diff is read from a file argument, from stdin with "-", or inline via
--diff-content. Queries on removed lines are linted too, so a report shows
what the PR replaced.

With --fail-on-issues (or ci_mode in the config) the command exits non-zero
when any HIGH severity finding is reported.`,
	Example: `  # Lint a saved diff
  mongolint lint changes.diff

  # Lint the current branch against main
  git diff main | mongolint lint -

  # Inline diff content
  mongolint lint --diff-content "$DIFF"

  # CI gate on a staging cluster
  mongolint lint changes.diff --profile staging --fail-on-issues --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _ := cmd.Flags().GetString("db")
		profileName, _ := cmd.Flags().GetString("profile")
		format, _ := cmd.Flags().GetString("format")
		diffContent, _ := cmd.Flags().GetString("diff-content")
		database, _ := cmd.Flags().GetString("database")
		failOnIssues, _ := cmd.Flags().GetBool("fail-on-issues")
		noSeed, _ := cmd.Flags().GetBool("no-seed")

		if format != "text" && format != "json" {
			return &ValidationError{Message: fmt.Sprintf("invalid output format %q: must be \"text\" or \"json\"", format)}
		}

		var file string
		if len(args) > 0 {
			file = args[0]
		}

		diff, err := resolveDiff(file, diffContent)
		if err != nil {
			return err
		}

		specs := query.ExtractFromDiff(diff)
		logVerbose("extracted %d query candidates from the diff", len(specs))

		var report *lint.Report
		if len(specs) == 0 {
			report = &lint.Report{Success: true, Entries: []lint.Entry{}}
			report.PRNumber = cfg.PRNumber
		} else {
			report, err = runLint(cmd.Context(), specs, db, profileName, database, noSeed)
			if err != nil {
				return err
			}
		}

		if err := renderReport(format, report); err != nil {
			return err
		}

		if failOnIssues || cfg.CIMode {
			if high := report.CountSeverity(classifier.SeverityHigh); high > 0 {
				return &ThresholdExceededError{Reason: fmt.Sprintf("lint found %d HIGH severity findings", high)}
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(lintCmd)
	lintCmd.Flags().StringP("db", "d", "", "MongoDB connection string")
	lintCmd.Flags().StringP("profile", "p", "", "Use named profile from config")
	lintCmd.Flags().StringP("format", "f", "text", "Output format: text, json")
	lintCmd.Flags().StringP("diff-content", "c", "", "Diff content passed inline")
	lintCmd.Flags().String("database", "", "Database name (overrides config)")
	lintCmd.Flags().Bool("fail-on-issues", false, "Exit non-zero when HIGH severity findings exist")
	lintCmd.Flags().Bool("no-seed", false, "Never seed sample data; lint against existing collections")
	lintCmd.MarkFlagsMutuallyExclusive("db", "profile")
}

// resolveDiff picks the diff text from the inline flag, stdin, or a file.
func resolveDiff(file, inline string) (string, error) {
	if inline != "" {
		if file != "" {
			return "", &ValidationError{Message: "provide a diff file or --diff-content, not both"}
		}
		return inline, nil
	}

	if file == "" {
		return "", &ValidationError{Message: `no diff provided: pass a diff file, "-" for stdin, or --diff-content`}
	}

	if file == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading diff from stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return "", &ValidationError{Message: fmt.Sprintf("reading diff file: %v", err)}
	}
	return string(data), nil
}

// runLint connects to the configured cluster, seeds sample data when
// enabled, and explains every extracted query.
func runLint(ctx context.Context, specs []query.Spec, db, profileName, database string, noSeed bool) (*lint.Report, error) {
	connStr, profDB, err := profile.ResolveTarget(db, profileName)
	if err != nil {
		return nil, err
	}
	if connStr == "" {
		connStr = cfg.ConnectionString
	}
	uri := explain.BuildURI(connStr, cfg.Username, cfg.Password, cfg.AuthSource)

	// Explicit flag beats the profile's pinned database beats the config.
	dbName := database
	if dbName == "" {
		dbName = profDB
	}
	if dbName == "" {
		dbName = cfg.Database
	}

	logVerbose("connecting to %s (database %s)", explain.Redact(uri, cfg.Password), dbName)

	client, err := explain.Connect(ctx, uri, dbName)
	if err != nil {
		return nil, err
	}
	defer func() { _ = client.Close(ctx) }()

	seeding := cfg.SeedSampleData && !noSeed
	if seeding {
		seeded, err := client.EnsureSampleData(ctx)
		if err != nil {
			// A failed seed leaves the database as found; the queries
			// can still be explained against whatever exists.
			logError("seeding sample data: %v", err)
		} else if seeded {
			logVerbose("seeded sample collections into %s", dbName)
		}
	}

	linter := lint.New(client, cfg.ClassifierConfig())
	linter.CheckCollections = !seeding

	report := linter.Run(ctx, specs)
	report.PRNumber = cfg.PRNumber
	return report, nil
}

func renderReport(format string, report *lint.Report) error {
	switch format {
	case "json":
		return output.RenderJSON(os.Stdout, report)
	default:
		return output.RenderReportText(os.Stdout, report)
	}
}
