/*
Copyright © 2026 SHEKHAR TATA
*/
package cmd

import (
	"fmt"

	"github.com/shekhartata/mongodbExplainLinter/internal/query"

	"github.com/spf13/cobra"
)

// sampleDiff exercises every extraction path: single and multi-field finds,
// an operator filter, and an aggregation pipeline, spread over three hunks.
const sampleDiff = `diff --git a/app.py b/app.py
index 123..456 100644
--- a/app.py
+++ b/app.py
@@ -15,7 +15,7 @@ def get_users():
-    return db.users.find({'status': 'active'})
+    return db.users.find({'status': 'active', 'role': 'user'})
@@ -25,8 +25,8 @@ def get_products():
-    return db.products.find({'category': 'electronics'})
+    return db.products.find({'category': 'electronics', 'price': {'$lt': 1000}})
@@ -35,5 +35,5 @@ def get_orders():
-    return db.orders.find({'user_id': user_id})
+    return db.orders.aggregate([{'$match': {'user_id': user_id}}, {'$sort': {'created_at': -1}}])`

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Run the built-in sample diff through the linter",
	Long: `Run a built-in sample diff through the full pipeline against the
configured database. Useful for verifying connectivity and seeing what a
lint report looks like; with sample-data seeding enabled the queries hit
the seeded users, products and orders collections.`,
	Example: `  # Against the configured connection
  mongolint test

  # Against a saved profile
  mongolint test --profile staging --format json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _ := cmd.Flags().GetString("db")
		profileName, _ := cmd.Flags().GetString("profile")
		format, _ := cmd.Flags().GetString("format")

		if format != "text" && format != "json" {
			return &ValidationError{Message: fmt.Sprintf("invalid output format %q: must be \"text\" or \"json\"", format)}
		}

		specs := query.ExtractFromDiff(sampleDiff)
		logVerbose("extracted %d query candidates from the sample diff", len(specs))

		report, err := runLint(cmd.Context(), specs, db, profileName, "", false)
		if err != nil {
			return err
		}

		return renderReport(format, report)
	},
}

func init() {
	rootCmd.AddCommand(testCmd)
	testCmd.Flags().StringP("db", "d", "", "MongoDB connection string")
	testCmd.Flags().StringP("profile", "p", "", "Use named profile from config")
	testCmd.Flags().StringP("format", "f", "text", "Output format: text, json")
	testCmd.MarkFlagsMutuallyExclusive("db", "profile")
}
