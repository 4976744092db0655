/*
Copyright © 2026 SHEKHAR TATA
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/shekhartata/mongodbExplainLinter/internal/explain"
	"github.com/shekhartata/mongodbExplainLinter/internal/output"
	"github.com/shekhartata/mongodbExplainLinter/internal/profile"

	"github.com/spf13/cobra"
)

var collectionsCmd = &cobra.Command{
	Use:   "collections",
	Short: "List the database's collections with their indexes",
	Long: `List the collections of the configured database, each with its document
count and non-default indexes. System collections are filtered out unless
include_system_collections is set in the config.`,
	Example: `  mongolint collections

  mongolint collections --profile staging --format json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _ := cmd.Flags().GetString("db")
		profileName, _ := cmd.Flags().GetString("profile")
		format, _ := cmd.Flags().GetString("format")
		database, _ := cmd.Flags().GetString("database")

		if format != "text" && format != "json" {
			return &ValidationError{Message: fmt.Sprintf("invalid output format %q: must be \"text\" or \"json\"", format)}
		}

		connStr, profDB, err := profile.ResolveTarget(db, profileName)
		if err != nil {
			return err
		}
		if connStr == "" {
			connStr = cfg.ConnectionString
		}
		uri := explain.BuildURI(connStr, cfg.Username, cfg.Password, cfg.AuthSource)

		dbName := database
		if dbName == "" {
			dbName = profDB
		}
		if dbName == "" {
			dbName = cfg.Database
		}

		ctx := cmd.Context()
		client, err := explain.Connect(ctx, uri, dbName)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close(ctx) }()

		names, err := client.ListCollections(ctx, cfg.IncludeSystemCollections)
		if err != nil {
			return err
		}

		infos := make([]explain.CollectionInfo, 0, len(names))
		for _, name := range names {
			info, err := client.CollectionInfo(ctx, name)
			if err != nil {
				return err
			}
			infos = append(infos, *info)
		}

		if format == "json" {
			return output.RenderJSON(os.Stdout, infos)
		}

		if len(infos) == 0 {
			fmt.Printf("Database %q has no collections.\n", dbName)
			return nil
		}

		fmt.Printf("Collections in %q:\n", dbName)
		for _, info := range infos {
			fmt.Printf("  %s  (%d documents)\n", info.Name, info.Documents)
			if len(info.Indexes) > 0 {
				fmt.Printf("    indexes: %s\n", strings.Join(info.Indexes, ", "))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(collectionsCmd)
	collectionsCmd.Flags().StringP("db", "d", "", "MongoDB connection string")
	collectionsCmd.Flags().StringP("profile", "p", "", "Use named profile from config")
	collectionsCmd.Flags().StringP("format", "f", "text", "Output format: text, json")
	collectionsCmd.Flags().String("database", "", "Database name (overrides config)")
	collectionsCmd.MarkFlagsMutuallyExclusive("db", "profile")
}
