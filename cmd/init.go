/*
Copyright © 2026 SHEKHAR TATA
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/shekhartata/mongodbExplainLinter/internal/config"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a config file with a commented template",
	Long: `Write a commented mongolint.yaml template to the current directory.

The config file holds the connection settings and classification thresholds;
every key can also be set through a MONGOLINT_* environment variable. An
existing file is not overwritten unless --force is given.`,
	Example: `  # Create ./mongolint.yaml
  mongolint init

  # Overwrite an existing config
  mongolint init --force

  # Write somewhere else
  mongolint init --output ~/mongolint.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		path, _ := cmd.Flags().GetString("output")

		if !force {
			if _, err := os.Stat(path); err == nil {
				return &ValidationError{Message: fmt.Sprintf("%s already exists; use --force to overwrite", path)}
			}
		}

		if err := os.WriteFile(path, []byte(config.GenerateSampleConfig()), 0600); err != nil {
			return fmt.Errorf("writing config %s: %w", path, err)
		}

		fmt.Printf("Config written to %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolP("force", "f", false, "Overwrite an existing config file")
	initCmd.Flags().StringP("output", "o", "mongolint.yaml", "Path of the config file to write")
}
