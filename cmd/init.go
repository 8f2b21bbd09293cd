package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/careerctx/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize careerctx configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to choose an embedding provider and weighting options, and writes a .careerctx.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
