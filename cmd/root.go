package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "careerctx",
	Short: "Relevance and recency weighted retrieval over your career documents",
	Long: `careerctx stores your CVs, cover letters and profile exports, weights
each one by type, age and your own override, and retrieves the fragments
most relevant to a job so they can be added to an AI prompt. It exposes
the same retrieval over HTTP and to AI agents via MCP.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetOutput(os.Stderr)
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".careerctx.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
