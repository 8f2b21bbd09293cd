package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/careerctx/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing document retrieval, weights and company facts to AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		docs, err := a.docs.ListDocuments(context.Background())
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			fmt.Fprintln(os.Stderr, "Warning: no documents stored. Run `careerctx ingest` first.")
		}

		mcpserver.Version = Version
		fmt.Fprintf(os.Stderr, "careerctx MCP server started on stdio (documents=%d, embeddings=%s)\n", len(docs), a.embeddingLabel())

		return mcpserver.NewServer(a.assembler, a.docs, a.weights, a.facts, a.audit).Serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
