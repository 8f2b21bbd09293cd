package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/careerctx/internal/retrieval"
)

var retrieveCmd = &cobra.Command{
	Use:   "retrieve [query]",
	Short: "Retrieve the document fragments most relevant to a query",
	Long: `Ranks every chunk of every stored document against the query and prints
the best fragments, labeled by document type, followed by matching company
research. Use --title/--description/--company instead of a query to target
a job, and --prompt to append the context to a prompt.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRetrieve,
}

func init() {
	retrieveCmd.Flags().Int("top-k", 0, "number of document fragments (default from config)")
	retrieveCmd.Flags().Bool("json", false, "output fragments as JSON")
	retrieveCmd.Flags().String("prompt", "", "base prompt to enhance with the retrieved context")
	retrieveCmd.Flags().String("title", "", "job title")
	retrieveCmd.Flags().String("description", "", "job description")
	retrieveCmd.Flags().String("company", "", "company name")
	rootCmd.AddCommand(retrieveCmd)
}

func runRetrieve(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	topK, _ := cmd.Flags().GetInt("top-k")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	prompt, _ := cmd.Flags().GetString("prompt")
	title, _ := cmd.Flags().GetString("title")
	description, _ := cmd.Flags().GetString("description")
	company, _ := cmd.Flags().GetString("company")

	query := retrieval.JobQuery(title, description, company)
	if len(args) == 1 {
		query = strings.TrimSpace(args[0] + " " + query)
	}
	if query == "" {
		return fmt.Errorf("a query or at least one of --title, --description, --company is required")
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if prompt != "" {
		fmt.Println(a.assembler.EnhancePrompt(ctx, prompt, query, topK))
		return nil
	}

	frags := a.assembler.Retrieve(ctx, query, topK)
	if jsonOutput {
		if frags == nil {
			frags = []retrieval.LabeledFragment{}
		}
		return printJSON(frags)
	}
	if len(frags) == 0 {
		fmt.Println("No relevant context found.")
		return nil
	}
	fmt.Println(retrieval.Format(frags))
	return nil
}
