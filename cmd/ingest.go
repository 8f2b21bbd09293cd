package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/careerctx/internal/audit"
	"github.com/ziadkadry99/careerctx/internal/ingest"
	"github.com/ziadkadry99/careerctx/internal/progress"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <path-or-glob>...",
	Short: "Store text documents (CVs, cover letters, profile exports)",
	Long: `Reads each matching text file and stores it as a document. Patterns
support ** globs. The document type is read from the file name when it
follows the YYYY-MM-DD_Type_Company.ext convention, unless --type is given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().String("type", "", "document type: cv, cover_letter, profile_import, other (aliases: resume, linkedin)")
	ingestCmd.Flags().String("ingested-at", "", "ingestion time as YYYY-MM-DD or RFC 3339 (default now)")
	ingestCmd.Flags().StringSlice("exclude", nil, "glob patterns to skip")
	ingestCmd.Flags().Bool("json", false, "output the result as JSON")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	docType, _ := cmd.Flags().GetString("type")
	ingestedAt, _ := cmd.Flags().GetString("ingested-at")
	excludes, _ := cmd.Flags().GetStringSlice("exclude")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	at, err := parseTimeFlag(ingestedAt)
	if err != nil {
		return fmt.Errorf("--ingested-at: %w", err)
	}

	paths, err := ingest.Collect(args, excludes)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		fmt.Println("No files matched.")
		return nil
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	var reporter progress.Reporter = progress.NewReporter()
	if jsonOutput {
		reporter = progress.Nop{}
	}
	res, err := ingest.New(a.docs, reporter).Files(ctx, paths, ingest.Options{
		Type:       docType,
		IngestedAt: at,
	})
	if res != nil {
		for _, d := range res.Created {
			a.audit.RecordDocument(ctx, audit.ActorCLI, audit.ActionDocumentCreated, d.ID, d.Filename)
		}
	}
	if err != nil {
		return err
	}

	if jsonOutput {
		for i := range res.Created {
			res.Created[i].Content = ""
		}
		return printJSON(res)
	}

	fmt.Printf("Ingested %d document(s)", len(res.Created))
	if len(res.Skipped) > 0 {
		fmt.Printf(", skipped %d", len(res.Skipped))
	}
	fmt.Println()
	for _, d := range res.Created {
		fmt.Printf("  %s  %-14s %s\n", d.ID, d.Type, d.Filename)
	}
	for _, s := range res.Skipped {
		fmt.Printf("  skipped %s: %s\n", s.Path, s.Reason)
	}
	return nil
}

func parseTimeFlag(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
