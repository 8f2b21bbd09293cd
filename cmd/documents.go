package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/careerctx/internal/audit"
	"github.com/ziadkadry99/careerctx/internal/weighting"
)

var documentsCmd = &cobra.Command{
	Use:     "documents",
	Aliases: []string{"docs"},
	Short:   "List stored documents by weight",
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		docs, err := a.docs.ListDocuments(context.Background())
		if err != nil {
			return err
		}
		ranked := a.weights.RankDocuments(docs)
		if jsonOutput {
			return printJSON(ranked)
		}
		if len(ranked) == 0 {
			fmt.Println("No documents stored. Run `careerctx ingest` first.")
			return nil
		}
		for _, b := range ranked {
			fmt.Printf("%-36s  %-14s  %7.3f  %s\n", b.DocumentID, b.Type, b.Weight, truncate(b.Filename, 40))
		}
		return nil
	},
}

var weightCmd = &cobra.Command{
	Use:   "weight",
	Short: "Show or override a document's weight",
}

var weightShowCmd = &cobra.Command{
	Use:   "show <document-id>",
	Short: "Show every factor behind a document's weight",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		doc, err := a.docs.Get(context.Background(), args[0])
		if err != nil {
			return err
		}
		b := a.weights.Breakdown(*doc)
		if jsonOutput {
			return printJSON(b)
		}
		printBreakdown(b)
		return nil
	},
}

var weightSetCmd = &cobra.Command{
	Use:   "set <document-id> <multiplier>",
	Short: "Set the manual weight override (1e-06 to 1e+06, 1 is neutral)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		k, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid multiplier %q: %w", args[1], err)
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := context.Background()
		before, err := a.docs.Get(ctx, args[0])
		if err != nil {
			return err
		}
		if err := a.docs.SetManualWeight(ctx, args[0], k); err != nil {
			return err
		}
		a.audit.RecordWeightChange(ctx, audit.ActorCLI, args[0], before.ManualWeight, k)

		doc, err := a.docs.Get(ctx, args[0])
		if err != nil {
			return err
		}
		printBreakdown(a.weights.Breakdown(*doc))
		return nil
	},
}

var weightHistoryCmd = &cobra.Command{
	Use:   "history <document-id>",
	Short: "Show the recorded manual weight changes of a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		entries, err := a.audit.Query(context.Background(), audit.QueryFilter{
			SubjectID: args[0],
			Action:    audit.ActionWeightChanged,
		})
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No weight changes recorded.")
			return nil
		}
		for _, e := range entries {
			fmt.Printf("%s  %-5s  %s -> %s\n", e.Timestamp.Format("2006-01-02 15:04:05"), e.ActorType, e.PreviousValue, e.NewValue)
		}
		return nil
	},
}

func printBreakdown(b weighting.Breakdown) {
	fmt.Printf("Document:   %s (%s)\n", b.DocumentID, b.Filename)
	fmt.Printf("Type:       %s x%.2f\n", b.Type, b.TypeWeight)
	fmt.Printf("Dated:      %s (%d days old)\n", b.EffectiveDate.Format("2006-01-02"), b.AgeDays)
	if b.RecencyEnabled {
		fmt.Printf("Recency:    x%.3f\n", b.RecencyMultiplier)
	} else {
		fmt.Println("Recency:    disabled")
	}
	fmt.Printf("Base:       %.2f\n", b.BaseWeight)
	fmt.Printf("Manual:     x%.2f\n", b.ManualWeight)
	fmt.Printf("Weight:     %.4f\n", b.Weight)
}

func init() {
	documentsCmd.Flags().Bool("json", false, "output as JSON")
	weightShowCmd.Flags().Bool("json", false, "output as JSON")
	weightCmd.AddCommand(weightShowCmd, weightSetCmd, weightHistoryCmd)
	rootCmd.AddCommand(documentsCmd, weightCmd)
}
