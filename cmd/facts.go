package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/careerctx/internal/audit"
	"github.com/ziadkadry99/careerctx/internal/facts"
)

var factsCmd = &cobra.Command{
	Use:   "facts",
	Short: "Manage company research facts",
}

var factsAddCmd = &cobra.Command{
	Use:   "add <company> <key> <value>",
	Short: "Record a fact about a company, superseding the previous value",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, _ := cmd.Flags().GetString("source")

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := context.Background()
		f, err := a.facts.Save(ctx, facts.Fact{
			Company: args[0],
			Key:     args[1],
			Value:   args[2],
			Source:  source,
		})
		if err != nil {
			return err
		}
		a.audit.RecordFact(ctx, audit.ActorCLI, f.ID, f.Company, f.Key, previousValue(ctx, a.facts, f), f.Value)
		fmt.Printf("Saved %s/%s (version %d)\n", f.Company, f.Key, f.Version)
		return nil
	},
}

var factsListCmd = &cobra.Command{
	Use:   "list [company]",
	Short: "List current facts, for one company or all",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")
		history, _ := cmd.Flags().GetString("history")

		var company string
		if len(args) == 1 {
			company = args[0]
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := context.Background()
		var list []facts.Fact
		if history != "" {
			if company == "" {
				return fmt.Errorf("--history needs a company")
			}
			list, err = a.facts.History(ctx, company, history)
		} else {
			list, err = a.facts.Current(ctx, company)
		}
		if err != nil {
			return err
		}

		if jsonOutput {
			if list == nil {
				list = []facts.Fact{}
			}
			return printJSON(list)
		}
		if len(list) == 0 {
			fmt.Println("No facts stored.")
			return nil
		}
		for _, f := range list {
			fmt.Printf("%-20s %-12s v%-3d %-7s %s\n", truncate(f.Company, 20), f.Key, f.Version, f.Source, f.Value)
		}
		return nil
	},
}

func init() {
	factsAddCmd.Flags().String("source", facts.SourceUser, "fact source: user, search, import")
	factsListCmd.Flags().Bool("json", false, "output as JSON")
	factsListCmd.Flags().String("history", "", "show every version of this key")
	factsCmd.AddCommand(factsAddCmd, factsListCmd)
	rootCmd.AddCommand(factsCmd)
}

// previousValue returns the value f superseded, or "" for a first version.
func previousValue(ctx context.Context, store *facts.Store, f *facts.Fact) string {
	if f.Version <= 1 {
		return ""
	}
	history, err := store.History(ctx, f.Company, f.Key)
	if err != nil {
		return ""
	}
	for _, h := range history {
		if h.SupersededBy == f.ID {
			return h.Value
		}
	}
	return ""
}
