package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/connect-labs/extcat/internal/config"
	"github.com/connect-labs/extcat/internal/history"
	"github.com/spf13/cobra"
)

var (
	historyLimit     int
	historyExtension string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded release applications",
	Long:  `Show the ledger of releases that update runs applied or rejected, newest first.`,
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of entries to show (0 for all)")
	historyCmd.Flags().StringVar(&historyExtension, "extension", "", "Only show entries for this extension")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := history.Open(config.HistoryDB())
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(cmd.Context(), historyExtension, historyLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No history recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "WHEN\tRUN\tTAG\tOUTCOME\tDETAIL")
	for _, e := range entries {
		outcome := green(e.Outcome)
		if e.Outcome != history.OutcomeApplied {
			outcome = red(e.Outcome)
		}
		detail := e.Message
		if e.ErrorKind != "" {
			detail = e.ErrorKind + ": " + e.Message
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.RecordedAt.Local().Format(time.DateTime), shortRunID(e.RunID), e.Tag, outcome, orDash(detail))
	}
	return w.Flush()
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
