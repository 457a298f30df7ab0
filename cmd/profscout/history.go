package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/researchconnect/profscout/internal/config"
	"github.com/researchconnect/profscout/internal/history"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded searches",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent searches, newest first",
	RunE:  runHistoryList,
}

func init() {
	historyListCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum entries to list")
	historyCmd.AddCommand(historyListCmd)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if !cfg.History.Enabled {
		return fmt.Errorf("history is disabled in configuration")
	}

	store, err := history.NewSQLiteStore(cfg.History.Path)
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer store.Close()

	entries, err := store.Recent(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tQUERY\tVALID\tCONFIDENCE\tRESULTS\tDURATION")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%t\t%.2f\t%d\t%dms\n",
			e.CreatedAt.Format(time.RFC3339), e.Query, e.Valid,
			e.Confidence, e.ResultCount, e.DurationMs)
	}
	return w.Flush()
}
