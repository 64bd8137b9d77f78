package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/sepurlabs/sepurbot/internal/history"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent booking attempts",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of attempts to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	db, err := history.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect history store: %w", err)
	}
	defer history.Close(db)

	store, err := history.NewStore(db, logger)
	if err != nil {
		return err
	}

	attempts, err := store.Recent(historyLimit)
	if err != nil {
		return fmt.Errorf("list attempts: %w", err)
	}
	if len(attempts) == 0 {
		fmt.Println("no attempts recorded")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tROUTE\tTRAIN\tRELEASE AT\tSTATUS\tFAILED STEP")
	for _, a := range attempts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			a.StartedAt.Format(time.RFC3339),
			a.Route,
			a.TrainName,
			a.ReleaseAt.Format(time.RFC3339),
			a.Status,
			a.FailedStep)
	}
	return w.Flush()
}
