// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/content-engine/internal/store"
	"github.com/pdiddy/content-engine/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect past pipeline runs",
	Long: `History lists recorded pipeline runs, most recent first. Use --run
with a run ID to show the per-stage spans of a single run.`,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("history-dir")
	if dir == "" {
		dir = viper.GetString("store.dir")
	}
	if dir == "" {
		dir = "output/history"
	}

	history, err := store.NewStore(types.StoreConfig{Dir: dir})
	if err != nil {
		return err
	}
	defer history.Close()

	jsonOutput, _ := cmd.Flags().GetBool("json")

	runID, _ := cmd.Flags().GetString("run")
	if runID != "" {
		return showSpans(history, runID, jsonOutput)
	}

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := history.ListRuns(context.Background(), limit)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-36s  %-30s  %-20s  %-6s  %s\n",
		"Run", "Topic", "Started", "Stages", "Status")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 105))
	for _, r := range runs {
		topic := r.Topic
		if len(topic) > 30 {
			topic = topic[:27] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-36s  %-30s  %-20s  %-6d  %s\n",
			r.ID, topic, r.StartedAt.Format("2006-01-02 15:04:05"), r.Stages, r.Status)
	}
	fmt.Fprintf(os.Stdout, "\n%d runs\n", len(runs))
	return nil
}

func showSpans(history *store.Store, runID string, jsonOutput bool) error {
	spans, err := history.ListSpans(context.Background(), runID)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(spans)
	}

	if len(spans) == 0 {
		fmt.Printf("No spans recorded for run %s.\n", runID)
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-10s  %-10s  %-8s  %s\n", "Stage", "Duration", "Status", "Error")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 60))
	for _, sp := range spans {
		fmt.Fprintf(os.Stdout, "%-10s  %-10s  %-8s  %s\n",
			sp.Stage, sp.Duration, sp.Status, sp.Error)
	}
	return nil
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum runs to list")
	historyCmd.Flags().String("run", "", "show per-stage spans for a run ID")
	historyCmd.Flags().String("history-dir", "", "directory for the run history database (default output/history)")
	historyCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(historyCmd)
}
