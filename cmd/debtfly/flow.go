package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/debtflyhq/debtfly/internal/config"
	"github.com/debtflyhq/debtfly/internal/flow"
	"github.com/debtflyhq/debtfly/internal/store"
	"github.com/debtflyhq/debtfly/internal/types"
)

var (
	flowDBOverride string
	flowJSONOutput bool
)

var flowCmd = &cobra.Command{
	Use:   "flow",
	Short: "Inspect and reset onboarding flows",
	Long:  "Inspect step progress and reset flows without running the server.",
}

func init() {
	flowCmd.PersistentFlags().StringVar(&flowDBOverride, "db", "",
		"Database path (overrides config and DEBTFLY_DB_PATH)")
	flowCmd.PersistentFlags().BoolVar(&flowJSONOutput, "json", false,
		"Output in JSON format")

	flowCmd.AddCommand(flowStatusCmd)
	flowCmd.AddCommand(flowResetCmd)
}

// resolveStore opens the configured SQLite store with optional --db override.
func resolveStore() (*store.SQLiteStore, error) {
	dbPath := flowDBOverride
	if dbPath == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		dbPath = cfg.Database.Path
	}

	return store.NewSQLiteStore(dbPath)
}

// parseFlowArg validates a flow name given on the command line.
func parseFlowArg(arg string) (types.FlowID, error) {
	flowID := types.FlowID(arg)
	if _, err := flow.Steps(flowID); err != nil {
		return "", fmt.Errorf("unknown flow %q (expected public or plan)", arg)
	}
	return flowID, nil
}

// printJSON marshals v to JSON and writes to the given writer.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// newTabWriter returns a configured tabwriter for aligned columns.
func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}
