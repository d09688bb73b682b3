package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/debtflyhq/debtfly/internal/flow"
	"github.com/debtflyhq/debtfly/internal/ledger"
)

var flowStatusCmd = &cobra.Command{
	Use:   "status <flow>",
	Short: "Show step progress for a flow",
	Args:  cobra.ExactArgs(1),
	RunE:  runFlowStatus,
}

func runFlowStatus(cmd *cobra.Command, args []string) error {
	flowID, err := parseFlowArg(args[0])
	if err != nil {
		return err
	}
	ctx := context.Background()

	db, err := resolveStore()
	if err != nil {
		return err
	}
	defer db.Close()

	ldg := ledger.New(db)

	snap, err := ldg.Snapshot(ctx, flowID)
	if err != nil {
		return err
	}
	furthest, err := ldg.FurthestStep(ctx, flowID)
	if err != nil {
		return err
	}

	defs, err := flow.Steps(flowID)
	if err != nil {
		return err
	}

	now := time.Now()
	type stepStatus struct {
		Name     string `json:"name"`
		Required bool   `json:"required"`
		Saved    bool   `json:"saved"`
		Complete bool   `json:"complete"`
	}
	statuses := make([]stepStatus, 0, len(defs))
	for _, def := range defs {
		_, saved := snap.Steps[def.Name]
		statuses = append(statuses, stepStatus{
			Name:     def.Name,
			Required: def.Required == nil || def.Required(snap),
			Saved:    saved,
			Complete: def.Complete(snap, now),
		})
	}

	out := cmd.OutOrStdout()

	if flowJSONOutput {
		return printJSON(out, map[string]any{
			"flow":          flowID,
			"furthest_step": furthest,
			"completed":     snap.Completed,
			"steps":         statuses,
		})
	}

	fmt.Fprintf(out, "Flow:      %s\n", flowID)
	fmt.Fprintf(out, "Furthest:  %s\n", furthest)
	fmt.Fprintf(out, "Completed: %t\n\n", snap.Completed)

	tw := newTabWriter(out)
	fmt.Fprintln(tw, "STEP\tREQUIRED\tSAVED\tCOMPLETE")
	for _, s := range statuses {
		fmt.Fprintf(tw, "%s\t%t\t%t\t%t\n", s.Name, s.Required, s.Saved, s.Complete)
	}
	return tw.Flush()
}
