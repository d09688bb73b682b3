package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/debtflyhq/debtfly/internal/ledger"
)

var flowResetForce bool

var flowResetCmd = &cobra.Command{
	Use:   "reset <flow>",
	Short: "Delete all saved steps for a flow",
	Args:  cobra.ExactArgs(1),
	RunE:  runFlowReset,
}

func init() {
	flowResetCmd.Flags().BoolVarP(&flowResetForce, "force", "f", false,
		"Skip confirmation prompt")
}

func runFlowReset(cmd *cobra.Command, args []string) error {
	flowID, err := parseFlowArg(args[0])
	if err != nil {
		return err
	}
	ctx := context.Background()

	if !flowResetForce {
		fmt.Fprintf(cmd.OutOrStdout(), "Reset flow %q and delete all saved steps? [y/N]: ", flowID)
		var answer string
		fmt.Fscanln(cmd.InOrStdin(), &answer)
		if answer != "y" && answer != "Y" {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
			return nil
		}
	}

	db, err := resolveStore()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := ledger.New(db).ClearFlow(ctx, flowID); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Flow %q reset.\n", flowID)
	return nil
}
