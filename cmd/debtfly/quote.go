package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/debtflyhq/debtfly/internal/plan"
)

var (
	quoteDebt       float64
	quoteJSONOutput bool
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Calculate the service fee and payment options for a debt total",
	RunE:  runQuote,
}

func init() {
	quoteCmd.Flags().Float64Var(&quoteDebt, "debt", 0, "Total debt in pounds")
	quoteCmd.Flags().BoolVar(&quoteJSONOutput, "json", false, "Output in JSON format")
	quoteCmd.MarkFlagRequired("debt")
}

func runQuote(cmd *cobra.Command, args []string) error {
	if quoteDebt < 0 {
		return fmt.Errorf("debt must not be negative, got %.2f", quoteDebt)
	}

	fee := plan.CalculateFee(quoteDebt)
	options := plan.PaymentOptions(fee.FinalFee)

	out := cmd.OutOrStdout()

	if quoteJSONOutput {
		return printJSON(out, map[string]any{
			"fee":             fee,
			"payment_options": options,
		})
	}

	fmt.Fprintf(out, "Total debt:  £%.2f\n", fee.TotalDebt)
	fmt.Fprintf(out, "Service fee: £%d", fee.FinalFee)
	switch {
	case fee.MinCapped:
		fmt.Fprint(out, " (minimum fee applied)")
	case fee.MaxCapped:
		fmt.Fprint(out, " (maximum fee applied)")
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out)

	tw := newTabWriter(out)
	fmt.Fprintln(tw, "PLAN\tMONTHS\tMONTHLY")
	for _, opt := range options {
		fmt.Fprintf(tw, "%s\t%d\t£%d\n", opt.Label, opt.DurationMonths, opt.MonthlyAmount)
	}
	return tw.Flush()
}
