package plan

import (
	"fmt"
	"math"

	"github.com/debtflyhq/debtfly/internal/types"
)

// Fee policy constants. The rate and caps are fixed terms of service, not
// configuration.
const (
	FeePercentage = 0.20
	MinFee        = 500
	MaxFee        = 5000
)

// PlanDurations are the offered instalment terms in months, ascending.
var PlanDurations = []int{12, 24, 36, 48, 60}

// CalculateFee derives the service fee from the client's total debt.
// The raw percentage fee is clamped to [MinFee, MaxFee] and rounded to the
// nearest whole pound. Zero debt clamps to the floor like any other
// under-floor amount.
func CalculateFee(totalDebt float64) types.FeeCalculation {
	calculated := totalDebt * FeePercentage

	final := calculated
	minCapped := false
	maxCapped := false
	if calculated < MinFee {
		final = MinFee
		minCapped = true
	} else if calculated > MaxFee {
		final = MaxFee
		maxCapped = true
	}

	return types.FeeCalculation{
		TotalDebt:     totalDebt,
		FeePercentage: FeePercentage,
		CalculatedFee: calculated,
		FinalFee:      int(math.Round(final)),
		MinCapped:     minCapped,
		MaxCapped:     maxCapped,
	}
}

// PaymentOptions enumerates the instalment options for a fee, one per offered
// duration, ascending. Monthly amounts round up so the fee is always covered
// within the term.
func PaymentOptions(fee int) []types.PaymentPlanOption {
	options := make([]types.PaymentPlanOption, 0, len(PlanDurations))
	for _, duration := range PlanDurations {
		options = append(options, types.PaymentPlanOption{
			DurationMonths: duration,
			MonthlyAmount:  ceilDiv(fee, duration),
			TotalAmount:    fee,
			Label:          durationLabel(duration),
		})
	}
	return options
}

func durationLabel(duration int) string {
	switch duration {
	case 12:
		return "Standard"
	case 60:
		return "Extended"
	default:
		return fmt.Sprintf("%d months", duration)
	}
}

func ceilDiv(fee, duration int) int {
	return int(math.Ceil(float64(fee) / float64(duration)))
}
