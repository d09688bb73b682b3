package plan

import (
	"math"

	"github.com/debtflyhq/debtfly/internal/types"
)

// PathwayFactor is the share of disposable income the pathway classifier
// allows towards fee payments.
const PathwayFactor = 0.30

// DefaultAffordabilityFactor is the disposable-income share used by the
// duration-search policy. It intentionally differs from PathwayFactor: the
// two policies coexist and are not reconciled.
const DefaultAffordabilityFactor = 0.6

// ClassifyPathway decides which plan-selection route applies given monthly
// disposable income and the final fee.
//
// At most 30% of disposable income may go to fee payments. If twelve such
// payments cover the fee the client qualifies for 12_in_12; the boundary is
// inclusive. Otherwise any positive disposable income routes to
// regulated_credit, and none at all to fee_relief.
func ClassifyPathway(disposableIncome float64, finalFee int) types.Pathway {
	affordableMonthly := math.Max(disposableIncome*PathwayFactor, 0)
	if affordableMonthly*12 >= float64(finalFee) {
		return types.Pathway12In12
	}
	if disposableIncome > 0 {
		return types.PathwayRegulatedCredit
	}
	return types.PathwayFeeRelief
}

// CheckAffordability runs the duration-search affordability policy: cap the
// monthly payment at floor(disposable * factor) and find the shortest term in
// [12, 60] months whose required payment fits under the cap. A factor <= 0
// falls back to DefaultAffordabilityFactor.
func CheckAffordability(income, essentials float64, fee int, factor float64) types.AffordabilityCheck {
	if factor <= 0 {
		factor = DefaultAffordabilityFactor
	}

	disposable := income - essentials
	cap := int(math.Floor(disposable * factor))
	standardMonthly := ceilDiv(fee, 12)

	maxAffordable := standardMonthly
	if cap < maxAffordable {
		maxAffordable = cap
	}

	check := types.AffordabilityCheck{
		MonthlyDisposableIncome: disposable,
		AffordabilityCap:        cap,
		MaxAffordableMonthly:    maxAffordable,
		MinimumDuration:         12,
	}

	for duration := 12; duration <= 60; duration++ {
		if ceilDiv(fee, duration) <= cap {
			check.MinimumDuration = duration
			check.IsAffordable = true
			break
		}
	}

	if !check.IsAffordable {
		check.Reason = "Cannot afford payments within 60 months"
	}

	return check
}
