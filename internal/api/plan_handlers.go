package api

import (
	"encoding/json"
	"net/http"

	"github.com/debtflyhq/debtfly/internal/flow"
	"github.com/debtflyhq/debtfly/internal/plan"
	"github.com/debtflyhq/debtfly/internal/types"
)

// QuoteResponse is the full plan quote derived from the ledger: the fee for
// the recorded debts, the instalment options for it, and the pathway if the
// affordability step has derived one.
type QuoteResponse struct {
	Fee            types.FeeCalculation      `json:"fee_calculation"`
	PaymentOptions []types.PaymentPlanOption `json:"payment_options"`
	Pathway        types.Pathway             `json:"pathway,omitempty"`
}

// Quote handles GET /plan/quote. The fee is recomputed from total debt on
// every call; it is never stored authoritatively.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	totalDebt, err := h.ledger.TotalDebt(r.Context(), types.FlowPublic)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}

	fee := plan.CalculateFee(totalDebt)

	snap, err := h.ledger.Snapshot(r.Context(), types.FlowPlan)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}

	writeJSON(w, QuoteResponse{
		Fee:            fee,
		PaymentOptions: plan.PaymentOptions(fee.FinalFee),
		Pathway:        flow.PathwayOf(snap),
	})
}

// PathwayRequest is the body for POST /plan/pathway.
type PathwayRequest struct {
	DisposableIncome float64 `json:"disposable_income"`
	FinalFee         int     `json:"final_fee"`
}

// PathwayResponse carries the derived pathway.
type PathwayResponse struct {
	Pathway types.Pathway `json:"pathway"`
}

// ClassifyPathway handles POST /plan/pathway. The screen derives the pathway
// here before saving the affordability step.
func (h *Handler) ClassifyPathway(w http.ResponseWriter, r *http.Request) {
	var req PathwayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	if req.FinalFee <= 0 {
		WriteProblem(w, r, http.StatusBadRequest, "final_fee must be positive")
		return
	}

	writeJSON(w, PathwayResponse{
		Pathway: plan.ClassifyPathway(req.DisposableIncome, req.FinalFee),
	})
}

// AffordabilityCheckRequest is the body for POST /plan/affordability-check.
// Factor is optional; zero falls back to the policy default.
type AffordabilityCheckRequest struct {
	MonthlyIncome     float64 `json:"monthly_income"`
	MonthlyEssentials float64 `json:"monthly_essentials"`
	Fee               int     `json:"fee"`
	Factor            float64 `json:"factor,omitempty"`
}

// AffordabilityCheck handles POST /plan/affordability-check, the
// duration-search policy.
func (h *Handler) AffordabilityCheck(w http.ResponseWriter, r *http.Request) {
	var req AffordabilityCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	if req.Fee <= 0 {
		WriteProblem(w, r, http.StatusBadRequest, "fee must be positive")
		return
	}

	writeJSON(w, plan.CheckAffordability(req.MonthlyIncome, req.MonthlyEssentials, req.Fee, req.Factor))
}
