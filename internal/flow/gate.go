package flow

import (
	"fmt"
	"time"

	"github.com/debtflyhq/debtfly/internal/types"
)

// Decision is the gate's verdict for a requested step. When Allowed is false
// the client must navigate to RedirectTo instead; redirects are silent
// corrections, not failures.
type Decision struct {
	Allowed    bool   `json:"allowed"`
	RedirectTo string `json:"redirect_to,omitempty"`
}

func allow() Decision {
	return Decision{Allowed: true}
}

func redirectTo(step string) Decision {
	return Decision{RedirectTo: step}
}

// CheckAccess decides whether the requested step of a flow may be rendered
// given the ledger snapshot. The rule is strictly forward-gated linear
// progression: walk the canonical order, find the first required step whose
// payload is absent or incomplete, and redirect there if the request points
// past it. Requesting the first incomplete step or any earlier step is
// allowed; the entry step is always allowed.
//
// One extra invariant applies to the plan flow: once the agreements step is
// signed, the pathway-determining steps before it are sealed and requests for
// them redirect forward to the first incomplete step.
func CheckAccess(flowID types.FlowID, requested string, snap Snapshot, now time.Time) (Decision, error) {
	steps, err := Steps(flowID)
	if err != nil {
		return Decision{}, err
	}

	reqIdx := index(steps, requested)
	if reqIdx < 0 {
		return Decision{}, fmt.Errorf("unknown step %q in flow %q", requested, flowID)
	}

	firstIncomplete := len(steps)
	for i, step := range steps {
		if step.Required != nil && !step.Required(snap) {
			continue
		}
		if !step.Complete(snap, now) {
			firstIncomplete = i
			break
		}
	}

	// The seal outranks the entry-step allowance: a signed flow may not
	// re-enter its pathway-determining steps, entry included.
	if flowID == types.FlowPlan {
		if d, sealed := planSealDecision(steps, snap, now, reqIdx); sealed {
			return d, nil
		}
	}

	if reqIdx == 0 {
		return allow(), nil
	}
	if reqIdx > firstIncomplete {
		return redirectTo(steps[firstIncomplete].Name), nil
	}
	return allow(), nil
}

// planSealDecision enforces the post-signature seal: after agreements are
// signed, fee, affordability and detailed-affordability may not be
// re-entered. The redirect always points past the seal, to the first
// incomplete required step after agreements; redirecting to the global first
// incomplete step could point back into the sealed range when steps were
// saved out of order.
func planSealDecision(steps []StepDef, snap Snapshot, now time.Time, reqIdx int) (Decision, bool) {
	agreeIdx := index(steps, StepAgreements)
	if reqIdx >= agreeIdx {
		return Decision{}, false
	}
	if !steps[agreeIdx].Complete(snap, now) {
		return Decision{}, false
	}
	for _, step := range steps[agreeIdx+1:] {
		if step.Required != nil && !step.Required(snap) {
			continue
		}
		if !step.Complete(snap, now) {
			return redirectTo(step.Name), true
		}
	}
	return redirectTo(StepComplete), true
}

// FirstIncomplete returns the name of the first required step whose payload
// is absent or incomplete, or the terminal step name when everything is done.
func FirstIncomplete(flowID types.FlowID, snap Snapshot, now time.Time) (string, error) {
	steps, err := Steps(flowID)
	if err != nil {
		return "", err
	}
	for _, step := range steps {
		if step.Required != nil && !step.Required(snap) {
			continue
		}
		if !step.Complete(snap, now) {
			return step.Name, nil
		}
	}
	return StepComplete, nil
}
