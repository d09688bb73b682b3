// Package flow defines the canonical step orderings for both onboarding
// wizards and the gate that decides whether a requested step may be rendered.
package flow

import (
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"

	"github.com/debtflyhq/debtfly/internal/types"
)

// ErrUnknownFlow marks a flow id with no step table.
var ErrUnknownFlow = errors.New("unknown flow")

// Public flow step names, in canonical order.
const (
	StepCreditors   = "creditors"
	StepInfo        = "info"
	StepContact     = "contact"
	StepDOB         = "dob"
	StepAddress     = "address"
	StepDebtDetails = "debt-details"
	StepReview      = "review"
	StepComplete    = "complete"
)

// Plan flow step names, in canonical order.
const (
	StepFee                   = "fee"
	StepAffordability         = "affordability"
	StepDetailedAffordability = "detailed-affordability"
	StepAgreements            = "agreements"
	StepPayment               = "payment"
	StepIDVerification        = "id-verification"
	// StepComplete is shared with the public flow.
)

// Snapshot is a read-only view of one flow's ledger: raw step payloads keyed
// by step name, plus the terminal completion flag.
type Snapshot struct {
	Steps     map[string]json.RawMessage
	Completed bool
}

// Payload returns the stored payload for a step, or nil when absent.
func (s Snapshot) Payload(step string) json.RawMessage {
	return s.Steps[step]
}

// StepDef declares one step of a flow: its name, whether it currently
// applies, and when its recorded payload counts as complete.
type StepDef struct {
	Name string

	// Required reports whether the step applies given the current
	// snapshot. Nil means always required.
	Required func(Snapshot) bool

	// Complete reports whether the step's payload satisfies its
	// completeness predicate. Absent payloads are handled by the caller.
	Complete func(Snapshot, time.Time) bool
}

// Steps returns the canonical step definitions for a flow.
func Steps(flowID types.FlowID) ([]StepDef, error) {
	switch flowID {
	case types.FlowPublic:
		return publicSteps, nil
	case types.FlowPlan:
		return planSteps, nil
	default:
		return nil, fmt.Errorf("flow %q: %w", flowID, ErrUnknownFlow)
	}
}

// IsStep reports whether name is a step of the given flow.
func IsStep(flowID types.FlowID, name string) bool {
	steps, err := Steps(flowID)
	if err != nil {
		return false
	}
	return index(steps, name) >= 0
}

// StepNames returns the ordered step names for a flow.
func StepNames(flowID types.FlowID) ([]string, error) {
	steps, err := Steps(flowID)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(steps))
	for i, s := range steps {
		names[i] = s.Name
	}
	return names, nil
}

func index(steps []StepDef, name string) int {
	for i, s := range steps {
		if s.Name == name {
			return i
		}
	}
	return -1
}

// decode unmarshals a step payload into v, reporting success. A missing or
// malformed payload is simply incomplete, never an error: the gate treats
// both as "not done yet".
func decode[T any](raw json.RawMessage, v *T) bool {
	if len(raw) == 0 {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}

// PathwayOf extracts the derived pathway from a snapshot's affordability
// slot. Returns the empty pathway when unset or undecodable.
func PathwayOf(snap Snapshot) types.Pathway {
	var a types.AffordabilityAssessment
	if !decode(snap.Payload(StepAffordability), &a) {
		return ""
	}
	return a.Pathway
}
