package api

import (
	"encoding/json"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/debtflyhq/debtfly/internal/flow"
	"github.com/debtflyhq/debtfly/internal/types"
	"github.com/debtflyhq/debtfly/internal/validation"
)

// validateStepPayload runs the step's field validators against a raw
// payload. A decode failure means the body does not match the step schema at
// all; field errors mean the shape was right but the values were not.
// Unrecognized steps pass through untouched: the ledger is deliberately
// permissive about shape, validation is a screen concern.
func validateStepPayload(flowID types.FlowID, step string, raw []byte, now time.Time) ([]validation.ValidationError, error) {
	switch flowID {
	case types.FlowPublic:
		return validatePublicStep(step, raw, now)
	case types.FlowPlan:
		return validatePlanStep(step, raw)
	}
	return nil, nil
}

func validatePublicStep(step string, raw []byte, now time.Time) ([]validation.ValidationError, error) {
	switch step {
	case flow.StepCreditors:
		var sel types.CreditorSelection
		if err := json.Unmarshal(raw, &sel); err != nil {
			return nil, err
		}
		return validation.CreditorSelectionErrors(sel), nil
	case flow.StepContact:
		var info types.ContactInfo
		if err := json.Unmarshal(raw, &info); err != nil {
			return nil, err
		}
		return validation.ContactInfoErrors(info), nil
	case flow.StepDOB:
		var dob types.DateOfBirth
		if err := json.Unmarshal(raw, &dob); err != nil {
			return nil, err
		}
		return validation.DateOfBirthErrors(dob, now), nil
	case flow.StepAddress:
		var hist types.AddressHistory
		if err := json.Unmarshal(raw, &hist); err != nil {
			return nil, err
		}
		return validation.AddressHistoryErrors(hist), nil
	case flow.StepDebtDetails:
		var details types.DebtDetails
		if err := json.Unmarshal(raw, &details); err != nil {
			return nil, err
		}
		return validation.DebtDetailsErrors(details), nil
	case flow.StepReview:
		var review types.ReviewPayload
		if err := json.Unmarshal(raw, &review); err != nil {
			return nil, err
		}
		return validation.ReviewErrors(review), nil
	}
	return nil, nil
}

// normalizeStepPayload rewrites payloads that need server-assigned fields.
// Debt records get a ulid the first time they are saved so revisits and
// summaries can refer to them stably. Every other step passes through
// untouched.
func normalizeStepPayload(flowID types.FlowID, step string, raw []byte) []byte {
	if flowID != types.FlowPublic || step != flow.StepDebtDetails {
		return raw
	}

	var details types.DebtDetails
	if err := json.Unmarshal(raw, &details); err != nil {
		return raw
	}
	for i := range details.Debts {
		if details.Debts[i].ID == "" {
			details.Debts[i].ID = ulid.Make().String()
		}
	}
	normalized, err := json.Marshal(details)
	if err != nil {
		return raw
	}
	return normalized
}

func validatePlanStep(step string, raw []byte) ([]validation.ValidationError, error) {
	switch step {
	case flow.StepFee:
		var ack types.FeeAcknowledgement
		if err := json.Unmarshal(raw, &ack); err != nil {
			return nil, err
		}
		return validation.FeeAcknowledgementErrors(ack), nil
	case flow.StepAffordability:
		var a types.AffordabilityAssessment
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, err
		}
		return validation.AffordabilityErrors(a), nil
	case flow.StepDetailedAffordability:
		var d types.DetailedAffordability
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		return validation.DetailedAffordabilityErrors(d), nil
	case flow.StepAgreements:
		var a types.AgreementsPayload
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, err
		}
		return validation.AgreementsErrors(a), nil
	case flow.StepPayment:
		var p types.PaymentDetails
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		return validation.PaymentDetailsErrors(p), nil
	case flow.StepIDVerification:
		var v types.IDVerification
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return validation.IDVerificationErrors(v), nil
	}
	return nil, nil
}
