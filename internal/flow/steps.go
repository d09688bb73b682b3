package flow

import (
	"time"

	"github.com/debtflyhq/debtfly/internal/types"
	"github.com/debtflyhq/debtfly/internal/validation"
)

// publicSteps is the declarative step table for the intake wizard.
// Completeness predicates reuse the screen validators so the gate and the
// save path can never disagree about what "done" means.
var publicSteps = []StepDef{
	{
		Name: StepCreditors,
		Complete: func(s Snapshot, _ time.Time) bool {
			var sel types.CreditorSelection
			return decode(s.Payload(StepCreditors), &sel) &&
				len(validation.CreditorSelectionErrors(sel)) == 0
		},
	},
	{
		Name: StepInfo,
		// Informational screen: recording a visit is all it takes.
		Complete: func(s Snapshot, _ time.Time) bool {
			return len(s.Payload(StepInfo)) > 0
		},
	},
	{
		Name: StepContact,
		Complete: func(s Snapshot, _ time.Time) bool {
			var info types.ContactInfo
			return decode(s.Payload(StepContact), &info) &&
				len(validation.ContactInfoErrors(info)) == 0
		},
	},
	{
		Name: StepDOB,
		Complete: func(s Snapshot, now time.Time) bool {
			var dob types.DateOfBirth
			return decode(s.Payload(StepDOB), &dob) &&
				len(validation.DateOfBirthErrors(dob, now)) == 0
		},
	},
	{
		Name: StepAddress,
		Complete: func(s Snapshot, _ time.Time) bool {
			var hist types.AddressHistory
			return decode(s.Payload(StepAddress), &hist) &&
				len(validation.AddressHistoryErrors(hist)) == 0
		},
	},
	{
		Name: StepDebtDetails,
		Complete: func(s Snapshot, _ time.Time) bool {
			var details types.DebtDetails
			return decode(s.Payload(StepDebtDetails), &details) &&
				len(validation.DebtDetailsErrors(details)) == 0
		},
	},
	{
		Name: StepReview,
		Complete: func(s Snapshot, _ time.Time) bool {
			var review types.ReviewPayload
			return decode(s.Payload(StepReview), &review) &&
				len(validation.ReviewErrors(review)) == 0
		},
	},
	{
		Name: StepComplete,
		Complete: func(s Snapshot, _ time.Time) bool {
			return s.Completed
		},
	},
}

// planSteps is the declarative step table for the plan-selection wizard.
// The detailed-affordability step only applies on the regulated_credit
// pathway.
var planSteps = []StepDef{
	{
		Name: StepFee,
		Complete: func(s Snapshot, _ time.Time) bool {
			var ack types.FeeAcknowledgement
			return decode(s.Payload(StepFee), &ack) &&
				len(validation.FeeAcknowledgementErrors(ack)) == 0
		},
	},
	{
		Name: StepAffordability,
		Complete: func(s Snapshot, _ time.Time) bool {
			var a types.AffordabilityAssessment
			return decode(s.Payload(StepAffordability), &a) &&
				len(validation.AffordabilityErrors(a)) == 0
		},
	},
	{
		Name: StepDetailedAffordability,
		Required: func(s Snapshot) bool {
			return PathwayOf(s) == types.PathwayRegulatedCredit
		},
		Complete: func(s Snapshot, _ time.Time) bool {
			var d types.DetailedAffordability
			return decode(s.Payload(StepDetailedAffordability), &d) &&
				len(validation.DetailedAffordabilityErrors(d)) == 0
		},
	},
	{
		Name: StepAgreements,
		Complete: func(s Snapshot, _ time.Time) bool {
			var a types.AgreementsPayload
			return decode(s.Payload(StepAgreements), &a) &&
				len(validation.AgreementsErrors(a)) == 0
		},
	},
	{
		Name: StepPayment,
		Complete: func(s Snapshot, _ time.Time) bool {
			var p types.PaymentDetails
			return decode(s.Payload(StepPayment), &p) &&
				len(validation.PaymentDetailsErrors(p)) == 0
		},
	},
	{
		Name: StepIDVerification,
		Complete: func(s Snapshot, _ time.Time) bool {
			var v types.IDVerification
			return decode(s.Payload(StepIDVerification), &v) &&
				len(validation.IDVerificationErrors(v)) == 0
		},
	},
	{
		Name: StepComplete,
		Complete: func(s Snapshot, _ time.Time) bool {
			return s.Completed
		},
	},
}
