package flow

import (
	"testing"
	"time"

	json "github.com/goccy/go-json"

	"github.com/debtflyhq/debtfly/internal/types"
)

var testNow = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

// snapshotOf builds a snapshot from step payloads.
func snapshotOf(t *testing.T, payloads map[string]any) Snapshot {
	t.Helper()
	snap := Snapshot{Steps: make(map[string]json.RawMessage)}
	for step, payload := range payloads {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal %s payload: %v", step, err)
		}
		snap.Steps[step] = raw
	}
	return snap
}

func validCreditors() types.CreditorSelection {
	return types.CreditorSelection{SelectedCreditorIDs: []string{"cred-001"}}
}

func validContact() types.ContactInfo {
	return types.ContactInfo{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		Phone:     "07700900123",
	}
}

func validDOB() types.DateOfBirth {
	return types.DateOfBirth{Day: "12", Month: "4", Year: "1985"}
}

func validAddress() types.AddressHistory {
	return types.AddressHistory{
		CurrentAddress: types.Address{
			Line1:    "1 High Street",
			City:     "London",
			Postcode: "SW1A 1AA",
		},
		LivedThreeYears: true,
	}
}

func validDebts() types.DebtDetails {
	return types.DebtDetails{Debts: []types.DebtRecord{{
		ID:                "debt-1",
		CreditorName:      "Barclaycard",
		ApproximateAmount: 12000,
		DebtStatus:        types.DebtStatusActive,
		AccountType:       types.AccountCreditCard,
	}}}
}

func validReview() types.ReviewPayload {
	var acks []types.DocumentAcknowledgement
	for _, code := range types.RequiredAcknowledgements() {
		acks = append(acks, types.DocumentAcknowledgement{
			DocumentCode: code,
			Acknowledged: true,
		})
	}
	return types.ReviewPayload{Acknowledgements: acks}
}

func validFeeAck() types.FeeAcknowledgement {
	return types.FeeAcknowledgement{FeeAcknowledged: true}
}

func validAffordability(pathway types.Pathway) types.AffordabilityAssessment {
	return types.AffordabilityAssessment{
		MonthlyIncome:    2000,
		MonthlyExpenses:  1500,
		DisposableIncome: 500,
		Pathway:          pathway,
	}
}

func validDetailedAffordability() types.DetailedAffordability {
	return types.DetailedAffordability{
		EmploymentStatus:    types.EmploymentEmployed,
		HousingType:         types.HousingRent,
		InformationAccurate: true,
	}
}

func validAgreements() types.AgreementsPayload {
	return types.AgreementsPayload{
		Signature:        types.AgreementSignature{FullName: "Jane Doe"},
		TermsAccepted:    true,
		AuthorityGranted: true,
	}
}

func validPayment() types.PaymentDetails {
	return types.PaymentDetails{
		Method:            types.PaymentDirectDebit,
		SortCode:          "12-34-56",
		AccountNumber:     "12345678",
		AccountHolderName: "Jane Doe",
		MandateSigned:     true,
	}
}

func validIDVerification() types.IDVerification {
	return types.IDVerification{
		IDDocumentType:   "passport",
		IDDocumentRef:    "doc-123",
		ProofType:        "utility_bill",
		ProofDocumentRef: "doc-456",
	}
}

func TestCheckAccess_PublicFlow(t *testing.T) {
	tests := []struct {
		name         string
		payloads     map[string]any
		requested    string
		wantAllowed  bool
		wantRedirect string
	}{
		{
			name:        "entry step always allowed",
			payloads:    nil,
			requested:   StepCreditors,
			wantAllowed: true,
		},
		{
			name:         "empty ledger redirects to entry",
			payloads:     nil,
			requested:    StepContact,
			wantRedirect: StepCreditors,
		},
		{
			name: "next step after completed ones is allowed",
			payloads: map[string]any{
				StepCreditors: validCreditors(),
				StepInfo:      types.InfoPayload{Viewed: true},
			},
			requested:   StepContact,
			wantAllowed: true,
		},
		{
			name: "skipping ahead redirects to first incomplete",
			payloads: map[string]any{
				StepCreditors: validCreditors(),
				StepInfo:      types.InfoPayload{Viewed: true},
			},
			requested:    StepReview,
			wantRedirect: StepContact,
		},
		{
			name: "earlier completed steps stay reachable",
			payloads: map[string]any{
				StepCreditors: validCreditors(),
				StepInfo:      types.InfoPayload{Viewed: true},
				StepContact:   validContact(),
			},
			requested:   StepCreditors,
			wantAllowed: true,
		},
		{
			name: "invalid payload blocks progression",
			payloads: map[string]any{
				StepCreditors: types.CreditorSelection{},
			},
			requested:    StepInfo,
			wantRedirect: StepCreditors,
		},
		{
			name: "incomplete contact blocks dob",
			payloads: map[string]any{
				StepCreditors: validCreditors(),
				StepInfo:      types.InfoPayload{Viewed: true},
				StepContact:   types.ContactInfo{FirstName: "Jane"},
			},
			requested:    StepDOB,
			wantRedirect: StepContact,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := snapshotOf(t, tt.payloads)
			got, err := CheckAccess(types.FlowPublic, tt.requested, snap, testNow)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %t, want %t", got.Allowed, tt.wantAllowed)
			}
			if got.RedirectTo != tt.wantRedirect {
				t.Errorf("RedirectTo = %q, want %q", got.RedirectTo, tt.wantRedirect)
			}
		})
	}
}

func TestCheckAccess_UnknownStep(t *testing.T) {
	_, err := CheckAccess(types.FlowPublic, "checkout", Snapshot{}, testNow)
	if err == nil {
		t.Fatal("expected error for unknown step, got nil")
	}
}

func TestCheckAccess_UnknownFlow(t *testing.T) {
	_, err := CheckAccess(types.FlowID("enterprise"), StepCreditors, Snapshot{}, testNow)
	if err == nil {
		t.Fatal("expected error for unknown flow, got nil")
	}
}

func TestCheckAccess_MalformedPayloadIsIncomplete(t *testing.T) {
	snap := Snapshot{Steps: map[string]json.RawMessage{
		StepCreditors: json.RawMessage(`{"selected_creditor_ids": "not-an-array"`),
	}}
	got, err := CheckAccess(types.FlowPublic, StepInfo, snap, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Allowed {
		t.Error("malformed payload should not count as complete")
	}
	if got.RedirectTo != StepCreditors {
		t.Errorf("RedirectTo = %q, want %q", got.RedirectTo, StepCreditors)
	}
}

func TestCheckAccess_DetailedAffordabilityBranch(t *testing.T) {
	base := map[string]any{
		StepFee: validFeeAck(),
	}

	t.Run("skipped on 12_in_12 pathway", func(t *testing.T) {
		payloads := map[string]any{
			StepFee:           validFeeAck(),
			StepAffordability: validAffordability(types.Pathway12In12),
		}
		got, err := CheckAccess(types.FlowPlan, StepAgreements, snapshotOf(t, payloads), testNow)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got.Allowed {
			t.Errorf("agreements should be reachable without detailed affordability, got redirect to %q", got.RedirectTo)
		}
	})

	t.Run("required on regulated_credit pathway", func(t *testing.T) {
		payloads := map[string]any{
			StepFee:           validFeeAck(),
			StepAffordability: validAffordability(types.PathwayRegulatedCredit),
		}
		got, err := CheckAccess(types.FlowPlan, StepAgreements, snapshotOf(t, payloads), testNow)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Allowed {
			t.Error("agreements should be gated behind detailed affordability")
		}
		if got.RedirectTo != StepDetailedAffordability {
			t.Errorf("RedirectTo = %q, want %q", got.RedirectTo, StepDetailedAffordability)
		}
	})

	t.Run("pathway missing blocks at affordability", func(t *testing.T) {
		got, err := CheckAccess(types.FlowPlan, StepAgreements, snapshotOf(t, base), testNow)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.RedirectTo != StepAffordability {
			t.Errorf("RedirectTo = %q, want %q", got.RedirectTo, StepAffordability)
		}
	})
}

func TestCheckAccess_PlanSeal(t *testing.T) {
	signed := map[string]any{
		StepFee:           validFeeAck(),
		StepAffordability: validAffordability(types.Pathway12In12),
		StepAgreements:    validAgreements(),
	}

	t.Run("pathway steps sealed after signing", func(t *testing.T) {
		for _, step := range []string{StepFee, StepAffordability} {
			got, err := CheckAccess(types.FlowPlan, step, snapshotOf(t, signed), testNow)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Allowed {
				t.Errorf("%s should be sealed after agreements are signed", step)
			}
			if got.RedirectTo != StepPayment {
				t.Errorf("%s RedirectTo = %q, want %q", step, got.RedirectTo, StepPayment)
			}
		}
	})

	t.Run("agreements itself stays reachable", func(t *testing.T) {
		got, err := CheckAccess(types.FlowPlan, StepAgreements, snapshotOf(t, signed), testNow)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got.Allowed {
			t.Errorf("agreements should remain reachable, got redirect to %q", got.RedirectTo)
		}
	})

	t.Run("no seal before signing", func(t *testing.T) {
		payloads := map[string]any{
			StepFee:           validFeeAck(),
			StepAffordability: validAffordability(types.Pathway12In12),
		}
		got, err := CheckAccess(types.FlowPlan, StepFee, snapshotOf(t, payloads), testNow)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got.Allowed {
			t.Errorf("fee should be reachable before signing, got redirect to %q", got.RedirectTo)
		}
	})

	t.Run("seal redirects past itself when earlier steps were saved out of order", func(t *testing.T) {
		// Saves are not gated, so a valid signature can land before the
		// fee and affordability steps. The seal must still send sealed
		// requests forward, never back into the sealed range.
		payloads := map[string]any{
			StepAgreements: validAgreements(),
		}
		for _, step := range []string{StepFee, StepAffordability} {
			got, err := CheckAccess(types.FlowPlan, step, snapshotOf(t, payloads), testNow)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Allowed {
				t.Errorf("%s should be sealed after agreements are signed", step)
			}
			if got.RedirectTo != StepPayment {
				t.Errorf("%s RedirectTo = %q, want %q", step, got.RedirectTo, StepPayment)
			}
		}
	})

	t.Run("seal redirects to terminal step when everything is done", func(t *testing.T) {
		payloads := map[string]any{
			StepFee:            validFeeAck(),
			StepAffordability:  validAffordability(types.Pathway12In12),
			StepAgreements:     validAgreements(),
			StepPayment:        validPayment(),
			StepIDVerification: validIDVerification(),
		}
		snap := snapshotOf(t, payloads)
		snap.Completed = true
		got, err := CheckAccess(types.FlowPlan, StepFee, snap, testNow)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.RedirectTo != StepComplete {
			t.Errorf("RedirectTo = %q, want %q", got.RedirectTo, StepComplete)
		}
	})
}

func TestFirstIncomplete(t *testing.T) {
	t.Run("empty ledger", func(t *testing.T) {
		got, err := FirstIncomplete(types.FlowPublic, Snapshot{}, testNow)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != StepCreditors {
			t.Errorf("FirstIncomplete = %q, want %q", got, StepCreditors)
		}
	})

	t.Run("all steps saved but not marked complete", func(t *testing.T) {
		snap := snapshotOf(t, map[string]any{
			StepCreditors:   validCreditors(),
			StepInfo:        types.InfoPayload{Viewed: true},
			StepContact:     validContact(),
			StepDOB:         validDOB(),
			StepAddress:     validAddress(),
			StepDebtDetails: validDebts(),
			StepReview:      validReview(),
		})
		got, err := FirstIncomplete(types.FlowPublic, snap, testNow)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != StepComplete {
			t.Errorf("FirstIncomplete = %q, want %q", got, StepComplete)
		}
	})

	t.Run("unknown flow", func(t *testing.T) {
		_, err := FirstIncomplete(types.FlowID("enterprise"), Snapshot{}, testNow)
		if err == nil {
			t.Fatal("expected error for unknown flow, got nil")
		}
	})
}
