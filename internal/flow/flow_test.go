package flow

import (
	"errors"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/debtflyhq/debtfly/internal/types"
)

func TestStepNames(t *testing.T) {
	tests := []struct {
		flowID types.FlowID
		want   []string
	}{
		{
			flowID: types.FlowPublic,
			want: []string{
				StepCreditors, StepInfo, StepContact, StepDOB,
				StepAddress, StepDebtDetails, StepReview, StepComplete,
			},
		},
		{
			flowID: types.FlowPlan,
			want: []string{
				StepFee, StepAffordability, StepDetailedAffordability,
				StepAgreements, StepPayment, StepIDVerification, StepComplete,
			},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.flowID), func(t *testing.T) {
			got, err := StepNames(tt.flowID)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d steps, want %d", len(got), len(tt.want))
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("step %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestStepNames_UnknownFlow(t *testing.T) {
	_, err := StepNames(types.FlowID("enterprise"))
	if err == nil {
		t.Fatal("expected error for unknown flow, got nil")
	}
	if !errors.Is(err, ErrUnknownFlow) {
		t.Errorf("error = %v, want ErrUnknownFlow", err)
	}
}

func TestIsStep(t *testing.T) {
	tests := []struct {
		flowID types.FlowID
		step   string
		want   bool
	}{
		{types.FlowPublic, StepCreditors, true},
		{types.FlowPublic, StepComplete, true},
		{types.FlowPublic, StepFee, false},
		{types.FlowPlan, StepFee, true},
		{types.FlowPlan, StepCreditors, false},
		{types.FlowID("enterprise"), StepCreditors, false},
	}

	for _, tt := range tests {
		if got := IsStep(tt.flowID, tt.step); got != tt.want {
			t.Errorf("IsStep(%q, %q) = %t, want %t", tt.flowID, tt.step, got, tt.want)
		}
	}
}

func TestPathwayOf(t *testing.T) {
	t.Run("unset", func(t *testing.T) {
		if got := PathwayOf(Snapshot{}); got != "" {
			t.Errorf("PathwayOf = %q, want empty", got)
		}
	})

	t.Run("malformed", func(t *testing.T) {
		snap := Snapshot{Steps: map[string]json.RawMessage{
			StepAffordability: json.RawMessage(`{"pathway":`),
		}}
		if got := PathwayOf(snap); got != "" {
			t.Errorf("PathwayOf = %q, want empty", got)
		}
	})

	t.Run("derived", func(t *testing.T) {
		snap := snapshotOf(t, map[string]any{
			StepAffordability: validAffordability(types.PathwayFeeRelief),
		})
		if got := PathwayOf(snap); got != types.PathwayFeeRelief {
			t.Errorf("PathwayOf = %q, want %q", got, types.PathwayFeeRelief)
		}
	})
}

func TestTerminalStepTracksCompletion(t *testing.T) {
	snap := Snapshot{}
	steps, err := Steps(types.FlowPublic)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	terminal := steps[len(steps)-1]

	if terminal.Complete(snap, testNow) {
		t.Error("terminal step complete on an unfinished flow")
	}
	snap.Completed = true
	if !terminal.Complete(snap, testNow) {
		t.Error("terminal step incomplete on a finished flow")
	}
}
