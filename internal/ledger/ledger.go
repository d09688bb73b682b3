// Package ledger is the step ledger: per-flow named-slot storage with a
// derived furthest-step pointer and aggregate queries over the recorded
// answers.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"

	"github.com/debtflyhq/debtfly/internal/flow"
	"github.com/debtflyhq/debtfly/internal/store"
	"github.com/debtflyhq/debtfly/internal/types"
)

// ErrUnknownStep is returned when a step name is not part of the flow's
// canonical order.
var ErrUnknownStep = errors.New("unknown step")

// Ledger mediates all reads and writes of flow step data. The ledger itself
// performs no payload-shape validation; validators run before SaveStep at
// the API boundary.
type Ledger struct {
	store store.Store
	now   func() time.Time
}

// New creates a Ledger over the given store.
func New(s store.Store) *Ledger {
	return &Ledger{store: s, now: time.Now}
}

// WithClock overrides the ledger's clock. Test seam.
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	return l
}

// SaveStep stores or overwrites a step payload and advances the furthest-step
// pointer when the step is beyond the current pointer in canonical order.
// The pointer never retreats.
func (l *Ledger) SaveStep(ctx context.Context, flowID types.FlowID, step string, payload json.RawMessage) error {
	steps, err := flow.StepNames(flowID)
	if err != nil {
		return err
	}
	stepIdx := indexOf(steps, step)
	if stepIdx < 0 {
		return fmt.Errorf("%w: %q in flow %q", ErrUnknownStep, step, flowID)
	}

	if err := l.store.PutStep(ctx, flowID, step, payload, l.now()); err != nil {
		return err
	}

	meta, err := l.store.GetFlowMeta(ctx, flowID)
	if err != nil {
		return err
	}
	if stepIdx > indexOf(steps, meta.FurthestStep) {
		return l.store.SetFurthestStep(ctx, flowID, step)
	}
	return nil
}

// GetStep returns the stored payload for a step, or store.ErrNotFound.
func (l *Ledger) GetStep(ctx context.Context, flowID types.FlowID, step string) (json.RawMessage, error) {
	if !flow.IsStep(flowID, step) {
		return nil, fmt.Errorf("%w: %q in flow %q", ErrUnknownStep, step, flowID)
	}
	return l.store.GetStep(ctx, flowID, step)
}

// Snapshot returns the full ledger view the gate consumes: every stored
// payload plus the terminal completion flag.
func (l *Ledger) Snapshot(ctx context.Context, flowID types.FlowID) (flow.Snapshot, error) {
	raw, err := l.store.ListSteps(ctx, flowID)
	if err != nil {
		return flow.Snapshot{}, err
	}
	meta, err := l.store.GetFlowMeta(ctx, flowID)
	if err != nil {
		return flow.Snapshot{}, err
	}

	steps := make(map[string]json.RawMessage, len(raw))
	for name, payload := range raw {
		steps[name] = json.RawMessage(payload)
	}
	return flow.Snapshot{
		Steps:     steps,
		Completed: meta.CompletedAt != nil,
	}, nil
}

// ClearFlow removes all payloads and resets the pointer. Used on explicit
// restart only; the ledger never clears itself.
func (l *Ledger) ClearFlow(ctx context.Context, flowID types.FlowID) error {
	return l.store.DeleteFlow(ctx, flowID)
}

// MarkFlowComplete sets the terminal flag, distinct from the step pointer.
func (l *Ledger) MarkFlowComplete(ctx context.Context, flowID types.FlowID) error {
	return l.store.MarkFlowComplete(ctx, flowID, l.now())
}

// FlowComplete reports whether the terminal flag is set.
func (l *Ledger) FlowComplete(ctx context.Context, flowID types.FlowID) (bool, error) {
	meta, err := l.store.GetFlowMeta(ctx, flowID)
	if err != nil {
		return false, err
	}
	return meta.CompletedAt != nil, nil
}

// FurthestStep returns the furthest step reached, or the flow's entry step
// when nothing has been saved.
func (l *Ledger) FurthestStep(ctx context.Context, flowID types.FlowID) (string, error) {
	steps, err := flow.StepNames(flowID)
	if err != nil {
		return "", err
	}
	meta, err := l.store.GetFlowMeta(ctx, flowID)
	if err != nil {
		return "", err
	}
	if meta.FurthestStep == "" {
		return steps[0], nil
	}
	return meta.FurthestStep, nil
}

// Summary aggregates the intake ledger: total debt, debt count and creditor
// count. Downstream steps read these; they never mutate the debt slot.
func (l *Ledger) Summary(ctx context.Context, flowID types.FlowID) (types.FlowSummary, error) {
	var summary types.FlowSummary

	debts, err := l.debts(ctx, flowID)
	if err != nil {
		return summary, err
	}
	for _, d := range debts {
		summary.TotalDebt += d.ApproximateAmount
	}
	summary.DebtCount = len(debts)

	raw, err := l.store.GetStep(ctx, flowID, flow.StepCreditors)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return summary, err
	}
	if err == nil {
		var sel types.CreditorSelection
		if err := json.Unmarshal(raw, &sel); err == nil {
			summary.CreditorCount = len(sel.SelectedCreditorIDs) + len(sel.OtherCreditors)
		}
	}

	return summary, nil
}

// TotalDebt sums the recorded debt amounts for a flow.
func (l *Ledger) TotalDebt(ctx context.Context, flowID types.FlowID) (float64, error) {
	debts, err := l.debts(ctx, flowID)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, d := range debts {
		total += d.ApproximateAmount
	}
	return total, nil
}

func (l *Ledger) debts(ctx context.Context, flowID types.FlowID) ([]types.DebtRecord, error) {
	raw, err := l.store.GetStep(ctx, flowID, flow.StepDebtDetails)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var details types.DebtDetails
	if err := json.Unmarshal(raw, &details); err != nil {
		return nil, fmt.Errorf("decode debt details: %w", err)
	}
	return details.Debts, nil
}

func indexOf(steps []string, name string) int {
	for i, s := range steps {
		if s == name {
			return i
		}
	}
	return -1
}
