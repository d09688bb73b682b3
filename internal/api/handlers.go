package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/debtflyhq/debtfly/internal/auth"
	"github.com/debtflyhq/debtfly/internal/flow"
	"github.com/debtflyhq/debtfly/internal/ledger"
	"github.com/debtflyhq/debtfly/internal/postcode"
	"github.com/debtflyhq/debtfly/internal/types"
)

// maxPayloadBytes bounds step payload bodies. Step payloads are small form
// submissions; anything larger is malformed or abusive.
const maxPayloadBytes = 1 << 20

// Handler implements the API handlers.
type Handler struct {
	ledger   *ledger.Ledger
	auth     *auth.Service
	sessions *auth.SessionIssuer
	lookup   postcode.Lookup
	version  string
	devMode  bool
	now      func() time.Time
}

// NewHandler creates a new Handler.
func NewHandler(l *ledger.Ledger, a *auth.Service, sessions *auth.SessionIssuer, lookup postcode.Lookup, version string, devMode bool) *Handler {
	return &Handler{
		ledger:   l,
		auth:     a,
		sessions: sessions,
		lookup:   lookup,
		version:  version,
		devMode:  devMode,
		now:      time.Now,
	}
}

// WithClock overrides the handler clock. Test seam.
func (h *Handler) WithClock(now func() time.Time) *Handler {
	h.now = now
	return h
}

// HealthResponse is the health check response body.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Health returns the health status.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, HealthResponse{Status: "healthy", Version: h.version})
}

// flowParam reads the flow pinned by FlowMiddleware on the route group.
func flowParam(r *http.Request) (types.FlowID, bool) {
	flowID, ok := r.Context().Value(flowKey).(types.FlowID)
	if !ok {
		return "", false
	}
	if _, err := flow.Steps(flowID); err != nil {
		return "", false
	}
	return flowID, true
}

// GetStep handles GET /flows/{flow}/steps/{step}.
func (h *Handler) GetStep(w http.ResponseWriter, r *http.Request) {
	flowID, ok := flowParam(r)
	if !ok {
		WriteProblem(w, r, http.StatusNotFound, "Unknown flow")
		return
	}
	step := chi.URLParam(r, "step")

	payload, err := h.ledger.GetStep(r.Context(), flowID, step)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(payload)
}

// SaveStepResponse is the body returned after a successful step save.
type SaveStepResponse struct {
	Saved        bool   `json:"saved"`
	Step         string `json:"step"`
	FurthestStep string `json:"furthest_step"`
}

// SaveStep handles POST /flows/{flow}/steps/{step}. The payload is validated
// against the step's field rules before it reaches the ledger; the ledger
// itself stays permissive.
func (h *Handler) SaveStep(w http.ResponseWriter, r *http.Request) {
	flowID, ok := flowParam(r)
	if !ok {
		WriteProblem(w, r, http.StatusNotFound, "Unknown flow")
		return
	}
	step := chi.URLParam(r, "step")
	if !flow.IsStep(flowID, step) {
		WriteProblem(w, r, http.StatusNotFound, "Unknown step")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes))
	if err != nil || !json.Valid(body) {
		WriteProblem(w, r, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	errs, decodeErr := validateStepPayload(flowID, step, body, h.now())
	if decodeErr != nil {
		WriteProblem(w, r, http.StatusBadRequest, "Payload does not match the step schema")
		return
	}
	if len(errs) > 0 {
		WriteProblemWithErrors(w, r, "Step payload contains invalid fields", errs)
		return
	}

	body = normalizeStepPayload(flowID, step, body)

	if err := h.ledger.SaveStep(r.Context(), flowID, step, body); err != nil {
		slog.Error("save step failed", "error", err, "flow", flowID, "step", step)
		MapStoreError(w, r, err)
		return
	}

	furthest, err := h.ledger.FurthestStep(r.Context(), flowID)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}

	writeJSON(w, SaveStepResponse{Saved: true, Step: step, FurthestStep: furthest})
}

// ListSteps handles GET /flows/{flow}/steps.
func (h *Handler) ListSteps(w http.ResponseWriter, r *http.Request) {
	flowID, ok := flowParam(r)
	if !ok {
		WriteProblem(w, r, http.StatusNotFound, "Unknown flow")
		return
	}

	snap, err := h.ledger.Snapshot(r.Context(), flowID)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}

	steps := make(map[string]json.RawMessage, len(snap.Steps))
	for name, payload := range snap.Steps {
		steps[name] = json.RawMessage(payload)
	}
	writeJSON(w, map[string]any{
		"steps":     steps,
		"completed": snap.Completed,
	})
}

// CheckAccess handles GET /flows/{flow}/access/{step}. Redirects are silent
// corrections: the response is always 200 with the gate's decision.
func (h *Handler) CheckAccess(w http.ResponseWriter, r *http.Request) {
	flowID, ok := flowParam(r)
	if !ok {
		WriteProblem(w, r, http.StatusNotFound, "Unknown flow")
		return
	}
	step := chi.URLParam(r, "step")

	snap, err := h.ledger.Snapshot(r.Context(), flowID)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}

	decision, err := flow.CheckAccess(flowID, step, snap, h.now())
	if err != nil {
		WriteProblem(w, r, http.StatusNotFound, "Unknown step")
		return
	}
	writeJSON(w, decision)
}

// ResetFlow handles POST /flows/{flow}/reset.
func (h *Handler) ResetFlow(w http.ResponseWriter, r *http.Request) {
	flowID, ok := flowParam(r)
	if !ok {
		WriteProblem(w, r, http.StatusNotFound, "Unknown flow")
		return
	}

	if err := h.ledger.ClearFlow(r.Context(), flowID); err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, map[string]bool{"reset": true})
}

// CompleteFlow handles POST /flows/{flow}/complete. The terminal flag is
// only set once every required step is genuinely complete; a premature call
// redirects like any other gate miss.
func (h *Handler) CompleteFlow(w http.ResponseWriter, r *http.Request) {
	flowID, ok := flowParam(r)
	if !ok {
		WriteProblem(w, r, http.StatusNotFound, "Unknown flow")
		return
	}

	snap, err := h.ledger.Snapshot(r.Context(), flowID)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}

	first, err := flow.FirstIncomplete(flowID, snap, h.now())
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	if first != flow.StepComplete {
		writeJSON(w, flow.Decision{RedirectTo: first})
		return
	}

	if err := h.ledger.MarkFlowComplete(r.Context(), flowID); err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, map[string]bool{"completed": true})
}

// Summary handles GET /flows/{flow}/summary.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	flowID, ok := flowParam(r)
	if !ok {
		WriteProblem(w, r, http.StatusNotFound, "Unknown flow")
		return
	}

	summary, err := h.ledger.Summary(r.Context(), flowID)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, summary)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
