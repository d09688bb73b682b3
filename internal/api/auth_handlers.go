package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// MagicLinkRequest is the body for POST /auth/magic-link.
type MagicLinkRequest struct {
	Email string `json:"email"`
}

// MagicLinkResponse confirms a link was issued. The link itself is only
// included in dev mode; production delivery happens via the email sender.
type MagicLinkResponse struct {
	Sent      bool      `json:"sent"`
	ExpiresAt time.Time `json:"expires_at"`
	Link      string    `json:"link,omitempty"`
}

// SendMagicLink handles POST /auth/magic-link. Failures are retryable by
// re-submitting; there is no automatic retry.
func (h *Handler) SendMagicLink(w http.ResponseWriter, r *http.Request) {
	var req MagicLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	link, expiresAt, err := h.auth.SendLink(r.Context(), req.Email)
	if err != nil {
		slog.Error("magic link send failed", "error", err)
		MapAuthError(w, r, err)
		return
	}

	resp := MagicLinkResponse{Sent: true, ExpiresAt: expiresAt}
	if h.devMode {
		resp.Link = link
	}
	writeJSON(w, resp)
}

// VerifyRequest is the body for POST /auth/verify.
type VerifyRequest struct {
	Token string `json:"token"`
}

// VerifyResponse carries the session token minted for a verified email.
type VerifyResponse struct {
	SessionToken string `json:"session_token"`
	Email        string `json:"email"`
}

// VerifyMagicLink handles POST /auth/verify. A valid token is invalidated on
// first use and exchanged for a signed session token.
func (h *Handler) VerifyMagicLink(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	email, err := h.auth.Verify(r.Context(), req.Token)
	if err != nil {
		MapAuthError(w, r, err)
		return
	}

	session, err := h.sessions.Issue(email)
	if err != nil {
		slog.Error("session issue failed", "error", err)
		WriteProblem(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, VerifyResponse{SessionToken: session, Email: email})
}
