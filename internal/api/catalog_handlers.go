package api

import (
	"net/http"

	"github.com/debtflyhq/debtfly/internal/creditors"
)

// Creditors handles GET /creditors.
func (h *Handler) Creditors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, creditors.Catalog())
}

// Addresses handles GET /addresses?postcode=. Pure query, no side effects.
func (h *Handler) Addresses(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("postcode")
	if code == "" {
		WriteProblem(w, r, http.StatusBadRequest, "postcode query parameter is required")
		return
	}
	writeJSON(w, h.lookup.ByPostcode(code))
}
