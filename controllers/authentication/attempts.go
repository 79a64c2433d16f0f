package authentication

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"aimex-backend/services/handshake"
)

// Attempt serves /api/auth/attempts/{state}: GET long-polls for the
// handshake result, DELETE cancels it (the opener saw the popup close).
func (h *Handler) Attempt(w http.ResponseWriter, r *http.Request) {
	state := strings.TrimPrefix(r.URL.Path, "/api/auth/attempts/")
	if state == "" || strings.Contains(state, "/") {
		writeDetail(w, http.StatusNotFound, "Unknown login attempt")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.waitAttempt(w, r, state)
	case http.MethodDelete:
		h.cancelAttempt(w, state)
	default:
		writeDetail(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *Handler) waitAttempt(w http.ResponseWriter, r *http.Request, state string) {
	attempt, ok := h.Broker.Lookup(state)
	if !ok {
		writeDetail(w, http.StatusNotFound, "Unknown login attempt")
		return
	}

	res, err := attempt.Wait(r.Context())
	if err != nil {
		// The opener went away; nothing left to answer.
		if errors.Is(err, context.Canceled) {
			return
		}
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}

	switch {
	case res.Err == handshake.ErrTimedOut:
		writeDetail(w, http.StatusRequestTimeout, "Login timed out")
	case res.Failed():
		writeDetail(w, http.StatusUnauthorized, res.Err)
	default:
		writeJSON(w, http.StatusOK, res)
	}
}

func (h *Handler) cancelAttempt(w http.ResponseWriter, state string) {
	if !h.Broker.Cancel(state) {
		writeDetail(w, http.StatusNotFound, "Unknown login attempt")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"cancelled": true})
}
