package authentication

import (
	"net/http"

	"aimex-backend/models/users"
)

// Me handles GET /api/auth/me: return the authenticated user's profile.
// Mount behind RequireAuth.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	user, err := users.GetByProviderIdentity(h.DB, claims.Provider, claims.Subject)
	if err != nil {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	h.Usage.Record(r.Context(), user.UserUUID, "me")

	writeJSON(w, http.StatusOK, userPayload(claims, user))
}
