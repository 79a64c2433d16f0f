package authentication

import (
	"encoding/json"
	"net/http"
	"time"

	"aimex-backend/models/users"
	"aimex-backend/services/social"
)

// SocialLoginRequest accepts either an authorization code (server-side
// exchange) or a client-resolved user_info blob.
type SocialLoginRequest struct {
	Provider    string                 `json:"provider"`
	Code        string                 `json:"code,omitempty"`
	RedirectURI string                 `json:"redirect_uri,omitempty"`
	State       string                 `json:"state,omitempty"`
	UserInfo    map[string]interface{} `json:"user_info,omitempty"`
}

// SocialLogin handles POST /api/auth/social-login: resolve the provider
// identity, look up or create the user, and issue the application JWT.
func (h *Handler) SocialLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeDetail(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req SocialLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Provider == "" {
		writeDetail(w, http.StatusBadRequest, "provider is required")
		return
	}

	var identity *social.Identity
	switch {
	case req.UserInfo != nil:
		resolved, err := social.FromUserInfo(req.Provider, req.UserInfo)
		if err != nil {
			writeDetail(w, http.StatusBadRequest, err.Error())
			return
		}
		identity = resolved

	case req.Code != "":
		provider, err := h.Providers.Get(req.Provider)
		if err != nil {
			writeDetail(w, http.StatusBadRequest, err.Error())
			return
		}
		resolved, err := provider.Exchange(r.Context(), req.Code, req.RedirectURI)
		if err != nil {
			// Terminal for this attempt: the frontend restarts the popup flow.
			writeDetail(w, http.StatusInternalServerError, "Social login failed: "+err.Error())
			return
		}
		identity = resolved

	default:
		writeDetail(w, http.StatusBadRequest,
			"Either user_info or code with redirect_uri is required for "+req.Provider+" login")
		return
	}

	user, err := users.FindOrCreateByIdentity(h.DB, identity.Provider, identity.ID, identity.Name, identity.Email)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "Social login failed: "+err.Error())
		return
	}

	h.issueToken(w, r, identity, user)
}

// issueToken signs the application JWT and writes the token response.
func (h *Handler) issueToken(w http.ResponseWriter, r *http.Request, identity *social.Identity, user *users.User) {
	expiresIn := h.ExpireHours * 3600
	claims := buildClaims(identity, time.Now().Add(time.Duration(h.ExpireHours)*time.Hour))

	tokenString, err := h.createAccessToken(claims)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "Error generating token")
		return
	}

	h.Usage.Record(r.Context(), user.UserUUID, "login")

	writeJSON(w, http.StatusOK, TokenResponse{
		AccessToken: tokenString,
		TokenType:   "bearer",
		ExpiresIn:   expiresIn,
		User:        userPayload(claims, user),
	})
}
