package authentication

import (
	"encoding/json"
	"net/http"

	"aimex-backend/models/users"
	"aimex-backend/services/social"

	"golang.org/x/crypto/bcrypt"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login for local admin accounts.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeDetail(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := users.GetLocalByEmail(h.DB, req.Email)
	if err != nil {
		writeDetail(w, http.StatusUnauthorized, "Incorrect email or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		writeDetail(w, http.StatusUnauthorized, "Incorrect email or password")
		return
	}

	identity := &social.Identity{
		Provider: "local",
		ID:       user.ProviderID,
		Email:    user.Email,
		Name:     user.UserName,
	}
	h.issueToken(w, r, identity, user)
}
