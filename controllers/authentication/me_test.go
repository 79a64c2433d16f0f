package authentication

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"aimex-backend/models/users"
	"aimex-backend/services/social"
)

func TestMeRequiresAuthentication(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "not a bearer token", header: "Basic abc"},
		{name: "garbage token", header: "Bearer not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t)
			handler := h.RequireAuth(h.Me)

			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", w.Code)
			}
			if got := decodeDetail(t, w); got != "Not authenticated" {
				t.Errorf("detail = %q, want %q", got, "Not authenticated")
			}
		})
	}
}

func TestMeRejectsExpiredToken(t *testing.T) {
	h := newTestHandler(t)

	identity := &social.Identity{Provider: "google", ID: "g-1", Email: "a@b.com", Name: "Alice"}
	expired, err := h.createAccessToken(buildClaims(identity, time.Now().Add(-time.Hour)))
	if err != nil {
		t.Fatalf("createAccessToken() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	w := httptest.NewRecorder()
	h.RequireAuth(h.Me)(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if got := decodeDetail(t, w); got != "Not authenticated" {
		t.Errorf("detail = %q, want %q", got, "Not authenticated")
	}
}

func TestMeReturnsIssuedIdentity(t *testing.T) {
	h := newTestHandler(t)

	login := postJSON(t, h.SocialLogin, "/api/auth/social-login", googleUserInfoBody)
	if login.Code != http.StatusOK {
		t.Fatalf("login status = %d, want 200", login.Code)
	}
	token := decodeToken(t, login)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	w := httptest.NewRecorder()
	h.RequireAuth(h.Me)(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}

	var profile map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &profile); err != nil {
		t.Fatalf("failed to decode profile: %v", err)
	}
	if profile["sub"] != "g-1" {
		t.Errorf("sub = %v, want g-1", profile["sub"])
	}
	if profile["email"] != "alice@example.com" {
		t.Errorf("email = %v, want alice@example.com", profile["email"])
	}
	if profile["user_uuid"] != token.User["user_uuid"] {
		t.Errorf("user_uuid = %v, want %v", profile["user_uuid"], token.User["user_uuid"])
	}
}

func TestMeRejectsTokenForDeletedUser(t *testing.T) {
	h := newTestHandler(t)

	login := postJSON(t, h.SocialLogin, "/api/auth/social-login", googleUserInfoBody)
	token := decodeToken(t, login)

	if err := h.DB.Where("provider = ?", "google").Delete(&users.User{}).Error; err != nil {
		t.Fatalf("failed to delete user: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	w := httptest.NewRecorder()
	h.RequireAuth(h.Me)(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}
