package authentication

import (
	"encoding/json"
	"net/http"

	"aimex-backend/config"
	"aimex-backend/models/users"
	"aimex-backend/services/handshake"
	"aimex-backend/services/social"
	"aimex-backend/services/usage"

	"github.com/gorilla/sessions"
	"gorm.io/gorm"
)

// Handler carries the shared dependencies of every auth endpoint.
type Handler struct {
	DB        *gorm.DB
	Providers *social.Registry
	Broker    *handshake.Broker
	Usage     *usage.Recorder
	Store     *sessions.CookieStore

	JWTSecret      []byte
	ExpireHours    int
	FrontendOrigin string
}

func NewHandler(cfg config.Config, db *gorm.DB, providers *social.Registry, broker *handshake.Broker, recorder *usage.Recorder, store *sessions.CookieStore) *Handler {
	return &Handler{
		DB:             db,
		Providers:      providers,
		Broker:         broker,
		Usage:          recorder,
		Store:          store,
		JWTSecret:      []byte(cfg.JWTSecretKey),
		ExpireHours:    cfg.JWTExpireHours,
		FrontendOrigin: cfg.FrontendOrigin,
	}
}

// TokenResponse mirrors the wire contract of the original backend.
type TokenResponse struct {
	AccessToken string                 `json:"access_token"`
	TokenType   string                 `json:"token_type"`
	ExpiresIn   int                    `json:"expires_in"`
	User        map[string]interface{} `json:"user"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeDetail writes the {"detail": ...} error body the frontend expects.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// userPayload is the user object embedded both in the JWT and in login
// responses.
func userPayload(claims *Claims, user *users.User) map[string]interface{} {
	payload := map[string]interface{}{
		"sub":         claims.Subject,
		"email":       claims.Email,
		"name":        claims.Name,
		"provider":    claims.Provider,
		"company":     claims.Company,
		"groups":      claims.Groups,
		"permissions": claims.Permissions,
		"user_uuid":   user.UserUUID,
	}
	if claims.Instagram != nil {
		payload["instagram"] = claims.Instagram
	}
	return payload
}
