package authentication

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"aimex-backend/models/users"
	"aimex-backend/services/handshake"
	"aimex-backend/services/social"
	"aimex-backend/services/usage"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/sessions"
	"gorm.io/gorm"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	// A named in-memory database keeps every pooled connection on the
	// same data; a plain :memory: DSN would give each its own.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&users.User{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return &Handler{
		DB:             db,
		Providers:      social.NewRegistry(),
		Broker:         handshake.NewBroker(time.Minute),
		Usage:          usage.NewRecorder(nil),
		Store:          sessions.NewCookieStore([]byte("test-session-secret")),
		JWTSecret:      []byte("test-jwt-secret"),
		ExpireHours:    24,
		FrontendOrigin: "http://localhost:3000",
	}
}

var errExchange = errors.New("provider rejected the code")

// stubProvider stands in for a live OAuth provider in exchange tests.
type stubProvider struct {
	name     string
	identity *social.Identity
	err      error
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) AuthCodeURL(state string) string {
	return "https://consent.example/authorize?state=" + state
}

func (s *stubProvider) Exchange(ctx context.Context, code, redirectURI string) (*social.Identity, error) {
	return s.identity, s.err
}

func postJSON(t *testing.T, handler http.HandlerFunc, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func decodeToken(t *testing.T, w *httptest.ResponseRecorder) TokenResponse {
	t.Helper()
	var resp TokenResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode token response: %v", err)
	}
	return resp
}

func decodeDetail(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	return body.Detail
}
