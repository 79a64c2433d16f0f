package authentication

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"aimex-backend/services/handshake"
)

func TestAttemptUnknownState(t *testing.T) {
	h := newTestHandler(t)

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			req := httptest.NewRequest(method, "/api/auth/attempts/no-such-state", nil)
			w := httptest.NewRecorder()
			h.Attempt(w, req)

			if w.Code != http.StatusNotFound {
				t.Fatalf("status = %d, want 404", w.Code)
			}
			if got := decodeDetail(t, w); got != "Unknown login attempt" {
				t.Errorf("detail = %q", got)
			}
		})
	}
}

func TestAttemptCancelOnce(t *testing.T) {
	h := newTestHandler(t)
	attempt, err := h.Broker.Begin("google")
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/auth/attempts/"+attempt.State, nil)
	w := httptest.NewRecorder()
	h.Attempt(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body map[string]bool
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if !body["cancelled"] {
		t.Error("cancelled = false, want true")
	}

	// A second cancel must find nothing.
	w = httptest.NewRecorder()
	h.Attempt(w, httptest.NewRequest(http.MethodDelete, "/api/auth/attempts/"+attempt.State, nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("second cancel status = %d, want 404", w.Code)
	}
}

func TestAttemptLongPollReceivesResult(t *testing.T) {
	h := newTestHandler(t)
	attempt, err := h.Broker.Begin("google")
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}

	go func() {
		time.Sleep(20 * time.Millisecond)
		h.Broker.Complete(attempt.State, handshake.Result{
			Provider: "google", Code: "C0DE", State: attempt.State,
		})
	}()

	req := httptest.NewRequest(http.MethodGet, "/api/auth/attempts/"+attempt.State, nil)
	w := httptest.NewRecorder()
	h.Attempt(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
	var res handshake.Result
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
	if res.Code != "C0DE" {
		t.Errorf("code = %q, want C0DE", res.Code)
	}
}

func TestAttemptLongPollProviderError(t *testing.T) {
	h := newTestHandler(t)
	attempt, err := h.Broker.Begin("instagram")
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}

	go func() {
		time.Sleep(20 * time.Millisecond)
		h.Broker.Complete(attempt.State, handshake.Result{
			Provider: "instagram", State: attempt.State, Err: "access_denied",
		})
	}()

	req := httptest.NewRequest(http.MethodGet, "/api/auth/attempts/"+attempt.State, nil)
	w := httptest.NewRecorder()
	h.Attempt(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if got := decodeDetail(t, w); got != "access_denied" {
		t.Errorf("detail = %q, want access_denied", got)
	}
}

func TestAttemptLongPollTimeout(t *testing.T) {
	h := newTestHandler(t)
	h.Broker = handshake.NewBroker(20 * time.Millisecond)

	attempt, err := h.Broker.Begin("google")
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/attempts/"+attempt.State, nil)
	w := httptest.NewRecorder()
	h.Attempt(w, req)

	if w.Code != http.StatusRequestTimeout {
		t.Fatalf("status = %d, want 408", w.Code)
	}
	if got := decodeDetail(t, w); got != "Login timed out" {
		t.Errorf("detail = %q, want %q", got, "Login timed out")
	}
}
