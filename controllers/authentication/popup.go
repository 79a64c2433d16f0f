package authentication

import (
	"html/template"
	"log"
	"net/http"
	"strings"

	"aimex-backend/services/handshake"
)

const sessionName = "aimex-auth"

// callbackPage runs inside the popup window: it relays the redirect result
// to the opener with a single postMessage and closes itself. The target
// origin is pinned to the admin console, never "*".
var callbackPage = template.Must(template.New("callback").Parse(`<!DOCTYPE html>
<html>
<head><title>AIMEX Login</title></head>
<body>
<script>
  if (window.opener) {
    window.opener.postMessage({{.Payload}}, {{.TargetOrigin}});
  }
  window.close();
</script>
</body>
</html>
`))

type callbackMessage struct {
	Type  string `json:"type"`
	Code  string `json:"code,omitempty"`
	State string `json:"state,omitempty"`
	Error string `json:"error,omitempty"`
}

func messageType(provider string, success bool) string {
	suffix := "_AUTH_ERROR"
	if success {
		suffix = "_AUTH_SUCCESS"
	}
	return strings.ToUpper(provider) + suffix
}

// GoogleLogin initiates the Google consent flow inside the popup.
func (h *Handler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	h.beginLogin(w, r, "google")
}

// InstagramLogin initiates the Instagram consent flow inside the popup.
func (h *Handler) InstagramLogin(w http.ResponseWriter, r *http.Request) {
	h.beginLogin(w, r, "instagram")
}

func (h *Handler) beginLogin(w http.ResponseWriter, r *http.Request, name string) {
	provider, err := h.Providers.Get(name)
	if err != nil {
		writeDetail(w, http.StatusNotFound, err.Error())
		return
	}

	attempt, err := h.Broker.Begin(name)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "Failed to start login")
		return
	}

	session, _ := h.Store.Get(r, sessionName)
	session.Values["oauth_state"] = attempt.State
	if err := session.Save(r, w); err != nil {
		writeDetail(w, http.StatusInternalServerError, "Failed to save session")
		return
	}

	http.Redirect(w, r, provider.AuthCodeURL(attempt.State), http.StatusTemporaryRedirect)
}

// GoogleCallback receives the Google redirect in the popup window.
func (h *Handler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	h.finishLogin(w, r, "google")
}

// InstagramCallback receives the Instagram redirect (GET) and the
// provider's webhook deliveries (POST) on the same route.
func (h *Handler) InstagramCallback(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		h.instagramWebhook(w, r)
		return
	}
	h.finishLogin(w, r, "instagram")
}

func (h *Handler) finishLogin(w http.ResponseWriter, r *http.Request, name string) {
	query := r.URL.Query()
	code := query.Get("code")
	errParam := query.Get("error")
	state := query.Get("state")

	// The state cookie only exists when the consent flow started here;
	// validate against it when present.
	session, _ := h.Store.Get(r, sessionName)
	wantState, _ := session.Values["oauth_state"].(string)
	delete(session.Values, "oauth_state")
	_ = session.Save(r, w)

	var msg callbackMessage
	switch {
	case errParam != "":
		msg = callbackMessage{Type: messageType(name, false), Error: errParam}
	case code == "":
		msg = callbackMessage{Type: messageType(name, false), Error: handshake.ErrNoCode}
	case wantState != "" && state != wantState:
		msg = callbackMessage{Type: messageType(name, false), Error: "invalid oauth state"}
	default:
		msg = callbackMessage{Type: messageType(name, true), Code: code, State: state}
	}

	// Resolve the pending attempt for the long-polling opener.
	if state != "" {
		res := handshake.Result{Provider: name, Code: msg.Code, State: state, Err: msg.Error}
		h.Broker.Complete(state, res)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := callbackPage.Execute(w, map[string]interface{}{
		"Payload":      msg,
		"TargetOrigin": h.FrontendOrigin,
	})
	if err != nil {
		log.Printf("callback: failed to render popup page: %v", err)
	}
}
