package authentication

import (
	"encoding/json"
	"log"
	"net/http"
)

// instagramWebhook acknowledges provider-pushed events. Instagram disables
// webhooks that keep failing, so receipt is acknowledged for any parseable
// body; processing is log-only, which keeps redelivery harmless.
func (h *Handler) instagramWebhook(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Object string            `json:"object"`
		Entry  []json.RawMessage `json:"entry"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeDetail(w, http.StatusInternalServerError, "Invalid webhook payload")
		return
	}

	if payload.Object != "instagram" {
		log.Printf("webhook: unexpected object %q", payload.Object)
	}
	log.Printf("webhook: received %d entries", len(payload.Entry))

	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}
