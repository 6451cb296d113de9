package handler

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"household-app-go/internal/domain/access"
	"household-app-go/internal/transport/httpserver/handler/common"
	"household-app-go/internal/transport/httpserver/middleware"
	"household-app-go/pkg/logger"
)

const webhookSecretHeader = "X-Webhook-Secret"

const (
	eventUserCreated = "user.created"
	eventUserUpdated = "user.updated"
	eventUserDeleted = "user.deleted"
)

type identityEvent struct {
	Type string       `json:"type"`
	User identityUser `json:"user"`
}

type identityUser struct {
	ID           string                 `json:"id"`
	Email        string                 `json:"email"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
}

// IdentityWebhook keeps users in step with the identity provider. Creation
// still honours the email allow-list.
func (h *Common) IdentityWebhook(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context(), h.log)
	if h.webhookSecret == "" {
		common.WriteError(w, http.StatusNotFound, "not_found", "not found")
		return
	}
	secret := r.Header.Get(webhookSecretHeader)
	if subtle.ConstantTimeCompare([]byte(secret), []byte(h.webhookSecret)) != 1 {
		log.Warn("webhooks.identity: bad secret")
		common.WriteError(w, http.StatusUnauthorized, "invalid_secret", "invalid webhook secret")
		return
	}

	var event identityEvent
	if err := common.DecodeJSON(r, &event); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if event.User.ID == "" {
		common.WriteError(w, http.StatusBadRequest, "invalid_request", "user id is required")
		return
	}

	switch event.Type {
	case eventUserCreated, eventUserUpdated:
		identity := middleware.IdentityFromMetadata(event.User.ID, event.User.Email, event.User.UserMetadata)
		user, err := h.Users.SyncIdentity(r.Context(), identity)
		if h.recorder != nil {
			h.recorder.RecordIdentitySync("webhook", err)
		}
		if err != nil {
			common.WriteDomainError(w, log, "webhooks.identity", err, "event", event.Type, "external_id", event.User.ID)
			return
		}
		log.Info("webhooks.identity: synced", "event", event.Type, "user_id", user.ID)
	case eventUserDeleted:
		err := h.Users.DeleteIdentity(r.Context(), event.User.ID)
		if err != nil && !errors.Is(err, access.ErrNotFound) {
			common.WriteDomainError(w, log, "webhooks.identity", err, "event", event.Type, "external_id", event.User.ID)
			return
		}
		log.Info("webhooks.identity: deleted", "external_id", event.User.ID)
	default:
		common.WriteError(w, http.StatusBadRequest, "invalid_request", "unknown event type")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
