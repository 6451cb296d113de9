package handler

import (
	"net/http"
	"time"

	userdomain "household-app-go/internal/domain/user"
	"household-app-go/internal/transport/httpserver/handler/common"
	"household-app-go/internal/transport/httpserver/middleware"
	"household-app-go/pkg/logger"
)

// Common serves the routes that are not tied to a household.
type Common struct {
	Users         *userdomain.Service
	webhookSecret string
	recorder      SyncRecorder
	log           logger.Logger
}

type healthResponse struct {
	Status string `json:"status"`
}

type meResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Image     *string   `json:"image"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *Common) Health(w http.ResponseWriter, r *http.Request) {
	common.WriteJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

func (h *Common) Me(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context(), h.log)
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		common.WriteError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	user, err := h.Users.Get(r.Context(), userID)
	if err != nil {
		common.WriteDomainError(w, log, "users.me", err, "user_id", userID)
		return
	}

	common.WriteJSON(w, http.StatusOK, meResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Image:     user.Image,
		CreatedAt: user.CreatedAt,
	})
}
