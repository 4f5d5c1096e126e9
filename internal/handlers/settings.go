package handlers

import (
	"net/http"

	"github.com/futchampions/tracker-api/internal/models"
)

// GetNotificationSettings returns the caller's notification switches
// @Summary Get Notification Settings
// @Tags Settings
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Success 200 {object} models.NotificationSettings
// @Router /settings/notifications [get]
func (h *Handler) GetNotificationSettings(w http.ResponseWriter, r *http.Request) {
	ns, err := h.settings.GetNotificationSettings(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		h.serviceError(w, "get settings", err)
		return
	}
	h.jsonResponse(w, http.StatusOK, ns)
}

// UpdateNotificationSettings replaces the caller's notification switches
// @Summary Update Notification Settings
// @Tags Settings
// @Accept json
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Param body body models.NotificationSettings true "Settings"
// @Success 200 {object} models.NotificationSettings
// @Router /settings/notifications [put]
func (h *Handler) UpdateNotificationSettings(w http.ResponseWriter, r *http.Request) {
	var ns models.NotificationSettings
	if !h.decodeBody(w, r, &ns) {
		return
	}
	// The body never chooses whose settings are written
	ns.UserID = userIDFromContext(r.Context())

	saved, err := h.settings.UpdateNotificationSettings(r.Context(), ns)
	if err != nil {
		h.serviceError(w, "update settings", err)
		return
	}
	h.jsonResponse(w, http.StatusOK, saved)
}
