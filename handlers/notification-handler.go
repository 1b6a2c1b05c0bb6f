package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Muhammad-Huzaifa24/backend-PMS/services"
	"github.com/Muhammad-Huzaifa24/backend-PMS/utils"
)

type NotificationHandler struct {
	notifications *services.NotificationService
}

func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

func (h *NotificationHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.notifications.ListForUser(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		utils.ErrorResponse(w, err)
		return
	}
	utils.SuccessResponse(w, "Notifications fetched successfully", notifications)
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	if err := h.notifications.MarkRead(r.Context(), mux.Vars(r)["notificationId"]); err != nil {
		utils.ErrorResponse(w, err)
		return
	}
	utils.SuccessResponse(w, "notification status updated successfully", nil)
}
