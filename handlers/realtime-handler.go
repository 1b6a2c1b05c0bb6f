package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Muhammad-Huzaifa24/backend-PMS/logging"
	"github.com/Muhammad-Huzaifa24/backend-PMS/realtime"
	"github.com/Muhammad-Huzaifa24/backend-PMS/utils"
)

// RealtimeHandler owns the live-connection lifecycle: an SSE stream per
// client plus an explicit register call binding a user to a connection.
type RealtimeHandler struct {
	hub      *realtime.Hub
	registry *realtime.Registry
}

func NewRealtimeHandler(hub *realtime.Hub, registry *realtime.Registry) *RealtimeHandler {
	return &RealtimeHandler{hub: hub, registry: registry}
}

func (h *RealtimeHandler) Connect(w http.ResponseWriter, r *http.Request) {
	h.hub.ServeSSE(w, r)
}

// Register binds a user id to an open connection, last registration wins.
// The user id is taken as given, mirroring the register message of the
// socket protocol this replaces.
func (h *RealtimeHandler) Register(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID       string `json:"userId"`
		ConnectionID string `json:"connectionId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.BadRequestResponse(w, "invalid request body")
		return
	}
	if body.UserID == "" || body.ConnectionID == "" {
		utils.BadRequestResponse(w, "userId and connectionId are required")
		return
	}

	conn, ok := h.hub.Get(body.ConnectionID)
	if !ok {
		utils.NotFoundResponse(w, "connection not found")
		return
	}

	h.registry.Register(body.UserID, conn)
	logging.Logger.Infof("User registered: %s", body.UserID)
	utils.SuccessResponse(w, "registered", nil)
}
