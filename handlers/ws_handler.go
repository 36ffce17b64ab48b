package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/corfutbolocanero/roster-service/middleware"
	"github.com/corfutbolocanero/roster-service/models"
	"github.com/corfutbolocanero/roster-service/realtime"
	"github.com/corfutbolocanero/roster-service/repositories"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// El panel y la API se sirven desde dominios distintos; el token
		// del query string ya pasó por Authenticate.
		return true
	},
}

type WebSocketHandler struct {
	hub      *realtime.Hub
	userRepo repositories.UserRepository
	logger   *slog.Logger
}

func NewWebSocketHandler(hub *realtime.Hub, userRepo repositories.UserRepository, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:      hub,
		userRepo: userRepo,
		logger:   logger,
	}
}

// ServeWs suscribe la conexión a la sala según el rol: administradores a la
// sala global, entrenadores a la de su escuela.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.userRepo.GetByID(r.Context(), userID)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	room := realtime.RoomAll
	if user.Rol == models.RoleCoach {
		if user.EscuelaID == nil {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		room = *user.EscuelaID
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("failed to upgrade websocket connection", "user_id", userID, "error", err)
		return
	}

	client := realtime.NewClient(h.hub, conn, room)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
