package gateway

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/foxhole-game/foxhole/internal/game"
	"github.com/foxhole-game/foxhole/internal/session"
	"github.com/foxhole-game/foxhole/internal/world"
)

// Handler upgrades HTTP requests to websocket connections and runs a Conn for
// each one.
type Handler struct {
	manager  *Manager
	sessions *session.Registry
	players  *game.Registry
	world    *world.Store
	upgrader websocket.Upgrader
}

func NewHandler(manager *Manager, sessions *session.Registry, players *game.Registry, ws *world.Store) *Handler {
	return &Handler{
		manager:  manager,
		sessions: sessions,
		players:  players,
		world:    ws,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sock, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("upgrading connection", "error", err)
		return
	}

	c := newConn(h.manager, h.sessions, h.players, h.world)
	c.Run(sock)
}
