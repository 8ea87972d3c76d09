package gateway

import (
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/foxhole-game/foxhole/internal/game"
	"github.com/foxhole-game/foxhole/internal/session"
	"github.com/foxhole-game/foxhole/internal/world"
)

type state int

const (
	stateUnauthenticated state = iota
	stateAuthenticated
	stateClosed
)

const (
	defaultMapRadius = 10
	outboundBuffer   = 64
	writeTimeout     = 10 * time.Second
)

// Conn drives the protocol for a single client socket. Each connection moves
// through Unauthenticated -> Authenticated -> Closed; gameplay messages before
// authentication are dropped without a reply.
type Conn struct {
	id       string
	manager  *Manager
	sessions *session.Registry
	players  *game.Registry
	world    *world.Store

	state    state
	username string

	out         chan []byte
	unsubscribe func()
}

func newConn(manager *Manager, sessions *session.Registry, players *game.Registry, ws *world.Store) *Conn {
	return &Conn{
		id:       uuid.NewString(),
		manager:  manager,
		sessions: sessions,
		players:  players,
		world:    ws,
		out:      make(chan []byte, outboundBuffer),
	}
}

// Run pumps the socket until it closes. The read loop is the only goroutine
// touching connection state; all writes funnel through a single writer
// goroutine draining the outbound channel.
func (c *Conn) Run(sock *websocket.Conn) {
	defer c.close()
	defer sock.Close()

	done := make(chan struct{})
	defer close(done)
	go writePump(sock, c.out, done)

	for {
		_, raw, err := sock.ReadMessage()
		if err != nil {
			slog.Debug("connection closed", "conn", c.id, "error", err)
			return
		}
		c.handle(raw)
	}
}

func writePump(sock *websocket.Conn, out <-chan []byte, done <-chan struct{}) {
	for {
		select {
		case data := <-out:
			sock.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := sock.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (c *Conn) handle(raw []byte) {
	var msg inbound
	if err := json.Unmarshal(raw, &msg); err != nil {
		slog.Debug("dropping malformed message", "conn", c.id, "error", err)
		return
	}

	switch msg.Type {
	case msgAuth:
		c.handleAuth(msg)
	case msgMove:
		c.handleMove(msg)
	case msgChat:
		c.handleChat(msg)
	case msgGetMap:
		c.handleGetMap(msg)
	default:
		slog.Debug("dropping unknown message type", "conn", c.id, "type", msg.Type)
	}
}

func (c *Conn) handleAuth(msg inbound) {
	if c.state != stateUnauthenticated {
		return
	}

	s, err := c.sessions.Resolve(msg.SessionID)
	if err != nil {
		// Compatibility: a bad token gets no reply, just a local log entry.
		slog.Debug("dropping auth with unknown token", "conn", c.id)
		return
	}

	p, err := c.players.Get(s.Username)
	if err != nil {
		slog.Debug("dropping auth for unknown player", "conn", c.id, "username", s.Username)
		return
	}

	unsubscribe, err := c.manager.broker.Subscribe(broadcastSubject, c.enqueue)
	if err != nil {
		slog.Error("subscribing connection", "conn", c.id, "error", err)
		return
	}
	c.unsubscribe = unsubscribe

	c.username = p.Username
	c.state = stateAuthenticated

	c.send(authSuccess{Type: "auth_success", Player: p.Public()})
	c.manager.Bind(c.id, p.Username)
}

func (c *Conn) handleMove(msg inbound) {
	if c.state != stateAuthenticated {
		return
	}

	tile, err := c.players.Move(c.username, msg.X, msg.Y)
	if err != nil {
		if errors.Is(err, game.ErrMoveRejected) {
			c.send(moveFailed{Type: "move_failed", Message: err.Error()})
			return
		}
		slog.Error("moving player", "conn", c.id, "username", c.username, "error", err)
		return
	}

	c.send(moveSuccess{Type: "move_success", X: msg.X, Y: msg.Y, Tile: tile})
}

func (c *Conn) handleChat(msg inbound) {
	if c.state != stateAuthenticated {
		return
	}
	c.manager.Chat(c.username, msg.Message)
}

func (c *Conn) handleGetMap(msg inbound) {
	if c.state != stateAuthenticated {
		return
	}

	radius := defaultMapRadius
	if msg.Radius != nil {
		radius = *msg.Radius
	}

	region := c.world.RegionAround(msg.X, msg.Y, radius)
	c.send(mapData{Type: "map_data", Data: region})
}

func (c *Conn) send(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("marshaling reply", "conn", c.id, "error", err)
		return
	}
	c.enqueue(data)
}

// enqueue never blocks. A connection that can't keep up loses broadcasts
// rather than stalling the fan-out.
func (c *Conn) enqueue(data []byte) {
	select {
	case c.out <- data:
	default:
		slog.Warn("dropping outbound message", "conn", c.id)
	}
}

func (c *Conn) close() {
	if c.state == stateClosed {
		return
	}
	c.state = stateClosed

	if c.unsubscribe != nil {
		c.unsubscribe()
	}
	c.manager.Unbind(c.id)
}
