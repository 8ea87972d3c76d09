package gateway

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/foxhole-game/foxhole/internal/chat"
)

// broadcastSubject is the broker subject every bound connection subscribes to.
const broadcastSubject = "client.broadcast"

const systemSender = "System"

// Broker is the pub-sub fabric broadcasts travel over. Satisfied by
// messaging.NatsServer.
type Broker interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, handler func(data []byte)) (func(), error)
}

// Manager tracks which connections are bound to a player and fans events out
// to all of them. Connections are keyed by socket id, not username: a player
// may hold several sockets at once.
type Manager struct {
	broker  Broker
	history *chat.History

	mu    sync.Mutex
	bound map[string]string // connection id -> username
}

func NewManager(broker Broker, history *chat.History) *Manager {
	return &Manager{
		broker:  broker,
		history: history,
		bound:   make(map[string]string),
	}
}

// Bind associates a connection with a player and announces the join.
func (m *Manager) Bind(connID, username string) {
	m.mu.Lock()
	m.bound[connID] = username
	m.mu.Unlock()

	m.System(fmt.Sprintf("%s has joined the game!", username))
	slog.Info("connection bound", "conn", connID, "username", username)
}

// Unbind drops a connection. If it was bound to a player the departure is
// announced to everyone remaining.
func (m *Manager) Unbind(connID string) {
	m.mu.Lock()
	username, wasBound := m.bound[connID]
	delete(m.bound, connID)
	m.mu.Unlock()

	if !wasBound {
		return
	}

	m.System(fmt.Sprintf("%s has left the game.", username))
	slog.Info("connection unbound", "conn", connID, "username", username)
}

// Online reports the number of bound connections.
func (m *Manager) Online() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.bound)
}

// Chat records a player chat line in history and broadcasts it. The stored
// entry is returned so callers see the authoritative timestamp.
func (m *Manager) Chat(sender, message string) chat.Entry {
	e := m.history.Append(sender, message)
	m.publish(newChatMessage(e))
	return e
}

// System broadcasts a system chat line. System lines are not recorded in
// history.
func (m *Manager) System(message string) {
	m.publish(chatMessage{
		Type:      msgChat,
		Sender:    systemSender,
		Message:   message,
		Timestamp: time.Now().UnixMilli(),
	})
}

func (m *Manager) publish(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("marshaling broadcast", "error", err)
		return
	}
	if err := m.broker.Publish(broadcastSubject, data); err != nil {
		slog.Error("publishing broadcast", "error", err)
	}
}
