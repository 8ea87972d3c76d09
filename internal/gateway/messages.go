package gateway

import (
	"github.com/foxhole-game/foxhole/internal/chat"
	"github.com/foxhole-game/foxhole/internal/game"
	"github.com/foxhole-game/foxhole/internal/world"
)

// inbound is the superset of fields a client message may carry. Type selects
// which fields are meaningful.
type inbound struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Message   string `json:"message"`
	Radius    *int   `json:"radius"` // nil means the default viewport radius
}

const (
	msgAuth   = "auth"
	msgMove   = "move"
	msgChat   = "chat"
	msgGetMap = "get_map"
)

type authSuccess struct {
	Type   string             `json:"type"`
	Player *game.PublicPlayer `json:"player"`
}

type moveSuccess struct {
	Type string     `json:"type"`
	X    int        `json:"x"`
	Y    int        `json:"y"`
	Tile world.Tile `json:"tile"`
}

type moveFailed struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type chatMessage struct {
	Type      string `json:"type"`
	Sender    string `json:"sender"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

type mapData struct {
	Type string             `json:"type"`
	Data []world.RegionTile `json:"data"`
}

func newChatMessage(e chat.Entry) chatMessage {
	return chatMessage{
		Type:      msgChat,
		Sender:    e.Sender,
		Message:   e.Message,
		Timestamp: e.Timestamp,
	}
}
