package game

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

// DefaultAvatar is the avatar reference new players start with.
const DefaultAvatar = "/images/default-avatar.png"

// Stats holds a player's four attributes. The same struct doubles as a set
// of allocation deltas.
type Stats struct {
	Strength     int `json:"strength"`
	Intelligence int `json:"intelligence"`
	Speed        int `json:"speed"`
	Luck         int `json:"luck"`
}

// Total returns the sum of all four attributes.
func (s Stats) Total() int {
	return s.Strength + s.Intelligence + s.Speed + s.Luck
}

// Add returns s with the deltas applied.
func (s Stats) Add(d Stats) Stats {
	return Stats{
		Strength:     s.Strength + d.Strength,
		Intelligence: s.Intelligence + d.Intelligence,
		Speed:        s.Speed + d.Speed,
		Luck:         s.Luck + d.Luck,
	}
}

// Player is the durable record for one character. The username is the
// primary key; records are never deleted.
type Player struct {
	Username     string `json:"username"`
	PasswordHash string `json:"passwordHash"`
	Email        string `json:"email,omitempty"`
	Race         RaceID `json:"race"`
	Level        int    `json:"level"`
	XP           int    `json:"xp"`
	StatPoints   int    `json:"statPoints"`
	Stats        Stats  `json:"stats"`
	X            int    `json:"x"`
	Y            int    `json:"y"`
	Avatar       string `json:"avatar"`
	IsAdmin      bool   `json:"isAdmin"`
	CreatedAt    int64  `json:"createdAt"` // unix milliseconds
}

// Validate checks a player record loaded from disk.
func (p *Player) Validate() error {
	el := errors.NewErrorList()

	if p.Username == "" {
		el.Add(fmt.Errorf("username must be set"))
	}
	if _, ok := Races[p.Race]; !ok {
		el.Add(fmt.Errorf("unknown race %q", p.Race))
	}
	if p.Level < 1 {
		el.Add(fmt.Errorf("level must be at least 1"))
	}
	if p.XP < 0 {
		el.Add(fmt.Errorf("xp must not be negative"))
	}
	if p.StatPoints < 0 {
		el.Add(fmt.Errorf("stat points must not be negative"))
	}

	return el.Err()
}

// Clone returns an independent copy of the player record.
func (p *Player) Clone() *Player {
	c := *p
	return &c
}

// PublicPlayer is the wire-safe view of a player: everything except the
// password hash.
type PublicPlayer struct {
	Username   string `json:"username"`
	Email      string `json:"email,omitempty"`
	Race       RaceID `json:"race"`
	Level      int    `json:"level"`
	XP         int    `json:"xp"`
	StatPoints int    `json:"statPoints"`
	Stats      Stats  `json:"stats"`
	X          int    `json:"x"`
	Y          int    `json:"y"`
	Avatar     string `json:"avatar"`
	IsAdmin    bool   `json:"isAdmin"`
	CreatedAt  int64  `json:"createdAt"`
}

// Public returns the sanitized view sent to clients.
func (p *Player) Public() *PublicPlayer {
	return &PublicPlayer{
		Username:   p.Username,
		Email:      p.Email,
		Race:       p.Race,
		Level:      p.Level,
		XP:         p.XP,
		StatPoints: p.StatPoints,
		Stats:      p.Stats,
		X:          p.X,
		Y:          p.Y,
		Avatar:     p.Avatar,
		IsAdmin:    p.IsAdmin,
		CreatedAt:  p.CreatedAt,
	}
}
