package command

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

const defaultMaxPlayers = 100

type GameConfig struct {
	MaxPlayers int         `json:"max_players"`
	Admin      AdminConfig `json:"admin"`
}

func (c *GameConfig) Validate() error {
	el := errors.NewErrorList()

	if c.MaxPlayers < 0 {
		el.Add(fmt.Errorf("max_players must not be negative"))
	}
	el.Add(c.Admin.Validate())

	return el.Err()
}

// EffectiveMaxPlayers applies the default online-player cap.
func (c *GameConfig) EffectiveMaxPlayers() int {
	if c.MaxPlayers == 0 {
		return defaultMaxPlayers
	}
	return c.MaxPlayers
}

type AdminConfig struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c *AdminConfig) Validate() error {
	el := errors.NewErrorList()

	if c.Username != "" && c.Password == "" {
		el.Add(fmt.Errorf("admin password is required when a username is set"))
	}
	if c.Username == "" && c.Password != "" {
		el.Add(fmt.Errorf("admin username is required when a password is set"))
	}

	return el.Err()
}
