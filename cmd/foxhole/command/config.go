package command

import (
	"github.com/pixil98/go-errors"
)

type Config struct {
	Listen  ListenConfig  `json:"listen"`
	Storage StorageConfig `json:"storage"`
	Nats    NatsConfig    `json:"nats"`
	World   WorldConfig   `json:"world"`
	Game    GameConfig    `json:"game"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	el.Add(c.Listen.Validate())
	el.Add(c.Storage.Validate())
	el.Add(c.Nats.Validate())
	el.Add(c.World.Validate())
	el.Add(c.Game.Validate())

	return el.Err()
}
