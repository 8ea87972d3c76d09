package command

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

type ListenConfig struct {
	Address string `json:"address"`
}

func (c *ListenConfig) Validate() error {
	el := errors.NewErrorList()

	if c.Address == "" {
		el.Add(fmt.Errorf("address is required"))
	}

	return el.Err()
}
