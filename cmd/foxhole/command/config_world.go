package command

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

type WorldConfig struct {
	// Seed fixes the generator's random source. Zero means derive a seed
	// from the clock.
	Seed int64 `json:"seed"`
}

func (c *WorldConfig) Validate() error {
	el := errors.NewErrorList()

	if c.Seed < 0 {
		el.Add(fmt.Errorf("seed must not be negative"))
	}

	return el.Err()
}
