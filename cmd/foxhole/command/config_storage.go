package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-errors"

	"github.com/foxhole-game/foxhole/internal/game"
	"github.com/foxhole-game/foxhole/internal/storage"
	"github.com/foxhole-game/foxhole/internal/world"
)

type StorageConfig struct {
	Worlds  AssetConfig[*world.World] `json:"worlds"`
	Players AssetConfig[*game.Player] `json:"players"`
}

func (c *StorageConfig) Validate() error {
	el := errors.NewErrorList()
	el.Add(c.Worlds.Validate("worlds"))
	el.Add(c.Players.Validate("players"))
	return el.Err()
}

type AssetConfig[T storage.ValidatingSpec] struct {
	Path string `json:"path"`
}

func (c *AssetConfig[T]) Validate(name string) error {
	if c.Path == "" {
		return fmt.Errorf("%s: path is required", name)
	}
	_, err := os.Stat(c.Path)
	if err != nil {
		return fmt.Errorf("%s: invalid path %q: %w", name, c.Path, err)
	}

	return nil
}

func (c *AssetConfig[T]) BuildFileStore() (*storage.FileStore[T], error) {
	return storage.NewFileStore[T](c.Path)
}
