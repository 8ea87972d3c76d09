package world

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

// TerrainType identifies what kind of ground a tile is.
type TerrainType string

const (
	TerrainWater    TerrainType = "water"
	TerrainGrass    TerrainType = "grass"
	TerrainForest   TerrainType = "forest"
	TerrainMountain TerrainType = "mountain"
	TerrainBeach    TerrainType = "beach"
)

func (t TerrainType) valid() bool {
	switch t {
	case TerrainWater, TerrainGrass, TerrainForest, TerrainMountain, TerrainBeach:
		return true
	}
	return false
}

// Passable reports whether players can stand on this terrain.
func (t TerrainType) Passable() bool {
	return t != TerrainWater
}

// Tile is a single cell of the world grid. Tiles are immutable after
// generation except for the settlement annotation written once during
// placement.
type Tile struct {
	Type TerrainType `json:"type"`

	// IslandID is the seed index of the island this tile belongs to.
	// Water tiles have none.
	IslandID *int `json:"islandId,omitempty"`

	// Settlement is the name of the settlement on this tile, if any.
	Settlement string `json:"settlement,omitempty"`
}

// Settlement is a named, fixed non-water location. The first settlement in
// generation order is the spawn point for new players.
type Settlement struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	IslandID int    `json:"islandId"`
}

// World is a fixed-size square tile grid plus its settlements. It is owned
// by a Store and never mutated after generation.
type World struct {
	Size        int          `json:"size"`
	Tiles       [][]Tile     `json:"tiles"` // indexed [x][y]
	Settlements []Settlement `json:"settlements"`
}

// Validate checks that a world loaded from disk is structurally sound.
func (w *World) Validate() error {
	el := errors.NewErrorList()

	if w.Size <= 0 {
		el.Add(fmt.Errorf("size must be positive"))
	}

	if len(w.Tiles) != w.Size {
		el.Add(fmt.Errorf("expected %d tile columns, got %d", w.Size, len(w.Tiles)))
	} else {
		for x, col := range w.Tiles {
			if len(col) != w.Size {
				el.Add(fmt.Errorf("column %d: expected %d tiles, got %d", x, w.Size, len(col)))
				continue
			}
			for y, tile := range col {
				if !tile.Type.valid() {
					el.Add(fmt.Errorf("tile (%d,%d): unknown terrain %q", x, y, tile.Type))
				}
			}
		}
	}

	for _, s := range w.Settlements {
		if s.X < 0 || s.X >= w.Size || s.Y < 0 || s.Y >= w.Size {
			el.Add(fmt.Errorf("settlement %q at (%d,%d) is out of bounds", s.Name, s.X, s.Y))
		}
	}

	return el.Err()
}
