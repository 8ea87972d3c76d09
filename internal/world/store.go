package world

import "fmt"

// ErrOutOfBounds is returned for coordinates outside the world grid.
var ErrOutOfBounds = fmt.Errorf("coordinates out of bounds")

// RegionTile is one cell of a region query result.
type RegionTile struct {
	X    int  `json:"x"`
	Y    int  `json:"y"`
	Tile Tile `json:"tile"`
}

// Store provides read access to a generated world. Nothing mutates the world
// after construction, so lookups are safe for concurrent readers without
// locking.
type Store struct {
	world *World
}

func NewStore(w *World) *Store {
	return &Store{world: w}
}

// Size returns the edge length of the grid.
func (s *Store) Size() int {
	return s.world.Size
}

// World returns the underlying world for persistence. Callers must treat it
// as read-only.
func (s *Store) World() *World {
	return s.world
}

// TileAt returns the tile at (x,y).
func (s *Store) TileAt(x, y int) (Tile, error) {
	if x < 0 || x >= s.world.Size || y < 0 || y >= s.world.Size {
		return Tile{}, fmt.Errorf("tile (%d,%d): %w", x, y, ErrOutOfBounds)
	}
	return s.world.Tiles[x][y], nil
}

// RegionAround returns the tiles within radius of (centerX, centerY),
// clipped to the grid. Tiles are ordered column-major, matching the
// viewport queries clients issue.
func (s *Store) RegionAround(centerX, centerY, radius int) []RegionTile {
	if radius < 0 {
		radius = 0
	}

	minX := max(centerX-radius, 0)
	maxX := min(centerX+radius, s.world.Size-1)
	minY := max(centerY-radius, 0)
	maxY := min(centerY+radius, s.world.Size-1)

	// A center far outside the grid clips to an empty range.
	region := []RegionTile{}
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			region = append(region, RegionTile{X: x, Y: y, Tile: s.world.Tiles[x][y]})
		}
	}
	return region
}

// Settlements returns the settlement list in generation order.
func (s *Store) Settlements() []Settlement {
	out := make([]Settlement, len(s.world.Settlements))
	copy(out, s.world.Settlements)
	return out
}

// SpawnPoint returns the coordinates new players start at: the first
// settlement placed during generation.
func (s *Store) SpawnPoint() (x, y int, ok bool) {
	if len(s.world.Settlements) == 0 {
		return 0, 0, false
	}
	first := s.world.Settlements[0]
	return first.X, first.Y, true
}
