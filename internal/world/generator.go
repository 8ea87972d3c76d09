package world

import (
	"math"
	"math/rand"
)

const (
	// DefaultSize is the edge length of the square world grid.
	DefaultSize = 150

	islandCount     = 25
	settlementCount = 12
)

// settlementNames is the fixed list of ports placed during generation, in
// placement order. Index 0 is the spawn settlement.
var settlementNames = [settlementCount]string{
	"Port Royal", "Tortuga", "Nassau", "Shipwreck Bay",
	"Skull Island", "Treasure Cove", "Blackbeard's Harbor", "Rum Bay",
	"Cannonball Reef", "Cutlass Point", "Parrot's Perch", "Jolly Roger Port",
}

// Generator produces a fresh world. It runs exactly once per data directory:
// worlds are persisted after generation and never regenerated while the
// saved copy exists.
type Generator struct {
	size int
	rng  *rand.Rand
}

// NewGenerator creates a generator seeded for reproducible output.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		size: DefaultSize,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

type islandSeed struct {
	centerX int
	centerY int
	radius  int
}

// Generate builds the tile grid and places settlements. Islands are stamped
// in seed order; where two islands overlap the later seed wins. Cells
// untouched by any island stay water.
func (g *Generator) Generate() *World {
	tiles := make([][]Tile, g.size)
	for x := range tiles {
		tiles[x] = make([]Tile, g.size)
		for y := range tiles[x] {
			tiles[x][y] = Tile{Type: TerrainWater}
		}
	}

	islands := make([]islandSeed, 0, islandCount)
	for i := 0; i < islandCount; i++ {
		isl := islandSeed{
			centerX: g.rng.Intn(g.size-20) + 10,
			centerY: g.rng.Intn(g.size-20) + 10,
			radius:  g.rng.Intn(15) + 10,
		}
		islands = append(islands, isl)
		g.stampIsland(tiles, i, isl)
	}

	return &World{
		Size:        g.size,
		Tiles:       tiles,
		Settlements: g.placeSettlements(tiles, islands),
	}
}

func (g *Generator) stampIsland(tiles [][]Tile, id int, isl islandSeed) {
	r := float64(isl.radius)
	for x := isl.centerX - isl.radius; x <= isl.centerX+isl.radius; x++ {
		for y := isl.centerY - isl.radius; y <= isl.centerY+isl.radius; y++ {
			if x < 0 || x >= g.size || y < 0 || y >= g.size {
				continue
			}
			d := math.Hypot(float64(x-isl.centerX), float64(y-isl.centerY))

			// Probabilistic coastline: edge cells are randomly excluded so
			// islands come out non-circular.
			if d >= r*(0.7+0.3*g.rng.Float64()) {
				continue
			}

			islandID := id
			tiles[x][y] = Tile{
				Type:     g.rollTerrain(d, r),
				IslandID: &islandID,
			}
		}
	}
}

var bandTerrains = [4]TerrainType{TerrainGrass, TerrainForest, TerrainMountain, TerrainBeach}

// rollTerrain picks a terrain from a distance-banded weighted distribution:
// island cores favor grass and forest, coastlines favor beach.
func (g *Generator) rollTerrain(d, r float64) TerrainType {
	var weights [4]float64
	switch {
	case d < r*0.3:
		weights = [4]float64{0.4, 0.3, 0.2, 0.1}
	case d < r*0.6:
		weights = [4]float64{0.3, 0.3, 0.2, 0.2}
	default:
		weights = [4]float64{0.1, 0.2, 0.1, 0.6}
	}

	roll := g.rng.Float64()
	sum := 0.0
	for i, w := range weights {
		sum += w
		if roll < sum {
			return bandTerrains[i]
		}
	}
	return TerrainGrass
}

// placeSettlements assigns each named port to an island, offset from the
// island center by up to half its radius. A placement that lands on water is
// skipped outright, so a world may end up with fewer than twelve settlements.
func (g *Generator) placeSettlements(tiles [][]Tile, islands []islandSeed) []Settlement {
	settlements := make([]Settlement, 0, settlementCount)
	for i, name := range settlementNames {
		isl := islands[i%len(islands)]

		x := isl.centerX + g.offset(isl.radius)
		y := isl.centerY + g.offset(isl.radius)
		x = clamp(x, 0, g.size-1)
		y = clamp(y, 0, g.size-1)

		tile := &tiles[x][y]
		if tile.Type == TerrainWater {
			continue
		}

		tile.Settlement = name
		settlements = append(settlements, Settlement{
			ID:       i,
			Name:     name,
			X:        x,
			Y:        y,
			IslandID: *tile.IslandID,
		})
	}
	return settlements
}

func (g *Generator) offset(radius int) int {
	return int(math.Floor((g.rng.Float64() - 0.5) * float64(radius) * 0.5))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
