package game

// RaceID identifies a playable race.
type RaceID string

const (
	RaceHuman     RaceID = "human"
	RaceCatpeople RaceID = "catpeople"
	RaceOrc       RaceID = "orc"
	RaceDwarf     RaceID = "dwarf"
	RaceElf       RaceID = "elf"
	RaceGoblin    RaceID = "goblin"
)

// Race describes a playable race and its stat bonuses. Bonuses are applied
// on top of the base stat value at registration; some are negative.
type Race struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Bonuses     Stats  `json:"bonuses"`
}

// Races is the fixed race table.
var Races = map[RaceID]Race{
	RaceHuman: {
		Name:        "Human",
		Description: "Versatile and adaptable sailors",
		Bonuses:     Stats{Strength: 0, Intelligence: 5, Speed: 0, Luck: 0},
	},
	RaceCatpeople: {
		Name:        "Cat People",
		Description: "Agile and quick-witted felines",
		Bonuses:     Stats{Strength: 0, Intelligence: 0, Speed: 10, Luck: 0},
	},
	RaceOrc: {
		Name:        "Orc",
		Description: "Strong and fearsome warriors",
		Bonuses:     Stats{Strength: 10, Intelligence: 0, Speed: 0, Luck: 5},
	},
	RaceDwarf: {
		Name:        "Dwarf",
		Description: "Hardy and resilient craftsmen",
		Bonuses:     Stats{Strength: 5, Intelligence: 0, Speed: -5, Luck: 10},
	},
	RaceElf: {
		Name:        "Elf",
		Description: "Wise and graceful navigators",
		Bonuses:     Stats{Strength: 0, Intelligence: 5, Speed: 5, Luck: -5},
	},
	RaceGoblin: {
		Name:        "Goblin",
		Description: "Cunning and sneaky scavengers",
		Bonuses:     Stats{Strength: -5, Intelligence: 5, Speed: 5, Luck: 0},
	},
}

// LookupRace returns the race definition for id.
func LookupRace(id RaceID) (Race, bool) {
	r, ok := Races[id]
	return r, ok
}
