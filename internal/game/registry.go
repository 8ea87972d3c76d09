package game

import (
	"fmt"
	"log/slog"
	"math/rand"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/foxhole-game/foxhole/internal/world"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Saver accepts player snapshots for durable storage without blocking
// gameplay.
type Saver interface {
	Enqueue(key string, p *Player)
}

// Registry owns all player records. Every mutation of a single player is
// serialized through that player's lock, so overlapping requests (a rapid
// double-move, say) can never produce a lost update, while different players
// never block each other. After each mutation a snapshot is handed to the
// saver; durability is best-effort and the in-memory record stays the source
// of truth.
type Registry struct {
	world *world.Store
	saver Saver
	roll  func() float64

	mu      sync.RWMutex
	players map[string]*playerEntry
}

type playerEntry struct {
	mu     sync.Mutex
	player *Player
}

type RegistryOpt func(*Registry)

// WithLuckRoll overrides the random source used for luck bonus rolls. The
// replacement is called concurrently from every player's XP grants, so it
// must be safe for concurrent use.
func WithLuckRoll(roll func() float64) RegistryOpt {
	return func(r *Registry) {
		r.roll = roll
	}
}

func NewRegistry(ws *world.Store, saver Saver, opts ...RegistryOpt) *Registry {
	r := &Registry{
		world: ws,
		saver: saver,
		// The top-level source: grants for different players only hold
		// their own entry locks, so the roll must not share mutable state.
		roll:    rand.Float64,
		players: map[string]*playerEntry{},
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Load seeds the registry with records restored from disk.
func (r *Registry) Load(players map[string]*Player) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range players {
		r.players[keyFor(p.Username)] = &playerEntry{player: p}
	}
}

func keyFor(username string) string {
	return strings.ToLower(username)
}

// Register creates a new player at the spawn settlement with base stats
// plus the race bonuses and the starting pool of unallocated points.
func (r *Registry) Register(username, passwordHash string, raceID RaceID) (*Player, error) {
	if !usernamePattern.MatchString(username) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidUsername, username)
	}

	race, ok := LookupRace(raceID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRace, raceID)
	}

	x, y, ok := r.world.SpawnPoint()
	if !ok {
		return nil, fmt.Errorf("world has no settlements to spawn at")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := keyFor(username)
	if _, exists := r.players[key]; exists {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateUsername, username)
	}

	p := newPlayer(username, passwordHash, raceID, race, x, y)

	r.players[key] = &playerEntry{player: p}
	r.saver.Enqueue(key, p.Clone())

	slog.Info("player registered", "username", username, "race", raceID)
	return p.Clone(), nil
}

func newPlayer(username, passwordHash string, raceID RaceID, race Race, x, y int) *Player {
	return &Player{
		Username:     username,
		PasswordHash: passwordHash,
		Race:         raceID,
		Level:        1,
		XP:           0,
		StatPoints:   startingStatPoints,
		Stats: Stats{
			Strength:     baseStatValue,
			Intelligence: baseStatValue,
			Speed:        baseStatValue,
			Luck:         baseStatValue,
		}.Add(race.Bonuses),
		X:         x,
		Y:         y,
		Avatar:    DefaultAvatar,
		CreatedAt: time.Now().UnixMilli(),
	}
}

// BootstrapAdmin creates the admin account at boot when the username is
// free. Returns true if the account was created.
func (r *Registry) BootstrapAdmin(username, passwordHash string) bool {
	x, y, ok := r.world.SpawnPoint()
	if !ok {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := keyFor(username)
	if _, exists := r.players[key]; exists {
		return false
	}

	p := newPlayer(username, passwordHash, RaceHuman, Races[RaceHuman], x, y)
	p.IsAdmin = true

	r.players[key] = &playerEntry{player: p}
	r.saver.Enqueue(key, p.Clone())
	return true
}

func (r *Registry) entry(username string) (*playerEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.players[keyFor(username)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrPlayerNotFound, username)
	}
	return e, nil
}

// Get returns a snapshot of the player record.
func (r *Registry) Get(username string) (*Player, error) {
	e, err := r.entry(username)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.player.Clone(), nil
}

// All returns snapshots of every player, ordered by username.
func (r *Registry) All() []*Player {
	r.mu.RLock()
	entries := make([]*playerEntry, 0, len(r.players))
	for _, e := range r.players {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	out := make([]*Player, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		out = append(out, e.player.Clone())
		e.mu.Unlock()
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

// Count returns the number of registered players.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.players)
}

// Move relocates the player to (x,y). The target must be inside the grid
// and passable; on rejection the player's position is untouched.
func (r *Registry) Move(username string, x, y int) (world.Tile, error) {
	e, err := r.entry(username)
	if err != nil {
		return world.Tile{}, err
	}

	tile, err := r.world.TileAt(x, y)
	if err != nil {
		return world.Tile{}, fmt.Errorf("%w: target is out of bounds", ErrMoveRejected)
	}
	if !tile.Type.Passable() {
		return world.Tile{}, fmt.Errorf("%w: cannot move to water", ErrMoveRejected)
	}

	e.mu.Lock()
	e.player.X = x
	e.player.Y = y
	snapshot := e.player.Clone()
	e.mu.Unlock()

	r.saver.Enqueue(keyFor(username), snapshot)
	return tile, nil
}

// GrantXP awards experience, including any luck bonus, and resolves
// level-ups. Returns the updated snapshot and the bonus XP granted.
func (r *Registry) GrantXP(username string, amount int) (*Player, int, error) {
	e, err := r.entry(username)
	if err != nil {
		return nil, 0, err
	}

	e.mu.Lock()
	startLevel := e.player.Level
	bonus, levels := applyExperience(e.player, amount, r.roll)
	snapshot := e.player.Clone()
	e.mu.Unlock()

	r.saver.Enqueue(keyFor(username), snapshot)

	for i := 1; i <= levels; i++ {
		slog.Info("player leveled up",
			"username", snapshot.Username,
			"level", startLevel+i,
			"statPoints", snapshot.StatPoints)
	}

	return snapshot, bonus, nil
}

// AllocateStats spends unallocated stat points. Deltas must be
// non-negative and their sum must not exceed the player's pool; a rejected
// allocation leaves stats and points untouched.
func (r *Registry) AllocateStats(username string, deltas Stats) (*Player, error) {
	if deltas.Strength < 0 || deltas.Intelligence < 0 || deltas.Speed < 0 || deltas.Luck < 0 {
		return nil, fmt.Errorf("%w: deltas must not be negative", ErrInvalidAllocation)
	}

	e, err := r.entry(username)
	if err != nil {
		return nil, err
	}

	total := deltas.Total()

	e.mu.Lock()
	if total > e.player.StatPoints {
		e.mu.Unlock()
		return nil, fmt.Errorf("%w: requested %d, have %d", ErrInsufficientPoints, total, e.player.StatPoints)
	}
	e.player.Stats = e.player.Stats.Add(deltas)
	e.player.StatPoints -= total
	snapshot := e.player.Clone()
	e.mu.Unlock()

	r.saver.Enqueue(keyFor(username), snapshot)

	slog.Info("stats allocated", "username", snapshot.Username, "spent", total, "remaining", snapshot.StatPoints)
	return snapshot, nil
}

// SetEmail updates the player's email. Emails are unique across players, so
// the whole operation holds the registry lock.
func (r *Registry) SetEmail(username, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := keyFor(username)
	e, ok := r.players[key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrPlayerNotFound, username)
	}

	if email != "" {
		for k, other := range r.players {
			if k != key && strings.EqualFold(other.player.Email, email) {
				return fmt.Errorf("%w: %q", ErrEmailTaken, email)
			}
		}
	}

	e.mu.Lock()
	e.player.Email = email
	snapshot := e.player.Clone()
	e.mu.Unlock()

	r.saver.Enqueue(key, snapshot)
	return nil
}

// SetAvatar stores an opaque avatar reference produced by the upload layer.
func (r *Registry) SetAvatar(username, ref string) error {
	e, err := r.entry(username)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.player.Avatar = ref
	snapshot := e.player.Clone()
	e.mu.Unlock()

	r.saver.Enqueue(keyFor(username), snapshot)
	return nil
}
