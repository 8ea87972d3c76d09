package command

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/pixil98/go-service"

	"github.com/foxhole-game/foxhole/internal/api"
	"github.com/foxhole-game/foxhole/internal/auth"
	"github.com/foxhole-game/foxhole/internal/chat"
	"github.com/foxhole-game/foxhole/internal/game"
	"github.com/foxhole-game/foxhole/internal/gateway"
	"github.com/foxhole-game/foxhole/internal/serverlog"
	"github.com/foxhole-game/foxhole/internal/session"
	"github.com/foxhole-game/foxhole/internal/storage"
	"github.com/foxhole-game/foxhole/internal/world"
)

// worldKey is the asset key the generated world is stored under.
const worldKey = "world"

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	// Capture log records for the admin logs endpoint.
	ring := serverlog.NewRing(slog.Default().Handler(), serverlog.DefaultCapacity)
	slog.SetDefault(slog.New(ring))

	nats, err := cfg.Nats.BuildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}

	worlds, err := cfg.Storage.Worlds.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating world store: %w", err)
	}
	playerStore, err := cfg.Storage.Players.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating player store: %w", err)
	}

	ws, err := buildWorld(worlds, cfg.World)
	if err != nil {
		return nil, err
	}

	writer := storage.NewQueuedWriter[*game.Player](playerStore)
	players := game.NewRegistry(ws, writer)
	players.Load(playerStore.GetAll())

	sessions := session.NewRegistry()
	history := chat.NewHistory(chat.DefaultCapacity)
	manager := gateway.NewManager(nats, history)
	socket := gateway.NewHandler(manager, sessions, players, ws)

	server := api.NewServer(
		cfg.Listen.Address,
		cfg.Game.EffectiveMaxPlayers(),
		players, sessions, ws, manager, ring, socket)

	if cfg.Game.Admin.Username != "" {
		hash, err := auth.HashPassword(cfg.Game.Admin.Password)
		if err != nil {
			return nil, fmt.Errorf("hashing admin password: %w", err)
		}
		if players.BootstrapAdmin(cfg.Game.Admin.Username, hash) {
			slog.Info("admin account created", "username", cfg.Game.Admin.Username)
		}
	}

	slog.Info("server ready",
		"mapSize", ws.Size(),
		"settlements", len(ws.Settlements()),
		"players", players.Count(),
		"maxPlayers", cfg.Game.EffectiveMaxPlayers())

	return service.WorkerList{
		"nats":   nats,
		"writer": writer,
		"api":    server,
	}, nil
}

// buildWorld loads the persisted world, generating and saving one on first
// boot.
func buildWorld(store *storage.FileStore[*world.World], cfg WorldConfig) (*world.Store, error) {
	w := store.Get(worldKey)
	if w == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}

		w = world.NewGenerator(seed).Generate()
		if err := store.Save(worldKey, w); err != nil {
			return nil, fmt.Errorf("saving world: %w", err)
		}
		slog.Info("world generated", "seed", seed, "settlements", len(w.Settlements))
	}

	return world.NewStore(w), nil
}
