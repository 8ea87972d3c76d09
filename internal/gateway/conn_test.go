package gateway

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/pixil98/go-testutil"

	"github.com/foxhole-game/foxhole/internal/chat"
	"github.com/foxhole-game/foxhole/internal/game"
	"github.com/foxhole-game/foxhole/internal/session"
	"github.com/foxhole-game/foxhole/internal/world"
)

// fakeBroker delivers published messages to subscribers synchronously, so
// tests observe a deterministic outbound order.
type fakeBroker struct {
	mu        sync.Mutex
	subs      map[int]subscription
	nextID    int
	published int
}

type subscription struct {
	subject string
	handler func([]byte)
}

func newFakeBroker() *fakeBroker {
	return &fakeBroker{subs: map[int]subscription{}}
}

func (b *fakeBroker) Publish(subject string, data []byte) error {
	b.mu.Lock()
	b.published++
	handlers := []func([]byte){}
	for _, s := range b.subs {
		if s.subject == subject {
			handlers = append(handlers, s.handler)
		}
	}
	b.mu.Unlock()

	for _, h := range handlers {
		h(data)
	}
	return nil
}

func (b *fakeBroker) Subscribe(subject string, handler func(data []byte)) (func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.subs[id] = subscription{subject: subject, handler: handler}
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}, nil
}

type nopSaver struct{}

func (nopSaver) Enqueue(string, *game.Player) {}

// testRig builds a 10x10 grass world with a water column at x=5 and a
// settlement spawn at (1,1).
type rig struct {
	broker   *fakeBroker
	manager  *Manager
	sessions *session.Registry
	players  *game.Registry
	world    *world.Store
}

func newRig(t *testing.T) *rig {
	t.Helper()

	size := 10
	tiles := make([][]world.Tile, size)
	for x := range tiles {
		tiles[x] = make([]world.Tile, size)
		for y := range tiles[x] {
			tiles[x][y] = world.Tile{Type: world.TerrainGrass}
			if x == 5 {
				tiles[x][y] = world.Tile{Type: world.TerrainWater}
			}
		}
	}
	w := &world.World{
		Size:  size,
		Tiles: tiles,
		Settlements: []world.Settlement{
			{ID: 0, Name: "Port Royal", X: 1, Y: 1},
		},
	}

	broker := newFakeBroker()
	ws := world.NewStore(w)
	players := game.NewRegistry(ws, nopSaver{})
	return &rig{
		broker:   broker,
		manager:  NewManager(broker, chat.NewHistory(chat.DefaultCapacity)),
		sessions: session.NewRegistry(),
		players:  players,
		world:    ws,
	}
}

// authedConn registers the player if needed, mints a session, and drives a
// connection through a successful auth.
func (r *rig) authedConn(t *testing.T, username string) *Conn {
	t.Helper()

	if _, err := r.players.Get(username); err != nil {
		if _, err := r.players.Register(username, "hash", game.RaceDwarf); err != nil {
			t.Fatalf("registering %s: %v", username, err)
		}
	}
	token := r.sessions.Create(username, false)

	c := newConn(r.manager, r.sessions, r.players, r.world)
	c.handle(raw(t, map[string]any{"type": "auth", "sessionId": token}))
	if c.state != stateAuthenticated {
		t.Fatal("expected connection to authenticate")
	}
	return c
}

func raw(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshaling message: %v", err)
	}
	return data
}

func recv(t *testing.T, c *Conn) map[string]any {
	t.Helper()
	select {
	case data := <-c.out:
		var m map[string]any
		if err := json.Unmarshal(data, &m); err != nil {
			t.Fatalf("unmarshaling outbound message: %v", err)
		}
		return m
	default:
		t.Fatal("expected an outbound message")
		return nil
	}
}

func assertNoMessage(t *testing.T, c *Conn) {
	t.Helper()
	select {
	case data := <-c.out:
		t.Fatalf("unexpected outbound message: %s", data)
	default:
	}
}

func TestAuthSuccess(t *testing.T) {
	r := newRig(t)
	c := r.authedConn(t, "ann")

	reply := recv(t, c)
	testutil.AssertEqual(t, "type", reply["type"], "auth_success")

	player := reply["player"].(map[string]any)
	testutil.AssertEqual(t, "username", player["username"], "ann")
	if _, leaked := player["passwordHash"]; leaked {
		t.Fatal("password hash must not be sent to clients")
	}

	// The join announcement arrives through the connection's own
	// subscription.
	join := recv(t, c)
	testutil.AssertEqual(t, "type", join["type"], "chat")
	testutil.AssertEqual(t, "sender", join["sender"], "System")
	testutil.AssertEqual(t, "message", join["message"], "ann has joined the game!")
}

func TestAuthUnknownTokenIsSilent(t *testing.T) {
	r := newRig(t)

	c := newConn(r.manager, r.sessions, r.players, r.world)
	c.handle(raw(t, map[string]any{"type": "auth", "sessionId": "bogus"}))

	testutil.AssertEqual(t, "state", c.state, stateUnauthenticated)
	assertNoMessage(t, c)
}

func TestUnauthenticatedGameplayDropped(t *testing.T) {
	r := newRig(t)

	c := newConn(r.manager, r.sessions, r.players, r.world)
	c.handle(raw(t, map[string]any{"type": "move", "x": 2, "y": 2}))
	c.handle(raw(t, map[string]any{"type": "chat", "message": "hello"}))
	c.handle(raw(t, map[string]any{"type": "get_map", "x": 2, "y": 2}))

	assertNoMessage(t, c)
	testutil.AssertEqual(t, "published", r.broker.published, 0)
}

func TestMalformedMessageKeepsConnectionOpen(t *testing.T) {
	r := newRig(t)
	c := r.authedConn(t, "ann")
	drain(c)

	c.handle([]byte("{not json"))
	assertNoMessage(t, c)

	c.handle(raw(t, map[string]any{"type": "move", "x": 2, "y": 2}))
	reply := recv(t, c)
	testutil.AssertEqual(t, "type", reply["type"], "move_success")
}

func TestMoveSuccess(t *testing.T) {
	r := newRig(t)
	c := r.authedConn(t, "ann")
	drain(c)

	c.handle(raw(t, map[string]any{"type": "move", "x": 3, "y": 4}))

	reply := recv(t, c)
	testutil.AssertEqual(t, "type", reply["type"], "move_success")
	testutil.AssertEqual(t, "x", reply["x"], float64(3))
	testutil.AssertEqual(t, "y", reply["y"], float64(4))
	tile := reply["tile"].(map[string]any)
	testutil.AssertEqual(t, "tile", tile["type"], "grass")
}

func TestMoveToWaterFails(t *testing.T) {
	r := newRig(t)
	c := r.authedConn(t, "ann")
	drain(c)

	c.handle(raw(t, map[string]any{"type": "move", "x": 5, "y": 4}))

	reply := recv(t, c)
	testutil.AssertEqual(t, "type", reply["type"], "move_failed")

	p, _ := r.players.Get("ann")
	testutil.AssertEqual(t, "x", p.X, 1)
	testutil.AssertEqual(t, "y", p.Y, 1)
}

func TestMoveOutOfBoundsFails(t *testing.T) {
	r := newRig(t)
	c := r.authedConn(t, "ann")
	drain(c)

	c.handle(raw(t, map[string]any{"type": "move", "x": 50, "y": 4}))

	reply := recv(t, c)
	testutil.AssertEqual(t, "type", reply["type"], "move_failed")
}

func TestChatBroadcastsToAllBoundConnections(t *testing.T) {
	r := newRig(t)
	ann := r.authedConn(t, "ann")
	bob := r.authedConn(t, "bob")
	drain(ann)
	drain(bob)

	ann.handle(raw(t, map[string]any{"type": "chat", "message": "ahoy"}))

	for _, c := range []*Conn{ann, bob} {
		msg := recv(t, c)
		testutil.AssertEqual(t, "type", msg["type"], "chat")
		testutil.AssertEqual(t, "sender", msg["sender"], "ann")
		testutil.AssertEqual(t, "message", msg["message"], "ahoy")
	}

	history := r.manager.history.Recent()
	testutil.AssertEqual(t, "history", len(history), 1)
	testutil.AssertEqual(t, "sender", history[0].Sender, "ann")
}

func TestSystemMessagesNotRecordedInHistory(t *testing.T) {
	r := newRig(t)
	c := r.authedConn(t, "ann")
	drain(c)
	c.close()

	testutil.AssertEqual(t, "history", len(r.manager.history.Recent()), 0)
}

func TestGetMapDefaultRadius(t *testing.T) {
	r := newRig(t)
	c := r.authedConn(t, "ann")
	drain(c)

	// Radius defaults to 10, which covers the whole 10x10 test grid.
	c.handle(raw(t, map[string]any{"type": "get_map", "x": 5, "y": 5}))

	reply := recv(t, c)
	testutil.AssertEqual(t, "type", reply["type"], "map_data")
	testutil.AssertEqual(t, "tiles", len(reply["data"].([]any)), 100)
}

func TestGetMapZeroRadius(t *testing.T) {
	r := newRig(t)
	c := r.authedConn(t, "ann")
	drain(c)

	c.handle(raw(t, map[string]any{"type": "get_map", "x": 2, "y": 3, "radius": 0}))

	reply := recv(t, c)
	data := reply["data"].([]any)
	testutil.AssertEqual(t, "tiles", len(data), 1)
	cell := data[0].(map[string]any)
	testutil.AssertEqual(t, "x", cell["x"], float64(2))
	testutil.AssertEqual(t, "y", cell["y"], float64(3))
}

func TestCloseAnnouncesLeave(t *testing.T) {
	r := newRig(t)
	ann := r.authedConn(t, "ann")
	bob := r.authedConn(t, "bob")
	drain(ann)
	drain(bob)

	ann.close()

	msg := recv(t, bob)
	testutil.AssertEqual(t, "sender", msg["sender"], "System")
	testutil.AssertEqual(t, "message", msg["message"], "ann has left the game.")
	testutil.AssertEqual(t, "online", r.manager.Online(), 1)
}

func TestCloseUnboundIsQuiet(t *testing.T) {
	r := newRig(t)
	ann := r.authedConn(t, "ann")
	drain(ann)

	c := newConn(r.manager, r.sessions, r.players, r.world)
	c.close()

	assertNoMessage(t, ann)
}

func drain(c *Conn) {
	for {
		select {
		case <-c.out:
		default:
			return
		}
	}
}
