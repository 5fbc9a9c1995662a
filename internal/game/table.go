package game

import (
	rand "math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/thoas/go-funk"

	"github.com/cardroomlabs/holdem/internal/deck"
	"github.com/cardroomlabs/holdem/internal/randutil"
)

// Config holds the table rules. Zero values are filled from defaults
// matching a casual low-stakes room.
type Config struct {
	SmallBlind    int
	BigBlind      int
	ActionTimeout time.Duration // 0 disables turn timers
	MinBuyIn      int
	MaxBuyIn      int
	MaxPlayers    int
}

// DefaultConfig returns the standard 10/20 table rules.
func DefaultConfig() Config {
	return Config{
		SmallBlind:    10,
		BigBlind:      20,
		ActionTimeout: 30 * time.Second,
		MinBuyIn:      1000,
		MaxBuyIn:      10000,
		MaxPlayers:    6,
	}
}

// Table owns the persistent side of the game: seating, stacks, dealer
// button, and the single live hand. All chip mutation flows through the
// Table/Hand API; collaborators only submit actions and read snapshots.
type Table struct {
	mu sync.Mutex

	id     string
	cfg    Config
	logger *log.Logger
	clock  quartz.Clock
	rng    *rand.Rand
	bus    EventBus

	players []*Player
	button  int
	hand    *Hand
}

// Option configures a table.
type Option func(*Table)

// WithLogger sets the structured logger.
func WithLogger(logger *log.Logger) Option {
	return func(t *Table) { t.logger = logger }
}

// WithClock injects the clock used for turn timers, mockable in tests.
func WithClock(clock quartz.Clock) Option {
	return func(t *Table) { t.clock = clock }
}

// WithRNG injects the shuffle RNG for deterministic deals.
func WithRNG(rng *rand.Rand) Option {
	return func(t *Table) { t.rng = rng }
}

// WithEventBus sets the bus hands publish to.
func WithEventBus(bus EventBus) Option {
	return func(t *Table) { t.bus = bus }
}

// NewTable creates an empty table with the given rules.
func NewTable(cfg Config, opts ...Option) *Table {
	def := DefaultConfig()
	if cfg.SmallBlind == 0 {
		cfg.SmallBlind = def.SmallBlind
	}
	if cfg.BigBlind == 0 {
		cfg.BigBlind = def.BigBlind
	}
	if cfg.MaxPlayers == 0 {
		cfg.MaxPlayers = def.MaxPlayers
	}

	t := &Table{
		id:  uuid.NewString()[:8],
		cfg: cfg,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.logger == nil {
		t.logger = log.Default()
	}
	if t.clock == nil {
		t.clock = quartz.NewReal()
	}
	if t.rng == nil {
		t.rng = randutil.NewFromTime()
	}
	if t.bus == nil {
		t.bus = NewEventBus()
	}
	t.logger = t.logger.With("table", t.id)
	return t
}

// ID returns the table identifier.
func (t *Table) ID() string {
	return t.id
}

// Config returns the table rules.
func (t *Table) Config() Config {
	return t.cfg
}

// Bus returns the event bus collaborators subscribe to.
func (t *Table) Bus() EventBus {
	return t.bus
}

// Seat adds a player with the given buy-in. Seating order is arrival
// order and is stable across hands. A seat taken mid-hand joins from the
// next hand; the live hand's roster is fixed at deal time.
func (t *Table) Seat(id, name string, buyIn int) (*Player, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.players) >= t.cfg.MaxPlayers {
		return nil, validationf(id, "table %s is full", t.id)
	}
	if funk.Find(t.players, func(p *Player) bool { return p.ID == id }) != nil {
		return nil, validationf(id, "already seated at table %s", t.id)
	}
	if t.cfg.MinBuyIn > 0 && buyIn < t.cfg.MinBuyIn {
		return nil, validationf(id, "buy-in %d is below the minimum of %d", buyIn, t.cfg.MinBuyIn)
	}
	if t.cfg.MaxBuyIn > 0 && buyIn > t.cfg.MaxBuyIn {
		return nil, validationf(id, "buy-in %d is above the maximum of %d", buyIn, t.cfg.MaxBuyIn)
	}

	p := &Player{
		ID:    id,
		Name:  name,
		Seat:  len(t.players),
		Chips: buyIn,
	}
	t.players = append(t.players, p)
	t.logger.Info("player seated", "player", id, "seat", p.Seat, "buy_in", buyIn)
	return p, nil
}

// RemovePlayer unseats a player between hands and returns their remaining
// chips to the caller's ledger. Removal mid-hand requires cancelling the
// hand first.
func (t *Table) RemovePlayer(id string) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.hand != nil && !t.hand.done {
		return 0, validationf(id, "cannot leave while a hand is live")
	}

	found := funk.Find(t.players, func(p *Player) bool { return p.ID == id })
	if found == nil {
		return 0, validationf(id, "not seated at table %s", t.id)
	}
	leaving := found.(*Player)

	players := make([]*Player, 0, len(t.players)-1)
	for _, p := range t.players {
		if p.ID != id {
			p.Seat = len(players)
			players = append(players, p)
		}
	}
	t.players = players

	if leaving.Seat < t.button && t.button > 0 {
		t.button--
	}
	if t.button >= len(t.players) {
		t.button = 0
	}

	t.logger.Info("player removed", "player", id, "chips", leaving.Chips)
	return leaving.Chips, nil
}

// StartHand shuffles a fresh deck and deals a new hand to the current
// roster. Every seated player must still have chips: zero stacks are
// never removed automatically, so the collaborator must remove or re-fund
// them first.
func (t *Table) StartHand() (*Hand, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.hand != nil && !t.hand.done {
		return nil, validationf("", "hand %s is still live", t.hand.id)
	}
	if len(t.players) < 2 {
		return nil, validationf("", "need at least 2 players, have %d", len(t.players))
	}
	for _, p := range t.players {
		if p.Chips <= 0 {
			return nil, validationf(p.ID, "has no chips; remove or re-fund before dealing")
		}
	}

	players := make([]*Player, len(t.players))
	copy(players, t.players)

	t.hand = newHand(
		uuid.NewString()[:8],
		&t.mu,
		t.logger,
		t.bus,
		t.clock,
		players,
		t.button,
		deck.New(t.rng),
		t.cfg.SmallBlind,
		t.cfg.BigBlind,
		t.cfg.ActionTimeout,
		t.rotateButton,
	)
	return t.hand, nil
}

// startHandWithDeck deals from a prepared deck, for deterministic tests.
func (t *Table) startHandWithDeck(d *deck.Deck) (*Hand, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.hand != nil && !t.hand.done {
		return nil, validationf("", "hand %s is still live", t.hand.id)
	}
	if len(t.players) < 2 {
		return nil, validationf("", "need at least 2 players, have %d", len(t.players))
	}

	players := make([]*Player, len(t.players))
	copy(players, t.players)

	t.hand = newHand(uuid.NewString()[:8], &t.mu, t.logger, t.bus, t.clock, players,
		t.button, d, t.cfg.SmallBlind, t.cfg.BigBlind, t.cfg.ActionTimeout, t.rotateButton)
	return t.hand, nil
}

// rotateButton advances the dealer button one seat. Called by the hand on
// completion, with the table lock already held.
func (t *Table) rotateButton() {
	if len(t.players) > 0 {
		t.button = (t.button + 1) % len(t.players)
	}
}

// Button returns the current dealer seat.
func (t *Table) Button() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.button
}

// CurrentHand returns the live hand, or nil between hands.
func (t *Table) CurrentHand() *Hand {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.hand == nil || t.hand.done {
		return nil
	}
	return t.hand
}

// Players returns a snapshot of the seated players' public state.
func (t *Table) Players() []PlayerView {
	t.mu.Lock()
	defer t.mu.Unlock()

	views := make([]PlayerView, len(t.players))
	for i, p := range t.players {
		views[i] = PlayerView{ID: p.ID, Seat: p.Seat, Chips: p.Chips, Status: p.Status, Committed: p.Bet}
	}
	return views
}
