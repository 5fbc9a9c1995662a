package statistics

import (
	"sync"

	"github.com/cardroomlabs/holdem/internal/game"
)

// Collector turns one table's events into per-player series. It watches
// the table's event bus for showdowns, timeouts, and pot sizes; the
// driver brackets each hand with BeginHand and EndHand stack snapshots so
// net results can be computed. One collector serves one table.
type Collector struct {
	mu       sync.Mutex
	bigBlind float64
	series   map[string]*Series
	tally    *handTally
}

type handTally struct {
	start     map[string]int
	showdown  map[string]bool
	timeouts  map[string]int
	pot       int
	cancelled bool
}

// NewCollector creates a collector for a table with the given big blind.
func NewCollector(bigBlind int) *Collector {
	return &Collector{
		bigBlind: float64(bigBlind),
		series:   make(map[string]*Series),
	}
}

// BeginHand records each player's stack before the deal.
func (c *Collector) BeginHand(stacks map[string]int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tally = &handTally{
		start:    stacks,
		showdown: make(map[string]bool),
		timeouts: make(map[string]int),
	}
}

// OnEvent implements game.Subscriber.
func (c *Collector) OnEvent(e game.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.tally == nil {
		return
	}

	switch ev := e.(type) {
	case game.PlayerActionEvent:
		if ev.TimedOut {
			c.tally.timeouts[ev.PlayerID]++
		}
		if ev.Pot > c.tally.pot {
			c.tally.pot = ev.Pot
		}
	case game.HandEndEvent:
		if ev.Result == nil {
			return
		}
		c.tally.cancelled = ev.Result.Cancelled
		for _, sd := range ev.Result.Showdown {
			c.tally.showdown[sd.PlayerID] = true
		}
		pot := 0
		for _, w := range ev.Result.Winners {
			pot += w.Amount
		}
		if pot > c.tally.pot {
			c.tally.pot = pot
		}
	}
}

// EndHand closes out the hand with each player's stack after settlement.
// Cancelled hands are discarded.
func (c *Collector) EndHand(stacks map[string]int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tally := c.tally
	c.tally = nil
	if tally == nil || tally.cancelled {
		return
	}

	for id, before := range tally.start {
		after, ok := stacks[id]
		if !ok {
			continue
		}
		s := c.series[id]
		if s == nil {
			s = &Series{}
			c.series[id] = s
		}
		s.Add(Outcome{
			NetBB:          float64(after-before) / c.bigBlind,
			WentToShowdown: tally.showdown[id],
			TimedOut:       tally.timeouts[id] > 0,
			PotBB:          float64(tally.pot) / c.bigBlind,
		})
	}
}

// Player returns the accumulated series for one player, or nil if no
// hands were recorded for them.
func (c *Collector) Player(id string) *Series {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.series[id]
}
