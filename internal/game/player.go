package game

import "github.com/cardroomlabs/holdem/internal/deck"

// PlayerStatus is a player's standing within the current hand.
type PlayerStatus int

const (
	StatusActive PlayerStatus = iota
	StatusFolded
	StatusAllIn
)

// String returns the status name.
func (s PlayerStatus) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusFolded:
		return "folded"
	case StatusAllIn:
		return "all-in"
	default:
		return "unknown"
	}
}

// Player is a table seat record. The Table owns the only arena of these;
// chip stacks are mutated exclusively by the betting round during play and
// by the hand during pot distribution.
type Player struct {
	ID   string
	Name string
	Seat int // ordered-arrival seat index, stable across hands

	Chips int

	// Hand-scoped fields, reset at the start of each hand.
	HoleCards []deck.Card
	Status    PlayerStatus
	Bet       int // committed this street
	TotalBet  int // committed this hand, for cancellation refunds
}

// CanAct reports whether the player can still be asked for an action.
func (p *Player) CanAct() bool {
	return p.Status == StatusActive
}

// InHand reports whether the player still contests the pot.
func (p *Player) InHand() bool {
	return p.Status != StatusFolded
}

// commit moves amount from the player's stack into their street bet,
// marking them all-in when the stack empties. The amount must already be
// capped at the stack; a negative result is an engine bug.
func (p *Player) commit(amount int) {
	p.Chips -= amount
	p.Bet += amount
	p.TotalBet += amount
	if p.Chips < 0 {
		integrityf("player %s stack went negative (%d)", p.ID, p.Chips)
	}
	if p.Chips == 0 {
		p.Status = StatusAllIn
	}
}

// resetForHand clears hand-scoped state ahead of a new deal.
func (p *Player) resetForHand() {
	p.HoleCards = nil
	p.Status = StatusActive
	p.Bet = 0
	p.TotalBet = 0
}
