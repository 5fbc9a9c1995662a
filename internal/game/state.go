package game

import (
	"github.com/cardroomlabs/holdem/internal/deck"
	"github.com/cardroomlabs/holdem/internal/evaluator"
)

// Street is one of the four betting phases plus showdown. Transitions are
// strictly forward.
type Street int

const (
	Preflop Street = iota
	Flop
	Turn
	River
	Showdown
)

// String returns the street name.
func (s Street) String() string {
	switch s {
	case Preflop:
		return "preflop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	case Showdown:
		return "showdown"
	default:
		return "unknown"
	}
}

// PlayerView is the public per-player slice of hand state. Hole cards are
// deliberately absent; they are only available via Hand.HoleCards.
type PlayerView struct {
	ID        string
	Seat      int
	Chips     int
	Status    PlayerStatus
	Committed int // this street
}

// PublicState is a consistent snapshot of the authoritative hand state,
// safe to hand to any collaborator.
type PublicState struct {
	HandID     string
	Street     Street
	Community  []deck.Card
	Pot        int
	CurrentBet int
	MinRaise   int
	NextToAct  string // player ID, empty when no action is pending
	Players    []PlayerView
}

// Winner records one player's share of the pot.
type Winner struct {
	PlayerID string
	Amount   int
}

// ShowdownHand records the best five cards a player tabled at showdown.
type ShowdownHand struct {
	PlayerID string
	Cards    []deck.Card
	Rank     evaluator.HandRank
}

// HandResult is the terminal outcome of a hand. Showdown is nil when the
// hand ended early (everyone else folded) or was cancelled. Refunds is
// only populated on cancellation.
type HandResult struct {
	HandID    string
	Winners   []Winner
	Showdown  []ShowdownHand
	Cancelled bool
	Refunds   map[string]int
}
