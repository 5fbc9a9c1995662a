package evaluator

import (
	"fmt"
	"strings"

	"github.com/cardroomlabs/holdem/internal/deck"
)

// Category is the ordinal strength class of a 5-card hand.
type Category int

const (
	HighCard Category = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

// String returns a human-readable category name.
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case OnePair:
		return "One Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	default:
		return "Unknown"
	}
}

// HandRank is the full strength of a 5-card hand: a category plus an
// ordered tiebreak sequence of at most 5 ranks for same-category
// comparison. Equal category and tiebreak means an exact tie; showdown
// relies on that for split pots.
type HandRank struct {
	Category Category
	Tiebreak []deck.Rank
}

// String renders the rank for logs, e.g. "Full House [K 7]".
func (hr HandRank) String() string {
	parts := make([]string, len(hr.Tiebreak))
	for i, r := range hr.Tiebreak {
		parts[i] = r.String()
	}
	return fmt.Sprintf("%s [%s]", hr.Category, strings.Join(parts, " "))
}

// Compare orders two hand ranks. It returns 1 if a is stronger, -1 if b
// is stronger, and 0 on an exact tie. Categories compare first; equal
// categories compare tiebreak sequences lexicographically.
func Compare(a, b HandRank) int {
	if a.Category != b.Category {
		if a.Category > b.Category {
			return 1
		}
		return -1
	}
	for i := 0; i < len(a.Tiebreak) && i < len(b.Tiebreak); i++ {
		if a.Tiebreak[i] != b.Tiebreak[i] {
			if a.Tiebreak[i] > b.Tiebreak[i] {
				return 1
			}
			return -1
		}
	}
	return 0
}
