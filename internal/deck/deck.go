package deck

import (
	"fmt"
	rand "math/rand/v2"
)

// Deck is an ordered 52-card deck. A fresh deck is built and shuffled at
// the start of every hand; dealt cards are never returned, so duplicates
// within a hand are impossible by construction.
type Deck struct {
	cards [52]Card
	next  int
	rng   *rand.Rand
}

// New creates a shuffled deck using the provided RNG. The RNG must not be
// nil; callers that want wall-clock randomness use randutil.NewFromTime.
func New(rng *rand.Rand) *Deck {
	d := &Deck{rng: rng}

	i := 0
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards[i] = NewCard(rank, suit)
			i++
		}
	}

	d.shuffle()
	return d
}

// NewStacked creates a deck whose top cards are exactly the given cards in
// order, with the remainder of the pack in canonical order behind them.
// Used by tests that need known boards and hole cards.
func NewStacked(top ...Card) *Deck {
	d := &Deck{}

	seen := make(map[Card]bool, len(top))
	for _, c := range top {
		if seen[c] {
			panic(fmt.Sprintf("deck: duplicate card %s in stacked deck", c))
		}
		seen[c] = true
	}

	copy(d.cards[:], top)
	i := len(top)
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			c := NewCard(rank, suit)
			if !seen[c] {
				d.cards[i] = c
				i++
			}
		}
	}
	return d
}

// shuffle performs a Fisher-Yates shuffle over the full pack.
func (d *Deck) shuffle() {
	d.next = 0
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal removes and returns the top n cards. Dealing past the end of the
// pack is a contract violation and panics.
func (d *Deck) Deal(n int) []Card {
	if d.next+n > len(d.cards) {
		panic(fmt.Sprintf("deck: dealt past end of pack (%d requested, %d remaining)", n, d.Remaining()))
	}
	cards := make([]Card, n)
	copy(cards, d.cards[d.next:d.next+n])
	d.next += n
	return cards
}

// DealOne removes and returns the top card.
func (d *Deck) DealOne() Card {
	return d.Deal(1)[0]
}

// Burn discards the top card face down, as done before each board deal.
func (d *Deck) Burn() {
	d.Deal(1)
}

// Remaining returns the number of undealt cards.
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}
