// Package bot provides scripted strategies for driving simulated tables.
// Strategies decide from the public hand state only; they never see hole
// cards, so they exercise the engine rather than play well.
package bot

import (
	"fmt"
	rand "math/rand/v2"

	"github.com/cardroomlabs/holdem/internal/game"
)

// Strategy chooses one action for the player named in NextToAct.
type Strategy interface {
	Act(st game.PublicState) game.Action
}

// New creates a strategy by name: fold, call, rand, or maniac.
func New(kind string, rng *rand.Rand) (Strategy, error) {
	switch kind {
	case "fold":
		return Folder{}, nil
	case "call":
		return Caller{}, nil
	case "rand":
		return &Random{rng: rng}, nil
	case "maniac":
		return &Maniac{rng: rng}, nil
	}
	return nil, fmt.Errorf("unknown strategy %q", kind)
}

// actor finds the acting player's view.
func actor(st game.PublicState) game.PlayerView {
	for _, p := range st.Players {
		if p.ID == st.NextToAct {
			return p
		}
	}
	return game.PlayerView{}
}

// toCall is the amount the acting player must add to continue.
func toCall(st game.PublicState) int {
	return st.CurrentBet - actor(st).Committed
}

// minRaiseTo is the smallest legal raise-to total, capped at the acting
// player's all-in total.
func minRaiseTo(st game.PublicState) int {
	p := actor(st)
	target := st.CurrentBet + st.MinRaise
	if allIn := p.Committed + p.Chips; allIn < target {
		target = allIn
	}
	return target
}

// canRaise reports whether any raise is legal for the acting player.
func canRaise(st game.PublicState) bool {
	return st.CurrentBet > 0 && minRaiseTo(st) > st.CurrentBet
}

// Folder checks when it is free and folds otherwise.
type Folder struct{}

func (Folder) Act(st game.PublicState) game.Action {
	if toCall(st) == 0 {
		return game.CheckAction()
	}
	return game.FoldAction()
}

// Caller checks and calls down every street.
type Caller struct{}

func (Caller) Act(st game.PublicState) game.Action {
	if toCall(st) == 0 {
		return game.CheckAction()
	}
	return game.CallAction()
}

// Random picks uniformly among the legal actions, with random sizes for
// bets and raises.
type Random struct {
	rng *rand.Rand
}

func (r *Random) Act(st game.PublicState) game.Action {
	p := actor(st)

	var options []game.Action
	if toCall(st) == 0 {
		options = append(options, game.CheckAction())
		if st.CurrentBet == 0 && p.Chips > 0 {
			options = append(options, game.BetAction(r.betSize(st, p)))
		}
	} else {
		options = append(options, game.CallAction(), game.FoldAction())
	}
	if canRaise(st) {
		options = append(options, game.RaiseAction(r.raiseSize(st, p)))
	}

	return options[r.rng.IntN(len(options))]
}

// betSize picks an opening bet between the minimum and the whole stack.
func (r *Random) betSize(st game.PublicState, p game.PlayerView) int {
	min := st.MinRaise // opening minimum is the big blind
	if min > p.Chips {
		return p.Chips
	}
	return min + r.rng.IntN(p.Chips-min+1)
}

// raiseSize picks a raise-to total between the minimum and all-in.
func (r *Random) raiseSize(st game.PublicState, p game.PlayerView) int {
	min := minRaiseTo(st)
	max := p.Committed + p.Chips
	if max <= min {
		return min
	}
	return min + r.rng.IntN(max-min+1)
}

// Maniac bets and raises at every opportunity, seven times out of ten.
type Maniac struct {
	rng *rand.Rand
}

func (m *Maniac) Act(st game.PublicState) game.Action {
	p := actor(st)
	aggro := m.rng.IntN(10) < 7

	if aggro {
		if st.CurrentBet == 0 && p.Chips > 0 {
			size := st.MinRaise
			if size > p.Chips {
				size = p.Chips
			}
			return game.BetAction(size)
		}
		if canRaise(st) {
			return game.RaiseAction(minRaiseTo(st))
		}
	}

	if toCall(st) == 0 {
		return game.CheckAction()
	}
	return game.CallAction()
}
