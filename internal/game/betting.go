package game

// BettingRound tracks the betting state for a single street: the highest
// total a player must match, the minimum legal raise increment, who last
// bet or raised, and which seats have acted since the last aggression.
// Chips committed this street live on the players' Bet fields until the
// hand folds them into the running pot at street end.
type BettingRound struct {
	CurrentBet    int
	MinRaise      int // last bet/raise size; the minimum legal increment
	LastAggressor int // seat of the last bettor/raiser, -1 when none

	bigBlind int
	acted    []bool
	bbActed  bool
}

func newBettingRound(numSeats, bigBlind int) *BettingRound {
	return &BettingRound{
		MinRaise:      bigBlind,
		LastAggressor: -1,
		bigBlind:      bigBlind,
		acted:         make([]bool, numSeats),
	}
}

// reset clears per-street state ahead of a new street. The preflop big
// blind option does not carry over, so bbActed stays as-is.
func (br *BettingRound) reset(numSeats int) {
	br.CurrentBet = 0
	br.MinRaise = br.bigBlind
	br.LastAggressor = -1
	br.acted = make([]bool, numSeats)
}

// applyCheck validates and applies a check: legal only when the player has
// already matched the current bet (no bet yet, or blind fully posted).
func (br *BettingRound) applyCheck(p *Player) error {
	if p.Bet != br.CurrentBet {
		return validationf(p.ID, "cannot check, %d to call", br.CurrentBet-p.Bet)
	}
	return nil
}

// applyBet validates and applies an opening bet for the street. The
// amount must be at least the big blind unless it is the player's entire
// stack, and never more than the stack.
func (br *BettingRound) applyBet(p *Player, amount int) error {
	if br.CurrentBet != 0 {
		return validationf(p.ID, "cannot bet into a live bet of %d, raise instead", br.CurrentBet)
	}
	if amount > p.Chips {
		return validationf(p.ID, "bet %d exceeds stack of %d", amount, p.Chips)
	}
	if amount < br.bigBlind && amount != p.Chips {
		return validationf(p.ID, "bet %d is below the minimum of %d", amount, br.bigBlind)
	}

	p.commit(amount)
	br.CurrentBet = amount
	br.MinRaise = amount
	br.LastAggressor = p.Seat
	br.restartAction(p.Seat)
	return nil
}

// applyRaise validates and applies a raise to the given total. The
// increment over the current bet must be at least the previous bet/raise
// size; the only exception is a player raising all-in for less.
func (br *BettingRound) applyRaise(p *Player, amount int) error {
	if br.CurrentBet == 0 {
		return validationf(p.ID, "cannot raise with no bet outstanding, bet instead")
	}
	if amount <= br.CurrentBet {
		return validationf(p.ID, "raise to %d does not exceed the current bet of %d", amount, br.CurrentBet)
	}
	needed := amount - p.Bet
	if needed > p.Chips {
		return validationf(p.ID, "raise to %d needs %d more chips, only %d behind", amount, needed, p.Chips)
	}
	if increment := amount - br.CurrentBet; increment < br.MinRaise && needed != p.Chips {
		return validationf(p.ID, "raise increment %d is below the minimum of %d", increment, br.MinRaise)
	}

	br.MinRaise = amount - br.CurrentBet
	br.CurrentBet = amount
	br.LastAggressor = p.Seat
	p.commit(needed)
	br.restartAction(p.Seat)
	return nil
}

// applyCall validates and applies a call. A player whose stack cannot
// cover the shortfall goes all-in for the remainder; the engine keeps a
// single pot in that case (no side pots, see DESIGN.md).
func (br *BettingRound) applyCall(p *Player) error {
	if br.CurrentBet == 0 {
		return validationf(p.ID, "nothing to call, check instead")
	}
	if p.Bet >= br.CurrentBet {
		return validationf(p.ID, "already matched the bet of %d", br.CurrentBet)
	}

	shortfall := br.CurrentBet - p.Bet
	if shortfall > p.Chips {
		shortfall = p.Chips
	}
	p.commit(shortfall)
	return nil
}

// applyFold marks the player folded. Folded players keep their stacks but
// leave the action and the showdown.
func (br *BettingRound) applyFold(p *Player) error {
	p.Status = StatusFolded
	if br.LastAggressor == p.Seat {
		br.LastAggressor = -1
	}
	return nil
}

// markActed records that a seat has taken an action this street.
func (br *BettingRound) markActed(seat int) {
	if seat >= 0 && seat < len(br.acted) {
		br.acted[seat] = true
	}
}

// markBigBlindActed records that the big blind has used their preflop
// option.
func (br *BettingRound) markBigBlindActed() {
	br.bbActed = true
}

// restartAction reopens the action after a bet or raise: every other seat
// must act again before the street can close.
func (br *BettingRound) restartAction(aggressor int) {
	for i := range br.acted {
		br.acted[i] = false
	}
	br.acted[aggressor] = true
}

// complete reports whether the street's betting has closed: every
// non-folded, non-all-in player has matched the current bet and has acted
// since the last aggression. Preflop the big blind retains the option to
// act even when all bets already match.
func (br *BettingRound) complete(players []*Player, bbSeat int, preflop bool) bool {
	actable := 0
	for _, p := range players {
		if p.CanAct() {
			actable++
		}
	}
	if actable == 0 {
		return true
	}

	for _, p := range players {
		if !p.CanAct() {
			continue
		}
		if p.Bet != br.CurrentBet {
			return false
		}
		if !br.acted[p.Seat] {
			return false
		}
	}

	if preflop && br.LastAggressor == -1 {
		bb := players[bbSeat]
		if bb.CanAct() && !br.bbActed {
			return false
		}
	}

	return true
}
