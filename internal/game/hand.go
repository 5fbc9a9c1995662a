package game

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/cardroomlabs/holdem/internal/deck"
	"github.com/cardroomlabs/holdem/internal/evaluator"
)

// Hand is a single live hand at a table. Exactly one hand is live per
// table; the table's mutex serialises every mutation so concurrent action
// submissions never interleave. Asking a player to act is the only
// suspension point: the engine stays passive between SubmitAction calls,
// with a clock timer applying the default action when a turn expires.
type Hand struct {
	id string

	mu     *sync.Mutex // shared with the owning table
	logger *log.Logger
	bus    EventBus
	clock  quartz.Clock

	players    []*Player
	button     int
	smallBlind int
	bigBlind   int
	timeout    time.Duration

	deck      *deck.Deck
	street    Street
	community []deck.Card
	pot       int
	betting   *BettingRound
	active    int // seat of next to act, -1 when none

	turnSeq   int
	turnTimer *quartz.Timer

	chipTotal int // for conservation checks
	done      bool
	result    *HandResult

	onComplete func()
}

func newHand(id string, mu *sync.Mutex, logger *log.Logger, bus EventBus, clock quartz.Clock,
	players []*Player, button int, d *deck.Deck, smallBlind, bigBlind int,
	timeout time.Duration, onComplete func()) *Hand {

	h := &Hand{
		id:         id,
		mu:         mu,
		logger:     logger.With("hand", id),
		bus:        bus,
		clock:      clock,
		players:    players,
		button:     button,
		smallBlind: smallBlind,
		bigBlind:   bigBlind,
		timeout:    timeout,
		deck:       d,
		street:     Preflop,
		betting:    newBettingRound(len(players), bigBlind),
		active:     -1,
		onComplete: onComplete,
	}

	for _, p := range players {
		p.resetForHand()
		h.chipTotal += p.Chips
	}

	h.dealHoleCards()
	h.postBlinds()
	h.active = h.nextActiveFrom(h.firstToActPreflop())

	ids := make([]string, len(players))
	for i, p := range players {
		ids[i] = p.ID
	}
	h.bus.Publish(HandStartEvent{
		HandID:     id,
		Button:     button,
		SmallBlind: smallBlind,
		BigBlind:   bigBlind,
		PlayerIDs:  ids,
		timestamp:  time.Now(),
	})
	h.logger.Info("hand started", "players", len(players), "button", button)

	h.scheduleTurn()
	return h
}

// ID returns the hand identifier.
func (h *Hand) ID() string {
	return h.id
}

// dealHoleCards gives each seat two cards, starting left of the button.
func (h *Hand) dealHoleCards() {
	n := len(h.players)
	for i := 0; i < n; i++ {
		seat := (h.button + 1 + i) % n
		h.players[seat].HoleCards = h.deck.Deal(2)
	}
}

// postBlinds commits the forced bets. Heads-up the dealer posts the small
// blind; otherwise the two seats after the button post in order. A short
// stack posts what it can and is all-in.
func (h *Hand) postBlinds() {
	sb, bb := h.sbSeat(), h.bbSeat()

	h.players[sb].commit(minInt(h.smallBlind, h.players[sb].Chips))
	h.players[bb].commit(minInt(h.bigBlind, h.players[bb].Chips))
	h.betting.CurrentBet = h.bigBlind
}

func (h *Hand) sbSeat() int {
	if len(h.players) == 2 {
		return h.button
	}
	return (h.button + 1) % len(h.players)
}

func (h *Hand) bbSeat() int {
	if len(h.players) == 2 {
		return (h.button + 1) % 2
	}
	return (h.button + 2) % len(h.players)
}

// firstToActPreflop is UTG (three after the button) with 3+ players; the
// dealer/small blind heads-up.
func (h *Hand) firstToActPreflop() int {
	if len(h.players) == 2 {
		return h.button
	}
	return (h.button + 3) % len(h.players)
}

// firstToActPostflop is the seat left of the button, or the dealer/small
// blind heads-up.
func (h *Hand) firstToActPostflop() int {
	if len(h.players) == 2 {
		return h.button
	}
	return (h.button + 1) % len(h.players)
}

// nextActiveFrom finds the next seat that can act, starting at from and
// wrapping. Folded and all-in seats are skipped, so the walk effectively
// wraps over the currently active seats only.
func (h *Hand) nextActiveFrom(from int) int {
	n := len(h.players)
	for i := 0; i < n; i++ {
		seat := (from + i) % n
		if h.players[seat].CanAct() {
			return seat
		}
	}
	return -1
}

// SubmitAction validates and applies one action for the given player. A
// *ValidationError leaves the hand untouched with the same player to act;
// any other outcome advances the turn, the street, or finishes the hand.
func (h *Hand) SubmitAction(playerID string, action Action) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.submitLocked(playerID, action, false)
}

func (h *Hand) submitLocked(playerID string, action Action, timedOut bool) error {
	if h.done {
		return validationf(playerID, "hand %s is already complete", h.id)
	}
	if h.active == -1 || h.players[h.active].ID != playerID {
		return validationf(playerID, "not your turn")
	}

	p := h.players[h.active]

	var err error
	switch action.Type {
	case Check:
		err = h.betting.applyCheck(p)
	case Bet:
		err = h.betting.applyBet(p, action.Amount)
	case Raise:
		err = h.betting.applyRaise(p, action.Amount)
	case Call:
		err = h.betting.applyCall(p)
	case Fold:
		err = h.betting.applyFold(p)
	default:
		err = validationf(playerID, "unknown action type %d", action.Type)
	}
	if err != nil {
		return err
	}

	h.betting.markActed(p.Seat)
	if h.street == Preflop && p.Seat == h.bbSeat() {
		h.betting.markBigBlindActed()
	}

	h.stopTurnTimer()
	h.bus.Publish(PlayerActionEvent{
		HandID:    h.id,
		PlayerID:  playerID,
		Action:    action,
		Street:    h.street,
		Pot:       h.pot + h.streetChips(),
		TimedOut:  timedOut,
		timestamp: time.Now(),
	})
	h.logger.Debug("action applied",
		"player", playerID, "action", action.String(), "street", h.street.String(), "timed_out", timedOut)

	if h.countInHand() == 1 {
		h.awardToLastStanding()
		return nil
	}

	h.active = h.nextActiveFrom((p.Seat + 1) % len(h.players))
	if h.active == -1 || h.betting.complete(h.players, h.bbSeat(), h.street == Preflop) {
		h.advanceStreet()
	} else {
		h.scheduleTurn()
	}
	return nil
}

// advanceStreet folds the street's bets into the pot and moves the hand
// forward: river closure goes to showdown, otherwise the next board cards
// are dealt after a burn and the betting round resets.
func (h *Hand) advanceStreet() {
	h.collectBets()

	if h.street == River {
		h.showdown()
		return
	}

	h.street++
	h.deck.Burn()
	switch h.street {
	case Flop:
		h.community = append(h.community, h.deck.Deal(3)...)
	case Turn, River:
		h.community = append(h.community, h.deck.DealOne())
	}
	h.betting.reset(len(h.players))

	h.bus.Publish(StreetChangeEvent{
		HandID:    h.id,
		Street:    h.street,
		Community: append([]deck.Card(nil), h.community...),
		Pot:       h.pot,
		timestamp: time.Now(),
	})
	h.logger.Debug("street advanced", "street", h.street.String(), "board", deck.Format(h.community), "pot", h.pot)

	h.active = h.nextActiveFrom(h.firstToActPostflop())
	if h.active == -1 {
		// Everyone remaining is all-in; run the board out.
		h.advanceStreet()
		return
	}
	h.scheduleTurn()
}

// collectBets moves every seat's street commitment into the running pot.
func (h *Hand) collectBets() {
	for _, p := range h.players {
		h.pot += p.Bet
		p.Bet = 0
	}
}

func (h *Hand) streetChips() int {
	total := 0
	for _, p := range h.players {
		total += p.Bet
	}
	return total
}

func (h *Hand) countInHand() int {
	count := 0
	for _, p := range h.players {
		if p.InHand() {
			count++
		}
	}
	return count
}

// awardToLastStanding ends the hand immediately when only one player
// remains, without dealing further streets.
func (h *Hand) awardToLastStanding() {
	h.collectBets()

	var winner *Player
	for _, p := range h.players {
		if p.InHand() {
			winner = p
			break
		}
	}
	winner.Chips += h.pot

	h.finish(&HandResult{
		HandID:  h.id,
		Winners: []Winner{{PlayerID: winner.ID, Amount: h.pot}},
	})
}

// showdown evaluates each remaining player's best 5-of-7 and divides the
// pot evenly among the maximal hands. An indivisible remainder goes to
// the earliest winner in seat order after the button so no chips are
// discarded by integer division.
func (h *Hand) showdown() {
	h.street = Showdown

	type tabled struct {
		player *Player
		rank   evaluator.HandRank
		cards  []deck.Card
	}

	var contenders []tabled
	var best evaluator.HandRank
	for i := 0; i < len(h.players); i++ {
		seat := (h.button + 1 + i) % len(h.players)
		p := h.players[seat]
		if !p.InHand() {
			continue
		}
		seven := append(append([]deck.Card(nil), p.HoleCards...), h.community...)
		rank, five := evaluator.BestHand(seven)
		contenders = append(contenders, tabled{player: p, rank: rank, cards: five})
		if len(contenders) == 1 || evaluator.Compare(rank, best) > 0 {
			best = rank
		}
	}

	var winners []*Player
	showdown := make([]ShowdownHand, 0, len(contenders))
	for _, c := range contenders {
		showdown = append(showdown, ShowdownHand{PlayerID: c.player.ID, Cards: c.cards, Rank: c.rank})
		if evaluator.Compare(c.rank, best) == 0 {
			winners = append(winners, c.player)
		}
	}

	share := h.pot / len(winners)
	remainder := h.pot % len(winners)

	result := &HandResult{HandID: h.id, Showdown: showdown}
	for i, w := range winners {
		amount := share
		if i == 0 {
			// winners is already in seat order after the button.
			amount += remainder
		}
		w.Chips += amount
		result.Winners = append(result.Winners, Winner{PlayerID: w.ID, Amount: amount})
	}

	h.finish(result)
}

// finish seals the hand: verifies chip conservation, clears hole cards,
// publishes the result, and hands control back to the table.
func (h *Hand) finish(result *HandResult) {
	h.stopTurnTimer()
	h.active = -1
	h.pot = 0
	h.done = true
	h.result = result

	total := 0
	for _, p := range h.players {
		total += p.Chips
		p.HoleCards = nil
	}
	if !result.Cancelled && total != h.chipTotal {
		integrityf("hand %s leaked chips: started with %d, ended with %d", h.id, h.chipTotal, total)
	}

	h.bus.Publish(HandEndEvent{HandID: h.id, Result: result, timestamp: time.Now()})
	h.logger.Info("hand finished", "winners", len(result.Winners), "cancelled", result.Cancelled)

	if h.onComplete != nil {
		h.onComplete()
	}
}

// Cancel aborts a live hand (table closed mid-hand), returning every
// player's committed-this-hand chips to their stacks. No chips are left
// stranded in the betting state.
func (h *Hand) Cancel() (map[string]int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.done {
		return nil, validationf("", "hand %s is already complete", h.id)
	}

	refunds := make(map[string]int, len(h.players))
	for _, p := range h.players {
		if p.TotalBet > 0 {
			refunds[p.ID] = p.TotalBet
			p.Chips += p.TotalBet
		}
		p.Bet = 0
		p.TotalBet = 0
	}

	h.finish(&HandResult{HandID: h.id, Cancelled: true, Refunds: refunds})
	return refunds, nil
}

// scheduleTurn arms the action timer for the current seat. On expiry the
// default action is applied through the normal validation path: check
// when the player already matches the current bet, fold otherwise.
func (h *Hand) scheduleTurn() {
	if h.timeout <= 0 || h.active == -1 {
		return
	}
	h.turnSeq++
	seq := h.turnSeq
	h.turnTimer = h.clock.AfterFunc(h.timeout, func() {
		h.expireTurn(seq)
	})
}

func (h *Hand) expireTurn(seq int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.done || seq != h.turnSeq || h.active == -1 {
		return
	}

	p := h.players[h.active]
	action := FoldAction()
	if p.Bet == h.betting.CurrentBet {
		action = CheckAction()
	}

	h.logger.Warn("turn timed out", "player", p.ID, "default", action.String())
	if err := h.submitLocked(p.ID, action, true); err != nil {
		// Check/fold are always legal for the player to act; reaching
		// here means a broken invariant.
		integrityf("default action %s rejected for %s: %v", action, p.ID, err)
	}
}

func (h *Hand) stopTurnTimer() {
	h.turnSeq++
	if h.turnTimer != nil {
		h.turnTimer.Stop()
		h.turnTimer = nil
	}
}

// Done reports whether the hand has finished.
func (h *Hand) Done() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.done
}

// Result returns the terminal result, or nil while the hand is live.
func (h *Hand) Result() *HandResult {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.result
}

// PublicState returns a consistent snapshot of the hand: street, board,
// pot, current bet, per-player commitments and statuses, and who acts
// next. Hole cards are excluded.
func (h *Hand) PublicState() PublicState {
	h.mu.Lock()
	defer h.mu.Unlock()

	players := make([]PlayerView, len(h.players))
	for i, p := range h.players {
		players[i] = PlayerView{
			ID:        p.ID,
			Seat:      p.Seat,
			Chips:     p.Chips,
			Status:    p.Status,
			Committed: p.Bet,
		}
	}

	next := ""
	if h.active >= 0 && !h.done {
		next = h.players[h.active].ID
	}

	return PublicState{
		HandID:     h.id,
		Street:     h.street,
		Community:  append([]deck.Card(nil), h.community...),
		Pot:        h.pot + h.streetChips(),
		CurrentBet: h.betting.CurrentBet,
		MinRaise:   h.betting.MinRaise,
		NextToAct:  next,
		Players:    players,
	}
}

// HoleCards returns the two private cards for one player. Collaborators
// must only relay these to that player's own channel.
func (h *Hand) HoleCards(playerID string) ([]deck.Card, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, p := range h.players {
		if p.ID == playerID {
			return append([]deck.Card(nil), p.HoleCards...), nil
		}
	}
	return nil, validationf(playerID, "not seated in hand %s", h.id)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
