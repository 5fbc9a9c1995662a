package game

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardroomlabs/holdem/internal/deck"
	"github.com/cardroomlabs/holdem/internal/evaluator"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func headsUpTable(t *testing.T, opts ...Option) *Table {
	t.Helper()
	cfg := Config{SmallBlind: 10, BigBlind: 20, MaxPlayers: 6}
	table := NewTable(cfg, append([]Option{WithLogger(testLogger())}, opts...)...)

	_, err := table.Seat("alice", "Alice", 1000)
	require.NoError(t, err)
	_, err = table.Seat("bob", "Bob", 1000)
	require.NoError(t, err)
	return table
}

func checkDown(t *testing.T, hand *Hand) {
	t.Helper()
	for !hand.Done() {
		st := hand.PublicState()
		require.NotEmpty(t, st.NextToAct)
		require.NoError(t, hand.SubmitAction(st.NextToAct, CheckAction()))
	}
}

// Heads-up: the dealer posts the small blind and acts first preflop, the
// hand checks down to showdown, and the better hand takes the whole pot.
func TestHeadsUpHandToShowdown(t *testing.T) {
	table := headsUpTable(t)

	// Seat 1 (bob) is dealt first, left of the button.
	d := deck.NewStacked(deck.MustParseAll(
		"Qh 7d " + // bob
			"As Ks " + // alice
			"2d " + // burn
			"Ah Kd 2c " + // flop
			"3d 5s " + // burn, turn
			"4d 9c")..., // burn, river
	)

	hand, err := table.startHandWithDeck(d)
	require.NoError(t, err)

	st := hand.PublicState()
	assert.Equal(t, Preflop, st.Street)
	assert.Equal(t, 30, st.Pot, "blinds posted")
	assert.Equal(t, 20, st.CurrentBet)
	assert.Equal(t, "alice", st.NextToAct, "dealer acts first preflop heads-up")

	cards, err := hand.HoleCards("alice")
	require.NoError(t, err)
	assert.Equal(t, deck.MustParseAll("As Ks"), cards)

	// Dealer calls the 10 shortfall; big blind checks the option.
	require.NoError(t, hand.SubmitAction("alice", CallAction()))
	st = hand.PublicState()
	assert.Equal(t, Preflop, st.Street, "big blind still has the option")
	assert.Equal(t, 40, st.Pot)
	assert.Equal(t, "bob", st.NextToAct)

	require.NoError(t, hand.SubmitAction("bob", CheckAction()))
	st = hand.PublicState()
	assert.Equal(t, Flop, st.Street)
	assert.Len(t, st.Community, 3)
	assert.Equal(t, 0, st.CurrentBet, "betting state reset for the new street")
	assert.Equal(t, 40, st.Pot, "pot carries across streets")

	checkDown(t, hand)

	result := hand.Result()
	require.NotNil(t, result)
	require.Len(t, result.Winners, 1)
	assert.Equal(t, Winner{PlayerID: "alice", Amount: 40}, result.Winners[0])
	require.Len(t, result.Showdown, 2)

	views := table.Players()
	assert.Equal(t, 1020, views[0].Chips, "alice won the 40 chip pot")
	assert.Equal(t, 980, views[1].Chips)

	assert.Equal(t, 1, table.Button(), "button rotates at hand end")
	assert.Nil(t, table.CurrentHand())
}

// Both players play the board: the pot splits exactly 20/20.
func TestHeadsUpExactTieSplitsPot(t *testing.T) {
	table := headsUpTable(t)

	d := deck.NewStacked(deck.MustParseAll(
		"2c 3d " + // bob
			"4s 5c " + // alice
			"2h " + // burn
			"Th Jd Qc " + // flop
			"3h Ks " + // burn, turn
			"4c 9h")..., // burn, river
	)

	hand, err := table.startHandWithDeck(d)
	require.NoError(t, err)

	require.NoError(t, hand.SubmitAction("alice", CallAction()))
	require.NoError(t, hand.SubmitAction("bob", CheckAction()))
	checkDown(t, hand)

	result := hand.Result()
	require.Len(t, result.Winners, 2)
	for _, w := range result.Winners {
		assert.Equal(t, 20, w.Amount)
	}
	for _, sd := range result.Showdown {
		assert.Equal(t, evaluator.Straight, sd.Rank.Category)
	}

	for _, p := range table.Players() {
		assert.Equal(t, 1000, p.Chips, "split pot returns both blinds")
	}
}

func threeHandedTable(t *testing.T, sb, bb int) *Table {
	t.Helper()
	cfg := Config{SmallBlind: sb, BigBlind: bb, MaxPlayers: 6}
	table := NewTable(cfg, WithLogger(testLogger()))
	for _, id := range []string{"p0", "p1", "p2"} {
		_, err := table.Seat(id, id, 1000)
		require.NoError(t, err)
	}
	return table
}

// Three players, blinds 5/10: the small blind folds, the other two tie at
// showdown. The 25 chip pot splits 12/12 with the odd chip going to the
// earliest winner in seat order after the button.
func TestOddChipGoesToEarliestWinnerAfterButton(t *testing.T) {
	table := threeHandedTable(t, 5, 10)

	d := deck.NewStacked(deck.MustParseAll(
		"2h 7s " + // p1 (small blind, folds)
			"2c 3d " + // p2 (big blind)
			"2s 3h " + // p0 (button)
			"8c " + // burn
			"Th Jd Qc " + // flop
			"4c Ks " + // burn, turn
			"5d 9h")..., // burn, river
	)

	hand, err := table.startHandWithDeck(d)
	require.NoError(t, err)

	st := hand.PublicState()
	assert.Equal(t, "p0", st.NextToAct, "UTG is three seats after the button")

	require.NoError(t, hand.SubmitAction("p0", CallAction()))
	require.NoError(t, hand.SubmitAction("p1", FoldAction()))
	require.NoError(t, hand.SubmitAction("p2", CheckAction()))
	checkDown(t, hand)

	result := hand.Result()
	require.Len(t, result.Winners, 2)
	assert.Equal(t, Winner{PlayerID: "p2", Amount: 13}, result.Winners[0],
		"seat 2 is the earliest winner after the button and takes the odd chip")
	assert.Equal(t, Winner{PlayerID: "p0", Amount: 12}, result.Winners[1])

	views := table.Players()
	assert.Equal(t, 1002, views[0].Chips)
	assert.Equal(t, 995, views[1].Chips, "folded player lost only the small blind")
	assert.Equal(t, 1003, views[2].Chips)
}

// Three players: one folds preflop facing a raise; the showdown involves
// only the remaining two and the folded player loses only their blind.
func TestFoldedPlayerExcludedFromShowdown(t *testing.T) {
	table := threeHandedTable(t, 10, 20)

	d := deck.NewStacked(deck.MustParseAll(
		"2h 7s " + // p1 (small blind)
			"Qd Jc " + // p2 (big blind)
			"As Ad " + // p0 (button, UTG)
			"6c " + // burn
			"Ac 8h 3s " + // flop
			"6d Kh " + // burn, turn
			"6h 4d")..., // burn, river
	)

	hand, err := table.startHandWithDeck(d)
	require.NoError(t, err)

	require.NoError(t, hand.SubmitAction("p0", RaiseAction(60)))
	require.NoError(t, hand.SubmitAction("p1", FoldAction()))
	require.NoError(t, hand.SubmitAction("p2", CallAction()))
	checkDown(t, hand)

	result := hand.Result()
	require.Len(t, result.Winners, 1)
	assert.Equal(t, "p0", result.Winners[0].PlayerID)
	assert.Equal(t, 130, result.Winners[0].Amount)
	require.Len(t, result.Showdown, 2, "folded player does not table a hand")
	for _, sd := range result.Showdown {
		assert.NotEqual(t, "p1", sd.PlayerID)
	}

	views := table.Players()
	assert.Equal(t, 1070, views[0].Chips)
	assert.Equal(t, 990, views[1].Chips)
	assert.Equal(t, 940, views[2].Chips)
}

// Everyone folding to a single player ends the hand without dealing the
// remaining streets.
func TestLastPlayerStandingWinsImmediately(t *testing.T) {
	table := headsUpTable(t)

	hand, err := table.StartHand()
	require.NoError(t, err)

	require.NoError(t, hand.SubmitAction("alice", FoldAction()))

	result := hand.Result()
	require.NotNil(t, result)
	require.Len(t, result.Winners, 1)
	assert.Equal(t, Winner{PlayerID: "bob", Amount: 30}, result.Winners[0])
	assert.Nil(t, result.Showdown)

	views := table.Players()
	assert.Equal(t, 990, views[0].Chips)
	assert.Equal(t, 1010, views[1].Chips)
}

// Both players all-in preflop: the board runs out with no further action
// and the hand settles at showdown.
func TestAllInRunout(t *testing.T) {
	table := headsUpTable(t)

	d := deck.NewStacked(deck.MustParseAll(
		"Kh Kd " + // bob
			"As Ad " + // alice
			"4c " + // burn
			"2c 7h 9d " + // flop
			"4d Js " + // burn, turn
			"4h 3h")..., // burn, river
	)

	hand, err := table.startHandWithDeck(d)
	require.NoError(t, err)

	require.NoError(t, hand.SubmitAction("alice", RaiseAction(1000)))
	require.NoError(t, hand.SubmitAction("bob", CallAction()))

	require.True(t, hand.Done(), "no action remains once both are all-in")
	result := hand.Result()
	require.Len(t, result.Winners, 1)
	assert.Equal(t, Winner{PlayerID: "alice", Amount: 2000}, result.Winners[0])

	views := table.Players()
	assert.Equal(t, 2000, views[0].Chips)
	assert.Equal(t, 0, views[1].Chips)
}

func TestSubmitActionValidation(t *testing.T) {
	table := headsUpTable(t)

	hand, err := table.StartHand()
	require.NoError(t, err)

	err = hand.SubmitAction("bob", CheckAction())
	require.Error(t, err, "not bob's turn")
	assert.True(t, IsValidation(err))

	err = hand.SubmitAction("mallory", CallAction())
	require.Error(t, err, "unknown player")
	assert.True(t, IsValidation(err))

	// A rejected action leaves the same player to act.
	err = hand.SubmitAction("alice", BetAction(50))
	require.Error(t, err, "cannot bet into the posted big blind")
	assert.Equal(t, "alice", hand.PublicState().NextToAct)

	err = hand.SubmitAction("alice", CheckAction())
	require.Error(t, err, "cannot check owing 10")
	assert.Equal(t, "alice", hand.PublicState().NextToAct)
}

// A timed-out turn with a bet outstanding folds the player.
func TestTimeoutFoldsWhenFacingABet(t *testing.T) {
	mock := quartz.NewMock(t)
	cfg := Config{SmallBlind: 10, BigBlind: 20, ActionTimeout: 5 * time.Second, MaxPlayers: 6}
	table := NewTable(cfg, WithLogger(testLogger()), WithClock(mock))
	_, err := table.Seat("alice", "Alice", 1000)
	require.NoError(t, err)
	_, err = table.Seat("bob", "Bob", 1000)
	require.NoError(t, err)

	hand, err := table.StartHand()
	require.NoError(t, err)

	// Alice (dealer, small blind) owes 10 and lets the clock run out.
	mock.Advance(5 * time.Second).MustWait(context.Background())

	require.True(t, hand.Done())
	result := hand.Result()
	require.Len(t, result.Winners, 1)
	assert.Equal(t, Winner{PlayerID: "bob", Amount: 30}, result.Winners[0])
}

// A timed-out turn with nothing to call checks instead of folding.
func TestTimeoutChecksWhenBetMatched(t *testing.T) {
	mock := quartz.NewMock(t)
	cfg := Config{SmallBlind: 10, BigBlind: 20, ActionTimeout: 5 * time.Second, MaxPlayers: 6}
	table := NewTable(cfg, WithLogger(testLogger()), WithClock(mock))
	_, err := table.Seat("alice", "Alice", 1000)
	require.NoError(t, err)
	_, err = table.Seat("bob", "Bob", 1000)
	require.NoError(t, err)

	hand, err := table.StartHand()
	require.NoError(t, err)

	require.NoError(t, hand.SubmitAction("alice", CallAction()))

	// Bob already matches the bet; the timeout checks his option through
	// the normal validation path and the flop is dealt.
	mock.Advance(5 * time.Second).MustWait(context.Background())

	st := hand.PublicState()
	assert.Equal(t, Flop, st.Street)
	assert.False(t, hand.Done())
}

// Cancelling a live hand refunds every committed chip.
func TestCancelRefundsCommittedChips(t *testing.T) {
	table := headsUpTable(t)

	hand, err := table.StartHand()
	require.NoError(t, err)

	require.NoError(t, hand.SubmitAction("alice", CallAction()))
	require.NoError(t, hand.SubmitAction("bob", RaiseAction(60)))

	refunds, err := hand.Cancel()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"alice": 20, "bob": 60}, refunds)

	result := hand.Result()
	require.NotNil(t, result)
	assert.True(t, result.Cancelled)
	assert.Empty(t, result.Winners)

	for _, p := range table.Players() {
		assert.Equal(t, 1000, p.Chips, "no chips stranded in the betting state")
	}

	_, err = hand.Cancel()
	assert.Error(t, err, "cannot cancel twice")

	// The table can deal again after a cancellation.
	_, err = table.StartHand()
	assert.NoError(t, err)
}

type eventRecorder struct {
	events []Event
}

func (r *eventRecorder) OnEvent(e Event) {
	r.events = append(r.events, e)
}

func TestHandPublishesLifecycleEvents(t *testing.T) {
	recorder := &eventRecorder{}
	bus := NewEventBus()
	bus.Subscribe(recorder)

	table := headsUpTable(t, WithEventBus(bus))

	hand, err := table.StartHand()
	require.NoError(t, err)

	require.NoError(t, hand.SubmitAction("alice", CallAction()))
	require.NoError(t, hand.SubmitAction("bob", CheckAction()))
	checkDown(t, hand)

	require.NotEmpty(t, recorder.events)
	assert.IsType(t, HandStartEvent{}, recorder.events[0])
	assert.IsType(t, HandEndEvent{}, recorder.events[len(recorder.events)-1])

	var streets, actions int
	for _, e := range recorder.events {
		switch e.(type) {
		case StreetChangeEvent:
			streets++
		case PlayerActionEvent:
			actions++
		}
	}
	assert.Equal(t, 3, streets, "flop, turn and river")
	assert.Equal(t, 8, actions, "two per street")

	end := recorder.events[len(recorder.events)-1].(HandEndEvent)
	require.NotNil(t, end.Result)
	assert.Equal(t, hand.ID(), end.HandID)
}

func TestHoleCardsArePrivatePerPlayer(t *testing.T) {
	table := headsUpTable(t)

	hand, err := table.StartHand()
	require.NoError(t, err)

	alice, err := hand.HoleCards("alice")
	require.NoError(t, err)
	bob, err := hand.HoleCards("bob")
	require.NoError(t, err)

	assert.Len(t, alice, 2)
	assert.Len(t, bob, 2)
	assert.NotEqual(t, alice, bob)

	_, err = hand.HoleCards("mallory")
	assert.Error(t, err)

	st := hand.PublicState()
	assert.NotContains(t, st.Community, alice[0], "public state never leaks hole cards")
}
