package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeatValidation(t *testing.T) {
	cfg := Config{SmallBlind: 10, BigBlind: 20, MinBuyIn: 500, MaxBuyIn: 2000, MaxPlayers: 2}
	table := NewTable(cfg, WithLogger(testLogger()))

	_, err := table.Seat("alice", "Alice", 400)
	require.Error(t, err, "buy-in below the minimum")
	assert.True(t, IsValidation(err))

	_, err = table.Seat("alice", "Alice", 3000)
	require.Error(t, err, "buy-in above the maximum")

	_, err = table.Seat("alice", "Alice", 1000)
	require.NoError(t, err)

	_, err = table.Seat("alice", "Alice again", 1000)
	require.Error(t, err, "duplicate player id")

	_, err = table.Seat("bob", "Bob", 1000)
	require.NoError(t, err)

	_, err = table.Seat("carol", "Carol", 1000)
	require.Error(t, err, "table is full")
}

func TestSeatsAssignedInArrivalOrder(t *testing.T) {
	table := NewTable(Config{SmallBlind: 10, BigBlind: 20, MaxPlayers: 6}, WithLogger(testLogger()))

	a, err := table.Seat("alice", "Alice", 1000)
	require.NoError(t, err)
	b, err := table.Seat("bob", "Bob", 1000)
	require.NoError(t, err)

	assert.Equal(t, 0, a.Seat)
	assert.Equal(t, 1, b.Seat)
}

func TestRemovePlayerReindexesSeats(t *testing.T) {
	table := NewTable(Config{SmallBlind: 10, BigBlind: 20, MaxPlayers: 6}, WithLogger(testLogger()))
	for _, id := range []string{"p0", "p1", "p2"} {
		_, err := table.Seat(id, id, 1000)
		require.NoError(t, err)
	}

	chips, err := table.RemovePlayer("p1")
	require.NoError(t, err)
	assert.Equal(t, 1000, chips)

	views := table.Players()
	require.Len(t, views, 2)
	assert.Equal(t, "p0", views[0].ID)
	assert.Equal(t, 0, views[0].Seat)
	assert.Equal(t, "p2", views[1].ID)
	assert.Equal(t, 1, views[1].Seat)

	_, err = table.RemovePlayer("p1")
	assert.Error(t, err, "already removed")
}

func TestRemovePlayerKeepsButtonOnSameDealer(t *testing.T) {
	table := NewTable(Config{SmallBlind: 10, BigBlind: 20, MaxPlayers: 6}, WithLogger(testLogger()))
	for _, id := range []string{"p0", "p1", "p2"} {
		_, err := table.Seat(id, id, 1000)
		require.NoError(t, err)
	}

	// Finish one hand so the button moves to seat 1.
	hand, err := table.StartHand()
	require.NoError(t, err)
	st := hand.PublicState()
	require.NoError(t, hand.SubmitAction(st.NextToAct, FoldAction()))
	st = hand.PublicState()
	require.NoError(t, hand.SubmitAction(st.NextToAct, FoldAction()))
	require.True(t, hand.Done())
	require.Equal(t, 1, table.Button())

	// Removing a seat before the button shifts the index so the same
	// player keeps the deal.
	_, err = table.RemovePlayer("p0")
	require.NoError(t, err)
	assert.Equal(t, 0, table.Button())
	assert.Equal(t, "p1", table.Players()[0].ID)
}

func TestRemovePlayerRejectedMidHand(t *testing.T) {
	table := headsUpTable(t)

	hand, err := table.StartHand()
	require.NoError(t, err)

	_, err = table.RemovePlayer("bob")
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	_, err = hand.Cancel()
	require.NoError(t, err)

	chips, err := table.RemovePlayer("bob")
	require.NoError(t, err)
	assert.Equal(t, 1000, chips, "cancellation refunded the blind first")
}

func TestStartHandValidation(t *testing.T) {
	table := NewTable(Config{SmallBlind: 10, BigBlind: 20, MaxPlayers: 6}, WithLogger(testLogger()))

	_, err := table.StartHand()
	require.Error(t, err, "no players")

	_, err = table.Seat("alice", "Alice", 1000)
	require.NoError(t, err)
	_, err = table.StartHand()
	require.Error(t, err, "one player is not enough")

	_, err = table.Seat("bob", "Bob", 1000)
	require.NoError(t, err)

	hand, err := table.StartHand()
	require.NoError(t, err)

	_, err = table.StartHand()
	require.Error(t, err, "a hand is already live")

	_, err = hand.Cancel()
	require.NoError(t, err)
}

func TestStartHandRejectsBustedPlayer(t *testing.T) {
	table := NewTable(Config{SmallBlind: 10, BigBlind: 20, MaxPlayers: 6}, WithLogger(testLogger()))

	_, err := table.Seat("alice", "Alice", 1000)
	require.NoError(t, err)
	_, err = table.Seat("bob", "Bob", 0)
	require.NoError(t, err)

	_, err = table.StartHand()
	require.Error(t, err, "zero stacks are never dealt in")
	assert.True(t, IsValidation(err))
}

func TestButtonRotatesEachHand(t *testing.T) {
	table := headsUpTable(t)
	require.Equal(t, 0, table.Button())

	for i := 0; i < 3; i++ {
		want := (i + 1) % 2
		hand, err := table.StartHand()
		require.NoError(t, err)
		st := hand.PublicState()
		require.NoError(t, hand.SubmitAction(st.NextToAct, FoldAction()))
		require.True(t, hand.Done())
		assert.Equal(t, want, table.Button(), "hand %d", i)
	}
}

func TestNewTableFillsDefaults(t *testing.T) {
	table := NewTable(Config{})
	cfg := table.Config()

	assert.Equal(t, 10, cfg.SmallBlind)
	assert.Equal(t, 20, cfg.BigBlind)
	assert.Equal(t, 6, cfg.MaxPlayers)
	assert.NotEmpty(t, table.ID())
	assert.NotNil(t, table.Bus())
}
