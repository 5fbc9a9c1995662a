// Package simulator deals scripted hands against the engine and collects
// per-player results. It exists to soak-test the table state machine: a
// few thousand simulated hands exercise every street, all-in runout, and
// split-pot path far more densely than scripted tests do.
package simulator

import (
	"fmt"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/cardroomlabs/holdem/internal/bot"
	"github.com/cardroomlabs/holdem/internal/config"
	"github.com/cardroomlabs/holdem/internal/game"
	"github.com/cardroomlabs/holdem/internal/randutil"
	"github.com/cardroomlabs/holdem/internal/statistics"
)

// Config describes one simulation run.
type Config struct {
	Settings   config.TableSettings
	Tables     int
	Players    int
	Hands      int // per table
	Seed       int64
	Strategies []string // cycled across seats
	Logger     *log.Logger
}

// PlayerResult is one seat's final standing.
type PlayerResult struct {
	ID       string
	Strategy string
	Chips    int
	Stats    *statistics.Series
}

// TableResult is one table's outcome.
type TableResult struct {
	TableID string
	Hands   int
	Players []PlayerResult
}

// Results aggregates every table in the run.
type Results struct {
	Tables []TableResult
}

// Run plays the configured number of hands on each table concurrently
// and returns the combined results. Tables are seeded independently so
// runs are reproducible per seed.
func Run(cfg Config) (*Results, error) {
	if len(cfg.Strategies) == 0 {
		cfg.Strategies = []string{"call", "rand", "maniac", "call"}
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}

	results := &Results{Tables: make([]TableResult, cfg.Tables)}

	var g errgroup.Group
	for i := 0; i < cfg.Tables; i++ {
		g.Go(func() error {
			result, err := runTable(cfg, cfg.Seed+int64(i))
			if err != nil {
				return fmt.Errorf("table %d: %w", i, err)
			}
			results.Tables[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func runTable(cfg Config, seed int64) (TableResult, error) {
	rng := randutil.New(seed)

	tableCfg := cfg.Settings.TableConfig()
	tableCfg.ActionTimeout = 0 // the simulator answers every turn itself

	table := game.NewTable(tableCfg,
		game.WithLogger(cfg.Logger),
		game.WithRNG(rng),
	)

	collector := statistics.NewCollector(tableCfg.BigBlind)
	table.Bus().Subscribe(collector)

	strategies := make(map[string]bot.Strategy, cfg.Players)
	kinds := make(map[string]string, cfg.Players)
	for i := 0; i < cfg.Players; i++ {
		id := fmt.Sprintf("player-%d", i+1)
		kind := cfg.Strategies[i%len(cfg.Strategies)]
		strategy, err := bot.New(kind, rng)
		if err != nil {
			return TableResult{}, err
		}
		strategies[id] = strategy
		kinds[id] = kind

		if _, err := table.Seat(id, id, tableCfg.MinBuyIn); err != nil {
			return TableResult{}, err
		}
	}

	played := 0
	for played < cfg.Hands {
		collector.BeginHand(stacks(table))

		hand, err := table.StartHand()
		if err != nil {
			if game.IsValidation(err) {
				// A player busted; seat them back with a fresh buy-in.
				if err := rebuyBusted(table); err != nil {
					return TableResult{}, err
				}
				continue
			}
			return TableResult{}, err
		}

		if err := playHand(hand, strategies); err != nil {
			return TableResult{}, err
		}

		collector.EndHand(stacks(table))
		played++
	}

	result := TableResult{TableID: table.ID(), Hands: played}
	for _, p := range table.Players() {
		result.Players = append(result.Players, PlayerResult{
			ID:       p.ID,
			Strategy: kinds[p.ID],
			Chips:    p.Chips,
			Stats:    collector.Player(p.ID),
		})
	}
	return result, nil
}

// playHand answers each turn until the hand finishes.
func playHand(hand *game.Hand, strategies map[string]bot.Strategy) error {
	for !hand.Done() {
		st := hand.PublicState()
		if st.NextToAct == "" {
			break
		}

		action := strategies[st.NextToAct].Act(st)
		if err := hand.SubmitAction(st.NextToAct, action); err != nil {
			if game.IsValidation(err) {
				// The strategy picked an illegal size; fall back to the
				// always-legal option.
				if err := hand.SubmitAction(st.NextToAct, fallback(st)); err != nil {
					return err
				}
				continue
			}
			return err
		}
	}
	return nil
}

func fallback(st game.PublicState) game.Action {
	for _, p := range st.Players {
		if p.ID == st.NextToAct && p.Committed == st.CurrentBet {
			return game.CheckAction()
		}
	}
	return game.FoldAction()
}

func stacks(table *game.Table) map[string]int {
	views := table.Players()
	out := make(map[string]int, len(views))
	for _, p := range views {
		out[p.ID] = p.Chips
	}
	return out
}

// rebuyBusted unseats zero-stack players and seats them again with a
// fresh buy-in so the simulation can keep dealing.
func rebuyBusted(table *game.Table) error {
	for _, p := range table.Players() {
		if p.Chips <= 0 {
			if _, err := table.RemovePlayer(p.ID); err != nil {
				return err
			}
			if _, err := table.Seat(p.ID, p.ID, table.Config().MinBuyIn); err != nil {
				return err
			}
		}
	}
	return nil
}

