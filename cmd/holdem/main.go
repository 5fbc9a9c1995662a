package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/cardroomlabs/holdem/internal/config"
	"github.com/cardroomlabs/holdem/internal/fileutil"
	"github.com/cardroomlabs/holdem/internal/simulator"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#1A7A4C")).
			Padding(0, 1).
			Bold(true)

	stackStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8BB26"))
	lossStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FB4934"))
)

type CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging"`

	Simulate SimulateCmd `cmd:"" default:"1" help:"Deal hands between scripted players and report the results"`
}

type SimulateCmd struct {
	Config    string `short:"c" help:"HCL table configuration file" type:"existingfile" optional:""`
	Tables    int    `short:"t" help:"Number of tables to run concurrently" default:"1"`
	Players   int    `short:"p" help:"Players per table" default:"4"`
	Hands     int    `short:"n" help:"Hands to play per table" default:"10"`
	Seed      int64  `short:"s" help:"RNG seed, 0 for time-based" default:"0"`
	Opponents string `help:"Comma-separated strategy rotation: fold, call, rand, maniac" default:"call,rand,maniac,call"`
	Output    string `short:"o" help:"Write results to a JSON file" optional:""`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("holdem"),
		kong.Description("Texas Hold'em engine playground"))

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
	if cli.Verbose {
		logger.SetLevel(log.DebugLevel)
	}

	if err := cli.Simulate.Run(logger); err != nil {
		logger.Fatal("simulation failed", "error", err)
	}
	ctx.Exit(0)
}

func (cmd *SimulateCmd) Run(logger *log.Logger) error {
	settings := config.Default()
	if cmd.Config != "" {
		file, err := config.Load(cmd.Config)
		if err != nil {
			return err
		}
		if len(file.Tables) > 0 {
			settings = file.Tables[0]
		}
	}

	seed := cmd.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	fmt.Println(titleStyle.Render(" ♠ ♥ holdem simulator ♦ ♣ "))

	results, err := simulator.Run(simulator.Config{
		Settings:   settings,
		Tables:     cmd.Tables,
		Players:    cmd.Players,
		Hands:      cmd.Hands,
		Seed:       seed,
		Strategies: strings.Split(cmd.Opponents, ","),
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	for _, table := range results.Tables {
		printTable(table)
	}

	if cmd.Output != "" {
		if err := writeResults(cmd.Output, seed, results); err != nil {
			return err
		}
		logger.Info("results written", "path", cmd.Output)
	}
	return nil
}

func printTable(table simulator.TableResult) {
	fmt.Printf("\ntable %s: %d hands\n", table.TableID, table.Hands)
	for i, p := range table.Players {
		chips := stackStyle.Render(fmt.Sprintf("%6d chips", p.Chips))
		line := fmt.Sprintf("  seat %d  %-10s %-7s %s", i, p.ID, p.Strategy, chips)

		if s := p.Stats; s != nil && s.Hands > 0 {
			mean := s.Mean()
			rate := fmt.Sprintf("%+.2f bb/hand", mean)
			if mean < 0 {
				rate = lossStyle.Render(rate)
			}
			line += fmt.Sprintf("  %s ±%.2f  (%d sd / %d fold wins)",
				rate, s.StdError(), s.ShowdownWins, s.FoldWins)
		}
		fmt.Println(line)
	}
}

// resultsFile is the JSON shape written by --output.
type resultsFile struct {
	Seed   int64         `json:"seed"`
	Tables []tableReport `json:"tables"`
}

type tableReport struct {
	TableID string         `json:"table_id"`
	Hands   int            `json:"hands"`
	Players []playerReport `json:"players"`
}

type playerReport struct {
	ID           string  `json:"id"`
	Strategy     string  `json:"strategy"`
	Chips        int     `json:"chips"`
	Hands        int     `json:"hands"`
	MeanBB       float64 `json:"mean_bb"`
	StdError     float64 `json:"std_error"`
	MedianBB     float64 `json:"median_bb"`
	ShowdownWins int     `json:"showdown_wins"`
	FoldWins     int     `json:"fold_wins"`
	MaxPotBB     float64 `json:"max_pot_bb"`
}

func writeResults(path string, seed int64, results *simulator.Results) error {
	out := resultsFile{Seed: seed}
	for _, table := range results.Tables {
		report := tableReport{TableID: table.TableID, Hands: table.Hands}
		for _, p := range table.Players {
			pr := playerReport{ID: p.ID, Strategy: p.Strategy, Chips: p.Chips}
			if s := p.Stats; s != nil {
				pr.Hands = s.Hands
				pr.MeanBB = s.Mean()
				pr.StdError = s.StdError()
				pr.MedianBB = s.Median()
				pr.ShowdownWins = s.ShowdownWins
				pr.FoldWins = s.FoldWins
				pr.MaxPotBB = s.MaxPotBB
			}
			report.Players = append(report.Players, pr)
		}
		out.Tables = append(out.Tables, report)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	return fileutil.WriteFileAtomic(path, data, 0o644)
}
