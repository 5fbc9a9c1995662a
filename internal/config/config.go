// Package config loads table rules from HCL files. A missing file yields
// the defaults, so embedding applications can run with zero configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/cardroomlabs/holdem/internal/game"
)

// File is the root of a holdem configuration file.
type File struct {
	Tables []TableSettings `hcl:"table,block"`
}

// TableSettings defines one table's rules.
type TableSettings struct {
	Name          string `hcl:"name,label"`
	SmallBlind    int    `hcl:"small_blind"`
	BigBlind      int    `hcl:"big_blind"`
	ActionTimeout int    `hcl:"action_timeout,optional"` // seconds, 0 disables
	MinBuyIn      int    `hcl:"min_buy_in,optional"`
	MaxBuyIn      int    `hcl:"max_buy_in,optional"`
	MaxPlayers    int    `hcl:"max_players,optional"`
}

// Default returns the settings used when no file is present: 10/20
// blinds, 30 second turns, 1000-10000 buy-in, six-handed.
func Default() TableSettings {
	return TableSettings{
		Name:          "main",
		SmallBlind:    10,
		BigBlind:      20,
		ActionTimeout: 30,
		MinBuyIn:      1000,
		MaxBuyIn:      10000,
		MaxPlayers:    6,
	}
}

// Load parses an HCL configuration file.
func Load(filename string) (*File, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data, filename)
}

// Parse decodes HCL bytes. The filename is used only for diagnostics.
func Parse(data []byte, filename string) (*File, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing %s: %s", filename, diags.Error())
	}

	var file File
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &file); diags.HasErrors() {
		return nil, fmt.Errorf("decoding %s: %s", filename, diags.Error())
	}

	for i, tbl := range file.Tables {
		if err := validate(tbl); err != nil {
			return nil, fmt.Errorf("table %q: %w", tbl.Name, err)
		}
		file.Tables[i] = withDefaults(tbl)
	}
	return &file, nil
}

func validate(tbl TableSettings) error {
	if tbl.SmallBlind <= 0 || tbl.BigBlind <= 0 {
		return fmt.Errorf("blinds must be positive, got %d/%d", tbl.SmallBlind, tbl.BigBlind)
	}
	if tbl.SmallBlind >= tbl.BigBlind {
		return fmt.Errorf("small blind %d must be below big blind %d", tbl.SmallBlind, tbl.BigBlind)
	}
	if tbl.MinBuyIn > 0 && tbl.MaxBuyIn > 0 && tbl.MinBuyIn > tbl.MaxBuyIn {
		return fmt.Errorf("min buy-in %d above max buy-in %d", tbl.MinBuyIn, tbl.MaxBuyIn)
	}
	return nil
}

func withDefaults(tbl TableSettings) TableSettings {
	def := Default()
	if tbl.MinBuyIn == 0 {
		tbl.MinBuyIn = def.MinBuyIn
	}
	if tbl.MaxBuyIn == 0 {
		tbl.MaxBuyIn = def.MaxBuyIn
	}
	if tbl.MaxPlayers == 0 {
		tbl.MaxPlayers = def.MaxPlayers
	}
	return tbl
}

// TableConfig converts settings into the engine's config type.
func (s TableSettings) TableConfig() game.Config {
	return game.Config{
		SmallBlind:    s.SmallBlind,
		BigBlind:      s.BigBlind,
		ActionTimeout: time.Duration(s.ActionTimeout) * time.Second,
		MinBuyIn:      s.MinBuyIn,
		MaxBuyIn:      s.MaxBuyIn,
		MaxPlayers:    s.MaxPlayers,
	}
}
