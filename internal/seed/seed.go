package seed

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Simplici0/docquote/internal/pricing"
)

// BaselinePreset is the name of the preset holding the default assumptions.
const BaselinePreset = "baseline"

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

type preset struct {
	name        string
	description string
	inputs      pricing.Inputs
}

func presets() []preset {
	pilot := pricing.DefaultInputs()
	pilot.NSites = 500
	pilot.DaysFrontend = 0
	pilot.SupportHours = 4

	return []preset{
		{BaselinePreset, "Default assumptions for a national site estate", pricing.DefaultInputs()},
		{"pilot", "Single-region pilot without a client-facing UI", pilot},
	}
}

// Run executes the startup seed in an idempotent way. Existing presets are
// never overwritten.
func Run(ctx context.Context, db *sql.DB) (Stats, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}
	for _, p := range presets() {
		if err := ensurePreset(ctx, tx, p, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensurePreset(ctx context.Context, tx *sql.Tx, p preset, stats *Stats) error {
	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM presets WHERE name = ? LIMIT 1)`, p.name).Scan(&exists); err != nil {
		return fmt.Errorf("check preset %q existence: %w", p.name, err)
	}
	if exists {
		return nil
	}

	raw, err := json.Marshal(p.inputs)
	if err != nil {
		return fmt.Errorf("encode preset %q: %w", p.name, err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO presets (name, description, inputs_json)
		VALUES (?, ?, ?)
	`, p.name, p.description, string(raw)); err != nil {
		return fmt.Errorf("insert preset %q: %w", p.name, err)
	}
	stats.Inserts++
	return nil
}
