// Package store persists input presets and quote snapshots in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Simplici0/docquote/internal/pricing"
)

// timeLayout matches SQLite's CURRENT_TIMESTAMP so stored times sort as text.
const timeLayout = "2006-01-02 15:04:05"

// ErrNotFound is returned when a preset or quote does not exist.
var ErrNotFound = errors.New("not found")

// Store reads and writes presets and quote snapshots.
type Store struct {
	db *sql.DB
}

// New wraps an open, migrated database.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Preset is a named, reusable set of inputs.
type Preset struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Inputs      pricing.Inputs `json:"inputs"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// Totals is the headline summary stored alongside every quote snapshot.
type Totals struct {
	CapexPrice      float64 `json:"capexPrice"`
	OpexAnnualPrice float64 `json:"opexAnnualPrice"`
	Total           float64 `json:"total"`
	GrossMargin     float64 `json:"grossMargin"`
}

// Quote is a saved computation. Result is the snapshot as computed at save
// time; it is never recomputed on read.
type Quote struct {
	ID          string         `json:"id"`
	CreatedAt   time.Time      `json:"createdAt"`
	Title       string         `json:"title"`
	Notes       string         `json:"notes"`
	ScenarioKey string         `json:"scenarioKey"`
	Inputs      pricing.Inputs `json:"inputs"`
	Result      pricing.Result `json:"result"`
	Totals      Totals         `json:"totals"`
}

// QuoteSummary is a list row for saved quotes.
type QuoteSummary struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	Title       string    `json:"title"`
	ScenarioKey string    `json:"scenarioKey"`
	Total       float64   `json:"total"`
}

// SavePreset inserts or replaces the preset with p.Name.
func (s *Store) SavePreset(ctx context.Context, p Preset) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("preset name is required")
	}
	raw, err := json.Marshal(p.Inputs)
	if err != nil {
		return fmt.Errorf("encode preset inputs: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO presets (name, description, inputs_json)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			description = excluded.description,
			inputs_json = excluded.inputs_json,
			updated_at = CURRENT_TIMESTAMP
	`, p.Name, p.Description, string(raw))
	if err != nil {
		return fmt.Errorf("upsert preset: %w", err)
	}
	return nil
}

// GetPreset returns the preset stored under name.
func (s *Store) GetPreset(ctx context.Context, name string) (Preset, error) {
	var p Preset
	var raw string
	err := s.db.QueryRowContext(ctx, `
		SELECT name, description, inputs_json, updated_at
		FROM presets
		WHERE name = ?
	`, name).Scan(&p.Name, &p.Description, &raw, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Preset{}, fmt.Errorf("preset %q: %w", name, ErrNotFound)
		}
		return Preset{}, fmt.Errorf("query preset: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), &p.Inputs); err != nil {
		return Preset{}, fmt.Errorf("decode preset inputs: %w", err)
	}
	return p, nil
}

// ListPresets returns every preset ordered by name.
func (s *Store) ListPresets(ctx context.Context) ([]Preset, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, description, inputs_json, updated_at
		FROM presets
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("query presets: %w", err)
	}
	defer rows.Close()

	presets := make([]Preset, 0)
	for rows.Next() {
		var p Preset
		var raw string
		if err := rows.Scan(&p.Name, &p.Description, &raw, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan preset: %w", err)
		}
		if err := json.Unmarshal([]byte(raw), &p.Inputs); err != nil {
			return nil, fmt.Errorf("decode preset %q: %w", p.Name, err)
		}
		presets = append(presets, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate presets: %w", err)
	}
	return presets, nil
}

// SaveQuote stores a snapshot of a computed quote and returns it with its new ID.
func (s *Store) SaveQuote(ctx context.Context, title, notes string, in pricing.Inputs, res pricing.Result) (Quote, error) {
	if strings.TrimSpace(title) == "" {
		return Quote{}, fmt.Errorf("quote title is required")
	}

	q := Quote{
		ID:          uuid.NewString(),
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
		Title:       title,
		Notes:       notes,
		ScenarioKey: res.ScenarioKey,
		Inputs:      in,
		Result:      res,
		Totals:      totalsOf(res),
	}

	inputsJSON, err := json.Marshal(q.Inputs)
	if err != nil {
		return Quote{}, fmt.Errorf("encode quote inputs: %w", err)
	}
	resultJSON, err := json.Marshal(q.Result)
	if err != nil {
		return Quote{}, fmt.Errorf("encode quote result: %w", err)
	}
	totalsJSON, err := json.Marshal(q.Totals)
	if err != nil {
		return Quote{}, fmt.Errorf("encode quote totals: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO quotes (id, created_at, title, notes, scenario_key, inputs_json, result_json, totals_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, q.ID, q.CreatedAt.Format(timeLayout), q.Title, q.Notes, q.ScenarioKey, string(inputsJSON), string(resultJSON), string(totalsJSON))
	if err != nil {
		return Quote{}, fmt.Errorf("insert quote: %w", err)
	}
	return q, nil
}

// GetQuote returns the saved snapshot with the given ID.
func (s *Store) GetQuote(ctx context.Context, id string) (Quote, error) {
	var q Quote
	var inputsJSON, resultJSON, totalsJSON string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, title, notes, scenario_key, inputs_json, result_json, totals_json
		FROM quotes
		WHERE id = ?
	`, id).Scan(&q.ID, &q.CreatedAt, &q.Title, &q.Notes, &q.ScenarioKey, &inputsJSON, &resultJSON, &totalsJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Quote{}, fmt.Errorf("quote %q: %w", id, ErrNotFound)
		}
		return Quote{}, fmt.Errorf("query quote: %w", err)
	}

	if err := json.Unmarshal([]byte(inputsJSON), &q.Inputs); err != nil {
		return Quote{}, fmt.Errorf("decode quote inputs: %w", err)
	}
	if err := json.Unmarshal([]byte(resultJSON), &q.Result); err != nil {
		return Quote{}, fmt.Errorf("decode quote result: %w", err)
	}
	if err := json.Unmarshal([]byte(totalsJSON), &q.Totals); err != nil {
		return Quote{}, fmt.Errorf("decode quote totals: %w", err)
	}
	return q, nil
}

// ListQuotes returns saved quotes, newest first, optionally filtered by a
// substring of the title or notes.
func (s *Store) ListQuotes(ctx context.Context, query string) ([]QuoteSummary, error) {
	search := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, title, scenario_key, totals_json
		FROM quotes
		WHERE (? = '' OR title LIKE ? OR notes LIKE ?)
		ORDER BY created_at DESC, rowid DESC
	`, query, search, search)
	if err != nil {
		return nil, fmt.Errorf("query quotes: %w", err)
	}
	defer rows.Close()

	quotes := make([]QuoteSummary, 0)
	for rows.Next() {
		var item QuoteSummary
		var totalsJSON string
		if err := rows.Scan(&item.ID, &item.CreatedAt, &item.Title, &item.ScenarioKey, &totalsJSON); err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		item.Total = extractTotal(totalsJSON)
		quotes = append(quotes, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quotes: %w", err)
	}
	return quotes, nil
}

func totalsOf(res pricing.Result) Totals {
	return Totals{
		CapexPrice:      res.Capex.Price,
		OpexAnnualPrice: res.OpexAnnual.Price,
		Total:           res.TotalQuote.Price,
		GrossMargin:     res.GrossMargin,
	}
}

func extractTotal(totalsJSON string) float64 {
	var t Totals
	if err := json.Unmarshal([]byte(totalsJSON), &t); err != nil {
		return 0
	}
	return t.Total
}
