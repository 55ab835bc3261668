package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/Simplici0/docquote/internal/db"
	"github.com/Simplici0/docquote/internal/migrations"
	"github.com/Simplici0/docquote/internal/pricing"
	"github.com/Simplici0/docquote/internal/scenario"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	database, err := db.Open(context.Background(), filepath.Join(t.TempDir(), "store-test.db"))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})

	if err := migrations.Up(database); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return New(database)
}

func computeStandard(t *testing.T, in pricing.Inputs) pricing.Result {
	t.Helper()
	s, err := scenario.Default().Get(scenario.Standard)
	if err != nil {
		t.Fatalf("get scenario: %v", err)
	}
	return pricing.Compute(in, s)
}

func TestPresetUpsertAndGet(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	in := pricing.DefaultInputs()
	if err := st.SavePreset(ctx, Preset{Name: "county", Description: "first", Inputs: in}); err != nil {
		t.Fatalf("SavePreset: %v", err)
	}

	in.NSites = 500
	if err := st.SavePreset(ctx, Preset{Name: "county", Description: "second", Inputs: in}); err != nil {
		t.Fatalf("SavePreset update: %v", err)
	}

	got, err := st.GetPreset(ctx, "county")
	if err != nil {
		t.Fatalf("GetPreset: %v", err)
	}
	if got.Description != "second" || got.Inputs.NSites != 500 || got.Inputs.MixLease != 0.5 {
		t.Fatalf("unexpected preset: %+v", got)
	}

	list, err := st.ListPresets(ctx)
	if err != nil {
		t.Fatalf("ListPresets: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 preset after upsert, got %d", len(list))
	}
}

func TestPresetValidationAndNotFound(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	if err := st.SavePreset(ctx, Preset{Name: "  "}); err == nil {
		t.Fatalf("expected error for blank name")
	}
	if _, err := st.GetPreset(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestQuoteSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	in := pricing.DefaultInputs()
	res := computeStandard(t, in)

	saved, err := st.SaveQuote(ctx, "County archive", "phase one", in, res)
	if err != nil {
		t.Fatalf("SaveQuote: %v", err)
	}
	if saved.ID == "" {
		t.Fatalf("expected generated id")
	}

	got, err := st.GetQuote(ctx, saved.ID)
	if err != nil {
		t.Fatalf("GetQuote: %v", err)
	}
	if got.Title != "County archive" || got.ScenarioKey != scenario.Standard {
		t.Fatalf("unexpected quote header: %+v", got)
	}
	if got.Result.TotalQuote.Price != res.TotalQuote.Price || got.Totals.Total != res.TotalQuote.Price {
		t.Fatalf("snapshot total %v, want %v", got.Result.TotalQuote.Price, res.TotalQuote.Price)
	}
	if len(got.Result.LineItems) != len(res.LineItems) {
		t.Fatalf("snapshot has %d line items, want %d", len(got.Result.LineItems), len(res.LineItems))
	}
	if !got.CreatedAt.Equal(saved.CreatedAt) {
		t.Fatalf("createdAt = %v, want %v", got.CreatedAt, saved.CreatedAt)
	}
}

func TestGetQuoteReadsSnapshotWithoutRecalculation(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	in := pricing.DefaultInputs()
	res := computeStandard(t, in)
	saved, err := st.SaveQuote(ctx, "Frozen", "", in, res)
	if err != nil {
		t.Fatalf("SaveQuote: %v", err)
	}

	if _, err := st.db.Exec(`UPDATE quotes SET totals_json = ? WHERE id = ?`, `{"total": 999.99}`, saved.ID); err != nil {
		t.Fatalf("tamper totals: %v", err)
	}

	got, err := st.GetQuote(ctx, saved.ID)
	if err != nil {
		t.Fatalf("GetQuote: %v", err)
	}
	if got.Totals.Total != 999.99 {
		t.Fatalf("expected stored total 999.99, got %v", got.Totals.Total)
	}
}

func TestListQuotesOrdersByDateDescAndFilters(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	in := pricing.DefaultInputs()
	res := computeStandard(t, in)

	ids := make(map[string]string)
	for _, q := range []struct{ title, notes, createdAt string }{
		{"Primera", "county records", "2024-01-01 10:00:00"},
		{"Tercera", "urgent", "2024-01-03 12:00:00"},
		{"Segunda", "county deeds", "2024-01-02 11:00:00"},
	} {
		saved, err := st.SaveQuote(ctx, q.title, q.notes, in, res)
		if err != nil {
			t.Fatalf("SaveQuote: %v", err)
		}
		if _, err := st.db.Exec(`UPDATE quotes SET created_at = ? WHERE id = ?`, q.createdAt, saved.ID); err != nil {
			t.Fatalf("set created_at: %v", err)
		}
		ids[q.title] = saved.ID
	}

	all, err := st.ListQuotes(ctx, "")
	if err != nil {
		t.Fatalf("ListQuotes: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 quotes, got %d", len(all))
	}
	if all[0].Title != "Tercera" || all[1].Title != "Segunda" || all[2].Title != "Primera" {
		t.Fatalf("quotes are not sorted desc by created_at: %+v", all)
	}
	if all[0].Total != res.TotalQuote.Price {
		t.Fatalf("unexpected list total: %v", all[0].Total)
	}

	county, err := st.ListQuotes(ctx, "county")
	if err != nil {
		t.Fatalf("ListQuotes filter: %v", err)
	}
	if len(county) != 2 || county[0].ID != ids["Segunda"] {
		t.Fatalf("expected 2 quotes filtered by notes, got %+v", county)
	}
}

func TestGetQuoteNotFound(t *testing.T) {
	st := newTestStore(t)
	if _, err := st.GetQuote(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
