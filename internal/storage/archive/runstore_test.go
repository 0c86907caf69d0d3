package archive

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prismlab/prism/internal/core"
)

func newTestStore(t *testing.T) *RunStore {
	t.Helper()
	fs, err := NewLocalFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalFS: %v", err)
	}
	return NewRunStore(fs)
}

func TestRunStore_SaveAssignsID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	stored, err := store.Save(ctx, &core.AnalysisResult{
		Strategy: "ma_crossover",
		Bundle:   core.MetricsBundle{TotalReturn: 0.15},
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if stored.ID == "" {
		t.Error("expected a generated run ID")
	}
	if stored.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestRunStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	stored, err := store.Save(ctx, &core.AnalysisResult{
		Strategy: "pe_band",
		Bundle:   core.MetricsBundle{SharpeRatio: 1.2, TotalTrades: 18},
		Returns:  []float64{0, 0.01, -0.02},
		Drawdown: []float64{0, 0, -0.02},
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Get(ctx, stored.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if got.Strategy != "pe_band" {
		t.Errorf("Strategy = %q, want pe_band", got.Strategy)
	}
	if got.Bundle.SharpeRatio != 1.2 || got.Bundle.TotalTrades != 18 {
		t.Errorf("bundle mismatch: %+v", got.Bundle)
	}
	if len(got.Returns) != 3 || len(got.Drawdown) != 3 {
		t.Error("series not preserved")
	}
}

func TestRunStore_GetMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), "no-such-run")
	if !errors.Is(err, core.ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestRunStore_List(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	older := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	if _, err := store.Save(ctx, &core.AnalysisResult{Strategy: "old", CreatedAt: older}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := store.Save(ctx, &core.AnalysisResult{Strategy: "new", CreatedAt: newer}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	summaries, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	if len(summaries) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(summaries))
	}
	// Newest first.
	if summaries[0].Strategy != "new" {
		t.Errorf("summaries[0].Strategy = %q, want new", summaries[0].Strategy)
	}
}

func TestRunStore_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	stored, err := store.Save(ctx, &core.AnalysisResult{})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := store.Delete(ctx, stored.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := store.Get(ctx, stored.ID); !errors.Is(err, core.ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound after delete, got %v", err)
	}

	if err := store.Delete(ctx, stored.ID); !errors.Is(err, core.ErrRunNotFound) {
		t.Errorf("deleting a missing run should be ErrRunNotFound, got %v", err)
	}
}

func TestRunStore_Count(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := store.Save(ctx, &core.AnalysisResult{}); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	n, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 3 {
		t.Errorf("Count = %d, want 3", n)
	}
}
