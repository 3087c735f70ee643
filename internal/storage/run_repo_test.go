package storage

import (
	"context"
	"testing"
	"time"
)

func TestRunRepo_InsertAndList(t *testing.T) {
	repo := NewRunRepo(newTestDB(t))
	ctx := context.Background()

	runs := []*IngestRun{
		{
			StartedAt:     time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
			Duration:      2 * time.Second,
			DocsProcessed: 68,
			ChunksIndexed: 540,
			PairingSkips:  1,
			DocFailures:   0,
			Strict:        false,
		},
		{
			StartedAt:     time.Date(2026, 8, 2, 10, 0, 0, 0, time.UTC),
			Duration:      1500 * time.Millisecond,
			DocsProcessed: 70,
			ChunksIndexed: 555,
			PairingSkips:  0,
			DocFailures:   2,
			Strict:        true,
		},
	}
	for _, run := range runs {
		if err := repo.Insert(ctx, run); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	got, err := repo.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListRecent() returned %d runs, want 2", len(got))
	}

	// Newest first.
	if got[0].DocsProcessed != 70 {
		t.Errorf("first run DocsProcessed = %d, want newest run (70)", got[0].DocsProcessed)
	}
	if !got[0].Strict {
		t.Error("first run Strict = false, want true")
	}
	if got[0].Duration != 1500*time.Millisecond {
		t.Errorf("first run Duration = %v, want 1.5s", got[0].Duration)
	}
	if got[1].ChunksIndexed != 540 {
		t.Errorf("second run ChunksIndexed = %d, want 540", got[1].ChunksIndexed)
	}
	if got[1].StartedAt.IsZero() {
		t.Error("StartedAt not round-tripped")
	}
}

func TestRunRepo_ListRecent_Limit(t *testing.T) {
	repo := NewRunRepo(newTestDB(t))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		run := &IngestRun{StartedAt: time.Now().UTC(), DocsProcessed: i}
		if err := repo.Insert(ctx, run); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	got, err := repo.ListRecent(ctx, 3)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(got) != 3 {
		t.Errorf("ListRecent(3) returned %d runs", len(got))
	}

	// Non-positive limits fall back to the default of 10.
	all, err := repo.ListRecent(ctx, 0)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(all) != 5 {
		t.Errorf("ListRecent(0) returned %d runs, want 5", len(all))
	}
}

func TestRunRepo_ListRecent_Empty(t *testing.T) {
	repo := NewRunRepo(newTestDB(t))

	got, err := repo.ListRecent(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("ListRecent() on empty table returned %d runs", len(got))
	}
}
