// internal/api/job/store_test.go
package job

import (
	"errors"
	"testing"
	"time"

	"github.com/prismlab/prism/internal/core"
)

func TestStore_CreateAndGet(t *testing.T) {
	store := NewStore(10, time.Hour)

	j := store.Create("sweep")
	if j.ID == "" {
		t.Fatal("expected job ID")
	}
	if j.Status != StatusPending {
		t.Errorf("expected pending status, got %s", j.Status)
	}

	got, err := store.Get(j.ID)
	if err != nil {
		t.Fatalf("failed to get job: %v", err)
	}
	if got.Type != "sweep" {
		t.Errorf("expected type sweep, got %s", got.Type)
	}
}

func TestStore_UniqueIDs(t *testing.T) {
	store := NewStore(10, time.Hour)

	a := store.Create("sweep")
	b := store.Create("sweep")
	if a.ID == b.ID {
		t.Errorf("expected unique IDs, both were %s", a.ID)
	}
}

func TestStore_Get_NotFound(t *testing.T) {
	store := NewStore(10, time.Hour)

	_, err := store.Get("missing")
	if !errors.Is(err, core.ErrJobNotFound) {
		t.Errorf("expected ErrJobNotFound, got %v", err)
	}
}

func TestStore_Update(t *testing.T) {
	store := NewStore(10, time.Hour)

	j := store.Create("sweep")
	err := store.Update(j.ID, func(job *Job) {
		job.Status = StatusComplete
		job.Progress = 100
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	got, _ := store.Get(j.ID)
	if got.Status != StatusComplete {
		t.Errorf("expected complete, got %s", got.Status)
	}
	if got.Progress != 100 {
		t.Errorf("expected progress 100, got %d", got.Progress)
	}
}

func TestStore_Update_NotFound(t *testing.T) {
	store := NewStore(10, time.Hour)

	err := store.Update("missing", func(j *Job) {})
	if !errors.Is(err, core.ErrJobNotFound) {
		t.Errorf("expected ErrJobNotFound, got %v", err)
	}
}

func TestStore_EvictsOldestAtCapacity(t *testing.T) {
	store := NewStore(2, time.Hour)

	first := store.Create("sweep")
	store.Create("sweep")
	store.Create("sweep")

	if _, err := store.Get(first.ID); !errors.Is(err, core.ErrJobNotFound) {
		t.Errorf("expected oldest job evicted, got %v", err)
	}
	if len(store.List()) != 2 {
		t.Errorf("expected 2 jobs, got %d", len(store.List()))
	}
}

func TestStore_EvictionSkipsActiveJobs(t *testing.T) {
	store := NewStore(2, time.Hour)

	running := store.Create("sweep")
	finished := store.Create("sweep")
	store.Update(running.ID, func(j *Job) { j.Status = StatusRunning })
	store.Update(finished.ID, func(j *Job) { j.Status = StatusComplete })

	store.Create("sweep")

	// The newer finished job goes instead of the older running one,
	// which must stay pollable until it reaches a terminal status.
	if _, err := store.Get(finished.ID); !errors.Is(err, core.ErrJobNotFound) {
		t.Errorf("expected finished job evicted, got %v", err)
	}
	if _, err := store.Get(running.ID); err != nil {
		t.Errorf("running job must survive eviction: %v", err)
	}
}

func TestStore_EvictionFallsBackToOldestWhenAllActive(t *testing.T) {
	store := NewStore(2, time.Hour)

	first := store.Create("sweep")
	second := store.Create("sweep")
	store.Update(first.ID, func(j *Job) { j.Status = StatusRunning })

	store.Create("sweep")

	if _, err := store.Get(first.ID); !errors.Is(err, core.ErrJobNotFound) {
		t.Errorf("expected oldest job evicted when none finished, got %v", err)
	}
	if _, err := store.Get(second.ID); err != nil {
		t.Errorf("newer pending job must survive: %v", err)
	}
}

func TestStore_PurgesExpired(t *testing.T) {
	store := NewStore(10, time.Millisecond)

	old := store.Create("sweep")
	time.Sleep(5 * time.Millisecond)

	// Creating a new job triggers the purge
	store.Create("sweep")

	if _, err := store.Get(old.ID); !errors.Is(err, core.ErrJobNotFound) {
		t.Errorf("expected expired job purged, got %v", err)
	}
}

func TestStore_GetReturnsCopy(t *testing.T) {
	store := NewStore(10, time.Hour)

	j := store.Create("sweep")
	got, _ := store.Get(j.ID)
	got.Status = StatusFailed

	again, _ := store.Get(j.ID)
	if again.Status != StatusPending {
		t.Errorf("mutation of returned copy leaked into store: %s", again.Status)
	}
}

func TestStore_CountActive(t *testing.T) {
	store := NewStore(10, time.Hour)

	a := store.Create("sweep")
	store.Create("sweep")
	store.Update(a.ID, func(j *Job) { j.Status = StatusComplete })

	if n := store.CountActive(); n != 1 {
		t.Errorf("expected 1 active job, got %d", n)
	}
}
