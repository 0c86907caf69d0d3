package archive

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prismlab/prism/internal/core"
)

const runPrefix = "runs"

// RunStore persists analysis results as JSON documents, one per run,
// keyed by a generated run ID.
type RunStore struct {
	backend Backend
}

// NewRunStore creates a run store over the given backend.
func NewRunStore(backend Backend) *RunStore {
	return &RunStore{backend: backend}
}

// RunSummary is the listing entry for an archived run.
type RunSummary struct {
	ID        string    `json:"id"`
	Strategy  string    `json:"strategy,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func runPath(id string) string {
	return runPrefix + "/" + id + ".json"
}

// Save archives one analysis result, assigning a run ID when the
// result does not carry one yet. It returns the stored result.
func (s *RunStore) Save(ctx context.Context, result *core.AnalysisResult) (*core.AnalysisResult, error) {
	if result == nil {
		return nil, core.ErrInvalidInput
	}
	stored := *result
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(&stored)
	if err != nil {
		return nil, core.WrapError(core.ErrArchiveFailed, err)
	}
	if err := s.backend.Put(ctx, runPath(stored.ID), data); err != nil {
		return nil, core.WrapError(core.ErrArchiveFailed, err)
	}
	return &stored, nil
}

// Get loads one archived run by ID.
func (s *RunStore) Get(ctx context.Context, id string) (*core.AnalysisResult, error) {
	exists, err := s.backend.Exists(ctx, runPath(id))
	if err != nil {
		return nil, core.WrapError(core.ErrArchiveFailed, err)
	}
	if !exists {
		return nil, core.ErrRunNotFound
	}

	data, err := s.backend.Get(ctx, runPath(id))
	if err != nil {
		return nil, core.WrapError(core.ErrArchiveFailed, err)
	}

	var result core.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, core.WrapError(core.ErrArchiveFailed, err)
	}
	return &result, nil
}

// List returns summaries for every archived run, newest first.
func (s *RunStore) List(ctx context.Context) ([]RunSummary, error) {
	paths, err := s.backend.List(ctx, runPrefix)
	if err != nil {
		return nil, core.WrapError(core.ErrArchiveFailed, err)
	}

	summaries := make([]RunSummary, 0, len(paths))
	for _, path := range paths {
		if !strings.HasSuffix(path, ".json") {
			continue
		}
		data, err := s.backend.Get(ctx, path)
		if err != nil {
			return nil, core.WrapError(core.ErrArchiveFailed, err)
		}
		var result core.AnalysisResult
		if err := json.Unmarshal(data, &result); err != nil {
			continue // Skip unreadable documents rather than failing the listing
		}
		summaries = append(summaries, RunSummary{
			ID:        result.ID,
			Strategy:  result.Strategy,
			CreatedAt: result.CreatedAt,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	return summaries, nil
}

// Delete removes one archived run.
func (s *RunStore) Delete(ctx context.Context, id string) error {
	exists, err := s.backend.Exists(ctx, runPath(id))
	if err != nil {
		return core.WrapError(core.ErrArchiveFailed, err)
	}
	if !exists {
		return core.ErrRunNotFound
	}
	if err := s.backend.Delete(ctx, runPath(id)); err != nil {
		return core.WrapError(core.ErrArchiveFailed, err)
	}
	return nil
}

// Count returns the number of archived runs.
func (s *RunStore) Count(ctx context.Context) (int, error) {
	paths, err := s.backend.List(ctx, runPrefix)
	if err != nil {
		return 0, core.WrapError(core.ErrArchiveFailed, err)
	}
	n := 0
	for _, path := range paths {
		if strings.HasSuffix(path, ".json") {
			n++
		}
	}
	return n, nil
}
