// internal/api/handler/api/compare.go
package api

import (
	"encoding/json"
	"net/http"

	"github.com/prismlab/prism/internal/analytics"
	"github.com/prismlab/prism/internal/api/response"
	"github.com/prismlab/prism/internal/core"
	"github.com/prismlab/prism/internal/metrics"
	"github.com/prismlab/prism/internal/storage/archive"
)

// CompareRequest is the request body for a strategy comparison. Inline
// entries and archived run IDs may be mixed; table order follows the
// request order with inline entries first.
type CompareRequest struct {
	Strategies []CompareEntry `json:"strategies,omitempty"`
	RunIDs     []string       `json:"run_ids,omitempty"`
}

// CompareEntry is one inline strategy in a comparison request.
type CompareEntry struct {
	Name    string             `json:"name"`
	Metrics core.MetricsBundle `json:"metrics"`
}

// CompareHandler handles strategy comparison API requests.
type CompareHandler struct {
	runs     *archive.RunStore
	registry *metrics.Registry
}

// NewCompareHandler creates a new compare handler.
func NewCompareHandler(runs *archive.RunStore, registry *metrics.Registry) *CompareHandler {
	return &CompareHandler{runs: runs, registry: registry}
}

// Create builds a side-by-side comparison table. POST /api/v1/compare.
func (h *CompareHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		response.Error(w, http.StatusMethodNotAllowed,
			core.WrapError(core.ErrInvalidInput, nil))
		return
	}

	var req CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrInvalidInput, err))
		return
	}

	entries := make([]analytics.NamedBundle, 0, len(req.Strategies)+len(req.RunIDs))
	for _, s := range req.Strategies {
		entries = append(entries, analytics.NamedBundle{Name: s.Name, Bundle: s.Metrics})
	}

	for _, id := range req.RunIDs {
		if h.runs == nil {
			response.Error(w, http.StatusBadRequest,
				core.WrapError(core.ErrRunNotFound, nil))
			return
		}
		run, err := h.runs.Get(r.Context(), id)
		if err != nil {
			response.Error(w, statusForError(err), err)
			return
		}
		name := run.Strategy
		if name == "" {
			name = run.ID
		}
		entries = append(entries, analytics.NamedBundle{Name: name, Bundle: run.Bundle})
	}

	table, err := analytics.CompareStrategies(entries)
	if err != nil {
		response.Error(w, statusForError(err), err)
		return
	}

	if h.registry != nil {
		h.registry.RecordComparison()
	}

	response.JSON(w, http.StatusOK, table)
}
