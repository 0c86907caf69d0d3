// internal/api/handler/api/runs.go
package api

import (
	"net/http"

	"github.com/prismlab/prism/internal/api/response"
	"github.com/prismlab/prism/internal/core"
	"github.com/prismlab/prism/internal/metrics"
	"github.com/prismlab/prism/internal/storage/archive"
)

// RunsHandler handles archived run API requests.
type RunsHandler struct {
	runs     *archive.RunStore
	registry *metrics.Registry
}

// NewRunsHandler creates a new runs handler.
func NewRunsHandler(runs *archive.RunStore, registry *metrics.Registry) *RunsHandler {
	return &RunsHandler{runs: runs, registry: registry}
}

// List returns summaries of all archived runs, newest first.
// GET /api/v1/runs.
func (h *RunsHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		response.Error(w, http.StatusMethodNotAllowed,
			core.WrapError(core.ErrInvalidInput, nil))
		return
	}

	summaries, err := h.runs.List(r.Context())
	if err != nil {
		response.Error(w, http.StatusInternalServerError, err)
		return
	}

	if h.registry != nil {
		h.registry.SetArchivedRuns(len(summaries))
	}

	response.JSON(w, http.StatusOK, map[string]any{
		"runs":  summaries,
		"count": len(summaries),
	})
}

// Get returns one archived run in full. GET /api/v1/runs/{id}.
func (h *RunsHandler) Get(w http.ResponseWriter, r *http.Request, id string) {
	run, err := h.runs.Get(r.Context(), id)
	if err != nil {
		response.Error(w, statusForError(err), err)
		return
	}
	response.JSON(w, http.StatusOK, run)
}

// Delete removes one archived run. DELETE /api/v1/runs/{id}.
func (h *RunsHandler) Delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.runs.Delete(r.Context(), id); err != nil {
		response.Error(w, statusForError(err), err)
		return
	}

	if h.registry != nil {
		if n, err := h.runs.Count(r.Context()); err == nil {
			h.registry.SetArchivedRuns(n)
		}
	}

	response.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}
