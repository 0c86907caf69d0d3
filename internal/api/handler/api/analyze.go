// internal/api/handler/api/analyze.go
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/prismlab/prism/internal/analytics"
	"github.com/prismlab/prism/internal/api/response"
	"github.com/prismlab/prism/internal/core"
	"github.com/prismlab/prism/internal/metrics"
	"github.com/prismlab/prism/internal/narrator"
	"github.com/prismlab/prism/internal/storage/archive"
)

// AnalyzeRequest is the request body for a one-shot analysis.
type AnalyzeRequest struct {
	Strategy  string             `json:"strategy"`
	Equity    []core.EquityPoint `json:"equity"`
	Trades    []core.Trade       `json:"trades,omitempty"`
	Params    ParamsRequest      `json:"params,omitempty"`
	Save      bool               `json:"save,omitempty"`
	Narrative bool               `json:"narrative,omitempty"`
}

// ParamsRequest carries optional per-request analysis parameters.
type ParamsRequest struct {
	PeriodsPerYear int     `json:"periods_per_year,omitempty"`
	RiskFreeRate   float64 `json:"risk_free_rate,omitempty"`
}

func (p ParamsRequest) merge(defaults analytics.Params) analytics.Params {
	out := defaults
	if p.PeriodsPerYear > 0 {
		out.PeriodsPerYear = p.PeriodsPerYear
	}
	if p.RiskFreeRate != 0 {
		out.RiskFreeRate = p.RiskFreeRate
	}
	return out
}

// AnalyzeHandler handles analysis API requests.
type AnalyzeHandler struct {
	defaults analytics.Params
	runs     *archive.RunStore
	narr     *narrator.Narrator
	registry *metrics.Registry
	logger   *zap.Logger
}

// NewAnalyzeHandler creates a new analyze handler. The run store and
// narrator may be nil when archiving or narration is not configured.
func NewAnalyzeHandler(
	defaults analytics.Params,
	runs *archive.RunStore,
	narr *narrator.Narrator,
	registry *metrics.Registry,
	logger *zap.Logger,
) *AnalyzeHandler {
	return &AnalyzeHandler{
		defaults: defaults,
		runs:     runs,
		narr:     narr,
		registry: registry,
		logger:   logger,
	}
}

// Create computes a full metrics bundle for one equity curve and trade
// log. POST /api/v1/analyze.
func (h *AnalyzeHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		response.Error(w, http.StatusMethodNotAllowed,
			core.WrapError(core.ErrInvalidInput, nil))
		return
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrInvalidInput, err))
		return
	}

	start := time.Now()
	result, err := analytics.Analyze(req.Equity, req.Trades, req.Params.merge(h.defaults))
	if err != nil {
		if h.registry != nil {
			h.registry.RecordAnalysis("error", time.Since(start).Seconds())
		}
		response.Error(w, statusForError(err), err)
		return
	}
	result.Strategy = req.Strategy

	if h.registry != nil {
		h.registry.RecordAnalysis("success", time.Since(start).Seconds())
	}

	if req.Save && h.runs != nil {
		saved, err := h.runs.Save(r.Context(), result)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, err)
			return
		}
		result = saved
	}

	resp := map[string]any{"result": result}
	if req.Narrative {
		resp["narrative"] = narrate(r.Context(), h.narr, h.registry, h.logger, result.Bundle, nil)
	}

	response.JSON(w, http.StatusOK, resp)
}
