// internal/api/handler/api/advice.go
package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/prismlab/prism/internal/advisor"
	"github.com/prismlab/prism/internal/api/response"
	"github.com/prismlab/prism/internal/core"
	"github.com/prismlab/prism/internal/metrics"
	"github.com/prismlab/prism/internal/narrator"
)

// AdviceRequest is the request body for rule-based advice generation.
type AdviceRequest struct {
	Metrics     core.MetricsBundle `json:"metrics"`
	TradingDays int                `json:"trading_days"`
	Narrative   bool               `json:"narrative,omitempty"`
}

// AdviceHandler handles optimization advice API requests.
type AdviceHandler struct {
	advisor  *advisor.Advisor
	narr     *narrator.Narrator
	registry *metrics.Registry
	logger   *zap.Logger
}

// NewAdviceHandler creates a new advice handler. The narrator may be
// nil when narration is not configured.
func NewAdviceHandler(
	adv *advisor.Advisor,
	narr *narrator.Narrator,
	registry *metrics.Registry,
	logger *zap.Logger,
) *AdviceHandler {
	return &AdviceHandler{advisor: adv, narr: narr, registry: registry, logger: logger}
}

// Create evaluates the advice rules against a metrics bundle.
// POST /api/v1/advice.
func (h *AdviceHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		response.Error(w, http.StatusMethodNotAllowed,
			core.WrapError(core.ErrInvalidInput, nil))
		return
	}

	var req AdviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrInvalidInput, err))
		return
	}

	items, err := h.advisor.Generate(req.Metrics, req.TradingDays)
	if err != nil {
		response.Error(w, statusForError(err), err)
		return
	}

	resp := map[string]any{
		"advice":     items,
		"benchmarks": h.advisor.Benchmarks(),
	}

	if req.Narrative {
		resp["narrative"] = narrate(r.Context(), h.narr, h.registry, h.logger, req.Metrics, items)
	}

	response.JSON(w, http.StatusOK, resp)
}
