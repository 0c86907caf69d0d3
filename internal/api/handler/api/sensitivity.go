// internal/api/handler/api/sensitivity.go
package api

import (
	"encoding/json"
	"net/http"

	"github.com/prismlab/prism/internal/analytics"
	"github.com/prismlab/prism/internal/api/response"
	"github.com/prismlab/prism/internal/core"
)

// SensitivityRequest is the request body for building a sensitivity
// curve from already-computed sweep runs.
type SensitivityRequest struct {
	Metric string                  `json:"metric"`
	Points []core.SensitivityPoint `json:"points"`
}

// SensitivityHandler handles parameter sensitivity API requests.
type SensitivityHandler struct{}

// NewSensitivityHandler creates a new sensitivity handler.
func NewSensitivityHandler() *SensitivityHandler {
	return &SensitivityHandler{}
}

// Create orders sweep runs by parameter value and extracts the curve
// for one metric. POST /api/v1/sensitivity.
func (h *SensitivityHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		response.Error(w, http.StatusMethodNotAllowed,
			core.WrapError(core.ErrInvalidInput, nil))
		return
	}

	var req SensitivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrInvalidInput, err))
		return
	}

	curve, err := analytics.BuildSensitivityCurve(req.Points, req.Metric)
	if err != nil {
		response.Error(w, statusForError(err), err)
		return
	}

	values, err := analytics.SensitivityValues(curve, req.Metric)
	if err != nil {
		response.Error(w, statusForError(err), err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]any{
		"metric": req.Metric,
		"points": curve,
		"values": core.Floats(values),
	})
}
