// internal/api/handler/api/sweeps.go
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/prismlab/prism/internal/analytics"
	"github.com/prismlab/prism/internal/api/job"
	"github.com/prismlab/prism/internal/api/response"
	"github.com/prismlab/prism/internal/core"
	"github.com/prismlab/prism/internal/metrics"
)

// SweepRequest is the request body for starting a parameter sweep.
type SweepRequest struct {
	Metrics []string      `json:"metrics"`
	Runs    []SweepRun    `json:"runs"`
	Params  ParamsRequest `json:"params,omitempty"`
}

// SweepRun is one parameter value of a sweep with its raw run data.
type SweepRun struct {
	ParamValue float64            `json:"param_value"`
	Equity     []core.EquityPoint `json:"equity"`
	Trades     []core.Trade       `json:"trades,omitempty"`
}

// SweepResult is the completed-job payload: one analyzed point per
// parameter value plus the ordered curve for each requested metric.
type SweepResult struct {
	Points []core.SensitivityPoint `json:"points"`
	Curves map[string][]core.Float `json:"curves"`
}

// SweepsHandler handles async parameter sweep API requests.
type SweepsHandler struct {
	jobStore *job.Store
	defaults analytics.Params
	registry *metrics.Registry
	logger   *zap.Logger
}

// NewSweepsHandler creates a new sweeps handler.
func NewSweepsHandler(
	jobStore *job.Store,
	defaults analytics.Params,
	registry *metrics.Registry,
	logger *zap.Logger,
) *SweepsHandler {
	return &SweepsHandler{
		jobStore: jobStore,
		defaults: defaults,
		registry: registry,
		logger:   logger,
	}
}

// Create starts a new sweep job. POST /api/v1/sweeps.
func (h *SweepsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req SweepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrInvalidInput, err))
		return
	}

	if len(req.Runs) == 0 {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrInvalidInput, nil))
		return
	}
	if len(req.Metrics) == 0 {
		req.Metrics = []string{analytics.MetricAnnualReturn}
	}
	for _, name := range req.Metrics {
		if _, err := analytics.MetricValue(core.MetricsBundle{}, name); err != nil {
			response.Error(w, statusForError(err), err)
			return
		}
	}

	// Reject duplicate parameter values before doing any work
	seen := make(map[float64]bool, len(req.Runs))
	for _, run := range req.Runs {
		if seen[run.ParamValue] {
			response.Error(w, http.StatusBadRequest,
				core.WrapError(core.ErrDuplicateParam, nil))
			return
		}
		seen[run.ParamValue] = true
	}

	j := h.jobStore.Create("sweep")
	jobID := j.ID
	status := j.Status

	go h.runSweep(jobID, req)

	if h.registry != nil {
		h.registry.SetJobsActive("sweep", h.jobStore.CountActive())
	}

	response.JSON(w, http.StatusAccepted, map[string]any{
		"job_id": jobID,
		"status": status,
	})
}

// runSweep analyzes every point and updates job status.
func (h *SweepsHandler) runSweep(jobID string, req SweepRequest) {
	h.jobStore.Update(jobID, func(j *job.Job) {
		j.Status = job.StatusRunning
	})

	start := time.Now()
	params := req.Params.merge(h.defaults)

	points := make([]core.SensitivityPoint, 0, len(req.Runs))
	for i, run := range req.Runs {
		result, err := analytics.Analyze(run.Equity, run.Trades, params)
		if err != nil {
			h.failSweep(jobID, start, err)
			return
		}
		points = append(points, core.SensitivityPoint{
			ParamValue: run.ParamValue,
			Bundle:     result.Bundle,
		})

		progress := (i + 1) * 100 / len(req.Runs)
		h.jobStore.Update(jobID, func(j *job.Job) {
			j.Progress = progress
		})
	}

	curves := make(map[string][]core.Float, len(req.Metrics))
	var ordered []core.SensitivityPoint
	for _, name := range req.Metrics {
		curve, err := analytics.BuildSensitivityCurve(points, name)
		if err != nil {
			h.failSweep(jobID, start, err)
			return
		}
		ordered = curve
		values, err := analytics.SensitivityValues(curve, name)
		if err != nil {
			h.failSweep(jobID, start, err)
			return
		}
		curves[name] = core.Floats(values)
	}

	h.jobStore.Update(jobID, func(j *job.Job) {
		j.Status = job.StatusComplete
		j.Progress = 100
		j.Result = SweepResult{Points: ordered, Curves: curves}
	})

	if h.registry != nil {
		h.registry.RecordSweep("success", time.Since(start).Seconds())
		h.registry.SetJobsActive("sweep", h.jobStore.CountActive())
	}
}

func (h *SweepsHandler) failSweep(jobID string, start time.Time, err error) {
	h.logger.Warn("sweep failed", zap.String("job_id", jobID), zap.Error(err))

	var coreErr *core.Error
	if !errors.As(err, &coreErr) {
		coreErr = core.WrapError(core.ErrInvalidInput, err)
	}

	h.jobStore.Update(jobID, func(j *job.Job) {
		j.Status = job.StatusFailed
		j.Error = coreErr
	})
	if h.registry != nil {
		h.registry.RecordSweep("error", time.Since(start).Seconds())
		h.registry.SetJobsActive("sweep", h.jobStore.CountActive())
	}
}

// GetStatus returns the status of a sweep job.
// GET /api/v1/sweeps/{id}.
func (h *SweepsHandler) GetStatus(w http.ResponseWriter, r *http.Request, jobID string) {
	j, err := h.jobStore.Get(jobID)
	if err != nil {
		response.Error(w, http.StatusNotFound, err)
		return
	}

	resp := map[string]any{
		"job_id":   j.ID,
		"status":   j.Status,
		"progress": j.Progress,
	}

	if j.Status == job.StatusComplete {
		resp["result"] = j.Result
	}
	if j.Status == job.StatusFailed && j.Error != nil {
		resp["error"] = map[string]string{
			"code":    j.Error.Code,
			"message": j.Error.Message,
		}
	}

	response.JSON(w, http.StatusOK, resp)
}
