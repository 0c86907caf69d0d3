// internal/api/handler/api/sweeps_test.go
package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/prismlab/prism/internal/analytics"
	"github.com/prismlab/prism/internal/api/job"
	"github.com/prismlab/prism/internal/api/response"
)

const sweepBody = `{
	"metrics": ["annual_return", "sharpe_ratio"],
	"runs": [
		{"param_value": 20, "equity": [
			{"time": "2024-01-01T00:00:00Z", "value": 100},
			{"time": "2024-01-02T00:00:00Z", "value": 102},
			{"time": "2024-01-03T00:00:00Z", "value": 105}
		]},
		{"param_value": 10, "equity": [
			{"time": "2024-01-01T00:00:00Z", "value": 100},
			{"time": "2024-01-02T00:00:00Z", "value": 101},
			{"time": "2024-01-03T00:00:00Z", "value": 103}
		]}
	]
}`

func newSweepsHandler() *SweepsHandler {
	return NewSweepsHandler(job.NewStore(10, time.Hour), analytics.Params{}, nil, zap.NewNop())
}

// pollJob waits for the sweep goroutine to finish.
func pollJob(t *testing.T, h *SweepsHandler, jobID string) map[string]any {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		req := httptest.NewRequest("GET", "/api/v1/sweeps/"+jobID, nil)
		w := httptest.NewRecorder()
		h.GetStatus(w, req, jobID)

		if w.Code != http.StatusOK {
			t.Fatalf("status poll failed: %d", w.Code)
		}

		data := decodeData(t, w.Body.Bytes())
		status := data["status"].(string)
		if status == string(job.StatusComplete) || status == string(job.StatusFailed) {
			return data
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("sweep did not finish in time")
	return nil
}

func TestSweepsHandler_EndToEnd(t *testing.T) {
	h := newSweepsHandler()

	req := httptest.NewRequest("POST", "/api/v1/sweeps", strings.NewReader(sweepBody))
	w := httptest.NewRecorder()
	h.Create(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", w.Code, w.Body.String())
	}

	created := decodeData(t, w.Body.Bytes())
	jobID := created["job_id"].(string)
	if jobID == "" {
		t.Fatal("expected job ID")
	}

	data := pollJob(t, h, jobID)
	if data["status"] != string(job.StatusComplete) {
		t.Fatalf("expected complete, got %v", data)
	}

	result := data["result"].(map[string]any)
	points := result["points"].([]any)
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	// Ordered ascending by parameter value
	first := points[0].(map[string]any)
	if first["param_value"].(float64) != 10 {
		t.Errorf("expected first point param 10, got %v", first["param_value"])
	}

	curves := result["curves"].(map[string]any)
	if _, ok := curves["annual_return"]; !ok {
		t.Error("expected annual_return curve")
	}
	if _, ok := curves["sharpe_ratio"]; !ok {
		t.Error("expected sharpe_ratio curve")
	}
}

func TestSweepsHandler_EmptyRuns(t *testing.T) {
	h := newSweepsHandler()

	req := httptest.NewRequest("POST", "/api/v1/sweeps", strings.NewReader(`{"runs": []}`))
	w := httptest.NewRecorder()
	h.Create(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestSweepsHandler_UnknownMetric(t *testing.T) {
	h := newSweepsHandler()

	body := strings.Replace(sweepBody, `"annual_return", "sharpe_ratio"`, `"sharpness"`, 1)
	req := httptest.NewRequest("POST", "/api/v1/sweeps", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Create(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}

	var resp response.ErrorResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Error.Code != "UNKNOWN_METRIC" {
		t.Errorf("expected UNKNOWN_METRIC, got %s", resp.Error.Code)
	}
}

func TestSweepsHandler_DuplicateParam(t *testing.T) {
	h := newSweepsHandler()

	body := strings.Replace(sweepBody, `"param_value": 10`, `"param_value": 20`, 1)
	req := httptest.NewRequest("POST", "/api/v1/sweeps", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Create(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}

	var resp response.ErrorResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Error.Code != "DUPLICATE_PARAMETER" {
		t.Errorf("expected DUPLICATE_PARAMETER, got %s", resp.Error.Code)
	}
}

func TestSweepsHandler_FailedRunMarksJob(t *testing.T) {
	h := newSweepsHandler()

	// Second run has a zero equity value
	body := strings.Replace(sweepBody, `{"time": "2024-01-01T00:00:00Z", "value": 100},
			{"time": "2024-01-02T00:00:00Z", "value": 101},`, `{"time": "2024-01-01T00:00:00Z", "value": 0},
			{"time": "2024-01-02T00:00:00Z", "value": 101},`, 1)

	req := httptest.NewRequest("POST", "/api/v1/sweeps", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Create(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", w.Code, w.Body.String())
	}

	created := decodeData(t, w.Body.Bytes())
	data := pollJob(t, h, created["job_id"].(string))

	if data["status"] != string(job.StatusFailed) {
		t.Fatalf("expected failed, got %v", data["status"])
	}

	errInfo := data["error"].(map[string]any)
	if errInfo["code"] != "DIVISION_BY_ZERO" {
		t.Errorf("expected DIVISION_BY_ZERO, got %v", errInfo["code"])
	}
}

func TestSweepsHandler_StatusNotFound(t *testing.T) {
	h := newSweepsHandler()

	req := httptest.NewRequest("GET", "/api/v1/sweeps/missing", nil)
	w := httptest.NewRecorder()
	h.GetStatus(w, req, "missing")

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}
