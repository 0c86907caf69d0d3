// internal/api/handler/api/analyze_test.go
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/prismlab/prism/internal/analytics"
	"github.com/prismlab/prism/internal/api/response"
	"github.com/prismlab/prism/internal/metrics"
	"github.com/prismlab/prism/internal/narrator"
	"github.com/prismlab/prism/internal/storage/archive"
)

func testRunStore(t *testing.T) *archive.RunStore {
	t.Helper()
	backend, err := archive.NewLocalFS(t.TempDir())
	if err != nil {
		t.Fatalf("creating backend: %v", err)
	}
	return archive.NewRunStore(backend)
}

func decodeData(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var resp response.SuccessResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	data, ok := resp.Data.(map[string]any)
	if !ok {
		t.Fatalf("expected object data, got %T", resp.Data)
	}
	return data
}

const analyzeBody = `{
	"strategy": "sma-cross",
	"equity": [
		{"time": "2024-01-01T00:00:00Z", "value": 100},
		{"time": "2024-01-02T00:00:00Z", "value": 110},
		{"time": "2024-01-03T00:00:00Z", "value": 99},
		{"time": "2024-01-04T00:00:00Z", "value": 121}
	],
	"trades": [
		{"time": "2024-01-02T00:00:00Z", "side": "sell", "price": 110, "size": 1, "profit": 10},
		{"time": "2024-01-03T00:00:00Z", "side": "sell", "price": 99, "size": 1, "profit": -11}
	]
}`

func TestAnalyzeHandler_Create(t *testing.T) {
	h := NewAnalyzeHandler(analytics.Params{}, nil, nil, nil, zap.NewNop())

	req := httptest.NewRequest("POST", "/api/v1/analyze", strings.NewReader(analyzeBody))
	w := httptest.NewRecorder()
	h.Create(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	data := decodeData(t, w.Body.Bytes())
	result, ok := data["result"].(map[string]any)
	if !ok {
		t.Fatal("expected result in response")
	}
	if result["strategy"] != "sma-cross" {
		t.Errorf("expected strategy echoed, got %v", result["strategy"])
	}

	m := result["metrics"].(map[string]any)
	// 100 -> 121 over the curve
	if got := m["total_return"].(float64); got < 0.2099 || got > 0.2101 {
		t.Errorf("expected total_return 0.21, got %v", got)
	}
	if got := m["win_rate"].(float64); got != 0.5 {
		t.Errorf("expected win_rate 0.5, got %v", got)
	}
}

func TestAnalyzeHandler_InvalidJSON(t *testing.T) {
	h := NewAnalyzeHandler(analytics.Params{}, nil, nil, nil, zap.NewNop())

	req := httptest.NewRequest("POST", "/api/v1/analyze", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	h.Create(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAnalyzeHandler_EmptyEquity(t *testing.T) {
	h := NewAnalyzeHandler(analytics.Params{}, nil, nil, nil, zap.NewNop())

	req := httptest.NewRequest("POST", "/api/v1/analyze", strings.NewReader(`{"equity": []}`))
	w := httptest.NewRecorder()
	h.Create(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}

	var resp response.ErrorResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Error.Code != "INVALID_INPUT" {
		t.Errorf("expected INVALID_INPUT, got %s", resp.Error.Code)
	}
}

func TestAnalyzeHandler_ZeroEquityValue(t *testing.T) {
	h := NewAnalyzeHandler(analytics.Params{}, nil, nil, nil, zap.NewNop())

	body := `{"equity": [
		{"time": "2024-01-01T00:00:00Z", "value": 0},
		{"time": "2024-01-02T00:00:00Z", "value": 100}
	]}`
	req := httptest.NewRequest("POST", "/api/v1/analyze", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Create(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}

	var resp response.ErrorResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Error.Code != "DIVISION_BY_ZERO" {
		t.Errorf("expected DIVISION_BY_ZERO, got %s", resp.Error.Code)
	}
}

func TestAnalyzeHandler_MethodNotAllowed(t *testing.T) {
	h := NewAnalyzeHandler(analytics.Params{}, nil, nil, nil, zap.NewNop())

	req := httptest.NewRequest("GET", "/api/v1/analyze", nil)
	w := httptest.NewRecorder()
	h.Create(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", w.Code)
	}
}

func TestAnalyzeHandler_SavePersistsRun(t *testing.T) {
	store := testRunStore(t)
	h := NewAnalyzeHandler(analytics.Params{}, store, nil, nil, zap.NewNop())

	body := strings.Replace(analyzeBody, `"strategy": "sma-cross",`, `"strategy": "sma-cross", "save": true,`, 1)
	req := httptest.NewRequest("POST", "/api/v1/analyze", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Create(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	data := decodeData(t, w.Body.Bytes())
	result := data["result"].(map[string]any)
	id, _ := result["id"].(string)
	if id == "" {
		t.Fatal("expected assigned run ID")
	}

	saved, err := store.Get(req.Context(), id)
	if err != nil {
		t.Fatalf("expected run archived: %v", err)
	}
	if saved.Strategy != "sma-cross" {
		t.Errorf("expected strategy persisted, got %s", saved.Strategy)
	}
}

type stubProvider struct {
	text string
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Complete(ctx context.Context, req narrator.CompletionRequest) (*narrator.CompletionResponse, error) {
	return &narrator.CompletionResponse{Text: s.text}, nil
}

// narrationCount reads prism_narrations_total for one provider/status pair.
func narrationCount(t *testing.T, reg *metrics.Registry, provider, status string) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	for _, mf := range mfs {
		if mf.GetName() != "prism_narrations_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := make(map[string]string)
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["provider"] == provider && labels["status"] == status {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestAnalyzeHandler_NarrativeCounted(t *testing.T) {
	reg := metrics.NewRegistry()
	narr := narrator.New(&stubProvider{text: "Solid year for the strategy."})
	h := NewAnalyzeHandler(analytics.Params{}, nil, narr, reg, zap.NewNop())

	body := strings.Replace(analyzeBody, `"strategy": "sma-cross",`, `"strategy": "sma-cross", "narrative": true,`, 1)
	req := httptest.NewRequest("POST", "/api/v1/analyze", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Create(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	data := decodeData(t, w.Body.Bytes())
	if narrative, _ := data["narrative"].(string); narrative != "Solid year for the strategy." {
		t.Errorf("expected provider narrative, got %q", narrative)
	}
	if got := narrationCount(t, reg, "stub", "success"); got != 1 {
		t.Errorf("expected 1 successful narration recorded, got %v", got)
	}
}

func TestAnalyzeHandler_NarrativeStaticFallback(t *testing.T) {
	// No narrator configured: static renderer output expected
	h := NewAnalyzeHandler(analytics.Params{}, nil, nil, nil, zap.NewNop())

	body := strings.Replace(analyzeBody, `"strategy": "sma-cross",`, `"strategy": "sma-cross", "narrative": true,`, 1)
	req := httptest.NewRequest("POST", "/api/v1/analyze", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Create(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	data := decodeData(t, w.Body.Bytes())
	narrative, _ := data["narrative"].(string)
	if narrative == "" {
		t.Error("expected non-empty narrative")
	}
}
