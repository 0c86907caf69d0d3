// internal/api/handler/api/advice_test.go
package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/prismlab/prism/internal/advisor"
)

func TestAdviceHandler_Create(t *testing.T) {
	h := NewAdviceHandler(advisor.New(nil), nil, nil, zap.NewNop())

	// Every rule fires: low return, deep drawdown, overtrading,
	// low win rate, weak sharpe.
	body := `{
		"metrics": {
			"total_return": 0.05,
			"max_drawdown": -0.25,
			"sharpe_ratio": 0.8,
			"win_rate": 0.35,
			"total_trades": 50
		},
		"trading_days": 90
	}`

	req := httptest.NewRequest("POST", "/api/v1/advice", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Create(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	data := decodeData(t, w.Body.Bytes())
	advice := data["advice"].([]any)
	if len(advice) != 5 {
		t.Errorf("expected 5 advice items, got %d", len(advice))
	}

	if _, ok := data["benchmarks"].(map[string]any); !ok {
		t.Error("expected benchmarks in response")
	}
}

func TestAdviceHandler_NoIssues(t *testing.T) {
	h := NewAdviceHandler(advisor.New(nil), nil, nil, zap.NewNop())

	body := `{
		"metrics": {
			"total_return": 0.5,
			"max_drawdown": -0.05,
			"sharpe_ratio": 2.0,
			"win_rate": 0.6,
			"total_trades": 10
		},
		"trading_days": 252
	}`

	req := httptest.NewRequest("POST", "/api/v1/advice", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Create(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	data := decodeData(t, w.Body.Bytes())
	advice := data["advice"].([]any)
	if len(advice) != 0 {
		t.Errorf("expected no advice items, got %d", len(advice))
	}
}

func TestAdviceHandler_InvalidTradingDays(t *testing.T) {
	h := NewAdviceHandler(advisor.New(nil), nil, nil, zap.NewNop())

	body := `{"metrics": {"total_return": 0.5}, "trading_days": 0}`
	req := httptest.NewRequest("POST", "/api/v1/advice", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Create(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAdviceHandler_NarrativeStaticFallback(t *testing.T) {
	h := NewAdviceHandler(advisor.New(nil), nil, nil, zap.NewNop())

	body := `{
		"metrics": {"total_return": 0.05, "max_drawdown": -0.25},
		"trading_days": 90,
		"narrative": true
	}`

	req := httptest.NewRequest("POST", "/api/v1/advice", strings.NewReader(body))
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
