// Package narrator renders a metrics bundle and its advice into a
// short prose report for the dashboard. An LLM provider produces the
// narrative when one is configured; the static renderer is the
// fallback and never fails.
package narrator

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/prismlab/prism/internal/core"
)

// Provider generates free-form text from a prompt.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}

// CompletionRequest holds the completion parameters.
type CompletionRequest struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// CompletionResponse holds the generated text and token usage.
type CompletionResponse struct {
	Text         string
	InputTokens  int
	OutputTokens int
}

const systemPrompt = "You are a quantitative analyst writing a concise performance review " +
	"of a trading strategy backtest. Keep it under 150 words, plain prose, no markdown."

// Narrator composes prompts from analysis output and delegates to a
// provider.
type Narrator struct {
	provider Provider
}

// New creates a narrator over the given provider.
func New(provider Provider) *Narrator {
	return &Narrator{provider: provider}
}

// ProviderName returns the name of the underlying provider.
func (n *Narrator) ProviderName() string {
	return n.provider.Name()
}

// Narrate produces a prose summary of the bundle and advice.
func (n *Narrator) Narrate(ctx context.Context, bundle core.MetricsBundle, advice []core.AdviceItem) (string, error) {
	resp, err := n.provider.Complete(ctx, CompletionRequest{
		System:    systemPrompt,
		Prompt:    buildPrompt(bundle, advice),
		MaxTokens: 512,
	})
	if err != nil {
		return "", core.WrapError(core.ErrNarratorFailed, err)
	}
	return strings.TrimSpace(resp.Text), nil
}

func buildPrompt(bundle core.MetricsBundle, advice []core.AdviceItem) string {
	var b strings.Builder
	b.WriteString("Backtest metrics:\n")
	fmt.Fprintf(&b, "- total return: %s\n", formatPct(bundle.TotalReturn))
	fmt.Fprintf(&b, "- annual return: %s\n", formatPct(bundle.AnnualReturn))
	fmt.Fprintf(&b, "- volatility: %s\n", formatPct(bundle.Volatility))
	fmt.Fprintf(&b, "- sharpe ratio: %s\n", formatRatio(bundle.SharpeRatio))
	fmt.Fprintf(&b, "- sortino ratio: %s\n", formatRatio(bundle.SortinoRatio))
	fmt.Fprintf(&b, "- max drawdown: %s\n", formatPct(bundle.MaxDrawdown))
	fmt.Fprintf(&b, "- win rate: %s\n", formatPct(bundle.WinRate))
	fmt.Fprintf(&b, "- profit factor: %s\n", formatRatio(bundle.ProfitFactor))
	fmt.Fprintf(&b, "- trades: %d\n", bundle.TotalTrades)

	if len(advice) == 0 {
		b.WriteString("\nNo diagnostic rules fired.\n")
	} else {
		b.WriteString("\nDiagnostics:\n")
		for _, item := range advice {
			fmt.Fprintf(&b, "- [%s] %s: %s\n", item.Aspect, item.Issue, item.Suggestion)
		}
	}

	b.WriteString("\nWrite the review.")
	return b.String()
}

func formatPct(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%%", v*100)
}

func formatRatio(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "infinite"
	case math.IsInf(v, -1) || math.IsNaN(v):
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}
