package narrator

import (
	"fmt"
	"strings"

	"github.com/prismlab/prism/internal/core"
)

// RenderStatic builds the no-LLM fallback report: a deterministic
// template over the advice list.
func RenderStatic(bundle core.MetricsBundle, advice []core.AdviceItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The strategy returned %s (%s annualized) over %d trades with a maximum drawdown of %s.",
		formatPct(bundle.TotalReturn), formatPct(bundle.AnnualReturn), bundle.TotalTrades, formatPct(bundle.MaxDrawdown))

	if len(advice) == 0 {
		b.WriteString(" No significant issues were found.")
		return b.String()
	}

	fmt.Fprintf(&b, " %d issue(s) flagged:", len(advice))
	for _, item := range advice {
		fmt.Fprintf(&b, " %s: %s.", item.Issue, item.Suggestion)
	}
	return b.String()
}
