// internal/api/handler/api/handler.go
package api

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/prismlab/prism/internal/core"
	"github.com/prismlab/prism/internal/metrics"
	"github.com/prismlab/prism/internal/narrator"
)

// statusForError maps a core error code to an HTTP status.
func statusForError(err error) int {
	switch {
	case errors.Is(err, core.ErrInvalidInput),
		errors.Is(err, core.ErrDivisionByZero),
		errors.Is(err, core.ErrDuplicateParam),
		errors.Is(err, core.ErrUnknownMetric),
		errors.Is(err, core.ErrConfigInvalid),
		errors.Is(err, core.ErrConfigMissing):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrRunNotFound),
		errors.Is(err, core.ErrJobNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// narrate produces prose for a bundle, falling back to the static
// renderer when no provider is configured or the provider fails.
// Every provider attempt is counted, success or not.
func narrate(
	ctx context.Context,
	narr *narrator.Narrator,
	registry *metrics.Registry,
	logger *zap.Logger,
	bundle core.MetricsBundle,
	advice []core.AdviceItem,
) string {
	if narr == nil {
		return narrator.RenderStatic(bundle, advice)
	}
	text, err := narr.Narrate(ctx, bundle, advice)
	if err != nil {
		if registry != nil {
			registry.RecordNarration(narr.ProviderName(), "error")
		}
		logger.Warn("narration failed, using static fallback", zap.Error(err))
		return narrator.RenderStatic(bundle, advice)
	}
	if registry != nil {
		registry.RecordNarration(narr.ProviderName(), "success")
	}
	return text
}
