// internal/narrator/factory/factory.go
package factory

import (
	"fmt"

	"github.com/prismlab/prism/internal/config"
	"github.com/prismlab/prism/internal/narrator"
	"github.com/prismlab/prism/internal/narrator/claude"
	"github.com/prismlab/prism/internal/narrator/ollama"
	"github.com/prismlab/prism/internal/narrator/openai"
)

// New creates a narrator provider based on configuration.
func New(cfg config.NarratorConfig) (narrator.Provider, error) {
	switch cfg.Provider {
	case "claude":
		return claude.New(cfg.Claude.APIKey, cfg.Claude.Model)
	case "openai":
		return openai.New(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	case "ollama":
		return ollama.New(cfg.Ollama.Endpoint, cfg.Ollama.Model)
	default:
		return nil, fmt.Errorf("unknown narrator provider: %s", cfg.Provider)
	}
}
