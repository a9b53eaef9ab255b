package ai

import (
	"fmt"
	"time"

	"github.com/KrasilnikovaKateryna/detect-autogenerated-emails-bot/pkg/gemini"
)

// Config holds AI provider configuration
type Config struct {
	Provider ProviderType // "gemini", "ollama" or "auto"

	// Gemini config
	GeminiAPIKey string

	// Ollama config
	OllamaBaseURL string // e.g., "http://localhost:11434"
	OllamaModel   string // e.g., "llama3", "mistral"

	// Timeout bounds every service call; the extraction service has no
	// guaranteed latency of its own.
	Timeout time.Duration
}

// NewExtractorService creates an ExtractorService based on the config.
// This is the factory function - switch AI provider by changing cfg.Provider.
func NewExtractorService(cfg Config) (ExtractorService, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	switch cfg.Provider {
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for Gemini provider")
		}
		return &geminiExtractor{svc: gemini.NewGeminiService(cfg.GeminiAPIKey, cfg.Timeout)}, nil

	case ProviderOllama:
		return NewOllamaService(cfg.OllamaBaseURL, cfg.OllamaModel, cfg.Timeout), nil

	default:
		// With a Gemini key available, use Gemini first with Ollama as
		// the fallback; otherwise Ollama alone.
		if cfg.GeminiAPIKey != "" {
			return NewFallbackService(
				&geminiExtractor{svc: gemini.NewGeminiService(cfg.GeminiAPIKey, cfg.Timeout)},
				NewOllamaService(cfg.OllamaBaseURL, cfg.OllamaModel, cfg.Timeout),
			), nil
		}
		return NewOllamaService(cfg.OllamaBaseURL, cfg.OllamaModel, cfg.Timeout), nil
	}
}
