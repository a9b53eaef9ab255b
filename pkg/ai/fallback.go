package ai

import (
	"context"
	"fmt"
	"log"
	"net"
	"strings"
)

// FallbackService routes extraction calls across providers:
// Gemini first (better quality), fallback to Ollama on quota or
// connection errors.
type FallbackService struct {
	gemini ExtractorService
	ollama *OllamaService
}

// NewFallbackService creates a new fallback service with both providers
func NewFallbackService(gemini ExtractorService, ollama *OllamaService) *FallbackService {
	return &FallbackService{
		gemini: gemini,
		ollama: ollama,
	}
}

// isConnectionError checks if the error is a network/connection error
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}

	// Check for network errors
	if _, ok := err.(net.Error); ok {
		return true
	}

	// Check for common connection error messages
	errStr := err.Error()
	connectionIndicators := []string{
		"connection refused",
		"no such host",
		"network is unreachable",
		"connection reset",
		"timeout",
		"dial tcp",
		"EOF",
	}

	for _, indicator := range connectionIndicators {
		if strings.Contains(strings.ToLower(errStr), strings.ToLower(indicator)) {
			return true
		}
	}

	return false
}

// isQuotaError checks if the error indicates API quota exhaustion (429)
func isQuotaError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()
	quotaIndicators := []string{
		"429",
		"quota",
		"rate limit",
		"too many requests",
		"resource exhausted",
		"RESOURCE_EXHAUSTED",
	}

	for _, indicator := range quotaIndicators {
		if strings.Contains(strings.ToLower(errStr), strings.ToLower(indicator)) {
			return true
		}
	}

	return false
}

// ExtractField tries Gemini first, falls back to Ollama on quota or
// connection errors.
func (f *FallbackService) ExtractField(ctx context.Context, field ContactField, body, senderName, senderEmail string) (string, error) {
	if f.gemini != nil {
		result, err := f.gemini.ExtractField(ctx, field, body, senderName, senderEmail)
		if err == nil {
			return result, nil
		}

		if isQuotaError(err) {
			log.Printf("[AI] Gemini quota exhausted: %v, falling back to Ollama", err)
		} else {
			log.Printf("[AI] Gemini error: %v, falling back to Ollama", err)
		}
	}

	if f.ollama != nil {
		result, err := f.ollama.ExtractField(ctx, field, body, senderName, senderEmail)
		if err == nil {
			return result, nil
		}

		// If Ollama also fails with connection error, try Gemini again
		if isConnectionError(err) && f.gemini != nil {
			log.Printf("[AI] Ollama connection failed: %v, retrying Gemini", err)
			return f.gemini.ExtractField(ctx, field, body, senderName, senderEmail)
		}

		return "", fmt.Errorf("ollama extraction failed: %w", err)
	}

	return "", fmt.Errorf("no AI provider available for extraction")
}
