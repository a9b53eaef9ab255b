package ai

import (
	"context"
	"fmt"

	"github.com/KrasilnikovaKateryna/detect-autogenerated-emails-bot/pkg/gemini"
)

// buildPrompt assembles the extraction request: task instructions, the known
// sender identity, and the email text. Bodies are truncated to stay inside
// model token limits.
func buildPrompt(field ContactField, body, senderName, senderEmail string) string {
	if len(body) > 5000 {
		body = body[:5000]
	}
	return fmt.Sprintf(`%s
If the email does not contain the answer, reply with an empty string.

Known sender name: %s
Known sender address: %s

EMAIL:
%s

ANSWER:`, field.Instructions(), senderName, senderEmail, body)
}

// geminiExtractor adapts the raw Gemini REST client to ExtractorService.
type geminiExtractor struct {
	svc *gemini.GeminiService
}

func (g *geminiExtractor) ExtractField(ctx context.Context, field ContactField, body, senderName, senderEmail string) (string, error) {
	return g.svc.Generate(ctx, buildPrompt(field, body, senderName, senderEmail))
}
