package usecase

import (
	"context"
	"log"
	"strings"
	"sync"

	maildomain "github.com/KrasilnikovaKateryna/detect-autogenerated-emails-bot/internal/mail/domain"
	"github.com/KrasilnikovaKateryna/detect-autogenerated-emails-bot/pkg/ai"
)

// Enricher extracts contact details from human-authored mail. The four
// fields are extracted concurrently, one extractor call per field.
type Enricher struct {
	extractor ai.ExtractorService
}

func NewEnricher(extractor ai.ExtractorService) *Enricher {
	return &Enricher{extractor: extractor}
}

// Enrich runs all field extractions for a single message and waits for
// every one to finish. A field whose extraction fails or comes back empty
// is filled with its sentinel, so the returned contact is always complete.
func (e *Enricher) Enrich(ctx context.Context, msg maildomain.ParsedMessage) maildomain.EnrichedContact {
	values := make([]string, len(ai.Fields))

	var wg sync.WaitGroup
	for i, field := range ai.Fields {
		wg.Add(1)
		go func(i int, field ai.ContactField) {
			defer wg.Done()
			values[i] = e.extractField(ctx, field, msg)
		}(i, field)
	}
	wg.Wait()

	return maildomain.EnrichedContact{
		DisplayName: values[0],
		Company:     values[1],
		Phone:       values[2],
		Website:     values[3],
	}
}

func (e *Enricher) extractField(ctx context.Context, field ai.ContactField, msg maildomain.ParsedMessage) string {
	value, err := e.extractor.ExtractField(ctx, field, msg.Body, msg.SenderName, msg.SenderEmail)
	if err != nil {
		// One retry before giving up on the field.
		value, err = e.extractor.ExtractField(ctx, field, msg.Body, msg.SenderName, msg.SenderEmail)
	}
	if err != nil {
		log.Printf("[Enrich] field %s for %s: %v", field, msg.SenderEmail, err)
		return field.Sentinel()
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return field.Sentinel()
	}
	return value
}
