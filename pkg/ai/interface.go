package ai

import "context"

// ContactField identifies one extractable contact attribute. Each field maps
// to a task-specific instruction prompt and a fallback sentinel value.
type ContactField string

const (
	FieldName    ContactField = "name"
	FieldCompany ContactField = "company"
	FieldPhone   ContactField = "phone"
	FieldWebsite ContactField = "website"
)

// Fields lists every contact field in extraction order.
var Fields = []ContactField{FieldName, FieldCompany, FieldPhone, FieldWebsite}

// Instructions returns the task prompt for the field.
func (f ContactField) Instructions() string {
	switch f {
	case FieldName:
		return "Find the personal name of the person who wrote the email (usually in the signature or greeting). Reply with the name only, no explanation."
	case FieldCompany:
		return "Find the name of the company or organization the email author works for. Reply with the company name only, no explanation."
	case FieldPhone:
		return "Find a phone number belonging to the email author (usually in the signature). Reply with the phone number only, no explanation."
	case FieldWebsite:
		return "Find a website or domain belonging to the email author or their company. Reply with the URL only, no explanation."
	}
	return ""
}

// Sentinel returns the placeholder used when the field cannot be extracted.
func (f ContactField) Sentinel() string {
	switch f {
	case FieldName:
		return "Their"
	case FieldCompany:
		return "No company"
	case FieldPhone:
		return "No phone"
	case FieldWebsite:
		return "No website"
	}
	return ""
}

// ExtractorService is the interface for the natural-language extraction
// service. Implement this interface to add new AI providers (Gemini, Ollama,
// OpenAI, etc.). The response is free text; callers trim it and map an empty
// answer to the field's sentinel.
type ExtractorService interface {
	ExtractField(ctx context.Context, field ContactField, body, senderName, senderEmail string) (string, error)
}

// ProviderType represents the AI provider type
type ProviderType string

const (
	ProviderGemini ProviderType = "gemini"
	ProviderOllama ProviderType = "ollama"
	ProviderAuto   ProviderType = "auto"
)
