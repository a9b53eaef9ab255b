package domain

import "time"

// ParsedMessage is the decoded form of one raw mailbox message.
// SentAt is nil when the Date header is missing or unparseable.
type ParsedMessage struct {
	Subject     string
	SenderName  string
	SenderEmail string
	SentAt      *time.Time
	Body        string
}

// Incomplete reports whether the message lacks the fields required for
// classification. Such messages are dropped, not classified.
func (m ParsedMessage) Incomplete() bool {
	return m.Subject == "" || m.SenderEmail == "" || m.Body == ""
}

// ClassificationResult is derived solely from the parsed message.
type ClassificationResult struct {
	IsAutomated bool
}

// EnrichedContact holds the extracted contact attributes for a
// human-authored message. Fields are never empty: extraction failures
// fall back to the field's sentinel value.
type EnrichedContact struct {
	DisplayName string
	Company     string
	Phone       string
	Website     string
}

// OutboundRecord is the unit handed to the record and export sinks.
type OutboundRecord struct {
	Message     ParsedMessage
	IsAutomated bool
	Contact     *EnrichedContact // nil for automated messages
}
