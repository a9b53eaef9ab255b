package usecase

import (
	"regexp"
	"strings"

	maildomain "github.com/KrasilnikovaKateryna/detect-autogenerated-emails-bot/internal/mail/domain"
)

// automatedPhrases are template phrases that mark bulk/marketing mail.
var automatedPhrases = []string{
	"do not reply",
	"automated message",
	"click here",
	"manage your preferences",
	"update your settings",
}

// noReplyLiterals are matched individually against the sender address.
var noReplyLiterals = []string{"no-reply", "noreply"}

// markupPattern detects HTML markup in the body.
var markupPattern = regexp.MustCompile(`(?i)<html>|<body>|<div>`)

// Classify decides whether a message is automated or human-authored. The
// rules are disjunctive: any rule firing marks the message automated; the
// default is human-authored. The result depends only on the sender address
// and the body.
func Classify(msg maildomain.ParsedMessage) maildomain.ClassificationResult {
	isAutomated := false

	sender := strings.ToLower(msg.SenderEmail)
	body := strings.ToLower(msg.Body)

	for _, literal := range noReplyLiterals {
		if strings.Contains(sender, literal) {
			isAutomated = true
		}
	}

	if strings.Contains(body, "unsubscribe") {
		isAutomated = true
	}

	for _, phrase := range automatedPhrases {
		if strings.Contains(body, phrase) {
			isAutomated = true
		}
	}

	if markupPattern.MatchString(msg.Body) {
		isAutomated = true
	}

	return maildomain.ClassificationResult{IsAutomated: isAutomated}
}
