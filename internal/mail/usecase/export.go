package usecase

import (
	"fmt"
	"log"
	"time"

	"github.com/KrasilnikovaKateryna/detect-autogenerated-emails-bot/internal/mail/repository"
	"github.com/KrasilnikovaKateryna/detect-autogenerated-emails-bot/pkg/config"
	"github.com/KrasilnikovaKateryna/detect-autogenerated-emails-bot/pkg/forms"
)

const exportPageSize = 200

// FormSubmitter posts one submission to a form endpoint.
type FormSubmitter interface {
	Submit(formURL string, sub forms.Submission) error
}

// Exporter pushes stored records to the configured Google Forms, one
// submission per record. Automated and human-authored records go to
// separate forms. Individual submission failures are logged and counted,
// never retried.
type Exporter struct {
	newsRepo  repository.NewsRepository
	submitter FormSubmitter
	urlAuto   string
	urlUser   string
	fields    config.FormFields
}

func NewExporter(newsRepo repository.NewsRepository, submitter FormSubmitter, urlAuto, urlUser string, fields config.FormFields) *Exporter {
	return &Exporter{
		newsRepo:  newsRepo,
		submitter: submitter,
		urlAuto:   urlAuto,
		urlUser:   urlUser,
		fields:    fields,
	}
}

// ExportResult counts the outcome of one export pass.
type ExportResult struct {
	Submitted int `json:"submitted"`
	Failed    int `json:"failed"`
}

// ExportAll submits every stored record to its destination form.
func (e *Exporter) ExportAll() (ExportResult, error) {
	var result ExportResult

	if err := e.exportAuto(&result); err != nil {
		return result, err
	}
	if err := e.exportUser(&result); err != nil {
		return result, err
	}

	log.Printf("[Export] %d submitted, %d failed", result.Submitted, result.Failed)
	return result, nil
}

func (e *Exporter) exportAuto(result *ExportResult) error {
	if e.urlAuto == "" {
		return fmt.Errorf("no form URL configured for automated records")
	}
	for offset := 0; ; offset += exportPageSize {
		page, _, err := e.newsRepo.ListAuto(exportPageSize, offset)
		if err != nil {
			return fmt.Errorf("list automated records: %w", err)
		}
		if len(page) == 0 {
			return nil
		}
		for _, record := range page {
			e.submit(e.urlAuto, record.SenderName, record.SenderEmail, record.Content, record.SentAt, result)
		}
		if len(page) < exportPageSize {
			return nil
		}
	}
}

func (e *Exporter) exportUser(result *ExportResult) error {
	if e.urlUser == "" {
		return fmt.Errorf("no form URL configured for human-authored records")
	}
	for offset := 0; ; offset += exportPageSize {
		page, _, err := e.newsRepo.ListUser(exportPageSize, offset)
		if err != nil {
			return fmt.Errorf("list human-authored records: %w", err)
		}
		if len(page) == 0 {
			return nil
		}
		for _, record := range page {
			e.submit(e.urlUser, record.SenderName, record.SenderEmail, record.Content, record.SentAt, result)
		}
		if len(page) < exportPageSize {
			return nil
		}
	}
}

func (e *Exporter) submit(formURL, senderName, senderEmail, content string, sentAt *time.Time, result *ExportResult) {
	sub := forms.Submission{
		e.fields.SenderName:  senderName,
		e.fields.SenderEmail: senderEmail,
		e.fields.Content:     content,
		e.fields.SentAt:      formatSentAt(sentAt),
	}
	if err := e.submitter.Submit(formURL, sub); err != nil {
		log.Printf("[Export] submit for %s: %v", senderEmail, err)
		result.Failed++
		return
	}
	result.Submitted++
}

func formatSentAt(sentAt *time.Time) string {
	if sentAt == nil {
		return ""
	}
	return sentAt.Format("2006-01-02 15:04:05")
}
