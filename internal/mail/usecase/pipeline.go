package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	maildomain "github.com/KrasilnikovaKateryna/detect-autogenerated-emails-bot/internal/mail/domain"
	"github.com/KrasilnikovaKateryna/detect-autogenerated-emails-bot/internal/mail/repository"
	"github.com/KrasilnikovaKateryna/detect-autogenerated-emails-bot/pkg/mailbox"
)

// RunState identifies the stage an ingestion run is in.
type RunState string

const (
	StateConnecting    RunState = "connecting"
	StateListing       RunState = "listing"
	StateDeduplicating RunState = "deduplicating"
	StateProcessing    RunState = "processing"
	StateSummarizing   RunState = "summarizing"
	StateDone          RunState = "done"
	StateFailed        RunState = "failed"
)

// NotifyFunc delivers a human-readable status line to the run's owner.
type NotifyFunc func(text string)

// Session is the slice of the mailbox client the pipeline uses.
type Session interface {
	ListAll() ([]uint32, error)
	Fetch(uid uint32) ([]byte, error)
	Close() error
}

// DialFunc opens an authenticated mailbox session. The pipeline dials once
// for listing and deduplication, then once per processing batch.
type DialFunc func(creds mailbox.Credentials) (Session, error)

// Summary aggregates the counters of a finished run.
type Summary struct {
	Listed    int           `json:"listed"`
	Unique    int           `json:"unique"`
	Processed int           `json:"processed"`
	Automated int           `json:"automated"`
	Human     int           `json:"human"`
	Skipped   int           `json:"skipped"`
	Duration  time.Duration `json:"-"`
}

func (s Summary) String() string {
	return fmt.Sprintf("Done in %s. %d messages listed, %d unique senders, %d processed (%d automated, %d human-authored), %d skipped.",
		s.Duration, s.Listed, s.Unique, s.Processed, s.Automated, s.Human, s.Skipped)
}

// Pipeline orchestrates a full ingestion run: connect, list, deduplicate,
// classify, enrich and store. A Pipeline is stateless between runs and safe
// to reuse, but a single run is sequential.
type Pipeline struct {
	dial        DialFunc
	newsRepo    repository.NewsRepository
	enricher    *Enricher
	batchSize   int
	dialRetries int
	backoff     time.Duration
	onState     func(RunState)
}

func NewPipeline(dial DialFunc, newsRepo repository.NewsRepository, enricher *Enricher) *Pipeline {
	return &Pipeline{
		dial:        dial,
		newsRepo:    newsRepo,
		enricher:    enricher,
		batchSize:   100,
		dialRetries: 3,
		backoff:     2 * time.Second,
	}
}

// OnStateChange registers a hook invoked on every stage transition.
func (p *Pipeline) OnStateChange(fn func(RunState)) {
	p.onState = fn
}

func (p *Pipeline) setState(state RunState) {
	if p.onState != nil {
		p.onState(state)
	}
}

// Run executes one ingestion run. Credential and listing failures abort the
// run; everything after that degrades per message. The returned summary is
// valid even when err is non-nil.
func (p *Pipeline) Run(ctx context.Context, creds mailbox.Credentials, notify NotifyFunc) (Summary, error) {
	start := time.Now()
	var summary Summary

	p.setState(StateConnecting)
	session, err := p.dialWithRetry(creds)
	if err != nil {
		p.setState(StateFailed)
		return summary, err
	}

	p.setState(StateListing)
	uids, err := session.ListAll()
	if err != nil {
		session.Close()
		p.setState(StateFailed)
		return summary, fmt.Errorf("list mailbox: %w", err)
	}
	summary.Listed = len(uids)

	p.setState(StateDeduplicating)
	work := Deduplicate(uids, session.Fetch)
	session.Close()
	summary.Unique = len(work)

	notify(fmt.Sprintf("Found %d messages from %d unique senders.", summary.Listed, summary.Unique))

	// Full refresh: every run rebuilds the sink from the mailbox.
	if err := p.newsRepo.ClearAll(); err != nil {
		p.setState(StateFailed)
		return summary, fmt.Errorf("clear record sink: %w", err)
	}

	p.setState(StateProcessing)
	reporter := newProgressReporter(len(work), notify)
	processed := 0
	for batchStart := 0; batchStart < len(work); batchStart += p.batchSize {
		batchEnd := batchStart + p.batchSize
		if batchEnd > len(work) {
			batchEnd = len(work)
		}
		batch := work[batchStart:batchEnd]

		// Fresh connection per batch.
		sess, err := p.dialWithRetry(creds)
		if err != nil {
			if errors.Is(err, mailbox.ErrAuthFailed) {
				p.setState(StateFailed)
				return summary, err
			}
			log.Printf("[Pipeline] batch at %d: %v, skipping %d messages", batchStart, err, len(batch))
			summary.Skipped += len(batch)
			processed += len(batch)
			reporter.update(processed)
			continue
		}

		for _, uid := range batch {
			if ctx.Err() != nil {
				sess.Close()
				p.setState(StateFailed)
				return summary, ctx.Err()
			}
			p.processMessage(ctx, sess, uid, &summary)
			processed++
			reporter.update(processed)
		}
		sess.Close()
	}

	p.setState(StateSummarizing)
	summary.Duration = time.Since(start).Round(time.Second)
	notify(summary.String())

	p.setState(StateDone)
	return summary, nil
}

// dialWithRetry dials with backoff. Authentication failures are never
// retried: bad credentials will not get better.
func (p *Pipeline) dialWithRetry(creds mailbox.Credentials) (Session, error) {
	var lastErr error
	for attempt := 1; attempt <= p.dialRetries; attempt++ {
		sess, err := p.dial(creds)
		if err == nil {
			return sess, nil
		}
		if errors.Is(err, mailbox.ErrAuthFailed) {
			return nil, err
		}
		lastErr = err
		log.Printf("[Pipeline] dial attempt %d/%d: %v", attempt, p.dialRetries, err)
		if attempt < p.dialRetries {
			time.Sleep(time.Duration(attempt) * p.backoff)
		}
	}
	return nil, fmt.Errorf("dial mailbox: %w", lastErr)
}

// processMessage handles one deduplicated message. Fetch and decode
// failures skip the message; classification failures fail open into the
// human-authored bucket; storage failures are logged and the run continues.
func (p *Pipeline) processMessage(ctx context.Context, sess Session, uid uint32, summary *Summary) {
	raw, err := sess.Fetch(uid)
	if err != nil {
		log.Printf("[Pipeline] fetch uid %d: %v", uid, err)
		summary.Skipped++
		return
	}

	msg, err := mailbox.Decode(raw)
	if err != nil {
		log.Printf("[Pipeline] decode uid %d: %v", uid, err)
		summary.Skipped++
		return
	}
	if msg.Incomplete() {
		log.Printf("[Pipeline] uid %d: missing subject, sender or body, dropped", uid)
		summary.Skipped++
		return
	}

	isAutomated := false
	func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[Pipeline] classify uid %d: recovered: %v", uid, r)
				isAutomated = false
			}
		}()
		isAutomated = Classify(msg).IsAutomated
	}()

	summary.Processed++
	if isAutomated {
		summary.Automated++
		record := &maildomain.AutoNews{
			SenderName:  msg.SenderName,
			SenderEmail: msg.SenderEmail,
			Content:     msg.Body,
			SentAt:      msg.SentAt,
		}
		if err := p.newsRepo.InsertAuto(record); err != nil {
			log.Printf("[Pipeline] store auto uid %d: %v", uid, err)
		}
		return
	}

	summary.Human++
	contact := p.enricher.Enrich(ctx, msg)
	record := &maildomain.UserNews{
		SenderName:  msg.SenderName,
		SenderEmail: msg.SenderEmail,
		Content:     msg.Body,
		SentAt:      msg.SentAt,
		DisplayName: contact.DisplayName,
		Company:     contact.Company,
		Phone:       contact.Phone,
		Website:     contact.Website,
	}
	if err := p.newsRepo.InsertUser(record); err != nil {
		log.Printf("[Pipeline] store user uid %d: %v", uid, err)
	}
}
