package usecase

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"

	maildomain "github.com/KrasilnikovaKateryna/detect-autogenerated-emails-bot/internal/mail/domain"
	"github.com/KrasilnikovaKateryna/detect-autogenerated-emails-bot/pkg/mailbox"
)

// memNewsRepo is an in-memory NewsRepository for pipeline tests.
type memNewsRepo struct {
	mu   sync.Mutex
	auto []*maildomain.AutoNews
	user []*maildomain.UserNews
}

func (r *memNewsRepo) InsertAuto(news *maildomain.AutoNews) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.auto = append(r.auto, news)
	return nil
}

func (r *memNewsRepo) InsertUser(news *maildomain.UserNews) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.user = append(r.user, news)
	return nil
}

func (r *memNewsRepo) InsertManyAuto(news []*maildomain.AutoNews) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.auto = append(r.auto, news...)
	return nil
}

func (r *memNewsRepo) InsertManyUser(news []*maildomain.UserNews) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.user = append(r.user, news...)
	return nil
}

func (r *memNewsRepo) ListAuto(limit, offset int) ([]*maildomain.AutoNews, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return page(r.auto, limit, offset), int64(len(r.auto)), nil
}

func (r *memNewsRepo) ListUser(limit, offset int) ([]*maildomain.UserNews, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return page(r.user, limit, offset), int64(len(r.user)), nil
}

func (r *memNewsRepo) ClearAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.auto, r.user = nil, nil
	return nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// fakeMailbox serves a fixed message set and records session activity.
type fakeMailbox struct {
	mu        sync.Mutex
	uids      []uint32
	messages  map[uint32][]byte
	fetchErrs map[uint32]error
	dials     int
	dialErrs  []error
	closed    int
}

type fakeSession struct {
	box *fakeMailbox
}

func (b *fakeMailbox) dial(mailbox.Credentials) (Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dials++
	if len(b.dialErrs) > 0 {
		err := b.dialErrs[0]
		b.dialErrs = b.dialErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return &fakeSession{box: b}, nil
}

func (s *fakeSession) ListAll() ([]uint32, error) {
	return s.box.uids, nil
}

func (s *fakeSession) Fetch(uid uint32) ([]byte, error) {
	if err := s.box.fetchErrs[uid]; err != nil {
		return nil, err
	}
	raw, ok := s.box.messages[uid]
	if !ok {
		return nil, fmt.Errorf("no message %d", uid)
	}
	return raw, nil
}

func (s *fakeSession) Close() error {
	s.box.mu.Lock()
	defer s.box.mu.Unlock()
	s.box.closed++
	return nil
}

func rawMsg(from, body string) []byte {
	return []byte("From: " + from + "\r\nSubject: hello\r\nDate: Mon, 2 Mar 2026 10:00:00 +0200\r\n\r\n" + body + "\r\n")
}

func newTestPipeline(box *fakeMailbox, repo *memNewsRepo, extractor *fakeExtractor) *Pipeline {
	p := NewPipeline(box.dial, repo, NewEnricher(extractor))
	p.backoff = 0
	return p
}

func TestPipelineRunBatches(t *testing.T) {
	// 250 listed messages from 230 unique senders: one listing session plus
	// three processing sessions of at most 100 messages each.
	box := &fakeMailbox{messages: make(map[uint32][]byte)}
	for i := 0; i < 250; i++ {
		uid := uint32(i + 1)
		sender := i % 230
		body := "See you tomorrow."
		if sender%2 == 0 {
			body = "Click unsubscribe to stop these updates."
		}
		box.messages[uid] = rawMsg(fmt.Sprintf("Sender %d <sender%d@example.com>", sender, sender), body)
		box.uids = append(box.uids, uid)
	}

	repo := &memNewsRepo{}
	extractor := newFakeExtractor()
	extractor.answers["name"] = "Jane"

	summary, err := newTestPipeline(box, repo, extractor).Run(context.Background(), mailbox.Credentials{}, func(string) {})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if box.dials != 4 {
		t.Errorf("dials = %d, want 4 (one listing, three batches)", box.dials)
	}
	if box.closed != 4 {
		t.Errorf("closed sessions = %d, want 4", box.closed)
	}
	if summary.Listed != 250 || summary.Unique != 230 || summary.Processed != 230 {
		t.Errorf("summary = %+v, want 250 listed / 230 unique / 230 processed", summary)
	}
	if summary.Automated != 115 || summary.Human != 115 {
		t.Errorf("summary = %+v, want 115 automated / 115 human", summary)
	}
	if len(repo.auto) != 115 || len(repo.user) != 115 {
		t.Errorf("stored %d auto / %d user records, want 115 / 115", len(repo.auto), len(repo.user))
	}
}

func TestPipelineAuthFailureIsFatal(t *testing.T) {
	box := &fakeMailbox{
		dialErrs: []error{fmt.Errorf("login: %w", mailbox.ErrAuthFailed)},
	}

	_, err := newTestPipeline(box, &memNewsRepo{}, newFakeExtractor()).Run(context.Background(), mailbox.Credentials{}, func(string) {})
	if !errors.Is(err, mailbox.ErrAuthFailed) {
		t.Fatalf("Run() error = %v, want ErrAuthFailed", err)
	}
	if box.dials != 1 {
		t.Errorf("dials = %d, want 1 (no retry on bad credentials)", box.dials)
	}
}

func TestPipelineRetriesTransientDialFailures(t *testing.T) {
	box := &fakeMailbox{
		uids:     []uint32{1},
		messages: map[uint32][]byte{1: rawMsg("Jane <jane@acme.com>", "unsubscribe")},
		dialErrs: []error{errors.New("i/o timeout"), errors.New("i/o timeout")},
	}

	summary, err := newTestPipeline(box, &memNewsRepo{}, newFakeExtractor()).Run(context.Background(), mailbox.Credentials{}, func(string) {})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary.Processed != 1 {
		t.Errorf("summary.Processed = %d, want 1", summary.Processed)
	}
	// Two failed attempts, one successful listing dial, one batch dial.
	if box.dials != 4 {
		t.Errorf("dials = %d, want 4", box.dials)
	}
}

func TestPipelineSkipsBrokenMessages(t *testing.T) {
	box := &fakeMailbox{
		uids: []uint32{1, 2, 3},
		messages: map[uint32][]byte{
			1: rawMsg("Jane <jane@acme.com>", "See you tomorrow."),
			2: rawMsg("Bob <bob@example.org>", ""),
			3: rawMsg("Carol <carol@example.org>", "unsubscribe"),
		},
	}
	// Message 2 has an empty body and is dropped before classification.

	repo := &memNewsRepo{}
	summary, err := newTestPipeline(box, repo, newFakeExtractor()).Run(context.Background(), mailbox.Credentials{}, func(string) {})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary.Processed != 2 || summary.Skipped != 1 {
		t.Errorf("summary = %+v, want 2 processed / 1 skipped", summary)
	}
	if len(repo.auto) != 1 || len(repo.user) != 1 {
		t.Errorf("stored %d auto / %d user, want 1 / 1", len(repo.auto), len(repo.user))
	}
}

func TestPipelineAutomatedSkipsEnrichment(t *testing.T) {
	box := &fakeMailbox{
		uids:     []uint32{1},
		messages: map[uint32][]byte{1: rawMsg("no-reply@service.example.com", "Your invoice.")},
	}

	extractor := newFakeExtractor()
	_, err := newTestPipeline(box, &memNewsRepo{}, extractor).Run(context.Background(), mailbox.Credentials{}, func(string) {})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	for field, calls := range extractor.calls {
		if calls != 0 {
			t.Errorf("field %s extracted %d times for automated message, want 0", field, calls)
		}
	}
}

func TestPipelineRunIsFullRefresh(t *testing.T) {
	box := &fakeMailbox{
		uids: []uint32{1, 2},
		messages: map[uint32][]byte{
			1: rawMsg("Jane <jane@acme.com>", "See you tomorrow."),
			2: rawMsg("no-reply@shop.example.com", "Your order."),
		},
	}

	repo := &memNewsRepo{}
	extractor := newFakeExtractor()
	p := newTestPipeline(box, repo, extractor)

	for i := 0; i < 2; i++ {
		if _, err := p.Run(context.Background(), mailbox.Credentials{}, func(string) {}); err != nil {
			t.Fatalf("run %d: %v", i+1, err)
		}
	}

	// A second run against the unchanged mailbox reproduces the same
	// records instead of appending duplicates.
	if len(repo.auto) != 1 || len(repo.user) != 1 {
		t.Errorf("after two runs: %d auto / %d user records, want 1 / 1", len(repo.auto), len(repo.user))
	}
}

func TestPipelineStateTransitions(t *testing.T) {
	box := &fakeMailbox{
		uids:     []uint32{1},
		messages: map[uint32][]byte{1: rawMsg("Jane <jane@acme.com>", "unsubscribe")},
	}

	p := newTestPipeline(box, &memNewsRepo{}, newFakeExtractor())
	var states []RunState
	p.OnStateChange(func(state RunState) { states = append(states, state) })

	if _, err := p.Run(context.Background(), mailbox.Credentials{}, func(string) {}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := []RunState{StateConnecting, StateListing, StateDeduplicating, StateProcessing, StateSummarizing, StateDone}
	if !reflect.DeepEqual(states, want) {
		t.Errorf("states = %v, want %v", states, want)
	}
}

func TestPipelineProgressNotifications(t *testing.T) {
	box := &fakeMailbox{messages: make(map[uint32][]byte)}
	for i := 0; i < 47; i++ {
		uid := uint32(i + 1)
		box.messages[uid] = rawMsg(fmt.Sprintf("S%d <s%d@example.com>", i, i), "unsubscribe")
		box.uids = append(box.uids, uid)
	}

	var notifications []string
	notify := func(text string) { notifications = append(notifications, text) }

	if _, err := newTestPipeline(box, &memNewsRepo{}, newFakeExtractor()).Run(context.Background(), mailbox.Credentials{}, notify); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// One listing notification, ten progress reports, one summary.
	if len(notifications) != 12 {
		t.Fatalf("got %d notifications, want 12: %v", len(notifications), notifications)
	}
	if notifications[1] != "Processed 5/47 messages (10%)" {
		t.Errorf("first progress report = %q", notifications[1])
	}
	if notifications[10] != "Processed 47/47 messages (100%)" {
		t.Errorf("final progress report = %q", notifications[10])
	}
}
