package mailbox

import (
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
)

var (
	// ErrAuthFailed means the session could not be opened with the given
	// credentials. Fatal for a pipeline run.
	ErrAuthFailed = errors.New("mailbox authentication failed")

	// ErrFetch means a single message could not be retrieved. The message
	// is skipped, the run continues.
	ErrFetch = errors.New("message fetch failed")
)

// Credentials are supplied per run (Gmail address + app password); they are
// never persisted.
type Credentials struct {
	Email    string
	Password string
}

// Dialer opens short-lived IMAP sessions. The pipeline redials every batch
// so a dropped connection only costs that batch.
type Dialer struct {
	Server  string // host:port
	Folder  string
	Timeout time.Duration
}

// Session wraps one logged-in, folder-selected IMAP connection.
type Session struct {
	c *client.Client
}

// Dial connects over TLS, logs in and selects the configured folder.
func (d Dialer) Dial(creds Credentials) (*Session, error) {
	host := d.Server
	if idx := strings.Index(host, ":"); idx >= 0 {
		host = host[:idx]
	}

	dialer := &net.Dialer{Timeout: d.Timeout}
	c, err := client.DialWithDialerTLS(dialer, d.Server, &tls.Config{ServerName: host})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to IMAP server: %w", err)
	}
	c.Timeout = d.Timeout

	if err := c.Login(creds.Email, creds.Password); err != nil {
		_ = c.Logout()
		return nil, fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}

	folder := d.Folder
	if folder == "" {
		folder = "INBOX"
	}
	if _, err := c.Select(folder, true); err != nil {
		_ = c.Logout()
		return nil, fmt.Errorf("failed to select %s: %w", folder, err)
	}

	return &Session{c: c}, nil
}

// ListAll returns the UIDs of every message in the selected folder, in
// mailbox listing order.
func (s *Session) ListAll() ([]uint32, error) {
	uids, err := s.c.UidSearch(imap.NewSearchCriteria())
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}
	return uids, nil
}

// Fetch retrieves the raw RFC 822 bytes of one message by UID.
func (s *Session) Fetch(uid uint32) ([]byte, error) {
	seqset := new(imap.SeqSet)
	seqset.AddNum(uid)

	section := &imap.BodySectionName{}
	items := []imap.FetchItem{section.FetchItem()}

	messages := make(chan *imap.Message, 1)
	done := make(chan error, 1)
	go func() {
		done <- s.c.UidFetch(seqset, items, messages)
	}()

	var raw []byte
	for msg := range messages {
		body := msg.GetBody(section)
		if body == nil {
			continue
		}
		buf, err := io.ReadAll(body)
		if err != nil || len(buf) == 0 {
			continue
		}
		raw = buf
	}

	if err := <-done; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: UID %d has no body", ErrFetch, uid)
	}
	return raw, nil
}

// Close logs out. Safe to call on a session whose connection is already
// broken; secondary errors are swallowed.
func (s *Session) Close() error {
	if s == nil || s.c == nil {
		return nil
	}
	_ = s.c.Logout()
	return nil
}
