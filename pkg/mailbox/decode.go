package mailbox

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"regexp"
	"strings"
	"time"

	"github.com/emersion/go-message"
	"github.com/emersion/go-message/charset"

	"github.com/KrasilnikovaKateryna/detect-autogenerated-emails-bot/internal/mail/domain"
)

// ErrUnparsable means the message envelope itself could not be parsed.
// Individual header or body failures degrade the affected field instead.
var ErrUnparsable = errors.New("message envelope cannot be parsed")

// senderPattern splits a From header into an optional quoted-or-bare display
// name followed by an address in or without angle brackets.
var senderPattern = regexp.MustCompile(`(?:"?([^"<]*?)"?\s*)?<?([\w.+-]+@[\w.-]+)>?\s*$`)

// wordDecoder decodes RFC 2047 encoded-words using the go-message charset
// registry (windows-1252, iso-8859-*, koi8-r, etc.).
var wordDecoder = &mime.WordDecoder{CharsetReader: charset.Reader}

// Decode parses a raw message into its structured form. A failure on any
// individual header or body segment degrades that field to empty/absent; only
// a fatal structural failure returns ErrUnparsable.
func Decode(raw []byte) (domain.ParsedMessage, error) {
	entity, err := message.Read(bytes.NewReader(raw))
	if err != nil && !message.IsUnknownCharset(err) {
		return domain.ParsedMessage{}, fmt.Errorf("%w: %v", ErrUnparsable, err)
	}

	subject := decodeHeader(entity.Header.Get("Subject"))
	senderName, senderEmail := SplitSender(decodeHeader(entity.Header.Get("From")))
	sentAt := parseDate(entity.Header.Get("Date"))
	body := extractBody(entity)

	return domain.ParsedMessage{
		Subject:     subject,
		SenderName:  senderName,
		SenderEmail: senderEmail,
		SentAt:      sentAt,
		Body:        strings.TrimSpace(strings.ToValidUTF8(body, "�")),
	}, nil
}

// SenderAddress decodes only the From header, for the dedup pre-pass.
func SenderAddress(raw []byte) (string, error) {
	entity, err := message.Read(bytes.NewReader(raw))
	if err != nil && !message.IsUnknownCharset(err) {
		return "", fmt.Errorf("%w: %v", ErrUnparsable, err)
	}
	_, addr := SplitSender(decodeHeader(entity.Header.Get("From")))
	if addr == "" {
		return "", fmt.Errorf("%w: no sender address", ErrUnparsable)
	}
	return addr, nil
}

// SplitSender extracts the display name and the address from a From header
// value. When no address is found, the whole header is used as both.
func SplitSender(from string) (name, addr string) {
	from = strings.TrimSpace(from)
	if from == "" {
		return "", ""
	}
	m := senderPattern.FindStringSubmatch(from)
	if m == nil {
		return from, from
	}
	name = strings.TrimSpace(m[1])
	addr = strings.ToLower(m[2])
	if name == "" {
		name = addr
	}
	return name, addr
}

// parseDate parses the standard email Date header. A mismatch produces an
// absent timestamp, not a decode failure.
func parseDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse("Mon, 2 Jan 2006 15:04:05 -0700", strings.TrimSpace(value))
	if err != nil {
		return nil
	}
	return &t
}

// extractBody selects the message text: the first non-attachment text/plain
// part, else the first text/html part, walking nested multiparts in order.
// Single-part messages are accepted when their content type is text.
func extractBody(entity *message.Entity) string {
	var plain, html string
	walkParts(entity, &plain, &html)
	if plain != "" {
		return plain
	}
	return html
}

func walkParts(entity *message.Entity, plain, html *string) {
	mediaType, _, _ := entity.Header.ContentType()

	if strings.HasPrefix(mediaType, "multipart/") {
		mr := entity.MultipartReader()
		if mr == nil {
			return
		}
		for *plain == "" {
			part, err := mr.NextPart()
			if err == io.EOF {
				break
			}
			if err != nil {
				// Skip faulty parts, keep what we already have.
				break
			}
			walkParts(part, plain, html)
		}
		return
	}

	disposition, _, _ := entity.Header.ContentDisposition()
	if disposition == "attachment" {
		return
	}

	switch mediaType {
	case "text/plain":
		if *plain == "" {
			if b, err := io.ReadAll(entity.Body); err == nil {
				*plain = string(b)
			}
		}
	case "text/html":
		if *html == "" {
			if b, err := io.ReadAll(entity.Body); err == nil {
				*html = string(b)
			}
		}
	}
}

func decodeHeader(s string) string {
	decoded, err := wordDecoder.DecodeHeader(s)
	if err != nil {
		return s
	}
	return decoded
}
