package forms

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Submission is one row for a Google Form: entry.* field id -> value.
type Submission map[string]string

// Client posts form responses. Success is HTTP 200; anything else is a
// delivery failure for the caller to log, not retry indefinitely.
type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Submit posts one response to the given formResponse URL.
func (c *Client) Submit(formURL string, sub Submission) error {
	if formURL == "" {
		return fmt.Errorf("form URL is not configured")
	}

	data := url.Values{}
	for field, value := range sub {
		data.Set(field, value)
	}

	resp, err := c.httpClient.Post(formURL, "application/x-www-form-urlencoded", strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("form submit failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("form submit rejected: status %d", resp.StatusCode)
	}
	return nil
}
