// Package mail is the outbound mail-delivery client (Mailgun messages API).
// No delivery-status callback is consumed; send either succeeds or fails.
package mail

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.mailgun.net"

type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
}

// Gateway is what the invoice job needs from a mail sender.
type Gateway interface {
	Send(ctx context.Context, msg Message) error
}

type Client struct {
	APIUser string
	APIKey  string
	Domain  string
	BaseURL string

	http *http.Client
}

func NewClient(apiUser, apiKey, domain string) *Client {
	return &Client{
		APIUser: apiUser,
		APIKey:  apiKey,
		Domain:  domain,
		BaseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Send(ctx context.Context, msg Message) error {
	form := url.Values{}
	form.Set("from", msg.From)
	form.Set("to", msg.To)
	form.Set("subject", msg.Subject)
	form.Set("html", msg.HTML)

	endpoint := fmt.Sprintf("%s/v3/%s/messages", c.BaseURL, c.Domain)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.APIUser, c.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("mailgun: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("mailgun: status %d: %s", resp.StatusCode, body)
	}
	return nil
}
