// Package payment is the outbound card-charge client. It speaks the Stripe
// form-encoded API: one call to tokenize the card, one to charge it.
package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
)

const defaultBaseURL = "https://api.stripe.com"

type Client struct {
	APIKey  string
	BaseURL string

	http    *http.Client
	breaker *gobreaker.CircuitBreaker[string]
}

func NewClient(apiKey string) *Client {
	return &Client{
		APIKey:  apiKey,
		BaseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		breaker: gobreaker.NewCircuitBreaker[string](gobreaker.Settings{Name: "stripe"}),
	}
}

func (c *Client) TokenizeCard(ctx context.Context, number, expMonth, expYear, cvc string) (string, error) {
	form := url.Values{}
	form.Set("card[number]", number)
	form.Set("card[exp_month]", expMonth)
	form.Set("card[exp_year]", expYear)
	form.Set("card[cvc]", cvc)

	return c.post(ctx, "/v1/tokens", form)
}

func (c *Client) Charge(ctx context.Context, amountCents int64, currency, description, cardToken string) (string, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amountCents, 10))
	form.Set("currency", currency)
	form.Set("description", description)
	form.Set("source", cardToken)

	return c.post(ctx, "/v1/charges", form)
}

// post sends a form request through the circuit breaker and returns the "id"
// field of the response. Transport errors, non-2xx statuses, unparsable
// bodies and an open breaker all come back as plain errors; the workflow
// treats them uniformly.
func (c *Client) post(ctx context.Context, path string, form url.Values) (string, error) {
	return c.breaker.Execute(func() (string, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, strings.NewReader(form.Encode()))
		if err != nil {
			return "", err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Authorization", "Bearer "+c.APIKey)

		resp, err := c.http.Do(req)
		if err != nil {
			return "", fmt.Errorf("stripe: %s: %w", path, err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("stripe: %s: read body: %w", path, err)
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return "", fmt.Errorf("stripe: %s: status %d: %s", path, resp.StatusCode, body)
		}

		var parsed struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(body, &parsed); err != nil {
			return "", fmt.Errorf("stripe: %s: unparsable body: %w", path, err)
		}
		if parsed.ID == "" {
			return "", fmt.Errorf("stripe: %s: response has no id", path)
		}
		return parsed.ID, nil
	})
}
