// Package push delivers backup artifacts to a chat bot as document
// attachments. Delivery is best-effort with a bounded retry: a duplicate
// message after a retried timeout is acceptable, a lost backup is not.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/ckzvault/ckzvault/pkg/ckzlib"
	"github.com/ckzvault/ckzvault/pkg/credstore"
	"github.com/ckzvault/ckzvault/pkg/logger"
)

// DefaultBaseURL is the bot API endpoint documents are posted to.
const DefaultBaseURL = "https://api.telegram.org"

// attemptTimeout bounds one upload attempt, not the whole delivery.
const attemptTimeout = 30 * time.Second

// apiResponse is the subset of the bot API reply we care about.
type apiResponse struct {
	Ok          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
}

// Client uploads documents to a chat bot endpoint.
type Client struct {
	baseURL string
	creds   credstore.Credentials
	http    *http.Client
	retry   ckzlib.RetryPolicy
	log     logger.Logger
	notify  ckzlib.Notifier
}

// Option adjusts a Client.
type Option func(*Client)

// WithBaseURL overrides the bot API endpoint. Used by tests and self-hosted
// bot API servers.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithRetryPolicy overrides the delivery retry policy.
func WithRetryPolicy(p ckzlib.RetryPolicy) Option {
	return func(c *Client) { c.retry = p }
}

// WithNotifier routes progress messages between attempts.
func WithNotifier(n ckzlib.Notifier) Option {
	return func(c *Client) { c.notify = n }
}

// NewClient builds a push client from stored credentials. The credential
// proxy URL, when set, is dialed through for every attempt.
func NewClient(creds credstore.Credentials, log logger.Logger, opts ...Option) (*Client, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	httpClient, err := newHTTPClient(creds.Proxy)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NewNopLogger()
	}

	c := &Client{
		baseURL: DefaultBaseURL,
		creds:   creds,
		http:    httpClient,
		retry:   ckzlib.DefaultRetryPolicy(),
		log:     log,
		notify:  ckzlib.NopNotifier{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SendDocument uploads data as a document attachment with the given
// filename and caption, retrying with exponential backoff on failure.
func (c *Client) SendDocument(ctx context.Context, filename string, data []byte, caption string) error {
	return c.retry.Do(ctx, func(ctx context.Context) error {
		return c.sendOnce(ctx, filename, data, caption)
	}, func(attempt int, err error) {
		c.log.Warning("push: attempt %d failed: %v, retrying in %s", attempt, err, c.retry.Backoff(attempt))
		c.notify.OnWarning(fmt.Sprintf("backup delivery attempt %d failed, retrying", attempt))
	})
}

func (c *Client) sendOnce(ctx context.Context, filename string, data []byte, caption string) error {
	ctx, cancel := context.WithTimeout(ctx, attemptTimeout)
	defer cancel()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("chat_id", c.creds.ChatID); err != nil {
		return fmt.Errorf("push: encode chat_id: %w", err)
	}
	if caption != "" {
		if err := mw.WriteField("caption", caption); err != nil {
			return fmt.Errorf("push: encode caption: %w", err)
		}
	}
	part, err := mw.CreateFormFile("document", filename)
	if err != nil {
		return fmt.Errorf("push: create document part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("push: write document: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("push: finish form: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendDocument", c.baseURL, c.creds.Token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return fmt.Errorf("push: build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("push: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("push: read response: %w", err)
	}

	var api apiResponse
	if err := json.Unmarshal(raw, &api); err != nil {
		return fmt.Errorf("push: unexpected response (status %d)", resp.StatusCode)
	}
	if !api.Ok {
		if api.Description != "" {
			return fmt.Errorf("push: delivery refused: %s", api.Description)
		}
		return fmt.Errorf("push: delivery refused (status %d)", resp.StatusCode)
	}
	return nil
}
