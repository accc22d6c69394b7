// Package sms fetches the phone's recent SMS messages from the
// companion-app backend.
package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/echomi/echomi-ai-platform/internal/otp"
	"github.com/echomi/echomi-ai-platform/pkg/logging"
)

const defaultTimeout = 5 * time.Second

// Source is the inbox the OTP matcher reads from.
type Source interface {
	Recent(ctx context.Context, userID, company string, limit int) ([]otp.SMSRecord, error)
}

// Client is an HTTP client for the companion backend's SMS inbox API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates an SMS inbox client.
func NewClient(baseURL, apiKey string, logger *logging.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Recent returns up to limit messages for a user, most recent first.
// company is an optional server-side filter hint and may be empty. A
// user with no messages yields an empty slice, not an error.
func (c *Client) Recent(ctx context.Context, userID, company string, limit int) ([]otp.SMSRecord, error) {
	if limit < 1 || limit > 10 {
		limit = 10
	}

	q := url.Values{}
	q.Set("userId", userID)
	q.Set("limit", strconv.Itoa(limit))
	if company != "" {
		q.Set("company", company)
	}

	endpoint := fmt.Sprintf("%s/api/sms/latest?%s", c.baseURL, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("sms: failed to build request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sms: inbox request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("sms: inbox returned status %d: %s", resp.StatusCode, body)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("sms: failed to read inbox response: %w", err)
	}

	records, err := decodeRecords(data)
	if err != nil {
		return nil, err
	}
	if len(records) > limit {
		records = records[:limit]
	}

	c.logger.Debug("sms: fetched inbox window", "user_id", userID, "count", len(records))
	return records, nil
}

// The backend has shipped two response shapes over time: a wrapper
// object and a bare array. Accept both.
func decodeRecords(data []byte) ([]otp.SMSRecord, error) {
	var wrapper struct {
		Messages []otp.SMSRecord `json:"messages"`
	}
	if err := json.Unmarshal(data, &wrapper); err == nil && wrapper.Messages != nil {
		return wrapper.Messages, nil
	}

	var records []otp.SMSRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("sms: failed to decode inbox response: %w", err)
	}
	return records, nil
}
