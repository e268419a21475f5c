package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/time/rate"
)

const (
	DefaultEndpointURL = "https://api.airtable.com"
	DefaultView        = "Grid view"
	DefaultTimeout     = 15 * time.Second

	// The API allows five requests per second per base and answers 429
	// beyond that.
	DefaultRequestsPerSecond = 5
	DefaultMaxRetries        = 5
	DefaultRetryBaseDelay    = time.Second

	// MaxRecordsPerUpdate is the API's per-request limit for writes.
	MaxRecordsPerUpdate = 10

	pageSize     = 100
	maxBodyBytes = 4 << 20
)

type Config struct {
	APIKey      string
	BaseID      string
	EndpointURL string
	View        string
	Timeout     time.Duration

	// RequestsPerSecond paces outgoing calls; zero uses the API limit.
	RequestsPerSecond float64
	// MaxRetries bounds retries of rate-limited (429) calls; zero uses
	// DefaultMaxRetries and a negative value disables retrying.
	MaxRetries     int
	RetryBaseDelay time.Duration
}

// Client talks to one base. It is safe for concurrent use.
type Client struct {
	baseURL string
	auth    string
	view    string
	http    *http.Client

	limiter    *rate.Limiter
	maxRetries int
	retryDelay time.Duration
}

func New(cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	baseID := strings.TrimSpace(cfg.BaseID)
	if apiKey == "" || baseID == "" {
		return nil, errors.New("airtable: missing API key or base id")
	}

	endpoint := strings.TrimRight(strings.TrimSpace(cfg.EndpointURL), "/")
	if endpoint == "" {
		endpoint = DefaultEndpointURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = DefaultRequestsPerSecond
	}
	maxRetries := cfg.MaxRetries
	switch {
	case maxRetries == 0:
		maxRetries = DefaultMaxRetries
	case maxRetries < 0:
		maxRetries = 0
	}
	retryDelay := cfg.RetryBaseDelay
	if retryDelay <= 0 {
		retryDelay = DefaultRetryBaseDelay
	}

	return &Client{
		baseURL:    endpoint + "/v0/" + url.PathEscape(baseID),
		auth:       "Bearer " + apiKey,
		view:       cfg.View,
		http:       &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), max(1, int(rps))),
		maxRetries: maxRetries,
		retryDelay: retryDelay,
	}, nil
}

// FindRecordsByFilter returns every record of table matching formula,
// following pagination. An empty formula returns the whole view.
func (c *Client) FindRecordsByFilter(ctx context.Context, table string, formula Formula) ([]Record, error) {
	var out []Record
	offset := ""
	for {
		q := url.Values{}
		q.Set("pageSize", fmt.Sprint(pageSize))
		if formula != "" {
			q.Set("filterByFormula", string(formula))
		}
		if c.view != "" {
			q.Set("view", c.view)
		}
		if offset != "" {
			q.Set("offset", offset)
		}

		var page listEnvelope
		if err := c.do(ctx, http.MethodGet, c.tableURL(table)+"?"+q.Encode(), nil, &page); err != nil {
			return nil, fmt.Errorf("list %s: %w", table, err)
		}
		out = append(out, page.Records...)

		if page.Offset == "" {
			return out, nil
		}
		offset = page.Offset
	}
}

// FindRecordByID returns ErrNotFound when the id does not exist in table.
func (c *Client) FindRecordByID(ctx context.Context, table, id string) (*Record, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	var rec Record
	if err := c.do(ctx, http.MethodGet, c.tableURL(table)+"/"+url.PathEscape(id), nil, &rec); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("find %s/%s: %w", table, id, ErrNotFound)
		}
		return nil, fmt.Errorf("find %s/%s: %w", table, id, err)
	}
	return &rec, nil
}

// UpdateFields patches up to MaxRecordsPerUpdate records in one call. The
// API rejects the whole call if any id is invalid.
func (c *Client) UpdateFields(ctx context.Context, table string, updates []RecordUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	if len(updates) > MaxRecordsPerUpdate {
		return ErrBatchTooLarge
	}

	body, err := json.Marshal(updateEnvelope{Records: updates})
	if err != nil {
		return fmt.Errorf("encode %s update: %w", table, err)
	}
	if err := c.do(ctx, http.MethodPatch, c.tableURL(table), body, nil); err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}
	return nil
}

func (c *Client) tableURL(table string) string {
	return c.baseURL + "/" + url.PathEscape(table)
}

// do paces the call and retries it while the API answers 429, honouring
// Retry-After when present. Other failures are returned as is.
func (c *Client) do(ctx context.Context, method, endpoint string, body []byte, out any) error {
	var throttled *APIError
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return struct{}{}, backoff.Permanent(err)
		}
		err := c.send(ctx, method, endpoint, body, out)
		var apiErr *APIError
		if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusTooManyRequests {
			return struct{}{}, backoff.Permanent(err)
		}
		throttled = apiErr
		if apiErr.RetryAfter > 0 {
			return struct{}{}, backoff.RetryAfter(int(apiErr.RetryAfter / time.Second))
		}
		return struct{}{}, err
	}, backoff.WithBackOff(c.newBackOff()), backoff.WithMaxTries(uint(c.maxRetries+1)))

	var retryAfter *backoff.RetryAfterError
	if errors.As(err, &retryAfter) && throttled != nil {
		return throttled
	}
	return err
}

func (c *Client) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryDelay
	b.MaxInterval = 30 * time.Second
	return b
}

func (c *Client) send(ctx context.Context, method, endpoint string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", c.auth)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := parseAPIError(resp.StatusCode, respBody)
		if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
			apiErr.RetryAfter = time.Duration(secs) * time.Second
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Type: http.StatusText(status)}

	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil || len(env.Error) == 0 {
		apiErr.Message = compactBody(body)
		return apiErr
	}

	var detail errorDetail
	if err := json.Unmarshal(env.Error, &detail); err == nil {
		if detail.Type != "" {
			apiErr.Type = detail.Type
		}
		apiErr.Message = detail.Message
		return apiErr
	}
	var code string
	if err := json.Unmarshal(env.Error, &code); err == nil && code != "" {
		apiErr.Type = code
	}
	return apiErr
}

func compactBody(body []byte) string {
	s := strings.Join(strings.Fields(string(body)), " ")
	if len(s) > 300 {
		return s[:300] + "..."
	}
	return s
}
