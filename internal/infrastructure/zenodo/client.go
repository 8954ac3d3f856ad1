package zenodo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"FgdcMigrator/internal/domain"
	"FgdcMigrator/internal/ports"
)

const (
	productionBaseURL = "https://zenodo.org"
	sandboxBaseURL    = "https://sandbox.zenodo.org"

	// Stay safely under the documented 100/minute and 5000/hour limits.
	requestsPerMinute = 90
	requestsPerHour   = 4500
	minInterval       = 700 * time.Millisecond

	maxRetries  = 3
	retryDelay  = time.Second
	backoffBase = 2
)

// Client talks to the Zenodo deposition API with client-side rate limiting
// and retry on server errors.
type Client struct {
	baseURL    string
	token      string
	http       *http.Client
	retryDelay time.Duration

	minute *rate.Limiter
	hour   *rate.Limiter
}

var _ ports.DepositClient = (*Client)(nil)

// NewClient creates a reusable API client. The sandbox flag selects the
// sandbox host so dry runs never touch production records.
func NewClient(token string, sandbox bool, httpClient *http.Client) *Client {
	base := productionBaseURL
	if sandbox {
		base = sandboxBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{
		baseURL:    base,
		token:      token,
		http:       httpClient,
		retryDelay: retryDelay,
		minute:     rate.NewLimiter(rate.Every(minInterval), requestsPerMinute),
		hour:       rate.NewLimiter(rate.Every(time.Hour/requestsPerHour), requestsPerHour),
	}
}

// CreateDeposition creates an empty deposition and returns its id.
func (c *Client) CreateDeposition(ctx context.Context) (int64, error) {
	var resp struct {
		ID int64 `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/deposit/depositions", map[string]any{}, &resp); err != nil {
		return 0, fmt.Errorf("create deposition: %w", err)
	}
	return resp.ID, nil
}

// PutMetadata replaces the metadata of an existing deposition.
func (c *Client) PutMetadata(ctx context.Context, depositionID int64, rec *domain.DepositionRecord) error {
	payload := map[string]any{"metadata": rec}
	path := "/api/deposit/depositions/" + strconv.FormatInt(depositionID, 10)
	if err := c.do(ctx, http.MethodPut, path, payload, nil); err != nil {
		return fmt.Errorf("put metadata for deposition %d: %w", depositionID, err)
	}
	return nil
}

// Publish publishes a deposition. Published records cannot be deleted, only
// versioned, so callers gate this behind explicit configuration.
func (c *Client) Publish(ctx context.Context, depositionID int64) error {
	path := fmt.Sprintf("/api/deposit/depositions/%d/actions/publish", depositionID)
	if err := c.do(ctx, http.MethodPost, path, nil, nil); err != nil {
		return fmt.Errorf("publish deposition %d: %w", depositionID, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, v any) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		// Every attempt consumes rate-limit tokens; retries are requests too.
		if err := c.minute.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}
		if err := c.hour.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}

		if attempt > 0 {
			delay := c.retryDelay
			for i := 1; i < attempt; i++ {
				delay *= backoffBase
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		retry, err := c.once(ctx, method, path, payload, v)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retry {
			return err
		}
	}
	return fmt.Errorf("after %d attempts: %w", maxRetries, lastErr)
}

// once performs a single request. The boolean reports whether the failure is
// retryable (server errors and throttling, not client errors).
func (c *Client) once(ctx context.Context, method, path string, payload, v any) (bool, error) {
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return false, fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return false, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return true, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		if after := resp.Header.Get("Retry-After"); after != "" {
			if seconds, convErr := strconv.Atoi(after); convErr == nil {
				select {
				case <-ctx.Done():
					return false, ctx.Err()
				case <-time.After(time.Duration(seconds) * time.Second):
				}
			}
		}
		return true, fmt.Errorf("throttled: %s", resp.Status)
	}

	if resp.StatusCode >= 500 {
		return true, fmt.Errorf("server error: %s", resp.Status)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, fmt.Errorf("unexpected status %s", resp.Status)
	}

	if v == nil {
		return false, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return false, fmt.Errorf("decode response: %w", err)
	}
	return false, nil
}
