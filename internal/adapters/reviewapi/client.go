// internal/adapters/reviewapi/client.go
package reviewapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"review_analyzer/internal/adapters/observability"
	"review_analyzer/internal/domain"
)

const service = "analysis-api"

// Client talks to the review analysis service. The base address (for example
// http://localhost:8080/api) is fixed at construction.
type Client struct {
	base string
	hc   *http.Client
	rl   *rate.Limiter
}

func New(base string, rps int) (*Client, error) {
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid API base URL %q", base)
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 60 * time.Second},
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// ---- Public API ----

func (c *Client) ListReviews(ctx context.Context) ([]domain.Review, error) {
	var out struct {
		Data []domain.Review `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/reviews", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) AnalyzeReview(ctx context.Context, d domain.Draft) (domain.AnalysisResult, error) {
	var out struct {
		Data domain.AnalysisResult `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/analyze-review", d, &out); err != nil {
		return domain.AnalysisResult{}, err
	}
	return out.Data, nil
}

// ---- Internals ----

type errorBody struct {
	Error string `json:"error"`
}

// do sends one request with client-side rate limiting and decodes a 2xx JSON
// body into out. Non-2xx answers become *domain.RemoteError; there is no retry.
func (c *Client) do(ctx context.Context, method, endpoint string, in, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", endpoint, err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "review-analyzer/1.0")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal(service, endpoint, 0, time.Since(start))
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()
	observability.ObserveExternal(service, endpoint, resp.StatusCode, time.Since(start))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s response: %w", endpoint, err)
		}
		return nil
	}

	// read a small error body; the service reports failures as {"error": "..."}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var eb errorBody
	_ = json.Unmarshal(b, &eb)
	return &domain.RemoteError{Status: resp.StatusCode, Message: strings.TrimSpace(eb.Error)}
}
