// Package playstore talks to the review-hosting platform.
package playstore

import (
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

	"golang.org/x/time/rate"

	"store_reviews/internal/adapters/observability"
	"store_reviews/internal/domain"
)

// Style selects the endpoint layout of the platform.
type Style string

const (
	// StyleGeneric: POST {base}/reviews?source=<id>&maxResults=N
	StyleGeneric Style = "generic"
	// StylePlay: GET {base}/applications/<id>/reviews?maxResults=N
	StylePlay Style = "play"
)

const (
	service      = "reviews"
	maxBodyBytes = 4 << 20
)

type Client struct {
	base  string
	style Style
	hc    *http.Client
	rl    *rate.Limiter
}

func New(base string, style Style, timeout time.Duration, rps int) (*Client, error) {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	switch style {
	case "":
		style = StyleGeneric
	case StyleGeneric, StylePlay:
	default:
		return nil, fmt.Errorf("unknown endpoint style %q", style)
	}
	if rps <= 0 {
		rps = 5
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		base:  base,
		style: style,
		hc:    &http.Client{Timeout: timeout},
		rl:    rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// ---- Public API ----

// FetchReviews issues exactly one request. Errors are *domain.FetchError tagged with their kind.
func (c *Client) FetchReviews(ctx context.Context, token, sourceID string, limit int) ([]domain.RawReview, error) {
	if limit <= 0 || limit > domain.MaxReviews {
		limit = domain.MaxReviews
	}
	if err := c.rl.Wait(ctx); err != nil {
		return nil, domain.NewError(domain.KindTransport, sourceID, fmt.Errorf("rate limiter: %w", err))
	}

	req, err := c.newRequest(ctx, token, sourceID, limit)
	if err != nil {
		return nil, domain.NewError(domain.KindResponse, sourceID, err)
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal(service, string(c.style), 0, time.Since(start))
		return nil, domain.NewError(domain.KindTransport, sourceID, err)
	}
	defer resp.Body.Close()
	observability.ObserveExternal(service, string(c.style), resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, domain.NewError(domain.KindCredential, sourceID,
			fmt.Errorf("%w: status %d", domain.ErrUnauthorized, resp.StatusCode))

	case resp.StatusCode < 200 || resp.StatusCode > 299:
		// read a small error body for diagnostics
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		msg := fmt.Sprintf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		if wait := retryAfter(resp); wait > 0 {
			msg += fmt.Sprintf(" (retry after %s)", wait)
		}
		return nil, domain.NewError(domain.KindResponse, sourceID, errors.New(msg))
	}

	var body struct {
		Reviews []domain.RawReview `json:"reviews"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&body); err != nil {
		if ctx.Err() != nil {
			return nil, domain.NewError(domain.KindTransport, sourceID, ctx.Err())
		}
		return nil, domain.NewError(domain.KindResponse, sourceID, fmt.Errorf("decode body: %w", err))
	}
	if len(body.Reviews) == 0 {
		return nil, domain.NewError(domain.KindResponse, sourceID, domain.ErrEmptyResult)
	}
	return body.Reviews, nil
}

// ---- Internals ----

func (c *Client) newRequest(ctx context.Context, token, sourceID string, limit int) (*http.Request, error) {
	q := url.Values{}
	q.Set("maxResults", strconv.Itoa(limit))

	var (
		method = http.MethodGet
		u      string
	)
	switch c.style {
	case StylePlay:
		u = fmt.Sprintf("%s/applications/%s/reviews?%s", c.base, url.PathEscape(sourceID), q.Encode())
	default:
		method = http.MethodPost
		q.Set("source", sourceID)
		u = fmt.Sprintf("%s/reviews?%s", c.base, q.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "store-reviews/1.0")
	return req, nil
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	// seconds form
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	// HTTP-date form
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}
