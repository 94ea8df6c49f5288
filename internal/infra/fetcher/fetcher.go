package fetcher

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"modo/internal/domain/entity"
	"modo/internal/resilience/circuitbreaker"
)

// Result is the raw output of a fetch: the response body and the URL the
// request actually landed on after redirects.
type Result struct {
	HTML     []byte
	FinalURL string
}

// Fetcher performs SSRF-guarded, rate-limited HTTP GETs and resolves
// redirects, leaving HTML extraction to internal/infra/extractor.
type Fetcher struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	limiter        *hostLimiter
	cfg            Config
}

func New(cfg Config) *Fetcher {
	f := &Fetcher{
		circuitBreaker: circuitbreaker.New(circuitbreaker.FeedFetchConfig()),
		limiter:        newHostLimiter(cfg),
		cfg:            cfg,
	}

	f.client = &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig:     &tls.Config{MinVersion: tls.VersionTLS12},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= f.cfg.MaxRedirects {
				return fmt.Errorf("too many redirects: %d", len(via))
			}
			if resolveSpecialCase(req.URL.Hostname()) {
				return http.ErrUseLastResponse
			}
			return validateRedirectTarget(req.URL.String(), f.cfg.DenyPrivateIPs)
		},
	}

	return f
}

// Fetch validates urlStr, waits for rate-limit admission keyed by host,
// and performs the GET through the circuit breaker. On Google News hosts,
// redirects are not followed and the response body (the interstitial
// page) is returned as-is; the caller's extractor is expected to fall back
// gracefully when that happens.
func (f *Fetcher) Fetch(ctx context.Context, urlStr string) (*Result, error) {
	if err := validateURL(urlStr, f.cfg.DenyPrivateIPs); err != nil {
		return nil, entity.NewFetchError(err)
	}

	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, entity.NewFetchError(err)
	}

	if err := f.limiter.Wait(ctx, parsed.Hostname()); err != nil {
		return nil, entity.NewFetchError(fmt.Errorf("rate limiter wait: %w", err))
	}

	result, err := f.circuitBreaker.Execute(func() (interface{}, error) {
		return f.doFetch(ctx, urlStr)
	})
	if err != nil {
		return nil, entity.NewFetchError(err)
	}

	return result.(*Result), nil
}

func (f *Fetcher) doFetch(ctx context.Context, urlStr string) (*Result, error) {
	reqCtx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, resp.Status)
	}

	limited := io.LimitReader(resp.Body, f.cfg.MaxBodySize+1)
	body, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if int64(len(body)) > f.cfg.MaxBodySize {
		return nil, fmt.Errorf("response body exceeds %d byte limit", f.cfg.MaxBodySize)
	}

	finalURL := urlStr
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return &Result{HTML: body, FinalURL: finalURL}, nil
}
