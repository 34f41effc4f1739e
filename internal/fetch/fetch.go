// Package fetch performs the outbound HTTP GETs for every scraped page.
//
// All requests made through one Client share a concurrency cap and carry a
// per-request timeout, so a hung upstream only costs the item that asked for it.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"golang.org/x/sync/semaphore"
)

const (
	DefaultUserAgent     = "wca-notifier/1.0 (github.com/pfrederiksen/wca-notifier)"
	DefaultTimeout       = 30 * time.Second
	DefaultMaxConcurrent = 8

	maxBodySize = 8 << 20
)

// Getter is what the scrapers need from an HTTP client.
type Getter interface {
	Get(ctx context.Context, rawURL string) ([]byte, error)
}

// Observer receives one call per completed request.
type Observer interface {
	ObserveFetch(host string, d time.Duration, err error)
}

// NetworkError is a failed fetch: transport error, timeout or non-2xx status.
type NetworkError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status code: %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Timeout reports whether the request ran out of time.
func (e *NetworkError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}

// Options configure a Client. Zero values take the defaults.
type Options struct {
	Timeout       time.Duration
	UserAgent     string
	MaxConcurrent int
	Observer      Observer
	HTTPClient    *http.Client
}

// Client is a Getter with a shared concurrency cap.
type Client struct {
	http      *http.Client
	userAgent string
	timeout   time.Duration
	sem       *semaphore.Weighted
	observer  Observer
}

// New creates a Client.
func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = DefaultMaxConcurrent
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 60 * time.Second}).DialContext,
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 5 * time.Second,
			},
		}
	}
	return &Client{
		http:      hc,
		userAgent: opts.UserAgent,
		timeout:   opts.Timeout,
		sem:       semaphore.NewWeighted(int64(opts.MaxConcurrent)),
		observer:  opts.Observer,
	}
}

// Get returns the body of rawURL. Any failure is a *NetworkError.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, &NetworkError{URL: rawURL, Err: err}
	}
	defer c.sem.Release(1)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	began := time.Now()
	body, err := c.do(ctx, rawURL)
	if c.observer != nil {
		c.observer.ObserveFetch(hostOf(rawURL), time.Since(began), err)
	}
	return body, err
}

func (c *Client) do(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &NetworkError{URL: rawURL, Err: errors.Wrap(err, "creating request")}
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &NetworkError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &NetworkError{URL: rawURL, Err: errors.Wrap(err, "reading body")}
	}
	return body, nil
}

// Document fetches rawURL and parses it as HTML.
func Document(ctx context.Context, g Getter, rawURL string) (*goquery.Document, error) {
	body, err := g.Get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrapf(err, "parsing HTML from %s", rawURL)
	}
	return doc, nil
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	return u.Host
}
