// Package xmltvfetch implements the guide port against an HTTP(S) XMLTV
// source, including transparent decompression of the usual feed packagings.
package xmltvfetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/githubixx/xmltv-epg-go/internal/domain"
	"github.com/githubixx/xmltv-epg-go/internal/xmltv"
)

// DefaultMaxBodySize caps how much feed data is read. Real-world full-week
// multi-country feeds stay well under this.
const DefaultMaxBodySize = 100 << 20 // 100 MB

// Client fetches and parses an XMLTV document from a single configured URL
type Client struct {
	url         string
	maxBodySize int64
	httpClient  *http.Client
	logger      *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithMaxBodySize overrides the response size cap.
func WithMaxBodySize(n int64) Option {
	return func(c *Client) { c.maxBodySize = n }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a fetch client for the given source URL
func NewClient(url string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		url:         url,
		maxBodySize: DefaultMaxBodySize,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				// The feed may arrive gzip- or brotli-wrapped on top of its
				// own packaging; decode both layers ourselves.
				DisableCompression: true,
			},
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchGuide retrieves the configured document, peels off transfer and
// packaging compression and parses the result into a guide.
func (c *Client) FetchGuide(ctx context.Context) (*domain.Guide, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConnection, err)
	}
	req.Header.Set("Accept-Encoding", "gzip, br")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: fetching %s: %v", domain.ErrTimeout, c.url, err)
		}
		return nil, fmt.Errorf("%w: fetching %s: %v", domain.ErrConnection, c.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetching %s: status %d", domain.ErrConnection, c.url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize+1))
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: reading %s: %v", domain.ErrTimeout, c.url, err)
		}
		return nil, fmt.Errorf("%w: reading %s: %v", domain.ErrConnection, c.url, err)
	}
	if int64(len(body)) > c.maxBodySize {
		return nil, fmt.Errorf("%w: response from %s exceeds %d bytes", domain.ErrConnection, c.url, c.maxBodySize)
	}

	data, err := c.decode(resp.Header.Get("Content-Encoding"), resp.Header.Get("Content-Type"), body)
	if err != nil {
		return nil, err
	}

	guide, err := xmltv.Parse(data)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("guide fetched",
		"url", c.url,
		"channels", len(guide.Channels()),
		"programs", len(guide.Programs()))
	return guide, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
