package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/roach88/covidtesting/internal/dataset"
)

// DefaultTimeout bounds a remote fetch when Options.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// Options configures how a locator is opened.
type Options struct {
	// Timeout bounds the whole remote fetch, body included.
	// Zero means DefaultTimeout; negative disables the bound.
	Timeout time.Duration

	// Client is the HTTP client for remote locators. Nil means
	// http.DefaultClient.
	Client *http.Client
}

func (o Options) timeout() time.Duration {
	if o.Timeout == 0 {
		return DefaultTimeout
	}
	return o.Timeout
}

func (o Options) client() *http.Client {
	if o.Client != nil {
		return o.Client
	}
	return http.DefaultClient
}

// Open returns a reader for locator. http and https URLs are fetched;
// file URLs and plain paths are opened from disk.
// Failures are ingestion errors.
func Open(ctx context.Context, locator string, opts Options) (io.ReadCloser, error) {
	kind, target, err := resolve(locator)
	if err != nil {
		return nil, dataset.NewIngestionError(locator, "unsupported locator", err)
	}

	if kind == locatorFile {
		f, err := os.Open(target)
		if err != nil {
			return nil, dataset.NewIngestionError(locator, "open testing feed", err)
		}
		return f, nil
	}

	cancel := context.CancelFunc(func() {})
	if d := opts.timeout(); d > 0 {
		ctx, cancel = context.WithTimeout(ctx, d)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		cancel()
		return nil, dataset.NewIngestionError(locator, "build request", err)
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := opts.client().Do(req)
	if err != nil {
		cancel()
		return nil, dataset.NewIngestionError(locator, "fetch testing feed", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		cancel()
		return nil, dataset.NewIngestionError(locator, fmt.Sprintf("fetch testing feed: unexpected status %s", resp.Status), nil)
	}

	return &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}, nil
}

// cancelOnClose releases the fetch context once the body is consumed.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}

type locatorKind int

const (
	locatorFile locatorKind = iota
	locatorHTTP
)

func resolve(locator string) (locatorKind, string, error) {
	locator = strings.TrimSpace(locator)
	if locator == "" {
		return 0, "", fmt.Errorf("empty locator")
	}

	u, err := url.Parse(locator)
	if err != nil {
		// Not a URL; treat as a path.
		return locatorFile, locator, nil
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return locatorHTTP, locator, nil
	case "file":
		if u.Path == "" {
			return 0, "", fmt.Errorf("file URL %q has no path", locator)
		}
		return locatorFile, u.Path, nil
	case "":
		return locatorFile, locator, nil
	}

	// A drive letter such as C:\data\daily.csv parses as a one-letter scheme.
	if len(u.Scheme) == 1 {
		return locatorFile, locator, nil
	}
	return 0, "", fmt.Errorf("scheme %q not supported", u.Scheme)
}
