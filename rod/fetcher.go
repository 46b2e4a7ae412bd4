// Package rod fetches dance pages through a headless Chrome browser for
// mirrors of the dance database that render their content with JavaScript.
package rod

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/fwojciec/scddb"
	"github.com/go-rod/rod/lib/proto"
)

var _ scddb.Fetcher = (*Fetcher)(nil)

// DefaultFetchTimeout bounds a single page load.
const DefaultFetchTimeout = 30 * time.Second

// Fetcher retrieves rendered HTML using a recycled headless browser.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	pool     *pool
	timeout  time.Duration
	maxPages int64
	logger   *slog.Logger
	closed   atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the page load timeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithBrowserPages sets how many pages are rendered before the browser
// is restarted.
func WithBrowserPages(n int64) Option {
	return func(f *Fetcher) {
		f.maxPages = n
	}
}

// WithLogger reports browser starts and restarts to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// NewFetcher launches a headless browser.
// Close must be called when the Fetcher is no longer needed.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout:  DefaultFetchTimeout,
		maxPages: DefaultMaxPages,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.maxPages <= 0 {
		f.maxPages = DefaultMaxPages
	}

	p, err := newPool(f.maxPages, f.logger)
	if err != nil {
		return nil, err
	}
	f.pool = p
	return f, nil
}

// Fetch navigates to url and returns the HTML after the page has loaded,
// with open shadow roots serialized inline.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.closed.Load() {
		return "", scddb.Errorf(scddb.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	s, err := f.pool.acquire()
	if err != nil {
		return "", scddb.Errorf(scddb.EINVALID, "fetcher is closed")
	}
	defer f.pool.release(s)

	page, err := s.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", err
	}
	defer page.Close()
	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return "", contextError(ctx, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", contextError(ctx, err)
	}

	obj, err := page.Eval(serializeJS)
	if err != nil {
		return "", contextError(ctx, err)
	}
	return obj.Value.Str(), nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.pool.close()
}

// LauncherPID returns the process ID of the running browser, or 0 once
// closed.
func (f *Fetcher) LauncherPID() int {
	return f.pool.pid()
}

// contextError prefers the context's error so callers can match
// context.Canceled and context.DeadlineExceeded.
func contextError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}

const serializeJS = `() => {
  if (typeof document.documentElement.getHTML === 'function') {
    return '<!DOCTYPE html>' + document.documentElement.getHTML({serializableShadowRoots: true, shadowRoots: Array.from(document.querySelectorAll('*')).map(e => e.shadowRoot).filter(Boolean)});
  }
  return '<!DOCTYPE html>' + document.documentElement.outerHTML;
}`
