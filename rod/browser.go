package rod

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultMaxPages is the number of dance pages rendered before the
// browser is restarted.
const DefaultMaxPages = 200

// session is one launched Chrome process and the pages opened in it.
type session struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	opened   int64
	active   sync.WaitGroup
}

func launchSession() (*session, error) {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}
	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}
	return &session{launcher: l, browser: b}, nil
}

func (s *session) pid() int {
	return s.launcher.PID()
}

// close shuts the browser down once its open pages are released.
func (s *session) close() error {
	s.active.Wait()
	err := s.browser.Close()
	s.launcher.Kill()
	return err
}

// pool hands out the current session and replaces it after maxPages pages.
// A replaced session is closed in the background when its last page is
// released, so a restart never interrupts a page still rendering.
type pool struct {
	mu       sync.Mutex
	current  *session
	maxPages int64
	logger   *slog.Logger
}

func newPool(maxPages int64, logger *slog.Logger) (*pool, error) {
	s, err := launchSession()
	if err != nil {
		return nil, err
	}
	logger.Debug("browser started", "pid", s.pid())
	return &pool{current: s, maxPages: maxPages, logger: logger}, nil
}

// acquire returns the session to open the next page in. The caller must
// call release on it when the page is closed.
func (p *pool) acquire() (*session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil {
		return nil, fmt.Errorf("browser closed")
	}
	if p.current.opened >= p.maxPages {
		p.restart()
	}
	s := p.current
	s.opened++
	s.active.Add(1)
	return s, nil
}

func (p *pool) release(s *session) {
	s.active.Done()
}

// restart must be called with mu held. A failed launch keeps the old
// session and retries on the next page.
func (p *pool) restart() {
	next, err := launchSession()
	if err != nil {
		p.logger.Warn("browser restart failed", "pages", p.current.opened, "err", err)
		return
	}
	old := p.current
	p.current = next
	p.logger.Info("browser restarted", "pages", old.opened, "old_pid", old.pid(), "pid", next.pid())
	go func() {
		if err := old.close(); err != nil {
			p.logger.Debug("closing old browser", "pid", old.pid(), "err", err)
		}
	}()
}

func (p *pool) pid() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return 0
	}
	return p.current.pid()
}

func (p *pool) close() error {
	p.mu.Lock()
	s := p.current
	p.current = nil
	p.mu.Unlock()

	if s == nil {
		return nil
	}
	return s.close()
}
