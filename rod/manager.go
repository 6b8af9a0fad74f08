package rod

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultMaxPages is the number of rendered note pages after which the
// browser is replaced.
const DefaultMaxPages = 50

// DefaultLanguage is the browser UI language. The platform serves a
// reduced page to other locales.
const DefaultLanguage = "zh-CN"

// session is one running Chrome process and the connection to it.
type session struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
}

func (s *session) close() error {
	if s == nil {
		return nil
	}
	var err error
	if s.browser != nil {
		err = s.browser.Close()
	}
	if s.launcher != nil {
		s.launcher.Kill()
	}
	return err
}

// BrowserManager owns the Chrome process behind a Fetcher and replaces it
// after a fixed number of rendered pages, since Chrome keeps growing even
// when pages are closed.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	mu       sync.Mutex
	current  *session
	rendered atomic.Int64
	closed   atomic.Bool

	maxPages int64
	bin      string
	lang     string
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxPages sets how many pages are rendered before the browser is
// replaced. Zero disables recycling.
func WithMaxPages(n int64) ManagerOption {
	return func(bm *BrowserManager) {
		bm.maxPages = n
	}
}

// WithManagerBrowserBin sets the Chrome binary. By default the launcher
// looks for a local install and downloads one if none is found.
func WithManagerBrowserBin(path string) ManagerOption {
	return func(bm *BrowserManager) {
		bm.bin = path
	}
}

// WithLanguage overrides DefaultLanguage.
func WithLanguage(lang string) ManagerOption {
	return func(bm *BrowserManager) {
		bm.lang = lang
	}
}

// NewBrowserManager launches a headless Chrome. Close must be called when
// the manager is no longer needed.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{
		maxPages: DefaultMaxPages,
		lang:     DefaultLanguage,
	}
	for _, opt := range opts {
		opt(bm)
	}

	s, err := bm.launch()
	if err != nil {
		return nil, err
	}
	bm.current = s
	return bm, nil
}

// Browser returns the running browser, replacing it first when the page
// budget is spent. It returns nil once the manager is closed.
func (bm *BrowserManager) Browser() *rod.Browser {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed.Load() || bm.current == nil {
		return nil
	}
	if bm.maxPages > 0 && bm.rendered.Load() >= bm.maxPages {
		bm.recycle()
	}
	return bm.current.browser
}

// PageRendered counts a rendered page toward the recycling budget.
func (bm *BrowserManager) PageRendered() {
	bm.rendered.Add(1)
}

// Close stops the browser. It is safe to call more than once.
func (bm *BrowserManager) Close() error {
	if !bm.closed.CompareAndSwap(false, true) {
		return nil
	}

	bm.mu.Lock()
	defer bm.mu.Unlock()

	err := bm.current.close()
	bm.current = nil
	return err
}

// LauncherPID returns the process ID of the browser launcher, or 0 once closed.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.current == nil || bm.current.launcher == nil {
		return 0
	}
	return bm.current.launcher.PID()
}

// launch starts Chrome with image loading off; note pages only need their
// markup and scripts.
func (bm *BrowserManager) launch() (*session, error) {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("blink-settings", "imagesEnabled=false").
		Set("lang", bm.lang).
		Leakless(true).
		Headless(true)
	if bm.bin != "" {
		l = l.Bin(bm.bin)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}
	return &session{browser: browser, launcher: l}, nil
}

// recycle swaps in a fresh browser. A failed launch keeps the old one.
// Must be called with mu held.
func (bm *BrowserManager) recycle() {
	next, err := bm.launch()
	if err != nil {
		return
	}
	old := bm.current
	bm.current = next
	bm.rendered.Store(0)
	_ = old.close()
}
