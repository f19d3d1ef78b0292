// internal/browser/session.go
package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"github.com/rs/zerolog"
)

var (
	ErrBrowserNotStarted = errors.New("browser session is closed")
	ErrElementNotFound   = errors.New("element not found")
)

// Key names accepted by PressKey
const (
	KeyPageDown = "PageDown"
	KeyEnter    = "Enter"
)

// Options configures the Chrome instance behind a Session
type Options struct {
	Headless  bool
	UserAgent string
	Proxy     string
	// ChromePath overrides browser discovery.
	ChromePath        string
	WindowWidth       int
	WindowHeight      int
	NavigationTimeout time.Duration
	Logger            zerolog.Logger
}

// Session is one long-lived, visible or headless Chrome tab driven over the
// DevTools protocol. All pages of a run share it.
type Session struct {
	opts Options

	allocCancel   context.CancelFunc
	browserCancel context.CancelFunc
	tab           context.Context

	mu     sync.Mutex
	closed bool
}

// Launch starts Chrome and opens a blank tab
func Launch(ctx context.Context, opts Options) (*Session, error) {
	if opts.WindowWidth <= 0 || opts.WindowHeight <= 0 {
		opts.WindowWidth, opts.WindowHeight = 1920, 1080
	}
	if opts.NavigationTimeout <= 0 {
		opts.NavigationTimeout = 60 * time.Second
	}

	chromePath := opts.ChromePath
	if chromePath == "" {
		chromePath = FindChrome()
	}

	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("disable-gpu", opts.Headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-breakpad", true),
		chromedp.Flag("disable-client-side-phishing-detection", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-hang-monitor", true),
		chromedp.Flag("disable-prompt-on-repost", true),
		chromedp.Flag("disable-renderer-backgrounding", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("force-color-profile", "srgb"),
		chromedp.Flag("log-level", "3"),
		chromedp.Flag("metrics-recording-only", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-infobars", true),
		chromedp.WindowSize(opts.WindowWidth, opts.WindowHeight),
	}
	if chromePath != "" {
		allocOpts = append([]chromedp.ExecAllocatorOption{chromedp.ExecPath(chromePath)}, allocOpts...)
	}
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}
	if opts.Headless {
		allocOpts = append(allocOpts, chromedp.Flag("headless", "new"))
	} else {
		allocOpts = append(allocOpts, chromedp.Flag("headless", false))
	}
	if opts.Proxy != "" {
		allocOpts = append(allocOpts, chromedp.ProxyServer(opts.Proxy))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	tab, browserCancel := chromedp.NewContext(allocCtx)

	s := &Session{
		opts:          opts,
		allocCancel:   allocCancel,
		browserCancel: browserCancel,
		tab:           tab,
	}

	// The first Run starts the browser process and binds it to the tab
	// context, so it must not run on a context that gets cancelled.
	if err := chromedp.Run(tab); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	if err := s.run(ctx, opts.NavigationTimeout, network.Enable()); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	opts.Logger.Debug().
		Str("chrome", chromePath).
		Bool("headless", opts.Headless).
		Msg("Browser session ready")

	return s, nil
}

// run executes actions in the tab, bounded by timeout and cancelled with ctx
func (s *Session) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return ErrBrowserNotStarted
	}

	runCtx, cancel := context.WithCancel(s.tab)
	defer cancel()
	if timeout > 0 {
		var timeoutCancel context.CancelFunc
		runCtx, timeoutCancel = context.WithTimeout(runCtx, timeout)
		defer timeoutCancel()
	}
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, actions...)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// Navigate loads url and waits for the load event
func (s *Session) Navigate(ctx context.Context, url string) error {
	return s.run(ctx, s.opts.NavigationTimeout, chromedp.Navigate(url))
}

// ExecuteScript evaluates js in the page, discarding its result
func (s *Session) ExecuteScript(ctx context.Context, js string) error {
	return s.run(ctx, s.opts.NavigationTimeout, chromedp.Evaluate(js, nil))
}

// HTML returns the serialized DOM of the current page
func (s *Session) HTML(ctx context.Context) (string, error) {
	var html string
	if err := s.run(ctx, s.opts.NavigationTimeout, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", err
	}
	return html, nil
}

// CurrentURL returns the URL of the current page
func (s *Session) CurrentURL(ctx context.Context) (string, error) {
	var url string
	if err := s.run(ctx, s.opts.NavigationTimeout, chromedp.Location(&url)); err != nil {
		return "", err
	}
	return url, nil
}

// MoveMouse moves the pointer to viewport coordinates x, y
func (s *Session) MoveMouse(ctx context.Context, x, y float64) error {
	return s.run(ctx, s.opts.NavigationTimeout, chromedp.ActionFunc(func(ctx context.Context) error {
		return input.DispatchMouseEvent(input.MouseMoved, x, y).Do(ctx)
	}))
}

// Exists reports whether selector currently matches a node
func (s *Session) Exists(ctx context.Context, selector string) (bool, error) {
	var nodes []*cdp.Node
	err := s.run(ctx, s.opts.NavigationTimeout,
		chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0)))
	if err != nil {
		return false, err
	}
	return len(nodes) > 0, nil
}

// Click clicks the first node matching selector. A missing node is
// ErrElementNotFound instead of an indefinite wait.
func (s *Session) Click(ctx context.Context, selector string) error {
	ok, err := s.Exists(ctx, selector)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrElementNotFound, selector)
	}
	return s.run(ctx, s.opts.NavigationTimeout, chromedp.Click(selector, chromedp.ByQuery))
}

// Fill waits for selector to become visible and sets its value
func (s *Session) Fill(ctx context.Context, selector, value string) error {
	return s.run(ctx, s.opts.NavigationTimeout,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.SetValue(selector, value, chromedp.ByQuery),
	)
}

// PressKey sends key to the focused page times times
func (s *Session) PressKey(ctx context.Context, key string, times int) error {
	var code string
	switch key {
	case KeyPageDown:
		code = kb.PageDown
	case KeyEnter:
		code = kb.Enter
	default:
		code = key
	}

	actions := make([]chromedp.Action, 0, times)
	for i := 0; i < times; i++ {
		actions = append(actions, chromedp.KeyEvent(code))
	}
	return s.run(ctx, s.opts.NavigationTimeout, actions...)
}

// Cookies returns every cookie of the browser
func (s *Session) Cookies(ctx context.Context) ([]*network.Cookie, error) {
	var cookies []*network.Cookie
	err := s.run(ctx, s.opts.NavigationTimeout, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		cookies, err = network.GetCookies().Do(ctx)
		return err
	}))
	return cookies, err
}

// SetCookies installs cookies, typically from a saved session
func (s *Session) SetCookies(ctx context.Context, cookies []*network.CookieParam) error {
	if len(cookies) == 0 {
		return nil
	}
	return s.run(ctx, s.opts.NavigationTimeout, chromedp.ActionFunc(func(ctx context.Context) error {
		return network.SetCookies(cookies).Do(ctx)
	}))
}

// Close shuts the tab and the browser process. It is safe to call twice.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.browserCancel()
	s.allocCancel()
	return nil
}
