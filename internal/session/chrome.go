package session

import (
	"context"
	"fmt"
	"net/http"
	"os/exec"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// ChromeOptions configures the headless browser fingerprint.
type ChromeOptions struct {
	// ExecPath overrides browser binary discovery.
	ExecPath  string
	Headless  bool
	UserAgent string
	// Locale is sent as Accept-Language (e.g. "en-US,en;q=0.9").
	Locale string
}

const defaultChromeUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/130.0.0.0 Safari/537.36"

// browserCandidates are probed when no explicit binary path is configured.
var browserCandidates = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"headless-shell",
}

// FindBrowser locates a usable browser binary, for the bootstrap
// precondition check. Empty opts.ExecPath probes well-known names.
func FindBrowser(execPath string) (string, error) {
	if execPath != "" {
		if _, err := exec.LookPath(execPath); err != nil {
			return "", fmt.Errorf("browser binary %q not found: %w", execPath, err)
		}
		return execPath, nil
	}
	for _, name := range browserCandidates {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no browser binary found (tried %v)", browserCandidates)
}

type chromeEngine struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	browserCtx  context.Context
	cancel      context.CancelFunc
}

// NewChromeFactory returns a Factory backed by a headless Chrome instance.
// The browser binary must already be installed; the factory fails closed
// rather than attempting installation.
func NewChromeFactory(opts ChromeOptions) Factory {
	return func(ctx context.Context, cookies []*http.Cookie) (Engine, error) {
		execPath, err := FindBrowser(opts.ExecPath)
		if err != nil {
			return nil, err
		}

		ua := opts.UserAgent
		if ua == "" {
			ua = defaultChromeUserAgent
		}
		locale := opts.Locale
		if locale == "" {
			locale = "en-US,en;q=0.9"
		}

		allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.ExecPath(execPath),
			chromedp.Flag("headless", opts.Headless),
			chromedp.NoSandbox,
			chromedp.DisableGPU,
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.Flag("disable-software-rasterizer", true),
			chromedp.Flag("disable-background-timer-throttling", true),
			chromedp.Flag("disable-renderer-backgrounding", true),
			chromedp.UserAgent(ua),
			chromedp.Flag("lang", locale),
		)

		allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
		browserCtx, cancel := chromedp.NewContext(allocCtx)

		// Start the browser eagerly so creation failures surface here, not
		// on the first render.
		if err := chromedp.Run(browserCtx); err != nil {
			cancel()
			allocCancel()
			return nil, fmt.Errorf("browser launch: %w", err)
		}

		e := &chromeEngine{
			allocCtx:    allocCtx,
			allocCancel: allocCancel,
			browserCtx:  browserCtx,
			cancel:      cancel,
		}
		if err := e.setCookies(ctx, cookies); err != nil {
			e.Close(ctx)
			return nil, fmt.Errorf("cookie injection: %w", err)
		}
		return e, nil
	}
}

func (e *chromeEngine) setCookies(ctx context.Context, cookies []*http.Cookie) error {
	if len(cookies) == 0 {
		return nil
	}
	return chromedp.Run(e.browserCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		for _, c := range cookies {
			setter := network.SetCookie(c.Name, c.Value).
				WithDomain(c.Domain).
				WithPath(c.Path).
				WithSecure(c.Secure).
				WithHTTPOnly(c.HttpOnly)
			if !c.Expires.IsZero() {
				expires := cdp.TimeSinceEpoch(c.Expires)
				setter = setter.WithExpires(&expires)
			}
			if err := setter.Do(ctx); err != nil {
				return err
			}
		}
		return nil
	}))
}

// Render opens a fresh tab, navigates, polls for the wait expression and
// reads out the eval expression. On wait timeout the page markup is still
// captured so bot-check signatures remain detectable.
func (e *chromeEngine) Render(ctx context.Context, req RenderRequest) (RenderResult, error) {
	tabCtx, tabCancel := chromedp.NewContext(e.browserCtx)
	defer tabCancel()

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	runCtx, cancel := context.WithTimeout(tabCtx, timeout)
	defer cancel()

	// Propagate caller cancellation into the tab.
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var res RenderResult
	err := chromedp.Run(runCtx,
		chromedp.Navigate(req.URL),
		chromedp.Poll(req.WaitExpr, nil, chromedp.WithPollingTimeout(timeout)),
	)
	if err != nil {
		// Best effort markup capture on the still-open tab.
		htmlCtx, htmlCancel := context.WithTimeout(tabCtx, 5*time.Second)
		defer htmlCancel()
		_ = chromedp.Run(htmlCtx, chromedp.OuterHTML("html", &res.HTML, chromedp.ByQuery))
		return res, fmt.Errorf("%w: %v", ErrRenderTimeout, err)
	}

	var payload string
	if err := chromedp.Run(runCtx,
		chromedp.Evaluate(req.EvalExpr, &payload),
		chromedp.OuterHTML("html", &res.HTML, chromedp.ByQuery),
	); err != nil {
		return res, err
	}
	res.Payload = []byte(payload)
	return res, nil
}

func (e *chromeEngine) Close(context.Context) error {
	err := chromedp.Cancel(e.browserCtx)
	e.cancel()
	e.allocCancel()
	return err
}
