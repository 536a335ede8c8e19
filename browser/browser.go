// Package browser owns the hosted Chrome session the agent drives. All
// page interaction goes through Eval as discrete request/response round
// trips; the agent never touches chromedp directly.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/AMCarbonaro/snapbot/config"
	"github.com/AMCarbonaro/snapbot/log"
)

// Runs in every new document before any page script; the page checks
// navigator.webdriver to detect automation.
const stealthJS = `Object.defineProperty(navigator, 'webdriver', { get: () => undefined });`

// session css: hide scrollbars (they confuse row-height measurement)
// and keep clickable elements clickable above overlays.
const sessionCSS = `*::-webkit-scrollbar{display:none!important}` +
	`button,input[type="submit"],input[type="button"],[role="button"],a[href]:not([href=""]){pointer-events:auto!important;position:relative;z-index:2}`

// Host wraps a long-lived chromedp session against the target page.
type Host struct {
	cfg         *config.BrowserConfig
	callTimeout time.Duration

	allocCtx    context.Context
	cancelAlloc context.CancelFunc
	tabCtx      context.Context
	cancelTab   context.CancelFunc
}

func NewHost(cfg *config.BrowserConfig, callTimeout time.Duration) *Host {
	opts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.WindowSize(1920, 1080), // desktop view; the page hides controls on mobile layouts
		chromedp.Flag("headless", cfg.Headless),
		// reduce the chance the page detects automation
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-features", "IsolateOrigins,site-per-process"),
	)
	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}
	if cfg.ProfileDir != "" {
		opts = append(opts, chromedp.UserDataDir(cfg.ProfileDir))
	}
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	return &Host{
		cfg:         cfg,
		callTimeout: callTimeout,
		allocCtx:    allocCtx,
		cancelAlloc: cancelAlloc,
	}
}

// Start opens the tab and navigates to the target page. The returned
// error is fatal; everything after a successful Start is recoverable.
func (h *Host) Start(ctx context.Context) error {
	logger := log.LoggerFromContext(ctx).With(slog.String("component", "browser"))
	h.tabCtx, h.cancelTab = chromedp.NewContext(h.allocCtx)
	logger.Info("navigating", slog.String("url", h.cfg.URL))
	if err := chromedp.Run(h.tabCtx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(stealthJS).Do(ctx)
			return err
		}),
		chromedp.Navigate(h.cfg.URL),
	); err != nil {
		return fmt.Errorf("failed to open target page: %w", err)
	}
	// best effort, the page works without it
	if err := h.Eval(ctx, styleInjection(), nil); err != nil {
		logger.Warn("css injection failed", slog.String("err", err.Error()))
	}
	return nil
}

func styleInjection() string {
	return `(function(){try{var st=document.createElement('style');st.textContent=` +
		fmt.Sprintf("%q", sessionCSS) +
		`;document.head.appendChild(st);return{ok:true}}catch(e){return{ok:false,error:e.message}}})();`
}

// Eval runs a snippet against the live page and decodes its resolved
// value into out. Script-internal failures are encoded in the result
// object, not returned here; an error return means a transport-level
// failure (tab gone, navigation in progress, timeout).
func (h *Host) Eval(ctx context.Context, js string, out any) error {
	if h.tabCtx == nil {
		return fmt.Errorf("browser not started")
	}
	evalCtx := h.tabCtx
	if h.callTimeout > 0 {
		var cancel context.CancelFunc
		evalCtx, cancel = context.WithTimeout(h.tabCtx, h.callTimeout)
		defer cancel()
	}
	if out == nil {
		var discard map[string]any
		out = &discard
	}
	return chromedp.Run(evalCtx, chromedp.Evaluate(js, out))
}

// Reload refreshes the page session.
func (h *Host) Reload(ctx context.Context) error {
	if h.tabCtx == nil {
		return fmt.Errorf("browser not started")
	}
	return chromedp.Run(h.tabCtx, chromedp.Reload())
}

// RunReloadLoop periodically reloads the page to keep the session
// fresh. Independent of the cycle timer. Blocks until ctx is done.
func (h *Host) RunReloadLoop(ctx context.Context, interval time.Duration) {
	logger := log.LoggerFromContext(ctx).With(slog.String("component", "browser"))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := h.Reload(ctx); err != nil {
				logger.Warn("page reload failed", slog.String("err", err.Error()))
			} else {
				logger.Info("page reloaded")
			}
		}
	}
}

func (h *Host) Close() {
	if h.cancelTab != nil {
		h.cancelTab()
	}
	h.cancelAlloc()
}
