// Package browserfall is the last-resort provider: it drives a headless
// Chrome against a live search engine when every API-shaped backend has
// failed. The browser is launched per fetch and released on every exit
// path, including parse failures and caller cancellation.
package browserfall

import (
	"context"
	"fmt"
	"math/rand"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"

	"github.com/Olamide1/leadengine/internal/lead"
	"github.com/Olamide1/leadengine/internal/provider"
	"github.com/Olamide1/leadengine/internal/useragent"
)

const providerName = "browser"

// Fallback scrapes a DuckDuckGo HTML results page with anti-detection
// measures: randomized user agent and viewport, automation markers off.
type Fallback struct {
	UserAgents *useragent.Pool
	// Timeout bounds the whole browser session per fetch. Defaults to 45s.
	Timeout time.Duration
	// ExecPath optionally pins the Chrome binary.
	ExecPath string
}

func (f *Fallback) Name() string { return providerName }

// Fetch launches the browser, loads the results page, fails fast on
// CAPTCHA/block pages, and parses organic results.
func (f *Fallback) Fetch(ctx context.Context, intent lead.Intent, maxResults int) ([]lead.RawResult, error) {
	if maxResults <= 0 {
		maxResults = 10
	}
	timeout := f.Timeout
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ua := ""
	if f.UserAgents != nil {
		ua = f.UserAgents.Random()
	}
	if ua == "" {
		ua = useragent.DefaultPool[0]
	}
	width := 1200 + rand.Intn(320)
	height := 700 + rand.Intn(200)

	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		// Suppress the automation fingerprint a block page checks first.
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent(ua),
		chromedp.WindowSize(width, height),
	)
	if f.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(f.ExecPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	// Launch first with no actions so a missing or broken Chrome binary is
	// distinguishable from a failure during the session itself.
	if err := chromedp.Run(browserCtx); err != nil {
		if ctx.Err() != nil {
			return nil, provider.Wrap(providerName, provider.KindTransient, ctx.Err())
		}
		return nil, provider.Errf(providerName, provider.KindFatal, "browser launch: %v", err)
	}

	query := intent.RawQuery
	if len(intent.Variants) > 0 {
		query = intent.Variants[0]
	}
	target := queryURL(query)

	var html string
	err := chromedp.Run(browserCtx,
		network.Enable(),
		network.SetExtraHTTPHeaders(network.Headers{"Accept-Language": "en-US,en;q=0.9"}),
		// navigator.webdriver stays true even with the blink flag off; the
		// init script hides it before any page script runs.
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(
				`Object.defineProperty(navigator, 'webdriver', {get: () => undefined})`,
			).Do(ctx)
			return err
		}),
		chromedp.Navigate(target),
		chromedp.WaitReady("body"),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return nil, sessionError(ctx, err)
	}

	if src, blocked := detectBlock(html); blocked {
		// Retrying a challenge page from the same IP only digs the hole
		// deeper; report rate-limited and let the aggregator move on.
		log.Debug().Str("signature", src).Msg("block page detected")
		return nil, provider.Errf(providerName, provider.KindRateLimited, "blocked by %s challenge", src)
	}

	results, err := parseResults(html, maxResults)
	if err != nil {
		return nil, provider.Errf(providerName, provider.KindTransient, "parse results: %v", err)
	}
	if len(results) == 0 && looksEmptyButSuspicious(html) {
		return nil, provider.Errf(providerName, provider.KindRateLimited, "result markup missing, likely soft block")
	}
	return results, nil
}

// sessionError classifies a failure after the browser is already running.
// Navigation and protocol failures are retryable; only the launch path
// reports a configuration problem.
func sessionError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return provider.Wrap(providerName, provider.KindTransient, ctx.Err())
	}
	return provider.Errf(providerName, provider.KindTransient, "browser session: %v", err)
}

// looksEmptyButSuspicious flags pages that rendered but carry none of the
// expected result markup, which in practice means a silent block.
func looksEmptyButSuspicious(html string) bool {
	return !strings.Contains(html, "result") && len(html) < 4096
}

func queryURL(q string) string {
	return fmt.Sprintf("https://html.duckduckgo.com/html/?q=%s", url.QueryEscape(q))
}
