// Package browser implements the rendering port with Playwright
// driving mermaid.js inside headless Chromium.
//
// One browser instance is launched at Initialize and reused across
// renders; each render opens its own page, so concurrent renders are
// isolated at the page level. Lifecycle transitions are guarded by a
// mutex, making double-init, render-before-init and use-after-cleanup
// explicit, testable errors instead of nil-pointer crashes.
package browser

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/mermview/mermview/pkg/diagram"
	"github.com/mermview/mermview/pkg/errors"
	"github.com/mermview/mermview/pkg/render"
)

// renderSelector is the element mermaid.js produces on success.
const renderSelector = ".mermaid svg"

// Default timing for the render wait loop.
const (
	DefaultRenderTimeout = 10 * time.Second
	DefaultNavTimeout    = 30 * time.Second

	// settleDelay gives transition animations time to finish after the
	// SVG element appears.
	settleDelay = 500 * time.Millisecond
)

// lifecycle is the renderer's explicit state. Transitions:
// uninitialized -> initialized -> cleaned. Initialize and Cleanup are
// idempotent within their own state.
type lifecycle int

const (
	stateUninitialized lifecycle = iota
	stateInitialized
	stateCleaned
)

// Options configures a Renderer.
type Options struct {
	// RenderTimeout bounds the wait for the rendered SVG element.
	// Defaults to DefaultRenderTimeout.
	RenderTimeout time.Duration

	// NavTimeout bounds page navigation and content loading.
	// Defaults to DefaultNavTimeout.
	NavTimeout time.Duration

	// Headless controls the browser mode. The zero Options value means
	// headless; set ShowBrowser to get a visible window for debugging.
	ShowBrowser bool
}

// Renderer renders mermaid diagrams in a headless browser.
type Renderer struct {
	opts Options

	mu      sync.Mutex
	state   lifecycle
	pw      *playwright.Playwright
	browser playwright.Browser
}

// New creates an uninitialized Renderer. Call Initialize (or use
// render.With) before rendering.
func New(opts Options) *Renderer {
	if opts.RenderTimeout <= 0 {
		opts.RenderTimeout = DefaultRenderTimeout
	}
	if opts.NavTimeout <= 0 {
		opts.NavTimeout = DefaultNavTimeout
	}
	return &Renderer{opts: opts}
}

// Initialize installs the Playwright driver when missing, starts it and
// launches the shared browser instance. Calling Initialize on an
// already-initialized renderer is a no-op; on a cleaned renderer it is
// an error, since the instance's resources are gone for good.
func (r *Renderer) Initialize(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.state {
	case stateInitialized:
		return nil
	case stateCleaned:
		return errors.New(errors.ErrCodeBrowser, "renderer already cleaned up")
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ensureDriver(); err != nil {
		return errors.Wrap(errors.ErrCodeBrowser, err, "failed to install playwright driver")
	}

	pw, err := playwright.Run()
	if err != nil {
		return errors.Wrap(errors.ErrCodeBrowser, err, "failed to start playwright")
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(!r.opts.ShowBrowser),
	})
	if err != nil {
		_ = pw.Stop()
		return errors.Wrap(errors.ErrCodeBrowser, err, "failed to launch browser")
	}

	r.pw = pw
	r.browser = browser
	r.state = stateInitialized
	return nil
}

// Cleanup closes the browser and stops Playwright. Safe to call on a
// renderer that was never initialized, and idempotent.
func (r *Renderer) Cleanup() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != stateInitialized {
		r.state = stateCleaned
		return nil
	}
	r.state = stateCleaned

	var firstErr error
	if err := r.browser.Close(); err != nil {
		firstErr = err
	}
	if err := r.pw.Stop(); err != nil && firstErr == nil {
		firstErr = err
	}
	r.browser = nil
	r.pw = nil
	if firstErr != nil {
		return errors.Wrap(errors.ErrCodeBrowser, firstErr, "browser cleanup failed")
	}
	return nil
}

// IsAvailable reports whether this renderer can serve renders: either
// the browser is already running, or the Playwright driver is installed
// so Initialize can be expected to succeed. Never returns an error.
func (r *Renderer) IsAvailable(ctx context.Context) bool {
	r.mu.Lock()
	state := r.state
	r.mu.Unlock()

	switch state {
	case stateInitialized:
		return true
	case stateCleaned:
		return false
	}

	driver, err := playwright.NewDriver(&playwright.RunOptions{})
	if err != nil {
		return false
	}
	_, err = os.Stat(driver.DriverBinaryLocation)
	return err == nil
}

// RenderPNG renders the diagram and screenshots the resulting SVG
// element. When the element reports no bounding box the full viewport
// is captured instead. With cfg.Transparent the screenshot omits the
// page background.
func (r *Renderer) RenderPNG(ctx context.Context, code diagram.Code, cfg diagram.Config) ([]byte, error) {
	page, err := r.openPage(ctx, code, cfg)
	if err != nil {
		return nil, err
	}
	defer page.Close() //nolint:errcheck // page is scoped to this render

	element, err := r.awaitRender(ctx, page)
	if err != nil {
		return nil, err
	}

	box, err := element.BoundingBox()
	if err != nil || box == nil {
		// No layout box for the SVG; capture the viewport instead.
		shot, err := page.Screenshot(playwright.PageScreenshotOptions{
			Type:           playwright.ScreenshotTypePng,
			FullPage:       playwright.Bool(false),
			OmitBackground: playwright.Bool(cfg.Transparent),
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "viewport screenshot failed")
		}
		return shot, nil
	}

	shot, err := element.Screenshot(playwright.ElementHandleScreenshotOptions{
		Type:           playwright.ScreenshotTypePng,
		OmitBackground: playwright.Bool(cfg.Transparent),
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "element screenshot failed")
	}
	return shot, nil
}

// RenderSVG renders the diagram and serializes the SVG element's outer
// markup.
func (r *Renderer) RenderSVG(ctx context.Context, code diagram.Code, cfg diagram.Config) ([]byte, error) {
	page, err := r.openPage(ctx, code, cfg)
	if err != nil {
		return nil, err
	}
	defer page.Close() //nolint:errcheck // page is scoped to this render

	if _, err := r.awaitRender(ctx, page); err != nil {
		return nil, err
	}

	result, err := page.Evaluate(`() => {
		const svg = document.querySelector('.mermaid svg');
		if (!svg) return null;
		return svg.outerHTML;
	}`)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "failed to extract SVG")
	}
	svg, ok := result.(string)
	if !ok || svg == "" {
		return nil, errors.New(errors.ErrCodeRenderFailed, "failed to render diagram: SVG not found")
	}
	return []byte(svg), nil
}

// openPage creates the page for one render: fresh page, viewport sized
// to the config, generated document loaded until network idle. The
// returned page must be closed by the caller.
func (r *Renderer) openPage(ctx context.Context, code diagram.Code, cfg diagram.Config) (playwright.Page, error) {
	r.mu.Lock()
	state, browser := r.state, r.browser
	r.mu.Unlock()

	switch state {
	case stateUninitialized:
		return nil, errors.New(errors.ErrCodeBrowser, "renderer not initialized")
	case stateCleaned:
		return nil, errors.New(errors.ErrCodeBrowser, "renderer already cleaned up")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	html, err := renderHTML(code, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "failed to generate render page")
	}

	page, err := browser.NewPage()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "failed to open page")
	}
	if err := page.SetViewportSize(cfg.Width, cfg.Height); err != nil {
		_ = page.Close()
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "failed to set viewport")
	}
	err = page.SetContent(html, playwright.PageSetContentOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(float64(r.opts.NavTimeout.Milliseconds())),
	})
	if err != nil {
		_ = page.Close()
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "failed to load render page")
	}
	return page, nil
}

// awaitRender waits for mermaid.js to produce the SVG element, bounded
// by the render timeout, then pauses briefly for animations to settle.
func (r *Renderer) awaitRender(ctx context.Context, page playwright.Page) (playwright.ElementHandle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	element, err := page.WaitForSelector(renderSelector, playwright.PageWaitForSelectorOptions{
		Timeout: playwright.Float(float64(r.opts.RenderTimeout.Milliseconds())),
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderTimeout, err,
			"timeout waiting for diagram render after %s", r.opts.RenderTimeout)
	}
	if element == nil {
		return nil, errors.New(errors.ErrCodeRenderFailed, "failed to render diagram: SVG not found")
	}
	page.WaitForTimeout(float64(settleDelay.Milliseconds()))
	return element, nil
}

// ensureDriver installs the Playwright driver and browsers when they
// are missing or out of date.
func ensureDriver() error {
	driver, err := playwright.NewDriver(&playwright.RunOptions{})
	if err != nil {
		return err
	}
	if _, err := os.Stat(driver.DriverBinaryLocation); os.IsNotExist(err) {
		return playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}})
	}
	cmd := exec.Command(driver.DriverBinaryLocation, "--version")
	output, err := cmd.Output()
	if err != nil || !bytes.Contains(output, []byte(driver.Version)) {
		return playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}})
	}
	return nil
}

// Ensure Renderer implements the rendering port.
var _ render.Renderer = (*Renderer)(nil)

// String identifies the backend in logs.
func (r *Renderer) String() string {
	return fmt.Sprintf("browser(timeout=%s)", r.opts.RenderTimeout)
}
