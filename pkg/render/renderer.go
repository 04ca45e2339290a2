// Package render defines the rendering port and the orchestrator that
// drives mermaid diagrams through a primary backend with optional
// fallback.
//
// A Renderer turns a (code, config) pair into image bytes. Two
// implementations live in the subpackages: browser (Playwright driving
// mermaid.js in headless Chromium) and ink (the mermaid.ink web
// service). The Service selects between them, consults the render
// cache, and persists output through the storage port.
package render

import (
	"context"

	"github.com/mermview/mermview/pkg/diagram"
)

// Renderer is the capability contract every rendering backend
// implements. Backends own their resources; Initialize and Cleanup are
// idempotent and bracket all rendering.
type Renderer interface {
	// Initialize acquires backend resources (browser process, HTTP
	// client). Idempotent. Fails with a BROWSER_ERROR or
	// INTERNAL_ERROR coded error when the backend cannot start.
	Initialize(ctx context.Context) error

	// Cleanup releases backend resources. Idempotent, and safe to call
	// on a renderer that was never initialized.
	Cleanup() error

	// IsAvailable is a non-throwing liveness probe.
	IsAvailable(ctx context.Context) bool

	// RenderPNG renders the code to PNG bytes. Each call is
	// independently retryable: a failed render must not corrupt the
	// backend's shared state.
	RenderPNG(ctx context.Context, code diagram.Code, cfg diagram.Config) ([]byte, error)

	// RenderSVG renders the code to SVG bytes.
	RenderSVG(ctx context.Context, code diagram.Code, cfg diagram.Config) ([]byte, error)
}

// With brackets fn between Initialize and Cleanup, guaranteeing the
// backend is released on every exit path, including render failures
// and panics.
func With(ctx context.Context, r Renderer, fn func(Renderer) error) error {
	if err := r.Initialize(ctx); err != nil {
		return err
	}
	defer r.Cleanup() //nolint:errcheck // release is best-effort
	return fn(r)
}
