// Package ink implements the rendering port against the mermaid.ink
// web service.
//
// The diagram text is deflate-compressed, base64url-encoded with the
// padding stripped ("pako" encoding) and embedded in the request URL;
// the service decompresses and renders it. Configuration travels as
// query parameters, and only when a value differs from the service's
// documented default, keeping URLs short.
package ink

import (
	"bytes"
	"compress/zlib"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mermview/mermview/pkg/diagram"
	"github.com/mermview/mermview/pkg/errors"
	"github.com/mermview/mermview/pkg/render"
)

// DefaultBaseURL is the public mermaid.ink endpoint.
const DefaultBaseURL = "https://mermaid.ink"

// DefaultTimeout bounds each HTTP request.
const DefaultTimeout = 30 * time.Second

// errorBodyLimit caps how much of an error response body is carried
// into the error message.
const errorBodyLimit = 500

// Renderer renders mermaid diagrams through the mermaid.ink service.
// The zero value is not usable; create one with New.
type Renderer struct {
	baseURL string
	timeout time.Duration

	mu     sync.Mutex
	client *http.Client
}

// New creates a Renderer against baseURL (DefaultBaseURL when empty).
func New(baseURL string, timeout time.Duration) *Renderer {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Renderer{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
	}
}

// Initialize constructs the reusable HTTP client. Idempotent.
// The client follows redirects (the Go default) and enforces the
// configured request timeout.
func (r *Renderer) Initialize(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.client == nil {
		r.client = &http.Client{Timeout: r.timeout}
	}
	return nil
}

// Cleanup drops the HTTP client. Idempotent and safe without a prior
// Initialize.
func (r *Renderer) Cleanup() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.client != nil {
		r.client.CloseIdleConnections()
		r.client = nil
	}
	return nil
}

// IsAvailable probes the service root with a HEAD request. Any response
// with a status below 500 counts as available; unreachable hosts and
// transport errors mean unavailable. Never returns an error.
func (r *Renderer) IsAvailable(ctx context.Context) bool {
	if err := r.Initialize(ctx); err != nil {
		return false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, r.baseURL, nil)
	if err != nil {
		return false
	}
	resp, err := r.httpClient().Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode < 500
}

// RenderPNG fetches the diagram as PNG from /img/pako:<encoded>.
func (r *Renderer) RenderPNG(ctx context.Context, code diagram.Code, cfg diagram.Config) ([]byte, error) {
	u, err := r.renderURL("img", code, cfg, diagram.FormatPNG)
	if err != nil {
		return nil, err
	}
	return r.fetch(ctx, u)
}

// RenderSVG fetches the diagram as SVG from /svg/pako:<encoded>.
func (r *Renderer) RenderSVG(ctx context.Context, code diagram.Code, cfg diagram.Config) ([]byte, error) {
	u, err := r.renderURL("svg", code, cfg, diagram.FormatSVG)
	if err != nil {
		return nil, err
	}
	return r.fetch(ctx, u)
}

func (r *Renderer) renderURL(kind string, code diagram.Code, cfg diagram.Config, format diagram.Format) (string, error) {
	encoded, err := Encode(code.String())
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeRenderFailed, err, "failed to encode diagram")
	}
	u := fmt.Sprintf("%s/%s/pako:%s", r.baseURL, kind, encoded)
	if query := BuildParams(cfg, format); query != "" {
		u += "?" + query
	}
	return u, nil
}

// fetch issues the GET and maps failures to the error taxonomy:
// timeouts to RENDER_TIMEOUT, other transport failures to
// NETWORK_ERROR, non-200 responses to RENDER_FAILED with up to 500
// bytes of the response body.
func (r *Renderer) fetch(ctx context.Context, u string) ([]byte, error) {
	if err := r.Initialize(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "failed to build request")
	}

	resp, err := r.httpClient().Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, errors.Wrap(errors.ErrCodeRenderTimeout, err, "request to mermaid.ink timed out")
		}
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "network error connecting to mermaid.ink")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		detail := strings.TrimSpace(string(body))
		if detail == "" {
			detail = "unknown error"
		}
		return nil, errors.New(errors.ErrCodeRenderFailed,
			"mermaid.ink returned status %d: %s", resp.StatusCode, detail)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "failed to read mermaid.ink response")
	}
	return data, nil
}

func (r *Renderer) httpClient() *http.Client {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.client
}

func isTimeout(err error) bool {
	if uerr, ok := err.(*url.Error); ok && uerr.Timeout() {
		return true
	}
	return false
}

// Encode compresses and encodes diagram text for embedding in a
// mermaid.ink URL: zlib compression at the maximum level, base64url
// encoding, trailing padding stripped. The service inflates the
// decoded bytes to recover the text, so this pipeline must match its
// decoder exactly.
func Encode(code string) (string, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return "", err
	}
	if _, err := w.Write([]byte(code)); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	// RawURLEncoding is base64url without padding.
	return base64.RawURLEncoding.EncodeToString(buf.Bytes()), nil
}

// Decode reverses Encode. The service side normally does this; it
// lives here to keep the pipeline round-trip testable.
func Decode(encoded string) (string, error) {
	compressed, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}
	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return "", err
	}
	defer zr.Close()
	text, err := io.ReadAll(zr)
	if err != nil {
		return "", err
	}
	return string(text), nil
}

// BuildParams builds the query string for a render request. Parameters
// appear only when they differ from the service's documented defaults:
// theme "default", bgColor "white" (PNG only), scale 1.0, width 800,
// height 600. A default configuration yields an empty string.
func BuildParams(cfg diagram.Config, format diagram.Format) string {
	var params []string
	add := func(key, value string) {
		params = append(params, key+"="+url.QueryEscape(value))
	}

	if cfg.Theme != diagram.ThemeDefault {
		add("theme", string(cfg.Theme))
	}
	if format == diagram.FormatPNG && cfg.BackgroundColor != "white" {
		add("bgColor", cfg.BackgroundColor)
	}
	if cfg.Scale != 1.0 {
		add("scale", strconv.FormatFloat(cfg.Scale, 'g', -1, 64))
	}
	if cfg.Width != diagram.DefaultWidth {
		add("width", strconv.Itoa(cfg.Width))
	}
	if cfg.Height != diagram.DefaultHeight {
		add("height", strconv.Itoa(cfg.Height))
	}
	return strings.Join(params, "&")
}

// Ensure Renderer implements the rendering port.
var _ render.Renderer = (*Renderer)(nil)
