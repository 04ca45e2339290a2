package render

import (
	"context"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mermview/mermview/pkg/cache"
	"github.com/mermview/mermview/pkg/diagram"
	"github.com/mermview/mermview/pkg/errors"
	"github.com/mermview/mermview/pkg/storage"
)

// DefaultCacheTTL is how long cached render results stay fresh.
const DefaultCacheTTL = 24 * time.Hour

// ServiceConfig configures optional collaborators of the Service.
// Every field may be left zero: no fallback, no persistence, no
// caching, default logger.
type ServiceConfig struct {
	// Fallback is used only when the primary renderer reports itself
	// unavailable.
	Fallback Renderer

	// Store is required for the *AndSave operations.
	Store storage.Store

	// Cache holds rendered bytes keyed by (code, config, format).
	Cache cache.Cache

	// CacheTTL overrides DefaultCacheTTL when positive.
	CacheTTL time.Duration

	// Logger receives debug and lifecycle messages.
	Logger *log.Logger
}

// Service orchestrates rendering: it selects an available backend,
// dispatches based on the configured output format, caches results and
// updates the owning Diagram entity.
type Service struct {
	primary  Renderer
	fallback Renderer
	store    storage.Store
	cache    cache.Cache
	cacheTTL time.Duration
	log      *log.Logger
}

// NewService creates a Service around the primary renderer.
func NewService(primary Renderer, cfg ServiceConfig) *Service {
	c := cfg.Cache
	if c == nil {
		c = cache.NewNullCache()
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		primary:  primary,
		fallback: cfg.Fallback,
		store:    cfg.Store,
		cache:    c,
		cacheTTL: ttl,
		log:      logger,
	}
}

// Initialize starts the primary renderer and, best-effort, the
// fallback. A fallback initialization failure is logged and swallowed:
// the fallback is allowed to be partially broken without blocking
// startup.
func (s *Service) Initialize(ctx context.Context) error {
	if err := s.primary.Initialize(ctx); err != nil {
		return err
	}
	if s.fallback != nil {
		if err := s.fallback.Initialize(ctx); err != nil {
			s.log.Warn("fallback renderer failed to initialize", "err", err)
		}
	}
	return nil
}

// Cleanup releases both renderers. Cleanup is best-effort per backend:
// a failure in one must not prevent cleanup of the other. The primary's
// error, if any, is returned.
func (s *Service) Cleanup() error {
	err := s.primary.Cleanup()
	if s.fallback != nil {
		if ferr := s.fallback.Cleanup(); ferr != nil {
			s.log.Warn("fallback renderer cleanup failed", "err", ferr)
		}
	}
	return err
}

// Render renders the diagram with its own configuration and caches the
// bytes on the entity before returning them.
func (s *Service) Render(ctx context.Context, d *diagram.Diagram) ([]byte, error) {
	data, err := s.RenderCode(ctx, d.Code, d.Config)
	if err != nil {
		return nil, err
	}
	d.SetRendered(data)
	return data, nil
}

// RenderCode renders a validated code/config pair.
//
// The render cache is consulted first; a hit requires no backend at
// all. On a miss the backend is resolved once — primary if available,
// else fallback — and its result propagates verbatim: there is no
// retry and no re-routing after dispatch.
func (s *Service) RenderCode(ctx context.Context, code diagram.Code, cfg diagram.Config) ([]byte, error) {
	key := cache.RenderKey(code.String(), cfg, string(cfg.Format))
	if data, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		s.log.Debug("render cache hit", "type", code.Type(), "format", cfg.Format)
		return data, nil
	}

	r, err := s.resolve(ctx)
	if err != nil {
		return nil, err
	}

	var data []byte
	if cfg.Format == diagram.FormatSVG {
		data, err = r.RenderSVG(ctx, code, cfg)
	} else {
		data, err = r.RenderPNG(ctx, code, cfg)
	}
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		s.log.Debug("render cache store failed", "err", err)
	}
	return data, nil
}

// RenderText validates raw text and renders it.
func (s *Service) RenderText(ctx context.Context, text string, cfg diagram.Config) ([]byte, error) {
	code, err := diagram.NewCode(text)
	if err != nil {
		return nil, err
	}
	return s.RenderCode(ctx, code, cfg)
}

// RenderAndSave renders the diagram and writes the result to path,
// creating the parent directory when needed. The actual output path is
// returned.
func (s *Service) RenderAndSave(ctx context.Context, d *diagram.Diagram, path string) (string, error) {
	if s.store == nil {
		return "", errors.New(errors.ErrCodeInternal, "no storage configured")
	}
	data, err := s.Render(ctx, d)
	if err != nil {
		return "", err
	}
	if err := s.store.EnsureDir(ctx, filepath.Dir(path)); err != nil {
		return "", err
	}
	return s.store.WriteRendered(ctx, data, path)
}

// RenderTextAndSave validates raw text, renders it and writes the
// result to path.
func (s *Service) RenderTextAndSave(ctx context.Context, text, path string, cfg diagram.Config) (string, error) {
	if s.store == nil {
		return "", errors.New(errors.ErrCodeInternal, "no storage configured")
	}
	data, err := s.RenderText(ctx, text, cfg)
	if err != nil {
		return "", err
	}
	if err := s.store.EnsureDir(ctx, filepath.Dir(path)); err != nil {
		return "", err
	}
	return s.store.WriteRendered(ctx, data, path)
}

// Available reports whether any renderer currently reports itself
// available.
func (s *Service) Available(ctx context.Context) bool {
	if s.primary.IsAvailable(ctx) {
		return true
	}
	return s.fallback != nil && s.fallback.IsAvailable(ctx)
}

// resolve picks the renderer for this render. The availability probe
// is inherently racy against the render that follows; the render error
// is the authoritative signal, so no re-check happens mid-flight.
func (s *Service) resolve(ctx context.Context) (Renderer, error) {
	if s.primary.IsAvailable(ctx) {
		return s.primary, nil
	}
	if s.fallback != nil && s.fallback.IsAvailable(ctx) {
		s.log.Debug("primary renderer unavailable, using fallback")
		return s.fallback, nil
	}
	return nil, errors.New(errors.ErrCodeNoRenderer, "no renderer available")
}
