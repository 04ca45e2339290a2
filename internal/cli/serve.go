package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mermview/mermview/internal/web"
	"github.com/mermview/mermview/pkg/cache"
	"github.com/mermview/mermview/pkg/config"
	"github.com/mermview/mermview/pkg/render"
	"github.com/mermview/mermview/pkg/render/browser"
	"github.com/mermview/mermview/pkg/render/ink"
	"github.com/mermview/mermview/pkg/storage"
)

// newServeCmd creates the serve command, which runs the HTTP render
// API until interrupted.
func newServeCmd() *cobra.Command {
	var (
		host       string
		port       int
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP render API",
		Long: `Run the HTTP render API.

Endpoints:
  GET  /health
  POST /api/v1/render
  POST /api/v1/render/image
  GET  /api/v1/quick-render
  GET  /api/v1/diagrams`,
		RunE: func(cmd *cobra.Command, args []string) error {
			appCfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("host") {
				appCfg.Host = host
			}
			if cmd.Flags().Changed("port") {
				appCfg.Port = port
			}
			return runServe(cmd.Context(), appCfg)
		},
	}

	cmd.Flags().StringVar(&host, "host", "0.0.0.0", "interface to bind")
	cmd.Flags().IntVarP(&port, "port", "p", 8000, "port to listen on")
	cmd.Flags().StringVar(&configPath, "config", "mermview.toml", "path to a TOML config file")

	return cmd
}

func runServe(ctx context.Context, appCfg config.Config) error {
	logger := loggerFromContext(ctx)

	primary := browser.New(browser.Options{
		RenderTimeout: appCfg.RenderTimeout,
		NavTimeout:    appCfg.NavTimeout,
		ShowBrowser:   !appCfg.Headless,
	})

	svcCfg := render.ServiceConfig{
		Store:    storage.NewFileStore(appCfg.DiagramsDir),
		CacheTTL: appCfg.CacheTTL,
		Logger:   logger,
	}
	if appCfg.UseFallback {
		svcCfg.Fallback = ink.New(appCfg.InkBaseURL, appCfg.InkTimeout)
	}
	svcCfg.Cache = serveCache(ctx, appCfg, logger)

	svc := render.NewService(primary, svcCfg)
	if err := svc.Initialize(ctx); err != nil {
		return err
	}
	defer svc.Cleanup() //nolint:errcheck // release is best-effort

	srv := &http.Server{
		Addr:              net.JoinHostPort(appCfg.Host, fmt.Sprintf("%d", appCfg.Port)),
		Handler:           web.NewServer(svc, version, logger).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// serveCache picks the render cache backend for the server: redis when
// configured, the file cache otherwise. Cache failures are not fatal.
func serveCache(ctx context.Context, appCfg config.Config, logger *log.Logger) cache.Cache {
	if appCfg.RedisAddr != "" {
		c, err := cache.NewRedisCache(ctx, appCfg.RedisAddr, appCfg.RedisPassword, appCfg.RedisDB)
		if err == nil {
			return c
		}
		logger.Warn("redis unavailable, falling back to file cache", "error", err)
	}
	c, err := cache.NewFileCache(appCfg.CacheDir)
	if err != nil {
		logger.Warn("file cache unavailable, caching disabled", "error", err)
		return cache.NewNullCache()
	}
	return c
}
