package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mermview/mermview/pkg/cache"
	"github.com/mermview/mermview/pkg/config"
	"github.com/mermview/mermview/pkg/diagram"
	"github.com/mermview/mermview/pkg/errors"
	"github.com/mermview/mermview/pkg/render"
	"github.com/mermview/mermview/pkg/render/browser"
	"github.com/mermview/mermview/pkg/render/ink"
	"github.com/mermview/mermview/pkg/storage"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	code        string  // inline mermaid code (alternative to input file)
	output      string  // output file path
	width       int     // output width in pixels
	height      int     // output height in pixels
	theme       string  // mermaid theme
	scale       float64 // scale factor for higher resolution
	format      string  // output format: png, svg, pdf
	transparent bool    // transparent background
	noFallback  bool    // disable the mermaid.ink fallback
	noCache     bool    // bypass the render cache
}

// newRenderCmd creates the render command for generating images from
// mermaid source.
//
// Default settings:
//   - width: 800px, height: 600px
//   - theme: default, scale: 2.0 (crisper PNG output)
//   - format: png
//   - fallback: mermaid.ink, enabled
func newRenderCmd() *cobra.Command {
	opts := renderOpts{
		output: "output.png",
		width:  diagram.DefaultWidth,
		height: diagram.DefaultHeight,
		theme:  string(diagram.ThemeDefault),
		scale:  2.0,
		format: string(diagram.FormatPNG),
	}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a mermaid diagram to an image file",
		Long: `Render a mermaid diagram to an image file.

Examples:
  mermview render diagram.mmd -o output.png
  mermview render --code "graph TD; A-->B" -o output.png
  mermview render diagram.mmd -t dark -W 1200 -H 800 -f svg`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readSource(args, opts.code)
			if err != nil {
				return err
			}
			if !diagram.ValidThemes[diagram.Theme(opts.theme)] {
				return errors.New(errors.ErrCodeInvalidTheme,
					"invalid theme: %s (must be 'default', 'forest', 'dark', 'neutral', or 'base')", opts.theme)
			}
			if !diagram.ValidFormats[diagram.Format(opts.format)] {
				return errors.New(errors.ErrCodeInvalidFormat,
					"invalid format: %s (must be 'png', 'svg', or 'pdf')", opts.format)
			}
			return runRender(cmd.Context(), text, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.code, "code", "c", "", "mermaid code to render (alternative to input file)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output file path")
	cmd.Flags().IntVarP(&opts.width, "width", "W", opts.width, "output width in pixels")
	cmd.Flags().IntVarP(&opts.height, "height", "H", opts.height, "output height in pixels")
	cmd.Flags().StringVarP(&opts.theme, "theme", "t", opts.theme, "mermaid theme: default, forest, dark, neutral, base")
	cmd.Flags().Float64VarP(&opts.scale, "scale", "s", opts.scale, "scale factor for higher resolution")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: png, svg, pdf")
	cmd.Flags().BoolVar(&opts.transparent, "transparent", false, "use transparent background")
	cmd.Flags().BoolVar(&opts.noFallback, "no-fallback", false, "fail instead of falling back to mermaid.ink")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the render cache")

	return cmd
}

// readSource returns the mermaid source from the input file argument
// or the --code flag, whichever was provided.
func readSource(args []string, inline string) (string, error) {
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("error reading file: %w", err)
		}
		return string(data), nil
	}
	if inline != "" {
		return inline, nil
	}
	return "", fmt.Errorf("either an input file or --code must be provided")
}

func runRender(ctx context.Context, text string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	appCfg := config.FromEnv()

	cfg, err := diagram.ConfigForPNG(opts.width, opts.height, diagram.Theme(opts.theme), opts.scale, opts.transparent)
	if err != nil {
		return err
	}
	cfg.Format = diagram.Format(opts.format)

	svc := buildService(appCfg, opts, logger)
	logger.Debug("render service assembled", "fallback", !opts.noFallback && appCfg.UseFallback, "cache", !opts.noCache)
	if err := svc.Initialize(ctx); err != nil {
		return err
	}
	defer svc.Cleanup() //nolint:errcheck // release is best-effort

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, "Rendering diagram...")
	spinner.Start()

	path, err := svc.RenderTextAndSave(ctx, text, opts.output, cfg)
	if err != nil {
		spinner.StopWithError(fmt.Sprintf("Rendering failed: %s", errors.UserMessage(err)))
		return err
	}

	spinner.StopWithSuccess(fmt.Sprintf("Rendered to %s", StyleHighlight.Render(path)))
	printDetail("%dx%d %s, theme %s", cfg.Width, cfg.Height, cfg.Format, cfg.Theme)
	prog.done("Render complete")
	return nil
}

// buildService assembles the render service for CLI use: browser
// primary, mermaid.ink fallback (unless disabled), file-backed render
// cache and filesystem storage.
func buildService(appCfg config.Config, opts *renderOpts, logger *log.Logger) *render.Service {
	primary := browser.New(browser.Options{
		RenderTimeout: appCfg.RenderTimeout,
		NavTimeout:    appCfg.NavTimeout,
		ShowBrowser:   !appCfg.Headless,
	})

	svcCfg := render.ServiceConfig{
		Store:  storage.NewFileStore(appCfg.DiagramsDir),
		Logger: logger,
	}
	if !opts.noFallback && appCfg.UseFallback {
		svcCfg.Fallback = ink.New(appCfg.InkBaseURL, appCfg.InkTimeout)
	}
	if opts.noCache {
		svcCfg.Cache = cache.NewNullCache()
	} else if c, err := cache.NewFileCache(appCfg.CacheDir); err == nil {
		svcCfg.Cache = c
		svcCfg.CacheTTL = appCfg.CacheTTL
	}

	return render.NewService(primary, svcCfg)
}
