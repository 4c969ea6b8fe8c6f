package cli

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphcanvas/pkg/errors"
	"github.com/matzehuels/graphcanvas/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command. Zero
// numeric values fall back to the [render] config section.
type renderOpts struct {
	formats    string
	outDir     string
	base       string
	margin     float64
	scale      float64
	dpi        float64
	background string
	noLabels   bool
	ids        bool
	graphviz   bool
	noCache    bool
	refresh    bool
	watch      bool
}

// watchDebounce collapses the bursts of events editors produce on save.
const watchDebounce = 150 * time.Millisecond

func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <document>",
		Short: "Render a document to SVG, PNG, PDF, DOT, TikZ or an edge list",
		Long: `Render a document to one or more formats.

Formats: ` + strings.Join(pipeline.Formats, ", ") + `

Outputs are written next to the document as <name>.<ext> unless --out or
--base say otherwise. Rendered artifacts are cached by document content and
options. With --watch the document is rendered again whenever it changes.`,
		Example: `  graphcanvas render petersen.json -f svg,png
  graphcanvas render petersen.json -f pdf --graphviz
  graphcanvas render petersen.json -f tikz --dpi 72 --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := c.renderFile(ctx, args[0], opts); err != nil {
				return err
			}
			if !opts.watch {
				return nil
			}
			return c.watchFile(ctx, args[0], func() error {
				return c.renderFile(ctx, args[0], opts)
			})
		},
	}

	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s), comma-separated (default from config, svg)")
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "", "output directory (default the document's directory)")
	cmd.Flags().StringVar(&opts.base, "base", "", "output file name without extension (default the document's)")
	cmd.Flags().Float64Var(&opts.margin, "margin", 0, "padding around the drawing")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "PNG pixels per scene unit")
	cmd.Flags().Float64Var(&opts.dpi, "dpi", 0, "TikZ scene units per inch")
	cmd.Flags().StringVar(&opts.background, "background", "", "background colour as #rrggbb")
	cmd.Flags().BoolVar(&opts.noLabels, "no-labels", false, "omit node and edge labels")
	cmd.Flags().BoolVar(&opts.ids, "ids", false, "label DOT nodes with their IDs")
	cmd.Flags().BoolVar(&opts.graphviz, "graphviz", false, "draw SVG and PDF with graphviz")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render and overwrite cached artifacts")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "render again when the document changes")

	return cmd
}

// pipelineOptions merges the flags over the configured defaults.
func (c *CLI) pipelineOptions(opts renderOpts) (pipeline.Options, error) {
	rc := c.Config.Render
	po := pipeline.Options{
		Formats:    rc.Formats,
		Margin:     rc.Margin,
		Scale:      rc.Scale,
		DPI:        rc.DPI,
		Background: rc.Background,
		HideLabels: opts.noLabels,
		ShowIDs:    opts.ids,
		Graphviz:   opts.graphviz,
		Refresh:    opts.refresh,
		Logger:     c.Logger,
	}
	if opts.formats != "" {
		formats, err := pipeline.ParseFormats(opts.formats)
		if err != nil {
			return po, err
		}
		po.Formats = formats
	}
	if opts.margin != 0 {
		po.Margin = opts.margin
	}
	if opts.scale != 0 {
		po.Scale = opts.scale
	}
	if opts.dpi != 0 {
		po.DPI = opts.dpi
	}
	if opts.background != "" {
		po.Background = opts.background
	}
	return po, po.ValidateAndSetDefaults()
}

func (c *CLI) renderFile(ctx context.Context, path string, opts renderOpts) error {
	logger := loggerFromContext(ctx)

	po, err := c.pipelineOptions(opts)
	if err != nil {
		return err
	}
	doc, err := readDocument(path)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spin := startSpinner(ctx, "Rendering "+strings.Join(po.Formats, ", "))
	res, err := runner.Render(ctx, doc, po)
	spin.stop()
	if spin.interrupted() {
		printWarning("Rendering of %s interrupted", doc.Name)
	}
	if err != nil {
		return err
	}

	dir, base := opts.outDir, opts.base
	if dir == "" {
		dir = filepath.Dir(path)
	}
	if base == "" {
		base = documentName(path)
	}
	paths, err := pipeline.WriteArtifacts(dir, base, res.Artifacts)
	if err != nil {
		return err
	}
	logger.Debug("wrote artifacts", "dir", dir, "count", len(paths))

	cached := len(res.CacheHits) == len(po.Formats)
	printSuccess("Rendered %s", StyleHighlight.Render(doc.Name))
	printStats(res.Stats.GraphCount, res.Stats.NodeCount, res.Stats.EdgeCount, &cached)
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// watchFile calls fn whenever path is written, created or renamed into
// place, until ctx ends. Errors from fn are reported and watching goes on.
// The parent directory is watched so that editors which replace the file
// on save keep triggering events.
func (c *CLI) watchFile(ctx context.Context, path string, fn func() error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "start watcher")
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", path)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "watch %s", path)
	}
	printInfo("Watching %s (ctrl+c to stop)", path)

	var (
		timer   *time.Timer
		trigger <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(watchDebounce)
			trigger = timer.C
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			c.Logger.Warn("watch", "err", err)
		case <-trigger:
			trigger = nil
			if err := fn(); err != nil {
				printError("%s", errors.UserMessage(err))
			}
		}
	}
}
