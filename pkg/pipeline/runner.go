package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/graphcanvas/pkg/cache"
	"github.com/matzehuels/graphcanvas/pkg/canvas"
	"github.com/matzehuels/graphcanvas/pkg/errors"
	docio "github.com/matzehuels/graphcanvas/pkg/io"
	"github.com/matzehuels/graphcanvas/pkg/observability"
	"github.com/matzehuels/graphcanvas/pkg/render"
)

// Runner renders documents with caching.
// Both CLI and API use it so the caching logic lives in one place.
//
// The Runner keeps no per-render state. Multiple goroutines can safely use
// the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is the lifetime of cached artifacts.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.DefaultTTL,
	}
}

// Render builds doc into a canvas and produces every requested format.
// Cached artifacts are reused unless opts.Refresh is set; the rest are
// rendered concurrently from a single flattened scene and written back to
// the cache.
func (r *Runner) Render(ctx context.Context, doc *docio.Document, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)
	start := time.Now()

	c, err := doc.Build(canvas.WithLogger(opts.Logger))
	if err != nil {
		return nil, err
	}

	// The hash covers the rebuilt canvas so equivalent documents share
	// cache entries.
	norm := docio.FromCanvas(c, doc.Name)
	norm.ID = doc.ID
	var buf bytes.Buffer
	if err := docio.WriteJSON(norm, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash document")
	}

	result := &Result{
		DocumentID:   doc.ID,
		DocumentHash: cache.Hash(buf.Bytes()),
		Artifacts:    make(map[string][]byte, len(opts.Formats)),
	}
	result.Stats.GraphCount, result.Stats.NodeCount, result.Stats.EdgeCount = norm.Counts()

	observability.Pipeline().OnRenderStart(ctx, doc.ID, opts.Formats)

	var missing []string
	for _, format := range opts.Formats {
		if data, ok := r.lookup(ctx, result.DocumentHash, format, opts); ok {
			result.Artifacts[format] = data
			result.CacheHits = append(result.CacheHits, format)
			continue
		}
		missing = append(missing, format)
	}

	if len(missing) > 0 {
		src := &source{doc: norm, c: c, scene: render.Flatten(c, opts.Margin)}
		rendered, err := r.renderAll(ctx, src, doc.ID, missing, opts)
		if err != nil {
			return nil, err
		}
		for format, data := range rendered {
			result.Artifacts[format] = data
			r.store(ctx, result.DocumentHash, format, data, opts)
		}
	}

	result.Stats.RenderTime = time.Since(start)
	opts.Logger.Info("rendered document",
		"id", doc.ID,
		"formats", opts.Formats,
		"cached", len(result.CacheHits),
		"duration", result.Stats.RenderTime)
	return result, nil
}

// RenderCanvas captures c as a document named name and renders it.
func (r *Runner) RenderCanvas(ctx context.Context, c *canvas.Canvas, name string, opts Options) (*Result, error) {
	return r.Render(ctx, docio.FromCanvas(c, name), opts)
}

func (r *Runner) renderAll(ctx context.Context, src *source, docID string, formats []string, opts Options) (map[string][]byte, error) {
	var mu sync.Mutex
	out := make(map[string][]byte, len(formats))

	g, gctx := errgroup.WithContext(ctx)
	for _, format := range formats {
		g.Go(func() error {
			began := time.Now()
			data, err := renderFormat(gctx, src, format, opts)
			observability.Pipeline().OnRenderComplete(gctx, docID, format, len(data), time.Since(began), err)
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			mu.Lock()
			out[format] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Runner) lookup(ctx context.Context, docHash, format string, opts Options) ([]byte, bool) {
	if opts.Refresh {
		return nil, false
	}
	key := r.Keyer.ArtifactKey(docHash, opts.ArtifactKeyOpts(format))
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		opts.Logger.Warn("cache lookup failed", "format", format, "error", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, "artifact")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "artifact")
	return data, true
}

func (r *Runner) store(ctx context.Context, docHash, format string, data []byte, opts Options) {
	key := r.Keyer.ArtifactKey(docHash, opts.ArtifactKeyOpts(format))
	if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
		opts.Logger.Warn("cache store failed", "format", format, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "artifact", len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// WriteArtifacts writes every artifact to dir as base plus the format's
// extension and returns the written paths in format order.
func WriteArtifacts(dir, base string, artifacts map[string][]byte) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", dir)
	}
	var paths []string
	for _, format := range Formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := filepath.Join(dir, base+Extension(format))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
