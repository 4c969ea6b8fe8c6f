// Package pipeline renders canvas documents into output artifacts.
//
// The same [Runner] serves the CLI and the HTTP server: it builds a canvas
// from a document, flattens it once, renders every requested format
// concurrently and caches each artifact under a key derived from the
// document content and the options that affect that format.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Render(ctx, doc, pipeline.Options{
//	    Formats: []string{"svg", "png"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphcanvas/pkg/cache"
	"github.com/matzehuels/graphcanvas/pkg/errors"
	"github.com/matzehuels/graphcanvas/pkg/render"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultScale is the PNG pixels per scene unit.
	DefaultScale = 2.0

	// DefaultDPI converts scene units to inches for TikZ.
	DefaultDPI = 96.0

	// DefaultMargin pads the rendered picture.
	DefaultMargin = render.DefaultMargin
)

// Format constants for output formats.
const (
	FormatSVG   = "svg"
	FormatPNG   = "png"
	FormatPDF   = "pdf"
	FormatDOT   = "dot"
	FormatJSON  = "json"
	FormatTikZ  = "tikz"
	FormatEdges = "edges"
)

// Formats lists every output format in a stable order.
var Formats = []string{FormatSVG, FormatPNG, FormatPDF, FormatDOT, FormatJSON, FormatTikZ, FormatEdges}

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:   true,
	FormatPNG:   true,
	FormatPDF:   true,
	FormatDOT:   true,
	FormatJSON:  true,
	FormatTikZ:  true,
	FormatEdges: true,
}

var extensions = map[string]string{
	FormatSVG:   ".svg",
	FormatPNG:   ".png",
	FormatPDF:   ".pdf",
	FormatDOT:   ".dot",
	FormatJSON:  ".json",
	FormatTikZ:  ".tex",
	FormatEdges: ".edges",
}

// Extension returns the file extension for a format, including the dot.
func Extension(format string) string {
	return extensions[format]
}

var contentTypes = map[string]string{
	FormatSVG:   "image/svg+xml",
	FormatPNG:   "image/png",
	FormatPDF:   "application/pdf",
	FormatDOT:   "text/vnd.graphviz",
	FormatJSON:  "application/json",
	FormatTikZ:  "application/x-tex",
	FormatEdges: "text/plain; charset=utf-8",
}

// ContentType returns the MIME type served for a format.
func ContentType(format string) string {
	return contentTypes[format]
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures one render.
type Options struct {
	Formats    []string `json:"formats"`
	Margin     float64  `json:"margin,omitempty"`
	Scale      float64  `json:"scale,omitempty"`
	DPI        float64  `json:"dpi,omitempty"`
	Background string   `json:"background,omitempty"`
	HideLabels bool     `json:"hide_labels,omitempty"`
	ShowIDs    bool     `json:"show_ids,omitempty"`

	// Graphviz draws SVG and PDF through the neato engine instead of the
	// native SVG writer.
	Graphviz bool `json:"graphviz,omitempty"`

	// Refresh ignores cached artifacts and overwrites them.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`
}

// ValidateAndSetDefaults checks the options and fills zero values.
func (o *Options) ValidateAndSetDefaults() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Margin < 0 || o.Scale < 0 || o.DPI < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "margin, scale and dpi must not be negative")
	}
	if o.Margin == 0 {
		o.Margin = DefaultMargin
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.DPI == 0 {
		o.DPI = DefaultDPI
	}
	if o.Background != "" {
		if err := errors.ValidateColor(o.Background); err != nil {
			return err
		}
	}
	return nil
}

// ArtifactKeyOpts returns the options that affect the given format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatSVG, FormatPDF:
		if o.Graphviz {
			k.Margin, k.ShowIDs, k.Engine = o.Margin, o.ShowIDs, "graphviz"
			break
		}
		k.Margin, k.Background, k.HideLabels = o.Margin, o.Background, o.HideLabels
	case FormatPNG:
		k.Margin, k.Background, k.HideLabels, k.Scale = o.Margin, o.Background, o.HideLabels, o.Scale
	case FormatDOT:
		k.Margin, k.ShowIDs = o.Margin, o.ShowIDs
	case FormatTikZ:
		k.DPI = o.DPI
	}
	return k
}

// Result contains the outputs of a render.
type Result struct {
	// DocumentID is the ID of the rendered document.
	DocumentID string

	// DocumentHash is the content hash used in cache keys.
	DocumentHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats Stats

	// CacheHits lists the formats served from the cache.
	CacheHits []string
}

// Stats contains render statistics.
type Stats struct {
	GraphCount int
	NodeCount  int
	EdgeCount  int
	RenderTime time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(Formats, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma separated list, dropping blanks and
// duplicates.
func ParseFormats(s string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		if err := ValidateFormat(f); err != nil {
			return nil, err
		}
		seen[f] = true
		out = append(out, f)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no formats in %q", s)
	}
	return out, nil
}
