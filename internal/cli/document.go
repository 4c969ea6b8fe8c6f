package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/graphcanvas/pkg/canvas"
	"github.com/matzehuels/graphcanvas/pkg/errors"
	docio "github.com/matzehuels/graphcanvas/pkg/io"
	"github.com/matzehuels/graphcanvas/pkg/mode"
	"github.com/matzehuels/graphcanvas/pkg/observability"
)

// edgeListExts are the file extensions read as edge lists.
var edgeListExts = map[string]bool{".txt": true, ".edges": true, ".el": true}

// readDocument loads a JSON document or an edge list from path. "-" reads
// JSON from stdin.
func readDocument(path string) (*docio.Document, error) {
	if path == "-" {
		return docio.ReadJSON(os.Stdin)
	}
	if path == "" {
		return nil, errors.New(errors.ErrCodeInvalidPath, "no document path given")
	}
	if edgeListExts[strings.ToLower(filepath.Ext(path))] {
		return docio.ImportEdgeList(path)
	}
	return docio.ImportJSON(path)
}

// writeDocument saves doc as JSON at path. "-" writes to stdout.
func writeDocument(path string, doc *docio.Document) error {
	if path == "-" {
		return docio.WriteJSON(doc, stdout)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", dir)
		}
	}
	return docio.ExportJSON(doc, path)
}

// documentName derives a display name from a file path.
func documentName(path string) string {
	if path == "" || path == "-" {
		return "untitled"
	}
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// capture turns c back into a document that keeps the identity of doc.
func capture(c *canvas.Canvas, doc *docio.Document) *docio.Document {
	out := docio.FromCanvas(c, doc.Name)
	out.ID = doc.ID
	return out
}

// newMachine builds a gesture machine over c with the configured grid and
// styles.
func (c *CLI) newMachine(cv *canvas.Canvas) *mode.Machine {
	cfg := c.Config
	return mode.New(cv,
		mode.WithGrid(cfg.Canvas.GridSize, cfg.Canvas.Snap),
		mode.WithStyles(cfg.NodeStyle(), cfg.EdgeStyle()),
		mode.WithLogger(c.Logger),
	)
}

// buildCanvas builds doc with the configured animation and logger.
func (c *CLI) buildCanvas(doc *docio.Document) (*canvas.Canvas, error) {
	return doc.Build(canvas.WithLogger(c.Logger), canvas.WithObserver(observability.CanvasObserver(context.Background(), doc.ID)))
}
