package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphcanvas/pkg/canvas"
	"github.com/matzehuels/graphcanvas/pkg/errors"
	docio "github.com/matzehuels/graphcanvas/pkg/io"
)

// rootReport summarises one root graph.
type rootReport struct {
	Graph      int     `json:"graph"`
	Nodes      int     `json:"nodes"`
	Edges      int     `json:"edges"`
	Components int     `json:"components"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Rotation   float64 `json:"rotation"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
}

func reportRoots(cv *canvas.Canvas) []rootReport {
	var out []rootReport
	for i, g := range cv.Roots() {
		graph := cv.Graph(g)
		r := rootReport{
			Graph:      i,
			Nodes:      len(graph.NodeIDs()),
			Edges:      len(graph.EdgeIDs()),
			Components: len(cv.Components(g)),
			X:          graph.Pos.X,
			Y:          graph.Pos.Y,
			Rotation:   graph.Rotation,
		}
		if b, ok := cv.BoundingBox(g, true); ok {
			r.Width, r.Height = b.Width(), b.Height()
		}
		out = append(out, r)
	}
	return out
}

// checkCommand validates a document and optionally splits disconnected
// graphs.
func (c *CLI) checkCommand() *cobra.Command {
	var fix bool
	var output string

	cmd := &cobra.Command{
		Use:   "check <document>",
		Short: "Validate a document's structure and connectivity",
		Long: `Check that a document builds into a consistent canvas and that every
graph is connected.

With --fix, graphs with more than one connected component are split into
separate graphs and the document is saved.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = args[0]
			}
			return c.runCheck(cmd.Context(), args[0], fix, output)
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "split disconnected graphs and save")
	cmd.Flags().StringVarP(&output, "output", "o", "", "where --fix saves (default the input document)")

	return cmd
}

func (c *CLI) runCheck(ctx context.Context, path string, fix bool, output string) error {
	logger := loggerFromContext(ctx)

	doc, err := readDocument(path)
	if err != nil {
		return err
	}
	cv, err := c.buildCanvas(doc)
	if err != nil {
		return err
	}
	if err := cv.Check(); err != nil {
		printError("Structure: %v", err)
		return errors.Wrap(errors.ErrCodeInvalidDocument, err, "check %s", path)
	}

	split := 0
	for i, g := range cv.Roots() {
		comps := cv.Components(g)
		if len(comps) < 2 {
			continue
		}
		if !fix {
			printWarning("Graph %d has %d components", i, len(comps))
			continue
		}
		witnesses := make([]canvas.ID, len(comps))
		for j, comp := range comps {
			witnesses[j] = comp[0]
		}
		spawned := cv.SeparateIfNeeded(witnesses)
		logger.Debug("separated graph", "graph", g, "spawned", len(spawned))
		split += len(spawned)
	}

	reports := reportRoots(cv)
	disconnected := 0
	for _, r := range reports {
		if r.Components > 1 {
			disconnected++
		}
	}

	if split > 0 {
		out := capture(cv, doc)
		if err := writeDocument(output, out); err != nil {
			return err
		}
		printSuccess("Split off %s", plural(split, "graph"))
		printFile(output)
	}
	if disconnected > 0 {
		printNextStep("Split them with", "graphcanvas check --fix "+path)
		return errors.New(errors.ErrCodeInvalidDocument, "%s disconnected", plural(disconnected, "graph"))
	}
	printSuccess("%s is consistent", StyleHighlight.Render(doc.Name))
	printStats(len(reports), cv.NodeCount(), cv.EdgeCount(), nil)
	return nil
}

// infoCommand describes a document.
func (c *CLI) infoCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "info <document>",
		Short: "Describe a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(args[0])
			if err != nil {
				return err
			}
			cv, err := c.buildCanvas(doc)
			if err != nil {
				return err
			}
			if asJSON {
				return writeInfoJSON(doc, cv)
			}
			printInfoText(doc, cv)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the description as JSON")

	return cmd
}

type documentInfo struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Version int          `json:"version"`
	Graphs  int          `json:"graphs"`
	Nodes   int          `json:"nodes"`
	Edges   int          `json:"edges"`
	Roots   []rootReport `json:"roots"`
}

func writeInfoJSON(doc *docio.Document, cv *canvas.Canvas) error {
	graphs, nodes, edges := doc.Counts()
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(documentInfo{
		ID: doc.ID, Name: doc.Name, Version: doc.Version,
		Graphs: graphs, Nodes: nodes, Edges: edges,
		Roots: reportRoots(cv),
	})
}

func printInfoText(doc *docio.Document, cv *canvas.Canvas) {
	fmt.Fprintln(stdout, StyleTitle.Render(doc.Name))
	printKeyValue("ID", doc.ID)
	printKeyValue("Version", fmt.Sprint(doc.Version))
	graphs, nodes, edges := doc.Counts()
	printStats(graphs, nodes, edges, nil)
	if box, ok := cv.SceneBounds(); ok {
		printKeyValue("Bounds", fmt.Sprintf("(%.1f, %.1f) – (%.1f, %.1f)", box.Min.X, box.Min.Y, box.Max.X, box.Max.Y))
	}
	for _, r := range reportRoots(cv) {
		printDetail("graph %d: %s, %s at (%.1f, %.1f) rot %.1f°, %.1f×%.1f",
			r.Graph, plural(r.Nodes, "node"), plural(r.Edges, "edge"), r.X, r.Y, r.Rotation, r.Width, r.Height)
	}
}
