package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/graphcanvas/pkg/errors"
	docio "github.com/matzehuels/graphcanvas/pkg/io"
	"github.com/matzehuels/graphcanvas/pkg/layout"
)

// newOpts holds the flags of the new command.
type newOpts struct {
	output  string
	into    string
	name    string
	offsets string
	at      string
	width   float64
	height  float64
	labels  bool
	noEdges bool
}

// newCommand generates a graph family into a new or existing document.
func (c *CLI) newCommand() *cobra.Command {
	opts := newOpts{width: layout.DefaultSize, height: layout.DefaultSize}

	cmd := &cobra.Command{
		Use:   "new <family> [n [m]]",
		Short: "Generate a graph family into a document",
		Long: `Generate one of the standard graph families and save it as a document.

n is the primary size of the family (usually the node count) and m the
secondary size where the family has one: the bottom row of a bipartite
graph, the rows of a grid, the blade size of a dutch windmill or the skip
of a petersen graph.

Families: ` + strings.Join(kindNames(), ", "),
		Example: `  graphcanvas new petersen 5 2 -o petersen.json
  graphcanvas new circulant 12 --offsets 1,5 --labels
  graphcanvas new cycle 6 --into petersen.json --at 200,0`,
		Args: cobra.RangeArgs(1, 3),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return kindNames(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.layoutParams(args, opts)
			if err != nil {
				return err
			}
			return c.runNew(cmd.Context(), p, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output document (default <family>.json, or the --into document)")
	cmd.Flags().StringVar(&opts.into, "into", "", "add the graph to this existing document")
	cmd.Flags().StringVar(&opts.name, "name", "", "document name (default derived from the output path)")
	cmd.Flags().StringVar(&opts.offsets, "offsets", "", "circulant jumps, e.g. 1,3")
	cmd.Flags().StringVar(&opts.at, "at", "0,0", "scene position of the graph centre as x,y")
	cmd.Flags().Float64Var(&opts.width, "width", opts.width, "width of the generated graph")
	cmd.Flags().Float64Var(&opts.height, "height", opts.height, "height of the generated graph")
	cmd.Flags().BoolVar(&opts.labels, "labels", false, "label nodes 0..n-1")
	cmd.Flags().BoolVar(&opts.noEdges, "no-edges", false, "generate the nodes only")

	return cmd
}

func kindNames() []string {
	names := make([]string, len(layout.Kinds))
	for i, k := range layout.Kinds {
		names[i] = k.String()
	}
	return names
}

// layoutParams turns the positional arguments and flags into generator
// parameters. Missing sizes fall back to defaultSizes.
func (c *CLI) layoutParams(args []string, opts newOpts) (layout.Params, error) {
	kind, err := layout.ParseKind(args[0])
	if err != nil {
		return layout.Params{}, err
	}
	sizes := defaultSizes[kind]
	for i, a := range args[1:] {
		v, err := strconv.Atoi(a)
		if err != nil {
			return layout.Params{}, errors.New(errors.ErrCodeInvalidInput, "size %q is not an integer", a)
		}
		sizes[i] = v
	}
	at, err := parsePoint(opts.at)
	if err != nil {
		return layout.Params{}, err
	}
	return layout.Params{
		Kind:      kind,
		N:         sizes[0],
		M:         sizes[1],
		Offsets:   opts.offsets,
		Width:     opts.width,
		Height:    opts.height,
		Pos:       at,
		Labels:    opts.labels,
		NoEdges:   opts.noEdges,
		NodeStyle: c.Config.NodeStyle(),
		EdgeStyle: c.Config.EdgeStyle(),
	}, nil
}

// defaultSizes gives every family a small, valid size.
var defaultSizes = map[layout.Kind][2]int{
	layout.Antiprism:     {10, 0},
	layout.BinaryTree:    {7, 0},
	layout.Bipartite:     {3, 3},
	layout.Circulant:     {8, 0},
	layout.Complete:      {5, 0},
	layout.Crown:         {5, 0},
	layout.Cycle:         {6, 0},
	layout.DutchWindmill: {3, 3},
	layout.Gear:          {13, 0},
	layout.Grid:          {4, 3},
	layout.Helm:          {6, 0},
	layout.Path:          {5, 0},
	layout.Petersen:      {5, 2},
	layout.Prism:         {10, 0},
	layout.Star:          {6, 0},
	layout.Wheel:         {7, 0},
}

// parsePoint reads "x,y".
func parsePoint(s string) (r2.Vec, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return r2.Vec{}, errors.New(errors.ErrCodeInvalidInput, "point %q must be x,y", s)
	}
	x, errX := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if errX != nil || errY != nil {
		return r2.Vec{}, errors.New(errors.ErrCodeInvalidInput, "point %q must be x,y", s)
	}
	return r2.Vec{X: x, Y: y}, nil
}

func (c *CLI) runNew(ctx context.Context, p layout.Params, opts newOpts) error {
	logger := loggerFromContext(ctx)

	output := opts.output
	doc := docio.New("")
	if opts.into != "" {
		existing, err := readDocument(opts.into)
		if err != nil {
			return err
		}
		doc = existing
		if output == "" {
			output = opts.into
		}
	}
	if output == "" {
		output = p.Kind.String() + ".json"
	}
	switch {
	case opts.name != "":
		doc.Name = opts.name
	case doc.Name == "":
		doc.Name = documentName(output)
	}
	if err := errors.ValidateName(doc.Name); err != nil {
		return err
	}

	cv, err := c.buildCanvas(doc)
	if err != nil {
		return err
	}
	g, err := layout.Generate(cv, p)
	if err != nil {
		return err
	}
	logger.Debug("generated graph", "family", p.Kind, "n", p.N, "m", p.M, "graph", g)

	out := capture(cv, doc)
	if err := writeDocument(output, out); err != nil {
		return err
	}
	if output == "-" {
		return nil
	}
	printSuccess("Generated %s", StyleHighlight.Render(fmt.Sprintf("%s(%d)", p.Kind, p.N)))
	graphs, nodes, edges := out.Counts()
	printStats(graphs, nodes, edges, nil)
	printFile(output)
	printNextStep("Render it with", "graphcanvas render "+output)
	return nil
}
