// Package layout generates the standard graph families as positioned root
// graphs on a canvas.
//
// Every generator first computes a shape in a unit box centred on the
// origin (x and y in [-0.5, 0.5], y growing downwards), then scales it to
// the requested width and height and inserts it into the canvas as a new
// root graph whose node centroid sits at the requested scene position.
//
//	g, err := layout.Generate(c, layout.Params{Kind: layout.Petersen, N: 5, M: 2})
package layout

import (
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/graphcanvas/pkg/canvas"
	"github.com/matzehuels/graphcanvas/pkg/errors"
)

// DefaultSize is the width and height used when Params leaves them zero.
const DefaultSize = 100

// Kind selects a graph family.
type Kind int

const (
	Antiprism Kind = iota + 1
	BinaryTree
	Bipartite
	Circulant
	Complete
	Crown
	Cycle
	DutchWindmill
	Gear
	Grid
	Helm
	Path
	Petersen
	Prism
	Star
	Wheel
)

var kindNames = map[Kind]string{
	Antiprism:     "antiprism",
	BinaryTree:    "binary-tree",
	Bipartite:     "bipartite",
	Circulant:     "circulant",
	Complete:      "complete",
	Crown:         "crown",
	Cycle:         "cycle",
	DutchWindmill: "dutch-windmill",
	Gear:          "gear",
	Grid:          "grid",
	Helm:          "helm",
	Path:          "path",
	Petersen:      "petersen",
	Prism:         "prism",
	Star:          "star",
	Wheel:         "wheel",
}

// Kinds lists every family in alphabetical order.
var Kinds = []Kind{
	Antiprism, BinaryTree, Bipartite, Circulant, Complete, Crown, Cycle,
	DutchWindmill, Gear, Grid, Helm, Path, Petersen, Prism, Star, Wheel,
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// ParseKind returns the family with the given name. Case is ignored and
// spaces or underscores may stand in for dashes.
func ParseKind(s string) (Kind, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "-", "_", "-").Replace(norm)
	for _, k := range Kinds {
		if kindNames[k] == norm {
			return k, nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidLayout, "unknown graph family %q", s)
}

// Params describes one generated graph.
//
// N is the primary size of the family: the node count for most families,
// the number of top nodes of a bipartite graph, the number of columns of a
// grid, the number of blades of a windmill, and the number of nodes per
// cycle of crown, helm and petersen graphs. M is the secondary size: the
// bottom nodes of a bipartite graph, the rows of a grid, the blade size of
// a windmill and the star skip of a petersen graph.
type Params struct {
	Kind Kind
	N    int
	M    int

	// Offsets lists the circulant jumps. Everything that is not a decimal
	// digit separates numbers.
	Offsets string

	Width  float64
	Height float64

	// Pos is the scene position of the node centroid.
	Pos r2.Vec

	// Labels numbers the nodes 0..n-1 in creation order.
	Labels bool

	// NoEdges generates the nodes only.
	NoEdges bool

	NodeStyle canvas.NodeStyle
	EdgeStyle canvas.EdgeStyle
}

// Generate builds the graph described by p on c and returns the new root.
func Generate(c *canvas.Canvas, p Params) (canvas.ID, error) {
	s, err := Build(p)
	if err != nil {
		return 0, err
	}
	w, h := p.Width, p.Height
	if w <= 0 {
		w = DefaultSize
	}
	if h <= 0 {
		h = DefaultSize
	}

	g := c.AddGraph(p.Pos)
	ids := make([]canvas.ID, len(s.Points))
	for i, pt := range s.Points {
		label := ""
		if p.Labels {
			label = strconv.Itoa(i)
		}
		id, err := c.AddNode(g, r2.Vec{X: pt.X * w, Y: pt.Y * h}, label, p.NodeStyle)
		if err != nil {
			return 0, errors.Wrap(errors.ErrCodeInternal, err, "generate %s", p.Kind)
		}
		ids[i] = id
	}
	if !p.NoEdges {
		for _, e := range s.Edges {
			if _, err := c.AddEdge(ids[e[0]], ids[e[1]], "", p.EdgeStyle); err != nil {
				return 0, errors.Wrap(errors.ErrCodeInternal, err, "generate %s", p.Kind)
			}
		}
	}
	c.CenterGraph(g)
	c.MoveGraph(g, p.Pos)
	return g, nil
}

// Build computes the unit-box shape of p without touching a canvas.
func Build(p Params) (*Shape, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	switch p.Kind {
	case Antiprism:
		return antiprism(p.N), nil
	case BinaryTree:
		return binaryTree(p.N), nil
	case Bipartite:
		return bipartite(p.N, p.M), nil
	case Circulant:
		return circulant(p.N, ParseOffsets(p.Offsets)), nil
	case Complete:
		return complete(p.N), nil
	case Crown:
		return crown(p.N), nil
	case Cycle:
		return cycle(p.N), nil
	case DutchWindmill:
		return dutchWindmill(p.N, p.M), nil
	case Gear:
		return gear(p.N), nil
	case Grid:
		return grid(p.N, p.M), nil
	case Helm:
		return helm(p.N), nil
	case Path:
		return path(p.N), nil
	case Petersen:
		return petersen(p.N, p.M), nil
	case Prism:
		return prism(p.N), nil
	case Star:
		return star(p.N), nil
	case Wheel:
		return wheel(p.N), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidLayout, "unknown graph family %v", p.Kind)
}

// minimum node counts per family; families with a secondary size list it
// second.
var minimums = map[Kind][2]int{
	Antiprism:     {6, 0},
	BinaryTree:    {1, 0},
	Bipartite:     {1, 1},
	Circulant:     {1, 0},
	Complete:      {1, 0},
	Crown:         {3, 0},
	Cycle:         {3, 0},
	DutchWindmill: {1, 3},
	Gear:          {6, 0},
	Grid:          {1, 1},
	Helm:          {3, 0},
	Path:          {1, 0},
	Petersen:      {3, 0},
	Prism:         {6, 0},
	Star:          {2, 0},
	Wheel:         {4, 0},
}

// MaxNodes bounds N and M.
const MaxNodes = 1000

func (p Params) validate() error {
	m, ok := minimums[p.Kind]
	if !ok {
		return errors.New(errors.ErrCodeInvalidLayout, "unknown graph family %v", p.Kind)
	}
	if p.N < m[0] || p.N > MaxNodes {
		return errors.New(errors.ErrCodeInvalidLayout, "%s needs between %d and %d nodes, got %d", p.Kind, m[0], MaxNodes, p.N)
	}
	if m[1] > 0 && (p.M < m[1] || p.M > MaxNodes) {
		return errors.New(errors.ErrCodeInvalidLayout, "%s needs a second size between %d and %d, got %d", p.Kind, m[1], MaxNodes, p.M)
	}
	if p.Kind == Petersen && p.M < 0 {
		return errors.New(errors.ErrCodeInvalidLayout, "petersen skip must not be negative")
	}
	return nil
}

// ParseOffsets extracts the decimal numbers from s in order. Signs and
// other characters act as separators.
func ParseOffsets(s string) []int {
	var out []int
	num, in := 0, false
	for _, r := range s {
		if r >= '0' && r <= '9' {
			num = num*10 + int(r-'0')
			in = true
			continue
		}
		if in {
			out = append(out, num)
		}
		num, in = 0, false
	}
	if in {
		out = append(out, num)
	}
	return out
}
