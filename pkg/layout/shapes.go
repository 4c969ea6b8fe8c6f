package layout

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Shape is an unplaced graph: node positions in the unit box and edges as
// index pairs into Points.
type Shape struct {
	Points []r2.Vec
	Edges  [][2]int

	seen map[[2]int]bool
}

func (s *Shape) add(pts ...r2.Vec) int {
	first := len(s.Points)
	s.Points = append(s.Points, pts...)
	return first
}

// link adds an undirected edge unless it is a loop or already present.
func (s *Shape) link(a, b int) {
	if a == b {
		return
	}
	key := [2]int{min(a, b), max(a, b)}
	if s.seen == nil {
		s.seen = make(map[[2]int]bool)
	}
	if s.seen[key] {
		return
	}
	s.seen[key] = true
	s.Edges = append(s.Edges, [2]int{a, b})
}

// ring places n points on an ellipse with radii w and h, the first at
// angle start measured clockwise from the top, then scales the result up
// as far as the 2w by 2h box allows.
func ring(w, h float64, n int, start float64) []r2.Vec {
	spacing := 2 * math.Pi / float64(n)
	pts := make([]r2.Vec, n)
	for i := range pts {
		a := start + float64(i)*spacing
		pts[i] = r2.Vec{X: w * math.Sin(a), Y: -h * math.Cos(a)}
	}
	scaleAll(pts, fit(2*w, 2*h, pts))
	return pts
}

// fit returns the largest factor by which pts can be scaled about the
// origin while their extent stays within w by h.
func fit(w, h float64, pts []r2.Vec) float64 {
	if len(pts) == 0 {
		return 1
	}
	lo, hi := pts[0], pts[0]
	for _, p := range pts[1:] {
		lo.X, lo.Y = math.Min(lo.X, p.X), math.Min(lo.Y, p.Y)
		hi.X, hi.Y = math.Max(hi.X, p.X), math.Max(hi.Y, p.Y)
	}
	f := math.Inf(1)
	if d := hi.X - lo.X; d > 1e-9 {
		f = w / d
	}
	if d := hi.Y - lo.Y; d > 1e-9 {
		f = math.Min(f, h/d)
	}
	if math.IsInf(f, 1) {
		return 1
	}
	return f
}

func scaleAll(pts []r2.Vec, f float64) {
	for i := range pts {
		pts[i] = r2.Scale(f, pts[i])
	}
}

func linkCycle(s *Shape, first, n int) {
	for i := 0; i < n; i++ {
		s.link(first+i, first+(i+1)%n)
	}
}

func cycle(n int) *Shape {
	s := &Shape{}
	s.add(ring(0.5, 0.5, n, 0)...)
	linkCycle(s, 0, n)
	return s
}

func path(n int) *Shape {
	s := &Shape{}
	if n == 1 {
		s.add(r2.Vec{})
		return s
	}
	spacing := 1 / float64(n-1)
	for i := 0; i < n; i++ {
		s.add(r2.Vec{X: float64(i)*spacing - 0.5})
	}
	for i := 0; i+1 < n; i++ {
		s.link(i, i+1)
	}
	return s
}

func complete(n int) *Shape {
	s := &Shape{}
	s.add(ring(0.5, 0.5, n, 0)...)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			s.link(i, j)
		}
	}
	return s
}

func circulant(n int, offsets []int) *Shape {
	s := &Shape{}
	s.add(ring(0.5, 0.5, n, 0)...)
	for i := 0; i < n; i++ {
		for _, k := range offsets {
			if k > 0 && k < n {
				s.link(i, (i+k)%n)
			}
		}
	}
	return s
}

// star places n-1 nodes on a ring followed by the hub.
func star(n int) *Shape {
	s := &Shape{}
	s.add(ring(0.5, 0.5, n-1, 0)...)
	hub := s.add(r2.Vec{})
	for i := 0; i < hub; i++ {
		s.link(hub, i)
	}
	return s
}

func wheel(n int) *Shape {
	s := star(n)
	linkCycle(s, 0, n-1)
	return s
}

// innerShrink returns the ratio between outer and inner ring of prisms and
// antiprisms. Larger graphs get a wider inner ring.
func innerShrink(n int, small float64, smallLimit int) float64 {
	switch {
	case n > 32:
		return 1.4
	case n > 24:
		return 1.6
	case n > 16:
		return 2
	case n > smallLimit:
		return small
	}
	return 0
}

func prism(n int) *Shape {
	half := n / 2
	shrink := innerShrink(n, 2.25, 6)
	if shrink == 0 {
		shrink = 2.5
	}
	s := &Shape{}
	s.add(ring(0.5, 0.5, half, 0)...)
	inner := s.add(ring(0.5/shrink, 0.5/shrink, half, 0)...)
	for i := 0; i < half; i++ {
		s.link(i, (i+1)%half)
		s.link(i, inner+i)
	}
	linkCycle(s, inner, half)
	return s
}

// antiprism offsets the inner ring by half a step so that every outer node
// sits between two inner ones.
func antiprism(n int) *Shape {
	half := n / 2
	shrink := innerShrink(n, 2.5, 8)
	if shrink == 0 {
		shrink = 4
	}
	s := &Shape{}
	s.add(ring(0.5, 0.5, half, 0)...)
	inner := s.add(ring(0.5/shrink, 0.5/shrink, half, 2*math.Pi/float64(n))...)
	for i := 0; i < half; i++ {
		s.link(i, (i+1)%half)
		s.link(inner+i, inner+(i+1)%half)
		s.link(i, inner+i)
		s.link(i, inner+(half+i-1)%half)
	}
	return s
}

// crown hangs a pendant node off every node of a cycle.
func crown(n int) *Shape {
	s := &Shape{}
	s.add(ring(0.5, 0.5, n, 0)...)
	inner := s.add(ring(0.5*0.65, 0.5*0.65, n, 0)...)
	for i := 0; i < n; i++ {
		s.link(i, inner+i)
		s.link(inner+i, inner+(i+1)%n)
	}
	return s
}

func helm(n int) *Shape {
	s := crown(n)
	hub := s.add(r2.Vec{})
	for i := 0; i < n; i++ {
		s.link(n+i, hub)
	}
	return s
}

// petersen builds the generalized petersen graph G(n, k).
func petersen(n, k int) *Shape {
	s := &Shape{}
	s.add(ring(0.5, 0.5, n, 0)...)
	inner := s.add(ring(0.25, 0.25, n, 0)...)
	for i := 0; i < n; i++ {
		s.link(i, (i+1)%n)
		if k%n != 0 {
			s.link(inner+i, inner+(i+k)%n)
		}
		s.link(i, inner+i)
	}
	return s
}

// gear subdivides every other rim edge of a wheel. With an even n there is
// no hub.
func gear(n int) *Shape {
	rim := n &^ 1
	pts := ring(0.5, 0.5, rim, 0)
	for i := 1; i < rim; i += 2 {
		a, b := pts[i-1], pts[(i+1)%rim]
		pts[i] = r2.Scale(0.5, r2.Add(a, b))
	}
	scaleAll(pts, fit(1, 1, pts))

	s := &Shape{}
	s.add(pts...)
	linkCycle(s, 0, rim)
	if n%2 == 1 {
		hub := s.add(r2.Vec{})
		for i := 0; i < rim; i += 2 {
			s.link(hub, i)
		}
	}
	return s
}

func grid(cols, rows int) *Shape {
	s := &Shape{}
	dx, dy := 1.0, 1.0
	if cols > 1 {
		dx = 1 / float64(cols-1)
	}
	if rows > 1 {
		dy = 1 / float64(rows-1)
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			var p r2.Vec
			if cols > 1 {
				p.X = float64(c)*dx - 0.5
			}
			if rows > 1 {
				p.Y = float64(r)*dy - 0.5
			}
			s.add(p)
		}
	}
	for i := range s.Points {
		if (i+1)%cols != 0 {
			s.link(i, i+1)
		}
		if i+cols < len(s.Points) {
			s.link(i, i+cols)
		}
	}
	return s
}

// bipartite builds the complete bipartite graph K(top, bottom). The larger
// side spans the full width; the smaller is inset by half a gap.
func bipartite(top, bottom int) *Shape {
	s := &Shape{}
	row := func(n, other int, y float64) {
		if n == 1 {
			s.add(r2.Vec{Y: y})
			return
		}
		gap, x := 1/float64(n-1), -0.5
		if n < other {
			gap = 1 / float64(n)
			x += gap / 2
		}
		for i := 0; i < n; i++ {
			s.add(r2.Vec{X: x + float64(i)*gap, Y: y})
		}
	}
	row(top, bottom, -0.5)
	row(bottom, top, 0.5)
	for i := 0; i < top; i++ {
		for j := 0; j < bottom; j++ {
			s.link(i, top+j)
		}
	}
	return s
}

// binaryTree lays out a heap-ordered tree of n nodes. Rows are evenly
// spaced from root to leaves and every leaf keeps the column it would have
// in a full bottom row.
func binaryTree(n int) *Shape {
	depth := int(math.Floor(math.Log2(float64(n))))
	full := 1<<depth - 1
	width := float64(2 * full)
	s := &Shape{}
	for i := 0; i < n; i++ {
		d := int(math.Floor(math.Log2(float64(i + 1))))
		x, y := 0.5, 0.5
		if depth > 0 {
			y = float64(d) / float64(depth)
		}
		if d > 0 {
			factor := 1 << (depth - d + 1)
			offset := 0
			if d != depth {
				offset = 1<<(depth-d) - 1
			}
			first := 1<<d - 1
			x = float64((i-first)*factor+offset) / width
		}
		s.add(r2.Vec{X: x - 0.5, Y: y - 0.5})
	}
	for i := 0; i < n; i++ {
		if l := 2*i + 1; l < n {
			s.link(i, l)
		}
		if r := 2*i + 2; r < n {
			s.link(i, r)
		}
	}
	return s
}

// dutchWindmill joins blades cycles of size bladeSize at one shared hub.
// Each blade takes a share of the full turn that grows with the blade
// count, and the whole figure is scaled to fit the unit box.
func dutchWindmill(blades, bladeSize int) *Shape {
	spacing := 2 * math.Pi / float64(blades)
	width := spacing * (0.9 - 0.786*math.Exp(-0.135*float64(blades)))
	h := 0.25
	w := h * width * float64(bladeSize) / (float64(bladeSize-2) * math.Pi)

	s := &Shape{}
	hub := s.add(r2.Vec{})
	for b := 0; b < blades; b++ {
		angle := float64(b) * spacing
		// The first ring point sits at the bottom and is replaced by the hub.
		pts := ring(w, h, bladeSize, math.Pi)[1:]
		idx := make([]int, len(pts))
		for j, p := range pts {
			p.Y -= h
			idx[j] = s.add(r2.Rotate(p, angle, r2.Vec{}))
		}
		for j := 0; j+1 < len(idx); j++ {
			s.link(idx[j], idx[j+1])
		}
		s.link(idx[0], hub)
		s.link(idx[len(idx)-1], hub)
	}
	scaleAll(s.Points[hub+1:], fit(1, 1, s.Points[hub+1:]))
	return s
}
