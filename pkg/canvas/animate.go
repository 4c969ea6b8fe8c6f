package canvas

import "gonum.org/v1/gonum/spatial/r2"

// DefaultFrames is the number of intermediate poses handed to an Animator
// for each movement of a join.
const DefaultFrames = 10

// Pose is the placement of a graph: its origin and rotation.
type Pose struct {
	Pos      r2.Vec
	Rotation float64
}

// Animator plays back the movement of a graph during a join. Frames are
// evenly spaced and end at the final pose. The canvas applies the final
// pose itself after Animate returns, so an Animator only displays the
// frames and must not block waiting for user input.
type Animator interface {
	Animate(g ID, frames []Pose)
}

// AnimatorFunc adapts a function to the Animator interface.
type AnimatorFunc func(g ID, frames []Pose)

// Animate calls f.
func (f AnimatorFunc) Animate(g ID, frames []Pose) { f(g, frames) }

// Tween returns n poses evenly spaced between from (exclusive) and to
// (inclusive). n below 1 yields just the final pose.
func Tween(from, to Pose, n int) []Pose {
	if n < 1 {
		n = 1
	}
	frames := make([]Pose, n)
	delta := r2.Sub(to.Pos, from.Pos)
	turn := to.Rotation - from.Rotation
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		frames[i-1] = Pose{
			Pos:      r2.Add(from.Pos, r2.Scale(t, delta)),
			Rotation: from.Rotation + t*turn,
		}
	}
	frames[n-1] = to
	return frames
}

// PoseOf returns the current pose of graph g.
func (c *Canvas) PoseOf(g ID) (Pose, bool) {
	graph := c.graphs[g]
	if graph == nil {
		return Pose{}, false
	}
	return Pose{Pos: graph.Pos, Rotation: graph.Rotation}, true
}

func (c *Canvas) animate(g ID, to Pose) {
	if c.animator == nil {
		return
	}
	from, _ := c.PoseOf(g)
	c.animator.Animate(g, Tween(from, to, c.frames))
}
