// Package canvas implements the topology and geometry engine of the graph
// drawing editor.
//
// # Overview
//
// A [Canvas] is an arena of three kinds of entities addressed by stable
// [ID] handles:
//
//   - [Node]: a drawn vertex with a local position, a label and a style
//   - [Edge]: a segment between two Nodes of the same Graph
//   - [Graph]: a container of Nodes and Edges with its own scene position
//     and rotation
//
// Graphs never contain other Graphs. Every Graph on the canvas is a root and
// is listed in the canvas [Registry]; each root holds exactly one connected
// component of the drawing (an isolated Node is its own component).
//
// # Coordinates
//
// Node positions are stored relative to their Graph:
//
//	scene = graph.Pos + R(graph.Rotation) * node.Pos
//
// Rotations are in degrees, the y axis grows downward and a positive
// rotation turns clockwise on screen. Children of a rotated Graph store the
// opposite rotation so their labels stay upright.
//
// # Structural Operations
//
// The engine keeps the registry consistent while the drawing changes:
//
//   - [Canvas.JoinTwoNodes] and [Canvas.JoinFourNodes] merge two roots by
//     identifying one or two pairs of Nodes, aligning the second root first
//   - [Canvas.DeleteNode] and [Canvas.DeleteEdge] remove items and call
//     [Canvas.SeparateIfNeeded] to split roots that became disconnected
//   - [Canvas.CenterGraph] moves a Graph's origin to the centroid of its
//     Nodes without moving the drawing
//
// Malformed requests (picking two nodes of the same Graph for a join, for
// example) are ignored: the operation reports false and nothing changes.
//
// # Notifications
//
// An [Observer] registered with [Canvas.Subscribe] is told when graphs are
// joined or separated and after every change:
//
//	c := canvas.New()
//	c.Subscribe(canvas.ObserverFuncs{
//	    Changed: func() { dirty = true },
//	})
//
// # Concurrency
//
// A Canvas is not safe for concurrent use. Callers that share one between
// goroutines must serialize access.
package canvas
