// Package pkg provides the core libraries of graphcanvas, a diagram editor
// for graph theory.
//
// # Overview
//
// Graphcanvas keeps a scene of independent root graphs. Each graph owns its
// nodes and edges in local coordinates and carries a position and rotation
// of its own. Joining nodes merges graphs; deleting items may split a graph
// into one graph per connected component. The pkg directory is organized
// into four areas:
//
//  1. [canvas] and [mode] - The entity model, the join and separation
//     operators, and the gesture state machine that drives them
//  2. [layout], [io] and [script] - Building documents: graph families,
//     JSON and edge list files, and gesture scripts
//  3. [render] and [pipeline] - Flattening a canvas into a scene and drawing
//     it as SVG, PNG, PDF, DOT or TikZ
//  4. [store], [cache], [config], [errors] and [observability] - Persistence,
//     settings and the error model shared by the CLI and the HTTP API
//
// # Architecture
//
// The typical data flow through graphcanvas:
//
//	Document (JSON / edge list) or layout.Generate
//	         ↓
//	    [canvas] (roots, join, separate)  ←  [mode] gestures / [script]
//	         ↓
//	    [io] capture back into a Document
//	         ↓
//	    [pipeline] (flatten → render → cache)
//	         ↓
//	    SVG/PNG/PDF/DOT/TikZ/edge list output
//
// # Quick Start
//
// Generate two graphs, join them and render the result:
//
//	c := canvas.New()
//	p, _ := layout.Generate(c, layout.Params{Kind: layout.Petersen, N: 5, M: 2})
//	k, _ := layout.Generate(c, layout.Params{Kind: layout.Complete, N: 4, Pos: r2.Vec{X: 300}})
//
//	a := c.Graph(p).NodeIDs()[0]
//	b := c.Graph(k).NodeIDs()[0]
//	c.JoinTwoNodes(a, b)
//
//	f, _ := os.Create("joined.svg")
//	svg.Render(render.Flatten(c, render.DefaultMargin), f, svg.Options{})
//
// # Main Packages
//
// [canvas] - Nodes, edges and graphs with stable IDs, the root registry,
// reparenting that preserves scene positions, bounding boxes and centering,
// the two- and four-node joins and the separation analyzer. Observers hear
// about joins, splits and every other change.
//
// [mode] - The drag, join, delete, edit, freestyle and select modes. A
// Machine turns clicks, drags and keys into canvas operations.
//
// [layout] - Generators for sixteen graph families (cycle, petersen,
// circulant, grid, wheel, ...), placed on the canvas as one root graph.
//
// [io] - The JSON document format, edge lists and TikZ export.
//
// [script] - A small command language for gestures and assertions, used by
// `graphcanvas run` and the HTTP API.
//
// [pipeline] - Options, cache keys and the Runner shared by the CLI and the
// server, so both render documents the same way.
//
// [store] - Document persistence over files, memory, Redis, MongoDB or
// Badger.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                 # All tests
//	go test ./pkg/canvas/...          # Specific package
//	go test -run Example ./pkg/...    # Examples only
//
// [canvas]: https://pkg.go.dev/github.com/matzehuels/graphcanvas/pkg/canvas
// [mode]: https://pkg.go.dev/github.com/matzehuels/graphcanvas/pkg/mode
// [layout]: https://pkg.go.dev/github.com/matzehuels/graphcanvas/pkg/layout
// [io]: https://pkg.go.dev/github.com/matzehuels/graphcanvas/pkg/io
// [script]: https://pkg.go.dev/github.com/matzehuels/graphcanvas/pkg/script
// [render]: https://pkg.go.dev/github.com/matzehuels/graphcanvas/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/graphcanvas/pkg/pipeline
// [store]: https://pkg.go.dev/github.com/matzehuels/graphcanvas/pkg/store
// [cache]: https://pkg.go.dev/github.com/matzehuels/graphcanvas/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/graphcanvas/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/graphcanvas/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/graphcanvas/pkg/observability
package pkg
