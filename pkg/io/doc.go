// Package io reads and writes canvas drawings.
//
// # Documents
//
// A [Document] is the persistent form of a canvas: one entry per root graph
// in registry order, each holding its scene position, rotation, nodes and
// edges. Node positions are local to the graph; edges refer to nodes by
// their index within the graph. Styles equal to the canvas defaults are
// omitted.
//
//	{
//	  "id": "2f0c4b1e-...",
//	  "name": "petersen",
//	  "version": 1,
//	  "graphs": [
//	    {
//	      "x": 120, "y": 80, "rotation": 0,
//	      "nodes": [{"x": -20, "y": 0, "label": "0"}, {"x": 20, "y": 0, "label": "1"}],
//	      "edges": [{"from": 0, "to": 1}]
//	    }
//	  ]
//	}
//
// Use [FromCanvas] to capture a canvas and [Document.Build] to recreate it.
// [WriteJSON], [ReadJSON], [ExportJSON] and [ImportJSON] move documents to
// and from writers, readers and files. Every decoded document is validated
// before it is returned.
//
// # Edge lists
//
// [WriteEdgeList] writes the node count followed by one "i,j" line per
// edge with i < j, numbering nodes in registry order. [ReadEdgeList] reads
// the same format back and places the nodes on a circle.
//
// # TikZ
//
// [WriteTikZ] writes a LaTeX tikzpicture. The most common node and edge
// attributes become the n, e and l styles, and each node or edge only
// lists where it differs from them.
package io
