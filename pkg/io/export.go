package io

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/graphcanvas/pkg/canvas"
)

// WriteJSON encodes d as indented JSON and writes it to w.
// The output can be read back with [ReadJSON].
func WriteJSON(d *Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes d to a JSON file at path.
func ExportJSON(d *Document, path string) error {
	return exportFile(path, func(w io.Writer) error { return WriteJSON(d, w) })
}

// WriteEdgeList writes the node count of c followed by one "i,j" line per
// edge. Nodes are numbered in registry order, and each edge is written
// once, from its lower-numbered endpoint.
func WriteEdgeList(c *canvas.Canvas, w io.Writer) error {
	ids := c.NodeIDs()
	index := make(map[canvas.ID]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n", len(ids))
	for i, id := range ids {
		for _, eid := range c.Node(id).Edges {
			if j := index[c.Edge(eid).Other(id)]; j > i {
				fmt.Fprintf(bw, "%d,%d\n", i, j)
			}
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write edge list: %w", err)
	}
	return nil
}

// ExportEdgeList writes the edge list of c to a file at path.
func ExportEdgeList(c *canvas.Canvas, path string) error {
	return exportFile(path, func(w io.Writer) error { return WriteEdgeList(c, w) })
}

// ExportTikZ writes c as a tikzpicture to a file at path.
func ExportTikZ(c *canvas.Canvas, path string, dpi float64) error {
	return exportFile(path, func(w io.Writer) error { return WriteTikZ(c, w, dpi) })
}

func exportFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
