package io

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/matzehuels/graphcanvas/pkg/errors"
	"github.com/matzehuels/graphcanvas/pkg/layout"
)

// ReadJSON decodes a document from r and validates it.
//
// A document without an ID gets a fresh one, and a missing version is
// taken as the current [FormatVersion]. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Document, error) {
	var d Document
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode document")
	}
	if d.ID == "" {
		d.ID = New("").ID
	}
	if d.Version == 0 {
		d.Version = FormatVersion
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// ImportJSON reads the document stored at path.
func ImportJSON(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// ReadEdgeList reads the format written by [WriteEdgeList] into a document
// with a single graph. Nodes are labelled with their number and placed on
// a circle of diameter layout.DefaultSize. Blank lines and lines starting
// with '#' are skipped; pairs may be separated by a comma or by spaces.
func ReadEdgeList(r io.Reader, name string) (*Document, error) {
	sc := bufio.NewScanner(r)
	n, lineNo := -1, 0
	var pairs [][2]int
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if n < 0 {
			v, err := strconv.Atoi(line)
			if err != nil || v < 0 {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "line %d: expected node count, got %q", lineNo, line)
			}
			n = v
			continue
		}
		fields := strings.FieldsFunc(line, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
		if len(fields) != 2 {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "line %d: expected two node numbers, got %q", lineNo, line)
		}
		var p [2]int
		for k, f := range fields {
			v, err := strconv.Atoi(f)
			if err != nil || v < 0 || v >= n {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "line %d: bad node number %q", lineNo, f)
			}
			p[k] = v
		}
		if p[0] == p[1] {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "line %d: self loop on node %d", lineNo, p[0])
		}
		pairs = append(pairs, p)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read edge list: %w", err)
	}
	if n < 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "empty edge list")
	}

	d := New(name)
	if n == 0 {
		return d, nil
	}
	shape, err := layout.Build(layout.Params{Kind: layout.Circulant, N: n})
	if err != nil {
		return nil, err
	}
	g := Graph{}
	for i, p := range shape.Points {
		g.Nodes = append(g.Nodes, Node{X: p.X * layout.DefaultSize, Y: p.Y * layout.DefaultSize, Label: strconv.Itoa(i)})
	}
	for _, p := range pairs {
		g.Edges = append(g.Edges, Edge{From: p[0], To: p[1]})
	}
	d.Graphs = []Graph{g}
	return d, nil
}

// ImportEdgeList reads the edge list stored at path.
func ImportEdgeList(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadEdgeList(f, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
}
