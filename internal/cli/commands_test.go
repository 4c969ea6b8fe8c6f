package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/graphcanvas/pkg/canvas"
	"github.com/matzehuels/graphcanvas/pkg/errors"
	docio "github.com/matzehuels/graphcanvas/pkg/io"
)

// execute runs the root command with args and returns everything printed.
// Config and cache lookups are pointed at empty temporary directories.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	defer func() { stdout = old }()

	c := New(io.Discard, LogInfo)
	cmd := c.RootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&buf)
	cmd.SetErr(io.Discard)
	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func mustExecute(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(t, args...)
	if err != nil {
		t.Fatalf("%s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func mustRead(t *testing.T, path string) *docio.Document {
	t.Helper()
	doc, err := readDocument(path)
	if err != nil {
		t.Fatalf("readDocument(%s) error: %v", path, err)
	}
	return doc
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestNewCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cycle.json")

	out := mustExecute(t, "new", "cycle", "6", "-o", path, "--labels")
	if !strings.Contains(out, "Generated") {
		t.Errorf("output missing success line:\n%s", out)
	}

	doc := mustRead(t, path)
	graphs, nodes, edges := doc.Counts()
	if graphs != 1 || nodes != 6 || edges != 6 {
		t.Errorf("counts = %d/%d/%d, want 1/6/6", graphs, nodes, edges)
	}
	if doc.Name != "cycle" {
		t.Errorf("Name = %q, want %q", doc.Name, "cycle")
	}

	// A second family added to the same document keeps its ID.
	mustExecute(t, "new", "path", "3", "--into", path, "--at", "300,0")
	again := mustRead(t, path)
	if again.ID != doc.ID {
		t.Errorf("ID changed from %s to %s", doc.ID, again.ID)
	}
	if graphs, nodes, _ := again.Counts(); graphs != 2 || nodes != 9 {
		t.Errorf("after --into: graphs = %d, nodes = %d, want 2, 9", graphs, nodes)
	}
}

func TestNewCommandErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		args []string
	}{
		{"unknown family", []string{"new", "hexagon"}},
		{"bad size", []string{"new", "cycle", "six"}},
		{"bad point", []string{"new", "cycle", "--at", "1;2"}},
		{"too small", []string{"new", "cycle", "1"}},
		{"missing into", []string{"new", "cycle", "--into", filepath.Join(dir, "missing.json")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, append(tt.args, "-o", filepath.Join(dir, "out.json"))...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestInfoCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wheel.json")
	mustExecute(t, "new", "wheel", "7", "-o", path)

	out := mustExecute(t, "info", path, "--json")
	var info documentInfo
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("info --json is not JSON: %v\n%s", err, out)
	}
	if info.Name != "wheel" || info.Graphs != 1 || info.Nodes != 7 || info.Edges != 12 {
		t.Errorf("info = %+v", info)
	}
	if len(info.Roots) != 1 || info.Roots[0].Components != 1 {
		t.Errorf("roots = %+v", info.Roots)
	}

	text := mustExecute(t, "info", path)
	for _, want := range []string{"wheel", "7 nodes", "12 edges", "graph 0"} {
		if !strings.Contains(text, want) {
			t.Errorf("info output missing %q:\n%s", want, text)
		}
	}
}

// writeSplitDocument saves a document whose only graph holds two separate
// edges.
func writeSplitDocument(t *testing.T, path string) {
	t.Helper()
	c := canvas.New()
	g := c.AddGraph(r2.Vec{})
	var ids []canvas.ID
	for i := 0; i < 4; i++ {
		n, err := c.AddNode(g, r2.Vec{X: float64(i) * 50}, "", canvas.NodeStyle{})
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, n)
	}
	for _, pair := range [][2]int{{0, 1}, {2, 3}} {
		if _, err := c.AddEdge(ids[pair[0]], ids[pair[1]], "", canvas.EdgeStyle{}); err != nil {
			t.Fatal(err)
		}
	}
	if err := writeDocument(path, docio.FromCanvas(c, "split")); err != nil {
		t.Fatal(err)
	}
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.json")
	mustExecute(t, "new", "petersen", "5", "2", "-o", good)
	if out := mustExecute(t, "check", good); !strings.Contains(out, "consistent") {
		t.Errorf("check output:\n%s", out)
	}

	split := filepath.Join(dir, "split.json")
	writeSplitDocument(t, split)

	_, err := execute(t, "check", split)
	if err == nil {
		t.Fatal("check passed a disconnected graph")
	}
	if got := errors.GetCode(err); got != errors.ErrCodeInvalidDocument {
		t.Errorf("code = %v, want %v", got, errors.ErrCodeInvalidDocument)
	}

	fixed := filepath.Join(dir, "fixed.json")
	out := mustExecute(t, "check", split, "--fix", "-o", fixed)
	if !strings.Contains(out, "Split off 1 graph") {
		t.Errorf("check --fix output:\n%s", out)
	}
	if graphs, nodes, edges := mustRead(t, fixed).Counts(); graphs != 2 || nodes != 4 || edges != 2 {
		t.Errorf("fixed counts = %d/%d/%d, want 2/4/2", graphs, nodes, edges)
	}
	mustExecute(t, "check", fixed)
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "build.gcs")
	writeFile(t, script, `layout cycle 5 at (0, 0) as C
layout path 3 at (200, 0) as P
expect roots 2
mode join
click C.0
click P.0
key "j"
expect roots 1
check
`)

	out := filepath.Join(dir, "built.json")
	mustExecute(t, "run", script, "-o", out)
	graphs, nodes, _ := mustRead(t, out).Counts()
	if graphs != 1 || nodes != 7 {
		t.Errorf("counts = %d graphs, %d nodes, want 1, 7", graphs, nodes)
	}

	// Starting from the saved document, a dry run leaves no file behind.
	dry := filepath.Join(dir, "dry.json")
	writeFile(t, script, "expect nodes 7\n")
	mustExecute(t, "run", script, "-d", out, "-o", dry, "--dry-run")
	if _, err := os.Stat(dry); !os.IsNotExist(err) {
		t.Errorf("dry run wrote %s", dry)
	}
}

func TestRunCommandFailureDoesNotSave(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "bad.gcs")
	writeFile(t, script, "layout cycle 5 as C\nexpect nodes 6\n")

	out := filepath.Join(dir, "bad.json")
	if _, err := execute(t, "run", script, "-o", out); err == nil {
		t.Fatal("expected error from failing expectation")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("failed script saved its document")
	}

	if _, err := execute(t, "run", filepath.Join(dir, "missing.gcs")); errors.GetCode(err) != errors.ErrCodeFileNotFound {
		t.Errorf("missing script: code = %v, want %v", errors.GetCode(err), errors.ErrCodeFileNotFound)
	}
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "star.json")
	mustExecute(t, "new", "star", "5", "-o", path)

	outDir := filepath.Join(dir, "out")
	out := mustExecute(t, "render", path, "-f", "svg,dot,edges", "--no-cache", "-o", outDir)
	if !strings.Contains(out, "Rendered") || !strings.Contains(out, "fresh") {
		t.Errorf("render output:\n%s", out)
	}
	for _, name := range []string{"star.svg", "star.dot", "star.edges"} {
		data, err := os.ReadFile(filepath.Join(outDir, name))
		if err != nil {
			t.Errorf("missing %s: %v", name, err)
			continue
		}
		if len(data) == 0 {
			t.Errorf("%s is empty", name)
		}
	}

	// The exported edge list reads back as a document.
	doc := mustRead(t, filepath.Join(outDir, "star.edges"))
	if _, nodes, edges := doc.Counts(); nodes != 5 || edges != 4 {
		t.Errorf("edge list round trip: %d nodes, %d edges, want 5, 4", nodes, edges)
	}

	if _, err := execute(t, "render", path, "-f", "gif", "--no-cache"); err == nil {
		t.Error("unknown format accepted")
	}
}

func TestRenderCommandCache(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cycle.json")
	mustExecute(t, "new", "cycle", "4", "-o", path)

	cfg := filepath.Join(dir, "config.toml")
	writeFile(t, cfg, "[cache]\ndir = "+quote(filepath.Join(dir, "cache"))+"\n")

	mustExecute(t, "--config", cfg, "render", path, "-f", "dot", "-o", dir)
	out := mustExecute(t, "--config", cfg, "render", path, "-f", "dot", "-o", dir)
	if !strings.Contains(out, "cached") {
		t.Errorf("second render was not served from the cache:\n%s", out)
	}

	info := mustExecute(t, "--config", cfg, "cache", "info")
	if !strings.Contains(info, "Entries") || !strings.Contains(info, "1") {
		t.Errorf("cache info:\n%s", info)
	}
	if out := mustExecute(t, "--config", cfg, "cache", "clear"); !strings.Contains(out, "Cleared 1 entry") {
		t.Errorf("cache clear:\n%s", out)
	}
	if out := mustExecute(t, "--config", cfg, "cache", "prune"); !strings.Contains(out, "Pruned 0 entries") {
		t.Errorf("cache prune:\n%s", out)
	}
}

func TestCachePath(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.toml")
	cacheDir := filepath.Join(dir, "artifacts")
	writeFile(t, cfg, "[cache]\ndir = "+quote(cacheDir)+"\n")

	out := mustExecute(t, "--config", cfg, "cache", "path")
	if strings.TrimSpace(out) != cacheDir {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), cacheDir)
	}

	writeFile(t, cfg, "[cache]\nredis_addr = \"localhost:6379\"\n")
	if _, err := execute(t, "--config", cfg, "cache", "info"); errors.GetCode(err) != errors.ErrCodeUnsupported {
		t.Errorf("cache info on redis: code = %v, want %v", errors.GetCode(err), errors.ErrCodeUnsupported)
	}
}

func TestStoreCommands(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.toml")
	writeFile(t, cfg, "[store]\nbackend = \"file\"\npath = "+quote(filepath.Join(dir, "store"))+"\n")

	path := filepath.Join(dir, "grid.json")
	mustExecute(t, "new", "grid", "3", "2", "-o", path)
	id := mustRead(t, path).ID

	out := mustExecute(t, "--config", cfg, "store", "put", path, "--name", "lattice")
	if !strings.Contains(out, id) {
		t.Errorf("store put did not print the ID:\n%s", out)
	}

	list := mustExecute(t, "--config", cfg, "store", "ls")
	if !strings.Contains(list, "lattice") || !strings.Contains(list, id) {
		t.Errorf("store list:\n%s", list)
	}

	fetched := filepath.Join(dir, "fetched.json")
	mustExecute(t, "--config", cfg, "store", "get", id, "-o", fetched)
	doc := mustRead(t, fetched)
	if doc.ID != id || doc.Name != "lattice" {
		t.Errorf("fetched %s %q, want %s %q", doc.ID, doc.Name, id, "lattice")
	}
	if _, nodes, _ := doc.Counts(); nodes != 6 {
		t.Errorf("fetched nodes = %d, want 6", nodes)
	}

	mustExecute(t, "--config", cfg, "store", "rm", id)
	_, err := execute(t, "--config", cfg, "store", "delete", id)
	if got := errors.GetCode(err); got != errors.ErrCodeDocumentNotFound {
		t.Errorf("second delete: code = %v, want %v", got, errors.ErrCodeDocumentNotFound)
	}
	if out := mustExecute(t, "--config", cfg, "store", "list"); !strings.Contains(out, "No stored documents") {
		t.Errorf("store list after delete:\n%s", out)
	}

	if _, err := execute(t, "--config", cfg, "store", "get", "not-a-uuid"); errors.GetCode(err) != errors.ErrCodeInvalidDocument {
		t.Errorf("bad ID: code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidDocument)
	}
}

func TestConfigFlagMissingFile(t *testing.T) {
	_, err := execute(t, "--config", filepath.Join(t.TempDir(), "nope.toml"), "cache", "path")
	if err == nil {
		t.Error("missing --config file accepted")
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out := mustExecute(t, "completion", shell)
			if !strings.Contains(out, appName) {
				t.Errorf("%s completion does not mention %s", shell, appName)
			}
		})
	}
	if _, err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("unsupported shell accepted")
	}
}

func TestVersionFlag(t *testing.T) {
	out := mustExecute(t, "--version")
	if !strings.Contains(out, appName) {
		t.Errorf("version output:\n%s", out)
	}
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
