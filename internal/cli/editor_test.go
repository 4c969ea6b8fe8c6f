package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/graphcanvas/pkg/canvas"
	docio "github.com/matzehuels/graphcanvas/pkg/io"
	"github.com/matzehuels/graphcanvas/pkg/mode"
)

// testEditor opens an editor over two single-edge graphs, one at the origin
// and one 100 units below it. It returns the nodes of both.
func testEditor(t *testing.T, save func(*docio.Document) error) (*EditorModel, []canvas.ID, []canvas.ID) {
	t.Helper()
	var a, b []canvas.ID
	build := func(anim canvas.Animator) (*canvas.Canvas, *mode.Machine, error) {
		c := canvas.New(canvas.WithAnimator(anim, 4))
		a = addPath(t, c, r2.Vec{})
		b = addPath(t, c, r2.Vec{Y: 100})
		return c, mode.New(c), nil
	}
	e, err := NewEditorModel("test.json", docio.New("test"), build, 10, save)
	if err != nil {
		t.Fatalf("NewEditorModel() error: %v", err)
	}
	e.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	return e, a, b
}

func addPath(t *testing.T, c *canvas.Canvas, origin r2.Vec) []canvas.ID {
	t.Helper()
	g := c.AddGraph(origin)
	n1, err := c.AddNode(g, r2.Vec{}, "", canvas.NodeStyle{})
	if err != nil {
		t.Fatal(err)
	}
	n2, err := c.AddNode(g, r2.Vec{X: 40}, "", canvas.NodeStyle{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.AddEdge(n1, n2, "", canvas.EdgeStyle{}); err != nil {
		t.Fatal(err)
	}
	return []canvas.ID{n1, n2}
}

func press(e *EditorModel, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "shift+down":
			msg = tea.KeyMsg{Type: tea.KeyShiftDown}
		case "ctrl+s":
			msg = tea.KeyMsg{Type: tea.KeyCtrlS}
		case " ":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		_, cmd = e.Update(msg)
	}
	return cmd
}

func moveTo(t *testing.T, e *EditorModel, n canvas.ID) {
	t.Helper()
	p, ok := e.Canvas().ScenePos(n)
	if !ok {
		t.Fatalf("node %v not found", n)
	}
	e.cursor = p
}

func TestEditorCursor(t *testing.T) {
	e, _, _ := testEditor(t, nil)
	start := e.Cursor()

	press(e, "right")
	if got, want := e.Cursor(), r2.Add(start, r2.Vec{X: 10}); got != want {
		t.Errorf("after right: cursor = %v, want %v", got, want)
	}
	press(e, "shift+down")
	if got, want := e.Cursor(), r2.Add(start, r2.Vec{X: 10, Y: 50}); got != want {
		t.Errorf("after shift+down: cursor = %v, want %v", got, want)
	}
}

func TestEditorModeKeys(t *testing.T) {
	e, _, _ := testEditor(t, nil)

	tests := []struct {
		key  string
		want mode.Mode
	}{
		{"2", mode.Join},
		{"tab", mode.Delete},
		{"6", mode.Select},
		{"tab", mode.Drag},
		{"5", mode.Freestyle},
	}
	for _, tt := range tests {
		press(e, tt.key)
		if got := e.Machine().Mode(); got != tt.want {
			t.Errorf("after %q: mode = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestEditorJoinAnimates(t *testing.T) {
	e, a, b := testEditor(t, nil)
	press(e, "2")

	moveTo(t, e, a[1])
	press(e, " ")
	moveTo(t, e, b[0])
	press(e, "enter")
	if got := e.Machine().Picks().Count(); got != 2 {
		t.Fatalf("picks = %d, want 2", got)
	}
	if !strings.Contains(e.View(), "2 picked") {
		t.Error("status bar does not show the picks")
	}

	cmd := press(e, "J")
	if cmd == nil {
		t.Fatal("join did not schedule an animation")
	}
	if got := len(e.Canvas().Roots()); got != 1 {
		t.Errorf("roots = %d, want 1", got)
	}
	if !e.Dirty {
		t.Error("join did not mark the document modified")
	}

	// Play the animation to the end.
	for i := 0; cmd != nil; i++ {
		if i > 100 {
			t.Fatal("animation did not finish")
		}
		_ = e.View()
		_, cmd = e.Update(tickMsg{})
	}
	if len(e.anims) != 0 {
		t.Errorf("%d playbacks left after the last tick", len(e.anims))
	}
}

func TestEditorJoinWithoutPicks(t *testing.T) {
	e, _, _ := testEditor(t, nil)
	press(e, "2")
	if cmd := press(e, "J"); cmd != nil {
		t.Error("empty join returned a command")
	}
	if e.Dirty {
		t.Error("empty join marked the document modified")
	}
	if !strings.Contains(e.View(), "nothing to join") {
		t.Error("status bar does not explain the failed join")
	}
}

func TestEditorDragGraph(t *testing.T) {
	e, a, _ := testEditor(t, nil)
	press(e, "1")
	g := e.Canvas().RootOf(a[0])
	before := e.Canvas().Graph(g).Pos

	moveTo(t, e, a[0])
	press(e, "g", "right", "right", "g")

	if got, want := e.Canvas().Graph(g).Pos, r2.Add(before, r2.Vec{X: 20}); got != want {
		t.Errorf("graph pos = %v, want %v", got, want)
	}
	if !e.Dirty {
		t.Error("drag did not mark the document modified")
	}
}

func TestEditorDeleteAndUndo(t *testing.T) {
	e, a, _ := testEditor(t, nil)

	press(e, "3")
	moveTo(t, e, a[0])
	press(e, " ")
	if got := e.Canvas().NodeCount(); got != 3 {
		t.Errorf("nodes after delete = %d, want 3", got)
	}

	press(e, "4")
	moveTo(t, e, a[1])
	before := e.Cursor()
	press(e, "g", "right", "g")
	if p, _ := e.Canvas().ScenePos(a[1]); p == before {
		t.Fatal("edit mode did not move the node")
	}
	press(e, "u")
	if p, _ := e.Canvas().ScenePos(a[1]); p != before {
		t.Errorf("after undo: node at %v, want %v", p, before)
	}
}

func TestEditorSaveAndQuit(t *testing.T) {
	var saved *docio.Document
	e, a, _ := testEditor(t, func(d *docio.Document) error {
		saved = d
		return nil
	})

	press(e, "3")
	moveTo(t, e, a[0])
	press(e, " ")

	if cmd := press(e, "q"); cmd != nil {
		t.Error("q with unsaved changes quit immediately")
	}
	press(e, "ctrl+s")
	if saved == nil {
		t.Fatal("ctrl+s did not save")
	}
	if _, nodes, _ := saved.Counts(); nodes != 3 {
		t.Errorf("saved nodes = %d, want 3", nodes)
	}
	if e.Dirty || !e.Saved {
		t.Errorf("Dirty = %v, Saved = %v after save", e.Dirty, e.Saved)
	}

	cmd := press(e, "q")
	if cmd == nil {
		t.Fatal("q did not quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not return tea.Quit")
	}
}

func TestEditorQuitConfirm(t *testing.T) {
	e, a, _ := testEditor(t, nil)
	press(e, "3")
	moveTo(t, e, a[0])
	press(e, " ")

	press(e, "q")
	cmd := press(e, "q")
	if cmd == nil {
		t.Fatal("second q did not quit")
	}
}

func TestEditorView(t *testing.T) {
	e, _, _ := testEditor(t, nil)
	view := e.View()

	lines := strings.Split(view, "\n")
	if got, want := len(lines), e.Height; got != want {
		t.Errorf("view has %d lines, want %d", got, want)
	}
	if !strings.Contains(view, "DRAG") {
		t.Error("view does not show the mode")
	}
	canvasLines := strings.Join(lines[:len(lines)-2], "\n")
	if got := strings.Count(canvasLines, "o"); got != 4 {
		t.Errorf("view shows %d nodes, want 4:\n%s", got, canvasLines)
	}
	if !strings.Contains(view, "2 graphs") {
		t.Error("status bar does not count the graphs")
	}
}

func TestScreenLine(t *testing.T) {
	s := newScreen(5, 3)
	s.line(0, 0, 4, 2, editorEdgeStyle)
	if s.filled(0, 0) || s.filled(4, 2) {
		t.Error("line drew over its end cells")
	}
	if !s.filled(2, 1) {
		t.Error("line missed its midpoint")
	}
	s.put(10, 10, 'x', editorNodeStyle)
}
