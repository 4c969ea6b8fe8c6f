package cli

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/graphcanvas/pkg/canvas"
	docio "github.com/matzehuels/graphcanvas/pkg/io"
	"github.com/matzehuels/graphcanvas/pkg/mode"
	"github.com/matzehuels/graphcanvas/pkg/observability"
)

// Editor styles
var (
	editorNodeStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	editorEdgeStyle   = lipgloss.NewStyle().Foreground(colorDim)
	editorPickStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	editorSelectStyle = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	editorGhostStyle  = lipgloss.NewStyle().Foreground(colorBlue)
	editorCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	editorBarStyle    = lipgloss.NewStyle().Foreground(colorWhite).Background(lipgloss.Color("236"))
	editorModeStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Padding(0, 1)
)

// modeColors tints the mode badge.
var modeColors = map[mode.Mode]lipgloss.Color{
	mode.Drag:      colorCyan,
	mode.Join:      colorYellow,
	mode.Delete:    colorRed,
	mode.Edit:      colorBlue,
	mode.Freestyle: colorGreen,
	mode.Select:    colorGray,
}

const (
	// Scene units per terminal cell at zoom 1. Cells are about twice as
	// tall as they are wide.
	cellWidth  = 4.0
	cellHeight = 8.0

	animationTick = 30 * time.Millisecond
)

// editCommand opens a document in the terminal editor.
func (c *CLI) editCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <document>",
		Short: "Edit a document interactively in the terminal",
		Long: `Edit a document in a full-screen terminal editor. A cursor stands in for
the mouse: move it with the arrow keys (shift for larger steps), click with
space and switch modes with 1-6 or tab. Joins are animated.

A missing document is created on the first save.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdit(args[0])
		},
	}
	return cmd
}

func (c *CLI) runEdit(path string) error {
	doc, err := readDocument(path)
	if err != nil {
		if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
			return err
		}
		doc = docio.New(documentName(path))
	}

	build := func(a canvas.Animator) (*canvas.Canvas, *mode.Machine, error) {
		cv, err := doc.Build(
			canvas.WithLogger(c.Logger),
			canvas.WithAnimator(a, c.Config.Canvas.AnimationFrames),
			canvas.WithObserver(observability.CanvasObserver(context.Background(), doc.ID)),
		)
		if err != nil {
			return nil, nil, err
		}
		return cv, c.newMachine(cv), nil
	}
	save := func(d *docio.Document) error { return writeDocument(path, d) }

	model, err := NewEditorModel(path, doc, build, c.Config.Canvas.GridSize, save)
	if err != nil {
		return err
	}

	// The editor owns the terminal; keep log lines out of the way.
	level := c.Logger.GetLevel()
	c.Logger.SetLevel(log.FatalLevel)
	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	c.Logger.SetLevel(level)
	if err != nil {
		return err
	}
	if model.Saved {
		printSuccess("Saved %s", StyleHighlight.Render(path))
	}
	if model.Dirty {
		printWarning("Discarded unsaved changes")
	}
	return nil
}

// =============================================================================
// EditorModel - Interactive canvas editor
// =============================================================================

// EditorModel is the bubbletea model of the terminal editor. A keyboard
// cursor stands in for the pointer; every gesture is handed to a
// mode.Machine at the cursor's scene position.
type EditorModel struct {
	Path string
	Doc  *docio.Document

	c *canvas.Canvas
	m *mode.Machine

	cursor r2.Vec
	origin r2.Vec // scene position of the top-left cell
	zoom   float64
	step   float64

	Width, Height int

	grabbed bool
	Dirty   bool
	Saved   bool
	message string
	confirm bool

	anims []playback

	save func(*docio.Document) error
}

// playback is a join movement captured by the canvas animator. Node
// positions are local to the moving graph.
type playback struct {
	points []r2.Vec
	edges  [][2]int
	frames []canvas.Pose
	frame  int
}

type tickMsg struct{}

// NewEditorModel opens doc for editing. build creates the canvas with the
// given animator; save persists a captured document.
func NewEditorModel(path string, doc *docio.Document, build func(canvas.Animator) (*canvas.Canvas, *mode.Machine, error), step float64, save func(*docio.Document) error) (*EditorModel, error) {
	e := &EditorModel{Path: path, Doc: doc, zoom: 1, step: step, Width: 80, Height: 24, save: save}
	c, m, err := build(canvas.AnimatorFunc(e.capture))
	if err != nil {
		return nil, err
	}
	e.c, e.m = c, m
	if e.step <= 0 {
		e.step = 10
	}
	e.fit()
	return e, nil
}

// Canvas returns the edited canvas.
func (e *EditorModel) Canvas() *canvas.Canvas { return e.c }

// Machine returns the gesture machine.
func (e *EditorModel) Machine() *mode.Machine { return e.m }

// Cursor returns the scene position of the cursor.
func (e *EditorModel) Cursor() r2.Vec { return e.cursor }

// capture records a join movement. The moving graph's children are copied
// now because the join may dissolve the graph before playback.
func (e *EditorModel) capture(g canvas.ID, frames []canvas.Pose) {
	graph := e.c.Graph(g)
	if graph == nil || len(frames) == 0 {
		return
	}
	p := playback{frames: frames}
	index := make(map[canvas.ID]int)
	for _, n := range graph.NodeIDs() {
		index[n] = len(p.points)
		p.points = append(p.points, e.c.Node(n).Pos)
	}
	for _, id := range graph.EdgeIDs() {
		edge := e.c.Edge(id)
		p.edges = append(p.edges, [2]int{index[edge.Source], index[edge.Dest]})
	}
	e.anims = append(e.anims, p)
}

// fit centres the view on the scene and puts the cursor in the middle.
func (e *EditorModel) fit() {
	box, ok := e.c.SceneBounds()
	if !ok {
		e.cursor = r2.Vec{}
	} else {
		e.cursor = r2.Scale(0.5, r2.Add(box.Min, box.Max))
	}
	e.centreOn(e.cursor)
}

func (e *EditorModel) cellSize() (w, h float64) {
	return cellWidth / e.zoom, cellHeight / e.zoom
}

func (e *EditorModel) rows() int {
	return max(e.Height-2, 1)
}

func (e *EditorModel) centreOn(p r2.Vec) {
	w, h := e.cellSize()
	e.origin = r2.Vec{X: p.X - float64(e.Width)/2*w, Y: p.Y - float64(e.rows())/2*h}
}

// cell maps a scene position to a terminal cell.
func (e *EditorModel) cell(p r2.Vec) (col, row int) {
	w, h := e.cellSize()
	return int(math.Floor((p.X - e.origin.X) / w)), int(math.Floor((p.Y - e.origin.Y) / h))
}

// follow pans the view so that the cursor stays visible.
func (e *EditorModel) follow() {
	col, row := e.cell(e.cursor)
	if col < 0 || col >= e.Width || row < 0 || row >= e.rows() {
		e.centreOn(e.cursor)
	}
}

func (e *EditorModel) Init() tea.Cmd {
	return nil
}

func (e *EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		e.Width, e.Height = msg.Width, msg.Height
		e.centreOn(e.cursor)
		return e, nil
	case tickMsg:
		return e, e.advance()
	case tea.KeyMsg:
		return e.key(msg.String())
	}
	return e, nil
}

// advance steps the oldest playback and schedules the next tick while
// anything is left to show.
func (e *EditorModel) advance() tea.Cmd {
	if len(e.anims) == 0 {
		return nil
	}
	e.anims[0].frame++
	if e.anims[0].frame >= len(e.anims[0].frames) {
		e.anims = e.anims[1:]
	}
	return e.tick()
}

func (e *EditorModel) tick() tea.Cmd {
	if len(e.anims) == 0 {
		return nil
	}
	return tea.Tick(animationTick, func(time.Time) tea.Msg { return tickMsg{} })
}

var modeKeys = map[string]mode.Mode{
	"1": mode.Drag, "2": mode.Join, "3": mode.Delete,
	"4": mode.Edit, "5": mode.Freestyle, "6": mode.Select,
}

func (e *EditorModel) key(k string) (tea.Model, tea.Cmd) {
	if k != "q" {
		e.confirm = false
	}
	before := len(e.anims)
	changed := false

	switch k {
	case "ctrl+c":
		return e, tea.Quit
	case "q":
		if e.Dirty && !e.confirm {
			e.confirm = true
			e.message = "unsaved changes: ctrl+s to save, q again to quit"
			return e, nil
		}
		return e, tea.Quit
	case "ctrl+s":
		e.write()
		return e, nil
	case "up", "down", "left", "right":
		e.moveCursor(k, e.step)
	case "shift+up", "shift+down", "shift+left", "shift+right":
		e.moveCursor(strings.TrimPrefix(k, "shift+"), 5*e.step)
	case "+", "=":
		e.zoom = math.Min(e.zoom*1.5, 8)
		e.centreOn(e.cursor)
	case "-":
		e.zoom = math.Max(e.zoom/1.5, 0.125)
		e.centreOn(e.cursor)
	case "0":
		e.zoom = 1
		e.fit()
	case "tab":
		e.setMode(mode.All[(int(e.m.Mode())+1)%len(mode.All)])
	case " ", "enter":
		changed = e.m.Click(e.cursor)
	case "D":
		changed = e.m.DoubleClick(e.cursor)
	case "g":
		changed = e.grab()
	case "J":
		changed = e.m.Key("j")
		if !changed {
			e.message = "nothing to join"
		}
	case "x", "delete":
		changed = e.m.Key("x")
	case "esc":
		if e.grabbed {
			e.grabbed = false
			changed = e.m.Release(e.cursor)
		} else {
			changed = e.m.Key("esc")
		}
	case "u":
		changed = e.m.Undo()
	default:
		if md, ok := modeKeys[k]; ok {
			e.setMode(md)
		}
	}

	if changed {
		e.Dirty = true
	}
	if len(e.anims) > before && before == 0 {
		return e, e.tick()
	}
	return e, nil
}

func (e *EditorModel) setMode(md mode.Mode) {
	if e.grabbed {
		e.m.Release(e.cursor)
		e.grabbed = false
	}
	freestyle := e.m.Mode() == mode.Freestyle
	e.m.SetMode(md)
	if freestyle && md != mode.Freestyle {
		e.Dirty = true
	}
	e.message = ""
}

func (e *EditorModel) moveCursor(dir string, d float64) {
	switch dir {
	case "up":
		e.cursor.Y -= d
	case "down":
		e.cursor.Y += d
	case "left":
		e.cursor.X -= d
	case "right":
		e.cursor.X += d
	}
	if e.grabbed && e.m.Move(e.cursor) {
		e.Dirty = true
	}
	e.follow()
}

// grab presses at the cursor, or releases when already pressed.
func (e *EditorModel) grab() bool {
	if e.grabbed {
		e.grabbed = false
		return e.m.Release(e.cursor)
	}
	e.grabbed = e.m.Press(e.cursor)
	if !e.grabbed {
		e.message = "nothing to grab here"
	}
	return false
}

func (e *EditorModel) write() {
	if e.save == nil {
		return
	}
	doc := capture(e.c, e.Doc)
	if err := e.save(doc); err != nil {
		e.message = "save failed: " + err.Error()
		return
	}
	e.Doc = doc
	e.Dirty = false
	e.Saved = true
	e.message = "saved " + e.Path
}

// =============================================================================
// View
// =============================================================================

type glyph struct {
	r     rune
	style lipgloss.Style
	set   bool
}

type screen struct {
	w, h  int
	cells [][]glyph
}

func newScreen(w, h int) *screen {
	s := &screen{w: w, h: h, cells: make([][]glyph, h)}
	for i := range s.cells {
		s.cells[i] = make([]glyph, w)
	}
	return s
}

func (s *screen) put(col, row int, r rune, style lipgloss.Style) {
	if col < 0 || col >= s.w || row < 0 || row >= s.h {
		return
	}
	s.cells[row][col] = glyph{r: r, style: style, set: true}
}

// line draws a segment between two cells, leaving its end cells free for
// the nodes.
func (s *screen) line(c0, r0, c1, r1 int, style lipgloss.Style) {
	dc, dr := abs(c1-c0), -abs(r1-r0)
	sc, sr := sign(c1-c0), sign(r1-r0)
	err := dc + dr
	c, r := c0, r0
	for c != c1 || r != r1 {
		if (c != c0 || r != r0) && !s.filled(c, r) {
			s.put(c, r, '·', style)
		}
		e2 := 2 * err
		if e2 >= dr {
			err += dr
			c += sc
		}
		if e2 <= dc {
			err += dc
			r += sr
		}
	}
}

func (s *screen) filled(col, row int) bool {
	return col >= 0 && col < s.w && row >= 0 && row < s.h && s.cells[row][col].set
}

func (s *screen) String() string {
	var b strings.Builder
	for i, row := range s.cells {
		for _, g := range row {
			if !g.set {
				b.WriteByte(' ')
				continue
			}
			b.WriteString(g.style.Render(string(g.r)))
		}
		if i < len(s.cells)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (e *EditorModel) View() string {
	scr := newScreen(e.Width, e.rows())

	for _, g := range e.c.Roots() {
		for _, id := range e.c.Graph(g).EdgeIDs() {
			edge := e.c.Edge(id)
			a, _ := e.c.ScenePos(edge.Source)
			b, _ := e.c.ScenePos(edge.Dest)
			c0, r0 := e.cell(a)
			c1, r1 := e.cell(b)
			scr.line(c0, r0, c1, r1, editorEdgeStyle)
		}
	}
	if len(e.anims) > 0 {
		e.drawPlayback(scr, e.anims[0])
	}

	marks := e.marks()
	for _, n := range e.c.NodeIDs() {
		p, _ := e.c.ScenePos(n)
		col, row := e.cell(p)
		r, style := 'o', editorNodeStyle
		if m, ok := marks[n]; ok {
			r, style = m.r, m.style
		}
		scr.put(col, row, r, style)
	}

	col, row := e.cell(e.cursor)
	under := ' '
	if scr.filled(col, row) {
		under = scr.cells[row][col].r
	}
	if under == ' ' || under == '·' || under == '+' {
		scr.put(col, row, '+', editorCursorStyle)
	} else {
		scr.put(col, row, under, editorCursorStyle.Reverse(true))
	}

	return scr.String() + "\n" + e.statusBar() + "\n" + e.helpLine()
}

// marks returns the glyphs of picked and selected nodes.
func (e *EditorModel) marks() map[canvas.ID]glyph {
	out := make(map[canvas.ID]glyph)
	p := e.m.Picks()
	for r, id := range map[rune]canvas.ID{'a': p.N1a, 'b': p.N1b, 'A': p.N2a, 'B': p.N2b} {
		if id != 0 {
			out[id] = glyph{r: r, style: editorPickStyle}
		}
	}
	for _, id := range e.m.Selection() {
		out[id] = glyph{r: '●', style: editorSelectStyle}
	}
	return out
}

func (e *EditorModel) drawPlayback(scr *screen, p playback) {
	pose := p.frames[min(p.frame, len(p.frames)-1)]
	scene := make([]r2.Vec, len(p.points))
	for i, local := range p.points {
		scene[i] = r2.Add(pose.Pos, r2.Rotate(local, pose.Rotation*math.Pi/180, r2.Vec{}))
	}
	for _, ed := range p.edges {
		c0, r0 := e.cell(scene[ed[0]])
		c1, r1 := e.cell(scene[ed[1]])
		scr.line(c0, r0, c1, r1, editorGhostStyle)
	}
	for _, pt := range scene {
		col, row := e.cell(pt)
		scr.put(col, row, 'o', editorGhostStyle)
	}
}

func (e *EditorModel) statusBar() string {
	md := e.m.Mode()
	badge := editorModeStyle.Background(modeColors[md]).Render(strings.ToUpper(md.String()))
	info := fmt.Sprintf(" %s · %s · %s · (%.0f, %.0f)",
		plural(len(e.c.Roots()), "graph"), plural(e.c.NodeCount(), "node"), plural(e.c.EdgeCount(), "edge"),
		e.cursor.X, e.cursor.Y)
	switch {
	case md == mode.Join && e.m.Picks().Count() > 0:
		info += fmt.Sprintf(" · %d picked", e.m.Picks().Count())
	case md == mode.Select && len(e.m.Selection()) > 0:
		info += fmt.Sprintf(" · %d selected", len(e.m.Selection()))
	}
	if e.grabbed {
		info += " · grabbing"
	}
	if e.Dirty {
		info += " · modified"
	}
	if e.message != "" {
		info += " · " + e.message
	}
	bar := badge + editorBarStyle.Render(info)
	if pad := e.Width - lipgloss.Width(bar); pad > 0 {
		bar += editorBarStyle.Render(strings.Repeat(" ", pad))
	}
	return bar
}

func (e *EditorModel) helpLine() string {
	return StyleDim.Render("1-6/tab mode · arrows move · space click · D double · g grab · J join · x delete · u undo · +/- zoom · ctrl+s save · q quit")
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
