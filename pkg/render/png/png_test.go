package png

import (
	"bytes"
	"image"
	stdpng "image/png"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/graphcanvas/pkg/canvas"
	"github.com/matzehuels/graphcanvas/pkg/render"
)

func scene(t *testing.T, label string) *render.Scene {
	t.Helper()
	c := canvas.New()
	g := c.AddGraph(r2.Vec{})
	a, err := c.AddNode(g, r2.Vec{}, label, canvas.NodeStyle{Fill: "#ff0000"})
	if err != nil {
		t.Fatal(err)
	}
	b, err := c.AddNode(g, r2.Vec{X: 100}, "", canvas.NodeStyle{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.AddEdge(a, b, "e", canvas.EdgeStyle{PenWidth: 4}); err != nil {
		t.Fatal(err)
	}
	return render.Flatten(c, render.DefaultMargin)
}

func decode(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := stdpng.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return img
}

func rgb(img image.Image, x, y int) (uint8, uint8, uint8) {
	r, g, b, _ := img.At(x, y).RGBA()
	return uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)
}

// within allows for antialiasing.
func within(a, b uint8) bool {
	d := int(a) - int(b)
	return d >= -8 && d <= 8
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(scene(t, ""), &buf, Options{Background: "#0000ff"}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	img := decode(t, buf.Bytes())
	if got := img.Bounds().Size(); got != (image.Point{X: 140, Y: 40}) {
		t.Fatalf("size = %v, want 140x40", got)
	}

	tests := []struct {
		name    string
		x, y    int
		r, g, b uint8
	}{
		{"background", 2, 2, 0, 0, 255},
		{"red node", 20, 20, 255, 0, 0},
		{"white node", 120, 20, 255, 255, 255},
		{"edge", 70, 20, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b := rgb(img, tt.x, tt.y)
			if !within(r, tt.r) || !within(g, tt.g) || !within(b, tt.b) {
				t.Errorf("pixel(%d,%d) = %d,%d,%d, want %d,%d,%d", tt.x, tt.y, r, g, b, tt.r, tt.g, tt.b)
			}
		})
	}
}

func TestRenderScale(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(scene(t, "x"), &buf, Options{Scale: 2}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := decode(t, buf.Bytes()).Bounds().Size(); got != (image.Point{X: 280, Y: 80}) {
		t.Errorf("size = %v, want 280x80", got)
	}
}

func TestRenderLabels(t *testing.T) {
	var with, without bytes.Buffer
	if err := Render(scene(t, "W"), &with, Options{Scale: 3}); err != nil {
		t.Fatal(err)
	}
	if err := Render(scene(t, "W"), &without, Options{Scale: 3, HideLabels: true}); err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(with.Bytes(), without.Bytes()) {
		t.Error("labels did not change the image")
	}
}

func TestRenderEmpty(t *testing.T) {
	s := render.Flatten(canvas.New(), 0)
	if err := Render(s, &bytes.Buffer{}, Options{}); err == nil {
		t.Error("Render() of a zero-sized scene succeeded")
	}
}
