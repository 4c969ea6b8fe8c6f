package render

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/matzehuels/graphcanvas/pkg/errors"
)

// rsvgConvert is the librsvg command line tool used for PDF output.
const rsvgConvert = "rsvg-convert"

// HasConverter reports whether rsvg-convert is on the PATH.
func HasConverter() bool {
	_, err := exec.LookPath(rsvgConvert)
	return err == nil
}

// ToPDF converts an SVG document to PDF by piping it through rsvg-convert.
// A missing tool is reported as ErrCodeUnsupported with install hints.
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	if !HasConverter() {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"PDF output needs %s (brew install librsvg, or apt install librsvg2-bin)", rsvgConvert)
	}
	var out, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, rsvgConvert, "--format", "pdf")
	cmd.Stdin = bytes.NewReader(svg)
	cmd.Stdout, cmd.Stderr = &out, &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "%s: %s", rsvgConvert, strings.TrimSpace(stderr.String()))
	}
	return out.Bytes(), nil
}
