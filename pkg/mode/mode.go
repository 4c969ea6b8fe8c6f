// Package mode coordinates pointer and key gestures with canvas operations.
//
// A [Machine] holds the interaction mode of one open canvas together with
// whatever the current gesture has accumulated so far: picked join nodes,
// an in-progress drag, the edit-mode undo stack, the freestyle chain or the
// rectangle selection. Changing the mode discards all of it.
//
// Only join and delete mode invoke the structural operators of package
// canvas. The other modes move items or build new ones.
package mode

import (
	"fmt"
	"strings"

	"github.com/matzehuels/graphcanvas/pkg/errors"
)

// Mode is an interaction mode.
type Mode int

const (
	// Drag moves whole root graphs.
	Drag Mode = iota
	// Join picks two or four nodes and joins their graphs.
	Join
	// Delete removes clicked items and splits disconnected graphs.
	Delete
	// Edit moves single nodes with undo.
	Edit
	// Freestyle draws new nodes and edges.
	Freestyle
	// Select picks nodes with a rectangle.
	Select
)

var names = [...]string{
	Drag:      "drag",
	Join:      "join",
	Delete:    "delete",
	Edit:      "edit",
	Freestyle: "freestyle",
	Select:    "select",
}

// All lists the modes in declaration order.
var All = []Mode{Drag, Join, Delete, Edit, Freestyle, Select}

func (m Mode) String() string {
	if m >= 0 && int(m) < len(names) {
		return names[m]
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Parse returns the mode with the given name, ignoring case.
func Parse(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, m := range All {
		if names[m] == s {
			return m, nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidMode, "unknown mode %q", s)
}
