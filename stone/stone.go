// Package stone defines the value types describing rectangular stone
// pieces: specifications (dimensions, polished edges, material) and
// finalized pieces carrying an id and free-text notes.
package stone

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/rs/xid"
)

// ErrInvalidSpec is wrapped by every validation failure in this package.
var ErrInvalidSpec = errors.New("invalid stone specifications")

// Materials lists the material types Validate accepts (case folded).
var Materials = []string{"granite", "marble", "quartz", "quartzite", "soapstone"}

// Thicknesses lists the slab thicknesses Validate accepts.
var Thicknesses = []string{"2cm", "3cm"}

// Spec describes one rectangular piece. Width and Height are decimal
// inches. Spec is an immutable value, owned by the caller and passed
// by value into rendering and export.
type Spec struct {
	Width         float64
	Height        float64
	PolishedEdges EdgeSet
	Material      string
	Thickness     string
	Quantity      int
}

// Validate checks the invariants: strictly positive finite dimensions,
// known material and thickness, quantity at least 1. Failures wrap
// ErrInvalidSpec and name the first offending field.
func (s Spec) Validate() error {
	if !positiveFinite(s.Width) {
		return fmt.Errorf("%w: width must be a positive finite number of inches, got %v", ErrInvalidSpec, s.Width)
	}
	if !positiveFinite(s.Height) {
		return fmt.Errorf("%w: height must be a positive finite number of inches, got %v", ErrInvalidSpec, s.Height)
	}
	if !contains(Materials, s.Material) {
		return fmt.Errorf("%w: unknown material %q", ErrInvalidSpec, s.Material)
	}
	if !contains(Thicknesses, s.Thickness) {
		return fmt.Errorf("%w: unknown thickness %q", ErrInvalidSpec, s.Thickness)
	}
	if s.Quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1, got %d", ErrInvalidSpec, s.Quantity)
	}
	return nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}

// Piece is one finalized stone piece. Pieces live in caller-owned
// collections and are removed only by explicit deletion.
type Piece struct {
	ID    string
	Spec  Spec
	Notes string
}

// NewPiece binds spec and notes to a fresh opaque id.
func NewPiece(spec Spec, notes string) Piece {
	return Piece{ID: xid.New().String(), Spec: spec, Notes: notes}
}
