// Package project loads stone project files: YAML documents naming a
// set of pieces and optional render settings, the input format of the
// command line tool and embedding hosts.
package project

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/xid"
	"gopkg.in/yaml.v3"

	"github.com/slabforge/stonemock/mockraster"
	"github.com/slabforge/stonemock/stone"
)

// ErrNoPieces is the load failure for a project document whose piece
// list is missing or empty.
var ErrNoPieces = errors.New("project: no pieces")

// File is a decoded project document. Load validates every entry, so a
// File in hand is always renderable.
type File struct {
	Name   string        `yaml:"name"`
	Render RenderConfig  `yaml:"render"`
	Items  []PieceConfig `yaml:"pieces"`
}

// RenderConfig overrides rendering options. Pointer fields keep the
// renderer defaults when their key is absent.
type RenderConfig struct {
	ShowGrid          *bool    `yaml:"show_grid"`
	ShowPolishedEdges *bool    `yaml:"show_polished_edges"`
	UseXMarks         *bool    `yaml:"use_x_marks"`
	Scale             *float64 `yaml:"scale"`
	Padding           *float64 `yaml:"padding"`
}

// PieceConfig is one piece entry. An absent quantity means one; an
// absent id is assigned at load.
type PieceConfig struct {
	ID            string        `yaml:"id"`
	Width         float64       `yaml:"width"`
	Height        float64       `yaml:"height"`
	Material      string        `yaml:"material"`
	Thickness     string        `yaml:"thickness"`
	Quantity      int           `yaml:"quantity"`
	PolishedEdges stone.EdgeSet `yaml:"polished_edges"`
	Notes         string        `yaml:"notes"`
}

func (p PieceConfig) spec() stone.Spec {
	return stone.Spec{
		Width:         p.Width,
		Height:        p.Height,
		PolishedEdges: p.PolishedEdges,
		Material:      p.Material,
		Thickness:     p.Thickness,
		Quantity:      p.Quantity,
	}
}

// Load decodes and validates a project document. Decoding is strict:
// unknown keys are an error, catching misspelled settings instead of
// silently dropping them.
func Load(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoPieces
		}
		return nil, fmt.Errorf("project: decoding file: %w", err)
	}
	if len(f.Items) == 0 {
		return nil, ErrNoPieces
	}
	for i := range f.Items {
		p := &f.Items[i]
		if p.Quantity == 0 {
			p.Quantity = 1
		}
		if err := p.spec().Validate(); err != nil {
			return nil, fmt.Errorf("project: piece %d: %w", i+1, err)
		}
		if p.ID == "" {
			p.ID = xid.New().String()
		}
	}
	return &f, nil
}

// LoadFile is Load on the named file.
func LoadFile(path string) (*File, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("project: opening file: %w", err)
	}
	defer r.Close()
	return Load(r)
}

// Pieces converts the validated entries into render-ready pieces.
func (f *File) Pieces() []stone.Piece {
	pieces := make([]stone.Piece, len(f.Items))
	for i, p := range f.Items {
		pieces[i] = stone.Piece{ID: p.ID, Spec: p.spec(), Notes: p.Notes}
	}
	return pieces
}

// Options resolves the document's render overrides over the defaults.
func (f *File) Options() mockraster.Options {
	opts := mockraster.DefaultOptions()
	if f.Render.ShowGrid != nil {
		opts.ShowGrid = *f.Render.ShowGrid
	}
	if f.Render.ShowPolishedEdges != nil {
		opts.ShowPolishedEdges = *f.Render.ShowPolishedEdges
	}
	if f.Render.UseXMarks != nil {
		opts.UseXMarks = *f.Render.UseXMarks
	}
	if f.Render.Scale != nil {
		opts.Scale = *f.Render.Scale
	}
	if f.Render.Padding != nil {
		opts.Padding = *f.Render.Padding
	}
	return opts
}
