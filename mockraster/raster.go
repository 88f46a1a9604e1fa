// Package mockraster draws annotated scale mockups of stone pieces,
// by wrapping rasterx.
//
// A Renderer is bound to one caller-supplied drawing surface and
// redraws it completely on every Render call: piece rectangle, inch
// grid, polished-edge strokes with optional cross marks, and
// fraction-formatted dimension labels. Rendering is synchronous and
// single-threaded; a Renderer must not be shared between goroutines.
package mockraster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"

	"github.com/slabforge/stonemock"
	"github.com/slabforge/stonemock/stone"
)

// Reference size of the logical drawing surface, in pixels.
const (
	SurfaceWidth  = 800
	SurfaceHeight = 600
)

// Scale bounds for Options.Scale.
const (
	MinScale = 0.5
	MaxScale = 2.0
)

// ErrInvalidSurface means the target image cannot back a drawing
// context. No partial drawing is ever performed on such a surface.
var ErrInvalidSurface = errors.New("mockraster: invalid drawing surface")

// Drawing palette.
var (
	backgroundColor = color.NRGBA{0xFF, 0xFF, 0xFF, 0xFF}
	stoneFillColor  = color.NRGBA{0xED, 0xEA, 0xE3, 0xFF}
	borderColor     = color.NRGBA{0x37, 0x47, 0x4F, 0xFF}
	gridMinorColor  = color.NRGBA{0xE3, 0xE7, 0xEA, 0xFF}
	gridMajorColor  = color.NRGBA{0xC5, 0xCD, 0xD3, 0xFF}
	polishedColor   = color.NRGBA{0xC6, 0x28, 0x28, 0xFF}
	labelColor      = color.NRGBA{0x26, 0x32, 0x38, 0xFF}
)

// Stroke widths and mark geometry, in surface pixels.
const (
	borderWidth    = 2.0
	polishedWidth  = 3.0
	xMarkWidth     = 1.5
	gridMinorWidth = 1.0
	gridMajorWidth = 1.0

	// cross marks keep this pitch whatever the piece size is
	xMarkPitch = 28.0
	xMarkArm   = 5.0
)

// Grid graduations, in real-world inches.
const (
	minorGridInches = 0.25
	majorGridInches = 1.0
)

// Options control the overlays and geometry of one render.
//
// Scale is a zoom multiplier layered on top of the computed fit scale,
// clamped to [MinScale, MaxScale] (the zero value clamps up to
// MinScale). Padding is the surface-edge padding in pixels, floored at
// zero and capped so at least one pixel of drawable area remains.
type Options struct {
	ShowGrid          bool
	ShowPolishedEdges bool
	UseXMarks         bool
	Scale             float64
	Padding           float64
}

// DefaultOptions returns the standard display options: every overlay
// on, no extra zoom, 40 pixels of padding.
func DefaultOptions() Options {
	return Options{
		ShowGrid:          true,
		ShowPolishedEdges: true,
		UseXMarks:         true,
		Scale:             1,
		Padding:           40,
	}
}

// normalized forces Scale and Padding into their documented ranges for
// a w by h surface.
func (o Options) normalized(w, h float64) Options {
	if o.Scale < MinScale {
		o.Scale = MinScale
	}
	if o.Scale > MaxScale {
		o.Scale = MaxScale
	}
	if o.Padding < 0 {
		o.Padding = 0
	}
	if max := (math.Min(w, h) - 1) / 2; o.Padding > max {
		o.Padding = max
	}
	return o
}

// RenderStats counts the drawing operations of the last Render call.
// Polished edges and cross marks are stroked in batches, so the
// counters expose the batching behavior directly: one batch covers all
// selected edges, and cross marks add one batch per selected side.
type RenderStats struct {
	EdgeBatches  int
	XMarkBatches int
	GridCacheHit bool
}

// rect is an axis-aligned rectangle in surface pixels.
type rect struct{ x, y, w, h float64 }

// line is one straight stroke segment in surface pixels.
type line struct{ x1, y1, x2, y2 float64 }

// Renderer draws one piece at a time onto a fixed-size surface.
// It keeps separate filler and dasher instances over one shared
// scanner; fills and strokes are applied sequentially, never
// interleaved.
type Renderer struct {
	img    draw.Image
	width  int
	height int

	filler *rasterx.Filler
	dasher *rasterx.Dasher

	faces *labelFaces
	cache *PatternCache
	stats RenderStats
}

// New binds a renderer to img. The image must be non-nil with a
// non-empty bounds, otherwise New fails with ErrInvalidSurface.
// cache may be nil, giving the renderer a private pattern cache;
// passing a shared one reuses grid tiling across renderers.
func New(img draw.Image, cache *PatternCache) (*Renderer, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidSurface)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: empty bounds %v", ErrInvalidSurface, b)
	}
	if cache == nil {
		cache = NewPatternCache(DefaultCacheSize)
	}
	faces, err := newLabelFaces()
	if err != nil {
		return nil, err
	}

	w, h := b.Dx(), b.Dy()
	scanner := rasterx.NewScannerGV(w, h, img, b)
	return &Renderer{
		img:    img,
		width:  w,
		height: h,
		filler: rasterx.NewFiller(w, h, scanner),
		dasher: rasterx.NewDasher(w, h, scanner),
		faces:  faces,
		cache:  cache,
	}, nil
}

// Render draws spec onto the surface, replacing its previous content
// entirely. The spec is validated first; an invalid spec leaves the
// surface untouched. Rendering itself has no fallible step.
func (rd *Renderer) Render(spec stone.Spec, opts Options) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	o := opts.normalized(float64(rd.width), float64(rd.height))
	rd.stats = RenderStats{}

	w, h := float64(rd.width), float64(rd.height)

	// Uniform fit scale: the piece plus padding always fits the
	// surface whatever its aspect ratio; o.Scale zooms on top of that.
	scale := math.Min((w-2*o.Padding)/spec.Width, (h-2*o.Padding)/spec.Height) * o.Scale
	piece := rect{
		x: (w - spec.Width*scale) / 2,
		y: (h - spec.Height*scale) / 2,
		w: spec.Width * scale,
		h: spec.Height * scale,
	}

	rd.clearSurface()
	rd.fillRect(piece, stoneFillColor)
	if o.ShowGrid {
		rd.drawGrid(piece, scale)
	}
	rd.strokeRect(piece, borderWidth, borderColor)
	if o.ShowPolishedEdges {
		rd.drawPolishedEdges(piece, spec.PolishedEdges, o.UseXMarks)
	}
	rd.drawLabels(spec, piece)

	stonemock.Logger().Debug("rendered mockup",
		"width", spec.Width, "height", spec.Height,
		"scale", scale, "edges", spec.PolishedEdges.String())
	return nil
}

// Stats reports the drawing counters of the last Render call.
func (rd *Renderer) Stats() RenderStats { return rd.stats }

func (rd *Renderer) clearSurface() {
	draw.Draw(rd.img, rd.img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, draw.Src)
}

// fillRect fills an axis-aligned rectangle.
func (rd *Renderer) fillRect(r rect, col color.Color) {
	rd.filler.Clear()
	rd.filler.Start(toFixedP(r.x, r.y))
	rd.filler.Line(toFixedP(r.x+r.w, r.y))
	rd.filler.Line(toFixedP(r.x+r.w, r.y+r.h))
	rd.filler.Line(toFixedP(r.x, r.y+r.h))
	rd.filler.Stop(true)
	rd.filler.SetColor(col)
	rd.filler.Draw()
}

// strokeRect strokes the outline of r as one closed path.
func (rd *Renderer) strokeRect(r rect, width float64, col color.Color) {
	rd.setStroke(width)
	rd.dasher.Clear()
	rd.dasher.Start(toFixedP(r.x, r.y))
	rd.dasher.Line(toFixedP(r.x+r.w, r.y))
	rd.dasher.Line(toFixedP(r.x+r.w, r.y+r.h))
	rd.dasher.Line(toFixedP(r.x, r.y+r.h))
	rd.dasher.Stop(true)
	rd.dasher.SetColor(col)
	rd.dasher.Draw()
}

// strokeLines strokes all segments as one batched path operation:
// a single draw call regardless of how many segments the batch holds.
func (rd *Renderer) strokeLines(segs []line, width float64, col color.Color) {
	if len(segs) == 0 {
		return
	}
	rd.setStroke(width)
	rd.dasher.Clear()
	for _, s := range segs {
		rd.dasher.Start(toFixedP(s.x1, s.y1))
		rd.dasher.Line(toFixedP(s.x2, s.y2))
		rd.dasher.Stop(false)
	}
	rd.dasher.SetColor(col)
	rd.dasher.Draw()
}

// setStroke configures the dasher for solid lines with butt caps and
// miter joins; the mockup never dashes.
func (rd *Renderer) setStroke(width float64) {
	rd.dasher.SetStroke(
		fixed.Int26_6(width*64), fixed.Int26_6(4*64),
		rasterx.ButtCap, rasterx.ButtCap, rasterx.FlatGap, rasterx.Miter,
		nil, 0,
	)
}

// drawPolishedEdges strokes the selected sides in one batch, then the
// cross marks in one batch per side.
func (rd *Renderer) drawPolishedEdges(piece rect, edges stone.EdgeSet, xMarks bool) {
	selected := edges.List()
	if len(selected) == 0 {
		return
	}

	segs := make([]line, 0, len(selected))
	for _, e := range selected {
		segs = append(segs, edgeLine(piece, e))
	}
	rd.strokeLines(segs, polishedWidth, polishedColor)
	rd.stats.EdgeBatches++

	if !xMarks {
		return
	}
	for _, e := range selected {
		marks := xMarkLines(piece, e)
		if len(marks) == 0 {
			continue
		}
		rd.strokeLines(marks, xMarkWidth, polishedColor)
		rd.stats.XMarkBatches++
	}
}

// edgeLine returns the stroke segment covering one side of the piece.
func edgeLine(piece rect, e stone.Edge) line {
	switch e {
	case stone.EdgeTop:
		return line{piece.x, piece.y, piece.x + piece.w, piece.y}
	case stone.EdgeBottom:
		return line{piece.x, piece.y + piece.h, piece.x + piece.w, piece.y + piece.h}
	case stone.EdgeLeft:
		return line{piece.x, piece.y, piece.x, piece.y + piece.h}
	default: // stone.EdgeRight
		return line{piece.x + piece.w, piece.y, piece.x + piece.w, piece.y + piece.h}
	}
}

// xMarkLines builds the cross marks along one side, evenly spaced at
// xMarkPitch whatever the piece size is.
func xMarkLines(piece rect, e stone.Edge) []line {
	var marks []line
	add := func(cx, cy float64) {
		marks = append(marks,
			line{cx - xMarkArm, cy - xMarkArm, cx + xMarkArm, cy + xMarkArm},
			line{cx - xMarkArm, cy + xMarkArm, cx + xMarkArm, cy - xMarkArm},
		)
	}
	switch e {
	case stone.EdgeTop:
		for x := piece.x + xMarkPitch/2; x <= piece.x+piece.w-xMarkPitch/2; x += xMarkPitch {
			add(x, piece.y)
		}
	case stone.EdgeBottom:
		for x := piece.x + xMarkPitch/2; x <= piece.x+piece.w-xMarkPitch/2; x += xMarkPitch {
			add(x, piece.y+piece.h)
		}
	case stone.EdgeLeft:
		for y := piece.y + xMarkPitch/2; y <= piece.y+piece.h-xMarkPitch/2; y += xMarkPitch {
			add(piece.x, y)
		}
	case stone.EdgeRight:
		for y := piece.y + xMarkPitch/2; y <= piece.y+piece.h-xMarkPitch/2; y += xMarkPitch {
			add(piece.x+piece.w, y)
		}
	}
	return marks
}

func toFixedP(x, y float64) fixed.Point26_6 {
	return fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)}
}
