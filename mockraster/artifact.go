package mockraster

import (
	"errors"
	"image"
	"image/png"
	"io"

	"github.com/slabforge/stonemock/stone"
)

// ErrNoImage is returned when an artifact without a bitmap is asked to
// encode itself.
var ErrNoImage = errors.New("mockraster: artifact has no image")

// Artifact binds a piece and the options it was rendered with to the
// produced bitmap. Artifacts are transient: they are recomputed
// whenever specs or options change and never persisted.
type Artifact struct {
	Piece   stone.Piece
	Options Options
	Image   *image.RGBA
}

// RenderPiece renders piece onto a fresh SurfaceWidth by SurfaceHeight
// surface and returns the bound artifact. cache may be nil; sharing
// one cache across calls reuses grid tiling between pieces rendered at
// the same scale.
func RenderPiece(piece stone.Piece, opts Options, cache *PatternCache) (*Artifact, error) {
	img := image.NewRGBA(image.Rect(0, 0, SurfaceWidth, SurfaceHeight))
	rd, err := New(img, cache)
	if err != nil {
		return nil, err
	}
	if err := rd.Render(piece.Spec, opts); err != nil {
		return nil, err
	}
	return &Artifact{Piece: piece, Options: opts, Image: img}, nil
}

// EncodePNG writes the artifact's bitmap as PNG.
func (a *Artifact) EncodePNG(w io.Writer) error {
	if a == nil || a.Image == nil {
		return ErrNoImage
	}
	return png.Encode(w, a.Image)
}
