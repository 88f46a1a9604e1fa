package mockraster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/slabforge/stonemock/fraction"
	"github.com/slabforge/stonemock/stone"
)

// Label typography, in points at 72 DPI (1 point = 1 surface pixel).
const (
	dimensionFontSize = 16
	materialFontSize  = 13

	labelGap   = 12 // between the rectangle and a dimension label
	labelInset = 8  // material label inset from the interior corner
)

// labelFaces holds the two faces used on a mockup. Faces keep internal
// glyph state, so every renderer parses its own pair instead of
// sharing package-level ones.
type labelFaces struct {
	dimension font.Face
	material  font.Face
}

func newLabelFaces() (*labelFaces, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("mockraster: parsing label font: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("mockraster: parsing label font: %w", err)
	}
	dimension, err := opentype.NewFace(regular, &opentype.FaceOptions{
		Size: dimensionFontSize, DPI: 72, Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("mockraster: building label face: %w", err)
	}
	material, err := opentype.NewFace(bold, &opentype.FaceOptions{
		Size: materialFontSize, DPI: 72, Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("mockraster: building label face: %w", err)
	}
	return &labelFaces{dimension: dimension, material: material}, nil
}

// drawLabels draws the three annotations: width below, height rotated
// on the left, material and thickness in the bottom-right interior
// corner.
func (rd *Renderer) drawLabels(spec stone.Spec, piece rect) {
	widthText := fraction.Format(spec.Width) + `"`
	heightText := fraction.Format(spec.Height) + `"`

	// width label, centered beneath the rectangle
	adv := font.MeasureString(rd.faces.dimension, widthText)
	ascent := rd.faces.dimension.Metrics().Ascent
	drawString(rd.img, rd.faces.dimension, labelColor,
		piece.x+piece.w/2-fixedToFloat(adv)/2,
		piece.y+piece.h+labelGap+fixedToFloat(ascent),
		widthText)

	rd.drawHeightLabel(heightText, piece)

	// material label, right-aligned inside the bottom-right corner
	matText := capitalize(spec.Material) + " - " + spec.Thickness
	matAdv := font.MeasureString(rd.faces.material, matText)
	drawString(rd.img, rd.faces.material, labelColor,
		piece.x+piece.w-labelInset-fixedToFloat(matAdv),
		piece.y+piece.h-labelInset,
		matText)
}

// drawHeightLabel renders the height text into a scratch image and
// composites it a quarter turn counter-clockwise, so it reads bottom
// to top along the left side, vertically centered.
func (rd *Renderer) drawHeightLabel(text string, piece rect) {
	face := rd.faces.dimension
	m := face.Metrics()
	tw := font.MeasureString(face, text).Ceil()
	th := m.Ascent.Ceil() + m.Descent.Ceil()
	if tw <= 0 || th <= 0 {
		return
	}

	buf := image.NewRGBA(image.Rect(0, 0, tw, th))
	drawString(buf, face, labelColor, 0, fixedToFloat(m.Ascent), text)

	// rotated footprint is th wide and tw tall
	x := int(math.Round(piece.x)) - labelGap - th
	y := int(math.Round(piece.y+piece.h/2)) - tw/2
	drawRotatedCCW(rd.img, x, y, buf)
}

// drawString draws s with its baseline origin at (x, y).
func drawString(dst draw.Image, face font.Face, col color.Color, x, y float64, s string) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  toFixedP(x, y),
	}
	d.DrawString(s)
}

// drawRotatedCCW composites src onto dst rotated a quarter turn
// counter-clockwise, with the rotated block's top-left corner at
// (x, y). Pixels are composited source-over, one at a time; labels are
// small enough that this stays cheap.
func drawRotatedCCW(dst draw.Image, x, y int, src *image.RGBA) {
	b := src.Bounds()
	for sy := b.Min.Y; sy < b.Max.Y; sy++ {
		for sx := b.Min.X; sx < b.Max.X; sx++ {
			if _, _, _, a := src.At(sx, sy).RGBA(); a == 0 {
				continue
			}
			dx := x + (sy - b.Min.Y)
			dy := y + (b.Max.X - 1 - sx)
			draw.Draw(dst, image.Rect(dx, dy, dx+1, dy+1), src, image.Pt(sx, sy), draw.Over)
		}
	}
}

// capitalize upper-cases the first rune and folds the rest to lower,
// so "QUARTZ" and "quartz" both label as "Quartz".
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

func fixedToFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }
