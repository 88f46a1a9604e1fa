// Package mockpdf assembles rendered stone mockups into paginated PDF
// documents, by wrapping github.com/jung-kurt/gofpdf, and delivers
// them to the host platform.
//
// An Exporter composes a Document from one or more rendered artifacts,
// WritePDF serializes it, and a Delivery strategy hands the bytes to
// the host. Multi-piece composition runs in fixed-size batches with a
// cooperative yield between batches, so a host loop is never starved
// for longer than one batch.
package mockpdf

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/slabforge/stonemock/fraction"
	"github.com/slabforge/stonemock/stone"
)

// Page layout, in millimeters on landscape A4 (297 by 210).
const (
	pageLeftMargin = 14.0
	pageTopMargin  = 20.0

	imageWidth  = 180.0
	imageHeight = 120.0

	titleFontSize = 16.0
	bodyFontSize  = 10.0

	titleAdvance = 10.0 // below a block title
	lineAdvance  = 5.0  // between body lines
	blockGap     = 4.0  // between the text block and the image slot
	headerHeight = 22.0 // project header block on the first page

	// notes shift the image down by one lineAdvance per wrapped line,
	// capped so the image block never runs off the page
	maxImageShift = 10.0
)

// notesColumns is the fixed word-wrap column width for notes text.
const notesColumns = 95

// ErrNothingToExport is the validation failure for exports with no
// usable input: a nil single artifact, or an empty piece or artifact
// list for a project. It is raised before any page is composed.
var ErrNothingToExport = errors.New("mockpdf: nothing to export")

// Text is one line on a page, drawn at a vertical offset below the
// top content margin.
type Text struct {
	Value  string
	Size   float64
	Bold   bool
	Offset float64
}

// Image is the embedded mockup bitmap of a page, drawn at the fixed
// imageWidth by imageHeight block size.
type Image struct {
	PNG    []byte
	Offset float64
}

// Placeholder marks an image slot whose bitmap could not be produced.
// It renders as a visible notice block of the same size.
type Placeholder struct {
	Message string
	Offset  float64
}

// Page is one document page: text lines plus at most one image slot,
// which holds either a bitmap or a placeholder.
type Page struct {
	Texts       []Text
	Image       *Image
	Placeholder *Placeholder
}

// Document is an ordered sequence of pages with a derived filename.
// It is produced by an Exporter, handed to a Delivery, then discarded.
type Document struct {
	Title    string
	Filename string
	Pages    []Page
}

// SingleFilename derives the download name of a one-piece export from
// the fraction-formatted dimensions, e.g. "stone-mockup-24x4.pdf".
// Fraction slashes fold to underscores to stay filesystem safe.
func SingleFilename(spec stone.Spec) string {
	fw := strings.ReplaceAll(fraction.Format(spec.Width), "/", "_")
	fh := strings.ReplaceAll(fraction.Format(spec.Height), "/", "_")
	return fmt.Sprintf("stone-mockup-%sx%s.pdf", fw, fh)
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// ProjectFilename derives the download name of a multi-piece export
// from the project name: lowercased, runs of other characters folded
// to single hyphens. A name with nothing left falls back to
// "untitled".
func ProjectFilename(name string) string {
	s := nonAlnum.ReplaceAllString(strings.ToLower(name), "-")
	s = strings.Trim(s, "-")
	if s == "" {
		s = "untitled"
	}
	return s + "-stone-project.pdf"
}

// wrapText folds s into lines of at most width characters, breaking at
// spaces and splitting words longer than the column. Blank input wraps
// to nothing.
func wrapText(s string, width int) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		cur := ""
		for _, w := range words {
			// over-long words split on rune boundaries, never mid-rune
			for utf8.RuneCountInString(w) > width {
				if cur != "" {
					lines = append(lines, cur)
					cur = ""
				}
				cut := 0
				for n := 0; n < width; n++ {
					_, size := utf8.DecodeRuneInString(w[cut:])
					cut += size
				}
				lines = append(lines, w[:cut])
				w = w[cut:]
			}
			switch {
			case cur == "":
				cur = w
			case utf8.RuneCountInString(cur)+1+utf8.RuneCountInString(w) <= width:
				cur += " " + w
			default:
				lines = append(lines, cur)
				cur = w
			}
		}
		if cur != "" {
			lines = append(lines, cur)
		}
	}
	return lines
}

// capitalize upper-cases the first rune and folds the rest to lower.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
