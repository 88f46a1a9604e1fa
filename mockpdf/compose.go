package mockpdf

import (
	"bytes"
	"fmt"
	"runtime"
	"time"

	"github.com/slabforge/stonemock"
	"github.com/slabforge/stonemock/fraction"
	"github.com/slabforge/stonemock/mockraster"
	"github.com/slabforge/stonemock/stone"
)

// DefaultBatchSize is how many pieces are composed between yields.
const DefaultBatchSize = 2

// Phase tracks an export call through its lifecycle. Failed is
// reachable only from Validating; once composition starts, an export
// runs to completion, substituting placeholders for per-piece
// failures.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseValidating
	PhaseRendering
	PhaseFinalizing
	PhaseDelivered
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseValidating:
		return "validating"
	case PhaseRendering:
		return "rendering"
	case PhaseFinalizing:
		return "finalizing"
	case PhaseDelivered:
		return "delivered"
	case PhaseFailed:
		return "failed"
	default:
		return "<unknown phase>"
	}
}

// Exporter composes export documents from rendered artifacts.
//
// An Exporter builds one document at a time; independent exports need
// their own Exporter. The batch loop never holds the thread across
// more than one batch: the yield function runs between batches
// whatever the piece count is.
type Exporter struct {
	batchSize int
	yield     func()
	progress  func(Phase)
	now       func() time.Time
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithBatchSize sets how many pieces are composed between yields.
// Values under 1 are ignored.
func WithBatchSize(n int) Option {
	return func(e *Exporter) {
		if n > 0 {
			e.batchSize = n
		}
	}
}

// WithYield replaces the scheduling point run between batches. The
// default is runtime.Gosched; hosts with their own event loop can
// inject a message-pump step instead.
func WithYield(f func()) Option {
	return func(e *Exporter) {
		if f != nil {
			e.yield = f
		}
	}
}

// WithProgress registers a callback observing phase transitions.
func WithProgress(f func(Phase)) Option {
	return func(e *Exporter) { e.progress = f }
}

// WithNow fixes the clock behind the project header date.
func WithNow(f func() time.Time) Option {
	return func(e *Exporter) {
		if f != nil {
			e.now = f
		}
	}
}

// NewExporter returns an Exporter with the default batch size and
// scheduling point.
func NewExporter(opts ...Option) *Exporter {
	e := &Exporter{
		batchSize: DefaultBatchSize,
		yield:     runtime.Gosched,
		now:       time.Now,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

func (e *Exporter) setPhase(p Phase) {
	if e.progress != nil {
		e.progress(p)
	}
	stonemock.Logger().Debug("export phase", "phase", p.String())
}

// Compose builds the single-piece document for artifact: one page with
// a titled detail block and the embedded mockup image. A nil or
// imageless artifact is a validation failure, reported before any page
// exists.
func (e *Exporter) Compose(artifact *mockraster.Artifact) (*Document, error) {
	e.setPhase(PhaseValidating)
	if artifact == nil || artifact.Image == nil {
		e.setPhase(PhaseFailed)
		return nil, fmt.Errorf("%w: no rendered artifact", ErrNothingToExport)
	}
	// single-piece exports surface encoding failures instead of
	// papering over them, so an unencodable image fails validation
	if err := artifact.EncodePNG(&bytes.Buffer{}); err != nil {
		e.setPhase(PhaseFailed)
		return nil, fmt.Errorf("%w: mockup image could not be encoded", ErrNothingToExport)
	}
	e.setPhase(PhaseRendering)

	spec := artifact.Piece.Spec
	title := fmt.Sprintf("Stone Mockup: %s\" × %s\"",
		fraction.Format(spec.Width), fraction.Format(spec.Height))

	page := e.pieceBlock(title, artifact.Piece, artifact, 0)

	return &Document{
		Title:    title,
		Filename: SingleFilename(spec),
		Pages:    []Page{page},
	}, nil
}

// ComposeProject builds the multi-piece document: the first page
// carries the project header followed by piece #1's detail block, and
// every further piece starts its own page. Pieces are composed in
// batches of the exporter's batch size with a yield between batches.
// A missing or unencodable artifact becomes a placeholder slot; it
// never aborts the export.
func (e *Exporter) ComposeProject(name string, pieces []stone.Piece, artifacts []*mockraster.Artifact) (*Document, error) {
	e.setPhase(PhaseValidating)
	if len(pieces) == 0 {
		e.setPhase(PhaseFailed)
		return nil, fmt.Errorf("%w: empty piece list", ErrNothingToExport)
	}
	if len(artifacts) == 0 {
		e.setPhase(PhaseFailed)
		return nil, fmt.Errorf("%w: no rendered artifacts", ErrNothingToExport)
	}
	e.setPhase(PhaseRendering)

	displayName := name
	if displayName == "" {
		displayName = "Stone Project"
	}

	doc := &Document{
		Title:    displayName,
		Filename: ProjectFilename(name),
		Pages:    make([]Page, 0, len(pieces)),
	}

	for start := 0; start < len(pieces); start += e.batchSize {
		end := start + e.batchSize
		if end > len(pieces) {
			end = len(pieces)
		}
		for i := start; i < end; i++ {
			piece := pieces[i]
			var art *mockraster.Artifact
			if i < len(artifacts) {
				art = artifacts[i]
			}

			base := 0.0
			var header []Text
			if i == 0 {
				header = []Text{
					{Value: displayName, Size: titleFontSize, Bold: true, Offset: 0},
					{Value: "Generated: " + e.now().Format("January 2, 2006"), Size: bodyFontSize, Offset: titleAdvance},
					{Value: fmt.Sprintf("Total pieces: %d", len(pieces)), Size: bodyFontSize, Offset: titleAdvance + lineAdvance},
				}
				base = headerHeight
			}

			title := fmt.Sprintf("Piece %d: %s\" × %s\"", i+1,
				fraction.Format(piece.Spec.Width), fraction.Format(piece.Spec.Height))
			page := e.pieceBlock(title, piece, art, base)
			page.Texts = append(header, page.Texts...)
			doc.Pages = append(doc.Pages, page)
		}

		if end < len(pieces) {
			stonemock.Logger().Debug("export batch composed", "through", end, "of", len(pieces))
			e.yield()
		}
	}
	return doc, nil
}

// pieceBlock lays out one piece's detail block starting base
// millimeters below the content origin: title, material, thickness,
// quantity and polished-edge lines, wrapped notes, then the image
// slot. The slot degrades to a placeholder when the artifact is
// missing or cannot be encoded.
func (e *Exporter) pieceBlock(title string, piece stone.Piece, art *mockraster.Artifact, base float64) Page {
	spec := piece.Spec

	edges := "None"
	if spec.PolishedEdges.Len() > 0 {
		edges = spec.PolishedEdges.String()
	}

	y := base
	texts := []Text{{Value: title, Size: titleFontSize, Bold: true, Offset: y}}
	y += titleAdvance
	for _, line := range []string{
		"Material: " + capitalize(spec.Material),
		"Thickness: " + spec.Thickness,
		fmt.Sprintf("Quantity: %d", spec.Quantity),
		"Polished Edges: " + edges,
	} {
		texts = append(texts, Text{Value: line, Size: bodyFontSize, Offset: y})
		y += lineAdvance
	}

	shift := 0.0
	if piece.Notes != "" {
		lines := wrapText("Notes: "+piece.Notes, notesColumns)
		for _, line := range lines {
			texts = append(texts, Text{Value: line, Size: bodyFontSize, Offset: y + shift})
			shift += lineAdvance
		}
		if shift > maxImageShift {
			shift = maxImageShift
		}
	}
	slot := y + blockGap + shift

	page := Page{Texts: texts}
	if art == nil || art.Image == nil {
		stonemock.Logger().Warn("missing mockup image, inserting placeholder", "piece", piece.ID)
		page.Placeholder = &Placeholder{
			Message: "Mockup image unavailable for this piece",
			Offset:  slot,
		}
		return page
	}

	var buf bytes.Buffer
	if err := art.EncodePNG(&buf); err != nil {
		stonemock.Logger().Warn("mockup image not encodable, inserting placeholder",
			"piece", piece.ID, "err", err)
		page.Placeholder = &Placeholder{
			Message: "Mockup image unavailable for this piece",
			Offset:  slot,
		}
		return page
	}
	page.Image = &Image{PNG: buf.Bytes(), Offset: slot}
	return page
}
