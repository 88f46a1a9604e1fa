package mockpdf

import (
	"bytes"

	"github.com/slabforge/stonemock"
	"github.com/slabforge/stonemock/mockraster"
	"github.com/slabforge/stonemock/stone"
)

// ExportPiece composes, writes and delivers the single-piece document
// for one rendered artifact. It returns the derived filename.
func (e *Exporter) ExportPiece(artifact *mockraster.Artifact, delivery Delivery) (string, error) {
	doc, err := e.Compose(artifact)
	if err != nil {
		return "", err
	}
	return e.finalize(doc, delivery)
}

// ExportProject composes, writes and delivers the multi-piece project
// document. Artifacts line up with pieces by index; missing or failed
// entries become placeholder pages rather than failing the export. It
// returns the derived filename.
func (e *Exporter) ExportProject(name string, pieces []stone.Piece, artifacts []*mockraster.Artifact, delivery Delivery) (string, error) {
	doc, err := e.ComposeProject(name, pieces, artifacts)
	if err != nil {
		return "", err
	}
	return e.finalize(doc, delivery)
}

func (e *Exporter) finalize(doc *Document, delivery Delivery) (string, error) {
	e.setPhase(PhaseFinalizing)
	var buf bytes.Buffer
	if err := WritePDF(doc, &buf); err != nil {
		return "", err
	}
	if delivery != nil {
		if err := delivery.Deliver(doc.Filename, buf.Bytes()); err != nil {
			return "", err
		}
	}
	e.setPhase(PhaseDelivered)
	stonemock.Logger().Debug("document exported",
		"filename", doc.Filename,
		"pages", len(doc.Pages),
		"bytes", buf.Len())
	return doc.Filename, nil
}
