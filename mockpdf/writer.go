package mockpdf

import (
	"bytes"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// WritePDF serializes doc into w as a landscape A4 document with the
// fixed page margins. Documents without pages are a validation
// failure; every other error here means no document could be produced
// at all and surfaces to the caller.
func WritePDF(doc *Document, w io.Writer) error {
	if doc == nil || len(doc.Pages) == 0 {
		return fmt.Errorf("%w: document has no pages", ErrNothingToExport)
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(doc.Title, true)
	pdf.SetMargins(pageLeftMargin, pageTopMargin, pageLeftMargin)
	// offsets position every block explicitly
	pdf.SetAutoPageBreak(false, 0)

	for i, page := range doc.Pages {
		pdf.AddPage()

		pdf.SetTextColor(33, 33, 33)
		for _, txt := range page.Texts {
			style := ""
			if txt.Bold {
				style = "B"
			}
			pdf.SetFont("Helvetica", style, txt.Size)
			// Text positions the baseline; drop it below the line top
			// by an approximate ascent (points to millimeters).
			baseline := pageTopMargin + txt.Offset + txt.Size*0.35
			pdf.Text(pageLeftMargin, baseline, tr(txt.Value))
		}

		switch {
		case page.Image != nil:
			name := fmt.Sprintf("mockup-%d", i)
			opts := gofpdf.ImageOptions{ImageType: "PNG"}
			pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(page.Image.PNG))
			pdf.ImageOptions(name, pageLeftMargin, pageTopMargin+page.Image.Offset,
				imageWidth, imageHeight, false, opts, 0, "")

		case page.Placeholder != nil:
			y := pageTopMargin + page.Placeholder.Offset
			pdf.SetFillColor(235, 235, 235)
			pdf.SetDrawColor(160, 160, 160)
			pdf.SetLineWidth(0.4)
			pdf.Rect(pageLeftMargin, y, imageWidth, imageHeight, "FD")

			pdf.SetFont("Helvetica", "I", bodyFontSize+1)
			pdf.SetTextColor(90, 90, 90)
			pdf.SetXY(pageLeftMargin, y+imageHeight/2-4)
			pdf.CellFormat(imageWidth, 8, tr(page.Placeholder.Message), "", 0, "C", false, 0, "")
		}
	}

	if pdf.Err() {
		return fmt.Errorf("mockpdf: building document: %w", pdf.Error())
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("mockpdf: writing document: %w", err)
	}
	return nil
}
