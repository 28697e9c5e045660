// Package pdf renders transcripts as downloadable PDF documents.
package pdf

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

// Section is one timestamped block of transcript text
type Section struct {
	Timestamp string
	Text      string
}

// Build writes a transcript PDF to w. The title goes on top, followed by
// one block per section.
func Build(w io.Writer, title string, sections []Section) error {
	doc := fpdf.New("P", "mm", "A4", "")
	tr := doc.UnicodeTranslatorFromDescriptor("")
	doc.SetTitle(tr(title), false)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 16)
	doc.MultiCell(0, 8, tr(title), "", "L", false)
	doc.Ln(4)

	for _, s := range sections {
		if s.Timestamp != "" {
			doc.SetFont("Helvetica", "B", 11)
			doc.MultiCell(0, 6, tr(s.Timestamp), "", "L", false)
		}
		doc.SetFont("Helvetica", "", 11)
		doc.MultiCell(0, 6, tr(s.Text), "", "L", false)
		doc.Ln(2)
	}

	if err := doc.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return nil
}
