package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/ParijatSutradhar04/AI-for-Education/internal/markup"
	"github.com/ParijatSutradhar04/AI-for-Education/internal/notes"
)

const (
	bodyFontPt   = 11.0
	titleFontPt  = 12.0
	lineHeightMM = 5.5
	blockGapMM   = 4.0
)

// exportTextLayout lays each note out procedurally: a title line, a bold
// question line, and a word-wrapped answer block. The overflow check runs
// independently for the question and answer blocks, so a long answer forces
// a page break even when its question fit.
func (e *Exporter) exportTextLayout(entries []notes.Note) (Artifact, error) {
	doc, err := e.pdfDocument()
	if err != nil {
		return Artifact{}, err
	}

	doc.SetMargins(pageMarginMM, pageMarginMM, pageMarginMM)
	doc.SetAutoPageBreak(false, pageMarginMM)
	doc.AddPage()
	translate := doc.UnicodeTranslatorFromDescriptor("")

	page := &pageCursor{doc: doc, y: pageMarginMM}

	for i, note := range entries {
		doc.SetFont("Helvetica", "B", titleFontPt)
		title := fmt.Sprintf("Note %d — %s", i+1, note.Timestamp)
		page.writeBlock(doc.SplitText(translate(title), usableWidthMM))

		doc.SetFont("Helvetica", "B", bodyFontPt)
		page.writeBlock(doc.SplitText(translate(note.Question), usableWidthMM))

		doc.SetFont("Helvetica", "", bodyFontPt)
		answer := note.AnswerPlainText
		if answer == "" {
			answer = markup.StripTags(note.AnswerMarkup)
		}
		page.writeBlock(doc.SplitText(translate(answer), usableWidthMM))

		if note.Image != nil && note.Image.Description != "" {
			doc.SetFont("Helvetica", "I", bodyFontPt)
			page.writeBlock(doc.SplitText(translate("[image: "+note.Image.Description+"]"), usableWidthMM))
		}

		page.y += blockGapMM
	}

	var out bytes.Buffer
	if err := doc.Output(&out); err != nil {
		return Artifact{}, fmt.Errorf("text layout output failed: %w", err)
	}
	return Artifact{
		FileName: e.fileName("pdf"),
		MIME:     "application/pdf",
		Data:     out.Bytes(),
		Strategy: StrategyTextLayout,
	}, nil
}

// pageCursor tracks the vertical position so block overflow is checked
// before anything is written.
type pageCursor struct {
	doc *fpdf.Fpdf
	y   float64
}

func (p *pageCursor) writeBlock(lines []string) {
	needed := float64(len(lines)) * lineHeightMM
	bottom := pageHeightMM - pageMarginMM
	if p.y+needed > bottom && needed <= usableHeightMM {
		p.newPage()
	}
	for _, line := range lines {
		// A block taller than a full page still breaks line by line.
		if p.y+lineHeightMM > bottom {
			p.newPage()
		}
		p.doc.SetXY(pageMarginMM, p.y)
		p.doc.CellFormat(usableWidthMM, lineHeightMM, line, "", 0, "L", false, 0, "")
		p.y += lineHeightMM
	}
}

func (p *pageCursor) newPage() {
	p.doc.AddPage()
	p.y = pageMarginMM
}
