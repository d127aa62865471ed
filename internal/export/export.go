package export

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/ParijatSutradhar04/AI-for-Education/internal/notes"
)

// ErrNoNotes reports an export attempt on an empty canvas, the only case
// where the pipeline produces no artifact at all.
var ErrNoNotes = errors.New("no notes to export")

// Strategy names which tier produced an artifact.
type Strategy string

const (
	StrategyRichCapture Strategy = "rich-capture"
	StrategyTextLayout  Strategy = "text-layout"
	StrategyHTML        Strategy = "html-fallback"
)

// Artifact is one produced export document, ready to be saved.
type Artifact struct {
	FileName string
	MIME     string
	Data     []byte
	Strategy Strategy
}

// Printable page geometry, millimetres on A4.
const (
	pageWidthMM    = 210.0
	pageHeightMM   = 297.0
	pageMarginMM   = 15.0
	usableWidthMM  = pageWidthMM - 2*pageMarginMM
	usableHeightMM = pageHeightMM - 2*pageMarginMM
)

const fileNamePrefix = "canvas-notes"

// Exporter converts the canvas into a downloadable document, degrading
// through three strategies: rich capture, procedural text layout, and a
// styled HTML fallback.
type Exporter struct {
	rasterizer Rasterizer
	newPDF     func() *fpdf.Fpdf
	now        func() time.Time
}

// New returns an exporter using the given rasterizer for the rich-capture
// tier. A nil rasterizer disables that tier.
func New(rasterizer Rasterizer) *Exporter {
	return &Exporter{
		rasterizer: rasterizer,
		newPDF: func() *fpdf.Fpdf {
			return fpdf.New("P", "mm", "A4", "")
		},
		now: time.Now,
	}
}

// Export produces one artifact from the canvas notes. Each strategy failure
// falls through to the next; only an empty canvas returns an error.
func (e *Exporter) Export(ctx context.Context, entries []notes.Note) (Artifact, error) {
	if len(entries) == 0 {
		return Artifact{}, ErrNoNotes
	}

	if artifact, err := e.exportRichCapture(ctx, entries); err == nil {
		return artifact, nil
	} else {
		log.Printf("[export] rich capture unavailable: %v", err)
	}

	if artifact, err := e.exportTextLayout(entries); err == nil {
		return artifact, nil
	} else {
		log.Printf("[export] text layout unavailable: %v", err)
	}

	return e.exportHTML(entries)
}

// Save writes the artifact into dir and returns the full path.
func (e *Exporter) Save(dir string, artifact Artifact) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, artifact.FileName)
	if err := os.WriteFile(path, artifact.Data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (e *Exporter) fileName(ext string) string {
	return fmt.Sprintf("%s-%s.%s", fileNamePrefix, e.now().Format("2006-01-02"), ext)
}

func fpdfImageOptions() fpdf.ImageOptions {
	return fpdf.ImageOptions{ImageType: "PNG"}
}

func (e *Exporter) pdfDocument() (*fpdf.Fpdf, error) {
	if e.newPDF == nil {
		return nil, errors.New("pdf generator unavailable")
	}
	doc := e.newPDF()
	if doc == nil {
		return nil, errors.New("pdf generator unavailable")
	}
	return doc, nil
}
