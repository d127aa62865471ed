package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ParijatSutradhar04/AI-for-Education/internal/imagecache"
	"github.com/ParijatSutradhar04/AI-for-Education/internal/notes"
)

// Rasterizer renders the whole canvas into one tall image for the
// rich-capture tier.
type Rasterizer interface {
	Rasterize(ctx context.Context, entries []notes.Note, widthPx int) (image.Image, error)
}

const captureWidthPx = 1200

// exportRichCapture rasterizes the canvas and slices the raster into
// page-height bands, one band per page, preserving top-to-bottom order with
// no gaps between slices.
func (e *Exporter) exportRichCapture(ctx context.Context, entries []notes.Note) (Artifact, error) {
	if e.rasterizer == nil {
		return Artifact{}, errors.New("no rasterizer configured")
	}
	img, err := e.rasterizer.Rasterize(ctx, entries, captureWidthPx)
	if err != nil {
		return Artifact{}, err
	}

	doc, err := e.pdfDocument()
	if err != nil {
		return Artifact{}, err
	}
	doc.SetAutoPageBreak(false, 0)

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return Artifact{}, errors.New("rasterizer produced an empty image")
	}

	mmPerPx := usableWidthMM / float64(width)
	bandPx := int(usableHeightMM / mmPerPx)
	if bandPx < 1 {
		bandPx = 1
	}

	for top, band := 0, 0; top < height; top, band = top+bandPx, band+1 {
		bottom := top + bandPx
		if bottom > height {
			bottom = height
		}
		slice := imaging.Crop(img, image.Rect(bounds.Min.X, bounds.Min.Y+top, bounds.Min.X+width, bounds.Min.Y+bottom))

		var buf bytes.Buffer
		if err := imaging.Encode(&buf, slice, imaging.PNG); err != nil {
			return Artifact{}, fmt.Errorf("failed to encode band %d: %w", band, err)
		}

		name := fmt.Sprintf("band-%d", band)
		opts := fpdfImageOptions()
		doc.AddPage()
		doc.RegisterImageOptionsReader(name, opts, &buf)
		doc.ImageOptions(name, pageMarginMM, pageMarginMM, usableWidthMM, float64(bottom-top)*mmPerPx, false, opts, 0, "")
	}

	var out bytes.Buffer
	if err := doc.Output(&out); err != nil {
		return Artifact{}, fmt.Errorf("rich capture output failed: %w", err)
	}
	return Artifact{
		FileName: e.fileName("pdf"),
		MIME:     "application/pdf",
		Data:     out.Bytes(),
		Strategy: StrategyRichCapture,
	}, nil
}

// CanvasRasterizer is the default Rasterizer: it draws note text with a
// bitmap face and embeds note images resolved through the image cache.
type CanvasRasterizer struct {
	Images *imagecache.Cache
}

const (
	rasterMarginPx = 24
	rasterLinePx   = 16
	rasterGapPx    = 20
	glyphAdvancePx = 7
)

type rasterBlock struct {
	lines []string
	image image.Image
}

func (r *CanvasRasterizer) Rasterize(ctx context.Context, entries []notes.Note, widthPx int) (image.Image, error) {
	if widthPx < 2*rasterMarginPx+glyphAdvancePx {
		return nil, fmt.Errorf("capture width %d too small", widthPx)
	}
	innerPx := widthPx - 2*rasterMarginPx
	maxCols := innerPx / glyphAdvancePx

	blocks := make([]rasterBlock, 0, len(entries))
	totalPx := rasterMarginPx
	for i, note := range entries {
		block := rasterBlock{}
		block.lines = append(block.lines, fmt.Sprintf("Note %d - %s", i+1, note.Timestamp))
		block.lines = append(block.lines, splitWrapped("Q: "+note.Question, maxCols)...)
		answer := note.AnswerPlainText
		if answer == "" {
			answer = note.AnswerMarkup
		}
		block.lines = append(block.lines, splitWrapped(answer, maxCols)...)
		if note.Image != nil {
			img, err := r.loadImage(ctx, note.Image.URL, innerPx)
			if err != nil {
				block.lines = append(block.lines, splitWrapped("[image unavailable: "+note.Image.Description+"]", maxCols)...)
			} else {
				block.image = img
			}
		}
		totalPx += len(block.lines) * rasterLinePx
		if block.image != nil {
			totalPx += block.image.Bounds().Dy() + rasterLinePx
		}
		totalPx += rasterGapPx
		blocks = append(blocks, block)
	}
	totalPx += rasterMarginPx - rasterGapPx

	dst := imaging.New(widthPx, totalPx, color.White)
	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
	}

	y := rasterMarginPx
	for _, block := range blocks {
		for _, line := range block.lines {
			drawer.Dot = fixed.P(rasterMarginPx, y+basicfont.Face7x13.Ascent)
			drawer.DrawString(line)
			y += rasterLinePx
		}
		if block.image != nil {
			bounds := block.image.Bounds()
			target := image.Rect(rasterMarginPx, y, rasterMarginPx+bounds.Dx(), y+bounds.Dy())
			draw.Draw(dst, target, block.image, bounds.Min, draw.Over)
			y += bounds.Dy() + rasterLinePx
		}
		y += rasterGapPx
	}
	return dst, nil
}

func (r *CanvasRasterizer) loadImage(ctx context.Context, url string, maxWidthPx int) (image.Image, error) {
	if r.Images == nil {
		return nil, errors.New("no image cache configured")
	}
	path, err := r.Images.Resolve(ctx, url)
	if err != nil {
		return nil, err
	}
	img, err := imaging.Open(path)
	if err != nil {
		return nil, err
	}
	if img.Bounds().Dx() > maxWidthPx {
		img = imaging.Resize(img, maxWidthPx, 0, imaging.Lanczos)
	}
	return img, nil
}

func splitWrapped(text string, maxCols int) []string {
	wrapped := wordwrap.String(text, maxCols)
	var lines []string
	for _, line := range bytes.Split([]byte(wrapped), []byte("\n")) {
		lines = append(lines, string(line))
	}
	return lines
}
