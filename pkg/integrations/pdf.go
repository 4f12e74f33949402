package integrations

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/littleroot/bookpress/pkg/data"
)

// Fallback text layout when an illustration cannot be rendered.
const (
	fallbackFontSize   = 16.0
	fallbackLineHeight = 22.0
	fallbackInset      = 36.0 // half inch either side
	fallbackTop        = 72.0
)

// PDFBuilder streams a story into a print-ready (KDP) PDF. Every page is
// rendered full-bleed at the trim size resolved from the story's format.
type PDFBuilder struct {
	outputDir string
	pdf       *gofpdf.Fpdf
	story     *data.Story
	format    string
	pageW     float64
	pageH     float64
	tr        func(string) string
}

func NewPDFBuilder(outputDir string) *PDFBuilder {
	return &PDFBuilder{outputDir: outputDir}
}

// Init sizes the document to the resolved trim size. Unrecognized formats
// fall back to the 8x8 square.
func (b *PDFBuilder) Init(story *data.Story, formatID string) error {
	w, h := PageSizePoints(formatID)

	// Landscape trim sizes keep the portrait orientation flag with swapped
	// dimensions; renderers handle it transparently and KDP accepts it.
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: w, Ht: h},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont("Helvetica", "", fallbackFontSize)

	b.pdf = pdf
	b.story = story
	b.format = formatID
	b.pageW = w
	b.pageH = h
	b.tr = pdf.UnicodeTranslatorFromDescriptor("")
	return nil
}

// SetCover renders the cover as a full-bleed first page.
func (b *PDFBuilder) SetCover(img ImageData) error {
	b.pdf.AddPageFormat("P", gofpdf.SizeType{Wd: b.pageW, Ht: b.pageH})
	return b.drawFullBleed("cover", img)
}

// AddPage appends one story page. With an image it renders full-bleed;
// without one it falls back to word-wrapped text.
func (b *PDFBuilder) AddPage(page *data.Page, img *ImageData) error {
	b.pdf.AddPageFormat("P", gofpdf.SizeType{Wd: b.pageW, Ht: b.pageH})

	if img != nil {
		return b.drawFullBleed(fmt.Sprintf("page-%d", page.PageNumber), *img)
	}

	b.drawFallbackText(page.Text)
	if b.pdf.Err() {
		return fmt.Errorf("failed to render page %d text: %w", page.PageNumber, b.pdf.Error())
	}
	return nil
}

// drawFullBleed scales the image to completely cover the page, centered,
// cropping edges rather than letterboxing.
func (b *PDFBuilder) drawFullBleed(name string, img ImageData) error {
	opts := gofpdf.ImageOptions{
		ImageType:             "JPG",
		ReadDpi:               false,
		AllowNegativePosition: true,
	}

	info := b.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img.Content))
	if b.pdf.Err() {
		return fmt.Errorf("failed to register image %s: %w", name, b.pdf.Error())
	}

	imgW := info.Width()
	imgH := info.Height()
	if imgW <= 0 || imgH <= 0 {
		return fmt.Errorf("image %s has invalid dimensions", name)
	}

	scaleX := b.pageW / imgW
	scaleY := b.pageH / imgH
	scale := scaleX
	if scaleY > scale {
		scale = scaleY
	}

	scaledW := imgW * scale
	scaledH := imgH * scale

	// Centered offsets may go negative when the overflow axis is cropped.
	x := (b.pageW - scaledW) / 2
	y := (b.pageH - scaledH) / 2

	b.pdf.ImageOptions(name, x, y, scaledW, scaledH, false, opts, 0, "")
	if b.pdf.Err() {
		return fmt.Errorf("failed to place image %s: %w", name, b.pdf.Error())
	}
	return nil
}

func (b *PDFBuilder) drawFallbackText(text string) {
	b.pdf.SetFont("Helvetica", "", fallbackFontSize)
	b.pdf.SetXY(fallbackInset, fallbackTop)
	b.pdf.MultiCell(b.pageW-2*fallbackInset, fallbackLineHeight, b.tr(text), "", "L", false)
}

// Done writes the document to the output directory and returns its path.
// A story with no cover and no pages still produces a single blank page.
func (b *PDFBuilder) Done() (string, error) {
	if b.pdf.PageCount() == 0 {
		b.pdf.AddPageFormat("P", gofpdf.SizeType{Wd: b.pageW, Ht: b.pageH})
	}

	if err := os.MkdirAll(b.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(b.outputDir, ExportFileName(b.story.Title, b.format))
	if err := b.pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("failed to write PDF: %w", err)
	}

	return path, nil
}

// PageCount returns the number of pages rendered so far.
func (b *PDFBuilder) PageCount() int {
	return b.pdf.PageCount()
}

// ExportFileName builds the download name for a print export:
// {sanitized-title}_{format}_KDP_{unix-ms}.pdf. The timestamp keeps
// repeated exports of the same story unique.
func ExportFileName(title, formatID string) string {
	format := strings.ReplaceAll(formatID, ".", "_")
	return fmt.Sprintf("%s_%s_KDP_%d.pdf", sanitizeTitle(title), format, time.Now().UnixMilli())
}

// sanitizeTitle replaces every non-alphanumeric rune with an underscore.
func sanitizeTitle(title string) string {
	var b strings.Builder
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
