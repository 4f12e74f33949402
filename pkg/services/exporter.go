package services

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/littleroot/bookpress/pkg/data"
	"github.com/littleroot/bookpress/pkg/integrations"
)

// ExportProgress represents the progress of an export operation
type ExportProgress struct {
	StoryID     string
	CurrentPage int
	TotalPages  int
	Status      string // "exporting", "processing", "complete", "error"
	Error       error
}

// ExportOptions configures a single export call.
type ExportOptions struct {
	Format        string // trim size identifier; empty uses the story's own
	IncludeImages bool
	Margins       Margins // accepted but not applied: pages render full-bleed
	OutputDir     string
}

// Margins is a four-sided measurement in points.
type Margins struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// ExportResult describes a finished export.
type ExportResult struct {
	Path      string
	FileSize  int64
	PageCount int
	Format    string
}

// Exporter drives the book export pipeline: it resolves the trim size,
// fetches illustrations one at a time in story order and streams them into
// a BookBuilder. Image failures degrade to text; they never abort the run.
type Exporter struct {
	client       *http.Client
	outputDir    string
	rateLimiter  *time.Ticker
	progressChan chan ExportProgress
	closeOnce    sync.Once
}

// NewExporter creates a new Exporter writing into outputDir.
func NewExporter(outputDir string) *Exporter {
	return &Exporter{
		// Illustrations are public assets; the default client sends no
		// cookies or credentials.
		client:       http.DefaultClient,
		outputDir:    outputDir,
		rateLimiter:  time.NewTicker(100 * time.Millisecond),
		progressChan: make(chan ExportProgress, 100),
	}
}

// GetProgressChannel returns the channel for receiving export progress updates
func (e *Exporter) GetProgressChannel() <-chan ExportProgress {
	return e.progressChan
}

// ExportPDF produces the print-ready PDF rendition of a story.
func (e *Exporter) ExportPDF(story *data.Story, pages []*data.Page, opts ExportOptions) (*ExportResult, error) {
	outputDir := e.outputDir
	if opts.OutputDir != "" {
		outputDir = opts.OutputDir
	}
	return e.export(integrations.NewPDFBuilder(outputDir), story, pages, opts)
}

// ExportEPUB produces the ebook rendition of a story.
func (e *Exporter) ExportEPUB(story *data.Story, pages []*data.Page, opts ExportOptions) (*ExportResult, error) {
	outputDir := e.outputDir
	if opts.OutputDir != "" {
		outputDir = opts.OutputDir
	}
	return e.export(integrations.NewEPubBuilder(outputDir), story, pages, opts)
}

// export runs the shared pipeline. Pages are constructed strictly in story
// order: each image fetch finishes (or fails) before the next page starts,
// because page order in the document is construction order.
func (e *Exporter) export(builder integrations.BookBuilder, story *data.Story, pages []*data.Page, opts ExportOptions) (*ExportResult, error) {
	if story == nil {
		return nil, fmt.Errorf("story cannot be nil")
	}

	format := opts.Format
	if format == "" {
		format = story.PDFFormat
	}
	if format == "" {
		format = integrations.DefaultFormat
	}
	if _, ok := integrations.GetFormatProfile(format); !ok {
		// Physical sizing falls back to the 8x8 square inside the builder;
		// the identifier itself still flows into the filename.
		log.Printf("Unrecognized format %q, sizing pages as %s", format, integrations.DefaultFormat)
	}

	profile := integrations.DescribeFormat(format)
	processor := integrations.NewImageProcessor(profile.GetPrintSettings())

	log.Printf("Exporting %q (%s, %d pages)", story.Title, format, len(pages))

	if err := builder.Init(story, format); err != nil {
		return nil, fmt.Errorf("failed to initialize builder: %w", err)
	}

	e.sendProgress(ExportProgress{
		StoryID:    story.ID,
		TotalPages: len(pages),
		Status:     "exporting",
	})

	// Cover failures are recoverable: the book simply starts at page 1.
	if story.CoverImageURL != "" {
		img, err := e.fetchImage(story.CoverImageURL, processor)
		if err != nil {
			log.Printf("Warning: skipping cover: %v", err)
		} else if err := builder.SetCover(img); err != nil {
			return nil, fmt.Errorf("failed to add cover: %w", err)
		} else {
			log.Printf("Cover added")
		}
	}

	for i, page := range pages {
		e.sendProgress(ExportProgress{
			StoryID:     story.ID,
			CurrentPage: i + 1,
			TotalPages:  len(pages),
			Status:      "exporting",
		})

		var img *integrations.ImageData
		if opts.IncludeImages && page.ImageURL != "" {
			fetched, err := e.fetchImage(page.ImageURL, processor)
			if err != nil {
				log.Printf("Warning: page %d image failed, falling back to text: %v", page.PageNumber, err)
			} else {
				img = &fetched
			}
		}

		if err := builder.AddPage(page, img); err != nil {
			e.sendProgress(ExportProgress{
				StoryID: story.ID,
				Status:  "error",
				Error:   err,
			})
			return nil, fmt.Errorf("failed to add page %d: %w", page.PageNumber, err)
		}
	}

	e.sendProgress(ExportProgress{
		StoryID:     story.ID,
		CurrentPage: len(pages),
		TotalPages:  len(pages),
		Status:      "processing",
	})

	path, err := builder.Done()
	if err != nil {
		e.sendProgress(ExportProgress{
			StoryID: story.ID,
			Status:  "error",
			Error:   err,
		})
		return nil, fmt.Errorf("failed to finalize export: %w", err)
	}

	result := &ExportResult{
		Path:   path,
		Format: format,
	}
	if pdfBuilder, ok := builder.(*integrations.PDFBuilder); ok {
		result.PageCount = pdfBuilder.PageCount()
	} else {
		result.PageCount = len(pages)
	}
	if info, err := os.Stat(path); err == nil {
		result.FileSize = info.Size()
	}

	e.sendProgress(ExportProgress{
		StoryID:     story.ID,
		CurrentPage: len(pages),
		TotalPages:  len(pages),
		Status:      "complete",
	})

	log.Printf("Export written: %s (%d pages)", path, result.PageCount)
	return result, nil
}

// fetchImage downloads one illustration and prepares it for embedding.
func (e *Exporter) fetchImage(url string, processor *integrations.ImageProcessor) (integrations.ImageData, error) {
	<-e.rateLimiter.C // Rate limiting between fetches

	resp, err := e.client.Get(url)
	if err != nil {
		return integrations.ImageData{}, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return integrations.ImageData{}, fmt.Errorf("bad status: %s", resp.Status)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return integrations.ImageData{}, fmt.Errorf("failed to read image content: %w", err)
	}

	return processor.Prepare(content)
}

// sendProgress sends a progress update (non-blocking)
func (e *Exporter) sendProgress(progress ExportProgress) {
	select {
	case e.progressChan <- progress:
	default:
		// Channel full, skip this update
	}
}

// Close stops the rate limiter and closes the progress channel so ranging
// consumers terminate. Pending buffered updates stay receivable. Safe to
// call more than once.
func (e *Exporter) Close() {
	e.rateLimiter.Stop()
	e.closeOnce.Do(func() {
		close(e.progressChan)
	})
}
