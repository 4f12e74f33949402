package integrations

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-shiori/go-epub"
	"github.com/littleroot/bookpress/pkg/data"
)

// EPubBuilder streams a story into an ebook rendition: cover image first,
// then one section per page with its illustration and paragraph text.
type EPubBuilder struct {
	outputDir string
	tempDir   string
	epub      *epub.Epub
	story     *data.Story
}

func NewEPubBuilder(outputDir string) *EPubBuilder {
	return &EPubBuilder{outputDir: outputDir}
}

// Init creates the EPub document and its metadata.
func (b *EPubBuilder) Init(story *data.Story, formatID string) error {
	e, err := epub.NewEpub(story.Title)
	if err != nil {
		return fmt.Errorf("failed to create EPub: %w", err)
	}

	e.SetAuthor("LittleRoot Studios")
	if story.Description != "" {
		e.SetDescription(story.Description)
	}
	e.SetLang("en")

	tempDir, err := os.MkdirTemp("", "bookpress-epub-*")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}

	b.epub = e
	b.story = story
	b.tempDir = tempDir
	return nil
}

// SetCover registers the cover illustration.
func (b *EPubBuilder) SetCover(img ImageData) error {
	coverPath := filepath.Join(b.tempDir, "cover.jpg")
	if err := os.WriteFile(coverPath, img.Content, 0644); err != nil {
		return fmt.Errorf("failed to stage cover image: %w", err)
	}

	internalPath, err := b.epub.AddImage(coverPath, "cover.jpg")
	if err != nil {
		return fmt.Errorf("failed to add cover image: %w", err)
	}

	if err := b.epub.SetCover(internalPath, ""); err != nil {
		return fmt.Errorf("failed to set cover: %w", err)
	}
	return nil
}

// AddPage appends one story page as its own section.
func (b *EPubBuilder) AddPage(page *data.Page, img *ImageData) error {
	sectionTitle := fmt.Sprintf("Page %d", page.PageNumber)

	var htmlContent strings.Builder
	if img != nil {
		imgPath := filepath.Join(b.tempDir, fmt.Sprintf("page-%d.jpg", page.PageNumber))
		if err := os.WriteFile(imgPath, img.Content, 0644); err != nil {
			return fmt.Errorf("failed to stage page %d image: %w", page.PageNumber, err)
		}

		internalPath, err := b.epub.AddImage(imgPath, "")
		if err != nil {
			return fmt.Errorf("failed to add page %d image: %w", page.PageNumber, err)
		}

		htmlContent.WriteString(fmt.Sprintf(
			`<div class="page"><img src="%s" alt="Page %d" style="width:100%%;height:auto;"/></div>%s`,
			internalPath, page.PageNumber, "\n",
		))
	}

	if page.Text != "" {
		htmlContent.WriteString(fmt.Sprintf("<p>%s</p>\n", html.EscapeString(page.Text)))
	}

	if _, err := b.epub.AddSection(htmlContent.String(), sectionTitle, "", ""); err != nil {
		return fmt.Errorf("failed to add section: %w", err)
	}
	return nil
}

// Done writes the ebook file and cleans up staged images.
func (b *EPubBuilder) Done() (string, error) {
	defer os.RemoveAll(b.tempDir)

	if err := os.MkdirAll(b.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	safeTitle := sanitizeFilename(b.story.Title)
	outputPath := filepath.Join(b.outputDir, safeTitle+".epub")

	if err := b.epub.Write(outputPath); err != nil {
		return "", fmt.Errorf("failed to write EPub: %w", err)
	}

	return outputPath, nil
}

// sanitizeFilename removes characters that are invalid in filenames
func sanitizeFilename(name string) string {
	// Replace invalid characters with underscores
	invalid := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|"}
	result := name
	for _, char := range invalid {
		result = strings.ReplaceAll(result, char, "_")
	}
	// Trim spaces and dots from ends
	result = strings.TrimSpace(result)
	result = strings.Trim(result, ".")
	return result
}
