package services

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/littleroot/bookpress/pkg/data"
	"github.com/littleroot/bookpress/pkg/sources"
)

// Repository is the slice of the library the services need.
type Repository interface {
	SaveStory(story *data.Story) error
	GetStory(id string) (*data.Story, error)
	ListStories() ([]*data.Story, error)
	SavePage(page *data.Page) error
	GetPages(storyID string) ([]*data.Page, error)
	UpdateStoryStatus(storyID string, status string) error
	DeleteStory(storyID string) error
}

type ControllerConfig struct {
	OutputDir string
}

// StoryController wires the story source, the local library and the
// exporter together for the CLI and TUI layers.
type StoryController struct {
	source   sources.Source
	repo     Repository
	exporter *Exporter
}

func NewStoryController() *StoryController {
	homeDir, _ := os.UserHomeDir()
	return NewStoryControllerWithConfig(ControllerConfig{
		OutputDir: filepath.Join(homeDir, "Downloads"),
	})
}

func NewStoryControllerWithConfig(config ControllerConfig) *StoryController {
	return &StoryController{
		source:   sources.NewLittleRoot(),
		repo:     data.NewDuckDBRepository(),
		exporter: NewExporter(config.OutputDir),
	}
}

// NewStoryControllerWith assembles a controller from explicit parts.
func NewStoryControllerWith(source sources.Source, repo Repository, exporter *Exporter) *StoryController {
	return &StoryController{source: source, repo: repo, exporter: exporter}
}

// Exporter exposes the underlying exporter for progress consumers.
func (c *StoryController) Exporter() *Exporter {
	return c.exporter
}

// FetchStory pulls a story and its pages from the platform into the library.
func (c *StoryController) FetchStory(id string) (*data.Story, []*data.Page, error) {
	story, err := c.source.GetStory(id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get story: %w", err)
	}

	pages, err := c.source.GetPages(story)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get pages: %w", err)
	}

	return story, pages, c.AddStoryToLibrary(story, pages)
}

// AddStoryToLibrary saves a story and its pages locally.
func (c *StoryController) AddStoryToLibrary(story *data.Story, pages []*data.Page) error {
	if story == nil {
		return fmt.Errorf("story cannot be nil")
	}

	story.Status = "fetched"
	if err := c.repo.SaveStory(story); err != nil {
		return fmt.Errorf("failed to save story: %w", err)
	}

	for _, page := range pages {
		if page.StoryID == "" {
			page.StoryID = story.ID
		}
		if err := c.repo.SavePage(page); err != nil {
			return fmt.Errorf("failed to save page %d: %w", page.PageNumber, err)
		}
	}
	return nil
}

// FindStoryByTitle matches a library story by title, case-insensitively.
func (c *StoryController) FindStoryByTitle(title string) (*data.Story, error) {
	stories, err := c.repo.ListStories()
	if err != nil {
		return nil, err
	}

	for _, story := range stories {
		if strings.EqualFold(story.Title, title) {
			return story, nil
		}
	}
	return nil, fmt.Errorf("story %q not found in library", title)
}

// ResolveStory accepts either a library title or a story ID.
func (c *StoryController) ResolveStory(identifier string) (*data.Story, error) {
	if story, err := c.FindStoryByTitle(identifier); err == nil {
		return story, nil
	}

	story, err := c.repo.GetStory(identifier)
	if err != nil {
		return nil, err
	}
	if story == nil {
		return nil, fmt.Errorf("story %q not found in library", identifier)
	}
	return story, nil
}

// ExportStoryPDF runs pre-flight validation and the PDF pipeline for a
// library story. Validation warnings do not block the export.
func (c *StoryController) ExportStoryPDF(storyID string, opts ExportOptions) (*ExportResult, ValidationResult, error) {
	story, pages, err := c.loadStory(storyID)
	if err != nil {
		return nil, ValidationResult{}, err
	}

	validation := ValidateStory(story, pages)
	if !validation.Valid {
		return nil, validation, fmt.Errorf("story is not ready for export")
	}

	c.setStatus(storyID, "exporting")
	result, err := c.exporter.ExportPDF(story, pages, opts)
	if err != nil {
		c.setStatus(storyID, "error")
		return nil, validation, err
	}

	c.setStatus(storyID, "exported")
	return result, validation, nil
}

// ExportStoryEPUB runs the ebook pipeline for a library story.
func (c *StoryController) ExportStoryEPUB(storyID string, opts ExportOptions) (*ExportResult, ValidationResult, error) {
	story, pages, err := c.loadStory(storyID)
	if err != nil {
		return nil, ValidationResult{}, err
	}

	validation := ValidateStory(story, pages)
	if !validation.Valid {
		return nil, validation, fmt.Errorf("story is not ready for export")
	}

	c.setStatus(storyID, "exporting")
	result, err := c.exporter.ExportEPUB(story, pages, opts)
	if err != nil {
		c.setStatus(storyID, "error")
		return nil, validation, err
	}

	c.setStatus(storyID, "exported")
	return result, validation, nil
}

// setStatus records an export status transition. A failed write is logged
// but never fails the export itself: the file on disk is the outcome that
// matters, the library status is bookkeeping.
func (c *StoryController) setStatus(storyID, status string) {
	if err := c.repo.UpdateStoryStatus(storyID, status); err != nil {
		log.Printf("Warning: failed to mark story %s as %s: %v", storyID, status, err)
	}
}

// ValidateStory runs the pre-flight checks for a library story.
func (c *StoryController) ValidateStory(storyID string) (ValidationResult, error) {
	story, pages, err := c.loadStory(storyID)
	if err != nil {
		return ValidationResult{}, err
	}
	return ValidateStory(story, pages), nil
}

func (c *StoryController) loadStory(storyID string) (*data.Story, []*data.Page, error) {
	story, err := c.repo.GetStory(storyID)
	if err != nil {
		return nil, nil, err
	}
	if story == nil {
		return nil, nil, fmt.Errorf("story %s not found in library", storyID)
	}

	pages, err := c.repo.GetPages(storyID)
	if err != nil {
		return nil, nil, err
	}
	return story, pages, nil
}

// Close cleans up resources
func (c *StoryController) Close() {
	c.exporter.Close()
}
