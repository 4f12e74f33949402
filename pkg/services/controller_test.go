package services

import (
	"fmt"
	"testing"

	"github.com/littleroot/bookpress/pkg/data"
)

func TestNewStoryControllerWithConfig(t *testing.T) {
	tempDir := t.TempDir()

	controller := NewStoryControllerWithConfig(ControllerConfig{
		OutputDir: tempDir,
	})
	defer controller.Close()

	if controller == nil {
		t.Fatal("NewStoryControllerWithConfig() returned nil")
	}
	if controller.source == nil {
		t.Error("Controller source not initialized")
	}
	if controller.repo == nil {
		t.Error("Controller repo not initialized")
	}
	if controller.exporter == nil {
		t.Error("Controller exporter not initialized")
	}
}

func TestControllerFetchStory(t *testing.T) {
	savedStory := false
	savedPages := 0

	source := &mockSource{
		getStoryFunc: func(id string) (*data.Story, error) {
			if id == "" {
				return nil, fmt.Errorf("empty id")
			}
			return &data.Story{ID: id, Title: "Fetched Story"}, nil
		},
		getPagesFunc: func(story *data.Story) ([]*data.Page, error) {
			return []*data.Page{
				{ID: "p1", PageNumber: 1, Text: "One."},
				{ID: "p2", PageNumber: 2, Text: "Two."},
			}, nil
		},
	}
	repo := &mockRepository{
		saveStoryFunc: func(story *data.Story) error {
			savedStory = true
			return nil
		},
		savePageFunc: func(page *data.Page) error {
			savedPages++
			return nil
		},
	}

	controller := NewStoryControllerWith(source, repo, NewExporter(t.TempDir()))
	defer controller.Close()

	t.Run("successful fetch", func(t *testing.T) {
		story, pages, err := controller.FetchStory("remote-1")
		if err != nil {
			t.Fatalf("FetchStory() error = %v", err)
		}
		if story.Status != "fetched" {
			t.Errorf("Status = %q, want fetched", story.Status)
		}
		if len(pages) != 2 {
			t.Errorf("Expected 2 pages, got %d", len(pages))
		}
		if !savedStory {
			t.Error("Story should have been saved")
		}
		if savedPages != 2 {
			t.Errorf("Expected 2 pages saved, got %d", savedPages)
		}
	})

	t.Run("source error", func(t *testing.T) {
		_, _, err := controller.FetchStory("")
		if err == nil {
			t.Error("FetchStory() should fail when source fails")
		}
	})
}

func TestControllerAddStoryToLibrary(t *testing.T) {
	controller := NewStoryControllerWith(nil, &mockRepository{}, NewExporter(t.TempDir()))
	defer controller.Close()

	t.Run("nil story", func(t *testing.T) {
		if err := controller.AddStoryToLibrary(nil, nil); err == nil {
			t.Error("AddStoryToLibrary() should fail with nil story")
		}
	})

	t.Run("backfills page story IDs", func(t *testing.T) {
		var saved []*data.Page
		repo := &mockRepository{
			savePageFunc: func(page *data.Page) error {
				saved = append(saved, page)
				return nil
			},
		}
		controller := NewStoryControllerWith(nil, repo, NewExporter(t.TempDir()))
		defer controller.Close()

		story := &data.Story{ID: "s1", Title: "Backfill"}
		pages := []*data.Page{{ID: "p1", PageNumber: 1, Text: "x"}}

		if err := controller.AddStoryToLibrary(story, pages); err != nil {
			t.Fatalf("AddStoryToLibrary() error = %v", err)
		}
		if len(saved) != 1 || saved[0].StoryID != "s1" {
			t.Errorf("Page StoryID should be backfilled, got %+v", saved)
		}
	})
}

func TestControllerFindStoryByTitle(t *testing.T) {
	repo := &mockRepository{
		listStoriesFunc: func() ([]*data.Story, error) {
			return []*data.Story{
				{ID: "s1", Title: "The Brave Fox"},
				{ID: "s2", Title: "Luna and the Moon"},
			}, nil
		},
	}
	controller := NewStoryControllerWith(nil, repo, NewExporter(t.TempDir()))
	defer controller.Close()

	t.Run("found by exact title", func(t *testing.T) {
		story, err := controller.FindStoryByTitle("The Brave Fox")
		if err != nil {
			t.Fatalf("FindStoryByTitle() error = %v", err)
		}
		if story.ID != "s1" {
			t.Errorf("Expected ID 's1', got %s", story.ID)
		}
	})

	t.Run("found case-insensitively", func(t *testing.T) {
		story, err := controller.FindStoryByTitle("luna and the moon")
		if err != nil {
			t.Fatalf("FindStoryByTitle() error = %v", err)
		}
		if story.ID != "s2" {
			t.Errorf("Expected ID 's2', got %s", story.ID)
		}
	})

	t.Run("not found", func(t *testing.T) {
		if _, err := controller.FindStoryByTitle("Nonexistent"); err == nil {
			t.Error("FindStoryByTitle() should fail when story not found")
		}
	})
}

func TestControllerResolveStory(t *testing.T) {
	repo := &mockRepository{
		listStoriesFunc: func() ([]*data.Story, error) {
			return []*data.Story{{ID: "s1", Title: "By Title"}}, nil
		},
		getStoryFunc: func(id string) (*data.Story, error) {
			if id == "s2" {
				return &data.Story{ID: "s2", Title: "By ID"}, nil
			}
			return nil, nil
		},
	}
	controller := NewStoryControllerWith(nil, repo, NewExporter(t.TempDir()))
	defer controller.Close()

	t.Run("resolves by title", func(t *testing.T) {
		story, err := controller.ResolveStory("By Title")
		if err != nil {
			t.Fatalf("ResolveStory() error = %v", err)
		}
		if story.ID != "s1" {
			t.Errorf("Expected ID 's1', got %s", story.ID)
		}
	})

	t.Run("falls back to ID lookup", func(t *testing.T) {
		story, err := controller.ResolveStory("s2")
		if err != nil {
			t.Fatalf("ResolveStory() error = %v", err)
		}
		if story.Title != "By ID" {
			t.Errorf("Expected title 'By ID', got %s", story.Title)
		}
	})

	t.Run("unknown identifier", func(t *testing.T) {
		if _, err := controller.ResolveStory("who-knows"); err == nil {
			t.Error("ResolveStory() should fail for unknown identifiers")
		}
	})
}

func TestControllerExportStoryPDF(t *testing.T) {
	t.Run("successful export updates status", func(t *testing.T) {
		var statuses []string
		repo := &mockRepository{
			getStoryFunc: func(id string) (*data.Story, error) {
				return &data.Story{ID: id, Title: "Exportable", PDFFormat: "8x8"}, nil
			},
			getPagesFunc: func(storyID string) ([]*data.Page, error) {
				return []*data.Page{
					{ID: "p1", PageNumber: 1, Text: "One."},
					{ID: "p2", PageNumber: 2, Text: "Two."},
				}, nil
			},
			updateStoryStatusFunc: func(storyID string, status string) error {
				statuses = append(statuses, status)
				return nil
			},
		}

		controller := NewStoryControllerWith(nil, repo, NewExporter(t.TempDir()))
		defer controller.Close()

		result, validation, err := controller.ExportStoryPDF("s1", ExportOptions{})
		if err != nil {
			t.Fatalf("ExportStoryPDF() error = %v", err)
		}
		if !validation.Valid {
			t.Errorf("Expected valid story, got errors: %v", validation.Errors)
		}
		if len(validation.Warnings) != 1 {
			t.Errorf("Two pages should warn about length, got %v", validation.Warnings)
		}
		if result.PageCount != 2 {
			t.Errorf("PageCount = %d, want 2", result.PageCount)
		}

		if len(statuses) != 2 || statuses[0] != "exporting" || statuses[1] != "exported" {
			t.Errorf("Status sequence = %v, want [exporting exported]", statuses)
		}
	})

	t.Run("status write failure does not fail the export", func(t *testing.T) {
		repo := &mockRepository{
			getStoryFunc: func(id string) (*data.Story, error) {
				return &data.Story{ID: id, Title: "Exportable", PDFFormat: "8x8"}, nil
			},
			getPagesFunc: func(storyID string) ([]*data.Page, error) {
				return []*data.Page{{ID: "p1", PageNumber: 1, Text: "One."}}, nil
			},
			updateStoryStatusFunc: func(storyID string, status string) error {
				return fmt.Errorf("database is locked")
			},
		}

		controller := NewStoryControllerWith(nil, repo, NewExporter(t.TempDir()))
		defer controller.Close()

		result, _, err := controller.ExportStoryPDF("s1", ExportOptions{})
		if err != nil {
			t.Fatalf("ExportStoryPDF() error = %v, want success despite status write failure", err)
		}
		if result.PageCount != 1 {
			t.Errorf("PageCount = %d, want 1", result.PageCount)
		}
	})

	t.Run("invalid story blocks export", func(t *testing.T) {
		var statuses []string
		repo := &mockRepository{
			getStoryFunc: func(id string) (*data.Story, error) {
				return &data.Story{ID: id, Title: ""}, nil
			},
			getPagesFunc: func(storyID string) ([]*data.Page, error) {
				return nil, nil
			},
			updateStoryStatusFunc: func(storyID string, status string) error {
				statuses = append(statuses, status)
				return nil
			},
		}

		controller := NewStoryControllerWith(nil, repo, NewExporter(t.TempDir()))
		defer controller.Close()

		_, validation, err := controller.ExportStoryPDF("s1", ExportOptions{})
		if err == nil {
			t.Error("ExportStoryPDF() should fail for an invalid story")
		}
		if validation.Valid {
			t.Error("Validation should report the story as invalid")
		}
		if len(validation.Errors) != 2 {
			t.Errorf("Expected 2 errors (title, pages), got %v", validation.Errors)
		}
		if len(statuses) != 0 {
			t.Errorf("No status transitions expected for blocked export, got %v", statuses)
		}
	})

	t.Run("missing story", func(t *testing.T) {
		repo := &mockRepository{
			getStoryFunc: func(id string) (*data.Story, error) {
				return nil, nil
			},
		}
		controller := NewStoryControllerWith(nil, repo, NewExporter(t.TempDir()))
		defer controller.Close()

		if _, _, err := controller.ExportStoryPDF("ghost", ExportOptions{}); err == nil {
			t.Error("ExportStoryPDF() should fail for a missing story")
		}
	})
}

func TestControllerValidateStory(t *testing.T) {
	repo := &mockRepository{
		getStoryFunc: func(id string) (*data.Story, error) {
			return &data.Story{ID: id, Title: "Checked"}, nil
		},
		getPagesFunc: func(storyID string) ([]*data.Page, error) {
			return []*data.Page{{ID: "p1", PageNumber: 1, Text: "Text."}}, nil
		},
	}
	controller := NewStoryControllerWith(nil, repo, NewExporter(t.TempDir()))
	defer controller.Close()

	result, err := controller.ValidateStory("s1")
	if err != nil {
		t.Fatalf("ValidateStory() error = %v", err)
	}
	if !result.Valid {
		t.Errorf("Expected valid story, got errors: %v", result.Errors)
	}
	if len(result.Warnings) != 1 {
		t.Errorf("One page should warn about length, got %v", result.Warnings)
	}
}

func TestControllerClose(t *testing.T) {
	controller := NewStoryControllerWith(nil, &mockRepository{}, NewExporter(t.TempDir()))

	controller.Close()

	// Verify progress channel is closed
	_, ok := <-controller.Exporter().GetProgressChannel()
	if ok {
		t.Error("Progress channel should be closed after Close()")
	}
}
