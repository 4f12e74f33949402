package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/littleroot/bookpress/pkg/data"
)

// E2E tests for the full export pipeline

func TestE2E_FullExportPipeline(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	requestCount := 0
	server := newImageServer(t, &requestCount)

	testDir := t.TempDir()
	outputDir := filepath.Join(testDir, "exports")

	// Real library on disk, mock story source
	db, err := data.InitDuckDB(filepath.Join(testDir, "library.db"))
	if err != nil {
		t.Fatalf("Failed to init library: %v", err)
	}
	defer db.Close()
	repo := data.NewRepositoryWithDB(db)

	source := &mockSource{
		getStoryFunc: func(id string) (*data.Story, error) {
			return &data.Story{
				ID:            id,
				Title:         "E2E Test Story",
				Description:   "Testing the full pipeline",
				CoverImageURL: server.URL + "/cover.jpg",
				PDFFormat:     "6x9",
			}, nil
		},
		getPagesFunc: func(story *data.Story) ([]*data.Page, error) {
			return []*data.Page{
				{ID: "p1", PageNumber: 1, Text: "Page one.", ImageURL: server.URL + "/1.jpg"},
				{ID: "p2", PageNumber: 2, Text: "Page two.", ImageURL: server.URL + "/2.jpg"},
				{ID: "p3", PageNumber: 3, Text: "Page three.", ImageURL: server.URL + "/3.jpg"},
			}, nil
		},
	}

	controller := NewStoryControllerWith(source, repo, NewExporter(outputDir))
	// Don't defer Close() here - we'll call it explicitly at the end

	// Fetch story into the library
	t.Run("Fetch into library", func(t *testing.T) {
		story, pages, err := controller.FetchStory("story-e2e")
		if err != nil {
			t.Fatalf("Failed to fetch story: %v", err)
		}
		if story.Status != "fetched" {
			t.Errorf("Expected status 'fetched', got %q", story.Status)
		}
		if len(pages) != 3 {
			t.Errorf("Expected 3 pages, got %d", len(pages))
		}

		saved, err := repo.GetStory("story-e2e")
		if err != nil {
			t.Fatalf("Failed to read story back: %v", err)
		}
		if saved == nil || saved.Title != "E2E Test Story" {
			t.Errorf("Story not persisted correctly: %+v", saved)
		}
	})

	// Monitor progress
	progressUpdates := []ExportProgress{}
	done := make(chan struct{})
	go func() {
		for progress := range controller.Exporter().GetProgressChannel() {
			progressUpdates = append(progressUpdates, progress)
		}
		close(done)
	}()

	var exportedPath string

	t.Run("Export PDF", func(t *testing.T) {
		result, validation, err := controller.ExportStoryPDF("story-e2e", ExportOptions{IncludeImages: true})
		if err != nil {
			t.Fatalf("Failed to export story: %v", err)
		}
		if !validation.Valid {
			t.Fatalf("Story should validate: %v", validation.Errors)
		}
		if len(validation.Warnings) != 1 {
			t.Errorf("Three pages should warn about length, got %v", validation.Warnings)
		}

		// Cover plus three story pages
		if result.PageCount != 4 {
			t.Errorf("Expected 4 PDF pages, got %d", result.PageCount)
		}
		if result.Format != "6x9" {
			t.Errorf("Expected format 6x9, got %q", result.Format)
		}

		exportedPath = result.Path
	})

	t.Run("Verify PDF file", func(t *testing.T) {
		info, err := os.Stat(exportedPath)
		if err != nil {
			t.Fatalf("Failed to stat PDF file: %v", err)
		}
		if info.Size() == 0 {
			t.Error("PDF file is empty")
		}
		if !strings.Contains(filepath.Base(exportedPath), "_6x9_KDP_") {
			t.Errorf("Unexpected export name %q", filepath.Base(exportedPath))
		}
	})

	t.Run("Verify HTTP requests", func(t *testing.T) {
		// 1 cover + 3 page illustrations
		if requestCount != 4 {
			t.Errorf("Expected 4 HTTP requests, got %d", requestCount)
		}
	})

	t.Run("Verify story marked exported", func(t *testing.T) {
		story, err := repo.GetStory("story-e2e")
		if err != nil {
			t.Fatalf("Failed to get story: %v", err)
		}
		if story.Status != "exported" {
			t.Errorf("Expected status 'exported', got %q", story.Status)
		}
	})

	// Close controller and wait for progress goroutine to complete
	controller.Close()
	<-done

	// Wait a bit in case the consumer goroutine lags
	time.Sleep(50 * time.Millisecond)

	if len(progressUpdates) == 0 {
		t.Error("Expected progress updates, got none")
	}
	completeCount := 0
	for _, p := range progressUpdates {
		if p.Status == "complete" {
			completeCount++
		}
	}
	if completeCount != 1 {
		t.Errorf("Expected 1 complete progress update, got %d", completeCount)
	}
}

func TestE2E_ExportWithFailedIllustrations(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	server := newImageServer(t, nil)

	testDir := t.TempDir()
	db, err := data.InitDuckDB(filepath.Join(testDir, "library.db"))
	if err != nil {
		t.Fatalf("Failed to init library: %v", err)
	}
	defer db.Close()
	repo := data.NewRepositoryWithDB(db)

	source := &mockSource{
		getStoryFunc: func(id string) (*data.Story, error) {
			return &data.Story{ID: id, Title: "Degraded Story", PDFFormat: "8x8"}, nil
		},
		getPagesFunc: func(story *data.Story) ([]*data.Page, error) {
			return []*data.Page{
				{ID: "p1", PageNumber: 1, Text: "Has art.", ImageURL: server.URL + "/1.jpg"},
				{ID: "p2", PageNumber: 2, Text: "Art is gone.", ImageURL: server.URL + "/missing.jpg"},
			}, nil
		},
	}

	controller := NewStoryControllerWith(source, repo, NewExporter(filepath.Join(testDir, "exports")))
	defer controller.Close()

	if _, _, err := controller.FetchStory("story-degraded"); err != nil {
		t.Fatalf("Failed to fetch story: %v", err)
	}

	result, _, err := controller.ExportStoryPDF("story-degraded", ExportOptions{IncludeImages: true})
	if err != nil {
		t.Fatalf("Export should survive failed illustrations: %v", err)
	}

	// Both pages present, one rendered as text
	if result.PageCount != 2 {
		t.Errorf("Expected 2 pages, got %d", result.PageCount)
	}
}

func TestE2E_RepeatedExportsAreIndependent(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	testDir := t.TempDir()
	db, err := data.InitDuckDB(filepath.Join(testDir, "library.db"))
	if err != nil {
		t.Fatalf("Failed to init library: %v", err)
	}
	defer db.Close()
	repo := data.NewRepositoryWithDB(db)

	story := &data.Story{ID: "story-repeat", Title: "Again and Again", PDFFormat: "7x7"}
	pages := []*data.Page{{ID: "p1", StoryID: story.ID, PageNumber: 1, Text: "Once more."}}

	controller := NewStoryControllerWith(nil, repo, NewExporter(filepath.Join(testDir, "exports")))
	defer controller.Close()

	if err := controller.AddStoryToLibrary(story, pages); err != nil {
		t.Fatalf("Failed to add story: %v", err)
	}

	first, _, err := controller.ExportStoryPDF(story.ID, ExportOptions{})
	if err != nil {
		t.Fatalf("First export failed: %v", err)
	}

	// Millisecond filename suffix needs a tick between runs
	time.Sleep(2 * time.Millisecond)

	second, _, err := controller.ExportStoryPDF(story.ID, ExportOptions{})
	if err != nil {
		t.Fatalf("Second export failed: %v", err)
	}

	if first.Path == second.Path {
		t.Errorf("Repeated exports should produce distinct files: %q", first.Path)
	}
	if _, err := os.Stat(first.Path); err != nil {
		t.Errorf("First export should still exist: %v", err)
	}
	if _, err := os.Stat(second.Path); err != nil {
		t.Errorf("Second export should still exist: %v", err)
	}
}
