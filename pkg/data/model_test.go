package data

import "testing"

func TestStoryModel(t *testing.T) {
	story := Story{
		ID:            "test-id",
		Title:         "Test Story",
		Description:   "A test story",
		CoverImageURL: "https://example.com/cover.jpg",
		PDFFormat:     "8x8",
		Status:        "exported",
	}

	if story.ID != "test-id" {
		t.Errorf("Expected ID 'test-id', got '%s'", story.ID)
	}

	if story.Title != "Test Story" {
		t.Errorf("Expected Title 'Test Story', got '%s'", story.Title)
	}

	if story.Status != "exported" {
		t.Errorf("Expected Status 'exported', got '%s'", story.Status)
	}
}

func TestPageModel(t *testing.T) {
	page := Page{
		ID:         "p-1",
		StoryID:    "story-1",
		PageNumber: 3,
		Text:       "Once upon a time.",
		ImageURL:   "https://example.com/page3.jpg",
	}

	if page.ID != "p-1" {
		t.Errorf("Expected ID 'p-1', got '%s'", page.ID)
	}

	if page.StoryID != "story-1" {
		t.Errorf("Expected StoryID 'story-1', got '%s'", page.StoryID)
	}

	if page.PageNumber != 3 {
		t.Errorf("Expected PageNumber 3, got %d", page.PageNumber)
	}
}
