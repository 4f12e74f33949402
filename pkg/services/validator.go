package services

import (
	"fmt"
	"strings"

	"github.com/littleroot/bookpress/pkg/data"
)

// MinRecommendedPages is the KDP print recommendation. Falling short of it
// warns but never blocks an export.
const MinRecommendedPages = 24

// ValidationResult collects every violation found during pre-flight checks.
// Valid reflects only the hard errors; warnings are advisory.
type ValidationResult struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// Messages returns all violations in check order, errors first.
func (r ValidationResult) Messages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	messages = append(messages, r.Errors...)
	messages = append(messages, r.Warnings...)
	return messages
}

// ValidateStory runs every pre-flight check and collects all violations
// rather than stopping at the first. It performs no I/O.
func ValidateStory(story *data.Story, pages []*data.Page) ValidationResult {
	var result ValidationResult

	if strings.TrimSpace(story.Title) == "" {
		result.Errors = append(result.Errors, "story title must not be empty")
	}

	if len(pages) == 0 {
		result.Errors = append(result.Errors, "story must have at least one page")
	}

	for _, page := range pages {
		if strings.TrimSpace(page.Text) == "" {
			result.Errors = append(result.Errors,
				fmt.Sprintf("page %d has no text", page.PageNumber))
		}
	}

	if len(pages) > 0 && len(pages) < MinRecommendedPages {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("story has %d pages; print-on-demand recommends at least %d",
				len(pages), MinRecommendedPages))
	}

	result.Valid = len(result.Errors) == 0
	return result
}
