package components

import (
	"fmt"
	"strings"

	"github.com/littleroot/bookpress/pkg/app/styles"
	"github.com/littleroot/bookpress/pkg/services"
)

type ProgressTracker struct {
	exports map[string]*services.ExportProgress
	width   int
}

func NewProgressTracker(width int) *ProgressTracker {
	return &ProgressTracker{
		exports: make(map[string]*services.ExportProgress),
		width:   width,
	}
}

func (p *ProgressTracker) Update(progress services.ExportProgress) {
	if progress.Status == "complete" && progress.StoryID != "" {
		// Remove finished exports
		delete(p.exports, progress.StoryID)
	} else {
		prog := progress // Copy
		p.exports[progress.StoryID] = &prog
	}
}

func (p *ProgressTracker) Clear() {
	p.exports = make(map[string]*services.ExportProgress)
}

func (p *ProgressTracker) HasActive() bool {
	return len(p.exports) > 0
}

func (p *ProgressTracker) View() string {
	if len(p.exports) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Active Exports"))
	b.WriteString("\n\n")

	for _, progress := range p.exports {
		statusText := progress.Status
		if progress.TotalPages > 0 {
			percentage := float64(progress.CurrentPage) / float64(progress.TotalPages) * 100
			statusText = fmt.Sprintf("%s (%d/%d pages - %.0f%%)",
				progress.Status, progress.CurrentPage, progress.TotalPages, percentage)

			// Progress bar
			bar := renderProgressBar(progress.CurrentPage, progress.TotalPages, p.width-4)
			b.WriteString(bar)
			b.WriteString("\n")
		}

		statusStyle := styles.StatusStyle(progress.Status)
		b.WriteString(statusStyle.Render(statusText))
		b.WriteString("\n")

		if progress.Error != nil {
			errMsg := styles.StatusError.Render(fmt.Sprintf("Error: %s", progress.Error))
			b.WriteString(errMsg)
			b.WriteString("\n")
		}

		b.WriteString("\n")
	}

	return b.String()
}

func renderProgressBar(current, total, width int) string {
	if total == 0 {
		return ""
	}

	filled := int(float64(current) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return styles.ProgressBarStyle.Render(bar)
}

// SimpleProgress renders a simple progress bar
func SimpleProgress(current, total, width int) string {
	return renderProgressBar(current, total, width)
}
