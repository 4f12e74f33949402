package screens

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/littleroot/bookpress/pkg/app/components"
	"github.com/littleroot/bookpress/pkg/app/styles"
	"github.com/littleroot/bookpress/pkg/data"
	"github.com/littleroot/bookpress/pkg/integrations"
	"github.com/littleroot/bookpress/pkg/services"
)

type DetailsScreen struct {
	repo            *data.Repository
	controller      *services.StoryController
	storyID         string
	story           *data.Story
	pages           []*data.Page
	selectedPage    int
	validation      *services.ValidationResult
	progressTracker *components.ProgressTracker
	notice          string
	width           int
	height          int
	err             error
}

func NewDetailsScreen(repo *data.Repository, controller *services.StoryController, storyID string) *DetailsScreen {
	return &DetailsScreen{
		repo:            repo,
		controller:      controller,
		storyID:         storyID,
		progressTracker: components.NewProgressTracker(80),
	}
}

func (s *DetailsScreen) Init() tea.Cmd {
	return tea.Batch(
		s.loadDetails,
		s.listenForProgress,
	)
}

func (s *DetailsScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		s.progressTracker = components.NewProgressTracker(msg.Width - 4)

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selectedPage > 0 {
				s.selectedPage--
			}
		case "down", "j":
			if s.selectedPage < len(s.pages)-1 {
				s.selectedPage++
			}
		case "r":
			return s, s.loadDetails
		case "x":
			// Export to PDF
			return s, s.exportPDF()
		case "e":
			// Export to EPUB
			return s, s.exportEPUB()
		case "v":
			// Run pre-flight validation
			return s, s.validate()
		case "esc", "backspace":
			// Go back to library
			return s, func() tea.Msg {
				return SwitchScreenMsg{Screen: "library", Data: nil}
			}
		}

	case detailsLoadedMsg:
		s.story = msg.story
		s.pages = msg.pages
		s.err = msg.err

	case services.ExportProgress:
		s.progressTracker.Update(msg)
		return s, s.listenForProgress

	case exportDoneMsg:
		s.err = msg.err
		if msg.err == nil {
			s.notice = fmt.Sprintf("Exported: %s", msg.path)
		}
		return s, s.loadDetails

	case validationMsg:
		s.validation = &msg.result
		s.err = msg.err
	}

	return s, nil
}

func (s *DetailsScreen) View() string {
	if s.width == 0 || s.story == nil {
		return "Loading..."
	}

	header := styles.TitleStyle.Render(fmt.Sprintf("📖 %s", s.story.Title))

	var errorMsg string
	if s.err != nil {
		errorMsg = styles.StatusError.Render(fmt.Sprintf("Error: %s", s.err))
		errorMsg += "\n\n"
	} else if s.notice != "" {
		errorMsg = styles.StatusExported.Render(s.notice)
		errorMsg += "\n\n"
	}

	// Story info section
	info := s.renderStoryInfo()

	// Validation section
	validationView := s.renderValidation()

	// Pages list
	pagesList := s.renderPagesList()

	// Progress section
	progressView := s.progressTracker.View()

	help := styles.HelpStyle.Render(
		"↑/k ↓/j: navigate • x: export PDF • e: export EPUB • v: validate • r: refresh • esc: back • q: quit",
	)

	content := fmt.Sprintf("%s\n\n%s%s%s\n%s\n%s\n%s",
		header,
		errorMsg,
		info,
		validationView,
		pagesList,
		progressView,
		help,
	)

	return content
}

func (s *DetailsScreen) renderStoryInfo() string {
	status := styles.StatusStyle(s.story.Status).Render(s.story.Status)
	if s.story.Status == "" {
		status = styles.MutedStyle.Render("Ready")
	}

	desc := s.story.Description
	if len(desc) > 200 {
		desc = desc[:197] + "..."
	}

	format := integrations.DescribeFormat(s.story.PDFFormat)

	info := lipgloss.JoinVertical(
		lipgloss.Left,
		styles.TextStyle.Render(desc),
		"",
		styles.MutedStyle.Render(fmt.Sprintf("Trim size: %s (%s, %s)", format.Label, format.Dimensions, format.AspectRatio)),
		status,
		"",
	)

	return styles.CardStyle.Width(s.width - 4).Render(info)
}

func (s *DetailsScreen) renderValidation() string {
	if s.validation == nil {
		return ""
	}

	var b strings.Builder
	if s.validation.Valid {
		b.WriteString(styles.StatusExported.Render("✓ Ready for export"))
		b.WriteString("\n")
	}
	for _, msg := range s.validation.Errors {
		b.WriteString(styles.StatusError.Render("✗ " + msg))
		b.WriteString("\n")
	}
	for _, msg := range s.validation.Warnings {
		b.WriteString(styles.StatusWarning.Render("⚠ " + msg))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}

func (s *DetailsScreen) renderPagesList() string {
	if len(s.pages) == 0 {
		return styles.MutedStyle.Render("No pages available")
	}

	var b strings.Builder
	b.WriteString(styles.SubtitleStyle.Render(fmt.Sprintf("Pages (%d total):", len(s.pages))))
	b.WriteString("\n\n")

	// Show limited pages (scrollable view would be better, but simplified for now)
	start := 0
	end := len(s.pages)
	if end > 10 {
		// Show 10 pages around selected
		start = s.selectedPage - 5
		if start < 0 {
			start = 0
		}
		end = start + 10
		if end > len(s.pages) {
			end = len(s.pages)
			start = end - 10
			if start < 0 {
				start = 0
			}
		}
	}

	for i := start; i < end; i++ {
		page := s.pages[i]

		snippet := page.Text
		if len(snippet) > 60 {
			snippet = snippet[:57] + "..."
		}
		pageText := fmt.Sprintf("Page %d: %s", page.PageNumber, snippet)

		statusIcon := "○"
		statusColor := styles.MutedStyle
		if page.ImageURL != "" {
			statusIcon = "●"
			statusColor = styles.StatusExported
		}

		line := fmt.Sprintf("%s %s", statusIcon, pageText)

		if i == s.selectedPage {
			line = styles.SelectedStyle.Render(line)
		} else {
			line = statusColor.Render(line)
		}

		b.WriteString(line)
		b.WriteString("\n")
	}

	if len(s.pages) > 10 {
		b.WriteString("\n")
		b.WriteString(styles.MutedStyle.Render(
			fmt.Sprintf("Showing %d-%d of %d pages", start+1, end, len(s.pages)),
		))
	}

	return b.String()
}

// Messages
type detailsLoadedMsg struct {
	story *data.Story
	pages []*data.Page
	err   error
}

type validationMsg struct {
	result services.ValidationResult
	err    error
}

// Commands
func (s *DetailsScreen) loadDetails() tea.Msg {
	story, err := s.repo.GetStory(s.storyID)
	if err != nil {
		return detailsLoadedMsg{err: err}
	}
	if story == nil {
		return detailsLoadedMsg{err: fmt.Errorf("story not found")}
	}

	pages, err := s.repo.GetPages(s.storyID)
	if err != nil {
		return detailsLoadedMsg{story: story, err: err}
	}

	return detailsLoadedMsg{story: story, pages: pages}
}

func (s *DetailsScreen) exportPDF() tea.Cmd {
	return func() tea.Msg {
		result, _, err := s.controller.ExportStoryPDF(s.storyID, services.ExportOptions{IncludeImages: true})
		if err != nil {
			return exportDoneMsg{err: err}
		}
		return exportDoneMsg{path: result.Path}
	}
}

func (s *DetailsScreen) exportEPUB() tea.Cmd {
	return func() tea.Msg {
		result, _, err := s.controller.ExportStoryEPUB(s.storyID, services.ExportOptions{IncludeImages: true})
		if err != nil {
			return exportDoneMsg{err: err}
		}
		return exportDoneMsg{path: result.Path}
	}
}

func (s *DetailsScreen) validate() tea.Cmd {
	return func() tea.Msg {
		result, err := s.controller.ValidateStory(s.storyID)
		return validationMsg{result: result, err: err}
	}
}

func (s *DetailsScreen) listenForProgress() tea.Msg {
	return <-s.controller.Exporter().GetProgressChannel()
}
