package screens

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/littleroot/bookpress/pkg/app/components"
	"github.com/littleroot/bookpress/pkg/app/styles"
	"github.com/littleroot/bookpress/pkg/data"
	"github.com/littleroot/bookpress/pkg/services"
)

type LibraryScreen struct {
	repo       *data.Repository
	controller *services.StoryController
	storyList  *components.StoryList
	notice     string
	width      int
	height     int
	err        error
}

func NewLibraryScreen(repo *data.Repository, controller *services.StoryController) *LibraryScreen {
	return &LibraryScreen{
		repo:       repo,
		controller: controller,
		storyList:  components.NewStoryList(),
	}
}

func (s *LibraryScreen) Init() tea.Cmd {
	return s.loadLibrary
}

func (s *LibraryScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		s.storyList.Width = msg.Width - 4
		s.storyList.Height = msg.Height - 10

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			s.storyList.Prev()
		case "down", "j":
			s.storyList.Next()
		case "r":
			return s, s.loadLibrary
		case "d":
			// Delete selected story
			selected := s.storyList.Selected()
			if selected != nil {
				return s, s.deleteStory(selected.Story.ID)
			}
		case "x":
			// Export selected story to PDF
			selected := s.storyList.Selected()
			if selected != nil {
				return s, s.exportPDF(selected.Story.ID)
			}
		case "e":
			// Export selected story to EPUB
			selected := s.storyList.Selected()
			if selected != nil {
				return s, s.exportEPUB(selected.Story.ID)
			}
		case "enter":
			// Return selected story to switch to details view
			selected := s.storyList.Selected()
			if selected != nil {
				return s, func() tea.Msg {
					return SwitchScreenMsg{Screen: "details", Data: selected.Story.ID}
				}
			}
		}

	case libraryLoadedMsg:
		s.storyList.SetItems(msg.items)
		s.err = msg.err

	case exportDoneMsg:
		s.err = msg.err
		if msg.err == nil {
			s.notice = fmt.Sprintf("Exported: %s", msg.path)
		}
		return s, s.loadLibrary

	case storyDeletedMsg:
		if msg.err != nil {
			s.err = msg.err
		}
		return s, s.loadLibrary
	}

	return s, nil
}

func (s *LibraryScreen) View() string {
	if s.width == 0 {
		return "Loading..."
	}

	header := styles.TitleStyle.Render("📚 Story Library")

	var errorMsg string
	if s.err != nil {
		errorMsg = styles.StatusError.Render(fmt.Sprintf("Error: %s", s.err))
		errorMsg += "\n\n"
	} else if s.notice != "" {
		errorMsg = styles.StatusExported.Render(s.notice)
		errorMsg += "\n\n"
	}

	listView := s.storyList.View()

	help := styles.HelpStyle.Render(
		"↑/k: up • ↓/j: down • enter: details • x: export PDF • e: export EPUB • d: delete • r: refresh • tab: switch view • q: quit",
	)

	content := fmt.Sprintf("%s\n\n%s%s\n%s", header, errorMsg, listView, help)

	return content
}

// Messages
type libraryLoadedMsg struct {
	items []components.StoryListItem
	err   error
}

type exportDoneMsg struct {
	path string
	err  error
}

type storyDeletedMsg struct {
	err error
}

// Commands
func (s *LibraryScreen) loadLibrary() tea.Msg {
	stories, err := s.repo.ListStories()
	if err != nil {
		return libraryLoadedMsg{err: err}
	}

	items := make([]components.StoryListItem, len(stories))
	for i, story := range stories {
		_, count, _ := s.repo.GetStoryWithPageCount(story.ID)
		items[i] = components.StoryListItem{
			Story:     story,
			PageCount: count,
		}
	}

	return libraryLoadedMsg{items: items}
}

func (s *LibraryScreen) exportPDF(storyID string) tea.Cmd {
	return func() tea.Msg {
		result, _, err := s.controller.ExportStoryPDF(storyID, services.ExportOptions{IncludeImages: true})
		if err != nil {
			return exportDoneMsg{err: err}
		}
		return exportDoneMsg{path: result.Path}
	}
}

func (s *LibraryScreen) exportEPUB(storyID string) tea.Cmd {
	return func() tea.Msg {
		result, _, err := s.controller.ExportStoryEPUB(storyID, services.ExportOptions{IncludeImages: true})
		if err != nil {
			return exportDoneMsg{err: err}
		}
		return exportDoneMsg{path: result.Path}
	}
}

func (s *LibraryScreen) deleteStory(storyID string) tea.Cmd {
	return func() tea.Msg {
		err := s.repo.DeleteStory(storyID)
		return storyDeletedMsg{err: err}
	}
}
