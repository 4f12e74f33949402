package screens

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/littleroot/bookpress/pkg/app/styles"
	"github.com/littleroot/bookpress/pkg/data"
	"github.com/littleroot/bookpress/pkg/integrations"
	"github.com/littleroot/bookpress/pkg/services"
	"github.com/littleroot/bookpress/pkg/sources"
)

type BrowseScreen struct {
	source     sources.Source
	controller *services.StoryController
	input      textinput.Model
	results    []*data.Story
	selected   int
	searching  bool
	width      int
	height     int
	err        error
}

func NewBrowseScreen(source sources.Source, controller *services.StoryController) *BrowseScreen {
	ti := textinput.New()
	ti.Placeholder = "Search your stories..."
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 50

	return &BrowseScreen{
		source:     source,
		controller: controller,
		input:      ti,
		results:    []*data.Story{},
		selected:   0,
	}
}

func (s *BrowseScreen) Init() tea.Cmd {
	return textinput.Blink
}

func (s *BrowseScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height

	case tea.KeyMsg:
		// If searching, don't process keys
		if s.searching {
			return s, nil
		}

		switch msg.String() {
		case "enter":
			if s.input.Focused() {
				// Perform search
				query := s.input.Value()
				if query != "" {
					s.searching = true
					return s, s.performSearch(query)
				}
			} else if len(s.results) > 0 {
				// Fetch the selected story into the library
				story := s.results[s.selected]
				return s, s.fetchStory(story.ID)
			}

		case "esc":
			// Switch focus between input and results
			if s.input.Focused() {
				s.input.Blur()
			} else {
				s.input.Focus()
				cmd = textinput.Blink
			}

		case "up", "k":
			if !s.input.Focused() && len(s.results) > 0 {
				s.selected--
				if s.selected < 0 {
					s.selected = len(s.results) - 1
				}
			}

		case "down", "j":
			if !s.input.Focused() && len(s.results) > 0 {
				s.selected++
				if s.selected >= len(s.results) {
					s.selected = 0
				}
			}
		}

	case searchResultMsg:
		s.searching = false
		s.results = msg.results
		s.selected = 0
		s.err = msg.err
		if len(s.results) > 0 {
			s.input.Blur()
		}

	case storyFetchedMsg:
		if msg.err != nil {
			s.err = msg.err
		} else {
			// Switch to library view
			return s, func() tea.Msg {
				return SwitchScreenMsg{Screen: "library", Data: nil}
			}
		}
	}

	// Update text input
	if s.input.Focused() {
		s.input, cmd = s.input.Update(msg)
	}

	return s, cmd
}

func (s *BrowseScreen) View() string {
	if s.width == 0 {
		return "Loading..."
	}

	header := styles.TitleStyle.Render("🔍 Browse Stories")

	// Input field
	inputStyle := styles.InputStyle
	if s.input.Focused() {
		inputStyle = styles.FocusedInputStyle
	}
	inputView := inputStyle.Render(s.input.View())

	var errorMsg string
	if s.err != nil {
		errorMsg = styles.StatusError.Render(fmt.Sprintf("Error: %s", s.err))
		errorMsg += "\n\n"
	}

	var resultsView string
	if s.searching {
		resultsView = styles.StatusExporting.Render("Searching...")
	} else if len(s.results) > 0 {
		resultsView = s.renderResults()
	} else if s.input.Value() != "" && !s.searching {
		resultsView = styles.MutedStyle.Render("No results found")
	}

	help := styles.HelpStyle.Render(
		"enter: search/fetch • esc: switch focus • ↑/k ↓/j: navigate • tab: switch view • q: quit",
	)

	content := fmt.Sprintf("%s\n\n%s\n\n%s%s\n\n%s",
		header,
		inputView,
		errorMsg,
		resultsView,
		help,
	)

	return content
}

func (s *BrowseScreen) renderResults() string {
	var result string
	result += styles.SubtitleStyle.Render(fmt.Sprintf("Found %d results:", len(s.results)))
	result += "\n\n"

	for i, story := range s.results {
		cardStyle := styles.CardStyle
		if i == s.selected && !s.input.Focused() {
			cardStyle = styles.ActiveCardStyle
		}

		title := styles.TitleStyle.Render(story.Title)

		desc := story.Description
		if len(desc) > 120 {
			desc = desc[:117] + "..."
		}
		description := styles.TextStyle.Render(desc)

		format := integrations.DescribeFormat(story.PDFFormat)
		meta := styles.MutedStyle.Render(
			fmt.Sprintf("Format: %s (%s) • ID: %s", format.Label, format.Dimensions, story.ID),
		)

		cardContent := lipgloss.JoinVertical(
			lipgloss.Left,
			title,
			description,
			meta,
		)

		card := cardStyle.Width(s.width - 6).Render(cardContent)
		result += card + "\n"
	}

	return result
}

// Messages
type searchResultMsg struct {
	results []*data.Story
	err     error
}

type storyFetchedMsg struct {
	err error
}

// Define shared message for screen switching
type SwitchScreenMsg struct {
	Screen string
	Data   interface{}
}

// Commands
func (s *BrowseScreen) performSearch(query string) tea.Cmd {
	return func() tea.Msg {
		results, err := s.source.Search(query)
		return searchResultMsg{results: results, err: err}
	}
}

func (s *BrowseScreen) fetchStory(storyID string) tea.Cmd {
	return func() tea.Msg {
		_, _, err := s.controller.FetchStory(storyID)
		return storyFetchedMsg{err: err}
	}
}
