package screens

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/littleroot/bookpress/pkg/app/styles"
	"github.com/littleroot/bookpress/pkg/data"
	"github.com/littleroot/bookpress/pkg/services"
	"github.com/littleroot/bookpress/pkg/sources"
)

type screenType int

const (
	libraryView screenType = iota
	browseView
	detailsView
)

type RootScreen struct {
	repo       *data.Repository
	source     sources.Source
	controller *services.StoryController

	currentView screenType
	library     *LibraryScreen
	browse      *BrowseScreen
	details     *DetailsScreen

	width  int
	height int
}

func NewRootScreen() *RootScreen {
	// Initialize dependencies
	repo := data.NewDuckDBRepository()
	source := sources.NewLittleRoot()

	homeDir, _ := os.UserHomeDir()
	outputDir := filepath.Join(homeDir, "Downloads")

	controller := services.NewStoryControllerWith(source, repo, services.NewExporter(outputDir))

	// Create screens
	library := NewLibraryScreen(repo, controller)
	browse := NewBrowseScreen(source, controller)

	return &RootScreen{
		repo:        repo,
		source:      source,
		controller:  controller,
		currentView: libraryView,
		library:     library,
		browse:      browse,
	}
}

func (r *RootScreen) Init() tea.Cmd {
	return r.library.Init()
}

func (r *RootScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.width = msg.Width
		r.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return r, tea.Quit
		case "tab":
			// Cycle through views
			if r.currentView == detailsView {
				// Can't tab away from details, use esc
				break
			}
			r.currentView = (r.currentView + 1) % 2
			if r.currentView == browseView {
				cmd = r.browse.Init()
			} else {
				cmd = r.library.Init()
			}
			return r, cmd
		}

	case SwitchScreenMsg:
		// Handle screen switching from sub-screens
		switch msg.Screen {
		case "library":
			r.currentView = libraryView
			cmd = r.library.Init()
		case "browse":
			r.currentView = browseView
			cmd = r.browse.Init()
		case "details":
			if storyID, ok := msg.Data.(string); ok {
				r.details = NewDetailsScreen(r.repo, r.controller, storyID)
				r.currentView = detailsView
				cmd = r.details.Init()
			}
		}
		return r, cmd
	}

	// Forward message to active screen
	switch r.currentView {
	case libraryView:
		newModel, newCmd := r.library.Update(msg)
		r.library = newModel.(*LibraryScreen)
		return r, newCmd
	case browseView:
		newModel, newCmd := r.browse.Update(msg)
		r.browse = newModel.(*BrowseScreen)
		return r, newCmd
	case detailsView:
		if r.details != nil {
			newModel, newCmd := r.details.Update(msg)
			r.details = newModel.(*DetailsScreen)
			return r, newCmd
		}
	}

	return r, cmd
}

func (r *RootScreen) View() string {
	// Render tabs
	tabs := r.renderTabs()

	// Render active screen
	var content string
	switch r.currentView {
	case libraryView:
		content = r.library.View()
	case browseView:
		content = r.browse.View()
	case detailsView:
		if r.details != nil {
			content = r.details.View()
		}
	}

	return fmt.Sprintf("%s\n\n%s", tabs, content)
}

func (r *RootScreen) renderTabs() string {
	if r.currentView == detailsView {
		// Don't show tabs in details view
		return ""
	}

	libraryTab := "Library"
	browseTab := "Browse"

	if r.currentView == libraryView {
		libraryTab = styles.ActiveTabStyle.Render(libraryTab)
		browseTab = styles.InactiveTabStyle.Render(browseTab)
	} else {
		libraryTab = styles.InactiveTabStyle.Render(libraryTab)
		browseTab = styles.ActiveTabStyle.Render(browseTab)
	}

	tabs := lipgloss.JoinHorizontal(lipgloss.Top, libraryTab, browseTab)
	return tabs
}
