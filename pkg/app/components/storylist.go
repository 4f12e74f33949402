package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/littleroot/bookpress/pkg/app/styles"
	"github.com/littleroot/bookpress/pkg/data"
	"github.com/littleroot/bookpress/pkg/integrations"
)

type StoryListItem struct {
	Story     *data.Story
	PageCount int
}

type StoryList struct {
	Items         []StoryListItem
	SelectedIndex int
	Width         int
	Height        int
}

func NewStoryList() *StoryList {
	return &StoryList{
		Items:         []StoryListItem{},
		SelectedIndex: 0,
		Width:         80,
		Height:        20,
	}
}

func (l *StoryList) SetItems(items []StoryListItem) {
	l.Items = items
	if l.SelectedIndex >= len(items) && len(items) > 0 {
		l.SelectedIndex = len(items) - 1
	}
	if len(items) == 0 {
		l.SelectedIndex = 0
	}
}

func (l *StoryList) Next() {
	if len(l.Items) == 0 {
		return
	}
	l.SelectedIndex++
	if l.SelectedIndex >= len(l.Items) {
		l.SelectedIndex = 0
	}
}

func (l *StoryList) Prev() {
	if len(l.Items) == 0 {
		return
	}
	l.SelectedIndex--
	if l.SelectedIndex < 0 {
		l.SelectedIndex = len(l.Items) - 1
	}
}

func (l *StoryList) Selected() *StoryListItem {
	if len(l.Items) == 0 || l.SelectedIndex >= len(l.Items) {
		return nil
	}
	return &l.Items[l.SelectedIndex]
}

func (l *StoryList) View() string {
	if len(l.Items) == 0 {
		emptyMsg := styles.MutedStyle.Render("No stories in library")
		return lipgloss.Place(l.Width, l.Height, lipgloss.Center, lipgloss.Center, emptyMsg)
	}

	var b strings.Builder

	for i, item := range l.Items {
		cardStyle := styles.CardStyle
		if i == l.SelectedIndex {
			cardStyle = styles.ActiveCardStyle
		}

		// Build card content
		title := styles.TitleStyle.Render(item.Story.Title)

		statusText := fmt.Sprintf("Status: %s", item.Story.Status)
		if item.Story.Status == "" {
			statusText = "Status: Ready"
		}
		status := styles.StatusStyle(item.Story.Status).Render(statusText)

		format := integrations.DescribeFormat(item.Story.PDFFormat)
		formatInfo := styles.MutedStyle.Render(
			fmt.Sprintf("Format: %s (%s)", format.Label, format.Dimensions),
		)

		pageInfo := styles.MutedStyle.Render(fmt.Sprintf("Pages: %d", item.PageCount))

		// Truncate description
		desc := item.Story.Description
		if len(desc) > 80 {
			desc = desc[:77] + "..."
		}
		description := styles.TextStyle.Render(desc)

		cardContent := lipgloss.JoinVertical(
			lipgloss.Left,
			title,
			description,
			"",
			pageInfo,
			status,
			formatInfo,
		)

		card := cardStyle.Width(l.Width - 4).Render(cardContent)
		b.WriteString(card)
		b.WriteString("\n")
	}

	return b.String()
}
