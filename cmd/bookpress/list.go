package cmd

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/littleroot/bookpress/pkg/data"
	"github.com/littleroot/bookpress/pkg/integrations"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stories in your library",
	Long:  "Display all stories in your library in a formatted table",
	Run: func(cmd *cobra.Command, args []string) {
		repo := data.NewDuckDBRepository()
		stories, err := repo.ListStories()
		if err != nil {
			cobra.CheckErr(err)
		}

		if len(stories) == 0 {
			fmt.Println("📚 No stories in library. Use 'bookpress search' to find stories to fetch.")
			return
		}

		// Create table columns
		columns := []table.Column{
			{Title: "Title", Width: 40},
			{Title: "Trim Size", Width: 16},
			{Title: "Status", Width: 12},
			{Title: "Pages", Width: 8},
		}

		rows := []table.Row{}
		for _, story := range stories {
			_, pageCount, _ := repo.GetStoryWithPageCount(story.ID)
			status := story.Status
			if status == "" {
				status = "fetched"
			}
			format := integrations.DescribeFormat(story.PDFFormat)

			rows = append(rows, table.Row{
				truncateString(story.Title, 38),
				format.Dimensions,
				status,
				fmt.Sprintf("%d", pageCount),
			})
		}

		t := table.New(
			table.WithColumns(columns),
			table.WithRows(rows),
			table.WithFocused(false),
			table.WithHeight(len(rows)),
		)

		s := table.DefaultStyles()
		s.Header = s.Header.
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			BorderBottom(true).
			Bold(true)
		s.Selected = s.Selected.
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Bold(false)
		t.SetStyles(s)

		fmt.Printf("\n📚 Library (%d stories)\n\n", len(stories))
		fmt.Println(t.View())
	},
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
