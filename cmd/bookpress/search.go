package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/littleroot/bookpress/pkg/sources"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search your LittleRoot stories",
	Long:  "Search for stories on your LittleRoot account and display results in a table",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		query := strings.Join(args, " ")
		source := sources.NewLittleRoot()

		results, err := source.Search(query)
		if err != nil {
			cobra.CheckErr(fmt.Errorf("search failed: %w", err))
		}

		if len(results) == 0 {
			fmt.Println("No results found.")
			return
		}

		var (
			green = lipgloss.Color("114")

			headerStyle = lipgloss.NewStyle().Foreground(green).Bold(true).Align(lipgloss.Center)
			cellStyle   = lipgloss.NewStyle().Padding(0, 1)
		)

		t := table.New().
			Border(lipgloss.HiddenBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(green)).
			StyleFunc(func(row, col int) lipgloss.Style {
				switch {
				case row == table.HeaderRow:
					return headerStyle
				default:
					return cellStyle
				}
			}).
			Headers("#", "Title", "ID")

		for i, story := range results {
			t.Row(fmt.Sprintf("%d", i+1), truncateString(story.Title, 58), story.ID)
		}

		fmt.Println(t)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
