package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/littleroot/bookpress/pkg/integrations"
	"github.com/spf13/cobra"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the supported trim sizes",
	Long:  "Display every supported book trim size with its dimensions and aspect ratio",
	Run: func(cmd *cobra.Command, args []string) {
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
			Headers("Format", "Name", "Dimensions", "Aspect Ratio", "Tier")

		for _, format := range integrations.ListFormats() {
			label := format.Label
			if format.ID == integrations.DefaultFormat {
				label += " (default)"
			}
			t.Row(format.ID, label, format.Dimensions, format.AspectRatio, format.Tier)
		}

		fmt.Println(t)
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}
