package cmd

import (
	"fmt"
	"strings"

	"github.com/littleroot/bookpress/pkg/data"
	"github.com/littleroot/bookpress/pkg/sources"
	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [story-title]",
	Short: "Fetch a story into your library",
	Long:  "Search for a story on LittleRoot and save it to your library (text and metadata only)",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		query := strings.Join(args, " ")
		source := sources.NewLittleRoot()
		repo := data.NewDuckDBRepository()

		fmt.Printf("🔍 Searching for '%s'...\n", query)

		results, err := source.Search(query)
		if err != nil {
			cobra.CheckErr(fmt.Errorf("search failed: %w", err))
		}

		if len(results) == 0 {
			fmt.Println("❌ No results found.")
			return
		}

		// Take the first result
		story := results[0]
		fmt.Printf("✅ Found: %s (ID: %s)\n", story.Title, story.ID)

		pages, err := source.GetPages(story)
		if err != nil {
			cobra.CheckErr(fmt.Errorf("failed to get pages: %w", err))
		}

		story.Status = "fetched"
		if err := repo.SaveStory(story); err != nil {
			cobra.CheckErr(fmt.Errorf("failed to save story: %w", err))
		}

		for _, page := range pages {
			page.StoryID = story.ID
			if err := repo.SavePage(page); err != nil {
				fmt.Printf("⚠️  Failed to save page %d: %v\n", page.PageNumber, err)
			}
		}

		fmt.Printf("✅ Added '%s' to library with %d pages\n", story.Title, len(pages))
		fmt.Printf("💡 To export it, use: bookpress export \"%s\"\n", story.Title)
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}
