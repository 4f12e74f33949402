package cmd

import (
	"fmt"

	"github.com/littleroot/bookpress/pkg/services"
	"github.com/spf13/cobra"
)

var epubCmd = &cobra.Command{
	Use:   "epub [story-title or story-id]",
	Short: "Export a story as an EPUB ebook",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		identifier := args[0]
		noImages, _ := cmd.Flags().GetBool("no-images")
		output, _ := cmd.Flags().GetString("output")

		controller := newController(output)
		defer controller.Close()

		story, err := controller.ResolveStory(identifier)
		if err != nil {
			cobra.CheckErr(err)
		}
		fmt.Printf("📚 Found '%s' in library\n", story.Title)

		opts := services.ExportOptions{
			IncludeImages: !noImages,
		}

		result, validation, err := controller.ExportStoryEPUB(story.ID, opts)
		for _, warning := range validation.Warnings {
			fmt.Printf("⚠️  %s\n", warning)
		}
		if err != nil {
			for _, violation := range validation.Errors {
				fmt.Printf("❌ %s\n", violation)
			}
			cobra.CheckErr(fmt.Errorf("export failed: %w", err))
		}

		fmt.Printf("📖 EPUB created: %s\n", result.Path)
	},
}

func init() {
	epubCmd.Flags().Bool("no-images", false, "Render text-only sections without illustrations")
	epubCmd.Flags().StringP("output", "o", "", "Output directory (default: ~/Downloads)")
}
