package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/littleroot/bookpress/pkg/services"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [story-title or story-id]",
	Short: "Export a story as a print-ready PDF",
	Long:  "Export a library story as a full-bleed, KDP-ready PDF at its trim size",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		identifier := args[0]
		format, _ := cmd.Flags().GetString("format")
		noImages, _ := cmd.Flags().GetBool("no-images")
		output, _ := cmd.Flags().GetString("output")

		controller := newController(output)
		defer controller.Close()

		story, err := controller.ResolveStory(identifier)
		if err != nil {
			cobra.CheckErr(err)
		}
		fmt.Printf("📚 Found '%s' in library\n", story.Title)

		// Listen for progress
		go func() {
			for progress := range controller.Exporter().GetProgressChannel() {
				if progress.TotalPages > 0 && progress.Status == "exporting" {
					fmt.Printf("  Page %d/%d\n", progress.CurrentPage, progress.TotalPages)
				}
			}
		}()

		opts := services.ExportOptions{
			Format:        format,
			IncludeImages: !noImages,
		}

		result, validation, err := controller.ExportStoryPDF(story.ID, opts)
		for _, warning := range validation.Warnings {
			fmt.Printf("⚠️  %s\n", warning)
		}
		if err != nil {
			for _, violation := range validation.Errors {
				fmt.Printf("❌ %s\n", violation)
			}
			cobra.CheckErr(fmt.Errorf("export failed: %w", err))
		}

		fmt.Printf("\n✅ Export complete!\n")
		fmt.Printf("📄 PDF created: %s (%d pages, %.1f MB)\n",
			result.Path, result.PageCount, float64(result.FileSize)/(1024*1024))
	},
}

func init() {
	exportCmd.Flags().StringP("format", "f", "", "Trim size (e.g. 6x9); defaults to the story's own")
	exportCmd.Flags().Bool("no-images", false, "Render text-only pages without illustrations")
	exportCmd.Flags().StringP("output", "o", "", "Output directory (default: ~/Downloads)")
}

func newController(outputDir string) *services.StoryController {
	if outputDir == "" {
		homeDir, _ := os.UserHomeDir()
		outputDir = filepath.Join(homeDir, "Downloads")
	}
	return services.NewStoryControllerWithConfig(services.ControllerConfig{
		OutputDir: outputDir,
	})
}
