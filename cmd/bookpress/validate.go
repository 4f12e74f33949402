package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [story-title or story-id]",
	Short: "Check whether a story is ready for export",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		controller := newController("")
		defer controller.Close()

		story, err := controller.ResolveStory(args[0])
		if err != nil {
			cobra.CheckErr(err)
		}

		result, err := controller.ValidateStory(story.ID)
		if err != nil {
			cobra.CheckErr(err)
		}

		for _, violation := range result.Errors {
			fmt.Printf("❌ %s\n", violation)
		}
		for _, warning := range result.Warnings {
			fmt.Printf("⚠️  %s\n", warning)
		}

		if !result.Valid {
			cobra.CheckErr(fmt.Errorf("'%s' is not ready for export", story.Title))
		}
		fmt.Printf("✅ '%s' is ready for export\n", story.Title)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
