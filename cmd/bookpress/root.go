package cmd

import (
	"os"

	"github.com/littleroot/bookpress/pkg/app"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bookpress",
	Short: "Export your LittleRoot stories as print-ready books",
	Long:  "Fetch your illustrated stories from LittleRoot Studios and export them as KDP-ready PDFs and EPUBs, with a TUI and CLI",
	Run: func(cmd *cobra.Command, args []string) {
		// Launch TUI by default
		a := app.NewApp()
		if err := a.Run(); err != nil {
			cobra.CheckErr(err)
		}
	},
}

func init() {
	// Add all subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(epubCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
