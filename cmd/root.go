package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ustviz",
	Short: "Renders UST singing-synthesis scores as scrolling note frames",
	Long: `ustviz decodes a UST score into a note timeline and renders it as a
sequence of raster frames: notes scroll across a judgment line with lyric
labels and optional pitch-curve overlays.`,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
