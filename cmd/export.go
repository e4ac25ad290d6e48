package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/Zero-Feather/Ust-Visualizer/midiexport"
	"github.com/Zero-Feather/Ust-Visualizer/ustparser"
)

func init() {
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export <score.ust> <out.mid>",
	Short: "Exports a score's timeline as a standard MIDI file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		timeline, err := ustparser.ParseFile(args[0])
		if err != nil {
			return err
		}
		if err := midiexport.Export(timeline, args[1]); err != nil {
			return err
		}
		log.Printf("exported %d notes to %s", len(timeline.Notes), args[1])
		return nil
	},
}
