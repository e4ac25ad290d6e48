package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zero-Feather/Ust-Visualizer/ustparser"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <score.ust>",
	Short: "Decodes a score and prints its timeline summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		timeline, err := ustparser.ParseFile(args[0])
		if err != nil {
			return err
		}
		if timeline.ProjectName != "" {
			fmt.Printf("project:  %s\n", timeline.ProjectName)
		}
		fmt.Printf("tempo:    %g bpm\n", timeline.Tempo)
		fmt.Printf("notes:    %d\n", len(timeline.Notes))
		fmt.Printf("duration: %.2fs\n", timeline.TotalDuration)
		for i, n := range timeline.Notes {
			if i == 5 {
				fmt.Printf("... %d more\n", len(timeline.Notes)-i)
				break
			}
			fmt.Printf("note %d: %.2fs-%.2fs lyric=%q pitch=%d\n",
				n.Index, n.StartTime, n.EndTime, n.Lyric, n.NoteNum)
		}
		for _, w := range timeline.Warnings {
			fmt.Printf("warning: %s\n", w)
		}
		return nil
	},
}
