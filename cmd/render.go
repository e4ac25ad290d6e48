package cmd

import (
	"errors"
	"log"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/Zero-Feather/Ust-Visualizer/framegenerator"
	"github.com/Zero-Feather/Ust-Visualizer/ustparser"
)

var (
	renderOutDir    string
	renderConfig    string
	renderVideoPath string
)

func init() {
	renderCmd.Flags().StringVarP(&renderOutDir, "out", "o", "_frames", "directory the numbered frames are written to")
	renderCmd.Flags().StringVarP(&renderConfig, "config", "c", "", "JSON settings file (defaults when omitted)")
	renderCmd.Flags().StringVar(&renderVideoPath, "video", "", "also assemble the frames into this mp4 with ffmpeg")
	rootCmd.AddCommand(renderCmd)
}

var renderCmd = &cobra.Command{
	Use:   "render <score.ust>",
	Short: "Renders a score into a numbered PNG frame sequence",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings(renderConfig)
		if err != nil {
			return err
		}
		timeline, err := ustparser.ParseFile(args[0])
		if err != nil {
			return err
		}

		// Ctrl-C cancels cooperatively between frames; frames already on
		// disk stay valid.
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		report, err := framegenerator.GenerateFrames(ctx, timeline, settings, renderOutDir)
		if errors.Is(err, framegenerator.ErrStopped) {
			log.Printf("render stopped early: %d of %d frames written to %s",
				report.FramesWritten, report.TotalFrames, renderOutDir)
			return nil
		}
		if err != nil {
			return err
		}
		log.Printf("render done: %d frames in %s (%.1fs)",
			report.FramesWritten, renderOutDir, report.Elapsed.Seconds())

		if renderVideoPath != "" {
			if err := framegenerator.AssembleVideo(renderOutDir, renderVideoPath, settings.FPS); err != nil {
				return err
			}
			log.Printf("video written to %s", renderVideoPath)
		}
		return nil
	},
}

func loadSettings(path string) (framegenerator.Settings, error) {
	if path == "" {
		return framegenerator.DefaultSettings(), nil
	}
	return framegenerator.LoadSettings(path)
}
