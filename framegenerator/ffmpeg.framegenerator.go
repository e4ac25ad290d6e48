package framegenerator

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// AssembleVideo stitches a rendered frame directory into an mp4 with the
// system ffmpeg. Purely a convenience on top of the PNG sequence, which
// stays the primary artifact.
func AssembleVideo(framesDir, outputPath string, fps int) error {
	args := []string{
		"-framerate", strconv.Itoa(fps),
		"-i", filepath.Join(framesDir, "frame_%06d.png"),
		"-preset", "veryfast",
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-tune", "animation",
		"-y",
		outputPath,
	}
	if err := exec.Command("ffmpeg", args...).Run(); err != nil {
		return fmt.Errorf("ffmpeg %s: %w", strings.Join(args, " "), err)
	}
	return nil
}
