// Package framegenerator turns a decoded timeline into the numbered frame
// sequence of notes scrolling across a judgment line. Frames are
// independent of each other: each one reads only the immutable timeline and
// its own FrameContext, so they render on a small worker pool.
package framegenerator

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fogleman/gg"

	"github.com/Zero-Feather/Ust-Visualizer/ustparser"
)

// ErrNoNotes means the score decoded but retained no note blocks; there is
// nothing to render.
var ErrNoNotes = errors.New("score contains no notes")

// ErrStopped marks a run halted by cancellation. It is distinct from both
// success and failure: frames written before the stop are valid and stay on
// disk.
var ErrStopped = fmt.Errorf("frame generation stopped early: %w", context.Canceled)

// Report summarizes a generation run, complete or not.
type Report struct {
	FramesWritten int
	TotalFrames   int
	Elapsed       time.Duration
}

// GenerateFrames renders every frame of the timeline into outDir as
// sequentially numbered PNGs. The context is checked before each frame is
// dispatched; a cancelled run returns the frames already written together
// with ErrStopped.
func GenerateFrames(ctx context.Context, tl *ustparser.Timeline, s Settings, outDir string) (Report, error) {
	if len(tl.Notes) == 0 {
		return Report{}, ErrNoNotes
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return Report{}, fmt.Errorf("create output dir: %w", err)
	}

	leadIn := float64(s.Width) / s.ScrollSpeed
	totalDuration := tl.TotalDuration + 2*leadIn
	totalFrames := int(totalDuration * float64(s.FPS))
	face := loadFontFace(s.FontPath, s.FontSize)

	log.Printf("framegenerator: %d frames, %.2fs total, %g px/s", totalFrames, totalDuration, s.ScrollSpeed)

	sem := make(chan struct{}, maxWorkers)
	contexts := make(chan *gg.Context, maxWorkers)
	for i := 0; i < maxWorkers; i++ {
		dc := gg.NewContext(s.Width, s.Height)
		dc.SetFontFace(face)
		contexts <- dc
	}

	var (
		wg       sync.WaitGroup
		written  atomic.Uint64
		mu       sync.Mutex
		firstErr error
	)
	start := time.Now()

	dispatched := 0
	for i := 0; i < totalFrames; i++ {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		dc := <-contexts
		go func(dc *gg.Context, frame int) {
			defer wg.Done()
			currentTime := float64(frame) / float64(s.FPS)
			fc := NewFrameContext(s, tl, currentTime)
			fr := ComposeFrame(tl, fc, s)
			renderFrame(dc, fr, s)

			path := filepath.Join(outDir, fmt.Sprintf(frameFilePattern, frame))
			if err := dc.SavePNG(path); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("save frame %d: %w", frame, err)
				}
				mu.Unlock()
			} else {
				f := written.Add(1)
				if f%progressEveryFrame == 0 {
					log.Printf("framegenerator: %d/%d frames, %d notes visible, avg %.4fs/frame",
						f, totalFrames, len(fr.Notes), time.Since(start).Seconds()/float64(f))
				}
			}
			<-sem
			contexts <- dc
		}(dc, i)
		dispatched++
	}
	wg.Wait()

	rep := Report{
		FramesWritten: int(written.Load()),
		TotalFrames:   totalFrames,
		Elapsed:       time.Since(start),
	}
	if firstErr != nil {
		return rep, firstErr
	}
	if dispatched < totalFrames {
		return rep, fmt.Errorf("%w after %d of %d frames", ErrStopped, rep.FramesWritten, totalFrames)
	}
	return rep, nil
}

// RenderFrameAt composites and rasterizes the single frame at the given
// playback time, for previews. It shares the per-frame path with
// GenerateFrames, so a preview pixel-matches the batch output.
func RenderFrameAt(tl *ustparser.Timeline, s Settings, currentTime float64) image.Image {
	dc := gg.NewContext(s.Width, s.Height)
	dc.SetFontFace(loadFontFace(s.FontPath, s.FontSize))
	fc := NewFrameContext(s, tl, currentTime)
	renderFrame(dc, ComposeFrame(tl, fc, s), s)
	return dc.Image()
}
