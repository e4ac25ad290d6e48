package framegenerator

import (
	"math"

	"github.com/tanema/gween/ease"

	"github.com/Zero-Feather/Ust-Visualizer/pitchcurve"
	"github.com/Zero-Feather/Ust-Visualizer/ustparser"
)

// NewFrameContext positions one playback instant against the viewport.
// LeadInTime is the time a note needs to cross the full viewport width, so
// the first note enters from the right edge instead of popping in at the
// judgment line; the same padding is applied again at the tail.
func NewFrameContext(s Settings, tl *ustparser.Timeline, currentTime float64) FrameContext {
	width := float64(s.Width)
	leadIn := width / s.ScrollSpeed
	return FrameContext{
		CurrentTime:    currentTime,
		Width:          width,
		Height:         float64(s.Height),
		ScrollSpeed:    s.ScrollSpeed,
		JudgmentLineX:  width * s.JudgmentLinePosition,
		LeadInTime:     leadIn,
		TotalDuration:  tl.TotalDuration + 2*leadIn,
		FadeDuration:   s.FadeDuration,
		VerticalOffset: s.VerticalOffset,
	}
}

// noteY maps a pitch onto the viewport: pitch 0 sits at the bottom edge,
// pitch 108 at the top, before the caller's pixel offset.
func noteY(pitch, height, verticalOffset float64) float64 {
	return height*(1-pitch/maxPitch) + verticalOffset
}

// FadeAlpha is the frame-wide fade value: a linear ramp up over the first
// fadeDuration seconds, a linear ramp down over the last fadeDuration
// seconds of the lead-padded total, full opacity between.
func FadeAlpha(currentTime, totalDuration, fadeDuration float64) float64 {
	if fadeDuration <= 0 {
		return 1
	}
	alpha := 1.0
	if currentTime < fadeDuration {
		alpha = float64(ease.Linear(float32(currentTime), 0, 1, float32(fadeDuration)))
	} else if currentTime > totalDuration-fadeDuration {
		alpha = float64(ease.Linear(float32(totalDuration-currentTime), 0, 1, float32(fadeDuration)))
	}
	return math.Min(1, math.Max(0, alpha))
}

// ComposeFrame maps timeline state to the frame's draw list. Notes wholly
// outside the viewport are culled before any geometry is computed; rests
// and non-positive pitches occupy time but draw nothing.
func ComposeFrame(tl *ustparser.Timeline, fc FrameContext, s Settings) Frame {
	fr := Frame{
		Alpha:     FadeAlpha(fc.CurrentTime, fc.TotalDuration, fc.FadeDuration),
		JudgmentX: fc.JudgmentLineX,
	}
	for _, n := range tl.Notes {
		startX := fc.Width + (n.StartTime-fc.CurrentTime+fc.LeadInTime)*fc.ScrollSpeed
		endX := fc.Width + (n.EndTime-fc.CurrentTime+fc.LeadInTime)*fc.ScrollSpeed
		if endX < 0 || startX > fc.Width {
			continue
		}
		if n.IsRest() || n.NoteNum <= 0 {
			continue
		}
		rawWidth := endX - startX
		if rawWidth < minNoteWidth {
			continue
		}
		width := math.Max(minDrawWidth, rawWidth)
		y := noteY(float64(n.NoteNum), fc.Height, fc.VerticalOffset)

		box := NoteBox{
			X:            startX,
			Y:            y - s.NoteHeight/2,
			W:            width,
			H:            s.NoteHeight,
			CornerRadius: s.NoteCornerRadius,
			Shadow:       s.NoteShadow,
			Active:       startX <= fc.JudgmentLineX && fc.JudgmentLineX <= endX,
		}
		if n.Lyric != "" {
			box.Label = &Label{
				Text: n.Lyric,
				X:    startX + math.Min(20, width/2),
				Y:    box.Y - s.LyricOffset,
			}
		}
		fr.Notes = append(fr.Notes, box)

		if s.ShowPitchCurve {
			if line, ok := curveLine(n, fc, s, startX, endX); ok {
				fr.Curves = append(fr.Curves, line)
			}
		}
	}
	return fr
}

// curveLine lays a note's pitch curve out in screen space. Curves with a
// single sample have no extent and are dropped.
func curveLine(n ustparser.Note, fc FrameContext, s Settings, startX, endX float64) (Polyline, bool) {
	samples := pitchcurve.Compute(n, s.PitchCurveSmoothness)
	if len(samples) < 2 {
		return Polyline{}, false
	}
	points := make([]Point, len(samples))
	for i, sm := range samples {
		points[i] = Point{
			X: startX + sm.Progress*(endX-startX),
			Y: noteY(sm.Pitch, fc.Height, fc.VerticalOffset),
		}
	}
	return Polyline{
		Points:  points,
		Width:   s.PitchCurveWidth,
		Shadow:  s.PitchCurveShadow && s.PitchCurveWidth > 1,
		Dots:    s.PitchCurveDots,
		DotSize: s.PitchCurveDotSize,
	}, true
}
