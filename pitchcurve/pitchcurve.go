// Package pitchcurve computes the normalized pitch-vs-progress curve of a
// single note from its bend fields. Curves are pure functions of the note:
// nothing is cached and the same note always yields the same samples.
package pitchcurve

import (
	"github.com/Zero-Feather/Ust-Visualizer/ustparser"
)

// Sample is one curve point: Progress runs over [0,1] across the note,
// Pitch is an absolute semitone value.
type Sample struct {
	Progress float64
	Pitch    float64
}

// Kind names the curve source a note carries.
type Kind int

const (
	// KindFlat draws the note at its base pitch.
	KindFlat Kind = iota
	// KindRawSamples uses the raw PitchBend sample list.
	KindRawSamples
	// KindControlPoints interpolates the sparse PBS/PBW/PBY segments.
	KindControlPoints
)

// KindOf resolves which curve source a note uses. Raw samples win over
// segment data; segment data needs both a width and an offset list and a
// positive total width.
func KindOf(n ustparser.Note) Kind {
	if len(n.PitchBend) > 0 {
		return KindRawSamples
	}
	if len(n.PBW) > 0 && len(n.PBY) > 0 && totalWidth(n.PBW) > 0 {
		return KindControlPoints
	}
	return KindFlat
}

// Compute returns the pitch curve of a note sampled at the given
// resolution. The raw-samples source emits one point per sample and ignores
// resolution; the other sources emit resolution+1 evenly spaced points.
func Compute(n ustparser.Note, resolution int) []Sample {
	if resolution < 1 {
		resolution = 1
	}
	switch KindOf(n) {
	case KindRawSamples:
		return fromRawSamples(n)
	case KindControlPoints:
		return fromControlPoints(n, resolution)
	default:
		return flat(float64(n.NoteNum), resolution)
	}
}

func totalWidth(widths []float64) float64 {
	sum := 0.0
	for _, w := range widths {
		sum += w
	}
	return sum
}

// fromRawSamples spreads the raw samples evenly over [0,1]. Each raw value
// is a cent offset, so /100 converts it to semitones.
func fromRawSamples(n ustparser.Note) []Sample {
	count := len(n.PitchBend)
	out := make([]Sample, count)
	for i, raw := range n.PitchBend {
		progress := 0.0
		if count > 1 {
			progress = float64(i) / float64(count-1)
		}
		out[i] = Sample{
			Progress: progress,
			Pitch:    float64(n.NoteNum) + float64(raw)/100,
		}
	}
	return out
}

// fromControlPoints builds the sparse polyline described by PBS/PBW/PBY and
// resamples it into resolution+1 evenly spaced points. The curve starts at
// the PBS semitone offset; each PBW segment ends at its cumulative width
// fraction with the matching PBY offset, or the base pitch when PBY runs
// short.
func fromControlPoints(n ustparser.Note, resolution int) []Sample {
	base := float64(n.NoteNum)
	total := totalWidth(n.PBW)

	points := make([]Sample, 0, len(n.PBW)+1)
	points = append(points, Sample{Progress: 0, Pitch: base + n.PBS.OffsetSemitones})
	cumulative := 0.0
	for i, w := range n.PBW {
		cumulative += w
		pitch := base
		if i < len(n.PBY) {
			pitch = base + n.PBY[i]
		}
		points = append(points, Sample{Progress: cumulative / total, Pitch: pitch})
	}

	return resample(points, resolution)
}

// resample linearly interpolates a control polyline at resolution+1 evenly
// spaced progress values. A target past the last control point holds the
// last pitch.
func resample(points []Sample, resolution int) []Sample {
	out := make([]Sample, 0, resolution+1)
	for i := 0; i <= resolution; i++ {
		progress := float64(i) / float64(resolution)
		out = append(out, Sample{Progress: progress, Pitch: pitchAt(points, progress)})
	}
	return out
}

func pitchAt(points []Sample, progress float64) float64 {
	for j := 0; j+1 < len(points); j++ {
		a, b := points[j], points[j+1]
		if a.Progress <= progress && progress <= b.Progress {
			span := b.Progress - a.Progress
			if span <= 0 {
				return b.Pitch
			}
			t := (progress - a.Progress) / span
			return a.Pitch + t*(b.Pitch-a.Pitch)
		}
	}
	return points[len(points)-1].Pitch
}

// flat is the no-bend fallback: the base pitch at every sample.
func flat(pitch float64, resolution int) []Sample {
	out := make([]Sample, 0, resolution+1)
	for i := 0; i <= resolution; i++ {
		out = append(out, Sample{Progress: float64(i) / float64(resolution), Pitch: pitch})
	}
	return out
}
