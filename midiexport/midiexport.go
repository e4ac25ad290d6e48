// Package midiexport writes a decoded timeline back out as a standard MIDI
// file, so a score can be auditioned or re-imported elsewhere. The tick
// lengths survive the round trip unchanged; only the pitch-bend detail is
// dropped.
package midiexport

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/Zero-Feather/Ust-Visualizer/ustparser"
)

const (
	channel  = 0
	velocity = 100
)

// Export writes the timeline as a single-track SMF at the UST tick
// resolution. Rests and out-of-range pitches advance the delta clock
// without sounding.
func Export(tl *ustparser.Timeline, path string) error {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(ustparser.TicksPerQuarter)

	var tr smf.Track
	tr.Add(0, smf.MetaTempo(tl.Tempo))
	if tl.ProjectName != "" {
		tr.Add(0, smf.MetaTrackSequenceName(tl.ProjectName))
	}

	var delta uint32
	for _, n := range tl.Notes {
		ticks := uint32(n.LengthTicks)
		if n.IsRest() || n.NoteNum < 1 || n.NoteNum > 127 {
			delta += ticks
			continue
		}
		tr.Add(delta, smf.MetaLyric(n.Lyric))
		tr.Add(0, midi.NoteOn(channel, uint8(n.NoteNum), velocity))
		tr.Add(ticks, midi.NoteOff(channel, uint8(n.NoteNum)))
		delta = 0
	}
	tr.Close(0)

	if err := s.Add(tr); err != nil {
		return fmt.Errorf("build midi track: %w", err)
	}
	if err := s.WriteFile(path); err != nil {
		return fmt.Errorf("write midi file: %w", err)
	}
	return nil
}
