package ustparser

import "strings"

const (
	// TicksPerQuarter is the UST tick resolution: 480 ticks per quarter note.
	TicksPerQuarter = 480

	DefaultLength  = 480
	DefaultLyric   = "R"
	DefaultNoteNum = 60
	DefaultTempo   = 120.0

	maxTempo = 1000.0
)

// PitchBendStart is the PBS pair of a note: a tick offset into the note and
// a semitone offset applied at the curve start.
type PitchBendStart struct {
	OffsetTicks     float64
	OffsetSemitones float64
}

// Note is one positioned timeline event. Notes are built once by the
// timeline pass and never mutated afterwards.
type Note struct {
	Index       int
	LengthTicks int
	Lyric       string
	NoteNum     int
	PBS         PitchBendStart
	PBW         []float64
	PBY         []float64
	PBM         []string
	PitchBend   []int

	StartTime float64
	EndTime   float64
	Duration  float64
}

// IsRest reports whether the note carries no audible pitch text.
func (n Note) IsRest() bool {
	return strings.EqualFold(n.Lyric, DefaultLyric)
}

// Timeline is the decoded score: the retained notes in file order plus the
// document-level metadata. Read-only once Parse returns it.
type Timeline struct {
	Notes         []Note
	Tempo         float64
	ProjectName   string
	TotalDuration float64

	// Warnings collects every field-level fallback hit during the decode.
	Warnings []string
}
