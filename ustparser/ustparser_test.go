package ustparser

import (
	"math"
	"strings"
	"testing"

	"golang.org/x/text/encoding/japanese"
)

func almost(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestParseSettingAndSingleNote(t *testing.T) {
	doc := "[#SETTING]\nTempo=140\n[#0]\nLength=480\nLyric=a\nNoteNum=72\n[#TRACKEND]\n"
	tl, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if tl.Tempo != 140 {
		t.Fatalf("expected tempo 140, got %g", tl.Tempo)
	}
	if len(tl.Notes) != 1 {
		t.Fatalf("expected 1 note, got %d", len(tl.Notes))
	}
	n := tl.Notes[0]
	if n.Lyric != "a" || n.NoteNum != 72 {
		t.Fatalf("unexpected note fields: %+v", n)
	}
	if n.StartTime != 0 {
		t.Fatalf("expected start 0, got %g", n.StartTime)
	}
	want := 60.0 / 140.0
	if !almost(n.Duration, want) {
		t.Fatalf("expected duration %g, got %g", want, n.Duration)
	}
	if !almost(tl.TotalDuration, n.EndTime) {
		t.Fatalf("total duration %g should equal last end time %g", tl.TotalDuration, n.EndTime)
	}
}

func TestTickToSecondsConversion(t *testing.T) {
	doc := "Tempo=120\n[#0]\nLength=480\nLyric=a\n[#1]\nLength=240\nLyric=b\n"
	tl, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(tl.Notes) != 2 {
		t.Fatalf("expected 2 notes, got %d", len(tl.Notes))
	}
	if !almost(tl.Notes[0].Duration, 0.5) {
		t.Fatalf("Length=480 at 120bpm should last 0.5s, got %g", tl.Notes[0].Duration)
	}
	if !almost(tl.Notes[1].Duration, 0.25) {
		t.Fatalf("Length=240 at 120bpm should last 0.25s, got %g", tl.Notes[1].Duration)
	}
}

func TestNotesAreContiguous(t *testing.T) {
	doc := "Tempo=120\n" +
		"[#0]\nLength=480\nLyric=a\n" +
		"[#1]\nLength=240\nLyric=R\nNoteNum=0\n" + // dropped rest
		"[#2]\nLength=120\nLyric=b\n" +
		"[#3]\nLength=960\nLyric=c\n"
	tl, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(tl.Notes) != 3 {
		t.Fatalf("expected 3 retained notes, got %d", len(tl.Notes))
	}
	for i := 0; i+1 < len(tl.Notes); i++ {
		if !almost(tl.Notes[i].EndTime, tl.Notes[i+1].StartTime) {
			t.Fatalf("gap between note %d and %d: %g != %g",
				i, i+1, tl.Notes[i].EndTime, tl.Notes[i+1].StartTime)
		}
	}
	last := tl.Notes[len(tl.Notes)-1]
	if !almost(tl.TotalDuration, last.EndTime) {
		t.Fatalf("total duration %g != max end time %g", tl.TotalDuration, last.EndTime)
	}
}

func TestTempoFallbacks(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"malformed", "Tempo=abc\n[#0]\nLyric=a\n"},
		{"zero", "Tempo=0\n[#0]\nLyric=a\n"},
		{"too large", "Tempo=1500\n[#0]\nLyric=a\n"},
		{"absent", "[#0]\nLyric=a\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tl, err := Parse([]byte(c.doc))
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}
			if tl.Tempo != DefaultTempo {
				t.Fatalf("expected fallback tempo %g, got %g", DefaultTempo, tl.Tempo)
			}
			if len(tl.Warnings) == 0 {
				t.Fatalf("expected a warning for the tempo fallback")
			}
		})
	}
}

func TestFieldDefaultsAndLenientCoercion(t *testing.T) {
	doc := "[#0]\nLength=null\nNoteNum=garbage\nPBS=10;-2\nPBW=100,100\nPBY=3,0\nPBM=,s\nPitchBend=0,50,x\n"
	tl, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	n := tl.Notes[0]
	if n.LengthTicks != DefaultLength {
		t.Fatalf("Length=null should default to %d, got %d", DefaultLength, n.LengthTicks)
	}
	if n.NoteNum != DefaultNoteNum {
		t.Fatalf("bad NoteNum should default to %d, got %d", DefaultNoteNum, n.NoteNum)
	}
	if n.Lyric != DefaultLyric {
		t.Fatalf("missing Lyric should default to %q, got %q", DefaultLyric, n.Lyric)
	}
	if n.PBS.OffsetTicks != 10 || n.PBS.OffsetSemitones != -2 {
		t.Fatalf("unexpected PBS: %+v", n.PBS)
	}
	if len(n.PBW) != 2 || n.PBW[0] != 100 || n.PBW[1] != 100 {
		t.Fatalf("unexpected PBW: %v", n.PBW)
	}
	if len(n.PBY) != 2 || n.PBY[0] != 3 || n.PBY[1] != 0 {
		t.Fatalf("unexpected PBY: %v", n.PBY)
	}
	// bad entry in PitchBend falls back to zero rather than failing
	if len(n.PitchBend) != 3 || n.PitchBend[2] != 0 {
		t.Fatalf("unexpected PitchBend: %v", n.PitchBend)
	}
	if len(tl.Warnings) == 0 {
		t.Fatalf("expected warnings for the coerced fields")
	}
}

func TestSingleNumberPBS(t *testing.T) {
	tl, err := Parse([]byte("[#0]\nLyric=a\nPBS=-25\n"))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	pbs := tl.Notes[0].PBS
	if pbs.OffsetTicks != -25 || pbs.OffsetSemitones != 0 {
		t.Fatalf("unexpected PBS: %+v", pbs)
	}
}

func TestRestWithDefaultPitchRetained(t *testing.T) {
	// A rest block with no explicit NoteNum picks up the default pitch 60
	// and is therefore retained. Historical format behavior, kept as is.
	tl, err := Parse([]byte("[#0]\nLyric=R\n"))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(tl.Notes) != 1 {
		t.Fatalf("expected rest with default pitch to be retained, got %d notes", len(tl.Notes))
	}
}

func TestPureRestDropped(t *testing.T) {
	tl, err := Parse([]byte("[#0]\nLyric=r\nNoteNum=0\n"))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(tl.Notes) != 0 {
		t.Fatalf("expected pure rest to be dropped, got %d notes", len(tl.Notes))
	}
	if tl.TotalDuration != 0 {
		t.Fatalf("empty timeline should have duration 0, got %g", tl.TotalDuration)
	}
}

func TestReservedAndBadTokensDropped(t *testing.T) {
	doc := "[#SETTING]\nTempo=120\n[#PREV]\nLyric=x\n[#banana]\nLyric=y\n[#-1]\nLyric=z\n[#7]\nLyric=a\n[#NEXT]\nLyric=w\n"
	tl, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(tl.Notes) != 1 || tl.Notes[0].Lyric != "a" {
		t.Fatalf("expected only block 7 to survive, got %+v", tl.Notes)
	}
	if tl.Notes[0].Index != 7 {
		t.Fatalf("expected index 7, got %d", tl.Notes[0].Index)
	}
}

func TestProjectNameVerbatim(t *testing.T) {
	tl, err := Parse([]byte("ProjectName=  my song!!\n[#0]\nLyric=a\n"))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if tl.ProjectName != "  my song!!" {
		t.Fatalf("project name should be verbatim, got %q", tl.ProjectName)
	}
}

func TestShiftJISScoreDecodes(t *testing.T) {
	doc := "[#SETTING]\nTempo=120\n[#0]\nLyric=あ\nNoteNum=64\n"
	raw, err := japanese.ShiftJIS.NewEncoder().Bytes([]byte(doc))
	if err != nil {
		t.Fatalf("could not encode fixture: %v", err)
	}
	tl, err := Parse(raw)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(tl.Notes) != 1 || tl.Notes[0].Lyric != "あ" {
		t.Fatalf("expected shift-jis lyric to decode, got %+v", tl.Notes)
	}
}

func TestUndecodableBytesFallBackLossy(t *testing.T) {
	doc := []byte("[#0]\nLyric=a\xff\xff\nNoteNum=64\n")
	tl, err := Parse(doc)
	if err != nil {
		t.Fatalf("lossy fallback should not fail the parse: %v", err)
	}
	if len(tl.Notes) != 1 {
		t.Fatalf("expected 1 note, got %d", len(tl.Notes))
	}
	if !strings.HasPrefix(tl.Notes[0].Lyric, "a") {
		t.Fatalf("expected lyric to keep decodable bytes, got %q", tl.Notes[0].Lyric)
	}
}

func TestParseFileMissing(t *testing.T) {
	if _, err := ParseFile("does/not/exist.ust"); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}
