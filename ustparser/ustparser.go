package ustparser

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"strconv"
	"strings"
)

var (
	blockHeaderRe = regexp.MustCompile(`\[#([^\]\r\n]*)\]`)
	tempoRe       = regexp.MustCompile(`Tempo=([0-9.]+)`)
	projectNameRe = regexp.MustCompile(`ProjectName=([^\r\n]+)`)
)

// Control blocks carry settings or track markers, never notes.
var reservedTokens = map[string]bool{
	"SETTING":  true,
	"TRACKEND": true,
	"PREV":     true,
	"NEXT":     true,
}

type block struct {
	index   int
	content string
}

// ParseFile reads and decodes a UST score. An unreadable file fails the
// whole parse; everything past that point degrades to defaults instead.
func ParseFile(path string) (*Timeline, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read score: %w", err)
	}
	return Parse(raw)
}

// Parse decodes raw score bytes into a positioned note timeline. It never
// fails on malformed content: every bad field resolves to its documented
// default and is recorded on Timeline.Warnings.
func Parse(raw []byte) (*Timeline, error) {
	p := &parser{}
	text, encName := decodeText(raw)
	log.Printf("ustparser: decoded score as %s", encName)

	tl := &Timeline{}
	p.extractMetadata(text, tl)
	p.buildTimeline(noteBlocks(text), tl)
	tl.Warnings = p.warnings
	log.Printf("ustparser: %d notes, tempo %g, total %.2fs", len(tl.Notes), tl.Tempo, tl.TotalDuration)
	return tl, nil
}

// extractMetadata pulls Tempo and ProjectName out of the full document.
// Tempo outside (0, 1000] falls back to 120.
func (p *parser) extractMetadata(text string, tl *Timeline) {
	tl.Tempo = DefaultTempo
	if m := tempoRe.FindStringSubmatch(text); m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil || v <= 0 || v > maxTempo {
			p.warnf("tempo %q unusable, using %g", m[1], DefaultTempo)
		} else {
			tl.Tempo = v
		}
	} else {
		p.warnf("no tempo in score, using %g", DefaultTempo)
	}

	if m := projectNameRe.FindStringSubmatch(text); m != nil {
		tl.ProjectName = m[1]
	}
}

// noteBlocks splits the document at [#token] headers and keeps only blocks
// whose token is a non-negative integer; control blocks and unparsable
// tokens are dropped here so the field pass only ever sees note blocks.
func noteBlocks(text string) []block {
	headers := blockHeaderRe.FindAllStringSubmatchIndex(text, -1)
	var blocks []block
	for i, h := range headers {
		token := text[h[2]:h[3]]
		if reservedTokens[strings.ToUpper(strings.TrimSpace(token))] {
			continue
		}
		index, err := strconv.Atoi(strings.TrimSpace(token))
		if err != nil || index < 0 {
			continue
		}
		end := len(text)
		if i+1 < len(headers) {
			end = headers[i+1][0]
		}
		blocks = append(blocks, block{index: index, content: text[h[1]:end]})
	}
	return blocks
}

// parseNote extracts the fields of one block. Every key is optional and
// every coercion is total, so a block of garbage still yields a note.
func (p *parser) parseNote(b block) Note {
	n := Note{
		Index:       b.index,
		LengthTicks: DefaultLength,
		Lyric:       DefaultLyric,
		NoteNum:     DefaultNoteNum,
	}
	for _, line := range strings.Split(b.content, "\n") {
		key, val, found := strings.Cut(strings.TrimRight(line, "\r"), "=")
		if !found {
			continue
		}
		switch strings.TrimSpace(key) {
		case "Length":
			n.LengthTicks = p.intOr(val, DefaultLength)
			if n.LengthTicks < 0 {
				p.warnf("note %d: negative length %d, using %d", b.index, n.LengthTicks, DefaultLength)
				n.LengthTicks = DefaultLength
			}
		case "Lyric":
			if v := strings.TrimSpace(val); v != "" {
				n.Lyric = v
			}
		case "NoteNum":
			n.NoteNum = p.intOr(val, DefaultNoteNum)
		case "PBS":
			n.PBS = p.parsePBS(val)
		case "PBW":
			n.PBW = p.floatList(val)
		case "PBY":
			n.PBY = p.floatList(val)
		case "PBM":
			n.PBM = tagList(val)
		case "PitchBend":
			n.PitchBend = p.intList(val)
		}
	}
	return n
}

// buildTimeline walks the note blocks in file order, converting tick
// lengths to seconds at the document tempo and positioning each retained
// note flush against the previous one. A block is dropped only when it is
// both a rest lyric and has a non-positive pitch number; a rest that picked
// up the default pitch of 60 is retained, matching the format's historical
// behavior.
func (p *parser) buildTimeline(blocks []block, tl *Timeline) {
	quarterSeconds := 60.0 / tl.Tempo
	currentTime := 0.0
	for _, b := range blocks {
		n := p.parseNote(b)
		if n.IsRest() && n.NoteNum <= 0 {
			continue
		}
		n.Duration = float64(n.LengthTicks) / TicksPerQuarter * quarterSeconds
		n.StartTime = currentTime
		n.EndTime = currentTime + n.Duration
		currentTime += n.Duration
		tl.Notes = append(tl.Notes, n)
	}
	for _, n := range tl.Notes {
		if n.EndTime > tl.TotalDuration {
			tl.TotalDuration = n.EndTime
		}
	}
}
