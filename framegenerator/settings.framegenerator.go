package framegenerator

import (
	"encoding/json"
	"fmt"
	"os"
)

const (
	// Notes narrower than this on screen are skipped for the frame.
	minNoteWidth = 5
	// Surviving notes are widened to at least this many pixels.
	minDrawWidth = 10
	// Pitch 108 (C8) maps to the top of the viewport, pitch 0 to the bottom.
	maxPitch = 108

	frameFilePattern   = "frame_%06d.png"
	progressEveryFrame = 30
	maxWorkers         = 16
)

// Settings is the read-only configuration surface of a render run. The
// zero value is not usable; start from DefaultSettings.
type Settings struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	FPS    int `json:"fps"`

	ScrollSpeed          float64 `json:"scroll_speed"`
	JudgmentLinePosition float64 `json:"judgment_line_position"`
	FadeDuration         float64 `json:"fade_duration"`
	VerticalOffset       float64 `json:"vertical_offset"`

	NoteHeight            float64 `json:"note_height"`
	NoteCornerRadius      float64 `json:"note_corner_radius"`
	NoteShadow            bool    `json:"note_shadow"`
	TransparentBackground bool    `json:"transparent_background"`
	LyricOffset           float64 `json:"lyric_offset"`

	FontPath string  `json:"font_path"`
	FontSize float64 `json:"font_size"`

	ShowPitchCurve       bool    `json:"show_pitch_curve"`
	PitchCurveWidth      float64 `json:"pitch_curve_width"`
	PitchCurveShadow     bool    `json:"pitch_curve_shadow"`
	PitchCurveDots       bool    `json:"pitch_curve_dots"`
	PitchCurveDotSize    float64 `json:"pitch_curve_dot_size"`
	PitchCurveSmoothness int     `json:"pitch_curve_smoothness"`

	NoteColor         Color `json:"note_color"`
	ActiveNoteColor   Color `json:"active_note_color"`
	LyricColor        Color `json:"lyric_color"`
	BackgroundColor   Color `json:"background_color"`
	JudgmentLineColor Color `json:"judgment_line_color"`
	PitchCurveColor   Color `json:"pitch_curve_color"`
}

func DefaultSettings() Settings {
	return Settings{
		Width:  1920,
		Height: 1080,
		FPS:    30,

		ScrollSpeed:          500,
		JudgmentLinePosition: 0.2,
		FadeDuration:         1.0,
		VerticalOffset:       0,

		NoteHeight:            20,
		NoteCornerRadius:      5,
		NoteShadow:            true,
		TransparentBackground: false,
		LyricOffset:           15,

		FontSize: 24,

		ShowPitchCurve:       true,
		PitchCurveWidth:      3,
		PitchCurveShadow:     true,
		PitchCurveDots:       true,
		PitchCurveDotSize:    5,
		PitchCurveSmoothness: 50,

		NoteColor:         Color{1, 0, 0},
		ActiveNoteColor:   Color{0, 1, 0},
		LyricColor:        Color{1, 1, 1},
		BackgroundColor:   Color{0, 0, 0},
		JudgmentLineColor: Color{1, 1, 0},
		PitchCurveColor:   Color{0, 1, 1},
	}
}

// LoadSettings reads a JSON settings file over the defaults, so partial
// files only override what they mention.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	raw, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read settings: %w", err)
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return s, fmt.Errorf("decode settings: %w", err)
	}
	return s, nil
}

// Save writes the settings as indented JSON.
func (s Settings) Save(path string) error {
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

func (c Color) MarshalJSON() ([]byte, error) {
	hex := fmt.Sprintf("\"#%02x%02x%02x\"", channelByte(c.R), channelByte(c.G), channelByte(c.B))
	return []byte(hex), nil
}

func (c *Color) UnmarshalJSON(raw []byte) error {
	var hex string
	if err := json.Unmarshal(raw, &hex); err != nil {
		return err
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return fmt.Errorf("bad color %q: %w", hex, err)
	}
	*c = Color{float64(r) / 255, float64(g) / 255, float64(b) / 255}
	return nil
}

func channelByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
