package framegenerator

// Color is an RGB triple in [0,1]. It marshals as a "#rrggbb" hex string so
// saved settings stay hand-editable.
type Color struct {
	R float64
	G float64
	B float64
}

// FrameContext is everything one composited frame depends on. It is built
// fresh per frame and never persisted.
type FrameContext struct {
	CurrentTime    float64
	Width          float64
	Height         float64
	ScrollSpeed    float64
	JudgmentLineX  float64
	LeadInTime     float64
	TotalDuration  float64
	FadeDuration   float64
	VerticalOffset float64
}

type Point struct {
	X float64
	Y float64
}

// Label is a text draw anchored at a bottom-center point.
type Label struct {
	Text string
	X    float64
	Y    float64
}

// NoteBox is one note rectangle in the frame's draw list.
type NoteBox struct {
	X            float64
	Y            float64
	W            float64
	H            float64
	CornerRadius float64
	Shadow       bool
	Active       bool
	Label        *Label
}

// Polyline is a pitch-curve stroke with optional shadow and endpoint dots.
type Polyline struct {
	Points  []Point
	Width   float64
	Shadow  bool
	Dots    bool
	DotSize float64
}

// Frame is the ordered draw list for one playback instant: judgment line,
// then note boxes with their labels, then curve overlays on top. Alpha is
// the frame-wide fade value applied to every draw.
type Frame struct {
	Alpha     float64
	JudgmentX float64
	Notes     []NoteBox
	Curves    []Polyline
}
