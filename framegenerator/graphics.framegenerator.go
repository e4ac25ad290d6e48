package framegenerator

import (
	"log"
	"math"
	"os"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// loadFontFace loads the configured truetype file, falling back to the
// bundled face when the path is empty or unreadable. Lyrics are often CJK,
// so a custom font is usually wanted; the fallback keeps the run alive.
func loadFontFace(path string, size float64) font.Face {
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if f, perr := truetype.Parse(data); perr == nil {
				return truetype.NewFace(f, &truetype.Options{Size: size})
			}
		}
		log.Printf("framegenerator: could not load font %s, using bundled face", path)
	}
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		log.Fatal(err)
	}
	return truetype.NewFace(f, &truetype.Options{Size: size})
}

func setColor(dc *gg.Context, c Color, alpha float64) {
	dc.SetRGBA(c.R, c.G, c.B, alpha)
}

func shadowColor(dc *gg.Context, s Settings, alpha float64) {
	if s.TransparentBackground {
		dc.SetRGBA(0, 0, 0, 0.4*alpha)
	} else {
		dc.SetRGBA(0.12, 0.12, 0.12, alpha)
	}
}

func drawBackground(dc *gg.Context, s Settings) {
	if s.TransparentBackground {
		dc.SetRGBA(0, 0, 0, 0)
	} else {
		setColor(dc, s.BackgroundColor, 1)
	}
	dc.Clear()
}

func drawJudgmentLine(dc *gg.Context, x float64, s Settings, alpha float64) {
	setColor(dc, s.JudgmentLineColor, alpha)
	dc.SetLineWidth(2)
	dc.DrawLine(x, 0, x, float64(s.Height))
	dc.Stroke()
}

func drawNoteBox(dc *gg.Context, b NoteBox, s Settings, alpha float64) {
	radius := math.Min(b.CornerRadius, math.Min(b.W, b.H)/2)
	if b.Shadow {
		shadowColor(dc, s, alpha)
		dc.DrawRoundedRectangle(b.X+3, b.Y+3, b.W, b.H, radius)
		dc.Fill()
	}
	if b.Active {
		setColor(dc, s.ActiveNoteColor, alpha)
	} else {
		setColor(dc, s.NoteColor, alpha)
	}
	dc.DrawRoundedRectangle(b.X, b.Y, b.W, b.H, radius)
	dc.Fill()

	if b.Label != nil {
		setColor(dc, s.LyricColor, alpha)
		dc.DrawStringAnchored(b.Label.Text, b.Label.X, b.Label.Y, 0.5, 1)
	}
}

func drawCurve(dc *gg.Context, line Polyline, s Settings, alpha float64) {
	if line.Shadow {
		shadowColor(dc, s, alpha)
		strokePolyline(dc, line.Points, 2, 2, line.Width)
	}
	setColor(dc, s.PitchCurveColor, alpha)
	strokePolyline(dc, line.Points, 0, 0, line.Width)

	if line.Dots && len(line.Points) >= 2 {
		first := line.Points[0]
		last := line.Points[len(line.Points)-1]
		dc.DrawCircle(first.X, first.Y, line.DotSize)
		dc.Fill()
		dc.DrawCircle(last.X, last.Y, line.DotSize)
		dc.Fill()
	}
}

func strokePolyline(dc *gg.Context, points []Point, dx, dy, width float64) {
	dc.MoveTo(points[0].X+dx, points[0].Y+dy)
	for _, p := range points[1:] {
		dc.LineTo(p.X+dx, p.Y+dy)
	}
	dc.SetLineWidth(width)
	dc.Stroke()
}

// renderFrame rasterizes a composed draw list in order: background,
// judgment line, note boxes with lyrics, pitch curves on top.
func renderFrame(dc *gg.Context, fr Frame, s Settings) {
	drawBackground(dc, s)
	drawJudgmentLine(dc, fr.JudgmentX, s, fr.Alpha)
	for _, b := range fr.Notes {
		drawNoteBox(dc, b, s, fr.Alpha)
	}
	for _, c := range fr.Curves {
		drawCurve(dc, c, s, fr.Alpha)
	}
}
