package hud

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"m4k/internal/physics"
	"m4k/internal/profiling"
)

// CrosshairArm is the arm length of the crosshair in pixels, not counting
// the centre pixel.
const CrosshairArm = 3

var (
	textColor   = image.NewUniform(color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
	shadowColor = image.NewUniform(color.RGBA{R: 0x3f, G: 0x3f, B: 0x3f, A: 0xff})
)

// DrawCrosshair inverts a small plus sign at the centre of dst.
func DrawCrosshair(dst *image.RGBA) {
	b := dst.Bounds()
	cx := b.Min.X + b.Dx()/2
	cy := b.Min.Y + b.Dy()/2
	invert(dst, cx, cy)
	for i := 1; i <= CrosshairArm; i++ {
		invert(dst, cx-i, cy)
		invert(dst, cx+i, cy)
		invert(dst, cx, cy-i)
		invert(dst, cx, cy+i)
	}
}

func invert(dst *image.RGBA, x, y int) {
	if !(image.Point{X: x, Y: y}).In(dst.Bounds()) {
		return
	}
	c := dst.RGBAAt(x, y)
	dst.SetRGBA(x, y, color.RGBA{R: 255 - c.R, G: 255 - c.G, B: 255 - c.B, A: c.A})
}

// LineHeight is the vertical advance between text lines.
var LineHeight = basicfont.Face7x13.Metrics().Height.Ceil()

// DrawText writes lines top to bottom starting at (x, y), the top-left
// corner of the first line, with a one pixel drop shadow.
func DrawText(dst draw.Image, x, y int, lines []string) {
	face := basicfont.Face7x13
	ascent := face.Metrics().Ascent.Ceil()
	d := &font.Drawer{Dst: dst, Face: face}
	for i, line := range lines {
		base := y + ascent + i*LineHeight
		d.Src = shadowColor
		d.Dot = fixed.P(x+1, base+1)
		d.DrawString(line)
		d.Src = textColor
		d.Dot = fixed.P(x, base)
		d.DrawString(line)
	}
}

// TextWidth returns the advance of s in pixels.
func TextWidth(s string) int {
	return font.MeasureString(basicfont.Face7x13, s).Ceil()
}

// Info is what the debug overlay shows.
type Info struct {
	FPS       float64
	FrameTime time.Duration
	Seed      uint32
	Position  mgl32.Vec3
	Yaw       float32
	Pitch     float32
	OnGround  bool
	Target    physics.RaycastResult
	Paused    bool
	Process   profiling.ProcessStats
}

// DebugLines formats info for DrawText.
func DebugLines(info Info) []string {
	lines := []string{
		fmt.Sprintf("%.0f fps %.1fms", info.FPS, float64(info.FrameTime.Microseconds())/1000),
		fmt.Sprintf("seed %d", info.Seed),
		fmt.Sprintf("xyz %.2f %.2f %.2f", info.Position.X(), info.Position.Y(), info.Position.Z()),
		fmt.Sprintf("yaw %.0f pitch %.0f", mgl32.RadToDeg(info.Yaw), mgl32.RadToDeg(info.Pitch)),
	}
	if info.OnGround {
		lines[len(lines)-1] += " ground"
	}
	if ps := info.Process; ps.HeapBytes > 0 {
		lines = append(lines, fmt.Sprintf("cpu %.0f%% mem %dM", ps.CPUPercent, ps.RSSBytes>>20))
	}
	if t := info.Target; t.Hit {
		lines = append(lines, fmt.Sprintf("%v %d,%d,%d %v", t.Block, t.HitPosition[0], t.HitPosition[1], t.HitPosition[2], t.Face))
	}
	if info.Paused {
		lines = append(lines, "paused")
	}
	return lines
}
