package hud

import (
	"image"
	"image/color"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"m4k/internal/physics"
	"m4k/internal/profiling"
	"m4k/internal/world"
)

func filled(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestDrawCrosshair(t *testing.T) {
	bg := color.RGBA{R: 10, G: 200, B: 30, A: 255}
	img := filled(20, 16, bg)
	DrawCrosshair(img)

	inv := color.RGBA{R: 245, G: 55, B: 225, A: 255}
	for _, p := range []image.Point{{10, 8}, {7, 8}, {13, 8}, {10, 5}, {10, 11}} {
		if got := img.RGBAAt(p.X, p.Y); got != inv {
			t.Errorf("pixel %v = %v, want %v", p, got, inv)
		}
	}
	for _, p := range []image.Point{{0, 0}, {6, 8}, {11, 9}, {10, 12}} {
		if got := img.RGBAAt(p.X, p.Y); got != bg {
			t.Errorf("pixel %v changed to %v", p, got)
		}
	}

	// Twice restores the frame.
	DrawCrosshair(img)
	if got := img.RGBAAt(10, 8); got != bg {
		t.Errorf("centre = %v after double invert", got)
	}
}

func TestCrosshairOnTinyFrame(t *testing.T) {
	img := filled(1, 1, color.RGBA{A: 255})
	DrawCrosshair(img)
	if got := img.RGBAAt(0, 0); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("centre = %v", got)
	}
}

func TestDrawTextTouchesPixels(t *testing.T) {
	bg := color.RGBA{A: 255}
	img := filled(80, 40, bg)
	DrawText(img, 2, 2, []string{"m4k", "ok"})

	changed := 0
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			changed++
		}
	}
	if changed == 0 {
		t.Fatal("no text drawn")
	}
	if got := img.RGBAAt(79, 39); got != bg {
		t.Errorf("text bled into far corner: %v", got)
	}
}

func TestTextWidth(t *testing.T) {
	if w := TextWidth("abcd"); w != 28 {
		t.Errorf("width = %d, want 28", w)
	}
	if LineHeight != 13 {
		t.Errorf("line height = %d, want 13", LineHeight)
	}
}

func TestDebugLines(t *testing.T) {
	info := Info{
		FPS:       59.6,
		FrameTime: 4200 * time.Microsecond,
		Seed:      45390874,
		Position:  mgl32.Vec3{1.5, 20, -3.25},
		Yaw:       mgl32.DegToRad(90),
		OnGround:  true,
		Target: physics.RaycastResult{
			Hit:         true,
			Block:       world.Stone,
			HitPosition: [3]int{1, 19, -4},
			Face:        world.FaceTop,
		},
	}
	lines := DebugLines(info)
	joined := strings.Join(lines, "\n")
	for _, want := range []string{"60 fps 4.2ms", "seed 45390874", "xyz 1.50 20.00 -3.25", "yaw 90 pitch 0 ground", "1,19,-4"} {
		if !strings.Contains(joined, want) {
			t.Errorf("missing %q in:\n%s", want, joined)
		}
	}
	if strings.Contains(joined, "paused") {
		t.Error("not paused")
	}
}

func TestDebugLinesProcess(t *testing.T) {
	lines := DebugLines(Info{})
	for _, l := range lines {
		if strings.HasPrefix(l, "cpu ") {
			t.Fatalf("unexpected process line %q", l)
		}
	}
	lines = DebugLines(Info{Process: profiling.ProcessStats{CPUPercent: 12.4, RSSBytes: 48 << 20, HeapBytes: 1}})
	if !strings.Contains(strings.Join(lines, "\n"), "cpu 12% mem 48M") {
		t.Errorf("missing process line in %v", lines)
	}
}
