package player

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Look turns the camera by a mouse motion in pixels. Moving right turns
// right; moving down looks down.
func (p *Player) Look(dx, dy float64) {
	s := float64(p.Sensitivity)
	p.Yaw = wrapAngle(p.Yaw + float32(dx*s))
	p.Pitch -= float32(dy * s)

	// Constrain pitch
	p.Pitch = mgl32.Clamp(p.Pitch, -MaxPitch, MaxPitch)
}

// wrapAngle keeps a yaw in [-pi, pi) so it does not lose precision over a
// long session.
func wrapAngle(a float32) float32 {
	const twoPi = 2 * math.Pi
	if a >= math.Pi || a < -math.Pi {
		a = float32(math.Remainder(float64(a), twoPi))
	}
	if a >= math.Pi {
		a -= twoPi
	}
	return a
}
