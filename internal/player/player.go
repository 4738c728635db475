package player

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"m4k/internal/physics"
	"m4k/internal/world"
)

const (
	EyeHeight = 1.62

	Gravity          = 24.0
	TerminalVelocity = -60.0
	WalkSpeed        = 4.3
	JumpVelocity     = 8.0

	// DefaultSensitivity is the look speed in radians per pixel of mouse travel.
	DefaultSensitivity = 0.005

	// Frames longer than this are simulated as if they took this long.
	MaxFrameTime = 0.1
	// Longest distance moved along one axis in a single sub-step.
	MaxSubstep = 0.25

	// MaxPitch is the furthest the camera may look up or down, in radians.
	MaxPitch = 89 * math.Pi / 180
)

// Player is the camera and the box it is attached to. Position is the
// centre of the feet; Yaw 0 looks toward -Z and grows clockwise seen from
// above. Pitch is positive when looking up.
type Player struct {
	Position mgl32.Vec3
	Velocity mgl32.Vec3
	Yaw      float32
	Pitch    float32
	OnGround bool

	Sensitivity float32
}

func New(pos mgl32.Vec3) *Player {
	return &Player{
		Position:    pos,
		Sensitivity: DefaultSensitivity,
	}
}

// Spawn places a new player on the world's spawn column, standing on the
// highest solid cell under any part of its box.
func Spawn(w *world.World) *Player {
	x, y, z := w.SpawnPoint()
	if g := physics.FindGroundLevel(w, x, z); !math.IsInf(float64(g), -1) {
		y = g
	}
	p := New(mgl32.Vec3{x, y, z})
	p.Position = physics.Unstick(w, physics.Clamp(w, p.Position))
	p.OnGround = physics.Grounded(w, p.Position)
	return p
}

// Eye returns the camera position.
func (p *Player) Eye() mgl32.Vec3 {
	return p.Position.Add(mgl32.Vec3{0, EyeHeight, 0})
}

// Front returns the unit view direction.
func (p *Player) Front() mgl32.Vec3 {
	return Front(p.Yaw, p.Pitch)
}

// Front returns the unit view direction for a yaw and pitch in radians.
func Front(yaw, pitch float32) mgl32.Vec3 {
	sy, cy := math.Sincos(float64(yaw))
	sp, cp := math.Sincos(float64(pitch))
	return mgl32.Vec3{float32(sy * cp), float32(sp), float32(-cy * cp)}
}

// Right returns the unit horizontal vector to the right of the view.
func Right(yaw float32) mgl32.Vec3 {
	sy, cy := math.Sincos(float64(yaw))
	return mgl32.Vec3{float32(cy), 0, float32(sy)}
}

// Target returns the block under the crosshair within reach.
func (p *Player) Target(w *world.World) physics.RaycastResult {
	return physics.Raycast(p.Eye(), p.Front(), physics.MinReachDistance, physics.MaxReachDistance, w)
}
