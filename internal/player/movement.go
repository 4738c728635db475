package player

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"m4k/internal/input"
	"m4k/internal/physics"
	"m4k/internal/profiling"
	"m4k/internal/world"
)

// Update advances the player by dt seconds using one input snapshot.
// The box never ends a call overlapping a solid cell.
func (p *Player) Update(dt float64, snap input.Snapshot, w *world.World) {
	defer profiling.Track("player.Update")()

	if dt < 0 || math.IsNaN(dt) {
		dt = 0
	}
	dt = min(dt, MaxFrameTime)

	if snap.Mouse.Captured {
		p.Look(snap.Mouse.DX, snap.Mouse.DY)
	}

	p.Position = physics.Unstick(w, physics.Clamp(w, p.Position))
	grounded := physics.Grounded(w, p.Position)

	p.applyWalk(snap)

	switch {
	case grounded && snap.Down(input.KeyJump):
		p.Velocity[1] = JumpVelocity
	case grounded:
		p.Velocity[1] = max(p.Velocity[1], 0)
	default:
		p.Velocity[1] -= float32(Gravity * dt)
		p.Velocity[1] = max(p.Velocity[1], TerminalVelocity)
	}

	p.integrate(float32(dt), w)

	p.Position = physics.Unstick(w, physics.Clamp(w, p.Position))
	p.OnGround = physics.Grounded(w, p.Position)
}

// applyWalk sets the horizontal velocity from the movement keys.
func (p *Player) applyWalk(snap input.Snapshot) {
	var forward, strafe float32
	if snap.Down(input.KeyForward) {
		forward++
	}
	if snap.Down(input.KeyBack) {
		forward--
	}
	if snap.Down(input.KeyRight) {
		strafe++
	}
	if snap.Down(input.KeyLeft) {
		strafe--
	}

	f := Front(p.Yaw, 0)
	r := Right(p.Yaw)
	move := f.Mul(forward).Add(r.Mul(strafe))
	if l := move.Len(); l > 0 {
		move = move.Mul(WalkSpeed / l)
	}
	p.Velocity[0] = move[0]
	p.Velocity[2] = move[2]
}

var axisOrder = [3]int{0, 2, 1}

// integrate moves by Velocity*dt in sub-steps short enough that no step
// skips over a cell. A blocked axis loses its velocity for the rest of
// the frame.
func (p *Player) integrate(dt float32, w *world.World) {
	disp := p.Velocity.Mul(dt)
	longest := max(abs(disp[0]), abs(disp[1]), abs(disp[2]))
	n := max(1, int(math.Ceil(float64(longest/MaxSubstep))))
	step := disp.Mul(1 / float32(n))

	for i := 0; i < n; i++ {
		for _, axis := range axisOrder {
			if step[axis] == 0 {
				continue
			}
			var blocked bool
			p.Position, blocked = physics.MoveAxis(w, p.Position, axis, step[axis])
			if blocked {
				step[axis] = 0
				p.Velocity[axis] = 0
			}
		}
	}
}

func abs(v float32) float32 {
	return mgl32.Abs(v)
}
