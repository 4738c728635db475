package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"m4k/internal/world"
)

// Player box: Position is the centre of the feet.
const (
	HalfWidth = 0.3
	Height    = 1.8

	groundProbe = 0.01
)

// Solid reports whether cell (x, y, z) blocks movement. The sides and
// floor of the world act as walls; the sky above it is open.
func Solid(w *world.World, x, y, z int) bool {
	b := w.Bounds()
	if x < 0 || x >= b.X || z < 0 || z >= b.Z || y < 0 {
		return true
	}
	if y >= b.Y {
		return false
	}
	return w.Get(x, y, z).Solid()
}

// Collides reports whether the player box at pos overlaps a solid cell.
// Touching a face is not an overlap.
func Collides(w *world.World, pos mgl32.Vec3) bool {
	minX, maxX := cellSpan(pos.X()-HalfWidth, pos.X()+HalfWidth)
	minY, maxY := cellSpan(pos.Y(), pos.Y()+Height)
	minZ, maxZ := cellSpan(pos.Z()-HalfWidth, pos.Z()+HalfWidth)
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			for z := minZ; z <= maxZ; z++ {
				if Solid(w, x, y, z) {
					return true
				}
			}
		}
	}
	return false
}

// cellSpan returns the cells overlapped by the open interval (lo, hi).
func cellSpan(lo, hi float32) (int, int) {
	return int(math.Floor(float64(lo))), int(math.Ceil(float64(hi))) - 1
}

// Grounded reports whether something solid is directly under the feet.
func Grounded(w *world.World, pos mgl32.Vec3) bool {
	return !Collides(w, pos) && Collides(w, pos.Sub(mgl32.Vec3{0, groundProbe, 0}))
}

// Clamp keeps the player box inside the horizontal bounds and above the
// floor of the world.
func Clamp(w *world.World, pos mgl32.Vec3) mgl32.Vec3 {
	b := w.Bounds()
	pos[0] = clampf(pos[0], HalfWidth, float32(b.X)-HalfWidth)
	pos[2] = clampf(pos[2], HalfWidth, float32(b.Z)-HalfWidth)
	if pos[1] < 0 {
		pos[1] = 0
	}
	return pos
}

func clampf(v, lo, hi float32) float32 {
	if hi < lo {
		return (lo + hi) / 2
	}
	return min(max(v, lo), hi)
}

// Unstick lifts pos cell by cell until the box is free. The space above
// the world is empty, so this always terminates.
func Unstick(w *world.World, pos mgl32.Vec3) mgl32.Vec3 {
	top := float32(w.Bounds().Y)
	for Collides(w, pos) && pos[1] <= top {
		pos[1] = float32(math.Floor(float64(pos[1]))) + 1
	}
	return pos
}

// MoveAxis moves pos by d along axis if the destination is free.
// Otherwise it returns the furthest free position found by bisection and
// blocked = true. pos itself must be free.
func MoveAxis(w *world.World, pos mgl32.Vec3, axis int, d float32) (mgl32.Vec3, bool) {
	cand := pos
	cand[axis] += d
	if !Collides(w, cand) {
		return cand, false
	}
	lo, hi := float32(0), d
	for i := 0; i < 10; i++ {
		mid := (lo + hi) / 2
		probe := pos
		probe[axis] += mid
		if Collides(w, probe) {
			hi = mid
		} else {
			lo = mid
		}
	}
	pos[axis] += lo
	return pos, true
}

// FindGroundLevel returns the feet height of a player standing on the
// highest solid cell under the box at (x, z), or -Inf if there is none.
func FindGroundLevel(w *world.World, x, z float32) float32 {
	minX, maxX := cellSpan(x-HalfWidth, x+HalfWidth)
	minZ, maxZ := cellSpan(z-HalfWidth, z+HalfWidth)
	best := float32(math.Inf(-1))
	for bx := minX; bx <= maxX; bx++ {
		for bz := minZ; bz <= maxZ; bz++ {
			if h := w.SolidHeight(bx, bz); h >= 0 && float32(h+1) > best {
				best = float32(h + 1)
			}
		}
	}
	return best
}
