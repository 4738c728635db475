package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"m4k/internal/world"
)

const (
	MinReachDistance = 0.1
	MaxReachDistance = 5.0
)

var inf = float32(math.Inf(1))

// Ray walks the voxel grid one cell boundary at a time (Amanatides-Woo).
// Dist is the distance along the normalised direction at which the ray
// entered Cell through Face.
type Ray struct {
	Origin mgl32.Vec3
	Dir    mgl32.Vec3

	Cell  [3]int
	Prev  [3]int
	Face  world.Face
	Dist  float32
	Steps int

	step   [3]int
	tMax   [3]float32
	tDelta [3]float32
}

// NewRay starts a ray at origin. dir need not be normalised; a zero
// direction produces a ray whose Step only advances Dist to +Inf.
func NewRay(origin, dir mgl32.Vec3) Ray {
	r := Ray{Origin: origin}
	if l := dir.Len(); l > 0 {
		r.Dir = dir.Mul(1 / l)
	}
	for i := 0; i < 3; i++ {
		o := origin[i]
		c := float32(math.Floor(float64(o)))
		r.Cell[i] = int(c)
		d := r.Dir[i]
		switch {
		case d > 0:
			r.step[i] = 1
			r.tDelta[i] = 1 / d
			r.tMax[i] = (c + 1 - o) / d
		case d < 0:
			r.step[i] = -1
			r.tDelta[i] = -1 / d
			r.tMax[i] = (o - c) / -d
		default:
			r.tDelta[i] = inf
			r.tMax[i] = inf
		}
	}
	r.Prev = r.Cell
	return r
}

// Step advances to the next cell. When boundaries on several axes are
// crossed at the same distance, X wins over Y and Y over Z, so corner and
// edge hits resolve the same way every time.
func (r *Ray) Step() {
	a := 2
	if r.tMax[0] <= r.tMax[1] && r.tMax[0] <= r.tMax[2] {
		a = 0
	} else if r.tMax[1] <= r.tMax[2] {
		a = 1
	}
	r.Steps++
	if r.step[a] == 0 {
		r.Dist = inf
		return
	}
	r.Prev = r.Cell
	r.Dist = r.tMax[a]
	r.Cell[a] += r.step[a]
	r.tMax[a] += r.tDelta[a]
	r.Face = entryFace(a, r.step[a])
}

func entryFace(axis, step int) world.Face {
	switch axis {
	case 0:
		if step > 0 {
			return world.FaceWest
		}
		return world.FaceEast
	case 1:
		if step > 0 {
			return world.FaceBottom
		}
		return world.FaceTop
	default:
		if step > 0 {
			return world.FaceNorth
		}
		return world.FaceSouth
	}
}

// Point returns the position at which the ray entered the current cell.
func (r *Ray) Point() mgl32.Vec3 {
	return r.Origin.Add(r.Dir.Mul(r.Dist))
}

// Escaped reports whether the ray is outside b and moving away from it on
// some axis, so no further cell can be inside the grid.
func (r *Ray) Escaped(b world.Bounds) bool {
	size := [3]int{b.X, b.Y, b.Z}
	for i := 0; i < 3; i++ {
		if r.Cell[i] < 0 && r.step[i] <= 0 {
			return true
		}
		if r.Cell[i] >= size[i] && r.step[i] >= 0 {
			return true
		}
	}
	return false
}

// MaxSteps bounds the number of Step calls needed to cover maxDist: a
// segment of that length crosses at most ceil(maxDist)+1 planes per axis.
func MaxSteps(maxDist float32) int {
	if maxDist <= 0 {
		return 3
	}
	return 3*int(math.Ceil(float64(maxDist))) + 3
}

// RaycastResult stores the result of a raycast operation
type RaycastResult struct {
	HitPosition      [3]int
	AdjacentPosition [3]int
	Face             world.Face
	Block            world.Block
	Distance         float32
	Steps            int
	Hit              bool
}

// Raycast finds the first non-air cell along the ray within
// [minDist, maxDist]. The starting cell is never reported.
func Raycast(start, direction mgl32.Vec3, minDist, maxDist float32, w *world.World) RaycastResult {
	r := NewRay(start, direction)
	limit := MaxSteps(maxDist)
	for r.Steps < limit {
		r.Step()
		if r.Dist > maxDist || r.Escaped(w.Bounds()) {
			break
		}
		if r.Dist < minDist {
			continue
		}
		if b := w.Get(r.Cell[0], r.Cell[1], r.Cell[2]); b != world.Air {
			return RaycastResult{
				HitPosition:      r.Cell,
				AdjacentPosition: r.Prev,
				Face:             r.Face,
				Block:            b,
				Distance:         r.Dist,
				Steps:            r.Steps,
				Hit:              true,
			}
		}
	}
	return RaycastResult{Steps: r.Steps}
}
