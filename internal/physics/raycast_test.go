package physics_test

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"m4k/internal/physics"
	"m4k/internal/world"
)

func newWorld(t testing.TB, b world.Bounds) *world.World {
	t.Helper()
	w, err := world.NewEmpty(b)
	if err != nil {
		t.Fatal(err)
	}
	return w
}

func TestRaycast(t *testing.T) {
	w := newWorld(t, world.Bounds{X: 16, Y: 16, Z: 16})
	w.Set(5, 0, 0, world.Stone)

	// Test 1: Raycast hitting the block
	start := mgl32.Vec3{0.5, 0.5, 0.5}
	dir := mgl32.Vec3{1, 0, 0}

	result := physics.Raycast(start, dir, 0.1, 10, w)
	if !result.Hit {
		t.Fatalf("Expected hit, got miss")
	}
	if result.HitPosition != [3]int{5, 0, 0} {
		t.Errorf("Expected hit at {5,0,0}, got %v", result.HitPosition)
	}
	if result.AdjacentPosition != [3]int{4, 0, 0} {
		t.Errorf("Expected adjacent at {4,0,0}, got %v", result.AdjacentPosition)
	}
	if result.Face != world.FaceWest {
		t.Errorf("Expected west face, got %v", result.Face)
	}
	// Ray starts at X=0.5 and enters the cell at X=5.
	if math.Abs(float64(result.Distance)-4.5) > 1e-4 {
		t.Errorf("Expected distance 4.5, got %f", result.Distance)
	}

	// Test 2: Raycast missing (max dist)
	if r := physics.Raycast(start, dir, 0.1, 4, w); r.Hit {
		t.Errorf("Expected miss due to maxDist, got hit at %v", r.HitPosition)
	}

	// Test 3: Raycast missing (wrong direction)
	if r := physics.Raycast(start, mgl32.Vec3{0, 1, 0}, 0.1, 10, w); r.Hit {
		t.Errorf("Expected miss, got hit")
	}

	// Test 4: diagonal into (2,2,2)
	w.Set(2, 2, 2, world.Stone)
	diag := physics.Raycast(start, mgl32.Vec3{1, 1, 1}, 0.1, 10, w)
	if !diag.Hit || diag.HitPosition != [3]int{2, 2, 2} {
		t.Errorf("Expected hit at {2,2,2}, got %+v", diag)
	}
}

func TestRaycastFaces(t *testing.T) {
	w := newWorld(t, world.Bounds{X: 9, Y: 9, Z: 9})
	w.Set(4, 4, 4, world.Brick)
	c := mgl32.Vec3{4.5, 4.5, 4.5}
	tests := []struct {
		name string
		from mgl32.Vec3
		face world.Face
	}{
		{"from above", c.Add(mgl32.Vec3{0, 3, 0}), world.FaceTop},
		{"from below", c.Add(mgl32.Vec3{0, -3, 0}), world.FaceBottom},
		{"from -x", c.Add(mgl32.Vec3{-3, 0, 0}), world.FaceWest},
		{"from +x", c.Add(mgl32.Vec3{3, 0, 0}), world.FaceEast},
		{"from -z", c.Add(mgl32.Vec3{0, 0, -3}), world.FaceNorth},
		{"from +z", c.Add(mgl32.Vec3{0, 0, 3}), world.FaceSouth},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := physics.Raycast(tt.from, c.Sub(tt.from), 0, 10, w)
			if !r.Hit {
				t.Fatal("expected hit")
			}
			if r.Face != tt.face {
				t.Errorf("face = %v, want %v", r.Face, tt.face)
			}
			if math.Abs(float64(r.Distance)-2.5) > 1e-4 {
				t.Errorf("distance = %v, want 2.5", r.Distance)
			}
		})
	}
}

// A ray through an exact cell corner crosses X first, then Y, then Z.
func TestRayTieBreak(t *testing.T) {
	r := physics.NewRay(mgl32.Vec3{0.5, 0.5, 0.5}, mgl32.Vec3{1, 1, 1})
	want := [][3]int{{1, 0, 0}, {1, 1, 0}, {1, 1, 1}, {2, 1, 1}}
	for i, cell := range want {
		r.Step()
		if r.Cell != cell {
			t.Fatalf("step %d: cell %v, want %v", i, r.Cell, cell)
		}
	}
}

func TestRayTerminates(t *testing.T) {
	w := newWorld(t, world.Bounds{X: 32, Y: 32, Z: 32})
	dirs := []mgl32.Vec3{
		{1, 0, 0}, {0, 0, 0}, {1e-7, 1, 0}, {-1, -1, -1}, {0.3, -0.01, 0.7},
	}
	const maxDist = 20
	for _, d := range dirs {
		r := physics.Raycast(mgl32.Vec3{16.2, 16.7, 16.1}, d, 0, maxDist, w)
		if r.Hit {
			t.Errorf("dir %v: unexpected hit in empty world", d)
		}
		if r.Steps > physics.MaxSteps(maxDist) {
			t.Errorf("dir %v: %d steps, bound %d", d, r.Steps, physics.MaxSteps(maxDist))
		}
	}
}

func TestRayEscapes(t *testing.T) {
	r := physics.NewRay(mgl32.Vec3{2.5, 2.5, 2.5}, mgl32.Vec3{0, 1, 0})
	b := world.Bounds{X: 4, Y: 4, Z: 4}
	for !r.Escaped(b) {
		r.Step()
		if r.Steps > 10 {
			t.Fatal("ray never left the grid")
		}
	}
	if r.Cell[1] != 4 {
		t.Errorf("escaped at y=%d, want 4", r.Cell[1])
	}
}

func TestRaycastMinDistance(t *testing.T) {
	w := newWorld(t, world.Bounds{X: 8, Y: 8, Z: 8})
	w.Set(1, 0, 0, world.Stone)
	w.Set(3, 0, 0, world.Dirt)
	r := physics.Raycast(mgl32.Vec3{0.5, 0.5, 0.5}, mgl32.Vec3{1, 0, 0}, 1, 8, w)
	if !r.Hit || r.Block != world.Dirt {
		t.Errorf("expected to skip the near block and hit dirt, got %+v", r)
	}
}
