package world

import (
	"crypto/sha256"
	"errors"
	"fmt"
)

// ErrInvalidBounds is returned when a world is requested with a
// non-positive dimension.
var ErrInvalidBounds = errors.New("world: bounds must be positive")

// Bounds is the size of the world grid. Y is up.
type Bounds struct {
	X, Y, Z int
}

func (b Bounds) validate() error {
	if b.X <= 0 || b.Y <= 0 || b.Z <= 0 {
		return fmt.Errorf("%w: %dx%dx%d", ErrInvalidBounds, b.X, b.Y, b.Z)
	}
	return nil
}

// Volume returns the number of cells.
func (b Bounds) Volume() int { return b.X * b.Y * b.Z }

func (b Bounds) String() string { return fmt.Sprintf("%dx%dx%d", b.X, b.Y, b.Z) }

// World is a dense, fixed-size voxel grid. It is written only during
// generation; afterwards it is read-only and safe to share between
// goroutines.
type World struct {
	bounds Bounds
	blocks []Block
	seed   uint32
}

// NewEmpty returns an all-air world. Used by tests and by the generator.
func NewEmpty(b Bounds) (*World, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}
	return &World{bounds: b, blocks: make([]Block, b.Volume())}, nil
}

// Bounds returns the world size.
func (w *World) Bounds() Bounds { return w.bounds }

// Seed returns the seed the world was generated from.
func (w *World) Seed() uint32 { return w.seed }

// InBounds reports whether (x, y, z) addresses a cell of the grid.
func (w *World) InBounds(x, y, z int) bool {
	return x >= 0 && x < w.bounds.X &&
		y >= 0 && y < w.bounds.Y &&
		z >= 0 && z < w.bounds.Z
}

// index lays cells out column by column: x major, then z, then y, so a
// vertical column is contiguous.
func (w *World) index(x, y, z int) int {
	return (x*w.bounds.Z+z)*w.bounds.Y + y
}

// Get returns the block at (x, y, z). Out-of-bounds cells are Air.
func (w *World) Get(x, y, z int) Block {
	if !w.InBounds(x, y, z) {
		return Air
	}
	return w.blocks[w.index(x, y, z)]
}

// Set stores b at (x, y, z); out-of-bounds writes are ignored.
func (w *World) Set(x, y, z int, b Block) {
	if !w.InBounds(x, y, z) {
		return
	}
	w.blocks[w.index(x, y, z)] = b
}

// column returns the contiguous slice holding column (x, z), bottom first.
func (w *World) column(x, z int) []Block {
	start := w.index(x, 0, z)
	return w.blocks[start : start+w.bounds.Y]
}

// SurfaceHeight returns the y of the highest non-air cell in column (x, z),
// or -1 if the column is empty or out of bounds.
func (w *World) SurfaceHeight(x, z int) int {
	if x < 0 || x >= w.bounds.X || z < 0 || z >= w.bounds.Z {
		return -1
	}
	col := w.column(x, z)
	for y := len(col) - 1; y >= 0; y-- {
		if col[y] != Air {
			return y
		}
	}
	return -1
}

// SolidHeight is like SurfaceHeight but only counts solid blocks, so water
// and other non-solid cells are skipped.
func (w *World) SolidHeight(x, z int) int {
	if x < 0 || x >= w.bounds.X || z < 0 || z >= w.bounds.Z {
		return -1
	}
	col := w.column(x, z)
	for y := len(col) - 1; y >= 0; y-- {
		if col[y].Solid() {
			return y
		}
	}
	return -1
}

// Digest returns a SHA-256 over the bounds and every cell.
func (w *World) Digest() [32]byte {
	h := sha256.New()
	fmt.Fprintf(h, "%d,%d,%d;", w.bounds.X, w.bounds.Y, w.bounds.Z)
	raw := make([]byte, len(w.blocks))
	for i, b := range w.blocks {
		raw[i] = byte(b)
	}
	h.Write(raw)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// SpawnPoint returns the feet position of a player standing on the
// highest solid cell of the centre column.
func (w *World) SpawnPoint() (x, y, z float32) {
	cx, cz := w.bounds.X/2, w.bounds.Z/2
	h := w.SolidHeight(cx, cz)
	return float32(cx) + 0.5, float32(h + 1), float32(cz) + 0.5
}
