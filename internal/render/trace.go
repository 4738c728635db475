package render

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"

	"m4k/internal/physics"
	"m4k/internal/texture"
	"m4k/internal/world"
)

// Hit describes the first visible surface along a ray.
type Hit struct {
	Cell  [3]int
	Face  world.Face
	Block world.Block
	Dist  float32
	Steps int
	U, V  int        // texel in the face's tile
	Color color.RGBA // unshaded texel
	Hit   bool
}

// Trace marches from origin along dir for at most maxDist and returns the
// first non-empty cell whose texel is not transparent. Cells outside the
// world are empty. With a nil atlas every non-empty cell is a hit. The
// starting cell is skipped, as is everything after the ray leaves the
// world moving away from it.
func Trace(origin, dir mgl32.Vec3, maxDist float32, w *world.World, a *texture.Atlas) Hit {
	ray := physics.NewRay(origin, dir)
	bounds := w.Bounds()
	limit := physics.MaxSteps(maxDist)
	for ray.Steps < limit {
		ray.Step()
		if ray.Dist > maxDist || ray.Escaped(bounds) {
			break
		}
		b := w.Get(ray.Cell[0], ray.Cell[1], ray.Cell[2])
		if b == world.Air {
			continue
		}
		h := Hit{
			Cell:  ray.Cell,
			Face:  ray.Face,
			Block: b,
			Dist:  ray.Dist,
			Steps: ray.Steps,
			Hit:   true,
		}
		h.U, h.V = texCoord(ray.Point(), ray.Cell, ray.Face)
		if a != nil {
			h.Color = a.Texel(b, ray.Face, h.U, h.V)
			if h.Color.A == 0 {
				continue
			}
		}
		return h
	}
	return Hit{Steps: ray.Steps}
}

// texCoord maps a point on a face of cell to a texel. On side faces v runs
// down from the top edge of the block; on top and bottom faces u follows X
// and v follows Z.
func texCoord(p mgl32.Vec3, cell [3]int, face world.Face) (u, v int) {
	fx := p.X() - float32(cell[0])
	fy := p.Y() - float32(cell[1])
	fz := p.Z() - float32(cell[2])
	switch face {
	case world.FaceTop, world.FaceBottom:
		return texel(fx), texel(fz)
	case world.FaceNorth, world.FaceSouth:
		return texel(fx), texel(1 - fy)
	default:
		return texel(fz), texel(1 - fy)
	}
}

func texel(f float32) int {
	i := int(f * texture.TileSize)
	return min(max(i, 0), texture.TileSize-1)
}
