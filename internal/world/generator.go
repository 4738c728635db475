package world

import (
	"context"
	"math"
	"runtime"

	"github.com/aquilax/go-perlin"
	"golang.org/x/sync/errgroup"

	"m4k/internal/rng"
)

// Salts separate the terrain stream from other consumers of the same seed.
const (
	terrainSalt uint32 = 0x7e44a1
	treeSalt    uint32 = 0x7ee5
	gravelSalt  uint32 = 0x64a7
)

const (
	perlinAlpha   = 2.0
	perlinBeta    = 2.0
	perlinOctaves = 3

	treeChance    = 3 // per 100 grass columns
	gravelChance  = 48
	treeMinHeight = 4
)

// Options tunes generation. The zero value is usable.
type Options struct {
	// Workers bounds the number of goroutines filling columns.
	// Zero means runtime.NumCPU().
	Workers int
	// NoTrees disables tree placement.
	NoTrees bool
}

// Generator turns a seed into terrain. All parameters are drawn from one
// PRG stream in a fixed order at construction, so a Generator is a pure
// function of (seed, bounds).
type Generator struct {
	seed   uint32
	bounds Bounds
	opts   Options

	noise    *perlin.Perlin
	scale    float64
	base     int
	amp      float64
	seaLevel int
}

// NewGenerator derives generation parameters for seed and bounds.
func NewGenerator(seed uint32, b Bounds, opts Options) (*Generator, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}
	src := rng.New(rng.Mix(seed, terrainSalt))

	// Draw order is part of the seed-to-world mapping; do not reorder.
	noiseSeed := int64(src.Next())
	base := b.Y*7/16 + src.Intn(max(1, b.Y/16))
	amp := float64(b.Y) / 4 * (0.75 + 0.5*float64(src.Float32()))
	scale := 1.0 / float64(24+src.Intn(16))
	sea := base - 1 - src.Intn(2)

	return &Generator{
		seed:     seed,
		bounds:   b,
		opts:     opts,
		noise:    perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, noiseSeed),
		scale:    scale,
		base:     base,
		amp:      amp,
		seaLevel: sea,
	}, nil
}

// Generate builds the world for seed with default options.
func Generate(seed uint32, b Bounds) (*World, error) {
	g, err := NewGenerator(seed, b, Options{})
	if err != nil {
		return nil, err
	}
	return g.Generate(context.Background())
}

// SeaLevel returns the water surface height.
func (g *Generator) SeaLevel() int { return g.seaLevel }

// HeightAt returns the surface y of column (x, z). It is always within
// [lo, Y-1] where lo is 1 when the world is at least two cells tall, so
// every column holds at least one block above the bedrock floor.
func (g *Generator) HeightAt(x, z int) int {
	n := g.noise.Noise2D(float64(x)*g.scale, float64(z)*g.scale)
	h := g.base + int(math.Floor(n*g.amp))
	lo := min(1, g.bounds.Y-1)
	return min(max(h, lo), g.bounds.Y-1)
}

// Generate allocates and populates a new world.
func (g *Generator) Generate(ctx context.Context) (*World, error) {
	w, err := NewEmpty(g.bounds)
	if err != nil {
		return nil, err
	}
	w.seed = g.seed
	if err := g.Populate(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// Populate fills w in two phases. Columns are filled in parallel over
// disjoint x ranges, each goroutine owning its own slice of the grid.
// Trees can straddle ranges, so they are placed afterwards on one
// goroutine, each decided by a hash of its column.
func (g *Generator) Populate(ctx context.Context, w *World) error {
	if w.bounds != g.bounds {
		return ErrInvalidBounds
	}
	workers := g.opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, g.bounds.X)
	band := (g.bounds.X + workers - 1) / workers

	eg, ctx := errgroup.WithContext(ctx)
	for x0 := 0; x0 < g.bounds.X; x0 += band {
		x1 := min(x0+band, g.bounds.X)
		eg.Go(func() error {
			for x := x0; x < x1; x++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				for z := 0; z < g.bounds.Z; z++ {
					g.fillColumn(w, x, z)
				}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	if !g.opts.NoTrees {
		g.plantTrees(w)
	}
	return nil
}

func (g *Generator) fillColumn(w *World, x, z int) {
	col := w.column(x, z)
	h := g.HeightAt(x, z)
	beach := h <= g.seaLevel+1

	for y := 0; y <= h; y++ {
		var b Block
		switch {
		case y == 0:
			b = Bedrock
		case y < h-3:
			b = Stone
			if rng.Mix(rng.Mix2(g.seed^gravelSalt, x, z), uint32(y))%gravelChance == 0 {
				b = Gravel
			}
		case y < h:
			b = Dirt
			if beach {
				b = Sand
			}
		default:
			b = Grass
			if beach {
				b = Sand
			}
		}
		col[y] = b
	}
	for y := h + 1; y <= g.seaLevel && y < len(col); y++ {
		col[y] = Water
	}
}

func (g *Generator) plantTrees(w *World) {
	seed := g.seed ^ treeSalt
	for x := 2; x < g.bounds.X-2; x++ {
		for z := 2; z < g.bounds.Z-2; z++ {
			r := rng.Mix2(seed, x, z)
			if r%100 >= treeChance {
				continue
			}
			h := w.SurfaceHeight(x, z)
			if h < 0 || w.Get(x, h, z) != Grass {
				continue
			}
			trunk := treeMinHeight + int(r>>8)%2
			if h+trunk+2 >= g.bounds.Y {
				continue
			}
			g.placeTree(w, x, h+1, z, trunk, r)
		}
	}
}

// placeTree grows a trunk of the given height from (x, y, z) and a canopy
// around its top. Leaves only replace air.
func (g *Generator) placeTree(w *World, x, y, z, trunk int, r uint32) {
	top := y + trunk - 1
	for dy := -2; dy <= 1; dy++ {
		radius := 2
		if dy >= 0 {
			radius = 1
		}
		for dx := -radius; dx <= radius; dx++ {
			for dz := -radius; dz <= radius; dz++ {
				corner := (dx == -radius || dx == radius) && (dz == -radius || dz == radius)
				if corner && rng.Mix(r, uint32((dy+2)*25+(dx+2)*5+dz+2))&1 == 0 {
					continue
				}
				if w.Get(x+dx, top+dy, z+dz) == Air {
					w.Set(x+dx, top+dy, z+dz, Leaves)
				}
			}
		}
	}
	for i := 0; i < trunk; i++ {
		w.Set(x, y+i, z, Wood)
	}
}
