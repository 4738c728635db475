package texture

import (
	"crypto/sha256"
	"image"
	"image/color"

	"m4k/internal/rng"
	"m4k/internal/world"
)

const (
	// TileSize is the edge length of every tile in texels.
	TileSize = 16
	// TilesPerBlock is the number of tiles per material: top, side, bottom.
	TilesPerBlock = 3

	stripHeight = TileSize * TilesPerBlock
	blockStride = TileSize * stripHeight
)

// Atlas holds TilesPerBlock square tiles for every block kind, stored as
// one vertical strip per block. It is read-only after Generate.
type Atlas struct {
	texels []color.RGBA
}

var baseColors = [world.NumBlocks]uint32{
	world.Grass:   0x966c4a,
	world.Dirt:    0x966c4a,
	world.Stone:   0x7f7f7f,
	world.Brick:   0xb53a15,
	world.Wood:    0x675231,
	world.Leaves:  0x50d937,
	world.Water:   0x4040ff,
	world.Sand:    0xdbd3a0,
	world.Planks:  0xb4905a,
	world.Gravel:  0x8c8080,
	world.Bedrock: 0x555555,
}

// Generate synthesises the atlas for seed. The draw order (blocks
// ascending, strip rows top to bottom, texels left to right) is fixed, so
// the same seed always yields the same texels.
func Generate(seed uint32) *Atlas {
	a := &Atlas{texels: make([]color.RGBA, int(world.NumBlocks)*blockStride)}
	src := rng.New(seed)
	for b := world.Block(1); b < world.NumBlocks; b++ {
		a.paint(b, src)
	}
	return a
}

func (a *Atlas) paint(b world.Block, src *rng.Source) {
	strip := a.texels[int(b)*blockStride : int(b+1)*blockStride]
	br := 255 - src.Intn(96)
	for y := 0; y < stripHeight; y++ {
		for x := 0; x < TileSize; x++ {
			col := baseColors[b]
			if b != world.Stone || src.Intn(3) == 0 {
				br = 255 - src.Intn(96)
			}
			transparent := false

			switch b {
			case world.Grass:
				edge := ((x*x*3 + x*81) >> 2) & 3
				if y < edge+18 {
					col = 0x6aaa40
				} else if y < edge+19 {
					br = br * 2 / 3
				}
			case world.Wood:
				if x > 0 && x < 15 && ((y > 0 && y < 15) || (y > 32 && y < 47)) {
					col = 0xbc9862
					xd, yd := x-7, (y&15)-7
					if xd < 0 {
						xd = 1 - xd
					}
					if yd < 0 {
						yd = 1 - yd
					}
					xd = max(xd, yd)
					br = 196 - src.Intn(32) + xd%3*32
				} else if src.Intn(2) == 0 {
					br = br * (150 - (x&1)*100) / 100
				}
			case world.Brick:
				if (x+(y>>2)*4)%8 == 0 || y%4 == 0 {
					col = 0xbcafa5
				}
			case world.Planks:
				if y%4 == 0 || (x+(y>>2)*5)%TileSize == 0 {
					br = br * 3 / 4
				}
			case world.Gravel:
				if src.Intn(3) == 0 {
					br = br * 2 / 3
				}
			case world.Bedrock:
				br = 255 - src.Intn(200)
			case world.Leaves:
				if src.Intn(2) == 0 {
					transparent = true
				}
			}

			shade := br
			if y >= 2*TileSize {
				shade /= 2
			}
			i := y*TileSize + x
			if transparent {
				strip[i] = color.RGBA{}
				continue
			}
			strip[i] = color.RGBA{
				R: scale(col>>16, shade),
				G: scale(col>>8, shade),
				B: scale(col, shade),
				A: 0xff,
			}
		}
	}
}

func scale(c uint32, br int) uint8 {
	v := int(c&0xff) * br / 255
	return uint8(min(max(v, 0), 255))
}

// Texel returns the texel at (u, v) of the tile used for face of block b.
// u grows along the tile's horizontal axis, v downwards from the top edge.
// Coordinates are wrapped into the tile.
func (a *Atlas) Texel(b world.Block, face world.Face, u, v int) color.RGBA {
	if !b.Valid() {
		return color.RGBA{}
	}
	u &= TileSize - 1
	v &= TileSize - 1
	row := face.TileRow()*TileSize + v
	return a.texels[int(b)*blockStride+row*TileSize+u]
}

// Tile returns a copy of one tile as an image, mostly for inspection.
func (a *Atlas) Tile(b world.Block, face world.Face) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, TileSize, TileSize))
	for v := 0; v < TileSize; v++ {
		for u := 0; u < TileSize; u++ {
			img.SetRGBA(u, v, a.Texel(b, face, u, v))
		}
	}
	return img
}

// Digest returns a SHA-256 over every texel.
func (a *Atlas) Digest() [32]byte {
	raw := make([]byte, 0, len(a.texels)*4)
	for _, c := range a.texels {
		raw = append(raw, c.R, c.G, c.B, c.A)
	}
	return sha256.Sum256(raw)
}
