package render

import (
	"image/color"

	"m4k/internal/world"
)

// faceShade fakes a light from above and slightly to the side.
var faceShade = [world.NumFaces]uint32{
	world.FaceTop:    255,
	world.FaceNorth:  204,
	world.FaceSouth:  204,
	world.FaceEast:   180,
	world.FaceWest:   180,
	world.FaceBottom: 128,
}

// Shade darkens c by the multiplier of face.
func Shade(c color.RGBA, face world.Face) color.RGBA {
	if face >= world.NumFaces {
		return c
	}
	s := faceShade[face]
	return color.RGBA{
		R: uint8(uint32(c.R) * s / 255),
		G: uint8(uint32(c.G) * s / 255),
		B: uint8(uint32(c.B) * s / 255),
		A: c.A,
	}
}

// Fog blends c toward sky linearly over the second half of maxDist.
func Fog(c, sky color.RGBA, dist, maxDist float32) color.RGBA {
	half := maxDist / 2
	if maxDist <= 0 || dist <= half {
		return c
	}
	t := min((dist-half)/half, 1)
	mix := func(a, b uint8) uint8 {
		return uint8(float32(a) + (float32(b)-float32(a))*t + 0.5)
	}
	return color.RGBA{
		R: mix(c.R, sky.R),
		G: mix(c.G, sky.G),
		B: mix(c.B, sky.B),
		A: c.A,
	}
}
