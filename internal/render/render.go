package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"m4k/internal/profiling"
	"m4k/internal/texture"
	"m4k/internal/world"
)

// ErrInvalidSize is returned for a zero or negative frame size, or when the
// destination image does not match the renderer.
var ErrInvalidSize = errors.New("render: invalid frame size")

// DefaultSky is the classic Minecraft4k sky colour.
var DefaultSky = color.RGBA{R: 0x80, G: 0xc0, B: 0xff, A: 0xff}

// Options configure a Renderer.
type Options struct {
	Width, Height  int
	FOV            float32 // horizontal, radians
	RenderDistance float32 // in blocks
	Sky            color.RGBA
	Fog            bool
	Workers        int // <= 1 renders on the calling goroutine
}

// View is the camera pose for one frame. Yaw 0 looks toward -Z and grows
// clockwise seen from above; positive pitch looks up.
type View struct {
	Eye        mgl32.Vec3
	Yaw, Pitch float32
}

// Renderer turns a View into a frame by marching one ray per pixel through
// the voxel grid. World and Atlas are only read.
type Renderer struct {
	opts Options
	pool *pool
}

// New validates opts and starts the worker pool when Workers > 1.
func New(opts Options) (*Renderer, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, opts.Width, opts.Height)
	}
	if opts.FOV <= 0 || opts.FOV >= math.Pi {
		return nil, fmt.Errorf("render: field of view %v out of range (0, pi)", opts.FOV)
	}
	if opts.RenderDistance <= 0 {
		return nil, fmt.Errorf("render: render distance must be positive, got %v", opts.RenderDistance)
	}
	if opts.Sky.A == 0 {
		opts.Sky = DefaultSky
	}
	r := &Renderer{opts: opts}
	if opts.Workers > 1 {
		r.pool = newPool(opts.Workers)
	}
	return r, nil
}

func (r *Renderer) Options() Options { return r.opts }

// SetFOV changes the horizontal field of view. Values outside (0, pi) are
// ignored. Not safe to call during Render.
func (r *Renderer) SetFOV(fov float32) {
	if fov > 0 && fov < math.Pi {
		r.opts.FOV = fov
	}
}

// SetFog toggles distance fog. Not safe to call during Render.
func (r *Renderer) SetFog(on bool) { r.opts.Fog = on }

// NewFrame allocates an image of the renderer's size.
func (r *Renderer) NewFrame() *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, r.opts.Width, r.opts.Height))
}

// Close stops the worker pool. The renderer must not be used afterwards.
func (r *Renderer) Close() {
	if r.pool != nil {
		r.pool.shutdown()
		r.pool = nil
	}
}

// Render draws the view into dst, which must be Width x Height with its
// origin at (0, 0). Every pixel is written.
func (r *Renderer) Render(dst *image.RGBA, view View, w *world.World, a *texture.Atlas) error {
	defer profiling.Track("render.Frame")()

	b := dst.Bounds()
	if b.Min != (image.Point{}) || b.Dx() != r.opts.Width || b.Dy() != r.opts.Height {
		return fmt.Errorf("%w: frame %v, renderer %dx%d", ErrInvalidSize, b, r.opts.Width, r.opts.Height)
	}

	job := &frameJob{
		dst:   dst,
		cam:   r.camera(view),
		world: w,
		atlas: a,
	}
	if r.pool == nil {
		job.columns(0, r.opts.Width)
		return nil
	}
	r.pool.run(job, r.opts.Width)
	return nil
}

// camera holds everything a worker needs to shade one pixel.
type camera struct {
	eye            mgl32.Vec3
	forward, right mgl32.Vec3
	up             mgl32.Vec3
	tanX, tanY     float32
	width, height  int
	maxDist        float32
	fog            bool
	sky            color.RGBA
}

func (r *Renderer) camera(v View) camera {
	f, rt, up := basis(v.Yaw, v.Pitch)
	tanX := float32(math.Tan(float64(r.opts.FOV) / 2))
	return camera{
		eye:     v.Eye,
		forward: f,
		right:   rt,
		up:      up,
		tanX:    tanX,
		tanY:    tanX * float32(r.opts.Height) / float32(r.opts.Width),
		width:   r.opts.Width,
		height:  r.opts.Height,
		maxDist: r.opts.RenderDistance,
		fog:     r.opts.Fog,
		sky:     r.opts.Sky,
	}
}

// basis returns the forward, right and up vectors of a camera.
func basis(yaw, pitch float32) (f, r, u mgl32.Vec3) {
	sy, cy := math.Sincos(float64(yaw))
	sp, cp := math.Sincos(float64(pitch))
	f = mgl32.Vec3{float32(sy * cp), float32(sp), float32(-cy * cp)}
	r = mgl32.Vec3{float32(cy), 0, float32(sy)}
	u = mgl32.Vec3{float32(-sy * sp), float32(cp), float32(cy * sp)}
	return f, r, u
}

// PixelDir returns the direction of the ray through the centre of pixel
// (x, y) of a frame rendered with opts. It is not normalised.
func PixelDir(opts Options, view View, x, y int) mgl32.Vec3 {
	r := Renderer{opts: opts}
	c := r.camera(view)
	return c.dir(x, y)
}

func (c *camera) dir(x, y int) mgl32.Vec3 {
	sx := (2*(float32(x)+0.5)/float32(c.width) - 1) * c.tanX
	sy := (1 - 2*(float32(y)+0.5)/float32(c.height)) * c.tanY
	return c.forward.Add(c.right.Mul(sx)).Add(c.up.Mul(sy))
}

type frameJob struct {
	dst   *image.RGBA
	cam   camera
	world *world.World
	atlas *texture.Atlas
}

// columns renders every pixel with x0 <= x < x1.
func (j *frameJob) columns(x0, x1 int) {
	c := &j.cam
	for y := 0; y < c.height; y++ {
		row := j.dst.Pix[y*j.dst.Stride:]
		for x := x0; x < x1; x++ {
			col := c.sky
			h := Trace(c.eye, c.dir(x, y), c.maxDist, j.world, j.atlas)
			if h.Hit {
				col = c.shadeHit(h)
			}
			i := x * 4
			row[i+0] = col.R
			row[i+1] = col.G
			row[i+2] = col.B
			row[i+3] = 0xff
		}
	}
}

func (c *camera) shadeHit(h Hit) color.RGBA {
	col := Shade(h.Color, h.Face)
	if c.fog {
		col = Fog(col, c.sky, h.Dist, c.maxDist)
	}
	return col
}
