package graphics

import (
	"errors"
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Presenter copies a CPU pixel buffer to the default framebuffer. It owns
// one texture and a read framebuffer wrapping it; no shaders are involved.
type Presenter struct {
	texture     uint32
	framebuffer uint32
	width       int
	height      int
}

// NewPresenter allocates GPU storage for width x height frames. A GL
// context must be current.
func NewPresenter(width, height int) (*Presenter, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("graphics: invalid presenter size %dx%d", width, height)
	}
	p := &Presenter{width: width, height: height}

	gl.GenTextures(1, &p.texture)
	gl.BindTexture(gl.TEXTURE_2D, p.texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.GenFramebuffers(1, &p.framebuffer)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, p.framebuffer)
	gl.FramebufferTexture2D(gl.READ_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, p.texture, 0)
	status := gl.CheckFramebufferStatus(gl.READ_FRAMEBUFFER)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		p.Dispose()
		return nil, fmt.Errorf("graphics: framebuffer incomplete: 0x%x", status)
	}
	return p, nil
}

var errFrameMismatch = errors.New("graphics: frame does not match presenter")

// Present uploads img and scales it to fill a winW x winH window, keeping
// the aspect ratio. The caller swaps buffers.
func (p *Presenter) Present(img *image.RGBA, winW, winH int) error {
	b := img.Bounds()
	if b.Dx() != p.width || b.Dy() != p.height || img.Stride != 4*p.width {
		return fmt.Errorf("%w: %v stride %d, want %dx%d", errFrameMismatch, b, img.Stride, p.width, p.height)
	}
	if winW <= 0 || winH <= 0 {
		// Minimised.
		return nil
	}

	gl.BindTexture(gl.TEXTURE_2D, p.texture)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(p.width), int32(p.height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(winW), int32(winH))
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	dst := FitRect(p.width, p.height, winW, winH)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, p.framebuffer)
	// Image rows run top to bottom, GL rows bottom to top: flip on the way.
	gl.BlitFramebuffer(
		0, 0, int32(p.width), int32(p.height),
		int32(dst.Min.X), int32(dst.Max.Y), int32(dst.Max.X), int32(dst.Min.Y),
		gl.COLOR_BUFFER_BIT, gl.NEAREST,
	)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	return nil
}

// FitRect returns the largest rectangle with the aspect ratio of w x h
// centred in a winW x winH window, in GL window coordinates.
func FitRect(w, h, winW, winH int) image.Rectangle {
	if w <= 0 || h <= 0 || winW <= 0 || winH <= 0 {
		return image.Rectangle{}
	}
	dw, dh := winW, winW*h/w
	if dh > winH {
		dw, dh = winH*w/h, winH
	}
	x0 := (winW - dw) / 2
	y0 := (winH - dh) / 2
	return image.Rect(x0, y0, x0+dw, y0+dh)
}

// Dispose releases the GPU objects.
func (p *Presenter) Dispose() {
	if p.framebuffer != 0 {
		gl.DeleteFramebuffers(1, &p.framebuffer)
		p.framebuffer = 0
	}
	if p.texture != 0 {
		gl.DeleteTextures(1, &p.texture)
		p.texture = 0
	}
}
