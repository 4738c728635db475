package graphics

import (
	"fmt"
	"log"
	"os"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

var logger = log.New(os.Stderr, "[graphics] ", log.LstdFlags)

// OpenWindow creates a window with a current OpenGL 4.1 core context and
// loads the GL bindings. glfw.Init must have been called on this thread.
func OpenWindow(title string, width, height int) (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	window, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}
	window.MakeContextCurrent()

	// Initialize OpenGL bindings
	if err := gl.Init(); err != nil {
		window.Destroy()
		return nil, fmt.Errorf("init gl: %w", err)
	}
	logger.Printf("OpenGL %s", gl.GoStr(gl.GetString(gl.VERSION)))

	// Disable V-Sync; the frame loop paces itself
	glfw.SwapInterval(0)
	return window, nil
}

// SetCaptured switches the cursor between captured (hidden, relative
// motion) and normal.
func SetCaptured(window *glfw.Window, captured bool) {
	mode := glfw.CursorNormal
	if captured {
		mode = glfw.CursorDisabled
	}
	window.SetInputMode(glfw.CursorMode, mode)
	if captured && glfw.RawMouseMotionSupported() {
		window.SetInputMode(glfw.RawMouseMotion, glfw.True)
	}
}
