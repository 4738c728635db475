package input

import (
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Key is a logical key, not a physical one
type Key int

const (
	KeyForward Key = iota
	KeyBack
	KeyLeft
	KeyRight
	KeyJump
	KeyEsc
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyE
	KeyT
	KeyF
	KeyNum0
	KeyNum1
	KeyNum2
	KeyNum3
	KeyNum4
	KeyNum5
	KeyNum6
	KeyNum7
	KeyNum8
	KeyNum9
	KeyCount // Sentinel value for array sizing
)

// Num returns the logical key for digit n, 0-9.
func Num(n int) Key {
	if n < 0 || n > 9 {
		return KeyCount
	}
	return KeyNum0 + Key(n)
}

// Keys holds the held state of every logical key.
type Keys [KeyCount]bool

// Mouse is the pointer state for one frame. DX, DY and Wheel accumulate
// between snapshots; DX and DY only move while the cursor is captured.
// Clicked is set by any left press since the previous snapshot, even one
// already released.
type Mouse struct {
	X, Y     float64
	DX, DY   float64
	Left     bool
	Right    bool
	Clicked  bool
	Wheel    float64
	Captured bool
}

// Snapshot is everything the simulation sees of the user for one frame.
// Keys is the held state at snapshot time; Taps records every key that
// went down since the previous snapshot.
type Snapshot struct {
	Keys  Keys
	Taps  Keys
	Mouse Mouse
	Typed rune
}

// Down reports whether k is held.
func (s Snapshot) Down(k Key) bool {
	if k < 0 || k >= KeyCount {
		return false
	}
	return s.Keys[k]
}

// Pressed reports whether k went down during the frame.
func (s Snapshot) Pressed(k Key) bool {
	if k < 0 || k >= KeyCount {
		return false
	}
	return s.Taps[k]
}

// Collector accumulates glfw events into a Snapshot. Callbacks and
// Snapshot may run on different goroutines.
type Collector struct {
	mu sync.Mutex

	keyBindings map[glfw.Key]Key

	// physical keys currently down, with the logical key they pressed
	held  map[glfw.Key]Key
	count [KeyCount]int
	cur   Snapshot

	lastX, lastY float64
	haveLast     bool
}

// NewCollector creates a Collector with the default key bindings
func NewCollector() *Collector {
	c := &Collector{
		keyBindings: make(map[glfw.Key]Key),
		held:        make(map[glfw.Key]Key),
	}

	c.Bind(glfw.KeyW, KeyForward)
	c.Bind(glfw.KeyS, KeyBack)
	c.Bind(glfw.KeyA, KeyLeft)
	c.Bind(glfw.KeyD, KeyRight)
	c.Bind(glfw.KeyUp, KeyForward)
	c.Bind(glfw.KeyDown, KeyBack)
	c.Bind(glfw.KeyLeft, KeyLeft)
	c.Bind(glfw.KeyRight, KeyRight)
	c.Bind(glfw.KeySpace, KeyJump)
	c.Bind(glfw.KeyEscape, KeyEsc)
	c.Bind(glfw.KeyF1, KeyF1)
	c.Bind(glfw.KeyF2, KeyF2)
	c.Bind(glfw.KeyF3, KeyF3)
	c.Bind(glfw.KeyF4, KeyF4)
	c.Bind(glfw.KeyE, KeyE)
	c.Bind(glfw.KeyT, KeyT)
	c.Bind(glfw.KeyF, KeyF)
	for i := 0; i <= 9; i++ {
		c.Bind(glfw.Key0+glfw.Key(i), Num(i))
	}

	return c
}

// Bind maps a physical key to a logical key, replacing any earlier binding
// for that physical key.
func (c *Collector) Bind(key glfw.Key, k Key) {
	if k < 0 || k >= KeyCount {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keyBindings[key] = k
}

// Unbind removes the binding for a physical key
func (c *Collector) Unbind(key glfw.Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.keyBindings, key)
}

// HandleKeyEvent processes a key event and updates internal state. Edges
// are recorded when the event arrives, so a press and release between two
// snapshots still shows up in Taps. A logical key stays down while any
// physical key bound to it is held.
func (c *Collector) HandleKeyEvent(key glfw.Key, action glfw.Action) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch action {
	case glfw.Press, glfw.Repeat:
		if _, down := c.held[key]; down {
			return
		}
		k, ok := c.keyBindings[key]
		if !ok {
			return
		}
		c.held[key] = k
		c.count[k]++
		c.cur.Keys[k] = true
		c.cur.Taps[k] = true
	case glfw.Release:
		k, down := c.held[key]
		if !down {
			return
		}
		delete(c.held, key)
		c.count[k]--
		c.cur.Keys[k] = c.count[k] > 0
	}
}

// HandleMouseButtonEvent processes a mouse button event
func (c *Collector) HandleMouseButtonEvent(button glfw.MouseButton, action glfw.Action) {
	c.mu.Lock()
	defer c.mu.Unlock()

	down := action == glfw.Press
	switch button {
	case glfw.MouseButtonLeft:
		c.cur.Mouse.Left = down
		c.cur.Mouse.Clicked = c.cur.Mouse.Clicked || down
	case glfw.MouseButtonRight:
		c.cur.Mouse.Right = down
	}
}

// HandleCursorPos records the cursor position. While captured the motion
// since the previous event is added to DX and DY. The first event after a
// capture change only sets the reference point.
func (c *Collector) HandleCursorPos(x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cur.Mouse.Captured && c.haveLast {
		c.cur.Mouse.DX += x - c.lastX
		c.cur.Mouse.DY += y - c.lastY
	}
	c.lastX, c.lastY = x, y
	c.haveLast = true
	c.cur.Mouse.X, c.cur.Mouse.Y = x, y
}

// HandleScroll accumulates vertical wheel motion.
func (c *Collector) HandleScroll(_, yoff float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur.Mouse.Wheel += yoff
}

// HandleChar records the last character typed this frame.
func (c *Collector) HandleChar(r rune) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur.Typed = r
}

// SetCaptured switches between relative (captured) and absolute pointer
// mode. Pending motion is dropped.
func (c *Collector) SetCaptured(captured bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur.Mouse.Captured = captured
	c.cur.Mouse.DX, c.cur.Mouse.DY = 0, 0
	c.haveLast = false
}

// Snapshot returns the state for this frame and clears the per-frame
// fields: taps, clicks, typed character, wheel and pointer motion. Held
// keys and buttons carry over.
func (c *Collector) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.cur
	c.cur.Taps = Keys{}
	c.cur.Mouse.Clicked = false
	c.cur.Typed = 0
	c.cur.Mouse.Wheel = 0
	c.cur.Mouse.DX, c.cur.Mouse.DY = 0, 0
	return s
}

// Attach installs the glfw callbacks for this collector on window.
// This should be called once during initialization
func (c *Collector) Attach(window *glfw.Window) {
	window.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		c.HandleKeyEvent(key, action)
	})
	window.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		c.HandleMouseButtonEvent(button, action)
	})
	window.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		c.HandleCursorPos(x, y)
	})
	window.SetScrollCallback(func(_ *glfw.Window, xoff, yoff float64) {
		c.HandleScroll(xoff, yoff)
	})
	window.SetCharCallback(func(_ *glfw.Window, r rune) {
		c.HandleChar(r)
	})
}
