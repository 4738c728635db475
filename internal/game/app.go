package game

import (
	"context"
	"fmt"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"m4k/internal/graphics"
	"m4k/internal/input"
	"m4k/internal/profiling"
)

// App connects a Session to a window: it polls input, steps the session,
// presents the frame and paces the loop. Everything runs on the thread
// that owns the GL context.
type App struct {
	window    *glfw.Window
	collector *input.Collector
	presenter *graphics.Presenter
	session   *Session

	fpsLimiter *FPSLimiter
	budget     time.Duration
	lastTime   time.Time
	captured   bool
}

// NewApp attaches the input collector to window and allocates the
// presenter. The GL context of window must be current.
func NewApp(window *glfw.Window, collector *input.Collector, session *Session) (*App, error) {
	w, h := session.Frame().Bounds().Dx(), session.Frame().Bounds().Dy()
	presenter, err := graphics.NewPresenter(w, h)
	if err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}

	a := &App{
		window:     window,
		collector:  collector,
		presenter:  presenter,
		session:    session,
		fpsLimiter: NewFPSLimiter(session.Config.MaxFPS),
		budget:     session.Config.FrameBudget(),
		lastTime:   time.Now(),
	}

	collector.Attach(window)
	window.SetFocusCallback(func(_ *glfw.Window, focused bool) {
		if !focused {
			a.session.SetPaused(true)
		}
	})
	window.SetRefreshCallback(func(_ *glfw.Window) {
		a.present()
	})
	a.syncCapture(true)
	return a, nil
}

// Run loops until the window is closed or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	for !a.window.ShouldClose() {
		if err := ctx.Err(); err != nil {
			return nil
		}
		if err := a.tick(); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) tick() error {
	profiling.ResetFrame()
	start := time.Now()
	dt := start.Sub(a.lastTime).Seconds()
	a.lastTime = start

	func() { defer profiling.Track("glfw.PollEvents")(); glfw.PollEvents() }()

	snap := a.collector.Snapshot()
	if _, err := a.session.Step(dt, snap); err != nil {
		return err
	}
	a.syncCapture(false)

	a.present()
	func() { defer profiling.Track("glfw.SwapBuffers")(); a.window.SwapBuffers() }()

	// Check if frame took too long
	d := time.Since(start)
	if profiling.ObserveFrame(d, a.budget) {
		logger.Printf("Slow frame: %v. Top tasks: %s", d.Round(10*time.Microsecond), profiling.TopN(5))
	}

	a.fpsLimiter.Wait(a.session.Paused)
	return nil
}

func (a *App) present() {
	defer profiling.Track("graphics.Present")()
	w, h := a.window.GetFramebufferSize()
	if err := a.presenter.Present(a.session.Frame(), w, h); err != nil {
		logger.Printf("present: %v", err)
	}
}

// syncCapture applies the session's wish for a captured cursor to the
// window and the collector.
func (a *App) syncCapture(force bool) {
	want := a.session.Captured
	if !force && want == a.captured {
		return
	}
	a.captured = want
	graphics.SetCaptured(a.window, want)
	a.collector.SetCaptured(want)
}

// Close releases GPU resources. The window is left to the caller.
func (a *App) Close() {
	a.presenter.Dispose()
}
