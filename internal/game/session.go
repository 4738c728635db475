package game

import (
	"context"
	"fmt"
	"image"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"m4k/internal/config"
	"m4k/internal/hud"
	"m4k/internal/input"
	"m4k/internal/player"
	"m4k/internal/profiling"
	"m4k/internal/render"
	"m4k/internal/texture"
	"m4k/internal/world"
)

var logger = log.New(os.Stderr, "[game] ", log.LstdFlags)

const (
	MinFOV  = 30
	MaxFOV  = 110
	fovStep = 5 // degrees per wheel notch
)

// Session owns everything one running game needs. It has no window; the
// App feeds it input snapshots and presents the frames it returns.
type Session struct {
	ID       string
	Config   config.Config
	World    *world.World
	Atlas    *texture.Atlas
	Player   *player.Player
	Renderer *render.Renderer

	Paused   bool
	Captured bool
	ShowHUD  bool
	Debug    bool

	frame   *image.RGBA
	fps     fpsCounter
	sampler *profiling.ProcessSampler
}

// NewSession generates the atlas and the world for cfg.Seed and spawns the
// player. Atlas and terrain draw from independent generators, so they are
// built concurrently.
func NewSession(ctx context.Context, cfg config.Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}
	sky, _ := cfg.SkyColor()
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	bounds := world.Bounds{X: cfg.World.Width, Y: cfg.World.Height, Z: cfg.World.Depth}
	gen, err := world.NewGenerator(cfg.Seed, bounds, world.Options{Workers: workers, NoTrees: !cfg.World.Trees})
	if err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}

	start := time.Now()
	var (
		atlas *texture.Atlas
		w     *world.World
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		atlas = texture.Generate(cfg.Seed)
		return nil
	})
	g.Go(func() error {
		var err error
		w, err = gen.Generate(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("game: generate world: %w", err)
	}
	id := uuid.NewString()
	logger.Printf("session %s seed %d: world %v, sea level %d, atlas %d tiles, generated in %v",
		id, cfg.Seed, bounds, gen.SeaLevel(), int(world.NumBlocks)*texture.TilesPerBlock, time.Since(start).Round(time.Millisecond))

	bw, bh := cfg.BufferSize()
	r, err := render.New(render.Options{
		Width:          bw,
		Height:         bh,
		FOV:            cfg.FOVRadians(),
		RenderDistance: cfg.Render.Distance,
		Sky:            sky,
		Fog:            cfg.Render.Fog,
		Workers:        workers,
	})
	if err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}

	p := player.Spawn(w)
	p.Sensitivity = cfg.Input.MouseSensitivity

	return &Session{
		ID:       id,
		Config:   cfg,
		World:    w,
		Atlas:    atlas,
		Player:   p,
		Renderer: r,
		Captured: true,
		ShowHUD:  true,
		frame:    r.NewFrame(),
		sampler:  profiling.NewProcessSampler(time.Second),
	}, nil
}

// Close stops the render workers.
func (s *Session) Close() {
	s.Renderer.Close()
}

// Step advances the game by dt seconds and renders a frame. The returned
// image is reused by the next Step.
func (s *Session) Step(dt float64, snap input.Snapshot) (*image.RGBA, error) {
	s.handleHotkeys(snap)

	if !s.Paused {
		s.Player.Update(dt, snap, s.World)
	}
	s.fps.add(dt)

	view := render.View{Eye: s.Player.Eye(), Yaw: s.Player.Yaw, Pitch: s.Player.Pitch}
	if err := s.Renderer.Render(s.frame, view, s.World, s.Atlas); err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}
	s.drawOverlay()
	return s.frame, nil
}

// Frame returns the most recent frame.
func (s *Session) Frame() *image.RGBA { return s.frame }

func (s *Session) drawOverlay() {
	defer profiling.Track("hud.Draw")()
	if s.Paused {
		const msg = "paused"
		b := s.frame.Bounds()
		hud.DrawText(s.frame, (b.Dx()-hud.TextWidth(msg))/2, (b.Dy()-hud.LineHeight)/2, []string{msg})
	}
	if !s.ShowHUD {
		return
	}
	hud.DrawCrosshair(s.frame)
	if s.Debug {
		hud.DrawText(s.frame, 1, 1, hud.DebugLines(s.DebugInfo()))
	}
}

// DebugInfo collects what the debug overlay shows.
func (s *Session) DebugInfo() hud.Info {
	p := s.Player
	return hud.Info{
		FPS:       s.fps.rate(),
		FrameTime: s.fps.last,
		Seed:      s.World.Seed(),
		Position:  p.Position,
		Yaw:       p.Yaw,
		Pitch:     p.Pitch,
		OnGround:  p.OnGround,
		Target:    p.Target(s.World),
		Paused:    s.Paused,
		Process:   s.sampler.Sample(),
	}
}

// FOV returns the current field of view in degrees.
func (s *Session) FOV() float32 {
	return mgl32.RadToDeg(s.Renderer.Options().FOV)
}

// fpsCounter averages the frame rate over about half a second.
type fpsCounter struct {
	frames  int
	elapsed float64
	current float64
	last    time.Duration
}

func (c *fpsCounter) add(dt float64) {
	c.last = time.Duration(dt * float64(time.Second))
	c.frames++
	c.elapsed += dt
	if c.elapsed >= 0.5 {
		c.current = float64(c.frames) / c.elapsed
		c.frames = 0
		c.elapsed = 0
	}
}

func (c *fpsCounter) rate() float64 { return c.current }
