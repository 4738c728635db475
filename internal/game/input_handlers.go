package game

import (
	"github.com/go-gl/mathgl/mgl32"

	"m4k/internal/input"
)

// handleHotkeys applies the keys that act on a press rather than while
// held.
func (s *Session) handleHotkeys(snap input.Snapshot) {
	pressed := snap.Pressed

	if pressed(input.KeyEsc) {
		s.SetPaused(!s.Paused)
	}
	// Clicking into the paused game resumes it.
	if s.Paused && snap.Mouse.Clicked {
		s.SetPaused(false)
	}
	if pressed(input.KeyF1) {
		s.ShowHUD = !s.ShowHUD
	}
	if pressed(input.KeyF3) {
		s.Debug = !s.Debug
	}
	if pressed(input.KeyF) {
		opts := s.Renderer.Options()
		s.Renderer.SetFog(!opts.Fog)
	}
	if snap.Mouse.Wheel != 0 {
		s.zoom(float32(snap.Mouse.Wheel))
	}
}

// SetPaused pauses or resumes the game. The mouse is captured exactly
// while the game runs.
func (s *Session) SetPaused(paused bool) {
	s.Paused = paused
	s.Captured = !paused
}

// zoom narrows the field of view for a positive wheel motion.
func (s *Session) zoom(notches float32) {
	fov := mgl32.Clamp(s.FOV()-notches*fovStep, MinFOV, MaxFOV)
	s.Renderer.SetFOV(mgl32.DegToRad(fov))
}
