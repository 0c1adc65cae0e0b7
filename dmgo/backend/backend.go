// Package backend defines the interface every emulator frontend (terminal,
// SDL2, headless) implements, plus the shared config/event types they pass
// across it.
package backend

import (
	"dmgo/input/action"
	"dmgo/input/event"
)

// InputEvent is a single action/event pair a backend observed this update.
type InputEvent struct {
	Action action.Action
	Type   event.Type
}

// Backend is a complete host platform: it renders a frame and reports the
// input events collected while doing so.
type Backend interface {
	// Init configures the backend. Must be called once before Update.
	Init(config Config) error

	// Update renders frame (a FramebufferWidth*FramebufferHeight grayscale
	// byte slice, see dmgo/video) and returns the input events observed
	// since the previous call.
	Update(frame []byte) ([]InputEvent, error)

	// Cleanup releases any platform resources.
	Cleanup() error
}

// Config holds backend configuration supplied by the CLI.
type Config struct {
	Title      string
	Scale      int
	VSync      bool
	Fullscreen bool
}
