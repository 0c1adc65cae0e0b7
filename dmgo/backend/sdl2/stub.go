//go:build !sdl2

package sdl2

import (
	"fmt"

	"dmgo/backend"
)

// Backend stands in for the real SDL2 backend when built without the sdl2
// tag (and thus without the SDL2 development libraries).
type Backend struct{}

func New() *Backend {
	return &Backend{}
}

func (s *Backend) Init(config backend.Config) error {
	return fmt.Errorf("sdl2 backend not available: rebuild with -tags sdl2 and SDL2 installed")
}

func (s *Backend) Update(frame []byte) ([]backend.InputEvent, error) {
	return nil, fmt.Errorf("sdl2 backend not available")
}

func (s *Backend) Cleanup() error {
	return nil
}
