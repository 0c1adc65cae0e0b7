// Package headless implements a backend.Backend that renders nothing and
// reports no input: used for batch runs via cmd/dmgo's headless backend
// option.
package headless

import (
	"log/slog"

	"dmgo/backend"
)

// Backend is a no-op backend that counts frames and logs progress.
type Backend struct {
	frameCount int
}

func New() *Backend {
	return &Backend{}
}

func (h *Backend) Init(config backend.Config) error {
	slog.Info("running headless", "title", config.Title)
	return nil
}

func (h *Backend) Update(frame []byte) ([]backend.InputEvent, error) {
	h.frameCount++
	if h.frameCount%60 == 0 {
		slog.Debug("headless frame progress", "frames", h.frameCount)
	}
	return nil, nil
}

func (h *Backend) Cleanup() error {
	return nil
}

// FrameCount returns the number of frames rendered so far.
func (h *Backend) FrameCount() int {
	return h.frameCount
}
