//go:build sdl2

// Package sdl2 implements a backend.Backend with go-sdl2, blitting the
// grayscale framebuffer to a streaming texture and forwarding keyboard
// events. No audio device is opened: audio is out of scope.
package sdl2

import (
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"

	"dmgo/backend"
	"dmgo/display"
	"dmgo/input/action"
	"dmgo/input/event"
	"dmgo/video"
)

const (
	windowWidth  = display.DefaultWindowWidth
	windowHeight = display.DefaultWindowHeight
)

// Backend renders the Game Boy screen in an SDL2 window.
type Backend struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	running  bool

	pixelBuffer []byte
	eventBuffer []backend.InputEvent
}

func New() *Backend {
	return &Backend{}
}

func (s *Backend) Init(config backend.Config) error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("sdl2: init: %w", err)
	}

	title := config.Title
	if title == "" {
		title = "dmgo"
	}

	window, err := sdl.CreateWindow(title, sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		windowWidth, windowHeight, sdl.WINDOW_SHOWN)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("sdl2: create window: %w", err)
	}
	s.window = window

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("sdl2: create renderer: %w", err)
	}
	s.renderer = renderer

	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_RGBA8888, sdl.TEXTUREACCESS_STREAMING,
		video.FramebufferWidth, video.FramebufferHeight)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("sdl2: create texture: %w", err)
	}
	s.texture = texture

	s.window.Show()
	s.running = true
	s.pixelBuffer = make([]byte, video.FramebufferWidth*video.FramebufferHeight*display.RGBABytesPerPixel)
	s.eventBuffer = make([]backend.InputEvent, 0, 8)

	slog.Info("sdl2 backend initialized")
	return nil
}

func (s *Backend) Update(frame []byte) ([]backend.InputEvent, error) {
	s.eventBuffer = s.eventBuffer[:0]

	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		s.handleEvent(ev)
	}

	if !s.running {
		return s.eventBuffer, nil
	}

	s.renderFrame(frame)
	return s.eventBuffer, nil
}

func (s *Backend) Cleanup() error {
	slog.Info("cleaning up sdl2 backend")
	if s.texture != nil {
		s.texture.Destroy()
	}
	if s.renderer != nil {
		s.renderer.Destroy()
	}
	if s.window != nil {
		s.window.Destroy()
	}
	sdl.Quit()
	return nil
}

func (s *Backend) renderFrame(frame []byte) {
	for i, gray := range frame {
		dst := i * display.RGBABytesPerPixel
		s.pixelBuffer[dst] = display.FullAlpha
		s.pixelBuffer[dst+1] = gray
		s.pixelBuffer[dst+2] = gray
		s.pixelBuffer[dst+3] = gray
	}

	s.texture.Update(nil, unsafe.Pointer(&s.pixelBuffer[0]), video.FramebufferWidth*display.RGBABytesPerPixel)
	s.renderer.SetDrawColor(display.GrayscaleBlack, display.GrayscaleBlack, display.GrayscaleBlack, display.FullAlpha)
	s.renderer.Clear()
	s.renderer.Copy(s.texture, nil, nil)
	s.renderer.Present()
}

func (s *Backend) handleEvent(evt sdl.Event) {
	switch e := evt.(type) {
	case *sdl.QuitEvent:
		s.running = false
		s.eventBuffer = append(s.eventBuffer, backend.InputEvent{Action: action.EmulatorQuit, Type: event.Press})
	case *sdl.KeyboardEvent:
		act, ok := keyMapping[e.Keysym.Sym]
		if !ok {
			return
		}
		switch e.Type {
		case sdl.KEYDOWN:
			if act == action.EmulatorQuit {
				s.running = false
			}
			s.eventBuffer = append(s.eventBuffer, backend.InputEvent{Action: act, Type: event.Press})
		case sdl.KEYUP:
			s.eventBuffer = append(s.eventBuffer, backend.InputEvent{Action: act, Type: event.Release})
		}
	}
}

var keyMapping = map[sdl.Keycode]action.Action{
	sdl.K_ESCAPE: action.EmulatorQuit,
	sdl.K_SPACE:  action.EmulatorPauseToggle,
	sdl.K_o:      action.EmulatorStepFrame,

	sdl.K_RETURN:    action.GBButtonStart,
	sdl.K_BACKSPACE: action.GBButtonSelect,
	sdl.K_z:         action.GBButtonA,
	sdl.K_x:         action.GBButtonB,
	sdl.K_UP:        action.GBDPadUp,
	sdl.K_DOWN:      action.GBDPadDown,
	sdl.K_LEFT:      action.GBDPadLeft,
	sdl.K_RIGHT:     action.GBDPadRight,
}
