// Package terminal implements a backend.Backend using tcell, rendering the
// Game Boy framebuffer as half-block characters and routing keyboard events
// into the input package's default key bindings.
package terminal

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"dmgo/backend"
	"dmgo/display"
	"dmgo/input"
	"dmgo/input/action"
	"dmgo/input/event"
	"dmgo/video"
)

const (
	width  = video.FramebufferWidth
	height = video.FramebufferHeight

	minTermWidth  = width + 2
	minTermHeight = height/2 + 2

	// keyTimeout is how long a key is considered held after its last
	// keypress event, approximating key-repeat as a continuous hold.
	keyTimeout = 100 * time.Millisecond
)

// Backend renders the Game Boy screen to a tcell terminal window.
type Backend struct {
	screen  tcell.Screen
	running bool

	keyStates  map[action.Action]time.Time
	activeKeys map[action.Action]bool

	eventQueue []backend.InputEvent
}

func New() *Backend {
	return &Backend{}
}

func (t *Backend) Init(config backend.Config) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: init screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal: init screen: %w", err)
	}

	t.screen = screen
	t.running = true
	t.keyStates = make(map[action.Action]time.Time)
	t.activeKeys = make(map[action.Action]bool)

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	slog.Info("terminal backend initialized", "title", config.Title)
	return nil
}

func (t *Backend) Update(frame []byte) ([]backend.InputEvent, error) {
	if !t.running {
		return nil, nil
	}

	now := time.Now()
	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			t.processKeyEvent(ev, now)
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}

	events := t.collectGameInputEvents(now)
	events = append(events, t.eventQueue...)
	t.eventQueue = nil

	t.render(frame)
	t.screen.Show()

	return events, nil
}

func (t *Backend) Cleanup() error {
	if t.screen != nil {
		t.screen.Fini()
	}
	return nil
}

func (t *Backend) collectGameInputEvents(now time.Time) []backend.InputEvent {
	var events []backend.InputEvent
	currentlyActive := make(map[action.Action]bool)

	for act, lastPressed := range t.keyStates {
		if now.Sub(lastPressed) >= keyTimeout {
			delete(t.keyStates, act)
			continue
		}
		currentlyActive[act] = true
		if !t.activeKeys[act] {
			events = append(events, backend.InputEvent{Action: act, Type: event.Press})
		}
	}

	for act := range t.activeKeys {
		if !currentlyActive[act] {
			events = append(events, backend.InputEvent{Action: act, Type: event.Release})
		}
	}

	t.activeKeys = currentlyActive
	return events
}

func (t *Backend) processKeyEvent(ev *tcell.EventKey, now time.Time) {
	if ev.Key() == tcell.KeyCtrlC {
		t.running = false
		t.eventQueue = append(t.eventQueue, backend.InputEvent{Action: action.EmulatorQuit, Type: event.Press})
		return
	}

	keyName, ok := tcellKeyName(ev)
	if !ok {
		return
	}
	act, ok := input.GetDefaultMapping(keyName)
	if !ok {
		return
	}

	info := action.GetInfo(act)
	if info.Category == action.CategoryGameInput {
		t.keyStates[act] = now
		return
	}
	t.eventQueue = append(t.eventQueue, backend.InputEvent{Action: act, Type: event.Press})
}

var tcellSpecialKeyNames = map[tcell.Key]string{
	tcell.KeyEnter:  "Enter",
	tcell.KeyUp:     "Up",
	tcell.KeyDown:   "Down",
	tcell.KeyLeft:   "Left",
	tcell.KeyRight:  "Right",
	tcell.KeyEscape: "Escape",
}

func tcellKeyName(ev *tcell.EventKey) (string, bool) {
	if name, ok := tcellSpecialKeyNames[ev.Key()]; ok {
		return name, true
	}
	if ev.Key() == tcell.KeyRune {
		if ev.Rune() == ' ' {
			return "Space", true
		}
		return string(ev.Rune()), true
	}
	return "", false
}

func (t *Backend) render(frame []byte) {
	termWidth, termHeight := t.screen.Size()
	if termWidth < minTermWidth || termHeight < minTermHeight {
		t.screen.Clear()
		msg := fmt.Sprintf("terminal too small, need at least %dx%d", minTermWidth, minTermHeight)
		style := tcell.StyleDefault.Foreground(tcell.ColorRed)
		for i, ch := range msg {
			t.screen.SetContent(i, termHeight/2, ch, nil, style)
		}
		return
	}

	t.screen.Clear()
	for y := 0; y < height; y += 2 {
		for x := 0; x < width; x++ {
			topShade := display.Shade(frame[y*width+x])
			bottomShade := 0
			if y+1 < height {
				bottomShade = display.Shade(frame[(y+1)*width+x])
			}
			style := tcell.StyleDefault.Foreground(shadeColor[topShade]).Background(shadeColor[bottomShade])
			t.screen.SetContent(x, y/2, '▀', nil, style)
		}
	}
}

var shadeColor = [4]tcell.Color{
	tcell.ColorWhite,
	tcell.ColorSilver,
	tcell.ColorGray,
	tcell.ColorBlack,
}
