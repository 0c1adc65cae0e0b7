// Package input debounces raw backend key events into actions and routes
// them either straight to the joypad or to emulator-level callbacks.
package input

import (
	"time"

	"dmgo/input/action"
	"dmgo/input/event"
	"dmgo/memory"
)

// debounceDuration is the minimum time between repeated debounced events.
const debounceDuration = 200 * time.Millisecond

// Joypad is the subset of memory.Joypad the manager needs to drive.
type Joypad interface {
	KeyDown(key memory.Key)
	KeyUp(key memory.Key)
}

// Manager dispatches input actions to the joypad or to registered callbacks.
type Manager struct {
	handlers      map[action.Action]map[event.Type][]func()
	lastTriggered map[action.Action]map[event.Type]time.Time
	joypad        Joypad
}

func NewManager(joypad Joypad) *Manager {
	return &Manager{
		handlers:      make(map[action.Action]map[event.Type][]func()),
		lastTriggered: make(map[action.Action]map[event.Type]time.Time),
		joypad:        joypad,
	}
}

// On registers a callback for an action/event pair.
func (m *Manager) On(act action.Action, evt event.Type, callback func()) {
	if m.handlers[act] == nil {
		m.handlers[act] = make(map[event.Type][]func())
	}
	m.handlers[act][evt] = append(m.handlers[act][evt], callback)
}

// Trigger dispatches act/evt, debouncing actions flagged Debounce in their
// action.Info.
func (m *Manager) Trigger(act action.Action, evt event.Type) {
	info := action.GetInfo(act)
	if info.Debounce {
		if m.lastTriggered[act] == nil {
			m.lastTriggered[act] = make(map[event.Type]time.Time)
		}
		now := time.Now()
		if now.Sub(m.lastTriggered[act][evt]) < debounceDuration {
			return
		}
		m.lastTriggered[act][evt] = now
	}

	if info.Category == action.CategoryGameInput {
		if key, ok := joypadKey(act); ok && m.joypad != nil {
			switch evt {
			case event.Press:
				m.joypad.KeyDown(key)
			case event.Release:
				m.joypad.KeyUp(key)
			}
		}
		return
	}

	for _, callback := range m.handlers[act][evt] {
		callback()
	}
}

// joypadKey maps a Game Boy button action to the corresponding joypad key.
func joypadKey(act action.Action) (memory.Key, bool) {
	switch act {
	case action.GBButtonA:
		return memory.KeyA, true
	case action.GBButtonB:
		return memory.KeyB, true
	case action.GBButtonStart:
		return memory.KeyStart, true
	case action.GBButtonSelect:
		return memory.KeySelect, true
	case action.GBDPadUp:
		return memory.KeyUp, true
	case action.GBDPadDown:
		return memory.KeyDown, true
	case action.GBDPadLeft:
		return memory.KeyLeft, true
	case action.GBDPadRight:
		return memory.KeyRight, true
	default:
		return 0, false
	}
}
