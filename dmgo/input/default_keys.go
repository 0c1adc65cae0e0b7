package input

import "dmgo/input/action"

// DefaultKeyMap provides default key-name to action mappings shared across
// backends; a backend translates its own native key event into one of
// these names before dispatching.
var DefaultKeyMap = map[string]action.Action{
	"z":     action.GBButtonA,
	"x":     action.GBButtonB,
	"Enter": action.GBButtonStart,
	"Shift": action.GBButtonSelect,
	"Up":    action.GBDPadUp,
	"Down":  action.GBDPadDown,
	"Left":  action.GBDPadLeft,
	"Right": action.GBDPadRight,

	"w": action.GBDPadUp,
	"s": action.GBDPadDown,
	"a": action.GBDPadLeft,
	"d": action.GBDPadRight,

	"Space":  action.EmulatorPauseToggle,
	"p":      action.EmulatorPauseToggle,
	"o":      action.EmulatorStepFrame,
	"Escape": action.EmulatorQuit,
	"q":      action.EmulatorQuit,
}

// GetDefaultMapping returns the action bound to key, if any.
func GetDefaultMapping(key string) (action.Action, bool) {
	act, ok := DefaultKeyMap[key]
	return act, ok
}
