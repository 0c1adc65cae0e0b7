// Package action enumerates the input actions a backend can dispatch to
// the input manager: the eight Game Boy buttons plus the handful of
// emulator-level actions (pause, single-step, quit) every backend needs
// regardless of how it reads raw key events.
package action

type Action int

const (
	GBButtonA Action = iota
	GBButtonB
	GBButtonStart
	GBButtonSelect
	GBDPadUp
	GBDPadDown
	GBDPadLeft
	GBDPadRight

	EmulatorPauseToggle
	EmulatorStepFrame
	EmulatorQuit
)

// Category groups actions for routing purposes: game input goes straight
// to the joypad, the rest are handled by the backend/emulator loop.
type Category int

const (
	CategoryGameInput Category = iota
	CategoryEmulator
)

// Info carries metadata about an action.
type Info struct {
	Action      Action
	Category    Category
	Debounce    bool // true if the action should trigger once per press, not repeat
	Description string
}

var infoMap = map[Action]Info{
	GBButtonA:      {Action: GBButtonA, Category: CategoryGameInput, Description: "A button"},
	GBButtonB:      {Action: GBButtonB, Category: CategoryGameInput, Description: "B button"},
	GBButtonStart:  {Action: GBButtonStart, Category: CategoryGameInput, Description: "Start button"},
	GBButtonSelect: {Action: GBButtonSelect, Category: CategoryGameInput, Description: "Select button"},
	GBDPadUp:       {Action: GBDPadUp, Category: CategoryGameInput, Description: "D-Pad Up"},
	GBDPadDown:     {Action: GBDPadDown, Category: CategoryGameInput, Description: "D-Pad Down"},
	GBDPadLeft:     {Action: GBDPadLeft, Category: CategoryGameInput, Description: "D-Pad Left"},
	GBDPadRight:    {Action: GBDPadRight, Category: CategoryGameInput, Description: "D-Pad Right"},

	EmulatorPauseToggle: {Action: EmulatorPauseToggle, Category: CategoryEmulator, Debounce: true, Description: "Toggle pause"},
	EmulatorStepFrame:   {Action: EmulatorStepFrame, Category: CategoryEmulator, Debounce: true, Description: "Step one instruction"},
	EmulatorQuit:        {Action: EmulatorQuit, Category: CategoryEmulator, Debounce: true, Description: "Quit"},
}

// GetInfo returns metadata for a, or a generic, non-debounced default for
// an action with none registered.
func GetInfo(a Action) Info {
	if info, ok := infoMap[a]; ok {
		return info
	}
	return Info{Action: a, Category: CategoryEmulator}
}
