package memory

import "dmgo/bit"

// Key is one of the eight physical buttons.
type Key uint8

const (
	KeyA Key = iota
	KeyB
	KeySelect
	KeyStart
	KeyRight
	KeyLeft
	KeyUp
	KeyDown
)

// Joypad models register 0xFF00: a row-select nibble and two 4-bit key
// rows. key_state bit layout: direction row (high nibble) Down/Up/Left/Right,
// button row (low nibble) Start/Select/B/A; 0 means pressed.
type Joypad struct {
	selectDirections bool
	selectButtons    bool

	keyState byte // 1 = released, 0 = pressed, bit layout above

	irq bool
}

func NewJoypad() *Joypad {
	return &Joypad{keyState: 0xFF}
}

func (j *Joypad) Read(address uint16) byte {
	row := byte(0x0F)
	if j.selectDirections {
		row &= (j.keyState >> 4) & 0x0F
	}
	if j.selectButtons {
		row &= j.keyState & 0x0F
	}

	result := row | 0xC0 // bits 6-7 always read high
	result = bit.SetTo(4, result, !j.selectDirections)
	result = bit.SetTo(5, result, !j.selectButtons)
	return result
}

func (j *Joypad) Write(address uint16, value byte) {
	j.selectDirections = !bit.IsSet(4, value)
	j.selectButtons = !bit.IsSet(5, value)
}

// KeyDown marks key as pressed, raising the joypad interrupt on the
// press-edge (transition from released to pressed).
func (j *Joypad) KeyDown(key Key) {
	if bit.IsSet(uint8(key), j.keyState) {
		j.irq = true
	}
	j.keyState = bit.Reset(uint8(key), j.keyState)
}

// KeyUp marks key as released.
func (j *Joypad) KeyUp(key Key) {
	j.keyState = bit.Set(uint8(key), j.keyState)
}

// IsIRQJoypad reports whether a key-press edge occurred since the last call,
// consuming the flag.
func (j *Joypad) IsIRQJoypad() bool {
	fired := j.irq
	j.irq = false
	return fired
}
