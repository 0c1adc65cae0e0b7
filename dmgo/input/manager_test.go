package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dmgo/input/action"
	"dmgo/input/event"
	"dmgo/memory"
)

type fakeJoypad struct {
	down []memory.Key
	up   []memory.Key
}

func (f *fakeJoypad) KeyDown(key memory.Key) { f.down = append(f.down, key) }
func (f *fakeJoypad) KeyUp(key memory.Key)   { f.up = append(f.up, key) }

func TestTriggerRoutesGameInputToJoypad(t *testing.T) {
	jp := &fakeJoypad{}
	m := NewManager(jp)

	m.Trigger(action.GBButtonA, event.Press)
	m.Trigger(action.GBDPadUp, event.Release)

	require.Len(t, jp.down, 1)
	assert.Equal(t, memory.KeyA, jp.down[0])
	require.Len(t, jp.up, 1)
	assert.Equal(t, memory.KeyUp, jp.up[0])
}

func TestTriggerInvokesEmulatorCallback(t *testing.T) {
	jp := &fakeJoypad{}
	m := NewManager(jp)

	fired := 0
	m.On(action.EmulatorQuit, event.Press, func() { fired++ })

	m.Trigger(action.EmulatorQuit, event.Press)
	assert.Equal(t, 1, fired)

	// Debounced: a second immediate trigger should not fire again.
	m.Trigger(action.EmulatorQuit, event.Press)
	assert.Equal(t, 1, fired, "debounced repeat should not have fired again")
}

func TestTriggerWithNilJoypadDoesNotPanic(t *testing.T) {
	m := NewManager(nil)
	assert.NotPanics(t, func() {
		m.Trigger(action.GBButtonB, event.Press)
	})
}
