package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dmgo/addr"
	"dmgo/memory"
)

func newTestCPU() *CPU {
	return New(memory.New())
}

func TestFlagLowNibbleAlwaysZero(t *testing.T) {
	c := newTestCPU()
	c.setZ(true)
	c.setN(true)
	c.setH(true)
	c.setC(true)
	assert.Zero(t, c.af.Low()&0x0F)
	assert.Equal(t, uint8(0xF0), c.af.Low())
}

func TestPushPopAFIdentity(t *testing.T) {
	c := newTestCPU()
	c.af.Set(0x12CD) // low nibble of F (0x0D) must normalize to 0 on the round trip
	c.sp = 0xFFF0
	opcodeMap[0xF5](c) // PUSH AF
	c.af.Set(0x0000)
	opcodeMap[0xF1](c) // POP AF
	assert.Zero(t, c.af.Low()&0x0F)
	assert.Equal(t, uint8(0x12), c.af.High())
}

func TestSwapSwapIdentity(t *testing.T) {
	c := newTestCPU()
	for _, v := range []uint8{0x00, 0xFF, 0xA5, 0x1E, 0x80} {
		assert.Equal(t, v, c.swap(c.swap(v)))
	}
}

func TestBitResSetRoundTrip(t *testing.T) {
	c := newTestCPU()
	for bitIndex := uint8(0); bitIndex < 8; bitIndex++ {
		v := uint8(0x00)
		op := opcodeCBMap[0xC0+bitIndex*8] // SET bitIndex,B
		c.bc.SetHigh(v)
		op(c)
		assert.NotZero(t, c.bc.High()&(1<<bitIndex), "SET %d,B did not set bit", bitIndex)

		resOp := opcodeCBMap[0x80+bitIndex*8] // RES bitIndex,B
		resOp(c)
		assert.Zero(t, c.bc.High(), "RES %d,B left %#02x, want 0", bitIndex, c.bc.High())
	}
}

func TestIncReg8OverflowToZeroSetsZandH(t *testing.T) {
	c := newTestCPU()
	c.bc.SetHigh(0xFF)
	c.inc8(0) // B
	assert.Equal(t, uint8(0x00), c.bc.High())
	assert.True(t, c.Z())
	assert.True(t, c.H())
}

func TestDecReg8UnderflowToFFSetsH(t *testing.T) {
	c := newTestCPU()
	c.bc.SetHigh(0x00)
	c.dec8(0) // B
	assert.Equal(t, uint8(0xFF), c.bc.High())
	assert.True(t, c.H())
	assert.True(t, c.N())
}

func TestAddSPSignedNegativeWraparound(t *testing.T) {
	c := newTestCPU()
	c.sp = 0x0000
	result := c.addSPSigned(0xFF) // -1
	assert.Equal(t, uint16(0xFFFF), result)
	assert.False(t, c.Z())
	assert.False(t, c.N())
}

func TestDAABoundaryNinetyNinePlusOne(t *testing.T) {
	c := newTestCPU()
	c.af.SetHigh(0x99)
	c.add8(0x01) // A=0x9A, H and C both clear since no nibble/byte carry occurred
	c.daa()
	assert.Equal(t, uint8(0x00), c.af.High())
	assert.True(t, c.Z())
	assert.True(t, c.C())
}

func TestInterruptPriorityOrder(t *testing.T) {
	mmu := memory.New()
	c := New(mmu)
	c.ime = true
	c.sp = 0xFFF0

	mmu.Write(addr.IE, 0x1F)
	mmu.RequestInterrupt(addr.TimerInterrupt)
	mmu.RequestInterrupt(addr.VBlankInterrupt)
	mmu.RequestInterrupt(addr.JoypadInterrupt)

	cycles := c.serviceInterrupt()
	require.Equal(t, 20, cycles)
	assert.Equal(t, addr.VBlankInterrupt.Vector(), c.pc, "want VBlank vector (highest priority pending)")
	assert.Zero(t, mmu.PendingInterrupts()&byte(addr.VBlankInterrupt), "VBlank still pending after service")
	assert.NotZero(t, mmu.PendingInterrupts()&byte(addr.TimerInterrupt), "want Timer interrupt request still pending")
}

func TestStepTicksTimerForInterruptServiceCycles(t *testing.T) {
	mmu := memory.New()
	c := New(mmu)
	c.ime = true
	c.pc = 0xC000

	mmu.Write(addr.TAC, 0x05) // enabled, tap every 16 cycles
	mmu.Write(addr.IE, byte(addr.VBlankInterrupt))
	mmu.RequestInterrupt(addr.VBlankInterrupt)
	mmu.Write(0xC000, 0x00) // NOP: 4 cycles, then a 20-cycle interrupt dispatch

	cycles, err := c.Step()
	require.NoError(t, err)
	require.Equal(t, 24, cycles, "want NOP's 4 cycles plus the 20-cycle interrupt dispatch")
	assert.Equal(t, byte(1), mmu.Read(addr.TIMA),
		"the 20 dispatch cycles must reach the timer too, not just the returned total")
}

func TestEnableInterruptsTakesEffectAfterFollowingInstruction(t *testing.T) {
	mmu := memory.New()
	c := New(mmu)
	c.pc = 0xC000
	mmu.Write(0xC000, 0xFB) // EI
	mmu.Write(0xC001, 0x00) // NOP
	mmu.Write(0xC002, 0x00) // NOP

	_, err := c.Step() // executes EI
	require.NoError(t, err)
	assert.False(t, c.ime, "want ime false until after the instruction following EI")

	_, err = c.Step() // executes the instruction following EI
	require.NoError(t, err)
	assert.True(t, c.ime)
}

func TestUndefinedOpcodeReturnsFatalDecodeError(t *testing.T) {
	mmu := memory.New()
	c := New(mmu)
	c.pc = 0xC000
	mmu.Write(0xC000, 0xD3) // undefined

	_, err := c.execute()
	var decodeErr *FatalDecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, byte(0xD3), decodeErr.Opcode)
}

func TestHaltHoldsUntilInterruptPending(t *testing.T) {
	mmu := memory.New()
	c := New(mmu)
	c.Halt()

	cycles, err := c.execute()
	require.NoError(t, err)
	assert.Equal(t, 4, cycles)
	assert.True(t, c.halt, "halt cleared with no pending interrupt")

	mmu.Write(addr.IE, byte(addr.VBlankInterrupt))
	mmu.RequestInterrupt(addr.VBlankInterrupt)
	c.pc = 0xC000
	mmu.Write(0xC000, 0x00) // NOP, executed once halt breaks

	_, err = c.execute()
	require.NoError(t, err)
	assert.False(t, c.halt, "halt still set after a pending interrupt should have broken it")
}
