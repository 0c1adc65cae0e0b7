package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEchoRAMMirrorsWRAM(t *testing.T) {
	m := New()
	m.Write(0xC010, 0x55)
	assert.Equal(t, byte(0x55), m.Read(0xE010))

	m.Write(0xE020, 0xAA)
	assert.Equal(t, byte(0xAA), m.Read(0xC020))
}

func TestEchoRAMFollowsBankSwitch(t *testing.T) {
	m := New()
	m.Write(0xFF70, 3)
	m.Write(0xD500, 0x7E)
	assert.Equal(t, byte(0x7E), m.Read(0xF500), "echo should follow the banked view")
}

func TestIFUpperBitsReadAsOne(t *testing.T) {
	m := New()
	m.Write(0xFF0F, 0x00)
	assert.Equal(t, byte(0xE0), m.Read(0xFF0F)&0xE0, "upper 3 bits should read as 1")
}

func TestOAMDMARejectsOutOfRangeSourceSilently(t *testing.T) {
	m := New()
	assert.NotPanics(t, func() {
		m.performOAMDMA(0xFF)
	})
}
